package api

import (
	"context"

	"github.com/google/uuid"

	"CryptoDash/internal/domain/models"
)

// Use case contracts consumed by the handlers.

type DashboardService interface {
	GetDashboard(ctx context.Context, userID uuid.UUID) (*models.Dashboard, error)
}

type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResult, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error)
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error)
}

type PreferencesService interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)
	Save(ctx context.Context, userID uuid.UUID, req *models.SavePreferencesRequest) (*models.UserPreferences, error)
}

type FeedbackService interface {
	Submit(ctx context.Context, userID uuid.UUID, req *models.FeedbackRequest) (*models.FeedbackRecord, error)
	ListMine(ctx context.Context, userID uuid.UUID, limit int) ([]*models.FeedbackRecord, error)
}

type AssetResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) models.ResolvedPreferences
}

// HealthChecker is implemented by infrastructure clients that can be pinged.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
