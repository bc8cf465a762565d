package repository

import (
	"context"
	"errors"

	"CryptoDash/internal/domain/models"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrAlreadyExist = errors.New("record already exists")
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
}

type PreferencesRepository interface {
	// Get returns ErrNotFound when the user never saved preferences.
	Get(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)
	Upsert(ctx context.Context, p *models.UserPreferences) error
}

type FeedbackRepository interface {
	Create(ctx context.Context, r *models.FeedbackRecord) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.FeedbackRecord, error)
}

// FeedbackPublisher ships feedback events to the analytics pipeline.
type FeedbackPublisher interface {
	Publish(ctx context.Context, ev models.FeedbackEvent) error
	Close() error
}

// FeedbackSink is the analytics store fed by the consumer.
type FeedbackSink interface {
	StoreBatch(ctx context.Context, events []models.FeedbackEvent) error
	Health(ctx context.Context) error
}

type Metrics interface {
	RecordProviderCall(provider, outcome string, seconds float64)
	RecordDashboard(fallbackSections int, seconds float64)
	RecordFeedback(section, kind string)
	RecordCacheLookup(name string, hit bool)
	RecordError(kind string)
}
