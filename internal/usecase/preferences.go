package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"CryptoDash/internal/domain/models"
	drepo "CryptoDash/internal/domain/repository"
)

type PreferencesUseCase struct {
	prefs drepo.PreferencesRepository
	now   func() time.Time
}

func NewPreferencesUseCase(prefs drepo.PreferencesRepository) *PreferencesUseCase {
	return &PreferencesUseCase{prefs: prefs, now: time.Now}
}

// Get returns the stored record, or the defaults with CompletedOnboarding
// false when the user has not saved anything yet.
func (uc *PreferencesUseCase) Get(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	p, err := uc.prefs.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, drepo.ErrNotFound) {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	d := models.DefaultPreferences()
	return &models.UserPreferences{
		UserID:           userID,
		InterestedAssets: d.InterestedAssets,
		InvestorType:     d.InvestorType,
		ContentTypes:     d.ContentTypes,
	}, nil
}

// Save creates or replaces the preferences and marks onboarding complete.
// The request is expected to be validated already.
func (uc *PreferencesUseCase) Save(ctx context.Context, userID uuid.UUID, req *models.SavePreferencesRequest) (*models.UserPreferences, error) {
	now := uc.now().UTC()
	p := &models.UserPreferences{
		UserID:              userID,
		InterestedAssets:    models.NormalizeAssets(req.InterestedAssets),
		InvestorType:        req.InvestorType,
		ContentTypes:        models.NormalizeContentTypes(req.ContentTypes),
		CompletedOnboarding: true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.prefs.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}
	return p, nil
}
