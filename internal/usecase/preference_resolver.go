package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"CryptoDash/internal/domain/models"
	drepo "CryptoDash/internal/domain/repository"
	"CryptoDash/pkg/logger"
)

// PreferenceResolver turns stored preferences into adapter input.
type PreferenceResolver struct {
	prefs drepo.PreferencesRepository
	log   *logger.Logger
}

func NewPreferenceResolver(prefs drepo.PreferencesRepository, l *logger.Logger) *PreferenceResolver {
	return &PreferenceResolver{prefs: prefs, log: l}
}

// Resolve never fails. Missing, unfinished or unreadable preferences yield the
// defaults; a completed record with an empty field gets that field defaulted.
func (r *PreferenceResolver) Resolve(ctx context.Context, userID uuid.UUID) models.ResolvedPreferences {
	stored, err := r.prefs.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, drepo.ErrNotFound) {
			r.log.Warn("preferences lookup failed, using defaults",
				logger.String("user_id", userID.String()), logger.Error(err))
		}
		return models.DefaultPreferences()
	}
	return Resolve(stored)
}

// Resolve is the pure part of PreferenceResolver.Resolve.
func Resolve(stored *models.UserPreferences) models.ResolvedPreferences {
	if stored == nil || !stored.CompletedOnboarding {
		return models.DefaultPreferences()
	}
	out := models.ResolvedPreferences{
		InterestedAssets: models.NormalizeAssets(stored.InterestedAssets),
		ContentTypes:     models.NormalizeContentTypes(stored.ContentTypes),
		InvestorType:     stored.InvestorType,
	}
	if len(out.InterestedAssets) == 0 {
		out.InterestedAssets = append([]string(nil), models.DefaultAssets...)
	}
	if len(out.ContentTypes) == 0 {
		out.ContentTypes = append([]string(nil), models.DefaultContentTypes...)
	}
	if !models.IsInvestorType(out.InvestorType) {
		out.InvestorType = models.DefaultInvestorType
	}
	return out
}
