package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"CryptoDash/internal/domain/models"
	domrepo "CryptoDash/internal/domain/repository"
)

// PGPreferencesRepository keeps one preferences row per user.
type PGPreferencesRepository struct {
	db DBTX
}

func NewPGPreferencesRepository(db DBTX) *PGPreferencesRepository {
	return &PGPreferencesRepository{db: db}
}

func (r *PGPreferencesRepository) Get(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	var p models.UserPreferences
	err := r.db.QueryRow(ctx, `
		SELECT user_id, interested_assets, investor_type, content_types, completed_onboarding, created_at, updated_at
		FROM user_preferences
		WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.InterestedAssets, &p.InvestorType, &p.ContentTypes, &p.CompletedOnboarding, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domrepo.ErrNotFound
		}
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return &p, nil
}

// Upsert replaces the whole record; created_at survives the first write.
func (r *PGPreferencesRepository) Upsert(ctx context.Context, p *models.UserPreferences) error {
	assets := p.InterestedAssets
	if assets == nil {
		assets = []string{}
	}
	types := p.ContentTypes
	if types == nil {
		types = []string{}
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO user_preferences (user_id, interested_assets, investor_type, content_types, completed_onboarding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			interested_assets    = EXCLUDED.interested_assets,
			investor_type        = EXCLUDED.investor_type,
			content_types        = EXCLUDED.content_types,
			completed_onboarding = EXCLUDED.completed_onboarding,
			updated_at           = EXCLUDED.updated_at
		RETURNING created_at`,
		p.UserID, assets, p.InvestorType, types, p.CompletedOnboarding, p.UpdatedAt,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}
