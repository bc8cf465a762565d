package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"CryptoDash/internal/domain/models"
	domrepo "CryptoDash/internal/domain/repository"
	"CryptoDash/pkg/postgres"
)

// PGFeedbackRepository appends feedback rows. Rows are never updated.
type PGFeedbackRepository struct {
	db DBTX
}

func NewPGFeedbackRepository(db DBTX) *PGFeedbackRepository {
	return &PGFeedbackRepository{db: db}
}

func (r *PGFeedbackRepository) Create(ctx context.Context, rec *models.FeedbackRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO feedback (id, user_id, type, section, content_id, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.UserID, rec.Type, rec.Section, rec.ContentID, rec.Comment, rec.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return domrepo.ErrAlreadyExist
		}
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (r *PGFeedbackRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.FeedbackRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, type, section, content_id, comment, created_at
		FROM feedback
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	out := make([]*models.FeedbackRecord, 0, limit)
	for rows.Next() {
		var rec models.FeedbackRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Type, &rec.Section, &rec.ContentID, &rec.Comment, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
