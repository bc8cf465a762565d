package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"CryptoDash/internal/domain/models"
	drepo "CryptoDash/internal/domain/repository"
	"CryptoDash/pkg/logger"
)

const publishTimeout = 2 * time.Second

type FeedbackUseCase struct {
	repo      drepo.FeedbackRepository
	publisher drepo.FeedbackPublisher // nil when the analytics pipeline is off
	metrics   drepo.Metrics
	log       *logger.Logger
	now       func() time.Time
}

func NewFeedbackUseCase(repo drepo.FeedbackRepository, publisher drepo.FeedbackPublisher, metrics drepo.Metrics, l *logger.Logger) *FeedbackUseCase {
	return &FeedbackUseCase{repo: repo, publisher: publisher, metrics: metrics, log: l, now: time.Now}
}

// Submit stores one immutable feedback record. The analytics event is best
// effort and never fails the request.
func (uc *FeedbackUseCase) Submit(ctx context.Context, userID uuid.UUID, req *models.FeedbackRequest) (*models.FeedbackRecord, error) {
	rec := &models.FeedbackRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      req.Type,
		Section:   req.Section,
		ContentID: trimmed(req.ContentID),
		Comment:   trimmed(req.Comment),
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	uc.metrics.RecordFeedback(rec.Section, rec.Type)

	if uc.publisher != nil {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := uc.publisher.Publish(pctx, models.NewFeedbackEvent(rec)); err != nil {
			uc.metrics.RecordError("feedback_publish")
			uc.log.Warn("feedback event not published",
				logger.String("feedback_id", rec.ID.String()), logger.Error(err))
		}
	}
	return rec, nil
}

func (uc *FeedbackUseCase) ListMine(ctx context.Context, userID uuid.UUID, limit int) ([]*models.FeedbackRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	out, err := uc.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	if out == nil {
		out = []*models.FeedbackRecord{}
	}
	return out, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
