package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"CryptoDash/internal/domain/models"
	drepo "CryptoDash/internal/domain/repository"
	"CryptoDash/pkg/logger"
)

// DashboardUseCase composes the personalized dashboard.
type DashboardUseCase struct {
	users    drepo.UserRepository
	resolver *PreferenceResolver
	adapters *ProviderAdapters
	metrics  drepo.Metrics
	log      *logger.Logger
	now      func() time.Time
}

func NewDashboardUseCase(users drepo.UserRepository, resolver *PreferenceResolver, adapters *ProviderAdapters, metrics drepo.Metrics, l *logger.Logger) *DashboardUseCase {
	return &DashboardUseCase{
		users:    users,
		resolver: resolver,
		adapters: adapters,
		metrics:  metrics,
		log:      l,
		now:      time.Now,
	}
}

// GetDashboard returns ErrUserNotFound before any provider is called when the
// user does not exist. Past that point it always returns all four sections.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context, userID uuid.UUID) (*models.Dashboard, error) {
	start := time.Now()

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, drepo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	prefs := uc.resolver.Resolve(ctx, userID)

	res := &models.Dashboard{
		User: models.UserSummary{
			ID:                  user.ID,
			Name:                user.Name,
			Email:               user.Email,
			InvestorType:        prefs.InvestorType,
			InterestedAssets:    prefs.InterestedAssets,
			ContentTypes:        prefs.ContentTypes,
			CompletedOnboarding: !prefs.UsingDefaults,
		},
	}

	type item struct {
		name string
		val  interface{}
	}
	ch := make(chan item, len(models.Sections))
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ch <- item{models.SectionCoinPrices, uc.adapters.Prices(ctx, prefs)}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		ch <- item{models.SectionMarketNews, uc.adapters.News(ctx, prefs)}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		ch <- item{models.SectionAIInsight, uc.adapters.Insight(ctx, prefs)}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		ch <- item{models.SectionMeme, uc.adapters.Meme(ctx, prefs)}
	}()

	go func() { wg.Wait(); close(ch) }()

	fallbacks := 0
	for it := range ch {
		switch it.name {
		case models.SectionCoinPrices:
			r := it.val.(models.AdapterResult[[]models.CoinPrice])
			res.CoinPrices = r.ToSection()
			fallbacks += boolToInt(r.IsFallback)
		case models.SectionMarketNews:
			r := it.val.(models.AdapterResult[[]models.NewsArticle])
			res.MarketNews = r.ToSection()
			fallbacks += boolToInt(r.IsFallback)
		case models.SectionAIInsight:
			r := it.val.(models.AdapterResult[models.Insight])
			res.AIInsight = r.ToSection()
			fallbacks += boolToInt(r.IsFallback)
		case models.SectionMeme:
			r := it.val.(models.AdapterResult[models.Meme])
			res.Meme = r.ToSection()
		}
	}

	res.GeneratedAt = uc.now().UTC()
	uc.metrics.RecordDashboard(fallbacks, time.Since(start).Seconds())
	uc.log.Debug("dashboard composed",
		logger.String("user_id", userID.String()),
		logger.Int("fallback_sections", fallbacks),
		logger.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
