package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CryptoDash/internal/domain/models"
	drepo "CryptoDash/internal/domain/repository"
	dservice "CryptoDash/internal/domain/service"
	"CryptoDash/internal/services/fallback"
	"CryptoDash/pkg/config"
	"CryptoDash/pkg/logger"
)

const (
	outcomeLive     = "live"
	outcomeFallback = "fallback"

	defaultAdapterTimeout = 4 * time.Second
)

var errEmptyNews = errors.New("no live articles")

// ProviderAdapters wraps the four providers so that each call is bounded by
// its own timeout and always yields a result. Nothing here returns an error.
type ProviderAdapters struct {
	prices  dservice.PriceProvider
	news    dservice.NewsProvider
	insight dservice.InsightProvider
	memes   dservice.MemeSource

	newsFallback    *fallback.NewsGenerator
	insightFallback *fallback.InsightGenerator

	priceTimeout   time.Duration
	newsTimeout    time.Duration
	insightTimeout time.Duration

	metrics drepo.Metrics
	log     *logger.Logger
	now     func() time.Time
}

func NewProviderAdapters(
	cfg *config.Config,
	prices dservice.PriceProvider,
	news dservice.NewsProvider,
	insight dservice.InsightProvider,
	memes dservice.MemeSource,
	newsFallback *fallback.NewsGenerator,
	insightFallback *fallback.InsightGenerator,
	metrics drepo.Metrics,
	l *logger.Logger,
) *ProviderAdapters {
	return &ProviderAdapters{
		prices:          prices,
		news:            news,
		insight:         insight,
		memes:           memes,
		newsFallback:    newsFallback,
		insightFallback: insightFallback,
		priceTimeout:    orDefault(cfg.Providers.Price.Timeout),
		newsTimeout:     orDefault(cfg.Providers.News.Timeout),
		insightTimeout:  orDefault(cfg.Providers.Insight.Timeout),
		metrics:         metrics,
		log:             l,
		now:             time.Now,
	}
}

func orDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultAdapterTimeout
	}
	return d
}

// Prices never fabricates quotes: on failure the section is an empty list.
func (a *ProviderAdapters) Prices(ctx context.Context, prefs models.ResolvedPreferences) models.AdapterResult[[]models.CoinPrice] {
	res := run(ctx, a, "price", a.priceTimeout,
		func(ctx context.Context) ([]models.CoinPrice, error) {
			return a.prices.Prices(ctx, prefs.InterestedAssets)
		},
		func() []models.CoinPrice { return []models.CoinPrice{} },
		"Live prices are temporarily unavailable.",
	)
	if res.Payload == nil {
		res.Payload = []models.CoinPrice{}
	}
	return res
}

// News falls back to template headlines, also when the live feed is empty.
func (a *ProviderAdapters) News(ctx context.Context, prefs models.ResolvedPreferences) models.AdapterResult[[]models.NewsArticle] {
	return run(ctx, a, "news", a.newsTimeout,
		func(ctx context.Context) ([]models.NewsArticle, error) {
			articles, err := a.news.News(ctx, prefs.InterestedAssets, prefs.ContentTypes)
			if err != nil {
				return nil, err
			}
			if len(articles) == 0 {
				return nil, errEmptyNews
			}
			if len(articles) > fallback.MaxArticles {
				articles = articles[:fallback.MaxArticles]
			}
			return articles, nil
		},
		func() []models.NewsArticle { return a.newsFallback.Generate(prefs.InterestedAssets) },
		"Showing curated headlines while the live news feed is unavailable.",
	)
}

func (a *ProviderAdapters) Insight(ctx context.Context, prefs models.ResolvedPreferences) models.AdapterResult[models.Insight] {
	return run(ctx, a, "insight", a.insightTimeout,
		func(ctx context.Context) (models.Insight, error) {
			return a.insight.Insight(ctx, prefs)
		},
		func() models.Insight { return a.insightFallback.Generate(prefs.InvestorType, prefs.InterestedAssets) },
		"AI insight is unavailable, showing a general tip instead.",
	)
}

// Meme is an in-memory lookup and has no failure branch.
func (a *ProviderAdapters) Meme(_ context.Context, prefs models.ResolvedPreferences) models.AdapterResult[models.Meme] {
	start := time.Now()
	m := a.memes.Pick(prefs.InterestedAssets)
	a.metrics.RecordProviderCall("meme", outcomeLive, time.Since(start).Seconds())
	return models.AdapterResult[models.Meme]{Payload: m, FinishedAt: a.now().UTC()}
}

type callResult[T any] struct {
	val T
	err error
}

// run executes call in its own goroutine so that neither a slow provider
// ignoring its context nor a panic can escape the adapter.
func run[T any](
	ctx context.Context,
	a *ProviderAdapters,
	name string,
	timeout time.Duration,
	call func(context.Context) (T, error),
	fb func() T,
	note string,
) models.AdapterResult[T] {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan callResult[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callResult[T]{err: fmt.Errorf("provider panic: %v", r)}
			}
		}()
		v, err := call(ctx)
		done <- callResult[T]{val: v, err: err}
	}()

	var err error
	var val T
	select {
	case r := <-done:
		val, err = r.val, r.err
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err == nil {
		a.metrics.RecordProviderCall(name, outcomeLive, time.Since(start).Seconds())
		return models.AdapterResult[T]{Payload: val, FinishedAt: a.now().UTC()}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		note += " (timed out)"
	}
	a.log.Warn("provider failed, using fallback",
		logger.String("provider", name),
		logger.Duration("elapsed", time.Since(start)),
		logger.Error(err),
	)
	a.metrics.RecordProviderCall(name, outcomeFallback, time.Since(start).Seconds())
	return models.AdapterResult[T]{
		Payload:    fb(),
		IsFallback: true,
		ErrorNote:  note,
		FinishedAt: a.now().UTC(),
	}
}
