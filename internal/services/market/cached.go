package market

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"CryptoDash/internal/domain/models"
	drepo "CryptoDash/internal/domain/repository"
	dservice "CryptoDash/internal/domain/service"
	"CryptoDash/pkg/cache"
	"CryptoDash/pkg/logger"
)

const (
	priceKeyPrefix = "prices"
	newsKeyPrefix  = "news"
)

// shared runs fn at most once per key across concurrent callers. The call
// gets its own timeout and ignores any single caller's cancellation, while
// each caller still stops waiting when its own ctx is done.
func shared[T any](ctx context.Context, g *singleflight.Group, key string, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ch := g.DoChan(key, func() (v interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in %s lookup: %v", key, r)
			}
		}()
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		return fn(callCtx)
	})

	var zero T
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// CachedPrices serves live quotes from cache and coalesces identical
// concurrent lookups. Only successful responses are stored.
type CachedPrices struct {
	next    dservice.PriceProvider
	cache   cache.Service
	ttl     time.Duration
	timeout time.Duration
	metrics drepo.Metrics
	log     *logger.Logger
	group   singleflight.Group
}

// NewCachedPrices wraps next. timeout bounds one shared upstream call.
func NewCachedPrices(next dservice.PriceProvider, c cache.Service, ttl, timeout time.Duration, m drepo.Metrics, l *logger.Logger) *CachedPrices {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &CachedPrices{next: next, cache: c, ttl: ttl, timeout: timeout, metrics: m, log: l}
}

func (p *CachedPrices) Prices(ctx context.Context, symbols []string) ([]models.CoinPrice, error) {
	symbols = models.NormalizeAssets(symbols)
	key := cache.SetKey(priceKeyPrefix, symbols)

	var cached []models.CoinPrice
	if err := p.cache.Get(ctx, key, &cached); err == nil {
		p.metrics.RecordCacheLookup(priceKeyPrefix, true)
		return cached, nil
	}
	p.metrics.RecordCacheLookup(priceKeyPrefix, false)

	return shared(ctx, &p.group, key, p.timeout, func(ctx context.Context) ([]models.CoinPrice, error) {
		prices, err := p.next.Prices(ctx, symbols)
		if err != nil {
			return nil, err
		}
		if len(prices) > 0 {
			if err := p.cache.Set(ctx, key, prices, p.ttl); err != nil {
				p.log.Warn("price cache write failed", logger.String("key", key), logger.Error(err))
			}
		}
		return prices, nil
	})
}

// CachedNews is the news counterpart of CachedPrices.
type CachedNews struct {
	next    dservice.NewsProvider
	cache   cache.Service
	ttl     time.Duration
	timeout time.Duration
	metrics drepo.Metrics
	log     *logger.Logger
	group   singleflight.Group
}

func NewCachedNews(next dservice.NewsProvider, c cache.Service, ttl, timeout time.Duration, m drepo.Metrics, l *logger.Logger) *CachedNews {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &CachedNews{next: next, cache: c, ttl: ttl, timeout: timeout, metrics: m, log: l}
}

func (n *CachedNews) News(ctx context.Context, symbols []string, contentTypes []string) ([]models.NewsArticle, error) {
	symbols = models.NormalizeAssets(symbols)
	key := cache.SetKey(newsKeyPrefix, append(append([]string(nil), symbols...), "kind="+postKind(contentTypes)))

	var cached []models.NewsArticle
	if err := n.cache.Get(ctx, key, &cached); err == nil {
		n.metrics.RecordCacheLookup(newsKeyPrefix, true)
		return cached, nil
	}
	n.metrics.RecordCacheLookup(newsKeyPrefix, false)

	return shared(ctx, &n.group, key, n.timeout, func(ctx context.Context) ([]models.NewsArticle, error) {
		articles, err := n.next.News(ctx, symbols, contentTypes)
		if err != nil {
			return nil, err
		}
		if len(articles) > 0 {
			if err := n.cache.Set(ctx, key, articles, n.ttl); err != nil {
				n.log.Warn("news cache write failed", logger.String("key", key), logger.Error(err))
			}
		}
		return articles, nil
	})
}
