package usecase

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"

	"CryptoDash/internal/domain/models"
	drepo "CryptoDash/internal/domain/repository"
	"CryptoDash/internal/services/fallback"
	"CryptoDash/pkg/config"
	"CryptoDash/pkg/logger"
	"CryptoDash/pkg/metrics"
)

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) Create(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUsers) Update(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

type mockPrefs struct {
	mock.Mock
}

func (m *mockPrefs) Get(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserPreferences), args.Error(1)
}

func (m *mockPrefs) Upsert(ctx context.Context, p *models.UserPreferences) error {
	return m.Called(ctx, p).Error(0)
}

// memPrefs is a map-backed PreferencesRepository for round-trip tests.
type memPrefs struct {
	mu   sync.Mutex
	data map[uuid.UUID]models.UserPreferences
}

func newMemPrefs() *memPrefs {
	return &memPrefs{data: make(map[uuid.UUID]models.UserPreferences)}
}

func (m *memPrefs) Get(_ context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.data[userID]
	if !ok {
		return nil, drepo.ErrNotFound
	}
	return &p, nil
}

func (m *memPrefs) Upsert(_ context.Context, p *models.UserPreferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[p.UserID] = *p
	return nil
}

type mockPrices struct {
	mock.Mock
}

func (m *mockPrices) Prices(ctx context.Context, symbols []string) ([]models.CoinPrice, error) {
	args := m.Called(ctx, symbols)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CoinPrice), args.Error(1)
}

type mockNews struct {
	mock.Mock
}

func (m *mockNews) News(ctx context.Context, symbols []string, contentTypes []string) ([]models.NewsArticle, error) {
	args := m.Called(ctx, symbols, contentTypes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NewsArticle), args.Error(1)
}

type mockInsight struct {
	mock.Mock
}

func (m *mockInsight) Insight(ctx context.Context, prefs models.ResolvedPreferences) (models.Insight, error) {
	args := m.Called(ctx, prefs)
	return args.Get(0).(models.Insight), args.Error(1)
}

type stubMemes struct{}

func (stubMemes) Pick(assets []string) models.Meme {
	return models.Meme{ID: "doge-moon", URL: "/static/memes/doge-moon.svg", Title: "Much Moon", Source: "CryptoDash"}
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, ev models.FeedbackEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *mockPublisher) Close() error { return nil }

type mockFeedbackRepo struct {
	mock.Mock
}

func (m *mockFeedbackRepo) Create(ctx context.Context, r *models.FeedbackRecord) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockFeedbackRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.FeedbackRecord, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FeedbackRecord), args.Error(1)
}

type mockSink struct {
	mock.Mock
}

func (m *mockSink) StoreBatch(ctx context.Context, events []models.FeedbackEvent) error {
	return m.Called(ctx, events).Error(0)
}

func (m *mockSink) Health(ctx context.Context) error { return nil }

func testMetrics() drepo.Metrics {
	return metrics.NewWithRegisterer(prometheus.NewRegistry())
}

func testConfig(timeout time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.Providers.Price.Timeout = timeout
	cfg.Providers.News.Timeout = timeout
	cfg.Providers.Insight.Timeout = timeout
	return cfg
}

type providerMocks struct {
	prices  *mockPrices
	news    *mockNews
	insight *mockInsight
}

func newTestAdapters(t *testing.T, timeout time.Duration) (*ProviderAdapters, providerMocks) {
	t.Helper()
	pm := providerMocks{prices: new(mockPrices), news: new(mockNews), insight: new(mockInsight)}
	a := NewProviderAdapters(
		testConfig(timeout),
		pm.prices, pm.news, pm.insight, stubMemes{},
		fallback.NewNewsGeneratorWithSource(rand.NewSource(1), time.Now),
		fallback.NewInsightGeneratorWithSource(rand.NewSource(1)),
		testMetrics(),
		logger.Nop(),
	)
	return a, pm
}
