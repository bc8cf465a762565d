package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"CryptoDash/internal/domain/models"
	drepo "CryptoDash/internal/domain/repository"
	"CryptoDash/pkg/logger"
)

var errProviderDown = errors.New("dial tcp: connection refused")

type dashboardFixture struct {
	uc     *DashboardUseCase
	users  *mockUsers
	prefs  *mockPrefs
	pm     providerMocks
	userID uuid.UUID
}

func newDashboardFixture(t *testing.T, timeout time.Duration) *dashboardFixture {
	t.Helper()
	adapters, pm := newTestAdapters(t, timeout)
	users := new(mockUsers)
	prefs := new(mockPrefs)
	m := testMetrics()
	uc := NewDashboardUseCase(users, NewPreferenceResolver(prefs, logger.Nop()), adapters, m, logger.Nop())

	f := &dashboardFixture{uc: uc, users: users, prefs: prefs, pm: pm, userID: uuid.New()}
	users.On("GetByID", mock.Anything, f.userID).
		Return(&models.User{ID: f.userID, Name: "Ada", Email: "ada@example.com"}, nil)
	return f
}

func liveNews() []models.NewsArticle {
	return []models.NewsArticle{{ID: "cp-1", Title: "Bitcoin rallies", Source: "CoinDesk", PublishedAt: time.Now()}}
}

func TestDashboardPriceFailureKeepsOtherSections(t *testing.T) {
	f := newDashboardFixture(t, 200*time.Millisecond)
	f.prefs.On("Get", mock.Anything, f.userID).Return(&models.UserPreferences{
		UserID:              f.userID,
		InterestedAssets:    []string{"BTC", "SOL"},
		InvestorType:        models.InvestorDayTrader,
		ContentTypes:        []string{models.ContentCharts},
		CompletedOnboarding: true,
	}, nil)
	f.pm.prices.On("Prices", mock.Anything, []string{"BTC", "SOL"}).Return(nil, errProviderDown)
	f.pm.news.On("News", mock.Anything, []string{"BTC", "SOL"}, []string{models.ContentCharts}).Return(liveNews(), nil)
	f.pm.insight.On("Insight", mock.Anything, mock.Anything).
		Return(models.Insight{Content: "SOL momentum is cooling.", Model: "gpt-4o-mini"}, nil)

	d, err := f.uc.GetDashboard(context.Background(), f.userID)
	require.NoError(t, err)

	assert.True(t, d.CoinPrices.IsFallback)
	assert.NotNil(t, d.CoinPrices.Data)
	assert.Empty(t, d.CoinPrices.Data)
	assert.NotEmpty(t, d.CoinPrices.ErrorNote)

	assert.False(t, d.MarketNews.IsFallback)
	assert.Equal(t, liveNews()[0].Title, d.MarketNews.Data[0].Title)
	assert.False(t, d.AIInsight.IsFallback)
	assert.Equal(t, "SOL momentum is cooling.", d.AIInsight.Data.Content)
	assert.False(t, d.Meme.IsFallback)
	assert.Equal(t, "doge-moon", d.Meme.Data.ID)

	assert.True(t, d.User.CompletedOnboarding)
	assert.Equal(t, models.InvestorDayTrader, d.User.InvestorType)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"coinPrices":{"data":[]`)
}

func TestDashboardNoPreferencesAllProvidersDown(t *testing.T) {
	f := newDashboardFixture(t, 200*time.Millisecond)
	f.prefs.On("Get", mock.Anything, f.userID).Return(nil, drepo.ErrNotFound)
	f.pm.prices.On("Prices", mock.Anything, []string{"BTC", "ETH"}).Return(nil, errProviderDown)
	f.pm.news.On("News", mock.Anything, []string{"BTC", "ETH"}, []string{models.ContentMarketNews}).Return(nil, errProviderDown)
	f.pm.insight.On("Insight", mock.Anything, mock.Anything).Return(models.Insight{}, errProviderDown)

	d, err := f.uc.GetDashboard(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Equal(t, []string{"BTC", "ETH"}, d.User.InterestedAssets)
	assert.False(t, d.User.CompletedOnboarding)
	f.pm.prices.AssertCalled(t, "Prices", mock.Anything, []string{"BTC", "ETH"})

	assert.True(t, d.CoinPrices.IsFallback)
	assert.Empty(t, d.CoinPrices.Data)

	assert.True(t, d.MarketNews.IsFallback)
	assert.NotEmpty(t, d.MarketNews.Data)
	assert.LessOrEqual(t, len(d.MarketNews.Data), 10)

	assert.True(t, d.AIInsight.IsFallback)
	assert.NotEmpty(t, d.AIInsight.Data.Content)
	assert.Equal(t, models.InvestorHODLer, d.AIInsight.Data.InvestorType)

	assert.NotEmpty(t, d.Meme.Data.URL)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &keys))
	for _, s := range models.Sections {
		assert.Contains(t, keys, s)
	}
}

func TestDashboardDefaultsWithLivePrices(t *testing.T) {
	f := newDashboardFixture(t, 200*time.Millisecond)
	f.prefs.On("Get", mock.Anything, f.userID).Return(nil, drepo.ErrNotFound)
	f.pm.prices.On("Prices", mock.Anything, []string{"BTC", "ETH"}).Return([]models.CoinPrice{
		{Symbol: "BTC", ID: "bitcoin", PriceUSD: 64000},
		{Symbol: "ETH", ID: "ethereum", PriceUSD: 3000},
	}, nil)
	f.pm.news.On("News", mock.Anything, mock.Anything, mock.Anything).Return([]models.NewsArticle{}, nil)
	f.pm.insight.On("Insight", mock.Anything, mock.Anything).Return(models.Insight{Content: "BTC steady."}, nil)

	d, err := f.uc.GetDashboard(context.Background(), f.userID)
	require.NoError(t, err)

	require.Len(t, d.CoinPrices.Data, 2)
	assert.Equal(t, "BTC", d.CoinPrices.Data[0].Symbol)
	assert.Equal(t, "ETH", d.CoinPrices.Data[1].Symbol)
	assert.False(t, d.CoinPrices.IsFallback)

	// an empty live feed is replaced by template headlines
	assert.True(t, d.MarketNews.IsFallback)
	assert.NotEmpty(t, d.MarketNews.Data)
}

func TestDashboardSlowProviderOnlyDelaysItsSection(t *testing.T) {
	timeout := 150 * time.Millisecond
	f := newDashboardFixture(t, timeout)
	f.prefs.On("Get", mock.Anything, f.userID).Return(nil, drepo.ErrNotFound)
	f.pm.prices.On("Prices", mock.Anything, mock.Anything).Return([]models.CoinPrice{{Symbol: "BTC"}}, nil)
	f.pm.news.On("News", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(2 * time.Second) }).
		Return(liveNews(), nil)
	f.pm.insight.On("Insight", mock.Anything, mock.Anything).Return(models.Insight{Content: "BTC steady."}, nil)

	start := time.Now()
	d, err := f.uc.GetDashboard(context.Background(), f.userID)
	elapsed := time.Since(start)
	require.NoError(t, err)

	assert.Less(t, elapsed, time.Second)
	assert.True(t, d.MarketNews.IsFallback)
	assert.Contains(t, d.MarketNews.ErrorNote, "timed out")
	assert.False(t, d.CoinPrices.IsFallback)
	assert.False(t, d.AIInsight.IsFallback)
	assert.True(t, d.MarketNews.UpdatedAt.After(d.CoinPrices.UpdatedAt))
}

func TestDashboardPanickingProviderBecomesFallback(t *testing.T) {
	f := newDashboardFixture(t, 200*time.Millisecond)
	f.prefs.On("Get", mock.Anything, f.userID).Return(nil, drepo.ErrNotFound)
	f.pm.prices.On("Prices", mock.Anything, mock.Anything).Return([]models.CoinPrice{}, nil)
	f.pm.news.On("News", mock.Anything, mock.Anything, mock.Anything).Return(liveNews(), nil)
	f.pm.insight.On("Insight", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("nil map write") }).
		Return(models.Insight{}, nil)

	d, err := f.uc.GetDashboard(context.Background(), f.userID)
	require.NoError(t, err)
	assert.True(t, d.AIInsight.IsFallback)
	assert.NotEmpty(t, d.AIInsight.Data.Content)
	assert.False(t, d.CoinPrices.IsFallback)
}

func TestDashboardUserNotFoundSkipsProviders(t *testing.T) {
	adapters, pm := newTestAdapters(t, 100*time.Millisecond)
	users := new(mockUsers)
	prefs := new(mockPrefs)
	uc := NewDashboardUseCase(users, NewPreferenceResolver(prefs, logger.Nop()), adapters, testMetrics(), logger.Nop())

	id := uuid.New()
	users.On("GetByID", mock.Anything, id).Return(nil, drepo.ErrNotFound)

	_, err := uc.GetDashboard(context.Background(), id)
	assert.ErrorIs(t, err, ErrUserNotFound)
	prefs.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	pm.prices.AssertNotCalled(t, "Prices", mock.Anything, mock.Anything)
	pm.news.AssertNotCalled(t, "News", mock.Anything, mock.Anything, mock.Anything)
	pm.insight.AssertNotCalled(t, "Insight", mock.Anything, mock.Anything)
}

func TestDashboardUserStoreErrorIsReturned(t *testing.T) {
	adapters, _ := newTestAdapters(t, 100*time.Millisecond)
	users := new(mockUsers)
	uc := NewDashboardUseCase(users, NewPreferenceResolver(new(mockPrefs), logger.Nop()), adapters, testMetrics(), logger.Nop())

	id := uuid.New()
	users.On("GetByID", mock.Anything, id).Return(nil, errors.New("pool closed"))

	_, err := uc.GetDashboard(context.Background(), id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}
