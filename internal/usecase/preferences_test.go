package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"CryptoDash/internal/domain/models"
	"CryptoDash/pkg/logger"
)

func TestResolverIncompleteOnboardingReturnsDefaults(t *testing.T) {
	prefs := new(mockPrefs)
	id := uuid.New()
	prefs.On("Get", mock.Anything, id).Return(&models.UserPreferences{
		UserID:              id,
		InterestedAssets:    []string{"DOGE"},
		InvestorType:        models.InvestorNFTCollector,
		ContentTypes:        []string{models.ContentFun},
		CompletedOnboarding: false,
	}, nil)

	got := NewPreferenceResolver(prefs, logger.Nop()).Resolve(context.Background(), id)
	assert.Equal(t, models.DefaultPreferences(), got)
}

func TestResolverStoreErrorReturnsDefaults(t *testing.T) {
	prefs := new(mockPrefs)
	id := uuid.New()
	prefs.On("Get", mock.Anything, id).Return(nil, errors.New("timeout"))

	got := NewPreferenceResolver(prefs, logger.Nop()).Resolve(context.Background(), id)
	assert.Equal(t, models.DefaultPreferences(), got)
}

func TestResolveFillsMissingFields(t *testing.T) {
	got := Resolve(&models.UserPreferences{
		InterestedAssets:    []string{"sol", "SOL"},
		CompletedOnboarding: true,
	})
	assert.Equal(t, []string{"SOL"}, got.InterestedAssets)
	assert.Equal(t, models.DefaultContentTypes, got.ContentTypes)
	assert.Equal(t, models.DefaultInvestorType, got.InvestorType)
	assert.False(t, got.UsingDefaults)

	assert.Equal(t, models.DefaultPreferences(), Resolve(nil))
}

func TestDefaultPreferencesAreCopies(t *testing.T) {
	d := models.DefaultPreferences()
	d.InterestedAssets[0] = "XRP"
	assert.Equal(t, "BTC", models.DefaultAssets[0])
}

func TestPreferencesRoundTrip(t *testing.T) {
	repo := newMemPrefs()
	uc := NewPreferencesUseCase(repo)
	id := uuid.New()

	_, err := uc.Save(context.Background(), id, &models.SavePreferencesRequest{
		InterestedAssets: []string{"BTC", "SOL"},
		InvestorType:     models.InvestorDayTrader,
		ContentTypes:     []string{models.ContentCharts},
	})
	require.NoError(t, err)

	got, err := uc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC", "SOL"}, got.InterestedAssets)
	assert.Equal(t, models.InvestorDayTrader, got.InvestorType)
	assert.Equal(t, []string{models.ContentCharts}, got.ContentTypes)
	assert.True(t, got.CompletedOnboarding)

	resolved := NewPreferenceResolver(repo, logger.Nop()).Resolve(context.Background(), id)
	assert.Equal(t, []string{"BTC", "SOL"}, resolved.InterestedAssets)
	assert.False(t, resolved.UsingDefaults)
}

func TestPreferencesGetWithoutRecord(t *testing.T) {
	uc := NewPreferencesUseCase(newMemPrefs())
	got, err := uc.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, got.CompletedOnboarding)
	assert.Equal(t, models.DefaultAssets, got.InterestedAssets)
	assert.Equal(t, models.DefaultInvestorType, got.InvestorType)
}

func TestPreferencesSaveNormalizes(t *testing.T) {
	repo := newMemPrefs()
	uc := NewPreferencesUseCase(repo)
	id := uuid.New()

	got, err := uc.Save(context.Background(), id, &models.SavePreferencesRequest{
		InterestedAssets: []string{" eth", "ETH", "btc"},
		InvestorType:     models.InvestorHODLer,
		ContentTypes:     []string{models.ContentSocial, models.ContentSocial},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ETH", "BTC"}, got.InterestedAssets)
	assert.Equal(t, []string{models.ContentSocial}, got.ContentTypes)
}
