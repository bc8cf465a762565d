package service

import (
	"context"
	"time"

	"CryptoDash/internal/domain/models"

	"github.com/google/uuid"
)

// PriceProvider fetches live quotes. Symbols it cannot map are dropped.
type PriceProvider interface {
	Prices(ctx context.Context, symbols []string) ([]models.CoinPrice, error)
}

// NewsProvider fetches live headlines for the given assets.
type NewsProvider interface {
	News(ctx context.Context, symbols []string, contentTypes []string) ([]models.NewsArticle, error)
}

// InsightProvider generates a short personalized insight.
type InsightProvider interface {
	Insight(ctx context.Context, prefs models.ResolvedPreferences) (models.Insight, error)
}

// MemeSource picks a meme for the given assets. It cannot fail.
type MemeSource interface {
	Pick(assets []string) models.Meme
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(userID uuid.UUID, email string) (token string, expiresAt time.Time, err error)
	Parse(token string) (uuid.UUID, error)
}
