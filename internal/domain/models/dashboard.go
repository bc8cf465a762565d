package models

import "time"

// Section names, shared by the dashboard payload and feedback records.
const (
	SectionCoinPrices = "coinPrices"
	SectionMarketNews = "marketNews"
	SectionAIInsight  = "aiInsight"
	SectionMeme       = "meme"
)

var Sections = []string{SectionCoinPrices, SectionMarketNews, SectionAIInsight, SectionMeme}

// Section wraps one provider's contribution to the dashboard.
// UpdatedAt is the completion time of that provider call, not of the request.
type Section[T any] struct {
	Data       T         `json:"data"`
	UpdatedAt  time.Time `json:"updatedAt"`
	IsFallback bool      `json:"isFallback"`
	ErrorNote  string    `json:"errorNote,omitempty"`
}

// AdapterResult is what a provider adapter hands back to the aggregator.
// Adapters never return errors; failures show up as IsFallback + ErrorNote.
type AdapterResult[T any] struct {
	Payload    T
	IsFallback bool
	ErrorNote  string
	FinishedAt time.Time
}

// ToSection stamps an adapter result into its dashboard section.
func (r AdapterResult[T]) ToSection() Section[T] {
	return Section[T]{
		Data:       r.Payload,
		UpdatedAt:  r.FinishedAt,
		IsFallback: r.IsFallback,
		ErrorNote:  r.ErrorNote,
	}
}

type Dashboard struct {
	User        UserSummary            `json:"user"`
	CoinPrices  Section[[]CoinPrice]   `json:"coinPrices"`
	MarketNews  Section[[]NewsArticle] `json:"marketNews"`
	AIInsight   Section[Insight]       `json:"aiInsight"`
	Meme        Section[Meme]          `json:"meme"`
	GeneratedAt time.Time              `json:"generatedAt"`
}
