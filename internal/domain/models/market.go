package models

import "time"

type CoinPrice struct {
	Symbol    string  `json:"symbol"`
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	PriceUSD  float64 `json:"priceUsd"`
	Change24h float64 `json:"change24h"`
	Change7d  float64 `json:"change7d"`
	MarketCap float64 `json:"marketCap,omitempty"`
	Image     string  `json:"image,omitempty"`
}

type NewsArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
	Votes       int       `json:"votes"`
	Assets      []string  `json:"assets,omitempty"`
}

type Insight struct {
	Content      string   `json:"content"`
	InvestorType string   `json:"investorType"`
	Assets       []string `json:"assets"`
	Model        string   `json:"model,omitempty"` // empty for template insights
}

type Meme struct {
	ID          string   `json:"id"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Source      string   `json:"source"`
	Tags        []string `json:"tags,omitempty"`
}
