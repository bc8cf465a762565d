package market

import (
	"context"
	"errors"
	"strings"

	"CryptoDash/internal/domain/models"
	"CryptoDash/pkg/config"
)

// ErrMalformedResponse is returned when a provider answers without the
// fields the dashboard relies on.
var ErrMalformedResponse = errors.New("malformed provider response")

// coinIDs maps ticker symbols to CoinGecko ids. Unknown tickers are skipped.
var coinIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"SOL":   "solana",
	"ADA":   "cardano",
	"XRP":   "ripple",
	"DOGE":  "dogecoin",
	"BNB":   "binancecoin",
	"DOT":   "polkadot",
	"AVAX":  "avalanche-2",
	"MATIC": "matic-network",
	"LINK":  "chainlink",
	"LTC":   "litecoin",
	"TRX":   "tron",
	"ATOM":  "cosmos",
	"UNI":   "uniswap",
	"SHIB":  "shiba-inu",
	"TON":   "the-open-network",
	"XLM":   "stellar",
	"NEAR":  "near",
	"APT":   "aptos",
	"ARB":   "arbitrum",
	"OP":    "optimism",
	"PEPE":  "pepe",
	"USDT":  "tether",
	"USDC":  "usd-coin",
}

// CoinID resolves a ticker to its CoinGecko id.
func CoinID(symbol string) (string, bool) {
	id, ok := coinIDs[strings.ToUpper(symbol)]
	return id, ok
}

type geckoMarket struct {
	ID        string   `json:"id"`
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name"`
	Image     string   `json:"image"`
	Price     *float64 `json:"current_price"`
	MarketCap float64  `json:"market_cap"`
	Change24h *float64 `json:"price_change_percentage_24h_in_currency"`
	Change7d  *float64 `json:"price_change_percentage_7d_in_currency"`
}

// CoinGecko implements service.PriceProvider against the /coins/markets API.
type CoinGecko struct {
	base *httpBase
}

func NewCoinGecko(cfg *config.Config) *CoinGecko {
	p := cfg.Providers.Price
	headers := map[string]string{"Accept": "application/json"}
	if p.APIKey != "" {
		headers["x-cg-demo-api-key"] = p.APIKey
	}
	return &CoinGecko{base: newHTTPBase("coingecko", strings.TrimRight(p.BaseURL, "/"), p.Timeout, p.Retries, headers)}
}

// Prices returns one entry per mappable symbol, in request order.
// When no symbol maps, it returns an empty slice without calling out.
func (c *CoinGecko) Prices(ctx context.Context, symbols []string) ([]models.CoinPrice, error) {
	symbols = models.NormalizeAssets(symbols)
	ids := make([]string, 0, len(symbols))
	symbolByID := make(map[string]string, len(symbols))
	for _, s := range symbols {
		id, ok := CoinID(s)
		if !ok {
			continue
		}
		ids = append(ids, id)
		symbolByID[id] = s
	}
	if len(ids) == 0 {
		return []models.CoinPrice{}, nil
	}

	var rows []geckoMarket
	err := c.base.getJSONWithRetry(ctx, "/coins/markets", map[string][]string{
		"vs_currency":             {"usd"},
		"ids":                     {strings.Join(ids, ",")},
		"price_change_percentage": {"24h,7d"},
	}, &rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]geckoMarket, len(rows))
	for _, r := range rows {
		if r.ID == "" || r.Price == nil {
			continue
		}
		byID[r.ID] = r
	}
	if len(byID) == 0 {
		return nil, ErrMalformedResponse
	}

	out := make([]models.CoinPrice, 0, len(byID))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, models.CoinPrice{
			Symbol:    symbolByID[id],
			ID:        id,
			Name:      r.Name,
			PriceUSD:  *r.Price,
			Change24h: deref(r.Change24h),
			Change7d:  deref(r.Change7d),
			MarketCap: r.MarketCap,
			Image:     r.Image,
		})
	}
	return out, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
