package market

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"CryptoDash/internal/domain/models"
	"CryptoDash/pkg/config"
	"CryptoDash/pkg/util"
)

var ErrMissingToken = errors.New("news provider token not configured")

type panicPost struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	Source      struct {
		Title  string `json:"title"`
		Domain string `json:"domain"`
	} `json:"source"`
	Votes struct {
		Positive  int `json:"positive"`
		Important int `json:"important"`
		Liked     int `json:"liked"`
	} `json:"votes"`
	Currencies []struct {
		Code string `json:"code"`
	} `json:"currencies"`
}

type panicResponse struct {
	Results []panicPost `json:"results"`
}

// CryptoPanic implements service.NewsProvider against the /posts API.
type CryptoPanic struct {
	base  *httpBase
	token string
	limit int
}

func NewCryptoPanic(cfg *config.Config) *CryptoPanic {
	n := cfg.Providers.News
	return &CryptoPanic{
		base:  newHTTPBase("cryptopanic", strings.TrimRight(n.BaseURL, "/"), n.Timeout, n.Retries, map[string]string{"Accept": "application/json"}),
		token: n.Token,
		limit: 10,
	}
}

// News returns the latest posts for the given currencies. Content types only
// steer the post kind: "Social" and "Fun" pull media posts as well.
func (c *CryptoPanic) News(ctx context.Context, symbols []string, contentTypes []string) ([]models.NewsArticle, error) {
	if c.token == "" {
		return nil, ErrMissingToken
	}
	query := map[string][]string{
		"auth_token": {c.token},
		"public":     {"true"},
		"kind":       {postKind(contentTypes)},
	}
	if symbols = models.NormalizeAssets(symbols); len(symbols) > 0 {
		query["currencies"] = []string{strings.Join(symbols, ",")}
	}

	var resp panicResponse
	if err := c.base.getJSONWithRetry(ctx, "/posts/", query, &resp); err != nil {
		return nil, err
	}

	out := make([]models.NewsArticle, 0, c.limit)
	for _, p := range resp.Results {
		if p.Title == "" {
			continue
		}
		published := util.ParseTimeDefault(p.PublishedAt, time.Time{})
		src := p.Source.Title
		if src == "" {
			src = p.Source.Domain
		}
		assets := make([]string, 0, len(p.Currencies))
		for _, cur := range p.Currencies {
			assets = append(assets, cur.Code)
		}
		out = append(out, models.NewsArticle{
			ID:          fmt.Sprintf("cp-%d", p.ID),
			Title:       p.Title,
			URL:         p.URL,
			Source:      src,
			PublishedAt: published.UTC(),
			Votes:       p.Votes.Positive + p.Votes.Important + p.Votes.Liked,
			Assets:      assets,
		})
		if len(out) == c.limit {
			break
		}
	}
	if len(resp.Results) > 0 && len(out) == 0 {
		return nil, ErrMalformedResponse
	}
	return out, nil
}

func postKind(contentTypes []string) string {
	for _, t := range contentTypes {
		if t == models.ContentSocial || t == models.ContentFun {
			return "all"
		}
	}
	return "news"
}
