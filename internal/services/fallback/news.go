package fallback

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"CryptoDash/internal/domain/models"
)

const (
	MaxArticles      = 10
	perAssetArticles = 3

	minStagger = 15 * time.Minute
	maxJitter  = 30 * time.Minute
)

// NewsGenerator builds plausible headlines without any network access.
type NewsGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

func NewNewsGenerator() *NewsGenerator {
	return NewNewsGeneratorWithSource(rand.NewSource(time.Now().UnixNano()), time.Now)
}

func NewNewsGeneratorWithSource(src rand.Source, now func() time.Time) *NewsGenerator {
	return &NewsGenerator{rnd: rand.New(src), now: now}
}

// Generate returns between 1 and MaxArticles articles for the given assets,
// newest first. Empty input falls back to the default assets.
func (g *NewsGenerator) Generate(assets []string) []models.NewsArticle {
	assets = models.NormalizeAssets(assets)
	if len(assets) == 0 {
		assets = append([]string(nil), models.DefaultAssets...)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	picks := make([][]newsTemplate, len(assets))
	for i, a := range assets {
		picks[i] = g.pickTemplates(a)
	}

	now := g.now()
	offset := time.Duration(0)
	seen := make(map[string]struct{})
	out := make([]models.NewsArticle, 0, MaxArticles)

	// Round-robin across assets so every asset gets a headline before any
	// asset gets its second one.
	for round := 0; round < perAssetArticles && len(out) < MaxArticles; round++ {
		for i, a := range assets {
			if len(out) >= MaxArticles {
				break
			}
			if round >= len(picks[i]) {
				continue
			}
			tpl := picks[i][round]
			title := tpl.title
			if strings.Contains(title, "%s") {
				title = fmt.Sprintf(title, a)
			}
			key := strings.ToLower(title)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			offset += minStagger + time.Duration(g.rnd.Int63n(int64(maxJitter)))
			out = append(out, models.NewsArticle{
				ID:          fmt.Sprintf("fallback-%s-%d", strings.ToLower(a), round),
				Title:       title,
				URL:         tpl.url,
				Source:      tpl.source,
				PublishedAt: now.Add(-offset).UTC(),
				Assets:      []string{a},
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out
}

func (g *NewsGenerator) pickTemplates(asset string) []newsTemplate {
	pool, ok := assetNews[asset]
	if !ok {
		pool = genericNews
	}
	shuffled := append([]newsTemplate(nil), pool...)
	g.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if len(shuffled) > perAssetArticles {
		shuffled = shuffled[:perAssetArticles]
	}
	return shuffled
}
