package meme

import (
	"math/rand"
	"path"
	"strings"
	"sync"
	"time"

	"CryptoDash/internal/domain/models"
	"CryptoDash/pkg/config"
)

type entry struct {
	id          string
	file        string
	title       string
	description string
	tags        []string
}

// Images live in the static meme directory and are served under PublicPath.
var catalog = []entry{
	{"hodl-diamond", "hodl-diamond.svg", "Diamond Hands", "When the chart dips 20% and you just add another coffee to the budget.", []string{"BTC", "HODL"}},
	{"btc-this-is-fine", "btc-this-is-fine.svg", "This Is Fine", "Bitcoin down 8% before breakfast. Everything is under control.", []string{"BTC"}},
	{"eth-gas", "eth-gas.svg", "Gas Fees", "Paid more in gas than the NFT was worth. Worth it.", []string{"ETH", "NFT"}},
	{"eth-merge", "eth-merge.svg", "Proof of Stake Mood", "Validators at 3am checking if they are still attesting.", []string{"ETH", "DEFI"}},
	{"sol-speed", "sol-speed.svg", "Fast Chain", "Blocks so fast the meme finished loading before you opened it.", []string{"SOL"}},
	{"doge-moon", "doge-moon.svg", "Much Moon", "Such volatility. Very rocket. Wow.", []string{"DOGE", "FUN"}},
	{"buy-high", "buy-high.svg", "Buy High, Sell Low", "A time-tested strategy used by many day traders, briefly.", []string{"TRADING"}},
	{"wen-lambo", "wen-lambo.svg", "Wen Lambo", "Portfolio up 3% this week. Lambo dealership bookmarked.", []string{"FUN"}},
}

// Catalog is an immutable in-memory meme list. Pick never fails.
type Catalog struct {
	items []models.Meme

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCatalog(cfg *config.Config) *Catalog {
	return newCatalog(cfg.Providers.Meme.PublicPath, rand.NewSource(time.Now().UnixNano()))
}

func newCatalog(publicPath string, src rand.Source) *Catalog {
	if publicPath == "" {
		publicPath = "/static/memes"
	}
	items := make([]models.Meme, 0, len(catalog))
	for _, e := range catalog {
		items = append(items, models.Meme{
			ID:          e.id,
			URL:         path.Join(publicPath, e.file),
			Title:       e.title,
			Description: e.description,
			Source:      "CryptoDash",
			Tags:        e.tags,
		})
	}
	return &Catalog{items: items, rnd: rand.New(src)}
}

// Pick returns a random meme tagged with one of the assets, or any meme when
// none matches.
func (c *Catalog) Pick(assets []string) models.Meme {
	pool := c.filter(assets)
	if len(pool) == 0 {
		pool = c.items
	}
	c.mu.Lock()
	i := c.rnd.Intn(len(pool))
	c.mu.Unlock()
	return pool[i]
}

func (c *Catalog) Len() int { return len(c.items) }

func (c *Catalog) filter(assets []string) []models.Meme {
	if len(assets) == 0 {
		return nil
	}
	want := make(map[string]struct{}, len(assets))
	for _, a := range assets {
		want[strings.ToUpper(strings.TrimSpace(a))] = struct{}{}
	}
	var out []models.Meme
	for _, m := range c.items {
		for _, t := range m.Tags {
			if _, ok := want[t]; ok {
				out = append(out, m)
				break
			}
		}
	}
	return out
}
