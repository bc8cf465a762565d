package fallback

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"CryptoDash/internal/domain/models"
	"CryptoDash/pkg/util"
)

// Each template takes, in order: investor type, joined assets, tip.
var insightTemplates = []string{
	"As a %[1]s, keep %[2]s on your radar today: %[3]s",
	"Today's take for a %[1]s watching %[2]s: %[3]s",
	"Signals are mixed around %[2]s today, so a %[1]s should stay measured. %[3]s",
	"Quick read for a %[1]s: sentiment around %[2]s is shifting. %[3]s",
	"If you are a %[1]s holding %[2]s, today is a good day to review your plan. %[3]s",
}

var insightTips = map[string]string{
	models.InvestorHODLer:         "Zoom out, stick to your long-term thesis and avoid reacting to intraday noise.",
	models.InvestorDayTrader:      "Respect your stop-losses and size positions for the volatility you see, not the one you hope for.",
	models.InvestorSwingTrader:    "Watch the daily structure for confirmation before adding to a position.",
	models.InvestorNFTCollector:   "Floor prices tend to follow the underlying chain, so keep an eye on network activity.",
	models.InvestorDeFiEnthusiast: "Check protocol yields against their risks and keep some liquidity free for opportunities.",
}

const defaultTip = "Stay diversified and only risk what you can afford to lose."

// InsightGenerator writes a template insight sentence when the live model is down.
type InsightGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewInsightGenerator() *InsightGenerator {
	return NewInsightGeneratorWithSource(rand.NewSource(time.Now().UnixNano()))
}

func NewInsightGeneratorWithSource(src rand.Source) *InsightGenerator {
	return &InsightGenerator{rnd: rand.New(src)}
}

// Generate never returns an empty insight. Missing assets or an unknown
// investor type are replaced by the defaults.
func (g *InsightGenerator) Generate(investorType string, assets []string) models.Insight {
	assets = models.NormalizeAssets(assets)
	if len(assets) == 0 {
		assets = append([]string(nil), models.DefaultAssets...)
	}
	if !models.IsInvestorType(investorType) {
		investorType = models.DefaultInvestorType
	}
	tip, ok := insightTips[investorType]
	if !ok {
		tip = defaultTip
	}

	g.mu.Lock()
	tpl := insightTemplates[g.rnd.Intn(len(insightTemplates))]
	g.mu.Unlock()

	return models.Insight{
		Content:      fmt.Sprintf(tpl, investorType, util.JoinHuman(assets), tip),
		InvestorType: investorType,
		Assets:       assets,
	}
}
