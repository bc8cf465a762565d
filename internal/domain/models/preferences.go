package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Investor profiles a user can pick during onboarding.
const (
	InvestorHODLer         = "HODLer"
	InvestorDayTrader      = "Day Trader"
	InvestorSwingTrader    = "Swing Trader"
	InvestorNFTCollector   = "NFT Collector"
	InvestorDeFiEnthusiast = "DeFi Enthusiast"
)

// Content tags shown on the onboarding screen.
const (
	ContentMarketNews        = "Market News"
	ContentCharts            = "Charts"
	ContentSocial            = "Social"
	ContentFun               = "Fun"
	ContentEducation         = "Education"
	ContentTechnicalAnalysis = "Technical Analysis"
)

const (
	MaxInterestedAssets = 10
	MaxContentTypes     = 6
)

var (
	InvestorTypes = []string{
		InvestorHODLer,
		InvestorDayTrader,
		InvestorSwingTrader,
		InvestorNFTCollector,
		InvestorDeFiEnthusiast,
	}

	ContentTypes = []string{
		ContentMarketNews,
		ContentCharts,
		ContentSocial,
		ContentFun,
		ContentEducation,
		ContentTechnicalAnalysis,
	}
)

// Defaults applied whenever a user has not finished onboarding.
var (
	DefaultAssets       = []string{"BTC", "ETH"}
	DefaultContentTypes = []string{ContentMarketNews}
)

const DefaultInvestorType = InvestorHODLer

// UserPreferences is the persisted onboarding result of a user.
type UserPreferences struct {
	UserID              uuid.UUID `json:"userId"`
	InterestedAssets    []string  `json:"interestedAssets"`
	InvestorType        string    `json:"investorType"`
	ContentTypes        []string  `json:"contentTypes"`
	CompletedOnboarding bool      `json:"completedOnboarding"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// ResolvedPreferences is the effective input handed to the provider adapters.
type ResolvedPreferences struct {
	InterestedAssets []string `json:"interestedAssets"`
	ContentTypes     []string `json:"contentTypes"`
	InvestorType     string   `json:"investorType"`
	UsingDefaults    bool     `json:"usingDefaults"`
}

// DefaultPreferences returns a fresh copy of the default preference set.
func DefaultPreferences() ResolvedPreferences {
	return ResolvedPreferences{
		InterestedAssets: append([]string(nil), DefaultAssets...),
		ContentTypes:     append([]string(nil), DefaultContentTypes...),
		InvestorType:     DefaultInvestorType,
		UsingDefaults:    true,
	}
}

func IsInvestorType(s string) bool {
	return contains(InvestorTypes, s)
}

func IsContentType(s string) bool {
	return contains(ContentTypes, s)
}

// NormalizeAssets upper-cases and trims symbols, dropping blanks and repeats
// while keeping the first-seen order.
func NormalizeAssets(assets []string) []string {
	out := make([]string, 0, len(assets))
	seen := make(map[string]struct{}, len(assets))
	for _, a := range assets {
		s := strings.ToUpper(strings.TrimSpace(a))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// NormalizeContentTypes drops repeats while keeping order.
func NormalizeContentTypes(types []string) []string {
	out := make([]string, 0, len(types))
	seen := make(map[string]struct{}, len(types))
	for _, t := range types {
		t = strings.TrimSpace(t)
		if _, ok := seen[t]; ok || t == "" {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
