package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"CryptoDash/internal/domain/models"
	"CryptoDash/pkg/config"
	"CryptoDash/pkg/logger"
	"CryptoDash/pkg/util"
)

var (
	ErrMissingAPIKey = errors.New("insight provider api key not configured")
	ErrEmptyInsight  = errors.New("insight provider returned no content")
)

const systemPrompt = "You are a concise crypto market assistant. " +
	"Answer with two or three plain sentences, no markdown, no financial guarantees. " +
	"Always mention at least one of the user's assets by its ticker symbol."

// OpenAI implements service.InsightProvider with any OpenAI compatible
// chat completion endpoint.
type OpenAI struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	enabled     bool
	log         *logger.Logger
}

func NewOpenAI(cfg *config.Config, l *logger.Logger) *OpenAI {
	ic := cfg.Providers.Insight
	clientConfig := openai.DefaultConfig(ic.APIKey)
	if ic.BaseURL != "" {
		clientConfig.BaseURL = ic.BaseURL
	}
	return &OpenAI{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       ic.Model,
		maxTokens:   ic.MaxTokens,
		temperature: ic.Temperature,
		enabled:     ic.APIKey != "",
		log:         l,
	}
}

func (o *OpenAI) Insight(ctx context.Context, prefs models.ResolvedPreferences) (models.Insight, error) {
	if !o.enabled {
		return models.Insight{}, ErrMissingAPIKey
	}

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(prefs)},
		},
	})
	if err != nil {
		return models.Insight{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Insight{}, ErrEmptyInsight
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return models.Insight{}, ErrEmptyInsight
	}

	o.log.Debug("insight generated",
		logger.String("model", resp.Model),
		logger.Int("tokens", resp.Usage.TotalTokens),
		logger.Duration("latency", time.Since(start)),
	)

	return models.Insight{
		Content:      content,
		InvestorType: prefs.InvestorType,
		Assets:       prefs.InterestedAssets,
		Model:        o.model,
	}, nil
}

// BuildPrompt turns resolved preferences into the user message.
func BuildPrompt(prefs models.ResolvedPreferences) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I am a %s interested in %s.", prefs.InvestorType, util.JoinHuman(prefs.InterestedAssets))
	if len(prefs.ContentTypes) > 0 {
		fmt.Fprintf(&b, " I mostly care about %s.", strings.ToLower(util.JoinHuman(prefs.ContentTypes)))
	}
	b.WriteString(" Give me today's short market insight tailored to me.")
	return b.String()
}
