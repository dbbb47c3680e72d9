package research

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/truelabel/truelabel/internal/config"
	"github.com/truelabel/truelabel/internal/model"
	"github.com/truelabel/truelabel/internal/resilience"
	"github.com/truelabel/truelabel/pkg/anthropic"
)

// ErrEmptySection is returned when the model produced no usable text for a
// section. It is treated as transient so the retry layer gets another shot.
var ErrEmptySection = eris.New("research: empty section")

// SectionGenerator produces the text for a single report section.
type SectionGenerator interface {
	GenerateSection(ctx context.Context, req model.ResearchRequest, sec Section) (string, error)
}

// AnthropicGenerator implements SectionGenerator against the model API. A
// shared rate limiter keeps concurrent jobs inside the account's
// requests-per-minute budget, and a breaker stops hammering the API once it
// starts failing consistently.
type AnthropicGenerator struct {
	client  anthropic.Client
	cfg     config.AnthropicConfig
	limiter *rate.Limiter
	breaker *resilience.Breaker
}

// NewAnthropicGenerator creates a rate-limited section generator.
func NewAnthropicGenerator(client anthropic.Client, cfg config.AnthropicConfig) *AnthropicGenerator {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}
	return &AnthropicGenerator{
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		breaker: resilience.NewBreaker(5, 30*time.Second),
	}
}

// Available reports whether the generator is currently accepting calls.
func (g *AnthropicGenerator) Available() bool {
	return g.cfg.Key != "" && !g.breaker.Tripped()
}

func (g *AnthropicGenerator) GenerateSection(ctx context.Context, req model.ResearchRequest, sec Section) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "research: rate limit wait")
	}

	resp, err := resilience.Call(ctx, g.breaker, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return g.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     g.cfg.Model,
			MaxTokens: int64(g.cfg.MaxTokens),
			System:    systemPrompt,
			Messages: []anthropic.Message{
				{Role: "user", Content: userPrompt(req, sec)},
			},
		})
	})
	if err != nil {
		return "", err
	}

	resp.Usage.LogCost(g.cfg.Model, sec.Title)

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", resilience.NewTransientError(ErrEmptySection, 0)
	}
	return text, nil
}
