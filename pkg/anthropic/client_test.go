package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCost(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}

	assert.InDelta(t, 18.0, usage.EstimateCost("claude-sonnet-4-5-20250929"), 0.001)
	assert.InDelta(t, 4.80, usage.EstimateCost("claude-haiku-4-5-20251001"), 0.001)
	assert.Zero(t, usage.EstimateCost("unknown-model"))
}

func TestEstimateCostScalesWithTokens(t *testing.T) {
	small := TokenUsage{InputTokens: 1000, OutputTokens: 500}
	large := TokenUsage{InputTokens: 100_000, OutputTokens: 50_000}

	model := "claude-sonnet-4-5-20250929"
	assert.Less(t, small.EstimateCost(model), large.EstimateCost(model))
}

func TestNewClientImplementsInterface(t *testing.T) {
	var _ Client = NewClient("test-key")
}
