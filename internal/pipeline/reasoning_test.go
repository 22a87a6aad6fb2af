package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReasoningModel(t *testing.T) {
	cases := map[string]bool{
		"o3":                  true,
		"o4-mini":             true,
		"o1-preview":          true,
		"gpt-5":               true,
		"gpt-5-mini":          true,
		"custom-o1-variant":   true,
		"custom-o3":           true,
		"gpt-4o":              false,
		"claude-3-opus":       false,
	}

	for model, want := range cases {
		assert.Equal(t, want, reasoningModel(model), model)
	}
}

func TestEffortMultiplier(t *testing.T) {
	assert.Equal(t, 0.0, effortMultiplier("none"))
	assert.Equal(t, 0.5, effortMultiplier("minimal"))
	assert.Equal(t, 1.5, effortMultiplier("low"))
	assert.Equal(t, 3.0, effortMultiplier("medium"))
	assert.Equal(t, 3.0, effortMultiplier(""))
	assert.Equal(t, 6.0, effortMultiplier("high"))
	assert.Equal(t, 10.0, effortMultiplier("xhigh"))
}

func TestReasoningTokens(t *testing.T) {
	assert.Equal(t, 30, reasoningTokens(10, "medium"))
	assert.Equal(t, 0, reasoningTokens(10, "none"))
}

func TestGenerateSummary(t *testing.T) {
	s := generateSummary("detailed", 100)
	assert.True(t, strings.HasSuffix(s, "."))
	words := strings.Fields(s)
	assert.GreaterOrEqual(t, len(words), 15)
}
