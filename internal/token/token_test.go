package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodingForModel(t *testing.T) {
	cases := map[string]string{
		"gpt-5":              EncodingO200k,
		"gpt-5-mini":         EncodingO200k,
		"gpt-4o":             EncodingO200k,
		"chatgpt-4o-latest":  EncodingO200k,
		"o1-preview":         EncodingO200k,
		"o3-mini":            EncodingO200k,
		"o4-mini":            EncodingO200k,
		"gpt-4":              EncodingCl100k,
		"gpt-4-turbo":        EncodingCl100k,
		"text-embedding-3":   EncodingCl100k,
		"claude-3-opus":      EncodingCl100k,
		"gemini-1.5-pro":     EncodingCl100k,
		"text-davinci-003":   EncodingP50k,
		"code-davinci-002":   EncodingP50k,
		"ada":                EncodingR50k,
		"babbage-002":        EncodingR50k,
		"curie":              EncodingR50k,
		"some-unknown-model": EncodingCl100k,
	}

	for model, want := range cases {
		assert.Equal(t, want, EncodingForModel(model), "model %s", model)
	}
}

func TestCounter_EmptyString(t *testing.T) {
	c := NewCounter()
	assert.Equal(t, 0, c.Count("", "gpt-4"))
}

func TestCounter_SameEncodingSameCount(t *testing.T) {
	c := NewCounter()

	gpt5 := c.Count("Testing different models", "gpt-5")
	gpt4o := c.Count("Testing different models", "gpt-4o")
	assert.Equal(t, gpt5, gpt4o)
}

func TestCounter_NonEmptyIsPositive(t *testing.T) {
	c := NewCounter()
	assert.Greater(t, c.Count("Hello, world!", "gpt-4"), 0)
}
