// Package token implements the token accountant: a byte-pair-encoding based
// counter that routes a model name to one of the four OpenAI-published
// encodings and counts tokens the way the real API would.
package token

import (
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkoukk/tiktoken-go"
	"golang.org/x/sync/singleflight"
)

// Encoding names, as published by OpenAI and implemented by tiktoken-go.
const (
	EncodingO200k  = "o200k_base"
	EncodingCl100k = "cl100k_base"
	EncodingP50k   = "p50k_base"
	EncodingR50k   = "r50k_base"
)

// EncodingForModel resolves a model name to the BPE encoding OpenAI's real
// endpoints use for it. Order is load-bearing: more specific prefixes are
// checked before the broader families they'd otherwise be swallowed by.
func EncodingForModel(model string) string {
	m := strings.ToLower(model)

	switch {
	case strings.HasPrefix(m, "gpt-5"),
		strings.HasPrefix(m, "gpt-4o"),
		strings.HasPrefix(m, "chatgpt-4o"),
		strings.HasPrefix(m, "o1"),
		strings.HasPrefix(m, "o3"),
		strings.HasPrefix(m, "o4"):
		return EncodingO200k
	case strings.HasPrefix(m, "gpt-4"),
		strings.HasPrefix(m, "text-embedding"),
		strings.HasPrefix(m, "claude"),
		strings.HasPrefix(m, "gemini"):
		return EncodingCl100k
	case strings.Contains(m, "davinci"),
		strings.HasPrefix(m, "code-"):
		return EncodingP50k
	case strings.HasPrefix(m, "ada"),
		strings.HasPrefix(m, "babbage"),
		strings.HasPrefix(m, "curie"):
		return EncodingR50k
	default:
		return EncodingCl100k
	}
}

// Counter counts tokens for arbitrary text against a cache of lazily
// constructed BPE encoders, one per encoding name. Encoders are expensive to
// build (they load a vocabulary) and are safe to share read-only once built.
// Each Counter from NewCounter has its own cache; Default returns one shared
// Counter for the whole process.
type Counter struct {
	cache  *lru.Cache[string, *tiktoken.Tiktoken]
	flight singleflight.Group
}

// NewCounter builds a Counter backed by a small LRU of encoders — in
// practice there are only four distinct encodings, so the cache exists to
// bound memory rather than to evict anything in steady state.
func NewCounter() *Counter {
	cache, err := lru.New[string, *tiktoken.Tiktoken](8)
	if err != nil {
		// Only fails for a non-positive size, which never happens here.
		panic(err)
	}

	return &Counter{cache: cache}
}

// encoder returns the cached encoder for name, building it on first use.
// Concurrent first-use requests for the same encoding collapse onto a single
// build via singleflight.
func (c *Counter) encoder(name string) (*tiktoken.Tiktoken, error) {
	if enc, ok := c.cache.Get(name); ok {
		return enc, nil
	}

	v, err, _ := c.flight.Do(name, func() (any, error) {
		if enc, ok := c.cache.Get(name); ok {
			return enc, nil
		}

		enc, err := tiktoken.GetEncoding(name)
		if err != nil {
			return nil, fmt.Errorf("initialize %s encoder: %w", name, err)
		}

		c.cache.Add(name, enc)

		return enc, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*tiktoken.Tiktoken), nil
}

// Count returns the number of tokens text encodes to for model, including
// special tokens. Empty text is always 0 tokens. If the encoder cannot be
// constructed, Count falls back to a whitespace word count, per the token
// accountant's degrade-gracefully contract.
func (c *Counter) Count(text, model string) int {
	if text == "" {
		return 0
	}

	enc, err := c.encoder(EncodingForModel(model))
	if err != nil {
		return wordCount(text)
	}

	return len(enc.Encode(text, []string{"all"}, nil))
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

var (
	defaultCounter     *Counter
	defaultCounterOnce sync.Once
)

// Default returns a process-wide shared Counter. Encoders are read-only
// once constructed, so one instance can serve every request handler.
func Default() *Counter {
	defaultCounterOnce.Do(func() {
		defaultCounter = NewCounter()
	})

	return defaultCounter
}
