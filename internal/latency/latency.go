// Package latency implements the probabilistic first-token and inter-token
// delay sampler used to give synthetic responses a realistic traffic shape.
package latency

import (
	"math/rand"
	"strings"
	"time"
)

// Profile is an immutable (ttft_mean, ttft_stddev, tbt_mean, tbt_stddev)
// tuple, all in milliseconds.
type Profile struct {
	TTFTMeanMS   uint64
	TTFTStddevMS uint64
	TBTMeanMS    uint64
	TBTStddevMS  uint64
}

// New builds a custom profile from raw millisecond parameters.
func New(ttftMean, ttftStddev, tbtMean, tbtStddev uint64) Profile {
	return Profile{
		TTFTMeanMS:   ttftMean,
		TTFTStddevMS: ttftStddev,
		TBTMeanMS:    tbtMean,
		TBTStddevMS:  tbtStddev,
	}
}

// Named presets, tuned to mimic real model-serving traffic shapes.
func GPT5() Profile         { return New(600, 150, 40, 12) }
func GPT5Mini() Profile     { return New(300, 80, 20, 6) }
func OSeries() Profile      { return New(2000, 500, 30, 10) }
func GPT4() Profile         { return New(800, 200, 50, 15) }
func GPT4o() Profile        { return New(400, 100, 25, 8) }
func GPT35Turbo() Profile   { return New(300, 80, 20, 5) }
func ClaudeOpus() Profile   { return New(1000, 250, 60, 20) }
func ClaudeSonnet() Profile { return New(500, 120, 30, 10) }
func ClaudeHaiku() Profile  { return New(200, 50, 15, 5) }
func GeminiPro() Profile    { return New(600, 150, 35, 10) }
func Fast() Profile         { return New(10, 2, 1, 0) }
func Instant() Profile      { return New(0, 0, 0, 0) }

// Default mirrors the gpt5 profile; used whenever a profile is required but
// none has been configured or resolved.
func Default() Profile { return GPT5() }

// byName maps the named-preset vocabulary (e.g. the CLI's
// --latency-profile flag and the config file's latency.profile key) to a
// constructor.
var byName = map[string]func() Profile{
	"gpt5":          GPT5,
	"gpt5_mini":     GPT5Mini,
	"o_series":      OSeries,
	"gpt4":          GPT4,
	"gpt4o":         GPT4o,
	"gpt35_turbo":   GPT35Turbo,
	"claude_opus":   ClaudeOpus,
	"claude_sonnet": ClaudeSonnet,
	"claude_haiku":  ClaudeHaiku,
	"gemini_pro":    GeminiPro,
	"fast":          Fast,
	"instant":       Instant,
}

// ByName resolves a preset name to its Profile. ok is false for unknown
// names, letting callers decide their own fallback.
func ByName(name string) (Profile, bool) {
	ctor, ok := byName[name]
	if !ok {
		return Profile{}, false
	}

	return ctor(), true
}

// FromModel resolves a model name to a latency Profile. Order is
// load-bearing: more specific substrings (gpt-5-mini, the o3/o4 prefixes)
// must be checked before the broader families they'd otherwise fall into.
func FromModel(model string) Profile {
	m := strings.ToLower(model)

	switch {
	case strings.Contains(m, "gpt-5-mini"):
		return GPT5Mini()
	case strings.Contains(m, "gpt-5"):
		return GPT5()
	case strings.HasPrefix(m, "o3"), strings.HasPrefix(m, "o4"):
		return OSeries()
	case strings.Contains(m, "gpt-4o"):
		return GPT4o()
	case strings.Contains(m, "gpt-4"):
		return GPT4()
	case strings.Contains(m, "opus"):
		return ClaudeOpus()
	case strings.Contains(m, "sonnet"):
		return ClaudeSonnet()
	case strings.Contains(m, "haiku"):
		return ClaudeHaiku()
	case strings.Contains(m, "gemini"):
		return GeminiPro()
	default:
		return GPT5()
	}
}

// SampleTTFT draws a time-to-first-token duration.
func (p Profile) SampleTTFT() time.Duration {
	return sample(p.TTFTMeanMS, p.TTFTStddevMS)
}

// SampleTBT draws a time-between-tokens duration.
func (p Profile) SampleTBT() time.Duration {
	return sample(p.TBTMeanMS, p.TBTStddevMS)
}

func sample(meanMS, stddevMS uint64) time.Duration {
	if meanMS == 0 {
		return 0
	}

	if stddevMS == 0 {
		return time.Duration(meanMS) * time.Millisecond
	}

	draw := rand.NormFloat64()*float64(stddevMS) + float64(meanMS)
	if draw < 1 {
		draw = 1
	}

	return time.Duration(draw) * time.Millisecond
}

// Jitter returns baseMS scaled by a uniform factor in [0.5, 1.5), used to
// avoid every repeated injected delay (e.g. a timeout dwell) taking an
// identical duration.
func Jitter(baseMS uint64) time.Duration {
	factor := 0.5 + rand.Float64()
	return time.Duration(float64(baseMS)*factor) * time.Millisecond
}

// WithOverrides returns a copy of p with each field replaced by the
// corresponding argument when it is non-zero, leaving p's own value in place
// otherwise. It lets explicit per-field config values override a named
// preset piecemeal instead of requiring all four to be set together.
func (p Profile) WithOverrides(ttftMean, ttftStddev, tbtMean, tbtStddev uint64) Profile {
	if ttftMean != 0 {
		p.TTFTMeanMS = ttftMean
	}

	if ttftStddev != 0 {
		p.TTFTStddevMS = ttftStddev
	}

	if tbtMean != 0 {
		p.TBTMeanMS = tbtMean
	}

	if tbtStddev != 0 {
		p.TBTStddevMS = tbtStddev
	}

	return p
}
