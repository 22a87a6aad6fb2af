// Package simerror implements the error-injection policy engine: a
// probabilistic selector mapping configured rates to categorical failure
// modes with correct HTTP status and Retry-After semantics.
package simerror

import (
	"math/rand"
	"time"

	"github.com/looplj/llmsim/internal/latency"
)

// Kind identifies a category of injected failure.
type Kind int

const (
	KindNone Kind = iota
	KindRateLimit
	KindServerError
	KindServiceUnavailable
	KindTimeout
	KindInvalidRequest
	KindAuthError
)

// Config holds the configured injection rates. Rates are independent
// probabilities in [0,1]; their sum may exceed 1, in which case the earlier
// categories in the fixed evaluation order dominate (see Injector.Maybe).
type Config struct {
	RateLimitRate      float64
	ServerErrorRate    float64
	TimeoutRate        float64
	TimeoutAfterMS      uint64
	InvalidRequestRate float64
	AuthErrorRate      float64
}

// None is a config that never injects an error.
func None() Config {
	return Config{TimeoutAfterMS: 30000}
}

// Chaos is a preset with modest rates across every category, useful for
// exercising client retry logic end to end.
func Chaos() Config {
	return Config{
		RateLimitRate:      0.1,
		ServerErrorRate:    0.05,
		TimeoutRate:        0.05,
		TimeoutAfterMS:      5000,
		InvalidRequestRate: 0.02,
		AuthErrorRate:      0.01,
	}
}

// RateLimited is a preset that injects a rate-limit error on half of all
// requests.
func RateLimited() Config {
	return Config{RateLimitRate: 0.5, TimeoutAfterMS: 30000}
}

func clamp01(r float64) float64 {
	if r < 0 {
		return 0
	}

	if r > 1 {
		return 1
	}

	return r
}

func (c Config) WithRateLimitRate(rate float64) Config {
	c.RateLimitRate = clamp01(rate)
	return c
}

func (c Config) WithServerErrorRate(rate float64) Config {
	c.ServerErrorRate = clamp01(rate)
	return c
}

func (c Config) WithTimeoutRate(rate float64) Config {
	c.TimeoutRate = clamp01(rate)
	return c
}

func (c Config) WithTimeoutAfterMS(ms uint64) Config {
	c.TimeoutAfterMS = ms
	return c
}

func (c Config) WithInvalidRequestRate(rate float64) Config {
	c.InvalidRequestRate = clamp01(rate)
	return c
}

func (c Config) WithAuthErrorRate(rate float64) Config {
	c.AuthErrorRate = clamp01(rate)
	return c
}

// TotalRate returns the sum of all configured rates, clamped to at most 1.0.
func (c Config) TotalRate() float64 {
	total := c.RateLimitRate + c.ServerErrorRate + c.TimeoutRate + c.InvalidRequestRate + c.AuthErrorRate
	if total > 1 {
		return 1
	}

	return total
}

// SimulatedError is the outcome of a successful injection draw.
type SimulatedError struct {
	Kind              Kind
	RetryAfterSeconds int
	TimeoutAfter      time.Duration
	Message           string
}

// StatusCode returns the HTTP status that corresponds to e.Kind.
func (e SimulatedError) StatusCode() int {
	switch e.Kind {
	case KindRateLimit:
		return 429
	case KindServerError:
		return 500
	case KindServiceUnavailable:
		return 503
	case KindTimeout:
		return 504
	case KindInvalidRequest:
		return 400
	case KindAuthError:
		return 401
	default:
		return 200
	}
}

// ErrorType returns the stable JSON "type" string for the error envelope.
func (e SimulatedError) ErrorType() string {
	switch e.Kind {
	case KindRateLimit:
		return "rate_limit_error"
	case KindServerError:
		return "server_error"
	case KindServiceUnavailable:
		return "service_unavailable"
	case KindTimeout:
		return "timeout_error"
	case KindInvalidRequest:
		return "invalid_request_error"
	case KindAuthError:
		return "authentication_error"
	default:
		return ""
	}
}

// ErrorMessage returns the human-readable message for the error envelope.
func (e SimulatedError) ErrorMessage() string {
	if e.Message != "" {
		return e.Message
	}

	switch e.Kind {
	case KindRateLimit:
		return "Rate limit exceeded"
	case KindServerError:
		return "Internal server error"
	case KindServiceUnavailable:
		return "Service temporarily unavailable"
	case KindTimeout:
		return "Request timed out"
	case KindAuthError:
		return "Invalid API key provided"
	default:
		return ""
	}
}

// RetryAfter returns the Retry-After header value in seconds, if applicable.
func (e SimulatedError) RetryAfter() (int, bool) {
	switch e.Kind {
	case KindRateLimit:
		return e.RetryAfterSeconds, true
	case KindServiceUnavailable:
		return 60, true
	default:
		return 0, false
	}
}

// Injector decides, per request, whether to return an injected error.
type Injector struct {
	config Config
}

func NewInjector(config Config) *Injector {
	return &Injector{config: config}
}

func (inj *Injector) Config() Config {
	return inj.config
}

// IsEnabled reports whether any category has a non-zero rate.
func (inj *Injector) IsEnabled() bool {
	return inj.config.TotalRate() > 0
}

// Maybe draws one uniform sample and walks the fixed category order —
// rate_limit, server_error (700/300 split between 500 and 503), timeout,
// invalid_request, auth_error — returning the first category whose
// cumulative threshold exceeds the draw. Categories are mutually exclusive
// per request; each kind's marginal probability equals its configured rate
// whenever rates sum to at most 1, and earlier categories dominate when
// they sum above 1.
func (inj *Injector) Maybe() (SimulatedError, bool) {
	roll := rand.Float64()
	threshold := 0.0

	threshold += inj.config.RateLimitRate
	if roll < threshold {
		return SimulatedError{Kind: KindRateLimit, RetryAfterSeconds: 1 + rand.Intn(59)}, true
	}

	threshold += inj.config.ServerErrorRate
	if roll < threshold {
		if rand.Float64() < 0.7 {
			return SimulatedError{Kind: KindServerError}, true
		}

		return SimulatedError{Kind: KindServiceUnavailable}, true
	}

	threshold += inj.config.TimeoutRate
	if roll < threshold {
		// Jittered so repeated timeout injections don't all dwell for an
		// identical duration.
		return SimulatedError{
			Kind:         KindTimeout,
			TimeoutAfter: latency.Jitter(inj.config.TimeoutAfterMS),
		}, true
	}

	threshold += inj.config.InvalidRequestRate
	if roll < threshold {
		return SimulatedError{Kind: KindInvalidRequest, Message: "Simulated invalid request error"}, true
	}

	threshold += inj.config.AuthErrorRate
	if roll < threshold {
		return SimulatedError{Kind: KindAuthError}, true
	}

	return SimulatedError{}, false
}
