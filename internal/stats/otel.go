package stats

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// otelInstruments mirrors the atomic counters onto OpenTelemetry metric
// instruments, so the simulator can be scraped by anything that consumes
// the configured MeterProvider (the stdout exporter, when enabled) alongside
// its own /llmsim/stats JSON snapshot.
type otelInstruments struct {
	requests        metric.Int64Counter
	errors          metric.Int64Counter
	promptTokens    metric.Int64Counter
	completionTokens metric.Int64Counter
	latency         metric.Float64Histogram
}

func newOtelInstruments(meter metric.Meter) *otelInstruments {
	requests, _ := meter.Int64Counter(
		"llmsim.requests",
		metric.WithDescription("total requests received, by model and endpoint"),
	)
	errors, _ := meter.Int64Counter(
		"llmsim.errors",
		metric.WithDescription("total injected errors, by status code"),
	)
	promptTokens, _ := meter.Int64Counter(
		"llmsim.tokens.prompt",
		metric.WithDescription("total prompt tokens counted"),
	)
	completionTokens, _ := meter.Int64Counter(
		"llmsim.tokens.completion",
		metric.WithDescription("total completion tokens generated"),
	)
	latency, _ := meter.Float64Histogram(
		"llmsim.latency",
		metric.WithDescription("request latency"),
		metric.WithUnit("ms"),
	)

	return &otelInstruments{
		requests:         requests,
		errors:           errors,
		promptTokens:     promptTokens,
		completionTokens: completionTokens,
		latency:          latency,
	}
}

func (o *otelInstruments) recordStart(ctx context.Context, model string, streaming bool, endpoint Endpoint) {
	o.requests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("model", model),
			attribute.Bool("streaming", streaming),
			attribute.String("endpoint", endpointLabel(endpoint)),
		),
	)
}

func (o *otelInstruments) recordEnd(ctx context.Context, latency time.Duration, promptTokens, completionTokens int) {
	o.latency.Record(ctx, float64(latency.Microseconds())/1000.0)

	if promptTokens > 0 {
		o.promptTokens.Add(ctx, int64(promptTokens))
	}

	if completionTokens > 0 {
		o.completionTokens.Add(ctx, int64(completionTokens))
	}
}

func (o *otelInstruments) recordError(ctx context.Context, statusCode int) {
	o.errors.Add(ctx, 1, metric.WithAttributes(attribute.Int("status_code", statusCode)))
}

func endpointLabel(e Endpoint) string {
	switch e {
	case EndpointResponses:
		return "responses"
	default:
		return "chat_completions"
	}
}
