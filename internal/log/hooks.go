package log

import "context"

type contextKey string

const (
	traceIDKey       contextKey = "trace_id"
	operationNameKey contextKey = "operation_name"
)

// WithTraceID stores a trace ID in ctx so subsequent log calls made with it
// carry a "trace_id" field.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// GetTraceID retrieves the trace ID stored by WithTraceID, if any.
func GetTraceID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(traceIDKey).(string)
	return v, ok
}

// WithOperationName stores the current operation name (e.g. the handler
// name) in ctx so subsequent log calls made with it carry an
// "operation_name" field.
func WithOperationName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, operationNameKey, name)
}

// GetOperationName retrieves the operation name stored by WithOperationName.
func GetOperationName(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(operationNameKey).(string)
	return v, ok
}

// traceFields is the default hook installed on the package logger: it lifts
// the trace ID and operation name out of the context, if present.
func traceFields(ctx context.Context, _ string, _ ...Field) []Field {
	if ctx == nil {
		return nil
	}

	var fields []Field

	if traceID, ok := GetTraceID(ctx); ok {
		fields = append(fields, String("trace_id", traceID))
	}

	if operationName, ok := GetOperationName(ctx); ok {
		fields = append(fields, String("operation_name", operationName))
	}

	return fields
}
