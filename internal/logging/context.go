package logging

import (
	"context"
	"log/slog"
	"strings"
)

// Keys shared by every component. The console handler prints component,
// cycle_id and the first of endpoint, chart or element in the line header.
const (
	FieldComponent = "component"
	FieldCycleID   = "cycle_id"
	FieldEndpoint  = "endpoint"
	FieldChart     = "chart"
	FieldElement   = "element"

	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact states what the user sees as a result.
	FieldImpact = "impact"
)

type contextKey int

const cycleIDKey contextKey = iota

// WithCycleID stores a refresh cycle identifier on ctx.
func WithCycleID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, cycleIDKey, strings.TrimSpace(id))
}

// CycleIDFromContext returns the refresh cycle identifier stored on ctx.
func CycleIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(cycleIDKey).(string)
	return id, ok && id != ""
}

// WithContext tags logger with the cycle ID carried by ctx, if any.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id, ok := CycleIDFromContext(ctx); ok {
		return logger.With(slog.String(FieldCycleID, id))
	}
	return logger
}
