package logger

import (
	"context"
	"unicode/utf8"
)

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields are attached to every log record emitted with a context that
// carries them. Set them once where the identifier becomes known and the
// rest of the call chain logs them for free.
type LogFields struct {
	AccountID       *int64  // Profile that owns the token balance
	RobotID         *int64  // Robot being edited
	VersionID       *int64  // Version created or edited
	GenerationRunID *int64  // Async generation run
	MessageID       *string // Redis stream message ID
	Operation       *string // create, optimize or fix
	Component       string  // e.g. "forge.generation.orchestrator"
}

// WithLogFields returns a context whose log fields are the existing ones
// overlaid with the non-empty values of fields.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := mergeFields(GetLogFields(ctx), fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields returns the fields stored on ctx, or the zero value.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.AccountID != nil {
		result.AccountID = next.AccountID
	}
	if next.RobotID != nil {
		result.RobotID = next.RobotID
	}
	if next.VersionID != nil {
		result.VersionID = next.VersionID
	}
	if next.GenerationRunID != nil {
		result.GenerationRunID = next.GenerationRunID
	}
	if next.MessageID != nil {
		result.MessageID = next.MessageID
	}
	if next.Operation != nil {
		result.Operation = next.Operation
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr returns a pointer to v, handy for inline LogFields literals.
func Ptr[T any](v T) *T {
	return &v
}

// Truncate shortens s to at most maxLen bytes plus "..." without splitting
// a UTF-8 sequence.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen] + "..."
}
