package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
)

var (
	// ErrMissingCredentials means no API key or assistant is configured.
	// It is returned before any network call.
	ErrMissingCredentials = errors.New("assistant credentials are not configured")

	// ErrRunFailed is the class of every run that ended in a non-success
	// state. Use errors.As with *RunError for details.
	ErrRunFailed = errors.New("assistant run failed")

	ErrTimeout    = errors.New("assistant run timed out")
	ErrEmptyReply = errors.New("assistant reply was empty")
)

// RunStatus mirrors the lifecycle of a hosted assistant run.
type RunStatus string

const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusRequiresAction RunStatus = "requires_action"
	RunStatusCancelling     RunStatus = "cancelling"
	RunStatusCancelled      RunStatus = "cancelled"
	RunStatusFailed         RunStatus = "failed"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusIncomplete     RunStatus = "incomplete"
	RunStatusExpired        RunStatus = "expired"
)

// Pending reports whether the run may still make progress on its own.
// requires_action is not pending: no tools are registered, so nothing will
// ever submit the outputs it waits for.
func (s RunStatus) Pending() bool {
	switch s {
	case RunStatusQueued, RunStatusInProgress, RunStatusCancelling:
		return true
	}
	return false
}

type Run struct {
	ID        string
	Status    RunStatus
	ErrorCode string
	ErrorMsg  string
}

type Message struct {
	Role string
	Text string
}

// AssistantClient is the handful of primitives the runner needs from a
// hosted conversational assistant.
type AssistantClient interface {
	CreateConversation(ctx context.Context) (string, error)
	PostMessage(ctx context.Context, conversationID, text string) error
	StartRun(ctx context.Context, conversationID string) (string, error)
	GetRunStatus(ctx context.Context, conversationID, runID string) (*Run, error)
	// ListReplies returns messages produced by runID, newest first.
	ListReplies(ctx context.Context, conversationID, runID string) ([]Message, error)
	CancelRun(ctx context.Context, conversationID, runID string) error
}

// RunError describes a run that finished without completing.
type RunError struct {
	Status  RunStatus
	Code    string
	Message string
}

func (e *RunError) Error() string {
	if e.Code == "" && e.Message == "" {
		return fmt.Sprintf("assistant run ended with status %s", e.Status)
	}
	return fmt.Sprintf("assistant run ended with status %s: %s %s", e.Status, e.Code, e.Message)
}

func (e *RunError) Unwrap() error {
	return ErrRunFailed
}

// GenerateSchema reflects T into a closed JSON schema suitable for
// embedding in prompts.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// IsRetryable reports whether err is worth another attempt: rate limits,
// server errors and transport failures are, cancellations and client
// errors are not.
func IsRetryable(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrMissingCredentials) {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 429:
			slog.WarnContext(ctx, "assistant rate limited", "status_code", apiErr.StatusCode)
			return true
		case apiErr.StatusCode >= 500:
			slog.WarnContext(ctx, "assistant server error", "status_code", apiErr.StatusCode)
			return true
		default:
			slog.ErrorContext(ctx, "assistant client error, not retryable",
				"status_code", apiErr.StatusCode,
				"error_type", apiErr.Type,
				"error_code", apiErr.Code)
			return false
		}
	}

	var runErr *RunError
	if errors.As(err, &runErr) {
		return false
	}

	// No API response at all: treat as a network blip.
	return true
}
