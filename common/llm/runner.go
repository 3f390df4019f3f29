package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	defaultPollInterval    = time.Second
	defaultMaxPollInterval = 8 * time.Second
	defaultRunTimeout      = 3 * time.Minute
	defaultMaxPollErrors   = 3
	cancelRunTimeout       = 10 * time.Second
)

type RunnerConfig struct {
	PollInterval    time.Duration
	MaxPollInterval time.Duration
	Timeout         time.Duration
	// MaxPollErrors is how many consecutive retryable status-check failures
	// are tolerated before the run is abandoned.
	MaxPollErrors int
}

func (c RunnerConfig) withDefaults() RunnerConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.MaxPollInterval < c.PollInterval {
		c.MaxPollInterval = max(defaultMaxPollInterval, c.PollInterval)
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultRunTimeout
	}
	if c.MaxPollErrors <= 0 {
		c.MaxPollErrors = defaultMaxPollErrors
	}
	return c
}

// Reply is the text of a completed run plus bookkeeping for logs.
type Reply struct {
	Text           string
	ConversationID string
	RunID          string
	Polls          int
	Duration       time.Duration
}

// Runner submits one message to a fresh conversation and waits for the
// assistant to answer.
type Runner struct {
	client AssistantClient
	cfg    RunnerConfig
}

// NewRunner accepts a nil client; such a runner fails every Run with
// ErrMissingCredentials so callers can report it like any other outcome.
func NewRunner(client AssistantClient, cfg RunnerConfig) *Runner {
	return &Runner{client: client, cfg: cfg.withDefaults()}
}

// Configured reports whether Run can reach an assistant at all.
func (r *Runner) Configured() bool {
	return r != nil && r.client != nil
}

// Run opens a conversation, posts message, starts a run and polls it with
// exponential backoff until it completes, fails, or the configured timeout
// or ctx expires. A timed-out or cancelled run is cancelled remotely on a
// best-effort basis.
func (r *Runner) Run(ctx context.Context, message string) (*Reply, error) {
	if !r.Configured() {
		return nil, ErrMissingCredentials
	}

	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	conversationID, err := r.client.CreateConversation(runCtx)
	if err != nil {
		return nil, r.interrupted(ctx, runCtx, err)
	}
	if err := r.client.PostMessage(runCtx, conversationID, message); err != nil {
		return nil, r.interrupted(ctx, runCtx, err)
	}
	runID, err := r.client.StartRun(runCtx, conversationID)
	if err != nil {
		return nil, r.interrupted(ctx, runCtx, err)
	}

	slog.DebugContext(ctx, "assistant run started",
		"conversation_id", conversationID,
		"run_id", runID)

	polls, err := r.waitForCompletion(runCtx, conversationID, runID)
	if err != nil {
		if runCtx.Err() != nil {
			r.cancelRemote(ctx, conversationID, runID)
		}
		return nil, r.interrupted(ctx, runCtx, err)
	}

	replies, err := r.client.ListReplies(runCtx, conversationID, runID)
	if err != nil {
		return nil, r.interrupted(ctx, runCtx, err)
	}

	text := firstAssistantText(replies)
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyReply
	}

	reply := &Reply{
		Text:           text,
		ConversationID: conversationID,
		RunID:          runID,
		Polls:          polls,
		Duration:       time.Since(start),
	}

	slog.InfoContext(ctx, "assistant run completed",
		"run_id", runID,
		"polls", polls,
		"duration_ms", reply.Duration.Milliseconds(),
		"reply_len", len(text))

	return reply, nil
}

func (r *Runner) waitForCompletion(ctx context.Context, conversationID, runID string) (int, error) {
	interval := r.cfg.PollInterval
	timer := time.NewTimer(interval)
	defer timer.Stop()

	polls := 0
	pollErrors := 0
	for {
		select {
		case <-ctx.Done():
			return polls, ctx.Err()
		case <-timer.C:
		}

		polls++
		run, err := r.client.GetRunStatus(ctx, conversationID, runID)
		switch {
		case err != nil && ctx.Err() != nil:
			return polls, ctx.Err()
		case err != nil:
			pollErrors++
			if !IsRetryable(ctx, err) || pollErrors >= r.cfg.MaxPollErrors {
				return polls, err
			}
			slog.WarnContext(ctx, "assistant status check failed, retrying",
				"run_id", runID,
				"attempt", pollErrors,
				"error", err)
		case run.Status == RunStatusCompleted:
			return polls, nil
		case !run.Status.Pending():
			return polls, &RunError{Status: run.Status, Code: run.ErrorCode, Message: run.ErrorMsg}
		default:
			pollErrors = 0
		}

		interval = min(interval*2, r.cfg.MaxPollInterval)
		timer.Reset(interval)
	}
}

// interrupted translates an error seen while runCtx was live. Caller
// cancellation wins over our own deadline.
func (r *Runner) interrupted(parent, runCtx context.Context, err error) error {
	if parent.Err() != nil {
		return fmt.Errorf("assistant run aborted: %w", parent.Err())
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeout, r.cfg.Timeout)
	}
	return err
}

func (r *Runner) cancelRemote(ctx context.Context, conversationID, runID string) {
	cancelCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cancelRunTimeout)
	defer cancel()

	if err := r.client.CancelRun(cancelCtx, conversationID, runID); err != nil {
		slog.WarnContext(ctx, "failed to cancel abandoned assistant run",
			"run_id", runID,
			"error", err)
	}
}

func firstAssistantText(messages []Message) string {
	for _, m := range messages {
		if m.Role == "assistant" {
			return m.Text
		}
	}
	return ""
}
