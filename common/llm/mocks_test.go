package llm_test

import (
	"context"

	"devhubtrader.app/forge/common/llm"
)

type mockAssistant struct {
	createFn func(ctx context.Context) (string, error)
	postFn   func(ctx context.Context, conversationID, text string) error
	startFn  func(ctx context.Context, conversationID string) (string, error)
	statusFn func(ctx context.Context, conversationID, runID string) (*llm.Run, error)
	listFn   func(ctx context.Context, conversationID, runID string) ([]llm.Message, error)
	cancelFn func(ctx context.Context, conversationID, runID string) error

	posted      []string
	statusCalls int
	cancelCalls int
}

func (m *mockAssistant) CreateConversation(ctx context.Context) (string, error) {
	if m.createFn != nil {
		return m.createFn(ctx)
	}
	return "thread_1", nil
}

func (m *mockAssistant) PostMessage(ctx context.Context, conversationID, text string) error {
	m.posted = append(m.posted, text)
	if m.postFn != nil {
		return m.postFn(ctx, conversationID, text)
	}
	return nil
}

func (m *mockAssistant) StartRun(ctx context.Context, conversationID string) (string, error) {
	if m.startFn != nil {
		return m.startFn(ctx, conversationID)
	}
	return "run_1", nil
}

func (m *mockAssistant) GetRunStatus(ctx context.Context, conversationID, runID string) (*llm.Run, error) {
	m.statusCalls++
	if m.statusFn != nil {
		return m.statusFn(ctx, conversationID, runID)
	}
	return &llm.Run{ID: runID, Status: llm.RunStatusCompleted}, nil
}

func (m *mockAssistant) ListReplies(ctx context.Context, conversationID, runID string) ([]llm.Message, error) {
	if m.listFn != nil {
		return m.listFn(ctx, conversationID, runID)
	}
	return []llm.Message{{Role: "assistant", Text: "ok"}}, nil
}

func (m *mockAssistant) CancelRun(ctx context.Context, conversationID, runID string) error {
	m.cancelCalls++
	if m.cancelFn != nil {
		return m.cancelFn(ctx, conversationID, runID)
	}
	return nil
}

// statusSequence returns the given statuses in order and repeats the last.
func statusSequence(statuses ...llm.RunStatus) func(context.Context, string, string) (*llm.Run, error) {
	i := 0
	return func(_ context.Context, _ string, runID string) (*llm.Run, error) {
		s := statuses[min(i, len(statuses)-1)]
		i++
		return &llm.Run{ID: runID, Status: s}, nil
	}
}
