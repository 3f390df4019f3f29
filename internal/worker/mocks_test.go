package worker_test

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"

	"devhubtrader.app/forge/internal/queue"
)

type mockConsumer struct {
	mu sync.Mutex

	readFn func(ctx context.Context) ([]queue.Message, error)

	acked     []queue.Message
	requeued  []queue.Message
	dlq       []queue.Message
	lastError string
}

func (m *mockConsumer) Read(ctx context.Context) ([]queue.Message, error) {
	if m.readFn != nil {
		return m.readFn(ctx)
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (m *mockConsumer) Ack(_ context.Context, msg queue.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = append(m.acked, msg)
	return nil
}

func (m *mockConsumer) Requeue(_ context.Context, msg queue.Message, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requeued = append(m.requeued, msg)
	m.lastError = errMsg
	return nil
}

func (m *mockConsumer) SendDLQ(_ context.Context, msg queue.Message, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dlq = append(m.dlq, msg)
	m.lastError = errMsg
	return nil
}

func (m *mockConsumer) counts() (acked, requeued, dlq int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.acked), len(m.requeued), len(m.dlq)
}

type processCall struct {
	runID        int64
	finalAttempt bool
}

type mockProcessor struct {
	mu        sync.Mutex
	processFn func(ctx context.Context, runID int64, finalAttempt bool) error
	calls     []processCall
}

func (m *mockProcessor) Process(ctx context.Context, runID int64, finalAttempt bool) error {
	m.mu.Lock()
	m.calls = append(m.calls, processCall{runID: runID, finalAttempt: finalAttempt})
	m.mu.Unlock()
	if m.processFn != nil {
		return m.processFn(ctx, runID, finalAttempt)
	}
	return nil
}

func (m *mockProcessor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockClaimer struct {
	pending []redis.XPendingExt
	claimed map[string]redis.XMessage
}

func (m *mockClaimer) XPendingExt(ctx context.Context, _ *redis.XPendingExtArgs) *redis.XPendingExtCmd {
	cmd := redis.NewXPendingExtCmd(ctx)
	cmd.SetVal(m.pending)
	m.pending = nil
	return cmd
}

func (m *mockClaimer) XClaim(ctx context.Context, a *redis.XClaimArgs) *redis.XMessageSliceCmd {
	cmd := redis.NewXMessageSliceCmd(ctx)
	var out []redis.XMessage
	for _, id := range a.Messages {
		if msg, ok := m.claimed[id]; ok {
			out = append(out, msg)
		}
	}
	cmd.SetVal(out)
	return cmd
}
