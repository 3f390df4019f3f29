package worker

import (
	"context"

	"devhubtrader.app/forge/internal/queue"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// GenerationProcessor drives a queued generation run. It returns an error
// only when the run should be retried.
type GenerationProcessor interface {
	Process(ctx context.Context, runID int64, finalAttempt bool) error
}
