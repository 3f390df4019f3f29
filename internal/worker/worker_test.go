package worker_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"devhubtrader.app/forge/internal/generation"
	"devhubtrader.app/forge/internal/queue"
	"devhubtrader.app/forge/internal/worker"
)

var _ = Describe("Worker", func() {
	var (
		consumer  *mockConsumer
		processor *mockProcessor
		w         *worker.Worker
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		consumer = &mockConsumer{}
		processor = &mockProcessor{}
		w = worker.New(consumer, processor, worker.Config{MaxAttempts: 3})
	})

	msg := func(attempt int) queue.Message {
		return queue.Message{ID: "1-0", TaskType: queue.TaskTypeGeneration, RunID: 55, Attempt: attempt}
	}

	It("acknowledges a processed run", func() {
		Expect(w.ProcessMessage(ctx, msg(1))).To(Succeed())

		acked, requeued, dlq := consumer.counts()
		Expect(acked).To(Equal(1))
		Expect(requeued).To(BeZero())
		Expect(dlq).To(BeZero())
		Expect(processor.calls).To(ConsistOf(processCall{runID: 55, finalAttempt: false}))
	})

	It("marks the last allowed attempt as final", func() {
		Expect(w.ProcessMessage(ctx, msg(3))).To(Succeed())
		Expect(processor.calls[0].finalAttempt).To(BeTrue())
	})

	It("acknowledges unknown task types without processing", func() {
		m := msg(1)
		m.TaskType = "reindex"

		Expect(w.ProcessMessage(ctx, m)).To(Succeed())

		acked, _, _ := consumer.counts()
		Expect(acked).To(Equal(1))
		Expect(processor.callCount()).To(BeZero())
	})

	Describe("Handle", func() {
		retryable := &generation.Error{Kind: generation.KindUnavailable, Err: errors.New("db down")}

		It("requeues a retryable failure before the last attempt", func() {
			processor.processFn = func(context.Context, int64, bool) error { return retryable }

			w.Handle(ctx, msg(1))

			acked, requeued, dlq := consumer.counts()
			Expect(acked).To(BeZero())
			Expect(requeued).To(Equal(1))
			Expect(dlq).To(BeZero())
			Expect(consumer.lastError).To(ContainSubstring("db down"))
		})

		It("sends the message to the DLQ once attempts are exhausted", func() {
			processor.processFn = func(context.Context, int64, bool) error { return retryable }

			w.Handle(ctx, msg(3))

			_, requeued, dlq := consumer.counts()
			Expect(requeued).To(BeZero())
			Expect(dlq).To(Equal(1))
		})

		It("recovers from a panicking processor", func() {
			processor.processFn = func(context.Context, int64, bool) error { panic("boom") }

			Expect(func() { w.Handle(ctx, msg(1)) }).NotTo(Panic())

			_, requeued, _ := consumer.counts()
			Expect(requeued).To(Equal(1))
			Expect(consumer.lastError).To(ContainSubstring("panic: boom"))
		})
	})

	It("drains messages until stopped", func() {
		delivered := false
		consumer.readFn = func(ctx context.Context) ([]queue.Message, error) {
			if !delivered {
				delivered = true
				return []queue.Message{msg(1)}, nil
			}
			select {
			case <-ctx.Done():
			case <-time.After(10 * time.Millisecond):
			}
			return nil, nil
		}

		done := make(chan error, 1)
		go func() { done <- w.Run(ctx) }()

		Eventually(processor.callCount).Should(Equal(1))
		w.Stop()
		Eventually(done).Should(Receive(BeNil()))
	})
})

var _ = Describe("RedisReclaimer", func() {
	It("hands claimed messages to the worker", func() {
		consumer := &mockConsumer{}
		processor := &mockProcessor{}
		w := worker.New(consumer, processor, worker.Config{MaxAttempts: 3})
		claimer := &mockClaimer{
			pending: []redis.XPendingExt{{ID: "9-0", Consumer: "dead", Idle: time.Minute}},
			claimed: map[string]redis.XMessage{
				"9-0": {ID: "9-0", Values: map[string]any{"task_type": "generation", "run_id": "77", "attempt": "2"}},
			},
		}
		r := worker.NewRedisReclaimer(claimer, worker.RedisReclaimerConfig{
			Stream:    "forge_generations",
			Group:     "forge_workers",
			Consumer:  "reclaimer",
			MinIdle:   time.Second,
			Interval:  5 * time.Millisecond,
			BatchSize: 10,
		}, consumer, w)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go r.Run(ctx)

		Eventually(processor.callCount).Should(Equal(1))
		Expect(processor.calls[0].runID).To(Equal(int64(77)))
		Eventually(func() int { acked, _, _ := consumer.counts(); return acked }).Should(Equal(1))
		r.Stop()
	})
})
