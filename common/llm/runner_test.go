package llm_test

import (
	"context"
	"errors"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/openai/openai-go"

	"devhubtrader.app/forge/common/llm"
)

var fastConfig = llm.RunnerConfig{
	PollInterval:    time.Millisecond,
	MaxPollInterval: 4 * time.Millisecond,
	Timeout:         time.Second,
}

var _ = Describe("Runner", func() {
	var (
		ctx    context.Context
		client *mockAssistant
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = &mockAssistant{}
	})

	It("returns the newest assistant message once the run completes", func() {
		client.statusFn = statusSequence(llm.RunStatusQueued, llm.RunStatusInProgress, llm.RunStatusCompleted)
		client.listFn = func(_ context.Context, _, _ string) ([]llm.Message, error) {
			return []llm.Message{
				{Role: "user", Text: "echo"},
				{Role: "assistant", Text: "```ntsl\nx\n```"},
				{Role: "assistant", Text: "older"},
			}, nil
		}

		reply, err := llm.NewRunner(client, fastConfig).Run(ctx, "hello")

		Expect(err).NotTo(HaveOccurred())
		Expect(reply.Text).To(Equal("```ntsl\nx\n```"))
		Expect(reply.Polls).To(Equal(3))
		Expect(reply.RunID).To(Equal("run_1"))
		Expect(client.posted).To(ConsistOf("hello"))
		Expect(client.cancelCalls).To(BeZero())
	})

	DescribeTable("treats non-success terminal statuses as failures",
		func(status llm.RunStatus) {
			client.statusFn = func(_ context.Context, _, runID string) (*llm.Run, error) {
				return &llm.Run{ID: runID, Status: status, ErrorCode: "server_error", ErrorMsg: "boom"}, nil
			}

			_, err := llm.NewRunner(client, fastConfig).Run(ctx, "hello")

			Expect(err).To(MatchError(llm.ErrRunFailed))
			var runErr *llm.RunError
			Expect(errors.As(err, &runErr)).To(BeTrue())
			Expect(runErr.Status).To(Equal(status))
			Expect(runErr.Code).To(Equal("server_error"))
		},
		Entry("failed", llm.RunStatusFailed),
		Entry("cancelled", llm.RunStatusCancelled),
		Entry("expired", llm.RunStatusExpired),
		Entry("incomplete", llm.RunStatusIncomplete),
		Entry("requires_action", llm.RunStatusRequiresAction),
	)

	It("times out and cancels the remote run", func() {
		client.statusFn = statusSequence(llm.RunStatusInProgress)
		cfg := fastConfig
		cfg.Timeout = 30 * time.Millisecond

		_, err := llm.NewRunner(client, cfg).Run(ctx, "hello")

		Expect(err).To(MatchError(llm.ErrTimeout))
		Expect(client.cancelCalls).To(Equal(1))
	})

	It("stops promptly when the caller cancels", func() {
		client.statusFn = statusSequence(llm.RunStatusInProgress)
		cfg := fastConfig
		cfg.Timeout = time.Minute

		cctx, cancel := context.WithCancel(ctx)
		time.AfterFunc(20*time.Millisecond, cancel)

		start := time.Now()
		_, err := llm.NewRunner(client, cfg).Run(cctx, "hello")

		Expect(err).To(MatchError(context.Canceled))
		Expect(err).NotTo(MatchError(llm.ErrTimeout))
		Expect(time.Since(start)).To(BeNumerically("<", 5*time.Second))
		Expect(client.cancelCalls).To(Equal(1))
	})

	It("reports an empty reply", func() {
		client.listFn = func(_ context.Context, _, _ string) ([]llm.Message, error) {
			return []llm.Message{{Role: "assistant", Text: "   "}}, nil
		}

		_, err := llm.NewRunner(client, fastConfig).Run(ctx, "hello")

		Expect(err).To(MatchError(llm.ErrEmptyReply))
	})

	It("reports a reply with no assistant message as empty", func() {
		client.listFn = func(_ context.Context, _, _ string) ([]llm.Message, error) {
			return nil, nil
		}

		_, err := llm.NewRunner(client, fastConfig).Run(ctx, "hello")

		Expect(err).To(MatchError(llm.ErrEmptyReply))
	})

	It("tolerates transient status-check failures", func() {
		calls := 0
		client.statusFn = func(_ context.Context, _, runID string) (*llm.Run, error) {
			calls++
			if calls <= 2 {
				return nil, errors.New("connection reset by peer")
			}
			return &llm.Run{ID: runID, Status: llm.RunStatusCompleted}, nil
		}

		reply, err := llm.NewRunner(client, fastConfig).Run(ctx, "hello")

		Expect(err).NotTo(HaveOccurred())
		Expect(reply.Polls).To(Equal(3))
	})

	It("gives up after too many consecutive status-check failures", func() {
		client.statusFn = func(_ context.Context, _, _ string) (*llm.Run, error) {
			return nil, errors.New("connection reset by peer")
		}

		_, err := llm.NewRunner(client, fastConfig).Run(ctx, "hello")

		Expect(err).To(MatchError(ContainSubstring("connection reset")))
		Expect(client.statusCalls).To(Equal(3))
	})

	It("propagates setup failures without polling", func() {
		client.startFn = func(_ context.Context, _ string) (string, error) {
			return "", errors.New("starting run: 400 bad assistant")
		}

		_, err := llm.NewRunner(client, fastConfig).Run(ctx, "hello")

		Expect(err).To(MatchError(ContainSubstring("bad assistant")))
		Expect(client.statusCalls).To(BeZero())
	})

	It("fails fast without a client", func() {
		runner := llm.NewRunner(nil, fastConfig)

		Expect(runner.Configured()).To(BeFalse())
		_, err := runner.Run(ctx, "hello")
		Expect(err).To(MatchError(llm.ErrMissingCredentials))
	})
})

var _ = Describe("NewAssistantClient", func() {
	DescribeTable("requires both key and assistant",
		func(cfg llm.AssistantConfig) {
			_, err := llm.NewAssistantClient(cfg)
			Expect(err).To(MatchError(llm.ErrMissingCredentials))
		},
		Entry("nothing set", llm.AssistantConfig{}),
		Entry("key only", llm.AssistantConfig{APIKey: "sk-test"}),
		Entry("assistant only", llm.AssistantConfig{AssistantID: "asst_1"}),
		Entry("blank key", llm.AssistantConfig{APIKey: "  ", AssistantID: "asst_1"}),
	)

	It("builds a client when configured", func() {
		client, err := llm.NewAssistantClient(llm.AssistantConfig{APIKey: "sk-test", AssistantID: "asst_1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(client).NotTo(BeNil())
	})
})

var _ = Describe("IsRetryable", func() {
	ctx := context.Background()

	DescribeTable("classifies errors",
		func(err error, want bool) {
			Expect(llm.IsRetryable(ctx, err)).To(Equal(want))
		},
		Entry("nil", nil, false),
		Entry("canceled", context.Canceled, false),
		Entry("deadline", context.DeadlineExceeded, false),
		Entry("missing credentials", llm.ErrMissingCredentials, false),
		Entry("rate limited", &openai.Error{StatusCode: http.StatusTooManyRequests}, true),
		Entry("server error", &openai.Error{StatusCode: http.StatusBadGateway}, true),
		Entry("bad request", &openai.Error{StatusCode: http.StatusBadRequest}, false),
		Entry("run failure", &llm.RunError{Status: llm.RunStatusFailed}, false),
		Entry("network", errors.New("dial tcp: i/o timeout"), true),
	)
})

type metadata struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

var _ = Describe("GenerateSchema", func() {
	It("produces a closed object schema", func() {
		schema := llm.GenerateSchema[metadata]()

		Expect(schema.Type).To(Equal("object"))
		Expect(schema.Properties.Len()).To(Equal(2))
		_, ok := schema.Properties.Get("tags")
		Expect(ok).To(BeTrue())
	})
})
