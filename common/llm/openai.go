package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// AssistantConfig selects a hosted assistant on the OpenAI Assistants API
// or a compatible endpoint.
type AssistantConfig struct {
	APIKey      string
	BaseURL     string
	AssistantID string
}

type openaiAssistant struct {
	client      openai.Client
	assistantID string
}

// NewAssistantClient fails with ErrMissingCredentials when the key or the
// assistant ID is blank.
func NewAssistantClient(cfg AssistantConfig) (AssistantClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.AssistantID) == "" {
		return nil, ErrMissingCredentials
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &openaiAssistant{
		client:      openai.NewClient(opts...),
		assistantID: cfg.AssistantID,
	}, nil
}

func (a *openaiAssistant) CreateConversation(ctx context.Context) (string, error) {
	thread, err := a.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return "", fmt.Errorf("creating thread: %w", err)
	}
	return thread.ID, nil
}

func (a *openaiAssistant) PostMessage(ctx context.Context, conversationID, text string) error {
	_, err := a.client.Beta.Threads.Messages.New(ctx, conversationID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return fmt.Errorf("posting message: %w", err)
	}
	return nil
}

func (a *openaiAssistant) StartRun(ctx context.Context, conversationID string) (string, error) {
	run, err := a.client.Beta.Threads.Runs.New(ctx, conversationID, openai.BetaThreadRunNewParams{
		AssistantID: a.assistantID,
	})
	if err != nil {
		return "", fmt.Errorf("starting run: %w", err)
	}
	return run.ID, nil
}

func (a *openaiAssistant) GetRunStatus(ctx context.Context, conversationID, runID string) (*Run, error) {
	run, err := a.client.Beta.Threads.Runs.Get(ctx, conversationID, runID)
	if err != nil {
		return nil, fmt.Errorf("getting run status: %w", err)
	}
	return &Run{
		ID:        run.ID,
		Status:    RunStatus(run.Status),
		ErrorCode: run.LastError.Code,
		ErrorMsg:  run.LastError.Message,
	}, nil
}

func (a *openaiAssistant) ListReplies(ctx context.Context, conversationID, runID string) ([]Message, error) {
	page, err := a.client.Beta.Threads.Messages.List(ctx, conversationID, openai.BetaThreadMessageListParams{
		Order: openai.BetaThreadMessageListParamsOrderDesc,
		Limit: openai.Int(20),
		RunID: openai.String(runID),
	})
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	messages := make([]Message, 0, len(page.Data))
	for _, m := range page.Data {
		var parts []string
		for _, c := range m.Content {
			if c.Type == "text" {
				parts = append(parts, c.Text.Value)
			}
		}
		messages = append(messages, Message{
			Role: string(m.Role),
			Text: strings.Join(parts, "\n"),
		})
	}
	return messages, nil
}

func (a *openaiAssistant) CancelRun(ctx context.Context, conversationID, runID string) error {
	if _, err := a.client.Beta.Threads.Runs.Cancel(ctx, conversationID, runID); err != nil {
		return fmt.Errorf("cancelling run: %w", err)
	}
	return nil
}
