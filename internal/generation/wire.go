package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"devhubtrader.app/forge/common/llm"
	"devhubtrader.app/forge/core/config"
	"devhubtrader.app/forge/core/db"
	"devhubtrader.app/forge/internal/store"
)

// NewFromConfig builds an orchestrator over the database and the configured
// assistant. Missing assistant credentials are not fatal: every generation
// then fails with KindMissingCredentials.
func NewFromConfig(ctx context.Context, cfg config.Config, database *db.DB) (*Orchestrator, error) {
	client, err := llm.NewAssistantClient(llm.AssistantConfig{
		APIKey:      cfg.Assistant.APIKey,
		BaseURL:     cfg.Assistant.BaseURL,
		AssistantID: cfg.Assistant.AssistantID,
	})
	switch {
	case errors.Is(err, llm.ErrMissingCredentials):
		slog.WarnContext(ctx, "assistant credentials not configured, generation disabled")
		client = nil
	case err != nil:
		return nil, fmt.Errorf("creating assistant client: %w", err)
	}

	runner := llm.NewRunner(client, llm.RunnerConfig{
		PollInterval:    cfg.Assistant.PollInterval,
		MaxPollInterval: cfg.Assistant.MaxPollInterval,
		Timeout:         cfg.Assistant.Timeout,
	})

	stores := store.NewStores(database.Queries())
	return NewOrchestrator(Config{
		TokenCost:          cfg.Generation.TokenCost,
		NameMaxAttempts:    cfg.Generation.NameMaxAttempts,
		MaxPersistAttempts: cfg.Generation.MaxPersistAttempts,
	}, runner, stores.Robots(), stores.Versions(), stores.Ledger(), NewTxRunner(database)), nil
}
