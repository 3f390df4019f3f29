package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"devhubtrader.app/forge/common/id"
	"devhubtrader.app/forge/internal/model"
	"devhubtrader.app/forge/internal/store"
)

const recentEntriesLimit = 20

var ErrInvalidAmount = errors.New("amount must be positive")

type Balance struct {
	AccountID int64               `json:"account_id"`
	Tokens    int64               `json:"tokens"`
	Recent    []model.LedgerEntry `json:"recent"`
}

type LedgerService interface {
	// Balance reports an account without a profile as holding zero tokens.
	Balance(ctx context.Context, accountID int64) (*Balance, error)
	Credit(ctx context.Context, accountID, amount int64, reason model.LedgerReason) (*model.LedgerEntry, error)
	EnsureProfile(ctx context.Context, accountID int64, displayName string) (*model.Profile, error)
}

type ledgerService struct {
	ledger store.LedgerStore
}

func NewLedgerService(ledger store.LedgerStore) LedgerService {
	return &ledgerService{ledger: ledger}
}

func (s *ledgerService) Balance(ctx context.Context, accountID int64) (*Balance, error) {
	balance := &Balance{AccountID: accountID, Recent: []model.LedgerEntry{}}

	profile, err := s.ledger.GetProfile(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return balance, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	balance.Tokens = profile.TokenBalance

	entries, err := s.ledger.ListEntries(ctx, accountID, recentEntriesLimit)
	if err != nil {
		return nil, fmt.Errorf("listing ledger entries: %w", err)
	}
	if entries != nil {
		balance.Recent = entries
	}
	return balance, nil
}

func (s *ledgerService) Credit(ctx context.Context, accountID, amount int64, reason model.LedgerReason) (*model.LedgerEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if reason == "" {
		reason = model.LedgerReasonTopUp
	}

	entry, err := s.ledger.Credit(ctx, store.CreditParams{
		EntryID:   id.New(),
		ProfileID: accountID,
		Amount:    amount,
		Reason:    reason,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to credit tokens",
			"error", err,
			"account_id", accountID,
			"amount", amount)
		return nil, fmt.Errorf("crediting tokens: %w", err)
	}

	slog.InfoContext(ctx, "tokens credited",
		"account_id", accountID,
		"amount", amount,
		"balance_after", entry.BalanceAfter)
	return entry, nil
}

func (s *ledgerService) EnsureProfile(ctx context.Context, accountID int64, displayName string) (*model.Profile, error) {
	profile, err := s.ledger.GetProfile(ctx, accountID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	profile = &model.Profile{ID: accountID, DisplayName: displayName}
	if err := s.ledger.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}
	slog.InfoContext(ctx, "profile created", "account_id", accountID)
	return profile, nil
}
