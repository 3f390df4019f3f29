package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"devhubtrader.app/forge/core/db/sqlc"
	"devhubtrader.app/forge/internal/model"
)

type ledgerStore struct {
	queries *sqlc.Queries
}

func newLedgerStore(queries *sqlc.Queries) LedgerStore {
	return &ledgerStore{queries: queries}
}

func (s *ledgerStore) GetProfile(ctx context.Context, id int64) (*model.Profile, error) {
	row, err := s.queries.GetProfile(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return toProfileModel(row), nil
}

func (s *ledgerStore) CreateProfile(ctx context.Context, profile *model.Profile) error {
	row, err := s.queries.CreateProfile(ctx, sqlc.CreateProfileParams{
		ID:           profile.ID,
		DisplayName:  profile.DisplayName,
		TokenBalance: profile.TokenBalance,
	})
	if err != nil {
		return err
	}
	*profile = *toProfileModel(row)
	return nil
}

// Debit subtracts params.Amount only if the balance covers it. A missing row
// from the conditional update means it did not.
func (s *ledgerStore) Debit(ctx context.Context, params DebitParams) (*model.LedgerEntry, error) {
	row, err := s.queries.DebitTokenBalance(ctx, sqlc.DebitTokenBalanceParams{
		Amount:    params.Amount,
		ProfileID: params.ProfileID,
		EntryID:   params.EntryID,
		Reason:    string(params.Reason),
		RobotID:   params.RobotID,
		VersionID: params.VersionID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}
	return toLedgerEntryModel(row), nil
}

func (s *ledgerStore) Credit(ctx context.Context, params CreditParams) (*model.LedgerEntry, error) {
	row, err := s.queries.CreditTokenBalance(ctx, sqlc.CreditTokenBalanceParams{
		Amount:    params.Amount,
		ProfileID: params.ProfileID,
		EntryID:   params.EntryID,
		Reason:    string(params.Reason),
	})
	if err != nil {
		return nil, notFound(err)
	}
	return toLedgerEntryModel(row), nil
}

func (s *ledgerStore) ListEntries(ctx context.Context, profileID int64, limit int32) ([]model.LedgerEntry, error) {
	rows, err := s.queries.ListLedgerEntries(ctx, sqlc.ListLedgerEntriesParams{
		ProfileID: profileID,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}
	entries := make([]model.LedgerEntry, len(rows))
	for i, row := range rows {
		entries[i] = *toLedgerEntryModel(row)
	}
	return entries, nil
}

func toProfileModel(row sqlc.Profile) *model.Profile {
	return &model.Profile{
		ID:           row.ID,
		DisplayName:  row.DisplayName,
		TokenBalance: row.TokenBalance,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}

func toLedgerEntryModel(row sqlc.TokenLedgerEntry) *model.LedgerEntry {
	return &model.LedgerEntry{
		ID:           row.ID,
		ProfileID:    row.ProfileID,
		Delta:        row.Delta,
		BalanceAfter: row.BalanceAfter,
		Reason:       model.LedgerReason(row.Reason),
		RobotID:      row.RobotID,
		VersionID:    row.VersionID,
		CreatedAt:    row.CreatedAt.Time,
	}
}
