package store

import (
	"devhubtrader.app/forge/core/db/sqlc"
)

// Stores hands out stores bound to one Queries value, which may be a
// transaction.
type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Robots() RobotStore {
	return newRobotStore(s.queries)
}

func (s *Stores) Versions() VersionStore {
	return newVersionStore(s.queries)
}

func (s *Stores) Ledger() LedgerStore {
	return newLedgerStore(s.queries)
}

func (s *Stores) GenerationRuns() GenerationRunStore {
	return newGenerationRunStore(s.queries)
}
