package generation

import (
	"context"

	"devhubtrader.app/forge/core/db"
	"devhubtrader.app/forge/core/db/sqlc"
	"devhubtrader.app/forge/internal/store"
)

// StoreProvider exposes the stores a version commit touches.
type StoreProvider interface {
	Robots() store.RobotStore
	Versions() store.VersionStore
}

// TxRunner runs fn inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(q *sqlc.Queries) error {
		return fn(store.NewStores(q))
	})
}
