package user

import (
	"context"

	"github.com/delordemm1/gooddeeds-api/internal/database"
	"github.com/delordemm1/gooddeeds-api/internal/modules/beneficiary"
	"github.com/jackc/pgx/v5"
)

// ProfileCreator inserts beneficiary profiles.
type ProfileCreator interface {
	Create(ctx context.Context, p *beneficiary.Profile) error
}

// Stores are the repositories bound to a single transaction.
type Stores struct {
	Users    Repository
	Profiles ProfileCreator
}

// TxRunner runs fn with stores that commit or roll back together.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(Stores) error) error
}

type pgTxRunner struct {
	db database.Beginner
}

// NewTxRunner returns a TxRunner over a Postgres pool.
func NewTxRunner(db database.Beginner) TxRunner {
	return &pgTxRunner{db: db}
}

func (r *pgTxRunner) RunInTx(ctx context.Context, fn func(Stores) error) error {
	return database.RunInTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(Stores{
			Users:    NewRepository(tx),
			Profiles: beneficiary.NewRepository(tx),
		})
	})
}
