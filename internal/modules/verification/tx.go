package verification

import (
	"context"

	"github.com/delordemm1/gooddeeds-api/internal/database"
	"github.com/delordemm1/gooddeeds-api/internal/modules/beneficiary"
	"github.com/delordemm1/gooddeeds-api/internal/modules/user"
	"github.com/jackc/pgx/v5"
)

// AccountStore is the part of the user repository finalizers write to.
type AccountStore interface {
	Create(ctx context.Context, u *user.User) error
	UpdatePassword(ctx context.Context, userID, newPasswordHash string) error
}

// ProfileStore creates beneficiary profiles.
type ProfileStore interface {
	Create(ctx context.Context, p *beneficiary.Profile) error
}

// TxStores are the repositories bound to a single transaction.
type TxStores struct {
	Accounts AccountStore
	Profiles ProfileStore
	Codes    Repository
}

// UnitOfWork runs fn with stores that commit together or not at all.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(TxStores) error) error
}

type pgUnitOfWork struct {
	db database.Beginner
}

// NewUnitOfWork returns a UnitOfWork over a Postgres pool.
func NewUnitOfWork(db database.Beginner) UnitOfWork {
	return &pgUnitOfWork{db: db}
}

func (u *pgUnitOfWork) RunInTx(ctx context.Context, fn func(TxStores) error) error {
	return database.RunInTx(ctx, u.db, func(tx pgx.Tx) error {
		return fn(TxStores{
			Accounts: user.NewRepository(tx),
			Profiles: beneficiary.NewRepository(tx),
			Codes:    NewRepository(tx),
		})
	})
}
