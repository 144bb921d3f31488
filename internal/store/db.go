package store

import (
	"context"
	"database/sql"
)

// Narrow query interfaces satisfied by both *sqlx.DB and *sqlx.Tx. Stores
// take these instead of concrete handles so a service can route every write
// of a booking flow through one transaction.

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

type Selecter interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type DB interface {
	Execer
	Getter
	Selecter
}

type Tx interface {
	Execer
	Getter
}
