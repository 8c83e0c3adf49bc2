package sqlexec

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/skosovsky/preload"
)

// Execer is satisfied by *sql.DB, *sql.Conn, *sql.Tx and *sqlx.DB.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var _ preload.Executor = (*Executor)(nil)

// Executor runs the combined preload script in a single ExecContext call.
// The driver must accept multiple statements per call (modernc.org/sqlite does).
type Executor struct {
	db Execer
}

// New creates an Executor over db. Panics if db is nil.
func New(db Execer) *Executor {
	if db == nil {
		panic("sqlexec: Execer must not be nil")
	}
	return &Executor{db: db}
}

// Exec implements preload.Executor. Driver errors are returned unchanged.
func (e *Executor) Exec(ctx context.Context, script string) error {
	_, err := e.db.ExecContext(ctx, script)
	return err
}

// Open opens a database handle for driverName and verifies the connection.
// The caller must import the driver (e.g. _ "modernc.org/sqlite").
func Open(ctx context.Context, driverName, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlexec: open %s: %w", driverName, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlexec: ping %s: %w", driverName, err)
	}
	return db, nil
}
