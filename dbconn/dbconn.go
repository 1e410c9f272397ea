// Package dbconn opens the single read-only connection to the source
// database. The handle is shared for the lifetime of the process and closed
// once by the caller.
package dbconn

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
)

type ID string

type Config struct {
	Driver   string
	DSN      string
	Username string
	Password string
}

// Conn wraps the shared database handle with its identity and dialect.
type Conn struct {
	id      ID
	dialect string
	*sql.DB
}

func (c *Conn) ID() ID {
	return c.id
}

func (c *Conn) Dialect() string {
	return c.dialect
}

func Connect(ctx context.Context, id ID, cfg Config) (*Conn, error) {
	if cfg.DSN == "" {
		return nil, errors.Newf("empty dsn")
	}
	switch cfg.Driver {
	case "odbc":
		return connectODBC(ctx, id, cfg)
	case "mysql":
		return connectMySQL(ctx, id, cfg)
	case "postgres":
		return connectPG(ctx, id, cfg)
	}
	return nil, errors.Newf("unrecognised driver %q", cfg.Driver)
}

func open(ctx context.Context, id ID, dialect string, driverName string, connStr string) (*Conn, error) {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %s connection", dialect)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, errors.CombineErrors(
			errors.Wrapf(err, "error pinging %s database", dialect),
			db.Close(),
		)
	}
	return &Conn{id: id, dialect: dialect, DB: db}, nil
}
