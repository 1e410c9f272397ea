package dbconn

import (
	"context"
	"net/url"

	"github.com/cockroachdb/errors"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func connectPG(ctx context.Context, id ID, cfg Config) (*Conn, error) {
	u, err := url.Parse(cfg.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing postgres url")
	}
	if cfg.Username != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	return open(ctx, id, "PostgreSQL", "pgx", u.String())
}
