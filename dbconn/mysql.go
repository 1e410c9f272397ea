package dbconn

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/go-sql-driver/mysql"
)

func connectMySQL(ctx context.Context, id ID, cfg Config) (*Conn, error) {
	mcfg, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing mysql dsn")
	}
	if cfg.Username != "" {
		mcfg.User = cfg.Username
		mcfg.Passwd = cfg.Password
	}
	// DATE and TIMESTAMP columns must scan as time.Time for normalization.
	mcfg.ParseTime = true
	return open(ctx, id, "MySQL", "mysql", mcfg.FormatDSN())
}
