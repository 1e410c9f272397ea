package dbconn

import (
	"context"
	"fmt"

	_ "github.com/alexbrainman/odbc"
)

// connectODBC reaches the legacy SQL Anywhere database through a system DSN,
// the same DSN;UID;PWD form the previous generation of this tool used.
func connectODBC(ctx context.Context, id ID, cfg Config) (*Conn, error) {
	connStr := fmt.Sprintf("DSN=%s;UID=%s;PWD=%s", cfg.DSN, cfg.Username, cfg.Password)
	return open(ctx, id, "SQLAnywhere", "odbc", connStr)
}
