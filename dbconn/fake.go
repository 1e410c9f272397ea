package dbconn

import "database/sql"

// NewFakeConn wraps an already-open handle without dialing anything.
// This is recommended for test use only.
func NewFakeConn(id ID, dialect string, db *sql.DB) *Conn {
	return &Conn{id: id, dialect: dialect, DB: db}
}
