// Package extract runs a table's fixed query against the source database and
// yields its rows in normalized transport form.
package extract

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/imcbsglobal/rrc-sync/dbconn"
	"github.com/imcbsglobal/rrc-sync/rowconv"
	"github.com/imcbsglobal/rrc-sync/tablespec"
	"github.com/rs/zerolog"
)

type Source struct {
	conn   *dbconn.Conn
	logger zerolog.Logger
}

func NewSource(conn *dbconn.Conn, logger zerolog.Logger) *Source {
	return &Source{conn: conn, logger: logger}
}

// ExtractTable executes the table's extraction query and returns every row
// with columns in the query's projection order. A query failure is returned
// to the caller; it is never fatal to the surrounding run.
func (s *Source) ExtractTable(
	ctx context.Context, table tablespec.Table,
) ([]rowconv.Row, error) {
	startTime := time.Now()

	rows, err := s.conn.QueryContext(ctx, table.Query)
	if err != nil {
		return nil, errors.Wrapf(err, "error executing extraction query for table %s", table.SourceName)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Err(err).Str("table", table.SourceName).Msgf("error closing cursor")
		}
	}()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, errors.Wrapf(err, "error reading column metadata for table %s", table.SourceName)
	}
	columns := make([]string, len(colTypes))
	dbTypes := make([]string, len(colTypes))
	for i, ct := range colTypes {
		columns[i] = ct.Name()
		dbTypes[i] = ct.DatabaseTypeName()
	}

	var ret []rowconv.Row
	vals := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrapf(err, "error scanning row from table %s", table.SourceName)
		}
		ret = append(ret, rowconv.ConvertRow(columns, dbTypes, vals))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "error iterating rows from table %s", table.SourceName)
	}

	s.logger.Debug().
		Str("table", table.SourceName).
		Int("num_rows", len(ret)).
		Dur("extract_duration", time.Since(startTime)).
		Msgf("extraction query complete")
	return ret, nil
}
