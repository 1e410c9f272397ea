// Package rowconv converts values scanned from the source database into
// scalars that survive JSON transport to the sync API.
package rowconv

import (
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

const (
	dateFormat = "2006-01-02"
	// No zone suffix: the legacy database stores local wall-clock times.
	datetimeFormat = "2006-01-02T15:04:05.999999"
)

// ConvertValue maps one column value onto its transport form:
//   - DECIMAL/NUMERIC columns become float64. The precision loss is a
//     deliberate contract with the API server, which stores floats.
//   - DATE columns become "YYYY-MM-DD" strings.
//   - timestamp columns become ISO-8601 datetime strings.
//   - []byte becomes string.
//   - everything else (string, integer, float, bool, nil) passes through.
//
// dbType is the driver-reported database type name for the column.
// ConvertValue never fails: values it cannot interpret pass through to the
// JSON encoder's default handling. It is idempotent over its own output.
func ConvertValue(val interface{}, dbType string) interface{} {
	if val == nil {
		return nil
	}
	switch v := val.(type) {
	case time.Time:
		if strings.EqualFold(dbType, "DATE") {
			return v.Format(dateFormat)
		}
		return v.Format(datetimeFormat)
	case *apd.Decimal:
		return decimalToFloat(v.String(), val)
	case []byte:
		if isDecimalType(dbType) {
			return decimalToFloat(string(v), string(v))
		}
		return string(v)
	case string:
		if isDecimalType(dbType) {
			return decimalToFloat(v, v)
		}
		return v
	}
	return val
}

// ConvertRow normalizes one scanned row, preserving the projection order of
// columns.
func ConvertRow(columns []string, dbTypes []string, vals []interface{}) Row {
	r := NewRow(len(columns))
	for i := range columns {
		r.Append(columns[i], ConvertValue(vals[i], dbTypes[i]))
	}
	return r
}

func isDecimalType(dbType string) bool {
	switch strings.ToUpper(dbType) {
	case "DECIMAL", "NUMERIC", "MONEY", "SMALLMONEY":
		return true
	}
	return false
}

// decimalToFloat parses an arbitrary-precision decimal and narrows it to
// float64. Unparseable input is returned as fallback, untouched, so an odd
// driver representation degrades to a string rather than an error.
func decimalToFloat(s string, fallback interface{}) interface{} {
	d, _, err := apd.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	f, err := d.Float64()
	if err != nil {
		return fallback
	}
	return f
}
