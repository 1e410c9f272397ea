package rowconv

import (
	"bytes"
	"encoding/json"
)

// Row is one extracted record: column names mapped to normalized values,
// holding the projection order of the originating query. It marshals to a
// JSON object whose keys appear in that order.
type Row struct {
	columns []string
	values  []interface{}
}

func NewRow(capacity int) Row {
	return Row{
		columns: make([]string, 0, capacity),
		values:  make([]interface{}, 0, capacity),
	}
}

func (r *Row) Append(column string, value interface{}) {
	r.columns = append(r.columns, column)
	r.values = append(r.values, value)
}

func (r Row) Len() int {
	return len(r.columns)
}

func (r Row) Columns() []string {
	return r.columns
}

// Value looks a column up by name.
func (r Row) Value(column string) (interface{}, bool) {
	for i, c := range r.columns {
		if c == column {
			return r.values[i], true
		}
	}
	return nil, false
}

var _ json.Marshaler = Row{}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(r.columns[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
