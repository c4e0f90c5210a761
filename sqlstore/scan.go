package sqlstore

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/sen-heritage/store"
	"github.com/sen-heritage/store/schema"
)

// scanRows turns a result set into application records. Driver bytes are
// decoded by the declared column type: JSON columns are unmarshalled, with a
// corrupt value logged and replaced by null rather than failing the whole
// read; DECIMAL columns become float64; booleans stored as integers become
// bool. Keys and temporals are then normalized to application shape.
func (s *Store) scanRows(rows *sql.Rows, t schema.Table) ([]store.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	byName := make(map[string]schema.Column, len(t.Columns))
	for _, col := range t.Columns {
		byName[col.Name] = col
	}

	out := []store.Record{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		raw := make(store.Record, len(cols))
		for i, name := range cols {
			raw[name] = s.decodeColumn(t.Name, name, byName[name], colTypes[i], values[i])
		}
		out = append(out, s.norm.ToApplication(raw))
	}
	return out, rows.Err()
}

func (s *Store) decodeColumn(table, name string, col schema.Column, ct *sql.ColumnType, v any) any {
	if v == nil {
		return nil
	}

	if col.Type == schema.TypeJSON {
		return s.decodeJSON(table, name, v)
	}

	switch b := v.(type) {
	case []byte:
		if isDecimalType(ct) || col.Type == schema.TypeDecimal {
			if f, err := strconv.ParseFloat(string(b), 64); err == nil {
				return f
			}
		}
		return string(b)
	case int64:
		if col.Type == schema.TypeBool {
			return b != 0
		}
		return b
	default:
		return v
	}
}

// decodeJSON unmarshals a stored JSON column. A value that fails to parse is
// logged as a serialization failure and surfaces as an empty list, the shape
// every blob field in the catalog carries; one bad blob must not poison the
// rest of the row.
func (s *Store) decodeJSON(table, name string, v any) any {
	var raw []byte
	switch b := v.(type) {
	case []byte:
		raw = b
	case string:
		raw = []byte(b)
	default:
		return v
	}
	if len(raw) == 0 {
		return nil
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		serr := store.NewSerializationError(table, name, err)
		s.log.Warnw("json column unreadable", "table", table, "column", name, "error", serr)
		return []any{}
	}
	return decoded
}

func isDecimalType(ct *sql.ColumnType) bool {
	if ct == nil {
		return false
	}
	switch strings.ToUpper(ct.DatabaseTypeName()) {
	case "DECIMAL", "NUMERIC", "REAL", "DOUBLE", "FLOAT":
		return true
	default:
		return false
	}
}
