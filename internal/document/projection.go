package document

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateTimeLayout is how temporal columns are rendered as text.
const DateTimeLayout = "2006-01-02 15:04:05.999999999"

// Rows is the part of *sql.Rows and *sqlx.Rows the projector reads.
type Rows interface {
	ColumnTypes() ([]*sql.ColumnType, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// Projector turns the current row of a result set into a Document.
type Projector struct {
	names []string
	types []string
	cells []any
	ptrs  []any
}

func NewProjector(rows Rows) (*Projector, error) {
	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	p := &Projector{
		names: make([]string, len(cols)),
		types: make([]string, len(cols)),
		cells: make([]any, len(cols)),
		ptrs:  make([]any, len(cols)),
	}
	for i, col := range cols {
		p.names[i] = col.Name()
		p.types[i] = col.DatabaseTypeName()
		p.ptrs[i] = &p.cells[i]
	}
	return p, nil
}

// Columns returns the result column names in select order.
func (p *Projector) Columns() []string {
	return append([]string(nil), p.names...)
}

// Project scans the current row. Only the scan itself can fail; every
// column value is representable.
func (p *Projector) Project(rows Rows) (*Document, error) {
	for i := range p.cells {
		p.cells[i] = nil
	}
	if err := rows.Scan(p.ptrs...); err != nil {
		return nil, err
	}

	doc := &Document{
		keys:   make([]string, 0, len(p.names)),
		values: make(map[string]Value, len(p.names)),
	}
	for i, name := range p.names {
		doc.Set(name, Convert(p.types[i], p.cells[i]))
	}
	return doc, nil
}

// ProjectAll drains rows into documents. The caller still closes rows.
func ProjectAll(rows Rows) ([]*Document, error) {
	p, err := NewProjector(rows)
	if err != nil {
		return nil, err
	}

	docs := []*Document{}
	for rows.Next() {
		doc, err := p.Project(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Convert maps a raw driver value to a Value using the column's database
// type name. NULL is detected before any typed conversion. Type names the
// projector does not know become strings; a value that does not parse as
// its declared type falls back to its text.
func Convert(typeName string, raw any) Value {
	if raw == nil {
		return Null()
	}

	switch normalizeType(typeName) {
	case "VARCHAR", "TEXT", "CHAR", "JSON", "JSONB", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT",
		"NVARCHAR", "NCHAR", "BPCHAR", "CLOB", "UUID", "ENUM", "SET":
		return String(text(raw))
	case "INT", "INTEGER", "BIGINT", "SMALLINT", "TINYINT", "MEDIUMINT", "INT2", "INT4", "INT8", "YEAR":
		if i, ok := toInt(raw); ok {
			return Int(i)
		}
	case "FLOAT", "DOUBLE", "REAL", "FLOAT4", "FLOAT8", "DOUBLE PRECISION":
		if f, ok := toFloat(raw); ok {
			return Float(f)
		}
	case "BOOL", "BOOLEAN":
		if b, ok := toBool(raw); ok {
			return Bool(b)
		}
	case "DATETIME", "TIMESTAMP", "TIMESTAMPTZ", "DATE":
		return DateTime(text(raw))
	case "":
		// expression columns (e.g. window counts on SQLite) carry no declared type
		return infer(raw)
	}
	return String(text(raw))
}

func normalizeType(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "UNSIGNED ")
	name = strings.TrimSuffix(name, " UNSIGNED")
	return strings.TrimSpace(name)
}

func infer(raw any) Value {
	switch v := raw.(type) {
	case bool:
		return Bool(v)
	case int64:
		return Int(v)
	case float64:
		return Float(v)
	case time.Time:
		return DateTime(text(v))
	default:
		return String(text(v))
	}
}

func text(raw any) string {
	switch v := raw.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	case time.Time:
		return v.Format(DateTimeLayout)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func toInt(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	case uint64:
		if v <= 1<<63-1 {
			return int64(v), true
		}
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case []byte, string:
		if i, err := strconv.ParseInt(text(v), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case []byte, string:
		if f, err := strconv.ParseFloat(text(v), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func toBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case int64:
		return v != 0, true
	case []byte, string:
		if b, err := strconv.ParseBool(text(v)); err == nil {
			return b, true
		}
	}
	return false, false
}
