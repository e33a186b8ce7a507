package vessels

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"time"
)

// ColumnType is the value type inferred for a Table column.
type ColumnType int

const (
	TypeNull ColumnType = iota
	TypeBool
	TypeNumber
	TypeString
	TypeDateTime
	TypeNested
	TypeMixed
)

func (t ColumnType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeDateTime:
		return "datetime"
	case TypeNested:
		return "nested"
	case TypeMixed:
		return "mixed"
	}
	return fmt.Sprintf("ColumnType(%d)", int(t))
}

// ScalarColumn names the single column of a table decoded from a bare JSON value.
const ScalarColumn = "Value"

// Column describes one Table column.
type Column struct {
	Name string
	Type ColumnType
}

// Table is a row/column view over a JSON array of objects. Columns follow the
// order keys first appear in the payload. Cells hold nil, bool, json.Number,
// string, time.Time (datetime columns) or json.RawMessage for nested objects
// and arrays, kept compact and in payload order.
type Table struct {
	Columns []Column
	Rows    [][]any

	index map[string]int
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Row returns a view of row i. It panics if i is out of range.
func (t *Table) Row(i int) Row {
	if i < 0 || i >= len(t.Rows) {
		panic(fmt.Sprintf("vessels: row %d out of range [0,%d)", i, len(t.Rows)))
	}
	return Row{table: t, cells: t.Rows[i]}
}

// Records returns every row as a map keyed by column name.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Row(i).Map()
	}
	return out
}

// Row is a read-only view of one Table row with typed accessors.
type Row struct {
	table *Table
	cells []any
}

// Value returns the raw cell for the named column, or nil.
func (r Row) Value(name string) any {
	i, ok := r.table.index[name]
	if !ok {
		return nil
	}
	return r.cells[i]
}

// Text returns the cell as a string when it holds one.
func (r Row) Text(name string) (string, bool) {
	s, ok := r.Value(name).(string)
	return s, ok
}

// Bool returns the cell as a bool when it holds one.
func (r Row) Bool(name string) (bool, bool) {
	b, ok := r.Value(name).(bool)
	return b, ok
}

// Float returns the cell as a float64 when it holds a number.
func (r Row) Float(name string) (float64, bool) {
	n, ok := r.Value(name).(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int returns the cell as an int64 when it holds an integral number.
func (r Row) Int(name string) (int64, bool) {
	n, ok := r.Value(name).(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// Time returns the cell as a time.Time when it holds a decoded timestamp.
func (r Row) Time(name string) (time.Time, bool) {
	switch v := r.Value(name).(type) {
	case time.Time:
		return v, true
	case string:
		if t, err := ParseDate(v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Object decodes a nested object cell.
func (r Row) Object(name string) (map[string]any, bool) {
	raw, ok := r.Value(name).(json.RawMessage)
	if !ok {
		return nil, false
	}
	var m map[string]any
	if err := decodeNumbers(raw, &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}

// List decodes a nested array cell.
func (r Row) List(name string) ([]any, bool) {
	raw, ok := r.Value(name).(json.RawMessage)
	if !ok {
		return nil, false
	}
	var l []any
	if err := decodeNumbers(raw, &l); err != nil || l == nil {
		return nil, false
	}
	return l, true
}

func decodeNumbers(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

// Map returns the row keyed by column name.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.cells))
	for i, c := range r.table.Columns {
		m[c.Name] = r.cells[i]
	}
	return m
}

// DecodeTable builds a Table from a JSON document. An array must contain only
// objects; a single object becomes one row; a bare scalar becomes one row in
// the ScalarColumn column.
func DecodeTable(data []byte) (*Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	b := newTableBuilder()
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty body")
		}
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '[':
			for i := 0; dec.More(); i++ {
				start, err := dec.Token()
				if err != nil {
					return nil, err
				}
				if d, ok := start.(json.Delim); !ok || d != '{' {
					return nil, fmt.Errorf("array element %d is not an object", i)
				}
				if err := b.addObject(dec); err != nil {
					return nil, fmt.Errorf("array element %d: %w", i, err)
				}
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
		case '{':
			if err := b.addObject(dec); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", v)
		}
	default:
		b.addScalar(v)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return b.build(), nil
}

type tableBuilder struct {
	names []string
	index map[string]int
	rows  []map[int]any
}

func newTableBuilder() *tableBuilder {
	return &tableBuilder{index: map[string]int{}}
}

func (b *tableBuilder) column(name string) int {
	if i, ok := b.index[name]; ok {
		return i
	}
	b.index[name] = len(b.names)
	b.names = append(b.names, name)
	return len(b.names) - 1
}

// addObject reads key/value pairs up to and including the closing brace.
func (b *tableBuilder) addObject(dec *json.Decoder) error {
	row := map[int]any{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("object key is %T", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return fmt.Errorf("value for %q: %w", key, err)
		}
		row[b.column(key)] = v
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	b.rows = append(b.rows, row)
	return nil
}

// decodeValue reads one value. Objects and arrays stay as compact raw JSON;
// scalars decode with numbers kept as json.Number.
func decodeValue(dec *json.Decoder) (any, error) {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if len(raw) > 0 && (raw[0] == '{' || raw[0] == '[') {
		var b bytes.Buffer
		if err := json.Compact(&b, raw); err != nil {
			return nil, err
		}
		return json.RawMessage(b.Bytes()), nil
	}
	var v any
	if err := decodeNumbers(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (b *tableBuilder) addScalar(v any) {
	b.rows = append(b.rows, map[int]any{b.column(ScalarColumn): v})
}

func (b *tableBuilder) build() *Table {
	t := &Table{
		Columns: make([]Column, len(b.names)),
		Rows:    make([][]any, len(b.rows)),
		index:   b.index,
	}
	for r, src := range b.rows {
		cells := make([]any, len(b.names))
		for i, v := range src {
			cells[i] = v
		}
		t.Rows[r] = cells
	}
	for i, name := range b.names {
		t.Columns[i] = Column{Name: name, Type: inferColumn(t.Rows, i)}
	}
	return t
}

// inferColumn types column i and converts its cells to time.Time when every
// non-null value is an API-encoded timestamp.
func inferColumn(rows [][]any, i int) ColumnType {
	typ := TypeNull
	allDates := true
	for _, row := range rows {
		ct := cellType(row[i])
		if ct == TypeNull {
			continue
		}
		if ct != TypeString || !IsDate(row[i].(string)) {
			allDates = false
		}
		switch {
		case typ == TypeNull:
			typ = ct
		case typ != ct:
			return TypeMixed
		}
	}
	if typ != TypeString || !allDates {
		return typ
	}
	parsed := make([]any, len(rows))
	for r, row := range rows {
		s, ok := row[i].(string)
		if !ok {
			continue
		}
		tm, err := ParseDate(s)
		if err != nil {
			return TypeString
		}
		parsed[r] = tm
	}
	for r, row := range rows {
		row[i] = parsed[r]
	}
	return TypeDateTime
}

func cellType(v any) ColumnType {
	switch v.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBool
	case json.Number:
		return TypeNumber
	case string:
		return TypeString
	case time.Time:
		return TypeDateTime
	case json.RawMessage:
		return TypeNested
	default:
		return TypeNested
	}
}
