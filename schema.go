package xlbind

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// TagName is the struct tag key read by Columns.
const TagName = "xl"

// ErrNoColumns is returned for record types without any tagged field.
var ErrNoColumns = errors.New("no tagged columns")

// Column describes one spreadsheet column bound to a struct field.
type Column struct {
	Index      int    // 0-based column index
	Name       string // title row text
	Format     string // number format code
	Align      Align
	Width      float64 // column width in characters, 0 uses the sheet default
	Field      string
	FieldIndex []int
	Type       reflect.Type
}

type columnsEntry struct {
	cols []Column
	err  error
}

var columnCache sync.Map // reflect.Type → columnsEntry

// ColumnsOf returns the columns of the record type of v. v may be a struct,
// a pointer to one, or a slice of either.
func ColumnsOf(v any) ([]Column, error) {
	if v == nil {
		return nil, fmt.Errorf("columns of nil: %w", ErrNoColumns)
	}
	return Columns(recordType(reflect.TypeOf(v)))
}

// recordType strips pointers and slice/array wrappers down to the element type.
func recordType(t reflect.Type) reflect.Type {
	for {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array:
			t = t.Elem()
		default:
			return t
		}
	}
}

// Columns scans the xl tags of struct type t. The result is sorted by column
// index and cached per type.
//
//	type Employee struct {
//		Name   string    `xl:"index=0,name=Name"`
//		Salary float64   `xl:"index=1,name=Salary,format='#,##0.00',align=right"`
//		Hired  time.Time `xl:"index=2,name=Hired,format=DATE,width=14"`
//		Note   string    `xl:"-"`
//	}
func Columns(t reflect.Type) ([]Column, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("columns of %s: not a struct", t)
	}
	if e, ok := columnCache.Load(t); ok {
		entry := e.(columnsEntry)
		return entry.cols, entry.err
	}

	cols, err := scanColumns(t)
	columnCache.Store(t, columnsEntry{cols: cols, err: err})
	return cols, err
}

func scanColumns(t reflect.Type) ([]Column, error) {
	var cols []Column
	if err := collectColumns(t, nil, &cols); err != nil {
		return nil, fmt.Errorf("columns of %s: %w", t, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("columns of %s: %w", t, ErrNoColumns)
	}
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].Index < cols[j].Index })
	for i := 1; i < len(cols); i++ {
		if cols[i].Index == cols[i-1].Index {
			return nil, fmt.Errorf("columns of %s: duplicate column index %d (fields %s and %s)",
				t, cols[i].Index, cols[i-1].Field, cols[i].Field)
		}
	}
	return cols, nil
}

func collectColumns(t reflect.Type, parent []int, cols *[]Column) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, tagged := f.Tag.Lookup(TagName)
		if tag == "-" {
			continue
		}
		index := append(append([]int(nil), parent...), i)

		if f.Anonymous && !tagged && f.IsExported() && f.Type.Kind() == reflect.Struct {
			if err := collectColumns(f.Type, index, cols); err != nil {
				return err
			}
			continue
		}
		if !tagged || !f.IsExported() {
			continue
		}

		col, err := parseTag(tag)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		col.Field = f.Name
		col.FieldIndex = index
		col.Type = f.Type
		if col.Format == "" {
			col.Format = DefaultFormat(f.Type)
		}
		*cols = append(*cols, col)
	}
	return nil
}

// parseTag reads comma separated key=value pairs. A value wrapped in single
// quotes may contain commas.
func parseTag(tag string) (Column, error) {
	col := Column{Index: -1}
	pairs, err := splitTag(tag)
	if err != nil {
		return col, err
	}
	for _, kv := range pairs {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return col, fmt.Errorf("tag entry %q: want key=value", kv)
		}
		key = strings.TrimSpace(key)
		switch key {
		case "index":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return col, fmt.Errorf("invalid index %q", value)
			}
			col.Index = n
		case "name":
			col.Name = value
		case "format":
			col.Format = resolveFormat(value)
		case "align":
			a, err := ParseAlign(value)
			if err != nil {
				return col, err
			}
			col.Align = a
		case "width":
			w, err := strconv.ParseFloat(value, 64)
			if err != nil || w < 0 {
				return col, fmt.Errorf("invalid width %q", value)
			}
			col.Width = w
		default:
			return col, fmt.Errorf("unknown tag key %q", key)
		}
	}
	if col.Index < 0 {
		return col, errors.New("missing index")
	}
	if col.Name == "" {
		return col, errors.New("missing name")
	}
	return col, nil
}

func splitTag(tag string) ([]string, error) {
	var (
		out    []string
		b      strings.Builder
		quoted bool
	)
	for _, r := range tag {
		switch {
		case r == '\'':
			quoted = !quoted
		case r == ',' && !quoted:
			out = append(out, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if quoted {
		return nil, fmt.Errorf("tag %q: unterminated quote", tag)
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out, nil
}
