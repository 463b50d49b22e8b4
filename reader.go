package xlbind

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/expr-lang/expr/vm"
	"github.com/javajack/xlbind/stream"
)

// CellError reports a cell whose value could not be stored in its field.
type CellError struct {
	Sheet string
	Cell  string
	Field string
	Err   error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("sheet %q cell %s field %s: %v", e.Sheet, e.Cell, e.Field, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

// RowError reports a record rejected by the validator.
type RowError struct {
	Sheet string
	Row   int // 1-based
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("sheet %q row %d: %v", e.Sheet, e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Reader maps worksheet rows onto tagged records.
type Reader struct {
	wb   *stream.Workbook
	opts *ReadOptions
}

// OpenFile opens the workbook at path for reading.
func OpenFile(path string, opts ...ReadOption) (*Reader, error) {
	wb, err := stream.Open(path)
	if err != nil {
		return nil, err
	}
	return newReader(wb, opts), nil
}

// NewReader reads a whole workbook from r into memory.
func NewReader(r io.Reader, opts ...ReadOption) (*Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	wb, err := stream.OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return newReader(wb, opts), nil
}

func newReader(wb *stream.Workbook, opts []ReadOption) *Reader {
	o := defaultReadOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Reader{wb: wb, opts: o}
}

// SheetNames returns the sheet names in workbook order.
func (r *Reader) SheetNames() []string { return r.wb.SheetNames() }

// Close releases the underlying file.
func (r *Reader) Close() error { return r.wb.Close() }

// ReadSheet appends one record per row of the sheet at the 0-based index to
// the slice dst points to. Rows before the start row are skipped.
func (r *Reader) ReadSheet(ctx context.Context, index int, dst any) error {
	b, err := r.binding(dst)
	if err != nil {
		return err
	}
	names := r.wb.SheetNames()
	if index < 0 || index >= len(names) {
		return fmt.Errorf("sheet index %d: %w", index, stream.ErrNoSheet)
	}
	return r.readInto(ctx, index, names[index], b)
}

// ReadSheetNamed is ReadSheet for the sheet with the given name.
func (r *Reader) ReadSheetNamed(ctx context.Context, name string, dst any) error {
	idx, err := r.wb.SheetIndex(name)
	if err != nil {
		return err
	}
	return r.ReadSheet(ctx, idx, dst)
}

// ReadAll reads every sheet into dst in workbook order.
func (r *Reader) ReadAll(ctx context.Context, dst any) error {
	b, err := r.binding(dst)
	if err != nil {
		return err
	}
	for i, name := range r.wb.SheetNames() {
		if err := r.readInto(ctx, i, name, b); err != nil {
			return err
		}
	}
	return nil
}

// binding is a destination slice resolved against its record type.
type binding struct {
	slice   reflect.Value
	elem    reflect.Type // slice element type
	record  reflect.Type // struct type
	byCol   map[int]Column
	filter  *vm.Program
	pointer bool
}

func (r *Reader) binding(dst any) (*binding, error) {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
		return nil, fmt.Errorf("read: destination must be a pointer to a slice, got %T", dst)
	}
	slice := rv.Elem()
	elem := slice.Type().Elem()
	b := &binding{slice: slice, elem: elem, record: elem}
	if elem.Kind() == reflect.Pointer {
		b.pointer = true
		b.record = elem.Elem()
	}
	if b.record.Kind() != reflect.Struct {
		return nil, fmt.Errorf("read: slice element must be a struct or struct pointer, got %s", elem)
	}
	cols, err := Columns(b.record)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	b.byCol = make(map[int]Column, len(cols))
	for _, c := range cols {
		b.byCol[c.Index] = c
	}
	if r.opts.rowFilter != "" {
		if b.filter, err = compileFilter(r.opts.rowFilter, b.record); err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
	}
	return b, nil
}

func (r *Reader) readInto(ctx context.Context, index int, sheet string, b *binding) error {
	return r.wb.Stream(ctx, index, func(row stream.Row) error {
		if row.Index < r.opts.startRow {
			r.debug("skip row before start", sheet, row.Index)
			return nil
		}
		rec := reflect.New(b.record)
		mapped := 0
		for _, c := range row.Cells {
			col, ok := b.byCol[c.Col]
			if !ok {
				continue
			}
			v, err := cellValue(c, col.Type, r.opts)
			if err != nil {
				return &CellError{Sheet: sheet, Cell: c.Ref, Field: col.Field, Err: err}
			}
			rec.Elem().FieldByIndex(col.FieldIndex).Set(v)
			mapped++
		}
		if mapped == 0 {
			r.debug("skip row without mapped cells", sheet, row.Index)
			return nil
		}

		if r.opts.validate != nil {
			if err := r.opts.validate.Struct(rec.Interface()); err != nil {
				return &RowError{Sheet: sheet, Row: row.Index, Err: err}
			}
		}
		if b.filter != nil {
			ok, err := matchFilter(b.filter, rec.Elem())
			if err != nil {
				return &RowError{Sheet: sheet, Row: row.Index, Err: err}
			}
			if !ok {
				r.debug("skip row rejected by filter", sheet, row.Index)
				return nil
			}
		}

		if b.pointer {
			b.slice.Set(reflect.Append(b.slice, rec))
		} else {
			b.slice.Set(reflect.Append(b.slice, rec.Elem()))
		}
		return nil
	})
}

func (r *Reader) debug(msg, sheet string, row int) {
	if r.opts.logger != nil {
		r.opts.logger.Debug(msg, slog.String("sheet", sheet), slog.Int("row", row))
	}
}

// cellValue converts a streamed cell into a value of type t. String fields
// receive the display text; error cells only fit string fields.
func cellValue(c stream.Cell, t reflect.Type, o *ReadOptions) (reflect.Value, error) {
	base := t
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	if base == hyperlinkType {
		h := parseHyperlink(c.Formula)
		if h.Display == "" {
			h.Display = c.Text
		}
		return convertIn(h, t, o.location)
	}
	if base.Kind() == reflect.String && !reflect.PointerTo(base).Implements(textUnmarshalerType) {
		return convertIn(c.Text, t, o.location)
	}
	if c.Type == stream.CellError {
		return reflect.Value{}, fmt.Errorf("cell holds error %s", c.Raw)
	}
	return convertIn(c.Value, t, o.location)
}

// ReadFile reads the first sheet of the workbook at path into a slice of T.
func ReadFile[T any](ctx context.Context, path string, opts ...ReadOption) ([]T, error) {
	r, err := OpenFile(path, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var out []T
	if err := r.ReadSheet(ctx, 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Read reads the first sheet of the workbook in src into a slice of T.
func Read[T any](ctx context.Context, src io.Reader, opts ...ReadOption) ([]T, error) {
	r, err := NewReader(src, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var out []T
	if err := r.ReadSheet(ctx, 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}
