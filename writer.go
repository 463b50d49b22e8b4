package xlbind

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"
	"time"

	"github.com/expr-lang/expr/vm"
	"github.com/xuri/excelize/v2"
)

// ErrNoActiveSheet is returned by AddRow when no sheet is open for writing.
var ErrNoActiveSheet = errors.New("no sheet open for writing")

// ErrSheetExists is returned when a sheet name is already used in the
// workbook. Names compare case-insensitively.
var ErrSheetExists = errors.New("sheet already exists")

// Writer builds a workbook from slices of tagged records. Sheets are
// written through excelize's StreamWriter, one sheet at a time.
type Writer struct {
	file   *excelize.File
	opts   *Options
	layout *SheetLayout
	styles map[RowStyle]int
	sheets int
	cur    *sheetWriter

	mu sync.Mutex
}

// sheetWriter is the state of the sheet currently being streamed.
type sheetWriter struct {
	name    string
	sw      *excelize.StreamWriter
	width   int // number of columns
	nextRow int // 1-based row the next write lands on

	bodyFirst, bodyLast int // 1-based rows holding records
}

// NewWriter creates a Writer holding an empty workbook.
func NewWriter(opts ...Option) (*Writer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	layout := o.layout
	if layout == nil && o.config != nil {
		l, err := o.config.Layout("")
		if err != nil {
			return nil, fmt.Errorf("style config: %w", err)
		}
		layout = l
	}
	if layout == nil {
		layout = DefaultLayout()
	}
	if err := layout.validate(); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	return &Writer{
		file:   excelize.NewFile(),
		opts:   o,
		layout: layout,
		styles: make(map[RowStyle]int),
	}, nil
}

// AddSheet writes records to a new sheet named after the layout name, or
// 第N页 when the layout has none.
func (w *Writer) AddSheet(records any) error {
	return w.AddSheetNamed("", records)
}

// AddSheetNamed writes records to a new sheet. records is a slice or array
// of tagged structs or pointers to them. The title row, column widths and
// one body row per record are written.
func (w *Writer) AddSheetNamed(name string, records any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	rv := reflect.ValueOf(records)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("add sheet: records must be a slice or array, got %T", records)
	}
	rt := recordType(rv.Type())
	cols, err := Columns(rt)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	var filter *vm.Program
	if w.opts.selectExpr != "" {
		if filter, err = compileFilter(w.opts.selectExpr, rt); err != nil {
			return fmt.Errorf("add sheet: %w", err)
		}
	}

	if err := w.flush(); err != nil {
		return err
	}
	if name == "" {
		name = SheetName(w.sheets+1, w.layout.Name)
	}
	if err := w.newSheet(name); err != nil {
		return err
	}
	sw, err := w.file.NewStreamWriter(name)
	if err != nil {
		return fmt.Errorf("stream sheet %q: %w", name, err)
	}
	w.sheets++
	cur := &sheetWriter{name: name, sw: sw, width: cols[len(cols)-1].Index + 1}
	w.cur = cur

	if err := w.writeColumnWidths(cur, cols); err != nil {
		return err
	}
	if err := w.writeTitle(cur, cols); err != nil {
		return err
	}

	bodyStyles := make([]int, len(cols))
	for i, col := range cols {
		if bodyStyles[i], err = w.styleID(w.layout.Body.withColumn(col)); err != nil {
			return fmt.Errorf("column %s style: %w", col.Name, err)
		}
	}

	cur.nextRow = w.layout.Body.Index + 1
	cur.bodyFirst = cur.nextRow
	cur.bodyLast = cur.nextRow - 1
	for i := 0; i < rv.Len(); i++ {
		rec := rv.Index(i)
		for rec.Kind() == reflect.Pointer || rec.Kind() == reflect.Interface {
			if rec.IsNil() {
				break
			}
			rec = rec.Elem()
		}
		if rec.Kind() != reflect.Struct {
			continue // nil entry
		}
		if filter != nil {
			ok, err := matchFilter(filter, rec)
			if err != nil {
				return fmt.Errorf("sheet %q record %d: %w", name, i, err)
			}
			if !ok {
				continue
			}
		}
		if err := w.writeRecord(cur, cols, bodyStyles, rec); err != nil {
			return fmt.Errorf("sheet %q record %d: %w", name, i, err)
		}
		cur.bodyLast = cur.nextRow - 1
	}
	return nil
}

// newSheet creates the sheet, reusing the default Sheet1 for the first one.
func (w *Writer) newSheet(name string) error {
	if w.sheets > 0 {
		idx, err := w.file.GetSheetIndex(name)
		if err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
		if idx != -1 {
			return fmt.Errorf("create sheet %q: %w", name, ErrSheetExists)
		}
	}
	if w.sheets == 0 {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("name sheet %q: %w", name, err)
		}
		return nil
	}
	if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %q: %w", name, err)
	}
	return nil
}

// writeColumnWidths sets one width per run of equally wide columns. Ranges
// must not overlap.
func (w *Writer) writeColumnWidths(cur *sheetWriter, cols []Column) error {
	widths := make([]float64, cur.width)
	for i := range widths {
		widths[i] = w.layout.CellWidth
	}
	for _, col := range cols {
		if col.Width > 0 {
			widths[col.Index] = col.Width
		}
	}
	for start := 0; start < len(widths); {
		end := start
		for end+1 < len(widths) && widths[end+1] == widths[start] {
			end++
		}
		if widths[start] > 0 {
			if err := cur.sw.SetColWidth(start+1, end+1, widths[start]); err != nil {
				return fmt.Errorf("sheet %q column width: %w", cur.name, err)
			}
		}
		start = end + 1
	}
	return nil
}

func (w *Writer) writeTitle(cur *sheetWriter, cols []Column) error {
	style, err := w.styleID(w.layout.Title)
	if err != nil {
		return fmt.Errorf("title style: %w", err)
	}
	row := make([]any, cur.width)
	for i := range row {
		row[i] = excelize.Cell{StyleID: style}
	}
	for _, col := range cols {
		row[col.Index] = excelize.Cell{StyleID: style, Value: col.Name}
	}
	cur.nextRow = w.layout.Title.Index + 1
	return w.setRow(cur, row, w.layout.Title.Height)
}

func (w *Writer) writeRecord(cur *sheetWriter, cols []Column, styles []int, rec reflect.Value) error {
	row := make([]any, cur.width)
	for i, col := range cols {
		fv, err := rec.FieldByIndexErr(col.FieldIndex)
		if err != nil {
			return fmt.Errorf("field %s: %w", col.Field, err)
		}
		row[col.Index] = w.cell(fv, styles[i])
	}
	return w.setRow(cur, row, w.layout.Body.Height)
}

// cell converts a field value into a styled stream cell.
func (w *Writer) cell(fv reflect.Value, style int) any {
	for fv.Kind() == reflect.Pointer || fv.Kind() == reflect.Interface {
		if fv.IsNil() {
			return excelize.Cell{StyleID: style}
		}
		fv = fv.Elem()
	}

	switch v := fv.Interface().(type) {
	case Hyperlink:
		return excelize.Cell{StyleID: style, Formula: v.formula(), Value: v.String()}
	case Formula:
		return excelize.Cell{StyleID: style, Formula: v.text()}
	case time.Time:
		if v.IsZero() {
			return excelize.Cell{StyleID: style}
		}
		return excelize.Cell{StyleID: style, Value: v}
	case time.Duration:
		return excelize.Cell{StyleID: style, Value: v.String()}
	case bool:
		if w.opts.boolLabels == nil {
			return excelize.Cell{StyleID: style, Value: v}
		}
		label := w.opts.boolLabels[1]
		if v {
			label = w.opts.boolLabels[0]
		}
		return excelize.Cell{StyleID: style, Value: label}
	case fmt.Stringer:
		return excelize.Cell{StyleID: style, Value: v.String()}
	}

	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return excelize.Cell{StyleID: style, Value: fv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return excelize.Cell{StyleID: style, Value: fv.Uint()}
	case reflect.Float32, reflect.Float64:
		return excelize.Cell{StyleID: style, Value: fv.Float()}
	case reflect.String:
		return excelize.Cell{StyleID: style, Value: fv.String()}
	case reflect.Bool:
		return w.cell(reflect.ValueOf(fv.Bool()), style)
	}
	return excelize.Cell{StyleID: style, Value: fmt.Sprint(fv.Interface())}
}

// AddRow writes a footer row under the last written row of the current
// sheet. values start at the 0-based column startIndex and the footer style
// covers every column of the sheet.
func (w *Writer) AddRow(startIndex int, values ...any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cur == nil {
		return ErrNoActiveSheet
	}
	if startIndex < 0 {
		return fmt.Errorf("add row: invalid start column %d", startIndex)
	}
	style, err := w.styleID(w.layout.Footer)
	if err != nil {
		return fmt.Errorf("footer style: %w", err)
	}
	width := w.cur.width
	if n := startIndex + len(values); n > width {
		width = n
	}
	row := make([]any, width)
	for i := range row {
		row[i] = excelize.Cell{StyleID: style}
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		row[startIndex+i] = w.cell(reflect.ValueOf(v), style)
	}
	return w.setRow(w.cur, row, w.layout.Footer.Height)
}

func (w *Writer) setRow(cur *sheetWriter, row []any, height float64) error {
	ref, err := excelize.CoordinatesToCellName(1, cur.nextRow)
	if err != nil {
		return err
	}
	if err := cur.sw.SetRow(ref, row, excelize.RowOpts{Height: height}); err != nil {
		return fmt.Errorf("sheet %q row %d: %w", cur.name, cur.nextRow, err)
	}
	cur.nextRow++
	return nil
}

// styleID registers s with the workbook once and returns its id.
func (w *Writer) styleID(s RowStyle) (int, error) {
	if id, ok := w.styles[s]; ok {
		return id, nil
	}
	st, err := s.ExcelizeStyle()
	if err != nil {
		return 0, err
	}
	id, err := w.file.NewStyle(st)
	if err != nil {
		return 0, err
	}
	w.styles[s] = id
	return id, nil
}

// flush ends the stream of the current sheet. Rows cannot be added to it
// afterwards.
func (w *Writer) flush() error {
	if w.cur == nil {
		return nil
	}
	cur := w.cur
	w.cur = nil
	if err := cur.sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet %q: %w", cur.name, err)
	}
	return nil
}

// WriteTo finishes the workbook and writes it to out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.flush(); err != nil {
		return 0, err
	}
	return w.file.WriteTo(out)
}

// SaveAs finishes the workbook and saves it to path.
func (w *Writer) SaveAs(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.flush(); err != nil {
		return err
	}
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %q: %w", path, err)
	}
	return nil
}

// Bytes finishes the workbook and returns its encoded form.
func (w *Writer) Bytes() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.flush(); err != nil {
		return nil, err
	}
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Close releases the workbook's temporary files.
func (w *Writer) Close() error {
	return w.file.Close()
}

// Write writes records as a single sheet workbook to out.
func Write(out io.Writer, records any, opts ...Option) error {
	w, err := NewWriter(opts...)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.AddSheet(records); err != nil {
		return err
	}
	_, err = w.WriteTo(out)
	return err
}

// WriteFile writes records as a single sheet workbook to path.
func WriteFile(path string, records any, opts ...Option) error {
	w, err := NewWriter(opts...)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.AddSheet(records); err != nil {
		return err
	}
	return w.SaveAs(path)
}
