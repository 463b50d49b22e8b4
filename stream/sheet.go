package stream

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// RowFunc receives each logical row of a worksheet. Returning an error stops
// the stream and the error is returned from Stream.
type RowFunc func(row Row) error

// Stream walks the sheet at the 0-based index and calls fn once per row that
// has at least one cell with content, in document order.
func (wb *Workbook) Stream(ctx context.Context, sheet int, fn RowFunc) error {
	if sheet < 0 || sheet >= len(wb.sheets) {
		return fmt.Errorf("sheet index %d: %w", sheet, ErrNoSheet)
	}
	info := wb.sheets[sheet]
	f, ok := wb.parts[info.Part]
	if !ok {
		return fmt.Errorf("sheet %q: part %q missing from package", info.Name, info.Part)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open sheet %q: %w", info.Name, err)
	}
	defer rc.Close()

	p := &sheetParser{
		wb:    wb,
		sheet: info.Name,
		fn:    fn,
	}
	return p.parse(ctx, rc)
}

// StreamNamed streams the sheet with the given name.
func (wb *Workbook) StreamNamed(ctx context.Context, name string, fn RowFunc) error {
	idx, err := wb.SheetIndex(name)
	if err != nil {
		return err
	}
	return wb.Stream(ctx, idx, fn)
}

// StreamAll streams every sheet in workbook order.
func (wb *Workbook) StreamAll(ctx context.Context, fn func(sheet string, row Row) error) error {
	for i, s := range wb.sheets {
		name := s.Name
		err := wb.Stream(ctx, i, func(row Row) error {
			return fn(name, row)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// cellState holds the attributes of the <c> element being decoded.
type cellState struct {
	ref      string
	col      int
	typ      CellType
	style    int
	hasStyle bool
	hasValue bool
}

// sheetParser turns the token stream of a worksheet part into Row events.
type sheetParser struct {
	wb    *Workbook
	sheet string
	fn    RowFunc

	row     Row
	inRow   bool
	lastRow int
	lastCol int

	cell      cellState
	inCell    bool
	inValue   bool
	inIS      bool
	inText    bool
	inFormula bool
	phonetic  int
	text      strings.Builder
	formula   strings.Builder
}

func (p *sheetParser) parse(ctx context.Context, r io.Reader) error {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("sheet %q: decode xml: %w", p.sheet, err)
		}

		switch v := tok.(type) {
		case xml.StartElement:
			if err := p.start(v); err != nil {
				return err
			}
		case xml.CharData:
			switch {
			case p.inValue || p.inText:
				p.text.Write(v)
			case p.inFormula:
				p.formula.Write(v)
			}
		case xml.EndElement:
			done, err := p.end(ctx, v)
			if err != nil || done {
				return err
			}
		}
	}
}

func (p *sheetParser) start(v xml.StartElement) error {
	switch v.Name.Local {
	case "row":
		p.inRow = true
		p.lastCol = -1
		idx := p.lastRow + 1
		if r := attr(v.Attr, "r"); r != "" {
			n, err := atoi(r)
			if err != nil || n < 1 || n > excelize.TotalRows {
				return fmt.Errorf("sheet %q: invalid row number %q", p.sheet, r)
			}
			idx = n
		}
		if idx > excelize.TotalRows {
			return fmt.Errorf("sheet %q: row %d is beyond the last sheet row", p.sheet, idx)
		}
		p.row = Row{Index: idx}
		p.lastRow = idx

	case "c":
		if !p.inRow {
			// tolerate cells outside <row>: treat them as the next row
			if p.lastRow >= excelize.TotalRows {
				return fmt.Errorf("sheet %q: cell beyond the last sheet row", p.sheet)
			}
			p.row = Row{Index: p.lastRow + 1}
			p.lastRow = p.row.Index
			p.lastCol = -1
			p.inRow = true
		}
		p.cell = cellState{typ: Classify(attr(v.Attr, "t"))}
		if ref := attr(v.Attr, "r"); ref != "" {
			col, row, err := SplitRef(ref)
			if err != nil {
				return fmt.Errorf("sheet %q: %w", p.sheet, err)
			}
			p.cell.ref = ref
			p.cell.col = col
			if row != p.row.Index {
				p.row.Index = row
				p.lastRow = row
			}
		} else {
			p.cell.col = p.lastCol + 1
			if p.cell.col >= excelize.MaxColumns {
				return fmt.Errorf("sheet %q cell after %s: beyond the last sheet column", p.sheet, CellName(p.lastCol, p.row.Index))
			}
			p.cell.ref = CellName(p.cell.col, p.row.Index)
		}
		p.lastCol = p.cell.col
		if s := attr(v.Attr, "s"); s != "" {
			n, err := atoi(s)
			if err != nil {
				return fmt.Errorf("sheet %q cell %s: invalid style index %q", p.sheet, p.cell.ref, s)
			}
			p.cell.style = n
			p.cell.hasStyle = true
		}
		p.inCell = true
		p.text.Reset()
		p.formula.Reset()

	case "v":
		if p.inCell {
			p.inValue = true
			p.text.Reset()
		}

	case "is":
		if p.inCell {
			p.inIS = true
			p.text.Reset()
		}

	case "f":
		p.inFormula = p.inCell

	case "rPh":
		p.phonetic++

	case "t":
		if p.inIS && p.phonetic == 0 {
			p.inText = true
		}
	}
	return nil
}

// end handles closing tags. It reports done once </sheetData> is reached:
// nothing after it carries cell values.
func (p *sheetParser) end(ctx context.Context, v xml.EndElement) (bool, error) {
	switch v.Name.Local {
	case "v":
		if p.inValue {
			p.inValue = false
			p.cell.hasValue = true
		}
	case "t":
		p.inText = false
	case "f":
		p.inFormula = false
	case "rPh":
		p.phonetic--
	case "is":
		if p.inIS {
			p.inIS = false
			p.cell.hasValue = true
		}
	case "c":
		if p.inCell && p.cell.hasValue {
			c, err := p.decode(p.text.String())
			if err != nil {
				return true, err
			}
			p.row.Cells = append(p.row.Cells, c)
		}
		p.inCell = false
	case "row":
		p.inRow = false
		if err := p.flush(ctx); err != nil {
			return true, err
		}
	case "sheetData":
		if p.inRow {
			p.inRow = false
			if err := p.flush(ctx); err != nil {
				return true, err
			}
		}
		return true, nil
	}
	return false, nil
}

func (p *sheetParser) flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(p.row.Cells) == 0 {
		return nil
	}
	row := p.row
	p.row = Row{}
	return p.fn(row)
}

// decode reconstructs the typed value of the current cell from its raw text.
func (p *sheetParser) decode(raw string) (Cell, error) {
	cs := p.cell
	c := Cell{
		Ref:     cs.ref,
		Row:     p.row.Index,
		Col:     cs.col,
		Type:    cs.typ,
		Raw:     raw,
		Formula: p.formula.String(),
	}
	if cs.hasStyle && p.wb.styles != nil {
		nf := p.wb.styles.Format(cs.style)
		c.NumFmtID, c.NumFmt = nf.ID, nf.Code
	}

	switch cs.typ {
	case CellBoolean:
		b := raw == "1" || strings.EqualFold(raw, "true")
		c.Value = b
		c.Text = "FALSE"
		if b {
			c.Text = "TRUE"
		}

	case CellError:
		c.Value = raw
		c.Text = "ERROR:" + raw

	case CellInlineString, CellFormulaString:
		c.Value = raw
		c.Text = raw

	case CellSharedString:
		idx, err := atoi(strings.TrimSpace(raw))
		if err != nil {
			return c, p.errorf("invalid shared string index %q", raw)
		}
		s, err := p.wb.strings.Get(idx)
		if err != nil {
			return c, p.errorf("%v", err)
		}
		c.Value = s
		c.Text = s

	case CellDate:
		t, err := parseISODate(raw)
		if err != nil {
			return c, p.errorf("invalid ISO date %q", raw)
		}
		c.Value = t
		c.Text = raw

	default:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return c, p.errorf("invalid number %q", raw)
		}
		if !cs.hasStyle {
			c.Value = f
			c.Text = renderGeneral(f)
			break
		}
		nf := p.wb.styles.Format(cs.style)
		if nf.IsDate {
			t, err := excelize.ExcelDateToTime(f, p.wb.date1904)
			if err != nil {
				return c, p.errorf("convert date serial %v: %v", f, err)
			}
			c.Type = CellDate
			c.Value = t
			c.Text = nf.Render(f, t)
			break
		}
		c.Value = f
		c.Text = nf.Render(f, time.Time{})
	}
	return c, nil
}

func (p *sheetParser) errorf(format string, args ...any) error {
	return fmt.Errorf("sheet %q cell %s: %s", p.sheet, p.cell.ref, fmt.Sprintf(format, args...))
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"15:04:05",
}

func parseISODate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range isoLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func attr(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func atoi(s string) (int, error) {
	return strconv.Atoi(s)
}
