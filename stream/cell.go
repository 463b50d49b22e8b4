package stream

import "time"

// CellType classifies a worksheet cell from its raw "t" attribute and,
// for numbers, from the number format its style resolves to.
type CellType int

const (
	CellNumber CellType = iota
	CellBoolean
	CellError
	CellInlineString
	CellSharedString
	CellFormulaString
	CellDate
)

// String returns a human-readable name for the CellType.
func (ct CellType) String() string {
	switch ct {
	case CellNumber:
		return "Number"
	case CellBoolean:
		return "Boolean"
	case CellError:
		return "Error"
	case CellInlineString:
		return "InlineString"
	case CellSharedString:
		return "SharedString"
	case CellFormulaString:
		return "FormulaString"
	case CellDate:
		return "Date"
	default:
		return "Unknown"
	}
}

// IsText reports whether the cell carries a string value.
func (ct CellType) IsText() bool {
	return ct == CellInlineString || ct == CellSharedString || ct == CellFormulaString
}

// Classify maps the raw "t" attribute of a <c> element to a CellType.
// A missing or unknown attribute means a number.
func Classify(t string) CellType {
	switch t {
	case "b":
		return CellBoolean
	case "e":
		return CellError
	case "inlineStr":
		return CellInlineString
	case "s":
		return CellSharedString
	case "str":
		return CellFormulaString
	case "d":
		return CellDate
	default:
		return CellNumber
	}
}

// Cell is a single decoded cell event.
type Cell struct {
	Ref      string   // A1 reference
	Row      int      // 1-based row number
	Col      int      // 0-based column index
	Type     CellType // resolved type
	Raw      string   // text as stored in <v> or <is>
	Value    any      // bool, string, float64 or time.Time
	Text     string   // display text
	NumFmtID int      // number format id from the cell style, 0 when unstyled
	NumFmt   string   // number format code, "" when unstyled
	Formula  string   // formula text without the leading =, "" when none
}

// Time returns the cell value as a time when the cell is a date.
func (c Cell) Time() (time.Time, bool) {
	t, ok := c.Value.(time.Time)
	return t, ok
}

// Row is a logical worksheet row: the cells with content, in stream order.
type Row struct {
	Index int // 1-based row number
	Cells []Cell
}

// Cell returns the cell at the given 0-based column, if present.
func (r Row) Cell(col int) (Cell, bool) {
	for _, c := range r.Cells {
		if c.Col == col {
			return c, true
		}
	}
	return Cell{}, false
}

// Values returns the typed values of the row laid out by column index.
// Missing columns are nil.
func (r Row) Values() []any {
	if len(r.Cells) == 0 {
		return nil
	}
	width := 0
	for _, c := range r.Cells {
		if c.Col+1 > width {
			width = c.Col + 1
		}
	}
	out := make([]any, width)
	for _, c := range r.Cells {
		out[c.Col] = c.Value
	}
	return out
}
