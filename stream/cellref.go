package stream

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SplitRef parses a cell reference like "B7" or "$AB$12" into a 0-based
// column index and a 1-based row number. References outside A1:XFD1048576
// are rejected.
func SplitRef(ref string) (col, row int, err error) {
	name := strings.TrimSpace(ref)
	if name == "" {
		return 0, 0, fmt.Errorf("empty cell reference")
	}
	colName, row, err := excelize.SplitCellName(name)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cell reference: %q", ref)
	}
	if row > excelize.TotalRows {
		return 0, 0, fmt.Errorf("row %d of cell reference %q is beyond the last sheet row", row, ref)
	}
	col, err = NameToCol(colName)
	if err != nil {
		return 0, 0, fmt.Errorf("cell reference %q: %w", ref, err)
	}
	return col, row, nil
}

// ColToName converts a 0-based column index to a column name. It returns ""
// for an index outside A:XFD.
// 0→"A", 25→"Z", 26→"AA"
func ColToName(col int) string {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return ""
	}
	return name
}

// NameToCol converts a column name to a 0-based column index.
func NameToCol(name string) (int, error) {
	// longer names overflow before excelize can range check them
	if name == "" || len(name) > len("XFD") {
		return 0, fmt.Errorf("invalid column name: %q", name)
	}
	n, err := excelize.ColumnNameToNumber(name)
	if err != nil {
		return 0, fmt.Errorf("invalid column name: %q", name)
	}
	return n - 1, nil
}

// CellName joins a 0-based column and 1-based row into an A1 reference.
func CellName(col, row int) string {
	return ColToName(col) + strconv.Itoa(row)
}
