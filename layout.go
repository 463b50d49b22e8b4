package xlbind

import (
	"errors"
	"fmt"
)

// SheetLayout is the column width and row styles of a written sheet.
type SheetLayout struct {
	Name      string
	CellWidth float64
	Title     RowStyle
	Body      RowStyle
	Footer    RowStyle
}

// DefaultLayout returns the built-in layout: a yellow centred title row on
// row 0, turquoise wrapped body rows from row 1 and a lemon chiffon footer.
func DefaultLayout() *SheetLayout {
	l, err := DefaultStyleConfig().Layout("")
	if err != nil {
		panic(fmt.Sprintf("xlbind: default layout: %v", err))
	}
	return l
}

func (l *SheetLayout) validate() error {
	if l.Title.Index < 0 || l.Body.Index < 0 {
		return errors.New("row index must not be negative")
	}
	if l.Body.Index <= l.Title.Index {
		return fmt.Errorf("body row %d must come after title row %d", l.Body.Index, l.Title.Index)
	}
	if l.CellWidth < 0 {
		return fmt.Errorf("invalid cell width %v", l.CellWidth)
	}
	return nil
}

var cnNumerals = []string{"一", "二", "三", "四", "五", "六", "七", "八", "九", "十"}

// SheetName returns the name of the index-th sheet (1-based). With a base
// name the first sheet is base and later ones base2, base3 and so on.
// Without one, sheets are named 第一页 to 第十页, then 第11页 onwards.
func SheetName(index int, base string) string {
	if base != "" {
		if index <= 1 {
			return base
		}
		return fmt.Sprintf("%s%d", base, index)
	}
	if index >= 1 && index <= len(cnNumerals) {
		return "第" + cnNumerals[index-1] + "页"
	}
	return fmt.Sprintf("第%d页", index)
}
