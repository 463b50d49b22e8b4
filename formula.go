package xlbind

import (
	"errors"
	"fmt"
	"strings"

	"github.com/javajack/xlbind/stream"
)

// Formula is a cell value written as a formula, without the leading "=".
// It is mostly useful in footer rows:
//
//	rng, _ := w.BodyRange(2)
//	w.AddRow(1, "Total", xlbind.Formula("SUM("+rng+")"))
type Formula string

// BodyRange returns the A1 range covering the body rows written so far in
// the 0-based column of the current sheet, such as "C2:C4".
func (w *Writer) BodyRange(column int) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cur == nil {
		return "", ErrNoActiveSheet
	}
	if column < 0 {
		return "", fmt.Errorf("body range: invalid column %d", column)
	}
	if w.cur.bodyLast < w.cur.bodyFirst {
		return "", errors.New("body range: no body rows written")
	}
	col := stream.ColToName(column)
	return fmt.Sprintf("%s%d:%s%d", col, w.cur.bodyFirst, col, w.cur.bodyLast), nil
}

func (f Formula) text() string {
	return strings.TrimPrefix(strings.TrimSpace(string(f)), "=")
}
