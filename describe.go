package xlbind

import (
	"fmt"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/javajack/xlbind/stream"
)

// Describe returns a human-readable table of the columns of v's record
// type, followed by any validation issues. Useful for checking tags during
// development.
func Describe(v any) (string, error) {
	if v == nil {
		return "", fmt.Errorf("describe nil: %w", ErrNoColumns)
	}
	rt := recordType(reflect.TypeOf(v))
	cols, err := Columns(rt)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Record: %s (%d columns)\n", rt, len(cols))

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  COL\tNAME\tFIELD\tTYPE\tFORMAT\tALIGN\tWIDTH")
	for _, col := range cols {
		width := "-"
		if col.Width > 0 {
			width = fmt.Sprintf("%g", col.Width)
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%q\t%s\t%s\n",
			stream.ColToName(col.Index), col.Name, col.Field, col.Type, col.Format, col.Align, width)
	}
	if err := tw.Flush(); err != nil {
		return "", err
	}

	if issues := ValidateRecord(v); len(issues) > 0 {
		b.WriteString("Issues:\n")
		b.WriteString(joinIssues(issues))
		b.WriteByte('\n')
	}
	return b.String(), nil
}
