package xlbind

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/javajack/xlbind/stream"
	"github.com/xuri/nfp"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Writing or reading will fail
	SeverityWarning                 // Output may not look as intended
)

// ValidationIssue represents a single problem found in a record type.
type ValidationIssue struct {
	Severity Severity
	Column   string // column name, "" for record-level issues
	Message  string
}

// String formats the issue as "[ERROR] Salary: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	if v.Column == "" {
		return fmt.Sprintf("[%s] %s", sev, v.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.Column, v.Message)
}

// ValidateRecord checks the column tags of v's record type without writing
// anything. v may be a struct, a pointer or a slice. A select expression
// given with WithSelect is compiled against the type as well.
func ValidateRecord(v any, opts ...Option) []ValidationIssue {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if v == nil {
		return []ValidationIssue{{Severity: SeverityError, Message: "nil record"}}
	}
	rt := recordType(reflect.TypeOf(v))
	cols, err := Columns(rt)
	if err != nil {
		return []ValidationIssue{{Severity: SeverityError, Message: err.Error()}}
	}

	var issues []ValidationIssue
	issues = append(issues, validateIndexGaps(cols)...)
	for _, col := range cols {
		issues = append(issues, validateFormat(col)...)
	}
	if o.selectExpr != "" {
		if _, err := expr.Compile(o.selectExpr, expr.Env(reflect.New(rt).Elem().Interface()), expr.AsBool()); err != nil {
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				Message:  fmt.Sprintf("invalid select expression %q: %v", o.selectExpr, err),
			})
		}
	}
	return issues
}

// validateIndexGaps warns about unused column indexes between tagged columns.
func validateIndexGaps(cols []Column) []ValidationIssue {
	var issues []ValidationIssue
	next := 0
	for _, col := range cols {
		switch {
		case col.Index == next+1:
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Column:   col.Name,
				Message:  fmt.Sprintf("column %s is not mapped to any field", stream.ColToName(next)),
			})
		case col.Index > next:
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Column:   col.Name,
				Message:  fmt.Sprintf("columns %s to %s are not mapped to any field", stream.ColToName(next), stream.ColToName(col.Index-1)),
			})
		}
		next = col.Index + 1
	}
	return issues
}

// validateFormat checks a column's format code against its field type.
func validateFormat(col Column) []ValidationIssue {
	sections := stream.ParseFormat(col.Format)
	for _, sec := range sections {
		for _, tok := range sec.Items {
			if tok.TType == nfp.TokenTypeUnknown {
				return []ValidationIssue{{
					Severity: SeverityError,
					Column:   col.Name,
					Message:  fmt.Sprintf("format %q has unrecognised token %q", col.Format, tok.TValue),
				}}
			}
		}
	}

	base := col.Type
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	isDate := stream.IsDateFormatCode(col.Format)
	numeric := hasPlaceholder(sections)
	switch {
	case base == timeType && !isDate:
		return []ValidationIssue{{
			Severity: SeverityWarning,
			Column:   col.Name,
			Message:  fmt.Sprintf("time field %s uses non-date format %q", col.Field, col.Format),
		}}
	case base.Kind() == reflect.Bool && numeric:
		return []ValidationIssue{{
			Severity: SeverityWarning,
			Column:   col.Name,
			Message:  fmt.Sprintf("bool field %s uses numeric format %q", col.Field, col.Format),
		}}
	case base != timeType && isNumberKind(base.Kind()) && isDate:
		return []ValidationIssue{{
			Severity: SeverityWarning,
			Column:   col.Name,
			Message:  fmt.Sprintf("numeric field %s uses date format %q", col.Field, col.Format),
		}}
	}
	return nil
}

func hasPlaceholder(sections []nfp.Section) bool {
	for _, sec := range sections {
		for _, tok := range sec.Items {
			switch tok.TType {
			case nfp.TokenTypeZeroPlaceHolder, nfp.TokenTypeHashPlaceHolder, nfp.TokenTypeDigitalPlaceHolder:
				return true
			}
		}
	}
	return false
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// joinIssues renders issues one per line.
func joinIssues(issues []ValidationIssue) string {
	lines := make([]string, len(issues))
	for i, is := range issues {
		lines[i] = is.String()
	}
	return strings.Join(lines, "\n")
}
