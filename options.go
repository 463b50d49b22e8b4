package xlbind

import (
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
)

// Options holds configuration for the Writer.
type Options struct {
	layout     *SheetLayout
	config     *StyleConfig
	boolLabels *[2]string
	selectExpr string
}

func defaultOptions() *Options {
	return &Options{
		boolLabels: &[2]string{"是", "否"},
	}
}

// Option configures the Writer.
type Option func(*Options)

// WithLayout sets the sheet layout used for every sheet.
func WithLayout(l *SheetLayout) Option {
	return func(o *Options) { o.layout = l }
}

// WithStyleConfig builds the sheet layout from a style configuration.
func WithStyleConfig(cfg *StyleConfig) Option {
	return func(o *Options) { o.config = cfg }
}

// WithBoolLabels sets the text written for true and false (default: 是, 否).
// Passing nil writes native boolean cells.
func WithBoolLabels(labels *[2]string) Option {
	return func(o *Options) { o.boolLabels = labels }
}

// WithSelect keeps only records for which the expression is true, e.g.
// `Age >= 18 && Active`.
func WithSelect(expression string) Option {
	return func(o *Options) { o.selectExpr = expression }
}

// ReadOptions holds configuration for the Reader.
type ReadOptions struct {
	startRow  int
	validate  *validator.Validate
	rowFilter string
	logger    *slog.Logger
	location  *time.Location
}

func defaultReadOptions() *ReadOptions {
	return &ReadOptions{
		startRow: 2,
		location: time.UTC,
	}
}

// ReadOption configures the Reader.
type ReadOption func(*ReadOptions)

// WithStartRow sets the first 1-based row read as a record (default: 2, the
// row after the title).
func WithStartRow(row int) ReadOption {
	return func(o *ReadOptions) {
		if row > 0 {
			o.startRow = row
		}
	}
}

// WithValidator validates every record with v before it is kept.
func WithValidator(v *validator.Validate) ReadOption {
	return func(o *ReadOptions) { o.validate = v }
}

// WithRowFilter keeps only records for which the expression is true.
func WithRowFilter(expression string) ReadOption {
	return func(o *ReadOptions) { o.rowFilter = expression }
}

// WithLogger receives debug messages about skipped rows.
func WithLogger(l *slog.Logger) ReadOption {
	return func(o *ReadOptions) { o.logger = l }
}

// WithLocation sets the zone for date text and serials (default: UTC).
func WithLocation(loc *time.Location) ReadOption {
	return func(o *ReadOptions) {
		if loc != nil {
			o.location = loc
		}
	}
}
