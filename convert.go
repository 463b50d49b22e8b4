package xlbind

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedType is returned when a value cannot be converted to the
// requested Go type.
var ErrUnsupportedType = errors.New("unsupported type")

var (
	// 1234, -1,234.5, .5, 1e-3, 12.5%
	reNumber = regexp.MustCompile(`^[+-]?(?:(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?%?$`)

	// 2024-01-02, 2024/1/2, 2024.01.02 with an optional clock part.
	reDate = regexp.MustCompile(`^(\d{4})([-/.])(\d{1,2})([-/.])(\d{1,2})(?:[ T](\d{1,2}):(\d{2})(?::(\d{2})(?:\.(\d{1,9}))?)?)?$`)

	// 2024年1月2日 with an optional clock part.
	reCJKDate = regexp.MustCompile(`^(\d{4})年(\d{1,2})月(\d{1,2})日(?:\s*(\d{1,2}):(\d{2})(?::(\d{2})(?:\.(\d{1,9}))?)?)?$`)

	// 2024-01-02T15:04:05Z, 2024-01-02 15:04:05.123+08:00
	reZoned = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d{1,9})?(?:Z|[+-]\d{2}:?\d{2})$`)

	// 15:04, 15:04:05, 15:04:05.5
	reClock = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2})(?:\.(\d{1,9}))?)?$`)
)

var (
	boolTrue  = map[string]bool{"1": true, "是": true, "y": true, "yes": true, "t": true, "true": true}
	boolFalse = map[string]bool{"0": true, "否": true, "n": true, "no": true, "f": true, "false": true}
)

// Detect guesses the typed value of a piece of cell text. Blank text is nil;
// boolean words become bool, numeric text float64, date and time text
// time.Time in UTC. Anything else is returned trimmed.
func Detect(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if s != "0" && s != "1" {
		if b, err := ParseBool(s); err == nil {
			return b
		}
	}
	if reNumber.MatchString(s) {
		if f, err := ParseNumber(s); err == nil {
			return f
		}
	}
	if t, err := ParseTime(s, time.UTC); err == nil {
		return t
	}
	return s
}

// ParseBool accepts 1/是/y/yes/t/true and 0/否/n/no/f/false, ignoring case.
func ParseBool(s string) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case boolTrue[v]:
		return true, nil
	case boolFalse[v]:
		return false, nil
	}
	return false, fmt.Errorf("parse bool %q: %w", s, strconv.ErrSyntax)
}

// ParseNumber parses decimal text with an optional sign, exponent, thousands
// separators and trailing percent sign. A percentage is divided by 100.
func ParseNumber(s string) (float64, error) {
	v := strings.TrimSpace(s)
	if !reNumber.MatchString(v) {
		return 0, fmt.Errorf("parse number %q: %w", s, strconv.ErrSyntax)
	}
	percent := strings.HasSuffix(v, "%")
	v = strings.TrimSuffix(v, "%")
	v = strings.ReplaceAll(v, ",", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	if percent {
		f /= 100
	}
	return f, nil
}

// ParseTime parses date, date-time, RFC 3339 and time-of-day text. Text
// without a zone is read in loc (UTC when nil). A bare clock time lands on
// the zero date.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	v := strings.TrimSpace(s)

	if reZoned.MatchString(v) {
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999Z07:00", "2006-01-02T15:04:05.999999999Z0700", "2006-01-02 15:04:05.999999999Z0700"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}
	}

	if m := reDate.FindStringSubmatch(v); m != nil {
		if m[2] != m[4] {
			return time.Time{}, fmt.Errorf("parse time %q: mixed date separators", s)
		}
		return buildTime(s, m[1], m[3], m[5], m[6], m[7], m[8], m[9], loc)
	}
	if m := reCJKDate.FindStringSubmatch(v); m != nil {
		return buildTime(s, m[1], m[2], m[3], m[4], m[5], m[6], m[7], loc)
	}
	if m := reClock.FindStringSubmatch(v); m != nil {
		return buildTime(s, "0", "1", "1", m[1], m[2], m[3], m[4], loc)
	}
	return time.Time{}, fmt.Errorf("parse time %q: unrecognised layout", s)
}

func buildTime(src, year, month, day, hour, minute, sec, frac string, loc *time.Location) (time.Time, error) {
	num := func(s string) int {
		if s == "" {
			return 0
		}
		n, _ := strconv.Atoi(s)
		return n
	}
	y, mo, d := num(year), num(month), num(day)
	h, mi, se := num(hour), num(minute), num(sec)
	ns := 0
	if frac != "" {
		ns = num((frac + "000000000")[:9])
	}
	if mo < 1 || mo > 12 || d < 1 || d > daysIn(time.Month(mo), y) || h > 23 || mi > 59 || se > 59 {
		return time.Time{}, fmt.Errorf("parse time %q: field out of range", src)
	}
	return time.Date(y, time.Month(mo), d, h, mi, se, ns, loc), nil
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

var (
	timeType            = reflect.TypeOf(time.Time{})
	durationType        = reflect.TypeOf(time.Duration(0))
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// ConvertTo coerces v, either cell text or an already typed cell value, into
// a value of type t. Times without a zone are read as UTC.
func ConvertTo(v any, t reflect.Type) (reflect.Value, error) {
	return convertIn(v, t, time.UTC)
}

func convertIn(v any, t reflect.Type, loc *time.Location) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" && t.Kind() != reflect.String {
		return reflect.Zero(t), nil
	}

	if t.Kind() == reflect.Pointer {
		inner, err := convertIn(v, t.Elem(), loc)
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(inner)
		return p, nil
	}

	switch t {
	case timeType:
		tm, err := toTime(v, loc)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(tm), nil
	case durationType:
		d, err := toDuration(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(d), nil
	}

	if rv := reflect.ValueOf(v); rv.Type() == t {
		return rv, nil
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		p := reflect.New(t)
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(toText(v))); err != nil {
			return reflect.Value{}, fmt.Errorf("unmarshal %s: %w", t, err)
		}
		return p.Elem(), nil
	}

	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		out.SetString(toText(v))

	case reflect.Bool:
		b, err := toBool(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, err := toFloat(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if math.IsNaN(f) {
			return reflect.Value{}, fmt.Errorf("value NaN cannot be stored in %s", t)
		}
		f = math.Trunc(f)
		if f < math.MinInt64 || f >= math.MaxInt64 || out.OverflowInt(int64(f)) {
			return reflect.Value{}, fmt.Errorf("value %v overflows %s", v, t)
		}
		out.SetInt(int64(f))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		f, err := toFloat(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if math.IsNaN(f) {
			return reflect.Value{}, fmt.Errorf("value NaN cannot be stored in %s", t)
		}
		f = math.Trunc(f)
		if f < 0 || f >= math.MaxUint64 || out.OverflowUint(uint64(f)) {
			return reflect.Value{}, fmt.Errorf("value %v overflows %s", v, t)
		}
		out.SetUint(uint64(f))

	case reflect.Float32, reflect.Float64:
		f, err := toFloat(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if out.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("value %v overflows %s", v, t)
		}
		out.SetFloat(f)

	case reflect.Interface:
		rv := reflect.ValueOf(v)
		if !rv.Type().Implements(t) {
			return reflect.Value{}, fmt.Errorf("%w: %s does not implement %s", ErrUnsupportedType, rv.Type(), t)
		}
		out.Set(rv)

	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return out, nil
}

// toText renders a typed value the way it would read in a cell.
func toText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		return ParseBool(x)
	case float64:
		return x != 0, nil
	}
	return false, fmt.Errorf("%w: cannot convert %T to bool", ErrUnsupportedType, v)
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		return ParseNumber(x)
	}
	return 0, fmt.Errorf("%w: cannot convert %T to number", ErrUnsupportedType, v)
}

// toTime accepts time.Time, date text or an Excel serial number. Zoneless
// values are re-anchored in loc keeping their wall clock.
func toTime(v any, loc *time.Location) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		if x.Location() == time.UTC && loc != time.UTC {
			return inLocation(x, loc), nil
		}
		return x, nil
	case string:
		if f, err := ParseNumber(x); err == nil {
			return serialToTime(f, loc)
		}
		return ParseTime(x, loc)
	case float64:
		return serialToTime(x, loc)
	}
	return time.Time{}, fmt.Errorf("%w: cannot convert %T to time", ErrUnsupportedType, v)
}

func serialToTime(f float64, loc *time.Location) (time.Time, error) {
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("convert serial %v: %w", f, err)
	}
	return inLocation(t, loc), nil
}

func inLocation(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// toDuration accepts Go duration text, clock text or a fraction of a day.
func toDuration(v any) (time.Duration, error) {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		if d, err := time.ParseDuration(s); err == nil {
			return d, nil
		}
		if m := reClock.FindStringSubmatch(s); m != nil {
			h, _ := strconv.Atoi(m[1])
			mi, _ := strconv.Atoi(m[2])
			se, _ := strconv.Atoi(m[3])
			return time.Duration(h)*time.Hour + time.Duration(mi)*time.Minute + time.Duration(se)*time.Second, nil
		}
		return 0, fmt.Errorf("parse duration %q: %w", x, strconv.ErrSyntax)
	case float64:
		return time.Duration(math.Round(x * float64(24*time.Hour))), nil
	case time.Time:
		midnight := time.Date(x.Year(), x.Month(), x.Day(), 0, 0, 0, 0, x.Location())
		return x.Sub(midnight), nil
	}
	return 0, fmt.Errorf("%w: cannot convert %T to duration", ErrUnsupportedType, v)
}
