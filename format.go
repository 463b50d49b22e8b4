package xlbind

import (
	"reflect"
	"strings"
)

// Number format codes applied to columns without an explicit format.
const (
	FormatString   = "@"
	FormatInteger  = "0"
	FormatDecimal  = "0.00"
	FormatDate     = "yyyy-mm-dd"
	FormatDateTime = "yyyy-mm-dd hh:mm:ss"
)

var namedFormats = map[string]string{
	"STRING":   FormatString,
	"INTEGER":  FormatInteger,
	"DECIMAL":  FormatDecimal,
	"DATE":     FormatDate,
	"DATETIME": FormatDateTime,
}

// FormatByName maps STRING, INTEGER, DECIMAL, DATE and DATETIME (any case)
// to their format codes.
func FormatByName(name string) (string, bool) {
	code, ok := namedFormats[strings.ToUpper(strings.TrimSpace(name))]
	return code, ok
}

// resolveFormat accepts either a format name or a raw format code.
func resolveFormat(s string) string {
	if code, ok := FormatByName(s); ok {
		return code
	}
	return s
}

// DefaultFormat returns the format code used for a field of type t when its
// tag names none.
func DefaultFormat(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return FormatDateTime
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if t == durationType {
			return FormatString
		}
		return FormatInteger
	case reflect.Float32, reflect.Float64:
		return FormatDecimal
	}
	return FormatString
}
