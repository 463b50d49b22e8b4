package stream

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/nfp"
)

const defaultDateLayout = "2006-01-02 15:04:05"

// Render produces the display text of a numeric value under nf. Date formats
// render t; other formats render v with the decimals, grouping and percent
// sign of the first section. Anything richer falls back to General.
func (nf *NumFormat) Render(v float64, t time.Time) string {
	if nf == nil || len(nf.sections) == 0 {
		return renderGeneral(v)
	}
	if nf.IsDate {
		if s, ok := renderDate(nf.sections[0], t); ok {
			return s
		}
		return t.Format(defaultDateLayout)
	}
	return renderNumber(v, nf.sections[0])
}

// renderGeneral formats a number the way the General format displays it.
func renderGeneral(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'G', -1, 64)
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func renderNumber(v float64, sec nfp.Section) string {
	var (
		decimals    int
		afterPoint  bool
		grouping    bool
		percent     bool
		placeholder bool
	)
	for _, tok := range sec.Items {
		switch tok.TType {
		case nfp.TokenTypeDecimalPoint:
			afterPoint = true
		case nfp.TokenTypeZeroPlaceHolder, nfp.TokenTypeHashPlaceHolder:
			placeholder = true
			if afterPoint {
				decimals += len(tok.TValue)
			}
		case nfp.TokenTypeThousandsSeparator:
			grouping = true
		case nfp.TokenTypePercent:
			percent = true
		}
	}
	if !placeholder {
		return renderGeneral(v)
	}
	if percent {
		v *= 100
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if grouping {
		s = groupThousands(s)
	}
	if percent {
		s += "%"
	}
	return s
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}

// renderDate formats t token by token under a date section. Literal text is
// copied as is. It reports false when the section uses elapsed time or
// tokens it cannot render.
func renderDate(sec nfp.Section, t time.Time) (string, bool) {
	items := sec.Items
	hasAmPm := false
	for _, tok := range items {
		if isAmPm(tok.TValue) {
			hasAmPm = true
		}
	}

	var b strings.Builder
	for i, tok := range items {
		switch tok.TType {
		case nfp.TokenTypeElapsedDateTimes:
			return "", false
		case nfp.TokenTypeDateTimes:
			part, ok := datePart(items, i, hasAmPm, t)
			if !ok {
				return "", false
			}
			b.WriteString(part)
		case nfp.TokenTypeColor, nfp.TokenTypeCondition, nfp.TokenTypeCurrencyLanguage:
			// no display text
		case nfp.TokenTypeDecimalPoint:
			b.WriteByte('.')
		case nfp.TokenTypeZeroPlaceHolder:
			// fractional seconds: ss.000
			b.WriteString(fraction(t, len(tok.TValue)))
		default:
			if isAmPm(tok.TValue) {
				b.WriteString(amPm(t, tok.TValue))
				continue
			}
			b.WriteString(tok.TValue)
		}
	}
	return b.String(), true
}

func isAmPm(v string) bool {
	for _, m := range nfp.AmPm {
		if strings.EqualFold(v, m) {
			return true
		}
	}
	return false
}

// amPm picks the morning or afternoon half of a marker like AM/PM or A/P.
func amPm(t time.Time, v string) string {
	before, after, _ := strings.Cut(strings.ToUpper(v), "/")
	if t.Hour() < 12 {
		return before
	}
	return after
}

// fraction returns the first n digits of t's fractional second.
func fraction(t time.Time, n int) string {
	digits := fmt.Sprintf("%09d", t.Nanosecond())
	if n > len(digits) {
		n = len(digits)
	}
	return digits[:n]
}

func datePart(items []nfp.Token, i int, hasAmPm bool, t time.Time) (string, bool) {
	if isAmPm(items[i].TValue) {
		return amPm(t, items[i].TValue), true
	}
	v := strings.ToLower(items[i].TValue)
	switch v {
	case "yyyy", "yyy", "e", "ee":
		return t.Format("2006"), true
	case "yy", "y":
		return t.Format("06"), true
	case "mmmmm":
		return t.Format("Jan")[:1], true
	case "mmmm":
		return t.Format("January"), true
	case "mmm":
		return t.Format("Jan"), true
	case "mm", "m":
		if isMinute(items, i) {
			return pad(t.Minute(), v == "mm"), true
		}
		return pad(int(t.Month()), v == "mm"), true
	case "dddd":
		return t.Format("Monday"), true
	case "ddd":
		return t.Format("Mon"), true
	case "dd", "d":
		return pad(t.Day(), v == "dd"), true
	case "hh", "h":
		h := t.Hour()
		if hasAmPm {
			h %= 12
			if h == 0 {
				h = 12
			}
		}
		return pad(h, v == "hh"), true
	case "ss", "s":
		return pad(t.Second(), v == "ss"), true
	}
	return "", false
}

// pad formats n with a leading zero below 10 when two is set.
func pad(n int, two bool) string {
	if two && n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// isMinute reports whether the m/mm token at i means minutes: it directly
// follows an hour token or directly precedes a seconds token.
func isMinute(items []nfp.Token, i int) bool {
	for j := i - 1; j >= 0; j-- {
		if items[j].TType != nfp.TokenTypeDateTimes {
			continue
		}
		p := strings.ToLower(items[j].TValue)
		if strings.HasPrefix(p, "h") {
			return true
		}
		break
	}
	for j := i + 1; j < len(items); j++ {
		if items[j].TType != nfp.TokenTypeDateTimes {
			continue
		}
		return strings.HasPrefix(strings.ToLower(items[j].TValue), "s")
	}
	return false
}
