package xlbind

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

var hyperlinkType = reflect.TypeOf(Hyperlink{})

// HYPERLINK("url") or HYPERLINK("url","display"), quotes doubled inside.
var reHyperlink = regexp.MustCompile(`(?i)^HYPERLINK\(\s*"((?:[^"]|"")*)"\s*(?:,\s*"((?:[^"]|"")*)"\s*)?\)$`)

// Hyperlink is a field value written as a clickable link. The cell shows
// Display, or the URL when Display is empty.
type Hyperlink struct {
	URL     string
	Display string
}

// String returns the display text for the hyperlink.
func (h Hyperlink) String() string {
	if h.Display != "" {
		return h.Display
	}
	return h.URL
}

// Link creates a Hyperlink.
func Link(url, display string) Hyperlink {
	return Hyperlink{URL: url, Display: display}
}

// formula returns the HYPERLINK formula carrying the link.
func (h Hyperlink) formula() string {
	return fmt.Sprintf("HYPERLINK(%s,%s)", quoteFormula(h.URL), quoteFormula(h.String()))
}

func quoteFormula(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// parseHyperlink recovers a link from a HYPERLINK formula. Anything else
// yields an empty Hyperlink.
func parseHyperlink(formula string) Hyperlink {
	m := reHyperlink.FindStringSubmatch(strings.TrimSpace(formula))
	if m == nil {
		return Hyperlink{}
	}
	unquote := func(s string) string { return strings.ReplaceAll(s, `""`, `"`) }
	return Hyperlink{URL: unquote(m[1]), Display: unquote(m[2])}
}
