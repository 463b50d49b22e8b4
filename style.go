package xlbind

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Align is a cell alignment. The zero value leaves the row style's own
// alignment in place, which is left when nothing else is set.
type Align int

const (
	AlignDefault Align = iota
	AlignLeft
	AlignRight
	AlignCenter
	AlignVerticalTop
	AlignVerticalCenter
	AlignVerticalBottom
)

var alignNames = map[string]Align{
	"":                AlignDefault,
	"left":            AlignLeft,
	"right":           AlignRight,
	"center":          AlignCenter,
	"top":             AlignVerticalTop,
	"vertical_top":    AlignVerticalTop,
	"middle":          AlignVerticalCenter,
	"vertical_center": AlignVerticalCenter,
	"bottom":          AlignVerticalBottom,
	"vertical_bottom": AlignVerticalBottom,
}

// ParseAlign reads an alignment name such as "center" or "VERTICAL_TOP".
func ParseAlign(s string) (Align, error) {
	a, ok := alignNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return AlignDefault, fmt.Errorf("unknown alignment %q", s)
	}
	return a, nil
}

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	case AlignVerticalTop:
		return "vertical_top"
	case AlignVerticalCenter:
		return "vertical_center"
	case AlignVerticalBottom:
		return "vertical_bottom"
	}
	return "default"
}

// IsVertical reports whether a positions text vertically.
func (a Align) IsVertical() bool {
	return a >= AlignVerticalTop
}

// excelize returns the excelize alignment keyword.
func (a Align) excelize() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	case AlignVerticalTop:
		return "top"
	case AlignVerticalCenter:
		return "center"
	case AlignVerticalBottom:
		return "bottom"
	}
	return ""
}

// palette holds the indexed colour names accepted in style configuration.
var palette = map[string]string{
	"BLACK":                 "000000",
	"WHITE":                 "FFFFFF",
	"RED":                   "FF0000",
	"BRIGHT_GREEN":          "00FF00",
	"BLUE":                  "0000FF",
	"YELLOW":                "FFFF00",
	"PINK":                  "FF00FF",
	"TURQUOISE":             "00FFFF",
	"DARK_RED":              "800000",
	"GREEN":                 "008000",
	"DARK_BLUE":             "000080",
	"DARK_YELLOW":           "808000",
	"VIOLET":                "800080",
	"TEAL":                  "008080",
	"GREY_25_PERCENT":       "C0C0C0",
	"GREY_40_PERCENT":       "969696",
	"GREY_50_PERCENT":       "808080",
	"GREY_80_PERCENT":       "333333",
	"CORNFLOWER_BLUE":       "9999FF",
	"LEMON_CHIFFON":         "FFFFCC",
	"LIGHT_TURQUOISE":       "CCFFFF",
	"ORCHID":                "660066",
	"CORAL":                 "FF8080",
	"ROYAL_BLUE":            "0066CC",
	"LIGHT_CORNFLOWER_BLUE": "CCCCFF",
	"SKY_BLUE":              "00CCFF",
	"LIGHT_GREEN":           "CCFFCC",
	"LIGHT_YELLOW":          "FFFF99",
	"PALE_BLUE":             "99CCFF",
	"ROSE":                  "FF99CC",
	"LAVENDER":              "CC99FF",
	"TAN":                   "FFCC99",
	"LIGHT_BLUE":            "3366FF",
	"AQUA":                  "33CCCC",
	"LIME":                  "99CC00",
	"GOLD":                  "FFCC00",
	"LIGHT_ORANGE":          "FF9900",
	"ORANGE":                "FF6600",
	"BLUE_GREY":             "666699",
	"DARK_TEAL":             "003366",
	"SEA_GREEN":             "339966",
	"DARK_GREEN":            "003300",
	"OLIVE_GREEN":           "333300",
	"BROWN":                 "993300",
	"PLUM":                  "993366",
	"INDIGO":                "333399",
}

var reHexColor = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)

// ParseColor resolves a palette name or #RRGGBB to the "#RRGGBB" form
// excelize expects. An empty string stays empty.
func ParseColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if hex, ok := palette[strings.ToUpper(s)]; ok {
		return "#" + hex, nil
	}
	if reHexColor.MatchString(s) {
		return "#" + strings.ToUpper(strings.TrimPrefix(s, "#")), nil
	}
	return "", fmt.Errorf("unknown color %q", s)
}

var borderStyles = map[string]int{
	"thin":   1,
	"medium": 2,
	"dashed": 3,
	"dotted": 4,
	"thick":  5,
	"double": 6,
}

// RowStyle is the look of a title, body or footer row.
type RowStyle struct {
	Index           int     // 0-based row the style first applies to
	Height          float64 // row height in points, 0 keeps the default
	Align           Align
	VerticalAlign   Align
	WrapText        bool
	FontName        string
	FontSize        float64
	FontColor       string
	Bold            bool
	Border          string // thin, medium, dashed, dotted, thick or double
	BorderColor     string
	BackgroundColor string
	Format          string
}

// withColumn returns a copy of s carrying a column's alignment and format.
func (s RowStyle) withColumn(col Column) RowStyle {
	if col.Align != AlignDefault {
		if col.Align.IsVertical() {
			s.VerticalAlign = col.Align
		} else {
			s.Align = col.Align
		}
	}
	if col.Format != "" {
		s.Format = col.Format
	}
	return s
}

// ExcelizeStyle builds the excelize style definition of s. Borders are only
// drawn when both a line style and a colour are set.
func (s RowStyle) ExcelizeStyle() (*excelize.Style, error) {
	st := &excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: s.Align.excelize(),
			Vertical:   s.VerticalAlign.excelize(),
			WrapText:   s.WrapText,
		},
	}
	if st.Alignment.Horizontal == "" {
		st.Alignment.Horizontal = "left"
	}

	fontColor, err := ParseColor(s.FontColor)
	if err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}
	if s.FontName != "" || s.FontSize > 0 || fontColor != "" || s.Bold {
		st.Font = &excelize.Font{
			Family: s.FontName,
			Size:   s.FontSize,
			Color:  fontColor,
			Bold:   s.Bold,
		}
	}

	borderColor, err := ParseColor(s.BorderColor)
	if err != nil {
		return nil, fmt.Errorf("border: %w", err)
	}
	if s.Border != "" && borderColor != "" {
		line, ok := borderStyles[strings.ToLower(s.Border)]
		if !ok {
			return nil, fmt.Errorf("unknown border style %q", s.Border)
		}
		for _, side := range []string{"left", "top", "right", "bottom"} {
			st.Border = append(st.Border, excelize.Border{Type: side, Color: borderColor, Style: line})
		}
	}

	bg, err := ParseColor(s.BackgroundColor)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	if bg != "" {
		st.Fill = excelize.Fill{Type: "pattern", Color: []string{bg}, Pattern: 1}
	}

	if s.Format != "" {
		code := s.Format
		st.CustomNumFmt = &code
	}
	return st, nil
}
