package xlbind

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()

	assert.Equal(t, 20.0, l.CellWidth)

	assert.Equal(t, 0, l.Title.Index)
	assert.Equal(t, 28.0, l.Title.Height)
	assert.Equal(t, "Arial", l.Title.FontName)
	assert.Equal(t, 12.0, l.Title.FontSize)
	assert.True(t, l.Title.Bold)
	assert.Equal(t, "YELLOW", l.Title.BackgroundColor)
	assert.Equal(t, AlignCenter, l.Title.Align)
	assert.Equal(t, AlignVerticalCenter, l.Title.VerticalAlign)
	assert.Equal(t, FormatString, l.Title.Format)

	assert.Equal(t, 1, l.Body.Index)
	assert.Equal(t, 24.0, l.Body.Height)
	assert.True(t, l.Body.WrapText)
	assert.Equal(t, AlignLeft, l.Body.Align)
	assert.Equal(t, "LIGHT_TURQUOISE", l.Body.BackgroundColor)

	assert.Equal(t, "LEMON_CHIFFON", l.Footer.BackgroundColor)
	assert.Equal(t, "ORANGE", l.Footer.FontColor)

	for _, s := range []RowStyle{l.Title, l.Body, l.Footer} {
		assert.Equal(t, "thin", s.Border)
		assert.Equal(t, "GREY_25_PERCENT", s.BorderColor)
	}
}

func TestParseStyleConfig_Overlay(t *testing.T) {
	cfg, err := ParseStyleConfig(strings.NewReader(`
global:
  cellWidth: 32
titleRow:
  backgroundColor: "#336699"
bodyRow:
  startIndex: 3
  format: DECIMAL
`))
	require.NoError(t, err)

	l, err := cfg.Layout("Report")
	require.NoError(t, err)
	assert.Equal(t, "Report", l.Name)
	assert.Equal(t, 32.0, l.CellWidth)
	assert.Equal(t, "#336699", l.Title.BackgroundColor)
	assert.Equal(t, "Arial", l.Title.FontName, "unset keys keep their defaults")
	assert.Equal(t, 3, l.Body.Index)
	assert.Equal(t, FormatDecimal, l.Body.Format)
}

func TestParseStyleConfig_Empty(t *testing.T) {
	cfg, err := ParseStyleConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultStyleConfig(), cfg)
}

func TestParseStyleConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown key", "titleRow:\n  colour: RED\n", "field colour not found"},
		{"bad colour", "bodyRow:\n  fontColor: NOT_A_COLOUR\n", "bodyRow"},
		{"bad align", "footRow:\n  align: diagonal\n", "unknown alignment"},
		{"horizontal as vertical", "titleRow:\n  verticalAlign: left\n", "not a vertical alignment"},
		{"body before title", "titleRow:\n  startIndex: 2\nbodyRow:\n  startIndex: 1\n", "must come after title row"},
		{"negative width", "global:\n  cellWidth: -1\n", "invalid cell width"},
		{"not yaml", "titleRow: [", "decode style config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStyleConfig(strings.NewReader(tt.yaml))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadStyleConfig(t *testing.T) {
	path := filepath.Join(testdataDir(t), "style_test.yml")
	require.NoError(t, os.WriteFile(path, []byte("bodyRow:\n  height: 30\n"), 0o644))
	t.Cleanup(func() { os.Remove(path) })

	cfg, err := LoadStyleConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.BodyRow.Height)

	_, err = LoadStyleConfig(filepath.Join(testdataDir(t), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "第一页", SheetName(1, ""))
	assert.Equal(t, "第三页", SheetName(3, ""))
	assert.Equal(t, "第十页", SheetName(10, ""))
	assert.Equal(t, "第11页", SheetName(11, ""))

	assert.Equal(t, "Staff", SheetName(1, "Staff"))
	assert.Equal(t, "Staff2", SheetName(2, "Staff"))
}
