package xlbind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlign(t *testing.T) {
	tests := []struct {
		in   string
		want Align
	}{
		{"", AlignDefault},
		{"left", AlignLeft},
		{"RIGHT", AlignRight},
		{" center ", AlignCenter},
		{"top", AlignVerticalTop},
		{"VERTICAL_CENTER", AlignVerticalCenter},
		{"middle", AlignVerticalCenter},
		{"vertical_bottom", AlignVerticalBottom},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, err := ParseAlign(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}

	_, err := ParseAlign("justify")
	assert.ErrorContains(t, err, "unknown alignment")

	assert.True(t, AlignVerticalTop.IsVertical())
	assert.False(t, AlignCenter.IsVertical())
	assert.Equal(t, "vertical_center", AlignVerticalCenter.String())
	assert.Equal(t, "default", AlignDefault.String())
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("light_turquoise")
	require.NoError(t, err)
	assert.Equal(t, "#CCFFFF", c)

	c, err = ParseColor("#a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, "#A1B2C3", c)

	c, err = ParseColor("00ff00")
	require.NoError(t, err)
	assert.Equal(t, "#00FF00", c)

	c, err = ParseColor("")
	require.NoError(t, err)
	assert.Empty(t, c)

	_, err = ParseColor("mauve")
	assert.ErrorContains(t, err, "unknown color")
	_, err = ParseColor("#12345")
	assert.Error(t, err)
}

func TestRowStyle_ExcelizeStyle(t *testing.T) {
	s := RowStyle{
		Align:           AlignCenter,
		VerticalAlign:   AlignVerticalCenter,
		WrapText:        true,
		FontName:        "Arial",
		FontSize:        12,
		FontColor:       "BLUE_GREY",
		Bold:            true,
		Border:          "thin",
		BorderColor:     "GREY_25_PERCENT",
		BackgroundColor: "YELLOW",
		Format:          "0.00",
	}
	st, err := s.ExcelizeStyle()
	require.NoError(t, err)

	assert.Equal(t, "center", st.Alignment.Horizontal)
	assert.Equal(t, "center", st.Alignment.Vertical)
	assert.True(t, st.Alignment.WrapText)
	require.NotNil(t, st.Font)
	assert.Equal(t, "Arial", st.Font.Family)
	assert.Equal(t, "#666699", st.Font.Color)
	assert.True(t, st.Font.Bold)
	require.Len(t, st.Border, 4)
	assert.Equal(t, 1, st.Border[0].Style)
	assert.Equal(t, "#C0C0C0", st.Border[0].Color)
	assert.Equal(t, []string{"#FFFF00"}, st.Fill.Color)
	require.NotNil(t, st.CustomNumFmt)
	assert.Equal(t, "0.00", *st.CustomNumFmt)
}

func TestRowStyle_ExcelizeStyleDefaults(t *testing.T) {
	st, err := RowStyle{}.ExcelizeStyle()
	require.NoError(t, err)
	assert.Equal(t, "left", st.Alignment.Horizontal, "horizontal alignment falls back to left")
	assert.Nil(t, st.Font)
	assert.Empty(t, st.Border)
	assert.Empty(t, st.Fill.Color)
	assert.Nil(t, st.CustomNumFmt)

	st, err = RowStyle{Border: "thick"}.ExcelizeStyle()
	require.NoError(t, err)
	assert.Empty(t, st.Border, "a border needs a colour to be drawn")

	st, err = RowStyle{BorderColor: "RED"}.ExcelizeStyle()
	require.NoError(t, err)
	assert.Empty(t, st.Border, "a border needs a line style to be drawn")
}

func TestRowStyle_ExcelizeStyleErrors(t *testing.T) {
	_, err := RowStyle{FontColor: "nope"}.ExcelizeStyle()
	assert.ErrorContains(t, err, "font")

	_, err = RowStyle{Border: "wavy", BorderColor: "RED"}.ExcelizeStyle()
	assert.ErrorContains(t, err, "unknown border style")

	_, err = RowStyle{BackgroundColor: "nope"}.ExcelizeStyle()
	assert.ErrorContains(t, err, "background")
}

func TestRowStyle_WithColumn(t *testing.T) {
	base := RowStyle{Align: AlignLeft, VerticalAlign: AlignVerticalCenter, Format: FormatString}

	got := base.withColumn(Column{Align: AlignRight, Format: FormatDecimal})
	assert.Equal(t, AlignRight, got.Align)
	assert.Equal(t, AlignVerticalCenter, got.VerticalAlign)
	assert.Equal(t, FormatDecimal, got.Format)

	got = base.withColumn(Column{Align: AlignVerticalTop})
	assert.Equal(t, AlignLeft, got.Align)
	assert.Equal(t, AlignVerticalTop, got.VerticalAlign)
	assert.Equal(t, FormatString, got.Format)

	assert.Equal(t, AlignLeft, base.Align, "the receiver is not modified")
}
