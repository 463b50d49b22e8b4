package xlbind

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumns_Employee(t *testing.T) {
	cols, err := ColumnsOf([]employee{})
	require.NoError(t, err)
	require.Len(t, cols, 5)

	assert.Equal(t, "Name", cols[0].Name)
	assert.Equal(t, FormatString, cols[0].Format)
	assert.Equal(t, AlignDefault, cols[0].Align)

	assert.Equal(t, "Age", cols[1].Field)
	assert.Equal(t, FormatInteger, cols[1].Format)
	assert.Equal(t, AlignCenter, cols[1].Align)

	assert.Equal(t, "#,##0.00", cols[2].Format, "quoted value keeps its commas")
	assert.Equal(t, FormatString, cols[3].Format)
	assert.Equal(t, FormatDate, cols[4].Format)
	assert.Equal(t, 14.0, cols[4].Width)
	assert.Equal(t, reflect.TypeOf(time.Time{}), cols[4].Type)
}

func TestColumns_SortedAndCached(t *testing.T) {
	type rec struct {
		C string `xl:"index=2,name=C"`
		A string `xl:"index=0,name=A"`
		B int    `xl:"index=1,name=B"`
	}
	cols, err := Columns(reflect.TypeOf(rec{}))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, []int{cols[0].Index, cols[1].Index, cols[2].Index})
	assert.Equal(t, []int{1}, cols[0].FieldIndex)

	again, err := Columns(reflect.TypeOf(&rec{}))
	require.NoError(t, err)
	assert.Same(t, &cols[0], &again[0], "second lookup is served from the cache")
}

type Audit struct {
	CreatedBy string `xl:"index=5,name=Created By"`
}

func TestColumns_EmbeddedFlattened(t *testing.T) {
	type rec struct {
		Audit
		ID    int    `xl:"index=0,name=ID"`
		skip  string `xl:"index=1,name=skip"`
		Plain string
	}
	cols, err := ColumnsOf(&rec{})
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "ID", cols[0].Name)
	assert.Equal(t, "CreatedBy", cols[1].Field)
	assert.Equal(t, []int{0, 0}, cols[1].FieldIndex)
	_ = rec{}.skip
}

func TestColumns_PointerFieldDefaults(t *testing.T) {
	type rec struct {
		Score *float64      `xl:"index=0,name=Score"`
		When  *time.Time    `xl:"index=1,name=When"`
		Dur   time.Duration `xl:"index=2,name=Dur"`
	}
	cols, err := ColumnsOf(rec{})
	require.NoError(t, err)
	assert.Equal(t, FormatDecimal, cols[0].Format)
	assert.Equal(t, FormatDateTime, cols[1].Format)
	assert.Equal(t, FormatString, cols[2].Format)
}

func TestColumns_Errors(t *testing.T) {
	type none struct{ A string }
	_, err := ColumnsOf(none{})
	assert.ErrorIs(t, err, ErrNoColumns)

	type dup struct {
		A string `xl:"index=0,name=A"`
		B string `xl:"index=0,name=B"`
	}
	_, err = ColumnsOf(dup{})
	assert.ErrorContains(t, err, "duplicate column index 0")

	tests := []struct {
		name string
		typ  any
		want string
	}{
		{"missing index", struct {
			A string `xl:"name=A"`
		}{}, "missing index"},
		{"missing name", struct {
			A string `xl:"index=0"`
		}{}, "missing name"},
		{"bad index", struct {
			A string `xl:"index=x,name=A"`
		}{}, "invalid index"},
		{"unknown key", struct {
			A string `xl:"index=0,name=A,colour=red"`
		}{}, "unknown tag key"},
		{"bad align", struct {
			A string `xl:"index=0,name=A,align=sideways"`
		}{}, "unknown alignment"},
		{"unterminated quote", struct {
			A string `xl:"index=0,name=A,format='0.00"`
		}{}, "unterminated quote"},
		{"no equals", struct {
			A string `xl:"index=0,name"`
		}{}, "want key=value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ColumnsOf(tt.typ)
			assert.ErrorContains(t, err, tt.want)
		})
	}

	_, err = Columns(reflect.TypeOf(42))
	assert.ErrorContains(t, err, "not a struct")
	_, err = ColumnsOf(nil)
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestFormatByName(t *testing.T) {
	code, ok := FormatByName("decimal")
	assert.True(t, ok)
	assert.Equal(t, FormatDecimal, code)

	_, ok = FormatByName("money")
	assert.False(t, ok)

	assert.Equal(t, "0.000", resolveFormat("0.000"))
	assert.Equal(t, FormatDateTime, resolveFormat("DATETIME"))
}

func TestDefaultFormat(t *testing.T) {
	assert.Equal(t, FormatString, DefaultFormat(reflect.TypeOf("")))
	assert.Equal(t, FormatInteger, DefaultFormat(reflect.TypeOf(uint8(0))))
	assert.Equal(t, FormatDecimal, DefaultFormat(reflect.TypeOf(float32(0))))
	assert.Equal(t, FormatDateTime, DefaultFormat(reflect.TypeOf(time.Time{})))
	assert.Equal(t, FormatString, DefaultFormat(reflect.TypeOf(true)))
	assert.Equal(t, FormatString, DefaultFormat(reflect.TypeOf(Hyperlink{})))
}
