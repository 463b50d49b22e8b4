package stream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSharedStrings(t *testing.T) {
	ss, err := readSharedStrings(strings.NewReader(
		`<sst count="3" uniqueCount="2"><si><t>a</t></si><si><r><t>b</t></r><r><t>c</t></r><rPh><t>x</t></rPh></si></sst>`))
	require.NoError(t, err)
	require.Equal(t, 2, ss.Len())

	s, err := ss.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "bc", s)
}

func TestReadSharedStrings_HugeUniqueCount(t *testing.T) {
	ss, err := readSharedStrings(strings.NewReader(
		`<sst uniqueCount="999999999999999"><si><t>a</t></si></sst>`))
	require.NoError(t, err)
	assert.Equal(t, 1, ss.Len())
	assert.LessOrEqual(t, cap(ss.items), maxPrealloc)
}
