package measure

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textshaping/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "measure")
	defer teardown()
	//
	names := Callables()
	for _, name := range []string{FaceFeature, StringParagraph, StringShape, StringWidth} {
		assert.Contains(t, names, name)
	}
	fn, ok := Lookup(StringWidth)
	require.True(t, ok)
	_, ok = fn.(StringWidthFunc)
	assert.True(t, ok, "expected string_width to be a StringWidthFunc")
	fn, ok = Lookup(FaceFeature)
	require.True(t, ok)
	_, ok = fn.(FaceFeatureFunc)
	assert.True(t, ok)
	_, ok = Lookup("no_such_callable")
	assert.False(t, ok)
}

func TestRegister(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "measure")
	defer teardown()
	//
	assert.Equal(t, core.EINVALID, core.Code(Register("", StringWidthFunc(ShapeLineWidth))))
	assert.Equal(t, core.EINVALID, core.Code(Register("x", nil)))
	double := func(x int) int { return 2 * x }
	require.NoError(t, Register("test_double", double))
	fn, ok := Lookup("test_double")
	require.True(t, ok)
	assert.Equal(t, 4, fn.(func(int) int)(2))
	names := Callables()
	assert.Contains(t, names, "test_double")
	for i := 1; i < len(names); i++ {
		assert.True(t, names[i-1] < names[i], "expected names to be sorted")
	}
}

func TestBreakOffsets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "measure")
	defer teardown()
	//
	soft, hard := BreakOffsets("ab cd ef")
	assert.Equal(t, []int{3, 6}, soft)
	assert.Empty(t, hard)
	soft, hard = BreakOffsets("ab\ncd")
	assert.Empty(t, soft)
	assert.Equal(t, []int{3}, hard)
	soft, hard = BreakOffsets("")
	assert.Empty(t, soft)
	assert.Empty(t, hard)
}
