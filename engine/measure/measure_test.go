package measure

import (
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/font"
	"github.com/npillmayer/textshaping/core/font/fontregistry"
	"github.com/npillmayer/textshaping/engine/textshaper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

var goRegular = font.Spec{File: "goregular"}

func testEngine(t *testing.T) *Engine {
	reg := fontregistry.NewRegistry()
	require.NoError(t, reg.StoreFontData("goregular", goregular.TTF))
	return NewEngine(reg, nil)
}

func singleString(text string, spec font.Spec, maxWidth float64) *Input {
	return &Input{
		Strings:   []string{text},
		Fonts:     []font.Spec{spec},
		Sizes:     []float64{12},
		MaxWidths: []float64{maxWidth},
	}
}

func TestSingleString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "measure")
	defer teardown()
	//
	e := testEngine(t)
	glyphs, metrics, err := e.Paragraph(singleString("Hi", goRegular, -1))
	require.NoError(t, err)
	require.Len(t, glyphs, 2)
	require.Len(t, metrics, 1)
	var sum float64
	for i, g := range glyphs {
		assert.Equal(t, i+1, g.Cluster)
		assert.Equal(t, 1, g.MetricID)
		assert.Equal(t, 1, g.StringID)
		assert.Equal(t, "goregular", g.File)
		assert.Equal(t, 12.0, g.Size)
		assert.True(t, g.Ascender > 0)
		assert.True(t, g.Descender < 0)
		sum += g.Advance
	}
	assert.InDelta(t, sum, metrics[0].Width, 1.0/64)
	assert.Equal(t, 0.0, glyphs[0].X)
	assert.InDelta(t, glyphs[0].Advance, glyphs[1].X, 1.0/64)
	w, err := e.LineWidth("Hi", goRegular, 12, 72, true)
	require.NoError(t, err)
	assert.InDelta(t, sum, w, 1.0/64)
}

func TestWrapAtSpace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "measure")
	defer teardown()
	//
	e := testEngine(t)
	wab, err := e.LineWidth("ab", goRegular, 12, 72, true)
	require.NoError(t, err)
	wall, err := e.LineWidth("ab cd", goRegular, 12, 72, true)
	require.NoError(t, err)
	require.True(t, wall-1 >= wab)
	in := singleString("ab cd", goRegular, wall-1)
	in.Directions = []textshaper.Direction{textshaper.LeftToRight}
	glyphs, metrics, err := e.Paragraph(in)
	require.NoError(t, err)
	require.Len(t, glyphs, 5)
	require.Len(t, metrics, 1)
	lines := map[float64][]int{}
	for _, g := range glyphs {
		lines[g.Y] = append(lines[g.Y], g.Cluster)
	}
	require.Len(t, lines, 2)
	first, second := glyphs[0].Y, glyphs[4].Y
	assert.True(t, first > second, "second line expected below first one")
	assert.Equal(t, []int{1, 2, 3}, lines[first])
	assert.Equal(t, []int{4, 5}, lines[second])
	assert.Equal(t, 0.0, glyphs[3].X)
	assert.Equal(t, wall-1, metrics[0].Width)
}

func TestSoftHyphenBecomesVisible(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "measure")
	defer teardown()
	//
	e := testEngine(t)
	w, err := e.LineWidth("hyphenation", goRegular, 12, 72, true)
	require.NoError(t, err)
	glyphs, _, err := e.Paragraph(singleString("hyphen\u00ADation", goRegular, 0.8*w))
	require.NoError(t, err)
	require.Len(t, glyphs, 12)
	face, err := e.Registry().Face(goRegular, 12, 72)
	require.NoError(t, err)
	hyphen, ok := face.GlyphIndex(0x2010)
	if !ok {
		hyphen, ok = face.GlyphIndex('-')
	}
	require.True(t, ok)
	g := glyphs[6]
	assert.Equal(t, 7, g.Cluster)
	assert.Equal(t, uint32(hyphen), g.GlyphID)
	assert.True(t, g.Advance > 0, "hyphen expected to take up space")
	assert.Equal(t, glyphs[0].Y, g.Y, "hyphen expected to end the first line")
	assert.True(t, glyphs[7].Y < g.Y)
}

func TestFeaturesAreNotCached(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "measure")
	defer teardown()
	//
	e := testEngine(t)
	_, _, err := e.Paragraph(singleString("Cached", goRegular, -1))
	require.NoError(t, err)
	_, _, err = e.Paragraph(singleString("Cached", goRegular, -1))
	require.NoError(t, err)
	stats := e.CacheStats()
	assert.Equal(t, 1, stats.ShapeMisses)
	assert.Equal(t, 1, stats.ShapeHits)
	featured := font.Spec{File: "goregular", Features: []font.Feature{{Tag: "kern", Value: 0}}}
	glyphs, _, err := e.Paragraph(singleString("Cached", featured, -1))
	require.NoError(t, err)
	assert.Len(t, glyphs, 6)
	stats = e.CacheStats()
	assert.Equal(t, 2, stats.ShapeMisses)
	assert.Equal(t, 1, stats.ShapeHits)
	assert.Equal(t, 1, stats.ShapeEntries)
}

func TestGroupsAndRecycling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "measure")
	defer teardown()
	//
	e := testEngine(t)
	in := &Input{
		Strings:  []string{"ab", "cd", "ef"},
		GroupIDs: []int{1, 1, 2},
		Fonts:    []font.Spec{goRegular},
		Sizes:    []float64{12, 24, 12},
	}
	glyphs, metrics, err := e.Paragraph(in)
	require.NoError(t, err)
	require.Len(t, glyphs, 6)
	require.Len(t, metrics, 2)
	metricIDs, stringIDs := make([]int, 6), make([]int, 6)
	for i, g := range glyphs {
		metricIDs[i], stringIDs[i] = g.MetricID, g.StringID
	}
	assert.Equal(t, []int{1, 1, 1, 1, 2, 2}, metricIDs)
	assert.Equal(t, []int{1, 1, 2, 2, 1, 1}, stringIDs)
	assert.Equal(t, 24.0, glyphs[2].Size)
	assert.Equal(t, []int{1, 2}, []int{glyphs[2].Cluster, glyphs[3].Cluster})
	assert.True(t, metrics[0].Height > metrics[1].Height)
}

func TestInputValidation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "measure")
	defer teardown()
	//
	e := testEngine(t)
	_, _, err := e.Paragraph(&Input{Strings: []string{"a", "b", "c"}})
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, _, err = e.Paragraph(&Input{
		Strings: []string{"a", "b", "c"},
		Fonts:   []font.Spec{goRegular},
		Sizes:   []float64{10, 12},
	})
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, _, err = e.Paragraph(&Input{
		Strings: []string{"a", "b"},
		Fonts:   []font.Spec{goRegular},
		Aligns:  []textshaper.Alignment{textshaper.AlignCenter, textshaper.JustifyAuto + 1},
	})
	assert.Equal(t, core.EINVALID, core.Code(err))
	assert.Equal(t, 0, e.CacheStats().ShapeMisses, "nothing expected to be shaped")
	glyphs, metrics, err := e.Paragraph(&Input{})
	assert.NoError(t, err)
	assert.Empty(t, glyphs)
	assert.Empty(t, metrics)
}

func TestUnconstrainedWidths(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "measure")
	defer teardown()
	//
	e := testEngine(t)
	for _, w := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, metrics, err := e.Paragraph(singleString("one two three", goRegular, w))
		require.NoError(t, err)
		full, err := e.LineWidth("one two three", goRegular, 12, 72, true)
		require.NoError(t, err)
		assert.InDelta(t, full, metrics[0].Width, 1.0/64)
	}
}

func TestErrorsNameStringAndFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "measure")
	defer teardown()
	//
	e := testEngine(t)
	_, _, err := e.Paragraph(singleString("Hello", font.Spec{File: "/no/such/font.ttf"}, -1))
	require.Error(t, err)
	assert.Equal(t, core.EFONT, core.Code(err))
	assert.Contains(t, err.Error(), "Hello")
	assert.Contains(t, err.Error(), "/no/such/font.ttf")
	_, err = e.LineWidth("Hello", font.Spec{File: "goregular", Index: 5}, 12, 72, true)
	assert.Equal(t, core.EFONT, core.Code(err))
	_, _, err = e.Paragraph(singleString("wide", goRegular, 1))
	assert.Equal(t, core.EWRAP, core.Code(err))
}

func TestWrapErrorNamesFailingString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "measure")
	defer teardown()
	//
	e := testEngine(t)
	dot, err := e.LineWidth(".", goRegular, 12, 72, true)
	require.NoError(t, err)
	in := &Input{
		Strings:   []string{"MMM", "."},
		Fonts:     []font.Spec{goRegular},
		MaxWidths: []float64{dot + 0.5},
	}
	_, _, err = e.Paragraph(in)
	require.Error(t, err)
	assert.Equal(t, core.EWRAP, core.Code(err))
	assert.Contains(t, err.Error(), `"MMM"`)
	assert.NotContains(t, err.Error(), `"."`)
}

func TestLine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "measure")
	defer teardown()
	//
	e := testEngine(t)
	x, y, ids, err := e.Line("Hello", goRegular, 12, 72, 3)
	require.NoError(t, err)
	require.Len(t, x, 3)
	require.Len(t, ids, 3)
	assert.Equal(t, []float64{0, 0, 0}, y)
	assert.Equal(t, 0.0, x[0])
	assert.True(t, x[1] > 0 && x[2] > x[1])
	x, _, _, err = e.Line("Hello", goRegular, 12, 72, 100)
	require.NoError(t, err)
	assert.Len(t, x, 5)
}

func TestLineWidthWithoutBearings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "measure")
	defer teardown()
	//
	e := testEngine(t)
	with, err := e.LineWidth("HH", goRegular, 12, 72, true)
	require.NoError(t, err)
	without, err := e.LineWidth("HH", goRegular, 12, 72, false)
	require.NoError(t, err)
	assert.True(t, without < with, "expected 'H' to have side bearings")
}

func TestFeatureTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "measure")
	defer teardown()
	//
	e := testEngine(t)
	_, err := e.FeatureTags("goregular", 0)
	assert.NoError(t, err)
	_, err = e.FeatureTags("goregular", 3)
	assert.Equal(t, core.EFONT, core.Code(err))
	_, err = e.FeatureTags("/no/such/font.ttf", 0)
	assert.Equal(t, core.EFONT, core.Code(err))
}
