package textshaper

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textshaping/core/dimen"
	"github.com/npillmayer/textshaping/engine/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDirection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textshaper")
	defer teardown()
	//
	assert.Equal(t, LeftToRight, detectDirection([]rune("123 abc")))
	assert.Equal(t, RightToLeft, detectDirection([]rune("123 אבג abc")))
	assert.Equal(t, LeftToRight, detectDirection([]rune("123 ...")))
}

func TestEmbeddingLevels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textshaper")
	defer teardown()
	//
	levels, dir := embeddingLevels([]rune("ab אב cd"), Auto)
	assert.Equal(t, LeftToRight, dir)
	assert.Equal(t, []int{0, 0, 0, 1, 1, 0, 0, 0}, levels)
	levels, dir = embeddingLevels([]rune("אב cd"), Auto)
	assert.Equal(t, RightToLeft, dir)
	assert.Equal(t, []int{1, 1, 1, 2, 2}, levels)
}

func TestBidiTrivialText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textshaper")
	defer teardown()
	//
	sh := testShaper()
	levels, dir := sh.resolveBidi([]rune("א"), RightToLeft)
	assert.Equal(t, []int{0}, levels)
	assert.Equal(t, RightToLeft, dir)
	assert.Equal(t, 0, sh.CacheStats().BidiMisses)
}

func TestBidiCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textshaper")
	defer teardown()
	//
	sh := testShaper()
	l1, d1 := sh.resolveBidi([]rune("abc אבג"), Auto)
	l1[0] = 99 // callers get copies
	l2, d2 := sh.resolveBidi([]rune("abc אבג"), Auto)
	assert.Equal(t, d1, d2)
	assert.Equal(t, 0, l2[0])
	assert.Equal(t, 1, sh.CacheStats().BidiHits)
	sh.resolveBidi([]rune("abc אבג"), RightToLeft)
	assert.Equal(t, 2, sh.CacheStats().BidiMisses)
}

func TestRearrange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textshaper")
	defer teardown()
	//
	for _, test := range []struct {
		levels []int
		order  []int
	}{
		{[]int{0, 1, 1, 0}, []int{0, 2, 1, 3}},
		{[]int{0, 1, 2, 1, 0}, []int{0, 3, 2, 1, 4}},
		{[]int{1, 2, 2, 1}, []int{3, 1, 2, 0}},
		{[]int{2, 2}, []int{0, 1}},
		{[]int{0, 2, 0}, []int{0, 1, 2}},
	} {
		line := make([]*embedding.Embedding, len(test.levels))
		for i, l := range test.levels {
			line[i] = embedding.New(l)
			line[i].AddFont(embedding.FontRef{})
			require.NoError(t, line[i].Append(embedding.Glyph{Cluster: i}))
		}
		rearrange(line)
		order := make([]int, len(line))
		for i, e := range line {
			order[i] = e.Cluster(0)
		}
		assert.Equal(t, test.order, order, "levels %v", test.levels)
	}
}

func TestBidiRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textshaper")
	defer teardown()
	//
	par := DefaultParagraph()
	par.Direction = RightToLeft
	layout := layoutText(t, testShaper(), par, "אבג דהו", every)
	require.Len(t, layout.Glyphs, 7)
	assert.Equal(t, RightToLeft, layout.Direction)
	logical := clusters(layout.Glyphs)
	for i, j := 0, len(logical)-1; i < j; i, j = i+1, j-1 {
		logical[i], logical[j] = logical[j], logical[i]
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, logical)
	assert.Equal(t, 70*dimen.PX, layout.Box.Width)
	assert.Equal(t, dimen.Dimen(0), layout.Glyphs[0].X)
}

func TestMixedDirections(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textshaper")
	defer teardown()
	//
	layout := layoutText(t, testShaper(), DefaultParagraph(), "abc אבג def", every)
	assert.Equal(t, []int{0, 1, 2, 3, 6, 5, 4, 7, 8, 9, 10}, clusters(layout.Glyphs))
	for i, g := range layout.Glyphs {
		assert.Equal(t, dimen.Dimen(i)*10*dimen.PX, g.X)
	}
}

func TestRightToLeftWrapping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textshaper")
	defer teardown()
	//
	par := wrapped(45 * dimen.PX)
	par.Direction = RightToLeft
	par.Align = AlignAuto
	layout := layoutText(t, testShaper(), par, "אב גד", every)
	require.Equal(t, 2, layout.Lines)
	// first line holds the logical start, trailing space is trimmed
	var first []int
	for _, g := range layout.Glyphs {
		if g.Line == 0 {
			first = append(first, g.Cluster)
		}
	}
	assert.Equal(t, []int{2, 1, 0}, first)
	assert.Equal(t, 45*dimen.PX, layout.Glyphs[2].X+layout.Glyphs[2].Advance)
}

func TestNestedEmbeddingLevels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textshaper")
	defer teardown()
	//
	for _, test := range []struct {
		text   string
		dir    Direction
		levels []int
	}{
		{"abc אבג 123 דהו", LeftToRight, []int{0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 1, 1, 1, 1}},
		{"abc אבג 123 דהו", RightToLeft, []int{2, 2, 2, 1, 1, 1, 1, 1, 2, 2, 2, 1, 1, 1, 1}},
		{"abc 123 אבג", RightToLeft, []int{2, 2, 2, 2, 2, 2, 2, 1, 1, 1, 1}},
		{"אבג 123", LeftToRight, []int{1, 1, 1, 1, 2, 2, 2}},
	} {
		levels, dir := embeddingLevels([]rune(test.text), test.dir)
		assert.Equal(t, test.dir, dir)
		assert.Equal(t, test.levels, levels, "%q, %s", test.text, test.dir)
	}
}

func TestNumbersInRightToLeftText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textshaper")
	defer teardown()
	//
	for _, test := range []struct {
		dir    Direction
		visual []int
	}{
		{LeftToRight, []int{0, 1, 2, 3, 14, 13, 12, 11, 8, 9, 10, 7, 6, 5, 4}},
		{RightToLeft, []int{14, 13, 12, 11, 8, 9, 10, 7, 6, 5, 4, 3, 0, 1, 2}},
	} {
		par := DefaultParagraph()
		par.Direction = test.dir
		layout := layoutText(t, testShaper(), par, "abc אבג 123 דהו", every)
		assert.Equal(t, test.visual, clusters(layout.Glyphs), "direction %s", test.dir)
		assert.Equal(t, 150*dimen.PX, layout.Box.Width)
	}
}

// lineClusters returns the clusters of a line in visual order.
func lineClusters(layout *Layout, li int) []int {
	var c []int
	for _, g := range layout.Glyphs {
		if g.Line == li {
			c = append(c, g.Cluster)
		}
	}
	return c
}

func TestLineEndWhitespaceInRightToLeftParagraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textshaper")
	defer teardown()
	//
	par := wrapped(75 * dimen.PX)
	par.Direction = RightToLeft
	layout := layoutText(t, testShaper(), par, "אבג abc def דהו", every)
	require.Equal(t, 2, layout.Lines)
	// the break blank is moved to the far (left) end of the line
	assert.Equal(t, []int{7, 4, 5, 6, 3, 2, 1, 0}, lineClusters(layout, 0))
	assert.Equal(t, []int{14, 13, 12, 11, 8, 9, 10}, lineClusters(layout, 1))
	left, right := 75*dimen.PX, dimen.Dimen(0)
	for _, g := range layout.Glyphs {
		if g.blank {
			continue
		}
		assert.GreaterOrEqual(t, int(g.X), 0, "glyph %v", g)
		assert.LessOrEqual(t, int(g.X+g.Advance), int(75*dimen.PX), "glyph %v", g)
		if g.Line == 0 {
			left, right = dimen.Min(left, g.X), dimen.Max(right, g.X+g.Advance)
		}
	}
	assert.Equal(t, 70*dimen.PX, right-left)
	assert.GreaterOrEqual(t, int(layout.Box.RightBearing), 0)
}

func TestLineEndWhitespaceInLeftToRightParagraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textshaper")
	defer teardown()
	//
	layout := layoutText(t, testShaper(), wrapped(55*dimen.PX), "ab אבג דהו ef", every)
	require.Equal(t, 4, layout.Lines)
	assert.Equal(t, []int{0, 1, 2}, lineClusters(layout, 0))
	assert.Equal(t, []int{5, 4, 3, 6}, lineClusters(layout, 1))
	assert.Equal(t, []int{9, 8, 7, 10}, lineClusters(layout, 2))
	assert.Equal(t, []int{11, 12}, lineClusters(layout, 3))
	for _, g := range layout.Glyphs {
		if g.Line == 1 && g.Cluster == 5 {
			assert.Equal(t, dimen.Dimen(0), g.X, "RTL word expected to start the line")
		}
	}
}
