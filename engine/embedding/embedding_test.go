package embedding

import (
	"testing"

	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/dimen"
	"github.com/npillmayer/textshaping/core/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeEmbedding creates an embedding with n glyphs for clusters 0…n-1,
// in visual order.
func makeEmbedding(t *testing.T, level int, n int) *Embedding {
	e := New(level)
	e.AddFont(FontRef{Spec: font.Spec{File: "a.ttf"}, Size: 10, Scaling: -1})
	for c := 0; c < n; c++ {
		cluster := c
		if e.IsRTL() {
			cluster = n - 1 - c
		}
		err := e.Append(Glyph{ID: font.GlyphIndex(100 + cluster), Cluster: cluster, XAdvance: dimen.Dimen(cluster+1) * dimen.PX})
		require.NoError(t, err)
	}
	return e
}

func clusters(e *Embedding) []int {
	c := make([]int, e.Len())
	for i := range c {
		c[i] = e.Cluster(i)
	}
	return c
}

func TestAppendInvariant(t *testing.T) {
	e := makeEmbedding(t, 0, 3)
	assert.Equal(t, 3, e.Len())
	assert.Equal(t, 6*dimen.PX, e.Width())
	err := e.Append(Glyph{Font: 1})
	assert.Equal(t, core.EINTERNAL, core.Code(err))
	assert.Equal(t, 3, e.Len())
	g := e.Glyph(1)
	g.XAdvance = 10 * dimen.PX
	require.NoError(t, e.Set(1, g))
	assert.Equal(t, 14*dimen.PX, e.Width())
}

func TestMerge(t *testing.T) {
	a := makeEmbedding(t, 0, 2)
	b := makeEmbedding(t, 0, 2)
	b.SetFont(0, FontRef{Spec: font.Spec{File: "b.ttf"}, Size: 10})
	b.SetTerminates(true)
	require.NoError(t, a.Merge(b))
	assert.Equal(t, 4, a.Len())
	assert.Equal(t, 2, a.FontCount())
	assert.Equal(t, 1, a.Glyph(3).Font)
	assert.Equal(t, "b.ttf", a.Font(a.Glyph(3).Font).Spec.File)
	assert.True(t, a.Terminates())
	assert.Equal(t, 6*dimen.PX, a.Width())
	err := a.Merge(New(1))
	assert.Equal(t, core.EINTERNAL, core.Code(err))
}

func TestSplitLTR(t *testing.T) {
	e := makeEmbedding(t, 0, 5)
	e.SetTerminates(true)
	kept, removed := e.SplitAt(2)
	assert.Equal(t, []int{0, 1}, clusters(removed))
	assert.Equal(t, []int{2, 3, 4}, clusters(kept))
	assert.Equal(t, 3*dimen.PX, removed.Width())
	assert.Equal(t, 12*dimen.PX, kept.Width())
	assert.True(t, kept.Terminates())
	assert.False(t, removed.Terminates())
	assert.Equal(t, 5, e.Len(), "split must not alter the original embedding")
}

func TestSplitRTL(t *testing.T) {
	e := makeEmbedding(t, 1, 5)
	assert.Equal(t, []int{4, 3, 2, 1, 0}, clusters(e))
	kept, removed := e.SplitAt(2)
	assert.Equal(t, []int{1, 0}, clusters(removed), "logical head is at the end of the arrays")
	assert.Equal(t, []int{4, 3, 2}, clusters(kept))
	assert.Equal(t, []int{4, 3}, func() []int {
		var p []int
		for l := 0; l < 2; l++ {
			p = append(p, e.Visual(l))
		}
		return p
	}())
}

func TestPop(t *testing.T) {
	e := makeEmbedding(t, 0, 3)
	g, ok := e.PopFront()
	require.True(t, ok)
	assert.Equal(t, 0, g.Cluster)
	g, ok = e.PopBack()
	require.True(t, ok)
	assert.Equal(t, 2, g.Cluster)
	assert.Equal(t, []int{1}, clusters(e))
	assert.Equal(t, 2*dimen.PX, e.Width())
	e.PopBack()
	_, ok = e.PopFront()
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	e := makeEmbedding(t, 0, 3)
	c := e.Clone()
	g := c.Glyph(0)
	g.Cluster = 42
	require.NoError(t, c.Set(0, g))
	c.SetStringID(7)
	assert.Equal(t, 0, e.Cluster(0))
	assert.Equal(t, 0, e.Glyph(1).StringID)
	assert.Equal(t, 7, c.Glyph(1).StringID)
}

func TestMustBreakLogicalOrder(t *testing.T) {
	e := makeEmbedding(t, 1, 4)
	for i := 0; i < e.Len(); i++ {
		g := e.Glyph(i)
		g.MustBreak = g.Cluster == 1 || g.Cluster == 3
		require.NoError(t, e.Set(i, g))
	}
	pos := e.MustBreakAt()
	require.Len(t, pos, 2)
	assert.Equal(t, 1, e.Cluster(pos[0]))
	assert.Equal(t, 3, e.Cluster(pos[1]))
}

func TestRelevelKeepsVisualOrder(t *testing.T) {
	e := makeEmbedding(t, 1, 3)
	assert.Equal(t, []int{2, 1, 0}, clusters(e))
	e.Relevel(3)
	assert.Equal(t, []int{2, 1, 0}, clusters(e))
	e.Relevel(0)
	assert.False(t, e.IsRTL())
	assert.Equal(t, []int{0, 1, 2}, clusters(e))
	assert.Equal(t, 0, e.Cluster(e.Visual(0)))
	assert.Equal(t, 6*dimen.PX, e.Width())
}
