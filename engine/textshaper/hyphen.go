package textshaper

import (
	"github.com/npillmayer/textshaping/core/dimen"
	"github.com/npillmayer/textshaping/core/font"
	"github.com/npillmayer/textshaping/engine/embedding"
	"github.com/npillmayer/textshaping/engine/glyphing"
)

// hyphenate makes a soft hyphen visible if a line has been broken at it.
// e is the part of an embedding before the break.
func (sh *Shaper) hyphenate(e *embedding.Embedding) {
	if e.Len() == 0 {
		return
	}
	i := e.Visual(e.Len() - 1)
	g := e.Glyph(i)
	if !g.MayBreak || g.Cluster < 0 || g.Cluster >= len(sh.text) || sh.text[g.Cluster] != softHyphen {
		return
	}
	sh.insertHyphen(e, i)
}

// insertHyphen replaces glyph i of e by a hyphen glyph of the same font,
// either U+2010 HYPHEN or U+002D HYPHEN-MINUS. Kerning between the
// preceding character and the hyphen is applied as an x offset.
func (sh *Shaper) insertHyphen(e *embedding.Embedding, i int) {
	g := e.Glyph(i)
	ref := e.Font(g.Font)
	if ref.Spec.File == "" { // spacer
		return
	}
	face, err := sh.source.Face(ref.Spec, ref.Size, sh.par.Resolution)
	if err != nil {
		tracer().Infof("cannot insert hyphen: %v", err)
		return
	}
	hyphen := rune(0x2010)
	if _, ok := face.GlyphIndex(hyphen); !ok {
		hyphen = '-'
		if _, ok := face.GlyphIndex(hyphen); !ok {
			tracer().Debugf("font %s has no hyphen glyph", ref.Spec)
			return
		}
	}
	params := glyphing.Params{Direction: glyphing.LeftToRight, Features: ref.Spec.Features}
	if e.IsRTL() {
		params.Direction = glyphing.RightToLeft
	}
	hseq, err := sh.backend.Shape([]rune{hyphen}, 0, 1, face, params)
	if err != nil || len(hseq.Glyphs) == 0 {
		tracer().Infof("cannot shape hyphen: %v", err)
		return
	}
	var kern dimen.Dimen
	if g.Cluster > 0 {
		prev := sh.text[g.Cluster-1]
		pair, err1 := sh.backend.Shape([]rune{prev, hyphen}, 0, 2, face, params)
		single, err2 := sh.backend.Shape([]rune{prev}, 0, 1, face, params)
		if err1 == nil && err2 == nil {
			kern = pair.W - single.W - hseq.W
		}
	}
	h := hseq.Glyphs[0]
	if h.GID == font.NotDef {
		return
	}
	s := ref.Scale()
	g.ID = h.GID
	g.XAdvance = h.XAdvance.Scale(s)
	g.XOffset = kern.Scale(s)
	g.YOffset = 0
	g.XBearing = h.Extents.XBearing.Scale(s)
	g.YBearing = h.Extents.YBearing.Scale(s)
	g.Width = h.Extents.Width.Scale(s)
	g.Height = h.Extents.Height.Scale(s)
	_ = e.Set(i, g) // font index is unchanged
	tracer().Debugf("inserted hyphen %U after cluster %d", hyphen, g.Cluster)
}
