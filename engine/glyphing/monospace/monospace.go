package monospace

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/dimen"
	"github.com/npillmayer/textshaping/core/font"
	"github.com/npillmayer/textshaping/engine/glyphing"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax11"
)

type msshape struct {
	graphemeSplitter *segment.Segmenter
	context          *uax11.Context
}

// Shaper creates a shaper for monospace typesetting.
// If context is nil, widths will be calculated for a Latin context.
func Shaper(context *uax11.Context) glyphing.Shaper {
	sh := &msshape{
		context: context,
	}
	if context == nil {
		sh.context = uax11.LatinContext
	}
	onGraphemes := grapheme.NewBreaker(1)
	sh.graphemeSplitter = segment.NewSegmenter(onGraphemes)
	grapheme.SetupGraphemeClasses()
	return sh
}

// Shape creates a glyph sequence from a run of text.
// Features are ignored.
func (ms *msshape) Shape(text []rune, start, end int, face font.Face, p glyphing.Params) (glyphing.GlyphSequence, error) {
	if start >= end {
		return glyphing.GlyphSequence{}, nil
	}
	if face == nil {
		return glyphing.GlyphSequence{}, core.Error(core.ESHAPE, "monospace shaper needs a font face")
	}
	em := face.PPEm()
	m := face.Metrics()
	seq := glyphing.GlyphSequence{Glyphs: make([]glyphing.ShapedGlyph, 0, end-start)}
	ms.graphemeSplitter.Init(strings.NewReader(string(text[start:end])))
	pos := start
	for ms.graphemeSplitter.Next() {
		grphm := ms.graphemeSplitter.Bytes()
		codepoint, _ := utf8.DecodeRune(grphm)
		w := uax11.Width(grphm, ms.context)
		if unicode.IsControl(codepoint) {
			w = 0
		}
		gid, ok := face.GlyphIndex(codepoint)
		if !ok {
			gid = font.NotDef
		}
		g := glyphing.ShapedGlyph{
			GID:      gid,
			Cluster:  pos,
			XAdvance: dimen.Dimen(w) * em,
		}
		if !unicode.IsSpace(codepoint) && w > 0 {
			g.Extents = glyphing.Extents{
				Width:    g.XAdvance,
				YBearing: m.Ascender,
				Height:   -m.Ascender,
			}
		}
		seq.Glyphs = append(seq.Glyphs, g)
		seq.W += g.XAdvance
		pos += utf8.RuneCount(grphm)
	}
	if p.Direction == glyphing.RightToLeft { // glyphs are returned in visual order
		for i, j := 0, len(seq.Glyphs)-1; i < j; i, j = i+1, j-1 {
			seq.Glyphs[i], seq.Glyphs[j] = seq.Glyphs[j], seq.Glyphs[i]
		}
	}
	tracer().Debugf("monospace shaper created %d glyphs for %d code-points", len(seq.Glyphs), end-start)
	return seq, nil
}
