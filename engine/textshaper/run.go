package textshaper

import (
	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/dimen"
	"github.com/npillmayer/textshaping/core/font"
	"github.com/npillmayer/textshaping/engine/embedding"
)

// SpacerGlyph is the glyph index used for spacer boxes.
const SpacerGlyph font.GlyphIndex = 0

// span is a string or a spacer within the paragraph text.
type span struct {
	start, end int // range of code-points in the paragraph
	spec       font.Spec
	size       float64 // in points
	tracking   float64 // in 1/1000 em
	spacer     bool
	spacerW    float64
	spacerH    float64
	index      int // position within the paragraph's list of spans
}

func (sp *span) String() string {
	return sp.spec.File
}

// shapeKey identifies a shaped span in the cache. Spans with identical text
// and bidi levels, shaped in the same font at the same size, produce
// identical glyphs.
type shapeKey struct {
	text     uint64
	levels   uint64
	n        int
	file     string
	index    int
	size     float64 // size × resolution
	tracking float64
}

// shapeSpan returns the embeddings for a span, with clusters relative to the
// paragraph and break flags set.
func (sh *Shaper) shapeSpan(sp *span) ([]*embedding.Embedding, error) {
	if sp.spacer {
		return []*embedding.Embedding{sh.spacer(sp)}, nil
	}
	if sp.start == sp.end {
		return sh.emptySpan(sp)
	}
	text := sh.text[sp.start:sp.end]
	key := shapeKey{
		text:     hashRunes(text),
		levels:   hashLevels(sh.levels[sp.start:sp.end]),
		n:        len(text),
		file:     sp.spec.File,
		index:    sp.spec.Index,
		size:     sp.size * sh.par.Resolution,
		tracking: sp.tracking,
	}
	cacheable := !sp.spec.HasFeatures()
	if cacheable {
		if templates, ok := sh.shapeCache.Get(key); ok {
			sh.stats.ShapeHits++
			return sh.rebase(templates, sp), nil
		}
	}
	sh.stats.ShapeMisses++
	templates, err := sh.shapeText(sp)
	if err != nil {
		return nil, core.WrapError(err, core.Code(err), "cannot shape string %q with font file %s",
			string(text), sp.spec.File)
	}
	if cacheable {
		stored := make([]*embedding.Embedding, len(templates))
		for i, t := range templates {
			stored[i] = t.Clone()
		}
		if sh.shapeCache.Put(key, stored) {
			sh.stats.Evictions++
			tracer().Infof("shape cache full, evicted least recently used entry")
		}
	}
	return sh.rebase(templates, sp), nil
}

// shapeText shapes the text of a span. Clusters of the resulting embeddings
// are relative to the span and break flags are unset.
func (sh *Shaper) shapeText(sp *span) ([]*embedding.Embedding, error) {
	text := sh.text[sp.start:sp.end]
	ref, face, err := sh.fontRef(sp.spec, sp.size)
	if err != nil {
		return nil, err
	}
	fonts := []loadedFont{{ref: ref, face: face}}
	// levels of emoji characters are marked as −(level+1)
	levels := append([]int(nil), sh.levels[sp.start:sp.end]...)
	if sh.emoji && sh.locator != nil && mayContainEmoji(text) {
		covered := func(r rune) bool {
			_, ok := face.GlyphIndex(r)
			return ok
		}
		if mask, found := emojiMask(text, covered); found {
			if lf, ok := sh.loadEmojiFont(sp); ok {
				fonts = append(fonts, lf)
				for i, m := range mask {
					if m {
						levels[i] = -(levels[i] + 1)
					}
				}
			}
		}
	}
	var pieces []*embedding.Embedding
	for from := 0; from < len(levels); {
		to := from + 1
		for to < len(levels) && levels[to] == levels[from] {
			to++
		}
		level, isEmoji := levels[from], false
		if level < 0 {
			level, isEmoji = -level-1, true
		}
		e, err := sh.shapeWithFallback(sp, sp.start+from, sp.start+to, level, isEmoji, fonts)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, e)
		from = to
	}
	for _, e := range pieces {
		for i := 0; i < e.Len(); i++ {
			g := e.Glyph(i)
			g.Cluster -= sp.start
			if err := e.Set(i, g); err != nil {
				return nil, err
			}
		}
	}
	tracer().Debugf("shaped string #%d into %d embedding(s)", sp.index, len(pieces))
	return pieces, nil
}

// rebase copies shaped templates of a span, moves clusters to paragraph
// positions and sets the break flags from the paragraph's break sets.
func (sh *Shaper) rebase(templates []*embedding.Embedding, sp *span) []*embedding.Embedding {
	out := make([]*embedding.Embedding, len(templates))
	for k, t := range templates {
		e := t.Clone()
		for i := 0; i < e.Len(); i++ {
			g := e.Glyph(i)
			g.Cluster += sp.start
			g.StringID = sp.index
			if g.Cluster >= 0 && g.Cluster < len(sh.text) {
				r := sh.text[g.Cluster]
				g.Blank = isBlank(r)
				g.MayStretch = isStretchable(r)
			}
			g.MayBreak = sh.soft.contains(g.Cluster)
			g.MustBreak = sh.hard.contains(g.Cluster)
			_ = e.Set(i, g) // font index is unchanged
		}
		out[k] = e
	}
	return out
}

// emptySpan creates a glyph-less embedding which contributes the vertical
// extents of its font to a line.
func (sh *Shaper) emptySpan(sp *span) ([]*embedding.Embedding, error) {
	ref, face, err := sh.fontRef(sp.spec, sp.size)
	if err != nil {
		return nil, err
	}
	e := embedding.New(paragraphLevel(sh.dir))
	e.AddFont(ref)
	m, s := face.Metrics(), ref.Scale()
	e.SetBaseExtents(m.Ascender.Scale(s), m.Descender.Scale(s))
	return []*embedding.Embedding{e}, nil
}

// spacer creates an embedding with a single empty glyph.
func (sh *Shaper) spacer(sp *span) *embedding.Embedding {
	width := dimen.FromPixels(sp.spacerW / 72)
	asc := dimen.FromPixels(sp.spacerH * sh.par.Resolution / 72)
	if ref, face, err := sh.fontRef(sp.spec, sp.spacerH); err == nil {
		asc = face.Metrics().Ascender.Scale(ref.Scale())
	} else {
		tracer().Debugf("spacer uses its height as ascender: %v", err)
	}
	e := embedding.New(paragraphLevel(sh.dir))
	fidx := e.AddFont(embedding.FontRef{Size: sp.spacerH, Scaling: -1})
	_ = e.Append(embedding.Glyph{
		ID:       SpacerGlyph,
		Cluster:  sp.start,
		StringID: sp.index,
		XAdvance: width,
		YBearing: asc,
		Width:    width,
		Height:   -asc,
		Ascender: asc,
		Font:     fidx,
	})
	return e
}

// --- Fonts -----------------------------------------------------------------

// loadedFont is a font in use for shaping a span.
type loadedFont struct {
	ref  embedding.FontRef
	face font.Face
}

// Size corrections for emoji fonts, the glyphs of which are drawn smaller
// than the em size.
var familyScaling = map[string]float64{
	"Apple Color Emoji": 1.3,
	"Noto Color Emoji":  1.175,
}

// fontRef loads a face for spec and calculates the scale factor to apply to
// its glyph metrics. Bitmap fonts are scaled to match the requested size.
func (sh *Shaper) fontRef(spec font.Spec, size float64) (embedding.FontRef, font.Face, error) {
	face, err := sh.source.Face(spec, size, sh.par.Resolution)
	if err != nil {
		return embedding.FontRef{}, nil, core.WrapError(err, core.EFONT, "cannot load font %s", spec)
	}
	ref := embedding.FontRef{Spec: spec, Size: size, Scaling: -1}
	if !face.Scalable() {
		if h := face.Metrics().Height(); h > 0 {
			ref.Scaling = float64(dimen.FromPoints(size, sh.par.Resolution)) / float64(h)
		}
	}
	if corr, ok := familyScaling[face.Family()]; ok {
		ref.Scaling *= corr
		ref.Size *= corr
	}
	return ref, face, nil
}

func (sh *Shaper) loadEmojiFont(sp *span) (loadedFont, bool) {
	spec, ok := sh.locator.EmojiFont()
	if !ok {
		return loadedFont{}, false
	}
	ref, face, err := sh.fontRef(spec, sp.size)
	if err != nil {
		tracer().Infof("cannot use emoji font: %v", err)
		return loadedFont{}, false
	}
	return loadedFont{ref: ref, face: face}, true
}
