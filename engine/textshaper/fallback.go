package textshaper

import (
	"sort"

	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/dimen"
	"github.com/npillmayer/textshaping/core/font"
	"github.com/npillmayer/textshaping/engine/embedding"
	"github.com/npillmayer/textshaping/engine/glyphing"
)

// workItem is a range of code-points [from,to) of the paragraph, to be
// shaped with the font at index font.
type workItem struct {
	font     int
	from, to int
}

// shapeWithFallback shapes the code-points [from,to) of the paragraph, which
// are of equal bidi level. Characters the primary font has no glyphs for are
// re-shaped with fallback fonts. fonts[0] is the span's font, fonts[1] is an
// emoji font, if present. Emoji runs start with font 1.
func (sh *Shaper) shapeWithFallback(sp *span, from, to, level int, isEmoji bool,
	fonts []loadedFont) (*embedding.Embedding, error) {
	//
	fonts = fonts[:len(fonts):len(fonts)] // appending must not clobber the caller's fonts
	primary := 0
	if isEmoji {
		primary = 1
	}
	params := shapingParams(sp, level)
	charFont := make([]int, to-from)
	for i := range charFont {
		charFont[i] = primary
	}
	seq, err := sh.shape(from, to, fonts[primary].face, params)
	if err != nil {
		return nil, err
	}
	if needsMore, _ := sh.annotate(seq, from, to, charFont, from, primary+1); needsMore {
		fonts = sh.resolveFallbacks(sp, from, charFont, primary+1, fonts, params)
	}
	for i, f := range charFont {
		if f >= len(fonts) {
			charFont[i] = 0
		}
	}
	e := embedding.New(level)
	for _, f := range fonts {
		e.AddFont(f.ref)
	}
	runs := fontRuns(charFont, from)
	if len(runs) == 1 && runs[0].font == primary {
		return e, sh.appendGlyphs(e, seq, primary, fonts[primary], sp.tracking)
	}
	if level%2 == 1 { // glyphs are collected in visual order
		for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
			runs[i], runs[j] = runs[j], runs[i]
		}
	}
	for _, run := range runs {
		seq, err := sh.shape(run.from, run.to, fonts[run.font].face, params)
		if err != nil {
			return nil, err
		}
		if err = sh.appendGlyphs(e, seq, run.font, fonts[run.font], sp.tracking); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// resolveFallbacks works off ranges of characters lacking glyphs, trying
// one font after another. Fonts not already in use are requested from the
// fallback locator. The loop stops if no more fonts can be found or if a
// pass does not resolve any characters.
func (sh *Shaper) resolveFallbacks(sp *span, base int, charFont []int, first int,
	fonts []loadedFont, params glyphing.Params) []loadedFont {
	//
	queue := itemsForFont(fontRuns(charFont, base), first)
	for len(queue) > 0 {
		f := queue[0].font
		resolved := false
		if f >= len(fonts) {
			lf, ok := sh.loadFallback(sp, queue[0], fonts[0].ref.Spec)
			if !ok {
				break
			}
			fonts = append(fonts, lf)
		} else {
			resolved = true // font already in use
		}
		batch := queue
		queue = nil
		for _, item := range batch {
			seq, err := sh.shape(item.from, item.to, fonts[f].face, params)
			if err != nil {
				tracer().Infof("fallback font %s failed: %v", fonts[f].ref.Spec, err)
				continue
			}
			_, hit := sh.annotate(seq, item.from, item.to, charFont, base, f+1)
			resolved = resolved || hit
			runs := fontRuns(charFont[item.from-base:item.to-base], item.from)
			queue = append(queue, itemsForFont(runs, f+1)...)
		}
		if !resolved {
			break
		}
	}
	return fonts
}

func (sh *Shaper) loadFallback(sp *span, item workItem, primary font.Spec) (loadedFont, bool) {
	if sh.locator == nil {
		return loadedFont{}, false
	}
	sample := string(sh.text[item.from:item.to])
	spec, ok := sh.locator.Fallback(sample, primary)
	if !ok {
		tracer().Infof("no fallback font found for %q", sample)
		return loadedFont{}, false
	}
	ref, face, err := sh.fontRef(spec, sp.size)
	if err != nil {
		tracer().Infof("cannot load fallback font: %v", err)
		return loadedFont{}, false
	}
	tracer().Infof("using fallback font %s for %q", spec, sample)
	return loadedFont{ref: ref, face: face}, true
}

// annotate checks the clusters of a shaped range [from,to) for missing
// glyphs. Characters of clusters with missing glyphs are assigned font next.
// Clusters of line break characters never need a glyph.
// charFont[i] holds the font for paragraph position base+i.
func (sh *Shaper) annotate(seq glyphing.GlyphSequence, from, to int, charFont []int, base int,
	next int) (needsMore bool, anyResolved bool) {
	//
	missing := make(map[int]bool, len(seq.Glyphs))
	for _, g := range seq.Glyphs {
		if g.Cluster < from || g.Cluster >= to {
			continue
		}
		missing[g.Cluster] = missing[g.Cluster] || g.GID == font.NotDef
	}
	clusters := make([]int, 0, len(missing))
	for c := range missing {
		clusters = append(clusters, c)
	}
	sort.Ints(clusters)
	for k, c := range clusters {
		end := to
		if k+1 < len(clusters) {
			end = clusters[k+1]
		}
		if missing[c] && !IsLinebreak(sh.text[c]) {
			needsMore = true
			for j := c; j < end; j++ {
				charFont[j-base] = next
			}
		} else {
			anyResolved = true
		}
	}
	return
}

// fontRuns returns maximal runs of equal font.
func fontRuns(charFont []int, base int) []workItem {
	var runs []workItem
	for i := 0; i < len(charFont); {
		j := i + 1
		for j < len(charFont) && charFont[j] == charFont[i] {
			j++
		}
		runs = append(runs, workItem{font: charFont[i], from: base + i, to: base + j})
		i = j
	}
	return runs
}

func itemsForFont(runs []workItem, f int) []workItem {
	var items []workItem
	for _, run := range runs {
		if run.font == f {
			items = append(items, run)
		}
	}
	return items
}

func shapingParams(sp *span, level int) glyphing.Params {
	params := glyphing.Params{Direction: glyphing.LeftToRight, Features: sp.spec.Features}
	if level%2 == 1 {
		params.Direction = glyphing.RightToLeft
	}
	return params
}

func (sh *Shaper) shape(from, to int, face font.Face, params glyphing.Params) (glyphing.GlyphSequence, error) {
	seq, err := sh.backend.Shape(sh.text, from, to, face, params)
	if err != nil {
		return seq, core.WrapError(err, core.ESHAPE, "shaping failed for %s", face.Spec())
	}
	return seq, nil
}

// appendGlyphs appends shaped glyphs to e. Glyph metrics are scaled to the
// font's size and tracking is added to the advances.
func (sh *Shaper) appendGlyphs(e *embedding.Embedding, seq glyphing.GlyphSequence, fidx int,
	lf loadedFont, tracking float64) error {
	//
	s := lf.ref.Scale()
	m := lf.face.Metrics()
	asc, desc := m.Ascender.Scale(s), m.Descender.Scale(s)
	track := dimen.FromPixels(tracking * lf.ref.Size * sh.par.Resolution / 72 / 1000)
	for _, g := range seq.Glyphs {
		err := e.Append(embedding.Glyph{
			ID:        g.GID,
			Cluster:   g.Cluster,
			XAdvance:  g.XAdvance.Scale(s) + track,
			YAdvance:  g.YAdvance.Scale(s),
			XOffset:   g.XOffset.Scale(s),
			YOffset:   g.YOffset.Scale(s),
			XBearing:  g.Extents.XBearing.Scale(s),
			YBearing:  g.Extents.YBearing.Scale(s),
			Width:     g.Extents.Width.Scale(s),
			Height:    g.Extents.Height.Scale(s),
			Ascender:  asc,
			Descender: desc,
			Font:      fidx,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
