package textshaper

import (
	"fmt"

	"github.com/npillmayer/textshaping/core/dimen"
	"github.com/npillmayer/textshaping/core/font"
	"github.com/npillmayer/textshaping/engine/embedding"
)

// GlyphRecord is a positioned glyph of a paragraph. Positions are relative
// to the anchor of the paragraph's box, with y growing upwards.
type GlyphRecord struct {
	ID         font.GlyphIndex
	Cluster    int // position of the glyph's first code-point within its string; −1 for spacers
	StringID   int // index of the string within the paragraph
	Line       int // index of the line
	X, Y       dimen.Dimen
	Font       embedding.FontRef
	Advance    dimen.Dimen
	XBearing   dimen.Dimen
	Width      dimen.Dimen
	Ascender   dimen.Dimen
	Descender  dimen.Dimen
	MustBreak  bool
	MayStretch bool
	blank      bool
	mayBreak   bool
}

func (g GlyphRecord) String() string {
	return fmt.Sprintf("%d@%d/%d (%s,%s)", g.ID, g.StringID, g.Cluster, g.X, g.Y)
}

// BoxMetrics describes the box of a laid out paragraph.
type BoxMetrics struct {
	Width, Height             dimen.Dimen
	LeftBearing, RightBearing dimen.Dimen // ink distance from the box' left and right edge
	TopBearing, BottomBearing dimen.Dimen // ink distance from the box' top and bottom edge
	LeftBorder, TopBorder     dimen.Dimen // position of the box' left and top edge
	PenX, PenY                dimen.Dimen // pen position after the last glyph
}

// Layout is the result of laying out a paragraph.
type Layout struct {
	Glyphs    []GlyphRecord // in visual order, line by line
	Box       BoxMetrics
	Lines     int
	Direction Direction // resolved direction of the paragraph
}

// lineStats are measures of a single line.
type lineStats struct {
	width                     dimen.Dimen
	leftBearing, rightBearing dimen.Dimen
	stretches                 int
	noStretch                 bool
}

// layout positions the glyphs of rearranged lines and calculates the
// metrics of the paragraph's box.
func (sh *Shaper) layout(lines []line) *Layout {
	out := &Layout{Direction: sh.dir, Lines: len(lines)}
	if len(sh.spans) == 0 {
		return out
	}
	par := sh.par
	ltr := sh.dir != RightToLeft
	stats := make([]lineStats, len(lines))
	box := &out.Box
	var penX, penY dimen.Dimen
	var asc, desc, top, bottom, prevDesc dimen.Dimen
	afterHard := true
	for li, ln := range lines {
		last := li == len(lines)-1
		indent := par.Hanging
		if afterHard {
			indent = par.Indent
		}
		asc, desc, top, bottom = 0, 0, 0, 0
		first := len(out.Glyphs)
		var pens []dimen.Dimen
		x := indent
		if !ltr {
			x = 0
		}
		for _, e := range ln.embeddings {
			ba, bd := e.BaseExtents()
			asc, desc = dimen.Max(asc, ba), dimen.Min(desc, bd)
			for i := 0; i < e.Len(); i++ {
				g := e.Glyph(i)
				rec := GlyphRecord{
					ID:         g.ID,
					Cluster:    g.Cluster,
					StringID:   g.StringID,
					Line:       li,
					X:          x + g.XOffset,
					Y:          penY + g.YOffset,
					Font:       e.Font(g.Font),
					Advance:    g.XAdvance,
					XBearing:   g.XBearing,
					Width:      g.Width,
					Ascender:   g.Ascender,
					Descender:  g.Descender,
					MustBreak:  g.MustBreak,
					MayStretch: g.MayStretch,
					blank:      g.Blank,
					mayBreak:   g.MayBreak,
				}
				if sp := sh.spans[g.StringID]; sp.spacer {
					rec.Cluster = -1
				} else {
					rec.Cluster -= sp.start
				}
				out.Glyphs = append(out.Glyphs, rec)
				pens = append(pens, x)
				x += g.XAdvance
				asc, desc = dimen.Max(asc, g.Ascender), dimen.Min(desc, g.Descender)
				top, bottom = dimen.Max(top, g.YBearing), dimen.Min(bottom, g.YBearing+g.Height)
			}
		}
		recs := out.Glyphs[first:]
		st := &stats[li]
		lo, hi := -1, -1
		for i, rec := range recs {
			if !rec.blank {
				if lo < 0 {
					lo = i
				}
				hi = i
			}
		}
		for _, rec := range recs {
			st.leftBearing = rec.XBearing
			if !rec.mayBreak {
				break
			}
		}
		if !ltr {
			penX = 0
		}
		if hi >= 0 {
			st.rightBearing = recs[hi].Advance - recs[hi].XBearing - recs[hi].Width
			if ltr {
				st.width = pens[hi] + recs[hi].Advance
			} else {
				lead := pens[lo]
				for i := range recs {
					recs[i].X -= lead
				}
				st.width = x - lead + indent
				penX = -lead
			}
		}
		if ltr {
			penX = x
		}
		// vertical placement
		if li == 0 {
			box.TopBorder = asc + par.SpaceBefore
			box.TopBearing = box.TopBorder - top
		} else {
			lh := (asc - prevDesc).Scale(par.LineHeight)
			for i := range recs {
				recs[i].Y -= lh
			}
			penY -= lh
		}
		if ln.hard {
			penY -= par.SpaceAfter
			if !last {
				penY -= par.SpaceBefore
			}
		}
		prevDesc = desc
		if last && ln.hard { // a trailing mandatory break opens an empty line
			penY -= (asc - desc).Scale(par.LineHeight) + par.SpaceBefore
			bottom = 0
			penX = 0
		}
		st.noStretch = last || ln.hard
		afterHard = ln.hard
	}
	lineBottom := penY + desc - par.SpaceAfter
	box.Height = box.TopBorder - lineBottom
	box.BottomBearing = bottom - desc + par.SpaceAfter
	widest := 0
	for i, st := range stats {
		if st.width > stats[widest].width {
			widest = i
		}
	}
	box.Width = stats[widest].width
	if par.MaxWidth >= 0 {
		box.Width = par.MaxWidth
	}
	box.PenX, box.PenY = penX, penY
	align := par.Align.resolve(ltr)
	justify(out.Glyphs, stats, align, box)
	sh.bearings(stats, widest, align, box)
	// shift the box to its anchor
	box.LeftBorder = -box.Width.Scale(par.HJust)
	dy := -lineBottom - box.Height.Scale(par.VJust)
	for i := range out.Glyphs {
		out.Glyphs[i].X += box.LeftBorder
		out.Glyphs[i].Y += dy
	}
	box.PenX += box.LeftBorder
	box.TopBorder += dy
	box.PenY += dy
	tracer().Debugf("paragraph box %s × %s, %d line(s)", box.Width, box.Height, len(lines))
	return out
}

// bearings calculates the horizontal bearings of the box. Depending on the
// alignment, these are either the minimum over all lines or the bearings of
// the widest line plus its distance to the box' edge.
func (sh *Shaper) bearings(stats []lineStats, widest int, align Alignment, box *BoxMetrics) {
	diff := box.Width - stats[widest].width
	if align == AlignCenter {
		diff /= 2
	}
	minLeft, minRight := stats[0].leftBearing, stats[0].rightBearing
	for _, st := range stats[1:] {
		minLeft = dimen.Min(minLeft, st.leftBearing)
		minRight = dimen.Min(minRight, st.rightBearing)
	}
	switch align {
	case AlignStart, JustifyStart, JustifyEnd:
		box.LeftBearing = minLeft
	default:
		box.LeftBearing = stats[widest].leftBearing + diff
	}
	switch align {
	case AlignEnd, JustifyCenter, JustifyEnd:
		box.RightBearing = minRight
	default:
		box.RightBearing = stats[widest].rightBearing + diff
	}
}
