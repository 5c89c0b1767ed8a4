package textshaper

import (
	"github.com/npillmayer/textshaping/core/dimen"
)

// Alignment is the horizontal alignment of the lines of a paragraph.
type Alignment int

// Alignments. AlignAuto and JustifyAuto depend on the paragraph's
// direction: they align to the start of lines for left-to-right text and to
// the end for right-to-left text.
const (
	AlignStart    Alignment = iota // lines start at the left edge
	AlignCenter                    // lines are centered
	AlignEnd                       // lines end at the right edge
	JustifyStart                   // justified, last line aligned to start
	JustifyCenter                  // justified, last line centered
	JustifyEnd                     // justified, last line aligned to end
	Distribute                     // glyphs are spread over the full width
	AlignAuto
	JustifyAuto
)

// Valid is true for the alignments defined above.
func (a Alignment) Valid() bool {
	return a >= AlignStart && a <= JustifyAuto
}

func (a Alignment) resolve(ltr bool) Alignment {
	switch a {
	case AlignAuto:
		if ltr {
			return AlignStart
		}
		return AlignEnd
	case JustifyAuto:
		if ltr {
			return JustifyStart
		}
		return JustifyEnd
	}
	return a
}

// justify moves glyphs horizontally according to the alignment of the
// paragraph. glyphs are in line order.
func justify(glyphs []GlyphRecord, stats []lineStats, align Alignment, box *BoxMetrics) {
	width := box.Width
	lastLine := &stats[len(stats)-1]
	switch align {
	case AlignCenter, AlignEnd:
		for i := range glyphs {
			glyphs[i].X += shift(align, width, stats[glyphs[i].Line].width)
		}
		box.PenX += shift(align, width, lastLine.width)
	case JustifyStart, JustifyCenter, JustifyEnd:
		for i, g := range glyphs {
			if g.MustBreak {
				stats[g.Line].noStretch = true
			}
			if g.MayStretch && i+1 < len(glyphs) && glyphs[i+1].Line == g.Line {
				stats[g.Line].stretches++
			}
		}
		var cum dimen.Dimen
		for i := range glyphs {
			st := &stats[glyphs[i].Line]
			if st.noStretch || st.stretches == 0 {
				glyphs[i].X += shift(align, width, st.width)
				continue
			}
			if i == 0 || glyphs[i-1].Line != glyphs[i].Line {
				cum = 0
			}
			glyphs[i].X += cum
			if glyphs[i].MayStretch {
				cum += (width - st.width) / dimen.Dimen(st.stretches)
			}
		}
		box.PenX += shift(align, width, lastLine.width)
		for i := range stats {
			if !stats[i].noStretch && stats[i].stretches > 0 {
				stats[i].width = width
			}
		}
	case Distribute:
		counts := make([]int, len(stats))
		for _, g := range glyphs {
			if !g.MustBreak {
				counts[g.Line]++
			}
		}
		var cum dimen.Dimen
		for i := range glyphs {
			line := glyphs[i].Line
			if i == 0 || glyphs[i-1].Line != line {
				cum = 0
			}
			glyphs[i].X += cum
			if counts[line] > 1 {
				cum += (width - stats[line].width) / dimen.Dimen(counts[line]-1)
			}
		}
		box.PenX += cum
		for i := range stats {
			if counts[i] > 0 {
				stats[i].width = width
			}
		}
	}
}

// shift returns the horizontal offset of a line of width w for lines which
// are not stretched.
func shift(align Alignment, width, w dimen.Dimen) dimen.Dimen {
	switch align {
	case AlignCenter, JustifyCenter:
		return width/2 - w/2
	case AlignEnd, JustifyEnd:
		return width - w
	}
	return 0
}
