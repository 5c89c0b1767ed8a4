package glyphing

import (
	"fmt"

	"github.com/npillmayer/textshaping/core/dimen"
	"github.com/npillmayer/textshaping/core/font"
	"golang.org/x/text/language"
)

// Direction is the direction to typeset text in.
type Direction int

// Direction to typeset text in.
//
//go:generate stringer -type=Direction
const (
	LeftToRight Direction = iota
	RightToLeft           = 1
	TopToBottom           = 2 // not supported by the layout engine
	BottomToTop           = 3 // not supported by the layout engine
)

// IsRTL is true for right-to-left text.
func (d Direction) IsRTL() bool {
	return d == RightToLeft
}

// Extents is the ink box of a glyph, relative to the glyph's origin (with
// offsets applied). YBearing is typically positive, Height negative.
type Extents struct {
	XBearing, YBearing dimen.Dimen
	Width, Height      dimen.Dimen
}

// A ShapedGlyph is a positioned glyph, as produced by a shaper. All values are
// in pixels (26.6) at the size of the face used for shaping.
type ShapedGlyph struct {
	GID      font.GlyphIndex // glyph index within font
	Cluster  int             // position of code-point(s) for this glyph in the input text
	XAdvance dimen.Dimen     // advance after glyph has been set
	YAdvance dimen.Dimen     //
	XOffset  dimen.Dimen     // position of anchor dot for glyph
	YOffset  dimen.Dimen     //
	Extents  Extents         // ink box
}

func (g ShapedGlyph) String() string {
	return fmt.Sprintf("(GID=%d, cluster=%d, advance=%s)", g.GID, g.Cluster, g.XAdvance)
}

// A Shaper creates a sequence of glyphs from a sequence of
// Unicode code-points. Glyphs are taken from a font face, given in a specific size.
//
// Shape shapes text[start:end]. The complete text serves as context for
// the shaper. Cluster values of the resulting glyphs index into text.
// Glyphs are returned in visual order, i.e. for right-to-left text the
// first glyph will belong to the last code-point of the run.
//
type Shaper interface {
	Shape(text []rune, start, end int, face font.Face, params Params) (GlyphSequence, error)
}

// Params collects shaping parameters.
type Params struct {
	Direction Direction       // writing direction
	Script    language.Script // 4-letter ISO 15924 script identifier; zero value lets the shaper guess
	Language  language.Tag    // BCP 47 language tag
	Features  []font.Feature  // OpenType features to apply to the whole run
}

// GlyphSequence contains a sequence of shaped glyphs.
type GlyphSequence struct {
	Glyphs []ShapedGlyph // resulting sequence of glyphs
	W      dimen.Dimen   // sum of advances
}

// Width returns the sum of advances of a glyph sequence.
func (seq GlyphSequence) Width() dimen.Dimen {
	return seq.W
}
