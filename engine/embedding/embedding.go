package embedding

import (
	"fmt"
	"strings"

	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/dimen"
	"github.com/npillmayer/textshaping/core/font"
)

// FontRef is a font used by glyphs of an embedding.
type FontRef struct {
	Spec    font.Spec
	Size    float64 // size in points, after size corrections
	Scaling float64 // scale factor for glyph metrics, < 0 for scalable fonts
}

// Scale returns the effective scale factor of a font.
func (ref FontRef) Scale() float64 {
	if ref.Scaling < 0 {
		return 1
	}
	return ref.Scaling
}

// Glyph is a single glyph of an embedding.
type Glyph struct {
	ID         font.GlyphIndex
	Cluster    int // position of the glyph's first code-point in the paragraph
	StringID   int // index of the string the glyph has been shaped from
	XAdvance   dimen.Dimen
	YAdvance   dimen.Dimen
	XOffset    dimen.Dimen
	YOffset    dimen.Dimen
	XBearing   dimen.Dimen
	YBearing   dimen.Dimen
	Width      dimen.Dimen
	Height     dimen.Dimen
	Ascender   dimen.Dimen
	Descender  dimen.Dimen
	Blank      bool // whitespace or format character
	MayBreak   bool // line may be broken after this glyph
	MustBreak  bool // line has to be broken after this glyph
	MayStretch bool // glyph may be widened for justification
	Font       int  // index into the font list of the embedding
}

func (g Glyph) String() string {
	return fmt.Sprintf("[%d@%d w=%s]", g.ID, g.Cluster, g.XAdvance)
}

// Embedding is a sequence of shaped glyphs of equal bidi level.
//
// The zero value is an empty left-to-right embedding without fonts.
type Embedding struct {
	level                 int
	id                    []font.GlyphIndex
	cluster, stringID     []int
	xAdvance, yAdvance    []dimen.Dimen
	xOffset, yOffset      []dimen.Dimen
	xBearing, yBearing    []dimen.Dimen
	width, height         []dimen.Dimen
	ascender, descender   []dimen.Dimen
	blank, mayBreak       []bool
	mustBreak, mayStretch []bool
	font                  []int
	fonts                 []FontRef
	fullWidth             dimen.Dimen
	terminates            bool
	baseAscender          dimen.Dimen
	baseDescender         dimen.Dimen
}

// New creates an empty embedding for a bidi level.
func New(level int) *Embedding {
	return &Embedding{level: level}
}

// Level returns the bidi level of the embedding.
func (e *Embedding) Level() int {
	return e.level
}

// SetLevel sets the bidi level.
func (e *Embedding) SetLevel(level int) {
	e.level = level
}

// Relevel moves the embedding to another bidi level. If the direction
// changes, glyphs are reversed to keep the arrays in visual order.
func (e *Embedding) Relevel(level int) {
	if level%2 != e.level%2 {
		e.reverse()
	}
	e.level = level
}

// IsRTL is true for odd bidi levels.
func (e *Embedding) IsRTL() bool {
	return e.level%2 == 1
}

// Len returns the number of glyphs.
func (e *Embedding) Len() int {
	if e == nil {
		return 0
	}
	return len(e.id)
}

// Width returns the sum of the x-advances of all glyphs.
func (e *Embedding) Width() dimen.Dimen {
	return e.fullWidth
}

// Terminates is true if the embedding is the last one before a mandatory
// paragraph break.
func (e *Embedding) Terminates() bool {
	return e.terminates
}

// SetTerminates flags the embedding as the last one before a paragraph break.
func (e *Embedding) SetTerminates(b bool) {
	e.terminates = b
}

// BaseExtents returns ascender and descender of an embedding independently
// of its glyphs. Glyph-less embeddings use them to contribute to line heights.
func (e *Embedding) BaseExtents() (dimen.Dimen, dimen.Dimen) {
	return e.baseAscender, e.baseDescender
}

// SetBaseExtents sets ascender and descender of an embedding.
func (e *Embedding) SetBaseExtents(asc, desc dimen.Dimen) {
	e.baseAscender, e.baseDescender = asc, desc
}

// --- Fonts -----------------------------------------------------------------

// FontCount returns the number of fonts.
func (e *Embedding) FontCount() int {
	return len(e.fonts)
}

// Font returns font number i.
func (e *Embedding) Font(i int) FontRef {
	return e.fonts[i]
}

// AddFont appends a font to the font list and returns its index.
func (e *Embedding) AddFont(ref FontRef) int {
	e.fonts = append(e.fonts, ref)
	return len(e.fonts) - 1
}

// SetFont replaces font number i.
func (e *Embedding) SetFont(i int, ref FontRef) {
	e.fonts[i] = ref
}

// FindFont returns the index of a font in the font list, if present.
func (e *Embedding) FindFont(spec font.Spec) (int, bool) {
	for i, f := range e.fonts {
		if f.Spec.Equal(spec) {
			return i, true
		}
	}
	return -1, false
}

// --- Glyphs ----------------------------------------------------------------

// Glyph returns glyph number i, counted in array (visual) order.
func (e *Embedding) Glyph(i int) Glyph {
	return Glyph{
		ID:         e.id[i],
		Cluster:    e.cluster[i],
		StringID:   e.stringID[i],
		XAdvance:   e.xAdvance[i],
		YAdvance:   e.yAdvance[i],
		XOffset:    e.xOffset[i],
		YOffset:    e.yOffset[i],
		XBearing:   e.xBearing[i],
		YBearing:   e.yBearing[i],
		Width:      e.width[i],
		Height:     e.height[i],
		Ascender:   e.ascender[i],
		Descender:  e.descender[i],
		Blank:      e.blank[i],
		MayBreak:   e.mayBreak[i],
		MustBreak:  e.mustBreak[i],
		MayStretch: e.mayStretch[i],
		Font:       e.font[i],
	}
}

// Append appends a glyph. The glyph's font index has to refer to an entry in
// the font list.
func (e *Embedding) Append(g Glyph) error {
	if g.Font < 0 || g.Font >= len(e.fonts) {
		return core.Error(core.EINTERNAL, "glyph refers to font #%d, embedding has %d fonts", g.Font, len(e.fonts))
	}
	e.id = append(e.id, g.ID)
	e.cluster = append(e.cluster, g.Cluster)
	e.stringID = append(e.stringID, g.StringID)
	e.xAdvance = append(e.xAdvance, g.XAdvance)
	e.yAdvance = append(e.yAdvance, g.YAdvance)
	e.xOffset = append(e.xOffset, g.XOffset)
	e.yOffset = append(e.yOffset, g.YOffset)
	e.xBearing = append(e.xBearing, g.XBearing)
	e.yBearing = append(e.yBearing, g.YBearing)
	e.width = append(e.width, g.Width)
	e.height = append(e.height, g.Height)
	e.ascender = append(e.ascender, g.Ascender)
	e.descender = append(e.descender, g.Descender)
	e.blank = append(e.blank, g.Blank)
	e.mayBreak = append(e.mayBreak, g.MayBreak)
	e.mustBreak = append(e.mustBreak, g.MustBreak)
	e.mayStretch = append(e.mayStretch, g.MayStretch)
	e.font = append(e.font, g.Font)
	e.fullWidth += g.XAdvance
	return nil
}

// Set replaces glyph number i.
func (e *Embedding) Set(i int, g Glyph) error {
	if g.Font < 0 || g.Font >= len(e.fonts) {
		return core.Error(core.EINTERNAL, "glyph refers to font #%d, embedding has %d fonts", g.Font, len(e.fonts))
	}
	e.fullWidth += g.XAdvance - e.xAdvance[i]
	e.id[i] = g.ID
	e.cluster[i] = g.Cluster
	e.stringID[i] = g.StringID
	e.xAdvance[i] = g.XAdvance
	e.yAdvance[i] = g.YAdvance
	e.xOffset[i] = g.XOffset
	e.yOffset[i] = g.YOffset
	e.xBearing[i] = g.XBearing
	e.yBearing[i] = g.YBearing
	e.width[i] = g.Width
	e.height[i] = g.Height
	e.ascender[i] = g.Ascender
	e.descender[i] = g.Descender
	e.blank[i] = g.Blank
	e.mayBreak[i] = g.MayBreak
	e.mustBreak[i] = g.MustBreak
	e.mayStretch[i] = g.MayStretch
	e.font[i] = g.Font
	return nil
}

// Cluster returns the cluster of glyph i.
func (e *Embedding) Cluster(i int) int {
	return e.cluster[i]
}

// Advance returns the x-advance of glyph i.
func (e *Embedding) Advance(i int) dimen.Dimen {
	return e.xAdvance[i]
}

// SetStringID sets the string id of all glyphs.
func (e *Embedding) SetStringID(id int) {
	for i := range e.stringID {
		e.stringID[i] = id
	}
}

// MustBreakAt returns the array positions of all glyphs flagged as mandatory
// breaks, in logical order.
func (e *Embedding) MustBreakAt() []int {
	var pos []int
	for l := 0; l < e.Len(); l++ {
		i := e.Visual(l)
		if e.mustBreak[i] {
			pos = append(pos, i)
		}
	}
	return pos
}

// Visual maps a logical glyph position to an array position.
func (e *Embedding) Visual(logical int) int {
	if e.IsRTL() {
		return e.Len() - 1 - logical
	}
	return logical
}

// --- Operations on sequences -----------------------------------------------

// Clone returns a deep copy of an embedding.
func (e *Embedding) Clone() *Embedding {
	c := &Embedding{
		level:         e.level,
		fullWidth:     e.fullWidth,
		terminates:    e.terminates,
		baseAscender:  e.baseAscender,
		baseDescender: e.baseDescender,
		fonts:         append([]FontRef(nil), e.fonts...),
	}
	c.appendRange(e, 0, e.Len(), 0)
	return c
}

// Merge appends the glyphs of other to e. Both embeddings have to be of the
// same level. Fonts of other are appended to the font list of e and the
// glyph's font indices are adjusted accordingly. e will take over the
// termination flag of other.
func (e *Embedding) Merge(other *Embedding) error {
	if other.level != e.level {
		return core.Error(core.EINTERNAL, "cannot merge embeddings of levels %d and %d", e.level, other.level)
	}
	offset := len(e.fonts)
	e.fonts = append(e.fonts, other.fonts...)
	e.appendRange(other, 0, other.Len(), offset)
	e.fullWidth += other.fullWidth
	e.terminates = other.terminates
	if other.baseAscender > e.baseAscender {
		e.baseAscender = other.baseAscender
	}
	if other.baseDescender < e.baseDescender {
		e.baseDescender = other.baseDescender
	}
	return nil
}

// SplitAt splits off the logically first n glyphs. It returns the remainder
// as kept and the glyphs split off as removed. For left-to-right embeddings
// removed glyphs are taken from the start of the arrays, for right-to-left
// embeddings from the end.
//
// Both resulting embeddings share the font list of e. Only kept inherits the
// termination flag.
func (e *Embedding) SplitAt(n int) (kept *Embedding, removed *Embedding) {
	if n < 0 {
		n = 0
	} else if n > e.Len() {
		n = e.Len()
	}
	kept, removed = e.empty(), e.empty()
	kept.terminates = e.terminates
	if e.IsRTL() {
		kept.appendRange(e, 0, e.Len()-n, 0)
		removed.appendRange(e, e.Len()-n, e.Len(), 0)
	} else {
		removed.appendRange(e, 0, n, 0)
		kept.appendRange(e, n, e.Len(), 0)
	}
	kept.recalcWidth()
	removed.recalcWidth()
	return
}

// PopFront removes the first glyph of the arrays and returns it.
func (e *Embedding) PopFront() (Glyph, bool) {
	if e.Len() == 0 {
		return Glyph{}, false
	}
	g := e.Glyph(0)
	e.cut(1, e.Len())
	return g, true
}

// PopBack removes the last glyph of the arrays and returns it.
func (e *Embedding) PopBack() (Glyph, bool) {
	if e.Len() == 0 {
		return Glyph{}, false
	}
	g := e.Glyph(e.Len() - 1)
	e.cut(0, e.Len()-1)
	return g, true
}

func (e *Embedding) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "E(level=%d, n=%d, w=%s", e.level, e.Len(), e.fullWidth)
	if e.terminates {
		b.WriteString(", ¶")
	}
	b.WriteString(")")
	return b.String()
}

// --- Helpers ---------------------------------------------------------------

func (e *Embedding) empty() *Embedding {
	return &Embedding{
		level:         e.level,
		fonts:         append([]FontRef(nil), e.fonts...),
		baseAscender:  e.baseAscender,
		baseDescender: e.baseDescender,
	}
}

func (e *Embedding) appendRange(src *Embedding, from, to int, fontOffset int) {
	e.id = append(e.id, src.id[from:to]...)
	e.cluster = append(e.cluster, src.cluster[from:to]...)
	e.stringID = append(e.stringID, src.stringID[from:to]...)
	e.xAdvance = append(e.xAdvance, src.xAdvance[from:to]...)
	e.yAdvance = append(e.yAdvance, src.yAdvance[from:to]...)
	e.xOffset = append(e.xOffset, src.xOffset[from:to]...)
	e.yOffset = append(e.yOffset, src.yOffset[from:to]...)
	e.xBearing = append(e.xBearing, src.xBearing[from:to]...)
	e.yBearing = append(e.yBearing, src.yBearing[from:to]...)
	e.width = append(e.width, src.width[from:to]...)
	e.height = append(e.height, src.height[from:to]...)
	e.ascender = append(e.ascender, src.ascender[from:to]...)
	e.descender = append(e.descender, src.descender[from:to]...)
	e.blank = append(e.blank, src.blank[from:to]...)
	e.mayBreak = append(e.mayBreak, src.mayBreak[from:to]...)
	e.mustBreak = append(e.mustBreak, src.mustBreak[from:to]...)
	e.mayStretch = append(e.mayStretch, src.mayStretch[from:to]...)
	for _, f := range src.font[from:to] {
		e.font = append(e.font, f+fontOffset)
	}
}

// cut reduces the arrays to [from, to).
func (e *Embedding) cut(from, to int) {
	e.id = e.id[from:to]
	e.cluster = e.cluster[from:to]
	e.stringID = e.stringID[from:to]
	e.xAdvance = e.xAdvance[from:to]
	e.yAdvance = e.yAdvance[from:to]
	e.xOffset = e.xOffset[from:to]
	e.yOffset = e.yOffset[from:to]
	e.xBearing = e.xBearing[from:to]
	e.yBearing = e.yBearing[from:to]
	e.width = e.width[from:to]
	e.height = e.height[from:to]
	e.ascender = e.ascender[from:to]
	e.descender = e.descender[from:to]
	e.blank = e.blank[from:to]
	e.mayBreak = e.mayBreak[from:to]
	e.mustBreak = e.mustBreak[from:to]
	e.mayStretch = e.mayStretch[from:to]
	e.font = e.font[from:to]
	e.recalcWidth()
}

func (e *Embedding) reverse() {
	flip(e.id)
	flip(e.cluster)
	flip(e.stringID)
	flip(e.xAdvance)
	flip(e.yAdvance)
	flip(e.xOffset)
	flip(e.yOffset)
	flip(e.xBearing)
	flip(e.yBearing)
	flip(e.width)
	flip(e.height)
	flip(e.ascender)
	flip(e.descender)
	flip(e.blank)
	flip(e.mayBreak)
	flip(e.mustBreak)
	flip(e.mayStretch)
	flip(e.font)
}

func flip[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func (e *Embedding) recalcWidth() {
	e.fullWidth = 0
	for _, w := range e.xAdvance {
		e.fullWidth += w
	}
}
