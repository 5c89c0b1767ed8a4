package textshaper

import (
	"strconv"
	"strings"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/cache"
	"github.com/npillmayer/textshaping/core/dimen"
	"github.com/npillmayer/textshaping/core/font"
	"github.com/npillmayer/textshaping/engine/embedding"
	"github.com/npillmayer/textshaping/engine/glyphing"
	"golang.org/x/text/unicode/norm"
)

// FallbackLocator finds fonts for characters the fonts of a paragraph do not
// cover.
type FallbackLocator interface {
	// Fallback returns a font covering (most of) sample, or false.
	Fallback(sample string, primary font.Spec) (font.Spec, bool)
	// EmojiFont returns a color emoji font, if any.
	EmojiFont() (font.Spec, bool)
}

// Paragraph holds layout parameters of a paragraph. Lengths are in pixels at
// the paragraph's resolution.
type Paragraph struct {
	Resolution  float64     // output resolution in dpi
	LineHeight  float64     // line height as a multiple of ascender − descender
	Align       Alignment   // horizontal alignment of lines
	HJust       float64     // horizontal anchor of the box, 0 = left, 1 = right
	VJust       float64     // vertical anchor of the box, 0 = bottom, 1 = top
	MaxWidth    dimen.Dimen // wrap width; negative for unconstrained lines
	Indent      dimen.Dimen // indent of the first line and of lines after a hard break
	Hanging     dimen.Dimen // indent of all other lines
	SpaceBefore dimen.Dimen // space above the paragraph
	SpaceAfter  dimen.Dimen // space below the paragraph
	Direction   Direction   // base direction
}

// DefaultParagraph returns parameters for unconstrained, left aligned text
// at 72 dpi.
func DefaultParagraph() Paragraph {
	return Paragraph{
		Resolution: 72,
		LineHeight: 1,
		MaxWidth:   -1,
	}
}

// CacheStats reports usage of the caches of a Shaper.
type CacheStats struct {
	BidiHits, BidiMisses   int
	ShapeHits, ShapeMisses int
	Evictions              int
	BidiEntries            int
	ShapeEntries           int
}

// Defaults for cache capacities.
const (
	DefaultBidiCacheCapacity  = 1000
	DefaultShapeCacheCapacity = 1000
)

// Shaper lays out paragraphs of text. A paragraph is started with Reset,
// filled with AddString and AddSpacer, and laid out by Finish.
//
// A Shaper keeps caches of bidi levels and of shaped runs across paragraphs.
// It must not be used concurrently.
type Shaper struct {
	source     font.Source
	backend    glyphing.Shaper
	locator    FallbackLocator
	normalizer normalizer
	emoji      bool
	bidiCap    int
	shapeCap   int
	bidiCache  *cache.LRU[bidiKey, bidiEntry]
	shapeCache *cache.LRU[shapeKey, []*embedding.Embedding]
	stats      CacheStats
	// paragraph state
	par    Paragraph
	text   []rune
	spans  []*span
	soft   breakSet
	hard   breakSet
	levels []int
	dir    Direction
}

// Option configures a Shaper.
type Option func(*Shaper)

// WithFallbackLocator sets a locator for fallback fonts and emoji fonts.
func WithFallbackLocator(locator FallbackLocator) Option {
	return func(sh *Shaper) {
		sh.locator = locator
	}
}

// WithCacheCapacity sets the capacities of the bidi cache and of the cache
// of shaped runs. Non-positive values select the defaults.
func WithCacheCapacity(bidi, shaped int) Option {
	return func(sh *Shaper) {
		sh.bidiCap, sh.shapeCap = bidi, shaped
	}
}

// WithNormalization converts strings to a Unicode normal form before
// shaping. Clusters of output glyphs will refer to the normalized strings.
func WithNormalization(form norm.Form) Option {
	return func(sh *Shaper) {
		sh.normalizer = normalizer{form: form, enabled: true}
	}
}

// WithEmoji switches routing of emoji sequences to an emoji font on or off.
// It is on by default.
func WithEmoji(on bool) Option {
	return func(sh *Shaper) {
		sh.emoji = on
	}
}

// WithConfiguration reads settings from a configuration:
//
//	textshaper-bidi-cache    capacity of the bidi cache
//	textshaper-shape-cache   capacity of the cache of shaped runs
//	textshaper-emoji         "false" switches off emoji routing
func WithConfiguration(conf schuko.Configuration) Option {
	return func(sh *Shaper) {
		if conf == nil {
			return
		}
		if n, ok := configInt(conf, "textshaper-bidi-cache"); ok {
			sh.bidiCap = n
		}
		if n, ok := configInt(conf, "textshaper-shape-cache"); ok {
			sh.shapeCap = n
		}
		if e := conf.GetString("textshaper-emoji"); strings.EqualFold(e, "false") {
			sh.emoji = false
		}
	}
}

func configInt(conf schuko.Configuration, key string) (int, bool) {
	s := conf.GetString(key)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		tracer().Errorf("configuration key %s: %v", key, err)
		return 0, false
	}
	return n, true
}

// New creates a Shaper, taking fonts from source and glyphs from backend.
func New(source font.Source, backend glyphing.Shaper, opts ...Option) *Shaper {
	sh := &Shaper{
		source:   source,
		backend:  backend,
		emoji:    true,
		bidiCap:  DefaultBidiCacheCapacity,
		shapeCap: DefaultShapeCacheCapacity,
	}
	for _, opt := range opts {
		opt(sh)
	}
	sh.bidiCache = cache.New[bidiKey, bidiEntry](sh.bidiCap)
	sh.shapeCache = cache.New[shapeKey, []*embedding.Embedding](sh.shapeCap)
	sh.Reset(DefaultParagraph())
	return sh
}

// Validate checks the parameters of a paragraph.
func (par Paragraph) Validate() error {
	if !par.Align.Valid() {
		return core.Error(core.EINVALID, "unknown alignment %d", int(par.Align))
	}
	return nil
}

// Reset starts a new paragraph. Parameters are validated by Finish.
func (sh *Shaper) Reset(par Paragraph) {
	if par.Resolution <= 0 {
		par.Resolution = 72
	}
	sh.par = par
	sh.text = sh.text[:0]
	sh.spans = nil
	sh.soft = newBreakSet()
	sh.hard = newBreakSet()
	sh.levels = nil
	sh.dir = par.Direction
}

// AddString appends a string to the paragraph, to be set in font spec at
// size (in points). tracking is in 1/1000 em.
//
// soft and hard are 1-based offsets of characters of text after which a line
// may (soft) or must (hard) be broken. A nil slice selects default break
// characters, an empty slice switches breaks off for this string.
func (sh *Shaper) AddString(text string, spec font.Spec, size, tracking float64, soft, hard []int) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if size <= 0 {
		return core.Error(core.EINVALID, "font size must be positive, is %g", size)
	}
	runes := sh.normalizer.decode(text)
	start := len(sh.text)
	sh.text = append(sh.text, runes...)
	sh.soft.addOffsets(soft, start, runes, IsBreaker)
	sh.hard.addOffsets(hard, start, runes, IsLinebreak)
	sh.spans = append(sh.spans, &span{
		start:    start,
		end:      len(sh.text),
		spec:     spec,
		size:     size,
		tracking: tracking,
		index:    len(sh.spans),
	})
	tracer().Debugf("added string #%d of length %d in %s", len(sh.spans)-1, len(runes), spec)
	return nil
}

// AddSpacer appends an empty box to the paragraph. The box advances by
// width/72 pixels, independent of the paragraph's resolution. Its ascender
// is the ascender of spec at size height, or height scaled to the
// resolution if spec cannot be loaded.
func (sh *Shaper) AddSpacer(spec font.Spec, height, width float64) error {
	if width < 0 || height < 0 {
		return core.Error(core.EINVALID, "spacer dimensions must not be negative")
	}
	sh.spans = append(sh.spans, &span{
		start:   len(sh.text),
		end:     len(sh.text),
		spec:    spec,
		size:    height,
		spacer:  true,
		spacerW: width,
		spacerH: height,
		index:   len(sh.spans),
	})
	return nil
}

// Finish lays out the paragraph.
func (sh *Shaper) Finish() (*Layout, error) {
	if err := sh.par.Validate(); err != nil {
		return nil, err
	}
	embeddings, err := sh.combine()
	if err != nil {
		return nil, err
	}
	lines, err := sh.breakLines(embeddings)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		resetLineEnd(&lines[i], paragraphLevel(sh.dir))
		rearrange(lines[i].embeddings)
	}
	return sh.layout(lines), nil
}

// Text returns the code-points of the current paragraph.
func (sh *Shaper) Text() []rune {
	return sh.text
}

// ClearCaches empties the bidi cache and the cache of shaped runs.
func (sh *Shaper) ClearCaches() {
	sh.bidiCache.Clear()
	sh.shapeCache.Clear()
}

// CacheStats returns statistics about cache usage.
func (sh *Shaper) CacheStats() CacheStats {
	stats := sh.stats
	stats.BidiEntries = sh.bidiCache.Len()
	stats.ShapeEntries = sh.shapeCache.Len()
	return stats
}

// --- Single lines ----------------------------------------------------------

// Run is a single line of shaped text, starting at x = 0.
type Run struct {
	Glyphs       []GlyphRecord
	Width        dimen.Dimen // sum of advances
	LeftBearing  dimen.Dimen // bearing of the first glyph
	RightBearing dimen.Dimen // bearing of the last glyph
}

// ShapeRun shapes text as a single unconstrained line in a single font.
// Line break characters do not break the line. ShapeRun starts a new
// paragraph.
func (sh *Shaper) ShapeRun(text string, spec font.Spec, size, res float64) (*Run, error) {
	par := DefaultParagraph()
	par.Resolution = res
	sh.Reset(par)
	if err := sh.AddString(text, spec, size, 0, nil, []int{}); err != nil {
		return nil, err
	}
	layout, err := sh.Finish()
	if err != nil {
		return nil, err
	}
	run := &Run{Glyphs: layout.Glyphs}
	for i := range run.Glyphs {
		run.Glyphs[i].Y = 0
		run.Width += run.Glyphs[i].Advance
	}
	if n := len(run.Glyphs); n > 0 {
		run.LeftBearing = run.Glyphs[0].XBearing
		last := run.Glyphs[n-1]
		run.RightBearing = last.Advance - last.XBearing - last.Width
	}
	return run, nil
}
