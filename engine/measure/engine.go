package measure

import (
	"bytes"
	"sync"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/font"
	"github.com/npillmayer/textshaping/core/font/fontregistry"
	"github.com/npillmayer/textshaping/core/font/otquery"
	"github.com/npillmayer/textshaping/core/locate/resources"
	"github.com/npillmayer/textshaping/engine/glyphing"
	"github.com/npillmayer/textshaping/engine/glyphing/harfbuzz"
	"github.com/npillmayer/textshaping/engine/textshaper"
)

// Engine wraps a text shaper for use by concurrent clients. Calls to an
// engine are serialized.
type Engine struct {
	mx       sync.Mutex
	registry *fontregistry.Registry
	shaper   *textshaper.Shaper
}

// NewEngine creates an engine taking fonts from registry and glyphs from
// backend. If backend is nil, HarfBuzz is used.
func NewEngine(registry *fontregistry.Registry, backend glyphing.Shaper, opts ...textshaper.Option) *Engine {
	if registry == nil {
		registry = fontregistry.GlobalRegistry()
	}
	if backend == nil {
		backend = harfbuzz.New()
	}
	return &Engine{
		registry: registry,
		shaper:   textshaper.New(registry, backend, opts...),
	}
}

// NewSystemEngine creates an engine which shapes with HarfBuzz and looks up
// fallback fonts and emoji fonts on the local system. conf may be nil.
func NewSystemEngine(registry *fontregistry.Registry, conf schuko.Configuration) *Engine {
	if registry == nil {
		registry = fontregistry.GlobalRegistry()
	}
	locator := resources.NewLocator(registry,
		resources.WithSystemFonts(true),
		resources.WithConfiguration(conf))
	return NewEngine(registry, harfbuzz.New(),
		textshaper.WithFallbackLocator(locator),
		textshaper.WithConfiguration(conf))
}

var defaultEngine struct {
	sync.Mutex
	engine *Engine
}

// Default returns the engine used by the package-level functions. Unless
// set with SetDefault, it is created on first use by NewSystemEngine on
// the global font registry.
func Default() *Engine {
	defaultEngine.Lock()
	defer defaultEngine.Unlock()
	if defaultEngine.engine == nil {
		tracer().Debugf("creating default measuring engine")
		defaultEngine.engine = NewSystemEngine(fontregistry.GlobalRegistry(), nil)
	}
	return defaultEngine.engine
}

// SetDefault replaces the engine used by the package-level functions.
func SetDefault(e *Engine) {
	defaultEngine.Lock()
	defer defaultEngine.Unlock()
	defaultEngine.engine = e
}

// Registry returns the font registry of an engine.
func (e *Engine) Registry() *fontregistry.Registry {
	return e.registry
}

// CacheStats returns statistics about the caches of the engine's shaper.
func (e *Engine) CacheStats() textshaper.CacheStats {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.shaper.CacheStats()
}

// --- Single lines ----------------------------------------------------------

// LineWidth returns the width of text set as a single line, in pixels at
// resolution res. If includeBearing is false, the left bearing of the first
// glyph and the right bearing of the last glyph are subtracted.
func (e *Engine) LineWidth(text string, spec font.Spec, size, res float64, includeBearing bool) (float64, error) {
	e.mx.Lock()
	defer e.mx.Unlock()
	run, err := e.shaper.ShapeRun(text, spec, size, res)
	if err != nil {
		return 0, shapingError(err, text, spec)
	}
	w := run.Width
	if !includeBearing {
		w -= run.LeftBearing + run.RightBearing
	}
	return w.Pixels(), nil
}

// Line returns the glyphs of text set as a single line: x and y positions
// (in pixels at resolution res) and glyph indices. At most maxLength glyphs
// are returned.
func (e *Engine) Line(text string, spec font.Spec, size, res float64, maxLength int) (x, y []float64, ids []uint32, err error) {
	e.mx.Lock()
	defer e.mx.Unlock()
	run, err := e.shaper.ShapeRun(text, spec, size, res)
	if err != nil {
		return nil, nil, nil, shapingError(err, text, spec)
	}
	n := len(run.Glyphs)
	if maxLength >= 0 && maxLength < n {
		n = maxLength
	}
	x, y, ids = make([]float64, n), make([]float64, n), make([]uint32, n)
	for i := 0; i < n; i++ {
		x[i] = run.Glyphs[i].X.Pixels()
		ids[i] = uint32(run.Glyphs[i].ID)
	}
	return x, y, ids, nil
}

// FeatureTags lists the OpenType layout features of face index of a font
// file, GPOS features first. Fonts not yet known to the engine's registry
// are loaded from the file system.
func (e *Engine) FeatureTags(file string, index int) ([]string, error) {
	f, err := e.registry.Font(file)
	if err != nil {
		return nil, err
	}
	tags, err := otquery.FeatureTags(bytes.NewReader(f.Binary), index)
	if err != nil {
		return nil, core.WrapError(err, core.Code(err), "cannot query features of font file %s", file)
	}
	return tags, nil
}

func shapingError(err error, text string, spec font.Spec) error {
	return core.WrapError(err, core.Code(err), "failed to shape string %q with font file %s",
		text, spec.File)
}

// --- Package level functions -----------------------------------------------

// ShapeLineWidth returns the width of text set as a single line, using the
// default engine. See Engine.LineWidth.
func ShapeLineWidth(text string, spec font.Spec, size, res float64, includeBearing bool) (float64, error) {
	return Default().LineWidth(text, spec, size, res, includeBearing)
}

// ShapeLine returns glyph positions and glyph indices of text set as a
// single line, using the default engine. See Engine.Line.
func ShapeLine(text string, spec font.Spec, size, res float64, maxLength int) ([]float64, []float64, []uint32, error) {
	return Default().Line(text, spec, size, res, maxLength)
}

// ShapeParagraph lays out paragraphs using the default engine.
// See Engine.Paragraph.
func ShapeParagraph(in *Input) ([]GlyphRecord, []StringMetrics, error) {
	return Default().Paragraph(in)
}

// FeatureTags lists the OpenType layout features of a font, using the
// default engine. See Engine.FeatureTags.
func FeatureTags(file string, index int) ([]string, error) {
	return Default().FeatureTags(file, index)
}
