package fontregistry

import (
	"sort"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/font"
)

// Registry is a type for holding information about loaded fonts for a
// shaper. It implements font.Source.
type Registry struct {
	sync.Mutex
	fonts map[string]*font.ScalableFont
}

var _ font.Source = &Registry{}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold information about
// loaded fonts.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
	})
	return globalFontRegistry
}

// NewRegistry creates an empty registry, holding just the fallback font.
func NewRegistry() *Registry {
	fr := &Registry{
		fonts: make(map[string]*font.ScalableFont),
	}
	fr.fonts[font.FallbackFontName] = font.FallbackFont()
	return fr
}

// StoreFont pushes a font into the registry under key `name`.
// If this key is already associated with a font, that font will not be overridden.
func (fr *Registry) StoreFont(name string, f *font.ScalableFont) {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.fonts[name]; !ok {
		tracer().Debugf("registry stores font %s as %s", f.Fontname, name)
		fr.fonts[name] = f
	}
}

// StoreFontData parses font data and stores the font under key `name`.
func (fr *Registry) StoreFontData(name string, data []byte) error {
	f, err := font.ParseOpenTypeFont(data)
	if err != nil {
		return core.WrapError(err, core.EFONT, "cannot register font %s", name)
	}
	f.Filepath = name
	fr.StoreFont(name, f)
	return nil
}

// Font returns the font registered for `file`. If none is registered yet,
// Font tries to load it from the file system and caches it.
func (fr *Registry) Font(file string) (*font.ScalableFont, error) {
	fr.Lock()
	defer fr.Unlock()
	if f, ok := fr.fonts[file]; ok {
		return f, nil
	}
	tracer().Debugf("registry loads font file %s", file)
	f, err := font.LoadOpenTypeFont(file)
	if err != nil {
		return nil, err
	}
	tracer().Infof("font registry caches font %s (%s)", file, f.Fontname)
	fr.fonts[file] = f
	return f, nil
}

// Face returns a typecase for a font spec at a given size and resolution.
// This is part of interface font.Source.
func (fr *Registry) Face(spec font.Spec, size float64, res float64) (font.Face, error) {
	tracer().Debugf("registry searches for font %s at %.2f", spec, size)
	f, err := fr.Font(spec.File)
	if err != nil {
		return nil, err
	}
	return f.PrepareCase(spec, size, res)
}

// LogFontList is a helper function to dump the list of known fonts
// in a registry to the trace-file (log-level Info).
func (fr *Registry) LogFontList() {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	tracer().Infof("--- registered fonts ---")
	for _, k := range fr.Names() {
		tracer().Infof("font [%s] = %v", k, fr.fonts[k].Fontname)
	}
	tracer().Infof("------------------------")
	tracer().SetTraceLevel(level)
}

// Names returns the keys of all registered fonts, sorted.
func (fr *Registry) Names() []string {
	fr.Lock()
	defer fr.Unlock()
	names := make([]string, 0, len(fr.fonts))
	for k := range fr.fonts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
