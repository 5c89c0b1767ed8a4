package measure

import (
	"sync"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/font"
)

// Signatures of the callables registered by this package.
type (
	StringWidthFunc     func(text string, spec font.Spec, size, res float64, includeBearing bool) (float64, error)
	StringShapeFunc     func(text string, spec font.Spec, size, res float64, maxLength int) ([]float64, []float64, []uint32, error)
	StringParagraphFunc func(in *Input) ([]GlyphRecord, []StringMetrics, error)
	FaceFeatureFunc     func(file string, index int) ([]string, error)
)

// Names of the callables registered by this package.
const (
	StringWidth     = "string_width"
	StringShape     = "string_shape"
	StringParagraph = "string_paragraph"
	FaceFeature     = "face_feature"
)

var callables = struct {
	sync.RWMutex
	fns *treemap.Map
}{
	fns: initCallables(),
}

func initCallables() *treemap.Map {
	m := treemap.NewWithStringComparator()
	m.Put(StringWidth, StringWidthFunc(ShapeLineWidth))
	m.Put(StringShape, StringShapeFunc(ShapeLine))
	m.Put(StringParagraph, StringParagraphFunc(ShapeParagraph))
	m.Put(FaceFeature, FaceFeatureFunc(FeatureTags))
	return m
}

// Register makes fn callable by name, replacing a callable already
// registered under this name.
func Register(name string, fn interface{}) error {
	if name == "" || fn == nil {
		return core.Error(core.EINVALID, "cannot register callable without name or function")
	}
	callables.Lock()
	defer callables.Unlock()
	if _, found := callables.fns.Get(name); found {
		tracer().Infof("replacing callable %s", name)
	}
	callables.fns.Put(name, fn)
	return nil
}

// Lookup returns the callable registered for name. Clients will have to
// convert it to the function type they expect, e.g.
//
//	fn, _ := measure.Lookup(measure.StringWidth)
//	width := fn.(measure.StringWidthFunc)
func Lookup(name string) (interface{}, bool) {
	callables.RLock()
	defer callables.RUnlock()
	return callables.fns.Get(name)
}

// Callables returns the names of all registered callables, sorted.
func Callables() []string {
	callables.RLock()
	defer callables.RUnlock()
	names := make([]string, 0, callables.fns.Size())
	for _, k := range callables.fns.Keys() {
		names = append(names, k.(string))
	}
	return names
}
