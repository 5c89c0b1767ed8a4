package monospace

import (
	"sync"

	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/dimen"
	"github.com/npillmayer/textshaping/core/font"
)

// Coverage tells if a virtual font has a glyph for a code-point.
type Coverage func(r rune) bool

// Ranges creates a coverage from pairs of code-points, each denoting a closed
// interval.
func Ranges(bounds ...rune) Coverage {
	return func(r rune) bool {
		for i := 0; i+1 < len(bounds); i += 2 {
			if r >= bounds[i] && r <= bounds[i+1] {
				return true
			}
		}
		return false
	}
}

// Everything covers every code-point.
func Everything(r rune) bool { return true }

type virtualFont struct {
	family   string
	covers   Coverage
	scalable bool
}

// Source is a font.Source for virtual monospace fonts.
type Source struct {
	sync.Mutex
	fonts map[string]virtualFont
}

var _ font.Source = &Source{}

// NewSource creates an empty source of virtual fonts.
func NewSource() *Source {
	return &Source{fonts: make(map[string]virtualFont)}
}

// Add makes a scalable virtual font known under name `file`.
func (src *Source) Add(file string, family string, covers Coverage) *Source {
	return src.add(file, virtualFont{family: family, covers: covers, scalable: true})
}

// AddBitmap makes a non-scalable virtual font known under name `file`.
func (src *Source) AddBitmap(file string, family string, covers Coverage) *Source {
	return src.add(file, virtualFont{family: family, covers: covers, scalable: false})
}

func (src *Source) add(file string, vf virtualFont) *Source {
	src.Lock()
	defer src.Unlock()
	src.fonts[file] = vf
	return src
}

// Face is part of interface font.Source.
func (src *Source) Face(spec font.Spec, size float64, res float64) (font.Face, error) {
	src.Lock()
	vf, ok := src.fonts[spec.File]
	src.Unlock()
	if !ok {
		return nil, core.Error(core.EFONT, "no virtual font %s", spec.File)
	}
	if spec.Index != 0 {
		return nil, core.Error(core.EFONT, "virtual font %s has no face with index %d", spec.File, spec.Index)
	}
	if size <= 0 || res <= 0 {
		return nil, core.Error(core.EINVALID, "font %s requested at invalid size %g / resolution %g",
			spec.File, size, res)
	}
	return &Face{spec: spec, vf: vf, size: size, res: res}, nil
}

// Face is a virtual monospace font face. Its ascender is 4/5 em and its
// descender is -1/5 em.
type Face struct {
	spec      font.Spec
	vf        virtualFont
	size, res float64
}

var _ font.Face = &Face{}

func (f *Face) Spec() font.Spec     { return f.spec }
func (f *Face) Family() string      { return f.vf.family }
func (f *Face) Scalable() bool      { return f.vf.scalable }
func (f *Face) Size() float64       { return f.size }
func (f *Face) Resolution() float64 { return f.res }
func (f *Face) PPEm() dimen.Dimen   { return dimen.FromPoints(f.size, f.res) }

// Metrics is part of interface font.Face.
func (f *Face) Metrics() font.Metrics {
	em := f.PPEm()
	return font.Metrics{
		Ascender:  em * 4 / 5,
		Descender: -(em - em*4/5),
	}
}

// GlyphIndex is part of interface font.Face.
func (f *Face) GlyphIndex(r rune) (font.GlyphIndex, bool) {
	if r == 0 || !f.vf.covers(r) {
		return font.NotDef, false
	}
	return font.GlyphIndex(r), true
}
