/*
Package font is for typeface and font handling.

There is a certain confusion in the nomenclature of typesetting. We will
stick to the following definitions:

* A "typeface" is a family of fonts. An example is "Helvetica".
This corresponds to a TrueType "collection" (*.ttc).

* A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".
Within a collection file it is addressed by a face index.

* A "typecase" is a scaled font, i.e. a font in a certain size for
a certain output resolution. The name is reminiscend on the wooden
boxes of typesetters in the aera of metal type.
An example is "Helvetica regular 11pt at 72 dpi".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

Font identity for shaping purposes is captured by Spec: a file path, a
face index and an ordered list of OpenType features to switch on or off.

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package font

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"

	gtfont "github.com/go-text/typesetting/font"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/dimen"
	"golang.org/x/image/font/gofont/goregular"
)

// tracer traces with key 'fonts'.
func tracer() tracing.Trace {
	return tracing.Select("fonts")
}

// GlyphIndex identifies a glyph within a font.
type GlyphIndex uint32

// NotDef is the glyph index fonts use for code-points they cannot map.
const NotDef GlyphIndex = 0

// --- Font identity ---------------------------------------------------------

// Feature switches an OpenType layout feature, e.g. {"liga", 0} to turn
// off standard ligatures.
type Feature struct {
	Tag   string // 4-byte OpenType feature tag
	Value int
}

func (f Feature) String() string {
	return fmt.Sprintf("%s=%d", f.Tag, f.Value)
}

// Spec identifies a font face for shaping. Two specs are equal if file,
// index and the (ordered) feature list are equal.
type Spec struct {
	File     string    // path of the font file, or name of a registered in-memory font
	Index    int       // face index within a collection; 0 for single-font files
	Features []Feature // OpenType features to apply during shaping
}

// HasFeatures is true if the spec carries explicit layout features.
func (s Spec) HasFeatures() bool {
	return len(s.Features) > 0
}

// Equal compares two font specs.
func (s Spec) Equal(other Spec) bool {
	if s.File != other.File || s.Index != other.Index || len(s.Features) != len(other.Features) {
		return false
	}
	for i, f := range s.Features {
		if f != other.Features[i] {
			return false
		}
	}
	return true
}

// Validate checks the spec for structural errors.
func (s Spec) Validate() error {
	if s.File == "" {
		return core.Error(core.EINVALID, "font spec without font file")
	}
	if s.Index < 0 {
		return core.Error(core.EINVALID, "negative face index %d for font %s", s.Index, s.File)
	}
	for _, f := range s.Features {
		if len(f.Tag) != 4 {
			return core.Error(core.EINVALID, "feature tag %q for font %s is not 4 bytes long", f.Tag, s.File)
		}
	}
	return nil
}

// WithoutFeatures returns a copy of s with an empty feature list.
func (s Spec) WithoutFeatures() Spec {
	return Spec{File: s.File, Index: s.Index}
}

func (s Spec) String() string {
	if len(s.Features) == 0 {
		return fmt.Sprintf("%s#%d", s.File, s.Index)
	}
	ff := make([]string, len(s.Features))
	for i, f := range s.Features {
		ff[i] = f.String()
	}
	return fmt.Sprintf("%s#%d[%s]", s.File, s.Index, strings.Join(ff, ","))
}

// --- Faces -----------------------------------------------------------------

// Metrics are font-wide vertical metrics at a given size.
// Ascender is typically positive, descender negative.
type Metrics struct {
	Ascender  dimen.Dimen
	Descender dimen.Dimen
	LineGap   dimen.Dimen
}

// Height is the line height suggested by the font.
func (m Metrics) Height() dimen.Dimen {
	return m.Ascender - m.Descender + m.LineGap
}

// Face is a font face at a given size and resolution, as needed for shaping
// and for measuring lines of text.
type Face interface {
	Spec() Spec                           // identity of the face
	Family() string                       // family name of the typeface
	Scalable() bool                       // false for bitmap-only fonts
	Size() float64                        // size in points
	Resolution() float64                  // output resolution in dpi
	PPEm() dimen.Dimen                    // pixels per em
	Metrics() Metrics                     // vertical metrics at this size
	GlyphIndex(r rune) (GlyphIndex, bool) // nominal glyph for a code-point
}

// Source hands out faces for font specs. Faces are meant to be used for the
// duration of a single shaping call and not to be retained.
type Source interface {
	Face(spec Spec, size float64, res float64) (Face, error)
}

// --- Scalable fonts --------------------------------------------------------

// ScalableFont is a parsed font file, possibly a collection of fonts.
type ScalableFont struct {
	Fontname string // family name of the first face
	Filepath string // file path
	Binary   []byte // raw data
	faces    []*gtfont.Face
}

// LoadOpenTypeFont reads and parses a font file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EFONT, "cannot read font file %s", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont parses font data in OpenType, TrueType or collection format.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.faces, err = gtfont.ParseTTC(bytes.NewReader(fbytes))
	if err != nil {
		return nil, core.WrapError(err, core.EFONT, "cannot parse font data")
	}
	if len(f.faces) == 0 {
		return nil, core.Error(core.EFONT, "font data contains no faces")
	}
	f.Fontname = f.faces[0].Describe().Family
	return
}

// FaceCount returns the number of faces in the font file.
func (sf *ScalableFont) FaceCount() int {
	return len(sf.faces)
}

// PrepareCase creates a typecase for face spec.Index of sf at a given size.
func (sf *ScalableFont) PrepareCase(spec Spec, size float64, res float64) (*TypeCase, error) {
	if spec.Index < 0 || spec.Index >= len(sf.faces) {
		return nil, core.Error(core.EFONT, "font %s has no face with index %d", spec.File, spec.Index)
	}
	if size <= 0 || res <= 0 {
		return nil, core.Error(core.EINVALID, "font %s requested at invalid size %g / resolution %g",
			spec.File, size, res)
	}
	face := gtfont.NewFace(sf.faces[spec.Index].Font) // faces are not safe for concurrent use
	tc := &TypeCase{
		spec:     spec,
		face:     face,
		family:   face.Describe().Family,
		scalable: isScalable(face),
		size:     size,
		res:      res,
		ppem:     dimen.FromPoints(size, res),
	}
	if !tc.scalable {
		tc.ppem = nearestStrike(face, tc.ppem)
	}
	return tc, nil
}

// nearestStrike returns the pixel size of the bitmap strike closest to ppem.
// Bitmap fonts are shaped at their native strike size, clients have to scale
// the results.
func nearestStrike(f *gtfont.Face, ppem dimen.Dimen) dimen.Dimen {
	best := ppem
	var bestDist dimen.Dimen = -1
	for _, strike := range f.BitmapSizes() {
		s := dimen.FromPixels(float64(strike.YPpem))
		dist := s - ppem
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = s, dist
		}
	}
	return best
}

func isScalable(f *gtfont.Face) bool {
	if len(f.BitmapSizes()) == 0 {
		return true
	}
	gid, ok := f.NominalGlyph('0')
	if !ok {
		gid = 1
	}
	_, outline := f.GlyphData(gid).(gtfont.GlyphOutline)
	return outline
}

// TypeCase is a font face at a given size and resolution.
// It implements interface Face.
type TypeCase struct {
	spec     Spec
	face     *gtfont.Face
	family   string
	scalable bool
	size     float64
	res      float64
	ppem     dimen.Dimen
}

var _ Face = &TypeCase{}

// OpenTypeFace returns the underlying go-text face, e.g. for shaping.
func (tc *TypeCase) OpenTypeFace() *gtfont.Face {
	return tc.face
}

// Spec is part of interface Face.
func (tc *TypeCase) Spec() Spec { return tc.spec }

// Family is part of interface Face.
func (tc *TypeCase) Family() string { return tc.family }

// Scalable is part of interface Face.
func (tc *TypeCase) Scalable() bool { return tc.scalable }

// Size is part of interface Face.
func (tc *TypeCase) Size() float64 { return tc.size }

// Resolution is part of interface Face.
func (tc *TypeCase) Resolution() float64 { return tc.res }

// PPEm is part of interface Face. For bitmap fonts, PPEm is the size of the
// bitmap strike closest to the requested size.
func (tc *TypeCase) PPEm() dimen.Dimen {
	return tc.ppem
}

// Metrics is part of interface Face.
func (tc *TypeCase) Metrics() Metrics {
	ext, ok := tc.face.FontHExtents()
	if !ok {
		tracer().Debugf("font %s has incomplete horizontal extents", tc.spec)
	}
	return Metrics{
		Ascender:  tc.fromFontUnits(ext.Ascender),
		Descender: tc.fromFontUnits(ext.Descender),
		LineGap:   tc.fromFontUnits(ext.LineGap),
	}
}

// GlyphIndex is part of interface Face.
func (tc *TypeCase) GlyphIndex(r rune) (GlyphIndex, bool) {
	gid, ok := tc.face.NominalGlyph(r)
	return GlyphIndex(gid), ok
}

func (tc *TypeCase) fromFontUnits(v float32) dimen.Dimen {
	upem := float64(tc.face.Upem())
	if upem == 0 {
		upem = 1000
	}
	return tc.PPEm().Scale(float64(v) / upem)
}

// --- Fallback font ---------------------------------------------------------

// FallbackFontName is the name under which the fallback font is known.
const FallbackFontName = "Go Sans"

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

// fallbackFont is a font that is used if everything else failes.
var fallbackFont *ScalableFont

func loadFallbackFont() *ScalableFont {
	gofont, err := ParseOpenTypeFont(goregular.TTF)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	gofont.Fontname = FallbackFontName
	gofont.Filepath = FallbackFontName
	return gofont
}

// NormalizeFontname creates a lookup key from a font name or file path.
func NormalizeFontname(fname string) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if slash := strings.LastIndexAny(fname, `/\`); slash >= 0 {
		fname = fname[slash+1:]
	}
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ToLower(fname)
	return fname
}
