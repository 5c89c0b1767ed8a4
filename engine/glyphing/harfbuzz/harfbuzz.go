/*
Package harfbuzz converts text to sequences of glyphs, using a Go port of HarfBuzz.

The port is part of github.com/go-text/typesetting. Faces handed to the
shaper have to be typecases from package core/font, which wrap go-text faces.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package harfbuzz

import (
	"encoding/binary"

	"github.com/go-text/typesetting/di"
	ot "github.com/go-text/typesetting/font/opentype"
	hblang "github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/dimen"
	"github.com/npillmayer/textshaping/core/font"
	"github.com/npillmayer/textshaping/engine/glyphing"
	"golang.org/x/text/language"
)

// tracer traces with key 'glyphing'.
func tracer() tracing.Trace {
	return tracing.Select("glyphing")
}

// --- Type conversion -------------------------------------------------------

// Lang4HB returns a language tag as a HarfBuzz language.
func Lang4HB(l language.Tag) hblang.Language {
	return hblang.NewLanguage(l.String())
}

// Script4HB returns a script as a HarfBuzz script.
func Script4HB(s language.Script) hblang.Script {
	b := []byte(s.String())
	if len(b) != 4 {
		return hblang.Unknown
	}
	return hblang.Script(binary.BigEndian.Uint32(b))
}

// Direction4HB translates a direction to a HarfBuzz direction.
func Direction4HB(d glyphing.Direction) di.Direction {
	switch d {
	case glyphing.LeftToRight:
		return di.DirectionLTR
	case glyphing.RightToLeft:
		return di.DirectionRTL
	case glyphing.TopToBottom:
		return di.DirectionTTB
	case glyphing.BottomToTop:
		return di.DirectionBTT
	}
	return di.DirectionLTR
}

// Feature4HB converts a font feature to a HarfBuzz feature switch, applying
// to the whole run. Tags have to be 4 bytes long.
func Feature4HB(f font.Feature) (shaping.FontFeature, bool) {
	if len(f.Tag) != 4 {
		return shaping.FontFeature{}, false
	}
	return shaping.FontFeature{
		Tag:   ot.NewTag(f.Tag[0], f.Tag[1], f.Tag[2], f.Tag[3]),
		Value: uint32(f.Value),
	}, true
}

// GuessScript returns the script of the first code-point of a run which is
// not of script 'Common' or 'Inherited'. Runs without such a code-point are
// treated as Latin.
func GuessScript(text []rune) hblang.Script {
	for _, r := range text {
		s := hblang.LookupScript(r)
		if s != hblang.Common && s != hblang.Inherited && s != hblang.Unknown {
			return s
		}
	}
	return hblang.Latin
}

// --- Shape -----------------------------------------------------------------

// Shaper is a glyphing.Shaper backed by the HarfBuzz port of go-text.
// A Shaper is not safe for concurrent use.
type Shaper struct {
	hb shaping.HarfbuzzShaper
}

var _ glyphing.Shaper = &Shaper{}

// New creates a HarfBuzz shaper.
func New() *Shaper {
	return &Shaper{}
}

// Shape calls the HarfBuzz shaper.
//
// Shape shapes a run of code-points (runes), turning its Unicode characters to
// positioned glyphs. It will select a shape plan based on params, including the
// selected font, and the properties of the input text.
// If params.Script is not set, it is guessed from the text of the run.
//
// If `params.Features` is not empty, the features will be applied to the
// complete run.
//
// face has to be a *font.TypeCase.
//
func (sh *Shaper) Shape(text []rune, start, end int, face font.Face, params glyphing.Params) (glyphing.GlyphSequence, error) {
	if start >= end {
		return glyphing.GlyphSequence{}, nil
	}
	if start < 0 || end > len(text) {
		return glyphing.GlyphSequence{}, core.Error(core.EINTERNAL, "run [%d,%d) out of range of text", start, end)
	}
	tc, ok := face.(*font.TypeCase)
	if !ok || tc == nil {
		return glyphing.GlyphSequence{}, core.Error(core.ESHAPE,
			"HarfBuzz shaper cannot shape with face of type %T", face)
	}
	input := shaping.Input{
		Text:      text,
		RunStart:  start,
		RunEnd:    end,
		Direction: Direction4HB(params.Direction),
		Face:      tc.OpenTypeFace(),
		Size:      tc.PPEm().Fixed(),
		Script:    GuessScript(text[start:end]),
	}
	var none language.Script
	if params.Script != none {
		input.Script = Script4HB(params.Script)
	}
	if params.Language != language.Und {
		input.Language = Lang4HB(params.Language)
	}
	for _, f := range params.Features {
		if feat, ok := Feature4HB(f); ok {
			input.FontFeatures = append(input.FontFeatures, feat)
		} else {
			tracer().Errorf("ignoring invalid feature tag %q", f.Tag)
		}
	}
	out := sh.hb.Shape(input)
	seq := glyphing.GlyphSequence{
		Glyphs: make([]glyphing.ShapedGlyph, len(out.Glyphs)),
	}
	for i, g := range out.Glyphs {
		seq.Glyphs[i] = glyphing.ShapedGlyph{
			GID:      font.GlyphIndex(g.GlyphID),
			Cluster:  g.ClusterIndex,
			XAdvance: dimen.FromFixed(g.XAdvance),
			YAdvance: dimen.FromFixed(g.YAdvance),
			XOffset:  dimen.FromFixed(g.XOffset),
			YOffset:  dimen.FromFixed(g.YOffset),
			Extents: glyphing.Extents{
				XBearing: dimen.FromFixed(g.XBearing),
				YBearing: dimen.FromFixed(g.YBearing),
				Width:    dimen.FromFixed(g.Width),
				Height:   dimen.FromFixed(g.Height),
			},
		}
		seq.W += seq.Glyphs[i].XAdvance
	}
	tracer().Debugf("HarfBuzz shaped %d code-points to %d glyphs, w = %s", end-start, len(seq.Glyphs), seq.W)
	return seq, nil
}
