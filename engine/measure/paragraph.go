package measure

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/dimen"
	"github.com/npillmayer/textshaping/core/font"
	"github.com/npillmayer/textshaping/engine/textshaper"
)

// Input holds the strings of one or more paragraphs, together with their
// parameters. Parameters are given as vectors parallel to Strings. A vector
// of length 1 applies to all strings, an empty vector selects the default.
// Fonts must not be empty.
//
// Consecutive strings with the same group ID form a paragraph. Paragraph
// parameters (from Resolutions to Directions) are taken from the first
// string of a paragraph.
//
// Lengths are in pixels at the resolution of the paragraph, sizes in points.
type Input struct {
	Strings     []string
	GroupIDs    []int // default: all strings form a single paragraph
	Fonts       []font.Spec
	Sizes       []float64              // default: 12
	Tracking    []float64              // in 1/1000 em; default: 0
	SoftBreaks  [][]int                // 1-based offsets of break characters; nil selects defaults
	HardBreaks  [][]int                // 1-based offsets of break characters; nil selects defaults
	Resolutions []float64              // default: 72
	LineHeights []float64              // default: 1
	Aligns      []textshaper.Alignment // default: AlignStart
	HJust       []float64              // default: 0
	VJust       []float64              // default: 0
	MaxWidths   []float64              // negative or NaN for unconstrained lines; default: unconstrained
	Indents     []float64
	Hangings    []float64
	SpaceBefore []float64
	SpaceAfter  []float64
	Directions  []textshaper.Direction // default: Auto
}

// GlyphRecord is a glyph placed by ShapeParagraph.
type GlyphRecord struct {
	Cluster   int     // 1-based position of the glyph's first character in its string; 0 for spacers
	GlyphID   uint32  // glyph index within font
	MetricID  int     // 1-based index of the paragraph's StringMetrics
	StringID  int     // 1-based index of the string within its paragraph
	X, Y      float64 // position relative to the paragraph's anchor
	File      string  // font file
	Index     int     // face index within font file
	Size      float64 // font size in points
	Advance   float64
	Ascender  float64
	Descender float64
}

func (g GlyphRecord) String() string {
	return fmt.Sprintf("[%d/%d:%d] gid=%d (%.2f,%.2f)", g.MetricID, g.StringID, g.Cluster,
		g.GlyphID, g.X, g.Y)
}

// StringMetrics are the metrics of a laid out paragraph.
type StringMetrics struct {
	Width, Height             float64
	LeftBearing, RightBearing float64
	TopBearing, BottomBearing float64
	LeftBorder, TopBorder     float64
	PenX, PenY                float64
}

// check validates the lengths of the parameter vectors of an input.
func (in *Input) check() error {
	n := len(in.Strings)
	if len(in.Fonts) == 0 {
		return core.Error(core.EINVALID, "no font given for %d strings", n)
	}
	lengths := []struct {
		name string
		l    int
	}{
		{"group ids", len(in.GroupIDs)},
		{"fonts", len(in.Fonts)},
		{"sizes", len(in.Sizes)},
		{"tracking", len(in.Tracking)},
		{"soft breaks", len(in.SoftBreaks)},
		{"hard breaks", len(in.HardBreaks)},
		{"resolutions", len(in.Resolutions)},
		{"line heights", len(in.LineHeights)},
		{"alignments", len(in.Aligns)},
		{"hjust", len(in.HJust)},
		{"vjust", len(in.VJust)},
		{"max widths", len(in.MaxWidths)},
		{"indents", len(in.Indents)},
		{"hangings", len(in.Hangings)},
		{"space before", len(in.SpaceBefore)},
		{"space after", len(in.SpaceAfter)},
		{"directions", len(in.Directions)},
	}
	for _, v := range lengths {
		if v.l > 1 && v.l != n {
			return core.Error(core.EINVALID, "expected 1 or %d %s, have %d", n, v.name, v.l)
		}
	}
	for i, a := range in.Aligns {
		if !a.Valid() {
			return core.Error(core.EINVALID, "unknown alignment %d for string #%d", int(a), i+1)
		}
	}
	return nil
}

// pick returns the i-th element of a parameter vector, recycling vectors of
// length 1.
func pick[T any](v []T, i int, dflt T) T {
	switch len(v) {
	case 0:
		return dflt
	case 1:
		return v[0]
	}
	return v[i]
}

func (in *Input) paragraph(i int) textshaper.Paragraph {
	par := textshaper.DefaultParagraph()
	par.Resolution = pick(in.Resolutions, i, 72.0)
	par.LineHeight = pick(in.LineHeights, i, 1.0)
	par.Align = pick(in.Aligns, i, textshaper.AlignStart)
	par.HJust = pick(in.HJust, i, 0.0)
	par.VJust = pick(in.VJust, i, 0.0)
	w := pick(in.MaxWidths, i, -1.0)
	if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		par.MaxWidth = -1
	} else {
		par.MaxWidth = dimen.FromPixels(w)
	}
	par.Indent = dimen.FromPixels(pick(in.Indents, i, 0.0))
	par.Hanging = dimen.FromPixels(pick(in.Hangings, i, 0.0))
	par.SpaceBefore = dimen.FromPixels(pick(in.SpaceBefore, i, 0.0))
	par.SpaceAfter = dimen.FromPixels(pick(in.SpaceAfter, i, 0.0))
	par.Direction = pick(in.Directions, i, textshaper.Auto)
	return par
}

// Paragraph lays out the paragraphs of an input. It returns the placed
// glyphs of all paragraphs, in order, and a StringMetrics record per
// paragraph.
//
// Input vectors of mismatching lengths are reported as errors of code
// core.EINVALID before any shaping is done. An error while shaping aborts
// the call.
func (e *Engine) Paragraph(in *Input) ([]GlyphRecord, []StringMetrics, error) {
	if in == nil || len(in.Strings) == 0 {
		return nil, nil, nil
	}
	if err := in.check(); err != nil {
		return nil, nil, err
	}
	e.mx.Lock()
	defer e.mx.Unlock()
	var glyphs []GlyphRecord
	var metrics []StringMetrics
	n := len(in.Strings)
	first := 0 // first string of the current paragraph
	for i := 0; i < n; i++ {
		group := pick(in.GroupIDs, i, 0)
		if i == 0 || group != pick(in.GroupIDs, i-1, 0) {
			e.shaper.Reset(in.paragraph(i))
			first = i
		}
		text, spec := in.Strings[i], pick(in.Fonts, i, font.Spec{})
		err := e.shaper.AddString(text, spec, pick(in.Sizes, i, 12.0), pick(in.Tracking, i, 0.0),
			pick(in.SoftBreaks, i, nil), pick(in.HardBreaks, i, nil))
		if err != nil {
			return nil, nil, shapingError(err, text, spec)
		}
		if i < n-1 && pick(in.GroupIDs, i+1, 0) == group {
			continue
		}
		layout, err := e.shaper.Finish()
		if err != nil {
			var failed textshaper.WrapFailure
			if errors.As(err, &failed) && first+failed.StringID <= i {
				k := first + failed.StringID
				text, spec = in.Strings[k], pick(in.Fonts, k, font.Spec{})
			}
			return nil, nil, shapingError(err, text, spec)
		}
		metrics = append(metrics, stringMetrics(layout.Box))
		glyphs = appendRecords(glyphs, layout.Glyphs, len(metrics))
		tracer().Debugf("paragraph #%d: %d glyphs on %d lines", len(metrics), len(layout.Glyphs), layout.Lines)
	}
	return glyphs, metrics, nil
}

func appendRecords(glyphs []GlyphRecord, placed []textshaper.GlyphRecord, metricID int) []GlyphRecord {
	for _, g := range placed {
		glyphs = append(glyphs, GlyphRecord{
			Cluster:   g.Cluster + 1,
			GlyphID:   uint32(g.ID),
			MetricID:  metricID,
			StringID:  g.StringID + 1,
			X:         g.X.Pixels(),
			Y:         g.Y.Pixels(),
			File:      g.Font.Spec.File,
			Index:     g.Font.Spec.Index,
			Size:      g.Font.Size,
			Advance:   g.Advance.Pixels(),
			Ascender:  g.Ascender.Pixels(),
			Descender: g.Descender.Pixels(),
		})
	}
	return glyphs
}

func stringMetrics(box textshaper.BoxMetrics) StringMetrics {
	return StringMetrics{
		Width:         box.Width.Pixels(),
		Height:        box.Height.Pixels(),
		LeftBearing:   box.LeftBearing.Pixels(),
		RightBearing:  box.RightBearing.Pixels(),
		TopBearing:    box.TopBearing.Pixels(),
		BottomBearing: box.BottomBearing.Pixels(),
		LeftBorder:    box.LeftBorder.Pixels(),
		TopBorder:     box.TopBorder.Pixels(),
		PenX:          box.PenX.Pixels(),
		PenY:          box.PenY.Pixels(),
	}
}
