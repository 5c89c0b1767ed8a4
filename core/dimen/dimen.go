// Package dimen implements dimensions and units.
//
/*
BSD License

Copyright (c) 2017–21, Norbert Pillmayer (norbert@pillmayer.com)

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
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"golang.org/x/image/math/fixed"
)

// Dimen is a dimension type.
// Values are pixels in 26.6 fixed point, i.e. 64 units make up one pixel.
// At a resolution of 72 dpi one pixel equals one big point.
type Dimen int32

// Some pre-defined dimensions
const (
	Zero Dimen = 0
	Unit Dimen = 1  // 1/64 pixel
	PX   Dimen = 64 // pixel
)

// Stringer implementation.
func (d Dimen) String() string {
	return fmt.Sprintf("%.2fpx", d.Pixels())
}

// Pixels returns a dimension in (fractional) pixels.
func (d Dimen) Pixels() float64 {
	return float64(d) / float64(PX)
}

// Fixed returns d as a 26.6 fixed point number.
func (d Dimen) Fixed() fixed.Int26_6 {
	return fixed.Int26_6(d)
}

// FromFixed converts a 26.6 fixed point number to a dimension.
func FromFixed(f fixed.Int26_6) Dimen {
	return Dimen(f)
}

// FromPixels converts fractional pixels to a dimension, rounding to the
// nearest unit.
func FromPixels(px float64) Dimen {
	return Dimen(math.Round(px * float64(PX)))
}

// FromPoints converts a length in big points to a dimension for
// a given output resolution (in dpi).
func FromPoints(pt float64, res float64) Dimen {
	return FromPixels(pt * res / 72)
}

// Scale multiplies a dimension by a float factor.
func (d Dimen) Scale(f float64) Dimen {
	return Dimen(math.Round(float64(d) * f))
}

// ---------------------------------------------------------------------------

var dimenPattern = regexp.MustCompile(`^([+\-]?[0-9]+(?:\.[0-9]+)?)(%|[cminpxt]{2})?$`)

// ParseDimen parses a string to return a dimension. Syntax is similar to CSS units.
// Lengths given in pt, in, mm or cm are converted to pixels at 72 dpi.
// If a percentage value is given (`80%`), the second return value will be true.
//
func ParseDimen(s string) (Dimen, bool, error) {
	d := dimenPattern.FindStringSubmatch(s)
	if len(d) < 2 {
		return 0, false, errors.New("format error parsing dimension")
	}
	n, err := strconv.ParseFloat(d[1], 64)
	if err != nil {
		return 0, false, errors.New("format error parsing dimension")
	}
	scale := 1.0
	ispcnt := false
	if len(d) > 2 {
		switch d[2] {
		case "px", "pt", "bp", "PX", "PT", "BP", "":
			scale = 1.0
		case "in", "IN":
			scale = 72.0
		case "mm", "MM":
			scale = 72.0 / 25.4
		case "cm", "CM":
			scale = 72.0 / 2.54
		case "%":
			return Dimen(n), true, nil
		default:
			return 0, false, errors.New("format error parsing dimension")
		}
	}
	return FromPixels(n * scale), ispcnt, nil
}

// ---------------------------------------------------------------------------

// Min returns the smaller of two dimensions.
func Min(a, b Dimen) Dimen {
	if a < b {
		return a
	}
	return b
}

// Max returns the greater of two dimensions.
func Max(a, b Dimen) Dimen {
	if a > b {
		return a
	}
	return b
}
