package textshaper

import (
	"golang.org/x/text/unicode/norm"
)

// Decode flattens UTF-8 text into code-points. Invalid bytes are decoded to
// U+FFFD.
func Decode(s string) []rune {
	return []rune(s)
}

// normalizer optionally converts strings to a Unicode normal form before
// they are decoded. Clusters of glyphs will then refer to positions within
// the normalized string.
type normalizer struct {
	form    norm.Form
	enabled bool
}

func (n normalizer) decode(s string) []rune {
	if n.enabled && !n.form.IsNormalString(s) {
		s = n.form.String(s)
	}
	return Decode(s)
}
