/*
Package textshaper lays out paragraphs of text.

A Shaper collects strings of a paragraph, each with its own font, size and
tracking, and turns them into positioned glyphs plus the metrics of the
paragraph's box. The pipeline is

	bidi resolution → run shaping (with font fallback) → combining of
	embeddings → line breaking → justification → metrics

Glyphs are produced by a glyphing.Shaper backend, fonts are taken from a
font.Source. If a font is missing glyphs for some characters, a
FallbackLocator is asked for fonts to use instead.

Bidi levels and shaped runs are cached in LRU caches owned by the Shaper.
A Shaper is not safe for concurrent use.

Line breaking does not implement the Unicode line breaking algorithm (UAX#14).
Break opportunities are either handed in by the client or derived from
short lists of code-points. Clients wanting UAX#14 may calculate
break offsets up front, e.g. with package measure.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package textshaper

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'textshaper'.
func tracer() tracing.Trace {
	return tracing.Select("textshaper")
}
