/*
Package monospace implements a simple shaper for monospace output.

Every grapheme cluster becomes a single glyph. Glyph advances are the
East Asian width of the grapheme (see UAX#11) multiplied by the em-size of
the face, with control characters taking up no space. The glyph index of a
glyph is the code-point of the grapheme's first character, or notdef if the
face does not cover it.

Package monospace provides a virtual font source as well. Faces of this
source are defined by a coverage predicate, making it easy to set up
font-fallback scenarios for terminal output and for testing.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package monospace

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glyphing'.
func tracer() tracing.Trace {
	return tracing.Select("glyphing")
}
