/*
Package fontregistry manages a registry for loaded fonts.

The registry parses every font file once and hands out typecases for
(font spec, size, resolution) on request. Typecases are cheap wrappers and
are created per call; clients should not hold on to them.

Fonts may be registered from memory under an arbitrary name, which is then
usable as the File field of a font.Spec. The fallback font is always
present under font.FallbackFontName.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'fonts'
func tracer() tracing.Trace {
	return tracing.Select("fonts")
}
