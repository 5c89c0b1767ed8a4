/*
Package measure offers entry points for measuring and shaping strings.

The functions of this package are convenience wrappers around a
textshaper.Shaper. Inputs and outputs are plain numbers in pixels at a
given resolution (dpi), making them easy to call from host applications
which do not want to deal with the typesetting types of this module.

	w, err := measure.ShapeLineWidth("Hello", font.Spec{File: "goregular"}, 12, 72, true)

Package-level functions use a default engine, which takes fonts from the
global font registry and shapes with HarfBuzz. Calls to the default engine
are serialized. Clients may create engines of their own with NewEngine.

Entry points are registered by name as well (see Register and Lookup), so
that clients may bind to them without depending on their Go types at
compile time.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package measure

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'measure'.
func tracer() tracing.Trace {
	return tracing.Select("measure")
}
