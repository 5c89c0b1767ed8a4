/*
Package otquery queries OpenType fonts for layout information.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package otquery

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'fonts'
func tracer() tracing.Trace {
	return tracing.Select("fonts")
}
