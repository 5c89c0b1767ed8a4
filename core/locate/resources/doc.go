/*
Package resources locates fonts on the local system.

The central type is Locator, which finds fallback fonts for text a primary
font cannot display, and which knows where to look for a color emoji font.
Fallback candidates are searched in this order:

 1. fonts explicitly handed to the locator
 2. font families named in the locator's configuration, located as system
    fonts (using go-findfont) or, as a last resort, through a cached output
    of fontconfig's fc-list
 3. the system font index of go-text's fontscan, which is built once and
    cached in the user's cache directory

Candidates of steps 1 and 2 are checked for coverage through a font.Source.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'resources'.
func tracer() tracing.Trace {
	return tracing.Select("resources")
}
