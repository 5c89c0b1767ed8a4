/*
Package embedding holds shaped text, ready for line breaking.

An Embedding is a sequence of positioned glyphs sharing a single bidi
embedding level. Glyphs are kept in visual order, i.e. for odd
(right-to-left) levels the first glyph of the arrays is the logically last
one. Glyph data is held as a struct of arrays; all arrays always have the
same length. Clients access glyphs through Glyph and Set, and change the
sequence as a whole through Append, Merge, SplitAt, PopFront and PopBack.

Each glyph refers to an entry in the embedding's font list. Index 0 is the
primary font of the text the glyphs have been shaped from; subsequent
entries are fallback fonts.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package embedding
