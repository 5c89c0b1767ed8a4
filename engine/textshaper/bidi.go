package textshaper

import (
	"fmt"

	"github.com/benoitkugler/textlayout/fribidi"
)

// Direction is the base direction of a paragraph.
type Direction int

// Paragraph directions. Auto derives the direction from the first strong
// character of the text.
const (
	Auto Direction = iota
	LeftToRight
	RightToLeft
)

func (d Direction) String() string {
	switch d {
	case Auto:
		return "auto"
	case LeftToRight:
		return "ltr"
	case RightToLeft:
		return "rtl"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

type bidiKey struct {
	hash      uint64
	n         int
	requested Direction
}

type bidiEntry struct {
	levels   []int
	resolved Direction
}

// resolveBidi returns an embedding level for every code-point of text,
// together with the resolved direction of the paragraph. Results are cached.
// Callers receive copies and may modify them.
func (sh *Shaper) resolveBidi(text []rune, requested Direction) ([]int, Direction) {
	if len(text) <= 1 {
		return make([]int, len(text)), requested
	}
	key := bidiKey{hash: hashRunes(text), n: len(text), requested: requested}
	if entry, ok := sh.bidiCache.Get(key); ok {
		sh.stats.BidiHits++
		return append([]int(nil), entry.levels...), entry.resolved
	}
	sh.stats.BidiMisses++
	levels, resolved := embeddingLevels(text, requested)
	if sh.bidiCache.Put(key, bidiEntry{levels: append([]int(nil), levels...), resolved: resolved}) {
		sh.stats.Evictions++
		tracer().Infof("bidi cache full, evicted least recently used entry")
	}
	return levels, resolved
}

// embeddingLevels runs the Unicode bidi algorithm on text. The text is split
// at paragraph separators and each piece is resolved with the paragraph
// direction forced. Separators get the paragraph level.
func embeddingLevels(text []rune, dir Direction) ([]int, Direction) {
	if dir == Auto {
		dir = detectDirection(text)
	}
	plevel := paragraphLevel(dir)
	levels := make([]int, len(text))
	start := 0
	for i := 0; i <= len(text); i++ {
		if i < len(text) && !isParagraphSeparator(text[i]) {
			continue
		}
		if i > start {
			resolvePiece(text[start:i], dir, levels[start:i])
		}
		if i < len(text) {
			levels[i] = plevel
		}
		start = i + 1
	}
	return levels, dir
}

// resolvePiece resolves the levels of a single bidi paragraph. Rule L1 is
// applied to the end of the piece only, line ends are handled after
// line breaking.
func resolvePiece(piece []rune, dir Direction, levels []int) {
	types := make([]fribidi.CharType, len(piece))
	brackets := make([]fribidi.BracketType, len(piece))
	for i, r := range piece {
		types[i] = fribidi.GetBidiType(r)
		if types[i] == fribidi.ON {
			brackets[i] = fribidi.GetBracket(r)
		}
	}
	base := fribidi.ParType(fribidi.LTR)
	if dir == RightToLeft {
		base = fribidi.RTL
	}
	resolved, maxLevel := fribidi.GetParEmbeddingLevels(types, brackets, &base)
	tracer().Debugf("bidi levels resolved, max level %d", maxLevel-1)
	for i := range levels {
		l := paragraphLevel(dir)
		if i < len(resolved) {
			l = int(resolved[i])
		}
		levels[i] = l
	}
}

func paragraphLevel(dir Direction) int {
	if dir == RightToLeft {
		return 1
	}
	return 0
}

// detectDirection finds the first strong character of text.
func detectDirection(text []rune) Direction {
	for _, r := range text {
		switch fribidi.GetBidiType(r) {
		case fribidi.LTR:
			return LeftToRight
		case fribidi.RTL, fribidi.AL:
			return RightToLeft
		}
	}
	return LeftToRight
}

func isParagraphSeparator(r rune) bool {
	return fribidi.GetBidiType(r) == fribidi.BS
}
