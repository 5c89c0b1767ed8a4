package textshaper

import (
	"hash/fnv"

	"github.com/emirpasic/gods/sets/hashset"
)

// IsLinebreak is true for code-points which force a line break.
func IsLinebreak(r rune) bool {
	switch r {
	case 10, 11, 12, 13, 133, 8232, 8233:
		return true
	}
	return false
}

// IsBreaker is true for code-points after which a line may be broken.
func IsBreaker(r rune) bool {
	switch {
	case r == 9, r == 32, r == 45, r == 173, r == 5760, r == 6158:
		return true
	case r >= 8192 && r <= 8198, r >= 8200 && r <= 8205:
		return true
	case r == 8208, r == 8287, r == 12288:
		return true
	}
	return false
}

// isBlank is true for whitespace and format characters.
func isBlank(r rune) bool {
	switch {
	case r >= 9 && r <= 13, r == 32, r == 133, r == 5760, r == 6158:
		return true
	case r >= 8192 && r <= 8198, r >= 8200 && r <= 8205:
		return true
	case r == 8232, r == 8233, r == 8287, r == 12288:
		return true
	}
	return false
}

func isStretchable(r rune) bool {
	return r == 32
}

const softHyphen = 173

// --- Break sets ------------------------------------------------------------

// breakSet holds positions of break opportunities within the paragraph text.
type breakSet struct {
	positions *hashset.Set
}

func newBreakSet() breakSet {
	return breakSet{positions: hashset.New()}
}

func (bs breakSet) add(pos int) {
	bs.positions.Add(pos)
}

func (bs breakSet) contains(pos int) bool {
	return bs.positions.Contains(pos)
}

func (bs breakSet) size() int {
	return bs.positions.Size()
}

// addOffsets adds 1-based offsets of break characters within a string
// starting at paragraph position start. If offsets is nil, break positions
// are derived from the code-points of text with predicate isBreak.
func (bs breakSet) addOffsets(offsets []int, start int, text []rune, isBreak func(rune) bool) {
	if offsets == nil {
		for i, r := range text {
			if isBreak(r) {
				bs.add(start + i)
			}
		}
		return
	}
	for _, off := range offsets {
		if off < 1 || off > len(text) {
			tracer().Infof("ignoring break offset %d outside of string of length %d", off, len(text))
			continue
		}
		bs.add(start + off - 1)
	}
}

// --- Hashing ---------------------------------------------------------------

func hashRunes(text []rune) uint64 {
	h := fnv.New64a()
	var b [4]byte
	for _, r := range text {
		b[0], b[1], b[2], b[3] = byte(r), byte(r>>8), byte(r>>16), byte(r>>24)
		h.Write(b[:])
	}
	return h.Sum64()
}

func hashLevels(levels []int) uint64 {
	h := fnv.New64a()
	var b [2]byte
	for _, l := range levels {
		b[0], b[1] = byte(l), byte(l>>8)
		h.Write(b[:])
	}
	return h.Sum64()
}
