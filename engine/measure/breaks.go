package measure

import (
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/textshaping/engine/textshaper"
	"github.com/npillmayer/uax"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax14"
)

// BreakOffsets finds line break opportunities in text according to the
// Unicode line breaking algorithm (UAX#14). It returns 1-based offsets of
// the characters after which a line may (soft) or must (hard) be broken,
// suitable as explicit break offsets for Input.
//
// Hard breaks are reported for line break characters only, not for the end
// of text.
func BreakOffsets(text string) (soft, hard []int) {
	soft, hard = []int{}, []int{}
	total := utf8.RuneCountInString(text)
	pos := 0
	for _, r := range text {
		pos++
		if textshaper.IsLinebreak(r) {
			hard = append(hard, pos)
		}
	}
	seg := segment.NewSegmenter(uax14.NewLineWrap())
	seg.Init(strings.NewReader(text))
	pos = 0
	for seg.Next() {
		fragment := seg.Text()
		pos += utf8.RuneCountInString(fragment)
		p1, _ := seg.Penalties()
		if p1 >= uax.InfinitePenalty || pos >= total {
			continue
		}
		r, _ := utf8.DecodeLastRuneInString(fragment)
		if textshaper.IsLinebreak(r) {
			continue
		}
		tracer().Debugf("break opportunity after %q at %d", fragment, pos)
		soft = append(soft, pos)
	}
	return soft, hard
}
