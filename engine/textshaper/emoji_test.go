package textshaper

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestEmojiMask(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textshaper")
	defer teardown()
	//
	nothing := func(rune) bool { return false }
	everything := func(rune) bool { return true }
	for _, test := range []struct {
		text    string
		covered func(rune) bool
		mask    string
	}{
		{"a\U0001F600b", nothing, ".x."},
		{"\U0001F1E9\U0001F1EA!", nothing, "xx."},                     // flag
		{"1\uFE0F\u20E3 1", nothing, "xxx.."},                         // keycap
		{"\U0001F44D\U0001F3FD", nothing, "xx"},                       // skin tone
		{"\U0001F469\u200D\U0001F4BB.", nothing, "xxx."},              // ZWJ sequence
		{"\u2764", everything, "."},                                   // text presentation
		{"\u2764\uFE0F", everything, "xx"},                            // emoji presentation selected
		{"\u2764", nothing, "x"},                                      // not covered by text font
		{"\U0001F600\uFE0E", nothing, ".."},                           // text presentation selected
		{"\U0001F3F4\U000E0067\U000E0062\U000E007F", nothing, "xxxx"}, // subdivision flag
	} {
		text := []rune(test.text)
		mask, found := emojiMask(text, test.covered)
		s := make([]byte, len(text))
		for i := range s {
			s[i] = '.'
			if found && mask[i] {
				s[i] = 'x'
			}
		}
		assert.Equal(t, test.mask, string(s), "text %q", test.text)
	}
}

func TestMayContainEmoji(t *testing.T) {
	assert.False(t, mayContainEmoji([]rune("plain text äöü")))
	assert.True(t, mayContainEmoji([]rune("a\U0001F600")))
}

func TestBreakSets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textshaper")
	defer teardown()
	//
	text := []rune("a b\u00ADc\nd")
	soft, hard := newBreakSet(), newBreakSet()
	soft.addOffsets(nil, 10, text, IsBreaker)
	hard.addOffsets(nil, 10, text, IsLinebreak)
	assert.Equal(t, 2, soft.size())
	assert.True(t, soft.contains(11))
	assert.True(t, soft.contains(13))
	assert.Equal(t, 1, hard.size())
	assert.True(t, hard.contains(15))
	explicit := newBreakSet()
	explicit.addOffsets([]int{1, 7, 99, 0}, 0, text, IsBreaker)
	assert.Equal(t, 2, explicit.size())
	assert.True(t, explicit.contains(0))
	assert.True(t, explicit.contains(6))
	none := newBreakSet()
	none.addOffsets([]int{}, 0, text, IsBreaker)
	assert.Equal(t, 0, none.size())
}

func TestDecode(t *testing.T) {
	assert.Equal(t, []rune{'a', 0xFFFD, 'b'}, Decode("a\xffb"))
	n := normalizer{}
	assert.Len(t, n.decode("e\u0301"), 2) // decomposed e-acute
}
