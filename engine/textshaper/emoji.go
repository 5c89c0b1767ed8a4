package textshaper

// Emoji detection marks the code-points of emoji sequences within a run, so
// that they can be shaped with a dedicated emoji font.
//
// Recognized sequences are flags (pairs of regional indicators), keycaps,
// tag sequences (subdivision flags), single pictographs with optional skin
// tone modifier and variation selector, and ZWJ chains of these.

func mayContainEmoji(text []rune) bool {
	for _, r := range text {
		if r >= 0x200D {
			return true
		}
	}
	return false
}

// emojiMask returns a flag for every code-point of text which is part of an
// emoji sequence. Pictographs which default to text presentation are counted
// only if followed by U+FE0F or if covered reports false for them.
// The bool result is true if any code-point has been flagged.
func emojiMask(text []rune, covered func(rune) bool) ([]bool, bool) {
	var mask []bool
	found := false
	for i := 0; i < len(text); {
		n := emojiSequenceAt(text[i:], covered)
		if n == 0 {
			i++
			continue
		}
		if mask == nil {
			mask = make([]bool, len(text))
		}
		for j := i; j < i+n; j++ {
			mask[j] = true
		}
		found = true
		i += n
	}
	return mask, found
}

// emojiSequenceAt returns the length of the emoji sequence starting at
// text[0], or 0.
func emojiSequenceAt(text []rune, covered func(rune) bool) int {
	r := text[0]
	switch {
	case isRegionalIndicator(r):
		if len(text) > 1 && isRegionalIndicator(text[1]) {
			return 2
		}
		return 0
	case isKeycapBase(r):
		n := 1
		if n < len(text) && text[n] == 0xFE0F {
			n++
		}
		if n < len(text) && text[n] == 0x20E3 {
			return n + 1
		}
		return 0
	case r == 0x1F3F4 && len(text) > 1 && isTagCharacter(text[1]):
		n := 1
		for n < len(text) && isTagCharacter(text[n]) {
			n++
		}
		if n < len(text) && text[n] == 0xE007F {
			n++
		}
		return n
	}
	n := pictographAt(text, covered)
	if n == 0 {
		return 0
	}
	for n+1 < len(text) && text[n] == 0x200D {
		m := pictographAt(text[n+1:], func(rune) bool { return false })
		if m == 0 {
			break
		}
		n += 1 + m
	}
	return n
}

// pictographAt matches a single pictograph with optional modifiers.
func pictographAt(text []rune, covered func(rune) bool) int {
	r := text[0]
	n := 1
	switch {
	case isEmojiPresentation(r):
		if n < len(text) && text[n] == 0xFE0E {
			return 0
		}
	case isTextPresentationEmoji(r):
		if n < len(text) && text[n] == 0xFE0E {
			return 0
		}
		if !(n < len(text) && text[n] == 0xFE0F) && covered != nil && covered(r) {
			return 0
		}
	default:
		return 0
	}
	if n < len(text) && text[n] == 0xFE0F {
		n++
	}
	if n < len(text) && isSkinTone(text[n]) {
		n++
	}
	return n
}

func isEmojiPresentation(r rune) bool {
	switch {
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F300 && r <= 0x1F5FF: // symbols and pictographs
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport and map
		return true
	case r >= 0x1F900 && r <= 0x1F9FF, r >= 0x1FA00 && r <= 0x1FAFF:
		return true
	case r >= 0x1F000 && r <= 0x1F02F, r >= 0x1F0A0 && r <= 0x1F0FF:
		return true
	}
	return false
}

func isTextPresentationEmoji(r rune) bool {
	switch {
	case r >= 0x2600 && r <= 0x26FF: // miscellaneous symbols
		return true
	case r >= 0x2702 && r <= 0x27B0: // dingbats
		return true
	case r == 0x00A9, r == 0x00AE, r == 0x203C, r == 0x2049, r == 0x2122, r == 0x2139:
		return true
	case r >= 0x2194 && r <= 0x21AA, r >= 0x231A && r <= 0x23FF:
		return true
	case r >= 0x2B05 && r <= 0x2B55, r == 0x3030, r == 0x303D, r == 0x3297, r == 0x3299:
		return true
	}
	return false
}

func isRegionalIndicator(r rune) bool {
	return r >= 0x1F1E6 && r <= 0x1F1FF
}

func isKeycapBase(r rune) bool {
	return (r >= '0' && r <= '9') || r == '#' || r == '*'
}

func isTagCharacter(r rune) bool {
	return r >= 0xE0020 && r <= 0xE007E
}

func isSkinTone(r rune) bool {
	return r >= 0x1F3FB && r <= 0x1F3FF
}
