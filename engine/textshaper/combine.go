package textshaper

import (
	"github.com/npillmayer/textshaping/engine/embedding"
)

// combine shapes all spans of the paragraph and combines the resulting
// embeddings. The result is a list of embeddings in logical order, with
// embeddings of equal level merged unless separated by a mandatory break.
// Within each embedding, glyphs are in visual order.
func (sh *Shaper) combine() ([]*embedding.Embedding, error) {
	sh.levels, sh.dir = sh.resolveBidi(sh.text, sh.par.Direction)
	tracer().Debugf("paragraph of %d code-points, direction %s", len(sh.text), sh.dir)
	var all []*embedding.Embedding
	prevLevel := paragraphLevel(sh.dir)
	for _, sp := range sh.spans {
		pieces, err := sh.shapeSpan(sp)
		if err != nil {
			return nil, err
		}
		for _, e := range pieces {
			if sp.spacer || sp.start == sp.end {
				e.SetLevel(prevLevel)
			}
			prevLevel = e.Level()
			all = append(all, splitAtMandatoryBreaks(e)...)
		}
	}
	var combined []*embedding.Embedding
	start := 0
	for i := 1; i <= len(all); i++ {
		if i < len(all) && all[i].Level() == all[i-1].Level() && !all[i-1].Terminates() {
			continue
		}
		merged, err := mergeGroup(all[start:i])
		if err != nil {
			return nil, err
		}
		combined = append(combined, merged)
		start = i
	}
	tracer().Debugf("combined %d embeddings into %d", len(all), len(combined))
	return combined, nil
}

// splitAtMandatoryBreaks splits an embedding after every glyph flagged as a
// mandatory break. All pieces but the last one are flagged as terminating;
// the last one is, if its last glyph is a mandatory break.
func splitAtMandatoryBreaks(e *embedding.Embedding) []*embedding.Embedding {
	var pieces []*embedding.Embedding
	for {
		at := e.MustBreakAt()
		if len(at) == 0 {
			break
		}
		n := e.Visual(at[0]) + 1 // logical position after the break
		if n >= e.Len() {
			e.SetTerminates(true)
			break
		}
		kept, removed := e.SplitAt(n)
		removed.SetTerminates(true)
		pieces = append(pieces, removed)
		e = kept
	}
	return append(pieces, e)
}

// mergeGroup merges embeddings of equal level, given in logical order. For
// right-to-left levels the visual order of embeddings is the reverse of the
// logical one.
func mergeGroup(group []*embedding.Embedding) (*embedding.Embedding, error) {
	terminates := group[len(group)-1].Terminates()
	ordered := make([]*embedding.Embedding, len(group))
	copy(ordered, group)
	if group[0].IsRTL() {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}
	merged := ordered[0]
	for _, e := range ordered[1:] {
		if err := merged.Merge(e); err != nil {
			return nil, err
		}
	}
	merged.SetTerminates(terminates)
	return merged, nil
}
