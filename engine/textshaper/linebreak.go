package textshaper

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/dimen"
	"github.com/npillmayer/textshaping/engine/embedding"
)

// line is a line of the paragraph. Embeddings are in logical order until
// the line is rearranged.
type line struct {
	embeddings []*embedding.Embedding
	hard       bool // ends with a mandatory break
}

func (ln line) hasGlyphs() bool {
	for _, e := range ln.embeddings {
		if e.Len() > 0 {
			return true
		}
	}
	return false
}

// breakLines distributes embeddings onto lines. If the paragraph has no
// wrap width, lines end at mandatory breaks only.
func (sh *Shaper) breakLines(embeddings []*embedding.Embedding) ([]line, error) {
	queue := embeddings
	var lines []line
	afterHard := true
	for len(queue) > 0 {
		var ln line
		if sh.par.MaxWidth < 0 {
			ln, queue = takeUpToBreak(queue)
		} else {
			indent := sh.par.Hanging
			if afterHard {
				indent = sh.par.Indent
			}
			var err error
			ln, queue, err = sh.fillLine(queue, sh.par.MaxWidth+1-indent)
			if err != nil {
				return nil, err
			}
		}
		afterHard = ln.hard
		lines = append(lines, ln)
	}
	if len(lines) == 0 {
		lines = append(lines, line{})
	}
	tracer().Debugf("paragraph broken into %d line(s)", len(lines))
	return lines, nil
}

func takeUpToBreak(queue []*embedding.Embedding) (line, []*embedding.Embedding) {
	var ln line
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		ln.embeddings = append(ln.embeddings, e)
		if e.Terminates() {
			ln.hard = true
			break
		}
	}
	return ln, queue
}

// fillLine takes embeddings from the front of queue until a line of width
// budget is full. Embeddings are split at break opportunities as needed.
// The remaining queue is returned.
func (sh *Shaper) fillLine(queue []*embedding.Embedding, budget dimen.Dimen) (line, []*embedding.Embedding, error) {
	var ln line
	var w dimen.Dimen
	for len(queue) > 0 {
		e := queue[0]
		if e.Len() == 0 || w+e.Width() <= budget {
			ln.embeddings = append(ln.embeddings, e)
			w += e.Width()
			queue = queue[1:]
			if e.Terminates() {
				ln.hard = true
				return ln, queue, nil
			}
			continue
		}
		avail := budget - w
		if n, ok := lastSoftBreak(e, avail); ok {
			kept, removed := e.SplitAt(n)
			sh.hyphenate(removed)
			ln.embeddings = append(ln.embeddings, removed)
			if kept.Len() == 0 {
				ln.hard = e.Terminates()
				return ln, queue[1:], nil
			}
			queue[0] = kept
			return ln, queue, nil
		}
		if ln.hasGlyphs() {
			k, n, ok := lastTakenBreak(ln.embeddings)
			if !ok { // e starts the next line
				return ln, queue, nil
			}
			kept, removed := ln.embeddings[k].SplitAt(n)
			sh.hyphenate(removed)
			requeue := make([]*embedding.Embedding, 0, len(ln.embeddings)-k+len(queue))
			if kept.Len() > 0 {
				requeue = append(requeue, kept)
			}
			requeue = append(requeue, ln.embeddings[k+1:]...)
			requeue = append(requeue, queue...)
			ln.embeddings = append(ln.embeddings[:k], removed)
			return ln, requeue, nil
		}
		n := forcedBreak(e, avail)
		if n == 0 {
			failed := WrapFailure{StringID: e.Glyph(e.Visual(0)).StringID, Avail: avail}
			return ln, queue, core.WrapError(failed, core.EWRAP, "failed to wrap: glyph does not fit into %s", avail)
		}
		tracer().Debugf("no break opportunity, forcing a break after %d glyphs", n)
		kept, removed := e.SplitAt(n)
		ln.embeddings = append(ln.embeddings, removed)
		queue[0] = kept
		return ln, queue, nil
	}
	return ln, queue, nil
}

// WrapFailure identifies the string holding a glyph wider than the space
// left on a line.
type WrapFailure struct {
	StringID int         // index of the string within the paragraph
	Avail    dimen.Dimen // space left on the line
}

func (f WrapFailure) Error() string {
	return fmt.Sprintf("glyph of string #%d does not fit into %s", f.StringID, f.Avail)
}

// lastSoftBreak finds the last break opportunity in e at which the logical
// head of e fits into avail. Blank glyphs at a break may overhang. It
// returns the number of glyphs in front of the break.
func lastSoftBreak(e *embedding.Embedding, avail dimen.Dimen) (int, bool) {
	var cum dimen.Dimen
	best := 0
	for l := 0; l < e.Len(); l++ {
		g := e.Glyph(e.Visual(l))
		if g.MayBreak && g.Blank && cum <= avail {
			best = l + 1
		}
		cum += g.XAdvance
		if cum > avail {
			break
		}
		if g.MayBreak && !g.Blank {
			best = l + 1
		}
	}
	return best, best > 0
}

// lastTakenBreak finds the last break opportunity in a list of embeddings.
// It returns the index of the embedding and the number of glyphs in front of
// the break.
func lastTakenBreak(embeddings []*embedding.Embedding) (int, int, bool) {
	for k := len(embeddings) - 1; k >= 0; k-- {
		e := embeddings[k]
		for l := e.Len() - 1; l >= 0; l-- {
			if e.Glyph(e.Visual(l)).MayBreak {
				return k, l + 1, true
			}
		}
	}
	return 0, 0, false
}

// forcedBreak returns the number of glyphs of e fitting into avail.
func forcedBreak(e *embedding.Embedding, avail dimen.Dimen) int {
	var cum dimen.Dimen
	n := 0
	for l := 0; l < e.Len(); l++ {
		cum += e.Advance(e.Visual(l))
		if cum > avail {
			break
		}
		n = l + 1
	}
	return n
}

// --- Visual order ----------------------------------------------------------

// resetLineEnd moves whitespace and breaks at the logical end of a line to
// the paragraph level (UBA rule L1). The glyphs concerned are split off
// into embeddings of their own.
func resetLineEnd(ln *line, plevel int) {
	for k := len(ln.embeddings) - 1; k >= 0; k-- {
		e := ln.embeddings[k]
		n := 0
		for l := e.Len() - 1; l >= 0; l-- {
			g := e.Glyph(e.Visual(l))
			if !g.Blank && !g.MustBreak {
				break
			}
			n++
		}
		if n == 0 && e.Len() > 0 {
			return
		}
		if e.Level() != plevel && n > 0 {
			if n == e.Len() {
				e.Relevel(plevel)
			} else {
				trail, head := e.SplitAt(e.Len() - n)
				trail.Relevel(plevel)
				tail := append([]*embedding.Embedding{head, trail}, ln.embeddings[k+1:]...)
				ln.embeddings = append(ln.embeddings[:k], tail...)
				return
			}
		}
		if n < e.Len() {
			return
		}
	}
}

// maxBidiDepth limits the nesting of bidi levels.
const maxBidiDepth = 125

type levelFrame struct {
	level int
	start int
}

// rearrange brings the embeddings of a line into visual order. Sequences
// of embeddings at a level of at least k are reversed, for every k from the
// highest level down to the lowest odd level of the line.
func rearrange(embeddings []*embedding.Embedding) {
	if len(embeddings) < 2 {
		return
	}
	minLevel := maxBidiDepth
	for _, e := range embeddings {
		if l := e.Level(); l < minLevel {
			minLevel = l
		}
	}
	base := (minLevel | 1) - 1 // frames are opened for levels above base
	stack := arraystack.New()
	top := func() int {
		if f, ok := stack.Peek(); ok {
			return f.(levelFrame).level
		}
		return base
	}
	for i := 0; i <= len(embeddings); i++ {
		level := base
		if i < len(embeddings) {
			level = embeddings[i].Level()
			if level > maxBidiDepth {
				level = maxBidiDepth
			}
		}
		for top() > level {
			f, _ := stack.Pop()
			reverse(embeddings[f.(levelFrame).start:i])
		}
		for l := top() + 1; l <= level; l++ {
			stack.Push(levelFrame{level: l, start: i})
		}
	}
}

func reverse(embeddings []*embedding.Embedding) {
	for i, j := 0, len(embeddings)-1; i < j; i, j = i+1, j-1 {
		embeddings[i], embeddings[j] = embeddings[j], embeddings[i]
	}
}
