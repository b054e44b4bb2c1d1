package prompt

import (
	"zsh-infinite/internal/color"
	"zsh-infinite/internal/segment"
	"zsh-infinite/internal/termstyle"
	"zsh-infinite/internal/theme"
)

// content is one source's output: its segments drawn as a single padded
// item between two separators.
type content []segment.Segment

// row holds the acquired contents of both halves of one prompt line.
//
// The accent is sampled at slot positions. A non-empty half of n items has
// n+1 slots (its items plus the cap), an empty half has none.
type row struct {
	left, right []content
}

func (r row) leftSlots() int {
	if len(r.left) == 0 {
		return 0
	}
	return len(r.left) + 1
}

func (r row) rightSlots() int {
	if len(r.right) == 0 {
		return 0
	}
	return len(r.right) + 1
}

// painter renders the halves of one row for one line's style.
type painter struct {
	row
	scheme theme.ColorScheme
	newB   func() *termstyle.Builder
}

func (p painter) acc(pos float64) color.Color { return p.scheme.Accent.At(pos) }

// writeContent draws one item on the current background: a space, the
// segment texts separated by spaces, a space.
func (p painter) writeContent(b *termstyle.Builder, c content) {
	b.Str(" ")
	for i, s := range c {
		if i > 0 {
			b.Str(" ")
		}
		fg := p.scheme.FG
		if s.Color != nil {
			fg = *s.Color
		}
		b.Fg(fg).Str(s.Text).EndFg()
	}
	b.Str(" ")
}

func (p painter) renderLeft(which theme.AccentWhich, seps theme.Separators) *termstyle.Builder {
	if which == theme.AccentBackground {
		return p.renderLeftBG(seps)
	}
	return p.renderLeftFG(seps)
}

func (p painter) renderRight(which theme.AccentWhich, seps theme.Separators) *termstyle.Builder {
	if which == theme.AccentBackground {
		return p.renderRightBG(seps)
	}
	return p.renderRightFG(seps)
}

// renderLeftFG draws contents on the flat background with accent colored
// separators.
func (p painter) renderLeftFG(seps theme.Separators) *termstyle.Builder {
	b := p.newB()
	if len(p.left) == 0 {
		return b
	}
	bg := p.scheme.BG
	total := float64(p.leftSlots() + p.rightSlots() + 1)
	start, mid, end := seps.Start.Box(), seps.Mid, seps.End.Box()

	if seps.EdgeCap {
		c := p.acc(0)
		b.Fg(c).Str(start.Right).EndFg().
			Bg(c).Fg(bg).Str(start.Right).EndFg().EndBg()
	} else {
		b.Fg(bg).Str(start.Right).EndFg()
	}

	for i, c := range p.left {
		b.Bg(bg)
		p.writeContent(b, c)
		b.EndBg()
		if i == len(p.left)-1 {
			break
		}
		sep := p.acc(float64(i+1) / total)
		if seps.BoldSeparation {
			b.Fg(bg).Bg(sep).Str(mid.Box().Left).
				Bg(bg).Fg(sep).Str(mid.Box().Left).EndFg().EndBg()
		} else {
			b.Bg(bg).Fg(sep).Str(mid.Line().Left).EndFg().EndBg()
		}
	}

	if seps.EdgeCap {
		c := p.acc(float64(p.leftSlots()) / total)
		b.Fg(bg).Bg(c).Str(end.Left).EndBg().
			Fg(c).Str(end.Left).EndFg()
	} else {
		b.Fg(bg).EndBg().Str(end.Left).EndFg()
	}
	return b
}

// renderLeftBG gives every content its own accent background.
func (p painter) renderLeftBG(seps theme.Separators) *termstyle.Builder {
	b := p.newB()
	if len(p.left) == 0 {
		return b
	}
	bg := p.scheme.BG
	total := float64(len(p.left) + len(p.right))
	start, mid, end := seps.Start.Box(), seps.Mid.Box(), seps.End.Box()

	first := p.acc(0)
	if seps.EdgeCap {
		b.Fg(bg).Str(start.Right).EndFg().
			Bg(bg).Fg(first).Str(start.Right).EndFg().EndBg()
	} else {
		b.Fg(first).Str(start.Right).EndFg()
	}

	for i, c := range p.left {
		cur := p.acc(float64(i) / total)
		b.Bg(cur)
		p.writeContent(b, c)
		b.EndBg()
		if i == len(p.left)-1 {
			break
		}
		if seps.BoldSeparation {
			next := p.acc(float64(i+1) / total)
			b.Fg(cur).Bg(bg).Str(mid.Left).
				Bg(next).Fg(bg).Str(mid.Left).EndFg().EndBg()
		} else {
			b.Fg(cur).Bg(bg).Str(mid.Left).EndFg().EndBg()
		}
	}

	last := p.acc(float64(len(p.left)-1) / total)
	if seps.EdgeCap {
		b.Fg(last).Bg(bg).Str(end.Left).EndBg().
			Fg(bg).Str(end.Left).EndFg()
	} else {
		b.Fg(last).EndBg().Str(end.Left).EndFg()
	}
	return b
}

// renderRightFG mirrors renderLeftFG; its slots continue after the left
// half's.
func (p painter) renderRightFG(seps theme.Separators) *termstyle.Builder {
	b := p.newB()
	if len(p.right) == 0 {
		return b
	}
	bg := p.scheme.BG
	ls := p.leftSlots()
	total := float64(ls + p.rightSlots() + 1)
	start, mid, end := seps.Start.Box(), seps.Mid, seps.End.Box()

	if seps.EdgeCap {
		c := p.acc(float64(ls+1) / total)
		b.Fg(c).Str(start.Right).EndFg().
			Bg(c).Fg(bg).Str(start.Right).EndFg().EndBg()
	} else {
		b.Fg(bg).Str(start.Right).EndFg()
	}

	for i, c := range p.right {
		b.Bg(bg)
		p.writeContent(b, c)
		b.EndBg()
		if i == len(p.right)-1 {
			break
		}
		sep := p.acc(float64(ls+i+2) / total)
		if seps.BoldSeparation {
			b.Fg(sep).Bg(bg).Str(mid.Box().Right).
				Fg(bg).Bg(sep).Str(mid.Box().Right).EndFg().EndBg()
		} else {
			b.Bg(bg).Fg(sep).Str(mid.Line().Right).EndFg().EndBg()
		}
	}

	if seps.EdgeCap {
		c := p.acc(1)
		b.Fg(bg).Bg(c).Str(end.Left).EndBg().
			Fg(c).Str(end.Left).EndFg()
	} else {
		b.Fg(bg).EndBg().Str(end.Left).EndFg()
	}
	return b
}

// renderRightBG mirrors renderLeftBG. Its slot total is the sum of both
// halves' slots.
func (p painter) renderRightBG(seps theme.Separators) *termstyle.Builder {
	b := p.newB()
	if len(p.right) == 0 {
		return b
	}
	bg := p.scheme.BG
	ls := p.leftSlots()
	total := float64(ls + p.rightSlots())
	start, mid, end := seps.Start.Box(), seps.Mid, seps.End.Box()

	first := p.acc(float64(ls+1) / total)
	if seps.EdgeCap {
		b.Fg(bg).Str(start.Right).EndFg().
			Bg(bg).Fg(first).Str(start.Right).EndFg().EndBg()
	} else {
		b.Fg(first).Str(start.Right).EndFg()
	}

	for i, c := range p.right {
		cur := p.acc(float64(ls+i+1) / total)
		b.Bg(cur)
		p.writeContent(b, c)
		b.EndBg()
		if i == len(p.right)-1 {
			break
		}
		next := p.acc(float64(ls+i+2) / total)
		if seps.BoldSeparation {
			b.Fg(bg).Bg(cur).Str(mid.Box().Right).
				Bg(bg).Fg(next).Str(mid.Box().Right).EndFg().EndBg()
		} else {
			b.Bg(next).Fg(bg).Str(mid.Line().Right).EndFg().EndBg()
		}
	}

	last := p.acc(1 - 1/total)
	if seps.EdgeCap {
		b.Fg(last).Bg(bg).Str(end.Left).EndBg().
			Fg(bg).Str(end.Left).EndFg()
	} else {
		b.Fg(last).EndBg().Str(end.Left).EndFg()
	}
	return b
}
