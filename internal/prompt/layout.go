package prompt

import (
	"os"
	"strconv"

	"golang.org/x/term"

	"zsh-infinite/internal/termstyle"
	"zsh-infinite/internal/theme"
)

// DefaultWidth is used when no terminal or COLUMNS says otherwise.
const DefaultWidth = 80

// TerminalWidth returns the width of the first terminal among stdout, stderr
// and stdin, then $COLUMNS, then DefaultWidth. Prompt output is captured by
// zsh, so stdout alone is usually not a terminal.
func TerminalWidth() int {
	return widthFrom([]*os.File{os.Stdout, os.Stderr, os.Stdin}, os.Getenv("COLUMNS"))
}

func widthFrom(files []*os.File, columns string) int {
	for _, f := range files {
		if f == nil {
			continue
		}
		fd := int(f.Fd())
		if !term.IsTerminal(fd) {
			continue
		}
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if n, err := strconv.Atoi(columns); err == nil && n > 0 {
		return n
	}
	return DefaultWidth
}

// fillWidth is the number of columns the connector occupies between the two
// halves of a row, never negative.
func fillWidth(width, left, right, decoration int) int {
	n := width - left - right - decoration
	if n < 0 {
		return 0
	}
	return n
}

// layout stacks the rows. Each row is framed by corner glyphs in the primary
// color with the halves pushed to the edges by the connector fill; a closing
// row leaves the cursor after the bottom corner.
func (e *Engine) layout(lines []theme.Line, rows []row, width int) string {
	out := e.builder()
	for i, l := range lines {
		f := l.Connection.Frame()
		cornerL, cornerR := f.TopLeft, f.TopRight
		if i > 0 {
			cornerL, cornerR = f.CrossLeft, f.CrossRight
		}

		p := painter{row: rows[i], scheme: l.Color, newB: e.builder}
		left := p.renderLeft(l.AccentWhich, l.LeftSeparators)
		right := p.renderRight(l.AccentWhich, l.RightSeparators)

		vis := func(s string) int { return termstyle.VisibleWidth(s, termstyle.DialectANSI) }
		n := fillWidth(width, left.Width(), right.Width(), vis(cornerL)+vis(cornerR))

		out.Fg(l.Color.PC).Str(cornerL).EndFg()
		out.Append(left)
		out.Fg(l.Color.SC)
		writeFill(out, l.Connection.Glyph(), n)
		out.EndFg()
		out.Append(right)
		out.Fg(l.Color.PC).Str(cornerR).EndFg()
		out.Newline()
	}

	last := lines[len(lines)-1]
	f := last.Connection.Frame()
	out.Fg(last.Color.PC).Str(f.BottomLeft + f.Horizontal).EndFg().Str(" ")
	return out.String()
}

// writeFill covers exactly n columns with glyph, padding with spaces when
// the glyph is wider than one column.
func writeFill(b *termstyle.Builder, glyph string, n int) {
	gw := termstyle.VisibleWidth(glyph, termstyle.DialectANSI)
	if gw <= 0 {
		b.Repeat(" ", n)
		return
	}
	b.Repeat(glyph, n/gw)
	b.Repeat(" ", n%gw)
}
