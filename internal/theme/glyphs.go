package theme

import "fmt"

// Separation is a segment separator style.
type Separation string

const (
	SepBlock     Separation = "Block"
	SepSharp     Separation = "Sharp"
	SepSlash     Separation = "Slash"
	SepBackSlash Separation = "BackSlash"
	SepRound     Separation = "Round"
	SepBlur      Separation = "Blur"
	SepFlame     Separation = "Flame"
	SepPixel     Separation = "Pixel"
	SepWave      Separation = "Wave"
	SepLego      Separation = "Lego"
)

// Separations lists every separator style.
var Separations = []Separation{SepBlock, SepSharp, SepSlash, SepBackSlash, SepRound, SepBlur, SepFlame, SepPixel, SepWave, SepLego}

// Pair holds the glyph used on the left side of a boundary and the one used
// on the right side.
type Pair struct {
	Left, Right string
}

// Box glyphs are solid shapes: their foreground paints one neighbour and
// their background the other.
var boxGlyphs = map[Separation]Pair{
	SepBlock:     {" ", " "},
	SepSharp:     {"\ue0b0", "\ue0b2"},
	SepSlash:     {"\ue0bc", "\ue0ba"},
	SepBackSlash: {"\ue0b8", "\ue0be"},
	SepRound:     {"\ue0b4", "\ue0b6"},
	SepBlur:      {"▓▒░", "░▒▓"},
	SepFlame:     {"\ue0c0", "\ue0c2"},
	SepPixel:     {"\ue0c6", "\ue0c7"},
	SepWave:      {"\ue0c8", "\ue0ca"},
	SepLego:      {"\ue0b0", "\ue0b2"},
}

// Line glyphs are thin outlines drawn over a single background.
var lineGlyphs = map[Separation]Pair{
	SepBlock:     {"|", "|"},
	SepSharp:     {"\ue0b1", "\ue0b3"},
	SepSlash:     {"╱", "╱"},
	SepBackSlash: {"╲", "╲"},
	SepRound:     {"\ue0b5", "\ue0b7"},
	SepBlur:      {"░", "░"},
	SepFlame:     {"\ue0c1", "\ue0c3"},
	SepPixel:     {"\ue0c4", "\ue0c5"},
	SepWave:      {"\ue0c9", "\ue0cb"},
	SepLego:      {"\ue0b1", "\ue0b3"},
}

// Box returns the solid glyph pair. Unknown styles fall back to Sharp.
func (s Separation) Box() Pair {
	if p, ok := boxGlyphs[s]; ok {
		return p
	}
	return boxGlyphs[SepSharp]
}

// Line returns the thin glyph pair. Unknown styles fall back to Sharp.
func (s Separation) Line() Pair {
	if p, ok := lineGlyphs[s]; ok {
		return p
	}
	return lineGlyphs[SepSharp]
}

func (s *Separation) UnmarshalText(text []byte) error {
	for _, v := range Separations {
		if string(text) == string(v) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown separator %q", text)
}

// Connection is the connector style used for the fill between the two
// halves of a row and for the frame drawn around the rows.
type Connection string

const (
	ConnNone     Connection = "None"
	ConnLine     Connection = "Line"
	ConnDouble   Connection = "Double"
	ConnBold     Connection = "Bold"
	ConnDashed   Connection = "Dashed"
	ConnDotted   Connection = "Dotted"
	ConnDot      Connection = "Dot"
	ConnBullet   Connection = "Bullet"
	ConnWave     Connection = "Wave"
	ConnZigZag   Connection = "ZigZag"
	ConnBar      Connection = "Bar"
	ConnGradient Connection = "Gradient"
)

// Connections lists every connector style.
var Connections = []Connection{ConnNone, ConnLine, ConnDouble, ConnBold, ConnDashed, ConnDotted, ConnDot, ConnBullet, ConnWave, ConnZigZag, ConnBar, ConnGradient}

var connGlyphs = map[Connection]string{
	ConnNone:     " ",
	ConnLine:     "─",
	ConnDouble:   "═",
	ConnBold:     "━",
	ConnDashed:   "╌",
	ConnDotted:   "┄",
	ConnDot:      "·",
	ConnBullet:   "•",
	ConnWave:     "~",
	ConnZigZag:   "≈",
	ConnBar:      "█",
	ConnGradient: "▒",
}

// Glyph returns the fill glyph.
func (c Connection) Glyph() string {
	if g, ok := connGlyphs[c]; ok {
		return g
	}
	return " "
}

func (c *Connection) UnmarshalText(text []byte) error {
	for _, v := range Connections {
		if string(text) == string(v) {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("unknown connection %q", text)
}

// Frame is the set of box-drawing glyphs around a multi-row prompt.
type Frame struct {
	TopLeft, TopRight       string
	BottomLeft, BottomRight string
	Horizontal, Vertical    string
	CrossLeft, CrossRight   string
}

// Frame returns the frame glyphs matching c.
func (c Connection) Frame() Frame {
	switch c {
	case ConnDouble:
		return Frame{"╔", "╗", "╚", "╝", "═", "║", "╠", "╣"}
	case ConnBold:
		return Frame{"┏", "┓", "┗", "┛", "━", "┃", "┣", "┫"}
	case ConnLine, ConnDashed, ConnDotted:
		return Frame{"┌", "┐", "└", "┘", "─", "│", "├", "┤"}
	case ConnBar:
		return Frame{"", "", "", "", "█", "█", "█", "█"}
	default:
		return Frame{"╭", "╮", "╰", "╯", c.Glyph(), "│", "├", "┤"}
	}
}
