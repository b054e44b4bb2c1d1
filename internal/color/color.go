// Package color holds the theme color values and the accent math
// (rainbow hue rotation and multi-stop gradients).
package color

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Kind distinguishes the three color encodings a theme may use.
type Kind uint8

const (
	KindNamed Kind = iota // one of the 16 ANSI colors
	Kind256               // xterm 256-color palette index
	KindRGB               // 24-bit color
)

// Color is a terminal color. The zero value is Black.
type Color struct {
	kind    Kind
	code    uint8
	r, g, b uint8
}

var names = [16]string{
	"Black", "Red", "Green", "Yellow", "Blue", "Magenta", "Cyan", "White",
	"LightBlack", "LightRed", "LightGreen", "LightYellow", "LightBlue", "LightMagenta", "LightCyan", "LightWhite",
}

var (
	Black        = Named(0)
	Red          = Named(1)
	Green        = Named(2)
	Yellow       = Named(3)
	Blue         = Named(4)
	Magenta      = Named(5)
	Cyan         = Named(6)
	White        = Named(7)
	LightBlack   = Named(8)
	LightRed     = Named(9)
	LightGreen   = Named(10)
	LightYellow  = Named(11)
	LightBlue    = Named(12)
	LightMagenta = Named(13)
	LightCyan    = Named(14)
	LightWhite   = Named(15)
)

// Named returns the ANSI color with the given index (0-15).
func Named(code uint8) Color { return Color{kind: KindNamed, code: code & 0x0f} }

// Code256 returns a 256-palette color.
func Code256(code uint8) Color { return Color{kind: Kind256, code: code} }

// RGB returns a 24-bit color.
func RGB(r, g, b uint8) Color { return Color{kind: KindRGB, r: r, g: g, b: b} }

// FromColorful converts a colorful.Color, clamping out-of-gamut values.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return RGB(r, g, b)
}

// Equal reports whether two colors have the same encoding and value.
func (c Color) Equal(o Color) bool { return c == o }

// Kind reports the encoding of c.
func (c Color) Kind() Kind { return c.kind }

// Code returns the palette index of a named or 256 color, and 0 for RGB.
func (c Color) Code() uint8 { return c.code }

// RGB255 returns the 8-bit channels of c. Named and palette colors are
// mapped through the standard xterm palette.
func (c Color) RGB255() (r, g, b uint8) {
	if c.kind == KindRGB {
		return c.r, c.g, c.b
	}
	return c.Colorful().RGB255()
}

// Colorful returns c in go-colorful's float representation.
func (c Color) Colorful() colorful.Color {
	if c.kind == KindRGB {
		return colorful.Color{R: float64(c.r) / 255, G: float64(c.g) / 255, B: float64(c.b) / 255}
	}
	return termenv.ConvertToRGB(c.Termenv())
}

// Termenv returns the termenv color used to build escape sequences.
func (c Color) Termenv() termenv.Color {
	switch c.kind {
	case Kind256:
		return termenv.ANSI256Color(c.code)
	case KindRGB:
		return termenv.RGBColor(c.Hex())
	default:
		return termenv.ANSIColor(c.code)
	}
}

// Hex returns the #rrggbb form of c.
func (c Color) Hex() string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// String returns the theme-document form: "Cyan", "Code256(208)" or
// "FullColor(255,128,0)".
func (c Color) String() string {
	switch c.kind {
	case Kind256:
		return fmt.Sprintf("Code256(%d)", c.code)
	case KindRGB:
		return fmt.Sprintf("FullColor(%d,%d,%d)", c.r, c.g, c.b)
	default:
		return names[c.code]
	}
}

// Parse reads a color in any of the forms produced by String, or "#rrggbb".
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(s)
	for i, n := range names {
		if s == n {
			return Named(uint8(i)), nil
		}
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		return FromColorful(c), nil
	}

	if inner, ok := call(s, "Code256"); ok {
		n, err := strconv.ParseUint(strings.TrimSpace(inner), 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid Code256 format: %w", err)
		}
		return Code256(uint8(n)), nil
	}

	if inner, ok := call(s, "FullColor"); ok {
		parts := strings.Split(inner, ",")
		if len(parts) != 3 {
			return Color{}, fmt.Errorf("invalid FullColor format: %s. Expected FullColor(r,g,b)", s)
		}
		var ch [3]uint8
		for i, p := range parts {
			n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return Color{}, fmt.Errorf("invalid FullColor format (%c): %w", "RGB"[i], err)
			}
			ch[i] = uint8(n)
		}
		return RGB(ch[0], ch[1], ch[2]), nil
	}

	return Color{}, fmt.Errorf("unknown color %q", s)
}

// call matches "name(inner)" and returns inner.
func call(s, name string) (string, bool) {
	if !strings.HasPrefix(s, name+"(") || !strings.HasSuffix(s, ")") {
		return "", false
	}
	return s[len(name)+1 : len(s)-1], true
}

// MarshalText implements encoding.TextMarshaler (used by both yaml.v3 and
// encoding/json).
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
