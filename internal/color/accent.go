package color

import (
	"fmt"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Stop is one gradient color stop. Pos is expected in [0,1].
type Stop struct {
	Color Color   `yaml:"color" json:"color"`
	Pos   float64 `yaml:"pos" json:"pos"`
}

// AccentMode selects how an Accent varies with progress.
type AccentMode uint8

const (
	AccentSingle AccentMode = iota
	AccentRainbow
	AccentGradient
)

// Accent is a color, or a function of progress in [0,1] producing one.
type Accent struct {
	Mode  AccentMode
	Base  Color  // Single color, or the Rainbow starting color
	Stops []Stop // Gradient stops
}

// Single returns a constant accent.
func Single(c Color) Accent { return Accent{Mode: AccentSingle, Base: c} }

// NewRainbow returns an accent rotating the hue of base once across [0,1].
func NewRainbow(base Color) Accent { return Accent{Mode: AccentRainbow, Base: base} }

// NewGradient returns a multi-stop gradient accent.
func NewGradient(stops ...Stop) Accent { return Accent{Mode: AccentGradient, Stops: stops} }

// At samples the accent at progress p.
func (a Accent) At(p float64) Color {
	switch a.Mode {
	case AccentRainbow:
		return Rainbow(a.Base, p)
	case AccentGradient:
		return Gradient(a.Stops, p)
	default:
		return a.Base
	}
}

// Rainbow rotates the hue of base by p full turns, keeping saturation and
// lightness.
func Rainbow(base Color, p float64) Color {
	h, s, l := base.Colorful().Hsl()
	hue := math.Mod(h+p*360, 360)
	if hue < 0 {
		hue += 360
	}
	return FromColorful(colorful.Hsl(hue, s, l))
}

// Gradient linearly interpolates between the stops bracketing p. Stops are
// sorted by position first; p outside the covered range clamps to the end
// stop. With no stops the result is White.
func Gradient(stops []Stop, p float64) Color {
	switch len(stops) {
	case 0:
		return White
	case 1:
		return stops[0].Color
	}

	sorted := make([]Stop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Pos < sorted[j].Pos })

	first, last := sorted[0], sorted[len(sorted)-1]
	if p <= first.Pos {
		return first.Color
	}
	if p >= last.Pos {
		return last.Color
	}

	for i := 0; i < len(sorted)-1; i++ {
		lo, hi := sorted[i], sorted[i+1]
		if p < lo.Pos || p > hi.Pos {
			continue
		}
		if p == lo.Pos {
			return lo.Color
		}
		if p == hi.Pos || hi.Pos == lo.Pos {
			return hi.Color
		}
		t := (p - lo.Pos) / (hi.Pos - lo.Pos)
		return FromColorful(lo.Color.Colorful().BlendRgb(hi.Color.Colorful(), t))
	}
	return first.Color
}

// accentDoc is the YAML/JSON shape of an Accent: exactly one key set.
type accentDoc struct {
	Single   *Color `yaml:"single,omitempty" json:"single,omitempty"`
	Rainbow  *Color `yaml:"rainbow,omitempty" json:"rainbow,omitempty"`
	Gradient []Stop `yaml:"gradient,omitempty" json:"gradient,omitempty"`
}

func (a Accent) doc() accentDoc {
	switch a.Mode {
	case AccentRainbow:
		base := a.Base
		return accentDoc{Rainbow: &base}
	case AccentGradient:
		return accentDoc{Gradient: a.Stops}
	default:
		base := a.Base
		return accentDoc{Single: &base}
	}
}

func (a *Accent) fromDoc(d accentDoc) error {
	set := 0
	if d.Single != nil {
		set++
		*a = Single(*d.Single)
	}
	if d.Rainbow != nil {
		set++
		*a = NewRainbow(*d.Rainbow)
	}
	if d.Gradient != nil {
		set++
		*a = NewGradient(d.Gradient...)
	}
	if set != 1 {
		return fmt.Errorf("accent: exactly one of single, rainbow, gradient must be set (got %d)", set)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a Accent) MarshalYAML() (interface{}, error) { return a.doc(), nil }

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Accent) UnmarshalYAML(value *yaml.Node) error {
	var d accentDoc
	if err := value.Decode(&d); err != nil {
		return err
	}
	return a.fromDoc(d)
}
