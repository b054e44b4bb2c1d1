package color

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestGradient_ExactAtStops(t *testing.T) {
	stops := []Stop{
		{RGB(255, 0, 0), 0},
		{RGB(0, 255, 0), 0.3},
		{Code256(33), 0.6},
		{RGB(0, 0, 255), 1},
	}
	for _, s := range stops {
		if got := Gradient(stops, s.Pos); got != s.Color {
			t.Errorf("Gradient at %v = %v, want %v", s.Pos, got, s.Color)
		}
	}
}

func TestGradient_Clamps(t *testing.T) {
	stops := []Stop{{RGB(10, 10, 10), 0.2}, {RGB(200, 200, 200), 0.8}}
	tests := []struct {
		p    float64
		want Color
	}{
		{-1, RGB(10, 10, 10)},
		{0, RGB(10, 10, 10)},
		{0.2, RGB(10, 10, 10)},
		{0.8, RGB(200, 200, 200)},
		{1, RGB(200, 200, 200)},
		{7, RGB(200, 200, 200)},
	}
	for _, tt := range tests {
		if got := Gradient(stops, tt.p); got != tt.want {
			t.Errorf("Gradient(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestGradient_SortsStops(t *testing.T) {
	unsorted := []Stop{{RGB(0, 0, 255), 1}, {RGB(255, 0, 0), 0}}
	if got := Gradient(unsorted, 0); got != RGB(255, 0, 0) {
		t.Errorf("Gradient(0) = %v, want red", got)
	}
	if got := Gradient(unsorted, 1); got != RGB(0, 0, 255) {
		t.Errorf("Gradient(1) = %v, want blue", got)
	}
	if unsorted[0].Pos != 1 {
		t.Error("Gradient must not reorder the caller's slice")
	}
}

func TestGradient_Midpoint(t *testing.T) {
	stops := []Stop{{RGB(0, 0, 0), 0}, {RGB(200, 100, 50), 1}}
	got := Gradient(stops, 0.5)
	if got != RGB(100, 50, 25) {
		t.Errorf("Gradient(0.5) = %v, want FullColor(100,50,25)", got)
	}
}

func TestGradient_SingleAndEmpty(t *testing.T) {
	one := []Stop{{Cyan, 0.4}}
	for _, p := range []float64{0, 0.4, 1} {
		if got := Gradient(one, p); got != Cyan {
			t.Errorf("single-stop Gradient(%v) = %v", p, got)
		}
	}
	if got := Gradient(nil, 0.5); got != White {
		t.Errorf("empty Gradient = %v, want White", got)
	}
}

func TestGradient_DuplicatePositions(t *testing.T) {
	stops := []Stop{{RGB(1, 1, 1), 0}, {RGB(2, 2, 2), 0.5}, {RGB(3, 3, 3), 0.5}, {RGB(4, 4, 4), 1}}
	got := Gradient(stops, 0.5)
	if got != RGB(2, 2, 2) && got != RGB(3, 3, 3) {
		t.Errorf("Gradient at duplicate stop = %v", got)
	}
}

func TestRainbow(t *testing.T) {
	red := RGB(255, 0, 0)
	tests := []struct {
		p    float64
		want Color
	}{
		{0, RGB(255, 0, 0)},
		{1.0 / 3, RGB(0, 255, 0)},
		{2.0 / 3, RGB(0, 0, 255)},
		{1, RGB(255, 0, 0)},
	}
	for _, tt := range tests {
		if got := Rainbow(red, tt.p); got != tt.want {
			t.Errorf("Rainbow(red, %v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestAccent_At(t *testing.T) {
	if got := Single(Blue).At(0.7); got != Blue {
		t.Errorf("Single.At = %v", got)
	}
	if got := NewRainbow(RGB(255, 0, 0)).At(0); got != RGB(255, 0, 0) {
		t.Errorf("Rainbow.At(0) = %v", got)
	}
	if got := NewGradient().At(0.5); got != White {
		t.Errorf("empty gradient At = %v", got)
	}
}

func TestAccent_YAML(t *testing.T) {
	tests := []struct {
		name string
		in   Accent
		want string
	}{
		{"single", Single(LightBlack), "single: LightBlack\n"},
		{"rainbow", NewRainbow(RGB(255, 0, 0)), "rainbow: FullColor(255,0,0)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := yaml.Marshal(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("yaml = %q, want %q", data, tt.want)
			}
			var out Accent
			if err := yaml.Unmarshal(data, &out); err != nil {
				t.Fatal(err)
			}
			if out.Mode != tt.in.Mode || out.Base != tt.in.Base {
				t.Errorf("round trip = %+v, want %+v", out, tt.in)
			}
		})
	}
}

func TestAccent_YAMLGradient(t *testing.T) {
	src := `gradient:
  - color: FullColor(255,0,0)
    pos: 0
  - color: "#0000ff"
    pos: 1
`
	var a Accent
	if err := yaml.Unmarshal([]byte(src), &a); err != nil {
		t.Fatal(err)
	}
	if a.Mode != AccentGradient || len(a.Stops) != 2 {
		t.Fatalf("decoded %+v", a)
	}
	if a.Stops[1].Color != RGB(0, 0, 255) {
		t.Errorf("stop 1 = %v", a.Stops[1].Color)
	}
}

func TestAccent_YAMLRejectsAmbiguous(t *testing.T) {
	var a Accent
	err := yaml.Unmarshal([]byte("single: Red\nrainbow: Blue\n"), &a)
	if err == nil || !strings.Contains(err.Error(), "exactly one") {
		t.Errorf("expected exactly-one error, got %v", err)
	}
	if err := yaml.Unmarshal([]byte("{}"), &a); err == nil {
		t.Error("expected error for empty accent")
	}
}
