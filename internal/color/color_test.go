package color

import (
	"encoding/json"
	"testing"

	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

func TestParse_RoundTrip(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"Black", Black},
		{"Cyan", Cyan},
		{"LightBlack", LightBlack},
		{"LightWhite", LightWhite},
		{"Code256(208)", Code256(208)},
		{"FullColor(255,128,0)", RGB(255, 128, 0)},
		{"FullColor( 1, 2 ,3 )", RGB(1, 2, 3)},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
		again, err := Parse(got.String())
		if err != nil || again != got {
			t.Errorf("Parse(String()) of %v = %v, %v", got, again, err)
		}
	}
}

func TestParse_Hex(t *testing.T) {
	got, err := Parse("#ff8000")
	if err != nil {
		t.Fatal(err)
	}
	if got != RGB(255, 128, 0) {
		t.Errorf("Parse(#ff8000) = %v", got)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "Purple", "Code256(300)", "FullColor(1,2)", "FullColor(a,b,c)", "#zz"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func TestTermenv(t *testing.T) {
	if got := Red.Termenv(); got != termenv.ANSIColor(1) {
		t.Errorf("Red.Termenv() = %#v", got)
	}
	if got := Code256(42).Termenv(); got != termenv.ANSI256Color(42) {
		t.Errorf("Code256(42).Termenv() = %#v", got)
	}
	if got := RGB(1, 2, 3).Termenv(); got != termenv.RGBColor("#010203") {
		t.Errorf("RGB.Termenv() = %#v", got)
	}
}

func TestRGB255_Named(t *testing.T) {
	r, g, b := Black.RGB255()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("Black.RGB255() = %d,%d,%d", r, g, b)
	}
}

func TestColor_YAML(t *testing.T) {
	type doc struct {
		BG Color `yaml:"bg"`
		FG Color `yaml:"fg"`
	}
	in := doc{BG: Code256(236), FG: RGB(10, 20, 30)}
	data, err := yaml.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	want := "bg: Code256(236)\nfg: FullColor(10,20,30)\n"
	if string(data) != want {
		t.Errorf("yaml = %q, want %q", data, want)
	}

	var out doc
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestColor_JSON(t *testing.T) {
	data, err := json.Marshal(Magenta)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"Magenta"` {
		t.Errorf("json = %s", data)
	}
	var c Color
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatal(err)
	}
	if c != Magenta {
		t.Errorf("decoded %v", c)
	}
}
