package message

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"zsh-infinite/internal/color"
	"zsh-infinite/internal/segment"
)

func TestFrame_LayoutIsLittleEndianU64(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, []byte("abc")); err != nil {
		t.Fatal(err)
	}
	want := []byte{3, 0, 0, 0, 0, 0, 0, 0, 'a', 'b', 'c'}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("frame = %v, want %v", buf.Bytes(), want)
	}
}

func TestFrame_RoundTrip(t *testing.T) {
	for _, payload := range [][]byte{{}, []byte("x"), bytes.Repeat([]byte("z"), 4096)} {
		var buf bytes.Buffer
		if err := WriteFrame(&buf, payload); err != nil {
			t.Fatal(err)
		}
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame: %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("payload len %d: got %d bytes", len(payload), len(got))
		}
	}
}

func TestReadFrame_TooLarge(t *testing.T) {
	header := make([]byte, 8)
	binary.LittleEndian.PutUint64(header, MaxFrameSize+1)
	_, err := ReadFrame(bytes.NewReader(header))
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("err = %v, want ErrFrameTooLarge", err)
	}
}

func TestReadFrame_Truncated(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", []byte{1, 0, 0}},
		{"short payload", []byte{5, 0, 0, 0, 0, 0, 0, 0, 'a', 'b'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrame(bytes.NewReader(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Errorf("err = %v, want EOF-class error", err)
			}
		})
	}
}

func TestCommand_RoundTripEveryKind(t *testing.T) {
	for _, k := range segment.Kinds {
		cmd := segment.Command{Kind: k, Dir: "/home/alice/src", Status: 2, Format: "15:04"}
		var buf bytes.Buffer
		if err := SendRequest(&buf, cmd); err != nil {
			t.Fatal(err)
		}
		got, err := ReadRequest(&buf)
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		if got != cmd {
			t.Errorf("round trip = %+v, want %+v", got, cmd)
		}
	}
}

func TestDecodeCommand_Invalid(t *testing.T) {
	for _, in := range []string{"", "not json", `{"dir":"/"}`} {
		if _, err := DecodeCommand([]byte(in)); err == nil {
			t.Errorf("DecodeCommand(%q): expected error", in)
		}
	}
}

func TestSegments_RoundTrip(t *testing.T) {
	many := []segment.Segment{
		segment.New("~/src"),
		segment.Colored("main", color.Magenta),
		segment.Colored("+1", color.RGB(1, 2, 3)),
		segment.Colored("?2", color.Code256(208)),
	}
	tests := []struct {
		name string
		segs []segment.Segment
		want []segment.Segment
	}{
		{"nil", nil, []segment.Segment{}},
		{"zero", []segment.Segment{}, []segment.Segment{}},
		{"one", many[:1], many[:1]},
		{"many", many, many},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := SendResponse(&buf, tt.segs); err != nil {
				t.Fatal(err)
			}
			got, err := ReadResponse(&buf)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
