// Package message implements the daemon wire format. Both directions use
// the same frame: [8 bytes little-endian length][payload]. The request
// payload is a JSON segment.Command, the response payload a JSON array of
// segment.Segment. There is no magic number or version byte, so client and
// server must come from the same build.
package message

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"zsh-infinite/internal/segment"
)

// MaxFrameSize bounds a single payload. Legitimate frames are a few hundred
// bytes; the limit stops a garbage length from allocating gigabytes.
const MaxFrameSize = 1 << 20

// ErrFrameTooLarge is returned by ReadFrame for lengths above MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame too large")

// WriteFrame writes one length-prefixed frame.
func WriteFrame(w io.Writer, payload []byte) error {
	frame := make([]byte, 8+len(payload))
	binary.LittleEndian.PutUint64(frame[:8], uint64(len(payload)))
	copy(frame[8:], payload)
	_, err := w.Write(frame)
	return err
}

// ReadFrame reads exactly one length-prefixed frame.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read length: %w", err)
	}
	length := binary.LittleEndian.Uint64(header[:])
	if length > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return payload, nil
}

// EncodeCommand encodes a request payload.
func EncodeCommand(cmd segment.Command) ([]byte, error) {
	return json.Marshal(cmd)
}

// DecodeCommand decodes a request payload.
func DecodeCommand(data []byte) (segment.Command, error) {
	var cmd segment.Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return segment.Command{}, fmt.Errorf("decode command: %w", err)
	}
	if cmd.Kind == "" {
		return segment.Command{}, fmt.Errorf("decode command: missing kind")
	}
	return cmd, nil
}

// EncodeSegments encodes a response payload. A nil list encodes as an empty
// array so the peer never has to tell "null" from "[]".
func EncodeSegments(segs []segment.Segment) ([]byte, error) {
	if segs == nil {
		segs = []segment.Segment{}
	}
	return json.Marshal(segs)
}

// DecodeSegments decodes a response payload.
func DecodeSegments(data []byte) ([]segment.Segment, error) {
	var segs []segment.Segment
	if err := json.Unmarshal(data, &segs); err != nil {
		return nil, fmt.Errorf("decode segments: %w", err)
	}
	return segs, nil
}

// SendRequest writes a framed command.
func SendRequest(w io.Writer, cmd segment.Command) error {
	payload, err := EncodeCommand(cmd)
	if err != nil {
		return err
	}
	return WriteFrame(w, payload)
}

// ReadRequest reads a framed command.
func ReadRequest(r io.Reader) (segment.Command, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return segment.Command{}, err
	}
	return DecodeCommand(payload)
}

// SendResponse writes a framed segment list.
func SendResponse(w io.Writer, segs []segment.Segment) error {
	payload, err := EncodeSegments(segs)
	if err != nil {
		return err
	}
	return WriteFrame(w, payload)
}

// ReadResponse reads a framed segment list.
func ReadResponse(r io.Reader) ([]segment.Segment, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	return DecodeSegments(payload)
}
