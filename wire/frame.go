package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"village-chat/errors"
)

type FrameType uint8

const (
	// FrameHello opens every link and carries the sender's display name.
	FrameHello FrameType = 0x01
	// FrameText carries one UTF-8 chat payload.
	FrameText FrameType = 0x02
)

const MaxPayload = 0xFFFF

const headerSize = 3

// Frame is a 1-byte type followed by a big-endian uint16 payload length.
type Frame struct {
	Type    FrameType
	Payload []byte
}

func Hello(name string) Frame {
	return Frame{Type: FrameHello, Payload: []byte(name)}
}

func Text(payload []byte) Frame {
	return Frame{Type: FrameText, Payload: payload}
}

// MarshalBinary is used by message-oriented transports (one frame per message).
func (f Frame) MarshalBinary() ([]byte, error) {
	if len(f.Payload) > MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes", errors.ErrFrameTooLarge, len(f.Payload))
	}
	buf := make([]byte, headerSize+len(f.Payload))
	buf[0] = byte(f.Type)
	binary.BigEndian.PutUint16(buf[1:headerSize], uint16(len(f.Payload)))
	copy(buf[headerSize:], f.Payload)
	return buf, nil
}

func (f *Frame) UnmarshalBinary(b []byte) error {
	if len(b) < headerSize {
		return io.ErrUnexpectedEOF
	}
	length := int(binary.BigEndian.Uint16(b[1:headerSize]))
	if len(b)-headerSize != length {
		return fmt.Errorf("frame length %d does not match %d payload bytes", length, len(b)-headerSize)
	}
	f.Type = FrameType(b[0])
	f.Payload = append([]byte(nil), b[headerSize:]...)
	return nil
}

// WriteFrame writes exactly one frame to a stream.
func WriteFrame(w io.Writer, f Frame) error {
	buf, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// ReadFrame reads exactly one frame from a stream.
func ReadFrame(r io.Reader) (Frame, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Frame{}, err
	}
	f := Frame{Type: FrameType(hdr[0])}
	length := binary.BigEndian.Uint16(hdr[1:headerSize])
	if length > 0 {
		f.Payload = make([]byte, length)
		if _, err := io.ReadFull(r, f.Payload); err != nil {
			return Frame{}, err
		}
	}
	return f, nil
}

// ReadHello reads the first frame of a link and returns the advertised name.
func ReadHello(r io.Reader) (string, error) {
	f, err := ReadFrame(r)
	if err != nil {
		return "", err
	}
	if f.Type != FrameHello {
		return "", fmt.Errorf("%w: got 0x%02x, want hello", errors.ErrUnexpectedFrame, byte(f.Type))
	}
	return string(f.Payload), nil
}
