// Package wire defines the bytes exchanged between peers: UTF-8 chat text and,
// for stream transports, the frames that carry it.
package wire

import (
	"fmt"
	"unicode/utf8"

	"village-chat/errors"
)

// EncodeText returns the UTF-8 bytes of a chat line.
func EncodeText(text string) []byte {
	return []byte(text)
}

// DecodeText rejects anything that is not valid UTF-8.
func DecodeText(payload []byte) (string, error) {
	if !utf8.Valid(payload) {
		return "", fmt.Errorf("%w: %d bytes", errors.ErrDecodeFailed, len(payload))
	}
	return string(payload), nil
}
