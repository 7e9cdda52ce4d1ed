package protocol

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

// HexToBytes converts a hex string into bytes. Whitespace, colon and dash
// separators are ignored, as is a leading "0x", so captures pasted from
// logs or packet dumps can be fed in directly.
func HexToBytes(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ':' || r == '-' {
			return -1
		}
		return r
	}, s)

	if cleaned == "" {
		return nil, fmt.Errorf("empty hex input")
	}

	data, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}
