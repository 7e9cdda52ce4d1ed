package protocol

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
)

// Address sizes
const (
	AddressSize     = 6  // Raw MAC address bytes
	AddressWireSize = 12 // ASCII hex digits on the wire
)

// MACAddress is the raw 6-byte hardware address of an indoor unit
type MACAddress [AddressSize]byte

// String returns the address in colon-separated lower-case form
func (a MACAddress) String() string {
	return a.HardwareAddr().String()
}

// HardwareAddr returns a copy of the address as a net.HardwareAddr
func (a MACAddress) HardwareAddr() net.HardwareAddr {
	hw := make(net.HardwareAddr, AddressSize)
	copy(hw, a[:])
	return hw
}

// Key returns the 12-digit wire form as a string, used to key device metadata
func (a MACAddress) Key() string {
	return string(EncodeAddress(a))
}

// MarshalText implements encoding.TextMarshaler
func (a MACAddress) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *MACAddress) UnmarshalText(text []byte) error {
	parsed, err := ParseMACString(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// AddressCodec converts between raw addresses and their wire representation.
//
// Decode(Encode(x)) == x holds for every address. The reverse is not
// guaranteed: Encode always emits upper-case digits, so a lower-case wire
// field does not survive a round trip byte for byte.
type AddressCodec struct{}

// Decode parses the 12 ASCII hex digits of the wire field
func (AddressCodec) Decode(wire []byte) (MACAddress, error) {
	return DecodeAddress(wire)
}

// Encode renders the address as 12 upper-case ASCII hex digits
func (AddressCodec) Encode(addr MACAddress) []byte {
	return EncodeAddress(addr)
}

// DecodeAddress parses a 12-byte ASCII hex field into a MAC address.
// Digits are case-insensitive.
func DecodeAddress(wire []byte) (MACAddress, error) {
	return decodeAddress(wire, 0)
}

func decodeAddress(wire []byte, base int) (MACAddress, error) {
	var addr MACAddress

	if len(wire) != AddressWireSize {
		return addr, &DecodeError{
			Kind:     ErrKindFormat,
			Field:    "address",
			Offset:   base,
			Value:    uint64(len(wire)),
			Expected: AddressWireSize,
			Message:  fmt.Sprintf("address must be %d ASCII hex digits, got %d bytes", AddressWireSize, len(wire)),
		}
	}

	for i := 0; i < AddressWireSize; i++ {
		if !isHexDigit(wire[i]) {
			return MACAddress{}, &DecodeError{
				Kind:    ErrKindFormat,
				Field:   "address",
				Offset:  base + i,
				Value:   uint64(wire[i]),
				Message: fmt.Sprintf("byte 0x%02X is not an ASCII hex digit", wire[i]),
			}
		}
	}

	// Every byte was checked above, so hex.Decode cannot fail here
	if _, err := hex.Decode(addr[:], wire); err != nil {
		return MACAddress{}, &DecodeError{Kind: ErrKindFormat, Field: "address", Offset: base, Message: err.Error()}
	}

	return addr, nil
}

// EncodeAddress renders addr as 12 upper-case ASCII hex digits
func EncodeAddress(addr MACAddress) []byte {
	wire := make([]byte, AddressWireSize)
	hex.Encode(wire, addr[:])
	return bytes.ToUpper(wire)
}

// ParseMACString parses the human forms of an address: colon or dash
// separated ("00:07:a8:17:e9:ac") or the bare 12-digit wire form.
func ParseMACString(s string) (MACAddress, error) {
	s = strings.TrimSpace(s)
	if len(s) == AddressWireSize {
		return DecodeAddress([]byte(s))
	}

	hw, err := net.ParseMAC(s)
	if err != nil {
		return MACAddress{}, fmt.Errorf("invalid MAC address %q: %w", s, err)
	}
	if len(hw) != AddressSize {
		return MACAddress{}, fmt.Errorf("invalid MAC address %q: expected %d bytes, got %d", s, AddressSize, len(hw))
	}

	var addr MACAddress
	copy(addr[:], hw)
	return addr, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
