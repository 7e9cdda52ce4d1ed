package protocol

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDecodeError_Is(t *testing.T) {
	tests := []struct {
		err      *DecodeError
		sentinel error
		check    func(error) bool
	}{
		{newFormatError("frame type", 3, 0x14, 0x15), ErrFormat, IsFormatError},
		{newLengthError("checksum", 70, 0, 1), ErrLength, IsLengthError},
		{newEnumError("mode", 56, 7), ErrEnum, IsEnumError},
		{newIntegrityError(70, 0x46, 0x45), ErrIntegrity, IsIntegrityError},
	}

	all := []error{ErrFormat, ErrLength, ErrEnum, ErrIntegrity}

	for _, tt := range tests {
		t.Run(tt.err.Kind.String(), func(t *testing.T) {
			wrapped := fmt.Errorf("frame 3: %w", tt.err)

			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.sentinel)
			}
			if !tt.check(wrapped) {
				t.Errorf("helper did not match %v", wrapped)
			}
			for _, other := range all {
				if other != tt.sentinel && errors.Is(wrapped, other) {
					t.Errorf("error %v also matches %v", wrapped, other)
				}
			}

			kind, ok := KindOf(wrapped)
			if !ok || kind != tt.err.Kind {
				t.Errorf("KindOf() = %v, %v; want %v, true", kind, ok, tt.err.Kind)
			}
		})
	}
}

func TestDecodeError_Error(t *testing.T) {
	tests := []struct {
		err  *DecodeError
		want string
	}{
		{
			err:  newFormatError("frame type", 3, 0x14, 0x15),
			want: "Format Error: frame type at offset 3: got 0x14, want 0x15",
		},
		{
			err:  newLengthError("payload data", 37, 10, 34),
			want: "Length Error: payload data at offset 37: need 34 bytes, have 10",
		},
		{
			err:  newEnumError("fan_speed", 58, 9),
			want: "Enum Error: fan_speed at offset 58: unknown discriminant 9",
		},
		{
			err:  newIntegrityError(70, 0x46, 0x45),
			want: "Integrity Error: checksum at offset 70: checksum 0x46, computed 0x45",
		},
		{
			err:  newEnumError("mode", -1, 9),
			want: "Enum Error: mode: unknown discriminant 9",
		},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestKindOf_NonDecodeError(t *testing.T) {
	if _, ok := KindOf(errors.New("boom")); ok {
		t.Error("KindOf() should report false for foreign errors")
	}
	if _, ok := KindOf(nil); ok {
		t.Error("KindOf(nil) should report false")
	}
}

func TestErrorKind_String(t *testing.T) {
	if got := ErrorKind(99).String(); got != "ErrorKind(99)" {
		t.Errorf("String() = %q", got)
	}
}

func TestSuggestRecovery(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Recovery
	}{
		{"nil", nil, RecoveryNone},
		{"format", newFormatError("envelope magic", 2, 0, 0x27), RecoveryResync},
		{"length", newLengthError("checksum", 70, 0, 1), RecoveryWaitForMore},
		{"enum", newEnumError("mode", 56, 9), RecoveryDrop},
		{"integrity", newIntegrityError(70, 1, 2), RecoveryRetransmit},
		{"foreign", errors.New("read: connection reset"), RecoveryResync},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuggestRecovery(tt.err); got != tt.want {
				t.Errorf("SuggestRecovery() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTroubleshootingHints(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"address", &DecodeError{Kind: ErrKindFormat, Field: "address", Offset: 12}, "12 ASCII hex digits"},
		{"marker", newFormatError("envelope magic", 2, 0, 0x27), "mid-frame"},
		{"length", newLengthError("checksum", 70, 0, 1), "truncated"},
		{"enum", newEnumError("mode", 56, 9), "value 9"},
		{"integrity", newIntegrityError(70, 1, 2), "corrupted"},
		{"foreign", errors.New("boom"), "hex dump"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hints := TroubleshootingHints(tt.err)
			if len(hints) == 0 {
				t.Fatal("expected at least one hint")
			}
			if !strings.Contains(strings.Join(hints, "\n"), tt.contains) {
				t.Errorf("hints %q should mention %q", hints, tt.contains)
			}
		})
	}
}
