package protocol

import (
	"errors"
	"fmt"
)

// Recovery is the action a transport should take after a failed decode
type Recovery int

const (
	// RecoveryNone means the frame decoded
	RecoveryNone Recovery = iota
	// RecoveryResync means the stream is misaligned; discard and resynchronise
	RecoveryResync
	// RecoveryWaitForMore means the frame was cut short; read more bytes
	RecoveryWaitForMore
	// RecoveryRetransmit means the bytes were corrupted in transit
	RecoveryRetransmit
	// RecoveryDrop means the frame is well formed but carries values this
	// decoder does not know; log it and move on
	RecoveryDrop
)

// String returns a short name for the recovery action
func (r Recovery) String() string {
	switch r {
	case RecoveryNone:
		return "none"
	case RecoveryResync:
		return "resync"
	case RecoveryWaitForMore:
		return "wait-for-more"
	case RecoveryRetransmit:
		return "retransmit"
	case RecoveryDrop:
		return "drop"
	default:
		return fmt.Sprintf("Recovery(%d)", r)
	}
}

// SuggestRecovery maps a decode error to the recovery a transport would
// typically choose. Non-decode errors map to RecoveryResync.
func SuggestRecovery(err error) Recovery {
	if err == nil {
		return RecoveryNone
	}
	kind, ok := KindOf(err)
	if !ok {
		return RecoveryResync
	}
	switch kind {
	case ErrKindLength:
		return RecoveryWaitForMore
	case ErrKindIntegrity:
		return RecoveryRetransmit
	case ErrKindEnum:
		return RecoveryDrop
	default:
		return RecoveryResync
	}
}

// TroubleshootingHints returns user-facing advice for a decode error
func TroubleshootingHints(err error) []string {
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		return []string{
			"Check that the input is a hex dump of a single frame",
		}
	}

	switch decErr.Kind {
	case ErrKindFormat:
		if decErr.Field == "address" {
			return []string{
				"The address field must hold 12 ASCII hex digits",
				"The frame may be from a different protocol version",
			}
		}
		return []string{
			fmt.Sprintf("Constant field %q did not match", decErr.Field),
			"The capture may start mid-frame; check the first bytes",
			"Status blocks passed to 'decode status' must start with FF FF 22 00",
		}
	case ErrKindLength:
		return []string{
			"The frame is truncated",
			"Make sure the capture contains the complete frame including the checksum byte",
		}
	case ErrKindEnum:
		return []string{
			fmt.Sprintf("Field %q carries value %d which is not a known setting", decErr.Field, decErr.Value),
			"The unit may use a newer firmware with additional modes",
		}
	case ErrKindIntegrity:
		return []string{
			"The checksum does not match the payload",
			"The frame was corrupted in transit; request it again",
		}
	default:
		return nil
	}
}
