// Package protocol decodes status frames sent by Haier air conditioners.
//
// The indoor unit answers status requests with a binary response frame. This
// package turns such a frame, or an isolated status block, into typed state.
// It performs no I/O: callers hand it a complete buffer and receive either a
// value or a typed error.
//
// # Response Frame
//
// All multi-byte integers are big-endian.
//
//	offset  size  field
//	0       2     reserved
//	2       1     envelope magic (0x27)
//	3       1     frame type (0x15, response)
//	4       8     reserved
//	12      12    MAC address as ASCII hex digits
//	24      2     reserved
//	26      4     sequence number
//	30      4     payload length (>= 4)
//	34      2     payload magic (0xFFFF)
//	36      1     payload type
//	37      n     payload data (payload length - 4 bytes)
//	37+n    1     checksum: sum mod 256 of payload type and data
//
// # Status Block
//
// The payload region (magic, type and data) is itself the status block; its
// start marker is the payload magic and its type marker begins with the
// payload type byte.
//
//	offset  size  field
//	0       2     start marker (0xFFFF)
//	2       2     type marker (0x2200)
//	12      2     current temperature
//	22      2     mode (SMART, COOL, HEAT, FAN, DRY)
//	24      2     fan speed (MAX, MID, MIN, AUTO)
//	26      2     limits (OFF, ONLY_VERTICAL)
//	28      2     power (nonzero = on)
//	30      2     health (nonzero = on)
//	34      2     target temperature - 16
//
// # Usage Example
//
//	resp, err := protocol.DecodeResponse(frame)
//	if err != nil {
//	    switch {
//	    case protocol.IsIntegrityError(err):
//	        // request retransmission
//	    case protocol.IsLengthError(err):
//	        // read more bytes
//	    default:
//	        // discard and resynchronise
//	    }
//	}
//	fmt.Println(resp.Address, resp.Status.TargetTemperature)
//
// # Error Handling
//
// Decoding stops at the first violation in layout order. Every failure is a
// *DecodeError whose Kind is one of format, length, enum or integrity; the
// kinds are also reachable through errors.Is with ErrFormat, ErrLength,
// ErrEnum and ErrIntegrity. Unknown enum discriminants are always errors and
// are never mapped to a default.
//
// # Thread Safety
//
// All decode functions are stateless and safe for concurrent use. Status.Update
// mutates a caller-owned value and is not synchronised.
package protocol
