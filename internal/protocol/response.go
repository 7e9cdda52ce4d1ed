package protocol

import (
	"fmt"
	"strings"
)

// Response envelope constants
const (
	EnvelopeMagic     = 0x27   // Envelope marker at offset 2
	FrameTypeResponse = 0x15   // Frame type for status responses
	PayloadMagic      = 0xFFFF // Payload region marker
	MinPayloadLength  = 4      // Declared length covers magic, type and checksum

	// HeaderSize is the fixed part of a response up to and including the
	// payload type byte.
	HeaderSize = 37
)

// Response envelope field offsets
const (
	offsetEnvelopeMagic = 2
	offsetFrameType     = 3
	offsetAddress       = 12
	offsetSequence      = 26
	offsetPayloadLength = 30
	offsetPayload       = 34
	offsetPayloadType   = 36
	offsetPayloadData   = 37
	payloadMagicSize    = 2
	checksumSize        = 1
)

// Response is a decoded status response frame
type Response struct {
	Address        MACAddress `json:"mac_address"`
	SequenceNumber uint32     `json:"sequence_number"`
	PayloadType    byte       `json:"payload_type"`
	Status         Status     `json:"state"`
}

// String returns a multi-line human-readable representation
func (r Response) String() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Haier AC Response (seq=%d, mac=%s, payload_type=0x%02x)\n",
		r.SequenceNumber, r.Address, r.PayloadType))
	b.WriteString(r.Status.String())

	return b.String()
}

// DecodeResponse decodes a complete response frame.
//
// Decoding fails fast on the first violation in layout order. The checksum
// is verified before the status block is looked at, so a corrupted frame is
// always reported as an integrity error rather than a misleading field error.
func DecodeResponse(data []byte) (Response, error) {
	r := newReader(data, 0)

	if err := r.skip("reserved", 2); err != nil {
		return Response{}, err
	}
	if err := r.expect8("envelope magic", EnvelopeMagic); err != nil {
		return Response{}, err
	}
	if err := r.expect8("frame type", FrameTypeResponse); err != nil {
		return Response{}, err
	}
	if err := r.skip("reserved", 8); err != nil {
		return Response{}, err
	}

	wire, err := r.next("address", AddressWireSize)
	if err != nil {
		return Response{}, err
	}
	addr, err := decodeAddress(wire, offsetAddress)
	if err != nil {
		return Response{}, err
	}

	if err := r.skip("reserved", 2); err != nil {
		return Response{}, err
	}

	seq, err := r.uint32("sequence number")
	if err != nil {
		return Response{}, err
	}

	payloadLength, err := r.uint32("payload length")
	if err != nil {
		return Response{}, err
	}
	if payloadLength < MinPayloadLength {
		return Response{}, &DecodeError{
			Kind:     ErrKindFormat,
			Field:    "payload length",
			Offset:   offsetPayloadLength,
			Value:    uint64(payloadLength),
			Expected: MinPayloadLength,
			Message:  fmt.Sprintf("declared length %d is below the minimum of %d", payloadLength, MinPayloadLength),
		}
	}

	if err := r.expect16("payload magic", PayloadMagic); err != nil {
		return Response{}, err
	}
	payloadType, err := r.uint8("payload type")
	if err != nil {
		return Response{}, err
	}

	// Compare in 64 bits: the declared length is untrusted and may be huge
	dataLength := uint64(payloadLength) - MinPayloadLength
	if need := dataLength + checksumSize; uint64(r.remaining()) < need {
		return Response{}, newLengthError("payload data", r.offset(), uint64(r.remaining()), need)
	}
	if err := r.skip("payload data", int(dataLength)); err != nil {
		return Response{}, err
	}

	checksumOffset := r.offset()
	carried, err := r.uint8("checksum")
	if err != nil {
		return Response{}, err
	}
	if err := verifyChecksum(data[offsetPayloadType:checksumOffset], carried, checksumOffset); err != nil {
		return Response{}, err
	}

	// The status block starts at the payload magic: its start and type
	// markers overlap the payload magic and type byte.
	status, err := decodeStatus(data[offsetPayload:checksumOffset], offsetPayload)
	if err != nil {
		return Response{}, err
	}

	return Response{
		Address:        addr,
		SequenceNumber: seq,
		PayloadType:    payloadType,
		Status:         status,
	}, nil
}
