package protocol

import "encoding/binary"

// Region names a byte range of a frame for annotated dumps
type Region struct {
	Name   string
	Offset int
	Length int
}

// End returns the offset just past the region
func (r Region) End() int {
	return r.Offset + r.Length
}

var responseHeaderRegions = []Region{
	{Name: "reserved", Offset: 0, Length: 2},
	{Name: "envelope magic", Offset: offsetEnvelopeMagic, Length: 1},
	{Name: "frame type", Offset: offsetFrameType, Length: 1},
	{Name: "reserved", Offset: 4, Length: 8},
	{Name: "address", Offset: offsetAddress, Length: AddressWireSize},
	{Name: "reserved", Offset: 24, Length: 2},
	{Name: "sequence number", Offset: offsetSequence, Length: 4},
	{Name: "payload length", Offset: offsetPayloadLength, Length: 4},
	{Name: "payload magic", Offset: offsetPayload, Length: payloadMagicSize},
	{Name: "payload type", Offset: offsetPayloadType, Length: 1},
}

var statusRegions = []Region{
	{Name: "block start marker", Offset: 0, Length: 2},
	{Name: "block type marker", Offset: 2, Length: 2},
	{Name: "reserved", Offset: 4, Length: 8},
	{Name: "current_temperature", Offset: offsetCurrentTemperature, Length: 2},
	{Name: "reserved", Offset: 14, Length: 8},
	{Name: "mode", Offset: offsetMode, Length: 2},
	{Name: "fan_speed", Offset: offsetFanSpeed, Length: 2},
	{Name: "limits", Offset: offsetLimits, Length: 2},
	{Name: "power", Offset: offsetPower, Length: 2},
	{Name: "health", Offset: offsetHealth, Length: 2},
	{Name: "reserved", Offset: 32, Length: 2},
	{Name: "target_temperature", Offset: offsetTargetTemperature, Length: 2},
}

// StatusLayout returns the regions of an isolated status block
func StatusLayout() []Region {
	out := make([]Region, len(statusRegions))
	copy(out, statusRegions)
	return out
}

// ResponseLayout returns the regions of a response frame, clipped to the
// bytes actually present. It never validates anything: it is meant for
// displaying broken frames as well as good ones.
func ResponseLayout(data []byte) []Region {
	var out []Region
	for _, reg := range responseHeaderRegions {
		out = appendClipped(out, reg, len(data))
	}
	if len(data) < offsetPayloadData {
		return out
	}

	payloadLength := binary.BigEndian.Uint32(data[offsetPayloadLength:offsetPayload])
	if payloadLength < MinPayloadLength {
		return appendClipped(out, Region{Name: "trailing", Offset: offsetPayloadData, Length: len(data) - offsetPayloadData}, len(data))
	}

	dataLength := uint64(payloadLength) - MinPayloadLength
	if dataLength > uint64(len(data)-offsetPayloadData) {
		dataLength = uint64(len(data) - offsetPayloadData)
	}
	out = appendClipped(out, Region{Name: "payload data", Offset: offsetPayloadData, Length: int(dataLength)}, len(data))

	checksumOffset := offsetPayloadData + int(dataLength)
	out = appendClipped(out, Region{Name: "checksum", Offset: checksumOffset, Length: checksumSize}, len(data))
	if rest := len(data) - checksumOffset - checksumSize; rest > 0 {
		out = append(out, Region{Name: "trailing", Offset: checksumOffset + checksumSize, Length: rest})
	}
	return out
}

func appendClipped(out []Region, reg Region, size int) []Region {
	if reg.Offset >= size || reg.Length <= 0 {
		return out
	}
	if reg.End() > size {
		reg.Length = size - reg.Offset
	}
	return append(out, reg)
}
