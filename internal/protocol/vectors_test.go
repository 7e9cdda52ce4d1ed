package protocol

import "encoding/binary"

// Captured from a living-room unit; status is HEAT, fan MIN, 21°C -> 28°C.
var sampleResponse = []byte{
	0x00, 0x00, 0x27, 0x15, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x30, 0x30, 0x30, 0x37,
	0x41, 0x38, 0x31, 0x37, 0x45, 0x39, 0x41, 0x43,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00,
	0x00, 0x25, 0xff, 0xff, 0x22, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x01, 0x06, 0x6d, 0x01, 0x00, 0x15,
	0x00, 0x00, 0x00, 0x7f, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x02, 0x00, 0x02, 0x00, 0x00, 0x00, 0x09,
	0x00, 0x01, 0x00, 0x00, 0x00, 0x0c, 0x45,
}

// The status block carried by sampleResponse (bytes 34..69)
var sampleStatusBlock = []byte{
	0xff, 0xff, 0x22, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x01, 0x06, 0x6d, 0x01,
	0x00, 0x15, 0x00, 0x00, 0x00, 0x7f, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x02, 0x00, 0x02, 0x00, 0x00,
	0x00, 0x09, 0x00, 0x01, 0x00, 0x00, 0x00, 0x0c,
}

var sampleAddress = MACAddress{0x00, 0x07, 0xa8, 0x17, 0xe9, 0xac}

var sampleStatus = Status{
	CurrentTemperature: 21,
	TargetTemperature:  28,
	FanSpeed:           FanSpeedMin,
	Mode:               ModeHeat,
	Limits:             LimitsOff,
	Power:              true,
	Health:             true,
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// statusFields are raw values written into a copy of sampleStatusBlock
type statusFields struct {
	current, mode, fan, limits, power, health, target uint16
}

func buildStatusBlock(f statusFields) []byte {
	block := clone(sampleStatusBlock)
	binary.BigEndian.PutUint16(block[offsetCurrentTemperature:], f.current)
	binary.BigEndian.PutUint16(block[offsetMode:], f.mode)
	binary.BigEndian.PutUint16(block[offsetFanSpeed:], f.fan)
	binary.BigEndian.PutUint16(block[offsetLimits:], f.limits)
	binary.BigEndian.PutUint16(block[offsetPower:], f.power)
	binary.BigEndian.PutUint16(block[offsetHealth:], f.health)
	binary.BigEndian.PutUint16(block[offsetTargetTemperature:], f.target)
	return block
}

// buildResponse wraps a status block in a response envelope with a valid
// declared length and checksum
func buildResponse(wireAddr string, seq uint32, block []byte) []byte {
	buf := []byte{0x00, 0x00, EnvelopeMagic, FrameTypeResponse}
	buf = append(buf, make([]byte, 8)...)
	buf = append(buf, wireAddr...)
	buf = append(buf, 0x00, 0x00)
	buf = binary.BigEndian.AppendUint32(buf, seq)
	// magic(2) + type(1) + data(len-3) + checksum(1)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(block)+1))
	buf = append(buf, block...)
	buf = append(buf, Checksum(block[2:]))
	return buf
}

// fixChecksum recomputes the trailing checksum of a frame built by buildResponse
func fixChecksum(frame []byte) {
	frame[len(frame)-1] = Checksum(frame[offsetPayloadType : len(frame)-1])
}
