package protocol

import (
	"fmt"
	"math"
	"strings"
)

// Status block constants
const (
	StatusBlockSize   = 36     // Start marker through raw target temperature
	StatusStartMarker = 0xFFFF // Block start, shared with the frame's payload magic
	StatusTypeMarker  = 0x2200 // State block type

	// TargetTemperatureBase is added to the raw target field; the protocol
	// cannot express targets below 16°C.
	TargetTemperatureBase = 16
)

// Status block field offsets
const (
	offsetCurrentTemperature = 12
	offsetMode               = 22
	offsetFanSpeed           = 24
	offsetLimits             = 26
	offsetPower              = 28
	offsetHealth             = 30
	offsetTargetTemperature  = 34
)

// Status is the decoded air conditioner state. Temperatures are in °C.
type Status struct {
	CurrentTemperature uint16   `json:"current_temperature"`
	TargetTemperature  uint16   `json:"target_temperature"`
	FanSpeed           FanSpeed `json:"fan_speed"`
	Mode               Mode     `json:"mode"`
	Limits             Limits   `json:"limits"`
	Power              bool     `json:"power"`
	Health             bool     `json:"health"`
}

// DefaultStatus returns the state assumed before the first status frame arrives
func DefaultStatus() Status {
	return Status{
		CurrentTemperature: 21,
		TargetTemperature:  21,
		FanSpeed:           FanSpeedMin,
		Mode:               ModeFan,
		Limits:             LimitsOff,
	}
}

// Update replaces every field at once. It is not synchronised; callers
// sharing a Status across goroutines must guard it themselves.
func (s *Status) Update(current, target uint16, fan FanSpeed, mode Mode, health bool, limits Limits, power bool) {
	*s = Status{
		CurrentTemperature: current,
		TargetTemperature:  target,
		FanSpeed:           fan,
		Mode:               mode,
		Limits:             limits,
		Power:              power,
		Health:             health,
	}
}

// String returns a multi-line human-readable representation
func (s Status) String() string {
	var b strings.Builder

	b.WriteString("Haier AC State:\n")
	b.WriteString(fmt.Sprintf("  Power:        %v\n", s.Power))
	b.WriteString(fmt.Sprintf("  Current Temp: %d°C\n", s.CurrentTemperature))
	b.WriteString(fmt.Sprintf("  Target Temp:  %d°C\n", s.TargetTemperature))
	b.WriteString(fmt.Sprintf("  Fan Speed:    %s\n", s.FanSpeed))
	b.WriteString(fmt.Sprintf("  Mode:         %s\n", s.Mode))
	b.WriteString(fmt.Sprintf("  Health:       %v\n", s.Health))
	b.WriteString(fmt.Sprintf("  Limits:       %s", s.Limits))

	return b.String()
}

// DecodeStatus decodes an isolated status block. At least StatusBlockSize
// bytes are required; anything after the block is ignored.
//
// The target temperature is the raw value plus TargetTemperatureBase. A raw
// value too large to take the offset within a uint16 is a FormatError on
// target_temperature.
func DecodeStatus(data []byte) (Status, error) {
	return decodeStatus(data, 0)
}

// decodeStatus decodes a status block located at base within a larger buffer
func decodeStatus(data []byte, base int) (Status, error) {
	r := newReader(data, base)

	if err := r.expect16("block start marker", StatusStartMarker); err != nil {
		return Status{}, err
	}
	if err := r.expect16("block type marker", StatusTypeMarker); err != nil {
		return Status{}, err
	}
	if err := r.skip("reserved", 8); err != nil {
		return Status{}, err
	}

	current, err := r.uint16("current_temperature")
	if err != nil {
		return Status{}, err
	}
	if err := r.skip("reserved", 8); err != nil {
		return Status{}, err
	}

	rawMode, err := r.uint16("mode")
	if err != nil {
		return Status{}, err
	}
	mode, err := parseMode(rawMode, base+offsetMode)
	if err != nil {
		return Status{}, err
	}

	rawFan, err := r.uint16("fan_speed")
	if err != nil {
		return Status{}, err
	}
	fan, err := parseFanSpeed(rawFan, base+offsetFanSpeed)
	if err != nil {
		return Status{}, err
	}

	rawLimits, err := r.uint16("limits")
	if err != nil {
		return Status{}, err
	}
	limits, err := parseLimits(rawLimits, base+offsetLimits)
	if err != nil {
		return Status{}, err
	}

	power, err := r.uint16("power")
	if err != nil {
		return Status{}, err
	}
	health, err := r.uint16("health")
	if err != nil {
		return Status{}, err
	}
	if err := r.skip("reserved", 2); err != nil {
		return Status{}, err
	}

	rawTarget, err := r.uint16("target_temperature")
	if err != nil {
		return Status{}, err
	}
	if rawTarget > math.MaxUint16-TargetTemperatureBase {
		return Status{}, &DecodeError{
			Kind:    ErrKindFormat,
			Field:   "target_temperature",
			Offset:  base + offsetTargetTemperature,
			Value:   uint64(rawTarget),
			Message: fmt.Sprintf("raw value %d overflows once offset by %d", rawTarget, TargetTemperatureBase),
		}
	}

	return Status{
		CurrentTemperature: current,
		TargetTemperature:  rawTarget + TargetTemperatureBase,
		FanSpeed:           fan,
		Mode:               mode,
		Limits:             limits,
		Power:              power != 0,
		Health:             health != 0,
	}, nil
}
