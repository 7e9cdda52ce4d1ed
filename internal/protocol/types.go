package protocol

import "fmt"

// Mode is the operating mode reported by the air conditioner
type Mode uint16

const (
	ModeSmart Mode = iota
	ModeCool
	ModeHeat
	ModeFan
	ModeDry
)

// FanSpeed is the indoor fan speed setting
type FanSpeed uint16

const (
	FanSpeedMax FanSpeed = iota
	FanSpeedMid
	FanSpeedMin
	FanSpeedAuto
)

// Limits is the louver swing restriction
type Limits uint16

const (
	LimitsOff Limits = iota
	LimitsOnlyVertical
)

var modeNames = [...]string{"SMART", "COOL", "HEAT", "FAN", "DRY"}
var fanSpeedNames = [...]string{"MAX", "MID", "MIN", "AUTO"}
var limitsNames = [...]string{"OFF", "ONLY_VERTICAL"}

// String returns the protocol name of the mode
func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", uint16(m))
	}
	return modeNames[m]
}

// Valid reports whether m is a known discriminant
func (m Mode) Valid() bool {
	return int(m) < len(modeNames)
}

// ParseMode converts a raw discriminant, rejecting unknown values
func ParseMode(v uint16) (Mode, error) {
	return parseMode(v, -1)
}

func parseMode(v uint16, offset int) (Mode, error) {
	if m := Mode(v); m.Valid() {
		return m, nil
	}
	return 0, newEnumError("mode", offset, v)
}

// MarshalText implements encoding.TextMarshaler
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, newEnumError("mode", -1, uint16(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Mode) UnmarshalText(text []byte) error {
	i, err := lookupName(modeNames[:], "mode", string(text))
	if err != nil {
		return err
	}
	*m = Mode(i)
	return nil
}

// String returns the protocol name of the fan speed
func (f FanSpeed) String() string {
	if !f.Valid() {
		return fmt.Sprintf("FanSpeed(%d)", uint16(f))
	}
	return fanSpeedNames[f]
}

// Valid reports whether f is a known discriminant
func (f FanSpeed) Valid() bool {
	return int(f) < len(fanSpeedNames)
}

// ParseFanSpeed converts a raw discriminant, rejecting unknown values
func ParseFanSpeed(v uint16) (FanSpeed, error) {
	return parseFanSpeed(v, -1)
}

func parseFanSpeed(v uint16, offset int) (FanSpeed, error) {
	if f := FanSpeed(v); f.Valid() {
		return f, nil
	}
	return 0, newEnumError("fan_speed", offset, v)
}

// MarshalText implements encoding.TextMarshaler
func (f FanSpeed) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, newEnumError("fan_speed", -1, uint16(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (f *FanSpeed) UnmarshalText(text []byte) error {
	i, err := lookupName(fanSpeedNames[:], "fan_speed", string(text))
	if err != nil {
		return err
	}
	*f = FanSpeed(i)
	return nil
}

// String returns the protocol name of the limits setting
func (l Limits) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Limits(%d)", uint16(l))
	}
	return limitsNames[l]
}

// Valid reports whether l is a known discriminant
func (l Limits) Valid() bool {
	return int(l) < len(limitsNames)
}

// ParseLimits converts a raw discriminant, rejecting unknown values
func ParseLimits(v uint16) (Limits, error) {
	return parseLimits(v, -1)
}

func parseLimits(v uint16, offset int) (Limits, error) {
	if l := Limits(v); l.Valid() {
		return l, nil
	}
	return 0, newEnumError("limits", offset, v)
}

// MarshalText implements encoding.TextMarshaler
func (l Limits) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, newEnumError("limits", -1, uint16(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Limits) UnmarshalText(text []byte) error {
	i, err := lookupName(limitsNames[:], "limits", string(text))
	if err != nil {
		return err
	}
	*l = Limits(i)
	return nil
}

func lookupName(names []string, field, name string) (int, error) {
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return 0, &DecodeError{
		Kind:    ErrKindEnum,
		Field:   field,
		Offset:  -1,
		Message: fmt.Sprintf("unknown name %q", name),
	}
}
