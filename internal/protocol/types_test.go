package protocol

import (
	"encoding/json"
	"testing"
)

func TestParseEnums(t *testing.T) {
	for v := uint16(0); v < 8; v++ {
		m, err := ParseMode(v)
		if (err == nil) != (v <= uint16(ModeDry)) {
			t.Errorf("ParseMode(%d) = %v, %v", v, m, err)
		}
		f, err := ParseFanSpeed(v)
		if (err == nil) != (v <= uint16(FanSpeedAuto)) {
			t.Errorf("ParseFanSpeed(%d) = %v, %v", v, f, err)
		}
		l, err := ParseLimits(v)
		if (err == nil) != (v <= uint16(LimitsOnlyVertical)) {
			t.Errorf("ParseLimits(%d) = %v, %v", v, l, err)
		}
	}

	_, err := ParseFanSpeed(0xFFFF)
	if !IsEnumError(err) {
		t.Fatalf("ParseFanSpeed(0xFFFF) error = %v, want enum error", err)
	}
	if decErr := err.(*DecodeError); decErr.Field != "fan_speed" || decErr.Value != 0xFFFF {
		t.Errorf("error = %+v", decErr)
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{ModeSmart.String(), "SMART"},
		{ModeCool.String(), "COOL"},
		{ModeHeat.String(), "HEAT"},
		{ModeFan.String(), "FAN"},
		{ModeDry.String(), "DRY"},
		{Mode(9).String(), "Mode(9)"},
		{FanSpeedMax.String(), "MAX"},
		{FanSpeedMid.String(), "MID"},
		{FanSpeedMin.String(), "MIN"},
		{FanSpeedAuto.String(), "AUTO"},
		{FanSpeed(4).String(), "FanSpeed(4)"},
		{LimitsOff.String(), "OFF"},
		{LimitsOnlyVertical.String(), "ONLY_VERTICAL"},
		{Limits(2).String(), "Limits(2)"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestStatus_JSON(t *testing.T) {
	data, err := json.Marshal(sampleStatus)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	want := `{"current_temperature":21,"target_temperature":28,"fan_speed":"MIN","mode":"HEAT","limits":"OFF","power":true,"health":true}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var got Status
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got != sampleStatus {
		t.Errorf("Unmarshal() = %+v, want %+v", got, sampleStatus)
	}

	if err := json.Unmarshal([]byte(`{"mode":"TURBO"}`), &got); !IsEnumError(err) {
		t.Errorf("Unmarshal unknown mode error = %v, want enum error", err)
	}
}

func TestStatus_JSONRejectsInvalidEnum(t *testing.T) {
	s := sampleStatus
	s.Mode = Mode(7)
	if _, err := json.Marshal(s); err == nil {
		t.Error("Marshal() should fail for an unknown mode")
	}
}
