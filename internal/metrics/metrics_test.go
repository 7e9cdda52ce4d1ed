package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muurk/haierac/internal/capture"
	"github.com/muurk/haierac/internal/protocol"
)

var testAddr = protocol.MACAddress{0x00, 0x07, 0xa8, 0x17, 0xe9, 0xac}

func testStatistics() *capture.Statistics {
	resp := protocol.Response{
		Address:        testAddr,
		SequenceNumber: 7,
		PayloadType:    0x22,
		Status: protocol.Status{
			CurrentTemperature: 21,
			TargetTemperature:  28,
			FanSpeed:           protocol.FanSpeedMin,
			Mode:               protocol.ModeHeat,
			Limits:             protocol.LimitsOff,
			Power:              true,
		},
	}
	later := resp
	later.SequenceNumber = 10

	return capture.Summarize([]capture.Result{
		{Response: resp},
		{Response: later},
		{Err: &protocol.DecodeError{Kind: protocol.ErrKindIntegrity, Field: "checksum", Offset: 70}},
		{Err: errors.New("unreadable")},
	})
}

func TestResultLabel(t *testing.T) {
	tests := map[string]string{
		"Format Error":    "format",
		"Length Error":    "length",
		"Enum Error":      "enum",
		"Integrity Error": "integrity",
		"Other Error":     "other",
	}
	for in, want := range tests {
		if got := resultLabel(in); got != want {
			t.Errorf("resultLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Observe(testStatistics(), func(protocol.MACAddress) string { return "Living room" })

	path := filepath.Join(t.TempDir(), "haierac.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	out := string(data)

	unit := `mac="00:07:a8:17:e9:ac",name="Living room"`
	for _, want := range []string{
		`haierac_frames_total{result="ok"} 2`,
		`haierac_frames_total{result="integrity"} 1`,
		`haierac_frames_total{result="other"} 1`,
		`haierac_current_temperature_celsius{` + unit + `} 21`,
		`haierac_target_temperature_celsius{` + unit + `} 28`,
		`haierac_power_on{` + unit + `} 1`,
		`haierac_health_on{` + unit + `} 0`,
		`haierac_mode{mac="00:07:a8:17:e9:ac",mode="HEAT",name="Living room"} 1`,
		`haierac_mode{mac="00:07:a8:17:e9:ac",mode="COOL",name="Living room"} 0`,
		`haierac_last_sequence_number{` + unit + `} 10`,
		`haierac_sequence_gaps{` + unit + `} 2`,
		`haierac_out_of_order_frames{` + unit + `} 0`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q:\n%s", want, out)
		}
	}
}

// gaugeValue gathers m and returns the value of the named gauge whose labels
// match exactly, regardless of the order they are written in
func gaugeValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			pairs := metric.GetLabel()
			if len(pairs) != len(labels) {
				continue
			}
			matched := true
			for _, l := range pairs {
				if labels[l.GetName()] != l.GetValue() {
					matched = false
					break
				}
			}
			if matched {
				return metric.GetGauge().GetValue()
			}
		}
	}
	t.Fatalf("no %s sample with labels %v", name, labels)
	return 0
}

func TestObserve_ModeGauge(t *testing.T) {
	m := New()
	m.Observe(testStatistics(), func(protocol.MACAddress) string { return "Living room" })

	for mode := protocol.ModeSmart; mode.Valid(); mode++ {
		want := 0.0
		if mode == protocol.ModeHeat {
			want = 1
		}
		got := gaugeValue(t, m, "haierac_mode", map[string]string{
			"mac":  "00:07:a8:17:e9:ac",
			"name": "Living room",
			"mode": mode.String(),
		})
		if got != want {
			t.Errorf("haierac_mode{mode=%q} = %v, want %v", mode, got, want)
		}
	}
}

func TestObserve_AddressAsName(t *testing.T) {
	m := New()
	m.Observe(testStatistics(), func(a protocol.MACAddress) string { return a.String() })

	path := filepath.Join(t.TempDir(), "haierac.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `haierac_power_on{mac="00:07:a8:17:e9:ac",name=""} 1`) {
		t.Errorf("address fallback should leave the name label empty:\n%s", data)
	}
}

func TestObserve_Empty(t *testing.T) {
	m := New()
	m.Observe(capture.NewStatistics(), nil)

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	if len(families) != 1 || families[0].GetName() != "haierac_frames_total" {
		t.Errorf("an empty capture should only export the frame counter, got %d families", len(families))
	}
}
