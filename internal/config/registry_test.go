package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/muurk/haierac/internal/protocol"
)

var testAddr = protocol.MACAddress{0x00, 0x07, 0xa8, 0x17, 0xe9, 0xac}

func testResponse(seq uint32, target uint16) protocol.Response {
	return protocol.Response{
		Address:        testAddr,
		SequenceNumber: seq,
		PayloadType:    0x22,
		Status: protocol.Status{
			CurrentTemperature: 21,
			TargetTemperature:  target,
			FanSpeed:           protocol.FanSpeedMin,
			Mode:               protocol.ModeHeat,
			Limits:             protocol.LimitsOff,
			Power:              true,
			Health:             true,
		},
	}
}

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "haierac") {
		t.Errorf("GetConfigDir() = %v, should contain 'haierac'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if configDir != filepath.Join("/tmp/xdg", "haierac") {
		t.Errorf("GetConfigDir() = %v, want /tmp/xdg/haierac", configDir)
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv(ConfigEnvVar, "")

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}

	t.Setenv(ConfigEnvVar, "/etc/haierac.yaml")
	configPath, err = GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if configPath != "/etc/haierac.yaml" {
		t.Errorf("GetConfigPath() = %v, want the %s override", configPath, ConfigEnvVar)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Devices == nil {
		t.Error("NewRegistry().Devices should not be nil")
	}
	if reg.Preferences == nil || reg.Preferences.OutputFormat != FormatText {
		t.Errorf("NewRegistry().Preferences = %+v, want text output", reg.Preferences)
	}
	if err := reg.Validate(); err != nil {
		t.Errorf("NewRegistry().Validate() = %v", err)
	}
}

func TestRegistryEnsureDevice(t *testing.T) {
	reg := NewRegistry()

	device1 := reg.EnsureDevice(testAddr)
	if device1 == nil {
		t.Fatal("EnsureDevice() returned nil")
	}
	if _, ok := reg.Devices["0007A817E9AC"]; !ok {
		t.Errorf("device should be keyed by wire form, keys: %v", reg.Devices)
	}

	device2 := reg.EnsureDevice(testAddr)
	if device1 != device2 {
		t.Error("EnsureDevice() should return the same device on second call")
	}
	if reg.Lookup(protocol.MACAddress{1, 2, 3, 4, 5, 6}) != nil {
		t.Error("Lookup() should return nil for unknown devices")
	}
}

func TestRegistrySetNickname(t *testing.T) {
	reg := NewRegistry()

	if got := reg.DisplayName(testAddr); got != "00:07:a8:17:e9:ac" {
		t.Errorf("DisplayName() = %q, want the address", got)
	}

	reg.SetNickname(testAddr, "Living room")
	reg.SetRoom(testAddr, "Ground floor")

	device := reg.Lookup(testAddr)
	if device == nil {
		t.Fatal("device should exist after SetNickname")
	}
	if device.Nickname != "Living room" || device.Room != "Ground floor" {
		t.Errorf("device = %+v", device)
	}
	if got := reg.DisplayName(testAddr); got != "Living room" {
		t.Errorf("DisplayName() = %q, want Living room", got)
	}
}

func TestRegistryForget(t *testing.T) {
	reg := NewRegistry()
	other := protocol.MACAddress{0x00, 0x01, 0x02, 0x03, 0x04, 0x05}

	reg.SetNickname(testAddr, "Living room")
	reg.EnsureDevice(other)

	addrs := reg.Addresses()
	if len(addrs) != 2 || addrs[0] != other || addrs[1] != testAddr {
		t.Fatalf("Addresses() = %v, want sorted by wire key", addrs)
	}

	if !reg.Forget(testAddr) {
		t.Error("Forget() should report a known device")
	}
	if reg.Lookup(testAddr) != nil {
		t.Error("device should be gone after Forget()")
	}
	if reg.Forget(testAddr) {
		t.Error("Forget() should report false for an unknown device")
	}
	if got := reg.Addresses(); len(got) != 1 || got[0] != other {
		t.Errorf("Addresses() = %v after Forget()", got)
	}
}

func TestRegistryRecordResponse(t *testing.T) {
	reg := NewRegistry()
	seen := time.Date(2025, 11, 25, 10, 30, 0, 0, time.UTC)

	if !reg.RecordResponse(testResponse(5, 28), seen) {
		t.Fatal("first response should be recorded")
	}
	if reg.RecordResponse(testResponse(4, 20), seen.Add(time.Minute)) {
		t.Error("older sequence number should be ignored")
	}
	if !reg.RecordResponse(testResponse(6, 24), seen.Add(2*time.Minute)) {
		t.Error("newer sequence number should be recorded")
	}

	device := reg.Lookup(testAddr)
	if device.LastSequence != 6 {
		t.Errorf("LastSequence = %d, want 6", device.LastSequence)
	}
	if !device.LastSeen.Equal(seen.Add(2 * time.Minute)) {
		t.Errorf("LastSeen = %v", device.LastSeen)
	}

	status, err := device.LastStatus.Status()
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if status != testResponse(6, 24).Status {
		t.Errorf("LastStatus = %+v, want %+v", status, testResponse(6, 24).Status)
	}
}

func TestStatusSnapshot_UnknownName(t *testing.T) {
	snap := NewStatusSnapshot(testResponse(1, 28).Status)
	snap.Mode = "TURBO"

	if _, err := snap.Status(); !protocol.IsEnumError(err) {
		t.Errorf("Status() error = %v, want enum error", err)
	}
}

func TestRegistryValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Registry)
		wantErr string
	}{
		{name: "valid", mutate: func(r *Registry) { r.EnsureDevice(testAddr) }},
		{name: "wrong version", mutate: func(r *Registry) { r.Version = 2 }, wantErr: "unsupported config version"},
		{name: "colon key", mutate: func(r *Registry) { r.Devices["00:07:a8:17:e9:ac"] = &Device{} }, wantErr: "invalid device key"},
		{name: "lower-case key", mutate: func(r *Registry) { r.Devices["0007a817e9ac"] = &Device{} }, wantErr: "upper-case"},
		{name: "bad format", mutate: func(r *Registry) { r.Preferences.OutputFormat = "xml" }, wantErr: "output_format"},
		{name: "negative workers", mutate: func(r *Registry) { r.Preferences.Workers = -1 }, wantErr: "workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			tt.mutate(reg)

			err := reg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	reg.SetNickname(testAddr, "Living room")
	reg.RecordResponse(testResponse(1, 28), time.Date(2025, 11, 25, 10, 30, 0, 0, time.UTC))
	reg.Preferences.Workers = 4

	if err := reg.SaveFile(path); err != nil {
		t.Fatalf("SaveFile() error: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.HasPrefix(string(data), "# haierac configuration file") {
		t.Errorf("saved file should start with the header comment:\n%s", data)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if loaded.Path() != path {
		t.Errorf("Path() = %q, want %q", loaded.Path(), path)
	}

	device := loaded.Lookup(testAddr)
	if device == nil {
		t.Fatal("device should exist in loaded registry")
	}
	if device.Nickname != "Living room" {
		t.Errorf("Nickname = %q, want Living room", device.Nickname)
	}
	if device.LastStatus == nil || device.LastStatus.Mode != "HEAT" || device.LastStatus.TargetTemperature != 28 {
		t.Errorf("LastStatus = %+v", device.LastStatus)
	}
	if loaded.Preferences.Workers != 4 {
		t.Errorf("Workers = %d, want 4", loaded.Preferences.Workers)
	}

	loaded.SetRoom(testAddr, "Ground floor")
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	again, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if again.Lookup(testAddr).Room != "Ground floor" {
		t.Error("Save() should write back to the loaded path")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if len(reg.Devices) != 0 || reg.Path() != path {
		t.Errorf("missing file should give an empty registry bound to its path, got %+v", reg)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "not yaml", content: "version: [", wantErr: "failed to parse"},
		{name: "future version", content: "version: 3\n", wantErr: "unsupported config version"},
		{name: "bad key", content: "version: 1\ndevices:\n  living-room:\n    nickname: x\n", wantErr: "invalid device key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("WriteFile() error: %v", err)
			}

			_, err := LoadFile(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadFile() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile_DefaultsPreferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 1\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if reg.Preferences == nil || reg.Preferences.OutputFormat != FormatText {
		t.Errorf("Preferences = %+v, want defaults", reg.Preferences)
	}
}

func BenchmarkEnsureDevice(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureDevice(testAddr)
	}
}
