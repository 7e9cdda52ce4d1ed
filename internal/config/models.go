package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/muurk/haierac/internal/protocol"
)

// Output formats accepted in Preferences.OutputFormat
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Registry represents the entire user configuration file.
// It stores user-defined metadata for indoor units and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by 12-digit wire MAC (e.g. "0007A817E9AC")
	Preferences *Preferences       `yaml:"preferences,omitempty"`

	path string // File the registry was loaded from, used by Save
}

// Device represents user-defined metadata for a single indoor unit.
type Device struct {
	Nickname     string          `yaml:"nickname,omitempty"`      // User-friendly name
	Room         string          `yaml:"room,omitempty"`          // Where the unit is installed
	LastSeen     time.Time       `yaml:"last_seen,omitempty"`     // When the last response was recorded
	LastSequence uint32          `yaml:"last_sequence,omitempty"` // Sequence number of that response
	LastStatus   *StatusSnapshot `yaml:"last_status,omitempty"`   // Decoded state of that response
}

// StatusSnapshot is the YAML form of protocol.Status. Enums are stored by
// name so the file stays readable.
type StatusSnapshot struct {
	CurrentTemperature uint16 `yaml:"current_temperature"`
	TargetTemperature  uint16 `yaml:"target_temperature"`
	FanSpeed           string `yaml:"fan_speed"`
	Mode               string `yaml:"mode"`
	Limits             string `yaml:"limits"`
	Power              bool   `yaml:"power"`
	Health             bool   `yaml:"health"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	OutputFormat string `yaml:"output_format"` // "text" or "json"
	Workers      int    `yaml:"workers"`       // Concurrent decoders for batch analysis, 0 = one per CPU
}

func defaultPreferences() *Preferences {
	return &Preferences{
		OutputFormat: FormatText,
		Workers:      0,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Devices:     make(map[string]*Device),
		Preferences: defaultPreferences(),
	}
}

// Path returns the file the registry was loaded from, or "" for a new registry
func (r *Registry) Path() string {
	return r.path
}

// Validate checks the version, that every device key is a wire-form MAC
// and that preferences hold known values.
func (r *Registry) Validate() error {
	if r.Version != 1 {
		return fmt.Errorf("unsupported config version: %d (expected 1)", r.Version)
	}
	for key := range r.Devices {
		addr, err := protocol.DecodeAddress([]byte(key))
		if err != nil {
			return fmt.Errorf("invalid device key %q: %w", key, err)
		}
		if addr.Key() != key {
			return fmt.Errorf("invalid device key %q: must be upper-case (%s)", key, addr.Key())
		}
	}
	if p := r.Preferences; p != nil {
		if p.OutputFormat != FormatText && p.OutputFormat != FormatJSON {
			return fmt.Errorf("invalid output_format %q (valid: %s, %s)", p.OutputFormat, FormatText, FormatJSON)
		}
		if p.Workers < 0 {
			return fmt.Errorf("invalid workers %d: must not be negative", p.Workers)
		}
	}
	return nil
}

// Lookup retrieves device metadata by address.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) Lookup(addr protocol.MACAddress) *Device {
	return r.Devices[addr.Key()]
}

// EnsureDevice ensures a device entry exists in the registry.
// Returns the device entry (existing or newly created).
func (r *Registry) EnsureDevice(addr protocol.MACAddress) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	key := addr.Key()
	if device, exists := r.Devices[key]; exists {
		return device
	}

	device := &Device{}
	r.Devices[key] = device
	return device
}

// SetNickname sets a user-friendly nickname for a device.
func (r *Registry) SetNickname(addr protocol.MACAddress, nickname string) {
	r.EnsureDevice(addr).Nickname = nickname
}

// SetRoom records where a device is installed.
func (r *Registry) SetRoom(addr protocol.MACAddress, room string) {
	r.EnsureDevice(addr).Room = room
}

// Forget removes a device from the registry. It reports whether the device
// was known.
func (r *Registry) Forget(addr protocol.MACAddress) bool {
	key := addr.Key()
	if _, exists := r.Devices[key]; !exists {
		return false
	}
	delete(r.Devices, key)
	return true
}

// Addresses returns the known device addresses in wire-key order
func (r *Registry) Addresses() []protocol.MACAddress {
	keys := make([]string, 0, len(r.Devices))
	for key := range r.Devices {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	addrs := make([]protocol.MACAddress, 0, len(keys))
	for _, key := range keys {
		addr, err := protocol.DecodeAddress([]byte(key))
		if err != nil {
			continue
		}
		addrs = append(addrs, addr)
	}
	return addrs
}

// RecordResponse stores the state carried by a decoded response against its
// device. Responses older than the one already recorded are ignored; it
// returns whether the entry changed.
func (r *Registry) RecordResponse(resp protocol.Response, seen time.Time) bool {
	device := r.EnsureDevice(resp.Address)
	if device.LastStatus != nil && resp.SequenceNumber < device.LastSequence {
		return false
	}

	device.LastSeen = seen
	device.LastSequence = resp.SequenceNumber
	device.LastStatus = NewStatusSnapshot(resp.Status)
	return true
}

// DisplayName returns the nickname for addr, or the address itself
func (r *Registry) DisplayName(addr protocol.MACAddress) string {
	if device := r.Lookup(addr); device != nil && device.Nickname != "" {
		return device.Nickname
	}
	return addr.String()
}

// NewStatusSnapshot converts a decoded status for storage
func NewStatusSnapshot(s protocol.Status) *StatusSnapshot {
	return &StatusSnapshot{
		CurrentTemperature: s.CurrentTemperature,
		TargetTemperature:  s.TargetTemperature,
		FanSpeed:           s.FanSpeed.String(),
		Mode:               s.Mode.String(),
		Limits:             s.Limits.String(),
		Power:              s.Power,
		Health:             s.Health,
	}
}

// Status converts the snapshot back, failing on enum names that are not known
func (s *StatusSnapshot) Status() (protocol.Status, error) {
	var st protocol.Status
	if err := st.Mode.UnmarshalText([]byte(s.Mode)); err != nil {
		return protocol.Status{}, err
	}
	if err := st.FanSpeed.UnmarshalText([]byte(s.FanSpeed)); err != nil {
		return protocol.Status{}, err
	}
	if err := st.Limits.UnmarshalText([]byte(s.Limits)); err != nil {
		return protocol.Status{}, err
	}
	st.CurrentTemperature = s.CurrentTemperature
	st.TargetTemperature = s.TargetTemperature
	st.Power = s.Power
	st.Health = s.Health
	return st, nil
}
