// Package config provides user configuration management for haierac.
//
// A YAML file stores metadata for known indoor units (nickname, room and the
// last state seen in a status frame) plus application preferences. Devices
// are keyed by the upper-case 12-digit address exactly as it appears on the
// wire, so a frame's address maps to its entry without conversion.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/haierac/config.yaml or $HOME/.config/haierac/config.yaml
//   - macOS: $HOME/.config/haierac/config.yaml
//   - Windows: %LOCALAPPDATA%\haierac\config.yaml
//
// HAIERAC_CONFIG overrides the location; the CLI's --config flag takes
// precedence over both.
//
// # File Format
//
//	version: 1
//	devices:
//	    0007A817E9AC:
//	        nickname: Living room
//	        last_sequence: 1
//	        last_status:
//	            current_temperature: 21
//	            target_temperature: 28
//	            fan_speed: MIN
//	            mode: HEAT
//	            limits: "OFF"
//	            power: true
//	            health: true
//	preferences:
//	    output_format: text
//	    workers: 0
//
// # Usage Example
//
//	registry, err := config.LoadFile(path)
//	if err != nil {
//	    return err
//	}
//	registry.SetNickname(resp.Address, "Living room")
//	registry.RecordResponse(resp, time.Now())
//	if err := registry.Save(); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization. File writes are
// serialised by a mutex. A Registry value itself is not safe for concurrent
// mutation.
package config
