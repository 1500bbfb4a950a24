// Package config provides user configuration management for the upload
// controller.
//
// This package manages a YAML-based configuration file that stores
// user-defined metadata for e-Badge displays, including nicknames, the
// last BLE address a display was seen at, and upload preferences. The
// configuration follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/ebadge-upload/config.yaml or $HOME/.config/ebadge-upload/config.yaml
//   - macOS: $HOME/.config/ebadge-upload/config.yaml
//   - Windows: %LOCALAPPDATA%\ebadge-upload\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.SetDisplayNickname("AA:BB:CC:DD:EE:FF", "Front desk badge")
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across
// goroutines. File operations are protected by a mutex to ensure atomic
// writes.
package config
