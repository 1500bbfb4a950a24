package config

import (
	"strings"
	"time"
)

// Registry represents the entire user configuration file.
// This stores user-defined metadata for displays and application
// preferences.
type Registry struct {
	Version     int                 `yaml:"version"`
	Displays    map[string]*Display `yaml:"displays,omitempty"` // Keyed by BLE address
	Preferences *Preferences        `yaml:"preferences,omitempty"`
}

// Display represents user-defined metadata for a single e-Badge display.
// This is keyed by the display's BLE address in the Registry.
type Display struct {
	Nickname string    `yaml:"nickname,omitempty"`   // User-friendly name
	LastSeen time.Time `yaml:"last_seen,omitempty"`  // Last discovery/connection time
	Width    uint16    `yaml:"width,omitempty"`      // Last known display width, pixels
	Height   uint16    `yaml:"height,omitempty"`      // Last known display height, pixels
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AutoDiscover    bool   `yaml:"auto_discover"`          // Scan automatically when no address is given
	ScanTimeout     int    `yaml:"scan_timeout"`           // BLE scan timeout in seconds
	ChunkSize       int    `yaml:"chunk_size,omitempty"`   // Payload bytes per written frame
	WriteDelayMs    int    `yaml:"write_delay_ms,omitempty"`
	DefaultInterval int    `yaml:"default_interval_ms,omitempty"` // Default animation frame interval
	NameFragment    string `yaml:"name_fragment,omitempty"`       // Advertised-name substring to match
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:  1,
		Displays: make(map[string]*Display),
		Preferences: &Preferences{
			AutoDiscover:    true,
			ScanTimeout:     10,
			ChunkSize:       0x1F0,
			WriteDelayMs:    100,
			DefaultInterval: 50,
			NameFragment:    "beambox e-Badge Pulse",
		},
	}
}

// GetDisplay retrieves display metadata by BLE address.
// Returns nil if the display doesn't exist in the registry.
func (r *Registry) GetDisplay(address string) *Display {
	return r.Displays[address]
}

// EnsureDisplay ensures a display entry exists in the registry.
// If the display doesn't exist, creates a new entry with default values.
// Returns the display entry (existing or newly created).
func (r *Registry) EnsureDisplay(address string) *Display {
	if r.Displays == nil {
		r.Displays = make(map[string]*Display)
	}

	if display, exists := r.Displays[address]; exists {
		return display
	}

	display := &Display{}
	r.Displays[address] = display
	return display
}

// UpdateDisplayLastSeen updates the last seen timestamp and geometry for
// a display.
func (r *Registry) UpdateDisplayLastSeen(address string, width, height uint16) {
	display := r.EnsureDisplay(address)
	display.LastSeen = time.Now()
	if width != 0 {
		display.Width = width
	}
	if height != 0 {
		display.Height = height
	}
}

// SetDisplayNickname sets a user-friendly nickname for a display.
func (r *Registry) SetDisplayNickname(address, nickname string) {
	display := r.EnsureDisplay(address)
	display.Nickname = nickname
}

// ResolveAddress looks up a BLE address by nickname (case-insensitive
// exact match), so a caller can write `--device "living room"` instead of
// a raw address. Returns ok=false if ref doesn't match any stored
// nickname; callers should then treat ref as a literal address.
func (r *Registry) ResolveAddress(ref string) (address string, ok bool) {
	for addr, display := range r.Displays {
		if display.Nickname != "" && strings.EqualFold(display.Nickname, ref) {
			return addr, true
		}
	}
	return "", false
}
