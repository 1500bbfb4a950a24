package discovery

import (
	"fmt"
	"time"
)

// Device represents an e-Badge display observed during a BLE scan.
type Device struct {
	// Address is the BLE address used to Connect (a MAC on Linux and
	// Windows, a platform-assigned UUID on macOS).
	Address string

	// Name is the advertised peripheral name.
	Name string

	// RSSI is the signal strength of the most recently seen
	// advertisement for this device.
	RSSI int16

	// DiscoveredAt is when this device was first observed during the
	// current scan.
	DiscoveredAt time.Time
}

// String returns a human-readable representation of the device.
func (d *Device) String() string {
	return fmt.Sprintf("e-Badge display %q at %s (RSSI %d)", d.Name, d.Address, d.RSSI)
}
