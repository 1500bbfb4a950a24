package discovery

import (
	"testing"
	"time"
)

func TestDevice_String(t *testing.T) {
	device := &Device{
		Address: "AA:BB:CC:DD:EE:FF",
		Name:    "beambox e-Badge Pulse 1234",
		RSSI:    -52,
	}

	expected := `e-Badge display "beambox e-Badge Pulse 1234" at AA:BB:CC:DD:EE:FF (RSSI -52)`
	if got := device.String(); got != expected {
		t.Errorf("Device.String() = %q, want %q", got, expected)
	}
}

func TestDevice_DiscoveredAt(t *testing.T) {
	now := time.Now()
	device := &Device{
		Address:      "AA:BB:CC:DD:EE:FF",
		DiscoveredAt: now,
	}

	if device.DiscoveredAt != now {
		t.Errorf("Device.DiscoveredAt = %v, want %v", device.DiscoveredAt, now)
	}
}
