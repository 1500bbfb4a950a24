// Package transport defines the narrow BLE capability the upload engine
// consumes, and a concrete adapter over tinygo.org/x/bluetooth.
//
// The engine in internal/upload never imports tinygo.org/x/bluetooth
// directly; it depends only on the Transport interface here, so it can
// be driven by a fake in tests.
package transport

import (
	"context"
	"time"
)

// PowerState mirrors the host adapter's on/off/permission state.
type PowerState int

const (
	PoweredOff PowerState = iota
	PoweredOn
	Unsupported
	Unauthorized
)

func (s PowerState) String() string {
	switch s {
	case PoweredOn:
		return "poweredOn"
	case Unsupported:
		return "unsupported"
	case Unauthorized:
		return "unauthorized"
	default:
		return "poweredOff"
	}
}

// ScanResult is one advertisement observed during a scan.
type ScanResult struct {
	Name    string
	Address string
	RSSI    int16
}

// ScanFilter narrows which advertisements scan_events surfaces. Exactly
// one of Address or NameContains should be set; an empty filter matches
// every advertisement.
type ScanFilter struct {
	Address      string
	NameContains string
}

// CharCapability describes one property bit a discovered characteristic
// supports.
type CharCapability int

const (
	CapWrite CharCapability = iota
	CapWriteWithoutResponse
	CapNotify
	CapRead
)

// DiscoveredChar is one characteristic found under a service during
// discovery.
type DiscoveredChar struct {
	UUID         string
	Capabilities []CharCapability
}

// DiscoveredService is one GATT service found on a peripheral, with its
// characteristics.
type DiscoveredService struct {
	UUID  string
	Chars []DiscoveredChar
}

// Peripheral is an opaque handle to a connected device. Transport
// implementations define their own concrete type; callers only pass it
// back into the same Transport instance.
type Peripheral interface {
	// Address returns the BLE address this handle is connected to.
	Address() string
}

// Characteristic is an opaque handle to a discovered GATT
// characteristic, returned by Discover and consumed by Write/Subscribe.
type Characteristic interface {
	UUID() string
}

// Transport is the capability the upload engine consumes from the
// environment. Implementations must make scan_events, notification
// delivery, and disconnect safe to use concurrently with the rest of
// the engine's single-threaded control flow.
type Transport interface {
	// PowerState reports the current adapter state.
	PowerState(ctx context.Context) (PowerState, error)

	// ScanStart begins scanning for advertisements matching filter,
	// delivering each match on the returned channel until ScanStop is
	// called or ctx is done. The channel is closed when scanning stops.
	ScanStart(ctx context.Context, filter ScanFilter) (<-chan ScanResult, error)

	// ScanStop halts an in-progress scan. Safe to call even if no scan
	// is active.
	ScanStop() error

	// Connect establishes a connection to the peripheral at address.
	Connect(ctx context.Context, address string) (Peripheral, error)

	// Discover enumerates services and characteristics on peripheral.
	Discover(ctx context.Context, peripheral Peripheral) ([]DiscoveredService, error)

	// CharacteristicByUUID resolves a normalized UUID (see NormalizeUUID)
	// discovered under peripheral to a writable/subscribable handle.
	CharacteristicByUUID(peripheral Peripheral, service DiscoveredService, normalizedUUID string) (Characteristic, error)

	// Write sends bytes to characteristic. withoutResponse selects the
	// write-without-response GATT operation used for streaming chunks.
	Write(ctx context.Context, peripheral Peripheral, characteristic Characteristic, data []byte, withoutResponse bool) error

	// Subscribe enables notifications on characteristic and returns a
	// channel of inbound notification payloads. The channel is closed on
	// Disconnect.
	Subscribe(ctx context.Context, peripheral Peripheral, characteristic Characteristic) (<-chan []byte, error)

	// Disconnect tears down the connection to peripheral. Idempotent.
	Disconnect(peripheral Peripheral) error
}

// DefaultScanTimeout bounds how long ScanStart is allowed to run before
// the caller gives up, absent an explicit override.
const DefaultScanTimeout = 10 * time.Second
