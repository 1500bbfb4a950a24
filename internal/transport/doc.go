// Package transport defines the BLE capability the upload engine relies
// on — power state, scanning, connecting, GATT discovery, writes, and
// notification subscription — and a concrete adapter over
// tinygo.org/x/bluetooth.
//
// internal/upload depends only on the Transport interface, never on
// tinygo.org/x/bluetooth directly, so the engine can be exercised
// against a fake transport in tests without real hardware.
package transport
