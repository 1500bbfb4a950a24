// Package discovery provides BLE advertisement scanning for e-Badge
// displays.
//
// # Discovery process
//
//  1. Starts a scan through a transport.Transport
//  2. Collects each advertisement whose name matches a fragment (or
//     every advertisement, when WaitForDevice is given an address)
//  3. Returns what it collected once the timeout elapses, or as soon as
//     WaitForDevice finds its target
//
// # Usage
//
//	scanner := discovery.NewScanner(t)
//	devices, err := scanner.ScanForDevices(ctx)
//
// # Thread safety
//
// A Scanner drives one scan at a time; start a second scan only after
// the first has returned.
package discovery
