package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/muurk/ebadge-upload/internal/transport"
)

type fakeScanTransport struct {
	transport.Transport
	results []transport.ScanResult
}

func (f *fakeScanTransport) ScanStart(ctx context.Context, filter transport.ScanFilter) (<-chan transport.ScanResult, error) {
	ch := make(chan transport.ScanResult, len(f.results))
	for _, r := range f.results {
		ch <- r
	}
	close(ch)
	return ch, nil
}

func (f *fakeScanTransport) ScanStop() error { return nil }

func TestScanForDevices_CollectsDistinctAddresses(t *testing.T) {
	ft := &fakeScanTransport{results: []transport.ScanResult{
		{Name: "beambox e-Badge Pulse A", Address: "AA:AA:AA:AA:AA:AA", RSSI: -40},
		{Name: "beambox e-Badge Pulse B", Address: "BB:BB:BB:BB:BB:BB", RSSI: -60},
		{Name: "beambox e-Badge Pulse A", Address: "AA:AA:AA:AA:AA:AA", RSSI: -38},
	}}

	s := NewScanner(ft)
	s.Timeout = 100 * time.Millisecond

	devices, err := s.ScanForDevices(context.Background())
	if err != nil {
		t.Fatalf("ScanForDevices: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(devices))
	}
	if devices[0].RSSI != -38 {
		t.Fatalf("expected RSSI updated to most recent reading, got %d", devices[0].RSSI)
	}
}

func TestWaitForDevice_MatchesByAddress(t *testing.T) {
	ft := &fakeScanTransport{results: []transport.ScanResult{
		{Name: "other device", Address: "11:11:11:11:11:11", RSSI: -70},
		{Name: "beambox e-Badge Pulse", Address: "AA:BB:CC:DD:EE:FF", RSSI: -45},
	}}

	s := NewScanner(ft)
	s.Timeout = 100 * time.Millisecond

	device, err := s.WaitForDevice(context.Background(), "AA:BB:CC:DD:EE:FF")
	if err != nil {
		t.Fatalf("WaitForDevice: %v", err)
	}
	if device.Address != "AA:BB:CC:DD:EE:FF" {
		t.Fatalf("got address %q, want AA:BB:CC:DD:EE:FF", device.Address)
	}
}

func TestWaitForDevice_NoMatchReturnsError(t *testing.T) {
	ft := &fakeScanTransport{results: []transport.ScanResult{
		{Name: "unrelated", Address: "22:22:22:22:22:22", RSSI: -70},
	}}

	s := NewScanner(ft)
	s.Timeout = 20 * time.Millisecond

	if _, err := s.WaitForDevice(context.Background(), "no-such-device"); err == nil {
		t.Fatal("expected an error when no advertisement matches")
	}
}
