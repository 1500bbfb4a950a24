package upload

import (
	"context"
	"sync"

	"github.com/muurk/ebadge-upload/internal/transport"
)

// fakePeripheral and fakeCharacteristic are minimal stand-ins satisfying
// the transport.Peripheral/Characteristic interfaces.
type fakePeripheral struct{ address string }

func (p *fakePeripheral) Address() string { return p.address }

type fakeCharacteristic struct{ uuid string }

func (c *fakeCharacteristic) UUID() string { return c.uuid }

// fakeTransport drives the engine without any real radio. Writes made
// through Write are recorded; notifications queued via deliver are sent
// on the channel returned by Subscribe.
type fakeTransport struct {
	mu sync.Mutex

	power      transport.PowerState
	scanResult transport.ScanResult
	scanErr    error
	connectErr error
	services   []transport.DiscoveredService
	writes     [][]byte
	writeErr   error
	notifyCh   chan []byte
	disconnect bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		power: transport.PoweredOn,
		scanResult: transport.ScanResult{
			Name:    "beambox e-Badge Pulse 1234",
			Address: "AA:BB:CC:DD:EE:FF",
			RSSI:    -40,
		},
		services: []transport.DiscoveredService{
			{
				UUID: "1234",
				Chars: []transport.DiscoveredChar{
					{UUID: "01f1", Capabilities: []transport.CharCapability{transport.CapWriteWithoutResponse}},
					{UUID: "01f2", Capabilities: []transport.CharCapability{transport.CapNotify}},
				},
			},
		},
		notifyCh: make(chan []byte, 16),
	}
}

func (f *fakeTransport) PowerState(ctx context.Context) (transport.PowerState, error) {
	return f.power, nil
}

func (f *fakeTransport) ScanStart(ctx context.Context, filter transport.ScanFilter) (<-chan transport.ScanResult, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	ch := make(chan transport.ScanResult, 1)
	ch <- f.scanResult
	return ch, nil
}

func (f *fakeTransport) ScanStop() error { return nil }

func (f *fakeTransport) Connect(ctx context.Context, address string) (transport.Peripheral, error) {
	if f.connectErr != nil {
		return nil, f.connectErr
	}
	return &fakePeripheral{address: address}, nil
}

func (f *fakeTransport) Discover(ctx context.Context, peripheral transport.Peripheral) ([]transport.DiscoveredService, error) {
	return f.services, nil
}

func (f *fakeTransport) CharacteristicByUUID(peripheral transport.Peripheral, service transport.DiscoveredService, normalizedUUID string) (transport.Characteristic, error) {
	return &fakeCharacteristic{uuid: normalizedUUID}, nil
}

func (f *fakeTransport) Write(ctx context.Context, peripheral transport.Peripheral, characteristic transport.Characteristic, data []byte, withoutResponse bool) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.mu.Lock()
	cp := append([]byte(nil), data...)
	f.writes = append(f.writes, cp)
	f.mu.Unlock()
	return nil
}

func (f *fakeTransport) Subscribe(ctx context.Context, peripheral transport.Peripheral, characteristic transport.Characteristic) (<-chan []byte, error) {
	return f.notifyCh, nil
}

func (f *fakeTransport) Disconnect(peripheral transport.Peripheral) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disconnect {
		return nil
	}
	f.disconnect = true
	close(f.notifyCh)
	return nil
}

// deliver queues a raw notification payload for the dispatcher to pick up.
func (f *fakeTransport) deliver(raw []byte) {
	f.notifyCh <- raw
}

func (f *fakeTransport) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}
