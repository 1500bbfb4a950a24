package transport

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"tinygo.org/x/bluetooth"

	"github.com/muurk/ebadge-upload/internal/logging"
)

// BLEAdapter is the concrete Transport implementation over
// tinygo.org/x/bluetooth. It wraps the package-level default adapter,
// which is the only adapter tinygo's host backends expose.
type BLEAdapter struct {
	adapter *bluetooth.Adapter

	mu         sync.Mutex
	scanning   bool
	scanCancel context.CancelFunc

	notifyMu     sync.Mutex
	notifyCh     chan []byte
	notifyClosed bool
}

// NewBLEAdapter returns a Transport backed by the host's default
// Bluetooth adapter. The adapter is not enabled until PowerState or
// ScanStart is first called.
func NewBLEAdapter() *BLEAdapter {
	return &BLEAdapter{adapter: bluetooth.DefaultAdapter}
}

func (b *BLEAdapter) ensureEnabled() error {
	if err := b.adapter.Enable(); err != nil {
		return fmt.Errorf("transport: enable adapter: %w", err)
	}
	return nil
}

// PowerState reports whether the local adapter is usable. tinygo's
// bluetooth package does not expose a richer power-state enum on most
// backends, so a successful Enable is treated as PoweredOn.
func (b *BLEAdapter) PowerState(ctx context.Context) (PowerState, error) {
	if err := b.ensureEnabled(); err != nil {
		return PoweredOff, nil
	}
	return PoweredOn, nil
}

// blePeripheral adapts a connected bluetooth.Device to the Peripheral
// interface.
type blePeripheral struct {
	device  bluetooth.Device
	address string
}

func (p *blePeripheral) Address() string { return p.address }

// bleCharacteristic adapts a bluetooth.DeviceCharacteristic.
type bleCharacteristic struct {
	char bluetooth.DeviceCharacteristic
	uuid string
}

func (c *bleCharacteristic) UUID() string { return c.uuid }

// ScanStart begins an asynchronous BLE scan. tinygo's Adapter.Scan is a
// blocking call driven by a callback, so it is run on its own goroutine
// and bridged onto a channel; the goroutine exits when ScanStop is
// called or ctx is cancelled.
func (b *BLEAdapter) ScanStart(ctx context.Context, filter ScanFilter) (<-chan ScanResult, error) {
	if err := b.ensureEnabled(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	if b.scanning {
		b.mu.Unlock()
		return nil, fmt.Errorf("transport: scan already in progress")
	}
	scanCtx, cancel := context.WithCancel(ctx)
	b.scanning = true
	b.scanCancel = cancel
	b.mu.Unlock()

	out := make(chan ScanResult)

	go func() {
		defer close(out)
		defer func() {
			b.mu.Lock()
			b.scanning = false
			b.scanCancel = nil
			b.mu.Unlock()
		}()

		go func() {
			<-scanCtx.Done()
			_ = b.adapter.StopScan()
		}()

		err := b.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			name := result.LocalName()
			address := result.Address.String()

			if filter.Address != "" && !strings.EqualFold(address, filter.Address) {
				return
			}
			if filter.NameContains != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(filter.NameContains)) {
				return
			}

			select {
			case out <- ScanResult{Name: name, Address: address, RSSI: result.RSSI}:
			case <-scanCtx.Done():
			}
		})
		if err != nil {
			logging.Warn("ble scan ended with error", zap.Error(err))
		}
	}()

	return out, nil
}

// ScanStop halts the active scan, if any.
func (b *BLEAdapter) ScanStop() error {
	b.mu.Lock()
	cancel := b.scanCancel
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return b.adapter.StopScan()
}

// Connect dials the peripheral at address.
func (b *BLEAdapter) Connect(ctx context.Context, address string) (Peripheral, error) {
	mac, err := bluetooth.ParseMAC(address)
	if err != nil {
		return nil, fmt.Errorf("transport: parse address %q: %w", address, err)
	}

	device, err := b.adapter.Connect(bluetooth.Address{MACAddress: bluetooth.MACAddress{MAC: mac}}, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("transport: connect to %s: %w", address, err)
	}

	return &blePeripheral{device: device, address: address}, nil
}

// Discover enumerates every service and characteristic on peripheral.
func (b *BLEAdapter) Discover(ctx context.Context, peripheral Peripheral) ([]DiscoveredService, error) {
	p, ok := peripheral.(*blePeripheral)
	if !ok {
		return nil, fmt.Errorf("transport: unexpected peripheral type %T", peripheral)
	}

	services, err := p.device.DiscoverServices(nil)
	if err != nil {
		return nil, fmt.Errorf("transport: discover services: %w", err)
	}

	out := make([]DiscoveredService, 0, len(services))
	for _, svc := range services {
		chars, err := svc.DiscoverCharacteristics(nil)
		if err != nil {
			return nil, fmt.Errorf("transport: discover characteristics of %s: %w", svc.UUID().String(), err)
		}

		discoveredChars := make([]DiscoveredChar, 0, len(chars))
		for _, c := range chars {
			discoveredChars = append(discoveredChars, DiscoveredChar{
				UUID:         c.UUID().String(),
				Capabilities: []CharCapability{CapWrite, CapWriteWithoutResponse, CapNotify, CapRead},
			})
		}

		out = append(out, DiscoveredService{
			UUID:  svc.UUID().String(),
			Chars: discoveredChars,
		})
	}

	return out, nil
}

// CharacteristicByUUID resolves a normalized UUID discovered under
// peripheral back to a live tinygo characteristic handle, re-running
// discovery scoped to that one characteristic's parent service.
func (b *BLEAdapter) CharacteristicByUUID(peripheral Peripheral, service DiscoveredService, normalizedUUID string) (Characteristic, error) {
	p, ok := peripheral.(*blePeripheral)
	if !ok {
		return nil, fmt.Errorf("transport: unexpected peripheral type %T", peripheral)
	}

	svcUUID, err := bluetooth.ParseUUID(service.UUID)
	if err != nil {
		return nil, fmt.Errorf("transport: parse service uuid %s: %w", service.UUID, err)
	}

	services, err := p.device.DiscoverServices([]bluetooth.UUID{svcUUID})
	if err != nil || len(services) == 0 {
		return nil, fmt.Errorf("transport: re-discover service %s: %w", service.UUID, err)
	}

	chars, err := services[0].DiscoverCharacteristics(nil)
	if err != nil {
		return nil, fmt.Errorf("transport: discover characteristics of %s: %w", service.UUID, err)
	}

	for _, c := range chars {
		if UUIDsEqual(c.UUID().String(), normalizedUUID) {
			return &bleCharacteristic{char: c, uuid: c.UUID().String()}, nil
		}
	}

	return nil, fmt.Errorf("transport: characteristic %s not found under service %s", normalizedUUID, service.UUID)
}

// Write sends data to characteristic.
func (b *BLEAdapter) Write(ctx context.Context, peripheral Peripheral, characteristic Characteristic, data []byte, withoutResponse bool) error {
	c, ok := characteristic.(*bleCharacteristic)
	if !ok {
		return fmt.Errorf("transport: unexpected characteristic type %T", characteristic)
	}

	var err error
	if withoutResponse {
		_, err = c.char.WriteWithoutResponse(data)
	} else {
		_, err = c.char.Write(data)
	}
	if err != nil {
		return fmt.Errorf("transport: write to %s: %w", c.uuid, err)
	}
	return nil
}

// Subscribe enables notifications on characteristic and bridges the
// callback-based API onto a channel.
func (b *BLEAdapter) Subscribe(ctx context.Context, peripheral Peripheral, characteristic Characteristic) (<-chan []byte, error) {
	c, ok := characteristic.(*bleCharacteristic)
	if !ok {
		return nil, fmt.Errorf("transport: unexpected characteristic type %T", characteristic)
	}

	out := make(chan []byte, 16)

	b.notifyMu.Lock()
	b.notifyCh = out
	b.notifyClosed = false
	b.notifyMu.Unlock()

	err := c.char.EnableNotifications(func(buf []byte) {
		cp := make([]byte, len(buf))
		copy(cp, buf)

		b.notifyMu.Lock()
		ch, closed := b.notifyCh, b.notifyClosed
		b.notifyMu.Unlock()
		if closed || ch == nil {
			return
		}

		select {
		case ch <- cp:
		default:
			logging.Warn("dropped notification: consumer channel full")
		}
	})
	if err != nil {
		b.notifyMu.Lock()
		b.notifyClosed = true
		b.notifyCh = nil
		b.notifyMu.Unlock()
		close(out)
		return nil, fmt.Errorf("transport: enable notifications on %s: %w", c.uuid, err)
	}

	return out, nil
}

// Disconnect tears down the connection. Idempotent: a second call on an
// already-disconnected peripheral returns the underlying driver's error,
// which callers are expected to ignore. The channel returned by Subscribe
// is closed here, as the Transport contract promises, so the engine's
// notification dispatcher loop always terminates.
func (b *BLEAdapter) Disconnect(peripheral Peripheral) error {
	p, ok := peripheral.(*blePeripheral)
	if !ok {
		return fmt.Errorf("transport: unexpected peripheral type %T", peripheral)
	}
	err := p.device.Disconnect()

	b.notifyMu.Lock()
	if !b.notifyClosed && b.notifyCh != nil {
		b.notifyClosed = true
		close(b.notifyCh)
		b.notifyCh = nil
	}
	b.notifyMu.Unlock()

	return err
}
