package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/muurk/ebadge-upload/internal/transport"
)

const (
	// DefaultScanTimeout is the default duration a scan runs before
	// returning whatever it has collected.
	DefaultScanTimeout = 10 * time.Second

	// DefaultNameFragment is matched case-insensitively against
	// advertised names when no more specific filter is given.
	DefaultNameFragment = "e-Badge"
)

// Scanner drives BLE advertisement scanning over a transport.Transport
// and accumulates matching Device records.
type Scanner struct {
	// Timeout is the maximum time a scan runs before returning.
	Timeout time.Duration

	// NameFragment filters advertisements by a case-insensitive
	// substring of the advertised name. Ignored when empty.
	NameFragment string

	transport transport.Transport
}

// NewScanner creates a Scanner over t with default settings.
func NewScanner(t transport.Transport) *Scanner {
	return &Scanner{
		Timeout:      DefaultScanTimeout,
		NameFragment: DefaultNameFragment,
		transport:    t,
	}
}

// ScanForDevices discovers displays matching NameFragment, returning
// one Device per distinct address seen before Timeout elapses.
func (s *Scanner) ScanForDevices(ctx context.Context) ([]*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	results, err := s.transport.ScanStart(ctx, transport.ScanFilter{NameContains: s.NameFragment})
	if err != nil {
		return nil, fmt.Errorf("start scan: %w", err)
	}
	defer func() { _ = s.transport.ScanStop() }()

	seen := make(map[string]*Device)
	order := make([]string, 0)

	for {
		select {
		case result, ok := <-results:
			if !ok {
				return orderedDevices(seen, order), nil
			}
			if existing, found := seen[result.Address]; found {
				existing.RSSI = result.RSSI
				continue
			}
			seen[result.Address] = &Device{
				Address:      result.Address,
				Name:         result.Name,
				RSSI:         result.RSSI,
				DiscoveredAt: time.Now(),
			}
			order = append(order, result.Address)
		case <-ctx.Done():
			return orderedDevices(seen, order), nil
		}
	}
}

func orderedDevices(seen map[string]*Device, order []string) []*Device {
	devices := make([]*Device, 0, len(order))
	for _, addr := range order {
		devices = append(devices, seen[addr])
	}
	return devices
}

// WaitForDevice waits for a single device whose address or advertised
// name matches target, returning as soon as a match is observed.
func (s *Scanner) WaitForDevice(ctx context.Context, target string) (*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	results, err := s.transport.ScanStart(ctx, transport.ScanFilter{})
	if err != nil {
		return nil, fmt.Errorf("start scan: %w", err)
	}
	defer func() { _ = s.transport.ScanStop() }()

	for {
		select {
		case result, ok := <-results:
			if !ok {
				return nil, fmt.Errorf("device matching %q not found before scan ended", target)
			}
			if strings.EqualFold(result.Address, target) || strings.Contains(strings.ToLower(result.Name), strings.ToLower(target)) {
				return &Device{
					Address:      result.Address,
					Name:         result.Name,
					RSSI:         result.RSSI,
					DiscoveredAt: time.Now(),
				}, nil
			}
		case <-ctx.Done():
			return nil, fmt.Errorf("device matching %q not found within timeout", target)
		}
	}
}
