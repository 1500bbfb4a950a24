package upload

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/ebadge-upload/internal/logging"
	"github.com/muurk/ebadge-upload/internal/protocol"
	"github.com/muurk/ebadge-upload/internal/transport"
)

// NotificationRecord is one entry in the append-only diagnostic log kept
// across a connection's lifetime.
type NotificationRecord struct {
	Time   time.Time
	Raw    []byte
	Parsed *protocol.ParsedResponse
}

// ProgressFunc receives monotonically non-decreasing completion
// percentages in [0, 100] during a streaming upload, with the final
// call guaranteed to be 100 on success.
type ProgressFunc func(percent int)

// Engine drives the connect -> await-status -> announce -> stream ->
// finalize state machine against a Transport. One Engine manages
// exactly one connected device at a time.
type Engine struct {
	transport transport.Transport
	config    Config

	// mu guards every field below. The notification dispatcher
	// goroutine and the driving goroutine both touch this state, per
	// the single-writer discipline: the dispatcher owns errored,
	// deviceStatus, deviceReady, and notifications; the driver owns
	// state, peripheral, the characteristic handles, the waiters, and
	// the in-flight streaming progress (errored is the one field the
	// dispatcher also writes, checked at each chunk boundary).
	mu             sync.Mutex
	state          State
	peripheral     transport.Peripheral
	writeChar      transport.Characteristic
	notifyChar     transport.Characteristic
	errored        bool
	deviceStatus   *protocol.DeviceStatus
	deviceReady    bool
	notifications  []NotificationRecord
	statusWaiter   *waiter
	finalizeWaiter *waiter
	streaming      StreamingProgress

	dispatchDone chan struct{}

	// OnStateChange, if set, is invoked synchronously every time the
	// engine transitions to a new lifecycle state. It exists to drive
	// external progress display (see cmd/ebadge-upload) and must not
	// block or call back into the engine.
	OnStateChange func(State)
}

// NewEngine constructs an Engine over the given transport. Zero-value
// fields in cfg are replaced with protocol defaults.
func NewEngine(t transport.Transport, cfg Config) *Engine {
	return &Engine{
		transport: t,
		config:    cfg.withDefaults(),
		state:     Idle,
	}
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
	if e.OnStateChange != nil {
		e.OnStateChange(s)
	}
}

// StreamingStatus returns a snapshot of the in-flight chunked transfer.
// Only meaningful while State() == Streaming; it reads as a zero value
// before the first upload and retains the last transfer's values once
// finalized.
func (e *Engine) StreamingStatus() StreamingProgress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.streaming
}

// Connect scans for, connects to, and prepares a display for upload.
// If address is empty, it scans for a peripheral whose advertised name
// contains the configured name fragment; otherwise it scans for that
// exact address.
func (e *Engine) Connect(ctx context.Context, address string) error {
	power, err := e.transport.PowerState(ctx)
	if err != nil || power != transport.PoweredOn {
		return newError(AdapterDown, "bluetooth adapter is not powered on")
	}

	e.setState(Scanning)
	found, err := e.scanFor(ctx, address)
	if err != nil {
		return err
	}

	e.setState(Connecting)
	logging.LogConnectStart(found)
	peripheral, err := e.transport.Connect(ctx, found)
	if err != nil {
		return wrapError(ConnectionFailed, "connect to "+found, err)
	}
	logging.LogConnected(found)

	e.setState(Discovering)
	writeChar, notifyChar, err := e.discoverCharacteristics(ctx, peripheral)
	if err != nil {
		_ = e.transport.Disconnect(peripheral)
		return err
	}

	e.mu.Lock()
	e.peripheral = peripheral
	e.writeChar = writeChar
	e.notifyChar = notifyChar
	e.errored = false
	e.deviceStatus = nil
	e.deviceReady = false
	e.notifications = nil
	e.mu.Unlock()

	notifyCh, err := e.transport.Subscribe(ctx, peripheral, notifyChar)
	if err != nil {
		_ = e.transport.Disconnect(peripheral)
		return wrapError(CharacteristicsMissing, "subscribe to notify characteristic", err)
	}

	e.dispatchDone = make(chan struct{})
	go e.dispatchNotifications(notifyCh)

	e.setState(AwaitingStatus)
	logging.LogStatusWait(found)

	e.mu.Lock()
	e.statusWaiter = newWaiter()
	sw := e.statusWaiter
	e.mu.Unlock()

	select {
	case <-sw.channel():
	case <-time.After(e.config.AwaitStatusTimeout):
		logging.Warn("no device-status notification before timeout; proceeding anyway")
	case <-ctx.Done():
		_ = e.Disconnect()
		return wrapError(Timeout, "connect cancelled while awaiting status", ctx.Err())
	}

	e.setState(Ready)
	return nil
}

// scanFor drives scan_start/scan_events/scan_stop until a match is
// found or the scan timeout elapses.
func (e *Engine) scanFor(ctx context.Context, address string) (string, error) {
	scanCtx, cancel := context.WithTimeout(ctx, e.config.ScanTimeout)
	defer cancel()

	filter := transport.ScanFilter{}
	if address != "" {
		filter.Address = address
	} else {
		filter.NameContains = e.config.NameFragment
	}

	logging.LogScanStart(e.config.NameFragment, e.config.ScanTimeout.Seconds())

	results, err := e.transport.ScanStart(scanCtx, filter)
	if err != nil {
		return "", wrapError(DeviceNotFound, "start scan", err)
	}
	defer func() { _ = e.transport.ScanStop() }()

	for {
		select {
		case result, ok := <-results:
			if !ok {
				return "", newError(DeviceNotFound, "scan ended without a match")
			}
			logging.LogDeviceFound(result.Name, result.Address, result.RSSI)
			if address != "" && !strings.EqualFold(result.Address, address) {
				continue
			}
			if address == "" && !strings.Contains(strings.ToLower(result.Name), strings.ToLower(e.config.NameFragment)) {
				continue
			}
			return result.Address, nil
		case <-scanCtx.Done():
			return "", newError(DeviceNotFound, "scan timed out")
		}
	}
}

// discoverCharacteristics walks every discovered service looking for the
// configured write and notify UUIDs, matching by normalized form.
func (e *Engine) discoverCharacteristics(ctx context.Context, peripheral transport.Peripheral) (transport.Characteristic, transport.Characteristic, error) {
	services, err := e.transport.Discover(ctx, peripheral)
	if err != nil {
		return nil, nil, wrapError(CharacteristicsMissing, "discover services", err)
	}

	var writeChar, notifyChar transport.Characteristic

	for _, svc := range services {
		for _, c := range svc.Chars {
			logging.LogDiscoverChar(svc.UUID, c.UUID)
			switch {
			case writeChar == nil && transport.UUIDsEqual(c.UUID, e.config.WriteCharUUID):
				writeChar, err = e.transport.CharacteristicByUUID(peripheral, svc, c.UUID)
				if err != nil {
					return nil, nil, wrapError(CharacteristicsMissing, "resolve write characteristic", err)
				}
			case notifyChar == nil && transport.UUIDsEqual(c.UUID, e.config.NotifyCharUUID):
				notifyChar, err = e.transport.CharacteristicByUUID(peripheral, svc, c.UUID)
				if err != nil {
					return nil, nil, wrapError(CharacteristicsMissing, "resolve notify characteristic", err)
				}
			}
		}
	}

	if writeChar == nil || notifyChar == nil {
		return nil, nil, newError(CharacteristicsMissing, "write or notify characteristic not found on peripheral")
	}

	return writeChar, notifyChar, nil
}

// dispatchNotifications is the notify task: it owns errored,
// deviceStatus, deviceReady, and notifications for the lifetime of one
// connection, and signals the current statusWaiter/finalizeWaiter at
// most once per wait cycle.
func (e *Engine) dispatchNotifications(in <-chan []byte) {
	defer close(e.dispatchDone)

	for raw := range in {
		logging.LogNotification(e.peripheralAddress(), raw)
		parsed := protocol.Parse(raw)

		e.mu.Lock()
		e.notifications = append(e.notifications, NotificationRecord{
			Time:   time.Now(),
			Raw:    raw,
			Parsed: parsed,
		})

		if parsed.IsError() {
			e.errored = true
		}

		if parsed.IsStatusRecord && !e.deviceReady {
			e.deviceReady = true
			status := parsed.DeviceStatus
			e.deviceStatus = &status
			logging.LogStatusReceived(status.AllSpaceKB, status.FreeSpaceKB, status.DeviceName)
			if e.statusWaiter != nil {
				e.statusWaiter.signal()
			}
		}

		if e.finalizeWaiter != nil {
			e.finalizeWaiter.signal()
		}
		e.mu.Unlock()
	}
}

func (e *Engine) peripheralAddress() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.peripheral == nil {
		return ""
	}
	return e.peripheral.Address()
}

func (e *Engine) isErrored() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errored
}

func (e *Engine) latestDeviceStatus() *protocol.DeviceStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deviceStatus
}

// QueryStatus waits up to timeout (10 seconds if zero) for a
// device-status notification, returning the latest known status and the
// full notification log collected since Connect.
func (e *Engine) QueryStatus(ctx context.Context, timeout time.Duration) (*protocol.DeviceStatus, []NotificationRecord, error) {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	if status := e.latestDeviceStatus(); status != nil {
		return status, e.notificationSnapshot(), nil
	}

	e.mu.Lock()
	e.statusWaiter = newWaiter()
	sw := e.statusWaiter
	e.mu.Unlock()

	select {
	case <-sw.channel():
	case <-time.After(timeout):
	case <-ctx.Done():
		return nil, e.notificationSnapshot(), wrapError(Timeout, "query status cancelled", ctx.Err())
	}

	return e.latestDeviceStatus(), e.notificationSnapshot(), nil
}

func (e *Engine) notificationSnapshot() []NotificationRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]NotificationRecord, len(e.notifications))
	copy(out, e.notifications)
	return out
}

// UploadImage composes and streams a single still image.
func (e *Engine) UploadImage(ctx context.Context, jpeg []byte, width, height uint16, progress ProgressFunc) error {
	payload, err := protocol.BuildImageData(jpeg, width, height, protocol.PacketTypeImage)
	if err != nil {
		return wrapError(ProtocolViolation, "compose image payload", err)
	}
	return e.upload(ctx, payload, protocol.PacketTypeImage, progress)
}

// UploadAnimation composes and streams an xV4 animation.
func (e *Engine) UploadAnimation(ctx context.Context, frames []protocol.XV4Frame, intervalMillis int, width, height uint16, progress ProgressFunc) error {
	if len(frames) == 0 {
		return newError(EmptyAnimation, "animation must have at least one frame")
	}

	payload, err := protocol.BuildAnimationData(frames, intervalMillis, width, height, protocol.PacketTypeDynamicAmbience)
	if err != nil {
		if _, ok := err.(*protocol.EmptyAnimationError); ok {
			return newError(EmptyAnimation, "animation must have at least one frame")
		}
		return wrapError(ProtocolViolation, "compose animation payload", err)
	}
	return e.upload(ctx, payload, protocol.PacketTypeDynamicAmbience, progress)
}

// upload runs the common streaming path shared by still images and
// animations, per the connection's contracted upload algorithm.
func (e *Engine) upload(ctx context.Context, payload []byte, contentSubtype byte, progress ProgressFunc) error {
	if e.State() != Ready {
		return newError(ConnectionFailed, "upload requires an engine in the Ready state")
	}

	select {
	case <-time.After(e.config.SettleDelay):
	case <-ctx.Done():
		return wrapError(Timeout, "upload cancelled during settle delay", ctx.Err())
	}

	packetCount := protocol.ChunkCount(len(payload), e.config.ChunkSize)

	if len(payload) > e.config.MaxPayloadSize || packetCount > e.config.MaxPacketCount {
		return newError(PayloadTooLarge, "payload exceeds configured limits")
	}

	if status := e.latestDeviceStatus(); status != nil {
		requiredBytes := float64(len(payload)) * 1.10
		availableBytes := float64(status.FreeSpaceKB) * 1024
		if availableBytes < requiredBytes {
			return newError(InsufficientStorage, "device-reported free space is below the required margin")
		}
	}

	e.setState(AnnouncingInfo)
	info := protocol.BuildImageInfo(protocol.PacketTypeImage, 1)
	infoFrame := protocol.BuildFrame(protocol.PacketTypeImage, 0, 0, info)
	if err := e.write(ctx, infoFrame); err != nil {
		return err
	}
	logging.LogInfoSent(protocol.PacketTypeImage, 1)

	select {
	case <-time.After(e.config.InfoDelay):
	case <-ctx.Done():
		return wrapError(Timeout, "upload cancelled after info announcement", ctx.Err())
	}

	e.setState(Streaming)
	logging.LogDataStart(len(payload), packetCount)

	chunks := protocol.SplitChunks(payload, e.config.ChunkSize)

	e.mu.Lock()
	e.streaming = StreamingProgress{Total: packetCount}
	e.mu.Unlock()

	for i, chunk := range chunks {
		remaining := packetCount - 1 - i
		frame := protocol.BuildFrame(contentSubtype, uint32(packetCount), uint32(remaining), chunk)

		if err := e.write(ctx, frame); err != nil {
			return err
		}

		if e.isErrored() {
			e.mu.Lock()
			e.streaming.Errored = true
			e.mu.Unlock()
			_ = e.Disconnect()
			return newError(DeviceError, "device reported an error mid-transfer")
		}

		e.mu.Lock()
		e.streaming.Sent++
		sent := e.streaming.Sent
		progressPct := e.streaming.Percent()
		e.mu.Unlock()

		if progress != nil {
			progress(progressPct)
		}
		logging.LogDataProgress(sent, packetCount, sent*e.config.ChunkSize)

		select {
		case <-time.After(e.config.ChunkDelay):
		case <-ctx.Done():
			return wrapError(Timeout, "upload cancelled mid-transfer", ctx.Err())
		}
	}

	e.setState(Finalizing)

	e.mu.Lock()
	e.finalizeWaiter = newWaiter()
	fw := e.finalizeWaiter
	e.mu.Unlock()

	select {
	case <-fw.channel():
	case <-time.After(e.config.FinalizeTimeout):
		logging.Warn("finalize timed out waiting for a terminal notification")
	case <-ctx.Done():
		return wrapError(Timeout, "upload cancelled during finalize", ctx.Err())
	}

	if e.isErrored() {
		logging.LogDataComplete(len(payload), "error")
		_ = e.Disconnect()
		return newError(DeviceError, "device reported an error during finalize")
	}

	logging.LogDataComplete(len(payload), "success")
	if progress != nil {
		progress(100)
	}
	e.setState(Ready)
	return nil
}

func (e *Engine) write(ctx context.Context, frame []byte) error {
	e.mu.Lock()
	peripheral, writeChar := e.peripheral, e.writeChar
	e.mu.Unlock()

	if err := e.transport.Write(ctx, peripheral, writeChar, frame, true); err != nil {
		return wrapError(TransportWriteFailed, "write frame", err)
	}
	return nil
}

// Disconnect tears down the connection. Idempotent and safe at any
// time; it does not attempt to roll back a partial upload.
func (e *Engine) Disconnect() error {
	e.mu.Lock()
	peripheral := e.peripheral
	e.peripheral = nil
	e.writeChar = nil
	e.notifyChar = nil
	e.mu.Unlock()

	_ = e.transport.ScanStop()

	if peripheral != nil {
		if err := e.transport.Disconnect(peripheral); err != nil {
			logging.Warn("disconnect returned an error", zap.Error(err))
		}
		logging.LogDisconnected(peripheral.Address(), "disconnect requested")
	}

	e.setState(Closed)
	return nil
}
