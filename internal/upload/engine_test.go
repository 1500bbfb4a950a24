package upload

import (
	"context"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		NameFragment:       "e-Badge",
		WriteCharUUID:      "01f1",
		NotifyCharUUID:     "01f2",
		ChunkSize:          16,
		ChunkDelay:         time.Millisecond,
		InfoDelay:          time.Millisecond,
		ScanTimeout:        50 * time.Millisecond,
		AwaitStatusTimeout: 30 * time.Millisecond,
		FinalizeTimeout:    50 * time.Millisecond,
		SettleDelay:        time.Millisecond,
		MaxPayloadSize:     1 << 20,
		MaxPacketCount:     10000,
	}
}

func TestConnect_DiscoversAndReachesReady(t *testing.T) {
	ft := newFakeTransport()
	e := NewEngine(ft, testConfig())

	if err := e.Connect(context.Background(), ""); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if got := e.State(); got != Ready {
		t.Fatalf("state = %v, want Ready", got)
	}
}

func TestConnect_NoMatchingAddressTimesOut(t *testing.T) {
	ft := newFakeTransport()
	e := NewEngine(ft, testConfig())

	err := e.Connect(context.Background(), "11:22:33:44:55:66")
	if err == nil {
		t.Fatal("expected an error for a non-matching address")
	}
	if !IsKind(err, DeviceNotFound) {
		t.Fatalf("err kind = %v, want DeviceNotFound", err)
	}
}

func TestConnect_AdapterDown(t *testing.T) {
	ft := newFakeTransport()
	ft.power = 0 // PoweredOff
	e := NewEngine(ft, testConfig())

	err := e.Connect(context.Background(), "")
	if !IsKind(err, AdapterDown) {
		t.Fatalf("err = %v, want AdapterDown", err)
	}
}

func TestConnect_MissingCharacteristics(t *testing.T) {
	ft := newFakeTransport()
	ft.services = nil
	e := NewEngine(ft, testConfig())

	err := e.Connect(context.Background(), "")
	if !IsKind(err, CharacteristicsMissing) {
		t.Fatalf("err = %v, want CharacteristicsMissing", err)
	}
}

func TestConnect_PicksUpDeviceStatus(t *testing.T) {
	ft := newFakeTransport()
	ft.deliver([]byte(`{"type":13,"allspace":16384,"freespace":13892,"devname":"BeamBox","size":"64x32","brand":1}`))
	e := NewEngine(ft, testConfig())

	if err := e.Connect(context.Background(), ""); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	status, _, err := e.QueryStatus(context.Background(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("QueryStatus: %v", err)
	}
	if status == nil {
		t.Fatal("expected a device status")
	}
	if status.DeviceName != "BeamBox" || status.FreeSpaceKB != 13892 {
		t.Fatalf("status = %+v, unexpected", status)
	}
}

func mustReady(t *testing.T, ft *fakeTransport) *Engine {
	t.Helper()
	e := NewEngine(ft, testConfig())
	if err := e.Connect(context.Background(), ""); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return e
}

func TestUploadImage_StreamsAndFinalizesOnSuccess(t *testing.T) {
	ft := newFakeTransport()
	e := mustReady(t, ft)

	go func() {
		time.Sleep(5 * time.Millisecond)
		ft.deliver([]byte("GetPacketSuccess"))
	}()

	jpeg := make([]byte, 200)
	var lastPct int
	err := e.UploadImage(context.Background(), jpeg, 64, 64, func(pct int) { lastPct = pct })
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if lastPct != 100 {
		t.Fatalf("final progress = %d, want 100", lastPct)
	}
	if e.State() != Ready {
		t.Fatalf("state after upload = %v, want Ready", e.State())
	}
	if ft.writeCount() < 2 {
		t.Fatalf("expected at least an info frame and one data frame, got %d writes", ft.writeCount())
	}
}

func TestUploadImage_DeviceErrorMidTransfer(t *testing.T) {
	ft := newFakeTransport()
	e := mustReady(t, ft)

	go func() {
		time.Sleep(2 * time.Millisecond)
		ft.deliver([]byte("1111111111"))
	}()

	jpeg := make([]byte, 1000)
	err := e.UploadImage(context.Background(), jpeg, 64, 64, nil)
	if err == nil {
		t.Fatal("expected an error after a device-error notification")
	}
	if !IsKind(err, DeviceError) {
		t.Fatalf("err = %v, want DeviceError", err)
	}
}

func TestUploadImage_FinalizeTimeoutStillSucceeds(t *testing.T) {
	ft := newFakeTransport()
	e := mustReady(t, ft)

	jpeg := make([]byte, 50)
	err := e.UploadImage(context.Background(), jpeg, 64, 64, nil)
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
}

func TestUploadAnimation_EmptyFramesRejected(t *testing.T) {
	ft := newFakeTransport()
	e := mustReady(t, ft)

	err := e.UploadAnimation(context.Background(), nil, 50, 64, 64, nil)
	if !IsKind(err, EmptyAnimation) {
		t.Fatalf("err = %v, want EmptyAnimation", err)
	}
}

func TestUpload_RequiresReadyState(t *testing.T) {
	ft := newFakeTransport()
	e := NewEngine(ft, testConfig())

	err := e.UploadImage(context.Background(), []byte{1, 2, 3}, 64, 64, nil)
	if !IsKind(err, ConnectionFailed) {
		t.Fatalf("err = %v, want ConnectionFailed", err)
	}
}

func TestDisconnect_IsIdempotent(t *testing.T) {
	ft := newFakeTransport()
	e := mustReady(t, ft)

	if err := e.Disconnect(); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if err := e.Disconnect(); err != nil {
		t.Fatalf("second Disconnect: %v", err)
	}
	if e.State() != Closed {
		t.Fatalf("state = %v, want Closed", e.State())
	}
}
