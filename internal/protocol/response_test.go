package protocol

import (
	"testing"
)

func TestParse_SuccessSentinel(t *testing.T) {
	resp := Parse([]byte("GetPacketSuccess"))
	if !resp.IsSuccess() {
		t.Errorf("status = %v, want success", resp.Status)
	}
	if resp.IsFail() || resp.IsError() {
		t.Error("success response also classified as fail/error")
	}
}

func TestParse_FailSentinel(t *testing.T) {
	resp := Parse([]byte("PacketFail"))
	if !resp.IsFail() {
		t.Errorf("status = %v, want fail", resp.Status)
	}
}

func TestParse_ErrorSentinel(t *testing.T) {
	resp := Parse([]byte("1111111111"))
	if !resp.IsError() {
		t.Errorf("status = %v, want error", resp.Status)
	}
}

func TestParse_NoSentinel(t *testing.T) {
	resp := Parse([]byte("unrelated notification bytes"))
	if resp.Status != StatusNone {
		t.Errorf("status = %v, want none", resp.Status)
	}
}

func TestParse_CleansNullAndSentinelBytes(t *testing.T) {
	raw := []byte{0xD1, 0x00}
	raw = append(raw, []byte("GetPacketSuccess")...)
	raw = append(raw, 0x00, 0x00)

	resp := Parse(raw)
	if resp.Text != "GetPacketSuccess" {
		t.Errorf("cleaned text = %q, want %q", resp.Text, "GetPacketSuccess")
	}
	if !resp.IsSuccess() {
		t.Error("expected success after cleaning")
	}
}

func TestParse_TrimsWhitespace(t *testing.T) {
	resp := Parse([]byte("  GetPacketSuccess\r\n"))
	if resp.Text != "GetPacketSuccess" {
		t.Errorf("cleaned text = %q, want trimmed", resp.Text)
	}
}

func TestParse_DeviceStatusJSON(t *testing.T) {
	raw := []byte(`{"type":13,"allspace":16384,"freespace":13892,"devname":"BeamBox","size":"64x32","brand":1}`)
	resp := Parse(raw)

	if !resp.IsStatusRecord {
		t.Fatal("expected IsStatusRecord = true")
	}
	want := DeviceStatus{
		AllSpaceKB:  16384,
		FreeSpaceKB: 13892,
		DeviceName:  "BeamBox",
		Size:        "64x32",
		Brand:       1,
	}
	if resp.DeviceStatus != want {
		t.Errorf("DeviceStatus = %+v, want %+v", resp.DeviceStatus, want)
	}
	if resp.JSON == nil {
		t.Error("expected JSON map to be populated")
	}
}

func TestParse_DeviceStatusWithNumericStrings(t *testing.T) {
	raw := []byte(`{"type":"13","allspace":"2048","freespace":"900","devname":"Pulse","size":"32x32","brand":"2"}`)
	resp := Parse(raw)

	if !resp.IsStatusRecord {
		t.Fatal("expected IsStatusRecord = true even with numeric-string fields")
	}
	if resp.DeviceStatus.AllSpaceKB != 2048 {
		t.Errorf("AllSpaceKB = %d, want 2048", resp.DeviceStatus.AllSpaceKB)
	}
	if resp.DeviceStatus.Brand != 2 {
		t.Errorf("Brand = %d, want 2", resp.DeviceStatus.Brand)
	}
}

func TestParse_JSONEmbeddedInNoise(t *testing.T) {
	raw := []byte(`garbage-prefix{"type":13,"allspace":1,"freespace":1,"devname":"x","size":"1x1","brand":0}trailing-noise`)
	resp := Parse(raw)

	if !resp.IsStatusRecord {
		t.Fatal("expected brace-substring fallback to recover the JSON object")
	}
	if resp.DeviceStatus.DeviceName != "x" {
		t.Errorf("DeviceName = %q, want %q", resp.DeviceStatus.DeviceName, "x")
	}
}

func TestParse_NonStatusJSONIsNotFlagged(t *testing.T) {
	resp := Parse([]byte(`{"type":6,"number":1}`))
	if resp.JSON == nil {
		t.Fatal("expected JSON to parse")
	}
	if resp.IsStatusRecord {
		t.Error("non-status JSON incorrectly flagged as a device-status record")
	}
}

func TestParse_UnparseableTextYieldsNoJSON(t *testing.T) {
	resp := Parse([]byte("not json at all"))
	if resp.JSON != nil {
		t.Error("expected nil JSON for unparseable text")
	}
	if resp.IsStatusRecord {
		t.Error("expected IsStatusRecord = false")
	}
}

func TestParse_NeverReturnsNil(t *testing.T) {
	for _, raw := range [][]byte{nil, {}, {0x00, 0x00}, {0xD1}} {
		resp := Parse(raw)
		if resp == nil {
			t.Fatalf("Parse(%v) returned nil", raw)
		}
	}
}
