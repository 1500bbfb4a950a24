package protocol

import (
	"encoding/binary"
	"testing"
)

func TestBuildIMB_HeaderLayout(t *testing.T) {
	cases := []struct {
		name          string
		jpegLen       int
		width, height uint16
	}{
		{"small square", 4, 360, 360},
		{"wide panel", 2048, 128, 32},
		{"zero-length jpeg", 0, 64, 64},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			header, err := BuildIMB(tc.jpegLen, tc.width, tc.height)
			if err != nil {
				t.Fatalf("BuildIMB: %v", err)
			}
			if len(header) != IMBHeaderSize {
				t.Fatalf("header length = %d, want %d", len(header), IMBHeaderSize)
			}
			if string(header[0:3]) != "IMB" {
				t.Errorf("signature = %q, want IMB", header[0:3])
			}
			if header[3] != 0x00 {
				t.Errorf("byte 3 = %#x, want 0x00", header[3])
			}
			if got := binary.LittleEndian.Uint32(header[4:8]); got != 36 {
				t.Errorf("header-size field @4 = %d, want 36", got)
			}
			if got := binary.LittleEndian.Uint32(header[8:12]); got != uint32(IMBHeaderSize+tc.jpegLen) {
				t.Errorf("total-size field @8 = %d, want %d", got, IMBHeaderSize+tc.jpegLen)
			}
			if header[12] != IMBFormatTag {
				t.Errorf("format tag = %d, want %d", header[12], IMBFormatTag)
			}
			if got := binary.LittleEndian.Uint16(header[16:18]); got != tc.width {
				t.Errorf("width = %d, want %d", got, tc.width)
			}
			if got := binary.LittleEndian.Uint16(header[18:20]); got != tc.height {
				t.Errorf("height = %d, want %d", got, tc.height)
			}
			if got := binary.LittleEndian.Uint32(header[20:24]); got != 36 {
				t.Errorf("header-size field @20 = %d, want 36", got)
			}
			if got := binary.LittleEndian.Uint32(header[24:28]); got != uint32(tc.jpegLen) {
				t.Errorf("jpeg-length field @24 = %d, want %d", got, tc.jpegLen)
			}

			if !ValidateIMB(header) {
				t.Error("ValidateIMB rejected a header this package built")
			}
		})
	}
}

func TestBuildIMB_NegativeLength(t *testing.T) {
	if _, err := BuildIMB(-1, 10, 10); err == nil {
		t.Fatal("expected error for negative jpeg length")
	}
}

func TestValidateIMB_Rejections(t *testing.T) {
	good, err := BuildIMB(4, 360, 360)
	if err != nil {
		t.Fatalf("BuildIMB: %v", err)
	}

	cases := []struct {
		name    string
		mutate  func([]byte) []byte
	}{
		{"too short", func(b []byte) []byte { return b[:10] }},
		{"bad signature", func(b []byte) []byte {
			out := append([]byte(nil), b...)
			out[0] = 'X'
			return out
		}},
		{"nonzero byte 3", func(b []byte) []byte {
			out := append([]byte(nil), b...)
			out[3] = 0x01
			return out
		}},
		{"corrupt header-size field", func(b []byte) []byte {
			out := append([]byte(nil), b...)
			binary.LittleEndian.PutUint32(out[4:8], 99)
			return out
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if ValidateIMB(tc.mutate(good)) {
				t.Error("ValidateIMB accepted malformed header")
			}
		})
	}
}
