package protocol

import (
	"bytes"
	"testing"
)

func TestBuildFrame_InfoFrameLiteral(t *testing.T) {
	payload := BuildImageInfo(PacketTypeImage, 1)
	if len(payload) != 21 {
		t.Fatalf("payload length = %d, want 21", len(payload))
	}

	frame := BuildFrame(PacketTypeImage, 0, 0, payload)
	if len(frame) != 30 {
		t.Fatalf("frame length = %d, want 30", len(frame))
	}

	wantPrefix := []byte{0xF1, 0x06, 0x00, 0x00, 0x00, 0x00, 0x00, 0x15}
	if !bytes.Equal(frame[:8], wantPrefix) {
		t.Errorf("frame prefix = % x, want % x", frame[:8], wantPrefix)
	}

	var sum int
	for _, b := range frame {
		sum += int(b)
	}
	if sum%256 != 0 {
		t.Errorf("frame checksum invariant violated: sum mod 256 = %d", sum%256)
	}
}

func TestBuildVerifyFrame_RoundTrip(t *testing.T) {
	subtypes := []byte{PacketTypeDynamicAmbience, PacketTypeImage, PacketTypeDeviceStatus}
	totals := []uint32{0, 1, 65535, 70000}
	remainings := []uint32{0, 1, 65535}
	payloadLens := []int{0, 1, 496, 65535}

	for _, s := range subtypes {
		for _, total := range totals {
			for _, rem := range remainings {
				for _, l := range payloadLens {
					payload := make([]byte, l)
					for i := range payload {
						payload[i] = byte(i)
					}

					frame := BuildFrame(s, total, rem, payload)
					parsed, err := VerifyFrame(frame)
					if err != nil {
						t.Fatalf("VerifyFrame failed for subtype=%x total=%d rem=%d len=%d: %v", s, total, rem, l, err)
					}

					if parsed.Subtype != s {
						t.Errorf("subtype = %x, want %x", parsed.Subtype, s)
					}
					wantTotal := uint16(total & MaxUint16)
					if parsed.Total != wantTotal {
						t.Errorf("total = %d, want %d", parsed.Total, wantTotal)
					}
					wantRem := uint16(rem & MaxUint16)
					if parsed.Remaining != wantRem {
						t.Errorf("remaining = %d, want %d", parsed.Remaining, wantRem)
					}
					if !bytes.Equal(parsed.Payload, payload) {
						t.Errorf("payload round-trip mismatch for len=%d", l)
					}
				}
			}
		}
	}
}

func TestVerifyFrame_ChecksumMismatch(t *testing.T) {
	frame := BuildFrame(PacketTypeImage, 1, 0, []byte("x"))
	frame[len(frame)-1] ^= 0xFF

	if _, err := VerifyFrame(frame); err == nil {
		t.Fatal("expected checksum mismatch error")
	}
}

func TestVerifyFrame_TooShort(t *testing.T) {
	if _, err := VerifyFrame([]byte{0xF1, 0x06}); err == nil {
		t.Fatal("expected error for too-short frame")
	}
}

func TestVerifyFrame_LengthDisagreement(t *testing.T) {
	frame := BuildFrame(PacketTypeImage, 1, 0, []byte("hello"))
	// Corrupt the declared length field, then recompute a self-consistent
	// checksum so only the length check fails.
	frame[6] = 0x00
	frame[7] = 0x09
	frame[len(frame)-1] = 0
	var sum int
	for _, b := range frame[:len(frame)-1] {
		sum += int(b)
	}
	frame[len(frame)-1] = checksumByte(frame[:len(frame)-1])

	if _, err := VerifyFrame(frame); err == nil {
		t.Fatal("expected length disagreement error")
	}
}

func TestSplitChunks_StreamingSequence(t *testing.T) {
	payload := make([]byte, 1000)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	chunks := SplitChunks(payload, 512)
	if len(chunks) != 2 {
		t.Fatalf("len(chunks) = %d, want 2", len(chunks))
	}
	if len(chunks[0]) != 512 {
		t.Errorf("chunk 0 length = %d, want 512", len(chunks[0]))
	}
	if len(chunks[1]) != 488 {
		t.Errorf("chunk 1 length = %d, want 488", len(chunks[1]))
	}

	total := ChunkCount(len(payload), 512)
	if total != 2 {
		t.Fatalf("ChunkCount = %d, want 2", total)
	}

	reassembled := append(append([]byte{}, chunks[0]...), chunks[1]...)
	if !bytes.Equal(reassembled, payload) {
		t.Error("chunk concatenation does not reproduce original payload")
	}

	frame1 := BuildFrame(PacketTypeImage, uint32(total), uint32(total-1), chunks[0])
	frame2 := BuildFrame(PacketTypeImage, uint32(total), uint32(total-2), chunks[1])

	p1, err := VerifyFrame(frame1)
	if err != nil {
		t.Fatalf("verify frame 1: %v", err)
	}
	p2, err := VerifyFrame(frame2)
	if err != nil {
		t.Fatalf("verify frame 2: %v", err)
	}

	if p1.Total != 2 || p1.Remaining != 1 || len(p1.Payload) != 512 {
		t.Errorf("frame 1 = %+v, want total=2 remaining=1 len=512", p1)
	}
	if p2.Total != 2 || p2.Remaining != 0 || len(p2.Payload) != 488 {
		t.Errorf("frame 2 = %+v, want total=2 remaining=0 len=488", p2)
	}
}

func TestSplitChunks_ZeroLengthPayload(t *testing.T) {
	chunks := SplitChunks(nil, 512)
	if len(chunks) != 0 {
		t.Fatalf("len(chunks) = %d, want 0", len(chunks))
	}

	frame := BuildFrame(PacketTypeImage, 0, 0, nil)
	if len(frame) != MinFrameSize {
		t.Fatalf("zero-payload frame length = %d, want %d", len(frame), MinFrameSize)
	}
}
