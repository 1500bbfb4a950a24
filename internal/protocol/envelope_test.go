package protocol

import (
	"bytes"
	"testing"
)

func TestBuildImageInfo_Literal(t *testing.T) {
	got := BuildImageInfo(PacketTypeImage, 1)
	want := []byte(`{"type":6,"number":1}`)
	if !bytes.Equal(got, want) {
		t.Errorf("BuildImageInfo = %q, want %q", got, want)
	}
}

func TestBuildImageInfo_MultiFrameCount(t *testing.T) {
	got := BuildImageInfo(PacketTypeDynamicAmbience, 12)
	want := []byte(`{"type":5,"number":12}`)
	if !bytes.Equal(got, want) {
		t.Errorf("BuildImageInfo = %q, want %q", got, want)
	}
}

func TestBuildImageData_EnvelopeStructure(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xD9}
	envelope, err := BuildImageData(jpeg, 360, 360, PacketTypeImage)
	if err != nil {
		t.Fatalf("BuildImageData: %v", err)
	}

	wantPrefix := []byte(`{"type":6,"data":IMB`)
	if !bytes.HasPrefix(envelope, wantPrefix) {
		t.Errorf("envelope prefix = %q, want prefix %q", envelope[:len(wantPrefix)], wantPrefix)
	}
	if envelope[len(envelope)-1] != '}' {
		t.Errorf("envelope last byte = %q, want '}'", envelope[len(envelope)-1])
	}
	if !bytes.HasSuffix(envelope[:len(envelope)-1], jpeg) {
		t.Error("envelope does not end with the raw jpeg bytes before the closing brace")
	}

	imbStart := len(`{"type":6,"data":`)
	if !ValidateIMB(envelope[imbStart : imbStart+IMBHeaderSize]) {
		t.Error("embedded IMB header failed validation")
	}
}

func TestBuildAnimationData_EnvelopeStructure(t *testing.T) {
	frames := []XV4Frame{{Name: "frame_00001.", JPEG: []byte{1, 2, 3}}}
	envelope, err := BuildAnimationData(frames, 50, 64, 64, PacketTypeDynamicAmbience)
	if err != nil {
		t.Fatalf("BuildAnimationData: %v", err)
	}

	wantPrefix := []byte(`{"type":5,"data":xV4`)
	if !bytes.HasPrefix(envelope, wantPrefix) {
		t.Errorf("envelope prefix = %q, want prefix %q", envelope[:len(wantPrefix)], wantPrefix)
	}
	if envelope[len(envelope)-1] != '}' {
		t.Errorf("envelope last byte = %q, want '}'", envelope[len(envelope)-1])
	}

	xv4Start := len(`{"type":5,"data":`)
	if !ValidateXV4(envelope[xv4Start : xv4Start+XV4FixedHeaderSize]) {
		t.Error("embedded xV4 header failed validation")
	}
}

func TestBuildAnimationData_EmptyFramesPropagatesError(t *testing.T) {
	if _, err := BuildAnimationData(nil, 50, 64, 64, PacketTypeDynamicAmbience); err == nil {
		t.Fatal("expected error to propagate from BuildXV4")
	}
}
