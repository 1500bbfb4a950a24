package protocol

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"testing"
)

func TestBuildXV4_SingleFrameLiteral(t *testing.T) {
	jpeg := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	frames := []XV4Frame{{Name: "frame_00001.", JPEG: jpeg}}

	container, err := BuildXV4(frames, 50, 360, 360)
	if err != nil {
		t.Fatalf("BuildXV4: %v", err)
	}

	wantLen := XV4FixedHeaderSize + XV4FrameTableEntry + XV4FrameMetaSize + len(jpeg)
	if len(container) != wantLen {
		t.Fatalf("container length = %d, want %d", len(container), wantLen)
	}

	wantHeaderPrefix := []byte{
		'x', 'V', '4', 0x12, // signature + version
		0x28, 0x00, 0x00, 0x00, // frameTableEnd - 8 = 40
		0x01, 0x00, 0x00, 0x00, // frame count = 1
		0x14, 0x00, 0x00, 0x00, // frameCount*10 + 10 = 20
	}
	if !bytes.Equal(container[0:16], wantHeaderPrefix) {
		t.Errorf("header prefix = % x, want % x", container[0:16], wantHeaderPrefix)
	}

	if got := binary.LittleEndian.Uint32(container[28:32]); got != 36 {
		t.Errorf("data region size = %d, want 36", got)
	}

	tableOffset := binary.LittleEndian.Uint32(container[XV4FixedHeaderSize+12 : XV4FixedHeaderSize+16])
	if tableOffset != 48 {
		t.Errorf("frame table offset = %d, want 48", tableOffset)
	}

	meta := container[48:80]
	if got := binary.LittleEndian.Uint32(meta[0:4]); got != 48 {
		t.Errorf("metadata current offset = %d, want 48", got)
	}
	if got := binary.LittleEndian.Uint32(meta[4:8]); got != 48 {
		t.Errorf("metadata next offset = %d, want 48 (single frame loops to itself)", got)
	}
	if got := binary.LittleEndian.Uint32(meta[8:12]); got != 0 {
		t.Errorf("unknown field = %d, want 0", got)
	}
	if got := binary.LittleEndian.Uint16(meta[12:14]); got != 360 {
		t.Errorf("width = %d, want 360", got)
	}
	if got := binary.LittleEndian.Uint16(meta[14:16]); got != 360 {
		t.Errorf("height = %d, want 360", got)
	}
	if got := binary.LittleEndian.Uint32(meta[16:20]); got != 80 {
		t.Errorf("jpeg offset = %d, want 80", got)
	}
	if got := binary.LittleEndian.Uint32(meta[20:24]); got != uint32(len(jpeg)) {
		t.Errorf("jpeg length = %d, want %d", got, len(jpeg))
	}

	if !bytes.Equal(container[80:84], jpeg) {
		t.Errorf("trailing jpeg bytes = % x, want % x", container[80:84], jpeg)
	}

	if !ValidateXV4(container) {
		t.Error("ValidateXV4 rejected a container this package built")
	}
}

func TestBuildXV4_MultiFrameCycle(t *testing.T) {
	frames := []XV4Frame{
		{Name: "frame_00001.", JPEG: []byte{1, 2, 3}},
		{Name: "frame_00002.", JPEG: []byte{4, 5}},
		{Name: "frame_00003.", JPEG: []byte{6, 7, 8, 9}},
	}

	container, err := BuildXV4(frames, 60, 64, 64)
	if err != nil {
		t.Fatalf("BuildXV4: %v", err)
	}

	frameTableEnd := XV4FixedHeaderSize + XV4FrameTableEntry*len(frames)
	offsets := make([]uint32, len(frames))
	off := uint32(frameTableEnd)
	for i, f := range frames {
		offsets[i] = off
		off += uint32(XV4FrameMetaSize + len(f.JPEG))
	}

	for i := range frames {
		meta := container[offsets[i] : offsets[i]+XV4FrameMetaSize]
		wantNext := offsets[(i+1)%len(frames)]
		if got := binary.LittleEndian.Uint32(meta[4:8]); got != wantNext {
			t.Errorf("frame %d next offset = %d, want %d", i, got, wantNext)
		}
		if got := binary.LittleEndian.Uint32(meta[0:4]); got != offsets[i] {
			t.Errorf("frame %d current offset = %d, want %d", i, got, offsets[i])
		}
	}

	// Last frame's next pointer must cycle back to the first frame.
	lastMeta := container[offsets[len(frames)-1] : offsets[len(frames)-1]+XV4FrameMetaSize]
	if got := binary.LittleEndian.Uint32(lastMeta[4:8]); got != offsets[0] {
		t.Errorf("last frame next offset = %d, want %d (wrap to first)", got, offsets[0])
	}
}

func TestBuildXV4_EmptyAnimation(t *testing.T) {
	_, err := BuildXV4(nil, 50, 100, 100)
	if err == nil {
		t.Fatal("expected error for empty animation")
	}
	if _, ok := err.(*EmptyAnimationError); !ok {
		t.Errorf("error type = %T, want *EmptyAnimationError", err)
	}
}

func TestBuildXV4_IntervalClamp(t *testing.T) {
	cases := []struct {
		requested int
		want      int
	}{
		{10, XV4MinInterval},
		{50, 50},
		{75, 75},
		{99, 99},
		{500, XV4MaxInterval},
	}

	for _, tc := range cases {
		container, err := BuildXV4([]XV4Frame{{Name: "frame_00001.", JPEG: []byte{1}}}, tc.requested, 10, 10)
		if err != nil {
			t.Fatalf("BuildXV4(%d): %v", tc.requested, err)
		}
		timing := container[16 : 16+xv4TimingFieldSize]
		want := []byte("output/" + strconv.Itoa(tc.want) + "ms")
		if !bytes.HasPrefix(timing, want) {
			t.Errorf("requested=%d: timing field = %q, want prefix %q", tc.requested, timing, want)
		}
	}
}

func TestValidateXV4_Rejections(t *testing.T) {
	good, err := BuildXV4([]XV4Frame{{Name: "frame_00001.", JPEG: []byte{1}}}, 50, 10, 10)
	if err != nil {
		t.Fatalf("BuildXV4: %v", err)
	}

	if ValidateXV4(good[:10]) {
		t.Error("ValidateXV4 accepted a too-short buffer")
	}

	corrupted := append([]byte(nil), good...)
	corrupted[0] = 'y'
	if ValidateXV4(corrupted) {
		t.Error("ValidateXV4 accepted a bad signature")
	}

	corrupted = append([]byte(nil), good...)
	corrupted[3] = 0x00
	if ValidateXV4(corrupted) {
		t.Error("ValidateXV4 accepted a bad version byte")
	}
}
