package protocol

import (
	"encoding/binary"
	"fmt"
)

// XV4Frame is one input frame to BuildXV4: a display name and its already
// JPEG-encoded bytes.
type XV4Frame struct {
	Name string
	JPEG []byte
}

// EmptyAnimationError is returned by BuildXV4 when given zero frames.
type EmptyAnimationError struct{}

func (e *EmptyAnimationError) Error() string {
	return "protocol: animation must have at least one frame"
}

// BuildXV4 constructs the xV4 animation container: a 32-byte fixed header,
// a 16-byte-per-frame table, and a per-frame (32-byte metadata, JPEG bytes)
// region whose next-frame pointers form a cycle back to the first frame.
// intervalMillis is clamped to [XV4MinInterval, XV4MaxInterval] before
// formatting, per the fixed 12-byte timing slot.
func BuildXV4(frames []XV4Frame, intervalMillis int, width, height uint16) ([]byte, error) {
	if len(frames) == 0 {
		return nil, &EmptyAnimationError{}
	}

	frameCount := len(frames)
	frameTableEnd := XV4FixedHeaderSize + XV4FrameTableEntry*frameCount

	// One forward pass to compute each frame's metadata offset before any
	// bytes are written, so the cyclic next-pointer needs no back-patching.
	metaOffsets := make([]uint32, frameCount)
	offset := uint32(frameTableEnd)
	for i, f := range frames {
		metaOffsets[i] = offset
		offset += uint32(XV4FrameMetaSize + len(f.JPEG))
	}
	dataRegionSize := offset - uint32(frameTableEnd)

	total := make([]byte, offset)

	// Fixed header.
	copy(total[0:3], xv4Signature)
	total[3] = xv4Version
	binary.LittleEndian.PutUint32(total[4:8], uint32(frameTableEnd)-8)
	binary.LittleEndian.PutUint32(total[8:12], uint32(frameCount))
	binary.LittleEndian.PutUint32(total[12:16], uint32(frameCount)*10+10)
	writeTimingField(total[16:16+xv4TimingFieldSize], clampInterval(intervalMillis))
	binary.LittleEndian.PutUint32(total[28:32], dataRegionSize)

	// Frame table + per-frame regions.
	unknownField := frameCount - 3
	if unknownField < 0 {
		unknownField = 0
	}

	for i, f := range frames {
		tableOff := XV4FixedHeaderSize + i*XV4FrameTableEntry
		writeFixedName(total[tableOff:tableOff+xv4NameFieldSize], frameName(i))
		binary.LittleEndian.PutUint32(total[tableOff+xv4NameFieldSize:tableOff+XV4FrameTableEntry], metaOffsets[i])

		nextIdx := (i + 1) % frameCount
		metaOff := metaOffsets[i]
		jpegOff := metaOff + XV4FrameMetaSize

		binary.LittleEndian.PutUint32(total[metaOff:metaOff+4], metaOff)
		binary.LittleEndian.PutUint32(total[metaOff+4:metaOff+8], metaOffsets[nextIdx])
		binary.LittleEndian.PutUint32(total[metaOff+8:metaOff+12], uint32(unknownField))
		binary.LittleEndian.PutUint16(total[metaOff+12:metaOff+14], width)
		binary.LittleEndian.PutUint16(total[metaOff+14:metaOff+16], height)
		binary.LittleEndian.PutUint32(total[metaOff+16:metaOff+20], jpegOff)
		binary.LittleEndian.PutUint32(total[metaOff+20:metaOff+24], uint32(len(f.JPEG)))
		// metaOff+24 .. metaOff+32: zero padding, already zero-valued.

		copy(total[jpegOff:jpegOff+uint32(len(f.JPEG))], f.JPEG)
	}

	return total, nil
}

// ValidateXV4 checks signature, version byte, and minimum header length.
func ValidateXV4(data []byte) bool {
	if len(data) < XV4FixedHeaderSize {
		return false
	}
	if string(data[0:3]) != xv4Signature {
		return false
	}
	if data[3] != xv4Version {
		return false
	}
	return true
}

// clampInterval restricts r to [XV4MinInterval, XV4MaxInterval].
func clampInterval(r int) int {
	if r < XV4MinInterval {
		return XV4MinInterval
	}
	if r > XV4MaxInterval {
		return XV4MaxInterval
	}
	return r
}

// writeTimingField writes "output/NNms" null-terminated and zero-padded
// into a fixed xv4TimingFieldSize-byte slot.
func writeTimingField(dst []byte, intervalMillis int) {
	s := fmt.Sprintf("output/%dms", intervalMillis)
	writeFixedName(dst, s)
}

// writeFixedName truncates or zero-pads s to exactly len(dst) bytes.
func writeFixedName(dst []byte, s string) {
	for i := range dst {
		dst[i] = 0
	}
	n := copy(dst, s)
	_ = n
}

// frameName returns the 12-byte (including trailing dot) frame name for
// frame index i, e.g. "frame_00001." for i=0.
func frameName(i int) string {
	return fmt.Sprintf("frame_%05d.", i+1)
}
