package protocol

import (
	"encoding/binary"
	"fmt"
)

// BuildIMB constructs the 36-byte IMB header wrapping a single JPEG of
// length jpegLength and the given display geometry. width and height are
// u16; a 0 value is permitted by this builder (the ValidateIMB predicate
// is purely structural, not a geometry sanity check).
func BuildIMB(jpegLength int, width, height uint16) ([]byte, error) {
	if jpegLength < 0 {
		return nil, fmt.Errorf("protocol: negative jpeg length %d", jpegLength)
	}

	header := make([]byte, IMBHeaderSize)
	copy(header[0:3], imbSignature)
	header[3] = 0x00
	binary.LittleEndian.PutUint32(header[4:8], imbHeaderField)
	binary.LittleEndian.PutUint32(header[8:12], uint32(IMBHeaderSize+jpegLength))
	header[12] = IMBFormatTag
	header[13] = 0x00
	binary.LittleEndian.PutUint16(header[14:16], 0)
	binary.LittleEndian.PutUint16(header[16:18], width)
	binary.LittleEndian.PutUint16(header[18:20], height)
	binary.LittleEndian.PutUint32(header[20:24], imbHeaderField)
	binary.LittleEndian.PutUint32(header[24:28], uint32(jpegLength))
	// bytes 28-35: reserved zeros, already zero-valued by make().

	return header, nil
}

// ValidateIMB checks the structural predicate: signature "IMB", a zero
// fourth byte, and matching 36-valued header-size fields at offsets 4
// and 20.
func ValidateIMB(data []byte) bool {
	if len(data) < IMBHeaderSize {
		return false
	}
	if string(data[0:3]) != imbSignature {
		return false
	}
	if data[3] != 0x00 {
		return false
	}
	if binary.LittleEndian.Uint32(data[4:8]) != imbHeaderField {
		return false
	}
	if binary.LittleEndian.Uint32(data[20:24]) != imbHeaderField {
		return false
	}
	return true
}
