package protocol

import (
	"fmt"
)

// BuildImageInfo returns the compact ASCII JSON info announcement
// `{"type":<subtype>,"number":<count>}` with no whitespace and exactly
// that key order. subtype is always PacketTypeImage for an announcement,
// even when the following transfer is an animation.
func BuildImageInfo(subtype byte, count int) []byte {
	return []byte(fmt.Sprintf(`{"type":%d,"number":%d}`, subtype, count))
}

// BuildImageData wraps a single IMB-framed JPEG in the outer envelope:
// the literal prefix `{"type":T,"data":`, the IMB header, the raw JPEG
// bytes, and a literal closing `}`. The body is emitted as raw bytes, not
// through a JSON serializer, because the data value is opaque binary.
func BuildImageData(jpeg []byte, width, height uint16, subtype byte) ([]byte, error) {
	imb, err := BuildIMB(len(jpeg), width, height)
	if err != nil {
		return nil, err
	}
	return concatEnvelope(subtype, imb, jpeg), nil
}

// BuildAnimationData wraps an xV4 animation container in the same outer
// envelope as BuildImageData, with subtype = PacketTypeDynamicAmbience.
func BuildAnimationData(frames []XV4Frame, intervalMillis int, width, height uint16, subtype byte) ([]byte, error) {
	container, err := BuildXV4(frames, intervalMillis, width, height)
	if err != nil {
		return nil, err
	}
	return concatEnvelope(subtype, container, nil), nil
}

// concatEnvelope builds `{"type":T,"data":<head><tail>}` as literal bytes.
func concatEnvelope(subtype byte, head, tail []byte) []byte {
	prefix := []byte(fmt.Sprintf(`{"type":%d,"data":`, subtype))
	out := make([]byte, 0, len(prefix)+len(head)+len(tail)+1)
	out = append(out, prefix...)
	out = append(out, head...)
	out = append(out, tail...)
	out = append(out, '}')
	return out
}
