package transport

import "strings"

// baseUUIDTail is the fixed 24-hex-digit tail shared by every derivative
// of the Bluetooth Base UUID 0000XXXX-0000-1000-8000-00805F9B34FB, once
// lowercased and stripped of dashes.
const baseUUIDTail = "00001000800000805f9b34fb"

// NormalizeUUID reduces a UUID to its canonical comparison form:
// hex-lowercase, dashes removed, and — when the UUID is a Base-UUID
// derivative — collapsed to its 4-hex-digit short form. Short-form
// input (e.g. "01F1") passes through unchanged apart from lowercasing.
func NormalizeUUID(uuid string) string {
	s := strings.ToLower(strings.ReplaceAll(uuid, "-", ""))

	if len(s) == 32 && strings.HasSuffix(s, baseUUIDTail) {
		return s[4:8]
	}

	return s
}

// UUIDsEqual reports whether a and b refer to the same characteristic
// or service once both are normalized.
func UUIDsEqual(a, b string) bool {
	return NormalizeUUID(a) == NormalizeUUID(b)
}
