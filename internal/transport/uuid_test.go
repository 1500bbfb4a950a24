package transport

import "testing"

func TestNormalizeUUID(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"short form uppercase", "01F1", "01f1"},
		{"short form lowercase", "01f2", "01f2"},
		{"base uuid full form", "000001F1-0000-1000-8000-00805F9B34FB", "01f1"},
		{"base uuid no dashes", "000001f100001000800000805f9b34fb", "01f1"},
		{"unrelated 128-bit uuid passes through", "6e400001-b5a3-f393-e0a9-e50e24dcca9e", "6e400001b5a3f393e0a9e50e24dcca9e"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeUUID(tc.in); got != tc.want {
				t.Errorf("NormalizeUUID(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestUUIDsEqual(t *testing.T) {
	if !UUIDsEqual("01F1", "000001f1-0000-1000-8000-00805f9b34fb") {
		t.Error("expected short-form and Base-UUID-derived form to be equal")
	}
	if UUIDsEqual("01F1", "01F2") {
		t.Error("expected distinct short forms to be unequal")
	}
}
