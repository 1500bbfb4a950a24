package upload

import "testing"

func TestState_String(t *testing.T) {
	cases := map[State]string{
		Idle:           "Idle",
		Scanning:       "Scanning",
		Ready:          "Ready",
		Streaming:      "Streaming",
		Closed:         "Closed",
		State(99):      "Unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func TestStreamingProgress_Percent(t *testing.T) {
	tests := []struct {
		name string
		p    StreamingProgress
		want int
	}{
		{"zero total", StreamingProgress{Total: 0, Sent: 5}, 0},
		{"half", StreamingProgress{Total: 10, Sent: 5}, 50},
		{"complete", StreamingProgress{Total: 10, Sent: 10}, 100},
		{"over total clamps", StreamingProgress{Total: 10, Sent: 20}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Percent(); got != tt.want {
				t.Errorf("Percent() = %d, want %d", got, tt.want)
			}
		})
	}
}
