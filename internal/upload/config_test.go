package upload

import "testing"

func TestDefaultConfig_MatchesProtocolDefaults(t *testing.T) {
	c := DefaultConfig()
	if c.ChunkSize != 0x1F0 {
		t.Fatalf("ChunkSize = %d, want 0x1F0", c.ChunkSize)
	}
	if c.WriteCharUUID != "01f1" || c.NotifyCharUUID != "01f2" {
		t.Fatalf("unexpected characteristic UUIDs: %q %q", c.WriteCharUUID, c.NotifyCharUUID)
	}
}

func TestWithDefaults_FillsOnlyZeroFields(t *testing.T) {
	c := Config{ChunkSize: 64}
	filled := c.withDefaults()

	if filled.ChunkSize != 64 {
		t.Fatalf("ChunkSize = %d, want 64 (explicit value preserved)", filled.ChunkSize)
	}
	if filled.NameFragment != DefaultConfig().NameFragment {
		t.Fatalf("NameFragment not defaulted: %q", filled.NameFragment)
	}
	if filled.ScanTimeout != DefaultConfig().ScanTimeout {
		t.Fatalf("ScanTimeout not defaulted: %v", filled.ScanTimeout)
	}
}
