package upload

import (
	"time"

	"github.com/muurk/ebadge-upload/internal/protocol"
)

// Config bundles the engine's tunable knobs. Zero-value fields are
// replaced with protocol defaults by NewEngine.
type Config struct {
	// NameFragment is matched case-insensitively against advertised
	// peripheral names when Connect is called without an address.
	NameFragment string

	// WriteCharUUID and NotifyCharUUID are matched against discovered
	// characteristics after UUID normalization.
	WriteCharUUID  string
	NotifyCharUUID string

	// ChunkSize is the payload-bytes-per-frame used when streaming.
	ChunkSize int

	// ChunkDelay paces successive chunk writes; it is the engine's only
	// flow-control mechanism since the device offers none.
	ChunkDelay time.Duration

	// InfoDelay is the pause between the info frame and the first data
	// chunk.
	InfoDelay time.Duration

	// ScanTimeout bounds how long Connect scans before giving up.
	ScanTimeout time.Duration

	// AwaitStatusTimeout bounds how long Connect waits for the first
	// device-status notification before proceeding anyway.
	AwaitStatusTimeout time.Duration

	// FinalizeTimeout bounds how long an upload waits for a terminal
	// notification after the last chunk is written.
	FinalizeTimeout time.Duration

	// SettleDelay is the pause after entering Ready and before
	// announcing, working around a device-side race condition.
	SettleDelay time.Duration

	// MaxPayloadSize and MaxPacketCount bound a single transfer.
	MaxPayloadSize int
	MaxPacketCount int
}

// DefaultConfig returns the engine configuration matching the on-wire
// defaults.
func DefaultConfig() Config {
	return Config{
		NameFragment:       protocol.DefaultDeviceNameFragment,
		WriteCharUUID:      protocol.DefaultWriteCharUUID,
		NotifyCharUUID:     protocol.DefaultNotifyCharUUID,
		ChunkSize:          protocol.DefaultChunkSize,
		ChunkDelay:         protocol.DefaultWriteDelayMillis * time.Millisecond,
		InfoDelay:          protocol.DefaultInfoDelayMillis * time.Millisecond,
		ScanTimeout:        10 * time.Second,
		AwaitStatusTimeout: 5 * time.Second,
		FinalizeTimeout:    5 * time.Second,
		SettleDelay:        1 * time.Second,
		MaxPayloadSize:     protocol.DefaultMaxPayloadSize,
		MaxPacketCount:     protocol.DefaultMaxPacketCount,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.NameFragment == "" {
		c.NameFragment = d.NameFragment
	}
	if c.WriteCharUUID == "" {
		c.WriteCharUUID = d.WriteCharUUID
	}
	if c.NotifyCharUUID == "" {
		c.NotifyCharUUID = d.NotifyCharUUID
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.ChunkDelay == 0 {
		c.ChunkDelay = d.ChunkDelay
	}
	if c.InfoDelay == 0 {
		c.InfoDelay = d.InfoDelay
	}
	if c.ScanTimeout == 0 {
		c.ScanTimeout = d.ScanTimeout
	}
	if c.AwaitStatusTimeout == 0 {
		c.AwaitStatusTimeout = d.AwaitStatusTimeout
	}
	if c.FinalizeTimeout == 0 {
		c.FinalizeTimeout = d.FinalizeTimeout
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = d.SettleDelay
	}
	if c.MaxPayloadSize == 0 {
		c.MaxPayloadSize = d.MaxPayloadSize
	}
	if c.MaxPacketCount == 0 {
		c.MaxPacketCount = d.MaxPacketCount
	}
	return c
}
