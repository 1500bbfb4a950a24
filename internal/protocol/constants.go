package protocol

// Command type and packet-type codes.
const (
	// CommandType is the constant first byte of every frame header.
	CommandType byte = 0xF1

	// PacketTypeDynamicAmbience marks an animation (xV4) container body.
	PacketTypeDynamicAmbience byte = 0x05

	// PacketTypeImage marks a single-image (IMB) body, and is also used
	// for every info announcement regardless of whether the following
	// transfer is a still image or an animation.
	PacketTypeImage byte = 0x06

	// PacketTypePhotoAlbumCount is reserved and unused by this core; its
	// meaning on the device side is undocumented.
	PacketTypePhotoAlbumCount byte = 0x0C

	// PacketTypeDeviceStatus marks an inbound device-state notification.
	PacketTypeDeviceStatus byte = 0x0D
)

// Frame size limits and defaults.
const (
	// FrameHeaderSize is the fixed 8-byte frame header.
	FrameHeaderSize = 8

	// FrameChecksumSize is the single trailing checksum byte.
	FrameChecksumSize = 1

	// MinFrameSize is the smallest possible valid frame: header + checksum
	// with a zero-length payload.
	MinFrameSize = FrameHeaderSize + FrameChecksumSize

	// MaxUint16 bounds total/remaining/payload-length fields, which are
	// 16 bits wide on the wire. Values are truncated modulo 65536 to match
	// observed device behavior.
	MaxUint16 = 0xFFFF

	// DefaultChunkSize is the default payload-bytes-per-frame used when
	// splitting a composed payload into chunks.
	DefaultChunkSize = 0x1F0 // 496

	// DefaultWriteDelayMillis is the default pacing delay between
	// successive chunk writes.
	DefaultWriteDelayMillis = 100

	// DefaultInfoDelayMillis is the default delay between the info frame
	// and the first data chunk.
	DefaultInfoDelayMillis = 10
)

// IMB container layout.
const (
	IMBHeaderSize  = 36
	IMBFormatTag   = 11
	imbSignature   = "IMB"
	imbHeaderField = 36
)

// xV4 container layout.
const (
	XV4FixedHeaderSize  = 32
	XV4FrameTableEntry  = 16
	XV4FrameMetaSize    = 32
	xv4Signature        = "xV4"
	xv4Version     byte = 0x12

	// XV4MinInterval and XV4MaxInterval bound the inter-frame interval
	// (milliseconds) encoded in the fixed 12-byte timing slot.
	XV4MinInterval = 50
	XV4MaxInterval = 99

	// xv4NameFieldSize is the fixed width of a per-frame name buffer in
	// the frame table.
	xv4NameFieldSize = 12

	// xv4TimingFieldSize is the fixed width of the "output/NNms\0" slot.
	xv4TimingFieldSize = 12
)

// Device response sentinels.
const (
	sentinelSuccess = "GetPacketSuccess"
	sentinelFail    = "PacketFail"
	sentinelError   = "1111111111"
)

// Default BLE identity constants.
const (
	// DefaultDeviceNameFragment is matched case-insensitively against
	// advertised peripheral names during scanning.
	DefaultDeviceNameFragment = "beambox e-Badge Pulse"

	// DefaultWriteCharUUID and DefaultNotifyCharUUID are the short-form
	// (Bluetooth Base UUID-collapsed) characteristic identifiers.
	DefaultWriteCharUUID  = "01f1"
	DefaultNotifyCharUUID = "01f2"
)

// Configured limits; callers may override.
const (
	DefaultMaxPayloadSize = 2 * 1024 * 1024 // 2 MiB
	DefaultMaxPacketCount = 20000
)
