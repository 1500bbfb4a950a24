// Package protocol implements the e-Badge BLE wire protocol.
//
// This package handles construction and parsing of the binary messages
// exchanged with a beambox e-Badge display over Bluetooth Low Energy: the
// framed-packet layer, the IMB single-image container, the xV4 animation
// container, the JSON-ish payload envelope that wraps either one for
// transmission, and the parser for inbound notification bytes.
//
// # Frame layout
//
// Every packet written to the device's write characteristic has the same
// 8-byte header, a payload, and a 1-byte trailing checksum:
//
//	[0]     0xF1           Command type (constant)
//	[1]     subtype        Packet type code (Image, DynamicAmbience, ...)
//	[2-3]   total          Total packets in this transmission (big-endian)
//	[4-5]   remaining      Packets remaining after this one (big-endian)
//	[6-7]   length         Payload length (big-endian)
//	[8..]   payload        Payload bytes
//	[last]  checksum       256 - (sum of preceding bytes mod 256), mod 256
//
// # Containers
//
// A still image is wrapped in a 36-byte IMB header immediately followed by
// its JPEG bytes. An animation is wrapped in an xV4 container: a 32-byte
// fixed header, a 16-byte-per-frame table, and a per-frame (32-byte
// metadata, JPEG bytes) region with a cyclic next-frame pointer so the
// device loops playback indefinitely.
//
// # Envelope
//
// Both containers are wrapped again in a textual-looking but partially
// binary envelope: the literal bytes `{"type":T,"data":` followed by the
// raw container bytes followed by a literal `}`. This is deliberately not
// valid JSON once data is binary, so envelope construction never goes
// through encoding/json — see BuildImageData and BuildAnimationData.
package protocol
