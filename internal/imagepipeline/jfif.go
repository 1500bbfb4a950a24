package imagepipeline

// jfifAPP0 is the canonical JFIF APP0 segment: marker (FF E0), length (16),
// identifier "JFIF\0", version 1.2, no density units, 1x1 pixel aspect,
// no thumbnail.
var jfifAPP0 = []byte{
	0xFF, 0xE0, // APP0 marker
	0x00, 0x10, // segment length (16, includes these two length bytes)
	'J', 'F', 'I', 'F', 0x00,
	0x01, 0x02, // version 1.2
	0x00,       // units: 0 = aspect ratio only
	0x00, 0x01, // X density
	0x00, 0x01, // Y density
	0x00, 0x00, // no thumbnail
}

// ensureJFIF returns jpeg unchanged if it already carries an APP0 segment
// immediately after SOI, or with one spliced in otherwise. The device's
// requirement for JFIF is unconfirmed (spec §9 Open Questions); this
// pipeline injects it unconditionally as the documented safety measure,
// since the core never inspects JPEG bodies itself.
func ensureJFIF(jpeg []byte) []byte {
	if hasAPP0(jpeg) {
		return jpeg
	}
	if len(jpeg) < 2 || jpeg[0] != 0xFF || jpeg[1] != 0xD8 {
		return jpeg
	}
	out := make([]byte, 0, len(jpeg)+len(jfifAPP0))
	out = append(out, jpeg[0], jpeg[1]) // SOI
	out = append(out, jfifAPP0...)
	out = append(out, jpeg[2:]...)
	return out
}

// hasAPP0 reports whether jpeg already has a JFIF APP0 segment directly
// after the SOI marker.
func hasAPP0(jpeg []byte) bool {
	if len(jpeg) < 9 {
		return false
	}
	if jpeg[0] != 0xFF || jpeg[1] != 0xD8 {
		return false
	}
	if jpeg[2] != 0xFF || jpeg[3] != 0xE0 {
		return false
	}
	return jpeg[6] == 'J' && jpeg[7] == 'F' && jpeg[8] == 'I'
}
