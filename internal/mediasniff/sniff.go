package mediasniff

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Kind is the coarse content classification the upload engine routes on:
// Image takes the IMB path, Gif and Video take the xV4 path via
// frameextractor.
type Kind int

const (
	Unknown Kind = iota
	Image
	Gif
	Video
)

func (k Kind) String() string {
	switch k {
	case Image:
		return "image"
	case Gif:
		return "gif"
	case Video:
		return "video"
	default:
		return "unknown"
	}
}

// videoExtensions lists extensions mimetype does not resolve to a single
// canonical "video/*" tree node closely enough to trust alone; the
// extension hint disambiguates containers mimetype classifies generically.
var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true,
}

// Sniff classifies data (only a content prefix is required; mimetype reads
// at most 3072 bytes) using its magic-number tree, falling back to the
// extension hint when the detected MIME type is ambiguous.
func Sniff(data []byte, extensionHint string) Kind {
	mt := mimetype.Detect(data)
	ext := strings.ToLower(extensionHint)

	for m := mt; m != nil; m = m.Parent() {
		switch m.String() {
		case "image/gif":
			return Gif
		case "image/jpeg", "image/png", "image/webp", "image/bmp":
			return Image
		}
		if strings.HasPrefix(m.String(), "video/") {
			return Video
		}
	}

	if videoExtensions[ext] {
		return Video
	}
	if ext == ".gif" {
		return Gif
	}
	if strings.HasPrefix(mt.String(), "text/") || mt.String() == "application/octet-stream" {
		// mimetype's generic fallback; trust the extension hint if present.
		switch ext {
		case ".jpg", ".jpeg", ".png", ".webp", ".bmp":
			return Image
		}
	}

	return Unknown
}
