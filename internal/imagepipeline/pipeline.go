package imagepipeline

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"os"

	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
)

// DefaultQuality is the JPEG encode quality used for prepared stills,
// matching the device's native-resolution still-image path (spec §6).
const DefaultQuality = 90

// FrameQuality is a lower encode quality matching the frame extractor's
// approximately-75 target (spec §6). Nothing in this package encodes at
// it; extracted frames are encoded by frameextractor's ffmpeg subprocess.
const FrameQuality = 75

// Prepare decodes source (any image/jpeg, image/png, or image/gif
// registered decoder), resizes it to exactly width x height using
// Lanczos3 resampling, and re-encodes it as a JFIF-tagged, 4:2:0
// subsampled JPEG at DefaultQuality.
func Prepare(source io.Reader, width, height uint16) ([]byte, error) {
	img, _, err := image.Decode(source)
	if err != nil {
		return nil, fmt.Errorf("imagepipeline: decode source: %w", err)
	}
	return encode(resize.Resize(uint(width), uint(height), img, resize.Lanczos3), DefaultQuality)
}

// PrepareFile is Prepare over a path on disk.
func PrepareFile(path string, width, height uint16) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imagepipeline: open %s: %w", path, err)
	}
	defer f.Close()
	return Prepare(f, width, height)
}

// PrepareBuffer is Prepare over an in-memory byte slice.
func PrepareBuffer(data []byte, width, height uint16) ([]byte, error) {
	return Prepare(bytes.NewReader(data), width, height)
}

// Checkerboard synthesizes a width x height test-pattern JPEG with the
// given number of squares per side, alternating black and white, named
// explicitly in spec.md §6 as a collaborator operation.
func Checkerboard(width, height uint16, squares int) ([]byte, error) {
	if squares < 1 {
		squares = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	squareW := int(width) / squares
	squareH := int(height) / squares
	if squareW < 1 {
		squareW = 1
	}
	if squareH < 1 {
		squareH = 1
	}

	for y := 0; y < int(height); y++ {
		for x := 0; x < int(width); x++ {
			col := x / squareW
			row := y / squareH
			if (col+row)%2 == 0 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}

	return encode(img, DefaultQuality)
}

// encode JPEG-encodes img at quality and ensures the output carries a
// JFIF APP0 segment.
func encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("imagepipeline: encode jpeg: %w", err)
	}
	return ensureJFIF(buf.Bytes()), nil
}
