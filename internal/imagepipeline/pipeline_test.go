package imagepipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func sourceJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode source: %v", err)
	}
	return buf.Bytes()
}

func TestPrepareResizesToExactGeometry(t *testing.T) {
	src := sourceJPEG(t, 200, 100)
	out, err := PrepareBuffer(src, 64, 32)
	if err != nil {
		t.Fatalf("PrepareBuffer: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 32 {
		t.Fatalf("got %dx%d, want 64x32", cfg.Width, cfg.Height)
	}
}

func TestPrepareOutputHasJFIF(t *testing.T) {
	src := sourceJPEG(t, 50, 50)
	out, err := PrepareBuffer(src, 32, 32)
	if err != nil {
		t.Fatalf("PrepareBuffer: %v", err)
	}
	if !hasAPP0(out) {
		t.Fatalf("prepared jpeg missing JFIF APP0 segment")
	}
}

func TestCheckerboardGeometry(t *testing.T) {
	out, err := Checkerboard(64, 64, 8)
	if err != nil {
		t.Fatalf("Checkerboard: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 64 {
		t.Fatalf("got %dx%d, want 64x64", cfg.Width, cfg.Height)
	}
}

func TestCheckerboardMinSquares(t *testing.T) {
	if _, err := Checkerboard(16, 16, 0); err != nil {
		t.Fatalf("Checkerboard with squares=0 should clamp, not error: %v", err)
	}
}

func TestEnsureJFIFIdempotent(t *testing.T) {
	src := sourceJPEG(t, 10, 10)
	once := ensureJFIF(src)
	twice := ensureJFIF(once)
	if !bytes.Equal(once, twice) {
		t.Fatalf("ensureJFIF not idempotent")
	}
}
