package frameextractor

import (
	"bytes"
	"testing"
	"time"
)

func TestReadJPEGFramesSplitsConcatenatedStream(t *testing.T) {
	frame1 := []byte{0xFF, 0xD8, 0x01, 0x02, 0xFF, 0xD9}
	frame2 := []byte{0xFF, 0xD8, 0x03, 0xFF, 0xD9}
	stream := append(append([]byte{}, frame1...), frame2...)

	frames, err := readJPEGFrames(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("readJPEGFrames: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if !bytes.Equal(frames[0], frame1) {
		t.Errorf("frame 1 = % X, want % X", frames[0], frame1)
	}
	if !bytes.Equal(frames[1], frame2) {
		t.Errorf("frame 2 = % X, want % X", frames[1], frame2)
	}
}

func TestReadJPEGFramesIgnoresLeadingNoise(t *testing.T) {
	noise := []byte{0x00, 0xAB, 0xFF, 0x00}
	frame := []byte{0xFF, 0xD8, 0x7F, 0xFF, 0xD9}
	stream := append(append([]byte{}, noise...), frame...)

	frames, err := readJPEGFrames(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("readJPEGFrames: %v", err)
	}
	if len(frames) != 1 || !bytes.Equal(frames[0], frame) {
		t.Fatalf("got %v, want single frame %v", frames, frame)
	}
}

func TestReadJPEGFramesEmptyStream(t *testing.T) {
	frames, err := readJPEGFrames(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("readJPEGFrames: %v", err)
	}
	if len(frames) != 0 {
		t.Fatalf("got %d frames, want 0", len(frames))
	}
}

func TestFFmpegQualityScaleBounds(t *testing.T) {
	if got := ffmpegQualityScale(100); got != "1" {
		t.Errorf("ffmpegQualityScale(100) = %s, want 1", got)
	}
	if got := ffmpegQualityScale(0); got != "31" {
		t.Errorf("ffmpegQualityScale(0) = %s, want 31", got)
	}
	if got := ffmpegQualityScale(200); got != "1" {
		t.Errorf("ffmpegQualityScale(200) = %s, want clamped to 1", got)
	}
	if got := ffmpegQualityScale(-10); got != "31" {
		t.Errorf("ffmpegQualityScale(-10) = %s, want clamped to 31", got)
	}
}

func TestDurationToIntervalMillis(t *testing.T) {
	if got := DurationToIntervalMillis(80 * time.Millisecond); got != 80 {
		t.Errorf("got %d, want 80", got)
	}
	if got := DurationToIntervalMillis(0); got <= 0 {
		t.Errorf("DurationToIntervalMillis(0) = %d, want positive default", got)
	}
}
