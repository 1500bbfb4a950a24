package frameextractor

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// Frame is one extracted frame: a generated name and its JPEG-encoded
// bytes, shaped to convert directly into a protocol.XV4Frame by the
// caller (frameextractor does not import internal/protocol itself, to
// keep the collaborator boundary from spec §6 honest).
type Frame struct {
	Name string
	JPEG []byte
}

const (
	// TargetWidth and TargetHeight are the fixed frame geometry extracted
	// frames are scaled/padded to, per spec §6.
	TargetWidth  = 360
	TargetHeight = 360

	// Quality is the JPEG quality target (0-100 scale) for extracted
	// frames, approximately matching spec §6's "quality approximately 75".
	Quality = 75

	// DefaultFPS is the sampling rate used when no explicit rate or
	// duration-derived interval is supplied.
	DefaultFPS = 10.0
)

// ExtractGIF decodes the animated GIF at path into an ordered sequence of
// 360x360, 4:4:4-chroma JPEG frames, one per GIF frame, via an ffmpeg
// subprocess. Chroma subsampling at full 4:4:4 is not reachable through
// the standard library's JPEG encoder (it hardcodes 4:2:0), so this path
// always shells out, mirroring the stdin/stdout ffmpeg plumbing pattern
// used by video frame extractors in the wild.
func ExtractGIF(path string) ([]Frame, error) {
	return extractViaFFmpeg(path, nil)
}

// ExtractVideo samples fps frames per second from the video at path into
// the same 360x360 JPEG frame sequence as ExtractGIF. fps <= 0 selects
// DefaultFPS.
func ExtractVideo(path string, fps float64) ([]Frame, error) {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return extractViaFFmpeg(path, &fps)
}

// DurationToIntervalMillis converts a per-frame display duration (e.g.
// read from a GIF's graphic control extension) into a millisecond
// interval. The upload engine's xV4 builder clamps the result to
// [50, 99] regardless (spec §4.3), so callers need not pre-clamp.
func DurationToIntervalMillis(d time.Duration) int {
	ms := int(d / time.Millisecond)
	if ms <= 0 {
		return int(1000.0 / DefaultFPS)
	}
	return ms
}

func extractViaFFmpeg(path string, fps *float64) ([]Frame, error) {
	vf := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
		TargetWidth, TargetHeight, TargetWidth, TargetHeight,
	)
	if fps != nil {
		vf = fmt.Sprintf("fps=%.3f,%s", *fps, vf)
	}

	cmd := exec.Command("ffmpeg",
		"-loglevel", "error",
		"-i", path,
		"-vf", vf,
		"-pix_fmt", "yuvj444p",
		"-q:v", ffmpegQualityScale(Quality),
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"pipe:1",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("frameextractor: stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("frameextractor: start ffmpeg: %w", err)
	}

	raw, readErr := readJPEGFrames(stdout)
	waitErr := cmd.Wait()
	if readErr != nil {
		return nil, fmt.Errorf("frameextractor: read frames from %s: %w", path, readErr)
	}
	if waitErr != nil {
		return nil, fmt.Errorf("frameextractor: ffmpeg exited with error on %s: %w", path, waitErr)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("frameextractor: no frames extracted from %s", path)
	}

	frames := make([]Frame, len(raw))
	for i, jpeg := range raw {
		frames[i] = Frame{Name: fmt.Sprintf("frame_%05d", i+1), JPEG: jpeg}
	}
	return frames, nil
}

// ffmpegQualityScale maps a 0-100 quality target to ffmpeg's inverted
// 1 (best) - 31 (worst) mjpeg -q:v scale.
func ffmpegQualityScale(quality int) string {
	q := 31 - (quality*30)/100
	if q < 1 {
		q = 1
	}
	if q > 31 {
		q = 31
	}
	return fmt.Sprintf("%d", q)
}

// readJPEGFrames scans r for back-to-back JPEG streams delimited by
// SOI (0xFFD8) and EOI (0xFFD9) markers, as emitted by ffmpeg's
// image2pipe muxer. Grounded on the same marker-scanning pattern used by
// ffmpeg-subprocess frame extractors elsewhere in the ecosystem.
func readJPEGFrames(r io.Reader) ([][]byte, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	var frames [][]byte
	var cur []byte
	inFrame := false

	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				break
			}
			return frames, err
		}

		if !inFrame {
			if b == 0xFF {
				next, err := br.Peek(1)
				if err == nil && len(next) == 1 && next[0] == 0xD8 {
					_, _ = br.ReadByte()
					cur = []byte{0xFF, 0xD8}
					inFrame = true
				}
			}
			continue
		}

		cur = append(cur, b)
		if len(cur) >= 2 && cur[len(cur)-2] == 0xFF && cur[len(cur)-1] == 0xD9 {
			frames = append(frames, cur)
			cur = nil
			inFrame = false
		}
	}

	return frames, nil
}
