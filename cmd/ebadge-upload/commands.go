package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/ebadge-upload/internal/config"
	"github.com/muurk/ebadge-upload/internal/discovery"
	"github.com/muurk/ebadge-upload/internal/frameextractor"
	"github.com/muurk/ebadge-upload/internal/imagepipeline"
	"github.com/muurk/ebadge-upload/internal/mediasniff"
	"github.com/muurk/ebadge-upload/internal/protocol"
	"github.com/muurk/ebadge-upload/internal/transport"
	"github.com/muurk/ebadge-upload/internal/ui"
	"github.com/muurk/ebadge-upload/internal/upload"
)

var (
	deviceRef    string
	scanTimeout  int
	imgWidth     uint16
	imgHeight    uint16
	interval     int
	testPattern  bool
	chunkSizeArg int
	chunkDelayMs int
	saveNickname string
	verbose      bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&deviceRef, "device", "", "Target display: a saved nickname or a raw BLE address (auto-scans if omitted)")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(statusCmd)

	uploadCmd.Flags().Uint16Var(&imgWidth, "width", 64, "Display width, pixels")
	uploadCmd.Flags().Uint16Var(&imgHeight, "height", 32, "Display height, pixels")
	uploadCmd.Flags().IntVar(&interval, "interval", 50, "Animation frame interval in milliseconds (clamped to 50-99)")
	uploadCmd.Flags().BoolVar(&testPattern, "test-pattern", false, "Upload a synthetic checkerboard test pattern instead of a file")
	uploadCmd.Flags().IntVar(&chunkSizeArg, "chunk-size", 0, "Override payload bytes per frame (0 = protocol default)")
	uploadCmd.Flags().IntVar(&chunkDelayMs, "chunk-delay-ms", 0, "Override pacing delay between chunk writes (0 = protocol default)")
	uploadCmd.Flags().BoolVar(&verbose, "verbose", false, "Show the notifications observed during the transfer")

	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")
	scanCmd.Flags().StringVar(&saveNickname, "save", "", "Remember the first discovered device under this nickname")

	statusCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Status query timeout in seconds")
	statusCmd.Flags().BoolVar(&verbose, "verbose", false, "Show every notification observed since connect")
}

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload an image, GIF, video, or test pattern to a display",
	Long: `Upload static image or animated content to an e-Badge display.

The file's content is sniffed to decide whether it takes the single-image
(IMB) path or the animation (xV4) path: still images (JPEG/PNG) upload
directly, GIFs and videos are split into frames first.`,
	Example: `  # Upload a still image, auto-discovering the display
  ebadge-upload upload photo.jpg

  # Upload a GIF at a custom frame interval
  ebadge-upload upload dance.gif --interval 80

  # Upload a checkerboard test pattern without a source file
  ebadge-upload upload --test-pattern --width 64 --height 32

  # Target a remembered display by nickname
  ebadge-upload upload photo.jpg --device "living room"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpload,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for nearby e-Badge displays",
	RunE:  runScan,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Connect to a display and report its storage and geometry",
	RunE:  runStatus,
}

func newEngine() (*upload.Engine, upload.Config) {
	cfg := upload.DefaultConfig()
	if chunkSizeArg > 0 {
		cfg.ChunkSize = chunkSizeArg
	}
	if chunkDelayMs > 0 {
		cfg.ChunkDelay = time.Duration(chunkDelayMs) * time.Millisecond
	}
	t := transport.NewBLEAdapter()
	return upload.NewEngine(t, cfg), cfg
}

// resolveAddress turns --device into a concrete BLE address: a saved
// nickname resolves via the registry, anything else (including empty,
// meaning "auto-discover by name fragment") passes through unchanged.
func resolveAddress(ref string) string {
	if ref == "" {
		return ""
	}
	registry, err := config.LoadRegistry()
	if err != nil {
		return ref
	}
	if addr, ok := registry.ResolveAddress(ref); ok {
		return addr
	}
	return ref
}

// lowStorageMarginKB is the free-space headroom an upload must leave on
// the display; falling under it prompts for confirmation before
// streaming.
const lowStorageMarginKB = 8

// transferStepNames names the Progress steps shown while an engine walks
// Connect through Finalize, in the order those upload.States occur.
var transferStepNames = []string{
	"Connect",
	"Discover characteristics",
	"Await device status",
	"Announce transfer",
	"Stream data",
	"Finalize",
}

// transferStepFor maps an upload.State to the 1-based step it marks as
// running. States absent from this map (Idle, Scanning, Ready, Closed)
// don't advance the list; the scan inside Connect is not shown as a step.
var transferStepFor = map[upload.State]int{
	upload.Connecting:     1,
	upload.Discovering:    2,
	upload.AwaitingStatus: 3,
	upload.AnnouncingInfo: 4,
	upload.Streaming:      5,
	upload.Finalizing:     6,
}

// stepTracker drives a ui.Progress step list from an engine's
// OnStateChange hook, completing whichever step was running as soon as
// the engine moves on to the next one.
type stepTracker struct {
	prog    *ui.Progress
	out     io.Writer
	running int
}

func newStepTracker(out io.Writer) *stepTracker {
	prog := ui.NewProgress("", len(transferStepNames))
	prog.SetStepNames(transferStepNames)
	prog.ShowBar = false
	return &stepTracker{prog: prog, out: out}
}

func (t *stepTracker) onStateChange(s upload.State) {
	idx, ok := transferStepFor[s]
	if !ok {
		return
	}
	if t.running > 0 && t.running != idx {
		t.prog.CompleteStep(t.running, "")
		t.prog.PrintStep(t.out, t.running)
	}
	t.prog.StartStep(idx, "")
	t.prog.PrintStep(t.out, idx)
	t.running = idx
}

// finish marks the last-running step complete or failed, depending on
// whether the upload as a whole returned an error.
func (t *stepTracker) finish(err error) {
	if t.running == 0 {
		return
	}
	if err != nil {
		t.prog.FailStep(t.running, "")
	} else {
		t.prog.CompleteStep(t.running, "")
	}
	t.prog.PrintStep(t.out, t.running)
}

var uploadTroubleshooting = []string{
	"Confirm the display is powered on and in BLE range",
	"Pass --device <address or nickname> if auto-discovery can't find it",
	"Re-run with --verbose to see the notification transcript",
}

// formatNotifications renders a connection's notification log for
// --verbose output.
func formatNotifications(records []upload.NotificationRecord) string {
	if len(records) == 0 {
		return "(no notifications observed)"
	}
	var b strings.Builder
	for _, r := range records {
		tag := "-"
		switch {
		case r.Parsed.IsSuccess():
			tag = "SUCCESS"
		case r.Parsed.IsFail():
			tag = "FAIL"
		case r.Parsed.IsError():
			tag = "ERROR"
		}
		fmt.Fprintf(&b, "%s  [%-7s]  %s\n", r.Time.Format("15:04:05.000"), tag, r.Parsed.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

func runUpload(cmd *cobra.Command, args []string) error {
	if !testPattern && len(args) != 1 {
		return fmt.Errorf("upload requires a file argument unless --test-pattern is set")
	}

	printer := ui.NewPrinter(os.Stdout)
	source := "test pattern"
	if !testPattern {
		source = args[0]
	}
	device := deviceRef
	if device == "" {
		device = "auto-discover"
	}
	printer.PrintHeader("Upload", "ebadge-upload upload", map[string]string{
		"Source": source,
		"Size":   fmt.Sprintf("%dx%d", imgWidth, imgHeight),
		"Device": device,
	})

	var (
		jpeg   []byte
		frames []protocol.XV4Frame
	)
	if testPattern {
		var err error
		jpeg, err = imagepipeline.Checkerboard(imgWidth, imgHeight, 8)
		if err != nil {
			printer.PrintError("Upload failed", err, []string{"Check --width/--height are non-zero"})
			return fmt.Errorf("generate test pattern: %w", err)
		}
	} else {
		var err error
		jpeg, frames, err = prepareContent(args[0])
		if err != nil {
			printer.PrintError("Upload failed", err, []string{"Confirm the file is a readable JPEG/PNG/GIF/video"})
			return err
		}
	}

	engine, _ := newEngine()
	steps := newStepTracker(os.Stdout)
	engine.OnStateChange = steps.onStateChange
	ctx := context.Background()

	address := resolveAddress(deviceRef)
	if err := engine.Connect(ctx, address); err != nil {
		steps.finish(err)
		printer.PrintError("Upload failed", err, uploadTroubleshooting)
		return fmt.Errorf("connect: %w", err)
	}
	defer engine.Disconnect()

	payloadBytes := len(jpeg)
	for _, f := range frames {
		payloadBytes += len(f.JPEG)
	}
	if err := confirmStorageMargin(ctx, engine, payloadBytes); err != nil {
		steps.finish(err)
		printer.PrintError("Upload failed", err, uploadTroubleshooting)
		return err
	}

	bar := ui.NewTransferBar("streaming")
	progress := func(percent int) {
		fmt.Printf("\r%s", bar.Render(percent))
		if percent >= 100 {
			fmt.Println()
		}
	}

	var uploadErr error
	if frames != nil {
		uploadErr = engine.UploadAnimation(ctx, frames, interval, imgWidth, imgHeight, progress)
	} else {
		uploadErr = engine.UploadImage(ctx, jpeg, imgWidth, imgHeight, progress)
	}
	steps.finish(uploadErr)

	if verbose {
		_, records, _ := engine.QueryStatus(ctx, time.Millisecond)
		printer.PrintVerboseOutput(formatNotifications(records))
	}

	if uploadErr != nil {
		printer.PrintError("Upload failed", uploadErr, uploadTroubleshooting)
		return fmt.Errorf("upload: %w", uploadErr)
	}

	if address != "" {
		if registry, err := config.LoadRegistry(); err == nil {
			registry.UpdateDisplayLastSeen(address, imgWidth, imgHeight)
			_ = registry.Save()
		}
	}

	printer.PrintSuccess("Upload complete", map[string]string{
		"Bytes sent": fmt.Sprintf("%d", payloadBytes),
		"Packets":    fmt.Sprintf("%d", engine.StreamingStatus().Total),
	})
	return nil
}

// confirmStorageMargin queries the display's free space and, if the
// upload would leave less than lowStorageMarginKB of headroom, prompts
// the user to confirm before proceeding.
func confirmStorageMargin(ctx context.Context, engine *upload.Engine, payloadBytes int) error {
	status, _, err := engine.QueryStatus(ctx, 3*time.Second)
	if err != nil || status == nil {
		// No status notification observed; proceed without a storage check
		// rather than blocking the upload on a best-effort query.
		return nil
	}

	remainingKB := status.FreeSpaceKB - payloadBytes/1024
	if remainingKB >= lowStorageMarginKB {
		return nil
	}
	if !ui.ConfirmLowStorageUpload(status.FreeSpaceKB, payloadBytes) {
		return fmt.Errorf("upload cancelled: insufficient storage margin")
	}
	return nil
}

// prepareContent sniffs path's content and returns either a prepared
// still-image JPEG (frames nil) or a sequence of animation frames
// (jpeg nil), ready for the matching engine operation.
func prepareContent(path string) (jpeg []byte, frames []protocol.XV4Frame, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	switch mediasniff.Sniff(data, filepath.Ext(path)) {
	case mediasniff.Image:
		jpeg, err = imagepipeline.PrepareFile(path, imgWidth, imgHeight)
		if err != nil {
			return nil, nil, fmt.Errorf("prepare image: %w", err)
		}
		return jpeg, nil, nil

	case mediasniff.Gif:
		f, err := frameextractor.ExtractGIF(path)
		if err != nil {
			return nil, nil, fmt.Errorf("extract gif frames: %w", err)
		}
		return nil, toXV4Frames(f), nil

	case mediasniff.Video:
		f, err := frameextractor.ExtractVideo(path, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("extract video frames: %w", err)
		}
		return nil, toXV4Frames(f), nil

	default:
		return nil, nil, fmt.Errorf("unrecognized content type for %s", path)
	}
}

func toXV4Frames(frames []frameextractor.Frame) []protocol.XV4Frame {
	out := make([]protocol.XV4Frame, len(frames))
	for i, f := range frames {
		out[i] = protocol.XV4Frame{Name: f.Name, JPEG: f.JPEG}
	}
	return out
}

func runScan(cmd *cobra.Command, args []string) error {
	printer := ui.NewPrinter(os.Stdout)
	printer.PrintHeader("Scan", "ebadge-upload scan", map[string]string{
		"Timeout": fmt.Sprintf("%ds", scanTimeout),
	})

	t := transport.NewBLEAdapter()
	scanner := discovery.NewScanner(t)
	scanner.Timeout = time.Duration(scanTimeout) * time.Second

	devices, err := scanner.ScanForDevices(context.Background())
	if err != nil {
		printer.PrintError("Scan failed", err, []string{"Confirm Bluetooth is enabled on this host"})
		return fmt.Errorf("scan: %w", err)
	}

	if len(devices) == 0 {
		printer.PrintError("No displays found", fmt.Errorf("scan returned no matching advertisements"), []string{
			"Move closer to the display and retry",
			"Confirm the display is powered on and advertising",
		})
		return nil
	}

	var found strings.Builder
	for i, d := range devices {
		fmt.Fprintf(&found, "%d. %s\n", i+1, d.String())
	}
	printer.PrintVerboseOutput(strings.TrimRight(found.String(), "\n"))

	details := map[string]string{"Found": fmt.Sprintf("%d", len(devices))}
	if saveNickname != "" {
		registry, err := config.LoadRegistry()
		if err != nil {
			printer.PrintError("Scan failed", err, nil)
			return fmt.Errorf("load config: %w", err)
		}
		registry.SetDisplayNickname(devices[0].Address, saveNickname)
		if err := registry.Save(); err != nil {
			printer.PrintError("Scan failed", err, nil)
			return fmt.Errorf("save config: %w", err)
		}
		details["Saved as"] = fmt.Sprintf("%q (%s)", saveNickname, devices[0].Address)
	}

	printer.PrintSuccess("Scan complete", details)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	printer := ui.NewPrinter(os.Stdout)
	device := deviceRef
	if device == "" {
		device = "auto-discover"
	}
	printer.PrintHeader("Status", "ebadge-upload status", map[string]string{
		"Device": device,
	})

	engine, _ := newEngine()
	ctx := context.Background()

	address := resolveAddress(deviceRef)
	if err := engine.Connect(ctx, address); err != nil {
		printer.PrintError("Status failed", err, uploadTroubleshooting)
		return fmt.Errorf("connect: %w", err)
	}
	defer engine.Disconnect()

	status, notifications, err := engine.QueryStatus(ctx, time.Duration(scanTimeout)*time.Second)
	if err != nil {
		printer.PrintError("Status failed", err, uploadTroubleshooting)
		return fmt.Errorf("query status: %w", err)
	}

	if verbose {
		printer.PrintVerboseOutput(formatNotifications(notifications))
	}

	if status == nil {
		printer.PrintError("No status received", fmt.Errorf("no device-status notification within the timeout"), uploadTroubleshooting)
		return nil
	}

	printer.PrintSuccess("Status", map[string]string{
		"Device":        status.DeviceName,
		"Size":          status.Size,
		"Storage":       fmt.Sprintf("%d/%d KB free", status.FreeSpaceKB, status.AllSpaceKB),
		"Brand":         fmt.Sprintf("%d", status.Brand),
		"Notifications": fmt.Sprintf("%d observed", len(notifications)),
	})
	return nil
}
