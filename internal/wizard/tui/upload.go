package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/ebadge-upload/internal/discovery"
	"github.com/muurk/ebadge-upload/internal/frameextractor"
	"github.com/muurk/ebadge-upload/internal/imagepipeline"
	"github.com/muurk/ebadge-upload/internal/mediasniff"
	"github.com/muurk/ebadge-upload/internal/protocol"
	"github.com/muurk/ebadge-upload/internal/transport"
	"github.com/muurk/ebadge-upload/internal/upload"
)

// uploadProgressMsg carries a percent-complete tick from the running
// upload goroutine.
type uploadProgressMsg int

// uploadDoneMsg signals that the upload goroutine has finished.
type uploadDoneMsg struct {
	err error
}

// UploadRequest describes the work the uploading screen should perform.
type UploadRequest struct {
	Device   *discovery.Device
	Path     string
	UseTest  bool
	Width    uint16
	Height   uint16
	Interval int
}

// UploadModel drives and displays a single upload against a connected
// display, reporting progress as it streams.
type UploadModel struct {
	Request UploadRequest

	Percent int
	Done    bool
	Err     error

	Width   int
	Height  int
	Spinner spinner.Model
	Bar     progress.Model

	progressCh chan int
	resultCh   chan error
}

// NewUploadModel creates a new uploading screen model for req.
func NewUploadModel(req UploadRequest) UploadModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return UploadModel{
		Request:    req,
		Spinner:    s,
		Bar:        bar,
		progressCh: make(chan int, 16),
		resultCh:   make(chan error, 1),
	}
}

func (m UploadModel) Init() tea.Cmd {
	return tea.Batch(
		m.Spinner.Tick,
		runUpload(m.Request, m.progressCh, m.resultCh),
		listenForProgress(m.progressCh),
		waitForResult(m.resultCh),
	)
}

func (m UploadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case uploadProgressMsg:
		m.Percent = int(msg)
		return m, listenForProgress(m.progressCh)

	case uploadDoneMsg:
		m.Done = true
		m.Err = msg.err
		return m, nil
	}

	return m, nil
}

func (m UploadModel) View() string {
	var b strings.Builder

	target := m.Request.Device.String()
	b.WriteString(RenderTitle("Uploading"))
	b.WriteString("\n\n")
	b.WriteString(SubtitleStyle.Render("Target: " + target))
	b.WriteString("\n\n")

	if !m.Done {
		b.WriteString(fmt.Sprintf("%s Streaming...", m.Spinner.View()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.Bar.ViewAs(float64(m.Percent) / 100))
	b.WriteString("\n")

	return RenderApplicationContainer(b.String(), "ctrl+c quit", m.Width, m.Height)
}

// listenForProgress waits for the next progress tick without blocking
// the rest of the event loop.
func listenForProgress(ch chan int) tea.Cmd {
	return func() tea.Msg {
		percent, ok := <-ch
		if !ok {
			return nil
		}
		return uploadProgressMsg(percent)
	}
}

// waitForResult blocks for the upload goroutine's final error.
func waitForResult(ch chan error) tea.Cmd {
	return func() tea.Msg {
		err := <-ch
		return uploadDoneMsg{err: err}
	}
}

// runUpload connects to the target display and streams the requested
// content, reporting percent-complete ticks on progressCh and the
// final error on resultCh.
func runUpload(req UploadRequest, progressCh chan int, resultCh chan error) tea.Cmd {
	return func() tea.Msg {
		go func() {
			defer close(progressCh)
			resultCh <- doUpload(req, progressCh)
		}()
		return nil
	}
}

func doUpload(req UploadRequest, progressCh chan int) error {
	t := transport.NewBLEAdapter()
	engine := upload.NewEngine(t, upload.DefaultConfig())
	ctx := context.Background()

	if err := engine.Connect(ctx, req.Device.Address); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer engine.Disconnect()

	report := func(percent int) { progressCh <- percent }

	if req.UseTest {
		jpeg, err := imagepipeline.Checkerboard(req.Width, req.Height, 8)
		if err != nil {
			return fmt.Errorf("generate test pattern: %w", err)
		}
		return engine.UploadImage(ctx, jpeg, req.Width, req.Height, report)
	}

	data, err := os.ReadFile(req.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", req.Path, err)
	}

	switch mediasniff.Sniff(data, filepath.Ext(req.Path)) {
	case mediasniff.Image:
		jpeg, err := imagepipeline.PrepareFile(req.Path, req.Width, req.Height)
		if err != nil {
			return fmt.Errorf("prepare image: %w", err)
		}
		return engine.UploadImage(ctx, jpeg, req.Width, req.Height, report)

	case mediasniff.Gif:
		frames, err := frameextractor.ExtractGIF(req.Path)
		if err != nil {
			return fmt.Errorf("extract gif frames: %w", err)
		}
		return engine.UploadAnimation(ctx, toXV4Frames(frames), req.Interval, req.Width, req.Height, report)

	case mediasniff.Video:
		frames, err := frameextractor.ExtractVideo(req.Path, 0)
		if err != nil {
			return fmt.Errorf("extract video frames: %w", err)
		}
		return engine.UploadAnimation(ctx, toXV4Frames(frames), req.Interval, req.Width, req.Height, report)

	default:
		return fmt.Errorf("unrecognized content type for %s", req.Path)
	}
}

func toXV4Frames(frames []frameextractor.Frame) []protocol.XV4Frame {
	out := make([]protocol.XV4Frame, len(frames))
	for i, f := range frames {
		out[i] = protocol.XV4Frame{Name: f.Name, JPEG: f.JPEG}
	}
	return out
}
