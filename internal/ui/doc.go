// Package ui provides terminal UI components for the ebadge-upload CLI.
//
// This package uses Bubble Tea and Lipgloss to render polished terminal output
// for upload commands. Unlike the interactive TUI wizard, these components follow
// a "run once and exit" pattern - they render output compellingly but don't
// require user interaction.
//
// # Architecture
//
// The UI package provides four main component types:
//
//   - Header: Command banner showing operation name and parameters
//   - Progress: Progress bar with step list showing real-time status
//   - Result: Success/failure boxes with styled information
//   - Verbose transcript: Notification log for verbose mode
//
// These are rendered by a Printer, which owns the header -> result flow
// for one command invocation, and by a Progress, which tracks the
// connect/discover/stream/finalize steps a command walks through
// independently of the Printer.
//
// # Usage Pattern
//
// cmd/ebadge-upload drives the package two ways, depending on whether a
// command has distinct phases to report:
//
//   - scan and status print only a header and a result box:
//     NewPrinter, PrintHeader, then PrintSuccess or PrintError.
//   - upload additionally tracks its engine's state machine with a
//     Progress: StartStep/CompleteStep/FailStep mark each phase as the
//     engine's OnStateChange hook fires, and PrintStep renders the
//     current line after each transition. The per-chunk send percentage
//     within the "Stream data" step is rendered separately with
//     TransferBar, which overwrites its own line as chunks go out.
//
// Example:
//
//	p := ui.NewPrinter(nil)
//	p.PrintHeader("Upload", "ebadge-upload upload image.jpg",
//	    map[string]string{"Device": "AA:BB:CC:DD:EE:FF"})
//
//	prog := ui.NewProgress("", len(stepNames))
//	prog.SetStepNames(stepNames)
//	prog.ShowBar = false
//	engine.OnStateChange = func(s upload.State) {
//	    if step, ok := stepFor[s]; ok {
//	        prog.StartStep(step, "")
//	        prog.PrintStep(os.Stdout, step)
//	    }
//	}
//
//	bar := ui.NewTransferBar("streaming")
//	// ... engine.UploadImage(ctx, jpeg, w, h, func(pct int) {
//	//         fmt.Printf("\r%s", bar.Render(pct))
//	//     })
//
//	p.PrintSuccess("Upload complete", map[string]string{"Bytes": "12,345"})
//
// # Logging Integration
//
// This package expects logging to be controlled via the EBADGE_LOG_LEVEL
// environment variable (see internal/logging). When unset or empty, zap
// logging is silent, allowing the curated UI output to be displayed
// cleanly. Set EBADGE_LOG_LEVEL to "debug", "info", "warn", or "error" to
// enable logging output alongside it.
//
// # Verbose Mode
//
// When --verbose is passed to upload commands, PrintVerboseOutput displays
// the collected notification transcript in a styled box after the result.
// This is useful for debugging exactly what the display sent back during
// a transfer.
package ui
