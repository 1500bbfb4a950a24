// Package tui implements the terminal user interface for the e-Badge
// upload wizard.
//
// This package provides an interactive, full-screen TUI for discovering
// e-Badge displays over Bluetooth Low Energy and streaming images,
// GIFs, videos, or a synthetic test pattern to them. Built using the
// Bubble Tea framework, it follows the Elm architecture with immutable
// state updates and a clean Model-Update-View pattern.
//
// # Architecture
//
// The TUI is organized into five screens:
//   - Discovery: scan for nearby displays or enter a BLE address manually
//   - File select: pick a source file (or the built-in test pattern) and
//     target geometry
//   - Uploading: connect and stream content, showing a live progress bar
//   - Success/Failure: display the outcome and offer to retry or
//     discover another display
//
// All screens use a unified container pattern (RenderApplicationContainer)
// for consistent layout with header, content area, and a context-sensitive
// footer.
//
// # Framework Components
//
// The TUI leverages Bubble Tea framework components throughout:
//   - bubbles/spinner: loading and in-progress indicators
//   - bubbles/textinput: BLE address and upload parameter entry
//   - bubbles/progress: progress bars for scanning and streaming
//   - bubbles/list: discovered-display lists with filtering
//   - bubbles/help: context-aware help system
//   - lipgloss: styling and layout
//
// # Usage Example
//
//	app := tui.NewAppModel()
//	program := tea.NewProgram(app, tea.WithAltScreen())
//
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Screen Flow
//
//  1. Discovery: scans for advertising displays, lets the user pick one
//     or type an address directly.
//  2. File select: the user names a file or opts into the checkerboard
//     test pattern, and may override width, height, and frame interval.
//  3. Uploading: the engine connects, and the screen streams percent
//     updates from a background goroutine until the upload finishes.
//  4. Success/Failure: reports the outcome; 'r' retries against the
//     same display, 'd' returns to discovery, 'q' quits.
package tui
