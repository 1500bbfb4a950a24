// Package logging provides structured logging for the upload controller.
//
// This package wraps zap logger with convenience functions for common
// logging patterns used throughout scanning, connecting, and streaming.
// It provides both general logging functions and specialized functions
// for BLE and upload-specific logging needs.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (hex dumps, chunk progress)
//   - Info: Normal operations (scan/connect/transfer lifecycle)
//   - Warn: Non-fatal issues (missing status, finalize timeouts, dropped notifications)
//   - Error: Fatal issues (adapter failures, protocol violations)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("ble connected",
//	    zap.String("address", "AA:BB:CC:DD:EE:FF"),
//	)
//
// # Specialized Logging
//
// The package provides domain-specific logging functions for each stage
// of the upload lifecycle: LogScanStart, LogDeviceFound, LogConnectStart,
// LogConnected, LogDiscoverChar, LogStatusWait, LogStatusReceived,
// LogInfoSent, LogDataStart, LogDataProgress, LogDataComplete, and
// LogDisconnected.
//
// # Configuration
//
// Initialize logging at process startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Logging is silent by default; set EBADGE_LOG_LEVEL to "debug", "info",
// "warn", or "error" to enable console output.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
