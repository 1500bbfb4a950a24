package logging

import (
	"encoding/hex"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "EBADGE_LOG_LEVEL"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks EBADGE_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// InitializeFromEnv initializes the logger from the EBADGE_LOG_LEVEL
// environment variable. This is the recommended way to initialize logging
// for CLI commands that want silent mode by default.
func InitializeFromEnv() error {
	return Initialize("")
}

// GetLogger returns the global logger instance.
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message.
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits.
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogScanStart logs the beginning of a BLE advertisement scan.
func LogScanStart(nameFragment string, timeoutSeconds float64) {
	Info("ble scan started",
		zap.String("name_fragment", nameFragment),
		zap.Float64("timeout_seconds", timeoutSeconds),
	)
}

// LogDeviceFound logs a matching peripheral seen during a scan.
func LogDeviceFound(name, address string, rssi int16) {
	Info("ble device found",
		zap.String("name", name),
		zap.String("address", address),
		zap.Int16("rssi", rssi),
	)
}

// LogConnectStart logs the beginning of a connection attempt.
func LogConnectStart(address string) {
	Info("ble connect started", zap.String("address", address))
}

// LogConnected logs a completed connection.
func LogConnected(address string) {
	Info("ble connected", zap.String("address", address))
}

// LogDiscoverChar logs discovery of a GATT characteristic.
func LogDiscoverChar(role, uuid string) {
	Debug("ble characteristic discovered",
		zap.String("role", role),
		zap.String("uuid", uuid),
	)
}

// LogStatusWait logs that the engine is waiting for a device-status
// notification before proceeding.
func LogStatusWait(address string) {
	Debug("awaiting device status", zap.String("address", address))
}

// LogStatusReceived logs a parsed device-status notification.
func LogStatusReceived(allSpaceKB, freeSpaceKB int, deviceName string) {
	Info("device status received",
		zap.Int("all_space_kb", allSpaceKB),
		zap.Int("free_space_kb", freeSpaceKB),
		zap.String("device_name", deviceName),
	)
}

// LogInfoSent logs the transmission of an image/animation info
// announcement frame.
func LogInfoSent(subtype byte, count int) {
	Debug("info announcement sent",
		zap.Uint8("subtype", subtype),
		zap.Int("count", count),
	)
}

// LogDataStart logs the beginning of payload streaming.
func LogDataStart(totalBytes, chunkCount int) {
	Info("data transfer started",
		zap.Int("total_bytes", totalBytes),
		zap.Int("chunk_count", chunkCount),
	)
}

// LogDataProgress logs incremental chunk-write progress. Callers are
// expected to throttle this themselves; it logs at debug level because a
// large transfer can emit thousands of chunks.
func LogDataProgress(chunksSent, chunkCount, bytesSent int) {
	Debug("data transfer progress",
		zap.Int("chunks_sent", chunksSent),
		zap.Int("chunk_count", chunkCount),
		zap.Int("bytes_sent", bytesSent),
	)
}

// LogDataComplete logs the completion of a payload transfer, including
// the terminal device acknowledgment status.
func LogDataComplete(totalBytes int, status string) {
	Info("data transfer complete",
		zap.Int("total_bytes", totalBytes),
		zap.String("status", status),
	)
}

// LogNotification logs a raw inbound notification payload before parsing.
func LogNotification(address string, data []byte) {
	fields := []zap.Field{
		zap.String("address", address),
		zap.Int("length", len(data)),
	}
	if GetLogger().Core().Enabled(zapcore.DebugLevel) {
		fields = append(fields, zap.String("hex", hexDump(data)))
	}
	Debug("notification received", fields...)
}

// LogDisconnected logs a connection teardown, with the reason that
// triggered it.
func LogDisconnected(address, reason string) {
	Info("ble disconnected",
		zap.String("address", address),
		zap.String("reason", reason),
	)
}

func hexDump(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) > 256 {
		return hex.EncodeToString(data[:256]) + "..."
	}
	return hex.EncodeToString(data)
}

// Sync flushes any buffered log entries.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
