// Package logging provides structured logging for the fireremote engine.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the tool. Logging is silent by default so the CLI
// and TUI output stay clean; set FIREREMOTE_LOG_LEVEL to enable it.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (packet hex dumps, request traces)
//   - Info: Normal operations (device found, wake complete, paired)
//   - Warn: Non-fatal issues (wake retries, dropped datagrams)
//   - Error: Fatal issues (socket failures, persistence errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Device found",
//	    zap.String("address", "192.168.1.100"),
//	    zap.String("name", "Living Room Fire TV"),
//	)
//
// # Specialized Logging
//
// Domain-specific helpers cover the recurring cases:
//
//	logging.LogRequest("POST", url, resp.StatusCode)
//	logging.LogWake(address, attempt, err)
//	logging.LogPacket("mDNS response", datagram)
//
// The pairing token is never passed to any logging function.
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
