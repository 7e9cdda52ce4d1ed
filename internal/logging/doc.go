// Package logging provides structured logging for haierac.
//
// It wraps a global zap logger with level helpers and a few frame-specific
// functions. The logger is silent unless HAIERAC_LOG_LEVEL is set or a
// level is passed explicitly, so CLI output stays clean by default.
//
// # Log Levels
//
//   - Debug: hex dumps of raw frames, successful decodes
//   - Info: capture files opened, registry updates
//   - Warn: frames that failed to decode
//   - Error: unrecoverable failures (unreadable files, bad config)
//
// # Frame Logging
//
//	logging.LogRawFrame("capture.jsonl:12", data)
//
//	resp, err := protocol.DecodeResponse(data)
//	if err != nil {
//	    logging.LogDecodeFailure("capture.jsonl:12", data, err)
//	}
//
// Decode failures carry kind, field, offset and the suggested recovery as
// separate fields.
//
// # Output
//
// Entries are written to stderr in zap's console format:
//
//	2025-11-25T10:30:45.123-0800  WARN  Frame decode failed  {"source": "stdin", "kind": "Integrity Error", "offset": 70}
//
// # Thread Safety
//
// All logging functions are safe for concurrent use once Initialize has
// returned. Initialize and SetLogger themselves are not.
package logging
