// Package ui provides terminal output components for the haierac CLI.
//
// Output follows a "print once and exit" pattern built on Lipgloss: a
// header naming the command, then either a panel with the decoded frame or
// a failure box with troubleshooting tips. The interactive capture browser
// lives in package inspect and reuses the renderers here.
//
// # Components
//
//   - Header: command banner with ordered parameters
//   - Result: success, failure and warning boxes
//   - RenderStatus / RenderResponse: decoded frame panels
//   - RenderHexDump: 16-byte rows colored by protocol.Region, with the
//     offending byte of a decode error highlighted
//   - RenderStatistics: capture summary with a bubbles progress bar
//
// # Usage
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Response frame", "haierac decode response",
//	    ui.Param{Key: "Input", Value: "71 bytes"})
//
//	resp, err := protocol.DecodeResponse(data)
//	if err != nil {
//	    p.PrintDecodeError("Decode failed", err)
//	    return err
//	}
//	p.PrintResponse(resp, "")
//
// # Logging Integration
//
// zap logging is silent unless HAIERAC_LOG_LEVEL is set, and it writes to
// stderr, so styled output on stdout stays clean.
package ui
