// Package inspect implements the interactive capture browser behind
// "haierac inspect".
//
// The browser is a single Bubble Tea model. The left pane is a filterable
// bubbles list with one entry per captured frame, marked by whether it
// decoded. The right pane is a scrolling viewport showing the decoded
// response, or the decode error with troubleshooting hints, followed by an
// annotated hex dump that highlights the offending byte.
//
//	results, _ := capture.DecodeAll(ctx, records, 0)
//	if err := inspect.Run(results, registry.DisplayName); err != nil {
//	    return err
//	}
package inspect
