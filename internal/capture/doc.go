// Package capture reads recorded status frames and decodes them in bulk.
//
// A capture is a text file with one frame per line, in either form:
//
//	# living room unit, 2025-11-25
//	00 00 27 15 00 00 00 00 00 00 00 00 30 30 30 37 ...
//	{"timestamp":"2025-11-25T10:30:45Z","direction":"inbound","payload_hex":"00002715..."}
//
// DecodeAll fans the records out over a bounded set of goroutines and returns
// results in input order; Summarize folds them into Statistics (failures per
// error kind, frames per mode, sequence gaps per device).
package capture
