package capture

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/muurk/haierac/internal/logging"
	"github.com/muurk/haierac/internal/protocol"
)

// Result pairs a record with the outcome of decoding it
type Result struct {
	Record   Record
	Response protocol.Response
	Err      error
}

// OK reports whether the record decoded
func (r Result) OK() bool {
	return r.Err == nil
}

// DecodeAll decodes every record as a response frame using up to workers
// goroutines (one per CPU when workers <= 0). Results are returned in input
// order. Decode failures are carried in each Result; the returned error is
// only set when ctx is cancelled.
func DecodeAll(ctx context.Context, records []Record, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = decodeRecord(records[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func decodeRecord(rec Record) Result {
	label := rec.Label()
	logging.LogRawFrame(label, rec.Data)

	resp, err := protocol.DecodeResponse(rec.Data)
	if err != nil {
		logging.LogDecodeFailure(label, rec.Data, err)
		return Result{Record: rec, Err: err}
	}

	logging.LogDecoded(label, resp)
	return Result{Record: rec, Response: resp}
}
