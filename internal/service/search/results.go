package search

import (
	"context"
	stderrors "errors"
	"iter"
)

// Done is returned by Results.Next once every page has been consumed
var Done = stderrors.New("no more results")

// Results is a forward-only sequence over every result page of a search.
// Pages are fetched one at a time, only when the records already fetched are used up.
// The first fetch or parse failure ends the sequence: it is returned by the call that
// hit it and by every later call, without further requests.
// A Results value must not be used from multiple goroutines.
type Results struct {
	engine *Engine
	req    *preparedRequest

	buf      []VideoRecord
	off      int
	next     int  // index of the next page to fetch
	more     bool // the last fetched page signalled a following page
	err      error
	pages    int
	warnings []Warning
}

func newResults(e *Engine, req *preparedRequest) *Results {
	return &Results{engine: e, req: req, more: true}
}

// Next returns the next record, Done at the end, or the terminal error
func (r *Results) Next(ctx context.Context) (VideoRecord, error) {
	for {
		if r.err != nil {
			return VideoRecord{}, r.err
		}
		if r.off < len(r.buf) {
			rec := r.buf[r.off]
			r.off++
			return rec, nil
		}
		if !r.more {
			r.err = Done
			return VideoRecord{}, Done
		}

		page, err := r.engine.fetchPage(ctx, r.req, r.next)
		if err != nil {
			r.err = err
			r.buf, r.off, r.more = nil, 0, false
			return VideoRecord{}, err
		}
		r.pages++
		r.next++
		r.buf, r.off = page.Records, 0
		r.more = page.HasMore
		r.warnings = append(r.warnings, page.Warnings...)
	}
}

// All adapts the sequence to a range-over-func iterator. Iteration stops after
// yielding the terminal error, if any.
func (r *Results) All(ctx context.Context) iter.Seq2[VideoRecord, error] {
	return func(yield func(VideoRecord, error) bool) {
		for {
			rec, err := r.Next(ctx)
			if stderrors.Is(err, Done) {
				return
			}
			if err != nil {
				yield(VideoRecord{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Collect drains up to limit records (all of them when limit <= 0)
func (r *Results) Collect(ctx context.Context, limit int) ([]VideoRecord, error) {
	records := []VideoRecord{}
	for rec, err := range r.All(ctx) {
		if err != nil {
			return records, err
		}
		records = append(records, rec)
		if limit > 0 && len(records) >= limit {
			break
		}
	}
	return records, nil
}

// Err returns the terminal error, or nil if the sequence is still open or ended normally
func (r *Results) Err() error {
	if stderrors.Is(r.err, Done) {
		return nil
	}
	return r.err
}

// PagesFetched is the number of pages fetched successfully so far
func (r *Results) PagesFetched() int { return r.pages }

// Warnings returns the skipped-card warnings collected so far
func (r *Results) Warnings() []Warning { return r.warnings }
