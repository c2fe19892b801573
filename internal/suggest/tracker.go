// Package suggest keeps autocomplete lookups in keystroke order: when a
// newer query is issued for a field, the answer to an older one is dropped
// even if it arrives later.
package suggest

import (
	"context"
	"sync"
)

// Tracker hands out increasing sequence numbers per field.
type Tracker struct {
	mu     sync.Mutex
	seq    map[string]uint64
	cancel map[string]context.CancelFunc
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		seq:    make(map[string]uint64),
		cancel: make(map[string]context.CancelFunc),
	}
}

// Begin issues the next sequence number for field and cancels the lookup
// started by the previous Begin, if it is still running.
func (t *Tracker) Begin(ctx context.Context, field string) (context.Context, uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cancel, ok := t.cancel[field]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	t.cancel[field] = cancel
	t.seq[field]++
	return ctx, t.seq[field]
}

// Latest reports whether seq is the most recent number issued for field.
func (t *Tracker) Latest(field string, seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seq[field] == seq
}

// Fetch runs lookup as the newest request for field. ok is false when a
// newer request was issued before lookup returned; its results are then
// stale and discarded.
func (t *Tracker) Fetch(ctx context.Context, field string, lookup func(context.Context) ([]string, error)) (results []string, ok bool, err error) {
	ctx, seq := t.Begin(ctx, field)
	results, err = lookup(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.seq[field] != seq {
		return nil, false, nil
	}
	if cancel, found := t.cancel[field]; found {
		cancel()
		delete(t.cancel, field)
	}
	return results, true, err
}

// Reset cancels any running lookup for field.
func (t *Tracker) Reset(field string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cancel, ok := t.cancel[field]; ok {
		cancel()
		delete(t.cancel, field)
	}
	t.seq[field]++
}
