package ownership

import (
	"sync"

	"github.com/suiwatch/suix/pkg/db/models/analytics"
)

// Accumulator buffers pending ownership entries for the current
// unflushed window. Append and Drain are mutually exclusive under a
// single lock covering the whole buffer, so a drain never observes a
// half-appended transaction.
type Accumulator struct {
	mu      sync.Mutex
	entries []*analytics.OwnershipEntry
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Append adds entries to the buffer in order.
func (a *Accumulator) Append(entries ...*analytics.OwnershipEntry) {
	if len(entries) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entries...)
}

// Drain atomically returns all buffered entries and empties the
// buffer. A second Drain with no intervening Append returns nil.
func (a *Accumulator) Drain() []*analytics.OwnershipEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.entries
	a.entries = nil
	return out
}

// Requeue puts drained entries back at the front of the buffer,
// ahead of anything appended since the drain, preserving the original
// emission order. Used when a flush fails after the drain.
func (a *Accumulator) Requeue(entries []*analytics.OwnershipEntry) {
	if len(entries) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(entries, a.entries...)
}

// Len returns the number of buffered entries.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}
