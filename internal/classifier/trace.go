package classifier

import (
	"sync"
	"time"
)

// TraceOutcome labels one diagnostic trace entry.
type TraceOutcome string

const (
	TraceAttempt  TraceOutcome = "attempt"
	TraceSuccess  TraceOutcome = "success"
	TraceFailure  TraceOutcome = "failure"
	TraceFallback TraceOutcome = "fallback"
	TraceCacheHit TraceOutcome = "cache_hit"
)

// TraceEntry records one classifier interaction for diagnostics.
type TraceEntry struct {
	Time    time.Time    `json:"time"`
	Op      string       `json:"op"`
	Attempt int          `json:"attempt,omitempty"`
	Outcome TraceOutcome `json:"outcome"`
	Detail  string       `json:"detail,omitempty"`
}

// Trace is a bounded ring buffer of classifier interactions. Each gateway
// owns its own instance (injected at construction) rather than sharing
// process-wide state, so traces never leak across deployments that run one
// gateway per tenant pool. No persistence across restarts.
type Trace struct {
	mu      sync.Mutex
	entries []TraceEntry
	next    int
	full    bool
}

// DefaultTraceSize is the retained entry count when none is specified.
const DefaultTraceSize = 50

// NewTrace creates a ring buffer holding the last size entries.
func NewTrace(size int) *Trace {
	if size <= 0 {
		size = DefaultTraceSize
	}
	return &Trace{entries: make([]TraceEntry, size)}
}

// Record appends an entry, evicting the oldest once full. Safe for
// concurrent use.
func (t *Trace) Record(entry TraceEntry) {
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[t.next] = entry
	t.next++
	if t.next == len(t.entries) {
		t.next = 0
		t.full = true
	}
}

// Snapshot returns the retained entries, oldest first.
func (t *Trace) Snapshot() []TraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		return append([]TraceEntry{}, t.entries[:t.next]...)
	}
	out := make([]TraceEntry, 0, len(t.entries))
	out = append(out, t.entries[t.next:]...)
	out = append(out, t.entries[:t.next]...)
	return out
}

// Len returns the number of retained entries.
func (t *Trace) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.full {
		return len(t.entries)
	}
	return t.next
}
