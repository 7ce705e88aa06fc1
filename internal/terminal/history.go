package terminal

import "sync"

// Entry is one command and what it printed.
type Entry struct {
	Input   string
	Output  string
	IsError bool
}

// History records the entries of a session, oldest first. A positive limit
// drops the oldest entries beyond it.
type History struct {
	mu      sync.Mutex
	entries []Entry
	limit   int
}

// NewHistory creates a history bounded by limit (0 = unbounded).
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

func (h *History) Append(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
	if h.limit > 0 && len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// Entries returns a copy of the recorded entries.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Entry(nil), h.entries...)
}
