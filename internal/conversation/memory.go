package conversation

import "sync"

// Memory is the ordered log of every prompt submitted to and every answer
// received from the single browser conversation this process drives. It is
// strictly content-addressed: entries carry no role or turn information.
//
// The log is append-only and never evicted; it grows for the life of the
// process. That is acceptable because it is bounded by the length of one
// conversation within one process run. Bounding it (e.g. a ring buffer) would
// not change reconciliation behavior for realistic conversation lengths.
type Memory struct {
	mu      sync.RWMutex
	entries []string
}

// NewMemory returns an empty conversation memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Append records a value at the end of the log. Duplicates are kept: the same
// content may legitimately occur more than once in a conversation.
func (m *Memory) Append(value string) {
	m.mu.Lock()
	m.entries = append(m.entries, value)
	m.mu.Unlock()
}

// Contains reports whether value has ever been exchanged. The scan runs
// backward so the cost is lowest for recent content, which is what the
// reconciler almost always asks about.
func (m *Memory) Contains(value string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i] == value {
			return true
		}
	}
	return false
}

// Len returns the number of recorded entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Entries returns a copy of the log, oldest first.
func (m *Memory) Entries() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.entries))
	copy(out, m.entries)
	return out
}
