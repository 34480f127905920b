package generate

import "sync"

// FailureLog collects the names of lists that could not be retrieved, in the
// order the failures happened.
type FailureLog struct {
	mu    sync.Mutex
	names []string
}

// Add records a failed list.
func (l *FailureLog) Add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names = append(l.names, name)
}

// Names returns a copy of the recorded names.
func (l *FailureLog) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}
