// Package testutil provides helpers for deterministic list download tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// Response defines a fixed HTTP reply for a list path.
type Response struct {
	Body   string
	Status int
	// Delay holds the reply back, to exercise fetch timeouts.
	Delay time.Duration
}

// ListStub serves fixed list bodies by path and records the requests it saw.
type ListStub struct {
	URL    string
	server *httptest.Server

	mu         sync.Mutex
	userAgents []string
}

// StartListStub starts an HTTP server on a random port. Unknown paths get 404.
func StartListStub(t *testing.T, responses map[string]Response) *ListStub {
	t.Helper()

	stub := &ListStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.userAgents = append(stub.userAgents, r.Header.Get("User-Agent"))
		stub.mu.Unlock()

		resp, ok := responses[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if resp.Delay > 0 {
			select {
			case <-time.After(resp.Delay):
			case <-r.Context().Done():
				return
			}
		}
		if resp.Status != 0 {
			w.WriteHeader(resp.Status)
		}
		_, _ = w.Write([]byte(resp.Body))
	}))
	stub.URL = stub.server.URL
	t.Cleanup(stub.Close)

	return stub
}

// Close shuts down the stub server.
func (s *ListStub) Close() {
	if s.server != nil {
		s.server.Close()
	}
}

// At returns the absolute URL for path.
func (s *ListStub) At(path string) string {
	return s.URL + "/" + strings.TrimPrefix(path, "/")
}

// UserAgents returns the User-Agent headers received so far.
func (s *ListStub) UserAgents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.userAgents))
	copy(out, s.userAgents)
	return out
}

// Lines joins list lines with '\n'.
func Lines(lines ...string) string {
	return strings.Join(lines, "\n")
}
