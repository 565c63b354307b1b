package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/vango-dev/alerts/internal/config"
	"github.com/vango-dev/alerts/pkg/protocol"
)

// streamCounts records StreamObserver calls.
type streamCounts struct {
	mu     sync.Mutex
	counts map[string]int
}

func (s *streamCounts) inc(k string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts == nil {
		s.counts = make(map[string]int)
	}
	s.counts[k]++
}

func (s *streamCounts) get(k string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[k]
}

func (s *streamCounts) snapshot() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

func (s *streamCounts) StreamOpened(string)  { s.inc("opened") }
func (s *streamCounts) StreamClosed(string)  { s.inc("closed") }
func (s *streamCounts) FrameSent(string)     { s.inc("frames") }
func (s *streamCounts) StreamDropped(string) { s.inc("dropped") }

type testEnv struct {
	srv   *Server
	http  *httptest.Server
	clock *clockwork.FakeClock
}

func newTestEnv(t *testing.T, mutate func(*config.Config)) *testEnv {
	t.Helper()
	cfg := config.New()
	if mutate != nil {
		mutate(cfg)
	}
	clock := clockwork.NewFakeClock()
	srv, err := New(cfg, WithClock(clock))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Hub().Close()
		ts.Close()
	})
	return &testEnv{srv: srv, http: ts, clock: clock}
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(e.http.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (e *testEnv) post(t *testing.T, contentType, body string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Post(e.http.URL+PathPresent, contentType, strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, string(data)
}

func (e *testEnv) dial(t *testing.T, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.http.URL, "http") + PathWS + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitStreams polls until the hub has n subscriptions.
func (e *testEnv) waitStreams(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for e.srv.Hub().Len() != n {
		if time.Now().After(deadline) {
			t.Fatalf("hub has %d streams, want %d", e.srv.Hub().Len(), n)
		}
		time.Sleep(time.Millisecond)
	}
}

// waitTimers blocks until n alert timers are pending.
func (e *testEnv) waitTimers(t *testing.T, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.clock.BlockUntilContext(ctx, n); err != nil {
		t.Fatalf("waiting for %d timers: %v", n, err)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) protocol.Frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	f, err := protocol.Decode(data)
	if err != nil {
		t.Fatalf("decode frame %s: %v", data, err)
	}
	return f
}
