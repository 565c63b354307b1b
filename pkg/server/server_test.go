package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/alerts/internal/config"
	"github.com/vango-dev/alerts/internal/errors"
	"github.com/vango-dev/alerts/pkg/alert"
)

var seqAttr = regexp.MustCompile(`data-alerts-seq="(\d+)"`)

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.New()
	cfg.Stream.Transport = "carrier-pigeon"

	_, err := New(cfg)
	if !errors.HasCode(err, "E104") {
		t.Fatalf("New() error = %v, want E104", err)
	}
}

func TestPresentJSONThenPage(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.post(t, "application/json", `{"kind":"success","message":"<b>Saved!</b>"}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var pr PresentResponse
	if err := json.Unmarshal([]byte(body), &pr); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if pr.Kind != "success" || pr.Version == 0 {
		t.Errorf("response = %+v", pr)
	}

	resp, page := env.get(t, PathPage)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("page status = %d", resp.StatusCode)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q", cc)
	}
	for _, want := range []string{
		`class="alert alert-success alert-dismissible fade show"`,
		`role="alert"`,
		`<b>Saved!</b>`,
		`data-bs-dismiss="alert"`,
		`data-alerts-stream="` + PathWS + `"`,
		`src="` + PathClient + `"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	m := seqAttr.FindStringSubmatch(page)
	if m == nil || m[1] != "1" {
		t.Errorf("page seq = %v, want 1", m)
	}
}

func TestPresentForm(t *testing.T) {
	env := newTestEnv(t, nil)

	form := url.Values{"kind": {"warning"}, "message": {"Disk almost full"}}
	resp, body := env.post(t, "application/x-www-form-urlencoded", form.Encode())
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}

	alerts := env.srv.Document().Snapshot().Children
	if len(alerts) != 1 {
		t.Fatalf("document has %d alerts, want 1", len(alerts))
	}
	if got := alerts[0].StringProp("class"); got != alert.ClassName(alert.KindWarning) {
		t.Errorf("class = %q", got)
	}
}

func TestPresentRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"malformed JSON", "application/json", `{"kind":`},
		{"unknown field", "application/json", `{"kind":"info","text":"hi"}`},
		{"unsupported type", "text/plain", "kind=info"},
	}

	env := newTestEnv(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.post(t, tt.contentType, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			var payload struct {
				Code string `json:"code"`
			}
			if err := json.Unmarshal([]byte(body), &payload); err != nil {
				t.Fatalf("decode error body %q: %v", body, err)
			}
			if payload.Code != "E303" {
				t.Errorf("code = %q, want E303", payload.Code)
			}
		})
	}
	if n := env.srv.Document().Len(); n != 0 {
		t.Errorf("rejected requests mounted %d alerts", n)
	}
}

func TestAlertLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t, nil)

	env.srv.Presenter().Info(context.Background(), "Heads up")
	if n := env.srv.Document().Len(); n != 1 {
		t.Fatalf("Len() = %d, want 1", n)
	}

	env.waitTimers(t, 1)
	env.clock.Advance(alert.DisplayDuration)
	env.waitTimers(t, 1)
	_, page := env.get(t, PathPage)
	if !strings.Contains(page, `class="alert alert-info alert-dismissible fade"`) {
		t.Errorf("hidden alert should drop the show class:\n%s", page)
	}

	env.clock.Advance(alert.FadeDuration)
	deadline := time.Now().Add(2 * time.Second)
	for env.srv.Document().Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("alert was not detached")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestThinClient(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.get(t, PathClient)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/javascript") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(body, "data-alerts-stream") {
		t.Error("client script body looks wrong")
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	req, _ := http.NewRequest(http.MethodGet, env.http.URL+PathClient, nil)
	req.Header.Set("If-None-Match", `W/`+etag)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotModified {
		t.Errorf("conditional status = %d, want 304", resp2.StatusCode)
	}
}

func TestEtagMatches(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{`"abc"`, true},
		{`"x", W/"abc"`, true},
		{"*", true},
		{`"abd"`, false},
	}
	for _, tt := range tests {
		if got := etagMatches(tt.header, `"abc"`); got != tt.want {
			t.Errorf("etagMatches(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, nil)
	env.srv.Presenter().Error(context.Background(), "boom")

	resp, body := env.get(t, PathHealthz)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got struct {
		Status  string `json:"status"`
		Alerts  int    `json:"alerts"`
		Streams int    `json:"streams"`
	}
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != "ok" || got.Alerts != 1 || got.Streams != 0 {
		t.Errorf("healthz = %+v", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	env.srv.Presenter().Success(context.Background(), "done")

	resp, body := env.get(t, config.DefaultMetricsPath)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{
		`alerts_presented_total{kind="success"} 1`,
		`alerts_active 1`,
		`go_goroutines`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.Metrics.Enabled = false })

	if env.srv.Metrics() != nil {
		t.Error("Metrics() should be nil when disabled")
	}
	resp, _ := env.get(t, config.DefaultMetricsPath)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv, err := New(config.New(), WithRegistry(reg))
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Hub().Close()

	srv.Presenter().Info(context.Background(), "hi")
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "go_") {
			t.Errorf("caller registry should not get runtime collectors, found %s", mf.GetName())
		}
	}
	if len(families) == 0 {
		t.Error("alert metrics were not registered")
	}
}

func TestServeShutdown(t *testing.T) {
	cfg := config.New()
	cfg.Server.ShutdownTimeout = "2s"
	srv, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + PathHealthz)
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	sub := srv.Hub().Subscribe("sse")
	select {
	case <-sub.Done():
	default:
		t.Error("hub should be closed after shutdown")
	}
}

func TestRunListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	cfg := config.New()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = ln.Addr().(*net.TCPAddr).Port
	srv, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	err = srv.Run(context.Background())
	if !errors.HasCode(err, "E301") {
		t.Fatalf("Run() = %v, want E301", err)
	}
}
