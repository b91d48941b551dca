package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"shimmer-hq/shimmer/pkg/config"
	"shimmer-hq/shimmer/pkg/shimmer/grammar"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name            string
		timeout         time.Duration
		expectedTimeout time.Duration
	}{
		{name: "default timeout", timeout: 0, expectedTimeout: 5 * time.Second},
		{name: "custom timeout", timeout: 10 * time.Second, expectedTimeout: 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(tt.timeout)
			if checker.checkTimeout != tt.expectedTimeout {
				t.Errorf("checkTimeout = %v, want %v", checker.checkTimeout, tt.expectedTimeout)
			}
		})
	}
}

func TestChecker_Registration(t *testing.T) {
	checker := New(time.Second)
	ok := func(context.Context) error { return nil }

	checker.RegisterCheck("b", ok)
	checker.RegisterCheck("a", ok)
	checker.RegisterCheck("a", ok)

	if diff := cmp.Diff([]string{"a", "b"}, checker.ListChecks()); diff != "" {
		t.Errorf("ListChecks() mismatch (-want +got):\n%s", diff)
	}
	if checker.GetCheck("a") == nil || checker.GetCheck("zz") != nil {
		t.Error("GetCheck() mismatch")
	}

	checker.UnregisterCheck("a")
	if checker.CheckCount() != 1 {
		t.Errorf("CheckCount() = %d", checker.CheckCount())
	}
}

func TestChecker_CheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
		wantChecks map[string]string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusReady,
			wantChecks: map[string]string{},
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"codec": CodecCheck(grammar.V1_0),
				"audit": func(context.Context) error { return nil },
			},
			wantStatus: StatusReady,
			wantChecks: map[string]string{"codec": StatusOK, "audit": StatusOK},
		},
		{
			name: "one failing",
			checks: map[string]CheckFunc{
				"codec": CodecCheck(grammar.V1_1),
				"audit": func(context.Context) error { return errors.New("database is locked") },
			},
			wantStatus: StatusDegraded,
			wantChecks: map[string]string{"codec": StatusOK, "audit": StatusUnhealthy},
		},
		{
			name: "timeout",
			checks: map[string]CheckFunc{
				"slow": func(ctx context.Context) error {
					<-ctx.Done()
					time.Sleep(10 * time.Millisecond)
					return nil
				},
			},
			wantStatus: StatusDegraded,
			wantChecks: map[string]string{"slow": StatusUnhealthy},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(20 * time.Millisecond)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())
			if status.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", status.Status, tt.wantStatus)
			}

			got := make(map[string]string, len(status.Checks))
			for name, result := range status.Checks {
				got[name] = result.Status
			}
			if diff := cmp.Diff(tt.wantChecks, got); diff != "" {
				t.Errorf("checks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHandlers(t *testing.T) {
	checker := New(time.Second)
	mux := http.NewServeMux()
	cfg := config.NewDefault().Telemetry.Health
	Mount(mux, cfg, checker, VersionInfo{Version: "1.2.3", Grammar: "1.0", Grammars: grammar.Versions()})

	tests := []struct {
		name       string
		method     string
		path       string
		failing    bool
		wantStatus int
	}{
		{name: "liveness", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "liveness head", method: http.MethodHead, path: "/health", wantStatus: http.StatusOK},
		{name: "liveness post", method: http.MethodPost, path: "/health", wantStatus: http.StatusMethodNotAllowed},
		{name: "ready", method: http.MethodGet, path: "/ready", wantStatus: http.StatusOK},
		{name: "not ready", method: http.MethodGet, path: "/ready", failing: true, wantStatus: http.StatusServiceUnavailable},
		{name: "version", method: http.MethodGet, path: "/version", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.failing {
				checker.RegisterCheck("broken", func(context.Context) error { return errors.New("down") })
				defer checker.UnregisterCheck("broken")
			}

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode version: %v", err)
	}
	if info.Version != "1.2.3" || info.GoVersion == "" || len(info.Grammars) != 2 {
		t.Errorf("version info = %+v", info)
	}
}

func TestMount_Disabled(t *testing.T) {
	mux := http.NewServeMux()
	cfg := config.NewDefault().Telemetry.Health
	cfg.Enabled = false
	Mount(mux, cfg, New(0), VersionInfo{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestPingCheck(t *testing.T) {
	if err := PingCheck(fakePinger{})(context.Background()); err != nil {
		t.Errorf("PingCheck() = %v", err)
	}
	want := errors.New("closed")
	if err := PingCheck(fakePinger{err: want})(context.Background()); !errors.Is(err, want) {
		t.Errorf("PingCheck() = %v, want %v", err, want)
	}
}
