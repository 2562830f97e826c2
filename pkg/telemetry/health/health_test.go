package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mealkit-hq/backoffice/pkg/orders/storage"
	"mealkit-hq/backoffice/pkg/retention"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{"default timeout", 0, 5 * time.Second},
		{"negative timeout", -time.Second, 5 * time.Second},
		{"custom timeout", 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.timeout).checkTimeout; got != tt.want {
				t.Errorf("checkTimeout = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckReadiness(t *testing.T) {
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
				"store":     func(context.Context) error { return nil },
				"scheduler": func(context.Context) error { return nil },
			},
			wantStatus: StatusReady,
			wantChecks: map[string]string{"store": StatusOK, "scheduler": StatusOK},
		},
		{
			name: "warning stays ready",
			checks: map[string]CheckFunc{
				"scheduler": func(context.Context) error { return Warn(errors.New("last run failed")) },
			},
			wantStatus: StatusReady,
			wantChecks: map[string]string{"scheduler": StatusWarning},
		},
		{
			name: "unhealthy degrades",
			checks: map[string]CheckFunc{
				"store":     func(context.Context) error { return errors.New("connection refused") },
				"scheduler": func(context.Context) error { return nil },
			},
			wantStatus: StatusDegraded,
			wantChecks: map[string]string{"store": StatusUnhealthy, "scheduler": StatusOK},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(time.Second)
			for name, check := range tt.checks {
				c.RegisterCheck(name, check)
			}

			got := c.CheckReadiness(context.Background())
			if got.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", got.Status, tt.wantStatus)
			}
			if len(got.Checks) != len(tt.wantChecks) {
				t.Fatalf("got %d check results, want %d", len(got.Checks), len(tt.wantChecks))
			}
			for name, want := range tt.wantChecks {
				if got.Checks[name].Status != want {
					t.Errorf("check %q status = %q, want %q", name, got.Checks[name].Status, want)
				}
			}
		})
	}
}

func TestCheckReadiness_Timeout(t *testing.T) {
	c := New(20 * time.Millisecond)
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })

	c.RegisterCheck("stuck", func(ctx context.Context) error {
		<-block
		return nil
	})

	got := c.CheckReadiness(context.Background())
	result := got.Checks["stuck"]
	if result.Status != StatusUnhealthy || result.Message != ErrCheckTimeout.Error() {
		t.Errorf("stuck check = %+v, want unhealthy timeout", result)
	}
}

func TestRegisterCheck_Replaces(t *testing.T) {
	c := New(time.Second)
	c.RegisterCheck("store", func(context.Context) error { return errors.New("old") })
	c.RegisterCheck("store", func(context.Context) error { return nil })
	c.RegisterCheck("scheduler", func(context.Context) error { return nil })

	if got := strings.Join(c.ListChecks(), ","); got != "scheduler,store" {
		t.Errorf("ListChecks() = %q", got)
	}
	if got := c.CheckReadiness(context.Background()); got.Status != StatusReady {
		t.Errorf("replaced check should be used, status = %q", got.Status)
	}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestStoreCheck(t *testing.T) {
	if err := StoreCheck(storage.NewMemoryStore())(context.Background()); err != nil {
		t.Fatalf("memory store check error = %v", err)
	}

	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })
	err := StoreCheck(down)(context.Background())
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("unreachable store check error = %v", err)
	}
}

type fakeScheduler struct {
	running bool
	last    *retention.RunStatus
}

func (f fakeScheduler) IsRunning() bool { return f.running }

func (f fakeScheduler) LastRun() *retention.RunStatus { return f.last }

func TestSchedulerCheck(t *testing.T) {
	started := time.Date(2025, 7, 25, 2, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		sched   fakeScheduler
		wantErr bool
		warning bool
	}{
		{"stopped", fakeScheduler{running: false}, true, false},
		{"running, never ran", fakeScheduler{running: true}, false, false},
		{
			name:  "last run succeeded",
			sched: fakeScheduler{running: true, last: &retention.RunStatus{StartedAt: started, Attempts: 1}},
		},
		{
			name: "last run failed",
			sched: fakeScheduler{running: true, last: &retention.RunStatus{
				StartedAt: started, Attempts: 4, Error: "commit aborted",
			}},
			wantErr: true,
			warning: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SchedulerCheck(tt.sched)(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			var warn *WarningError
			if got := errors.As(err, &warn); got != tt.warning {
				t.Errorf("warning = %v, want %v", got, tt.warning)
			}
		})
	}
}

func TestReadinessHandler(t *testing.T) {
	c := New(time.Second)
	c.RegisterCheck("store", func(context.Context) error { return errors.New("connection refused") })

	rec := httptest.NewRecorder()
	c.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status code = %d, want 503", rec.Code)
	}

	var body HealthStatus
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if body.Checks["store"].Message != "connection refused" {
		t.Errorf("store message = %q", body.Checks["store"].Message)
	}
}

func TestHandlers_Methods(t *testing.T) {
	c := New(time.Second)
	handlers := map[string]http.HandlerFunc{
		"liveness":  c.LivenessHandler(),
		"readiness": c.ReadinessHandler(),
		"version":   VersionHandler("1.0.0", "abc123", "2025-07-25"),
	}

	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("POST status = %d, want 405", rec.Code)
			}

			rec = httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/", nil))
			if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
				t.Errorf("HEAD status = %d, body %d bytes", rec.Code, rec.Body.Len())
			}
		})
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler("1.0.0", "abc123", "2025-07-25").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if info.Version != "1.0.0" || info.Commit != "abc123" || info.GoVersion == "" {
		t.Errorf("version info = %+v", info)
	}
}
