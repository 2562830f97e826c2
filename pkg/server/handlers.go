package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"mealkit-hq/backoffice/pkg/retention"
)

// errorResponse is the body of a failed manual sweep.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// scheduleResponse describes the nightly sweep.
type scheduleResponse struct {
	Enabled  bool                 `json:"enabled"`
	Running  bool                 `json:"running"`
	Schedule string               `json:"schedule,omitempty"`
	TimeZone string               `json:"timeZone"`
	NextRun  *time.Time           `json:"nextRun,omitempty"`
	LastRun  *retention.RunStatus `json:"lastRun,omitempty"`
}

// handleSweep runs a manual sweep. The sweep outlives a disconnecting
// client and is bounded by the retention timeout instead.
func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	if s.deps.Retention.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.deps.Retention.Timeout)
		defer cancel()
	}

	report, err := s.deps.Sweeper.RunManual(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	cfg := s.deps.Retention
	resp := scheduleResponse{
		Enabled:  cfg.Schedule != "",
		Schedule: cfg.Schedule,
		TimeZone: cfg.Location.String(),
	}

	if sched := s.deps.Scheduler; sched != nil {
		resp.Running = sched.IsRunning()
		resp.NextRun = sched.NextRun()
		resp.LastRun = sched.LastRun()
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
