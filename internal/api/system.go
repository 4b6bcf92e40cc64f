package api

import (
	"net/http"
)

// HealthResponse reports service and database health.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// handleHealth reports liveness, verifying the database through the
// request's scoped session so the check exercises the same path handlers use.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := HealthResponse{
		Status:   "ok",
		Version:  s.version,
		Database: "ok",
	}

	sess, err := s.app.DB().Session(ctx)
	if err != nil {
		resp.Status = "degraded"
		resp.Database = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	var one int
	if err := sess.GetContext(ctx, &one, "SELECT 1"); err != nil {
		resp.Status = "degraded"
		resp.Database = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
