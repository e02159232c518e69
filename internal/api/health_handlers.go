package api

import (
	"net/http"

	"github.com/edatlas/edatlas/internal/logger"
)

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports 503 when the storage backend does not answer or the
// last write of the collection is still pending.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if s.Storage != nil {
		if err := s.Storage.Ping(r.Context()); err != nil {
			log.Warn("readiness check failed - storage: %v", err)
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "storage unavailable"})
			return
		}
	}
	if s.Store != nil && s.Store.Pending() {
		log.Warn("readiness check failed - unsaved changes pending")
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "changes pending"})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}
