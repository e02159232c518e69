package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/edatlas/edatlas/internal/errors"
	"github.com/edatlas/edatlas/internal/logger"
	"github.com/edatlas/edatlas/internal/services"
)

// Pinger reports whether the backing storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Store          *services.MistakeStore
	Storage        Pinger
	AllowedOrigins []string
	// Now is the clock used for defaults such as today's calendar day.
	Now func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

const maxBodyBytes = 16 << 20 // images travel inline

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Warn("failed to encode response: %v", err)
	}
}
