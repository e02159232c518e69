package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edatlas/edatlas/internal/errors"
	"github.com/edatlas/edatlas/internal/logger"
	"github.com/edatlas/edatlas/internal/models"
)

type mistakesResponse struct {
	Mistakes []models.Mistake `json:"mistakes"`
	Count    int              `json:"count"`
}

type reviewRequest struct {
	Result string `json:"result"`
}

func (s *Server) handleListMistakes(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	filter := models.MistakeFilter{SortBy: r.URL.Query().Get("sort")}
	if v := r.URL.Query().Get("difficulty"); v != "" && v != "all" {
		d, err := strconv.Atoi(v)
		if err != nil {
			log.Warn("invalid difficulty filter: %s", v)
			handleError(w, r, errors.NewBadRequestError("invalid difficulty"))
			return
		}
		filter.Difficulty = models.Difficulty(d)
	}

	mistakes, err := s.Store.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mistakesResponse{Mistakes: mistakes, Count: len(mistakes)})
}

func (s *Server) handleCreateMistake(w http.ResponseWriter, r *http.Request) {
	var in models.NewMistake
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	m, err := s.Store.AddMistake(r.Context(), in)
	if errors.HasCode(err, errors.ErrCodePersistence) {
		handleErrorWithMistake(w, r, err, m)
		return
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, m)
}

func (s *Server) handleGetMistake(w http.ResponseWriter, r *http.Request) {
	m, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, m)
}

func (s *Server) handleDeleteMistake(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.DeleteMistake(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearMistakes(w http.ResponseWriter, r *http.Request) {
	n, err := s.Store.Clear(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int{"deleted": n})
}

func (s *Server) handleReviewMistake(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log := logger.FromContext(r.Context()).WithField("mistake_id", id)

	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	result, err := models.ParseReviewResult(req.Result)
	if err != nil {
		log.Warn("invalid review result: %q", req.Result)
		handleError(w, r, errors.NewValidationError("result", "must be easy, medium, hard or failed"))
		return
	}

	m, err := s.Store.UpdateMistakeReview(r.Context(), id, result)
	if errors.HasCode(err, errors.ErrCodePersistence) {
		handleErrorWithMistake(w, r, err, m)
		return
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("mistake reviewed")
	writeJSON(w, r, http.StatusOK, m)
}

func (s *Server) handleDueForReview(w http.ResponseWriter, r *http.Request) {
	due := s.Store.DueForReview(r.Context())
	writeJSON(w, r, http.StatusOK, mistakesResponse{Mistakes: due, Count: len(due)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Store.Stats(r.Context()))
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	day := s.now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse(time.DateOnly, v)
		if err != nil {
			handleError(w, r, errors.NewBadRequestError("date must be YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	writeJSON(w, r, http.StatusOK, s.Store.CalendarDay(r.Context(), day))
}
