package api

import (
	"net/http"

	"github.com/edatlas/edatlas/internal/errors"
	"github.com/edatlas/edatlas/internal/logger"
	"github.com/edatlas/edatlas/internal/models"
)

type errorBody struct {
	Error errorDetail `json:"error"`
	// Mistake carries a change that was applied in memory but not saved.
	Mistake *models.Mistake `json:"mistake,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, err, nil)
}

// handleErrorWithMistake reports err along with the record it left in memory so
// the client keeps its id and does not repeat the request.
func handleErrorWithMistake(w http.ResponseWriter, r *http.Request, err error, m models.Mistake) {
	writeError(w, r, err, &m)
}

func writeError(w http.ResponseWriter, r *http.Request, err error, m *models.Mistake) {
	log := logger.FromContext(r.Context())

	appErr := errors.AsAppError(err)

	switch {
	case appErr.Status >= 500:
		log.Error("server error: %v", appErr)
	case appErr.Status >= 400:
		log.Warn("client error: %v", appErr)
	default:
		log.Debug("error: %v", appErr)
	}

	writeJSON(w, r, appErr.Status, errorBody{
		Error: errorDetail{
			Code:    appErr.Code,
			Message: appErr.Message,
		},
		Mistake: m,
	})
}
