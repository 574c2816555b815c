package interfaces

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	financeErrors "github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
)

// writeServiceError maps the service error taxonomy onto the HTTP contract:
// validation -> 400, ownership conflict on references -> 409, absent or
// foreign row -> 404, anything else -> 500 with the fallback message.
func writeServiceError(respondError func(w http.ResponseWriter, status int, message string), w http.ResponseWriter, err error, fallback string) {
	switch {
	case financeErrors.IsValidationError(err), financeErrors.IsValidationErrors(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case financeErrors.IsConflictError(err):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, financeErrors.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found")
	default:
		log.Errorf("%s: %v", fallback, err)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
