package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/pkg/response"
)

// writeDomainError maps the domain error taxonomy onto HTTP statuses.
// Stock errors carry their structured breakdown in the response details.
func writeDomainError(w http.ResponseWriter, err error) {
	var batch *models.InsufficientStockBatchError
	if errors.As(err, &batch) {
		response.ErrorWithDetails(w, http.StatusConflict, "insufficient stock", batch.Items)
		return
	}

	var single *models.InsufficientStockError
	if errors.As(err, &single) {
		response.ErrorWithDetails(w, http.StatusConflict, "insufficient stock",
			[]models.InsufficientStockError{*single})
		return
	}

	var partial *models.PartialCommitFailureError
	if errors.As(err, &partial) {
		response.ErrorWithDetails(w, http.StatusConflict, "approval aborted mid-commit", map[string]interface{}{
			"failedProductId": partial.FailedProductID,
			"released":        partial.Released,
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, models.ErrInvalidTransition):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrInvalidArgument):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrPermissionDenied):
		response.Forbidden(w)
	default:
		response.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// urlID reads the {id} route parameter.
func urlID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// pageParams reads ?page= and ?limit= with defaults.
func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 15
	}
	return
}
