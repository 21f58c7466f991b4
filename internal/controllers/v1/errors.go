package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prospera-financas/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate HTTP status for an error.
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, models.ErrEmailNotUnique) ||
		errors.Is(err, models.ErrCategoryNameNotUnique) ||
		errors.Is(err, models.ErrCategoryInUse) ||
		errors.Is(err, models.ErrRulePaused) {
		return http.StatusConflict
	}

	if errors.Is(err, models.ErrCredentialsInvalid) {
		return http.StatusUnauthorized
	}

	return http.StatusBadRequest
}

// abortError answers the request with the error's message and status.
func abortError(c *gin.Context, err error) {
	c.JSON(status(err), httpError{Error: err.Error()})
}

var errNothingToUpdate = errors.New("the request contains no fields to update")
