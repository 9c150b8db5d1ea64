package handler

import (
	"errors"
	"net/http"

	"retailpos/internal/auth"
	"retailpos/internal/service"
	"retailpos/internal/store"
	"retailpos/pkg/response"

	"github.com/gin-gonic/gin"
)

// statusFor maps data-layer and service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotAuthenticated), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, store.ErrNotFound), errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientStock), errors.Is(err, service.ErrStockNotApplied):
		return http.StatusConflict
	case errors.Is(err, store.ErrConstraint):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrEngineUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	c.JSON(status, response.Error(status, err.Error()))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}
