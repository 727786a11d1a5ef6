package http

import (
	"errors"
	"net/http"

	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseError is the single error envelope every endpoint returns.
// Code is machine-oriented (snake_case), Message is for humans.
type BaseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func newError(code, msg string) BaseError {
	return BaseError{Code: code, Message: msg}
}

// writeServiceError translates service sentinels to HTTP statuses.
// Anything unrecognized is logged and reported as a 500.
func writeServiceError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, newError("validation_error", err.Error()))
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, newError("unauthorized", err.Error()))
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, newError("forbidden", err.Error()))
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrCartLineNotFound),
		errors.Is(err, service.ErrNotificationNotFound),
		errors.Is(err, service.ErrImageNotFound):
		c.JSON(http.StatusNotFound, newError("not_found", err.Error()))
	case errors.Is(err, service.ErrItemReferenced):
		c.JSON(http.StatusConflict, newError("conflict", err.Error()))
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrOutOfStock):
		c.JSON(http.StatusConflict, newError("stock_conflict", err.Error()))
	case errors.Is(err, service.ErrCheckoutFailed):
		c.JSON(http.StatusInternalServerError, newError("checkout_failed", "checkout could not be completed"))
	default:
		log.Error("unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, newError("internal_error", "internal server error"))
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, newError("validation_error", msg))
}

type listResponse struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
}
