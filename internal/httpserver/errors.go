package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

// writeError maps service errors onto HTTP responses. Validation errors carry
// their user-facing message; anything unrecognised is a logged 500.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(validationStatus(verr), gin.H{
			"error": verr.Message,
			"kind":  verr.Kind,
			"field": verr.Field,
		})
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrRemote):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "The payment service is unavailable, please try again",
			"retryable": true,
		})
	default:
		if logger != nil {
			logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func validationStatus(err *domain.ValidationError) int {
	switch {
	case err.Kind == domain.KindNotPurchasable,
		errors.Is(err, domain.ErrSelectionRequired),
		errors.Is(err, domain.ErrVariantUnavailable),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrMissingPriceID),
		errors.Is(err, domain.ErrTotalOutOfRange),
		errors.Is(err, domain.ErrInvalidPromo):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
