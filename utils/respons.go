package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-orders/models"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondDomainError picks the status code for err. Errors the domain does
// not know are logged and answered with a generic message so storage detail
// never reaches the client.
func RespondDomainError(c *gin.Context, err error) {
	code, message := StatusForError(err)
	if code == http.StatusInternalServerError || code == http.StatusServiceUnavailable {
		LoggerFromContext(c.Request.Context()).WithError(err).Error("request failed")
	}
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: message,
	})
}

func StatusForError(err error) (int, string) {
	var (
		validationErr *models.ValidationError
		statusErr     *models.InvalidStatusError
		notFoundErr   *models.NotFoundError
		conflictErr   *models.ConflictError
		lookupErr     *models.LookupError
	)

	switch {
	case errors.As(err, &lookupErr):
		return http.StatusServiceUnavailable, "orders could not be retrieved (" + lookupErr.Path + " lookup failed)"
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.As(err, &statusErr):
		return http.StatusBadRequest, statusErr.Error()
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, notFoundErr.Error()
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.As(err, &conflictErr):
		return http.StatusConflict, conflictErr.Error()
	case errors.Is(err, models.ErrConcurrentModification):
		return http.StatusConflict, models.ErrConcurrentModification.Error()
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, models.ErrInvalidCredentials.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
