package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/microlearn/certificate-api/internal/domain/certificate"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HandleError maps domain errors to HTTP responses. Sentinel wrapping decides
// the status code; the response body carries the generic message, not the
// wrapped detail, so backend internals stay out of client responses.
func HandleError(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, certificate.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, certificate.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, certificate.ErrBackendUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, certificate.ErrGenerationFailed):
		status = http.StatusInternalServerError
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// HandleBindingError reports a malformed request body.
func HandleBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:   http.StatusText(http.StatusBadRequest),
		Message: err.Error(),
	})
}
