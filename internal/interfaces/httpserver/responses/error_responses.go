package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatlist-server/internal/infrastructure/logger"
	"chatlist-server/internal/utils/platformerrors"
)

// ErrorResponse is the envelope every failed request returns. Per-model
// dispatch failures are never reported through it; those travel as
// outcome data. This covers request-level failures only: validation,
// missing records, storage faults, and unusable enhancement models.
type ErrorResponse struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Code      string `json:"code"` // stable UUID identifying the failure site
	RequestID string `json:"request_id,omitempty"`
}

// HandleError maps a service error to its HTTP status and envelope.
// Non-platform errors are treated as internal faults; the fallback
// message is used when the error carries none. Server-side failures
// (5xx) are logged with their full structure, client errors are not.
func HandleError(c *gin.Context, err error, fallback string) {
	var perr *platformerrors.PlatformError
	if !errors.As(err, &perr) {
		perr = platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler,
			platformerrors.ErrorTypeInternal, fallback, err, "")
	}

	message := perr.Message
	if message == "" {
		message = fallback
	}

	status := platformerrors.ErrorTypeToHTTPStatus(perr.GetErrorType())
	if status >= http.StatusInternalServerError {
		platformerrors.LogError(logger.GetLogger(), perr)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Type:      string(perr.GetErrorType()),
		Message:   message,
		Code:      perr.GetUUID(),
		RequestID: perr.GetRequestID(),
	})
}

// HandleNewError builds a typed error at the route layer and replies
// with it. Used for binding and path-parameter failures that never
// reach a service.
func HandleNewError(c *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	perr := platformerrors.NewError(c.Request.Context(), platformerrors.LayerRoute, errorType, message, nil, uuid)

	c.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(errorType), ErrorResponse{
		Type:      string(errorType),
		Message:   message,
		Code:      perr.GetUUID(),
		RequestID: perr.GetRequestID(),
	})
}
