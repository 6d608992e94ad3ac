package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/middleware"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/subtitle"
	"github.com/therealutkarshpriyadarshi/streamtv/pkg/models"
)

// toAPIError maps a service error onto its HTTP status and wire shape
func toAPIError(err error) (int, *models.APIError) {
	var apiErr *models.APIError
	switch {
	case errors.As(err, &apiErr):
		switch apiErr.Code {
		case models.ErrCodeContentNotFound:
			return http.StatusNotFound, apiErr
		case models.ErrCodeInvalidRequest, models.ErrCodeInvalidDataURL:
			return http.StatusBadRequest, apiErr
		case models.ErrCodeRateLimited:
			return http.StatusTooManyRequests, apiErr
		}
		return http.StatusInternalServerError, apiErr
	case errors.Is(err, subtitle.ErrInvalidDataURL):
		return http.StatusBadRequest, &models.APIError{Code: models.ErrCodeInvalidDataURL, Message: err.Error()}
	case errors.Is(err, subtitle.ErrURLNotAllowed):
		return http.StatusBadRequest, &models.APIError{Code: models.ErrCodeInvalidRequest, Message: err.Error()}
	case errors.Is(err, subtitle.ErrNetworkFailure):
		return http.StatusBadGateway, &models.APIError{Code: models.ErrCodeNetworkFailure, Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, &models.APIError{Code: models.ErrCodeInternal, Message: "request timed out"}
	case errors.Is(err, context.Canceled):
		// client closed request
		return 499, &models.APIError{Code: models.ErrCodeInternal, Message: "request cancelled"}
	}
	return http.StatusInternalServerError, &models.APIError{Code: models.ErrCodeInternal, Message: "internal server error"}
}

// respondError writes err as {"error": {"code", "message"}}
func (api *API) respondError(c *gin.Context, err error) {
	status, apiErr := toAPIError(err)
	if status >= http.StatusInternalServerError {
		api.logger.WithRequestID(middleware.GetRequestID(c)).
			WithField("status", status).
			WithField("path", c.FullPath()).
			ErrorWithErr("Request failed", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": apiErr})
}

func (api *API) badRequest(c *gin.Context, format string, args ...interface{}) {
	api.respondError(c, models.InvalidRequest(format, args...))
}
