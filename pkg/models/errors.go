package models

import "fmt"

// Error codes returned to API callers
const (
	ErrCodeContentNotFound = "CONTENT_NOT_FOUND"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeInvalidDataURL  = "INVALID_DATA_URL"
	ErrCodeNetworkFailure  = "NETWORK_FAILURE"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeInternal        = "INTERNAL"
)

// APIError is the structured failure returned by service operations
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any APIError with the same code, so wrapped per-request
// errors still satisfy errors.Is against the sentinels below.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinel errors
var (
	ErrContentNotFound = &APIError{Code: ErrCodeContentNotFound, Message: "content not found"}
	ErrInvalidRequest  = &APIError{Code: ErrCodeInvalidRequest, Message: "invalid request"}
)

// ContentNotFound builds a not-found error naming the missing id
func ContentNotFound(id int) *APIError {
	return &APIError{
		Code:    ErrCodeContentNotFound,
		Message: fmt.Sprintf("content with id %d not found", id),
	}
}

// InvalidRequest builds an invalid request error with a custom message
func InvalidRequest(format string, args ...interface{}) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidRequest,
		Message: fmt.Sprintf(format, args...),
	}
}
