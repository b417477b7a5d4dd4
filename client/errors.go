package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is the decoded error body of a non-2xx response.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("gmao: %d %s: %s (request_id=%s)", e.StatusCode, e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("gmao: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func statusIs(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// IsNotFound reports whether the equipment, group or intervention does not exist.
func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }

// IsConflict reports whether the entity already exists.
func IsConflict(err error) bool { return statusIs(err, http.StatusConflict) }

// IsValidation reports whether the server rejected the request as malformed
// or invalid.
func IsValidation(err error) bool { return statusIs(err, http.StatusBadRequest) }

// IsUpstreamFailure reports whether the server could not reach its backing
// store, or an enrichment pass failed as a whole (502).
func IsUpstreamFailure(err error) bool { return statusIs(err, http.StatusBadGateway) }

// IsRateLimited reports a 429.
func IsRateLimited(err error) bool { return statusIs(err, http.StatusTooManyRequests) }

// parseAPIError decodes a JSON error body, falling back to the raw text.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown"
		apiErr.Message = string(body)
	}
	return apiErr
}
