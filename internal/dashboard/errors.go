package dashboard

import (
	"net/http"

	"github.com/go-chi/render"
)

// APIError is the JSON body of every failed API request.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// FieldError names one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func errInvalidRange(details []FieldError) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  "INVALID_RANGE",
		Message:    "year range is invalid",
		Details:    details,
	}
}

func errRateLimited() *APIError {
	return &APIError{
		StatusCode: http.StatusTooManyRequests,
		ErrorCode:  "RATE_LIMITED",
		Message:    "rate limit exceeded, retry shortly",
	}
}

func errUnavailable(msg string) *APIError {
	return &APIError{
		StatusCode: http.StatusServiceUnavailable,
		ErrorCode:  "DATA_UNAVAILABLE",
		Message:    msg,
	}
}
