package client

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError wraps transport failures: timeouts, refused connections,
// DNS errors. The request never produced an API response.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is an application-level failure: either a non-2xx HTTP status or
// a non-zero envelope code under HTTP 200.
type APIError struct {
	HTTPStatus int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (http %d, code %d): %s", e.HTTPStatus, e.Code, e.Message)
}

// ValidationError is an APIError the caller can fix by changing the input:
// bad fields, invalid slugs, slug collisions.
type ValidationError struct {
	APIError
}

// IsNotFound reports whether the error is the API's 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus == http.StatusNotFound
	}
	return false
}

// IsValidation reports whether the error is input-correctable.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsUnauthorized reports whether the session is missing or expired.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus == http.StatusUnauthorized
	}
	return false
}

// newAPIError classifies the failure, promoting input-shaped statuses to
// ValidationError.
func newAPIError(httpStatus, code int, message string) error {
	base := APIError{HTTPStatus: httpStatus, Code: code, Message: message}
	switch httpStatus {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return &ValidationError{APIError: base}
	}
	return &base
}
