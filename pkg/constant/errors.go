package constant

import "errors"

// Standard business errors. Handlers translate these into HTTP status codes.
var (
	// ErrNotFound maps to 404. Also returned for soft-deleted rows.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict maps to 409, typically a slug collision.
	ErrConflict = errors.New("resource conflict")

	// ErrValidation maps to 400 and carries a field-level message when wrapped.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized maps to 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken maps to 401 and forces a session teardown on the client.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrForbidden maps to 403.
	ErrForbidden = errors.New("forbidden")

	// ErrBadRequest maps to 400.
	ErrBadRequest = errors.New("bad request")

	// ErrInternalServer maps to 500.
	ErrInternalServer = errors.New("internal server error")

	// ErrInvalidStatus is returned when a status value is outside the
	// entity's closed status set.
	ErrInvalidStatus = errors.New("invalid status value")

	// ErrInvalidSlug is returned when a slug does not match the
	// lowercase-letters/digits/hyphens pattern.
	ErrInvalidSlug = errors.New("invalid slug format")

	// ErrCaptchaMismatch is returned when the login captcha answer is wrong.
	ErrCaptchaMismatch = errors.New("captcha verification failed")
)
