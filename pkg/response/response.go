package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/pkg/constant"
)

// CodeOK is the envelope code for a successful response. Any other code is
// an application-level failure, even under HTTP 200.
const CodeOK = 0

// Response is the uniform API envelope.
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// Success writes a 200 response with envelope code 0.
func Success(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{
		Code:      CodeOK,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}

// SuccessWithStatus writes a success envelope with a custom HTTP status,
// e.g. 201 Created.
func SuccessWithStatus(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Response{
		Code:      CodeOK,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}

// Fail writes a failure envelope. The envelope code mirrors the HTTP status
// so clients can key error handling off either.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Code:      status,
		Message:   message,
		Data:      nil,
		Timestamp: time.Now().UnixMilli(),
	})
}

// FailWithError translates a business error into the matching HTTP status.
// The error's own message is used so field-level validation detail reaches
// the caller.
func FailWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, constant.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, constant.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, constant.ErrValidation),
		errors.Is(err, constant.ErrBadRequest),
		errors.Is(err, constant.ErrInvalidSlug),
		errors.Is(err, constant.ErrInvalidStatus),
		errors.Is(err, constant.ErrCaptchaMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, constant.ErrUnauthorized), errors.Is(err, constant.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, constant.ErrForbidden):
		status = http.StatusForbidden
	}
	Fail(c, status, err.Error())
}
