package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure is an error that knows the HTTP status it should be answered with.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	ForbiddenError       = New(http.StatusForbidden, "You don't have the required permissions")
	VersionConflictError = New(http.StatusConflict, "document was modified by another request, reload and retry")
)

func New(code int, message string) *Failure {
	return &Failure{Code: code, Message: message}
}

func (e *Failure) Error() string {
	return e.Message
}

// BadRequest turns err into a 400. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return New(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

func BadRequestf(format string, args ...any) error {
	return New(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg)
}

// NotFound uses msg verbatim, so pass the full sentence ("room not found").
func NotFound(msg string) error {
	return New(http.StatusNotFound, msg)
}

func Conflict(msg string) error {
	return New(http.StatusConflict, msg)
}

func PayloadTooLarge(msg string) error {
	return New(http.StatusRequestEntityTooLarge, msg)
}

// GetCode digs a Failure out of err's chain. Anything else is a 500.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
