package failure

import (
	"errors"
	"net/http"
)

// Failure is an error that carries the HTTP status it should be answered with.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	InvalidTimeRange = &Failure{Code: http.StatusBadRequest, Message: "end time must be after start time"}
	ForbiddenError   = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
)

func (e *Failure) Error() string {
	return e.Message
}

// New returns a Failure with the given status and message.
func New(code int, msg string) error {
	return &Failure{Code: code, Message: msg}
}

// BadRequest turns err into a 400 failure. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return New(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg)
}

func NotFound(msg string) error {
	return New(http.StatusNotFound, msg)
}

// Conflict reports a request that clashes with the current state, such as an
// overlapping window or a forbidden status transition.
func Conflict(msg string) error {
	return New(http.StatusConflict, msg)
}

// Is reports whether err carries the given HTTP code.
func Is(err error, code int) bool {
	var fail *Failure

	return errors.As(err, &fail) && fail.Code == code
}

// GetCode returns the status carried by err, or 500 for any other error.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
