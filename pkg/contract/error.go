package contract

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorCode int

const (
	INTERNAL_ERROR ErrorCode = iota //nolint:revive,stylecheck
	BAD_REQUEST
	UNAUTHENTICATED
	PERMISSION_DENIED
	INVALID_PARAMETER_VALUE
	RESOURCE_DOES_NOT_EXIST
	RESOURCE_ALREADY_EXISTS
	ENDPOINT_NOT_FOUND
)

func (c ErrorCode) String() string {
	switch c {
	case INTERNAL_ERROR:
		return "INTERNAL_ERROR"
	case BAD_REQUEST:
		return "BAD_REQUEST"
	case UNAUTHENTICATED:
		return "UNAUTHENTICATED"
	case PERMISSION_DENIED:
		return "PERMISSION_DENIED"
	case INVALID_PARAMETER_VALUE:
		return "INVALID_PARAMETER_VALUE"
	case RESOURCE_DOES_NOT_EXIST:
		return "RESOURCE_DOES_NOT_EXIST"
	case RESOURCE_ALREADY_EXISTS:
		return "RESOURCE_ALREADY_EXISTS"
	case ENDPOINT_NOT_FOUND:
		return "ENDPOINT_NOT_FOUND"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(c))
	}
}

type Error struct {
	Code    ErrorCode
	Message string
	Inner   error
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func NewErrorWith(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Inner:   err,
	}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Inner != nil {
		return fmt.Sprintf("%s: %s", msg, e.Inner)
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Inner
}

// Validation failures, ownership failures and duplicates all share 403.
func (e *Error) StatusCode() int {
	switch e.Code {
	case BAD_REQUEST:
		return http.StatusBadRequest
	case UNAUTHENTICATED:
		return http.StatusUnauthorized
	case PERMISSION_DENIED, INVALID_PARAMETER_VALUE, RESOURCE_ALREADY_EXISTS:
		return http.StatusForbidden
	case RESOURCE_DOES_NOT_EXIST, ENDPOINT_NOT_FOUND:
		return http.StatusNotFound
	case INTERNAL_ERROR:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// MarshalJSON renders the client facing body, which only carries the message.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(Message{Message: e.Message})
}

// Message is the body of error responses and of the author deletion response.
type Message struct {
	Message string `json:"message"`
}
