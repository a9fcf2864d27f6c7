package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an error independently of the HTTP status it is reported with.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuth
	KindAuthz
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindAuthz:
		return "authz"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
//
// Detail is for logs only and is never written to the client.
type ErrorWithStatusCode struct {
	Kind       Kind
	Message    string
	StatusCode int
	Detail     string
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func Validation(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Kind: KindValidation, Message: message, StatusCode: http.StatusBadRequest}
}

func NotFound(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Kind: KindNotFound, Message: message, StatusCode: http.StatusNotFound}
}

// InvalidCode is a missing, consumed or mismatched verification code or OTP.
// It is a not-found condition reported as 400.
func InvalidCode(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Kind: KindNotFound, Message: message, StatusCode: http.StatusBadRequest}
}

func Conflict(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Kind: KindConflict, Message: message, StatusCode: http.StatusConflict}
}

func Auth(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Kind: KindAuth, Message: message, StatusCode: http.StatusUnauthorized}
}

// Unauthorized is the single error returned for every failed token check.
// The reason goes into Detail so callers can log it.
func Unauthorized(detail string) *ErrorWithStatusCode {
	e := Auth("Not authorized")
	e.Detail = detail
	return e
}

func Forbidden(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Kind: KindAuthz, Message: message, StatusCode: http.StatusForbidden}
}

func Upstream(detail string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Kind: KindUpstream, Message: "Internal server error", StatusCode: http.StatusInternalServerError, Detail: detail}
}

// KindOf returns the kind of err, or KindInternal for untagged errors.
func KindOf(err error) Kind {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

func IsConflict(err error) bool {
	return IsKind(err, KindConflict)
}

// As and Is mirror the standard library so callers need only one errors import.
func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func New(text string) error {
	return errors.New(text)
}
