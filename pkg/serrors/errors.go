package serrors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindNotFound
	KindInvalidState
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindValidation:
		return "validation"
	default:
		return "unexpected"
	}
}

// BaseError is a client-visible error with a stable machine-readable code.
type BaseError struct {
	Code      string
	Message   string
	LocaleKey string
	kind      Kind
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{Code: code, Message: message, LocaleKey: localeKey, kind: KindUnexpected}
}

func NewNotFound(code, message, localeKey string) *BaseError {
	return &BaseError{Code: code, Message: message, LocaleKey: localeKey, kind: KindNotFound}
}

func NewInvalidState(code, message, localeKey string) *BaseError {
	return &BaseError{Code: code, Message: message, LocaleKey: localeKey, kind: KindInvalidState}
}

func (e *BaseError) Error() string {
	return e.Message
}

func (e *BaseError) Kind() Kind {
	return e.kind
}

// Is matches any BaseError carrying the same code.
func (e *BaseError) Is(target error) bool {
	var t *BaseError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// KindOf reports the taxonomy bucket of err. Errors that are not BaseError or
// ValidationErrors are unexpected.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnexpected
	}
	var vErrs ValidationErrors
	if errors.As(err, &vErrs) {
		return KindValidation
	}
	var base *BaseError
	if errors.As(err, &base) {
		return base.kind
	}
	return KindUnexpected
}

func CodeOf(err error) string {
	var base *BaseError
	if errors.As(err, &base) {
		return base.Code
	}
	return "INTERNAL"
}

// HTTPStatus maps err to the status code the API layer answers with.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusConflict
	case KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
