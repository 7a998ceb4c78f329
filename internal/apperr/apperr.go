// Package apperr defines the application error taxonomy shared by the
// domain model, the services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind groups error codes into the categories callers react to.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInvalidState Kind = "invalid_state"
	KindForbidden    Kind = "forbidden"
	KindUnauthorized Kind = "unauthorized"
	KindInternal     Kind = "internal"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeEntityNotFound     Code = "ENTITY_NOT_FOUND"
	CodeDuplicateEntity    Code = "DUPLICATE_ENTITY"
	CodeInvalidState       Code = "INVALID_STATE"
	CodeInternal           Code = "INTERNAL_ERROR"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeInvalidToken       Code = "INVALID_TOKEN"
	CodeItemNotAvailable   Code = "ITEM_NOT_AVAILABLE"
	CodeInvalidTradeStatus Code = "INVALID_TRADE_STATUS"
	CodeSelfTrade          Code = "SELF_TRADE_NOT_ALLOWED"
)

// Kind maps a code to its category.
func (c Code) Kind() Kind {
	switch c {
	case CodeInvalidInput:
		return KindInvalidInput
	case CodeEntityNotFound:
		return KindNotFound
	case CodeDuplicateEntity:
		return KindConflict
	case CodeInvalidState, CodeItemNotAvailable, CodeInvalidTradeStatus, CodeSelfTrade:
		return KindInvalidState
	case CodeForbidden:
		return KindForbidden
	case CodeUnauthorized, CodeInvalidToken:
		return KindUnauthorized
	default:
		return KindInternal
	}
}

// HTTPStatus maps a code to the response status used by the API.
func (c Code) HTTPStatus() int {
	switch c.Kind() {
	case KindInvalidInput, KindInvalidState:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is the domain error type.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error with the given code that wraps cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// NotFound reports a missing entity.
func NotFound(entity string, id any) *Error {
	return &Error{
		Code:     CodeEntityNotFound,
		Message:  fmt.Sprintf("%s not found with id: %v", entity, id),
		Metadata: map[string]string{"entity": entity, "id": fmt.Sprint(id)},
	}
}

// Duplicate reports a uniqueness violation.
func Duplicate(entity, field string, value any) *Error {
	return &Error{
		Code:     CodeDuplicateEntity,
		Message:  fmt.Sprintf("%s already exists with %s: %v", entity, field, value),
		Metadata: map[string]string{"entity": entity, "field": field},
	}
}

// Forbidden reports that the requester may not perform the operation.
func Forbidden(message string) *Error {
	return New(CodeForbidden, message)
}

// InvalidState reports a violated state precondition.
func InvalidState(message string) *Error {
	return New(CodeInvalidState, message)
}

// Transition reports a rejected state-machine transition, keeping the
// current and attempted status in the metadata.
func Transition(code Code, entity, current, attempted string) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf("cannot move %s from %s to %s", entity, current, attempted),
		Metadata: map[string]string{
			"entity":    entity,
			"current":   current,
			"attempted": attempted,
		},
	}
}

// SelfTrade reports a trade whose two items share an owner.
func SelfTrade() *Error {
	return New(CodeSelfTrade, "cannot trade with yourself")
}

// InvalidInput reports a malformed request.
func InvalidInput(message string, details map[string]string) *Error {
	return &Error{Code: CodeInvalidInput, Message: message, Metadata: details}
}

// GetCode extracts the code from err, or CodeInternal for foreign errors.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries code.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsKind reports whether err belongs to kind. Self-trade errors belong to
// the invalid-state family.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Code.Kind() == kind
}
