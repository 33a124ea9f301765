/*
Package errors defines the application-layer error taxonomy.

Design:
 1. Standard library errors only; no third-party dependency here.
 2. Application error codes are for cross-layer communication and carry
    no HTTP concept.
 3. HTTP status mapping lives in api/response, not here.
 4. errors.Is() drives every domain-error classification below; no
    string matching.
 5. Stack traces are captured by the domain/journal errors themselves
    (or by the logging layer on the way out); this package does not
    capture one of its own.

Error flow:

	domain/journal error
	     v errors.Is()
	AppError (this package)
	     v API layer mapping
	HTTP response
*/
package errors

import (
	"errors"
	"fmt"

	"ordercore/domain/order"
	"ordercore/journal"
)

// ErrorCode classifies an AppError for cross-layer dispatch.
type ErrorCode string

const (
	CodeInternal   ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest ErrorCode = "BAD_REQUEST"
	CodeValidation ErrorCode = "VALIDATION_ERROR"

	// Order lifecycle errors, one per sentinel in domain/order.
	CodeCartEmpty          ErrorCode = "CART_EMPTY"
	CodeInvalidPostalCode  ErrorCode = "INVALID_POSTAL_CODE"
	CodeInvalidState       ErrorCode = "INVALID_STATE"
	CodeAddressOnEmpty     ErrorCode = "ADDRESS_ON_EMPTY"
	CodeNotReady           ErrorCode = "NOT_READY"
	CodeOrderCompleted     ErrorCode = "ORDER_COMPLETED"
	CodeEventNotApplicable ErrorCode = "EVENT_NOT_APPLICABLE"

	// Journal errors, one per sentinel in the journal package.
	CodeJournalWrite       ErrorCode = "JOURNAL_WRITE_FAILURE"
	CodeJournalRead        ErrorCode = "JOURNAL_READ_FAILURE"
	CodeDuplicateSequence  ErrorCode = "DUPLICATE_SEQUENCE"
	CodeSerialization      ErrorCode = "SERIALIZATION_FAILURE"
	CodeDeserialization    ErrorCode = "DESERIALIZATION_FAILURE"
)

// AppError is the application-layer error. It intentionally carries no
// stack of its own: the wrapped domain/journal error already captured
// one, and FromDomainError below preserves it via Unwrap.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError with no wrapped cause.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap creates an AppError that preserves err in its chain.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: fmt.Errorf("%s: %w", message, err)}
}

func BadRequest(message string) *AppError { return New(CodeBadRequest, message) }
func Internal(message string) *AppError   { return New(CodeInternal, message) }
func Validation(message string) *AppError { return New(CodeValidation, message) }

// Is reports whether err is an AppError carrying code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// AsAppError returns err as an AppError, wrapping it as an internal
// error if it is not already one.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeInternal, "internal server error")
}

// FromDomainError maps an error returned by the aggregate or the
// journal into an AppError. This is the only place that knows about
// both domain/order's and journal's sentinel errors.
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, order.ErrCartEmpty):
		return &AppError{Code: CodeCartEmpty, Message: err.Error(), Err: err}
	case errors.Is(err, order.ErrInvalidPostalCode):
		return &AppError{Code: CodeInvalidPostalCode, Message: err.Error(), Err: err}
	case errors.Is(err, order.ErrInvalidState):
		return &AppError{Code: CodeInvalidState, Message: err.Error(), Err: err}
	case errors.Is(err, order.ErrAddressOnEmpty):
		return &AppError{Code: CodeAddressOnEmpty, Message: err.Error(), Err: err}
	case errors.Is(err, order.ErrNotReady):
		return &AppError{Code: CodeNotReady, Message: err.Error(), Err: err}
	case errors.Is(err, order.ErrOrderCompleted):
		return &AppError{Code: CodeOrderCompleted, Message: err.Error(), Err: err}
	case errors.Is(err, order.ErrEventNotApplicable):
		return &AppError{Code: CodeEventNotApplicable, Message: err.Error(), Err: err}

	case errors.Is(err, journal.ErrJournalWrite):
		return &AppError{Code: CodeJournalWrite, Message: "order could not be saved", Err: err}
	case errors.Is(err, journal.ErrJournalRead):
		return &AppError{Code: CodeJournalRead, Message: "order could not be loaded", Err: err}
	case errors.Is(err, journal.ErrDuplicateSequence):
		return &AppError{Code: CodeDuplicateSequence, Message: "order was modified concurrently, please retry", Err: err}
	case errors.Is(err, journal.ErrSerialization):
		return &AppError{Code: CodeSerialization, Message: "order could not be saved", Err: err}
	case errors.Is(err, journal.ErrDeserialization):
		return &AppError{Code: CodeDeserialization, Message: "order could not be loaded", Err: err}

	default:
		return &AppError{Code: CodeInternal, Message: "internal server error", Err: err}
	}
}
