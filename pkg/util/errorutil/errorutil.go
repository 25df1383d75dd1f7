package errorutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried by DomainError.
const (
	CodeValidation  = "VALIDATION_FAILED"
	CodeBadRequest  = "BAD_REQUEST"
	CodePersistence = "PERSISTENCE_FAILED"
	CodeInternal    = "INTERNAL_ERROR"
)

// Messages rendered to API callers.
const (
	MessageInvalidType    = "Invalid or missing ticket type"
	MessageInvalidBody    = "Invalid request body"
	MessageInternalServer = "Internal server error"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    string
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details string) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationError reports a submission rejected before any side effect.
func NewValidationError(message string) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, "")
}

func NewBadRequest(message string) error {
	return NewDomainError(CodeBadRequest, message, http.StatusBadRequest, "")
}

// NewPersistenceError reports a failed row append; the ticket was not created.
func NewPersistenceError(err error) error {
	return &DomainError{
		Code:       CodePersistence,
		Message:    MessageInternalServer,
		HTTPStatus: http.StatusInternalServerError,
		Details:    detailsOf(err),
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    MessageInternalServer,
		HTTPStatus: http.StatusInternalServerError,
		Details:    detailsOf(err),
		Err:        err,
	}
}

// IsPersistence reports whether err is a row-store failure.
func IsPersistence(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == CodePersistence
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &DomainError{
			Code:       CodeInternal,
			Message:    MessageInternalServer,
			HTTPStatus: http.StatusInternalServerError,
			Details:    "request timed out",
			Err:        err,
		}
	}
	return NewInternalError(err).(*DomainError)
}

func detailsOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
