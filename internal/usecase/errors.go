package usecase

import (
	"errors"
	"fmt"
)

// Códigos de erro expostos aos chamadores.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeStorage    = "STORAGE_ERROR"
	CodeTransport  = "TRANSPORT_ERROR"
	CodeGeneration = "GENERATION_ERROR"
)

// DomainError is the caller's fault: bad input or a missing record. It never
// has side effects.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps an infrastructure failure (store, transport, LLM).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode returns the code carried by a DomainError or TechnicalError, or
// "" for anything else.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

func NewValidationError(msg string) error {
	return &DomainError{Code: CodeValidation, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &DomainError{Code: CodeNotFound, Message: msg}
}

func NewStorageError(msg string, err error) error {
	return &TechnicalError{Code: CodeStorage, Message: msg, Err: err}
}

func NewTransportError(msg string, err error) error {
	return &TechnicalError{Code: CodeTransport, Message: msg, Err: err}
}

func NewGenerationError(msg string, err error) error {
	return &TechnicalError{Code: CodeGeneration, Message: msg, Err: err}
}
