package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios. Messages are client-facing and
// therefore in Portuguese, matching the REST contract.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "Credenciais inválidas.")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "Registro não encontrado.")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "Acesso negado.")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "Acesso negado. Token não fornecido.")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "Registro duplicado.")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "Dados inválidos.")
	ErrTooManyRequests    = New("TOO_MANY_REQUESTS", http.StatusTooManyRequests, "Muitas tentativas. Tente novamente em instantes.")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "Erro interno do servidor.")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
