package errors

import (
	stderrors "errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type ErrorType string

const (
	ErrTypeInvalidInput  ErrorType = "INVALID_INPUT"
	ErrTypeConfiguration ErrorType = "CONFIGURATION"
	ErrTypeNotFound      ErrorType = "NOT_FOUND"
	ErrTypeInternal      ErrorType = "INTERNAL"
)

type DomainError struct {
	Type    ErrorType
	Field   string
	Message string
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

func New(errType ErrorType, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		var stackErr *goerrors.Error
		if stderrors.As(err, &stackErr) {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

// InvalidField reports a structurally invalid record field.
func InvalidField(field, message string) *DomainError {
	e := New(ErrTypeInvalidInput, message, nil)
	e.Field = field
	return e
}

func InvalidInput(message string, err error) *DomainError {
	return New(ErrTypeInvalidInput, message, err)
}

func Configuration(message string, err error) *DomainError {
	return New(ErrTypeConfiguration, message, err)
}

func NotFound(message string, err error) *DomainError {
	return New(ErrTypeNotFound, message, err)
}

func Internal(message string, err error) *DomainError {
	return New(ErrTypeInternal, message, err)
}

// IsType reports whether any error in err's chain is a DomainError of the given type.
func IsType(err error, errType ErrorType) bool {
	var de *DomainError
	if !stderrors.As(err, &de) {
		return false
	}
	return de.Type == errType
}
