package errors

import (
	"errors"
	"fmt"
)

// AppError carries a business code through the layers up to the HTTP envelope
type AppError struct {
	Code    int
	Message string
	Err     error
	Details string
}

func (e *AppError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	case e.Details != "":
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError for code with an optional detail line
func New(code int, details ...string) *AppError {
	return &AppError{Code: code, Message: GetMessage(code), Details: first(details)}
}

// Wrap attaches code to err. An error chain that already holds an AppError
// keeps that error's code, so the innermost classification wins.
func Wrap(err error, code int, details ...string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		if d := first(details); d != "" {
			appErr.Details = d
		}
		return appErr
	}
	return &AppError{Code: code, Message: GetMessage(code), Err: err, Details: first(details)}
}

// As returns the first AppError in err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries the given business code
func Is(err error, code int) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// ExtractCode returns err's business code, ErrInternalServer for foreign errors
func ExtractCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ErrInternalServer
}

// GetDetails returns the detail line, falling back to the cause's message
func GetDetails(err error) string {
	if err == nil {
		return ""
	}
	appErr, ok := As(err)
	switch {
	case !ok:
		return err.Error()
	case appErr.Details != "":
		return appErr.Details
	case appErr.Err != nil:
		return appErr.Err.Error()
	}
	return ""
}

func first(details []string) string {
	if len(details) > 0 {
		return details[0]
	}
	return ""
}
