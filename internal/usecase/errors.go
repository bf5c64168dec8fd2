package usecase

import (
	"errors"
	"fmt"

	"material-market/pkg/utils"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")

	ErrNoFiles         = errors.New("no files uploaded")
	ErrTooManyFiles    = errors.New("too many files")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// ValidationError carries per-field messages. It matches ErrValidation.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", ErrValidation, utils.FormatValidationErrors(e.Fields))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalidFields(fields map[string]string) error {
	return &ValidationError{Message: utils.MsgValidationFailed, Fields: fields}
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// validate runs the struct tags and wraps any failure.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return invalidFields(errs)
	}
	return nil
}
