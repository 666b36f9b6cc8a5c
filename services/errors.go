package services

import (
	"errors"
	"fmt"
	"strings"

	"funding-application-api/models"
)

var (
	// ErrInvalidSectionType is wrapped by a *ValidationError when the section
	// type is not one of models.AllSectionTypes.
	ErrInvalidSectionType = errors.New("invalid section type")

	// ErrForbidden means the caller may not act on the requested user.
	ErrForbidden = errors.New("forbidden")
)

// FieldError describes one problem with one field of a request or section document.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidationError is returned before any write when input is rejected.
type ValidationError struct {
	Message string
	Fields  []FieldError
	cause   error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return e.cause }

func newInvalidSectionTypeError(raw string) *ValidationError {
	return &ValidationError{
		Message: "Invalid section type",
		Fields: []FieldError{{
			Field:   "sectionType",
			Message: fmt.Sprintf("%q is not a known section type", raw),
			Code:    "invalid_section_type",
		}},
		cause: ErrInvalidSectionType,
	}
}

// IncompleteApplicationError blocks a submission until every required
// section is completed.
type IncompleteApplicationError struct {
	Missing []models.SectionType
}

func (e *IncompleteApplicationError) Error() string {
	names := make([]string, len(e.Missing))
	for i, t := range e.Missing {
		names[i] = string(t)
	}
	return "application incomplete: missing " + strings.Join(names, ", ")
}

// StorageError wraps a persistence failure. Its detail is for logs only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
