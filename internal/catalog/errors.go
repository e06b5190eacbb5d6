package catalog

import (
	"errors"
	"strings"
)

var (
	// ErrPizzaNotFound is returned when no pizza has the requested id.
	ErrPizzaNotFound = errors.New("pizza not found")
	// ErrCommentNotFound is returned when no comment has the requested id.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
)

// FieldError names one invalid field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid field of one document.
type ValidationError struct {
	Resource string
	Fields   []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.Resource + " validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
