package patient

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound    = errors.New("patient not found")
	ErrDuplicateID = errors.New("patient ID already exists")
	ErrNoFields    = errors.New("no fields to update")
)

// FieldError describes a single invalid field in a request payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"msg"`
}

// ValidationError carries field-level detail for a rejected payload
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
