package schema

import (
	"fmt"
	"strings"
)

// Machine-readable codes for schema construction errors.
const (
	CodeMissing      = "missing"
	CodeType         = "type"
	CodeFormat       = "format"
	CodeRef          = "ref"
	CodeBounds       = "bounds"
	CodePattern      = "pattern"
	CodeEnum         = "enum"
	CodeDefault      = "default"
	CodeExample      = "example"
	CodeItems        = "items"
	CodeProperties   = "properties"
	CodeRequired     = "required"
	CodeDependencies = "dependencies"
)

// FieldError is one construction-time violation, located by the path of
// the offending field (e.g. "properties.id.minimum").
type FieldError struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationError is the ordered list of every invariant a schema
// violated. Validation never stops at the first failure.
type ValidationError struct {
	Errors []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "schema validation failed"
	}
	msgs := make([]string, len(e.Errors))
	for i := range e.Errors {
		msgs[i] = e.Errors[i].Error()
	}
	return fmt.Sprintf("schema validation failed: %s", strings.Join(msgs, "; "))
}

// result accumulates field errors during validation.
type result struct {
	errs []FieldError
}

func (r *result) add(path, code, format string, args ...any) {
	r.errs = append(r.errs, FieldError{
		Path:    path,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

func (r *result) err() error {
	if len(r.errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: r.errs}
}

// joinPath appends a field name to a dotted path.
func joinPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}
