package server

import (
	"bytes"
	"errors"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// bodyValidator validates request bodies against an operation's
// self-contained schema document. Compilation is deferred to the first
// request and done once.
type bodyValidator struct {
	raw []byte

	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

func newBodyValidator(raw []byte) *bodyValidator {
	if len(raw) == 0 {
		return nil
	}
	return &bodyValidator{raw: raw}
}

// validate checks a decoded JSON value. It returns the individual
// failures, or an error when the schema itself would not compile.
func (v *bodyValidator) validate(value any) ([]FieldProblem, error) {
	v.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("request.json", bytes.NewReader(v.raw)); err != nil {
			v.err = err
			return
		}
		v.schema, v.err = compiler.Compile("request.json")
	})
	if v.err != nil {
		return nil, v.err
	}

	err := v.schema.Validate(value)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		var problems []FieldProblem
		collectProblems(ve, &problems)
		return problems, nil
	}
	return []FieldProblem{{Message: err.Error()}}, nil
}

// collectProblems flattens the cause tree into leaf failures.
func collectProblems(err *jsonschema.ValidationError, out *[]FieldProblem) {
	if len(err.Causes) == 0 {
		*out = append(*out, FieldProblem{
			Field:   fieldFromPointer(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectProblems(cause, out)
	}
}

// fieldFromPointer converts a JSON Pointer location to dot notation.
func fieldFromPointer(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	return strings.ReplaceAll(ptr, "/", ".")
}
