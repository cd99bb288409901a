package generator

import "fmt"

// Fixed message prefixes carried by GeneratorError. Callers and tests
// match on these, so they never change.
const (
	ErrMissingSchema           = "Missing schema specification"
	ErrUnsupportedType         = "Unsupported data type"
	ErrUnsupportedFormat       = "Unsupported data format"
	ErrUnsupportedStringFormat = "Unsupported string format"
	ErrInvalidPattern          = "Invalid regular expression pattern"
	ErrInvalidLength           = "Invalid length constraints"
	ErrInvalidBounds           = "Invalid numeric bounds"
	ErrInvalidMultipleOf       = "Invalid multipleOf value"
	ErrUnsupportedNumberFormat = "Unsupported number format"
	ErrInvalidItems            = "Invalid items specification"
	ErrInvalidArrayLength      = "Invalid array length constraints"
	ErrUniqueItems             = "Cannot generate unique items with given constraints"
	ErrInvalidProperties       = "Invalid properties specification"
	ErrRequiredField           = "Cannot generate required field"
	ErrInvalidDependency       = "Invalid property dependency"
	ErrInvalidPatternProperty  = "Invalid pattern property specification"
)

// GeneratorError is the runtime inability to produce a value for an
// otherwise valid schema. The message always begins with one of the fixed
// prefixes above; Detail adds context after it.
type GeneratorError struct {
	Prefix string
	Detail string
}

// Error implements the error interface.
func (e *GeneratorError) Error() string {
	if e.Detail == "" {
		return e.Prefix
	}
	return e.Prefix + ": " + e.Detail
}

// Is matches two GeneratorErrors by prefix, so errors.Is can be used with
// sentinel-style comparisons.
func (e *GeneratorError) Is(target error) bool {
	t, ok := target.(*GeneratorError)
	return ok && t.Prefix == e.Prefix
}

func genErr(prefix, format string, args ...any) *GeneratorError {
	return &GeneratorError{Prefix: prefix, Detail: fmt.Sprintf(format, args...)}
}
