package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents the category of a configuration error
type ErrorCode int

const (
	// Core error types
	UnknownErrorCode ErrorCode = iota
	SyntaxErrorCode
	ValidationErrorCode
	RegistrationErrorCode

	// Resolution error types
	PathErrorCode
	BindingErrorCode
	MediaTypeErrorCode
	ConversionErrorCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case SyntaxErrorCode:
		return "SyntaxError"
	case ValidationErrorCode:
		return "ValidationError"
	case RegistrationErrorCode:
		return "RegistrationError"
	case PathErrorCode:
		return "PathError"
	case BindingErrorCode:
		return "BindingError"
	case MediaTypeErrorCode:
		return "MediaTypeError"
	case ConversionErrorCode:
		return "ConversionError"
	default:
		return "UnknownError"
	}
}

// ConfigError is a fatal configuration defect detected while resolving route
// definitions. Resolution never recovers from one; the application is
// expected to fail startup instead of serving an inconsistent route.
type ConfigError struct {
	Code    ErrorCode // category of error
	Element string    // annotated element the error refers to (controller, handler, argument)
	Message string    // error message
	Cause   error     // underlying error cause
	Hints   []string  // helpful suggestions for fixing the error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Code.String())
	if e.Element != "" {
		sb.WriteString(" in '")
		sb.WriteString(e.Element)
		sb.WriteString("'")
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// WithHints attaches fix suggestions to the error
func (e *ConfigError) WithHints(hints ...string) *ConfigError {
	e.Hints = append(e.Hints, hints...)
	return e
}

// WithElement records the annotated element the error refers to
func (e *ConfigError) WithElement(element string) *ConfigError {
	e.Element = element
	return e
}

// New creates a ConfigError with the given code and formatted message
func New(code ErrorCode, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a ConfigError around an underlying cause
func Wrap(code ErrorCode, cause error, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// NewSyntaxError reports a malformed annotation
func NewSyntaxError(format string, args ...interface{}) *ConfigError {
	return New(SyntaxErrorCode, format, args...)
}

// NewValidationError reports invalid or missing route metadata
func NewValidationError(format string, args ...interface{}) *ConfigError {
	return New(ValidationErrorCode, format, args...)
}

// NewRegistrationError reports a registry conflict or miss
func NewRegistrationError(format string, args ...interface{}) *ConfigError {
	return New(RegistrationErrorCode, format, args...)
}

// NewPathError reports an invalid path template
func NewPathError(format string, args ...interface{}) *ConfigError {
	return New(PathErrorCode, format, args...)
}

// NewBindingError reports an argument that cannot be bound to an HTTP input
func NewBindingError(format string, args ...interface{}) *ConfigError {
	return New(BindingErrorCode, format, args...)
}

// NewConversionError reports a value that cannot be converted to the bound type
func NewConversionError(format string, args ...interface{}) *ConfigError {
	return New(ConversionErrorCode, format, args...)
}
