package route

import (
	"fmt"
	"reflect"
)

// ParameterKind says which HTTP input a method parameter is bound to
type ParameterKind int

const (
	PathKind ParameterKind = iota
	QueryKind
	FormKind
	CookieKind
	HeaderKind
	ContextKind
	BodyKind
)

// String returns the string representation of the parameter kind
func (k ParameterKind) String() string {
	switch k {
	case PathKind:
		return "path"
	case QueryKind:
		return "query"
	case FormKind:
		return "form"
	case CookieKind:
		return "cookie"
	case HeaderKind:
		return "header"
	case ContextKind:
		return "context"
	case BodyKind:
		return "body"
	default:
		return "unknown"
	}
}

// MethodParameter represents one bound input of a handler method.
//
// Path parameters are created when the path template is parsed, before the
// handler is known; their DataType stays nil until the handler signature is
// scanned. All other kinds are created during signature scanning with both
// fields set.
type MethodParameter struct {
	Name         string
	Kind         ParameterKind
	DataType     reflect.Type // nil until the argument is matched
	DefaultValue string
	HasDefault   bool
	Index        int  // position in the handler signature
	IsRegEx      bool // path segment carried a regex constraint
	Regex        string
}

// Bound reports whether the parameter has been matched to a handler argument
func (p *MethodParameter) Bound() bool {
	return p.DataType != nil
}

func (p *MethodParameter) setDefault(value string) {
	p.DefaultValue = value
	p.HasDefault = true
}

func (p *MethodParameter) bind(dataType reflect.Type, index int) {
	p.DataType = dataType
	p.Index = index
}

// String returns a compact rendering for diagnostics
func (p *MethodParameter) String() string {
	typeName := "?"
	if p.DataType != nil {
		typeName = p.DataType.String()
	}
	return fmt.Sprintf("%s{%s %s @%d}", p.Kind, p.Name, typeName, p.Index)
}
