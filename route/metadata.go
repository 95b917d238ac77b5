package route

import (
	"reflect"

	"github.com/restbind/restbind/annotations"
	"github.com/restbind/restbind/internal/errors"
)

// ControllerMeta describes one annotated handler container: its own
// annotations, the containers it inherits from, and its handler methods.
// It is the structured equivalent of a class with annotations.
type ControllerMeta struct {
	Name        string
	Annotations []annotations.Annotation
	Inherits    []*ControllerMeta
	Handlers    []*HandlerMeta
}

// HandlerMeta describes one handler method: its annotations, its arguments
// in signature order, and optionally the function to invoke.
type HandlerMeta struct {
	Name        string
	Annotations []annotations.Annotation
	Args        []ArgMeta
	Func        reflect.Value // zero Value when the handler is metadata-only
}

// ArgMeta describes one handler argument
type ArgMeta struct {
	Name        string
	Type        reflect.Type
	Annotations []annotations.Annotation
}

// Arg builds an ArgMeta for a value of the same type as prototype.
func Arg(name string, prototype any, anns ...annotations.Annotation) ArgMeta {
	return ArgMeta{Name: name, Type: reflect.TypeOf(prototype), Annotations: anns}
}

// ArgOf builds an ArgMeta with an explicit reflect.Type.
func ArgOf(name string, t reflect.Type, anns ...annotations.Annotation) ArgMeta {
	return ArgMeta{Name: name, Type: t, Annotations: anns}
}

// Handler builds a HandlerMeta around fn. The doc string is scanned for
// //rest:: annotation lines; args describe the function's parameters in
// signature order.
func Handler(name string, fn any, doc string, args ...ArgMeta) (*HandlerMeta, error) {
	anns, err := annotations.ParseComment(doc)
	if err != nil {
		return nil, err
	}
	h := &HandlerMeta{Name: name, Annotations: anns, Args: args}
	if fn != nil {
		h.Func = reflect.ValueOf(fn)
		if h.Func.Kind() != reflect.Func {
			return nil, errors.NewValidationError("handler %q is not a function", name)
		}
	}
	return h, nil
}

// Controller builds a ControllerMeta whose doc string is scanned for
// //rest:: annotation lines.
func Controller(name, doc string, handlers ...*HandlerMeta) (*ControllerMeta, error) {
	anns, err := annotations.ParseComment(doc)
	if err != nil {
		return nil, err
	}
	return &ControllerMeta{Name: name, Annotations: anns, Handlers: handlers}, nil
}

// hasPathAnnotation reports whether the controller itself carries a Path
// annotation
func (c *ControllerMeta) hasPathAnnotation() bool {
	for _, ann := range c.Annotations {
		if _, ok := ann.(annotations.Path); ok {
			return true
		}
	}
	return false
}

// withPathAnnotation finds the nearest controller in the inheritance chain
// carrying a Path annotation, breadth first starting from c itself.
// Returns nil when none does.
func (c *ControllerMeta) withPathAnnotation() *ControllerMeta {
	queue := []*ControllerMeta{c}
	visited := map[*ControllerMeta]bool{}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		if current.hasPathAnnotation() {
			return current
		}
		queue = append(queue, current.Inherits...)
	}
	return nil
}

// validateFunc checks that the handler function arity matches the declared
// arguments and that each declared type matches the signature.
func (h *HandlerMeta) validateFunc() error {
	if !h.Func.IsValid() {
		return nil
	}
	ft := h.Func.Type()
	if ft.NumIn() != len(h.Args) {
		return errors.NewValidationError("handler %q declares %d arguments but its function takes %d",
			h.Name, len(h.Args), ft.NumIn())
	}
	for i, arg := range h.Args {
		if arg.Type == nil {
			return errors.NewValidationError("handler %q argument %q has no type", h.Name, arg.Name)
		}
		if in := ft.In(i); in != arg.Type {
			return errors.NewValidationError("handler %q argument %q declared as %s but function takes %s",
				h.Name, arg.Name, arg.Type, in)
		}
	}
	if ft.NumOut() > 2 {
		return errors.NewValidationError("handler %q returns %d values, at most (result, error) is supported",
			h.Name, ft.NumOut())
	}
	return nil
}
