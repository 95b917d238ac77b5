package route

import (
	"sort"

	"github.com/restbind/restbind/internal/errors"
)

// Resolve walks a controller's metadata and produces one validated
// RouteDefinition per handler: the controller's annotations form the
// class-level base, each handler's annotations specialize it, and the
// handler's arguments are bound against the route's parameters.
//
// Resolution is a one-time startup pass; any violation aborts with a
// configuration error. The returned definitions are sorted by order, then
// path, then verb, and are read-only from here on.
func Resolve(meta *ControllerMeta) ([]*RouteDefinition, error) {
	base, err := NewClassDefinition(meta)
	if err != nil {
		return nil, err
	}

	definitions := make([]*RouteDefinition, 0, len(meta.Handlers))
	for _, handler := range meta.Handlers {
		definition, err := resolveHandler(base, handler)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, definition)
	}

	sort.SliceStable(definitions, func(i, j int) bool {
		if definitions[i].order != definitions[j].order {
			return definitions[i].order < definitions[j].order
		}
		if definitions[i].path != definitions[j].path {
			return definitions[i].path < definitions[j].path
		}
		return definitions[i].method < definitions[j].method
	})
	return definitions, nil
}

// ResolveAll resolves several controllers into one combined, ordered route table.
func ResolveAll(metas ...*ControllerMeta) ([]*RouteDefinition, error) {
	var definitions []*RouteDefinition
	for _, meta := range metas {
		resolved, err := Resolve(meta)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, resolved...)
	}
	sort.SliceStable(definitions, func(i, j int) bool {
		return definitions[i].order < definitions[j].order
	})
	return definitions, nil
}

func resolveHandler(base *RouteDefinition, handler *HandlerMeta) (*RouteDefinition, error) {
	definition, err := NewMethodDefinition(base, handler.Annotations)
	if err != nil {
		return nil, err
	}

	if definition.Method() == "" {
		return nil, errors.NewValidationError("no HTTP verb set for handler %q, annotate it with a method marker",
			handler.Name).WithElement(base.controllerName)
	}

	if err := definition.SetArguments(handler); err != nil {
		return nil, err
	}

	// every parameter must have a known type by now
	for _, param := range definition.Parameters() {
		if !param.Bound() {
			return nil, errors.NewBindingError("path parameter %q is not bound to any argument of %q",
				param.Name, handler.Name).WithElement(base.controllerName)
		}
	}

	return definition, nil
}
