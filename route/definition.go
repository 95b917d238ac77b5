package route

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/restbind/restbind/annotations"
	"github.com/restbind/restbind/internal/errors"
)

const delimiter = "/"

// Verbs lists the HTTP methods a route can be bound to
var Verbs = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS", "TRACE", "CONNECT"}

// AccessMode is the route's security policy
type AccessMode int

const (
	// AccessUnchecked performs no authorization check
	AccessUnchecked AccessMode = iota
	// AccessPermitAll allows every caller
	AccessPermitAll
	// AccessDenyAll rejects every caller
	AccessDenyAll
	// AccessRoles requires the caller to hold one of the allowed roles
	AccessRoles
)

// String returns the string representation of the access mode
func (m AccessMode) String() string {
	switch m {
	case AccessPermitAll:
		return "permitAll"
	case AccessDenyAll:
		return "denyAll"
	case AccessRoles:
		return "roles"
	default:
		return "unchecked"
	}
}

// RouteDefinition holds the definition of a route as declared with
// annotations. A definition is built either fresh from a controller's
// annotations, or as a method-level specialization that starts as an exact
// copy of its class-level base and then applies the method's annotations as
// overrides. Once resolution completes a definition is read-only.
type RouteDefinition struct {
	// original path, always "/"-prefixed, never "/"-suffixed
	path string

	// path translated into the router's placeholder syntax, "" until computed
	routePath string

	method string

	consumes []MediaType
	produces []MediaType

	reader string
	writer string

	params map[string]*MethodParameter

	order    int
	blocking bool

	access AccessMode
	roles  []string

	failureHandlers []string
	failureWriters  []string

	controllerName string
	handlerName    string
	handler        reflect.Value
}

// NewClassDefinition builds a class-level base definition from a controller's
// annotations. The nearest controller in the inheritance chain carrying a
// Path annotation supplies the annotations; when none does, the controller
// itself is used.
func NewClassDefinition(meta *ControllerMeta) (*RouteDefinition, error) {
	annotated := meta.withPathAnnotation()
	if annotated == nil {
		annotated = meta
	}

	d := &RouteDefinition{
		path:           delimiter,
		params:         map[string]*MethodParameter{},
		controllerName: meta.Name,
	}
	if err := d.apply(annotated.Annotations); err != nil {
		return nil, err.WithElement(meta.Name)
	}
	return d, nil
}

// NewMethodDefinition builds a method-level definition: an exact copy of the
// class-level base, overridden by the method's own annotations. Fields the
// method does not annotate retain the class-level value.
func NewMethodDefinition(base *RouteDefinition, anns []annotations.Annotation) (*RouteDefinition, error) {
	d := &RouteDefinition{
		path:           delimiter,
		params:         map[string]*MethodParameter{},
		controllerName: base.controllerName,
	}

	if err := d.SetPath(base.path); err != nil {
		return nil, err
	}

	d.consumes = append([]MediaType(nil), base.consumes...)
	d.produces = append([]MediaType(nil), base.produces...)
	d.method = base.method

	d.reader = base.reader
	d.writer = base.writer

	// root privileges, with the "roles clears permit/deny" invariant re-applied
	d.access = base.access
	d.roles = append([]string(nil), base.roles...)
	if len(d.roles) > 0 {
		d.access = AccessRoles
	}

	d.failureHandlers = append([]string(nil), base.failureHandlers...)
	d.failureWriters = append([]string(nil), base.failureWriters...)

	// complement / override with the method's annotations
	if err := d.apply(anns); err != nil {
		return nil, err.WithElement(base.controllerName)
	}
	return d, nil
}

// apply runs one ordered annotation pass. Later annotations of the same kind
// overwrite earlier ones. Argument-level annotations are ignored here; they
// are consumed by SetArguments.
func (d *RouteDefinition) apply(anns []annotations.Annotation) *errors.ConfigError {
	for _, ann := range anns {
		switch a := ann.(type) {
		case annotations.Order:
			d.order = a.Value

		case annotations.Path:
			if err := d.SetPath(a.Value); err != nil {
				return asConfig(err)
			}

		case annotations.Produces:
			if err := d.setProduces(a.Types); err != nil {
				return err
			}

		case annotations.Consumes:
			if err := d.setConsumes(a.Types); err != nil {
				return err
			}

		case annotations.Method:
			d.setMethod(a.Verb)

		case annotations.ResponseWriter:
			d.writer = a.Name

		case annotations.RequestReader:
			d.reader = a.Name

		case annotations.Blocking:
			d.blocking = a.Value

		case annotations.RolesAllowed:
			d.access = AccessRoles
			d.roles = append([]string(nil), a.Roles...)

		case annotations.DenyAll:
			d.roles = nil
			d.access = AccessDenyAll

		case annotations.PermitAll:
			d.roles = nil
			d.access = AccessPermitAll

		case annotations.CatchWith:
			d.failureHandlers = append([]string(nil), a.Handlers...)
			if len(a.Writers) > 0 {
				d.failureWriters = append([]string(nil), a.Writers...)
			}
		}
	}
	return nil
}

// SetPath composes a sub-path onto the definition. A sub-path on the default
// root path replaces it, otherwise it is appended. A missing leading "/" is
// synthesized and a trailing "/" stripped; setting "/" on a non-default path
// keeps the existing path. Every mutation re-extracts path parameters and
// re-converts the route path.
func (d *RouteDefinition) SetPath(subPath string) error {
	if strings.TrimSpace(subPath) == "" {
		return errors.NewValidationError("missing or empty route path")
	}

	if subPath == delimiter {
		return nil
	}

	if !strings.HasPrefix(subPath, delimiter) {
		subPath = delimiter + subPath
	}
	if strings.HasSuffix(subPath, delimiter) {
		subPath = subPath[:len(subPath)-1]
	}

	if d.path == delimiter {
		d.path = subPath
	} else {
		d.path = d.path + subPath
	}

	params, err := ExtractParams(d.path)
	if err != nil {
		return err
	}
	if err := d.setParams(params); err != nil {
		return err
	}

	routePath, err := Convert(d.path)
	if err != nil {
		return err
	}
	d.routePath = routePath
	return nil
}

// asConfig normalizes an error into a ConfigError so element context can be
// attached
func asConfig(err error) *errors.ConfigError {
	if cfg, ok := err.(*errors.ConfigError); ok {
		return cfg
	}
	return errors.Wrap(errors.UnknownErrorCode, err, "configuration error")
}

func (d *RouteDefinition) setConsumes(values []string) *errors.ConfigError {
	if len(values) == 0 {
		return errors.NewValidationError("missing or empty 'consumes' media type list")
	}
	d.consumes = mediaTypes(values)
	return nil
}

func (d *RouteDefinition) setProduces(values []string) *errors.ConfigError {
	if len(values) == 0 {
		return errors.NewValidationError("missing or empty 'produces' media type list")
	}
	d.produces = mediaTypes(values)
	return nil
}

// setMethod matches the verb case-insensitively against the known verbs;
// unknown values are ignored and the method stays unchanged.
func (d *RouteDefinition) setMethod(verb string) {
	for _, known := range Verbs {
		if strings.EqualFold(verb, known) {
			d.method = known
			return
		}
	}
}

// setParams rebuilds the parameter map from freshly extracted path parameters
func (d *RouteDefinition) setParams(pathParams []*MethodParameter) *errors.ConfigError {
	d.params = make(map[string]*MethodParameter, len(pathParams))
	for _, param := range pathParams {
		if _, dup := d.params[param.Name]; dup {
			return errors.NewPathError("duplicate parameter name given: %s", param.Name)
		}
		d.params[param.Name] = param
	}
	return nil
}

// SetArguments links the handler's arguments with the route's parameters:
// annotated arguments register under their source name, unannotated ones
// either complete a pre-extracted path parameter at the same position or
// become the request body.
func (d *RouteDefinition) SetArguments(h *HandlerMeta) error {
	if err := h.validateFunc(); err != nil {
		return err
	}

	for index, arg := range h.Args {
		name := ""
		kind := ParameterKind(-1)
		hasKind := false
		defaultValue := ""
		hasDefault := false

		for _, ann := range arg.Annotations {
			switch a := ann.(type) {
			case annotations.PathParam:
				name, kind, hasKind = a.Name, PathKind, true
			case annotations.QueryParam:
				name, kind, hasKind = a.Name, QueryKind, true
			case annotations.FormParam:
				name, kind, hasKind = a.Name, FormKind, true
			case annotations.CookieParam:
				name, kind, hasKind = a.Name, CookieKind, true
			case annotations.HeaderParam:
				name, kind, hasKind = a.Name, HeaderKind, true
			case annotations.Context:
				name, kind, hasKind = arg.Name, ContextKind, true
			case annotations.DefaultValue:
				defaultValue, hasDefault = a.Value, true
			}
		}

		if !hasKind {
			// unannotated: either a pre-extracted path parameter at this
			// position, or the request body
			if existing := d.FindParameter(index); existing != nil {
				if existing.Bound() {
					return errors.NewBindingError("duplicate argument type given: %s", arg.Name).
						WithElement(h.Name)
				}
				existing.bind(arg.Type, index)
				continue
			}

			if !d.RequestHasBody() {
				return errors.NewBindingError(
					"missing argument annotation (PathParam, QueryParam, FormParam, HeaderParam, CookieParam, Context) for: %s %s",
					arg.Type, arg.Name).WithElement(h.Name)
			}
			name, kind = arg.Name, BodyKind
		}

		param, err := d.provideArgument(name, kind, defaultValue, hasDefault, arg, index)
		if err != nil {
			return err.WithElement(h.Name)
		}
		d.params[name] = param
	}

	d.handlerName = h.Name
	d.handler = h.Func
	return nil
}

func (d *RouteDefinition) provideArgument(name string, kind ParameterKind, defaultValue string,
	hasDefault bool, arg ArgMeta, index int) (*MethodParameter, *errors.ConfigError) {

	if kind < PathKind || kind > BodyKind {
		return nil, errors.NewBindingError(
			"argument %q (%s) can't be provided with the request, check and annotate method arguments",
			name, arg.Type)
	}

	switch kind {
	case PathKind:
		// parameter was pre-registered when the path template was parsed
		found := d.params[name]
		if found == nil {
			return nil, errors.NewBindingError("missing path parameter %q (%s) as method argument", name, arg.Type)
		}
		found.bind(arg.Type, index)
		if hasDefault {
			found.setDefault(defaultValue)
		}
		return found, nil

	default:
		if _, exists := d.params[name]; exists {
			return nil, errors.NewBindingError("duplicate argument %q, already provided", name)
		}
		param := &MethodParameter{Name: name, Kind: kind, DataType: arg.Type, Index: index}
		if hasDefault {
			param.setDefault(defaultValue)
		}
		return param, nil
	}
}

// FindParameter returns the parameter bound at the given argument position,
// or nil
func (d *RouteDefinition) FindParameter(index int) *MethodParameter {
	for _, param := range d.params {
		if param.Index == index {
			return param
		}
	}
	return nil
}

// Path returns the normalized original path template
func (d *RouteDefinition) Path() string {
	return d.path
}

// RoutePath returns the path in the router's placeholder syntax, or "" when
// the path was never set
func (d *RouteDefinition) RoutePath() string {
	return d.routePath
}

// Method returns the HTTP verb, "" when unset
func (d *RouteDefinition) Method() string {
	return d.method
}

// Consumes returns the accepted media types, nil meaning "any"
func (d *RouteDefinition) Consumes() []MediaType {
	return d.consumes
}

// Produces returns the produced media types, nil meaning "any"
func (d *RouteDefinition) Produces() []MediaType {
	return d.produces
}

// Order returns the route registration precedence (lower = evaluated first)
func (d *RouteDefinition) Order() int {
	return d.order
}

// Reader returns the body reader override name, "" meaning type-based default
func (d *RouteDefinition) Reader() string {
	return d.reader
}

// Writer returns the response writer override name, "" meaning type-based default
func (d *RouteDefinition) Writer() string {
	return d.writer
}

// FailureHandlers returns the ordered failure handler names
func (d *RouteDefinition) FailureHandlers() []string {
	return d.failureHandlers
}

// FailureWriters returns the ordered failure writer override names
func (d *RouteDefinition) FailureWriters() []string {
	return d.failureWriters
}

// Parameters returns all bound parameters sorted by argument index
func (d *RouteDefinition) Parameters() []*MethodParameter {
	list := make([]*MethodParameter, 0, len(d.params))
	for _, param := range d.params {
		list = append(list, param)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Index < list[j].Index })
	return list
}

// IsBlocking reports whether the handler must run off the main
// event-processing path
func (d *RouteDefinition) IsBlocking() bool {
	return d.blocking
}

// Access returns the route's security policy
func (d *RouteDefinition) Access() AccessMode {
	return d.access
}

// Roles returns the allowed role names, nil when no roles are required
func (d *RouteDefinition) Roles() []string {
	return d.roles
}

// CheckSecurity reports whether the external registrar must wrap the handler
// with an authorization check
func (d *RouteDefinition) CheckSecurity() bool {
	switch d.access {
	case AccessPermitAll, AccessDenyAll:
		return true
	case AccessRoles:
		return len(d.roles) > 0
	default:
		return false
	}
}

// RequestHasBody reports whether the verb semantically carries a body
func (d *RouteDefinition) RequestHasBody() bool {
	return d.method != "GET" && d.method != "HEAD"
}

// HasBodyParameter reports whether a body parameter is bound
func (d *RouteDefinition) HasBodyParameter() bool {
	return d.BodyParameter() != nil
}

// BodyParameter returns the single body-kind parameter, or nil
func (d *RouteDefinition) BodyParameter() *MethodParameter {
	for _, param := range d.params {
		if param.Kind == BodyKind {
			return param
		}
	}
	return nil
}

// HasCookies reports whether any cookie-kind parameter is bound
func (d *RouteDefinition) HasCookies() bool {
	for _, param := range d.params {
		if param.Kind == CookieKind {
			return true
		}
	}
	return false
}

// PathIsRegEx reports whether any path parameter carries a regex constraint
func (d *RouteDefinition) PathIsRegEx() bool {
	for _, param := range d.params {
		if param.IsRegEx {
			return true
		}
	}
	return false
}

// ControllerName returns the name of the controller the route was resolved from
func (d *RouteDefinition) ControllerName() string {
	return d.controllerName
}

// HandlerName returns the name of the bound handler method
func (d *RouteDefinition) HandlerName() string {
	return d.handlerName
}

// Handler returns the bound handler function; the zero Value when the route
// is metadata-only
func (d *RouteDefinition) Handler() reflect.Value {
	return d.handler
}

// String renders a deterministic single line for startup diagnostics:
// verb, route path and security annotation.
func (d *RouteDefinition) String() string {
	routePath := d.routePath
	if routePath == "" {
		routePath = d.path
	}

	security := ""
	if d.CheckSecurity() {
		switch d.access {
		case AccessPermitAll:
			security = "  @PermitAll"
		case AccessDenyAll:
			security = "  @DenyAll"
		default:
			security = "  [" + strings.Join(d.roles, ", ") + "]"
		}
	}

	return fmt.Sprintf("%8s %s%s", d.method, routePath, security)
}
