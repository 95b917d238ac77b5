package adapters

import (
	"bytes"
	"net/http"
	"reflect"

	"github.com/restbind/restbind/failure"
	"github.com/restbind/restbind/internal/errors"
	"github.com/restbind/restbind/params"
	"github.com/restbind/restbind/reader"
	"github.com/restbind/restbind/route"
	"github.com/restbind/restbind/writer"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Invoker executes one resolved route definition against a matched request:
// authorization check, parameter binding, handler call, serialization.
// Registries are resolved once at startup via Validate; request handling only
// performs lookups.
type Invoker struct {
	Readers    *reader.Registry
	Writers    *writer.Registry
	Failures   *failure.Registry
	Converters *params.Registry
	Roles      RoleLookup
}

// NewInvoker creates an invoker backed by the default registries
func NewInvoker() *Invoker {
	return &Invoker{
		Readers:    reader.Default(),
		Writers:    writer.Default(),
		Failures:   failure.Default(),
		Converters: params.Default(),
	}
}

// Validate checks every registry reference of the given definitions up
// front, so a dangling name fails startup instead of a request.
func (iv *Invoker) Validate(definitions []*route.RouteDefinition) error {
	for _, d := range definitions {
		if name := d.Reader(); name != "" {
			if _, ok := iv.Readers.Get(name); !ok {
				return errors.NewRegistrationError("route %q references unknown reader %q", d.Path(), name)
			}
		}
		if name := d.Writer(); name != "" {
			if _, ok := iv.Writers.Get(name); !ok {
				return errors.NewRegistrationError("route %q references unknown writer %q", d.Path(), name)
			}
		}
		for _, name := range d.FailureHandlers() {
			if _, ok := iv.Failures.Get(name); !ok {
				return errors.NewRegistrationError("route %q references unknown failure handler %q", d.Path(), name)
			}
		}
		for _, name := range d.FailureWriters() {
			if _, ok := iv.Writers.Get(name); !ok {
				return errors.NewRegistrationError("route %q references unknown failure writer %q", d.Path(), name)
			}
		}
		if !d.Handler().IsValid() {
			return errors.NewValidationError("route %q has no handler bound", d.Path())
		}
	}
	return nil
}

// Handle runs the full request pipeline for one definition
func (iv *Invoker) Handle(d *route.RouteDefinition, r Request) Response {
	if status := iv.authorize(d, r); status != 0 {
		return iv.fail(d, status, errors.New(errors.ValidationErrorCode, "access denied"))
	}

	args, err := iv.bindArguments(d, r)
	if err != nil {
		return iv.fail(d, http.StatusBadRequest, err)
	}

	result, err := invoke(d, args)
	if err != nil {
		return iv.fail(d, 0, err)
	}

	return iv.write(d, result)
}

// authorize returns 0 when the request may proceed, or the status to reject
// it with
func (iv *Invoker) authorize(d *route.RouteDefinition, r Request) int {
	if !d.CheckSecurity() {
		return 0
	}
	switch d.Access() {
	case route.AccessPermitAll:
		return 0
	case route.AccessDenyAll:
		return http.StatusForbidden
	default:
		if iv.Roles == nil {
			return http.StatusForbidden
		}
		held := iv.Roles(r)
		for _, allowed := range d.Roles() {
			for _, role := range held {
				if role == allowed {
					return 0
				}
			}
		}
		return http.StatusForbidden
	}
}

func (iv *Invoker) bindArguments(d *route.RouteDefinition, r Request) ([]reflect.Value, error) {
	numIn := d.Handler().Type().NumIn()
	args := make([]reflect.Value, numIn)

	for _, param := range d.Parameters() {
		if param.Index < 0 || param.Index >= numIn {
			return nil, errors.NewBindingError("parameter %q index %d out of range", param.Name, param.Index)
		}

		value, err := iv.bindParameter(d, param, r)
		if err != nil {
			return nil, err
		}
		if value == nil {
			args[param.Index] = reflect.Zero(param.DataType)
		} else {
			args[param.Index] = reflect.ValueOf(value)
		}
	}

	for i, arg := range args {
		if !arg.IsValid() {
			args[i] = reflect.Zero(d.Handler().Type().In(i))
		}
	}
	return args, nil
}

func (iv *Invoker) bindParameter(d *route.RouteDefinition, param *route.MethodParameter, r Request) (any, error) {
	var raw string
	switch param.Kind {
	case route.PathKind:
		raw = r.PathParam(param.Name)
	case route.QueryKind:
		raw = r.Query(param.Name)
	case route.HeaderKind:
		raw = r.Header(param.Name)
	case route.FormKind:
		raw = r.FormValue(param.Name)
	case route.CookieKind:
		if value, ok := r.Cookie(param.Name); ok {
			raw = value
		}

	case route.ContextKind:
		return iv.contextValue(d, param, r)

	case route.BodyKind:
		return iv.readBody(d, param, r)
	}

	if raw == "" && param.HasDefault {
		raw = param.DefaultValue
	}
	return iv.Converters.Convert(raw, param.DataType)
}

// contextValue provides request-scoped objects by declared type
func (iv *Invoker) contextValue(d *route.RouteDefinition, param *route.MethodParameter, r Request) (any, error) {
	switch param.DataType {
	case reflect.TypeOf(&route.RouteDefinition{}):
		return d, nil
	}
	if reflect.TypeOf(r).AssignableTo(param.DataType) {
		return r, nil
	}
	return nil, errors.NewBindingError("no context value available for %s %q", param.DataType, param.Name)
}

func (iv *Invoker) readBody(d *route.RouteDefinition, param *route.MethodParameter, r Request) (any, error) {
	data, err := r.Body()
	if err != nil {
		return nil, err
	}

	name := d.Reader()
	if name == "" {
		name = "json"
		if consumes := d.Consumes(); len(consumes) > 0 {
			name = reader.ForMediaType(consumes[0].Subtype)
		}
	}
	valueReader, ok := iv.Readers.Get(name)
	if !ok {
		return nil, errors.NewRegistrationError("unknown reader %q", name)
	}
	return valueReader.Read(data, param.DataType)
}

// invoke calls the handler and untangles the supported return shapes:
// (), (error), (T) and (T, error).
func invoke(d *route.RouteDefinition, args []reflect.Value) (any, error) {
	out := d.Handler().Call(args)

	var result any
	for _, value := range out {
		if value.Type().Implements(errType) {
			if !value.IsZero() {
				return nil, value.Interface().(error)
			}
			continue
		}
		result = value.Interface()
	}
	return result, nil
}

// write serializes a successful result through the route's writer
func (iv *Invoker) write(d *route.RouteDefinition, result any) Response {
	if result == nil {
		return Response{Status: http.StatusNoContent}
	}

	responseWriter := iv.pickWriter(d.Writer(), d)
	var buf bytes.Buffer
	if err := responseWriter.Write(result, &buf); err != nil {
		return iv.fail(d, http.StatusInternalServerError, err)
	}
	return Response{Status: http.StatusOK, ContentType: responseWriter.ContentType(), Body: buf.Bytes()}
}

// fail runs the route's failure handler chain; the first handler claiming the
// error (non-zero status) wins. When none does, status falls back to the
// given default or the generic 500 handler.
func (iv *Invoker) fail(d *route.RouteDefinition, defaultStatus int, cause error) Response {
	status := 0
	var payload any
	writerName := ""

	for i, name := range d.FailureHandlers() {
		handler, ok := iv.Failures.Get(name)
		if !ok {
			continue
		}
		if s, p := handler.Handle(cause); s != 0 {
			status, payload = s, p
			if writers := d.FailureWriters(); i < len(writers) {
				writerName = writers[i]
			}
			break
		}
	}

	if status == 0 {
		if defaultStatus != 0 {
			status, payload = defaultStatus, map[string]string{"error": cause.Error()}
		} else {
			status, payload = failure.Generic{}.Handle(cause)
		}
	}

	if writerName == "" {
		writerName = d.Writer()
	}
	responseWriter := iv.pickWriter(writerName, d)

	var buf bytes.Buffer
	if err := responseWriter.Write(payload, &buf); err != nil {
		return Response{Status: http.StatusInternalServerError}
	}
	return Response{Status: status, ContentType: responseWriter.ContentType(), Body: buf.Bytes()}
}

func (iv *Invoker) pickWriter(name string, d *route.RouteDefinition) writer.ResponseWriter {
	if name == "" {
		name = "json"
		if produces := d.Produces(); len(produces) > 0 {
			name = writer.ForMediaType(produces[0].Subtype)
		}
	}
	if w, ok := iv.Writers.Get(name); ok {
		return w
	}
	return writer.JSONWriter{}
}
