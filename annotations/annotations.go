package annotations

// Annotation is one piece of declarative route metadata attached to a
// controller, a handler method or a handler argument. Annotations are applied
// in slice order; when the same kind appears twice in one pass, the later one
// wins.
type Annotation interface {
	annotation()
}

// Path sets or appends the route path template, e.g. "/users/{id}".
type Path struct {
	Value string
}

// Method marks the HTTP verb of a route.
type Method struct {
	Verb string
}

// Verb marker values for the common HTTP methods.
var (
	GET     = Method{Verb: "GET"}
	POST    = Method{Verb: "POST"}
	PUT     = Method{Verb: "PUT"}
	DELETE  = Method{Verb: "DELETE"}
	PATCH   = Method{Verb: "PATCH"}
	HEAD    = Method{Verb: "HEAD"}
	OPTIONS = Method{Verb: "OPTIONS"}
	TRACE   = Method{Verb: "TRACE"}
	CONNECT = Method{Verb: "CONNECT"}
)

// Produces lists the media types a route can produce.
type Produces struct {
	Types []string
}

// Consumes lists the media types a route accepts.
type Consumes struct {
	Types []string
}

// Order sets the route registration precedence (lower = evaluated first).
type Order struct {
	Value int
}

// Blocking marks the handler as needing off-main-path execution.
type Blocking struct {
	Value bool
}

// PermitAll allows every caller, clearing any role requirement.
type PermitAll struct{}

// DenyAll rejects every caller, clearing any role requirement.
type DenyAll struct{}

// RolesAllowed restricts the route to callers holding one of the roles.
type RolesAllowed struct {
	Roles []string
}

// RequestReader overrides the body deserialization strategy by registry name.
type RequestReader struct {
	Name string
}

// ResponseWriter overrides the response serialization strategy by registry name.
type ResponseWriter struct {
	Name string
}

// CatchWith declares failure handlers for the route, in order, with optional
// per-handler writer overrides.
type CatchWith struct {
	Handlers []string
	Writers  []string
}

// Argument-level annotations.

// PathParam binds an argument to a path template parameter.
type PathParam struct {
	Name string
}

// QueryParam binds an argument to a query string parameter.
type QueryParam struct {
	Name string
}

// FormParam binds an argument to a form field.
type FormParam struct {
	Name string
}

// CookieParam binds an argument to a request cookie.
type CookieParam struct {
	Name string
}

// HeaderParam binds an argument to a request header.
type HeaderParam struct {
	Name string
}

// Context binds an argument to a request-scoped object provided by the
// dispatcher, keyed by the argument's declared type.
type Context struct{}

// DefaultValue attaches a fallback used when the source value is missing.
// It is independent of the binding kind.
type DefaultValue struct {
	Value string
}

func (Path) annotation()           {}
func (Method) annotation()         {}
func (Produces) annotation()       {}
func (Consumes) annotation()       {}
func (Order) annotation()          {}
func (Blocking) annotation()       {}
func (PermitAll) annotation()      {}
func (DenyAll) annotation()        {}
func (RolesAllowed) annotation()   {}
func (RequestReader) annotation()  {}
func (ResponseWriter) annotation() {}
func (CatchWith) annotation()      {}
func (PathParam) annotation()      {}
func (QueryParam) annotation()     {}
func (FormParam) annotation()      {}
func (CookieParam) annotation()    {}
func (HeaderParam) annotation()    {}
func (Context) annotation()        {}
func (DefaultValue) annotation()   {}
