// Package adapters registers resolved route definitions onto real routers
// (echo, gin, fiber) and carries the per-request glue: binding parameters,
// invoking the handler and serializing the result.
package adapters

import "github.com/restbind/restbind/route"

// Request is the framework-agnostic view of one matched HTTP request the
// invoker binds parameters from.
type Request interface {
	PathParam(name string) string
	Query(name string) string
	Header(name string) string
	Cookie(name string) (string, bool)
	FormValue(name string) string
	Body() ([]byte, error)
}

// RoleLookup resolves the roles of the current caller; used for routes whose
// definition requires a role check.
type RoleLookup func(r Request) []string

// Response is the serialized outcome of one route invocation
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// nativePath returns the router-registerable path of a definition
func nativePath(d *route.RouteDefinition) string {
	if p := d.RoutePath(); p != "" {
		return p
	}
	return "/"
}
