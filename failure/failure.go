// Package failure holds the pluggable error-handling strategies a route can
// declare with a catch annotation. Handlers translate a handler error into a
// status code and payload; the payload is serialized by the route's failure
// writer.
package failure

import (
	"net/http"
	"sync"

	"github.com/restbind/restbind/internal/errors"
)

// Handler translates a handler error into a response. A handler that does not
// recognize the error returns status 0 to pass it on to the next handler in
// the route's chain.
type Handler interface {
	Handle(err error) (status int, payload any)
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(err error) (int, any)

func (f HandlerFunc) Handle(err error) (int, any) {
	return f(err)
}

// Registry maps failure handler names to instances
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty failure handler registry
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler under the given name; a duplicate name is a
// configuration error
func (r *Registry) Register(name string, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		return errors.NewRegistrationError("failure handler %q is already registered", name)
	}
	r.handlers[name] = handler
	return nil
}

// Get retrieves a handler by name
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, exists := r.handlers[name]
	return handler, exists
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the global failure handler registry with the generic
// handler registered under "default".
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		defaultRegistry.Register("default", Generic{})
	})
	return defaultRegistry
}

// Generic maps any error to a 500 with the error text as payload
type Generic struct{}

func (Generic) Handle(err error) (int, any) {
	return http.StatusInternalServerError, map[string]string{"error": err.Error()}
}
