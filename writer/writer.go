// Package writer holds the pluggable response-serialization strategies a
// route can select, plus the named registry they are resolved from at startup.
package writer

import (
	"io"
	"sync"

	"github.com/restbind/restbind/internal/errors"
)

// ResponseWriter serializes a handler result into a raw response body
type ResponseWriter interface {
	ContentType() string
	Write(value any, w io.Writer) error
}

// Registry maps writer names to instances. Registration happens once at
// startup; lookups are safe for concurrent use afterwards.
type Registry struct {
	mu      sync.RWMutex
	writers map[string]ResponseWriter
}

// NewRegistry creates an empty writer registry
func NewRegistry() *Registry {
	return &Registry{writers: make(map[string]ResponseWriter)}
}

// Register adds a writer under the given name; a duplicate name is a
// configuration error
func (r *Registry) Register(name string, writer ResponseWriter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.writers[name]; exists {
		return errors.NewRegistrationError("writer %q is already registered", name)
	}
	r.writers[name] = writer
	return nil
}

// Get retrieves a writer by name
func (r *Registry) Get(name string) (ResponseWriter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	writer, exists := r.writers[name]
	return writer, exists
}

// Names returns all registered writer names
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.writers))
	for name := range r.writers {
		names = append(names, name)
	}
	return names
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the global writer registry with the built-in writers
// registered: json, yaml, msgpack and text.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		defaultRegistry.Register("json", JSONWriter{})
		defaultRegistry.Register("yaml", YAMLWriter{})
		defaultRegistry.Register("msgpack", MsgPackWriter{})
		defaultRegistry.Register("text", TextWriter{})
	})
	return defaultRegistry
}

// ForMediaType returns the built-in writer name for a media subtype, falling
// back to json
func ForMediaType(subtype string) string {
	switch subtype {
	case "yaml", "x-yaml":
		return "yaml"
	case "msgpack", "x-msgpack":
		return "msgpack"
	case "plain", "html":
		return "text"
	default:
		return "json"
	}
}
