// Package reader holds the pluggable body-deserialization strategies a route
// can select, plus the named registry they are resolved from at startup.
package reader

import (
	"reflect"
	"sync"

	"github.com/restbind/restbind/internal/errors"
)

// ValueReader deserializes a raw request body into a value of the target type
type ValueReader interface {
	Read(data []byte, target reflect.Type) (any, error)
}

// Registry maps reader names to instances. Registration happens once at
// startup; lookups are safe for concurrent use afterwards.
type Registry struct {
	mu      sync.RWMutex
	readers map[string]ValueReader
}

// NewRegistry creates an empty reader registry
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]ValueReader)}
}

// Register adds a reader under the given name; a duplicate name is a
// configuration error
func (r *Registry) Register(name string, reader ValueReader) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.readers[name]; exists {
		return errors.NewRegistrationError("reader %q is already registered", name)
	}
	r.readers[name] = reader
	return nil
}

// Get retrieves a reader by name
func (r *Registry) Get(name string) (ValueReader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reader, exists := r.readers[name]
	return reader, exists
}

// Names returns all registered reader names
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.readers))
	for name := range r.readers {
		names = append(names, name)
	}
	return names
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the global reader registry with the built-in readers
// registered: json, yaml, toml, msgpack and text.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		defaultRegistry.Register("json", JSONReader{})
		defaultRegistry.Register("yaml", YAMLReader{})
		defaultRegistry.Register("toml", TOMLReader{})
		defaultRegistry.Register("msgpack", MsgPackReader{})
		defaultRegistry.Register("text", TextReader{})
	})
	return defaultRegistry
}

// ForMediaType returns the built-in reader name for a media subtype, falling
// back to json
func ForMediaType(subtype string) string {
	switch subtype {
	case "yaml", "x-yaml":
		return "yaml"
	case "toml":
		return "toml"
	case "msgpack", "x-msgpack":
		return "msgpack"
	case "plain":
		return "text"
	default:
		return "json"
	}
}

// allocate prepares a pointer target for unmarshalling; deref'd for pointer
// types so the caller gets back the declared shape
func allocate(target reflect.Type) (ptr reflect.Value, wantPtr bool) {
	if target.Kind() == reflect.Ptr {
		return reflect.New(target.Elem()), true
	}
	return reflect.New(target), false
}

func result(ptr reflect.Value, wantPtr bool) any {
	if wantPtr {
		return ptr.Interface()
	}
	return ptr.Elem().Interface()
}
