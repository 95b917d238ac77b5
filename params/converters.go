// Package params converts raw string inputs (path, query, header, cookie and
// form values) into the Go types handler arguments declare. Converters are
// registered per target type once at startup.
package params

import (
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/restbind/restbind/internal/errors"
)

// Converter turns one raw string value into a typed value
type Converter func(raw string) (any, error)

// Registry maps target types to converters
type Registry struct {
	mu         sync.RWMutex
	converters map[reflect.Type]Converter
}

// NewRegistry creates a registry with the built-in converters registered
func NewRegistry() *Registry {
	r := &Registry{converters: make(map[reflect.Type]Converter)}
	r.registerBuiltins()
	return r
}

// Register adds a converter for the given target type, replacing any builtin
func (r *Registry) Register(target reflect.Type, converter Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converters[target] = converter
}

// Convert turns a raw value into the target type
func (r *Registry) Convert(raw string, target reflect.Type) (any, error) {
	r.mu.RLock()
	converter, exists := r.converters[target]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.NewConversionError("no converter registered for type %s", target)
	}
	value, err := converter(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ConversionErrorCode, err, "value %q is not a valid %s", raw, target)
	}
	return value, nil
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the global converter registry
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

func (r *Registry) registerBuiltins() {
	r.converters[reflect.TypeOf("")] = func(raw string) (any, error) {
		return raw, nil
	}
	r.converters[reflect.TypeOf([]byte(nil))] = func(raw string) (any, error) {
		return []byte(raw), nil
	}
	r.converters[reflect.TypeOf(false)] = func(raw string) (any, error) {
		return strconv.ParseBool(raw)
	}
	r.converters[reflect.TypeOf(int(0))] = func(raw string) (any, error) {
		return strconv.Atoi(raw)
	}
	r.converters[reflect.TypeOf(int8(0))] = func(raw string) (any, error) {
		v, err := strconv.ParseInt(raw, 10, 8)
		return int8(v), err
	}
	r.converters[reflect.TypeOf(int16(0))] = func(raw string) (any, error) {
		v, err := strconv.ParseInt(raw, 10, 16)
		return int16(v), err
	}
	r.converters[reflect.TypeOf(int32(0))] = func(raw string) (any, error) {
		v, err := strconv.ParseInt(raw, 10, 32)
		return int32(v), err
	}
	r.converters[reflect.TypeOf(int64(0))] = func(raw string) (any, error) {
		return strconv.ParseInt(raw, 10, 64)
	}
	r.converters[reflect.TypeOf(uint(0))] = func(raw string) (any, error) {
		v, err := strconv.ParseUint(raw, 10, 64)
		return uint(v), err
	}
	r.converters[reflect.TypeOf(uint64(0))] = func(raw string) (any, error) {
		return strconv.ParseUint(raw, 10, 64)
	}
	r.converters[reflect.TypeOf(float32(0))] = func(raw string) (any, error) {
		v, err := strconv.ParseFloat(raw, 32)
		return float32(v), err
	}
	r.converters[reflect.TypeOf(float64(0))] = func(raw string) (any, error) {
		return strconv.ParseFloat(raw, 64)
	}
	r.converters[reflect.TypeOf(uuid.UUID{})] = func(raw string) (any, error) {
		return uuid.Parse(raw)
	}
	r.converters[reflect.TypeOf(time.Time{})] = func(raw string) (any, error) {
		return time.Parse(time.RFC3339, raw)
	}
	r.converters[reflect.TypeOf(time.Duration(0))] = func(raw string) (any, error) {
		return time.ParseDuration(raw)
	}
}
