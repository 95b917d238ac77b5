package reader

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/restbind/restbind/internal/errors"
)

// JSONReader converts a JSON request body into the target type. An empty or
// whitespace-only body reads as nil.
type JSONReader struct{}

func (JSONReader) Read(data []byte, target reflect.Type) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if target == nil {
		var value any
		if err := json.Unmarshal(data, &value); err != nil {
			return nil, err
		}
		return value, nil
	}
	ptr, wantPtr := allocate(target)
	if err := json.Unmarshal(data, ptr.Interface()); err != nil {
		return nil, err
	}
	return result(ptr, wantPtr), nil
}

// YAMLReader converts a YAML request body into the target type
type YAMLReader struct{}

func (YAMLReader) Read(data []byte, target reflect.Type) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if target == nil {
		var value any
		if err := yaml.Unmarshal(data, &value); err != nil {
			return nil, err
		}
		return value, nil
	}
	ptr, wantPtr := allocate(target)
	if err := yaml.Unmarshal(data, ptr.Interface()); err != nil {
		return nil, err
	}
	return result(ptr, wantPtr), nil
}

// TOMLReader converts a TOML request body into the target type
type TOMLReader struct{}

func (TOMLReader) Read(data []byte, target reflect.Type) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if target == nil {
		var value map[string]any
		if err := toml.Unmarshal(data, &value); err != nil {
			return nil, err
		}
		return value, nil
	}
	ptr, wantPtr := allocate(target)
	if err := toml.Unmarshal(data, ptr.Interface()); err != nil {
		return nil, err
	}
	return result(ptr, wantPtr), nil
}

// MsgPackReader converts a MessagePack request body into the target type
type MsgPackReader struct{}

func (MsgPackReader) Read(data []byte, target reflect.Type) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if target == nil {
		var value any
		if err := msgpack.Unmarshal(data, &value); err != nil {
			return nil, err
		}
		return value, nil
	}
	ptr, wantPtr := allocate(target)
	if err := msgpack.Unmarshal(data, ptr.Interface()); err != nil {
		return nil, err
	}
	return result(ptr, wantPtr), nil
}

// TextReader hands the raw body over as string or []byte
type TextReader struct{}

func (TextReader) Read(data []byte, target reflect.Type) (any, error) {
	if target == nil {
		return string(data), nil
	}
	switch target.Kind() {
	case reflect.String:
		return string(data), nil
	case reflect.Slice:
		if target.Elem().Kind() == reflect.Uint8 {
			return data, nil
		}
	}
	return nil, errors.NewConversionError("text reader cannot produce %s", target)
}
