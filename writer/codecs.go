package writer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// JSONWriter serializes the handler result as JSON
type JSONWriter struct{}

func (JSONWriter) ContentType() string {
	return "application/json"
}

func (JSONWriter) Write(value any, w io.Writer) error {
	return json.NewEncoder(w).Encode(value)
}

// YAMLWriter serializes the handler result as YAML
type YAMLWriter struct{}

func (YAMLWriter) ContentType() string {
	return "application/yaml"
}

func (YAMLWriter) Write(value any, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	if err := encoder.Encode(value); err != nil {
		return err
	}
	return encoder.Close()
}

// MsgPackWriter serializes the handler result as MessagePack
type MsgPackWriter struct{}

func (MsgPackWriter) ContentType() string {
	return "application/msgpack"
}

func (MsgPackWriter) Write(value any, w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(value)
}

// TextWriter renders the handler result as plain text
type TextWriter struct{}

func (TextWriter) ContentType() string {
	return "text/plain"
}

func (TextWriter) Write(value any, w io.Writer) error {
	switch v := value.(type) {
	case string:
		_, err := io.WriteString(w, v)
		return err
	case []byte:
		_, err := w.Write(v)
		return err
	case fmt.Stringer:
		_, err := io.WriteString(w, v.String())
		return err
	default:
		_, err := fmt.Fprint(w, v)
		return err
	}
}
