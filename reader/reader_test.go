package reader

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type account struct {
	Name string `json:"name" yaml:"name" toml:"name" msgpack:"name"`
	Age  int    `json:"age" yaml:"age" toml:"age" msgpack:"age"`
}

var accountType = reflect.TypeOf(account{})

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("json", JSONReader{}))

	reader, ok := r.Get("json")
	assert.True(t, ok)
	assert.NotNil(t, reader)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_DuplicateNameFails(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("json", JSONReader{}))

	err := r.Register("json", JSONReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestDefault_BuiltinsPresent(t *testing.T) {
	names := Default().Names()
	for _, expected := range []string{"json", "yaml", "toml", "msgpack", "text"} {
		assert.Contains(t, names, expected)
	}
}

func TestForMediaType(t *testing.T) {
	assert.Equal(t, "json", ForMediaType("json"))
	assert.Equal(t, "yaml", ForMediaType("x-yaml"))
	assert.Equal(t, "toml", ForMediaType("toml"))
	assert.Equal(t, "msgpack", ForMediaType("x-msgpack"))
	assert.Equal(t, "text", ForMediaType("plain"))
	assert.Equal(t, "json", ForMediaType("unknown"))
}

func TestJSONReader(t *testing.T) {
	value, err := JSONReader{}.Read([]byte(`{"name":"ana","age":30}`), accountType)
	require.NoError(t, err)
	assert.Equal(t, account{Name: "ana", Age: 30}, value)
}

func TestJSONReader_PointerTarget(t *testing.T) {
	value, err := JSONReader{}.Read([]byte(`{"name":"ana"}`), reflect.TypeOf(&account{}))
	require.NoError(t, err)
	require.IsType(t, &account{}, value)
	assert.Equal(t, "ana", value.(*account).Name)
}

func TestJSONReader_EmptyBodyReadsNil(t *testing.T) {
	value, err := JSONReader{}.Read([]byte("   \n"), accountType)
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestJSONReader_MalformedFails(t *testing.T) {
	_, err := JSONReader{}.Read([]byte(`{"name":`), accountType)
	assert.Error(t, err)
}

func TestYAMLReader(t *testing.T) {
	value, err := YAMLReader{}.Read([]byte("name: ana\nage: 30\n"), accountType)
	require.NoError(t, err)
	assert.Equal(t, account{Name: "ana", Age: 30}, value)
}

func TestTOMLReader(t *testing.T) {
	value, err := TOMLReader{}.Read([]byte("name = \"ana\"\nage = 30\n"), accountType)
	require.NoError(t, err)
	assert.Equal(t, account{Name: "ana", Age: 30}, value)
}

func TestMsgPackReader(t *testing.T) {
	data, err := msgpack.Marshal(account{Name: "ana", Age: 30})
	require.NoError(t, err)

	value, err := MsgPackReader{}.Read(data, accountType)
	require.NoError(t, err)
	assert.Equal(t, account{Name: "ana", Age: 30}, value)
}

func TestTextReader(t *testing.T) {
	value, err := TextReader{}.Read([]byte("hello"), reflect.TypeOf(""))
	require.NoError(t, err)
	assert.Equal(t, "hello", value)

	value, err = TextReader{}.Read([]byte("hello"), reflect.TypeOf([]byte(nil)))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), value)

	_, err = TextReader{}.Read([]byte("hello"), accountType)
	assert.Error(t, err)
}
