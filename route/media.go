package route

import (
	"mime"
	"strings"
)

// MediaType is one parsed media type from a produces/consumes list
type MediaType struct {
	Type    string
	Subtype string
	Params  map[string]string
}

// ParseMediaType parses a single media type string, e.g.
// "application/json; charset=utf-8".
func ParseMediaType(value string) (MediaType, bool) {
	parsed, params, err := mime.ParseMediaType(value)
	if err != nil {
		return MediaType{}, false
	}
	parts := strings.SplitN(parsed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return MediaType{}, false
	}
	return MediaType{Type: parts[0], Subtype: parts[1], Params: params}, true
}

// String renders the media type without parameters
func (m MediaType) String() string {
	if m.Subtype == "" {
		return m.Type
	}
	return m.Type + "/" + m.Subtype
}

// Matches reports whether the media type accepts the other, honoring
// wildcard type and subtype
func (m MediaType) Matches(other MediaType) bool {
	if m.Type != "*" && other.Type != "*" && m.Type != other.Type {
		return false
	}
	if m.Subtype != "*" && other.Subtype != "*" && m.Subtype != other.Subtype {
		return false
	}
	return true
}

// mediaTypes parses a list of media type strings, discarding entries that
// fail to parse. Returns nil when nothing parsed, meaning "unconstrained".
func mediaTypes(values []string) []MediaType {
	var types []MediaType
	for _, value := range values {
		if mt, ok := ParseMediaType(value); ok {
			types = append(types, mt)
		}
	}
	return types
}
