package route

import (
	"strings"

	"github.com/restbind/restbind/internal/errors"
)

// Path template handling. Templates mix literal segments with curly-brace
// placeholders: {name} binds a whole segment, {name:regex} constrains the
// segment with an inline regular expression.
//
// ExtractParams produces one path-kind MethodParameter per placeholder in
// template order; Convert rewrites the template into the router's native
// syntax: {name} becomes :name, {name:regex} becomes a named capture group
// (?P<name>regex).

// ExtractParams scans a path template left to right and returns its
// placeholder parameters in template order. The returned parameters carry the
// placeholder ordinal as their index and a nil data type; both are completed
// later when the handler signature is scanned.
func ExtractParams(path string) ([]*MethodParameter, error) {
	var params []*MethodParameter
	seen := map[string]bool{}

	rest := path
	for {
		open := strings.Index(rest, "{")
		if open < 0 {
			break
		}
		closing := strings.Index(rest[open:], "}")
		if closing < 0 {
			return nil, errors.NewPathError("unclosed '{' in path template %q", path)
		}
		content := rest[open+1 : open+closing]

		name := content
		regex := ""
		if colon := strings.Index(content, ":"); colon >= 0 {
			name = content[:colon]
			regex = content[colon+1:]
		}
		if name == "" {
			return nil, errors.NewPathError("empty parameter name in path template %q", path)
		}
		if seen[name] {
			return nil, errors.NewPathError("duplicate parameter name %q in path template %q", name, path)
		}
		seen[name] = true

		params = append(params, &MethodParameter{
			Name:    name,
			Kind:    PathKind,
			Index:   len(params),
			IsRegEx: regex != "",
			Regex:   regex,
		})

		rest = rest[open+closing+1:]
	}

	return params, nil
}

// Convert rewrites a path template into the router's native placeholder
// syntax. A template without placeholders converts to itself unchanged.
func Convert(path string) (string, error) {
	var sb strings.Builder

	rest := path
	for {
		open := strings.Index(rest, "{")
		if open < 0 {
			sb.WriteString(rest)
			break
		}
		closing := strings.Index(rest[open:], "}")
		if closing < 0 {
			return "", errors.NewPathError("unclosed '{' in path template %q", path)
		}
		sb.WriteString(rest[:open])

		content := rest[open+1 : open+closing]
		if colon := strings.Index(content, ":"); colon >= 0 {
			sb.WriteString("(?P<")
			sb.WriteString(content[:colon])
			sb.WriteString(">")
			sb.WriteString(content[colon+1:])
			sb.WriteString(")")
		} else {
			sb.WriteString(":")
			sb.WriteString(content)
		}

		rest = rest[open+closing+1:]
	}

	return sb.String(), nil
}
