package annotations

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/restbind/restbind/internal/errors"
)

// Marker is the comment prefix that introduces a rest annotation line.
const Marker = "//rest::"

// restLine is the participle grammar for a single annotation line:
//
//	//rest::<kind> <args...> [-Flag[=value] ...]
type restLine struct {
	Kind  string     `parser:"Marker @Atom"`
	Args  []string   `parser:"@Atom*"`
	Flags []restFlag `parser:"@@*"`
}

// restFlag is a named flag, with or without an explicit value
type restFlag struct {
	Name  string  `parser:"@Flag"`
	Value *string `parser:"(Equals @Atom)?"`
}

var restLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Marker", Pattern: `//\s*rest::`},
	{Name: "Flag", Pattern: `-[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Atom", Pattern: `[^\s=]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var lineParser = participle.MustBuild[restLine](
	participle.Lexer(restLexer),
	participle.Elide("Whitespace"),
)

// knownKinds lists every accepted annotation kind, used for error messages
var knownKinds = []string{
	"path", "method",
	"get", "post", "put", "delete", "patch", "head", "options", "trace", "connect",
	"produces", "consumes",
	"order", "blocking",
	"permitAll", "denyAll", "rolesAllowed",
	"reader", "writer", "catch",
}

// ParseLine parses one annotation line into its typed form.
func ParseLine(line string) (Annotation, error) {
	parsed, err := lineParser.ParseString("", strings.TrimSpace(line))
	if err != nil {
		return nil, errors.Wrap(errors.SyntaxErrorCode, err, "malformed annotation %q", line)
	}
	return parsed.toAnnotation(line)
}

// ParseComment extracts every annotation line from a comment block, in line
// order. Lines without the rest:: marker are ignored.
func ParseComment(comment string) ([]Annotation, error) {
	var result []Annotation
	for _, line := range strings.Split(comment, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "//") {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "//"))
		if !strings.HasPrefix(rest, "rest::") {
			continue
		}
		ann, err := ParseLine(trimmed)
		if err != nil {
			return nil, err
		}
		result = append(result, ann)
	}
	return result, nil
}

func (l *restLine) toAnnotation(raw string) (Annotation, error) {
	switch l.Kind {
	case "path":
		value, err := l.oneArg(raw)
		if err != nil {
			return nil, err
		}
		return Path{Value: value}, nil

	case "get", "post", "put", "delete", "patch", "head", "options", "trace", "connect":
		return Method{Verb: strings.ToUpper(l.Kind)}, nil

	case "method":
		value, err := l.oneArg(raw)
		if err != nil {
			return nil, err
		}
		return Method{Verb: strings.ToUpper(value)}, nil

	case "produces":
		value, err := l.oneArg(raw)
		if err != nil {
			return nil, err
		}
		return Produces{Types: splitList(value)}, nil

	case "consumes":
		value, err := l.oneArg(raw)
		if err != nil {
			return nil, err
		}
		return Consumes{Types: splitList(value)}, nil

	case "order":
		value, err := l.oneArg(raw)
		if err != nil {
			return nil, err
		}
		order, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.NewSyntaxError("order value %q is not an integer in %q", value, raw)
		}
		return Order{Value: order}, nil

	case "blocking":
		if len(l.Args) == 0 {
			return Blocking{Value: true}, nil
		}
		value, err := strconv.ParseBool(l.Args[0])
		if err != nil {
			return nil, errors.NewSyntaxError("blocking value %q is not a boolean in %q", l.Args[0], raw)
		}
		return Blocking{Value: value}, nil

	case "permitAll":
		return PermitAll{}, nil

	case "denyAll":
		return DenyAll{}, nil

	case "rolesAllowed":
		value, err := l.oneArg(raw)
		if err != nil {
			return nil, err
		}
		return RolesAllowed{Roles: splitList(value)}, nil

	case "reader":
		value, err := l.oneArg(raw)
		if err != nil {
			return nil, err
		}
		return RequestReader{Name: value}, nil

	case "writer":
		value, err := l.oneArg(raw)
		if err != nil {
			return nil, err
		}
		return ResponseWriter{Name: value}, nil

	case "catch":
		value, err := l.oneArg(raw)
		if err != nil {
			return nil, err
		}
		catch := CatchWith{Handlers: splitList(value)}
		for _, flag := range l.Flags {
			if strings.TrimPrefix(flag.Name, "-") != "Writer" {
				return nil, errors.NewSyntaxError("unknown flag %q in %q", flag.Name, raw)
			}
			if flag.Value == nil {
				return nil, errors.NewSyntaxError("flag -Writer requires a value in %q", raw)
			}
			catch.Writers = splitList(*flag.Value)
		}
		return catch, nil

	default:
		return nil, errors.NewSyntaxError("unknown annotation kind %q in %q (known kinds: %s)",
			l.Kind, raw, strings.Join(knownKinds, ", "))
	}
}

func (l *restLine) oneArg(raw string) (string, error) {
	if len(l.Args) == 0 {
		return "", errors.NewSyntaxError("annotation %q requires an argument", raw)
	}
	return l.Args[0], nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
