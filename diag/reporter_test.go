package diag

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restbind/restbind/annotations"
	"github.com/restbind/restbind/internal/errors"
	"github.com/restbind/restbind/route"
)

func TestReportRoutes(t *testing.T) {
	color.NoColor = true

	meta := &route.ControllerMeta{
		Name:        "UserController",
		Annotations: []annotations.Annotation{annotations.Path{Value: "/users"}},
		Handlers: []*route.HandlerMeta{
			{
				Name:        "List",
				Annotations: []annotations.Annotation{annotations.GET},
			},
			{
				Name: "Purge",
				Annotations: []annotations.Annotation{
					annotations.DELETE,
					annotations.Path{Value: "/purge"},
					annotations.Blocking{Value: true},
					annotations.DenyAll{},
				},
			},
		},
	}
	definitions, err := route.Resolve(meta)
	require.NoError(t, err)

	var buf bytes.Buffer
	NewReporterTo(&buf, false).ReportRoutes(definitions)

	out := buf.String()
	assert.Contains(t, out, "     GET /users")
	assert.Contains(t, out, "  DELETE /users/purge  @DenyAll  (blocking)")
}

func TestReportRoutes_VerboseListsParameters(t *testing.T) {
	color.NoColor = true

	meta := &route.ControllerMeta{
		Name: "UserController",
		Handlers: []*route.HandlerMeta{{
			Name:        "Get",
			Annotations: []annotations.Annotation{annotations.GET, annotations.Path{Value: "/users/{id}"}},
			Args:        []route.ArgMeta{route.Arg("id", "", annotations.PathParam{Name: "id"})},
		}},
	}
	definitions, err := route.Resolve(meta)
	require.NoError(t, err)

	var buf bytes.Buffer
	NewReporterTo(&buf, true).ReportRoutes(definitions)
	assert.Contains(t, buf.String(), "path{id string @0}")
}

func TestReportError_PrintsHints(t *testing.T) {
	color.NoColor = true

	err := errors.NewBindingError("missing argument annotation").
		WithHints("annotate the argument with PathParam or QueryParam")

	var buf bytes.Buffer
	NewReporterTo(&buf, false).ReportError(err)

	out := buf.String()
	assert.Contains(t, out, "ERROR:")
	assert.Contains(t, out, "missing argument annotation")
	assert.Contains(t, out, "Suggestions:")
	assert.Contains(t, out, "annotate the argument with PathParam or QueryParam")
}
