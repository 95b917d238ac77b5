package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restbind/restbind/annotations"
)

func classDef(t *testing.T, anns ...annotations.Annotation) *RouteDefinition {
	t.Helper()
	d, err := NewClassDefinition(&ControllerMeta{Name: "TestController", Annotations: anns})
	require.NoError(t, err)
	return d
}

func methodDef(t *testing.T, base *RouteDefinition, anns ...annotations.Annotation) *RouteDefinition {
	t.Helper()
	d, err := NewMethodDefinition(base, anns)
	require.NoError(t, err)
	return d
}

func TestSetPath_Composition(t *testing.T) {
	testCases := []struct {
		name     string
		paths    []string
		expected string
	}{
		{
			name:     "root on default is a no-op",
			paths:    []string{"/"},
			expected: "/",
		},
		{
			name:     "sub path replaces default root",
			paths:    []string{"/users"},
			expected: "/users",
		},
		{
			name:     "sub path appends to existing path",
			paths:    []string{"/a", "foo/"},
			expected: "/a/foo",
		},
		{
			name:     "missing leading slash synthesized",
			paths:    []string{"users"},
			expected: "/users",
		},
		{
			name:     "trailing slash stripped",
			paths:    []string{"/users/"},
			expected: "/users",
		},
		{
			name:     "root on non-default path keeps existing",
			paths:    []string{"/users", "/"},
			expected: "/users",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := classDef(t)
			for _, p := range tc.paths {
				require.NoError(t, d.SetPath(p))
			}
			assert.Equal(t, tc.expected, d.Path())
		})
	}
}

func TestSetPath_RootLeavesRoutePathUnchanged(t *testing.T) {
	d := classDef(t)
	require.NoError(t, d.SetPath("/"))
	assert.Equal(t, "/", d.Path())
	assert.Equal(t, "", d.RoutePath())
}

func TestSetPath_EmptyFails(t *testing.T) {
	d := classDef(t)
	assert.Error(t, d.SetPath(""))
	assert.Error(t, d.SetPath("   "))
}

func TestSetPath_RebuildsParams(t *testing.T) {
	d := classDef(t, annotations.Path{Value: "/users/{id}"})
	require.Len(t, d.Parameters(), 1)
	assert.Equal(t, "/users/:id", d.RoutePath())

	require.NoError(t, d.SetPath("/posts/{slug}"))
	params := d.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, "id", params[0].Name)
	assert.Equal(t, "slug", params[1].Name)
	assert.Equal(t, "/users/:id/posts/:slug", d.RoutePath())
}

func TestClassDefinition_InheritedPathAnnotation(t *testing.T) {
	parent := &ControllerMeta{
		Name:        "BaseController",
		Annotations: []annotations.Annotation{annotations.Path{Value: "/base"}, annotations.GET},
	}
	child := &ControllerMeta{Name: "ChildController", Inherits: []*ControllerMeta{parent}}

	d, err := NewClassDefinition(child)
	require.NoError(t, err)
	assert.Equal(t, "/base", d.Path())
	assert.Equal(t, "GET", d.Method())
}

func TestClassDefinition_FallsBackToItself(t *testing.T) {
	meta := &ControllerMeta{
		Name:        "PlainController",
		Annotations: []annotations.Annotation{annotations.POST},
	}
	d, err := NewClassDefinition(meta)
	require.NoError(t, err)
	assert.Equal(t, "/", d.Path())
	assert.Equal(t, "POST", d.Method())
}

func TestMethodDefinition_InheritsAndOverrides(t *testing.T) {
	base := classDef(t,
		annotations.Path{Value: "/api"},
		annotations.GET,
		annotations.Produces{Types: []string{"application/json"}},
		annotations.RequestReader{Name: "json"},
	)

	d := methodDef(t, base,
		annotations.Path{Value: "/users/{id}"},
		annotations.POST,
	)

	assert.Equal(t, "/api/users/{id}", d.Path())
	assert.Equal(t, "/api/users/:id", d.RoutePath())
	assert.Equal(t, "POST", d.Method())
	require.Len(t, d.Produces(), 1)
	assert.Equal(t, "application/json", d.Produces()[0].String())
	assert.Equal(t, "json", d.Reader())

	// base stays untouched
	assert.Equal(t, "/api", base.Path())
	assert.Equal(t, "GET", base.Method())
}

func TestMethodDefinition_RetainsClassFieldsWhenUnannotated(t *testing.T) {
	base := classDef(t,
		annotations.Path{Value: "/api"},
		annotations.DELETE,
		annotations.Consumes{Types: []string{"application/json"}},
	)

	d := methodDef(t, base)
	assert.Equal(t, "/api", d.Path())
	assert.Equal(t, "DELETE", d.Method())
	require.Len(t, d.Consumes(), 1)
}

func TestSecurity_RolesInherited(t *testing.T) {
	base := classDef(t, annotations.RolesAllowed{Roles: []string{"admin"}})

	d := methodDef(t, base)
	assert.Equal(t, AccessRoles, d.Access())
	assert.Equal(t, []string{"admin"}, d.Roles())
	assert.True(t, d.CheckSecurity())
}

func TestSecurity_MethodPermitAllOverridesClassRoles(t *testing.T) {
	base := classDef(t, annotations.RolesAllowed{Roles: []string{"admin"}})

	d := methodDef(t, base, annotations.PermitAll{})
	assert.Equal(t, AccessPermitAll, d.Access())
	assert.Nil(t, d.Roles())
	assert.True(t, d.CheckSecurity())
}

func TestSecurity_RolesClearPermitAll(t *testing.T) {
	d := classDef(t, annotations.PermitAll{}, annotations.RolesAllowed{Roles: []string{"user"}})
	assert.Equal(t, AccessRoles, d.Access())
	assert.Equal(t, []string{"user"}, d.Roles())
}

func TestSecurity_DenyAllClearsRoles(t *testing.T) {
	d := classDef(t, annotations.RolesAllowed{Roles: []string{"user"}}, annotations.DenyAll{})
	assert.Equal(t, AccessDenyAll, d.Access())
	assert.Nil(t, d.Roles())
	assert.True(t, d.CheckSecurity())
}

func TestCheckSecurity_TruthTable(t *testing.T) {
	assert.False(t, classDef(t).CheckSecurity())
	assert.False(t, classDef(t, annotations.RolesAllowed{Roles: nil}).CheckSecurity())
	assert.True(t, classDef(t, annotations.PermitAll{}).CheckSecurity())
	assert.True(t, classDef(t, annotations.DenyAll{}).CheckSecurity())
	assert.True(t, classDef(t, annotations.RolesAllowed{Roles: []string{"x"}}).CheckSecurity())
}

func TestMediaTypes_EmptyListFails(t *testing.T) {
	_, err := NewClassDefinition(&ControllerMeta{
		Name:        "Broken",
		Annotations: []annotations.Annotation{annotations.Consumes{}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consumes")

	_, err = NewClassDefinition(&ControllerMeta{
		Name:        "Broken",
		Annotations: []annotations.Annotation{annotations.Produces{}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "produces")
}

func TestMediaTypes_UnparseableDiscardedToUnconstrained(t *testing.T) {
	d := classDef(t, annotations.Produces{Types: []string{"not a media type"}})
	assert.Nil(t, d.Produces())
}

func TestMethodResolution(t *testing.T) {
	d := classDef(t, annotations.Method{Verb: "get"})
	assert.Equal(t, "GET", d.Method())

	// unknown verbs are ignored, method stays unchanged
	d2 := classDef(t, annotations.GET, annotations.Method{Verb: "BOGUS"})
	assert.Equal(t, "GET", d2.Method())
}

func TestRequestHasBody(t *testing.T) {
	assert.False(t, classDef(t, annotations.GET).RequestHasBody())
	assert.False(t, classDef(t, annotations.HEAD).RequestHasBody())
	assert.True(t, classDef(t, annotations.POST).RequestHasBody())
	assert.True(t, classDef(t, annotations.DELETE).RequestHasBody())
}

func TestCatchWith(t *testing.T) {
	d := classDef(t, annotations.CatchWith{Handlers: []string{"notfound", "default"}, Writers: []string{"json"}})
	assert.Equal(t, []string{"notfound", "default"}, d.FailureHandlers())
	assert.Equal(t, []string{"json"}, d.FailureWriters())
}

func TestBlockingAndOrder(t *testing.T) {
	d := classDef(t, annotations.Blocking{Value: true}, annotations.Order{Value: 5})
	assert.True(t, d.IsBlocking())
	assert.Equal(t, 5, d.Order())
}

func TestString(t *testing.T) {
	d := classDef(t, annotations.GET, annotations.Path{Value: "/users/{id}"})
	assert.Equal(t, "     GET /users/:id", d.String())

	secured := classDef(t, annotations.POST, annotations.Path{Value: "/admin"}, annotations.RolesAllowed{Roles: []string{"admin", "ops"}})
	assert.Equal(t, "    POST /admin  [admin, ops]", secured.String())

	denied := classDef(t, annotations.DELETE, annotations.Path{Value: "/x"}, annotations.DenyAll{})
	assert.Equal(t, "  DELETE /x  @DenyAll", denied.String())
}
