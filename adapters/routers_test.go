package adapters

import (
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restbind/restbind/annotations"
	"github.com/restbind/restbind/route"
)

func echoRoutes(t *testing.T) []*route.RouteDefinition {
	t.Helper()
	get, err := route.Handler("Echo",
		func(param string) string { return param },
		"//rest::get\n//rest::path /echo/{param}",
		route.ArgOf("param", reflect.TypeOf(""), annotations.PathParam{Name: "param"}),
	)
	require.NoError(t, err)

	type message struct {
		Text string `json:"text"`
	}
	post, err := route.Handler("Post",
		func(m message) message { return m },
		"//rest::post\n//rest::path /messages",
		route.ArgOf("m", reflect.TypeOf(message{})),
	)
	require.NoError(t, err)

	meta, err := route.Controller("ApiController", "//rest::path /application", get, post)
	require.NoError(t, err)

	definitions, err := route.Resolve(meta)
	require.NoError(t, err)
	return definitions
}

func regexRoute(t *testing.T) []*route.RouteDefinition {
	t.Helper()
	handler, err := route.Handler("Get",
		func(id string) string { return id },
		"//rest::get\n//rest::path /users/{id:[0-9]+}",
		route.ArgOf("id", reflect.TypeOf(""), annotations.PathParam{Name: "id"}),
	)
	require.NoError(t, err)

	meta, err := route.Controller("RegexController", "", handler)
	require.NoError(t, err)

	definitions, err := route.Resolve(meta)
	require.NoError(t, err)
	return definitions
}

func TestRegisterEcho(t *testing.T) {
	e := echo.New()
	require.NoError(t, RegisterEcho(e, NewInvoker(), echoRoutes(t)))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/application/echo/hello", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"hello"`, rec.Body.String())

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/application/messages", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"text":"hi"}`, rec.Body.String())
}

func TestRegisterEcho_RejectsRegexPath(t *testing.T) {
	err := RegisterEcho(echo.New(), NewInvoker(), regexRoute(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support regex path")
}

func TestRegisterGin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	require.NoError(t, RegisterGin(engine, NewInvoker(), echoRoutes(t)))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/application/echo/hello", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"hello"`, rec.Body.String())
}

func TestRegisterGin_RejectsRegexPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	err := RegisterGin(gin.New(), NewInvoker(), regexRoute(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support regex path")
}

func TestRegisterFiber(t *testing.T) {
	app := fiber.New()
	require.NoError(t, RegisterFiber(app, NewInvoker(), echoRoutes(t)))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/application/echo/hello", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `"hello"`, string(body))
}

func TestRegisterFiber_RejectsRegexPath(t *testing.T) {
	err := RegisterFiber(fiber.New(), NewInvoker(), regexRoute(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support regex path")
}
