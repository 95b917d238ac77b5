package adapters

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/restbind/restbind/internal/errors"
	"github.com/restbind/restbind/route"
)

// RegisterEcho registers resolved definitions with an Echo instance.
// Definitions whose path carries a regex constraint are rejected: Echo's
// router only understands colon placeholders.
func RegisterEcho(e *echo.Echo, iv *Invoker, definitions []*route.RouteDefinition) error {
	if err := iv.Validate(definitions); err != nil {
		return err
	}

	for _, d := range definitions {
		if d.PathIsRegEx() {
			return errors.NewPathError("echo router does not support regex path %q", d.Path())
		}
		e.Add(d.Method(), nativePath(d), echoHandler(iv, d))
	}
	return nil
}

func echoHandler(iv *Invoker, d *route.RouteDefinition) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := iv.Handle(d, &echoRequest{ctx: c})
		if resp.Status == http.StatusNoContent {
			return c.NoContent(resp.Status)
		}
		return c.Blob(resp.Status, resp.ContentType, resp.Body)
	}
}

// echoRequest adapts echo.Context to the Request contract
type echoRequest struct {
	ctx  echo.Context
	body []byte
	read bool
}

func (r *echoRequest) PathParam(name string) string {
	return r.ctx.Param(name)
}

func (r *echoRequest) Query(name string) string {
	return r.ctx.QueryParam(name)
}

func (r *echoRequest) Header(name string) string {
	return r.ctx.Request().Header.Get(name)
}

func (r *echoRequest) Cookie(name string) (string, bool) {
	cookie, err := r.ctx.Cookie(name)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

func (r *echoRequest) FormValue(name string) string {
	return r.ctx.FormValue(name)
}

func (r *echoRequest) Body() ([]byte, error) {
	if r.read {
		return r.body, nil
	}
	data, err := io.ReadAll(r.ctx.Request().Body)
	if err != nil {
		return nil, err
	}
	r.body, r.read = data, true
	return data, nil
}
