package adapters

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/restbind/restbind/internal/errors"
	"github.com/restbind/restbind/route"
)

// RegisterFiber registers resolved definitions with a Fiber app.
// Definitions whose path carries a regex constraint are rejected: Fiber's
// router only understands colon placeholders.
func RegisterFiber(app *fiber.App, iv *Invoker, definitions []*route.RouteDefinition) error {
	if err := iv.Validate(definitions); err != nil {
		return err
	}

	for _, d := range definitions {
		if d.PathIsRegEx() {
			return errors.NewPathError("fiber router does not support regex path %q", d.Path())
		}
		app.Add(d.Method(), nativePath(d), fiberHandler(iv, d))
	}
	return nil
}

func fiberHandler(iv *Invoker, d *route.RouteDefinition) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := iv.Handle(d, &fiberRequest{ctx: c})
		if resp.Status == http.StatusNoContent {
			return c.SendStatus(resp.Status)
		}
		if resp.ContentType != "" {
			c.Set(fiber.HeaderContentType, resp.ContentType)
		}
		return c.Status(resp.Status).Send(resp.Body)
	}
}

// fiberRequest adapts fiber.Ctx to the Request contract
type fiberRequest struct {
	ctx *fiber.Ctx
}

func (r *fiberRequest) PathParam(name string) string {
	return r.ctx.Params(name)
}

func (r *fiberRequest) Query(name string) string {
	return r.ctx.Query(name)
}

func (r *fiberRequest) Header(name string) string {
	return r.ctx.Get(name)
}

func (r *fiberRequest) Cookie(name string) (string, bool) {
	value := r.ctx.Cookies(name)
	return value, value != ""
}

func (r *fiberRequest) FormValue(name string) string {
	return r.ctx.FormValue(name)
}

func (r *fiberRequest) Body() ([]byte, error) {
	return r.ctx.Body(), nil
}
