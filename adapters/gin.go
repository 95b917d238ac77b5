package adapters

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/restbind/restbind/internal/errors"
	"github.com/restbind/restbind/route"
)

// RegisterGin registers resolved definitions with a Gin engine.
// Definitions whose path carries a regex constraint are rejected: Gin's
// router only understands colon placeholders.
func RegisterGin(engine *gin.Engine, iv *Invoker, definitions []*route.RouteDefinition) error {
	if err := iv.Validate(definitions); err != nil {
		return err
	}

	for _, d := range definitions {
		if d.PathIsRegEx() {
			return errors.NewPathError("gin router does not support regex path %q", d.Path())
		}
		engine.Handle(d.Method(), nativePath(d), ginHandler(iv, d))
	}
	return nil
}

func ginHandler(iv *Invoker, d *route.RouteDefinition) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := iv.Handle(d, &ginRequest{ctx: c})
		if resp.Status == http.StatusNoContent {
			c.Status(resp.Status)
			return
		}
		c.Data(resp.Status, resp.ContentType, resp.Body)
	}
}

// ginRequest adapts gin.Context to the Request contract
type ginRequest struct {
	ctx  *gin.Context
	body []byte
	read bool
}

func (r *ginRequest) PathParam(name string) string {
	return r.ctx.Param(name)
}

func (r *ginRequest) Query(name string) string {
	return r.ctx.Query(name)
}

func (r *ginRequest) Header(name string) string {
	return r.ctx.GetHeader(name)
}

func (r *ginRequest) Cookie(name string) (string, bool) {
	value, err := r.ctx.Cookie(name)
	if err != nil {
		return "", false
	}
	return value, true
}

func (r *ginRequest) FormValue(name string) string {
	return r.ctx.PostForm(name)
}

func (r *ginRequest) Body() ([]byte, error) {
	if r.read {
		return r.body, nil
	}
	data, err := r.ctx.GetRawData()
	if err != nil {
		return nil, err
	}
	r.body, r.read = data, true
	return data, nil
}
