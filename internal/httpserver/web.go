package httpserver

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/lodging-intake-service/web"
)

var webAssets = []struct {
	route, file, contentType string
}{
	{"/", "index.html", "text/html; charset=utf-8"},
	{"/app.js", "app.js", "text/javascript; charset=utf-8"},
	{"/style.css", "style.css", "text/css; charset=utf-8"},
}

// registerWebRoutes serves the embedded browser form.
func registerWebRoutes(r gin.IRoutes) {
	for _, a := range webAssets {
		data, err := fs.ReadFile(web.Files, a.file)
		if err != nil {
			// The files are embedded at build time.
			panic(err)
		}
		contentType := a.contentType
		r.GET(a.route, func(c *gin.Context) {
			c.Data(http.StatusOK, contentType, data)
		})
	}
}
