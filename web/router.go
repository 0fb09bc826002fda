package web

import (
	"encoding/json"
	"net/http"
	"net/http/httputil"
	"net/url"

	"yarn_inventory/app"
	"yarn_inventory/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the page routes, the stylesheet and the /api proxy.
func NewRouter(srv *Server, apiBase *url.URL, logger *zap.Logger) (*gin.Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ts, err := LoadTemplates(TemplatesFS())
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(app.RequestIDMiddleware())
	r.Use(app.RequestLogger(logger.Named("http")))
	r.Use(app.Recovery(logger.Named("panic")))
	r.HTMLRender = ts

	r.StaticFS("/static", http.FS(StaticFS()))

	proxy := apiProxy(apiBase, logger.Named("proxy"))
	r.Any("/api/*path", func(c *gin.Context) {
		// the API logs under the same request id
		c.Request.Header.Set(app.RequestIDHeader, app.RequestID(c))
		proxy.ServeHTTP(c.Writer, c.Request)
	})

	r.GET("/", srv.YarnList)
	r.POST("/delete/:id", srv.YarnDelete)
	r.GET("/create", srv.YarnCreate)
	r.POST("/create", srv.YarnCreateSubmit)
	r.GET("/edit/:id", srv.YarnEdit)
	r.POST("/edit/:id", srv.YarnEditSubmit)

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Page not found")
	})

	return r, nil
}

// apiProxy forwards /api/* unchanged to the API, rewriting Host to the
// target's.
func apiProxy(target *url.URL, logger *zap.Logger) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ModifyResponse: func(resp *http.Response) error {
			// already set by RequestIDMiddleware on this side
			resp.Header.Del(app.RequestIDHeader)
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("proxy request failed", zap.String("path", r.URL.Path), zap.Error(err))
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: msgUnreachable})
		},
	}
}
