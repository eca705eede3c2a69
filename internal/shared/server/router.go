package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfconvert-backend/internal/convert"
	"pdfconvert-backend/internal/shared/config"
	"pdfconvert-backend/internal/shared/metrics"
	"pdfconvert-backend/internal/shared/server/middleware"
	"pdfconvert-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config         config.Config
	ConvertHandler *convert.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	root := r.Group("/")
	if deps.Config.RateLimitPerMinute > 0 {
		root.Use(middleware.RateLimit(
			middleware.NewRateLimiter(nil),
			middleware.PerMinute(deps.Config.RateLimitPerMinute),
		))
	}
	deps.ConvertHandler.RegisterRoutes(root)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
