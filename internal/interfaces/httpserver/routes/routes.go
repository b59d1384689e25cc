package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/auth"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/metrics"
	"github.com/fileflux/fileflux-manager-webapp/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates gateway route registration.
type Routes struct {
	handlers  *handlers.Provider
	validator *auth.Validator
	metrics   *metrics.Metrics
}

func NewRoutes(provider *handlers.Provider, validator *auth.Validator, m *metrics.Metrics) *Routes {
	return &Routes{handlers: provider, validator: validator, metrics: m}
}

// Register attaches every gateway route. Bucket and object paths sit behind
// the basic-auth gate; /metrics and /create_user stay open.
func (r *Routes) Register(engine *gin.Engine) {
	engine.GET("/metrics", gin.WrapH(
		promhttp.HandlerFor(r.metrics.Registry, promhttp.HandlerOpts{}),
	))
	engine.POST("/create_user", r.handlers.User.Create)

	authed := engine.Group("/", r.validator.Middleware())
	authed.GET("/authenticate", r.handlers.User.Authenticate)
	authed.POST("/create_bucket/:bucket", r.handlers.Bucket.Create)
	authed.DELETE("/delete_bucket/:bucket", r.handlers.Bucket.Delete)
	authed.PUT("/upload/:bucket/*key", r.handlers.Object.Upload)
	authed.GET("/:bucket/*key", r.handlers.Object.Get)
	authed.HEAD("/:bucket/*key", r.handlers.Object.Head)
	authed.DELETE("/:bucket/*key", r.handlers.Object.Delete)
}
