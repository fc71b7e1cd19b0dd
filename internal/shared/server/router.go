package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/shared/config"
	"talent-backend/internal/shared/metrics"
	"talent-backend/internal/shared/server/middleware"
	"talent-backend/internal/shared/server/respond"
)

const (
	apiPrefix      = "/api/v1"
	runsRateGroup  = "RUNS"
	defaultRPS     = 5.0
	defaultBurst   = 20
	runsRPSDivisor = 5
)

// RouteRegistrar is implemented by every feature handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// DevRouteRegistrar is implemented by handlers that expose dev-only routes.
type DevRouteRegistrar interface {
	RegisterDevRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries handlers and config needed to build the router.
type RouterDeps struct {
	Config   config.Config
	Health   func(ctx context.Context) (map[string]any, bool)
	Handlers []RouteRegistrar
	Dev      []DevRouteRegistrar
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	cfg := deps.Config

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group(apiPrefix)
	api.Use(
		middleware.Identity(apiPrefix+"/health"),
		middleware.RateLimit(rateLimitConfig(cfg.RateLimit)),
	)
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, gin.H{"ok": true})
			return
		}
		status, ok := deps.Health(c.Request.Context())
		if !ok {
			respond.JSON(c, http.StatusServiceUnavailable, status)
			return
		}
		respond.OK(c, status)
	})
	registerMeRoutes(api)

	for _, h := range deps.Handlers {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}
	if config.IsDevLike(cfg.Env) && len(deps.Dev) > 0 {
		dev := api.Group("/dev")
		for _, h := range deps.Dev {
			if h != nil {
				h.RegisterDevRoutes(dev)
			}
		}
	}

	return r
}

// rateLimitConfig gives recommendation and metrics runs a tighter budget
// than plain reads.
func rateLimitConfig(cfg config.RateLimitConfig) middleware.RateLimitConfig {
	rps := cfg.RPS
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT":     {Rate: rps, Burst: burst},
			runsRateGroup: {Rate: rps / runsRPSDivisor, Burst: max(1, burst/runsRPSDivisor)},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method != http.MethodPost {
				return ""
			}
			path := c.Request.URL.Path
			if strings.HasSuffix(path, "/recommendations") || strings.HasSuffix(path, "/metrics") {
				return runsRateGroup
			}
			return ""
		},
	}
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
