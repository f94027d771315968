package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/container"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/helpers"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/validation"
)

// NewEngine builds the gin engine with global middleware and every module registered,
// reading its settings from the container.
func NewEngine() (*gin.Engine, Deps, error) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	validation.Init()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "HEAD", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", helpers.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", helpers.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if m := container.GetMetrics(); m != nil {
		r.Use(middleware.Metrics(m))
	}
	if cfg.HTTPLogEnabled {
		if cfg.TrustProxyHeaders {
			r.Use(middleware.RealIP())
		}
		r.Use(middleware.RequestLogger(logger))
	}
	r.Use(middleware.ErrorHandler(logger))

	reg := NewRegistry(r, cfg.APIPrefix)
	deps, err := InitModules(reg)
	if err != nil {
		return nil, Deps{}, err
	}
	reg.RegisterAll()
	return r, deps, nil
}
