// Package router assembles the gin engine: middleware chain, public
// routes and the role-gated dashboard groups.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"w9ayt_delivery_server/internal/config"
	"w9ayt_delivery_server/internal/handler"
	"w9ayt_delivery_server/internal/infrastructure/logger"
	"w9ayt_delivery_server/internal/infrastructure/middleware"
)

// New builds the engine with logging, recovery and CORS, then mounts
// every route group.
func New(cfg *config.Config, handlers *handler.Handlers) *gin.Engine {
	if cfg.MainConfig.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(logger.GinLogger(), logger.GinRecovery(true))
	if cfg.MainConfig.Mode == "release" {
		r.Use(middleware.TlsHandler(cfg.MainConfig.Host, cfg.MainConfig.Port))
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	registerAuthRoutes(r, handlers)
	registerPublicRoutes(r, handlers)
	registerClientRoutes(r, handlers)
	registerCompanyRoutes(r, handlers)
	registerDriverRoutes(r, handlers)
	registerAdminRoutes(r, handlers)
	registerChatRoutes(r, handlers)

	return r
}
