package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/middleware"
	"github.com/SscSPs/bizcore/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// A nil limiter disables rate limiting.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, cfg, services, rateLimiter)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	if rateLimiter != nil {
		// Runs after auth so limits are keyed per player.
		v1.Use(middleware.RateLimit(rateLimiter))
	}

	RegisterBusinessRoutes(v1, services.Business)
	RegisterStaffRoutes(v1, services.Position, services.Employee)
	RegisterHiringRoutes(v1, services.Hiring)
	RegisterEconomyRoutes(v1, services.Payroll, services.Revenue, services.Reporting)
}
