package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pratofeito/backend/internal/api"
	"github.com/pratofeito/backend/internal/middleware"
	"github.com/pratofeito/backend/internal/models"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth     *api.AuthHandler
	Recipe   *api.RecipeHandler
	Customer *api.CustomerHandler
	Menu     *api.MenuHandler
	Order    *api.OrderHandler
	Settings *api.SettingsHandler
	Sync     *api.SyncHandler
	Webhook  *api.WebhookHandler
}

// SetupRouter configures the application routes.
func SetupRouter(
	h Handlers,
	validator middleware.TokenValidator,
	registrationLimiter *middleware.RateLimiter,
	syncLimiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")

	// Auth routes
	h.Auth.RegisterRoutes(v1)

	// Public routes: customer self-registration and chat webhooks
	h.Customer.RegisterPublicRoutes(v1, registrationLimiter.ByClientIP())
	h.Webhook.RegisterRoutes(v1)

	// Protected routes for any staff role
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))
	{
		h.Recipe.RegisterRoutes(protected)
		h.Menu.RegisterRoutes(protected)
		h.Order.RegisterRoutes(protected)
	}

	// Admin-only routes: customer management, portion defaults and
	// outbound integrations
	admin := v1.Group("")
	admin.Use(middleware.AuthMiddleware(validator), middleware.RequireRole(models.RoleAdmin))
	{
		h.Customer.RegisterRoutes(admin)
		h.Settings.RegisterRoutes(admin)

		syncGroup := admin.Group("")
		syncGroup.Use(syncLimiter.ByUser())
		h.Sync.RegisterRoutes(syncGroup)
	}

	return router
}
