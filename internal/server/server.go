package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pratofeito/backend/config"
	"github.com/pratofeito/backend/internal/api"
	"github.com/pratofeito/backend/internal/middleware"
	"github.com/pratofeito/backend/internal/router"
	"github.com/pratofeito/backend/internal/service"
	"github.com/pratofeito/backend/internal/sync"
)

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	http   *http.Server
}

// New wires services, handlers and routes into a runnable server.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	emailService := service.NewEmailService(cfg)

	authService := service.NewAuthService(db, cfg.JWTSecret)
	catalogService := service.NewCatalogService(db)
	customerService := service.NewCustomerService(db, emailService)
	menuService := service.NewMenuService(db)
	settingsService := service.NewSettingsService(db)
	materializerService := service.NewMaterializerService(db)
	orderService := service.NewOrderService(db)
	statusService := service.NewStatusService(db)
	archiverService := service.NewArchiverService(db)

	var photoService *service.PhotoService
	if s3Config, err := config.NewS3Config(context.Background()); err != nil {
		log.Printf("[SERVER] recipe photo uploads disabled: %v", err)
	} else {
		photoService = service.NewPhotoService(s3Config)
	}

	// Outbound integrations stay nil when unconfigured; their
	// endpoints answer 503 instead of failing startup.
	var sheetsService *sync.SheetsService
	if auth, err := sync.NewGoogleAuth(cfg); err != nil {
		log.Printf("[SERVER] sheets sync disabled: %v", err)
	} else if sheetsService, err = sync.NewSheetsService(cfg, auth, orderService, customerService, statusService); err != nil {
		log.Printf("[SERVER] sheets sync disabled: %v", err)
		sheetsService = nil
	}

	erpService, err := sync.NewERPService(cfg, orderService, catalogService)
	if err != nil {
		log.Printf("[SERVER] ERP sync disabled: %v", err)
	}
	chatService, err := sync.NewChatService(cfg, orderService)
	if err != nil {
		log.Printf("[SERVER] chat sync disabled: %v", err)
	}

	handlers := router.Handlers{
		Auth:     api.NewAuthHandler(authService),
		Recipe:   api.NewRecipeHandler(catalogService, photoService),
		Customer: api.NewCustomerHandler(customerService),
		Menu:     api.NewMenuHandler(menuService),
		Order:    api.NewOrderHandler(orderService, materializerService, statusService, archiverService),
		Settings: api.NewSettingsHandler(settingsService),
		Sync:     api.NewSyncHandler(sheetsService, erpService, chatService),
		Webhook:  api.NewWebhookHandler(customerService, orderService, catalogService),
	}

	engine := router.SetupRouter(
		handlers,
		authService,
		middleware.NewRegistrationRateLimiter(redisClient),
		middleware.NewSyncRateLimiter(redisClient),
	)

	return &Server{cfg: cfg, engine: engine}
}

// Start begins serving and blocks until the listener fails or is shut
// down.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    s.cfg.ServerHost + ":" + s.cfg.ServerPort,
		Handler: s.engine,
	}

	log.Printf("[SERVER] listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
