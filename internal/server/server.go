package server

import (
	"fmt"
	"net/http"
	"time"

	"merch-nexus/internal/config"
	"merch-nexus/internal/database"
	custommiddleware "merch-nexus/internal/middleware"
	"merch-nexus/internal/repository"
	"merch-nexus/internal/service"
	"merch-nexus/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// NewServer wires repositories, services and handlers into the HTTP router.
// redisClient may be nil, in which case rate limiting is disabled.
func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) (*Server, error) {
	identity, err := identityMiddleware(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.IsDevelopment()))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health, err := db.Health(r.Context())
		if err != nil {
			logger.Error("Health check failed", zap.Error(err))
			custommiddleware.RespondWithJSON(w, http.StatusServiceUnavailable, health)
			return
		}
		custommiddleware.RespondWithJSON(w, http.StatusOK, health)
	})

	// Initialize repositories
	repos := repository.NewRepositories(db.DB())
	uow := repository.NewUnitOfWork(db.DB())

	// Initialize services
	catalogService := service.NewCatalogService(repos.Products, uow, logger)
	collectionService := service.NewCollectionService(repos.Collections, uow, logger)
	savedProductService := service.NewSavedProductService(repos.SavedProducts, repos.Users, repos.Products, repos.Collections, logger)
	profileService := service.NewProfileService(repos.Users, logger)

	// Register routes
	router.Route("/api", func(r chi.Router) {
		r.Use(identity)
		r.Use(custommiddleware.LoggingMiddleware(logger))
		if redisClient != nil && cfg.RateLimit.Requests > 0 {
			r.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.Requests,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         "merch-nexus:ratelimit",
			}, logger))
		}

		transport.NewProfileHandler(profileService, logger).RegisterRoutes(r)
		transport.NewProductHandler(catalogService, logger).RegisterRoutes(r)
		transport.NewCollectionHandler(collectionService, logger).RegisterRoutes(r)
		transport.NewSavedProductHandler(savedProductService, logger).RegisterRoutes(r)
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server, nil
}

// identityMiddleware picks the static development identity when one is
// configured, otherwise bearer token validation.
func identityMiddleware(cfg *config.Config, logger *zap.Logger) (func(http.Handler) http.Handler, error) {
	if cfg.Auth.DevUserID == "" {
		return custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger), nil
	}

	userID, err := uuid.Parse(cfg.Auth.DevUserID)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_DEV_USER_ID: %w", err)
	}
	return custommiddleware.StaticIdentityMiddleware(userID, logger), nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
