package container

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/driftr-app/driftr-backend/internal/config"
	httpdelivery "github.com/driftr-app/driftr-backend/internal/delivery/http"
	"github.com/driftr-app/driftr-backend/internal/delivery/http/handler"
	"github.com/driftr-app/driftr-backend/internal/delivery/http/middleware"
	"github.com/driftr-app/driftr-backend/internal/infrastructure/billing"
	"github.com/driftr-app/driftr-backend/internal/infrastructure/database"
	"github.com/driftr-app/driftr-backend/internal/infrastructure/gemini"
	"github.com/driftr-app/driftr-backend/internal/infrastructure/geocode"
	"github.com/driftr-app/driftr-backend/internal/infrastructure/pubsub"
	"github.com/driftr-app/driftr-backend/internal/infrastructure/server"
	"github.com/driftr-app/driftr-backend/internal/repository/postgres"
	"github.com/driftr-app/driftr-backend/internal/usecase/auth"
	"github.com/driftr-app/driftr-backend/internal/usecase/builder"
	"github.com/driftr-app/driftr-backend/internal/usecase/chat"
	"github.com/driftr-app/driftr-backend/internal/usecase/discovery"
	"github.com/driftr-app/driftr-backend/internal/usecase/premium"
	"github.com/driftr-app/driftr-backend/internal/usecase/profile"
	"github.com/driftr-app/driftr-backend/internal/usecase/wave"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server
	Gemini *gemini.Client
	Logger *slog.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, log *slog.Logger) (*Container, error) {
	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Redis backs chat pub/sub and read markers; the app still works
	// without it, just with realtime features disabled.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient, err = database.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, realtime chat disabled", "error", err)
			redisClient = nil
		}
	}

	// Gemini powers icebreaker suggestions, also optional.
	var geminiClient *gemini.Client
	if cfg.GeminiAPIKey != "" {
		geminiClient, err = gemini.NewClient(cfg.GeminiAPIKey)
		if err != nil {
			log.Warn("gemini unavailable, icebreakers disabled", "error", err)
			geminiClient = nil
		}
	}

	var stripeClient *billing.StripeClient
	if cfg.Stripe.APIKey != "" {
		stripeClient = billing.NewStripeClient(cfg.Stripe.APIKey)
	}

	geocoder := geocode.NewNominatimClient(&cfg.Geocoder)

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	waveRepo := postgres.NewWaveRepository(db)
	waveCountRepo := postgres.NewWaveCountRepository(db)
	matchRepo := postgres.NewMatchRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)

	// Initialize use cases
	authUseCase := auth.NewAuthUseCase(
		userRepo,
		profileRepo,
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.ExpiryMin)*time.Minute,
	)

	profileUseCase := profile.NewProfileUseCase(profileRepo, geocoder, log)

	var billingProvider premium.BillingProvider
	if stripeClient != nil {
		billingProvider = stripeClient
	}
	premiumChecker := premium.NewChecker(profileRepo, billingProvider, log)

	var icebreakerSource wave.IcebreakerSource
	if geminiClient != nil {
		icebreakerSource = geminiClient
	}
	enricher := wave.NewEnricher(profileRepo, matchRepo, icebreakerSource, log)

	sessionManager := discovery.NewManager(discovery.Deps{
		Profiles:        profileRepo,
		Waves:           waveRepo,
		Counts:          waveCountRepo,
		Matches:         matchRepo,
		Premium:         premiumChecker,
		Enricher:        enricher,
		Haptics:         discovery.NopHaptics{},
		Log:             log,
		RadiusKm:        cfg.Discovery.DefaultRadiusKm,
		MaxCandidates:   cfg.Discovery.MaxCandidates,
		MatchRetries:    cfg.Discovery.MatchRetries,
		MatchRetryDelay: cfg.Discovery.MatchRetryDelay,
	})

	var broker chat.Broker
	var readMarker chat.ReadMarker
	if redisClient != nil {
		broker = pubsub.NewRedisBroker(redisClient)
		readMarker = pubsub.NewRedisReadMarker(redisClient)
	}
	chatUseCase := chat.NewChatUseCase(matchRepo, messageRepo, profileRepo, broker, readMarker, log)

	builderUseCase := builder.NewBuilderUseCase(profileRepo, reviewRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUseCase)
	profileHandler := handler.NewProfileHandler(profileUseCase)
	discoveryHandler := handler.NewDiscoveryHandler(sessionManager, premiumChecker)
	chatHandler := handler.NewChatHandler(chatUseCase, log)
	builderHandler := handler.NewBuilderHandler(builderUseCase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUseCase)

	// Initialize router
	router := httpdelivery.NewRouter(
		authHandler,
		profileHandler,
		discoveryHandler,
		chatHandler,
		builderHandler,
		authMiddleware,
		log,
	)

	ginRouter := router.Setup()

	srv := server.NewServer(&cfg.Server, ginRouter, log)

	return &Container{
		Config: cfg,
		DB:     db,
		Redis:  redisClient,
		Server: srv,
		Gemini: geminiClient,
		Logger: log,
	}, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Gemini != nil {
		c.Gemini.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("error closing redis", "error", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
