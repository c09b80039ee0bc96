package server

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fadhilmahendra/otoboost/internal/config"
	"github.com/fadhilmahendra/otoboost/internal/domain"
	"github.com/fadhilmahendra/otoboost/internal/handler"
	"github.com/fadhilmahendra/otoboost/internal/middleware"
	"github.com/fadhilmahendra/otoboost/internal/repository"
	"github.com/fadhilmahendra/otoboost/internal/service"
	"github.com/fadhilmahendra/otoboost/internal/telemetry"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	AuthClient  service.FirebaseAuthClient
	// PaymentProvider overrides the config-derived provider when set (tests)
	PaymentProvider service.PaymentProvider
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	// Initialize repositories
	listingRepo := repository.NewMongoListingRepository(deps.MongoDB)
	garageRepo := repository.NewMongoGarageRepository(deps.MongoDB)
	offerRepo := repository.NewMongoOfferRepository(deps.MongoDB)
	userRepo := repository.NewMongoUserRepository(deps.MongoDB)
	auditRepo := repository.NewMongoAuditRepository(deps.MongoDB)
	invoiceRepo := repository.NewMongoInvoiceRepository(deps.MongoDB)

	cacheRepo := repository.NewRedisCacheRepository(deps.RedisClient)
	packageRepo := repository.NewCachedPackageRepository(
		repository.NewMongoPackageRepository(deps.MongoDB),
		cacheRepo,
	)

	mediaRepo, err := repository.NewS3MediaRepository(context.Background(), deps.Config.S3)
	if err != nil {
		log.Printf("Warning: Failed to initialize media repository: %v", err)
	}

	// Initialize services
	adapter := service.NewEntityAdapter(listingRepo, garageRepo, offerRepo)
	catalogService := service.NewCatalogService(packageRepo)

	paymentProvider := deps.PaymentProvider
	if paymentProvider == nil {
		paymentProvider = service.NewPaymentProvider(deps.Config.IPaymu)
	}

	moderationService := service.NewModerationService(adapter, catalogService, paymentProvider, auditRepo)
	requestService := service.NewBoostRequestService(adapter, userRepo, catalogService)
	checkoutService := service.NewCheckoutService(adapter, catalogService, invoiceRepo, paymentProvider, moderationService)
	authService := service.NewAuthService(userRepo, deps.AuthClient, deps.Config.JWT.Secret)

	// Initialize handlers
	boostHandler := handler.NewBoostHandler(requestService, moderationService)
	packageHandler := handler.NewPackageHandler(catalogService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	webhookHandler := handler.NewWebhookHandler(checkoutService, deps.Config.IPaymu.APIKey, deps.Config.IPaymu.VA)
	authHandler := handler.NewAuthHandler(authService)
	entityHandler := handler.NewEntityHandler(listingRepo, garageRepo, offerRepo)

	var mediaHandler *handler.MediaHandler
	if mediaRepo != nil {
		mediaHandler = handler.NewMediaHandler(mediaRepo)
	} else {
		mediaHandler = handler.NewMediaHandler(nil)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "OtoBoost API",
		BodyLimit:    int(deps.Config.Server.MaxUploadSizeMB * 1024 * 1024),
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	if deps.Config.OTEL.Enabled {
		app.Use(telemetry.FiberMiddleware())
	}

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "otoboost-api",
		})
	})

	// API v1 routes
	v1 := app.Group("/v1")

	// Auth endpoints (public)
	auth := v1.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// Public catalog and entity detail pages
	v1.Get("/packages", packageHandler.ListForPurchase)
	v1.Get("/listings/:id", entityHandler.GetListing)
	v1.Get("/garages/:id", entityHandler.GetGarage)
	v1.Get("/offers/:id", entityHandler.GetOffer)

	// Payment webhook (public, HMAC-verified)
	v1.Post("/payments/webhook/ipaymu", webhookHandler.IPAYMUWebhook)

	// ===========================================
	// MEMBER API - /v1/me/* (requires 'member' role)
	// ===========================================
	me := v1.Group("/me")
	me.Use(middleware.VerifyOtoboostToken(deps.Config.JWT.Secret))
	me.Use(middleware.AuthorizeRole(domain.RoleMember, domain.RoleAdmin))

	me.Post("/listings", entityHandler.CreateListing)
	me.Get("/listings", entityHandler.MyListings)
	me.Post("/garages", entityHandler.CreateGarage)
	me.Get("/garages", entityHandler.MyGarages)
	me.Post("/offers", entityHandler.CreateOffer)
	me.Get("/offers", entityHandler.MyOffers)

	me.Post("/media", mediaHandler.Upload)
	me.Delete("/media/*", mediaHandler.Delete)

	meBoosts := me.Group("/boosts")
	meBoosts.Post("/checkout", checkoutHandler.Checkout)
	meBoosts.Get("/invoices", checkoutHandler.ListInvoices)
	meBoosts.Get("/invoices/:id", checkoutHandler.GetInvoiceStatus)

	// ===========================================
	// ADMIN API - /v1/admin/* (requires 'admin' role)
	// ===========================================
	admin := v1.Group("/admin")
	admin.Use(middleware.VerifyOtoboostToken(deps.Config.JWT.Secret))
	admin.Use(middleware.AuthorizeRole(domain.RoleAdmin))
	admin.Use(middleware.IdempotencyMiddleware(deps.RedisClient, 10*time.Minute))

	adminBoosts := admin.Group("/boosts")
	adminBoosts.Get("/:kind", boostHandler.ListRequests)
	adminBoosts.Get("/:kind/:id/history", boostHandler.History)
	adminBoosts.Post("/:kind/:id/approve", boostHandler.Approve)
	adminBoosts.Post("/:kind/:id/deny", boostHandler.Deny)
	adminBoosts.Post("/:kind/:id/extend", boostHandler.Extend)
	adminBoosts.Post("/:kind/:id/refund", boostHandler.Refund)

	adminPackages := admin.Group("/packages")
	adminPackages.Get("/", packageHandler.ListAll)
	adminPackages.Post("/", packageHandler.Create)
	adminPackages.Get("/:code", packageHandler.Get)
	adminPackages.Put("/:code", packageHandler.Update)
	adminPackages.Delete("/:code", packageHandler.Delete)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.Printf("Error: %v", err)
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
