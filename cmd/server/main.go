package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/breezedunord/tyms-backend/config"
	"github.com/breezedunord/tyms-backend/internal/database"
	"github.com/breezedunord/tyms-backend/internal/database/repository"
	"github.com/breezedunord/tyms-backend/internal/handlers"
	"github.com/breezedunord/tyms-backend/internal/middleware"
	"github.com/breezedunord/tyms-backend/internal/services"
	"github.com/breezedunord/tyms-backend/internal/tyms"
	"github.com/breezedunord/tyms-backend/pkg/migration"
)

func main() {
	// Load configuration
	configPath := filepath.Join(".", "config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	migrationsPath := filepath.Join(".", "migrations")
	if err := migration.RunMigrations(db, migrationsPath); err != nil {
		log.Printf("Warning: Failed to run migrations: %v", err)
	}

	// Create app
	app, err := NewApp(db, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = fmt.Sprintf("%d", cfg.Port)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: app.Router,
	}

	// Start the server in a goroutine
	go func() {
		log.Printf("Server starting on port %s in %s mode", port, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

// App represents the application
type App struct {
	Router       *gin.Engine
	Config       *config.Config
	DB           *sqlx.DB
	Tyms         tyms.API
	Repositories *Repositories
	Services     *Services
	Handlers     *Handlers
}

// NewApp creates a new application instance
func NewApp(db *sqlx.DB, cfg *config.Config) (*App, error) {
	app := &App{
		DB:     db,
		Config: cfg,
	}

	// Initialize components
	app.initTymsClient()
	app.initRepositories()
	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.initHandlers()
	app.setupRouter()

	return app, nil
}

// Repositories holds all repository instances
type Repositories struct {
	Invoice repository.InvoiceRepository
	Booking repository.BookingRepository
}

// Services holds all service instances
type Services struct {
	Auth    services.AuthService
	Sales   services.SalesService
	Invoice services.InvoiceService
	Booking services.BookingService
	Mail    services.MailService
	Archive services.ArchiveService
}

// Handlers holds all handler instances
type Handlers struct {
	Auth    *handlers.AuthHandler
	Sales   *handlers.SalesHandler
	Invoice *handlers.InvoiceHandler
	Booking *handlers.BookingHandler
}

// initTymsClient initializes the Tyms API client
func (a *App) initTymsClient() {
	a.Tyms = tyms.NewClient(tyms.ClientConfig{
		BaseURL:     a.Config.TymsAPIURL,
		ClientID:    a.Config.TymsClientID,
		SecretKey:   a.Config.TymsSecretKey,
		RedirectURI: a.Config.TymsRedirectURI,
		TermsURL:    a.Config.TymsTermsURL,
		PrivacyURL:  a.Config.TymsPrivacyURL,
		Reference:   a.Config.TymsReference,
	})
}

// initRepositories initializes all repositories
func (a *App) initRepositories() {
	a.Repositories = &Repositories{
		Invoice: repository.NewInvoiceRepository(a.DB),
		Booking: repository.NewBookingRepository(a.DB),
	}
}

// initServices initializes all services
func (a *App) initServices() error {
	a.Services = &Services{}

	a.Services.Auth = services.NewAuthService(
		a.Tyms,
		a.Config.TymsClientID,
		a.Config.TymsSecretKey,
		a.Config.AccessTokenDuration,
		a.Config.RefreshTokenDuration,
	)
	a.Services.Mail = services.NewMailService(
		a.Config.SMTPHost,
		a.Config.SMTPPort,
		a.Config.SMTPUser,
		a.Config.SMTPPassword,
		a.Config.EmailFrom,
	)

	// The PDF archive is optional; without a bucket the invoices are only
	// emailed, not archived
	if a.Config.ArchiveBucket != "" && a.Config.ArchiveEndpoint != "" {
		archive, err := services.NewR2ArchiveService(a.Config)
		if err != nil {
			return fmt.Errorf("failed to initialize PDF archive: %w", err)
		}
		a.Services.Archive = archive
	}

	a.Services.Sales = services.NewSalesService(a.Tyms, a.Services.Auth)
	a.Services.Invoice = services.NewInvoiceService(
		a.Tyms,
		a.Services.Auth,
		a.Repositories.Invoice,
		a.Services.Mail,
		a.Services.Archive,
	)
	a.Services.Booking = services.NewBookingService(a.Services.Invoice, a.Repositories.Booking)

	return nil
}

// initHandlers initializes all handlers
func (a *App) initHandlers() {
	a.Handlers = &Handlers{
		Auth:    handlers.NewAuthHandler(a.Services.Auth, a.Config),
		Sales:   handlers.NewSalesHandler(a.Services.Sales, a.Config),
		Invoice: handlers.NewInvoiceHandler(a.Services.Invoice, a.Config),
		Booking: handlers.NewBookingHandler(a.Services.Booking, a.Config),
	}
}

// setupRouter configures the HTTP router
func (a *App) setupRouter() {
	router := gin.Default()

	// Set up CORS
	router.Use(middleware.CORS(a.Config.AllowedOrigins))

	// Set up middleware
	tokenMiddleware := middleware.TokenSession()

	// Configure rate limits from config
	rateLimit := a.Config.RateLimit
	if rateLimit <= 0 {
		rateLimit = 100 // Default to 100 requests per minute
	}
	globalRateLimiter := middleware.GlobalRateLimiter(rateLimit)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"version":   a.Config.Version,
			"timestamp": time.Now().UTC(),
		})
	})

	// API routes
	api := router.Group("/api/v1")
	api.Use(globalRateLimiter)

	// Register routes
	a.Handlers.Auth.RegisterRoutes(api)
	a.Handlers.Sales.RegisterRoutes(api, tokenMiddleware)
	a.Handlers.Invoice.RegisterRoutes(api, tokenMiddleware)
	a.Handlers.Booking.RegisterRoutes(api, tokenMiddleware)

	a.Router = router
}
