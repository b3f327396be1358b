package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/auth"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/booking"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/counter"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/invoice"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/listing"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/notify"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/store"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/submission"
	"github.com/VigneshSivaKspm/royal-photography-billing/config"
	"github.com/VigneshSivaKspm/royal-photography-billing/controllers"
	"github.com/VigneshSivaKspm/royal-photography-billing/db"
	"github.com/VigneshSivaKspm/royal-photography-billing/logger"
	"github.com/VigneshSivaKspm/royal-photography-billing/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.CheckStaffAuth(); err != nil {
		log.Fatalf("Refusing to start: %v", err)
	}

	closer, err := logger.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closer.Close()

	e := echo.New()

	// --- INITIAL STARTUP LOGGING ---
	logger.Log.Info("[main] program started")
	logger.Log.Info("[main] Configuring global middleware and document store.")

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Disposition"},
	}))

	ctx := context.Background()
	docs, err := openStore(ctx, cfg)
	if err != nil {
		logger.Log.Error(fmt.Sprintf("[main] Store initialization failed: %v", err))
		log.Fatalf("Store initialization failed: %v", err)
	}
	defer docs.Close(ctx)
	logger.Log.Info(fmt.Sprintf("[main] Document store ready (driver: %s).", cfg.StoreDriver))

	m := metrics.NewMetrics(cfg.MetricsNamespace, nil)

	composer := invoice.NewInvoiceComposer(logger.Log, invoice.NewAssetRouter(cfg.AssetsDir, cfg.AssetTimeout), invoice.ComposerOptions{
		Assets: invoice.AssetRefs{
			Logo:        cfg.LogoAsset,
			InstagramQR: cfg.InstagramQRAsset,
			PaymentQR:   cfg.PaymentQRAsset,
			Signature:   cfg.SignatureAsset,
		},
		Brand: invoice.Branding{
			Name:           cfg.BrandName,
			Subtitle:       cfg.BrandSubtitle,
			ContactLine:    cfg.ContactLine,
			SignatoryTitle: cfg.SignatoryTitle,
			SignatoryOrg:   cfg.SignatoryOrg,
		},
		Compress: cfg.PDFCompression,
		Metrics:  m,
	})
	repo := booking.NewRepository(logger.Log, docs)

	submit := submission.NewSubmitBookingUC(logger.Log, counter.NewAllocator(logger.Log, docs), composer, repo).WithMetrics(m)
	if cfg.NotifyCustomer {
		submit.WithMailer(notify.NewResendMailer(logger.Log, cfg.ResendAPIKey, cfg.MailFrom, cfg.BrandName))
		logger.Log.Info("[main] Customer invoice email enabled.")
	}

	issuer := auth.NewTokenIssuer(logger.Log, cfg.JWTSecret, cfg.TokenTTL)
	login := auth.NewLoginStaffUC(logger.Log, issuer, cfg.StaffUsername, cfg.StaffPasswordHash)
	guard := issuer
	if !login.Enabled() {
		logger.Log.Warn("[main] STAFF_PASSWORD_HASH is empty, /api/v1 is served without authentication.")
		guard = nil
	}

	bookingController := controllers.NewBookingController(logger.Log, submit)
	invoiceController := controllers.NewInvoiceController(logger.Log,
		listing.NewListInvoicesUC(logger.Log, repo).WithMetrics(m),
		listing.NewGetInvoiceDetailUC(logger.Log, repo),
		listing.NewDownloadInvoiceUC(logger.Log, repo, composer),
	)
	authController := controllers.NewAuthController(logger.Log, login)

	// --- 1. PUBLIC ROUTES (No Auth Required) ---
	logger.Log.Info("[router] Registering public routes.")
	e.POST("/login", authController.LoginHandler)
	e.GET("/healthz", controllers.HealthController)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- 2. PROTECTED GROUP ---
	logger.Log.Info("[router] Configuring '/api/v1' group.")
	r := e.Group("/api/v1")
	r.Use(auth.JWTAuthMiddleware(logger.Log, guard))

	r.POST("/bookings", bookingController.SubmitBookingController)
	r.GET("/bookings", invoiceController.GetAllInvoicesController)
	r.GET("/bookings/:bookingID", invoiceController.GetInvoiceController)
	r.GET("/bookings/:bookingID/invoice", invoiceController.DownloadInvoiceController)

	addr := ":" + cfg.Port
	logger.Log.Info(fmt.Sprintf("[main] Starting Echo server on %s", addr))
	e.Logger.Fatal(e.Start(addr))
}

// openStore builds the document store selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (store.DocumentStore, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Log.Warn("[main] Using the in-memory store, records are lost on restart.")
		return store.NewMemoryStore(), nil

	case config.StorePostgres:
		logger.Log.Info("[main] Attempting to connect to PostgreSQL...")
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Log.Info("[main] Running database migrations...")
		if err := db.RunMigrations(conn); err != nil {
			conn.Close()
			return nil, err
		}
		return store.NewPostgresStore(conn), nil

	case config.StoreMongo:
		logger.Log.Info("[main] Attempting to connect to MongoDB...")
		client, err := db.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			return nil, err
		}
		s := store.NewMongoStore(client, cfg.MongoDB)
		idxCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := s.EnsureIndex(idxCtx, booking.BookingsCollection, store.CreatedAtField, true); err != nil {
			s.Close(ctx)
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
