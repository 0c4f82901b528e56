// Package server boots the HTTP API: configuration, connections,
// dependency wiring, routes and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/duolink/cotizador/app/controllers"
	"github.com/duolink/cotizador/app/jobs"
	"github.com/duolink/cotizador/app/repositories"
	"github.com/duolink/cotizador/app/routes"
	"github.com/duolink/cotizador/app/services"
	"github.com/duolink/cotizador/config"
	"github.com/duolink/cotizador/pkg/cache"
	"github.com/duolink/cotizador/pkg/database"
	"github.com/duolink/cotizador/pkg/logger"
	"github.com/duolink/cotizador/pkg/metrics"
	"github.com/duolink/cotizador/pkg/middleware"
	"github.com/duolink/cotizador/pkg/queue"
	"github.com/duolink/cotizador/pkg/reqid"
	"github.com/duolink/cotizador/pkg/router"
	"github.com/duolink/cotizador/pkg/storage"
)

const queueWorkers = 4

// Start boots everything and blocks until SIGINT/SIGTERM, then drains
// in-flight requests before returning.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}

	if uri := config.LogMongoURI(); uri != "" {
		if sink, err := logger.AttachMongoSink(uri, config.LogMongoDB(), "logs"); err != nil {
			logger.Warn("server: mongo log sink unavailable", "error", err)
		} else {
			defer sink.Close()
		}
	}

	db, err := database.Connect()
	if err != nil {
		return fmt.Errorf("server: connect database: %w", err)
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable, falling back to in-memory queue", "error", err)
	}
	storage.Connect()

	if rdb := cache.Client(); rdb != nil {
		queue.SetDriver(queue.NewRedisDriver(rdb))
	}
	queue.UseDB(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	queue.StartWorkers(ctx, queueWorkers)

	r := BuildRouter(db)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// BuildRouter assembles the middleware chain, wires repositories into
// services and controllers, and mounts the route table. The CLI's route
// listing reuses it without starting a listener.
func BuildRouter(db *gorm.DB) *router.Router {
	productRepo := repositories.NewProductRepository(db)
	quoteRepo := repositories.NewQuoteRepository(db)
	userRepo := repositories.NewUserRepository(db)
	clientRepo := repositories.NewClientRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	websiteRepo := repositories.NewWebsiteRepository(db)

	jobs.Register(contactRepo)

	inventory := services.NewInventoryService(productRepo)
	approval := services.NewApprovalService(quoteRepo, inventory)
	quoteSvc := services.NewQuoteService(quoteRepo, productRepo, approval)
	pdfSvc := services.NewQuotePDFService(quoteRepo, productRepo)
	productSvc := services.NewProductService(productRepo)
	authSvc := services.NewAuthService(userRepo)
	userSvc := services.NewUserService(userRepo)
	dashboardSvc := services.NewDashboardService(quoteRepo, userRepo, productRepo)
	contactSvc := services.NewContactService(contactRepo, func(messageID uint) error {
		return queue.Dispatch(jobs.ContactNotificationJob,
			&jobs.ContactNotification{MessageID: messageID})
	})

	r := router.New()
	r.Use(
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		metrics.Middleware(),
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(120, time.Minute),
	)

	r.Get("/metrics", "metrics", metrics.Handler())

	// Locally stored product images are served back under /storage.
	files := http.StripPrefix("/storage/", http.FileServer(http.Dir(storage.LocalRoot())))
	r.Get("/storage/*", "storage.files", files.ServeHTTP)

	routes.Register(r, routes.Controllers{
		Auth:      controllers.NewAuthController(authSvc),
		Products:  controllers.NewProductController(productSvc),
		Quotes:    controllers.NewQuoteController(quoteSvc, pdfSvc),
		Users:     controllers.NewUserController(userSvc),
		Clients:   controllers.NewClientController(clientRepo),
		Catalog:   controllers.NewCatalogController(catalogRepo),
		Contact:   controllers.NewContactController(contactSvc),
		Dashboard: controllers.NewDashboardController(dashboardSvc),
		Website:   controllers.NewWebsiteController(websiteRepo),
	}, userRepo)

	return r
}
