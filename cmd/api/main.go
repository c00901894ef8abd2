package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/emberhollow/shop-api/internal/modules/audit"
	"github.com/emberhollow/shop-api/internal/modules/auth"
	"github.com/emberhollow/shop-api/internal/modules/automation"
	"github.com/emberhollow/shop-api/internal/modules/campaign"
	"github.com/emberhollow/shop-api/internal/modules/catalog"
	"github.com/emberhollow/shop-api/internal/modules/customer"
	"github.com/emberhollow/shop-api/internal/modules/inventory"
	"github.com/emberhollow/shop-api/internal/modules/order"
	"github.com/emberhollow/shop-api/internal/modules/promotion"
	"github.com/emberhollow/shop-api/internal/modules/reports"
	"github.com/emberhollow/shop-api/internal/modules/review"
	"github.com/emberhollow/shop-api/internal/modules/settings"
	"github.com/emberhollow/shop-api/internal/modules/waitlist"
	"github.com/emberhollow/shop-api/pkg/logging"
	"github.com/emberhollow/shop-api/pkg/metrics"
)

func main() {
	_ = godotenv.Load()

	logger := logging.New("shop-api")
	defer logger.Sync()

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("failed to reach database", zap.Error(err))
	}
	logger.Info("connected to database")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(logging.RequestLogger(logger))
	router.Use(metrics.Middleware)
	router.Handle("/metrics", metrics.Handler())

	// ── Phase 1: Audit & Auth ───────────────────────────────
	auditRepo := audit.NewPostgresRepository(db)
	auditService := audit.NewService(auditRepo, logger)

	authRepo := auth.NewPostgresRepository(db)
	authService := auth.NewService(authRepo, auditService, logger)
	if err := authService.Bootstrap(context.Background()); err != nil {
		logger.Fatal("failed to bootstrap admin account", zap.Error(err))
	}
	admin := authService.RequireAdmin
	auth.NewHandler(authService).RegisterRoutes(router, admin)
	audit.NewHandler(auditService).RegisterRoutes(router, admin)

	// ── Phase 2: Settings, Catalog & Inventory ──────────────
	settingsRepo := settings.NewPostgresRepository(db)
	settingsService := settings.NewService(settingsRepo, auditService)
	settings.NewHandler(settingsService).RegisterRoutes(router, admin)

	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo, auditService)
	catalog.NewHandler(catalogService).RegisterRoutes(router, admin)

	inventoryRepo := inventory.NewPostgresRepository(db)
	inventoryService := inventory.NewService(inventoryRepo, auditService)
	inventory.NewHandler(inventoryService).RegisterRoutes(router, admin)

	// ── Phase 3: Promotions, Orders & Customers ─────────────
	promoRepo := promotion.NewPostgresRepository(db)
	promoService := promotion.NewService(promoRepo, auditService)
	promotion.NewHandler(promoService).RegisterRoutes(router, admin)

	automationRepo := automation.NewPostgresRepository(db)
	automationService := automation.NewService(automationRepo, auditService, logger)
	automation.NewHandler(automationService).RegisterRoutes(router, admin)

	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, settingsService, promoService, auditService, automationService)
	order.NewHandler(orderService).RegisterRoutes(router, admin)

	customerRepo := customer.NewPostgresRepository(db)
	customerService := customer.NewService(customerRepo)
	customer.NewHandler(customerService).RegisterRoutes(router, admin)

	// ── Phase 4: Reviews, Waitlist & Campaigns ──────────────
	reviewRepo := review.NewPostgresRepository(db)
	reviewService := review.NewService(reviewRepo, promoRepo, auditService, logger)
	review.NewHandler(reviewService).RegisterRoutes(router, admin)

	waitlistRepo := waitlist.NewPostgresRepository(db)
	waitlistService := waitlist.NewService(waitlistRepo)
	waitlist.NewHandler(waitlistService).RegisterRoutes(router, admin)

	campaignRepo := campaign.NewPostgresRepository(db)
	campaignService := campaign.NewService(campaignRepo, customerRepo, auditService)
	campaign.NewHandler(campaignService).RegisterRoutes(router, admin)

	// ── Phase 5: Reporting ──────────────────────────────────
	reportsRepo := reports.NewPostgresRepository(db)
	reportsService := reports.NewService(reportsRepo)
	reports.NewHandler(reportsService).RegisterRoutes(router, admin)

	// ── Start Server ────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("shop api listening", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
