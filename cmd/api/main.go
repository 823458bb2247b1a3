package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/karyatex/konveksi-backend/api/routes"
	"github.com/karyatex/konveksi-backend/internal/auth"
	"github.com/karyatex/konveksi-backend/internal/catalog"
	"github.com/karyatex/konveksi-backend/internal/customers"
	"github.com/karyatex/konveksi-backend/internal/dashboard"
	"github.com/karyatex/konveksi-backend/internal/deposits"
	"github.com/karyatex/konveksi-backend/internal/forecasts"
	"github.com/karyatex/konveksi-backend/internal/invoices"
	"github.com/karyatex/konveksi-backend/internal/orders"
	"github.com/karyatex/konveksi-backend/internal/pricing"
	"github.com/karyatex/konveksi-backend/internal/progress"
	"github.com/karyatex/konveksi-backend/internal/sewers"
	"github.com/karyatex/konveksi-backend/internal/tickets"
	"github.com/karyatex/konveksi-backend/internal/users"
	"github.com/karyatex/konveksi-backend/internal/verification"
	"github.com/karyatex/konveksi-backend/internal/warehouse"
	"github.com/karyatex/konveksi-backend/pkg/auth/session"
	"github.com/karyatex/konveksi-backend/pkg/config"
	"github.com/karyatex/konveksi-backend/pkg/db"
	"github.com/karyatex/konveksi-backend/pkg/logger"
	"github.com/karyatex/konveksi-backend/pkg/migrate"
	"github.com/karyatex/konveksi-backend/pkg/outbox"
	"github.com/karyatex/konveksi-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	customersRepo := customers.NewRepository(gormDB)
	catalogRepo := catalog.NewRepository(gormDB)
	pricingRepo := pricing.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)
	depositsRepo := deposits.NewRepository(gormDB)
	invoicesRepo := invoices.NewRepository(gormDB)
	forecastsRepo := forecasts.NewRepository(gormDB)
	verificationRepo := verification.NewRepository(gormDB)
	sewersRepo := sewers.NewRepository(gormDB)
	warehouseRepo := warehouse.NewRepository(gormDB)
	ticketsRepo := tickets.NewRepository(gormDB)
	progressRepo := progress.NewRepository(gormDB)
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	customersService, err := customers.NewService(customersRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	pricingResolver, err := pricing.NewResolver(pricingRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing resolver", err)
		os.Exit(1)
	}

	invoicesService, err := invoices.NewService(invoicesRepo, cfg.Invoice.Prefix)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoices service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(
		ordersRepo,
		pricingResolver,
		orderInvoiceIssuer{svc: invoicesService},
		outboxService,
		catalogRepo,
		dbClient,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	depositsService, err := deposits.NewService(
		depositsRepo,
		pricingResolver,
		ordersRepo,
		depositInvoiceIssuer{svc: invoicesService},
		dbClient,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create deposits service", err)
		os.Exit(1)
	}

	forecastsService, err := forecasts.NewService(forecastsRepo, outboxService, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create forecasts service", err)
		os.Exit(1)
	}

	verificationService, err := verification.NewService(verificationRepo, forecastsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create verification service", err)
		os.Exit(1)
	}

	sewersService, err := sewers.NewService(sewersRepo, forecastsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create sewers service", err)
		os.Exit(1)
	}

	warehouseService, err := warehouse.NewService(warehouseRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create warehouse service", err)
		os.Exit(1)
	}

	ticketsService, err := tickets.NewService(ticketsRepo, ordersRepo, outboxService, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create tickets service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(ordersRepo, forecastsRepo, verificationRepo, ticketsRepo, depositsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	progressResolver := progress.NewResolver(progressRepo)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			authService,
			usersService,
			customersService,
			catalogService,
			ordersService,
			depositsService,
			invoicesService,
			forecastsService,
			progressResolver,
			verificationService,
			sewersService,
			warehouseService,
			ticketsService,
			dashboardService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
