package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karyatex/konveksi-backend/api/controllers"
	"github.com/karyatex/konveksi-backend/api/middleware"
	authsvc "github.com/karyatex/konveksi-backend/internal/auth"
	"github.com/karyatex/konveksi-backend/internal/catalog"
	"github.com/karyatex/konveksi-backend/internal/customers"
	"github.com/karyatex/konveksi-backend/internal/dashboard"
	"github.com/karyatex/konveksi-backend/internal/deposits"
	"github.com/karyatex/konveksi-backend/internal/forecasts"
	"github.com/karyatex/konveksi-backend/internal/invoices"
	"github.com/karyatex/konveksi-backend/internal/orders"
	"github.com/karyatex/konveksi-backend/internal/progress"
	"github.com/karyatex/konveksi-backend/internal/sewers"
	"github.com/karyatex/konveksi-backend/internal/tickets"
	"github.com/karyatex/konveksi-backend/internal/users"
	"github.com/karyatex/konveksi-backend/internal/verification"
	"github.com/karyatex/konveksi-backend/internal/warehouse"
	"github.com/karyatex/konveksi-backend/pkg/auth/session"
	"github.com/karyatex/konveksi-backend/pkg/config"
	"github.com/karyatex/konveksi-backend/pkg/db"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	"github.com/karyatex/konveksi-backend/pkg/logger"
	"github.com/karyatex/konveksi-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	authService authsvc.Service,
	usersService users.Service,
	customersService customers.Service,
	catalogService catalog.Service,
	ordersService orders.Service,
	depositsService deposits.Service,
	invoicesService invoices.Service,
	forecastsService forecasts.Service,
	progressResolver *progress.Resolver,
	verificationService verification.Service,
	sewersService sewers.Service,
	warehouseService warehouse.Service,
	ticketsService tickets.Service,
	dashboardService dashboard.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	// Public tracking: distribution barcodes and ticket codes resolve
	// without a session.
	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/tracking/{trackingCode}", controllers.SewerTrackDistribution(sewersService, logg))
		r.Get("/tickets/{ticketCode}", controllers.TicketGetByCode(ticketsService, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		// Staff administration.
		r.Route("/staff", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg))
			r.Post("/", controllers.StaffCreate(usersService, logg))
			r.Get("/", controllers.StaffList(usersService, logg))
			r.Get("/{userId}", controllers.StaffGet(usersService, logg))
			r.Patch("/{userId}/active", controllers.StaffSetActive(usersService, logg))
			r.Patch("/{userId}/role", controllers.StaffChangeRole(usersService, logg))
			r.Post("/{userId}/reset-password", controllers.StaffResetPassword(usersService, logg))
		})

		// Catalog reads are open to every station; writes are admin work.
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.ProductList(catalogService, logg))
			r.Get("/products/{productId}", controllers.ProductGet(catalogService, logg))
			r.Get("/products/{productId}/tiers", controllers.ProductListTiers(catalogService, logg))
			r.Get("/printers", controllers.PrinterList(catalogService, logg))
			r.Get("/variant-types", controllers.VariantTypeList(catalogService, logg))
			r.Get("/fabric-types", controllers.FabricTypeList(catalogService, logg))
			r.Get("/fabric-types/{fabricTypeId}/prices", controllers.FabricPriceList(catalogService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg))
				r.Post("/products", controllers.ProductCreate(catalogService, logg))
				r.Put("/products/{productId}/tiers", controllers.ProductReplaceTiers(catalogService, logg))
				r.Post("/printers", controllers.PrinterCreate(catalogService, logg))
				r.Post("/variant-types", controllers.VariantTypeCreate(catalogService, logg))
				r.Post("/fabric-types", controllers.FabricTypeCreate(catalogService, logg))
				r.Put("/fabric-types/{fabricTypeId}/prices", controllers.FabricPriceSet(catalogService, logg))
			})
		})

		// Front office: customers, orders, deposits, invoices, tickets.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.StaffRoleCS, enums.StaffRoleLeader))

			r.Route("/customers", func(r chi.Router) {
				r.Post("/", controllers.CustomerCreate(customersService, logg))
				r.Get("/", controllers.CustomerSearch(customersService, logg))
				r.Get("/{customerId}", controllers.CustomerGet(customersService, logg))
				r.Put("/{customerId}", controllers.CustomerUpdate(customersService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderCreateKonveksi(ordersService, logg))
				r.Post("/marketplace", controllers.OrderCreateMarketplace(ordersService, logg))
				r.Get("/", controllers.OrderList(ordersService, logg))
				r.Get("/{orderId}", controllers.OrderGet(ordersService, logg))
				r.Post("/{orderId}/status", controllers.OrderAdvanceStatus(ordersService, logg))
				r.Get("/{orderId}/garment-equivalents", controllers.OrderGarmentEquivalents(ordersService, logg))
				r.Get("/{orderId}/deposits", controllers.DepositListForOrder(depositsService, logg))
				r.Get("/{orderId}/invoices", controllers.InvoiceListForOrder(invoicesService, logg))
			})

			r.Route("/deposits", func(r chi.Router) {
				r.Post("/", controllers.DepositCreate(depositsService, logg))
				r.Get("/{depositId}", controllers.DepositGet(depositsService, logg))
				r.Post("/{depositId}/paid-off", controllers.DepositMarkPaidOff(depositsService, logg))
				r.Post("/{depositId}/reminder-sent", controllers.DepositMarkReminderSent(depositsService, logg))
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", controllers.InvoiceList(invoicesService, logg))
				r.Get("/{invoiceId}", controllers.InvoiceGet(invoicesService, logg))
				r.Post("/{invoiceId}/payments", controllers.InvoiceMarkPaid(invoicesService, logg))
				r.Post("/{invoiceId}/cancel", controllers.InvoiceCancel(invoicesService, logg))
			})

			r.Route("/tickets", func(r chi.Router) {
				r.Post("/", controllers.TicketCreate(ticketsService, logg))
				r.Get("/", controllers.TicketList(ticketsService, logg))
				r.Get("/{ticketId}", controllers.TicketGet(ticketsService, logg))
				r.Post("/{ticketId}/transition", controllers.TicketTransition(ticketsService, logg))
			})
		})

		// Production planning.
		r.Route("/forecasts", func(r chi.Router) {
			r.With(middleware.RequireRole(logg, enums.StaffRoleCS, enums.StaffRoleLeader)).
				Post("/", controllers.ForecastCreate(forecastsService, logg))
			r.Get("/", controllers.ForecastList(forecastsService, logg))
			r.Get("/{forecastId}", controllers.ForecastGet(forecastsService, logg))
			r.Get("/{forecastId}/sizes", controllers.ForecastSizes(forecastsService, logg))
			r.Get("/{forecastId}/progress", controllers.ForecastProgress(progressResolver, logg))
			r.Get("/{forecastId}/verifications/{stage}", controllers.VerificationGetForForecast(verificationService, logg))
			r.Get("/{forecastId}/distributions", controllers.SewerListDistributionsForForecast(sewersService, logg))
			r.With(middleware.RequireRole(logg, enums.StaffRoleCS, enums.StaffRoleLeader)).
				Post("/{forecastId}/estimate-sent", controllers.ForecastMarkEstimateSent(forecastsService, logg))
		})

		// Checkpoint submissions, one station per role.
		r.Route("/verifications", func(r chi.Router) {
			r.With(middleware.RequireRole(logg, enums.StaffRolePrint)).
				Post("/print", controllers.VerificationSubmitPrint(verificationService, logg))
			r.With(middleware.RequireRole(logg, enums.StaffRoleQCLine)).
				Post("/qc-line", controllers.VerificationSubmitQCLine(verificationService, logg))
			r.With(middleware.RequireRole(logg, enums.StaffRoleQCCutting)).
				Post("/qc-cutting", controllers.VerificationSubmitQCCutting(verificationService, logg))
			r.With(middleware.RequireRole(logg, enums.StaffRoleQCFinishing)).
				Post("/qc-finishing", controllers.VerificationSubmitQCFinishing(verificationService, logg))
			r.With(middleware.RequireRole(logg, enums.StaffRoleQCFinishing)).
				Post("/qc-finishing-defect", controllers.VerificationSubmitQCFinishingDefect(verificationService, logg))
			r.With(middleware.RequireRole(logg, enums.StaffRoleWarehouse)).
				Post("/warehouse-delivery", controllers.VerificationSubmitWarehouseDelivery(verificationService, logg))
			r.With(middleware.RequireRole(logg, enums.StaffRoleWarehouse)).
				Post("/warehouse-receipt", controllers.VerificationSubmitWarehouseReceipt(verificationService, logg))
		})

		// Sewing outwork.
		r.Route("/sewers", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.StaffRoleCS, enums.StaffRoleLeader, enums.StaffRoleWarehouse))
			r.Post("/", controllers.SewerCreate(sewersService, logg))
			r.Get("/", controllers.SewerList(sewersService, logg))
			r.Get("/{sewerId}", controllers.SewerGet(sewersService, logg))
			r.Put("/{sewerId}", controllers.SewerUpdate(sewersService, logg))
			r.Post("/distributions", controllers.SewerDistribute(sewersService, logg))
			r.Get("/distributions/{distributionId}", controllers.SewerGetDistribution(sewersService, logg))
		})

		// Materials warehouse.
		r.Route("/warehouse", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.StaffRoleWarehouse, enums.StaffRoleLeader))
			r.Post("/materials", controllers.MaterialCreate(warehouseService, logg))
			r.Get("/materials", controllers.MaterialList(warehouseService, logg))
			r.Get("/materials/{materialId}", controllers.MaterialGet(warehouseService, logg))
			r.Get("/materials/{materialId}/stock", controllers.WarehouseStockLevel(warehouseService, logg))
			r.Get("/materials/{materialId}/stock-card", controllers.WarehouseStockCard(warehouseService, logg))
			r.Post("/suppliers", controllers.SupplierCreate(warehouseService, logg))
			r.Get("/suppliers", controllers.SupplierList(warehouseService, logg))
			r.Post("/purchase-orders", controllers.PurchaseOrderCreate(warehouseService, logg))
			r.Get("/purchase-orders", controllers.PurchaseOrderList(warehouseService, logg))
			r.Get("/purchase-orders/{purchaseOrderId}", controllers.PurchaseOrderGet(warehouseService, logg))
			r.Post("/receivings", controllers.WarehouseReceive(warehouseService, logg))
			r.Post("/issuings", controllers.WarehouseIssue(warehouseService, logg))
			r.Post("/opnames", controllers.WarehouseOpname(warehouseService, logg))
		})

		// Leader dashboard.
		r.Route("/dashboard", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.StaffRoleLeader))
			r.Get("/summary", controllers.DashboardSummary(dashboardService, logg))
			r.Get("/estimate-reminders", controllers.DashboardEstimateReminders(dashboardService, logg))
			r.Get("/deposit-reminders", controllers.DashboardDepositReminders(dashboardService, logg))
		})
	})

	return r
}
