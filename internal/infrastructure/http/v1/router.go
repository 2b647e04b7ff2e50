package v1

import (
	"stockflow/internal/domain/auth"
	"stockflow/internal/domain/balance"
	"stockflow/internal/domain/catalogs/category"
	"stockflow/internal/domain/catalogs/partner"
	"stockflow/internal/domain/catalogs/product"
	"stockflow/internal/domain/catalogs/unit"
	"stockflow/internal/domain/catalogs/warehouse"
	"stockflow/internal/domain/expense"
	"stockflow/internal/domain/ledger"
	"stockflow/internal/domain/stock"
	"stockflow/internal/infrastructure/http/v1/handlers"
	"stockflow/internal/infrastructure/http/v1/middleware"
	"stockflow/internal/infrastructure/storage/postgres"
	"stockflow/internal/infrastructure/storage/postgres/catalog_repo"
	"stockflow/internal/infrastructure/storage/postgres/ledger_repo"
	"stockflow/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (used by health checks)
	Pool *postgres.Pool

	// TxManager runs repository operations and transactions
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// AuthService handles login and token validation; nil disables the
	// auth endpoints
	AuthService *auth.Service

	// AuthEnabled turns on Bearer token enforcement for /api/v1
	AuthEnabled bool

	// CORSAllowOrigin is the allowed origin, "*" when empty
	CORSAllowOrigin string

	// Audit is the optional audit trail sink for ledger mutations
	Audit ledger.Auditor
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.CORS(cfg.CORSAllowOrigin))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	api := router.Group("/api/v1")
	{
		baseHandler := handlers.NewBaseHandler()

		// Public auth endpoints
		if cfg.AuthService != nil {
			authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)
			api.POST("/auth/login", authHandler.Login)
		}

		protected := api.Group("")
		if cfg.AuthEnabled && cfg.AuthService != nil {
			protected.Use(middleware.Auth(cfg.AuthService))
		}

		registerRoutes(protected, baseHandler, cfg)
	}

	return router
}

// registerRoutes wires repositories, services and handlers for every
// API resource.
func registerRoutes(rg *gin.RouterGroup, baseHandler *handlers.BaseHandler, cfg RouterConfig) {
	txm := cfg.TxManager

	// Repositories
	categoryRepo := catalog_repo.NewCategoryRepo(txm)
	unitRepo := catalog_repo.NewUnitRepo(txm)
	warehouseRepo := catalog_repo.NewWarehouseRepo(txm)
	partnerRepo := catalog_repo.NewPartnerRepo(txm)
	productRepo := catalog_repo.NewProductRepo(txm)
	expenseRepo := catalog_repo.NewExpenseRepo(txm)
	entryRepo := ledger_repo.NewEntryRepo(txm)

	// Services. Stock and balances are derived from the ledger: stock is
	// folded on demand, partner figures are recomputed after every ledger
	// mutation.
	categoryService := category.NewService(categoryRepo, txm)
	unitService := unit.NewService(unitRepo, txm)
	warehouseService := warehouse.NewService(warehouseRepo, txm)
	partnerService := partner.NewService(partnerRepo, txm)
	stockService := stock.NewService(entryRepo, productRepo)
	productService := product.NewService(productRepo, categoryService, stockService, txm)
	expenseService := expense.NewService(expenseRepo, txm)
	balanceService := balance.NewService(entryRepo, partnerRepo)
	ledgerService := ledger.NewService(ledger.ServiceConfig{
		Repo:      entryRepo,
		Partners:  partnerService,
		Products:  productService,
		Stock:     stockService,
		Balances:  balanceService,
		TxManager: txm,
		Audit:     cfg.Audit,
	})

	// Catalogs
	RegisterCatalogRoutes(rg.Group("/categories"),
		handlers.NewCategoryHandler(baseHandler, categoryService.CatalogService))
	RegisterCatalogRoutes(rg.Group("/units"),
		handlers.NewUnitHandler(baseHandler, unitService.CatalogService))
	RegisterCatalogRoutes(rg.Group("/warehouses"),
		handlers.NewWarehouseHandler(baseHandler, warehouseService.CatalogService))
	RegisterCatalogRoutes(rg.Group("/partners"),
		handlers.NewPartnerHandler(baseHandler, partnerService))

	// Products
	productHandler := handlers.NewProductHandler(baseHandler, productService)
	productsGroup := rg.Group("/products")
	RegisterCatalogRoutes(productsGroup, productHandler)
	productsGroup.GET("/sku/:sku", productHandler.GetBySKU)

	// Expenses
	RegisterCatalogRoutes(rg.Group("/expenses"),
		handlers.NewExpenseHandler(baseHandler, expenseService))

	// Transactions
	transactionHandler := handlers.NewTransactionHandler(baseHandler, ledgerService)
	transactions := rg.Group("/transactions")
	{
		transactions.GET("", transactionHandler.List)
		transactions.POST("", transactionHandler.Create)
		transactions.GET("/stats", transactionHandler.Stats)
		transactions.GET("/partner", transactionHandler.PartnerStatement)
		transactions.POST("/bulk-delete", transactionHandler.BulkDelete)
		transactions.GET("/:id", transactionHandler.Get)
		transactions.PUT("/:id", transactionHandler.Update)
		transactions.DELETE("/:id", transactionHandler.Delete)
		transactions.POST("/:id/return", transactionHandler.Return)
	}
}
