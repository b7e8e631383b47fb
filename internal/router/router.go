package router

import (
	"time"

	"github.com/sajjadaliuos1/Pharmasys/internal/access"
	"github.com/sajjadaliuos1/Pharmasys/internal/config"
	"github.com/sajjadaliuos1/Pharmasys/internal/handler"
	"github.com/sajjadaliuos1/Pharmasys/internal/middleware"
	"github.com/sajjadaliuos1/Pharmasys/internal/repository"
	"github.com/sajjadaliuos1/Pharmasys/internal/service"
	"github.com/sajjadaliuos1/Pharmasys/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	subcategoryRepo := repository.NewSubcategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	categorySvc := service.NewCategoryService(categoryRepo, subcategoryRepo)
	productSvc := service.NewProductService(productRepo, movementRepo, rdb)
	supplierSvc := service.NewSupplierService(supplierRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, productRepo, supplierRepo, movementRepo, rdb)
	saleSvc := service.NewSaleService(saleRepo, productRepo, customerRepo, invoiceRepo, movementRepo, dispatcher)
	dashboardSvc := service.NewDashboardService(productRepo, categoryRepo, supplierRepo, customerRepo, saleRepo, purchaseRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	accessH := handler.NewAccessHandler()
	usersH := handler.NewUsersHandler(authSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	productsH := handler.NewProductsHandler(productSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	purchasesH := handler.NewPurchasesHandler(purchaseSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	priceH := handler.NewPriceCheckHandler(productRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required
	r.GET("/v1/price/:barcode", priceH.GetByBarcode)

	// Protected routes, gated per section
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Any authenticated role may ask what it is allowed to see.
		v1.GET("/access/menu", accessH.Menu)
		v1.GET("/access/route", accessH.CheckRoute)

		v1.GET("/dashboard/summary", middleware.RequireSection(access.SectionDashboard), dashboardH.Summary)

		users := v1.Group("/users", middleware.RequireSection(access.SectionSetup))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.POST("/:id/reactivate", usersH.Reactivate)
		}

		categories := v1.Group("/categories", middleware.RequireSection(access.SectionCategory))
		{
			categories.POST("", categoriesH.Create)
			categories.GET("", categoriesH.List)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Deactivate)

			categories.POST("/:id/subcategories", categoriesH.CreateSubcategory)
			categories.GET("/:id/subcategories", categoriesH.ListSubcategories)
			categories.PUT("/:id/subcategories/:subId", categoriesH.UpdateSubcategory)
			categories.DELETE("/:id/subcategories/:subId", categoriesH.DeactivateSubcategory)
		}
		v1.GET("/subcategories", middleware.RequireSection(access.SectionCategory), categoriesH.ListAllSubcategories)

		products := v1.Group("/products", middleware.RequireSection(access.SectionProducts))
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/:id", productsH.GetByID)
			products.PUT("/:id", productsH.Update)
			products.POST("/:id/stock", productsH.AdjustStock)
			products.DELETE("/:id", productsH.Deactivate)
			products.PATCH("/:id/reactivate", productsH.Reactivate)
		}

		suppliers := v1.Group("/suppliers", middleware.RequireSection(access.SectionSupplier))
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.GET("", suppliersH.List)
			suppliers.GET("/:id", suppliersH.GetByID)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Deactivate)
		}

		customers := v1.Group("/customers", middleware.RequireSection(access.SectionCustomers))
		{
			customers.POST("", customersH.Create)
			customers.GET("", customersH.List)
			customers.GET("/:id", customersH.GetByID)
			customers.PUT("/:id", customersH.Update)
			customers.DELETE("/:id", customersH.Deactivate)
		}

		purchases := v1.Group("/purchases", middleware.RequireSection(access.SectionPurchase))
		{
			purchases.POST("", purchasesH.Create)
			purchases.GET("", purchasesH.List)
			purchases.GET("/expiry-report", purchasesH.ExpiryReport)
			purchases.GET("/:id", purchasesH.GetByID)
			purchases.PUT("/:id/items/:itemId", purchasesH.UpdateItem)
			purchases.DELETE("/:id/items/:itemId", purchasesH.DeleteItem)
		}

		sales := v1.Group("/sales", middleware.RequireSection(access.SectionSales))
		{
			sales.POST("", salesH.Create)
			sales.GET("", salesH.List)
			sales.GET("/:id", salesH.GetByID)
			sales.POST("/:id/void", salesH.Void)
			sales.GET("/:id/invoice", salesH.GetInvoice)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
