// Package server assembles the HTTP API from services, handlers and middleware.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"folio/internal/handlers"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/services"

	_ "folio/internal/docs" // swagger spec
)

// loginBurst is how many login attempts a client may make back to back.
const loginBurst = 5

// Options tunes router construction.
type Options struct {
	LoginRatePerMinute int
	RequestLogging     bool
	Swagger            bool
}

// Services bundles the services the router depends on.
type Services struct {
	Users       services.UserServicer
	Investments services.InvestmentServicer
	Portfolio   services.PortfolioServicer
	Audit       services.AuditServicer
}

// NewServices builds every service on top of db.
func NewServices(db *gorm.DB) Services {
	investments := services.NewInvestmentService(db)
	return Services{
		Users:       services.NewUserService(db),
		Investments: investments,
		Portfolio:   services.NewPortfolioService(investments),
		Audit:       services.NewAuditService(db),
	}
}

// NewRouter wires the /api/v1 routes.
func NewRouter(svc Services, opts Options) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Audit)
	userHandler := handlers.NewUserHandler(svc.Users, svc.Audit)
	investmentHandler := handlers.NewInvestmentHandler(svc.Investments, svc.Audit)
	portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.RequestLogging {
		router.Use(middleware.RequestLogging())
	}
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	if opts.LoginRatePerMinute > 0 {
		limiter := middleware.NewRateLimiter(opts.LoginRatePerMinute, loginBurst)
		auth.POST("/login", limiter.Middleware(), authHandler.Login)
	} else {
		auth.POST("/login", authHandler.Login)
	}
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.OptionalAuth(), authHandler.Logout)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	users := protected.Group("/users")
	users.Use(middleware.RequireRole(models.RoleAdmin))
	users.POST("", userHandler.CreateUser)
	users.GET("", userHandler.ListUsers)

	investments := protected.Group("/investments")
	investments.GET("", investmentHandler.ListInvestments)
	investments.POST("", investmentHandler.CreateInvestment)
	investments.GET("/:id", investmentHandler.GetInvestment)
	investments.PUT("/:id", investmentHandler.UpdateInvestment)
	investments.DELETE("/:id", investmentHandler.DeleteInvestment)
	investments.GET("/:id/transactions", investmentHandler.GetInvestmentTransactions)
	investments.GET("/:id/history", investmentHandler.GetInvestmentHistory)
	investments.POST("/:id/transactions", investmentHandler.AddTransaction)

	protected.GET("/portfolio/summary", portfolioHandler.GetSummary)
	protected.GET("/analytics/charts/:kind", portfolioHandler.GetChart)
	protected.GET("/reports/dashboard", portfolioHandler.GetDashboardReport)

	return router
}
