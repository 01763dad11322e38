// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"tradeport/internal/delivery/http/middleware"
	"tradeport/internal/delivery/http/router/handler"
	"tradeport/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler         *handler.UserHandler
	ManufacturerHandler *handler.ManufacturerHandler
	ProductHandler      *handler.ProductHandler
	TraderHandler       *handler.TraderHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler         *handler.UserHandler
	manufacturerHandler *handler.ManufacturerHandler
	productHandler      *handler.ProductHandler
	traderHandler       *handler.TraderHandler
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:         params.UserHandler,
		manufacturerHandler: params.ManufacturerHandler,
		productHandler:      params.ProductHandler,
		traderHandler:       params.TraderHandler,
		authMiddleware:      params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.userHandler.Signup)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/forgot-password", r.userHandler.ForgotPassword)
	}

	// User routes that require authentication
	userGroup := e.Group("/users")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("", r.userHandler.ListUsers)
	}

	// Manufacturer profile routes. Mutations are restricted to manufacturer
	// accounts; reads only need a valid token.
	manufacturerGroup := e.Group("/manufacturers")
	manufacturerGroup.Use(r.authMiddleware.Authenticate)
	{
		manufacturerGroup.GET("", r.manufacturerHandler.List)
		manufacturerGroup.GET("/mine", r.manufacturerHandler.GetMine)
		manufacturerGroup.GET("/admin", r.manufacturerHandler.ListForAdmin)
		manufacturerGroup.GET("/:id", r.manufacturerHandler.Get)

		mutations := manufacturerGroup.Group("")
		mutations.Use(r.authMiddleware.RequireRole(entity.RoleManufacturer))
		{
			mutations.POST("", r.manufacturerHandler.Create)
			mutations.PUT("/:id", r.manufacturerHandler.Update)
			mutations.DELETE("/:id", r.manufacturerHandler.Delete)
		}
	}

	// Product routes. The shared listing is the trader-facing view; everything
	// mutating belongs to the owning manufacturer.
	productGroup := e.Group("/products")
	productGroup.Use(r.authMiddleware.Authenticate)
	{
		productGroup.GET("/shared", r.productHandler.ListShared)
		productGroup.GET("/download", r.productHandler.Download)
		productGroup.GET("/:id", r.productHandler.Get)

		ownerGroup := productGroup.Group("")
		ownerGroup.Use(r.authMiddleware.RequireRole(entity.RoleManufacturer))
		{
			ownerGroup.GET("", r.productHandler.ListMine)
			ownerGroup.GET("/trader/:traderId", r.productHandler.ListForTrader)
			ownerGroup.POST("", r.productHandler.Create)
			ownerGroup.PUT("/:id", r.productHandler.Update)
			ownerGroup.DELETE("/:id", r.productHandler.Delete)
		}
	}

	// Trader routes. Manufacturers manage trader links; the dashboard belongs
	// to the trader account itself.
	traderGroup := e.Group("/traders")
	traderGroup.Use(r.authMiddleware.Authenticate)
	{
		traderGroup.GET("", r.traderHandler.List)
		traderGroup.GET("/search", r.traderHandler.GetByName)
		traderGroup.GET("/:id", r.traderHandler.Get)

		manageGroup := traderGroup.Group("")
		manageGroup.Use(r.authMiddleware.RequireRole(entity.RoleManufacturer))
		{
			manageGroup.GET("/mine", r.traderHandler.ListMine)
			manageGroup.GET("/available", r.traderHandler.ListAvailable)
			manageGroup.POST("", r.traderHandler.Create)
			manageGroup.PUT("/:id", r.traderHandler.Update)
			manageGroup.DELETE("/:id", r.traderHandler.Delete)
		}
	}

	// Trader dashboard routes require the trader role.
	dashboardGroup := e.Group("/dashboard")
	dashboardGroup.Use(r.authMiddleware.Authenticate)
	dashboardGroup.Use(r.authMiddleware.RequireRole(entity.RoleTrader))
	{
		dashboardGroup.POST("", r.traderHandler.CreateDashboard)
		dashboardGroup.PUT("", r.traderHandler.UpdateDashboard)
		dashboardGroup.GET("", r.traderHandler.GetDashboard)
		dashboardGroup.POST("/refresh", r.traderHandler.RefreshDashboard)
	}
}
