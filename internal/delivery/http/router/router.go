// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"catalog/internal/delivery/http/middleware"
	"catalog/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	CatalogHandler   *handler.CatalogHandler
	SelectionHandler *handler.SelectionHandler
	OrderHandler     *handler.OrderHandler
	AccountHandler   *handler.AccountHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	catalogHandler   *handler.CatalogHandler
	selectionHandler *handler.SelectionHandler
	orderHandler     *handler.OrderHandler
	accountHandler   *handler.AccountHandler
	authMiddleware   *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		catalogHandler:   params.CatalogHandler,
		selectionHandler: params.SelectionHandler,
		orderHandler:     params.OrderHandler,
		accountHandler:   params.AccountHandler,
		authMiddleware:   params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.accountHandler.Register)
		authGroup.POST("/login", r.accountHandler.Login)
	}

	// Public catalog routes
	e.GET("/categories", r.catalogHandler.ListCategories)
	e.GET("/products", r.catalogHandler.ListProducts)
	e.GET("/products/:slug", r.catalogHandler.GetProduct)

	// Cart routes work for both visitors and logged-in users; a presented
	// token is validated, a missing one falls back to the cart token header.
	cartGroup := e.Group("/cart")
	cartGroup.Use(r.authMiddleware.OptionalAuthenticate)
	{
		cartGroup.GET("", r.selectionHandler.GetSelection)
		cartGroup.POST("/items/:productSlug", r.selectionHandler.AddItem)
		cartGroup.DELETE("/items/:productSlug", r.selectionHandler.RemoveItem)
		cartGroup.PATCH("/items/:productSlug", r.selectionHandler.ChangeQuantity)
	}

	// Order routes require authentication
	orderGroup := e.Group("/orders")
	orderGroup.Use(r.authMiddleware.Authenticate)
	{
		orderGroup.POST("", r.orderHandler.Commit)
		orderGroup.GET("", r.orderHandler.ListOrders)
	}

	// User routes that require authentication
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/profile", r.accountHandler.GetProfile)
	}
}
