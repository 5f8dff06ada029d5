// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cineseat/ticketing/internal/config"
	"github.com/cineseat/ticketing/internal/handler"
	"github.com/cineseat/ticketing/internal/middleware"
	"github.com/cineseat/ticketing/internal/model"
)

// Deps bundles everything route registration needs.
type Deps struct {
	Cfg      config.Config
	Redis    *redis.Client // nil disables rate limiting and response caching
	Auth     *handler.AuthHandler
	Theaters *handler.TheaterHandler
	Shows    *handler.ShowHandler
	Seats    *handler.SeatHandler
	Bookings *handler.BookingHandler
	Payments *handler.PaymentHandler
}

// Register sets up the full route table:
//
//	public     /healthz, /v1/auth/*, seat map and show browsing
//	customer   booking lifecycle and checkout
//	exhibitor  theater and show management
//	relay      the payment webhook, no JWT (the provider is not a user)
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// auth
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", d.Auth.Register)
	authGroup.POST("/login", d.Auth.Login)

	// public browse, cached and rate limited
	public := e.Group("/v1")
	public.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis))
	cached := public.Group("", middleware.NewSeatMapCache(config.LoadCacheConfig(), d.Redis))
	cached.GET("/shows/:id/seats", d.Seats.Available)
	cached.GET("/theaters/:id/shows", d.Shows.ListByTheater)

	// any authenticated user
	authed := e.Group("/v1")
	authed.Use(middleware.JWTAuth(d.Cfg.JWTSecret))
	authed.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis))
	authed.GET("/me", d.Auth.Me)

	// customers (admins may hit the booking reads/cancel for support)
	customer := authed.Group("", middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))
	customer.POST("/bookings", d.Bookings.Book)
	customer.GET("/bookings", d.Bookings.List)
	customer.GET("/bookings/:id", d.Bookings.Get)
	customer.DELETE("/bookings/:id", d.Bookings.Cancel)
	customer.POST("/bookings/:id/checkout", d.Payments.Checkout)

	// exhibitors
	exhibitor := authed.Group("", middleware.RequireRole(model.RoleExhibitor, model.RoleAdmin))
	exhibitor.POST("/theaters", d.Theaters.Create)
	exhibitor.GET("/theaters", d.Theaters.List)
	exhibitor.GET("/theaters/:id", d.Theaters.Get)
	exhibitor.PUT("/theaters/:id/sections", d.Theaters.ReplaceSections)
	exhibitor.POST("/shows", d.Shows.Create)
	exhibitor.DELETE("/shows/:id", d.Shows.Delete)

	// payment provider relay; idempotent, so retries are safe
	e.POST("/v1/payments/webhook", d.Payments.Webhook)
}
