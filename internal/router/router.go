// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ignux/fireworks-booking-api/internal/handler"
	"github.com/ignux/fireworks-booking-api/internal/middleware"
	"github.com/ignux/fireworks-booking-api/internal/repository"
)

// Handlers bundles every handler needed to build the route table.
type Handlers struct {
	Auth    *handler.AuthHandler
	Booking *handler.BookingHandler
	Catalog *handler.CatalogHandler
	Contact *handler.ContactHandler
	Admin   *handler.AdminHandler
}

// Middleware carries the cross-cutting middleware built in main.
// RateLimit guards the public write endpoints; Cache fronts the
// public catalog reads. Either may be a pass-through when Redis is
// unavailable.
type Middleware struct {
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
}

// Register wires the full route table onto the Echo instance.
func Register(e *echo.Echo, h Handlers, mw Middleware, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	// --- auth ---
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", h.Auth.Register, mw.RateLimit)
	authGroup.POST("/login", h.Auth.Login, mw.RateLimit)
	authGroup.POST("/refresh", h.Auth.Refresh)
	// Logout validates its own credentials so an expired access token
	// can still end a session.
	authGroup.POST("/logout", h.Auth.Logout)

	// --- public marketing surface ---
	// Static segments (featured, slug) win over :id in Echo's router.
	e.GET("/v1/services", h.Catalog.ListServices, mw.Cache)
	e.GET("/v1/services/featured", h.Catalog.FeaturedServices, mw.Cache)
	e.GET("/v1/services/slug/:slug", h.Catalog.GetServiceBySlug, mw.Cache)
	e.GET("/v1/services/:id", h.Catalog.GetService, mw.Cache)
	e.GET("/v1/testimonials", h.Catalog.ListTestimonials, mw.Cache)
	e.POST("/v1/testimonials", h.Catalog.CreateTestimonial, mw.RateLimit)
	e.POST("/v1/newsletter/subscribe", h.Catalog.Subscribe, mw.RateLimit)
	e.POST("/v1/newsletter/unsubscribe", h.Catalog.Unsubscribe, mw.RateLimit)
	e.GET("/v1/availability", h.Catalog.Availability)
	e.POST("/v1/contacts", h.Contact.Create, mw.RateLimit)

	// Booking intake comes from the public website form.
	e.POST("/v1/bookings", h.Booking.Create, mw.RateLimit)

	// --- authenticated booking surface (ADMIN sees all, CLIENT own) ---
	bookings := e.Group("/v1/bookings")
	bookings.Use(middleware.JWTAuth(jwtSecret))
	bookings.Use(middleware.RequireRole(repository.RoleAdmin, repository.RoleClient))
	bookings.GET("", h.Booking.List)
	bookings.GET("/upcoming", h.Booking.Upcoming)
	bookings.GET("/:id", h.Booking.Get)
	bookings.POST("/:id/cancel", h.Booking.Cancel)
	// Lifecycle mutations are staff-only even though they live on the
	// shared booking surface.
	bookings.PATCH("/:id/status", h.Booking.UpdateStatus, middleware.RequireRole(repository.RoleAdmin))
	bookings.POST("/:id/payments", h.Booking.RecordPayment, middleware.RequireRole(repository.RoleAdmin))

	me := e.Group("/v1")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("/me", h.Auth.Me)

	// --- staff surface ---
	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(repository.RoleAdmin))

	admin.GET("/dashboard/stats", h.Admin.DashboardStats)
	admin.GET("/bookings/export", h.Admin.ExportBookings)

	admin.GET("/contacts", h.Contact.List)
	admin.GET("/contacts/:id", h.Contact.Get)
	admin.POST("/contacts/:id/read", h.Contact.MarkRead)
	admin.POST("/contacts/:id/respond", h.Contact.MarkResponded)

	admin.GET("/services", h.Admin.ListAllServices)
	admin.POST("/services", h.Admin.CreateService)
	admin.PUT("/services/:id", h.Admin.UpdateService)
	admin.DELETE("/services/:id", h.Admin.DeactivateService)

	admin.GET("/testimonials", h.Admin.ListAllTestimonials)
	admin.POST("/testimonials/:id/approve", h.Admin.ModerateTestimonial)
	admin.DELETE("/testimonials/:id", h.Admin.DeleteTestimonial)

	admin.GET("/newsletter", h.Admin.ListSubscribers)
}
