// Package router wires handlers, middleware and route groups together.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/uritmix/studio-api/internal/config"
	"github.com/uritmix/studio-api/internal/handler"
	"github.com/uritmix/studio-api/internal/middleware"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Person     *handler.PersonHandler
	Room       *handler.RoomHandler
	Lesson     *handler.LessonHandler
	Abonnement *handler.AbonnementHandler
	Event      *handler.EventHandler
}

// RegisterRoutes mounts all routes under /api/v1. Reads are open to any
// authenticated role; mutations require ADMIN or MANAGER; granting access is
// ADMIN only. The session endpoints themselves are public.
func RegisterRoutes(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	api := e.Group("/api/v1", limiter)

	authn := middleware.JWTAuth(cfg.AccessTokenSecret)
	staff := middleware.RequireRole("ADMIN", "MANAGER")
	admin := middleware.RequireRole("ADMIN")

	// Session lifecycle. Everything except the grant is unauthenticated by
	// nature: the caller is proving who they are.
	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/activate", h.Auth.Activate)
	auth.POST("/password-reset-query", h.Auth.PasswordResetQuery)
	auth.POST("/password-reset", h.Auth.PasswordReset)
	auth.POST("/:personId", h.Auth.GrantAccess, authn, admin)

	persons := api.Group("/persons", authn)
	persons.GET("", h.Person.List, cache)
	persons.GET("/:id", h.Person.Get, cache)
	persons.POST("", h.Person.Create, staff)
	persons.PUT("/:id", h.Person.Edit, staff)
	persons.GET("/:id/abonnements", h.Abonnement.SoldByPerson)

	rooms := api.Group("/rooms", authn)
	rooms.GET("", h.Room.List, cache)
	rooms.GET("/:id", h.Room.Get, cache)
	rooms.POST("", h.Room.Create, staff)
	rooms.PUT("/:id", h.Room.Edit, staff)

	lessons := api.Group("/lessons", authn)
	lessons.GET("", h.Lesson.List, cache)
	lessons.GET("/:id", h.Lesson.Get, cache)
	lessons.POST("", h.Lesson.Create, staff)
	lessons.PUT("/:id", h.Lesson.Edit, staff)

	abonnements := api.Group("/abonnements", authn)
	abonnements.GET("", h.Abonnement.List, cache)
	abonnements.GET("/:id", h.Abonnement.Get, cache)
	abonnements.POST("", h.Abonnement.Create, staff)
	abonnements.PUT("/:id", h.Abonnement.Edit, staff)
	abonnements.POST("/:id/sell", h.Abonnement.Sell, staff)

	events := api.Group("/events", authn)
	events.GET("", h.Event.List, cache)
	events.GET("/:id", h.Event.Get, cache)
	events.POST("", h.Event.Create, staff)
	events.DELETE("/:id", h.Event.Delete, staff)
}
