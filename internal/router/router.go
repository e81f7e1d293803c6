package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/marcoyuen/culturemap/internal/config"
	"github.com/marcoyuen/culturemap/internal/handler"
	"github.com/marcoyuen/culturemap/internal/middleware"
)

// Handlers groups everything RegisterRoutes needs to wire the API.
type Handlers struct {
	Auth      *handler.AuthHandler
	Locations *handler.LocationHandler
	Events    *handler.EventHandler
	Likes     *handler.LikeHandler
	Admin     *handler.AdminHandler
}

// RegisterRoutes wires the full route table.  The shape mirrors the client:
// /api/auth for sessions, /api/locations and /api/events for browsing,
// /api/likes for favorites and /api/admin for the management console.
// Everything except health and login/register requires a valid token;
// /api/admin additionally requires the admin role.
func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORS())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	e.GET("/api/health", handler.Health)

	auth := e.Group("/api/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/register", h.Auth.Register)
	auth.GET("/verify", h.Auth.Verify, middleware.JWTAuth(cfg.JWTSecret))

	api := e.Group("/api", middleware.JWTAuth(cfg.JWTSecret))
	api.Use(middleware.RequireRole("admin", "user"))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	loc := api.Group("/locations")
	loc.GET("", h.Locations.List, cache)
	loc.GET("/search/query", h.Locations.Search, cache)
	loc.GET("/:id", h.Locations.Get)
	loc.POST("/:id/like", h.Locations.Like)
	loc.POST("/:id/unlike", h.Locations.Unlike)
	loc.GET("/:id/like-status", h.Locations.LikeStatus)

	ev := api.Group("/events")
	ev.GET("/location/:locationId", h.Events.ByLocation, cache)
	ev.GET("/random/pick", h.Events.Random)

	likes := api.Group("/likes")
	likes.POST("/:locationId", h.Likes.Like)
	likes.DELETE("/:locationId", h.Likes.Unlike)
	likes.GET("/check/:locationId", h.Likes.Check)

	adminOnly := middleware.RequireRole("admin")
	ev.POST("", h.Events.Create, adminOnly)
	ev.PUT("/:id", h.Events.Update, adminOnly)
	ev.DELETE("/:id", h.Events.Delete, adminOnly)

	admin := api.Group("/admin", adminOnly)
	admin.GET("/users", h.Admin.ListUsers)
	admin.POST("/users", h.Admin.CreateUser)
	admin.PUT("/users/:id", h.Admin.UpdateUser)
	admin.DELETE("/users/:id", h.Admin.DeleteUser)
	admin.GET("/locations", h.Admin.ListLocations)
	admin.POST("/locations", h.Admin.CreateLocation)
	admin.PUT("/locations/:id", h.Admin.UpdateLocation)
	admin.DELETE("/locations/:id", h.Admin.DeleteLocation)
	admin.GET("/stats", h.Admin.Stats)
}
