package router

import (
	"net/http"

	"hostel/config"
	"hostel/internal/handlers/auth"
	"hostel/internal/handlers/room"
	"hostel/internal/handlers/roomchange"
	"hostel/internal/handlers/upload"
	"hostel/transport/http/middleware"

	_ "hostel/docs" // swagger docs

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	Auth       auth.Handler
	Room       room.Handler
	RoomChange roomchange.Handler
	Upload     upload.Handler
}

type Middlewares struct {
	App      middleware.AppMiddleware
	AuthRole middleware.AuthRole
}

type Router struct {
	Config         *config.Config
	DomainHandlers DomainHandlers
	Middlewares    Middlewares
}

// SetupRoutes mounts every route on router. /health is left to the caller, which owns
// the server state.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(
		chiMiddleware.RequestID,
		chiMiddleware.RealIP,
		r.Middlewares.App.RequestLog,
		chiMiddleware.Recoverer,
		r.Middlewares.App.Tracing,
	)

	if r.Config.App.CORS.Enable {
		router.Use(r.cors())
	}

	router.Use(r.Middlewares.App.RateLimit())

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.DomainHandlers.Upload.Router(router)

	router.Group(func(api chi.Router) {
		api.Use(
			r.Middlewares.AuthRole.APIKey,
			r.Middlewares.AuthRole.Auth,
			r.Middlewares.AuthRole.RBAC,
		)

		r.DomainHandlers.Auth.Router(api)
		r.DomainHandlers.Room.Router(api)
		r.DomainHandlers.RoomChange.Router(api)
	})
}

func (r *Router) cors() func(http.Handler) http.Handler {
	cfg := r.Config.App.CORS

	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAgeSeconds,
	})
}

func New(cfg *config.Config, domainHandlers DomainHandlers, middlewares Middlewares) Router {
	return Router{
		Config:         cfg,
		DomainHandlers: domainHandlers,
		Middlewares:    middlewares,
	}
}
