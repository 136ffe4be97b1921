package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"hostel/config"
	"hostel/infras/kafka"
	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/shared/constant"
	"hostel/transport/http/response"
	"hostel/transport/http/router"

	"github.com/go-chi/chi/v5"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
)

// Resources are closed once the server has drained.
type Resources struct {
	DB    *postgres.Connection
	Redis goRedis.UniversalClient
	Otel  otel.Otel
	Kafka kafka.Client
}

type HTTP struct {
	Config    *config.Config
	Router    router.Router
	Resources Resources

	state   atomic.Int32
	once    sync.Once
	handler http.Handler
	server  *http.Server
	stopped chan struct{}
}

func New(cfg *config.Config, r router.Router, resources Resources) *HTTP {
	return &HTTP{
		Config:    cfg,
		Router:    r,
		Resources: resources,
		stopped:   make(chan struct{}),
	}
}

func (h *HTTP) Serve() {
	h.setup()

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	h.setupGracefulShutdown()

	log.Info().Str("addr", h.server.Addr).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}

	<-h.stopped
}

// ServeHTTP lets the service run behind a serverless adapter without a listener.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.setup()
	h.handler.ServeHTTP(w, r)
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

func (h *HTTP) setup() {
	h.once.Do(func() {
		mux := chi.NewRouter()

		// chi needs every Use call made before the first route.
		h.Router.SetupRoutes(mux)
		mux.Get("/health", h.health)

		h.handler = mux
		h.state.Store(int32(ServerStateReady))
	})
}

// health answers 503 while the server drains or the database is unreachable.
func (h *HTTP) health(w http.ResponseWriter, r *http.Request) {
	if h.State() != ServerStateReady {
		response.WithPreparingShutdown(w)

		return
	}

	if db := h.Resources.DB; db != nil && db.Write != nil {
		if err := db.Write.PingContext(r.Context()); err != nil {
			log.Warn().Err(err).Msg("health check: database unreachable")
			response.WithUnhealthy(w)

			return
		}
	}

	response.WithMessage(w, http.StatusOK, "OK")
}

func (h *HTTP) setupGracefulShutdown() {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh)
}

func (h *HTTP) respondToSigterm(done chan os.Signal) {
	<-done

	defer close(h.stopped)

	shutdownConfig := h.Config.Server.Shutdown

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")

		h.shutdown(time.Duration(shutdownConfig.CleanupPeriodSeconds) * time.Second)

		return
	}

	log.Info().Msg("Received SIGTERM.")
	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.state.Store(int32(ServerStateInGracePeriod))

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.state.Store(int32(ServerStateInCleanupPeriod))

	h.shutdown(time.Duration(shutdownConfig.CleanupPeriodSeconds) * time.Second)

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

func (h *HTTP) shutdown(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to drain HTTP server")
	}

	h.Resources.close(ctx)
}

func (r Resources) close(ctx context.Context) {
	if r.Kafka != nil {
		if err := r.Kafka.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close kafka writer")
		}
	}

	if r.Redis != nil {
		if err := r.Redis.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close redis client")
		}
	}

	if r.DB != nil {
		if err := r.DB.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}

	if r.Otel != nil {
		if err := r.Otel.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to flush traces")
		}
	}
}
