package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"campusbook/config"
	_ "campusbook/docs" // swagger docs
	"campusbook/shared/constant"
	"campusbook/transport/http/middleware"
	"campusbook/transport/http/response"
	"campusbook/transport/http/router"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

type ServerState int

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const (
	readHeaderTimeout = 10 * time.Second
	defaultCleanup    = 10 * time.Second
)

// ShutdownHook releases a dependency once the server stopped accepting requests.
type ShutdownHook struct {
	Name string
	Fn   func(ctx context.Context) error
}

type HTTP struct {
	Config        *config.Config
	Router        router.Router
	AppMiddleware middleware.AppMiddleware
	AuthRole      middleware.AuthRole

	mu      sync.RWMutex
	state   ServerState
	handler http.Handler
	server  *http.Server
	hooks   []ShutdownHook
	once    sync.Once
}

func New(cfg *config.Config, r router.Router, app middleware.AppMiddleware, authRole middleware.AuthRole) *HTTP {
	return &HTTP{
		Config:        cfg,
		Router:        r,
		AppMiddleware: app,
		AuthRole:      authRole,
	}
}

// OnShutdown registers hook. Hooks run in registration order after the listener closed.
func (h *HTTP) OnShutdown(name string, fn func(ctx context.Context) error) {
	h.hooks = append(h.hooks, ShutdownHook{Name: name, Fn: fn})
}

func (h *HTTP) State() ServerState {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.state
}

func (h *HTTP) setState(state ServerState) {
	h.mu.Lock()
	h.state = state
	h.mu.Unlock()
}

// Serve blocks until SIGINT or SIGTERM, then drains in-flight requests and runs the shutdown hooks.
func (h *HTTP) Serve() {
	h.setup()

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serverErr := make(chan error, 1)

	go func() {
		log.Info().Str("addr", h.server.Addr).Msg("Starting up HTTP server.")

		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("HTTP server stopped unexpectedly")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal.")
	}

	h.shutdown()
}

// ServeHTTP lets a serverless runtime drive the router without a listener.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(h.setup)

	h.handler.ServeHTTP(w, r)
}

func (h *HTTP) setup() {
	h.handler = h.setupRoutes()
	h.setState(ServerStateReady)
}

func (h *HTTP) setupRoutes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(chiMiddleware.Recoverer)
	mux.Use(h.AppMiddleware.RequestID)
	mux.Use(h.AppMiddleware.Tracing)

	if h.Config.App.CORS.Enable {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   h.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   h.Config.App.CORS.AllowedHeaders,
			AllowCredentials: h.Config.App.CORS.AllowCredentials,
			MaxAge:           h.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	mux.Use(h.AppMiddleware.RateLimit())
	mux.Use(h.drain)

	mux.Get("/health", h.health)

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		mux.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	h.Router.SetupRoutes(mux, h.AuthRole.APIKey, h.AuthRole.Auth, h.AuthRole.RBAC)

	return mux
}

// drain refuses new work once the cleanup period started.
func (h *HTTP) drain(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.State() == ServerStateInCleanupPeriod {
			response.WithPreparingShutdown(w)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *HTTP) health(w http.ResponseWriter, _ *http.Request) {
	switch h.State() {
	case ServerStateReady:
		response.WithMessage(w, http.StatusOK, "OK")
	case ServerStateInGracePeriod, ServerStateInCleanupPeriod:
		response.WithPreparingShutdown(w)
	default:
		response.WithUnhealthy(w)
	}
}

func (h *HTTP) shutdown() {
	shutdownConfig := h.Config.Server.Shutdown

	if h.Config.Server.Env != constant.ServerEnvDevelopment {
		log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

		h.setState(ServerStateInGracePeriod)

		time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)
	}

	cleanup := time.Duration(shutdownConfig.CleanupPeriodSeconds) * time.Second
	if cleanup <= 0 {
		cleanup = defaultCleanup
	}

	log.Info().Dur("timeout", cleanup).Msg("Entering cleanup period.")

	h.setState(ServerStateInCleanupPeriod)

	ctx, cancel := context.WithTimeout(context.Background(), cleanup)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed, forcing close")

		if closeErr := h.server.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Failed to close HTTP server")
		}
	}

	for _, hook := range h.hooks {
		if err := hook.Fn(ctx); err != nil {
			log.Error().Err(err).Str("hook", hook.Name).Msg("Shutdown hook failed")

			continue
		}

		log.Debug().Str("hook", hook.Name).Msg("Shutdown hook completed")
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}
