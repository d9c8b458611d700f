// Package server exposes the assistant over HTTP: auth, an SSE chat
// endpoint, history, health and metrics.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"iris-assistant/internal/common/config"
	"iris-assistant/internal/common/database"
	"iris-assistant/internal/common/logger"
	"iris-assistant/internal/common/validation"
	"iris-assistant/internal/dispatch"
	"iris-assistant/internal/store"
)

// TurnHandler is the dispatch surface the server needs.
type TurnHandler interface {
	Handle(ctx context.Context, req dispatch.Request) dispatch.Response
}

type Server struct {
	config      config.ServerConfig
	router      *mux.Router
	httpServer  *http.Server
	logger      logger.Logger
	validator   *validation.Validator
	credentials *store.CredentialStore
	sessions    *store.SessionStore
	history     *store.ConversationStore
	dispatcher  TurnHandler
	redis       *database.RedisClient
}

func New(cfg config.ServerConfig, validator *validation.Validator,
	credentials *store.CredentialStore, sessions *store.SessionStore,
	history *store.ConversationStore, dispatcher TurnHandler,
	redis *database.RedisClient, log logger.Logger) *Server {

	s := &Server{
		config:      cfg,
		router:      mux.NewRouter(),
		logger:      log.With(map[string]interface{}{"component": "server"}),
		validator:   validator,
		credentials: credentials,
		sessions:    sessions,
		history:     history,
		dispatcher:  dispatcher,
		redis:       redis,
	}
	s.routes()

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:     s.router,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Second,
		// WriteTimeout stays 0 unless configured; SSE responses outlive any
		// sensible fixed write deadline.
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/api/auth/signup", s.handleSignup).Methods(http.MethodPost)
	s.router.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	s.router.Handle("/api/chat", s.requireAuth(s.handleChat)).Methods(http.MethodPost)
	s.router.Handle("/api/history", s.requireAuth(s.handleHistory)).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start blocks serving HTTP until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
