package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
	"github.com/stocktrack/apiserver/config"
	"github.com/stocktrack/apiserver/internal/db"
	"github.com/stocktrack/apiserver/internal/handlers"
	"github.com/stocktrack/apiserver/internal/services"
	"github.com/stocktrack/apiserver/internal/store"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	logger     zerolog.Logger
}

// New constructs a Server. All repositories and services are built once
// here and handed to the handlers; nothing is package-level state.
func New(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Server, error) {
	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	productRepo := store.NewProductRepository(dbConn)

	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo)

	authMiddleware := handlers.RequireAuth(userService, cfg.JWT.Secret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		requestLogger(logger),
		middleware.Timeout(60*time.Second),
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		}),
		httprate.LimitByIP(cfg.RateLimit.Max, cfg.RateLimit.Window),
	)

	router.Get("/health", handlers.Health)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	})
	router.Route("/products", func(r chi.Router) {
		handlers.ProductRouter(r, productService, authMiddleware)
	})
	router.NotFound(handlers.NotFound)

	port := cfg.ServerPort
	if port == 0 {
		port = 3000
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info().Int("port", port).Msg("server configured")

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		logger:     logger,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then closes the database pool.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}

// requestLogger emits one structured line per request.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
