package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pizzahunt/internal/api"
	"pizzahunt/internal/catalog"
	"pizzahunt/internal/config"
	"pizzahunt/internal/logging"
)

// Server serves the pizza and comment routes.
type Server struct {
	bind     string
	token    string
	logger   *slog.Logger
	pizzas   *api.PizzaService
	comments *api.CommentService
	handler  http.Handler

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
	done     chan struct{}
}

// New builds a Server on top of the catalog store.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: config is required")
	}
	if store == nil {
		return nil, errors.New("server: catalog store is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &Server{
		bind:     strings.TrimSpace(cfg.Server.Bind),
		token:    cfg.Server.APIToken,
		logger:   logging.NewComponentLogger(logger, "api-server"),
		pizzas:   api.NewPizzaService(store),
		comments: api.NewCommentService(store),
	}
	s.handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(authMiddleware(s.token))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api/pizzas", func(r chi.Router) {
		r.Get("/", s.handleListPizzas)
		r.Post("/", s.handleCreatePizzas)
		r.Get("/{id}", s.handleGetPizza)
		r.Put("/{id}", s.handleUpdatePizza)
		r.Delete("/{id}", s.handleDeletePizza)
	})
	r.Route("/api/comments", func(r chi.Router) {
		r.Post("/{pizzaId}", s.handleAddComment)
		r.Put("/{pizzaId}/{commentId}", s.handleAddReply)
		r.Delete("/{pizzaId}/{commentId}", s.handleRemoveComment)
		r.Delete("/{pizzaId}/{commentId}/{replyId}", s.handleRemoveReply)
	})
	return r
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured bind address and serves in the
// background until Shutdown.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.done = make(chan struct{})

	srv, done := s.server, s.done
	go func() {
		defer close(done)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "api_serve_failed"),
				logging.String(logging.FieldErrorHint, "check the bind address and restart pizzahuntd"),
				logging.String(logging.FieldImpact, "api unavailable"),
			)
		}
	}()

	s.logger.Info("api server listening",
		logging.String(logging.FieldEventType, "api_listening"),
		logging.String("address", listener.Addr().String()),
		logging.Bool("auth", s.token != ""),
	)
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv, done := s.server, s.done
	s.server = nil
	s.listener = nil
	s.done = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	err := srv.Shutdown(ctx)
	<-done
	s.logger.Info("api server stopped", logging.String(logging.FieldEventType, "api_stopped"))
	return err
}
