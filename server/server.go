package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/glamournym/nymshop/internal/config"
	"github.com/glamournym/nymshop/internal/handlers"
)

type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	handlers   *handlers.Handlers
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger, h *handlers.Handlers) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if h == nil {
		return nil, fmt.Errorf("handlers are required")
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		handlers: h,
	}

	router := s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Server) Run() error {
	s.logger.Info("server starting", "port", s.cfg.Port)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return nil
	}

	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) buildRouter() *mux.Router {
	h := s.handlers

	r := mux.NewRouter()
	r.Use(h.RequestLogger)
	r.HandleFunc("/healthz", h.Health).Methods("GET").Name("health")

	r.HandleFunc("/api/catalog", h.GetCatalog).Methods("GET").Name("catalog")

	r.HandleFunc("/api/cart", h.GetCart).Methods("GET").Name("cart.get")
	r.HandleFunc("/api/cart", h.ClearCart).Methods("DELETE").Name("cart.clear")
	r.HandleFunc("/api/cart/items", h.AddItem).Methods("POST").Name("cart.items.add")
	r.HandleFunc("/api/cart/items/{id}", h.UpdateItem).Methods("PATCH").Name("cart.items.update")
	r.HandleFunc("/api/cart/items/{id}", h.RemoveItem).Methods("DELETE").Name("cart.items.remove")

	r.HandleFunc("/api/checkout", h.Checkout).Methods("POST").Name("checkout")

	r.HandleFunc("/api/receipts", h.ListReceipts).Methods("GET").Name("receipts.list")
	r.HandleFunc("/api/receipts/prune", h.PruneReceipts).Methods("POST").Name("receipts.prune")
	r.HandleFunc("/receipts/{number}", h.GetReceiptDocument).Methods("GET").Name("receipts.document")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	})

	return r
}
