package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"subscription-billing/internal/usecase"
)

// Server exposes the commerce and checkout use cases over JSON.
type Server struct {
	commerce usecase.CommerceUseCase
	payment  usecase.PaymentUseCase
	auth     *TokenAuth
	timeout  time.Duration
	log      *zerolog.Logger

	server *http.Server
}

func NewServer(
	commerce usecase.CommerceUseCase,
	payment usecase.PaymentUseCase,
	auth *TokenAuth,
	requestTimeout time.Duration,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		commerce: commerce,
		payment:  payment,
		auth:     auth,
		timeout:  requestTimeout,
		log:      logger,
	}
}

// Routes builds the router. /health and /metrics are unauthenticated.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(s.log), Recover(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Timeout(s.timeout), s.auth.Middleware)

		r.Post("/orders/staged", s.handleStageOrder)
		r.Get("/orders/staged/{publicId}", s.handleGetStagedOrder)
		r.Get("/fare-rules/{publicId}/free-price", s.handleFreePrice)
		r.Post("/orders", s.handleCreateOrder)
	})
	return r
}

// Start blocks serving on port until Shutdown.
func (s *Server) Start(port int) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
