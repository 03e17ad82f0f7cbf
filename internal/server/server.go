package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/awesomegusS/agentic-data-explorer/internal/config"
)

type Server struct {
	cfg       *config.Config
	http      *http.Server
	warehouse io.Closer // held for graceful close
}

func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	s := &Server{cfg: cfg}

	router, warehouse, err := s.setupRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("setup routes: %w", err)
	}
	s.warehouse = warehouse

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("server listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("graceful shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := s.http.Shutdown(shutdownCtx)

		if s.warehouse != nil {
			if closeErr := s.warehouse.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Msg("error closing warehouse")
			} else {
				log.Info().Msg("warehouse connection closed")
			}
		}

		return err
	case err := <-errCh:
		return err
	}
}
