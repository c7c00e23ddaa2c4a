package server

import (
	"context"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"feeScope/internal/fees"
	"feeScope/internal/storage"
)

// Server exposes the claimable-fee API over HTTP.
type Server struct {
	addr        string
	svc         *fees.Service
	claims      storage.ClaimStore
	distributor common.Address
	logger      *zap.Logger
	mux         *http.ServeMux
}

// NewServer wires the routes.
func NewServer(addr string, svc *fees.Service, claims storage.ClaimStore, distributor common.Address, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		addr:        addr,
		svc:         svc,
		claims:      claims,
		distributor: distributor,
		logger:      logger,
		mux:         http.NewServeMux(),
	}

	s.mux.HandleFunc("/api/tokens", s.handleTokens)
	s.mux.HandleFunc("/api/cache/invalidate", s.handleInvalidate)
	s.mux.HandleFunc("/api/claim/build", s.handleBuildClaim)
	s.mux.HandleFunc("/api/claims", s.handleClaims)
	s.mux.HandleFunc("/healthz", s.handleHealth)

	return s
}

// Handler returns the route handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("http server listening", zap.String("addr", s.addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
