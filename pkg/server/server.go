package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/logging"
)

type Server struct {
	addr            string
	shutdownTimeout time.Duration
	handler         http.Handler
}

func New(addr string, shutdownTimeout time.Duration, handler http.Handler) *Server {
	return &Server{
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
		handler:         handler,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the shutdown timeout. Upstream calls have no timeout of their own.
func (s *Server) Run(ctx context.Context) error {
	log := logging.NewLogger(ctx)
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("graceful shutdown failed: %v", err)
		}
	}()

	log.Infof("server listening addr=%s", s.addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
