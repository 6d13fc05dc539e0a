package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/MKhiriev/go-institute-sync/internal/config"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
)

// readHeaderTimeout bounds how long a client may take to send headers.
const readHeaderTimeout = 10 * time.Second

type httpServer struct {
	server *http.Server
	logger *logger.Logger
}

func newHTTPServer(handler http.Handler, cfg config.Server, logger *logger.Logger) *httpServer {
	return &httpServer{
		server: &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			BaseContext: func(net.Listener) context.Context {
				return logger.WithContext(context.Background())
			},
		},
		logger: logger,
	}
}

// serve blocks until the server stops. A server closed through Shutdown is
// not an error.
func (h *httpServer) serve(listener net.Listener) error {
	var err error
	if listener != nil {
		err = h.server.Serve(listener)
	} else {
		err = h.server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server ListenAndServe: %w", err)
	}
	return nil
}

func (h *httpServer) shutdown(ctx context.Context) error {
	err := h.server.Shutdown(ctx)
	if err == nil {
		return nil
	}
	// ошибки закрытия Listener
	h.logger.Err(err).Str("func", "httpServer.shutdown").Msg("HTTP server Shutdown")
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(errShutdownTimedOut, h.server.Close())
	}
	return fmt.Errorf("HTTP server Shutdown: %w", err)
}
