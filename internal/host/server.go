package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"git.home.luguber.info/inful/sitepack/internal/config"
	foundationerrors "git.home.luguber.info/inful/sitepack/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepack/internal/logfields"
)

// devServer serves the build output directory and, optionally, metrics.
type devServer struct {
	srv  *http.Server
	ln   net.Listener
	errs chan error
}

// newDevServer binds the listener up front so an address conflict fails the
// session immediately, then serves in the background.
func newDevServer(ctx context.Context, cfg config.ServeConfig, root string, metricsHandler http.Handler, logger *slog.Logger) (*devServer, error) {
	mux := http.NewServeMux()
	if metricsHandler != nil && !cfg.DisableMetrics && cfg.MetricsPath != "" {
		mux.Handle(cfg.MetricsPath, metricsHandler)
	}
	mux.Handle("/", noCache(http.FileServer(http.Dir(root))))

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", cfg.Addr)
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryRuntime, "failed to bind dev server").
			WithContext("addr", cfg.Addr).
			Fatal().
			Build()
	}

	s := &devServer{
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ln:   ln,
		errs: make(chan error, 1),
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- fmt.Errorf("dev server: %w", err)
		}
	}()
	logger.Info("Serving site", logfields.Addr(ln.Addr().String()), logfields.Path(root))
	return s, nil
}

func (s *devServer) Addr() net.Addr {
	return s.ln.Addr()
}

// Errors delivers a fatal serve error, if one occurs.
func (s *devServer) Errors() <-chan error {
	return s.errs
}

func (s *devServer) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("dev server shutdown: %w", err)
	}
	return nil
}

// noCache keeps browsers from holding on to pages between rebuilds.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
