package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/mbndr/logo"
	"github.com/paraleipsis/proxyprobe/internal/checker"
)

// Tester runs a batch of connectivity tests.
type Tester interface {
	TestAll(ctx context.Context, proxies []string) ([]checker.ProxyResult, error)
}

// Server exposes the checker over HTTP.
type Server struct {
	tester Tester
	log    *logo.Logger
	srv    *http.Server
}

// New creates a Server listening on addr. A nil logger logs INFO and
// above to stderr.
func New(addr string, tester Tester, log *logo.Logger) *Server {
	if log == nil {
		log = NewLogger(false)
	}

	s := &Server{tester: tester, log: log}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// NewLogger returns the access logger used by the server.
func NewLogger(verbose bool) *logo.Logger {
	lvl := logo.INFO
	if verbose {
		lvl = logo.DEBUG
	}

	return logo.NewSimpleLogger(os.Stderr, lvl, "proxyprobe", true)
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/proxies/test", s.testHandler)
	mux.HandleFunc("/healthz", s.healthHandler)
	mux.HandleFunc("/", s.notFound)

	return s.withRequestID(mux)
}

// Serve accepts connections on l until ctx is done.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.srv.Serve(l)
	}()

	s.log.Infof("Listening on %s", l.Addr())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.log.Warn("Interrupted. Exiting...")
	}

	if err := s.Stop(); err != nil {
		return err
	}

	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// ListenAndServe listens on the configured address and serves until ctx
// is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}

	return s.Serve(ctx, l)
}
