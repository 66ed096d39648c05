package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/Azure/logfill/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerOpts struct {
	ListenAddr string
}

// HttpServer is a http server that is preconfigured with a prometheus metrics handler.  Additional handlers can be
// registered with RegisterHandler.
type HttpServer struct {
	mux  *http.ServeMux
	opts *ServerOpts
	srv  *http.Server
	ln   net.Listener
}

func NewServer(opts *ServerOpts) *HttpServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &HttpServer{
		opts: opts,
		mux:  mux,
	}
}

// Open binds the listen address and starts serving in the background.
func (s *HttpServer) Open(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.ListenAddr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.srv = &http.Server{Handler: s.mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Metrics server on %s failed: %s", s.opts.ListenAddr, err)
		}
	}()
	return nil
}

// Addr returns the bound address.  Only valid after Open.
func (s *HttpServer) Addr() string {
	return s.ln.Addr().String()
}

// Close shuts down the http server.
func (s *HttpServer) Close() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// RegisterHandler registers a new handler at the given path.  The handler must be registered before Open is called.
func (s *HttpServer) RegisterHandler(path string, handlerFunc http.HandlerFunc) {
	s.mux.Handle(path, handlerFunc)
}
