// Package server exposes a desktop over HTTP on a unix socket or TCP.
//
// Every request is turned into a closure that runs on the single loop
// goroutine owning the desktop, so the layout engine itself stays single
// threaded.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Gaurav-Gosain/tessera/internal/app"
	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/logging"
	"github.com/Gaurav-Gosain/tessera/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// ErrClosed is returned by Do once the loop has stopped.
var ErrClosed = errors.New("server loop stopped")

// DefaultSocketPath returns $XDG_RUNTIME_DIR/tessera/tessera.sock.
func DefaultSocketPath() (string, error) {
	return xdg.RuntimeFile(filepath.Join("tessera", "tessera.sock"))
}

// Server owns a desktop and serves the IPC API.
type Server struct {
	desk   *app.Desktop
	log    *log.Logger
	reg    *prometheus.Registry
	router chi.Router

	ops  chan func(*app.Desktop)
	done chan struct{}
}

// New creates a server for desk. The desktop must not be touched by anyone
// else once Run is called.
func New(desk *app.Desktop, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		return nil, tserrors.Wrap(tserrors.ErrCodeInternal, err, "register metrics")
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, tserrors.Wrap(tserrors.ErrCodeInternal, err, "register go collector")
	}

	s := &Server{
		desk: desk,
		log:  logger.WithPrefix("server"),
		reg:  reg,
		ops:  make(chan func(*app.Desktop)),
		done: make(chan struct{}),
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler. Requests block until Run is running.
func (s *Server) Handler() http.Handler { return s.router }

// Run executes posted operations until ctx is done. It must be called
// exactly once.
func (s *Server) Run(ctx context.Context) {
	defer close(s.done)
	s.log.Debug("loop started")
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("loop stopped")
			return
		case op := <-s.ops:
			op(s.desk)
		}
	}
}

// Do runs fn on the loop goroutine and returns its error. Once fn was
// accepted Do waits for it to finish, even if ctx ends meanwhile.
func (s *Server) Do(ctx context.Context, fn func(*app.Desktop) error) error {
	res := make(chan error, 1)
	op := func(d *app.Desktop) { res <- fn(d) }
	select {
	case s.ops <- op:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrClosed
	}
	return <-res
}

// Serve runs the loop and serves HTTP on ln until ctx is done, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	loopCtx, stopLoop := context.WithCancel(ctx)
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		s.Run(loopCtx)
	}()
	defer func() {
		stopLoop()
		<-loopDone
	}()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return logging.WithLogger(context.Background(), s.log)
		},
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.Info("listening", "network", ln.Addr().Network(), "addr", ln.Addr().String())

	select {
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		<-errCh
		return err
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// ListenAndServe listens on network ("unix" or "tcp") and calls Serve. A
// stale unix socket file is replaced and removed again on exit.
func (s *Server) ListenAndServe(ctx context.Context, network, addr string) error {
	if network == "unix" {
		if err := os.Remove(addr); err != nil && !os.IsNotExist(err) {
			return tserrors.Wrap(tserrors.ErrCodeInternal, err, "remove stale socket %s", addr)
		}
		defer os.Remove(addr)
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, network, addr)
	if err != nil {
		return tserrors.Wrap(tserrors.ErrCodeInternal, err, "listen on %s %s", network, addr)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler(s.reg))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/workspaces", s.handleWorkspaces)
		r.Get("/windows/{ref}", s.handleWindow)
		r.Post("/dispatch", s.handleDispatch)
		r.Post("/layoutmsg", s.handleLayoutMsg)
	})
	return r
}

func requestLogger(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(logging.WithLogger(r.Context(), l)))
			l.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"took", time.Since(start),
				"id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
