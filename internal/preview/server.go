package preview

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/a-h/templ"
	"github.com/pretextbook/pretext/internal/errors"
	"github.com/pretextbook/pretext/internal/logging"
	"github.com/pretextbook/pretext/internal/middleware"
	"github.com/pretextbook/pretext/internal/watcher"
	"github.com/pretextbook/pretext/internal/websocket"
)

const (
	shutdownTimeout = 5 * time.Second
	reloadDelay     = 150 * time.Millisecond
)

// Options configures a preview Server
type Options struct {
	Binding    Binding
	LiveReload bool
	Logger     logging.Logger
}

// Server serves one directory for the lifetime of the process. The
// directory is handed to the file server directly; the working directory
// of the process is never changed.
type Server struct {
	binding  Binding
	logger   logging.Logger
	hub      *websocket.Hub
	listener net.Listener
}

// NewServer creates a server for opts. No socket is opened until Listen.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	s := &Server{
		binding: opts.Binding,
		logger:  logger.WithComponent("preview"),
	}
	if opts.LiveReload {
		s.hub = websocket.NewHub(logger)
	}
	return s
}

// Listen acquires the TCP listener. Bind failures come back as resource
// errors carrying suggestions for the author.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}

	addr := s.binding.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		cause := errors.NewResourceError(errors.ErrCodeBindFailed, fmt.Sprintf("cannot listen on %s", addr), err)
		return errors.NewEnhancedError("Failed to start preview server", cause,
			errors.ServerStartError(err, s.binding.Port))
	}

	s.listener = ln
	s.logger.Debug(context.Background(), "Listening", "addr", ln.Addr().String(), "root", s.binding.Directory)
	return nil
}

// Addr returns the bound address, or nil before Listen
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close releases the listener of a server that will not Serve
func (s *Server) Close() error {
	if s.hub != nil {
		s.hub.Shutdown()
	}
	if s.listener == nil {
		return nil
	}
	err := s.listener.Close()
	s.listener = nil
	return err
}

// Handler returns the HTTP handler rooted at the served directory
func (s *Server) Handler() http.Handler {
	var files http.Handler = fileHandler(s.binding.Directory, s.logger)

	mux := http.NewServeMux()
	if s.hub != nil {
		files = injectLiveReload(files)
		mux.Handle(LiveReloadPath, s.hub)
	}
	mux.Handle("/", middleware.DefaultChain(s.logger).Apply(files))
	return mux
}

func fileHandler(root string, logger logging.Logger) http.Handler {
	fs := http.FileServer(http.Dir(root))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && !fileExists(filepath.Join(root, "index.html")) {
			data, err := LoadLandingData(root)
			if err != nil {
				logger.Error(r.Context(), err, "Landing page failed")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			templ.Handler(LandingPage(data)).ServeHTTP(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Serve blocks serving the directory until ctx is cancelled, then shuts
// down gracefully. The listener is closed on every return path.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	ln := s.listener
	defer func() { s.listener = nil }()

	if s.hub != nil {
		defer s.hub.Shutdown()

		fw, err := s.watchForReload(ctx)
		if err != nil {
			_ = ln.Close()
			return errors.NewResourceError(errors.ErrCodeBindFailed, "cannot watch the served directory", err)
		}
		defer fw.Stop()
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info(context.Background(), "Shutting down preview server")
		if s.hub != nil {
			// hijacked websocket connections are not tracked by Shutdown
			s.hub.Shutdown()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("shutting down preview server: %w", err)
		}
		<-errCh
		return nil

	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.NewResourceError(errors.ErrCodeBindFailed, "preview server stopped", err)
	}
}

func (s *Server) watchForReload(ctx context.Context) (*watcher.FileWatcher, error) {
	fw, err := watcher.NewFileWatcher(reloadDelay, s.logger)
	if err != nil {
		return nil, err
	}

	fw.AddFilter(watcher.NoHiddenFilter)
	if err := fw.AddRecursive(s.binding.Directory); err != nil {
		_ = fw.Stop()
		return nil, err
	}

	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		paths := make([]string, 0, len(events))
		for _, e := range events {
			if rel, err := filepath.Rel(s.binding.Directory, e.Path); err == nil {
				paths = append(paths, filepath.ToSlash(rel))
			}
		}
		s.logger.Debug(ctx, "Served files changed", "files", len(paths))
		s.hub.BroadcastReload(paths)
		return nil
	})

	fw.Start(ctx)
	return fw, nil
}
