// Package preview serves a built blog over HTTP and optionally rebuilds it
// when posts change.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// BuildFunc runs one full build.
type BuildFunc func(ctx context.Context) error

// Options configures a preview server.
type Options struct {
	Addr      string
	OutputDir string

	// Watch rebuilds on changes below WatchDirs. Build must be set.
	Watch     bool
	WatchDirs []string
	Build     BuildFunc
	Debounce  DebouncerConfig

	// MetricsPath mounts MetricsHandler when both are set.
	MetricsPath    string
	MetricsHandler http.Handler

	Logger *slog.Logger
}

// Server serves the output directory and reports the state of the most
// recent build.
type Server struct {
	opts   Options
	status *buildStatus
	logger *slog.Logger
}

// New creates a server. Nothing is started until Run.
func New(opts Options) (*Server, error) {
	if opts.OutputDir == "" {
		return nil, errors.New("preview requires an output directory")
	}
	if opts.Watch && opts.Build == nil {
		return nil, errors.New("watch mode requires a build function")
	}
	if opts.Debounce.QuietWindow <= 0 {
		opts.Debounce.QuietWindow = 300 * time.Millisecond
	}
	if opts.Debounce.MaxDelay <= 0 {
		opts.Debounce.MaxDelay = 3 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{opts: opts, status: &buildStatus{}, logger: logger}, nil
}

// Handler returns the HTTP handler: static files and the optional metrics
// endpoint. While the latest build is broken, files from the last good build
// are served with an X-Build-Error header; without any good build a plain
// text error page is served instead.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.opts.MetricsPath != "" && s.opts.MetricsHandler != nil {
		mux.Handle(s.opts.MetricsPath, s.opts.MetricsHandler)
	}
	files := http.FileServer(http.Dir(s.opts.OutputDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err, hasGoodBuild := s.status.get()
		if err != nil && hasGoodBuild {
			w.Header().Set("X-Build-Error", firstLine(err.Error()))
		}
		if err != nil && !hasGoodBuild {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = fmt.Fprintf(w, "Latest build failed:\n\n%v\n", err)
			return
		}
		files.ServeHTTP(w, r)
	}))
	return mux
}

// RecordBuild updates the build state shown by Handler.
func (s *Server) RecordBuild(err error) {
	if err != nil {
		s.status.setError(err)
		return
	}
	s.status.setSuccess()
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	s.logger.Info("Preview server listening", logfields.URL("http://"+ln.Addr().String()), logfields.Path(s.opts.OutputDir))

	var wg sync.WaitGroup
	if s.opts.Watch {
		watcher, err := setupFileWatcher(s.opts.WatchDirs, s.logger)
		if err != nil {
			_ = srv.Close()
			return err
		}
		defer func() { _ = watcher.Close() }()

		debouncer, err := NewDebouncer(s.opts.Debounce)
		if err != nil {
			_ = srv.Close()
			return err
		}
		wg.Add(2)
		go func() {
			defer wg.Done()
			debouncer.Run(ctx)
		}()
		go func() {
			defer wg.Done()
			s.rebuildLoop(ctx, debouncer.Triggers())
		}()
		go s.watchLoop(ctx, watcher, debouncer)
	}

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("preview server: %w", err)
		}
	}

	s.logger.Info("Shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	wg.Wait()
	return nil
}

// rebuildLoop runs one build per trigger. Triggers arriving during a build
// wait in the debouncer's buffer, so at most one follow-up build runs.
func (s *Server) rebuildLoop(ctx context.Context, triggers <-chan Trigger) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-triggers:
			s.logger.Info("Change detected; rebuilding blog",
				logfields.Count(t.Changes),
				logfields.Path(t.Last),
				slog.String("cause", t.Cause))
			err := s.opts.Build(ctx)
			if err != nil {
				s.logger.Warn("Rebuild failed", logfields.Error(err))
			}
			s.RecordBuild(err)
		}
	}
}

func (s *Server) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, d *Debouncer) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if shouldIgnoreEvent(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					addDirsRecursive(watcher, ev.Name, s.logger)
				}
			}
			s.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			d.Notify(ev.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func setupFileWatcher(dirs []string, logger *slog.Logger) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			logger.Warn("Not watching missing directory", logfields.Path(dir))
			continue
		}
		addDirsRecursive(watcher, dir, logger)
	}
	return watcher, nil
}

func addDirsRecursive(w *fsnotify.Watcher, root string, logger *slog.Logger) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent skips hidden files and editor scratch files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}

type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.hasGoodBuild = true
}

func (bs *buildStatus) get() (lastError error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError, bs.hasGoodBuild
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
