// Package web serves git-streak over HTTP: JSON endpoints for sources,
// saved datasets and grids, and a websocket that streams a live game.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/riannelimje/git-streak/internal/contrib"
	"github.com/riannelimje/git-streak/internal/game"
	"github.com/riannelimje/git-streak/internal/registry"
	"github.com/riannelimje/git-streak/internal/session"
	"github.com/riannelimje/git-streak/internal/sources"
	"github.com/riannelimje/git-streak/internal/storage"
)

// Options configures a Server.
type Options struct {
	Address string
	Tick    time.Duration
	Growth  game.GrowthPolicy
	Sources registry.Options
	Store   *storage.Store // nil disables caching and saved datasets
	Logger  *log.Logger

	// Now is used for grid building. Defaults to time.Now.
	Now func() time.Time
}

// Server is the HTTP driver.
type Server struct {
	opts     Options
	engine   *gin.Engine
	sessions *session.Registry
	logger   *log.Logger
	http     *http.Server
}

// NewServer builds the router. Nothing listens until ListenAndServe.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		opts:     opts,
		engine:   gin.New(),
		sessions: session.NewRegistry(),
		logger:   opts.Logger.WithPrefix("gitstreak-http"),
	}
	s.engine.Use(gin.Recovery(), s.requestLogger)
	s.routes()

	s.http = &http.Server{
		Addr:              opts.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api")
	api.GET("/sources", s.handleSources)
	api.GET("/datasets", s.handleDatasets)
	api.GET("/grid/:source", s.handleGrid)
	api.GET("/play/:source", s.handlePlay)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Sessions returns the live game registry.
func (s *Server) Sessions() *session.Registry {
	return s.sessions
}

// ListenAndServe serves until ctx is cancelled, then stops every live game.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", "address", s.opts.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server", "sessions", s.sessions.Count())
	s.sessions.StopAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("Request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"took", time.Since(start),
	)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Count()})
}

func (s *Server) handleSources(c *gin.Context) {
	c.JSON(http.StatusOK, registry.List())
}

func (s *Server) handleDatasets(c *gin.Context) {
	if s.opts.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no dataset database configured"})
		return
	}
	infos, err := s.opts.Store.ListDatasets(c.Request.Context())
	if err != nil {
		s.logger.Error("Cannot list datasets", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if infos == nil {
		infos = []storage.DatasetInfo{}
	}
	c.JSON(http.StatusOK, infos)
}

// gridResponse is the body of GET /api/grid/:source.
type gridResponse struct {
	Source string     `json:"source"`
	Grid   game.Grid  `json:"grid"`
	Stats  game.Stats `json:"stats"`
}

func (s *Server) handleGrid(c *gin.Context) {
	src := c.Param("source")
	grid, err := s.loadGrid(c.Request.Context(), src, c.Query("dataset"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gridResponse{
		Source: src,
		Grid:   grid,
		Stats:  game.GetStats(game.Initialize(grid)),
	})
}

// loadGrid fetches days for source, or for the saved dataset when the source
// is "saved", and lays them out on a grid.
func (s *Server) loadGrid(ctx context.Context, source, dataset string) (game.Grid, error) {
	var store sources.DatasetStore
	if s.opts.Store != nil {
		store = s.opts.Store
	}

	var src registry.Source
	if source == "saved" {
		if store == nil {
			return nil, errNoStore
		}
		if dataset == "" {
			return nil, errMissingDataset
		}
		src = &sources.Stored{Store: store, Name: dataset}
	} else {
		var err error
		if src, err = sources.New(source, s.opts.Sources, store, s.logger); err != nil {
			return nil, err
		}
	}

	now := s.opts.Now()
	days, err := src.Fetch(ctx, now)
	if err != nil {
		return nil, err
	}
	return contrib.BuildGrid(days, now), nil
}

var (
	errNoStore        = errors.New("web: no dataset database configured")
	errMissingDataset = errors.New("web: dataset query parameter is required")
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrUnknownSource), errors.Is(err, storage.ErrDatasetNotFound):
		return http.StatusNotFound
	case errors.Is(err, errMissingDataset), errors.Is(err, sources.ErrMissingToken):
		return http.StatusBadRequest
	case errors.Is(err, errNoStore):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}
