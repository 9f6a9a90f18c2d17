package sources

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/riannelimje/git-streak/internal/contrib"
	"github.com/riannelimje/git-streak/internal/registry"
	"github.com/riannelimje/git-streak/internal/storage"
)

// DatasetStore is the part of storage.Store the cache needs.
type DatasetStore interface {
	SaveDataset(ctx context.Context, name, source string, days []contrib.Day) error
	LoadDataset(ctx context.Context, name string) (storage.Dataset, error)
}

// Cached wraps a source so successful fetches are stored under Name and
// failed fetches fall back to the stored copy.
type Cached struct {
	Source registry.Source
	Store  DatasetStore
	Name   string
	Logger *log.Logger
}

// NewCached wraps src. An empty name uses the source id.
func NewCached(src registry.Source, store DatasetStore, name string, logger *log.Logger) *Cached {
	if name == "" {
		name = src.ID()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Cached{Source: src, Store: store, Name: name, Logger: logger}
}

// ID implements registry.Source.
func (c *Cached) ID() string {
	return c.Source.ID()
}

// Fetch implements registry.Source.
func (c *Cached) Fetch(ctx context.Context, now time.Time) ([]contrib.Day, error) {
	days, err := c.Source.Fetch(ctx, now)
	if err == nil {
		if serr := c.Store.SaveDataset(ctx, c.Name, c.Source.ID(), days); serr != nil {
			c.Logger.Warn("Could not cache dataset", "dataset", c.Name, "error", serr)
		} else {
			c.Logger.Debug("Cached dataset", "dataset", c.Name, "days", len(days))
		}
		return days, nil
	}

	ds, lerr := c.Store.LoadDataset(ctx, c.Name)
	if lerr != nil {
		if errors.Is(lerr, storage.ErrDatasetNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w (cache: %v)", err, lerr)
	}

	c.Logger.Warn("Fetch failed, using cached dataset",
		"source", c.Source.ID(), "dataset", c.Name, "fetched_at", ds.FetchedAt, "error", err)
	return ds.Days, nil
}

// Stored serves a dataset previously saved in the cache.
type Stored struct {
	Store DatasetStore
	Name  string
}

// ID implements registry.Source.
func (s *Stored) ID() string {
	return "stored"
}

// Fetch implements registry.Source.
func (s *Stored) Fetch(ctx context.Context, _ time.Time) ([]contrib.Day, error) {
	ds, err := s.Store.LoadDataset(ctx, s.Name)
	if err != nil {
		return nil, err
	}
	return ds.Days, nil
}

// New creates the registered source id. Network-backed sources are wrapped
// in Cached when store is not nil.
func New(id string, opts registry.Options, store DatasetStore, logger *log.Logger) (registry.Source, error) {
	src, err := registry.Create(id, opts)
	if err != nil {
		return nil, err
	}
	if store != nil && id == "github" {
		return NewCached(src, store, "", logger), nil
	}
	return src, nil
}
