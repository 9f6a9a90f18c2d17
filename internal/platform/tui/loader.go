package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/riannelimje/git-streak/internal/contrib"
	"github.com/riannelimje/git-streak/internal/game"
	"github.com/riannelimje/git-streak/internal/registry"
	"github.com/riannelimje/git-streak/internal/sources"
	"github.com/riannelimje/git-streak/internal/storage"
)

// fetchTimeout bounds a single dataset fetch started from the UI.
const fetchTimeout = 30 * time.Second

// Services are the collaborators a session needs beyond the screen.
type Services struct {
	Store   *storage.Store // nil disables caching and saved datasets
	Sources registry.Options
	Growth  game.GrowthPolicy
	Logger  *log.Logger

	// DefaultSource is preselected in the menu.
	DefaultSource string
}

// Selection names what to play: a registered source, or a saved dataset when
// Dataset is true.
type Selection struct {
	ID      string
	Title   string
	Dataset bool
}

// GridLoader produces a fresh grid for a new game.
type GridLoader func(ctx context.Context) (game.Grid, error)

// NewLoader returns a GridLoader for sel. Every call fetches again, so
// unseeded synthetic sources yield a different year each time.
func (s Services) NewLoader(sel Selection) (GridLoader, error) {
	var store sources.DatasetStore
	if s.Store != nil {
		store = s.Store
	}

	var src registry.Source
	if sel.Dataset {
		if store == nil {
			return nil, fmt.Errorf("saved dataset %q needs a database", sel.ID)
		}
		src = &sources.Stored{Store: store, Name: sel.ID}
	} else {
		var err error
		src, err = sources.New(sel.ID, s.Sources, store, s.Logger)
		if err != nil {
			return nil, err
		}
	}

	return func(ctx context.Context) (game.Grid, error) {
		now := time.Now()
		days, err := src.Fetch(ctx, now)
		if err != nil {
			return nil, err
		}
		return contrib.BuildGrid(days, now), nil
	}, nil
}
