package sources

import (
	"context"
	"errors"
	"time"

	"github.com/riannelimje/git-streak/internal/contrib"
	"github.com/riannelimje/git-streak/internal/registry"
)

// File loads a YAML or JSON dataset from disk on every Fetch.
type File struct {
	Path string
}

// ID implements registry.Source.
func (f *File) ID() string {
	return "file"
}

// Fetch implements registry.Source. now is ignored; the file's dates are used
// as written.
func (f *File) Fetch(_ context.Context, _ time.Time) ([]contrib.Day, error) {
	return contrib.LoadFile(f.Path)
}

func init() {
	registry.Register(registry.Info{
		ID:          "file",
		Title:       "Dataset File",
		Description: "YAML or JSON list of {date, count}",
	}, func(o registry.Options) (registry.Source, error) {
		if o.Path == "" {
			return nil, errors.New("sources: file source needs a path")
		}
		if _, err := contrib.FormatFromPath(o.Path); err != nil {
			return nil, err
		}
		return &File{Path: o.Path}, nil
	})
}
