package sources

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/riannelimje/git-streak/internal/contrib"
	"github.com/riannelimje/git-streak/internal/registry"
	"github.com/riannelimje/git-streak/internal/storage"
)

var testNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func TestBuiltinSourcesRegistered(t *testing.T) {
	for _, id := range []string{"light", "medium", "heavy", "github", "file"} {
		if !registry.Exists(id) {
			t.Errorf("Expected source %q to be registered", id)
		}
	}
}

func TestSyntheticDeterministic(t *testing.T) {
	for _, id := range []string{"light", "medium", "heavy"} {
		t.Run(id, func(t *testing.T) {
			a, err := registry.Create(id, registry.Options{Seed: 42})
			if err != nil {
				t.Fatal(err)
			}
			b, _ := registry.Create(id, registry.Options{Seed: 42})

			da, _ := a.Fetch(context.Background(), testNow)
			db, _ := b.Fetch(context.Background(), testNow)

			if len(da) != contrib.WindowDays {
				t.Fatalf("Expected %d days, got %d", contrib.WindowDays, len(da))
			}
			for i := range da {
				if da[i] != db[i] {
					t.Fatalf("day %d differs: %+v vs %+v", i, da[i], db[i])
				}
			}
			if da[0].Date != "2025-10-18" {
				t.Errorf("Expected first date at anchor, got %s", da[0].Date)
			}
		})
	}
}

func TestGenerateRanges(t *testing.T) {
	dates := contrib.Last365Days(testNow)
	tests := []struct {
		name     string
		profile  Profile
		maxCount int
		minRatio float64
	}{
		{"light", LightProfile, 3, 0.15},
		{"medium", MediumProfile, 8, 0.4},
		{"heavy", HeavyProfile, 19, 0.7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			days := Generate(dates, tc.profile, rand.New(rand.NewSource(7)))
			for _, d := range days {
				if d.Count < 0 || d.Count > tc.maxCount {
					t.Fatalf("count %d out of range for %s", d.Count, tc.name)
				}
			}
			ratio := float64(contrib.ActiveDays(days)) / float64(len(days))
			if ratio < tc.minRatio {
				t.Errorf("Expected at least %.0f%% active days, got %.0f%%", tc.minRatio*100, ratio*100)
			}
		})
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "days.json")
	os.WriteFile(path, []byte(`[{"date":"2026-05-01","count":3}]`), 0o644)

	src, err := registry.Create("file", registry.Options{Path: path})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	days, err := src.Fetch(context.Background(), testNow)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(days) != 1 || days[0].Count != 3 {
		t.Errorf("Unexpected days %+v", days)
	}

	if _, err := registry.Create("file", registry.Options{}); err == nil {
		t.Error("Expected error without a path")
	}
	if _, err := registry.Create("file", registry.Options{Path: "x.csv"}); !errors.Is(err, contrib.ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

// fakeGitHub answers viewer and contribution queries.
func fakeGitHub(t *testing.T, days int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"Bad credentials"}`)
			return
		}

		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(req.Query, "viewer") {
			io.WriteString(w, `{"data":{"viewer":{"login":"octo"}}}`)
			return
		}
		if req.Variables["username"] == "ghost" {
			io.WriteString(w, `{"data":{"user":null},"errors":[{"message":"Could not resolve to a User"}]}`)
			return
		}

		// Weeks are emitted newest first to check sorting.
		start := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
		type day struct {
			Date              string `json:"date"`
			ContributionCount int    `json:"contributionCount"`
		}
		type week struct {
			ContributionDays []day `json:"contributionDays"`
		}
		var weeks []week
		for i := 0; i < days; i += 7 {
			var wk week
			for j := i; j < i+7 && j < days; j++ {
				wk.ContributionDays = append(wk.ContributionDays, day{
					Date:              start.AddDate(0, 0, j).Format("2006-01-02"),
					ContributionCount: j % 5,
				})
			}
			weeks = append([]week{wk}, weeks...)
		}
		resp := map[string]any{"data": map[string]any{"user": map[string]any{
			"contributionsCollection": map[string]any{
				"contributionCalendar": map[string]any{"totalContributions": 0, "weeks": weeks},
			},
		}}}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestGitHubFetch(t *testing.T) {
	srv := fakeGitHub(t, 380)
	defer srv.Close()

	src, err := registry.Create("github", registry.Options{Token: "secret", Endpoint: srv.URL, HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	days, err := src.Fetch(context.Background(), testNow)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(days) != contrib.WindowDays {
		t.Fatalf("Expected last %d days, got %d", contrib.WindowDays, len(days))
	}
	for i := 1; i < len(days); i++ {
		if days[i-1].Date >= days[i].Date {
			t.Fatalf("Days not sorted at %d: %s >= %s", i, days[i-1].Date, days[i].Date)
		}
	}
	// 380 days from 2025-10-01; the first 15 are trimmed.
	if days[0].Date != "2025-10-16" {
		t.Errorf("Expected oldest kept day 2025-10-16, got %s", days[0].Date)
	}
}

func TestGitHubErrors(t *testing.T) {
	srv := fakeGitHub(t, 10)
	defer srv.Close()

	t.Run("missing token", func(t *testing.T) {
		if _, err := registry.Create("github", registry.Options{}); !errors.Is(err, ErrMissingToken) {
			t.Errorf("Expected ErrMissingToken, got %v", err)
		}
		g := &GitHub{}
		if _, err := g.Fetch(context.Background(), testNow); !errors.Is(err, ErrMissingToken) {
			t.Errorf("Expected ErrMissingToken, got %v", err)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		g := &GitHub{Token: "wrong", User: "octo", Endpoint: srv.URL, Client: srv.Client()}
		if _, err := g.Fetch(context.Background(), testNow); err == nil || !strings.Contains(err.Error(), "401") {
			t.Errorf("Expected HTTP 401 error, got %v", err)
		}
	})

	t.Run("graphql errors", func(t *testing.T) {
		g := &GitHub{Token: "secret", User: "ghost", Endpoint: srv.URL, Client: srv.Client()}
		if _, err := g.Fetch(context.Background(), testNow); err == nil || !strings.Contains(err.Error(), "Could not resolve") {
			t.Errorf("Expected GraphQL error, got %v", err)
		}
	})

	t.Run("viewer", func(t *testing.T) {
		g := &GitHub{Token: "secret", Endpoint: srv.URL, Client: srv.Client()}
		login, err := g.Viewer(context.Background())
		if err != nil || login != "octo" {
			t.Errorf("Expected octo, got %q (%v)", login, err)
		}
	})
}

type failingSource struct{ err error }

func (f failingSource) ID() string { return "flaky" }

func (f failingSource) Fetch(context.Context, time.Time) ([]contrib.Day, error) {
	return nil, f.err
}

func TestCachedSource(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()
	logger := log.New(io.Discard)

	good := NewSynthetic("medium", MediumProfile, 3)
	cached := NewCached(good, store, "mine", logger)
	want, err := cached.Fetch(ctx, testNow)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	ds, err := store.LoadDataset(ctx, "mine")
	if err != nil {
		t.Fatalf("Expected dataset to be cached: %v", err)
	}
	if ds.Source != "medium" || len(ds.Days) != len(want) {
		t.Errorf("Unexpected cached dataset: source=%s days=%d", ds.Source, len(ds.Days))
	}

	offline := errors.New("offline")
	fallback := NewCached(failingSource{err: offline}, store, "mine", logger)
	got, err := fallback.Fetch(ctx, testNow)
	if err != nil {
		t.Fatalf("Expected fallback to cached copy, got %v", err)
	}
	if contrib.TotalCommits(got) != contrib.TotalCommits(want) {
		t.Error("Fallback returned a different dataset")
	}

	empty := NewCached(failingSource{err: offline}, store, "nothing-here", logger)
	if _, err := empty.Fetch(ctx, testNow); !errors.Is(err, offline) {
		t.Errorf("Expected original error without a cached copy, got %v", err)
	}

	stored := &Stored{Store: store, Name: "mine"}
	if days, err := stored.Fetch(ctx, testNow); err != nil || len(days) != len(want) {
		t.Errorf("Stored source returned %d days (%v)", len(days), err)
	}
}
