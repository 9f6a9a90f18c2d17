package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/riannelimje/git-streak/internal/contrib"
	"github.com/riannelimje/git-streak/internal/game"
	"github.com/riannelimje/git-streak/internal/registry"
	"github.com/riannelimje/git-streak/internal/storage"
)

var testNow = time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T, store *storage.Store) *Server {
	t.Helper()
	return NewServer(Options{
		Tick:    time.Hour,
		Sources: registry.Options{Seed: 42},
		Store:   store,
		Logger:  log.New(io.Discard),
		Now:     func() time.Time { return testNow },
	})
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("Unexpected body %s", rec.Body.String())
	}
}

func TestListSources(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/api/sources")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var infos []registry.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, info := range infos {
		if info.ID == "medium" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected medium in %+v", infos)
	}
}

func TestGrid(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/api/grid/medium")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp gridResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Grid) != game.WeeksInGrid || len(resp.Grid[0]) != game.DaysPerWeek {
		t.Errorf("Expected %dx%d grid, got %dx%d", game.WeeksInGrid, game.DaysPerWeek, len(resp.Grid), len(resp.Grid[0]))
	}
	if resp.Stats.MaxScore != game.MaxScore(resp.Grid) || resp.Stats.MaxScore == 0 {
		t.Errorf("Unexpected stats %+v", resp.Stats)
	}
}

func TestGridErrors(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		path string
		code int
	}{
		{"/api/grid/nope", http.StatusNotFound},
		{"/api/grid/saved?dataset=mine", http.StatusServiceUnavailable},
		{"/api/datasets", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if rec := get(t, s, tt.path); rec.Code != tt.code {
				t.Errorf("Expected %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSavedDatasets(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "web.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	days := []contrib.Day{
		{Date: "2026-10-01", Count: 3},
		{Date: "2026-10-02", Count: 0},
		{Date: "2026-10-03", Count: 5},
	}
	if err := store.SaveDataset(context.Background(), "mine", "file", days); err != nil {
		t.Fatal(err)
	}

	s := newTestServer(t, store)

	rec := get(t, s, "/api/datasets")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var infos []storage.DatasetInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].Name != "mine" || infos[0].TotalCommits != 8 {
		t.Errorf("Unexpected datasets %+v", infos)
	}

	rec = get(t, s, "/api/grid/saved?dataset=mine")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp gridResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Stats.MaxScore != 8 || resp.Stats.TilesRemaining != 2 {
		t.Errorf("Unexpected stats %+v", resp.Stats)
	}

	if rec := get(t, s, "/api/grid/saved?dataset=other"); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown dataset, got %d", rec.Code)
	}
	if rec := get(t, s, "/api/grid/saved"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without dataset, got %d", rec.Code)
	}
}

// readUntil reads messages until match accepts one or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, match func(Message) bool) Message {
	t.Helper()
	//nolint:errcheck
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON failed: %v", err)
		}
		if match(msg) {
			return msg
		}
	}
}

func TestPlayOverWebsocket(t *testing.T) {
	s := newTestServer(t, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/play/medium"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	first := readUntil(t, conn, func(m Message) bool { return m.Type == "snapshot" })
	if first.Snapshot.State != game.StatePlaying {
		t.Fatalf("Expected a playing game, got %s", first.Snapshot.State)
	}
	if s.Sessions().Count() != 1 {
		t.Errorf("Expected 1 live session, got %d", s.Sessions().Count())
	}

	if err := conn.WriteJSON(Command{Type: "direction", Direction: "down"}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, func(m Message) bool {
		return m.Type == "snapshot" && m.Snapshot.Game.Snake.Direction == game.DirDown
	})

	if err := conn.WriteJSON(Command{Type: "pause", Paused: true}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, func(m Message) bool { return m.Type == "snapshot" && m.Snapshot.Paused })

	if err := conn.WriteJSON(Command{Type: "direction", Direction: "sideways"}); err != nil {
		t.Fatal(err)
	}
	msg := readUntil(t, conn, func(m Message) bool { return m.Type == "error" })
	if msg.Error == "" {
		t.Error("Expected an error message for a bad direction")
	}

	conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for s.Sessions().Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("Session was not unregistered after the socket closed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// gatedSource answers its first fetch at once and holds later fetches until
// the gate is closed.
type gatedSource struct {
	calls *atomic.Int32
	gate  chan struct{}
}

func (s gatedSource) ID() string { return "test-gated" }

func (s gatedSource) Fetch(ctx context.Context, _ time.Time) ([]contrib.Day, error) {
	if s.calls.Add(1) > 1 {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return []contrib.Day{{Date: "2026-09-01", Count: 3}, {Date: "2026-10-01", Count: 5}}, nil
}

var (
	gatedCalls atomic.Int32
	gatedGate  chan struct{}
	gatedMu    sync.Mutex
)

func registerGatedSource(t *testing.T) (release func()) {
	t.Helper()
	gatedMu.Lock()
	gatedCalls.Store(0)
	gatedGate = make(chan struct{})
	gate := gatedGate
	gatedMu.Unlock()

	if !registry.Exists("test-gated") {
		registry.Register(registry.Info{ID: "test-gated"}, func(registry.Options) (registry.Source, error) {
			gatedMu.Lock()
			defer gatedMu.Unlock()
			return gatedSource{calls: &gatedCalls, gate: gatedGate}, nil
		})
	}

	var once sync.Once
	release = func() { once.Do(func() { close(gate) }) }
	t.Cleanup(release)
	return release
}

func TestNewGameDoesNotBlockCommands(t *testing.T) {
	release := registerGatedSource(t)
	s := newTestServer(t, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/play/test-gated"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	readUntil(t, conn, func(m Message) bool { return m.Type == "snapshot" })

	if err := conn.WriteJSON(Command{Type: "new_game"}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(Command{Type: "direction", Direction: "down"}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, func(m Message) bool {
		return m.Type == "snapshot" && m.Snapshot.Game.Snake.Direction == game.DirDown
	})

	release()
	msg := readUntil(t, conn, func(m Message) bool {
		return m.Type == "snapshot" && m.Snapshot.Game.Snake.Direction == game.DirRight
	})
	if msg.Snapshot.State != game.StatePlaying || msg.Snapshot.Game.Score != 0 {
		t.Errorf("Expected a fresh game after the fetch finished, got %+v", msg.Snapshot)
	}
}

func TestPlayRejectsCrossOrigin(t *testing.T) {
	s := newTestServer(t, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/play/medium"

	header := http.Header{"Origin": []string{"http://elsewhere.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		conn.Close()
		t.Fatal("Expected a cross-origin upgrade to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403, got %v", resp)
	}
	if s.Sessions().Count() != 0 {
		t.Errorf("Expected no live session after a rejected upgrade, got %d", s.Sessions().Count())
	}

	header = http.Header{"Origin": []string{ts.URL}}
	conn, _, err = websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("Expected a same-origin upgrade to succeed, got %v", err)
	}
	conn.Close()
}

func TestPlayUnknownSource(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/api/play/nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 before upgrading, got %d", rec.Code)
	}
}
