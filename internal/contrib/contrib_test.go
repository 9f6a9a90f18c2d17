package contrib

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riannelimje/git-streak/internal/game"
)

// 2026-10-18 is a Sunday; the anchor 365 days earlier is 2025-10-18, a Saturday.
var testNow = time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)

func TestAnchor(t *testing.T) {
	got := FormatDate(Anchor(testNow))
	if got != "2025-10-18" {
		t.Errorf("Expected anchor 2025-10-18, got %s", got)
	}
}

func TestWeekOffset(t *testing.T) {
	anchor := Anchor(testNow)
	tests := []struct {
		date string
		want int
	}{
		{"2025-10-18", 0},
		{"2025-10-24", 0},
		{"2025-10-25", 1},
		{"2025-10-17", -1},
		{"2025-10-11", -1},
		{"2025-10-10", -2},
		{"2026-10-17", 52},
		{"2026-10-24", 53},
	}

	for _, tc := range tests {
		t.Run(tc.date, func(t *testing.T) {
			d, err := ParseDate(tc.date)
			if err != nil {
				t.Fatalf("ParseDate failed: %v", err)
			}
			if got := WeekOffset(d, anchor); got != tc.want {
				t.Errorf("Expected week %d, got %d", tc.want, got)
			}
		})
	}
}

func TestDayOfWeek(t *testing.T) {
	d, _ := ParseDate("2026-10-18")
	if DayOfWeek(d) != 0 {
		t.Errorf("Expected Sunday=0, got %d", DayOfWeek(d))
	}
	d, _ = ParseDate("2025-10-18")
	if DayOfWeek(d) != 6 {
		t.Errorf("Expected Saturday=6, got %d", DayOfWeek(d))
	}
}

func TestLast365Days(t *testing.T) {
	dates := Last365Days(testNow)
	if len(dates) != WindowDays {
		t.Fatalf("Expected %d dates, got %d", WindowDays, len(dates))
	}
	if dates[0] != "2025-10-18" || dates[len(dates)-1] != "2026-10-17" {
		t.Errorf("Unexpected range %s..%s", dates[0], dates[len(dates)-1])
	}
}

func TestBuildGridPlacement(t *testing.T) {
	days := []Day{
		{Date: "2025-10-18", Count: 4}, // anchor: week 0, Saturday
		{Date: "2025-10-19", Count: 1}, // week 0, Sunday
		{Date: "2026-01-07", Count: 9}, // 81 days: week 11, Wednesday
		{Date: "2026-10-17", Count: 2}, // week 52, Saturday
	}

	g := BuildGrid(days, testNow)

	weeks, perWeek := game.Dimensions(g)
	if weeks != game.WeeksInGrid || perWeek != game.DaysPerWeek {
		t.Fatalf("Expected %dx%d grid, got %dx%d", game.WeeksInGrid, game.DaysPerWeek, weeks, perWeek)
	}

	checks := []struct {
		week, day int
		date      string
		commits   int
	}{
		{0, 6, "2025-10-18", 4},
		{0, 0, "2025-10-19", 1},
		{11, 3, "2026-01-07", 9},
		{52, 6, "2026-10-17", 2},
	}
	for _, c := range checks {
		tile := g[c.week][c.day]
		if tile.Date != c.date || tile.Commits != c.commits || tile.IsCollected {
			t.Errorf("grid[%d][%d] = %+v, expected date %s commits %d", c.week, c.day, tile, c.date, c.commits)
		}
	}

	if g[1][0] != (game.Tile{}) {
		t.Errorf("Unset cells should be empty tiles, got %+v", g[1][0])
	}
}

func TestBuildGridDropsOutOfWindow(t *testing.T) {
	days := []Day{
		{Date: "2025-10-10", Count: 3},
		{Date: "2026-10-25", Count: 3},
		{Date: "not-a-date", Count: 3},
		{Date: "2025-11-01", Count: 1},
	}

	g := BuildGrid(days, testNow)

	if game.MaxScore(g) != 1 {
		t.Errorf("Expected only the in-window entry, max score %d", game.MaxScore(g))
	}
}

func TestBuildGridLastWriteWins(t *testing.T) {
	days := []Day{
		{Date: "2026-03-03", Count: 2},
		{Date: "2026-03-03", Count: 7},
	}
	g := BuildGrid(days, testNow)
	if game.MaxScore(g) != 7 {
		t.Errorf("Expected later entry to win, got total %d", game.MaxScore(g))
	}
}

func TestBuildGridDeterministic(t *testing.T) {
	days := []Day{{Date: "2026-02-14", Count: 5}, {Date: "2026-06-01", Count: 1}}
	a := BuildGrid(days, testNow)
	b := BuildGrid(days, testNow)
	for w := range a {
		for d := range a[w] {
			if a[w][d] != b[w][d] {
				t.Fatalf("Grids differ at [%d][%d]", w, d)
			}
		}
	}
}

func TestFullWindowFillsGrid(t *testing.T) {
	var days []Day
	for _, d := range Last365Days(testNow) {
		days = append(days, Day{Date: d, Count: 1})
	}
	g := BuildGrid(days, testNow)
	if n := game.CollectableCount(g); n != WindowDays {
		t.Errorf("Expected all %d days on the board, got %d", WindowDays, n)
	}
}

func TestTotals(t *testing.T) {
	days := []Day{{"2026-01-01", 0}, {"2026-01-02", 3}, {"2026-01-03", 5}}
	if TotalCommits(days) != 8 {
		t.Errorf("Expected 8 commits, got %d", TotalCommits(days))
	}
	if ActiveDays(days) != 2 {
		t.Errorf("Expected 2 active days, got %d", ActiveDays(days))
	}
	s := Summarize(days)
	if s.Days != 3 || s.ActiveDays != 2 || s.TotalCommits != 8 {
		t.Errorf("Unexpected summary %+v", s)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct{ count, want int }{
		{0, 0}, {1, 1}, {3, 1}, {4, 2}, {6, 2}, {7, 3}, {9, 3}, {10, 4}, {250, 4},
	}
	for _, tc := range tests {
		if got := Level(tc.count); got != tc.want {
			t.Errorf("Level(%d) = %d, expected %d", tc.count, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		data    string
		want    int
		wantErr bool
	}{
		{"yaml list", FormatYAML, "- date: 2026-01-01\n  count: 2\n- date: 2026-01-02\n  count: 0\n", 2, false},
		{"yaml document", FormatYAML, "name: mine\ndays:\n  - date: 2026-01-01\n    count: 4\n", 1, false},
		{"json list", FormatJSON, `[{"date":"2026-01-01","count":1}]`, 1, false},
		{"json document", FormatJSON, `{"days":[{"date":"2026-01-01","count":1},{"date":"2026-01-02","count":2}]}`, 2, false},
		{"negative count", FormatJSON, `[{"date":"2026-01-01","count":-1}]`, 0, true},
		{"bad date", FormatYAML, "- date: yesterday\n  count: 1\n", 0, true},
		{"garbage", FormatJSON, `{{`, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			days, err := Parse([]byte(tc.data), tc.format)
			if tc.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(days) != tc.want {
				t.Errorf("Expected %d days, got %d", tc.want, len(days))
			}
		})
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := FormatFromPath("days.csv"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := Parse([]byte("x"), Format("toml")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestWriteThenLoadFile(t *testing.T) {
	days := []Day{{"2026-04-01", 3}, {"2026-04-02", 0}, {"2026-04-03", 11}}

	for _, ext := range []string{".yaml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			format, err := FormatFromPath(ext)
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			if err := Write(&buf, days, format); err != nil {
				t.Fatalf("Write failed: %v", err)
			}

			path := filepath.Join(t.TempDir(), "days"+ext)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				t.Fatal(err)
			}

			got, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile failed: %v", err)
			}
			if len(got) != len(days) {
				t.Fatalf("Expected %d days, got %d", len(days), len(got))
			}
			for i := range days {
				if got[i] != days[i] {
					t.Errorf("day %d: expected %+v, got %+v", i, days[i], got[i])
				}
			}
		})
	}
}
