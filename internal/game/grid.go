// Package game implements the contribution-grid snake: tiles, the snake,
// the tick state machine and the action reducer. It is pure logic with no
// I/O, timers or logging; drivers own scheduling and presentation.
package game

// Calendar dimensions.
const (
	DaysPerWeek = 7
	WeeksInGrid = 53
)

// Tile is one calendar day on the board.
// An empty Date marks a cell with no underlying data; it is never collectable.
type Tile struct {
	Date        string `json:"date"`
	Commits     int    `json:"commits"`
	IsCollected bool   `json:"isCollected"`
}

// TileUpdate is a partial tile update. Nil fields are left untouched.
type TileUpdate struct {
	Date        *string
	Commits     *int
	IsCollected *bool
}

// Grid is indexed [week][day]. Dimensions never change after construction.
//
// Transitions never write into an existing Grid: UpdateTile copies the outer
// slice and the touched week, sharing every other week with the source. Any
// Grid handed out in a State therefore stays valid as a snapshot.
type Grid [][]Tile

// Position addresses a tile. Row is the day-of-week axis (0-6) and Col is the
// week axis, so a Position maps to grid[Col][Row]. Use Grid.At rather than
// indexing by hand.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NewGrid returns an empty WeeksInGrid x DaysPerWeek grid.
func NewGrid() Grid {
	return NewGridSize(WeeksInGrid)
}

// NewGridSize returns an empty grid with the given number of weeks.
func NewGridSize(weeks int) Grid {
	if weeks < 0 {
		weeks = 0
	}
	g := make(Grid, weeks)
	for w := range g {
		g[w] = make([]Tile, DaysPerWeek)
	}
	return g
}

// Weeks returns the number of week columns.
func (g Grid) Weeks() int {
	return len(g)
}

// InBounds reports whether p lies on the board.
func (g Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < DaysPerWeek && p.Col >= 0 && p.Col < len(g)
}

// At returns the tile at p, translating {Row, Col} to grid[Col][Row].
func (g Grid) At(p Position) (Tile, bool) {
	return GetTile(g, p.Row, p.Col)
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for w, week := range g {
		out[w] = make([]Tile, len(week))
		copy(out[w], week)
	}
	return out
}

// GetTile returns the tile at (row, col). ok is false when the coordinates are
// off the board.
func GetTile(g Grid, row, col int) (Tile, bool) {
	if row < 0 || row >= DaysPerWeek || col < 0 || col >= len(g) {
		return Tile{}, false
	}
	week := g[col]
	if row >= len(week) {
		return Tile{}, false
	}
	return week[row], true
}

// UpdateTile returns a grid with the tile at (row, col) patched by upd.
// Off-board coordinates return g unchanged.
func UpdateTile(g Grid, row, col int, upd TileUpdate) Grid {
	tile, ok := GetTile(g, row, col)
	if !ok {
		return g
	}
	if upd.Date != nil {
		tile.Date = *upd.Date
	}
	if upd.Commits != nil {
		tile.Commits = *upd.Commits
	}
	if upd.IsCollected != nil {
		tile.IsCollected = *upd.IsCollected
	}

	out := make(Grid, len(g))
	copy(out, g)
	week := make([]Tile, len(g[col]))
	copy(week, g[col])
	week[row] = tile
	out[col] = week
	return out
}

// IsCollectable reports whether t still awards points.
func IsCollectable(t Tile) bool {
	return t.Commits > 0 && !t.IsCollected
}

// CollectableCount returns the number of collectable tiles.
func CollectableCount(g Grid) int {
	n := 0
	for _, week := range g {
		for _, t := range week {
			if IsCollectable(t) {
				n++
			}
		}
	}
	return n
}

// AreAllTilesCollected is the win condition.
func AreAllTilesCollected(g Grid) bool {
	return CollectableCount(g) == 0
}

// MaxScore is the sum of every tile's commits.
func MaxScore(g Grid) int {
	total := 0
	for _, week := range g {
		for _, t := range week {
			total += t.Commits
		}
	}
	return total
}

// FindFirstCollectableTile scans week by week, day by day.
func FindFirstCollectableTile(g Grid) (Position, bool) {
	for col, week := range g {
		for row, t := range week {
			if IsCollectable(t) {
				return Position{Row: row, Col: col}, true
			}
		}
	}
	return Position{}, false
}

// ResetCollected returns a fresh grid with every IsCollected flag cleared and
// all other tile data preserved.
func ResetCollected(g Grid) Grid {
	out := g.Clone()
	for w := range out {
		for d := range out[w] {
			out[w][d].IsCollected = false
		}
	}
	return out
}

// ContributionLevel buckets a commit count into GitHub's five intensities:
// 0, 1-3, 4-6, 7-9 and 10+.
func ContributionLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 3:
		return 1
	case count <= 6:
		return 2
	case count <= 9:
		return 3
	default:
		return 4
	}
}

// Dimensions returns (weeks, days per week).
func Dimensions(g Grid) (weeks, days int) {
	return len(g), DaysPerWeek
}
