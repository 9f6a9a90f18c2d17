package game

// StateType names the engine phase for drivers and snapshots.
type StateType string

const (
	StatePlaying  StateType = "playing"
	StateGameOver StateType = "game_over"
	StateWin      StateType = "win"
)

// GrowthPolicy grows the snake by one segment for every Every tiles collected.
// The zero value disables growth and keeps the snake a constant length.
type GrowthPolicy struct {
	Every int `json:"every"`
}

// Enabled reports whether the policy ever grows the snake.
func (p GrowthPolicy) Enabled() bool {
	return p.Every > 0
}

// State is the complete, self-consistent game state. Transitions return a new
// State and never write through the slices of the one they were given.
type State struct {
	Grid       Grid  `json:"grid"`
	Snake      Snake `json:"snake"`
	Score      int   `json:"score"`
	IsGameOver bool  `json:"isGameOver"`
	IsWin      bool  `json:"isWin"`

	Growth           GrowthPolicy `json:"growth"`
	TilesSinceGrowth int          `json:"tilesSinceGrowth"`
	PendingGrowth    int          `json:"pendingGrowth"`
}

// Option configures a new game.
type Option func(*State)

// WithGrowth enables growing by one segment every n collected tiles.
// n <= 0 leaves growth disabled.
func WithGrowth(n int) Option {
	return func(s *State) {
		if n > 0 {
			s.Growth = GrowthPolicy{Every: n}
		}
	}
}

// WithGrowthPolicy applies p as is.
func WithGrowthPolicy(p GrowthPolicy) Option {
	return func(s *State) {
		s.Growth = p
	}
}

// Initialize starts a game on grid. The snake spawns on the first collectable
// tile heading right; a grid with nothing to collect starts already lost with
// the snake parked at (0,0).
func Initialize(grid Grid, opts ...Option) State {
	s := State{Grid: grid}
	for _, opt := range opts {
		opt(&s)
	}

	start, ok := FindFirstCollectableTile(grid)
	if !ok {
		s.Snake = CreateSnake(Position{Row: 0, Col: 0}, DirRight)
		s.IsGameOver = true
		return s
	}
	s.Snake = CreateSnake(start, DirRight)
	return s
}

// Type returns the current phase.
func (s State) Type() StateType {
	switch {
	case s.IsGameOver && s.IsWin:
		return StateWin
	case s.IsGameOver:
		return StateGameOver
	default:
		return StatePlaying
	}
}

// IsPlaying reports whether the game still accepts ticks.
func (s State) IsPlaying() bool {
	return !s.IsGameOver
}

// HandleDirectionChange turns the snake. Terminal states absorb the request.
func HandleDirectionChange(s State, dir Direction) State {
	if s.IsGameOver {
		return s
	}
	s.Snake = ChangeDirection(s.Snake, dir)
	return s
}

// Tick advances the game one step.
func Tick(s State) State {
	if s.IsGameOver {
		return s
	}

	grow := s.Growth.Enabled() && s.PendingGrowth > 0
	if !nextMoveValid(s.Snake, s.Grid, grow) {
		return lose(s)
	}

	moved := MoveSnake(s.Snake, grow)
	if grow {
		s.PendingGrowth--
	}

	// Re-checked after the move even though the pre-check should already have
	// caught it.
	if CheckWallCollision(moved, s.Grid) || CheckSelfCollision(moved) {
		s.Snake = moved
		return lose(s)
	}

	grid, points, collected := sweep(s.Grid, moved.Body)
	s.Grid = grid
	s.Snake = moved
	s.Score += points

	if s.Growth.Enabled() && collected > 0 {
		s.TilesSinceGrowth += collected
		s.PendingGrowth += s.TilesSinceGrowth / s.Growth.Every
		s.TilesSinceGrowth %= s.Growth.Every
	}

	if AreAllTilesCollected(s.Grid) {
		s.IsGameOver = true
		s.IsWin = true
	}
	return s
}

// Restart clears every collected flag on the current grid and starts over on
// it. Commit counts and the growth policy carry over; everything else is
// rebuilt.
func Restart(s State) State {
	return Initialize(ResetCollected(s.Grid), WithGrowthPolicy(s.Growth))
}

// NewGame starts over on a different grid, keeping the growth policy.
func NewGame(s State, grid Grid) State {
	return Initialize(grid, WithGrowthPolicy(s.Growth))
}

func lose(s State) State {
	s.IsGameOver = true
	s.IsWin = false
	return s
}

// sweep collects every collectable tile under the body.
func sweep(g Grid, body []Position) (Grid, int, int) {
	points, collected := 0, 0
	collectedFlag := true
	for _, p := range body {
		tile, ok := g.At(p)
		if !ok || !IsCollectable(tile) {
			continue
		}
		g = UpdateTile(g, p.Row, p.Col, TileUpdate{IsCollected: &collectedFlag})
		points += tile.Commits
		collected++
	}
	return g, points, collected
}
