package game

// Stats is a read-only summary of a State.
type Stats struct {
	Score          int `json:"score"`
	MaxScore       int `json:"maxScore"`
	TilesCollected int `json:"tilesCollected"`
	TilesRemaining int `json:"tilesRemaining"`
	SnakeLength    int `json:"snakeLength"`
}

// GetStats counts collected and remaining tiles among those with commits.
// It is valid in any phase, including after the game ended.
func GetStats(s State) Stats {
	st := Stats{
		Score:       s.Score,
		SnakeLength: len(s.Snake.Body),
	}
	for _, week := range s.Grid {
		for _, t := range week {
			if t.Commits <= 0 {
				continue
			}
			st.MaxScore += t.Commits
			if t.IsCollected {
				st.TilesCollected++
			} else {
				st.TilesRemaining++
			}
		}
	}
	return st
}
