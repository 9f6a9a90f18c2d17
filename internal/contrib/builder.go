package contrib

import (
	"time"

	"github.com/riannelimje/git-streak/internal/game"
)

// BuildGrid lays days onto a full-size calendar anchored WindowDays before
// now. Entries outside the 53-week window or with unparsable dates are
// dropped. When two entries land on the same cell the later one wins.
func BuildGrid(days []Day, now time.Time) game.Grid {
	return BuildGridFrom(days, Anchor(now))
}

// BuildGridFrom is BuildGrid with an explicit week-0 date.
func BuildGridFrom(days []Day, anchor time.Time) game.Grid {
	grid := game.NewGrid()
	anchor = Midnight(anchor)

	for _, d := range days {
		date, err := ParseDate(d.Date)
		if err != nil {
			continue
		}
		week := WeekOffset(date, anchor)
		if week < 0 || week >= game.WeeksInGrid {
			continue
		}
		grid[week][DayOfWeek(date)] = game.Tile{
			Date:    d.Date,
			Commits: max(d.Count, 0),
		}
	}
	return grid
}
