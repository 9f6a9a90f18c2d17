package contrib

import "github.com/riannelimje/git-streak/internal/game"

// Day is one calendar date and its contribution count.
type Day struct {
	Date  string `json:"date" yaml:"date"`
	Count int    `json:"count" yaml:"count"`
}

// Dataset is a named list of days as stored and served.
type Dataset struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Days []Day  `json:"days" yaml:"days"`
}

// Summary holds totals shown when picking or listing datasets.
type Summary struct {
	Days         int `json:"days"`
	ActiveDays   int `json:"activeDays"`
	TotalCommits int `json:"totalCommits"`
}

// TotalCommits sums every count.
func TotalCommits(days []Day) int {
	total := 0
	for _, d := range days {
		total += d.Count
	}
	return total
}

// ActiveDays counts days with at least one contribution.
func ActiveDays(days []Day) int {
	n := 0
	for _, d := range days {
		if d.Count > 0 {
			n++
		}
	}
	return n
}

// Summarize computes a Summary for days.
func Summarize(days []Day) Summary {
	return Summary{
		Days:         len(days),
		ActiveDays:   ActiveDays(days),
		TotalCommits: TotalCommits(days),
	}
}

// Level buckets a count into the calendar's five colour intensities.
func Level(count int) int {
	return game.ContributionLevel(count)
}
