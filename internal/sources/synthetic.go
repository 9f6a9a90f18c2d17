// Package sources implements the contribution dataset sources and registers
// them with the registry. Import it for side effects:
//
//	import _ "github.com/riannelimje/git-streak/internal/sources"
package sources

import (
	"context"
	"math/rand"
	"time"

	"github.com/riannelimje/git-streak/internal/contrib"
	"github.com/riannelimje/git-streak/internal/registry"
)

// Profile describes a synthetic activity pattern. A streak starts with
// probability StreakChance on any day outside a streak and lasts
// StreakMin..StreakMin+StreakSpread-1 days, each with StreakMinCount..
// StreakMinCount+StreakCountSpread-1 commits. Outside streaks a day is active
// with probability ActiveChance and gets 1..ActiveMax commits.
type Profile struct {
	StreakChance      float64
	StreakMin         int
	StreakSpread      int
	StreakMinCount    int
	StreakCountSpread int
	ActiveChance      float64
	ActiveMax         int
}

// Built-in profiles.
var (
	LightProfile = Profile{
		ActiveChance: 0.3,
		ActiveMax:    3,
	}
	MediumProfile = Profile{
		StreakChance:      0.1,
		StreakMin:         5,
		StreakSpread:      10,
		StreakMinCount:    1,
		StreakCountSpread: 8,
		ActiveChance:      0.6,
		ActiveMax:         5,
	}
	HeavyProfile = Profile{
		StreakChance:      0.2,
		StreakMin:         10,
		StreakSpread:      20,
		StreakMinCount:    5,
		StreakCountSpread: 15,
		ActiveChance:      0.85,
		ActiveMax:         10,
	}
)

// Synthetic generates a random year from a Profile. The same seed and day
// always produce the same dataset.
type Synthetic struct {
	id      string
	profile Profile
	seed    int64
}

// NewSynthetic creates a generator. A zero seed is replaced by the clock on
// each Fetch.
func NewSynthetic(id string, p Profile, seed int64) *Synthetic {
	return &Synthetic{id: id, profile: p, seed: seed}
}

// ID implements registry.Source.
func (s *Synthetic) ID() string {
	return s.id
}

// Fetch implements registry.Source.
func (s *Synthetic) Fetch(_ context.Context, now time.Time) ([]contrib.Day, error) {
	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return Generate(contrib.Last365Days(now), s.profile, rand.New(rand.NewSource(seed))), nil
}

// Generate assigns a count to every date.
func Generate(dates []string, p Profile, rng *rand.Rand) []contrib.Day {
	days := make([]contrib.Day, 0, len(dates))
	streak := 0

	for _, date := range dates {
		count := 0

		if streak == 0 && p.StreakChance > 0 && rng.Float64() < p.StreakChance {
			streak = rng.Intn(p.StreakSpread) + p.StreakMin
		}

		if streak > 0 {
			count = rng.Intn(p.StreakCountSpread) + p.StreakMinCount
			streak--
		} else if rng.Float64() < p.ActiveChance {
			count = rng.Intn(p.ActiveMax) + 1
		}

		days = append(days, contrib.Day{Date: date, Count: count})
	}
	return days
}

func registerSynthetic(id, title, desc string, p Profile) {
	registry.Register(registry.Info{ID: id, Title: title, Description: desc},
		func(o registry.Options) (registry.Source, error) {
			return NewSynthetic(id, p, o.Seed), nil
		})
}

func init() {
	registerSynthetic("light", "Light Activity", "~30% active days, easier gameplay", LightProfile)
	registerSynthetic("medium", "Medium Activity", "~60% active days, balanced challenge", MediumProfile)
	registerSynthetic("heavy", "Heavy Activity", "~85% active days, harder gameplay", HeavyProfile)
}
