package core

import "time"

// DefaultTickInterval is how often a driver advances the game.
const DefaultTickInterval = 150 * time.Millisecond

// RuntimeConfig contains what a driver needs to run one game session.
type RuntimeConfig struct {
	ScreenW      int           // Screen width in characters
	ScreenH      int           // Screen height in characters
	TickInterval time.Duration // Time between game ticks
	Seed         int64         // Dataset seed; 0 means time based
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:      80,
		ScreenH:      24,
		TickInterval: DefaultTickInterval,
		Seed:         0, // 0 means use current time in platform layer
	}
}
