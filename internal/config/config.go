// Package config provides YAML-based configuration loading and speed presets
// for git-streak.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the full application configuration.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Dataset DatasetConfig `yaml:"dataset"`
	GitHub  GitHubConfig  `yaml:"github"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
}

// GameConfig controls pacing and the optional growth policy.
type GameConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	Speed        SpeedPreset   `yaml:"speed"` // empty keeps TickInterval
	Growth       GrowthConfig  `yaml:"growth"`
}

// GrowthConfig maps onto game.GrowthPolicy.
type GrowthConfig struct {
	Every int `yaml:"every"` // 0 keeps the snake one segment long
}

// DatasetConfig selects where contribution data comes from.
type DatasetConfig struct {
	Source string `yaml:"source"`
	Seed   int64  `yaml:"seed"` // 0 = time based
	File   string `yaml:"file"`
}

// GitHubConfig configures the github source.
type GitHubConfig struct {
	Token    string        `yaml:"token"`
	User     string        `yaml:"user"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// StorageConfig locates the dataset cache.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// ServerConfig configures the SSH and HTTP drivers.
type ServerConfig struct {
	SSHAddress  string        `yaml:"ssh_address"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	HTTPAddress string        `yaml:"http_address"`
}

// EffectiveTickInterval returns the preset's interval when one is set, else
// TickInterval.
func (g GameConfig) EffectiveTickInterval() time.Duration {
	if g.Speed != "" {
		if d, ok := TickIntervalForPreset(g.Speed); ok {
			return d
		}
	}
	return g.TickInterval
}

// Validate reports configuration values no driver can run with.
func (c Config) Validate() error {
	var errs []error
	if c.Game.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("game.tick_interval must be positive, got %s", c.Game.TickInterval))
	}
	if c.Game.Speed != "" && !c.Game.Speed.Valid() {
		errs = append(errs, fmt.Errorf("game.speed: unknown preset %q", c.Game.Speed))
	}
	if c.Game.Growth.Every < 0 {
		errs = append(errs, fmt.Errorf("game.growth.every must not be negative, got %d", c.Game.Growth.Every))
	}
	if c.GitHub.Timeout < 0 {
		errs = append(errs, fmt.Errorf("github.timeout must not be negative, got %s", c.GitHub.Timeout))
	}
	if c.Server.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.idle_timeout must not be negative, got %s", c.Server.IdleTimeout))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
