package config

import "time"

// SpeedPreset represents a named tick interval.
type SpeedPreset string

const (
	SpeedSlow   SpeedPreset = "slow"
	SpeedNormal SpeedPreset = "normal"
	SpeedFast   SpeedPreset = "fast"
)

// SpeedPresets lists the presets in menu order.
func SpeedPresets() []SpeedPreset {
	return []SpeedPreset{SpeedSlow, SpeedNormal, SpeedFast}
}

// TickIntervalForPreset returns the tick interval for a speed preset.
func TickIntervalForPreset(preset SpeedPreset) (time.Duration, bool) {
	switch preset {
	case SpeedSlow:
		return 220 * time.Millisecond, true
	case SpeedNormal:
		return 150 * time.Millisecond, true
	case SpeedFast:
		return 90 * time.Millisecond, true
	default:
		return 0, false
	}
}

// Valid returns true for a known preset.
func (p SpeedPreset) Valid() bool {
	_, ok := TickIntervalForPreset(p)
	return ok
}

// ApplySpeedPreset sets both the preset and the tick interval it implies.
// Unknown presets leave cfg untouched.
func ApplySpeedPreset(cfg *GameConfig, preset SpeedPreset) {
	d, ok := TickIntervalForPreset(preset)
	if !ok {
		return
	}
	cfg.Speed = preset
	cfg.TickInterval = d
}
