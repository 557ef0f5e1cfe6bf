// Package model defines shared data structures.
package model

import "time"

// Config defines application settings after merging the config file and flags.
type Config struct {
	MinScale       float64
	MaxScale       float64
	DefaultScale   float64
	ScaleIncrement float64

	AdvanceDelay time.Duration
	DatasetPath  string
	CategoryID   int

	DBPath            string
	SessionID         string
	SessionTTL        time.Duration
	DisablePersistent bool

	LogLevel string
	LogFile  string
}

// FontBounds holds the font scale limits used by the font scale preference.
type FontBounds struct {
	Min       float64
	Max       float64
	Default   float64
	Increment float64
}

// Font returns the font scale limits of cfg.
func (c Config) Font() FontBounds {
	return FontBounds{
		Min:       c.MinScale,
		Max:       c.MaxScale,
		Default:   c.DefaultScale,
		Increment: c.ScaleIncrement,
	}
}
