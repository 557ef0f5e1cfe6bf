// Package prefs holds the persisted user preferences. Each preference owns its
// in-memory value and writes it back through storage on every change.
package prefs

import (
	"math"

	"github.com/verte-zerg/azkar/internal/model"
	"github.com/verte-zerg/azkar/internal/storage"
)

// Storage keys.
const (
	KeyTheme      = "theme"
	KeyFontScale  = "fontScale"
	KeyShuffle    = "shufflePhases"
	KeySubText    = "showSubText"
	KeyTotalCount = "azkarTotalCount"
)

// Prefs groups every preference of the application.
type Prefs struct {
	Theme      *Theme
	FontScale  *FontScale
	Shuffle    *Shuffle
	SubText    *SubText
	TotalCount *TotalCount
}

// Load reads every preference from st.
func Load(st *storage.Storage, bounds model.FontBounds) *Prefs {
	return &Prefs{
		Theme:      NewTheme(st),
		FontScale:  NewFontScale(st, bounds),
		Shuffle:    NewShuffle(st),
		SubText:    NewSubText(st),
		TotalCount: NewTotalCount(st),
	}
}

// Known theme names, in cycling order.
const (
	ThemeLight     = "light"
	ThemeDark      = "dark"
	ThemeSolarized = "solarized"
)

// Themes lists the known themes.
var Themes = []string{ThemeLight, ThemeDark, ThemeSolarized}

// Theme is the active theme name. Any name is accepted.
type Theme struct {
	st    *storage.Storage
	value string
}

// NewTheme loads the theme, defaulting to light.
func NewTheme(st *storage.Storage) *Theme {
	return &Theme{st: st, value: st.Get(KeyTheme, ThemeLight)}
}

// Value returns the theme name.
func (t *Theme) Value() string { return t.value }

// Set changes the theme without validating the name.
func (t *Theme) Set(name string) {
	t.value = name
	t.st.Set(KeyTheme, name)
}

// Next switches to the theme after the current one in Themes.
func (t *Theme) Next() { t.step(1) }

// Prev switches to the theme before the current one in Themes.
func (t *Theme) Prev() { t.step(-1) }

// step moves dir places through Themes. Unknown names restart at the first
// theme.
func (t *Theme) step(dir int) {
	next := Themes[0]
	for i, name := range Themes {
		if name == t.value {
			next = Themes[(i+dir+len(Themes))%len(Themes)]
			break
		}
	}
	t.Set(next)
}

// FontScale is a text scale clamped to configured bounds.
type FontScale struct {
	st     *storage.Storage
	bounds model.FontBounds
	value  float64
}

// NewFontScale loads the scale, falling back to the configured default.
func NewFontScale(st *storage.Storage, bounds model.FontBounds) *FontScale {
	f := &FontScale{st: st, bounds: bounds}
	f.value = f.clamp(st.Number(KeyFontScale, bounds.Default))
	return f
}

// Value returns the current scale.
func (f *FontScale) Value() float64 { return f.value }

// Bounds returns the configured limits.
func (f *FontScale) Bounds() model.FontBounds { return f.bounds }

// Increase steps the scale up by one increment.
func (f *FontScale) Increase() {
	f.set(f.value + f.bounds.Increment)
}

// Decrease steps the scale down by one increment.
func (f *FontScale) Decrease() {
	f.set(f.value - f.bounds.Increment)
}

func (f *FontScale) set(v float64) {
	f.value = f.clamp(v)
	f.st.SetNumber(KeyFontScale, f.value)
}

// clamp rounds to two decimals so repeated float steps land on the bounds exactly.
func (f *FontScale) clamp(v float64) float64 {
	v = math.Round(v*100) / 100
	if v < f.bounds.Min {
		return f.bounds.Min
	}
	if v > f.bounds.Max {
		return f.bounds.Max
	}
	return v
}

// Shuffle controls whether phrase order is randomized per category visit.
type Shuffle struct {
	st          *storage.Storage
	enabled     bool
	wasShuffled bool
}

// NewShuffle loads the shuffle preference, defaulting to off.
func NewShuffle(st *storage.Storage) *Shuffle {
	return &Shuffle{st: st, enabled: st.Bool(KeyShuffle, false)}
}

// Enabled reports whether shuffling is on.
func (s *Shuffle) Enabled() bool { return s.enabled }

// Toggle flips the preference. Turning it off forgets the current shuffle.
func (s *Shuffle) Toggle() {
	s.enabled = !s.enabled
	if !s.enabled {
		s.wasShuffled = false
	}
	s.st.SetBool(KeyShuffle, s.enabled)
}

// WasShuffled reports whether the active phrase set has been shuffled.
// It is never persisted.
func (s *Shuffle) WasShuffled() bool { return s.wasShuffled }

// MarkShuffled records that the active phrase set has been shuffled.
func (s *Shuffle) MarkShuffled() { s.wasShuffled = true }

// ResetShuffled forgets the shuffle, e.g. when the active phrase set changes.
func (s *Shuffle) ResetShuffled() { s.wasShuffled = false }

// SubText controls whether phrase footnotes are shown.
type SubText struct {
	st      *storage.Storage
	visible bool
}

// NewSubText loads the visibility, defaulting to hidden.
func NewSubText(st *storage.Storage) *SubText {
	return &SubText{st: st, visible: st.Bool(KeySubText, false)}
}

// Visible reports whether footnotes are shown.
func (s *SubText) Visible() bool { return s.visible }

// Toggle flips the visibility.
func (s *SubText) Toggle() {
	s.visible = !s.visible
	s.st.SetBool(KeySubText, s.visible)
}

// TotalCount is the lifetime number of counted taps.
type TotalCount struct {
	st    *storage.Storage
	value int
}

// NewTotalCount loads the counter; negative stored values read as zero.
func NewTotalCount(st *storage.Storage) *TotalCount {
	return &TotalCount{st: st, value: max(st.Int(KeyTotalCount, 0), 0)}
}

// Value returns the counter.
func (c *TotalCount) Value() int { return c.value }

// Increment adds one.
func (c *TotalCount) Increment() { c.Set(c.value + 1) }

// Set replaces the counter. Negative values are stored as zero.
func (c *TotalCount) Set(n int) {
	c.value = max(n, 0)
	c.st.SetInt(KeyTotalCount, c.value)
}

// Reset sets the counter to zero.
func (c *TotalCount) Reset() { c.Set(0) }
