package prefs

import (
	"testing"

	"github.com/verte-zerg/azkar/internal/model"
	"github.com/verte-zerg/azkar/internal/storage"
)

var testBounds = model.FontBounds{Min: 1.4, Max: 4.0, Default: 2.8, Increment: 0.2}

func newStore() (*storage.Storage, *storage.Memory) {
	mem := storage.NewMemory()
	return storage.New(mem, nil), mem
}

func TestThemeAcceptsAnyName(t *testing.T) {
	st, mem := newStore()
	theme := NewTheme(st)
	if theme.Value() != ThemeLight {
		t.Fatalf("expected default light, got %q", theme.Value())
	}
	theme.Set("midnight")
	if theme.Value() != "midnight" {
		t.Fatalf("unexpected theme %q", theme.Value())
	}
	if v, _, _ := mem.Get(KeyTheme); v != "midnight" {
		t.Fatalf("theme not persisted: %q", v)
	}
	if NewTheme(st).Value() != "midnight" {
		t.Fatalf("reloaded theme differs")
	}
}

func TestThemeNextCycles(t *testing.T) {
	st, _ := newStore()
	theme := NewTheme(st)
	var got []string
	for range Themes {
		theme.Next()
		got = append(got, theme.Value())
	}
	if got[0] != ThemeDark || got[1] != ThemeSolarized || got[2] != ThemeLight {
		t.Fatalf("unexpected cycle %v", got)
	}
	theme.Set("unknown")
	theme.Next()
	if theme.Value() != ThemeLight {
		t.Fatalf("unknown theme should cycle to first, got %q", theme.Value())
	}
}

func TestFontScaleConvergesToBounds(t *testing.T) {
	st, mem := newStore()
	f := NewFontScale(st, testBounds)
	if f.Value() != 2.8 {
		t.Fatalf("expected default 2.8, got %v", f.Value())
	}
	for i := 0; i < 50; i++ {
		f.Increase()
	}
	if f.Value() != 4.0 {
		t.Fatalf("expected max 4.0, got %v", f.Value())
	}
	if v, _, _ := mem.Get(KeyFontScale); v != "4" {
		t.Fatalf("expected persisted \"4\", got %q", v)
	}
	for i := 0; i < 50; i++ {
		f.Decrease()
	}
	if f.Value() != 1.4 {
		t.Fatalf("expected min 1.4, got %v", f.Value())
	}
}

func TestFontScaleStepIsExact(t *testing.T) {
	st, _ := newStore()
	f := NewFontScale(st, testBounds)
	f.Increase()
	if f.Value() != 3.0 {
		t.Fatalf("expected 3.0, got %v", f.Value())
	}
	f.Decrease()
	f.Decrease()
	if f.Value() != 2.6 {
		t.Fatalf("expected 2.6, got %v", f.Value())
	}
}

func TestFontScaleInitialValue(t *testing.T) {
	st, _ := newStore()
	st.Set(KeyFontScale, "abc")
	if got := NewFontScale(st, testBounds).Value(); got != 2.8 {
		t.Fatalf("invalid stored value should use default, got %v", got)
	}
	st.Set(KeyFontScale, "9")
	if got := NewFontScale(st, testBounds).Value(); got != 4.0 {
		t.Fatalf("stored value should be clamped, got %v", got)
	}
	st.Set(KeyFontScale, "2.4")
	if got := NewFontScale(st, testBounds).Value(); got != 2.4 {
		t.Fatalf("expected stored 2.4, got %v", got)
	}
}

func TestShuffleToggleResetsWasShuffled(t *testing.T) {
	st, mem := newStore()
	s := NewShuffle(st)
	if s.Enabled() {
		t.Fatalf("shuffle should default to off")
	}
	s.Toggle()
	s.MarkShuffled()
	if !s.Enabled() || !s.WasShuffled() {
		t.Fatalf("expected enabled and shuffled")
	}
	if v, _, _ := mem.Get(KeyShuffle); v != "true" {
		t.Fatalf("expected persisted true, got %q", v)
	}
	s.Toggle()
	if s.Enabled() || s.WasShuffled() {
		t.Fatalf("disabling must reset wasShuffled")
	}
	if NewShuffle(st).Enabled() {
		t.Fatalf("reloaded shuffle should be off")
	}
}

func TestSubTextToggle(t *testing.T) {
	st, _ := newStore()
	st.Set(KeySubText, "1")
	s := NewSubText(st)
	if !s.Visible() {
		t.Fatalf("\"1\" should read as visible")
	}
	s.Toggle()
	if s.Visible() || NewSubText(st).Visible() {
		t.Fatalf("expected hidden after toggle")
	}
}

func TestTotalCount(t *testing.T) {
	st, mem := newStore()
	c := NewTotalCount(st)
	c.Increment()
	c.Increment()
	if c.Value() != 2 {
		t.Fatalf("expected 2, got %d", c.Value())
	}
	c.Set(40)
	if v, _, _ := mem.Get(KeyTotalCount); v != "40" {
		t.Fatalf("expected persisted 40, got %q", v)
	}
	c.Set(-3)
	if c.Value() != 0 {
		t.Fatalf("negative set should clamp to 0")
	}
	c.Set(9)
	c.Reset()
	if c.Value() != 0 || NewTotalCount(st).Value() != 0 {
		t.Fatalf("reset should persist 0")
	}
}

func TestTotalCountIgnoresGarbage(t *testing.T) {
	st, _ := newStore()
	st.Set(KeyTotalCount, "12abc")
	if got := NewTotalCount(st).Value(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestLoad(t *testing.T) {
	st, _ := newStore()
	st.SetBool(KeyShuffle, true)
	p := Load(st, testBounds)
	if !p.Shuffle.Enabled() || p.Theme.Value() != ThemeLight || p.FontScale.Value() != 2.8 {
		t.Fatalf("unexpected prefs %+v", p)
	}
}

func TestThemePrevCycles(t *testing.T) {
	st, _ := newStore()
	theme := NewTheme(st)
	theme.Prev()
	if theme.Value() != ThemeSolarized {
		t.Fatalf("expected solarized before light, got %q", theme.Value())
	}
	theme.Prev()
	if theme.Value() != ThemeDark {
		t.Fatalf("expected dark, got %q", theme.Value())
	}
	if NewTheme(st).Value() != ThemeDark {
		t.Fatalf("Prev must persist")
	}
}
