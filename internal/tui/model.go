// Package tui provides the Bubble Tea azkar interface.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/azkar/internal/dataset"
	"github.com/verte-zerg/azkar/internal/playback"
	"github.com/verte-zerg/azkar/internal/prefs"
)

type screen int

const (
	screenCategories screen = iota
	screenPhrase
	screenSettings
)

const (
	settingTheme = iota
	settingShuffle
	settingSubText
	settingFontScale
	settingResetCount
	settingCount
)

// advanceMsg fires once the completion delay of a phrase elapsed.
type advanceMsg struct {
	advance playback.Advance
}

// Model implements the Bubble Tea azkar UI.
type Model struct {
	set   *dataset.Set
	prefs *prefs.Prefs
	pb    *playback.Playback
	delay time.Duration

	keys keyMap
	help help.Model

	screen         screen
	settingsReturn screen
	cursor         int
	settingsCursor int

	width  int
	height int
}

// NewModel constructs the UI. A positive startCategory opens that category
// directly.
func NewModel(set *dataset.Set, p *prefs.Prefs, pb *playback.Playback, delay time.Duration, startCategory int) *Model {
	m := &Model{
		set:   set,
		prefs: p,
		pb:    pb,
		delay: delay,
		keys:  newKeyMap(),
		help:  help.New(),
	}
	if startCategory > 0 {
		for i, cat := range set.Categories() {
			if cat.ID == startCategory {
				m.cursor = i
			}
		}
		m.openCategory(startCategory)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case advanceMsg:
		m.pb.Advance(msg.advance)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.screen {
		case screenPhrase:
			return m, m.updatePhrase(msg)
		case screenSettings:
			return m, m.updateSettings(msg)
		default:
			return m, m.updateCategories(msg)
		}
	default:
		return m, nil
	}
}

func (m *Model) updateCategories(msg tea.KeyMsg) tea.Cmd {
	cats := m.set.Categories()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(cats)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if len(cats) > 0 {
			m.openCategory(cats[m.cursor].ID)
		}
	case key.Matches(msg, m.keys.Settings):
		m.openSettings()
	}
	return nil
}

func (m *Model) updatePhrase(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Tap):
		if adv, ok := m.pb.Tap(); ok {
			return m.scheduleAdvance(adv)
		}
	case key.Matches(msg, m.keys.Next):
		m.pb.Next()
	case key.Matches(msg, m.keys.Prev):
		m.pb.Previous()
	case key.Matches(msg, m.keys.Back):
		m.pb.Back()
		m.screen = screenCategories
	case key.Matches(msg, m.keys.FontUp):
		m.prefs.FontScale.Increase()
	case key.Matches(msg, m.keys.FontDown):
		m.prefs.FontScale.Decrease()
	case key.Matches(msg, m.keys.SubText):
		m.prefs.SubText.Toggle()
	case key.Matches(msg, m.keys.Settings):
		m.openSettings()
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	}
	return nil
}

func (m *Model) updateSettings(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.settingsCursor > 0 {
			m.settingsCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.settingsCursor < settingCount-1 {
			m.settingsCursor++
		}
	case key.Matches(msg, m.keys.Select):
		m.applySetting(+1)
	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.FontUp):
		m.applySetting(+1)
	case key.Matches(msg, m.keys.Prev), key.Matches(msg, m.keys.FontDown):
		m.applySetting(-1)
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Settings):
		m.screen = m.settingsReturn
		if m.screen == screenPhrase && m.pb.Active() {
			// Shuffle may have been switched on or off.
			m.pb.Open(m.pb.CategoryID())
		}
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	}
	return nil
}

func (m *Model) applySetting(dir int) {
	switch m.settingsCursor {
	case settingTheme:
		if dir < 0 {
			m.prefs.Theme.Prev()
		} else {
			m.prefs.Theme.Next()
		}
	case settingShuffle:
		m.prefs.Shuffle.Toggle()
	case settingSubText:
		m.prefs.SubText.Toggle()
	case settingFontScale:
		if dir < 0 {
			m.prefs.FontScale.Decrease()
		} else {
			m.prefs.FontScale.Increase()
		}
	case settingResetCount:
		m.prefs.TotalCount.Reset()
	}
}

func (m *Model) openCategory(id int) {
	m.pb.Open(id)
	m.screen = screenPhrase
}

func (m *Model) openSettings() {
	m.settingsReturn = m.screen
	m.screen = screenSettings
}

func (m *Model) scheduleAdvance(adv playback.Advance) tea.Cmd {
	if m.delay <= 0 {
		m.pb.Advance(adv)
		return nil
	}
	return tea.Tick(m.delay, func(time.Time) tea.Msg {
		return advanceMsg{advance: adv}
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	st := stylesFor(m.prefs.Theme.Value())
	var body, helpLine string
	switch m.screen {
	case screenPhrase:
		body = m.viewPhrase(st)
		helpLine = m.help.View(screenHelp{m.keys.Tap, m.keys.Next, m.keys.Prev, m.keys.FontUp, m.keys.FontDown, m.keys.SubText, m.keys.Settings, m.keys.Back})
	case screenSettings:
		body = m.viewSettings(st)
		helpLine = m.help.View(screenHelp{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Prev, m.keys.Back})
	default:
		body = m.viewCategories(st)
		helpLine = m.help.View(screenHelp{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Settings, m.keys.Quit})
	}
	footer := st.muted.Render(fmt.Sprintf("Total %d", m.prefs.TotalCount.Value())) + "  " + helpLine
	if m.width == 0 || m.height < 3 {
		return body + "\n" + footer
	}
	main := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body)
	return main + "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (m *Model) viewCategories(st styles) string {
	cats := m.set.Categories()
	lines := []string{st.title.Render("Azkar"), ""}
	if len(cats) == 0 {
		lines = append(lines, st.muted.Render("no categories"))
	}
	for i, cat := range cats {
		size := st.muted.Render(fmt.Sprintf("(%d)", len(cat.Phrases)))
		if i == m.cursor {
			lines = append(lines, st.selected.Render("› "+cat.Title)+"  "+size)
			continue
		}
		lines = append(lines, "  "+st.text.Render(cat.Title)+"  "+size)
	}
	return st.card.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewPhrase(st styles) string {
	cat, _ := m.set.Find(m.pb.CategoryID())
	header := st.title.Render(cat.Title)
	ph, ok := m.pb.Current()
	if !ok {
		return st.card.Render(header + "\n\n" + st.muted.Render("no phrases in this category"))
	}
	header += st.muted.Render(fmt.Sprintf("  %d/%d", m.pb.Index()+1, m.pb.Len()))

	width := phraseWidth(m.width, m.prefs.FontScale.Value(), m.prefs.FontScale.Bounds().Min)
	var lines []string
	for _, line := range wrapText(ph.Text, width) {
		lines = append(lines, st.text.Render(line))
	}
	body := strings.Join(lines, "\n")

	count := m.pb.Count(m.pb.Index())
	counterStyle := st.counter
	if count >= ph.Count {
		counterStyle = st.done
	}
	counter := counterStyle.Render(fmt.Sprintf("%d / %d", count, ph.Count))

	parts := []string{header, "", body, "", counter}
	if m.prefs.SubText.Visible() && ph.SubText != "" {
		var notes []string
		for _, line := range wrapText(ph.SubText, width) {
			notes = append(notes, st.muted.Render(line))
		}
		parts = append(parts, "", strings.Join(notes, "\n"))
	}
	if m.pb.IsLast() && m.pb.Done() {
		parts = append(parts, "", st.muted.Render("end of category, esc to go back"))
	}
	return st.card.Render(lipgloss.JoinVertical(lipgloss.Center, parts...))
}

func (m *Model) viewSettings(st styles) string {
	shuffle := "off"
	if m.prefs.Shuffle.Enabled() {
		shuffle = "on"
	}
	subText := "hidden"
	if m.prefs.SubText.Visible() {
		subText = "shown"
	}
	rows := [settingCount][2]string{
		settingTheme:      {"Theme", m.prefs.Theme.Value()},
		settingShuffle:    {"Shuffle phrases", shuffle},
		settingSubText:    {"Notes", subText},
		settingFontScale:  {"Font scale", fmt.Sprintf("%.1f", m.prefs.FontScale.Value())},
		settingResetCount: {"Reset total count", fmt.Sprintf("%d", m.prefs.TotalCount.Value())},
	}
	lines := []string{st.title.Render("Settings"), ""}
	for i, row := range rows {
		label := fmt.Sprintf("%-18s %s", row[0], row[1])
		if i == m.settingsCursor {
			lines = append(lines, st.selected.Render("› "+label))
			continue
		}
		lines = append(lines, "  "+st.text.Render(label))
	}
	return st.card.Render(strings.Join(lines, "\n"))
}
