package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusflow/internal/store"
	"github.com/sadopc/focusflow/internal/tracker"
)

// prefsChangedMsg carries newly saved preferences to the other views.
type prefsChangedMsg struct {
	prefs store.Preferences
}

type settingsModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	formActive bool
	form       *huh.Form

	soundEnabled *bool
	theme        *string
}

func newSettingsModel(tr *tracker.Tracker) settingsModel {
	sound, theme := true, string(store.ThemeGreen)
	return settingsModel{
		tracker:      tr,
		soundEnabled: &sound,
		theme:        &theme,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	p := s.tracker.Preferences()
	*s.soundEnabled = p.SoundEnabled
	*s.theme = string(p.HeatmapTheme)

	var themes []huh.Option[string]
	for _, th := range store.Themes {
		themes = append(themes, huh.NewOption(themeLabel(th), string(th)))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title("Play a sound when the timer ends").
				Affirmative("On").Negative("Off").Value(s.soundEnabled),
			huh.NewSelect[string]().Title("Heatmap colour").Options(themes...).Value(s.theme),
		).Title("Preferences"),
	).WithShowHelp(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	switch s.form.State {
	case huh.StateCompleted:
		s.formActive = false
		s.form = nil
		return s, s.save()
	case huh.StateAborted:
		s.formActive = false
		s.form = nil
	}
	return s, cmd
}

func (s settingsModel) save() tea.Cmd {
	p := store.Preferences{SoundEnabled: *s.soundEnabled, HeatmapTheme: store.HeatmapTheme(*s.theme)}
	if err := s.tracker.UpdatePreferences(p); err != nil {
		return resultCmd(err, "")
	}
	return tea.Batch(
		status("Preferences saved"),
		func() tea.Msg { return prefsChangedMsg{prefs: p} },
	)
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	p := s.tracker.Preferences()
	g := s.tracker.Goals()
	sound := "off"
	if p.SoundEnabled {
		sound = "on"
	}

	swatch := ""
	for _, c := range palette(p.HeatmapTheme) {
		swatch += lipgloss.NewStyle().Foreground(c).Render("■")
	}

	rows := []string{
		title,
		"",
		settingRow("Timer sound", sound),
		settingRow("Heatmap colour", themeLabel(p.HeatmapTheme)+"  "+swatch),
		settingRow("Weekly goal", fmt.Sprintf("%d hours", g.Weekly)),
		settingRow("Monthly goal", fmt.Sprintf("%d hours", g.Monthly)),
		settingRow("Yearly goal", fmt.Sprintf("%d hours", g.Yearly)),
		settingRow("Days logged", fmt.Sprintf("%d", len(s.tracker.Logs()))),
		"",
		mutedStyle.Render("Press enter to edit preferences, 3 for goals"),
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label, value string) string {
	return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(20).Render(label), highlightStyle.Render(value))
}

func themeLabel(th store.HeatmapTheme) string {
	switch th {
	case store.ThemeBlue:
		return "Blue"
	case store.ThemeOrange:
		return "Orange"
	case store.ThemePurple:
		return "Purple"
	default:
		return "Green"
	}
}
