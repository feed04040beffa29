package viz

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/resolventdk/gosph/internal/cases"
	"github.com/resolventdk/gosph/internal/config"
	"github.com/resolventdk/gosph/internal/storage"
)

var caseInfo = map[string]string{
	"relaxation": "disc settling into a regular packing",
	"channel":    "inflow-driven plane channel",
}

const (
	stateMenu = iota
	stateSim
)

type menuEntry struct {
	name    string
	presets []string
	preset  int
}

// App is the case browser: pick a case and a preset, then drop into
// the live view. Escape returns to the menu.
type App struct {
	state   int
	cursor  int
	entries []menuEntry
	live    Live
	reg     *cases.Registry
	store   *storage.Store
	fps     int
	err     error
}

func NewApp(dataDir string) *App {
	reg := cases.NewRegistry()
	entries := make([]menuEntry, 0)
	for _, name := range reg.List() {
		presets := config.ListPresets(name)
		sort.Strings(presets)
		entries = append(entries, menuEntry{name: name, presets: presets})
	}
	return &App{
		entries: entries,
		reg:     reg,
		store:   storage.New(dataDir),
		fps:     30,
	}
}

func RunInteractive(dataDir string) error {
	_, err := tea.NewProgram(NewApp(dataDir), tea.WithAltScreen()).Run()
	return err
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateSim {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			a.state = stateMenu
			return a, nil
		}
		next, cmd := a.live.Update(msg)
		a.live = next.(Live)
		return a, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		return a.menuKey(key)
	}
	return a, nil
}

func (a *App) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.entries)-1 {
			a.cursor++
		}
	case "left", "h":
		a.cyclePreset(-1)
	case "right", "l", "tab":
		a.cyclePreset(1)
	case "t":
		NextTheme()
	case "enter", " ":
		return a.launch()
	}
	return a, nil
}

func (a *App) cyclePreset(dir int) {
	e := &a.entries[a.cursor]
	if len(e.presets) == 0 {
		return
	}
	e.preset = (e.preset + dir + len(e.presets)) % len(e.presets)
}

func (a *App) launch() (tea.Model, tea.Cmd) {
	e := a.entries[a.cursor]

	cfg := config.DefaultConfig()
	cfg.Case = e.name
	if len(e.presets) > 0 {
		if pc := config.GetPreset(e.name, e.presets[e.preset]); pc != nil {
			copied := *pc
			cfg = &copied
		}
	}

	buildFn, err := a.reg.Get(e.name)
	if err != nil {
		a.err = err
		return a, nil
	}
	build := func() (*cases.Scene, error) { return buildFn(cfg, a.store) }

	live, err := NewLive(e.name, cfg.Steps, a.fps, build)
	if err != nil {
		a.err = err
		return a, nil
	}
	a.err = nil
	a.live = live
	a.state = stateSim
	return a, a.live.Init()
}

func (a *App) View() string {
	if a.state == stateSim {
		return a.live.View()
	}

	var s strings.Builder
	s.WriteString(headerStyle().Render("GOSPH") + "  " + dimStyle.Render("particle hydrodynamics lab") + "\n\n")

	for i, e := range a.entries {
		line := fmt.Sprintf("%-12s %s", e.name, caseInfo[e.name])
		if i == a.cursor {
			s.WriteString(themed(CurrentTheme.Accent).Bold(true).Render("▸ "+line) + "\n")
			if len(e.presets) > 0 {
				parts := make([]string, len(e.presets))
				for j, p := range e.presets {
					if j == e.preset {
						parts[j] = themed(CurrentTheme.Fluid).Render("[" + p + "]")
					} else {
						parts[j] = dimStyle.Render(" " + p + " ")
					}
				}
				s.WriteString("    preset: " + strings.Join(parts, " ") + "\n")
			}
		} else {
			s.WriteString(dimStyle.Render("  "+line) + "\n")
		}
	}

	if a.err != nil {
		s.WriteString("\n" + themed(CurrentTheme.Error).Render(a.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("\n↑↓:Case  ←→:Preset  Enter:Run  T:Theme  Q:Quit"))
	return s.String()
}
