package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pixelgym/internal/engine"
	"github.com/vovakirdan/pixelgym/internal/storage"
)

// WatchConfig holds the runtime settings for a watch session.
type WatchConfig struct {
	Env      string
	TickRate int
	Width    int
	Height   int
}

var (
	watchTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	watchStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	watchRewardStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	watchHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// WatchModel is the Bubble Tea model for driving one engine instance
// interactively: keys feed actions, ticks advance the episode, and the
// frame is painted with half blocks.
type WatchModel struct {
	eng    *engine.Engine
	store  *storage.Store
	config WatchConfig
	obs    *engine.Observation
	keys   *KeyMapper

	// pending is the action consumed by the next tick; it reverts to
	// neutral once stepped.
	pending int32

	episodeSteps  int32
	episodeReward float64
	episodesSeen  int

	paused     bool
	quitting   bool
	backToMenu bool
}

// NewWatchModel creates a watch model for an already constructed engine.
func NewWatchModel(eng *engine.Engine, store *storage.Store, cfg WatchConfig) WatchModel {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 15
	}
	w, h := eng.Resolution()

	return WatchModel{
		eng:     eng,
		store:   store,
		config:  cfg,
		obs:     engine.NewStandardObservation(w, h),
		keys:    NewKeyMapper(),
		pending: actionNeutral,
	}
}

// Init starts the first episode and the tick loop.
func (m WatchModel) Init() tea.Cmd {
	m.eng.Reset()
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.Width = msg.Width
		m.config.Height = msg.Height
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keys.IsQuit(msg) {
		m.quitting = true
		return m, tea.Quit
	}

	switch msg.String() {
	case "p":
		m.paused = !m.paused
		return m, nil
	case "r":
		// The sentinel forces a terminal step on the next tick, so the
		// aborted episode is still recorded.
		m.pending = engine.NoAction
		return m, nil
	case "b", "esc":
		m.backToMenu = true
		return m, nil
	}

	if action, ok := m.keys.MapKeyToAction(msg); ok {
		m.pending = action
	}
	return m, nil
}

// handleTick advances the engine by one step.
func (m WatchModel) handleTick() (tea.Model, tea.Cmd) {
	if m.paused {
		return m, tickCmd(m.config.TickRate)
	}

	m.eng.Step(m.pending, m.obs)
	m.pending = actionNeutral

	m.episodeSteps++
	m.episodeReward += float64(*m.obs.Reward)

	if *m.obs.First == 1 {
		if m.store != nil {
			//nolint:errcheck // Best-effort save, playback continues regardless
			m.store.SaveEpisode(m.config.Env, m.eng.PrevLevelSeed, m.episodeSteps,
				m.episodeReward, m.eng.StepData.LevelComplete)
		}
		m.episodesSeen++
		m.episodeSteps = 0
		m.episodeReward = 0
	}

	return m, tickCmd(m.config.TickRate)
}

// View renders the frame with a status header and a help footer.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf(" %s  seed %d ", m.config.Env, m.eng.CurrentLevelSeed)
	b.WriteString(watchTitleStyle.Render(title))
	b.WriteString("\n")

	status := fmt.Sprintf(" step %d  reward %.2f  episodes %d",
		m.eng.CurTime, m.episodeReward, m.episodesSeen)
	b.WriteString(watchStatusStyle.Render(status))
	if m.eng.LastRewardTimer > 0 {
		b.WriteString(watchRewardStyle.Render(fmt.Sprintf("  %+.2f", m.eng.LastReward)))
	}
	if m.paused {
		b.WriteString(watchStatusStyle.Render("  [paused]"))
	}
	b.WriteString("\n")

	w, h := m.eng.Resolution()
	b.WriteString(RenderFrame(m.obs.RGB, w, h))
	b.WriteString("\n")

	b.WriteString(watchHelpStyle.Render(" arrows: move  space: special  r: reset  p: pause  q: quit"))
	return b.String()
}

// IsQuitting returns true if the user requested to quit entirely.
func (m WatchModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user requested to go back to the
// title picker.
func (m WatchModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for one local watch session.
func Run(eng *engine.Engine, store *storage.Store, cfg WatchConfig) error {
	model := NewWatchModel(eng, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
