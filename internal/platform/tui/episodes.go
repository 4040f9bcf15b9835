package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pixelgym/internal/registry"
	"github.com/vovakirdan/pixelgym/internal/storage"
)

// Episode browser layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the env sidebar
	sidebarWidth       = 20  // Width of the env sidebar
	maxEpisodes        = 100 // Max episodes to load per env
)

// EpisodesKeyMap defines the key bindings for the episode browser.
type EpisodesKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextEnv key.Binding
	PrevEnv key.Binding
	Sort    key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k EpisodesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextEnv, k.Sort, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k EpisodesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextEnv, k.PrevEnv},
		{k.Sort, k.Back, k.Quit},
	}
}

// DefaultEpisodesKeyMap returns default key bindings.
func DefaultEpisodesKeyMap() EpisodesKeyMap {
	return EpisodesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextEnv: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next env"),
		),
		PrevEnv: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev env"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle sort"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// EpisodesModel is the Bubble Tea model for browsing recorded episodes.
type EpisodesModel struct {
	envs        []registry.TitleInfo
	envCursor   int
	store       *storage.Store
	episodes    []storage.EpisodeEntry
	sortByBest  bool // true = top reward, false = most recent
	table       table.Model
	help        help.Model
	keys        EpisodesKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewEpisodesModel creates a new episode browser model.
func NewEpisodesModel(store *storage.Store, width, height int) EpisodesModel {
	keys := DefaultEpisodesKeyMap()
	h := help.New()
	h.ShowAll = false

	m := EpisodesModel{
		envs:        registry.List(),
		store:       store,
		sortByBest:  true,
		keys:        keys,
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.table = m.createTable()
	if len(m.envs) > 0 {
		m.loadEpisodes(m.envs[0].Name)
	}

	return m
}

// createTable creates a new table with appropriate columns.
func (m *EpisodesModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Seed", Width: 12},
		{Title: "Steps", Width: 7},
		{Title: "Reward", Width: 10},
		{Title: "Done", Width: 6},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(m.height-8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadEpisodes loads episodes for the given env with the current sort.
func (m *EpisodesModel) loadEpisodes(env string) {
	if m.store == nil {
		m.episodes = nil
		m.updateTableRows()
		return
	}

	var entries []storage.EpisodeEntry
	var err error
	if m.sortByBest {
		entries, err = m.store.TopEpisodes(env, maxEpisodes)
	} else {
		entries, err = m.store.RecentEpisodes(env, maxEpisodes)
	}
	if err != nil {
		m.episodes = nil
	} else {
		m.episodes = entries
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded episodes.
func (m *EpisodesModel) updateTableRows() {
	rows := make([]table.Row, len(m.episodes))
	for i, e := range m.episodes {
		done := "no"
		if e.Completed {
			done = "yes"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", e.LevelSeed),
			fmt.Sprintf("%d", e.Steps),
			fmt.Sprintf("%.2f", e.TotalReward),
			done,
			e.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m EpisodesModel) currentEnv() string {
	if len(m.envs) == 0 {
		return ""
	}
	return m.envs[m.envCursor].Name
}

// Init initializes the episode browser.
func (m EpisodesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the episode browser.
func (m EpisodesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextEnv):
			if len(m.envs) > 0 {
				m.envCursor = (m.envCursor + 1) % len(m.envs)
				m.loadEpisodes(m.currentEnv())
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevEnv):
			if len(m.envs) > 0 {
				m.envCursor--
				if m.envCursor < 0 {
					m.envCursor = len(m.envs) - 1
				}
				m.loadEpisodes(m.currentEnv())
			}
			return m, nil

		case key.Matches(msg, m.keys.Sort):
			m.sortByBest = !m.sortByBest
			m.loadEpisodes(m.currentEnv())
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the episode browser.
func (m EpisodesModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	sortLabel := "best"
	if !m.sortByBest {
		sortLabel = "recent"
	}
	title := fmt.Sprintf("EPISODES - %s (%s)", m.currentEnv(), sortLabel)
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(centerText(m.renderTableContent(), m.width))
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the env sidebar next to the table.
func (m EpisodesModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Environments\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, env := range m.envs {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.envCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + env.Name))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ",
		tableStyle.Render(m.renderTableContent()))
}

// renderTableContent renders the table or an empty message.
func (m EpisodesModel) renderTableContent() string {
	if len(m.episodes) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No episodes recorded yet.\nRun a rollout to record some!")
	}
	return m.table.View()
}

// IsGoingBack returns true if the user wants to go back to the picker.
func (m EpisodesModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if the user wants to quit entirely.
func (m EpisodesModel) IsQuitting() bool {
	return m.quitting
}

// RunEpisodes runs the episode browser as a standalone program.
// Returns true if the user wants to go back, false if quitting.
func RunEpisodes(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewEpisodesModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(EpisodesModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
