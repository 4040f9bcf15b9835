package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/pixelgym/internal/config"
	"github.com/vovakirdan/pixelgym/internal/engine"
	"github.com/vovakirdan/pixelgym/internal/registry"
	"github.com/vovakirdan/pixelgym/internal/render"
	"github.com/vovakirdan/pixelgym/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.pixelgym/host_key.
	HostKeyPath string

	// DBPath is the path to the episodes database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Res is the square frame resolution for session engines.
	Res int

	// TickRate is the steps-per-second rate for session engines.
	TickRate int
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.pixelgym/episodes.db",
		IdleTimeout: 30 * time.Minute,
		Res:         64,
		TickRate:    15,
	}
}

// SSHServer wraps a Wish SSH server for remote episode watching.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pixelgym-ssh",
	})

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open episodes database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".pixelgym", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model := NewSessionModel(s.store, s.config, pty.Window.Width, pty.Window.Height)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// buildEngine constructs an engine for an SSH session from the title's
// stock config. Engine construction aborts on bad configuration; a bad
// session request must not take down the server, so the abort is
// converted to an error here.
func buildEngine(env string, res int) (eng *engine.Engine, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cannot build engine for %q: %v", env, r)
		}
	}()

	cfg, err := config.Load(env, "")
	if err != nil {
		return nil, err
	}
	if cfg.RandSeed == 0 {
		cfg.RandSeed = int(time.Now().UnixNano())
	}
	opts, err := cfg.OptionSet()
	if err != nil {
		return nil, err
	}
	rules, err := registry.Create(env)
	if err != nil {
		return nil, err
	}
	return engine.New(env, rules, opts, render.NewFlat(), res, res), nil
}

// SessionModel manages the full session flow: picker -> watch ->
// picker, with the episode browser reachable from the picker. This is
// the top-level model used for SSH sessions.
type SessionModel struct {
	store      *storage.Store
	config     SSHServerConfig
	width      int
	height     int
	picker     PickerModel
	watch      *WatchModel
	episodes   *EpisodesModel
	inWatch    bool
	inEpisodes bool
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg SSHServerConfig, width, height int) SessionModel {
	return SessionModel{
		store:  store,
		config: cfg,
		width:  width,
		height: height,
		picker: NewPickerModel(width, height),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.picker.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch {
	case m.inWatch && m.watch != nil:
		return m.updateWatch(msg)
	case m.inEpisodes && m.episodes != nil:
		return m.updateEpisodes(msg)
	default:
		return m.updatePicker(msg)
	}
}

// updatePicker handles updates when in picker mode.
func (m SessionModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	newPicker, cmd := m.picker.Update(msg)
	if pickerModel, ok := newPicker.(PickerModel); ok {
		m.picker = pickerModel
	}

	if m.picker.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.picker.WantsEpisodes() {
		episodes := NewEpisodesModel(m.store, m.width, m.height)
		m.episodes = &episodes
		m.inEpisodes = true
		return m, m.episodes.Init()
	}

	if selected := m.picker.Selected(); selected != nil {
		eng, err := buildEngine(selected.Name, m.config.Res)
		if err != nil {
			// Shouldn't happen since the picker only shows registered
			// titles; fall back to the picker.
			m.picker = NewPickerModel(m.width, m.height)
			return m, m.picker.Init()
		}

		watch := NewWatchModel(eng, m.store, WatchConfig{
			Env:      selected.Name,
			TickRate: m.config.TickRate,
			Width:    m.width,
			Height:   m.height,
		})
		m.watch = &watch
		m.inWatch = true

		return m, m.watch.Init()
	}

	return m, cmd
}

// updateWatch handles updates when in watch mode.
func (m SessionModel) updateWatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.watch.Update(msg)
	if watchModel, ok := newModel.(WatchModel); ok {
		m.watch = &watchModel
	}

	if m.watch.BackToMenu() {
		m.inWatch = false
		m.watch = nil
		m.picker = NewPickerModel(m.width, m.height)
		return m, m.picker.Init()
	}

	if m.watch.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateEpisodes handles updates when in the episode browser.
func (m SessionModel) updateEpisodes(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.episodes.Update(msg)
	if episodesModel, ok := newModel.(EpisodesModel); ok {
		m.episodes = &episodesModel
	}

	if m.episodes.IsGoingBack() {
		m.inEpisodes = false
		m.episodes = nil
		m.picker = NewPickerModel(m.width, m.height)
		return m, m.picker.Init()
	}

	if m.episodes.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.inWatch && m.watch != nil:
		return m.watch.View()
	case m.inEpisodes && m.episodes != nil:
		return m.episodes.View()
	default:
		return m.picker.View()
	}
}
