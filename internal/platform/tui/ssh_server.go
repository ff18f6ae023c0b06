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

	"github.com/vovakirdan/numtap/internal/audio"
	"github.com/vovakirdan/numtap/internal/config"
	"github.com/vovakirdan/numtap/internal/core"
	"github.com/vovakirdan/numtap/internal/registry"
	"github.com/vovakirdan/numtap/internal/storage"
)

// engineKey is the session context key holding the per-session audio engine.
type engineKey struct{}

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.numtap/host_key.
	HostKeyPath string

	// DBPath is the path to the times database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Game is the grid, label, cue and audio configuration for every session.
	Game config.Config

	// Runtime supplies the tick rate and seed. Screen size comes from the PTY.
	Runtime core.RuntimeConfig

	// Logger receives server and session logs. Nil logs to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.numtap/times.db",
		IdleTimeout: 30 * time.Minute,
		Game:        config.Default(),
		Runtime:     core.DefaultConfig(),
	}
}

// SSHServer wraps a Wish SSH server that runs one game per session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "numtap-ssh",
		})
	}

	if !registry.Exists(cfg.Game.Audio.Backend) {
		return nil, fmt.Errorf("unknown audio backend %q", cfg.Game.Audio.Backend)
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open times database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".numtap", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Middlewares run last to first: log, open audio, then the game.
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.audioMiddleware,
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

// audioMiddleware gives each session its own audio engine. The bell
// backend rings the client's terminal. The engine is closed when the
// session ends.
func (s *SSHServer) audioMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		env := registry.Env{
			Out:    sshSession,
			Logger: s.logger.With("user", sshSession.User()),
		}
		engine, err := audio.OpenNamed(s.config.Game.Audio.Backend, env,
			audio.WithQueueSize(s.config.Game.Audio.QueueSize),
			audio.WithLogger(s.logger),
		)
		if err != nil {
			s.logger.Warn("audio disabled for session", "user", sshSession.User(), "error", err)
			next(sshSession)
			return
		}
		defer func() {
			played, dropped := engine.Stats()
			if err := engine.Close(); err != nil {
				s.logger.Warn("could not close audio", "error", err)
			}
			s.logger.Debug("audio closed", "user", sshSession.User(), "played", played, "dropped", dropped)
		}()

		sshSession.Context().SetValue(engineKey{}, engine)
		next(sshSession)
	}
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	rt := s.config.Runtime
	rt.ScreenW = pty.Window.Width
	rt.ScreenH = pty.Window.Height
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	opts := Options{
		Config:  s.config.Game,
		Runtime: rt,
		Store:   s.store,
		Logger:  s.logger.With("user", sshSession.User()),
		Player:  sshSession.User(),
	}
	if engine, ok := sshSession.Context().Value(engineKey{}).(*audio.Engine); ok {
		opts.Audio = engine
		opts.Cues = engine.LoadCueSet(s.config.Game.Cues.Ready, s.config.Game.Cues.Notes)
	}

	return NewModel(opts), []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
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

	// Setup signal handling for graceful shutdown
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
