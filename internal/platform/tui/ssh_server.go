package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-cabinet/internal/audio"
	"github.com/vovakirdan/tui-cabinet/internal/core"
	"github.com/vovakirdan/tui-cabinet/internal/device"
)

// ErrServerClosed is returned by OpenDisplay when the server stops before a
// session arrives.
var ErrServerClosed = errors.New("tui: server closed")

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.cabinet/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// ReleaseDelay is the synthesized key-up delay.
	ReleaseDelay time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer hosts the engine display in a single SSH session. The first
// session with a PTY becomes the display; later ones are turned away. It is
// also the device.Driver for the engine, so opening the display waits for
// that first session.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	queue    *core.Queue
	logger   *log.Logger
	displays chan *Display
	busy     atomic.Bool
	closed   chan struct{}
	once     sync.Once
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, queue *core.Queue, logger *log.Logger) (*SSHServer, error) {
	srv := &SSHServer{
		config:   cfg,
		queue:    queue,
		logger:   logger,
		displays: make(chan *Display, 1),
		closed:   make(chan struct{}),
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".cabinet", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler binds the session to a new display and hands that display to
// whoever is waiting in OpenDisplay.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sshSession.Pty()

	disp := NewDisplay(s.queue, DisplayOptions{
		Width:        pty.Window.Width,
		Height:       pty.Window.Height,
		ReleaseDelay: s.config.ReleaseDelay,
		Renderer:     bubbletea.MakeRenderer(sshSession),
	})
	disp.setTerminalSize(pty.Window.Width, pty.Window.Height)

	select {
	case s.displays <- disp:
	default:
	}

	return disp.Model(), []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	}
}

// sessionMiddleware admits one PTY session, logs it, and closes the display
// when it ends.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		if _, _, ok := sshSession.Pty(); !ok {
			s.logger.Warn("no PTY requested", "user", sshSession.User())
			wish.Fatalln(sshSession, "cabinet needs a terminal, try: ssh -t")
			return
		}
		if !s.busy.CompareAndSwap(false, true) {
			s.logger.Warn("session refused, cabinet busy",
				"user", sshSession.User(),
				"remote", sshSession.RemoteAddr().String(),
			)
			wish.Fatalln(sshSession, "cabinet is busy")
			return
		}

		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		s.queue.TryPush(core.DisplayClosed{})
	}
}

// OpenDisplay blocks until the first session connects.
func (s *SSHServer) OpenDisplay(cfg core.DisplayConfig) (device.Display, error) {
	s.logger.Info("waiting for a session", "address", s.config.Address)
	select {
	case disp := <-s.displays:
		w, h := cfg.PhysicalSize()
		if err := disp.Resize(w, h); err != nil {
			return nil, err
		}
		disp.SetTitle(cfg.Title)
		return disp, nil
	case <-s.closed:
		return nil, ErrServerClosed
	}
}

// OpenAudio returns a silent device: sound would play on the server.
func (s *SSHServer) OpenAudio() (audio.Device, error) {
	return audio.NullDevice{}, nil
}

// Start begins accepting connections in the background.
func (s *SSHServer) Start() {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	s.once.Do(func() { close(s.closed) })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
