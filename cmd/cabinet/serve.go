package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cabinet/internal/config"
	"github.com/vovakirdan/tui-cabinet/internal/core"
	"github.com/vovakirdan/tui-cabinet/internal/engine"
	"github.com/vovakirdan/tui-cabinet/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve [entry.lua]",
	Short: "Host a game for one SSH session",
	Long: `Start an SSH server and run the game in the first session that connects.

A cabinet has one display, so exactly one player is served. Later sessions
are told the cabinet is busy. When the player disconnects the game stops and
the server shuts down. Sound stays silent; it would play on the server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.cabinet/host_key

Examples:
  cabinet serve demo/pong/game.lua         # Listen on :23234 with auto-generated key
  cabinet serve --ssh :2222 game.lua       # Listen on port 2222
  cabinet serve --host-key ./my_host_key   # Use specific host key

Players connect with:
  ssh -t localhost -p 23234`,
	Args: cobra.MaximumNArgs(1),
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes (0 = from config)")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagSSHAddr != "" {
		cfg.SSH.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.SSH.HostKey = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.SSH.IdleTimeoutMin = flagIdleTimeout
	}

	logger, closeLog, err := newLogger(cfg.Log, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	journal := openJournal(cfg.Journal, logger)

	hostKey := cfg.SSH.HostKey
	if hostKey != "" {
		hostKey = absPath(config.ExpandHome(hostKey))
	}
	entry, err := enterEntry(args, cfg.Script)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitWith(engine.ExitInit, journal, closeLog)
	}

	queue := core.NewQueue(core.DefaultQueueSize)
	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:      cfg.SSH.Address,
		HostKeyPath:  hostKey,
		IdleTimeout:  cfg.SSH.IdleTimeout(),
		ReleaseDelay: cfg.Input.KeyRelease(),
	}, queue, logger.WithPrefix("ssh"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		exitWith(engine.ExitInit, journal, closeLog)
	}

	server.Start()
	fmt.Printf("Hosting %s on %s\n", entry, server.Addr())
	fmt.Printf("Connect with: ssh -t localhost -p %s\n", port(server.Addr()))
	fmt.Println("Press Ctrl+C to stop")

	closeOnSignal(queue, func() { _ = server.Shutdown() })

	e := engine.New(engineOptions(cfg, entry, server, queue, logger, journal))
	code := e.Run()

	if err := server.Shutdown(); err != nil {
		logger.Debug("server shutdown", "error", err)
	}
	// Let the session see its display close before the process exits.
	time.Sleep(100 * time.Millisecond)
	exitWith(code, journal, closeLog)
}

// absPath resolves path before the working directory moves to the game.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// port returns the port part of a listen address.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return addr
}
