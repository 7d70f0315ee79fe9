package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cabinet/internal/audio"
	"github.com/vovakirdan/tui-cabinet/internal/audio/beepdev"
	"github.com/vovakirdan/tui-cabinet/internal/config"
	"github.com/vovakirdan/tui-cabinet/internal/core"
	"github.com/vovakirdan/tui-cabinet/internal/device"
	"github.com/vovakirdan/tui-cabinet/internal/engine"
	"github.com/vovakirdan/tui-cabinet/internal/storage"
)

// loadConfig loads the engine config and applies command line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.Display.FPS = flagFPS
	}
	if flags.Changed("scale") {
		cfg.Display.Scale = flagScale
	}
	if flagMute {
		cfg.Audio.Enabled = false
	}
	if flagWatch {
		cfg.Script.Watch = true
	}
	if flagDBPath != "" {
		cfg.Journal.Enabled = true
		cfg.Journal.Path = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, cfg.Validate()
}

// newLogger creates the process logger. While the terminal display owns the
// tty, logs go to the configured file instead of stderr.
func newLogger(cfg config.LogConfig, toFile bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if toFile && cfg.File != "" {
		path := config.ExpandHome(cfg.File)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "cabinet",
		Level:           level,
	})
	return logger, closeFn, nil
}

// openJournal opens the run journal. A journal that cannot be opened is
// skipped with a warning; games run without it.
func openJournal(cfg config.JournalConfig, logger *log.Logger) *storage.Store {
	if !cfg.Enabled {
		return nil
	}
	store, err := storage.Open(cfg.Path)
	if err != nil {
		logger.Warn("journal disabled", "path", cfg.Path, "error", err)
		return nil
	}
	return store
}

// audioOpener returns the function that opens the speaker, or a silent
// device when audio is disabled.
func audioOpener(cfg config.AudioConfig, logger *log.Logger) func() (audio.Device, error) {
	return func() (audio.Device, error) {
		if !cfg.Enabled {
			return audio.NullDevice{}, nil
		}
		dev, err := beepdev.New(beepdev.Options{
			SampleRate: cfg.SampleRate,
			Buffer:     cfg.Buffer(),
			Quality:    cfg.Quality,
		}, logger.WithPrefix("speaker"))
		if err != nil {
			return nil, fmt.Errorf("%w (run with --mute to play without sound)", err)
		}
		return dev, nil
	}
}

// enterEntry resolves the entry module. An entry file moves the working
// directory to the file's directory so modules and assets resolve there.
func enterEntry(args []string, cfg config.ScriptConfig) (string, error) {
	if len(args) == 0 {
		return cfg.Entry, nil
	}
	dir, name := engine.SplitEntry(args[0], cfg.Extension)
	if name == "" {
		return "", fmt.Errorf("no module name in %q", args[0])
	}
	if dir != "" {
		if err := os.Chdir(dir); err != nil {
			return "", fmt.Errorf("cannot enter %s: %w", dir, err)
		}
	}
	return name, nil
}

// engineOptions builds engine options from the config.
func engineOptions(cfg config.Config, entry string, driver device.Driver, queue *core.Queue,
	logger *log.Logger, journal *storage.Store) engine.Options {
	opts := engine.Options{
		Entry:         entry,
		Extension:     cfg.Script.Extension,
		Display:       cfg.Display,
		Driver:        driver,
		Queue:         queue,
		Logger:        logger,
		Watch:         cfg.Script.Watch,
		WatchDebounce: cfg.Script.WatchDebounce(),
	}
	if journal != nil {
		opts.Journal = journal
	}
	return opts
}

// closeOnSignal turns SIGINT and SIGTERM into a display close, then runs
// also if given.
func closeOnSignal(queue *core.Queue, also func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		queue.TryPush(core.DisplayClosed{})
		if also != nil {
			also()
		}
	}()
}

// exitWith closes what the command opened and exits with code.
func exitWith(code int, journal *storage.Store, closeLog func()) {
	if journal != nil {
		_ = journal.Close()
	}
	if closeLog != nil {
		closeLog()
	}
	os.Exit(code)
}
