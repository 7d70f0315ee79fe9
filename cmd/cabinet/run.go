package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cabinet/internal/config"
	"github.com/vovakirdan/tui-cabinet/internal/core"
	"github.com/vovakirdan/tui-cabinet/internal/device"
	"github.com/vovakirdan/tui-cabinet/internal/engine"
	"github.com/vovakirdan/tui-cabinet/internal/platform/headless"
	"github.com/vovakirdan/tui-cabinet/internal/platform/tui"
)

func runGame(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(cfg.Log, !flagHeadless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	journal := openJournal(cfg.Journal, logger)

	entry, err := enterEntry(args, cfg.Script)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitWith(engine.ExitInit, journal, closeLog)
	}

	queue := core.NewQueue(core.DefaultQueueSize)
	openAudio := audioOpener(cfg.Audio, logger)

	var driver device.Driver
	if flagHeadless {
		dev, err := openAudio()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening audio: %v\n", err)
			exitWith(engine.ExitInit, journal, closeLog)
		}
		driver = &headless.Driver{Audio: dev}
	} else {
		driver = &tui.Driver{
			Queue:           queue,
			Logger:          logger,
			ReleaseDelay:    cfg.Input.KeyRelease(),
			OpenAudioDevice: openAudio,
		}
	}

	e := engine.New(engineOptions(cfg, entry, driver, queue, logger, journal))
	closeOnSignal(queue, nil)

	code := e.Run()
	if code == engine.ExitInit {
		fmt.Fprintf(os.Stderr, "Error: %s failed to start", entry)
		if !flagHeadless && cfg.Log.File != "" {
			fmt.Fprintf(os.Stderr, ", see %s", config.ExpandHome(cfg.Log.File))
		}
		fmt.Fprintln(os.Stderr)
	}
	exitWith(code, journal, closeLog)
}
