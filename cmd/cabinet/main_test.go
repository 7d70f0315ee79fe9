package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-cabinet/internal/config"
	"github.com/vovakirdan/tui-cabinet/internal/storage"
)

func TestWrapNames(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  string
	}{
		{"empty", nil, ""},
		{"one line", []string{"a", "b"}, "a, b"},
		{"wraps", []string{"a", "b", "c", "d", "e", "f"}, "a, b, c, d, e\nf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapNames(tt.names); got != tt.want {
				t.Errorf("wrapNames() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPort(t *testing.T) {
	if got := port(":23234"); got != "23234" {
		t.Errorf("port() = %q", got)
	}
	if got := port("nonsense"); got != "nonsense" {
		t.Errorf("port() = %q", got)
	}
}

func TestEnterEntry(t *testing.T) {
	dir := t.TempDir()
	gameDir := filepath.Join(dir, "pong")
	if err := os.Mkdir(gameDir, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg := config.DefaultConfig().Script

	entry, err := enterEntry(nil, cfg)
	if err != nil || entry != cfg.Entry {
		t.Fatalf("enterEntry(nil) = %q, %v", entry, err)
	}

	entry, err = enterEntry([]string{"pong/main.lua"}, cfg)
	if err != nil {
		t.Fatalf("enterEntry() error = %v", err)
	}
	if entry != "main" {
		t.Errorf("entry = %q, want main", entry)
	}
	wd, _ := os.Getwd()
	if filepath.Base(wd) != "pong" {
		t.Errorf("working directory = %s, want .../pong", wd)
	}

	if _, err := enterEntry([]string{"missing/game.lua"}, cfg); err == nil {
		t.Error("expected error for a missing directory")
	}
}

func TestOpenJournalDisabledOrBroken(t *testing.T) {
	logger, closeLog, err := newLogger(config.LogConfig{Level: "error"}, false)
	if err != nil {
		t.Fatal(err)
	}
	defer closeLog()

	if store := openJournal(config.JournalConfig{Enabled: false}, logger); store != nil {
		t.Error("disabled journal should not open")
	}

	path := filepath.Join(t.TempDir(), "journal.db")
	store := openJournal(config.JournalConfig{Enabled: true, Path: path}, logger)
	if store == nil {
		t.Fatal("journal did not open")
	}
	defer store.Close()

	opts := engineOptions(config.DefaultConfig(), "game", nil, nil, logger, store)
	if _, ok := opts.Journal.(*storage.Store); !ok {
		t.Error("journal not passed to the engine")
	}
	if opts = engineOptions(config.DefaultConfig(), "game", nil, nil, logger, nil); opts.Journal != nil {
		t.Error("nil store must leave the journal unset")
	}
}

func TestNewLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cabinet.log")
	logger, closeLog, err := newLogger(config.LogConfig{Level: "info", File: path}, true)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hello", "who", "test")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}

	if _, _, err := newLogger(config.LogConfig{Level: "loud"}, false); err == nil {
		t.Error("expected error for an unknown level")
	}
}
