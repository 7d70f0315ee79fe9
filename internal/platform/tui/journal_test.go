package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-cabinet/internal/storage"
)

type fakeJournal struct {
	runs   []storage.Run
	errs   map[string][]storage.ScriptError
	runErr error
}

func (f *fakeJournal) RecentRuns(limit int) ([]storage.Run, error) {
	if f.runErr != nil {
		return nil, f.runErr
	}
	if len(f.runs) > limit {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

func (f *fakeJournal) RunErrors(runID string) ([]storage.ScriptError, error) {
	return f.errs[runID], nil
}

func newFakeJournal() *fakeJournal {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &fakeJournal{
		runs: []storage.Run{
			{ID: "run-b-0000000b", Entry: "pong", StartedAt: at.Add(time.Hour), Errors: 1},
			{ID: "run-a-0000000a", Entry: "main", StartedAt: at, Ended: true, ExitCode: 0},
		},
		errs: map[string][]storage.ScriptError{
			"run-b-0000000b": {{File: "pong.lua", Line: 12, Message: "attempt to index a nil value", CreatedAt: at}},
		},
	}
}

func TestJournalModelSelectsRuns(t *testing.T) {
	m := NewJournalModel(newFakeJournal(), 10, 100, 30)

	run, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "pong", run.Entry)
	require.Len(t, m.errs, 1)
	assert.Contains(t, m.View(), "pong.lua:12")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(JournalModel)
	run, _ = m.Selected()
	assert.Equal(t, "main", run.Entry)
	assert.Empty(t, m.errs)
	assert.Contains(t, m.View(), "No script errors")
}

func TestJournalModelEmptyAndError(t *testing.T) {
	m := NewJournalModel(&fakeJournal{}, 10, 80, 24)
	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "No runs recorded yet.")

	m = NewJournalModel(&fakeJournal{runErr: errors.New("locked")}, 10, 80, 24)
	assert.Contains(t, m.View(), "journal: locked")
}

func TestJournalModelQuitAndResize(t *testing.T) {
	m := NewJournalModel(newFakeJournal(), 10, 80, 24)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(JournalModel)
	assert.Equal(t, 120, m.width)
	run, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "pong", run.Entry)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Empty(t, next.View())
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0000000b", shortID("run-b-0000000b"))
	assert.Equal(t, "abc", shortID("abc"))
}
