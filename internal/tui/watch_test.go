package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsSettledChange(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "Menu.unity")
	other := filepath.Join(dir, "Other.unity")
	require.NoError(t, os.WriteFile(scene, []byte("%YAML 1.1\n"), 0644))

	w, err := NewWatcher([]string{scene}, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	done := make(chan tea.Msg, 1)
	go func() { done <- w.Wait() }()

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(scene, []byte("%YAML 1.1\n--- !u!1 &1\n"), 0644))

	select {
	case msg := <-done:
		assert.IsType(t, filesChangedMsg{}, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherWaitReturnsNilWhenClosed(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "Menu.unity")
	require.NoError(t, os.WriteFile(scene, nil, 0644))

	w, err := NewWatcher([]string{scene}, time.Second)
	require.NoError(t, err)

	done := make(chan tea.Msg, 1)
	go func() { done <- w.Wait() }()
	require.NoError(t, w.Close())

	select {
	case msg := <-done:
		assert.Nil(t, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return after Close")
	}
}
