package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/google/uuid"

	"github.com/mabhi256/evinspect/internal/graph"
	"github.com/mabhi256/evinspect/internal/host"
)

type TabType int

const (
	GraphTab TabType = iota
	StatsTab
	ProblemsTab
)

func (t TabType) String() string {
	switch t {
	case GraphTab:
		return "Graph"
	case StatsTab:
		return "Stats"
	case ProblemsTab:
		return "Problems"
	default:
		return "?"
	}
}

// Snapshot is the result of one complete query
type Snapshot struct {
	Title    string
	Root     string // project root that script paths are relative to
	Graph    *graph.Graph
	Problems []string
	Universe host.Universe
}

// Messages
type (
	queryResultMsg struct {
		id   uuid.UUID
		snap *Snapshot
		err  error
	}

	filesChangedMsg struct{}

	actionDoneMsg struct {
		status string
		err    error
	}
)

type KeyMap struct {
	Tab1    key.Binding
	Tab2    key.Binding
	Tab3    key.Binding
	Tab     key.Binding
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Mode    key.Binding
	Actions key.Binding
	Refresh key.Binding
	Escape  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Mode, k.Actions, k.Refresh, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Escape},
		{k.Tab1, k.Tab2, k.Tab3, k.Tab},
		{k.Mode, k.Actions, k.Refresh, k.Help, k.Quit},
	}
}

func bind(keys []string, help, desc string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(help, desc),
	)
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab1:    bind([]string{"1"}, "1", "graph"),
		Tab2:    bind([]string{"2"}, "2", "stats"),
		Tab3:    bind([]string{"3"}, "3", "problems"),
		Tab:     bind([]string{"tab"}, "tab", "next tab"),
		Up:      bind([]string{"up", "k"}, "↑/k", "up"),
		Down:    bind([]string{"down", "j"}, "↓/j", "down"),
		Enter:   bind([]string{"enter"}, "enter", "select"),
		Mode:    bind([]string{"m"}, "m", "click mode"),
		Actions: bind([]string{"a"}, "a", "actions"),
		Refresh: bind([]string{"r"}, "r", "refresh"),
		Escape:  bind([]string{"esc"}, "esc", "back"),
		Help:    bind([]string{"?"}, "?", "help"),
		Quit:    bind([]string{"q", "ctrl+c"}, "q", "quit"),
	}
}

// Options configures a browser session
type Options struct {
	Load     func(ctx context.Context) (*Snapshot, error)
	Mode     graph.OnNodeClick
	Selected []host.ObjectID
	Watcher  *Watcher
}
