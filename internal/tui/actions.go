package tui

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mabhi256/evinspect/internal/graph"
)

type actionItem struct {
	action graph.Action
	source string
}

func (i actionItem) Title() string       { return i.action.Label }
func (i actionItem) Description() string { return i.source }
func (i actionItem) FilterValue() string { return i.action.Label }

// componentActions gathers the actions of a component node and of every
// listener below it, dropping repeats
func componentActions(g *graph.Graph, n *graph.Node) []list.Item {
	type actionKey struct {
		kind  graph.ActionKind
		value string
	}
	seen := make(map[actionKey]bool)
	var items []list.Item

	add := func(src *graph.Node) {
		for _, a := range graph.Actions(src) {
			k := actionKey{a.Kind, a.Value}
			if seen[k] {
				continue
			}
			seen[k] = true
			items = append(items, actionItem{action: a, source: graph.Label(src)})
		}
	}

	add(n)
	for _, e := range g.Children(n.ID) {
		if child, ok := g.Node(e.To); ok {
			add(child)
		}
	}
	return items
}

func (m *Model) openActions() {
	if m.snap == nil || m.currentTab != GraphTab {
		return
	}
	item, ok := m.nodes.SelectedItem().(nodeItem)
	if !ok {
		return
	}
	items := componentActions(m.snap.Graph, item.node)
	if len(items) == 0 {
		m.status = "no actions for " + graph.Label(item.node)
		return
	}
	m.actions.SetItems(items)
	m.actions.Select(0)
	m.showAction = true
}

func (m *Model) handleActionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		m.showAction = false
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		m.showAction = false
		item, ok := m.actions.SelectedItem().(actionItem)
		if !ok {
			return m, nil
		}
		return m, m.runAction(item.action)
	}

	var cmd tea.Cmd
	m.actions, cmd = m.actions.Update(msg)
	return m, cmd
}

func (m *Model) runAction(a graph.Action) tea.Cmd {
	switch a.Kind {
	case graph.ActionOpenScript:
		path := a.Value
		if m.snap != nil && m.snap.Root != "" && !filepath.IsAbs(path) {
			path = filepath.Join(m.snap.Root, path)
		}
		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}
		return tea.ExecProcess(exec.Command(editor, path), func(err error) tea.Msg {
			if err != nil {
				return actionDoneMsg{err: fmt.Errorf("failed to open %s: %w", path, err)}
			}
			return actionDoneMsg{status: "opened " + path}
		})

	case graph.ActionCopyID:
		value := a.Value
		return func() tea.Msg {
			if err := clipboard.WriteAll(value); err != nil {
				return actionDoneMsg{err: fmt.Errorf("failed to copy to clipboard: %w", err)}
			}
			return actionDoneMsg{status: "copied " + value}
		}

	default:
		return nil
	}
}
