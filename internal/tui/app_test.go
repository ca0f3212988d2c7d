package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabhi256/evinspect/internal/events"
	"github.com/mabhi256/evinspect/internal/graph"
	"github.com/mabhi256/evinspect/internal/host"
	"github.com/mabhi256/evinspect/internal/host/hosttest"
)

const clickBody = `
m_OnClick:
  m_PersistentCalls:
    m_Calls:
    - m_Mode: 3
      m_Arguments:
        m_IntArgument: 7
`

const sliderBody = `
m_OnValueChanged:
  m_PersistentCalls:
    m_Calls:
    - m_Mode: 1
    - m_Mode: 6
      m_Arguments:
        m_BoolArgument: 1
`

func newTestSnapshot(t *testing.T) *Snapshot {
	t.Helper()

	canvas := &hosttest.GameObject{Object: hosttest.Object{ObjID: 1, ObjName: "Canvas"}}
	panel := &hosttest.GameObject{Object: hosttest.Object{ObjID: 2, ObjName: "Panel"}}
	controller := &hosttest.GameObject{Object: hosttest.Object{ObjID: 3, ObjName: "Controller"}}
	handler := hosttest.NewComponent(controller, 30, host.KindUnknown, "")

	button := hosttest.NewComponent(canvas, 10, host.KindButton, clickBody)
	button.Fields["m_OnClick"] = &hosttest.Event{Listeners: []hosttest.Listener{
		{Target: handler, Method: "Play"},
	}}
	slider := hosttest.NewComponent(panel, 20, host.KindSlider, sliderBody)
	slider.Fields["m_OnValueChanged"] = &hosttest.Event{Listeners: []hosttest.Listener{
		{Target: handler, Method: "Mute"},
		{Target: handler, Method: "SetEnabled"},
	}}

	u := hosttest.NewUniverse(canvas, panel, controller, button, slider, handler)
	g, err := graph.NewBuilder(graph.NewAdapter(u, events.Default())).Build(graph.Scene)
	require.NoError(t, err)

	return &Snapshot{
		Title:    "Menu.unity",
		Graph:    g,
		Problems: []string{"Menu.unity &40: layout mismatch"},
		Universe: u,
	}
}

func newTestModel(t *testing.T, opts Options) *Model {
	t.Helper()
	if opts.Load == nil {
		opts.Load = func(context.Context) (*Snapshot, error) { return nil, errors.New("not loaded") }
	}
	m := initialModel(opts)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestRefreshRunsLoader(t *testing.T) {
	snap := newTestSnapshot(t)
	m := newTestModel(t, Options{Load: func(context.Context) (*Snapshot, error) { return snap, nil }})

	msg := m.refresh()()
	result, ok := msg.(queryResultMsg)
	require.True(t, ok)
	assert.Equal(t, m.queryID, result.id)

	m.Update(result)
	assert.Same(t, snap, m.snap)
	assert.False(t, m.loading)
	assert.Len(t, m.nodes.Items(), 2)
}

func TestSupersededResultIsDiscarded(t *testing.T) {
	snap := newTestSnapshot(t)
	m := newTestModel(t, Options{})

	m.refresh()
	stale := m.queryID
	m.refresh()
	require.NotEqual(t, stale, m.queryID)

	m.Update(queryResultMsg{id: stale, snap: snap})
	assert.Nil(t, m.snap)
	assert.True(t, m.loading)

	m.Update(queryResultMsg{id: m.queryID, snap: snap})
	assert.Same(t, snap, m.snap)
}

func TestFailedQueryKeepsPreviousGraph(t *testing.T) {
	snap := newTestSnapshot(t)
	m := newTestModel(t, Options{})

	m.refresh()
	m.Update(queryResultMsg{id: m.queryID, snap: snap})

	m.refresh()
	m.Update(queryResultMsg{id: m.queryID, err: events.ErrUnknownMode})
	assert.Same(t, snap, m.snap)
	assert.Contains(t, m.errorMessage, "unrecognized listener argument mode")
	assert.Contains(t, m.View(), "Query failed")

	m.Update(keyPress("esc"))
	assert.Empty(t, m.errorMessage)
}

func TestModeKeyCyclesClickMode(t *testing.T) {
	m := newTestModel(t, Options{Mode: graph.SelectComponent})

	m.Update(keyPress("m"))
	assert.Equal(t, graph.SelectGameObject, m.bridge.Mode)
	m.Update(keyPress("m"))
	assert.Equal(t, graph.Ignore, m.bridge.Mode)
	assert.Contains(t, m.status, "ignore")
}

func TestTabKeys(t *testing.T) {
	m := newTestModel(t, Options{})

	m.Update(keyPress("3"))
	assert.Equal(t, ProblemsTab, m.currentTab)
	m.Update(keyPress("tab"))
	assert.Equal(t, GraphTab, m.currentTab)
	m.Update(keyPress("2"))
	assert.Equal(t, StatsTab, m.currentTab)
}

func TestHostSelectionHighlightsWithoutEcho(t *testing.T) {
	snap := newTestSnapshot(t)
	m := newTestModel(t, Options{Mode: graph.SelectGameObject, Selected: []host.ObjectID{2}})

	m.refresh()
	m.Update(queryResultMsg{id: m.queryID, snap: snap})

	assert.True(t, m.highlighted["c:20"])
	item, ok := m.nodes.SelectedItem().(nodeItem)
	require.True(t, ok)
	assert.Equal(t, "c:20", item.node.ID)
	assert.Contains(t, item.Title(), "●")

	// the highlight must not be pushed back as a new host selection
	assert.Empty(t, m.hostSelection)

	m.Update(keyPress("enter"))
	require.Len(t, m.hostSelection, 1)
	assert.Equal(t, "Panel", m.hostSelection[0].Name())
	assert.Equal(t, []host.ObjectID{2}, m.selectedIDs)
}

func TestComponentSelectionFollowsGameObject(t *testing.T) {
	snap := newTestSnapshot(t)
	// a component ID selects through its GameObject
	m := newTestModel(t, Options{Mode: graph.SelectComponent, Selected: []host.ObjectID{10}})

	m.refresh()
	m.Update(queryResultMsg{id: m.queryID, snap: snap})
	assert.True(t, m.highlighted["c:10"])
	assert.False(t, m.highlighted["c:20"])
}

func TestRenderStatsAndProblems(t *testing.T) {
	snap := newTestSnapshot(t)

	stats := renderStats(snap.Graph, 80)
	assert.Contains(t, stats, "Listeners per event")
	assert.Contains(t, stats, "Int")
	assert.Contains(t, stats, "Bool")

	problems := renderProblems(snap)
	assert.Contains(t, problems, "Integrity warnings (0)")
	assert.Contains(t, problems, "layout mismatch")
}

func TestComponentDetail(t *testing.T) {
	snap := newTestSnapshot(t)
	n, ok := snap.Graph.Node("c:20")
	require.True(t, ok)

	detail := renderComponentDetail(snap.Graph, n)
	assert.Contains(t, detail, "m_OnValueChanged")
	assert.Contains(t, detail, "Controller.Mute")
	assert.Contains(t, detail, "Argument: Bool: true")
}

func TestComponentActions(t *testing.T) {
	snap := newTestSnapshot(t)
	n, ok := snap.Graph.Node("c:20")
	require.True(t, ok)

	items := componentActions(snap.Graph, n)
	// component id plus one target id shared by both listeners
	require.Len(t, items, 2)
	assert.Equal(t, "copy component id", items[0].(actionItem).action.Label)
	assert.Equal(t, "copy target id", items[1].(actionItem).action.Label)
	assert.Equal(t, "30", items[1].(actionItem).action.Value)
}

func TestActionMenu(t *testing.T) {
	snap := newTestSnapshot(t)
	m := newTestModel(t, Options{})
	m.refresh()
	m.Update(queryResultMsg{id: m.queryID, snap: snap})

	m.Update(keyPress("a"))
	require.True(t, m.showAction)
	m.Update(keyPress("esc"))
	assert.False(t, m.showAction)
}
