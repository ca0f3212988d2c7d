package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/mabhi256/evinspect/internal/graph"
	"github.com/mabhi256/evinspect/internal/host"
	"github.com/mabhi256/evinspect/utils"
)

type Model struct {
	opts Options
	keys KeyMap
	help help.Model

	// UI state
	currentTab TabType
	width      int
	height     int
	nodes      list.Model
	detail     viewport.Model
	page       viewport.Model
	actions    list.Model
	showAction bool
	lastIndex  int

	// Query state. A refresh replaces snap wholesale.
	snap    *Snapshot
	queryID uuid.UUID
	cancel  context.CancelFunc
	loading bool

	// Selection state
	bridge        graph.SelectionBridge
	selectedIDs   []host.ObjectID
	hostSelection []host.Object
	highlighted   map[string]bool

	errorMessage string
	status       string
}

func initialModel(opts Options) *Model {
	nodes := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	nodes.Title = "Event components"
	nodes.SetShowStatusBar(false)
	nodes.SetShowHelp(false)
	nodes.SetFilteringEnabled(true)

	actions := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	actions.Title = "Actions"
	actions.SetShowStatusBar(false)
	actions.SetShowHelp(false)
	actions.SetFilteringEnabled(false)

	return &Model{
		opts:        opts,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		currentTab:  GraphTab,
		nodes:       nodes,
		detail:      viewport.New(0, 0),
		page:        viewport.New(0, 0),
		actions:     actions,
		bridge:      graph.SelectionBridge{Mode: opts.Mode},
		selectedIDs: opts.Selected,
		highlighted: make(map[string]bool),
		lastIndex:   -1,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.watch())
}

// refresh starts a new query and supersedes any query still running
func (m *Model) refresh() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.queryID = uuid.New()
	m.loading = true

	id := m.queryID
	load := m.opts.Load
	return func() tea.Msg {
		snap, err := load(ctx)
		return queryResultMsg{id: id, snap: snap, err: err}
	}
}

func (m *Model) watch() tea.Cmd {
	if m.opts.Watcher == nil {
		return nil
	}
	return m.opts.Watcher.Wait
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case queryResultMsg:
		m.handleResult(msg)
		return m, nil

	case filesChangedMsg:
		m.status = "files changed, reloading"
		return m, tea.Batch(m.refresh(), m.watch())

	case actionDoneMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
		} else {
			m.status = msg.status
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forward(msg)
}

func (m *Model) handleResult(msg queryResultMsg) {
	if msg.id != m.queryID {
		slog.Debug("discarding superseded query result", slog.String("query", msg.id.String()))
		return
	}
	m.loading = false
	m.cancel = nil

	if msg.err != nil {
		// keep showing the previous snapshot
		slog.Error("query failed", slog.Any("error", msg.err))
		m.errorMessage = msg.err.Error()
		return
	}

	m.errorMessage = ""
	m.snap = msg.snap
	m.status = fmt.Sprintf("%d listener(s), %d warning(s)",
		msg.snap.Graph.Stats.Listeners, len(msg.snap.Graph.Warnings))
	m.populate()
}

// populate rebuilds the node list from the current snapshot and re-applies
// the host selection to it
func (m *Model) populate() {
	g := m.snap.Graph

	m.highlighted = make(map[string]bool)
	if objs := m.resolveSelection(); len(objs) > 0 {
		for _, n := range m.bridge.HostSelected(g, objs) {
			m.highlighted[n.ID] = true
		}
	}

	var items []list.Item
	first := -1
	for _, n := range g.Nodes {
		if n.Kind != graph.NodeComponent {
			continue
		}
		if first < 0 && m.highlighted[n.ID] {
			first = len(items)
		}
		items = append(items, newNodeItem(g, n, m.highlighted[n.ID]))
	}
	m.nodes.SetItems(items)

	if first >= 0 {
		m.nodes.Select(first)
		// the list reports the highlight like any other selection
		m.nodeSelected()
	} else if m.nodes.Index() >= len(items) {
		m.nodes.Select(0)
	}
	m.lastIndex = m.nodes.Index()

	m.updateDetail()
	m.updatePage()
}

// resolveSelection maps the remembered host selection onto the current
// universe. Components stand for their GameObject.
func (m *Model) resolveSelection() []host.Object {
	if m.snap.Universe == nil {
		return nil
	}
	var objs []host.Object
	for _, id := range m.selectedIDs {
		obj, ok := m.snap.Universe.Lookup(id)
		if !ok {
			continue
		}
		if c, ok := obj.(host.Component); ok && c.GameObject() != nil {
			obj = c.GameObject()
		}
		objs = append(objs, obj)
	}
	return objs
}

func (m *Model) nodeSelected() {
	item, ok := m.nodes.SelectedItem().(nodeItem)
	if !ok {
		return
	}
	objs := m.bridge.NodesSelected([]*graph.Node{item.node})
	if len(objs) == 0 {
		return
	}
	m.hostSelection = objs
	ids := make([]host.ObjectID, 0, len(objs))
	for _, o := range objs {
		ids = append(ids, o.ID())
	}
	m.selectedIDs = ids
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showAction {
		return m.handleActionKeys(msg)
	}
	if m.nodes.FilterState() == list.Filtering {
		return m.forward(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape) && m.errorMessage != "":
		m.errorMessage = ""
		return m, nil

	case key.Matches(msg, m.keys.Tab1):
		m.switchTab(GraphTab)
	case key.Matches(msg, m.keys.Tab2):
		m.switchTab(StatsTab)
	case key.Matches(msg, m.keys.Tab3):
		m.switchTab(ProblemsTab)
	case key.Matches(msg, m.keys.Tab):
		next := m.currentTab
		utils.CycleEnumPtr(&next, 1, ProblemsTab)
		m.switchTab(next)

	case key.Matches(msg, m.keys.Mode):
		utils.CycleEnumPtr(&m.bridge.Mode, 1, graph.SelectGameObject)
		m.status = "node click selects: " + m.bridge.Mode.String()

	case key.Matches(msg, m.keys.Actions):
		m.openActions()

	case key.Matches(msg, m.keys.Refresh):
		m.status = "refreshing"
		return m, m.refresh()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()

	case key.Matches(msg, m.keys.Enter) && m.currentTab == GraphTab:
		m.nodeSelected()

	default:
		return m.forward(msg)
	}
	return m, nil
}

// forward hands msg to the widget owning the current tab
func (m *Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentTab {
	case GraphTab:
		m.nodes, cmd = m.nodes.Update(msg)
		if idx := m.nodes.Index(); idx != m.lastIndex {
			m.lastIndex = idx
			m.nodeSelected()
			m.updateDetail()
		}
		var dcmd tea.Cmd
		if _, ok := msg.(tea.MouseMsg); ok {
			m.detail, dcmd = m.detail.Update(msg)
		}
		return m, tea.Batch(cmd, dcmd)
	default:
		m.page, cmd = m.page.Update(msg)
		return m, cmd
	}
}

func (m *Model) switchTab(tab TabType) {
	m.currentTab = tab
	m.updatePage()
}

func (m *Model) resize() {
	helpHeight := lipgloss.Height(m.help.View(m.keys))
	contentHeight := max(m.height-helpHeight-4, 1)

	listWidth := max(m.width/3, 20)
	m.nodes.SetSize(listWidth, contentHeight)
	m.detail.Width = max(m.width-listWidth-2, 10)
	m.detail.Height = contentHeight
	m.page.Width = m.width
	m.page.Height = contentHeight
	m.actions.SetSize(max(m.width/2, 30), max(contentHeight/2, 8))
	m.help.Width = m.width

	m.updateDetail()
	m.updatePage()
}

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	helpView := m.help.View(m.keys)

	var content string
	switch {
	case m.errorMessage != "":
		box := utils.ErrorStyle.Width(max(m.width-8, 20)).Render("Query failed\n\n" + m.errorMessage + "\n\nesc to dismiss")
		content = lipgloss.Place(m.width, m.page.Height, lipgloss.Center, lipgloss.Center, box)
	case m.snap == nil:
		content = utils.MutedStyle.Render("Loading scene...")
	case m.showAction:
		content = lipgloss.Place(m.width, m.page.Height, lipgloss.Center, lipgloss.Center,
			utils.BoxStyle.Render(m.actions.View()))
	default:
		content = m.renderActiveTab()
	}
	content = lipgloss.NewStyle().Height(m.page.Height).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, m.renderStatusBar(), helpView)
}

func (m *Model) renderActiveTab() string {
	switch m.currentTab {
	case GraphTab:
		if len(m.nodes.Items()) == 0 {
			return utils.MutedStyle.Render("No event components in this target")
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, m.nodes.View(), "  ", m.detail.View())
	default:
		return m.page.View()
	}
}

func (m *Model) renderHeader() string {
	title := "evinspect"
	if m.snap != nil && m.snap.Title != "" {
		title = "evinspect - " + m.snap.Title
	}

	var tabs []string
	for _, tab := range []TabType{GraphTab, StatsTab, ProblemsTab} {
		style := utils.TabInactiveStyle
		indicator := " "
		if tab == m.currentTab {
			style = utils.TabActiveStyle
			indicator = "●"
		}
		label := tab.String()
		if tab == ProblemsTab && m.snap != nil {
			if n := len(m.snap.Graph.Warnings) + len(m.snap.Problems); n > 0 {
				label = fmt.Sprintf("%s (%d)", label, n)
			}
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%s %s [%d]", indicator, label, int(tab)+1)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		utils.HeaderStyle.Width(m.width).Render(title),
		strings.Join(tabs, "  "),
		utils.MutedStyle.Render(strings.Repeat("─", m.width)),
	)
}

func (m *Model) renderStatusBar() string {
	parts := []string{"click: " + m.bridge.Mode.String()}
	if len(m.hostSelection) > 0 {
		names := make([]string, 0, len(m.hostSelection))
		for _, o := range m.hostSelection {
			names = append(names, o.Name())
		}
		parts = append(parts, "selected: "+strings.Join(names, ", "))
	}
	if m.loading {
		parts = append(parts, "loading")
	} else if m.status != "" {
		parts = append(parts, m.status)
	}
	return utils.StatusBarStyle.Width(m.width).Render(strings.Join(parts, " • "))
}

// Run starts the browser and blocks until the user quits
func Run(opts Options) error {
	model := initialModel(opts)

	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
