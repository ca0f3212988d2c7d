package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/mabhi256/evinspect/internal/events"
	"github.com/mabhi256/evinspect/internal/graph"
	"github.com/mabhi256/evinspect/utils"
)

// nodeItem is a component node in the node list
type nodeItem struct {
	node        *graph.Node
	events      int
	listeners   int
	highlighted bool
}

func newNodeItem(g *graph.Graph, n *graph.Node, highlighted bool) nodeItem {
	item := nodeItem{node: n, highlighted: highlighted}
	last := ""
	for _, e := range g.Children(n.ID) {
		if e.Label != last {
			item.events++
			last = e.Label
		}
		item.listeners++
	}
	return item
}

func (i nodeItem) Title() string {
	if i.highlighted {
		return "● " + graph.Label(i.node)
	}
	return graph.Label(i.node)
}

func (i nodeItem) Description() string {
	return fmt.Sprintf("%d event(s), %d listener(s)", i.events, i.listeners)
}

func (i nodeItem) FilterValue() string { return graph.Label(i.node) }

var (
	eventHeaderStyle = utils.WarningLightStyle.Bold(true)
	barStyle         = lipgloss.NewStyle().Foreground(utils.InfoColor)
)

func (m *Model) updateDetail() {
	if m.snap == nil {
		m.detail.SetContent("")
		return
	}
	item, ok := m.nodes.SelectedItem().(nodeItem)
	if !ok {
		m.detail.SetContent("")
		return
	}
	m.detail.SetContent(renderComponentDetail(m.snap.Graph, item.node))
	m.detail.GotoTop()
}

func renderComponentDetail(g *graph.Graph, n *graph.Node) string {
	var sb strings.Builder
	sb.WriteString(utils.TitleStyle.Render(graph.Label(n)))
	sb.WriteString("\n")
	sb.WriteString(utils.MutedStyle.Render(graph.Tooltip(n)))
	sb.WriteString("\n")

	edges := g.Children(n.ID)
	if len(edges) == 0 {
		sb.WriteString("\n")
		sb.WriteString(utils.MutedStyle.Render("No valid listeners"))
		return sb.String()
	}

	last := ""
	for _, e := range edges {
		if e.Label != last {
			sb.WriteString("\n")
			sb.WriteString(eventHeaderStyle.Render(e.Label))
			sb.WriteString("\n")
			last = e.Label
		}
		child, ok := g.Node(e.To)
		if !ok {
			continue
		}
		sb.WriteString("  ")
		sb.WriteString(utils.TextStyle.Render(graph.Label(child)))
		sb.WriteString("\n")
		for _, line := range strings.Split(graph.Tooltip(child), "\n") {
			sb.WriteString("    ")
			sb.WriteString(utils.MutedStyle.Render(line))
			sb.WriteString("\n")
		}
	}

	for _, w := range g.Warnings {
		if w.Node == n.ID {
			sb.WriteString("\n")
			sb.WriteString(utils.WarningStyle.Render("⚠ " + w.String()))
		}
	}
	return sb.String()
}

func (m *Model) updatePage() {
	if m.snap == nil {
		m.page.SetContent("")
		return
	}
	switch m.currentTab {
	case StatsTab:
		m.page.SetContent(renderStats(m.snap.Graph, m.page.Width))
	case ProblemsTab:
		m.page.SetContent(renderProblems(m.snap))
	}
}

func renderStats(g *graph.Graph, width int) string {
	s := g.Stats
	var sections []string

	sections = append(sections, utils.TitleStyle.Render("Summary"))
	sections = append(sections, fmt.Sprintf("  Components %s   Events %s   Listeners %s   Dangling %s",
		utils.InfoStyle.Render(fmt.Sprint(s.Components)),
		utils.InfoStyle.Render(fmt.Sprint(s.Events)),
		utils.InfoStyle.Render(fmt.Sprint(s.Listeners)),
		danglingStyle(s.Dangling).Render(fmt.Sprint(s.Dangling)),
	))
	sections = append(sections, "")

	if len(s.PerEvent) > 0 {
		sections = append(sections, utils.TitleStyle.Render("Listeners per event"))
		sections = append(sections, renderEventChart(g, max(width-4, 30)))
		sections = append(sections, "")
	}

	if len(s.ArgumentKind) > 0 {
		sections = append(sections, utils.TitleStyle.Render("Argument kinds"))
		kinds := make([]events.ArgKind, 0, len(s.ArgumentKind))
		for k := range s.ArgumentKind {
			kinds = append(kinds, k)
		}
		slices.Sort(kinds)
		for _, k := range kinds {
			sections = append(sections, fmt.Sprintf("  %-8s %d", k, s.ArgumentKind[k]))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func danglingStyle(n int) lipgloss.Style {
	if n > 0 {
		return utils.CriticalStyle
	}
	return utils.GoodStyle
}

func renderEventChart(g *graph.Graph, width int) string {
	data := make([]barchart.BarData, 0, len(g.Stats.PerEvent))
	for _, ec := range g.Stats.PerEvent {
		label := ec.Event
		if owner, ok := g.Node(ec.Node); ok && owner.Component != nil {
			label = owner.Component.Name() + "." + ec.Event
		}
		data = append(data, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: ec.Event, Value: float64(ec.Listeners), Style: barStyle},
			},
		})
	}

	height := len(data) * 2
	chart := barchart.New(width, height,
		barchart.WithDataSet(data),
		barchart.WithHorizontalBars(),
	)
	chart.Draw()
	return chart.View()
}

func renderProblems(snap *Snapshot) string {
	var sections []string

	warnings := snap.Graph.Warnings
	sections = append(sections, utils.TitleStyle.Render(fmt.Sprintf("Integrity warnings (%d)", len(warnings))))
	if len(warnings) == 0 {
		sections = append(sections, utils.GoodStyle.Render("  ✓ none"))
	}
	for _, w := range warnings {
		sections = append(sections, "  • "+utils.WarningLightStyle.Render(w.String()))
	}
	sections = append(sections, "")

	sections = append(sections, utils.TitleStyle.Render(fmt.Sprintf("Load problems (%d)", len(snap.Problems))))
	if len(snap.Problems) == 0 {
		sections = append(sections, utils.GoodStyle.Render("  ✓ none"))
	}
	for _, p := range snap.Problems {
		sections = append(sections, "  • "+utils.CriticalLightStyle.Render(p))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
