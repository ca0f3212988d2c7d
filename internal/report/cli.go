package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/mabhi256/evinspect/internal/events"
	"github.com/mabhi256/evinspect/internal/graph"
	"github.com/mabhi256/evinspect/utils"
)

var (
	componentStyle = lipgloss.NewStyle().Foreground(utils.InfoLightColor).Bold(true)
	eventStyle     = utils.WarningLightStyle
	listenerStyle  = utils.TextStyle
	argumentStyle  = utils.MutedStyle
)

// WriteCLI prints g as a tree: seeds, then components, their events and
// the listeners of each event in storage order
func WriteCLI(w io.Writer, g *graph.Graph, title string) error {
	root := tree.Root(utils.TitleStyle.Render(title)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(utils.MutedStyle)

	for _, id := range g.Seeds {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		if n.Kind == graph.NodeScene {
			for _, e := range g.Children(n.ID) {
				if child, ok := g.Node(e.To); ok {
					root.Child(componentTree(g, child))
				}
			}
			continue
		}
		root.Child(componentTree(g, n))
	}

	var sb strings.Builder
	sb.WriteString(root.String())
	sb.WriteString("\n\n")
	sb.WriteString(summaryLine(g))
	sb.WriteString("\n")

	if len(g.Warnings) > 0 {
		sb.WriteString("\n")
		sb.WriteString(utils.WarningStyle.Render(fmt.Sprintf("⚠️  %d warning(s)", len(g.Warnings))))
		sb.WriteString("\n")
		for _, warn := range g.Warnings {
			sb.WriteString("  • ")
			sb.WriteString(utils.WarningLightStyle.Render(warn.String()))
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func componentTree(g *graph.Graph, n *graph.Node) *tree.Tree {
	t := tree.Root(componentStyle.Render(graph.Label(n)))

	var current *tree.Tree
	currentEvent := ""
	for _, e := range g.Children(n.ID) {
		if current == nil || e.Label != currentEvent {
			current = tree.Root(eventStyle.Render(e.Label))
			currentEvent = e.Label
			t.Child(current)
		}
		child, ok := g.Node(e.To)
		if !ok {
			continue
		}
		current.Child(listenerLine(child))
	}
	return t
}

func listenerLine(n *graph.Node) string {
	line := listenerStyle.Render(graph.Label(n))
	if arg := n.Listener.Argument; arg.Kind != events.ArgNone {
		line += " " + argumentStyle.Render("("+arg.Text()+")")
	}
	return line
}

func summaryLine(g *graph.Graph) string {
	parts := []string{
		fmt.Sprintf("%d component(s)", g.Stats.Components),
		fmt.Sprintf("%d event(s)", g.Stats.Events),
		fmt.Sprintf("%d listener(s)", g.Stats.Listeners),
	}

	kinds := make([]string, 0, len(g.Stats.ArgumentKind))
	for kind, count := range g.Stats.ArgumentKind {
		kinds = append(kinds, fmt.Sprintf("%s=%d", kind, count))
	}
	slices.Sort(kinds)
	if len(kinds) > 0 {
		parts = append(parts, "arguments: "+strings.Join(kinds, " "))
	}
	return utils.MutedStyle.Render(strings.Join(parts, " · "))
}
