package graph

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mabhi256/evinspect/internal/events"
)

// Graph is a snapshot of one query. It is never updated in place: a refresh
// builds a new one.
type Graph struct {
	Seeds    []string
	Nodes    []*Node
	Edges    []Edge
	Warnings []Warning
	Stats    Statistics

	index    map[string]*Node
	children map[string][]Edge
}

// Node looks a node up by ID
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Children returns the outgoing edges of id in discovery order
func (g *Graph) Children(id string) []Edge {
	return g.children[id]
}

// Statistics summarizes a graph snapshot
type Statistics struct {
	Components   int
	Events       int
	Listeners    int
	Dangling     int
	PerEvent     []EventCount
	ArgumentKind map[events.ArgKind]int
}

// EventCount is the number of valid listeners of one component event
type EventCount struct {
	Node      string `json:"node"`
	Event     string `json:"event"`
	Listeners int    `json:"listeners"`
}

var ErrEmptyTarget = errors.New("target has no event components")

// Builder expands seeds breadth first into a Graph
type Builder struct {
	adapter *Adapter
}

func NewBuilder(a *Adapter) *Builder {
	return &Builder{adapter: a}
}

// Build runs one complete query for target
func (b *Builder) Build(target any) (*Graph, error) {
	seeds := b.adapter.Seeds(target)
	if len(seeds) == 0 {
		return nil, ErrEmptyTarget
	}

	graph := &Graph{
		index:    make(map[string]*Node),
		children: make(map[string][]Edge),
	}
	for _, s := range seeds {
		graph.Seeds = append(graph.Seeds, s.ID)
	}

	if err := b.buildGraphStages(graph, seeds); err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}

	slog.Debug("event graph built",
		slog.Int("nodes", len(graph.Nodes)),
		slog.Int("edges", len(graph.Edges)),
		slog.Int("listeners", graph.Stats.Listeners),
		slog.Int("warnings", len(graph.Warnings)),
	)
	return graph, nil
}

func (b *Builder) buildGraphStages(graph *Graph, seeds []*Node) error {
	buildStages := []struct {
		name string
		fn   func(*Graph) error
	}{
		{"relation expansion", func(g *Graph) error { return b.expand(g, seeds) }},
		{"graph statistics", b.calculateStatistics},
		{"consistency checks", b.performConsistencyChecks},
	}

	for _, stage := range buildStages {
		slog.Debug("graph stage", slog.String("stage", stage.name))
		if err := stage.fn(graph); err != nil {
			return fmt.Errorf("failed during %s: %w", stage.name, err)
		}
	}
	return nil
}

func (b *Builder) expand(graph *Graph, seeds []*Node) error {
	queue := append([]*Node(nil), seeds...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		if _, seen := graph.index[n.ID]; seen {
			continue
		}
		graph.index[n.ID] = n
		graph.Nodes = append(graph.Nodes, n)

		rels, warnings, err := b.adapter.Relations(n)
		if err != nil {
			return err
		}
		graph.Warnings = append(graph.Warnings, warnings...)

		for _, rel := range rels {
			edge := Edge{From: n.ID, To: rel.Child.ID, Label: rel.Label}
			graph.Edges = append(graph.Edges, edge)
			graph.children[n.ID] = append(graph.children[n.ID], edge)
			queue = append(queue, rel.Child)
		}
	}
	return nil
}

func (b *Builder) calculateStatistics(graph *Graph) error {
	stats := Statistics{ArgumentKind: make(map[events.ArgKind]int)}

	for _, n := range graph.Nodes {
		switch n.Kind {
		case NodeComponent:
			stats.Components++
		case NodeListener:
			stats.Listeners++
			stats.ArgumentKind[n.Listener.Argument.Kind]++
		}
	}

	for _, n := range graph.Nodes {
		if n.Kind != NodeComponent {
			continue
		}
		var current *EventCount
		for _, e := range graph.children[n.ID] {
			if current == nil || current.Event != e.Label {
				stats.PerEvent = append(stats.PerEvent, EventCount{Node: n.ID, Event: e.Label})
				current = &stats.PerEvent[len(stats.PerEvent)-1]
			}
			current.Listeners++
		}
	}
	stats.Events = len(stats.PerEvent)

	graph.Stats = stats
	return nil
}

func (b *Builder) performConsistencyChecks(graph *Graph) error {
	checks := []struct {
		name string
		fn   func(*Graph) error
	}{
		{"edge consistency", b.checkEdgeConsistency},
		{"statistical consistency", b.checkStatisticalConsistency},
	}

	for _, check := range checks {
		if err := check.fn(graph); err != nil {
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
	}
	return nil
}

// checkEdgeConsistency reports edges whose endpoints are not in the graph
func (b *Builder) checkEdgeConsistency(graph *Graph) error {
	dangling := 0
	for _, e := range graph.Edges {
		_, from := graph.index[e.From]
		_, to := graph.index[e.To]
		if from && to {
			continue
		}
		dangling++
		if dangling <= 5 {
			graph.Warnings = append(graph.Warnings, Warning{
				Node:  e.From,
				Event: e.Label,
				Err:   fmt.Errorf("edge to missing node %s", e.To),
			})
		}
	}
	graph.Stats.Dangling = dangling
	return nil
}

func (b *Builder) checkStatisticalConsistency(graph *Graph) error {
	total := 0
	for _, ec := range graph.Stats.PerEvent {
		total += ec.Listeners
	}

	// listener nodes are unique per (component, event, index), so every
	// listener edge must have produced exactly one node
	if total != graph.Stats.Listeners {
		return fmt.Errorf("listener edges (%d) do not match listener nodes (%d)", total, graph.Stats.Listeners)
	}
	return nil
}
