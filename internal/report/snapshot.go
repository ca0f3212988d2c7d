// Package report renders event graph snapshots for the terminal, browsers
// and other tools.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/mabhi256/evinspect/internal/events"
	"github.com/mabhi256/evinspect/internal/graph"
	"github.com/mabhi256/evinspect/internal/host"
)

type Format int

const (
	FormatCLI Format = iota
	FormatTUI
	FormatHTML
	FormatDOT
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatCLI:
		return "cli"
	case FormatTUI:
		return "tui"
	case FormatHTML:
		return "html"
	case FormatDOT:
		return "dot"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

func ParseFormat(s string) (Format, error) {
	for _, f := range []Format{FormatCLI, FormatTUI, FormatHTML, FormatDOT, FormatJSON} {
		if strings.EqualFold(f.String(), s) {
			return f, nil
		}
	}
	return FormatCLI, fmt.Errorf("unknown output format: %q (want cli, tui, html, dot or json)", s)
}

// Snapshot is the serializable form of a graph shared by the JSON and HTML
// renderers
type Snapshot struct {
	Title       string       `json:"title"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Layout      string       `json:"layout"`
	Seeds       []string     `json:"seeds"`
	Nodes       []NodeData   `json:"nodes"`
	Edges       []graph.Edge `json:"edges"`
	Warnings    []string     `json:"warnings"`
	Stats       StatsData    `json:"stats"`
}

type NodeData struct {
	ID       string               `json:"id"`
	Kind     string               `json:"kind"`
	Label    string               `json:"label"`
	Tooltip  string               `json:"tooltip"`
	Object   string               `json:"object,omitempty"`
	Event    string               `json:"event,omitempty"`
	Method   string               `json:"method,omitempty"`
	Argument *events.CallArgument `json:"argument,omitempty"`
}

type StatsData struct {
	Components   int                `json:"components"`
	Events       int                `json:"events"`
	Listeners    int                `json:"listeners"`
	Dangling     int                `json:"dangling"`
	PerEvent     []graph.EventCount `json:"perEvent"`
	ArgumentKind map[string]int     `json:"argumentKind"`
}

// NewSnapshot flattens g. Warnings keep the order the builder found them in.
func NewSnapshot(g *graph.Graph, title string) *Snapshot {
	s := &Snapshot{
		Title:       title,
		GeneratedAt: time.Now(),
		Layout:      events.LayoutVersion,
		Seeds:       g.Seeds,
		Edges:       g.Edges,
		Nodes:       make([]NodeData, 0, len(g.Nodes)),
		Warnings:    make([]string, 0, len(g.Warnings)),
	}
	if s.Edges == nil {
		s.Edges = []graph.Edge{}
	}

	for _, n := range g.Nodes {
		nd := NodeData{
			ID:      n.ID,
			Kind:    n.Kind.String(),
			Label:   graph.Label(n),
			Tooltip: graph.Tooltip(n),
		}
		if obj := n.Object(); host.IsAlive(obj) {
			nd.Object = obj.ID().String()
		}
		if n.Kind == graph.NodeListener {
			arg := n.Listener.Argument
			nd.Event = n.Event
			nd.Method = n.Listener.Method
			nd.Argument = &arg
		}
		s.Nodes = append(s.Nodes, nd)
	}

	for _, w := range g.Warnings {
		s.Warnings = append(s.Warnings, w.String())
	}

	s.Stats = StatsData{
		Components:   g.Stats.Components,
		Events:       g.Stats.Events,
		Listeners:    g.Stats.Listeners,
		Dangling:     g.Stats.Dangling,
		PerEvent:     g.Stats.PerEvent,
		ArgumentKind: make(map[string]int, len(g.Stats.ArgumentKind)),
	}
	for kind, count := range g.Stats.ArgumentKind {
		s.Stats.ArgumentKind[kind.String()] = count
	}
	return s
}
