package graph

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mabhi256/evinspect/internal/events"
	"github.com/mabhi256/evinspect/internal/host"
)

// Adapter translates introspection results into graph shape. It holds no
// state between queries.
type Adapter struct {
	Universe host.Universe
	Registry *events.Registry

	// IncludeTemplates lets the scene node reach prefab components. Set it
	// when only prefab assets are loaded.
	IncludeTemplates bool
}

func NewAdapter(u host.Universe, reg *events.Registry) *Adapter {
	if reg == nil {
		reg = events.Default()
	}
	return &Adapter{Universe: u, Registry: reg}
}

// Seeds derives the initial nodes for a target: the scene node for Scene,
// the event components in and below a GameObject, or the component itself.
func (a *Adapter) Seeds(target any) []*Node {
	switch t := target.(type) {
	case sceneMarker:
		return []*Node{sceneNode()}
	case host.Component:
		if !host.IsAlive(t) || !t.Kind().IsEventCapable() {
			return nil
		}
		return []*Node{componentNode(t)}
	case host.GameObject:
		var seeds []*Node
		for _, c := range host.ComponentsInChildren(t) {
			seeds = append(seeds, componentNode(c))
		}
		return seeds
	default:
		return nil
	}
}

// Relations lists the children of n. Integrity problems come back as
// warnings; a returned error means the query must be abandoned.
func (a *Adapter) Relations(n *Node) ([]Relation, []Warning, error) {
	switch n.Kind {
	case NodeScene:
		var rels []Relation
		for _, c := range host.EventComponents(a.Universe, a.IncludeTemplates) {
			rels = append(rels, Relation{Child: componentNode(c)})
		}
		return rels, nil, nil

	case NodeComponent:
		return a.componentRelations(n)

	default:
		return nil, nil, nil
	}
}

func (a *Adapter) componentRelations(n *Node) ([]Relation, []Warning, error) {
	var (
		rels     []Relation
		warnings []Warning
		seen     = make(map[string]bool)
	)

	for _, ref := range events.GetEventRefs(a.Registry, n.Component) {
		// first ref wins when two share a name
		if seen[ref.Name] {
			continue
		}
		seen[ref.Name] = true

		records, err := events.GetListeners(ref)
		if err != nil {
			if !errors.Is(err, events.ErrIntegrity) {
				return nil, nil, fmt.Errorf("component %s event %s: %w", n.Component.ID(), ref.Name, err)
			}
			slog.Warn("event integrity problem",
				slog.String("node", n.ID),
				slog.String("event", ref.Name),
				slog.String("error", err.Error()),
			)
			warnings = append(warnings, Warning{Node: n.ID, Event: ref.Name, Err: err})
		}

		for _, rec := range records {
			rels = append(rels, Relation{Label: ref.Name, Child: listenerNode(n.Component, ref.Name, rec)})
		}
	}
	return rels, warnings, nil
}
