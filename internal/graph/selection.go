package graph

import (
	"fmt"
	"strings"

	"github.com/mabhi256/evinspect/internal/host"
)

// OnNodeClick decides what a node selection selects in the host
type OnNodeClick int

const (
	Ignore OnNodeClick = iota
	SelectComponent
	SelectGameObject
)

func (m OnNodeClick) String() string {
	switch m {
	case Ignore:
		return "ignore"
	case SelectComponent:
		return "component"
	case SelectGameObject:
		return "gameobject"
	default:
		return fmt.Sprintf("OnNodeClick(%d)", int(m))
	}
}

func ParseOnNodeClick(s string) (OnNodeClick, error) {
	for _, m := range []OnNodeClick{Ignore, SelectComponent, SelectGameObject} {
		if strings.EqualFold(m.String(), s) {
			return m, nil
		}
	}
	return Ignore, fmt.Errorf("unknown node click mode: %q", s)
}

// ResolveSelection maps selected nodes onto host objects. The scene node and
// nodes without a live object are skipped; duplicates are collapsed.
func ResolveSelection(nodes []*Node, mode OnNodeClick) []host.Object {
	if mode == Ignore {
		return nil
	}

	var out []host.Object
	seen := make(map[host.Object]bool)
	for _, n := range nodes {
		obj := n.Object()
		if !host.IsAlive(obj) {
			continue
		}
		if mode == SelectGameObject {
			if c, ok := obj.(host.Component); ok && c.GameObject() != nil {
				obj = c.GameObject()
			}
		}
		if !seen[obj] {
			seen[obj] = true
			out = append(out, obj)
		}
	}
	return out
}

// NodesForObjects is the reverse direction: component nodes whose
// GameObject is among the selected objects.
func NodesForObjects(g *Graph, objs []host.Object) []*Node {
	selected := make(map[host.Object]bool, len(objs))
	for _, o := range objs {
		selected[o] = true
	}

	var out []*Node
	for _, n := range g.Nodes {
		if n.Kind != NodeComponent {
			continue
		}
		if gobj := n.Component.GameObject(); gobj != nil && selected[gobj] {
			out = append(out, n)
		}
	}
	return out
}

// SelectionBridge keeps graph and host selection in step without echoing a
// change back to the side it came from.
type SelectionBridge struct {
	Mode       OnNodeClick
	ignoreNext bool
}

// NodesSelected is called when graph nodes are selected. It returns the host
// objects to select, or nil when the change originated from the host.
func (b *SelectionBridge) NodesSelected(nodes []*Node) []host.Object {
	if b.ignoreNext {
		b.ignoreNext = false
		return nil
	}
	return ResolveSelection(nodes, b.Mode)
}

// HostSelected is called when the host selection changes. It returns the
// nodes to highlight and suppresses the echo that highlighting causes.
func (b *SelectionBridge) HostSelected(g *Graph, objs []host.Object) []*Node {
	b.ignoreNext = true
	return NodesForObjects(g, objs)
}
