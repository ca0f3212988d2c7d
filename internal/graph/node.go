// Package graph turns introspection results into nodes and labelled edges
// for graph renderers.
package graph

import (
	"fmt"

	"github.com/mabhi256/evinspect/internal/events"
	"github.com/mabhi256/evinspect/internal/host"
)

type NodeKind int

const (
	NodeScene NodeKind = iota
	NodeComponent
	NodeListener
)

func (k NodeKind) String() string {
	switch k {
	case NodeScene:
		return "scene"
	case NodeComponent:
		return "component"
	case NodeListener:
		return "listener"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// SceneID is the ID of the node standing for the whole scene
const SceneID = "scene"

type sceneMarker struct{}

// Scene is the seed target that expands to every UI event component
var Scene any = sceneMarker{}

// Node is one vertex of the event graph. Component is set for component
// nodes; Listener, Owner and Event for listener nodes.
type Node struct {
	ID   string
	Kind NodeKind

	Component host.Component

	Listener events.ListenerRecord
	Owner    host.Component
	Event    string
}

func sceneNode() *Node {
	return &Node{ID: SceneID, Kind: NodeScene}
}

func componentNode(c host.Component) *Node {
	return &Node{ID: fmt.Sprintf("c:%d", int64(c.ID())), Kind: NodeComponent, Component: c}
}

func listenerNode(owner host.Component, event string, rec events.ListenerRecord) *Node {
	return &Node{
		ID:       fmt.Sprintf("l:%d:%s:%d", int64(owner.ID()), event, rec.Index),
		Kind:     NodeListener,
		Listener: rec,
		Owner:    owner,
		Event:    event,
	}
}

// Object is the host object a node stands for: the component itself, or a
// listener's target. The scene node has none.
func (n *Node) Object() host.Object {
	switch n.Kind {
	case NodeComponent:
		return n.Component
	case NodeListener:
		return n.Listener.Target
	default:
		return nil
	}
}

// Edge connects two nodes by ID. Label is the event name, empty for
// scene edges.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// Relation is a child of a node reached through a labelled edge
type Relation struct {
	Label string
	Child *Node
}

// Warning is an integrity problem scoped to one event of one component
type Warning struct {
	Node  string `json:"node"`
	Event string `json:"event,omitempty"`
	Err   error  `json:"-"`
}

func (w Warning) String() string {
	if w.Event == "" {
		return fmt.Sprintf("%s: %v", w.Node, w.Err)
	}
	return fmt.Sprintf("%s %s: %v", w.Node, w.Event, w.Err)
}
