package graph

import (
	"fmt"

	"github.com/mabhi256/evinspect/internal/host"
)

type ActionKind int

const (
	ActionOpenScript ActionKind = iota
	ActionCopyID
)

// Action is a context-menu entry for a node. Value is the script path for
// ActionOpenScript and the object ID for ActionCopyID.
type Action struct {
	Label string
	Kind  ActionKind
	Value string
}

// scriptSource is implemented by host components backed by a script asset
type scriptSource interface {
	scripted
	ScriptPath() (string, bool)
}

// Actions lists the context actions available for a single node
func Actions(n *Node) []Action {
	var actions []Action

	switch n.Kind {
	case NodeListener:
		target := n.Listener.Target
		if !host.IsAlive(target) {
			return nil
		}
		if s, ok := target.(scriptSource); ok {
			if path, ok := s.ScriptPath(); ok {
				actions = append(actions, Action{
					Label: "open " + s.ScriptName(),
					Kind:  ActionOpenScript,
					Value: path,
				})
			}
		}
		actions = append(actions, Action{
			Label: "copy target id",
			Kind:  ActionCopyID,
			Value: fmt.Sprint(int64(target.ID())),
		})

	case NodeComponent:
		actions = append(actions, Action{
			Label: "copy component id",
			Kind:  ActionCopyID,
			Value: fmt.Sprint(int64(n.Component.ID())),
		})
	}
	return actions
}
