package graph

import (
	"fmt"

	"github.com/mabhi256/evinspect/internal/host"
)

// scripted is implemented by host components that know their script name
type scripted interface {
	ScriptName() string
}

// TypeName names the type of a host object for display
func TypeName(o host.Object) string {
	if s, ok := o.(scripted); ok {
		return s.ScriptName()
	}
	if c, ok := o.(host.Component); ok {
		return c.Kind().String()
	}
	return ""
}

func objectName(o host.Object) string {
	if o == nil {
		return "None"
	}
	name := o.Name()
	if name == "" {
		name = o.ID().String()
	}
	return name
}

// Label is the short node caption
func Label(n *Node) string {
	switch n.Kind {
	case NodeScene:
		return "Scene"
	case NodeComponent:
		return fmt.Sprintf("%s (%s)", objectName(n.Component), TypeName(n.Component))
	case NodeListener:
		target := n.Listener.Target
		if t := TypeName(target); t != "" {
			return fmt.Sprintf("%s.%s (%s)", objectName(target), n.Listener.Method, t)
		}
		return fmt.Sprintf("%s.%s", objectName(target), n.Listener.Method)
	default:
		return n.ID
	}
}

// Tooltip is the longer node description
func Tooltip(n *Node) string {
	switch n.Kind {
	case NodeScene:
		return "Scene"
	case NodeComponent:
		return objectName(n.Component)
	case NodeListener:
		return fmt.Sprintf("Target: %s\nMethod: %s\nArgument: %s",
			objectName(n.Listener.Target), n.Listener.Method, n.Listener.Argument.Text())
	default:
		return n.ID
	}
}
