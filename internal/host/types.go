package host

import (
	"fmt"

	"github.com/mabhi256/evinspect/internal/serial"
)

// ObjectID is the file-local identifier of a serialized object (Unity fileID)
type ObjectID int64

func (id ObjectID) String() string {
	return fmt.Sprintf("&%d", int64(id))
}

// Object is anything in the host's object universe. A nil Object, or one
// whose Alive returns false, counts as destroyed.
type Object interface {
	ID() ObjectID
	Name() string
	Alive() bool
}

// GameObject is a scene node that carries components and child nodes
type GameObject interface {
	Object
	Components() []Component
	Children() []GameObject
	Active() bool
	IsTemplate() bool
}

// Component is a behaviour attached to a GameObject.
type Component interface {
	Object
	Kind() Kind
	GameObject() GameObject

	// Serialized is the root of the component's serialized form
	Serialized() serial.Property

	// Field reads hidden framework state by field name. Event fields yield an
	// Event, the trigger list yields []TriggerEntry.
	Field(name string) (any, bool)

	// IsTemplate reports prefab asset / prototype instances
	IsTemplate() bool
}

// Event is the live handle of a UI event. It exposes the persistent listener
// table (target and method) but not the bound argument values.
type Event interface {
	PersistentEventCount() int
	PersistentTarget(i int) Object
	PersistentMethodName(i int) string
}

// TriggerEntry is one element of a trigger-style component's event list
type TriggerEntry struct {
	EventID  TriggerType
	Callback Event
}

// Universe is the set of objects currently known to the host
type Universe interface {
	Objects() []Object
	Lookup(id ObjectID) (Object, bool)
}

// IsAlive is the null-safe liveness check used across the introspection layer
func IsAlive(o Object) bool {
	return o != nil && o.Alive()
}

// EventComponents returns every event-capable component in u, in universe
// order. Template components are skipped unless includeTemplates is set.
// Inactive GameObjects are not filtered.
func EventComponents(u Universe, includeTemplates bool) []Component {
	var out []Component
	for _, obj := range u.Objects() {
		c, ok := obj.(Component)
		if !ok || !IsAlive(c) || (c.IsTemplate() && !includeTemplates) {
			continue
		}
		if c.Kind().IsEventCapable() {
			out = append(out, c)
		}
	}
	return out
}

// ComponentsInChildren collects event-capable components of g and all of its
// descendants, depth first. Inactive GameObjects and everything below them
// are skipped; templates are not.
func ComponentsInChildren(g GameObject) []Component {
	var out []Component
	var walk func(GameObject)
	walk = func(cur GameObject) {
		if !IsAlive(cur) || !cur.Active() {
			return
		}
		for _, c := range cur.Components() {
			if IsAlive(c) && c.Kind().IsEventCapable() {
				out = append(out, c)
			}
		}
		for _, child := range cur.Children() {
			walk(child)
		}
	}
	walk(g)
	return out
}
