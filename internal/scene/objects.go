package scene

import (
	"github.com/mabhi256/evinspect/internal/events"
	"github.com/mabhi256/evinspect/internal/host"
	"github.com/mabhi256/evinspect/internal/serial"
)

type object struct {
	id       host.ObjectID
	name     string
	file     *File
	template bool
	stripped bool
}

func (o *object) ID() host.ObjectID { return o.id }
func (o *object) Name() string      { return o.name }
func (o *object) Alive() bool       { return o != nil }
func (o *object) IsTemplate() bool  { return o.template }

// File is the path the object was loaded from
func (o *object) File() string {
	if o.file == nil {
		return ""
	}
	return o.file.Path
}

type GameObject struct {
	object
	active     bool
	parent     *GameObject
	components []*Component
	children   []*GameObject
}

func (g *GameObject) Active() bool { return g.active }

func (g *GameObject) Components() []host.Component {
	out := make([]host.Component, len(g.components))
	for i, c := range g.components {
		out[i] = c
	}
	return out
}

func (g *GameObject) Children() []host.GameObject {
	out := make([]host.GameObject, len(g.children))
	for i, c := range g.children {
		out[i] = c
	}
	return out
}

// HierarchyPath is the slash-separated name chain from the root object
func (g *GameObject) HierarchyPath() string {
	if g.parent == nil {
		return g.name
	}
	return g.parent.HierarchyPath() + "/" + g.name
}

// Component is any serialized component: transforms, built-in UI behaviours
// and user scripts.
type Component struct {
	object
	class   int
	kind    host.Kind
	script  serial.ObjectRef
	owner   *GameObject
	ownerID host.ObjectID
	body    serial.Property
}

func (c *Component) Kind() host.Kind { return c.kind }

// Class is the Unity class ID of the component's document
func (c *Component) Class() int { return c.class }

func (c *Component) Name() string {
	if c.owner != nil {
		return c.owner.name
	}
	return c.name
}

func (c *Component) GameObject() host.GameObject {
	if c.owner == nil {
		return nil
	}
	return c.owner
}

func (c *Component) Serialized() serial.Property { return c.body }

// Script is the m_Script reference of a MonoBehaviour
func (c *Component) Script() serial.ObjectRef { return c.script }

// ScriptName names the component's type: the script asset's base name when
// the asset index knows its GUID, the kind otherwise.
func (c *Component) ScriptName() string {
	if c.script.GUID != "" && c.file != nil {
		if name, ok := c.file.assets.Name(c.script.GUID); ok {
			return name
		}
	}
	if c.kind != host.KindUnknown {
		return c.kind.String()
	}
	return c.name
}

// ScriptPath is the project-relative path of the component's script asset
func (c *Component) ScriptPath() (string, bool) {
	if c.script.GUID == "" || c.file == nil {
		return "", false
	}
	return c.file.assets.Path(c.script.GUID)
}

// Field builds the live view of an event field from the serialized form.
// Each call yields a fresh handle.
func (c *Component) Field(name string) (any, bool) {
	if c.body == nil {
		return nil, false
	}
	node, ok := c.body.FindChild(name)
	if !ok {
		return nil, false
	}
	if name == events.TriggerField {
		return c.triggerEntries(node), true
	}
	if _, ok := node.FindChild("m_PersistentCalls"); !ok {
		return nil, false
	}
	return c.file.newEvent(node), true
}

func (c *Component) triggerEntries(list serial.Property) []host.TriggerEntry {
	entries := make([]host.TriggerEntry, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		item, _ := list.Index(i)
		entry := host.TriggerEntry{}
		if id, ok := item.FindChild("eventID"); ok {
			if v, err := id.EnumValueIndex(); err == nil {
				entry.EventID = host.TriggerType(v)
			}
		}
		if cb, ok := item.FindChild("callback"); ok {
			entry.Callback = c.file.newEvent(cb)
		}
		entries = append(entries, entry)
	}
	return entries
}

// ExternalObject is a reference into another asset. It cannot be inspected,
// only named.
type ExternalObject struct {
	Ref   serial.ObjectRef
	Asset string
}

func (e *ExternalObject) ID() host.ObjectID { return host.ObjectID(e.Ref.FileID) }

func (e *ExternalObject) Name() string {
	if e.Asset != "" {
		return e.Asset
	}
	return e.Ref.String()
}

func (e *ExternalObject) Alive() bool { return e != nil }

// Event is the live handle of a serialized UnityEvent. Targets are resolved
// when the handle is built.
type Event struct {
	targets []host.Object
	methods []string
}

func (f *File) newEvent(node serial.Property) *Event {
	ev := &Event{}
	calls, ok := serial.Child(node, "m_PersistentCalls", "m_Calls")
	if !ok {
		return ev
	}
	for i := 0; i < calls.Len(); i++ {
		call, _ := calls.Index(i)

		var target host.Object
		if t, ok := call.FindChild("m_Target"); ok {
			if ref, err := t.ObjectRefValue(); err == nil {
				target = f.resolve(ref)
			}
		}
		method := ""
		if m, ok := call.FindChild("m_MethodName"); ok {
			method, _ = m.StringValue()
		}
		ev.targets = append(ev.targets, target)
		ev.methods = append(ev.methods, method)
	}
	return ev
}

func (e *Event) PersistentEventCount() int { return len(e.targets) }

func (e *Event) PersistentTarget(i int) host.Object {
	if i < 0 || i >= len(e.targets) {
		return nil
	}
	return e.targets[i]
}

func (e *Event) PersistentMethodName(i int) string {
	if i < 0 || i >= len(e.methods) {
		return ""
	}
	return e.methods[i]
}

var (
	_ host.GameObject = (*GameObject)(nil)
	_ host.Component  = (*Component)(nil)
	_ host.Object     = (*ExternalObject)(nil)
	_ host.Event      = (*Event)(nil)
)
