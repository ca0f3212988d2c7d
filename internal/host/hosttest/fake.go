// Package hosttest provides an in-memory host object model for tests.
package hosttest

import (
	"fmt"

	"github.com/mabhi256/evinspect/internal/host"
	"github.com/mabhi256/evinspect/internal/serial"
)

type Object struct {
	ObjID     host.ObjectID
	ObjName   string
	Destroyed bool
}

func (o *Object) ID() host.ObjectID { return o.ObjID }
func (o *Object) Name() string      { return o.ObjName }
func (o *Object) Alive() bool       { return o != nil && !o.Destroyed }

// Destroy marks the object as destroyed, like a deleted scene object
func (o *Object) Destroy() { o.Destroyed = true }

type GameObject struct {
	Object
	Comps    []host.Component
	Kids     []host.GameObject
	Inactive bool
	Template bool
}

func (g *GameObject) Components() []host.Component { return g.Comps }
func (g *GameObject) Children() []host.GameObject  { return g.Kids }
func (g *GameObject) Active() bool                 { return !g.Inactive }
func (g *GameObject) IsTemplate() bool             { return g.Template }

type Listener struct {
	Target host.Object
	Method string
}

// Event is a live event handle with a fixed persistent listener table
type Event struct {
	Listeners []Listener
}

func (e *Event) PersistentEventCount() int { return len(e.Listeners) }

func (e *Event) PersistentTarget(i int) host.Object {
	if i < 0 || i >= len(e.Listeners) {
		return nil
	}
	return e.Listeners[i].Target
}

func (e *Event) PersistentMethodName(i int) string {
	if i < 0 || i >= len(e.Listeners) {
		return ""
	}
	return e.Listeners[i].Method
}

type Component struct {
	Object
	CompKind host.Kind
	Owner    *GameObject
	Props    serial.Property
	Fields   map[string]any
	Template bool
}

func (c *Component) Kind() host.Kind { return c.CompKind }

func (c *Component) GameObject() host.GameObject {
	if c.Owner == nil {
		return nil
	}
	return c.Owner
}

func (c *Component) Serialized() serial.Property { return c.Props }

func (c *Component) Field(name string) (any, bool) {
	v, ok := c.Fields[name]
	return v, ok
}

func (c *Component) IsTemplate() bool { return c.Template }

// Universe is an ordered object collection
type Universe struct {
	objects []host.Object
	byID    map[host.ObjectID]host.Object
}

func NewUniverse(objects ...host.Object) *Universe {
	u := &Universe{byID: make(map[host.ObjectID]host.Object)}
	u.Add(objects...)
	return u
}

func (u *Universe) Add(objects ...host.Object) {
	for _, o := range objects {
		u.objects = append(u.objects, o)
		u.byID[o.ID()] = o
	}
}

func (u *Universe) Objects() []host.Object { return u.objects }

func (u *Universe) Lookup(id host.ObjectID) (host.Object, bool) {
	o, ok := u.byID[id]
	return o, ok
}

// MustParse parses a YAML body into a serialized tree, panicking on error
func MustParse(body string) serial.Property {
	p, err := serial.Parse([]byte(body))
	if err != nil {
		panic(fmt.Sprintf("hosttest: %v", err))
	}
	return p
}

// NewComponent attaches a new component of kind to owner
func NewComponent(owner *GameObject, id host.ObjectID, kind host.Kind, body string) *Component {
	c := &Component{
		Object:   Object{ObjID: id, ObjName: owner.ObjName},
		CompKind: kind,
		Owner:    owner,
		Fields:   make(map[string]any),
	}
	if body != "" {
		c.Props = MustParse(body)
	}
	owner.Comps = append(owner.Comps, c)
	return c
}

var (
	_ host.GameObject = (*GameObject)(nil)
	_ host.Component  = (*Component)(nil)
	_ host.Event      = (*Event)(nil)
	_ host.Universe   = (*Universe)(nil)
)
