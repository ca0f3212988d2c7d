package events

import (
	"fmt"
	"log/slog"

	"github.com/mabhi256/evinspect/internal/host"
	"github.com/mabhi256/evinspect/internal/serial"
)

// EventRef pairs the live handle of one event with its serialized form. It
// is built fresh for each query and is not kept across refreshes.
type EventRef struct {
	Name       string
	Live       host.Event
	Path       serial.Path
	Serialized serial.Property
}

// GetEventRefs enumerates the events of c. Destroyed components, unregistered
// kinds and events whose storage cannot be resolved yield nothing.
func GetEventRefs(reg *Registry, c host.Component) []EventRef {
	if !host.IsAlive(c) {
		return nil
	}
	if c.Kind() == host.KindEventTrigger {
		return triggerEventRefs(c)
	}

	root := c.Serialized()
	var refs []EventRef
	for _, acc := range reg.Lookup(c.Kind()) {
		live, ok := acc.Live(c)
		if !ok {
			slog.Debug("event field has no live handle", "component", c.ID(), "field", acc.Name())
			continue
		}
		node, err := serial.Resolve(root, acc.Path())
		if err != nil {
			slog.Debug("event field not serialized", "component", c.ID(), "error", err)
			continue
		}
		refs = append(refs, EventRef{
			Name:       acc.Name(),
			Live:       live,
			Path:       acc.Path(),
			Serialized: node,
		})
	}
	return refs
}

// triggerEventRefs groups trigger entries by category in enum order, keeping
// list order within a category. Entries are named after their list index.
func triggerEventRefs(c host.Component) []EventRef {
	v, ok := c.Field(TriggerField)
	if !ok {
		return nil
	}
	entries, ok := v.([]host.TriggerEntry)
	if !ok || len(entries) == 0 {
		return nil
	}

	root := c.Serialized()
	var refs []EventRef
	for _, category := range host.AllTriggerTypes() {
		for i, entry := range entries {
			if entry.EventID != category || entry.Callback == nil {
				continue
			}
			path := serial.Root().Field(TriggerField).Elem(i).Field("callback")
			node, err := serial.Resolve(root, path)
			if err != nil {
				slog.Debug("trigger entry not serialized", "component", c.ID(), "error", err)
				continue
			}
			refs = append(refs, EventRef{
				Name:       fmt.Sprintf("Event %d: %s", i, category),
				Live:       entry.Callback,
				Path:       path,
				Serialized: node,
			})
		}
	}
	return refs
}
