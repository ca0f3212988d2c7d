package events

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mabhi256/evinspect/internal/host"
	"github.com/mabhi256/evinspect/internal/serial"
)

// TriggerField holds the event list of trigger-style components. Trigger
// kinds are located through it and never through registry rows.
const TriggerField = "m_Delegates"

// LayoutVersion names the serialized layout the table below is written against
const LayoutVersion = "ugui-2019.1"

// Row is one (kind, capability) → event field entry
type Row struct {
	Kind       host.Kind
	Capability host.Capability
	Field      string
}

func (r Row) String() string {
	return fmt.Sprintf("%s/%s -> %s", r.Kind, r.Capability, r.Field)
}

// defaultRows maps each UI component kind and the event capability it raises
// onto the field storing the event. Several capabilities of a kind can share
// one field; Lookup collapses them.
var defaultRows = []Row{
	{host.KindButton, host.PointerEnter, "m_OnClick"},
	{host.KindButton, host.Submit, "m_OnClick"},
	{host.KindButton, host.PointerClick, "m_OnClick"},

	{host.KindSlider, host.Drag, "m_OnValueChanged"},

	{host.KindToggle, host.PointerClick, "onValueChanged"},
	{host.KindToggle, host.Submit, "onValueChanged"},

	{host.KindDropdown, host.PointerEnter, "m_OnValueChanged"},
	{host.KindDropdown, host.Submit, "m_OnValueChanged"},

	{host.KindScrollbar, host.Drag, "m_OnValueChanged"},

	{host.KindScrollRect, host.Scroll, "m_OnValueChanged"},
	{host.KindScrollRect, host.Drag, "m_OnValueChanged"},
	{host.KindScrollRect, host.EndDrag, "m_OnValueChanged"},

	{host.KindInputField, host.PointerClick, "m_OnValueChanged"},
	{host.KindInputField, host.Submit, "m_OnValueChanged"},
	{host.KindInputField, host.UpdateSelected, "m_OnEndEdit"},
	{host.KindInputField, host.Select, "m_OnEndEdit"},
	{host.KindInputField, host.Deselect, "m_OnEndEdit"},
}

// layouts declares the event fields each kind serializes at LayoutVersion.
// Rows may only point at declared fields.
var layouts = map[host.Kind][]string{
	host.KindButton:       {"m_OnClick"},
	host.KindToggle:       {"onValueChanged"},
	host.KindSlider:       {"m_OnValueChanged"},
	host.KindScrollbar:    {"m_OnValueChanged"},
	host.KindScrollRect:   {"m_OnValueChanged"},
	host.KindInputField:   {"m_OnValueChanged", "m_OnEndEdit"},
	host.KindDropdown:     {"m_OnValueChanged"},
	host.KindEventTrigger: {TriggerField},
}

// DefaultRows returns a copy of the built-in table
func DefaultRows() []Row {
	return slices.Clone(defaultRows)
}

// LayoutFields returns the event fields declared for kind
func LayoutFields(kind host.Kind) []string {
	return slices.Clone(layouts[kind])
}

// Accessor reads one event field of a component. Two accessors are equal
// exactly when they address the same storage.
type Accessor struct {
	field string
}

func NewAccessor(field string) Accessor {
	return Accessor{field: field}
}

func (a Accessor) Name() string {
	return a.field
}

// Path is the location of the event inside the component's serialized form
func (a Accessor) Path() serial.Path {
	return serial.Root().Field(a.field)
}

// Live reads the live event handle from the component's hidden field
func (a Accessor) Live(c host.Component) (host.Event, bool) {
	if !host.IsAlive(c) {
		return nil, false
	}
	v, ok := c.Field(a.field)
	if !ok || v == nil {
		return nil, false
	}
	ev, ok := v.(host.Event)
	if !ok || ev == nil {
		return nil, false
	}
	return ev, true
}

var (
	ErrRegistry = errors.New("invalid event registry")
	ErrLayout   = errors.New("serialized layout mismatch")
)

// Registry is the read-only event shape table
type Registry struct {
	rows   []Row
	byKind map[host.Kind][]Accessor
}

// Build validates rows and indexes them by kind. The registry is immutable
// afterwards and safe for concurrent readers.
func Build(rows []Row) (*Registry, error) {
	if err := checkRows(rows); err != nil {
		return nil, err
	}

	r := &Registry{
		rows:   slices.Clone(rows),
		byKind: make(map[host.Kind][]Accessor),
	}
	for _, row := range rows {
		acc := NewAccessor(row.Field)
		if !slices.Contains(r.byKind[row.Kind], acc) {
			r.byKind[row.Kind] = append(r.byKind[row.Kind], acc)
		}
	}
	return r, nil
}

func checkRows(rows []Row) error {
	type key struct {
		kind  host.Kind
		capab host.Capability
	}
	seen := make(map[key]int, len(rows))
	var problems []string

	for i, row := range rows {
		switch {
		case !row.Kind.Valid():
			problems = append(problems, fmt.Sprintf("row %d: unknown kind %s", i, row.Kind))
			continue
		case row.Kind == host.KindEventTrigger:
			problems = append(problems, fmt.Sprintf("row %d: %s is located through %s, not the table", i, row.Kind, TriggerField))
			continue
		case !row.Capability.Valid():
			problems = append(problems, fmt.Sprintf("row %d: unknown capability %s", i, row.Capability))
			continue
		}

		if !row.Kind.Implements(row.Capability) {
			problems = append(problems, fmt.Sprintf("row %d: %s does not implement %s", i, row.Kind, row.Capability))
		}
		if !slices.Contains(layouts[row.Kind], row.Field) {
			problems = append(problems, fmt.Sprintf("row %d: %s has no field %q in layout %s", i, row.Kind, row.Field, LayoutVersion))
		}

		k := key{row.Kind, row.Capability}
		if prev, dup := seen[k]; dup {
			problems = append(problems, fmt.Sprintf("row %d: duplicate of row %d (%s, %s)", i, prev, row.Kind, row.Capability))
			continue
		}
		seen[k] = i
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrRegistry, strings.Join(problems, "; "))
	}
	return nil
}

// defaultRegistry is built during package initialization, so a broken
// built-in table panics before any query runs.
var defaultRegistry = mustBuild(defaultRows)

func mustBuild(rows []Row) *Registry {
	r, err := Build(rows)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the process-wide registry built from the built-in table
func Default() *Registry {
	return defaultRegistry
}

// Lookup returns the accessors registered for kind, de-duplicated by storage
// and in table order. Unregistered kinds yield an empty slice.
func (r *Registry) Lookup(kind host.Kind) []Accessor {
	return slices.Clone(r.byKind[kind])
}

// Rows returns a copy of the table
func (r *Registry) Rows() []Row {
	return slices.Clone(r.rows)
}

// Kinds lists the kinds that have at least one row, in kind order
func (r *Registry) Kinds() []host.Kind {
	var kinds []host.Kind
	for _, k := range host.AllKinds() {
		if len(r.byKind[k]) > 0 {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// LayoutError lists registered event paths missing from a component's
// serialized form.
type LayoutError struct {
	Component host.ObjectID
	Kind      host.Kind
	Missing   []serial.Path
}

func (e *LayoutError) Error() string {
	paths := make([]string, len(e.Missing))
	for i, p := range e.Missing {
		paths[i] = p.String()
	}
	return fmt.Sprintf("%v: %s %s is missing %s", ErrLayout, e.Kind, e.Component, strings.Join(paths, ", "))
}

func (e *LayoutError) Unwrap() error {
	return ErrLayout
}

// CheckComponent verifies that every event field registered for c's kind is
// present in its serialized form.
func (r *Registry) CheckComponent(c host.Component) error {
	if !host.IsAlive(c) {
		return nil
	}

	var paths []serial.Path
	if c.Kind() == host.KindEventTrigger {
		paths = append(paths, serial.Root().Field(TriggerField))
	} else {
		for _, acc := range r.byKind[c.Kind()] {
			paths = append(paths, acc.Path())
		}
	}
	if len(paths) == 0 {
		return nil
	}

	root := c.Serialized()
	var missing []serial.Path
	for _, p := range paths {
		if _, err := serial.Resolve(root, p); err != nil {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return &LayoutError{Component: c.ID(), Kind: c.Kind(), Missing: missing}
	}
	return nil
}
