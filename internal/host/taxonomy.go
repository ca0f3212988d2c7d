package host

import (
	"fmt"
	"strings"
)

// Kind is the runtime type of a component, as far as UI events are concerned
type Kind int

const (
	KindUnknown Kind = iota
	KindSelectable
	KindButton
	KindToggle
	KindSlider
	KindScrollbar
	KindScrollRect
	KindInputField
	KindDropdown
	KindEventTrigger
	KindEventHandler // user script declared as an event handler in config
)

var kindNames = map[Kind]string{
	KindUnknown:      "Unknown",
	KindSelectable:   "Selectable",
	KindButton:       "Button",
	KindToggle:       "Toggle",
	KindSlider:       "Slider",
	KindScrollbar:    "Scrollbar",
	KindScrollRect:   "ScrollRect",
	KindInputField:   "InputField",
	KindDropdown:     "Dropdown",
	KindEventTrigger: "EventTrigger",
	KindEventHandler: "EventHandler",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is a known, concrete kind
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok && k != KindUnknown
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown component kind: %q", s)
}

// AllKinds lists every known kind in declaration order
func AllKinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for k := KindUnknown; k <= KindEventHandler; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Capability is one member of the closed UI event-handler interface family
type Capability int

const (
	PointerEnter Capability = iota
	PointerExit
	PointerDown
	PointerUp
	PointerClick
	InitializePotentialDrag
	BeginDrag
	Drag
	EndDrag
	Drop
	Scroll
	UpdateSelected
	Select
	Deselect
	Move
	Submit
	Cancel

	capabilityCount
)

func (c Capability) String() string {
	switch c {
	case PointerEnter:
		return "IPointerEnterHandler"
	case PointerExit:
		return "IPointerExitHandler"
	case PointerDown:
		return "IPointerDownHandler"
	case PointerUp:
		return "IPointerUpHandler"
	case PointerClick:
		return "IPointerClickHandler"
	case InitializePotentialDrag:
		return "IInitializePotentialDragHandler"
	case BeginDrag:
		return "IBeginDragHandler"
	case Drag:
		return "IDragHandler"
	case EndDrag:
		return "IEndDragHandler"
	case Drop:
		return "IDropHandler"
	case Scroll:
		return "IScrollHandler"
	case UpdateSelected:
		return "IUpdateSelectedHandler"
	case Select:
		return "ISelectHandler"
	case Deselect:
		return "IDeselectHandler"
	case Move:
		return "IMoveHandler"
	case Submit:
		return "ISubmitHandler"
	case Cancel:
		return "ICancelHandler"
	default:
		return fmt.Sprintf("Capability(%d)", int(c))
	}
}

func (c Capability) Valid() bool {
	return c >= PointerEnter && c < capabilityCount
}

func AllCapabilities() []Capability {
	caps := make([]Capability, 0, int(capabilityCount))
	for c := PointerEnter; c < capabilityCount; c++ {
		caps = append(caps, c)
	}
	return caps
}

var selectableCapabilities = []Capability{
	Move, PointerDown, PointerUp, PointerEnter, PointerExit, Select, Deselect,
}

func withSelectable(extra ...Capability) []Capability {
	out := make([]Capability, 0, len(selectableCapabilities)+len(extra))
	out = append(out, selectableCapabilities...)
	return append(out, extra...)
}

var kindCapabilities = map[Kind][]Capability{
	KindSelectable:   withSelectable(),
	KindButton:       withSelectable(PointerClick, Submit),
	KindToggle:       withSelectable(PointerClick, Submit),
	KindSlider:       withSelectable(InitializePotentialDrag, Drag),
	KindScrollbar:    withSelectable(BeginDrag, Drag, InitializePotentialDrag),
	KindDropdown:     withSelectable(PointerClick, Submit, Cancel),
	KindInputField:   withSelectable(BeginDrag, Drag, EndDrag, PointerClick, Submit, UpdateSelected),
	KindScrollRect:   {InitializePotentialDrag, BeginDrag, EndDrag, Drag, Scroll},
	KindEventTrigger: AllCapabilities(),
	// declared handlers are opaque scripts; they are event-capable but
	// expose no known event storage
	KindEventHandler: {PointerClick},
}

// Capabilities returns the handler interfaces implemented by components of this kind
func (k Kind) Capabilities() []Capability {
	return kindCapabilities[k]
}

func (k Kind) Implements(c Capability) bool {
	for _, have := range kindCapabilities[k] {
		if have == c {
			return true
		}
	}
	return false
}

// IsEventCapable reports whether components of this kind raise UI events at all
func (k Kind) IsEventCapable() bool {
	return len(kindCapabilities[k]) > 0
}

// TriggerType is the event category of a trigger-list entry. Values match the
// serialized eventID.
type TriggerType int

const (
	TriggerPointerEnter TriggerType = iota
	TriggerPointerExit
	TriggerPointerDown
	TriggerPointerUp
	TriggerPointerClick
	TriggerDrag
	TriggerDrop
	TriggerScroll
	TriggerUpdateSelected
	TriggerSelect
	TriggerDeselect
	TriggerMove
	TriggerInitializePotentialDrag
	TriggerBeginDrag
	TriggerEndDrag
	TriggerSubmit
	TriggerCancel

	triggerTypeCount
)

var triggerNames = [...]string{
	"PointerEnter", "PointerExit", "PointerDown", "PointerUp", "PointerClick",
	"Drag", "Drop", "Scroll", "UpdateSelected", "Select", "Deselect", "Move",
	"InitializePotentialDrag", "BeginDrag", "EndDrag", "Submit", "Cancel",
}

func (t TriggerType) String() string {
	if t.Valid() {
		return triggerNames[t]
	}
	return fmt.Sprintf("TriggerType(%d)", int(t))
}

func (t TriggerType) Valid() bool {
	return t >= 0 && t < triggerTypeCount
}

// AllTriggerTypes enumerates trigger categories in serialized order
func AllTriggerTypes() []TriggerType {
	out := make([]TriggerType, 0, int(triggerTypeCount))
	for t := TriggerType(0); t < triggerTypeCount; t++ {
		out = append(out, t)
	}
	return out
}
