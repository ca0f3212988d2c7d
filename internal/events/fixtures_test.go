package events

import (
	"github.com/mabhi256/evinspect/internal/host"
	"github.com/mabhi256/evinspect/internal/host/hosttest"
)

const buttonBody = `
m_Interactable: 1
m_OnClick:
  m_PersistentCalls:
    m_Calls:
    - m_Target: {fileID: 200}
      m_MethodName: OpenMenu
      m_Mode: 3
      m_Arguments:
        m_ObjectArgument: {fileID: 0}
        m_IntArgument: 42
        m_FloatArgument: 0
        m_StringArgument:
        m_BoolArgument: 0
      m_CallState: 2
    - m_Target: {fileID: 201}
      m_MethodName: PlaySound
      m_Mode: 1
      m_Arguments:
        m_ObjectArgument: {fileID: 0}
        m_IntArgument: 0
        m_FloatArgument: 0
        m_StringArgument:
        m_BoolArgument: 0
      m_CallState: 2
`

type buttonFixture struct {
	owner   *hosttest.GameObject
	button  *hosttest.Component
	menu    *hosttest.Component
	sound   *hosttest.Component
	onClick *hosttest.Event
}

func newButtonFixture() *buttonFixture {
	owner := &hosttest.GameObject{Object: hosttest.Object{ObjID: 100, ObjName: "PlayButton"}}
	target := &hosttest.GameObject{Object: hosttest.Object{ObjID: 150, ObjName: "MenuController"}}

	f := &buttonFixture{owner: owner}
	f.menu = hosttest.NewComponent(target, 200, host.KindUnknown, "")
	f.sound = hosttest.NewComponent(target, 201, host.KindUnknown, "")
	f.onClick = &hosttest.Event{Listeners: []hosttest.Listener{
		{Target: f.menu, Method: "OpenMenu"},
		{Target: f.sound, Method: "PlaySound"},
	}}
	f.button = hosttest.NewComponent(owner, 101, host.KindButton, buttonBody)
	f.button.Fields["m_OnClick"] = f.onClick
	return f
}

const triggerBody = `
m_Delegates:
- eventID: 0
  callback:
    m_PersistentCalls:
      m_Calls: []
- eventID: 2
  callback:
    m_PersistentCalls:
      m_Calls: []
- eventID: 0
  callback:
    m_PersistentCalls:
      m_Calls: []
- eventID: 4
  callback:
    m_PersistentCalls:
      m_Calls:
      - m_Target: {fileID: 300}
        m_MethodName: Hover
        m_Mode: 5
        m_Arguments:
          m_StringArgument: first
- eventID: 1
  callback:
    m_PersistentCalls:
      m_Calls: []
- eventID: 4
  callback:
    m_PersistentCalls:
      m_Calls:
      - m_Target: {fileID: 300}
        m_MethodName: Hover
        m_Mode: 5
        m_Arguments:
          m_StringArgument: second
`

func newTriggerFixture() (*hosttest.Component, *hosttest.Component) {
	owner := &hosttest.GameObject{Object: hosttest.Object{ObjID: 400, ObjName: "Icon"}}
	handler := hosttest.NewComponent(owner, 300, host.KindUnknown, "")

	trigger := hosttest.NewComponent(owner, 401, host.KindEventTrigger, triggerBody)
	empty := func() host.Event { return &hosttest.Event{} }
	hover := func() host.Event {
		return &hosttest.Event{Listeners: []hosttest.Listener{{Target: handler, Method: "Hover"}}}
	}
	trigger.Fields[TriggerField] = []host.TriggerEntry{
		{EventID: host.TriggerPointerEnter, Callback: empty()},
		{EventID: host.TriggerPointerDown, Callback: empty()},
		{EventID: host.TriggerPointerEnter, Callback: empty()},
		{EventID: host.TriggerPointerClick, Callback: hover()},
		{EventID: host.TriggerPointerExit, Callback: empty()},
		{EventID: host.TriggerPointerClick, Callback: hover()},
	}
	return trigger, handler
}
