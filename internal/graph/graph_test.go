package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabhi256/evinspect/internal/events"
	"github.com/mabhi256/evinspect/internal/host"
	"github.com/mabhi256/evinspect/internal/host/hosttest"
)

const clickBody = `
m_OnClick:
  m_PersistentCalls:
    m_Calls:
    - m_Mode: 3
      m_Arguments:
        m_IntArgument: 42
    - m_Mode: 1
    - m_Mode: 5
      m_Arguments:
        m_StringArgument: again
`

const sliderBody = `
m_OnValueChanged:
  m_PersistentCalls:
    m_Calls:
    - m_Mode: 4
      m_Arguments:
        m_FloatArgument: 0.5
`

type sceneFixture struct {
	universe *hosttest.Universe
	canvas   *hosttest.GameObject
	panel    *hosttest.GameObject
	button   *hosttest.Component
	slider   *hosttest.Component
	template *hosttest.Component
	handler  *hosttest.Component
	ghost    *hosttest.Component
}

func newSceneFixture() *sceneFixture {
	f := &sceneFixture{}
	f.canvas = &hosttest.GameObject{Object: hosttest.Object{ObjID: 1, ObjName: "Canvas"}}
	f.panel = &hosttest.GameObject{Object: hosttest.Object{ObjID: 2, ObjName: "Panel"}}
	f.canvas.Kids = append(f.canvas.Kids, f.panel)
	controller := &hosttest.GameObject{Object: hosttest.Object{ObjID: 3, ObjName: "Controller"}}
	prefab := &hosttest.GameObject{Object: hosttest.Object{ObjID: 4, ObjName: "PrefabButton"}, Template: true}

	f.handler = hosttest.NewComponent(controller, 30, host.KindUnknown, "")
	f.ghost = hosttest.NewComponent(controller, 31, host.KindUnknown, "")
	f.ghost.Destroy()

	f.button = hosttest.NewComponent(f.canvas, 10, host.KindButton, clickBody)
	f.button.Fields["m_OnClick"] = &hosttest.Event{Listeners: []hosttest.Listener{
		{Target: f.handler, Method: "Play"},
		{Target: f.ghost, Method: "Vanished"},
		{Target: f.handler, Method: "PlayAgain"},
	}}

	// live table has one more entry than the serialized one
	f.slider = hosttest.NewComponent(f.panel, 20, host.KindSlider, sliderBody)
	f.slider.Fields["m_OnValueChanged"] = &hosttest.Event{Listeners: []hosttest.Listener{
		{Target: f.handler, Method: "SetVolume"},
		{Target: f.handler, Method: "Extra"},
	}}

	f.template = hosttest.NewComponent(prefab, 40, host.KindButton, clickBody)
	f.template.Template = true

	f.universe = hosttest.NewUniverse(
		f.canvas, f.panel, controller, prefab,
		f.button, f.slider, f.template, f.handler, f.ghost,
	)
	return f
}

func (f *sceneFixture) adapter() *Adapter {
	return NewAdapter(f.universe, events.Default())
}

func TestSeeds(t *testing.T) {
	f := newSceneFixture()
	a := f.adapter()

	seeds := a.Seeds(Scene)
	require.Len(t, seeds, 1)
	assert.Equal(t, SceneID, seeds[0].ID)

	ids := func(nodes []*Node) []string {
		var out []string
		for _, n := range nodes {
			out = append(out, n.ID)
		}
		return out
	}
	assert.Equal(t, []string{"c:10", "c:20"}, ids(a.Seeds(f.canvas)))
	assert.Equal(t, []string{"c:20"}, ids(a.Seeds(host.Component(f.slider))))
	assert.Empty(t, a.Seeds(host.Component(f.handler)))
	assert.Empty(t, a.Seeds("not a target"))
}

func TestGameObjectSeedsKeepTemplates(t *testing.T) {
	f := newSceneFixture()
	seeds := f.adapter().Seeds(f.template.GameObject())
	require.Len(t, seeds, 1)
	assert.Equal(t, "c:40", seeds[0].ID)
}

func TestGameObjectSeedsSkipInactive(t *testing.T) {
	f := newSceneFixture()
	f.panel.Inactive = true

	seeds := f.adapter().Seeds(f.canvas)
	require.Len(t, seeds, 1)
	assert.Equal(t, "c:10", seeds[0].ID)
	assert.Empty(t, f.adapter().Seeds(f.panel))

	// the scene node still reaches components on inactive objects
	rels, _, err := f.adapter().Relations(sceneNode())
	require.NoError(t, err)
	assert.Len(t, rels, 2)
}

func TestSceneRelationsIncludeTemplatesWhenAsked(t *testing.T) {
	f := newSceneFixture()
	a := f.adapter()
	a.IncludeTemplates = true

	rels, _, err := a.Relations(sceneNode())
	require.NoError(t, err)
	require.Len(t, rels, 3)
	assert.Equal(t, "c:40", rels[2].Child.ID)
}

func TestSceneRelationsExcludeTemplates(t *testing.T) {
	f := newSceneFixture()
	rels, warnings, err := f.adapter().Relations(sceneNode())
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, rels, 2)
	assert.Equal(t, "c:10", rels[0].Child.ID)
	assert.Equal(t, "c:20", rels[1].Child.ID)
	assert.Equal(t, "", rels[0].Label)
}

func TestComponentRelations(t *testing.T) {
	f := newSceneFixture()
	rels, warnings, err := f.adapter().Relations(componentNode(f.button))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, rels, 2)
	assert.Equal(t, "m_OnClick", rels[0].Label)
	assert.Equal(t, "Play", rels[0].Child.Listener.Method)
	assert.Equal(t, "PlayAgain", rels[1].Child.Listener.Method)
	assert.Equal(t, "l:10:m_OnClick:2", rels[1].Child.ID)
}

func TestBuildScene(t *testing.T) {
	f := newSceneFixture()
	g, err := NewBuilder(f.adapter()).Build(Scene)
	require.NoError(t, err)

	assert.Equal(t, []string{SceneID}, g.Seeds)
	// scene, two components, two button listeners, one aligned slider listener
	assert.Len(t, g.Nodes, 6)
	assert.Len(t, g.Edges, 5)

	require.Len(t, g.Warnings, 1)
	assert.Equal(t, "c:20", g.Warnings[0].Node)
	assert.ErrorIs(t, g.Warnings[0].Err, events.ErrCountMismatch)

	assert.Equal(t, 2, g.Stats.Components)
	assert.Equal(t, 3, g.Stats.Listeners)
	assert.Equal(t, 2, g.Stats.Events)
	assert.Equal(t, []EventCount{
		{Node: "c:10", Event: "m_OnClick", Listeners: 2},
		{Node: "c:20", Event: "m_OnValueChanged", Listeners: 1},
	}, g.Stats.PerEvent)
	assert.Equal(t, 1, g.Stats.ArgumentKind[events.ArgInt])
	assert.Equal(t, 1, g.Stats.ArgumentKind[events.ArgString])
	assert.Equal(t, 1, g.Stats.ArgumentKind[events.ArgFloat])
	assert.Zero(t, g.Stats.Dangling)

	n, ok := g.Node("l:20:m_OnValueChanged:0")
	require.True(t, ok)
	assert.Equal(t, "SetVolume", n.Listener.Method)
	assert.Len(t, g.Children(SceneID), 2)
}

func TestBuildEmptyScene(t *testing.T) {
	u := hosttest.NewUniverse()
	g, err := NewBuilder(NewAdapter(u, nil)).Build(Scene)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 1)
	assert.Empty(t, g.Edges)
	assert.Empty(t, g.Children(SceneID))
}

func TestBuildEmptyTarget(t *testing.T) {
	f := newSceneFixture()
	_, err := NewBuilder(f.adapter()).Build(host.Component(f.handler))
	assert.ErrorIs(t, err, ErrEmptyTarget)
}

func TestBuildAbortsOnUnknownMode(t *testing.T) {
	f := newSceneFixture()
	broken := hosttest.NewComponent(f.panel, 50, host.KindToggle, `
onValueChanged:
  m_PersistentCalls:
    m_Calls:
    - m_Mode: 17
`)
	broken.Fields["onValueChanged"] = &hosttest.Event{Listeners: []hosttest.Listener{{Target: f.handler, Method: "Toggle"}}}
	f.universe.Add(broken)

	_, err := NewBuilder(f.adapter()).Build(Scene)
	require.Error(t, err)
	assert.ErrorIs(t, err, events.ErrUnknownMode)
	assert.Contains(t, err.Error(), "relation expansion")
}

func TestLabelsAndTooltips(t *testing.T) {
	f := newSceneFixture()
	g, err := NewBuilder(f.adapter()).Build(host.Component(f.button))
	require.NoError(t, err)

	button, _ := g.Node("c:10")
	assert.Equal(t, "Canvas (Button)", Label(button))
	assert.Equal(t, "Canvas", Tooltip(button))

	listener, _ := g.Node("l:10:m_OnClick:0")
	assert.Equal(t, "Controller.Play (Unknown)", Label(listener))
	assert.Equal(t, "Target: Controller\nMethod: Play\nArgument: Int: 42", Tooltip(listener))

	assert.Equal(t, "Scene", Label(sceneNode()))
	assert.Equal(t, "Scene", Tooltip(sceneNode()))
}
