package scene

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabhi256/evinspect/internal/events"
	"github.com/mabhi256/evinspect/internal/host"
)

const (
	menuScene   = "testdata/Assets/Scenes/Menu.unity"
	popupPrefab = "testdata/Assets/Prefabs/Popup.prefab"
)

var testScripts = map[string]host.Kind{
	"4e29b1a8efbd4b44bb3f3716e73f07ff": host.KindButton,
	"9085046f02f69544eb97fd06b6048fe2": host.KindToggle,
	"67db9e8f0e2ae9c40bc1e2b64352a6b4": host.KindSlider,
	"d0b148fe25e99eb48b9724523833bab1": host.KindEventTrigger,
}

func loadMenu(t *testing.T, assets *AssetIndex) *Universe {
	t.Helper()
	u, err := Load(menuScene, Options{Scripts: testScripts, Assets: assets})
	require.NoError(t, err)
	return u
}

func component(t *testing.T, u *Universe, id host.ObjectID) *Component {
	t.Helper()
	o, ok := u.Lookup(id)
	require.True(t, ok, "object %s", id)
	c, ok := o.(*Component)
	require.True(t, ok, "object %s is %T", id, o)
	return c
}

func TestLoadHierarchy(t *testing.T) {
	u := loadMenu(t, nil)

	roots := u.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, "Canvas", roots[0].Name())
	assert.Equal(t, "Volume", roots[1].Name())

	canvas := roots[0]
	require.Len(t, canvas.Children(), 2)
	assert.Equal(t, "PlayButton", canvas.Children()[0].Name())
	assert.Equal(t, "Menu", canvas.Children()[1].Name())
	assert.False(t, canvas.Children()[1].Active())

	play := canvas.Children()[0].(*GameObject)
	assert.Equal(t, "Canvas/PlayButton", play.HierarchyPath())
	require.Len(t, play.Components(), 3)
	assert.Equal(t, host.KindButton, play.Components()[1].Kind())
	assert.Equal(t, host.KindEventTrigger, play.Components()[2].Kind())

	stats := u.Statistics()
	assert.Equal(t, 1, stats.Details["prefab_instances"])
	assert.Equal(t, 1, stats.Details["stripped"])
	assert.Equal(t, 4, stats.Details["game_objects"])
}

func TestLoadKindsAndTemplates(t *testing.T) {
	u := loadMenu(t, nil)

	button := component(t, u, 202)
	assert.Equal(t, host.KindButton, button.Kind())
	assert.Equal(t, "PlayButton", button.Name())
	assert.Equal(t, "Button", button.ScriptName())
	assert.False(t, button.IsTemplate())

	script := component(t, u, 302)
	assert.Equal(t, host.KindUnknown, script.Kind())
	assert.Equal(t, "Menu", script.Name())

	stripped := component(t, u, 501)
	assert.True(t, stripped.IsTemplate())

	var ids []host.ObjectID
	for _, c := range host.EventComponents(u, false) {
		ids = append(ids, c.ID())
	}
	assert.Equal(t, []host.ObjectID{202, 203, 402}, ids)
}

func TestLiveEventsResolveTargets(t *testing.T) {
	assets, err := IndexAssets(context.Background(), "testdata")
	require.NoError(t, err)
	u := loadMenu(t, assets)

	button := component(t, u, 202)
	v, ok := button.Field("m_OnClick")
	require.True(t, ok)
	ev := v.(host.Event)
	require.Equal(t, 3, ev.PersistentEventCount())

	assert.Same(t, component(t, u, 302), ev.PersistentTarget(0))
	assert.Equal(t, "OpenMenu", ev.PersistentMethodName(0))
	assert.Nil(t, ev.PersistentTarget(1), "dangling local reference")

	ext, ok := ev.PersistentTarget(2).(*ExternalObject)
	require.True(t, ok)
	assert.Equal(t, "Assets/Scripts/ClickSound.asset", ext.Name())
	assert.True(t, host.IsAlive(ext))

	_, ok = button.Field("m_Interactable")
	assert.False(t, ok)
	_, ok = button.Field("m_Missing")
	assert.False(t, ok)

	assert.Equal(t, "MenuController", component(t, u, 302).ScriptName())
	p, ok := component(t, u, 302).ScriptPath()
	require.True(t, ok)
	assert.Equal(t, "Assets/Scripts/MenuController.cs", p)
}

func TestLoadedComponentsThroughEvents(t *testing.T) {
	u := loadMenu(t, nil)
	reg := events.Default()

	refs := events.GetEventRefs(reg, component(t, u, 202))
	require.Len(t, refs, 1)

	records, err := events.GetListeners(refs[0])
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "OpenMenu", records[0].Method)
	assert.Equal(t, events.CallArgument{Kind: events.ArgInt, Int: 42}, records[0].Argument)
	assert.Equal(t, "Play", records[1].Method)
	assert.Equal(t, "click", records[1].Argument.String)

	trig := events.GetEventRefs(reg, component(t, u, 203))
	require.Len(t, trig, 2)
	assert.Equal(t, "Event 1: PointerEnter", trig[0].Name)
	assert.Equal(t, "Event 0: PointerClick", trig[1].Name)

	records, err = events.GetListeners(trig[1])
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Argument.Bool)
}

func TestLayoutProblems(t *testing.T) {
	u := loadMenu(t, nil)

	// the slider serializes no m_OnValueChanged
	require.Len(t, u.Problems(), 1)
	p := u.Problems()[0]
	assert.Equal(t, host.ObjectID(402), p.Object)
	assert.ErrorIs(t, p.Err, events.ErrLayout)
}

func TestLoadFilesMergesInOrder(t *testing.T) {
	u, err := LoadFiles(context.Background(), []string{menuScene, popupPrefab}, Options{Scripts: testScripts})
	require.NoError(t, err)
	require.Len(t, u.Files(), 2)
	assert.False(t, u.Files()[0].Template)
	assert.True(t, u.Files()[1].Template)

	toggle := component(t, u, 902)
	assert.Equal(t, host.KindToggle, toggle.Kind())
	assert.True(t, toggle.IsTemplate())

	for _, c := range host.EventComponents(u, false) {
		assert.NotEqual(t, host.ObjectID(902), c.ID())
	}
	assert.False(t, u.TemplatesOnly())
}

func TestLoadPrefabOnly(t *testing.T) {
	u, err := Load(popupPrefab, Options{Scripts: testScripts})
	require.NoError(t, err)
	assert.True(t, u.TemplatesOnly())
	assert.Empty(t, host.EventComponents(u, false))

	all := host.EventComponents(u, true)
	require.Len(t, all, 1)
	assert.Equal(t, host.ObjectID(902), all[0].ID())

	root, ok := u.Lookup(900)
	require.True(t, ok)
	inChildren := host.ComponentsInChildren(root.(host.GameObject))
	require.Len(t, inChildren, 1)
	assert.Equal(t, host.ObjectID(902), inChildren[0].ID())

	v, ok := component(t, u, 902).Field("onValueChanged")
	require.True(t, ok)
	ev := v.(host.Event)
	require.Equal(t, 1, ev.PersistentEventCount())
	assert.Equal(t, "SetMuted", ev.PersistentMethodName(0))
	assert.Equal(t, host.ObjectID(903), ev.PersistentTarget(0).ID())
}

func TestLoadRejectsBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Binary.unity")
	require.NoError(t, os.WriteFile(path, []byte{0, 0, 0, 1, 2}, 0o644))

	_, err := Load(path, Options{})
	assert.ErrorIs(t, err, ErrNotSerialized)

	_, err = Load(filepath.Join(t.TempDir(), "missing.unity"), Options{})
	assert.Error(t, err)
}

func TestIndexAssets(t *testing.T) {
	idx, err := IndexAssets(context.Background(), "testdata")
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Len())
	name, ok := idx.Name("0A1B2C3D4E5F60718293A4B5C6D7E8F9")
	require.True(t, ok)
	assert.Equal(t, "MenuController", name)

	_, ok = idx.Path("ffffffffffffffffffffffffffffffff")
	assert.False(t, ok, "Library is skipped")

	var nilIdx *AssetIndex
	_, ok = nilIdx.Path("0a1b2c3d4e5f60718293a4b5c6d7e8f9")
	assert.False(t, ok)
}

func TestFindScenes(t *testing.T) {
	scenes, err := FindScenes("testdata")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "Assets", "Prefabs", "Popup.prefab"),
		filepath.Join("testdata", "Assets", "Scenes", "Menu.unity"),
	}, scenes)
}
