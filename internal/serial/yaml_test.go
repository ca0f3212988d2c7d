package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buttonBody = `
MonoBehaviour:
  m_Name:
  m_Interactable: 1
  m_OnClick:
    m_PersistentCalls:
      m_Calls:
      - m_Target: {fileID: 42}
        m_MethodName: OnClick
        m_Mode: 3
        m_Arguments:
          m_ObjectArgument: {fileID: 0}
          m_IntArgument: 42
          m_FloatArgument: 0.25
          m_StringArgument: hello world
          m_BoolArgument: 1
      - m_Target: {fileID: 11500000, guid: 0123456789abcdef0123456789abcdef, type: 3}
        m_MethodName: Other
        m_Mode: 1
        m_Arguments:
          m_StringArgument:
`

func parseButton(t *testing.T) Property {
	t.Helper()
	root, err := Parse([]byte(buttonBody))
	require.NoError(t, err)
	body, ok := root.FindChild("MonoBehaviour")
	require.True(t, ok)
	return body
}

func TestFindChildAndIndex(t *testing.T) {
	body := parseButton(t)

	calls, ok := Child(body, "m_OnClick", "m_PersistentCalls", "m_Calls")
	require.True(t, ok)
	assert.Equal(t, 2, calls.Len())

	first, ok := calls.Index(0)
	require.True(t, ok)
	assert.Equal(t, "/MonoBehaviour/m_OnClick/m_PersistentCalls/m_Calls/0", first.Path().String())

	_, ok = calls.Index(2)
	assert.False(t, ok)
	_, ok = calls.Index(-1)
	assert.False(t, ok)
	_, ok = body.FindChild("m_Missing")
	assert.False(t, ok)
}

func TestLeafReads(t *testing.T) {
	body := parseButton(t)
	args, err := Resolve(body, MustParsePath("/m_OnClick/m_PersistentCalls/m_Calls/0/m_Arguments"))
	require.NoError(t, err)

	intArg, _ := args.FindChild("m_IntArgument")
	i, err := intArg.IntValue()
	require.NoError(t, err)
	assert.Equal(t, int64(42), i)

	floatArg, _ := args.FindChild("m_FloatArgument")
	f, err := floatArg.FloatValue()
	require.NoError(t, err)
	assert.InDelta(t, 0.25, f, 1e-9)

	strArg, _ := args.FindChild("m_StringArgument")
	s, err := strArg.StringValue()
	require.NoError(t, err)
	assert.Equal(t, "hello world", s)

	boolArg, _ := args.FindChild("m_BoolArgument")
	b, err := boolArg.BoolValue()
	require.NoError(t, err)
	assert.True(t, b)

	objArg, _ := args.FindChild("m_ObjectArgument")
	ref, err := objArg.ObjectRefValue()
	require.NoError(t, err)
	assert.True(t, ref.IsNull())

	_, err = args.IntValue()
	assert.ErrorIs(t, err, ErrNotScalar)
}

func TestExternalObjectRef(t *testing.T) {
	body := parseButton(t)
	target, err := Resolve(body, MustParsePath("/m_OnClick/m_PersistentCalls/m_Calls/1/m_Target"))
	require.NoError(t, err)

	ref, err := target.ObjectRefValue()
	require.NoError(t, err)
	assert.False(t, ref.IsLocal())
	assert.Equal(t, int64(11500000), ref.FileID)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", ref.GUID)
	assert.Equal(t, 3, ref.Type)
}

func TestEmptyStringArgument(t *testing.T) {
	body := parseButton(t)
	arg, err := Resolve(body, MustParsePath("/m_OnClick/m_PersistentCalls/m_Calls/1/m_Arguments/m_StringArgument"))
	require.NoError(t, err)

	s, err := arg.StringValue()
	require.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestResolveNotFound(t *testing.T) {
	body := parseButton(t)
	_, err := Resolve(body, MustParsePath("/m_OnClick/m_PersistentCalls/m_Calls/5"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPathNotFound)
	assert.Contains(t, err.Error(), "/m_OnClick/m_PersistentCalls/m_Calls/5")
}

func TestPathBuilders(t *testing.T) {
	base := Root().Field("m_Delegates")
	a := base.Elem(3).Field("callback")
	b := base.Elem(5).Field("callback")

	assert.Equal(t, "/m_Delegates/3/callback", a.String())
	assert.Equal(t, "/m_Delegates/5/callback", b.String())
	assert.Equal(t, "/m_Delegates", base.String())
	assert.Equal(t, "/", Root().String())
	assert.True(t, Root().IsRoot())

	parsed, err := ParsePath("/m_Delegates/3/callback")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(a))
	assert.Equal(t, []string{"m_Delegates", "3", "callback"}, parsed.Segments())
}

func TestBoolEncodings(t *testing.T) {
	root, err := Parse([]byte("a: 0\nb: true\nc: 2\n"))
	require.NoError(t, err)

	a, _ := root.FindChild("a")
	v, err := a.BoolValue()
	require.NoError(t, err)
	assert.False(t, v)

	b, _ := root.FindChild("b")
	v, err = b.BoolValue()
	require.NoError(t, err)
	assert.True(t, v)

	c, _ := root.FindChild("c")
	_, err = c.BoolValue()
	assert.ErrorIs(t, err, ErrInvalidLeaf)
}
