package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabhi256/evinspect/internal/host/hosttest"
	"github.com/mabhi256/evinspect/internal/serial"
)

const argumentCalls = `
m_Calls:
- m_Mode: 2
  m_Arguments:
    m_ObjectArgument: {fileID: 11400000, guid: 5f0bd7a3c0b14f3d8b1e2f4a6c7d8e9f, type: 2}
- m_Mode: 3
  m_Arguments:
    m_IntArgument: 42
- m_Mode: 4
  m_Arguments:
    m_FloatArgument: 0.5
- m_Mode: 5
  m_Arguments:
    m_StringArgument: open menu
- m_Mode: 6
  m_Arguments:
    m_BoolArgument: 1
- m_Mode: 1
- m_Mode: 0
- m_Mode: 9
  m_Arguments:
    m_IntArgument: 7
- m_Mode: 3
- m_Mode: 5
  m_Arguments:
    m_StringArgument:
`

func argumentFixture(t *testing.T) serial.Property {
	t.Helper()
	calls, ok := hosttest.MustParse(argumentCalls).FindChild("m_Calls")
	require.True(t, ok)
	return calls
}

func TestDecodeByMode(t *testing.T) {
	calls := argumentFixture(t)

	tests := []struct {
		name  string
		index int
		want  CallArgument
		text  string
	}{
		{
			name:  "object",
			index: 0,
			want: CallArgument{Kind: ArgObject, Object: serial.ObjectRef{
				FileID: 11400000, GUID: "5f0bd7a3c0b14f3d8b1e2f4a6c7d8e9f", Type: 2,
			}},
			text: "Object: 5f0bd7a3c0b14f3d8b1e2f4a6c7d8e9f:11400000",
		},
		{name: "int", index: 1, want: CallArgument{Kind: ArgInt, Int: 42}, text: "Int: 42"},
		{name: "float", index: 2, want: CallArgument{Kind: ArgFloat, Float: 0.5}, text: "Float: 0.5"},
		{name: "string", index: 3, want: CallArgument{Kind: ArgString, String: "open menu"}, text: "String: open menu"},
		{name: "bool", index: 4, want: CallArgument{Kind: ArgBool, Bool: true}, text: "Bool: true"},
		{name: "void without storage", index: 5, want: CallArgument{Kind: ArgNone}, text: "Void"},
		{name: "event defined", index: 6, want: CallArgument{Kind: ArgNone}, text: "Void"},
		{name: "empty string", index: 9, want: CallArgument{Kind: ArgString}, text: "String: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := ReadMode(calls, tt.index)
			require.NoError(t, err)

			got, err := Decode(mode, calls, tt.index)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, got.Text())
		})
	}
}

func TestDecodeUnknownMode(t *testing.T) {
	calls := argumentFixture(t)

	mode, err := ReadMode(calls, 7)
	require.NoError(t, err)
	assert.Equal(t, Mode(9), mode)

	_, err = Decode(mode, calls, 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownMode)

	var modeErr *UnknownModeError
	require.ErrorAs(t, err, &modeErr)
	assert.Equal(t, 7, modeErr.Index)
	assert.Equal(t, "/m_Calls/7", modeErr.Path.String())
}

func TestDecodeMissingStorage(t *testing.T) {
	calls := argumentFixture(t)

	_, err := Decode(ModeInt, calls, 8)
	assert.ErrorIs(t, err, ErrArgumentStorage)
	assert.NotErrorIs(t, err, ErrUnknownMode)

	_, err = ReadMode(calls, 42)
	assert.ErrorIs(t, err, ErrArgumentStorage)
}

func TestArgKindOfCollapsesVoid(t *testing.T) {
	for _, mode := range []Mode{ModeEventDefined, ModeVoid} {
		kind, err := ArgKindOf(mode)
		require.NoError(t, err)
		assert.Equal(t, ArgNone, kind, mode.String())
	}

	_, err := ArgKindOf(Mode(-1))
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestCallArgumentJSONRoundTrip(t *testing.T) {
	tests := []CallArgument{
		{Kind: ArgNone},
		{Kind: ArgInt, Int: 42},
		{Kind: ArgFloat, Float: 0.5},
		{Kind: ArgString, String: "again"},
		{Kind: ArgBool, Bool: true},
		{Kind: ArgObject, Object: serial.ObjectRef{FileID: 11400000, GUID: "5f0bd7a3c0b14f3d8b1e2f4a6c7d8e9f", Type: 2}},
	}
	for _, want := range tests {
		t.Run(want.Kind.String(), func(t *testing.T) {
			data, err := json.Marshal(want)
			require.NoError(t, err)

			var got CallArgument
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, want, got)
		})
	}

	data, err := json.Marshal(CallArgument{Kind: ArgInt, Int: 42})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"Int","int":42}`, string(data))
}

func TestArgKindRejectsUnknownNames(t *testing.T) {
	var arg CallArgument
	err := json.Unmarshal([]byte(`{"kind":"Vector3"}`), &arg)
	assert.ErrorContains(t, err, "unknown argument kind")

	var k ArgKind
	assert.Error(t, k.UnmarshalText([]byte("ArgKind(9)")))

	_, err = json.Marshal(ArgKind(9))
	assert.Error(t, err)
}
