package events

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mabhi256/evinspect/internal/serial"
)

// Mode is a listener's declared argument mode, as stored in m_Mode
type Mode int

const (
	ModeEventDefined Mode = iota
	ModeVoid
	ModeObject
	ModeInt
	ModeFloat
	ModeString
	ModeBool
)

func (m Mode) String() string {
	switch m {
	case ModeEventDefined:
		return "EventDefined"
	case ModeVoid:
		return "Void"
	case ModeObject:
		return "Object"
	case ModeInt:
		return "Int"
	case ModeFloat:
		return "Float"
	case ModeString:
		return "String"
	case ModeBool:
		return "Bool"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ArgKind tags which CallArgument field carries the value
type ArgKind int

const (
	ArgNone ArgKind = iota
	ArgObject
	ArgInt
	ArgFloat
	ArgString
	ArgBool
)

func (k ArgKind) String() string {
	switch k {
	case ArgNone:
		return "None"
	case ArgObject:
		return "Object"
	case ArgInt:
		return "Int"
	case ArgFloat:
		return "Float"
	case ArgString:
		return "String"
	case ArgBool:
		return "Bool"
	default:
		return fmt.Sprintf("ArgKind(%d)", int(k))
	}
}

// ParseArgKind is the inverse of ArgKind.String. Names outside the six
// kinds are rejected.
func ParseArgKind(s string) (ArgKind, error) {
	for _, k := range []ArgKind{ArgNone, ArgObject, ArgInt, ArgFloat, ArgString, ArgBool} {
		if k.String() == s {
			return k, nil
		}
	}
	return ArgNone, fmt.Errorf("unknown argument kind: %q", s)
}

func (k ArgKind) MarshalText() ([]byte, error) {
	if _, err := ParseArgKind(k.String()); err != nil {
		return nil, err
	}
	return []byte(k.String()), nil
}

func (k *ArgKind) UnmarshalText(text []byte) error {
	parsed, err := ParseArgKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// serialized argument storage field per kind
const (
	argumentsField  = "m_Arguments"
	modeField       = "m_Mode"
	objectArgField  = "m_ObjectArgument"
	intArgField     = "m_IntArgument"
	floatArgField   = "m_FloatArgument"
	stringArgField  = "m_StringArgument"
	boolArgField    = "m_BoolArgument"
	persistentField = "m_PersistentCalls"
	callsField      = "m_Calls"
)

var (
	ErrUnknownMode       = errors.New("unrecognized listener argument mode")
	ErrArgumentStorage   = errors.New("listener argument storage unreadable")
	errArgumentsNotFound = fmt.Errorf("%w: missing %s", ErrArgumentStorage, argumentsField)
)

// UnknownModeError means the decoder's case set is out of sync with the
// serialized encoding. It is never recovered from.
type UnknownModeError struct {
	Mode  Mode
	Index int
	Path  serial.Path
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("%v %d for listener %d at %s", ErrUnknownMode, int(e.Mode), e.Index, e.Path)
}

func (e *UnknownModeError) Unwrap() error {
	return ErrUnknownMode
}

// CallArgument is the value a persistent listener is invoked with. Only the
// field selected by Kind is meaningful.
type CallArgument struct {
	Kind   ArgKind          `json:"kind"`
	Object serial.ObjectRef `json:"object,omitzero"`
	Int    int64            `json:"int,omitempty"`
	Float  float64          `json:"float,omitempty"`
	String string           `json:"string,omitempty"`
	Bool   bool             `json:"bool,omitempty"`
}

// Text renders the argument the way it is shown in tooltips
func (a CallArgument) Text() string {
	switch a.Kind {
	case ArgNone:
		return "Void"
	case ArgObject:
		return "Object: " + a.Object.String()
	case ArgInt:
		return "Int: " + strconv.FormatInt(a.Int, 10)
	case ArgFloat:
		return "Float: " + strconv.FormatFloat(a.Float, 'g', -1, 64)
	case ArgString:
		return "String: " + a.String
	case ArgBool:
		return "Bool: " + strconv.FormatBool(a.Bool)
	default:
		return fmt.Sprintf("invalid argument (%s)", a.Kind)
	}
}

// ArgKindOf maps a declared mode onto the six-case argument tag. Void and
// EventDefined both collapse to ArgNone.
func ArgKindOf(mode Mode) (ArgKind, error) {
	switch mode {
	case ModeEventDefined, ModeVoid:
		return ArgNone, nil
	case ModeObject:
		return ArgObject, nil
	case ModeInt:
		return ArgInt, nil
	case ModeFloat:
		return ArgFloat, nil
	case ModeString:
		return ArgString, nil
	case ModeBool:
		return ArgBool, nil
	default:
		return ArgNone, &UnknownModeError{Mode: mode, Index: -1}
	}
}

// ReadMode reads the declared argument mode of the index-th call
func ReadMode(calls serial.Property, index int) (Mode, error) {
	call, ok := calls.Index(index)
	if !ok {
		return 0, fmt.Errorf("%w: no call %d at %s", ErrArgumentStorage, index, calls.Path())
	}
	prop, ok := call.FindChild(modeField)
	if !ok {
		return 0, fmt.Errorf("%w: missing %s at %s", ErrArgumentStorage, modeField, call.Path())
	}
	v, err := prop.EnumValueIndex()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrArgumentStorage, err)
	}
	return Mode(v), nil
}

// Decode reads the argument of the index-th persistent call from its
// serialized storage. calls is the m_Calls sequence.
func Decode(mode Mode, calls serial.Property, index int) (CallArgument, error) {
	kind, err := ArgKindOf(mode)
	if err != nil {
		return CallArgument{}, &UnknownModeError{Mode: mode, Index: index, Path: calls.Path().Elem(index)}
	}

	arg := CallArgument{Kind: kind}
	if kind == ArgNone {
		return arg, nil
	}

	call, ok := calls.Index(index)
	if !ok {
		return CallArgument{}, fmt.Errorf("%w: no call %d at %s", ErrArgumentStorage, index, calls.Path())
	}
	args, ok := call.FindChild(argumentsField)
	if !ok {
		return CallArgument{}, fmt.Errorf("%w at %s", errArgumentsNotFound, call.Path())
	}

	switch kind {
	case ArgObject:
		// kept raw: the bound parameter's static type is not known here
		leaf, err := leafOf(args, objectArgField)
		if err == nil {
			arg.Object, err = leaf.ObjectRefValue()
		}
		if err != nil {
			return CallArgument{}, err
		}
	case ArgInt:
		leaf, err := leafOf(args, intArgField)
		if err == nil {
			arg.Int, err = leaf.IntValue()
		}
		if err != nil {
			return CallArgument{}, err
		}
	case ArgFloat:
		leaf, err := leafOf(args, floatArgField)
		if err == nil {
			arg.Float, err = leaf.FloatValue()
		}
		if err != nil {
			return CallArgument{}, err
		}
	case ArgString:
		leaf, err := leafOf(args, stringArgField)
		if err == nil {
			arg.String, err = leaf.StringValue()
		}
		if err != nil {
			return CallArgument{}, err
		}
	case ArgBool:
		leaf, err := leafOf(args, boolArgField)
		if err == nil {
			arg.Bool, err = leaf.BoolValue()
		}
		if err != nil {
			return CallArgument{}, err
		}
	}

	return arg, nil
}

func leafOf(args serial.Property, field string) (serial.Property, error) {
	leaf, ok := args.FindChild(field)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s at %s", ErrArgumentStorage, field, args.Path())
	}
	return leaf, nil
}
