package serial

import (
	"errors"
	"fmt"
)

var (
	ErrNotScalar   = errors.New("property is not a scalar")
	ErrNotRef      = errors.New("property is not an object reference")
	ErrInvalidLeaf = errors.New("invalid leaf value")
)

// Property is one node of an object's serialized form. Nodes are addressed
// by field name (mappings) or element index (sequences).
type Property interface {
	// FindChild returns the named field of a mapping node
	FindChild(name string) (Property, bool)

	// Index returns the i-th element of a sequence node
	Index(i int) (Property, bool)

	// Len is the element count for sequences, 0 for anything else
	Len() int

	IntValue() (int64, error)
	FloatValue() (float64, error)
	StringValue() (string, error)
	BoolValue() (bool, error)
	ObjectRefValue() (ObjectRef, error)
	EnumValueIndex() (int, error)

	// Path is the location of this node relative to its document root
	Path() Path
}

// ObjectRef is a raw serialized object reference, e.g. {fileID: 123, guid: ..., type: 3}.
// A zero FileID is the null reference.
type ObjectRef struct {
	FileID int64  `json:"fileID"`
	GUID   string `json:"guid,omitempty"`
	Type   int    `json:"type,omitempty"`
}

func (r ObjectRef) IsNull() bool {
	return r.FileID == 0
}

// IsLocal reports whether the reference points into the same file
func (r ObjectRef) IsLocal() bool {
	return r.GUID == ""
}

func (r ObjectRef) String() string {
	switch {
	case r.IsNull():
		return "None"
	case r.IsLocal():
		return fmt.Sprintf("&%d", r.FileID)
	default:
		return fmt.Sprintf("%s:%d", r.GUID, r.FileID)
	}
}

// Child is FindChild for a chain of field names.
func Child(p Property, names ...string) (Property, bool) {
	cur := p
	for _, name := range names {
		if cur == nil {
			return nil, false
		}
		next, ok := cur.FindChild(name)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}
