package serial

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/qri-io/jsonpointer"
)

var ErrPathNotFound = errors.New("serialized path not found")

// Path addresses a node inside a serialized document as an RFC 6901 pointer,
// e.g. /m_Delegates/3/callback.
type Path struct {
	ptr jsonpointer.Pointer
}

// Root is the empty path (the document root).
func Root() Path {
	return Path{ptr: jsonpointer.NewPointer()}
}

func ParsePath(s string) (Path, error) {
	ptr, err := jsonpointer.Parse(s)
	if err != nil {
		return Path{}, fmt.Errorf("invalid serialized path %q: %w", s, err)
	}
	return Path{ptr: ptr}, nil
}

// MustParsePath panics on malformed input. Meant for static tables.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Field returns a new path extended by a field-name segment
func (p Path) Field(name string) Path {
	return Path{ptr: p.clone().RawDescendant(name)}
}

// Elem returns a new path extended by an array-index segment
func (p Path) Elem(i int) Path {
	return Path{ptr: p.clone().RawDescendant(strconv.Itoa(i))}
}

func (p Path) Segments() []string {
	return []string(p.clone())
}

func (p Path) IsRoot() bool {
	return p.ptr.IsEmpty()
}

func (p Path) String() string {
	if p.ptr.IsEmpty() {
		return "/"
	}
	return p.ptr.String()
}

func (p Path) Equal(o Path) bool {
	return p.String() == o.String()
}

// clone copies the segment slice so that descendants never share backing arrays
func (p Path) clone() jsonpointer.Pointer {
	out := make(jsonpointer.Pointer, len(p.ptr))
	copy(out, p.ptr)
	return out
}

// Resolve walks p from root. Integer segments index into sequences, every
// other segment is a field lookup.
func Resolve(root Property, p Path) (Property, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: %s (nil root)", ErrPathNotFound, p)
	}

	cur := root
	walked := Root()
	for _, seg := range p.ptr {
		var (
			next Property
			ok   bool
		)
		if i, err := strconv.Atoi(seg); err == nil && cur.Len() > 0 {
			next, ok = cur.Index(i)
			walked = walked.Elem(i)
		} else {
			next, ok = cur.FindChild(seg)
			walked = walked.Field(seg)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s (stopped at %s)", ErrPathNotFound, p, walked)
		}
		cur = next
	}
	return cur, nil
}
