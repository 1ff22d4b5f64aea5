package otcodec

import (
	"fmt"
	"strings"
)

// Node is the codec capability every table or subtable type implements.
// Node types must be pointer types, as nodes are identified by address during
// resolution.
//
// Inline records (records without an offset of their own) are not nodes. Their
// fields are part of the enclosing node's shallow bytes, and their offset
// fields appear in the enclosing node's Children list, measured from the
// enclosing node's offset base.
type Node interface {
	// Size returns the number of bytes EncodeShallow will write.
	Size() int
	// EncodeShallow writes the node's own bytes, including offset fields,
	// but not the tables referenced by them.
	EncodeShallow(w *Writer) error
	// Children returns the node's offset fields in wire order. Null fields
	// are included.
	Children() []OffsetField
}

// Decoder is implemented by types which can read themselves from the
// cursor's current position. Offset fields are followed relative to the
// cursor's current origin.
//
// Some tables cannot be decoded without information from their parent (a
// count or a format stored in the referencing table). These are nodes, but
// not decoders, and are read with a decode function instead.
type Decoder interface {
	Decode(c *Cursor) error
}

// Table is a self-describing node.
type Table interface {
	Node
	Decoder
}

// Embedded is implemented by nodes which do not establish an offset base of
// their own. Offsets inside an embedded node are measured from the base of
// the node referencing it.
type Embedded interface {
	EmbeddedInParent()
}

// Named is an optional interface for nodes providing a display name used in
// diagnostics and error messages.
type Named interface {
	Name() string
}

// NameOf returns a display name for n.
func NameOf(n Node) string {
	if n == nil {
		return "<nil>"
	}
	if named, ok := n.(Named); ok {
		return named.Name()
	}
	s := fmt.Sprintf("%T", n)
	s = strings.TrimPrefix(s, "*")
	if i := strings.IndexByte(s, '['); i >= 0 { // instantiated generic type
		s = s[:i]
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

func isEmbedded(n Node) bool {
	_, ok := n.(Embedded)
	return ok
}

// ShallowBytes encodes a node without children, i.e. a node without any
// linked offset fields. It fails with OffsetNotResolved if n has a linked
// offset field.
func ShallowBytes(n Node) ([]byte, error) {
	w := NewWriter(n.Size())
	w.resolved = make(map[OffsetField]uint32)
	for _, f := range n.Children() {
		if f.Target() != nil {
			return nil, Errorf(OffsetNotResolved, -1, "%s has linked offsets", NameOf(n))
		}
		w.resolved[f] = 0
	}
	if err := n.EncodeShallow(w); err != nil {
		return nil, err
	}
	w.resolved = nil
	return w.Bytes(), nil
}
