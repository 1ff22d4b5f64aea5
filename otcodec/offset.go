package otcodec

// OffsetField is the type-erased view of an offset field, as consumed by the
// resolver and by graph walkers.
type OffsetField interface {
	// Width returns the width of the field in bytes, 2 or 4.
	Width() int
	// Target returns the referenced node, or nil for a null offset.
	Target() Node
}

type linkState uint8

const (
	untouched linkState = iota
	null
	linked
)

// Offset16 is a 16-bit offset field referencing a child node of type T.
//
// The zero value is an untouched field. Null16 creates a field explicitly
// pointing to nothing, which is what decoding a zero offset produces.
// Untouched and null fields are both written as 0, but they are different Go
// values: a table built with untouched fields is not reflect.DeepEqual to its
// decoded copy. Build tables with Null16 for absent children if they are
// compared structurally, or compare them with Equivalent.
// The numeric value of an offset is never stored in the field; it is a derived
// artifact computed anew by every encoding pass.
type Offset16[T Node] struct {
	link  T
	state linkState
}

// To16 creates an offset field linked to v. v must not be nil.
func To16[T Node](v T) Offset16[T] {
	return Offset16[T]{link: v, state: linked}
}

// Null16 creates an offset field explicitly pointing to nothing.
func Null16[T Node]() Offset16[T] {
	return Offset16[T]{state: null}
}

// Link returns the referenced node, or the zero value of T.
func (o Offset16[T]) Link() T { return o.link }

// IsNull is true if the field does not reference a node.
func (o Offset16[T]) IsNull() bool { return o.state != linked }

// IsExplicitNull is true if the field has been set to point to nothing, as
// opposed to never having been set.
func (o Offset16[T]) IsExplicitNull() bool { return o.state == null }

// Equal compares the referenced nodes with eq. Numeric offsets are not
// considered. Two fields not referencing anything are equal.
func (o Offset16[T]) Equal(other Offset16[T], eq func(a, b T) bool) bool {
	if o.IsNull() || other.IsNull() {
		return o.IsNull() == other.IsNull()
	}
	return eq(o.link, other.link)
}

func (o *Offset16[T]) Width() int { return 2 }

func (o *Offset16[T]) Target() Node {
	if o.state != linked {
		return nil
	}
	return o.link
}

// Offset32 is a 32-bit offset field referencing a child node of type T.
// See Offset16 for the semantics of null fields.
type Offset32[T Node] struct {
	link  T
	state linkState
}

// To32 creates an offset field linked to v. v must not be nil.
func To32[T Node](v T) Offset32[T] {
	return Offset32[T]{link: v, state: linked}
}

// Null32 creates an offset field explicitly pointing to nothing.
func Null32[T Node]() Offset32[T] {
	return Offset32[T]{state: null}
}

func (o Offset32[T]) Link() T              { return o.link }
func (o Offset32[T]) IsNull() bool         { return o.state != linked }
func (o Offset32[T]) IsExplicitNull() bool { return o.state == null }

// Equal compares the referenced nodes with eq. Numeric offsets are not
// considered.
func (o Offset32[T]) Equal(other Offset32[T], eq func(a, b T) bool) bool {
	if o.IsNull() || other.IsNull() {
		return o.IsNull() == other.IsNull()
	}
	return eq(o.link, other.link)
}

func (o *Offset32[T]) Width() int { return 4 }

func (o *Offset32[T]) Target() Node {
	if o.state != linked {
		return nil
	}
	return o.link
}

func maxOffset(width int) int {
	if width == 2 {
		return 0xffff
	}
	return 0xffffffff
}

// --- Decoding offsets ------------------------------------------------------

// ReadOffset16 reads a 16-bit offset at the cursor position and decodes the
// referenced table into a new value of type *T.
func ReadOffset16[T any, P interface {
	*T
	Table
}](c *Cursor, o *Offset16[P]) error {
	return ReadOffset16With(c, o, newDecoder[T, P]())
}

// ReadOffset32 reads a 32-bit offset at the cursor position and decodes the
// referenced table into a new value of type *T.
func ReadOffset32[T any, P interface {
	*T
	Table
}](c *Cursor, o *Offset32[P]) error {
	return ReadOffset32With(c, o, newDecoder[T, P]())
}

// ReadOffset16With reads a 16-bit offset and decodes the referenced table with
// decode. It is used for fields whose type is an interface, where the concrete
// type depends on the data.
func ReadOffset16With[T Node](c *Cursor, o *Offset16[T], decode func(*Cursor) (T, error)) error {
	raw, err := c.U16()
	if err != nil {
		return err
	}
	if raw == 0 {
		*o = Null16[T]()
		return nil
	}
	v, err := follow(c, int(raw), decode)
	if err != nil {
		return err
	}
	*o = To16(v)
	return nil
}

// ReadOffset32With reads a 32-bit offset and decodes the referenced table with
// decode.
func ReadOffset32With[T Node](c *Cursor, o *Offset32[T], decode func(*Cursor) (T, error)) error {
	raw, err := c.U32()
	if err != nil {
		return err
	}
	if raw == 0 {
		*o = Null32[T]()
		return nil
	}
	if uint64(raw) > uint64(c.Len()) {
		return Errorf(UnexpectedEndOfInput, c.Pos()-4, "offset %d points outside of buffer", raw)
	}
	v, err := follow(c, int(raw), decode)
	if err != nil {
		return err
	}
	*o = To32(v)
	return nil
}

// ReadOffset16s reads n consecutive 16-bit offsets, following each of them.
func ReadOffset16s[T any, P interface {
	*T
	Table
}](c *Cursor, n int) ([]Offset16[P], error) {
	if n < 0 || n > c.Remaining()/2 {
		return nil, Errorf(UnexpectedEndOfInput, c.Pos(), "%d offsets exceed buffer", n)
	}
	if n == 0 {
		return nil, nil
	}
	offs := make([]Offset16[P], n)
	for i := range offs {
		if err := ReadOffset16(c, &offs[i]); err != nil {
			return nil, err
		}
	}
	return offs, nil
}

// ReadOffset16sWith reads n consecutive 16-bit offsets, decoding the targets
// with decode.
func ReadOffset16sWith[T Node](c *Cursor, n int, decode func(*Cursor) (T, error)) ([]Offset16[T], error) {
	if n < 0 || n > c.Remaining()/2 {
		return nil, Errorf(UnexpectedEndOfInput, c.Pos(), "%d offsets exceed buffer", n)
	}
	if n == 0 {
		return nil, nil
	}
	offs := make([]Offset16[T], n)
	for i := range offs {
		if err := ReadOffset16With(c, &offs[i], decode); err != nil {
			return nil, err
		}
	}
	return offs, nil
}

func newDecoder[T any, P interface {
	*T
	Table
}]() func(*Cursor) (P, error) {
	return func(c *Cursor) (P, error) {
		p := P(new(T))
		if err := p.Decode(c); err != nil {
			var zero P
			return zero, err
		}
		return p, nil
	}
}

// follow decodes the table at c.Origin()+off and restores the cursor
// position afterwards. Embedded targets keep the current origin.
func follow[T Node](c *Cursor, off int, decode func(*Cursor) (T, error)) (T, error) {
	var zero T
	at := c.Pos()
	if c.depth >= c.maxDepth {
		return zero, Errorf(NestingTooDeep, at, "more than %d nested offsets", c.maxDepth)
	}
	if c.nodes++; c.nodes > c.maxNodes {
		return zero, Errorf(MalformedInput, at, "more than %d tables reached over offsets", c.maxNodes)
	}
	target := c.Origin() + off
	if target >= c.Len() {
		return zero, Errorf(UnexpectedEndOfInput, at, "offset %d from origin %d points outside of buffer", off, c.Origin())
	}
	_, embedded := any(zero).(Embedded)
	tracer().Debugf("follow offset %d from origin %d to %d", off, c.Origin(), target)
	saved := c.pos
	c.pos = target
	c.depth++
	if !embedded {
		c.PushOrigin()
	}
	v, err := decode(c)
	if !embedded {
		c.PopOrigin()
	}
	c.depth--
	c.pos = saved
	return v, err
}
