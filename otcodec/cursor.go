package otcodec

import "encoding/binary"

// Default limits while decoding.
const (
	DefaultMaxDepth = 64      // nested offset chains
	DefaultMaxNodes = 1 << 20 // tables reached over offsets
)

// Cursor is a position-tracking reader over an immutable byte buffer.
// It maintains a stack of table origins, against which offset fields are
// resolved. The stack initially holds a single origin at position 0.
type Cursor struct {
	data     []byte
	pos      int
	origins  []int
	depth    int
	maxDepth int
	nodes    int
	maxNodes int
}

// Option configures a Cursor.
type Option func(*Cursor)

// MaxDepth limits the nesting depth of offset chains followed while decoding.
func MaxDepth(n int) Option {
	return func(c *Cursor) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// MaxNodes limits the number of tables decoded over offsets. Subtables
// shared by several offsets are decoded once per offset, so a small buffer
// may expand into a very large graph.
func MaxNodes(n int) Option {
	return func(c *Cursor) {
		if n > 0 {
			c.maxNodes = n
		}
	}
}

// NewCursor creates a cursor positioned at the start of data.
func NewCursor(data []byte, opts ...Option) *Cursor {
	c := &Cursor{
		data:     data,
		origins:  make([]int, 1, 16),
		maxDepth: DefaultMaxDepth,
		maxNodes: DefaultMaxNodes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Pos returns the current position, counted from the start of the buffer.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the length of the underlying buffer.
func (c *Cursor) Len() int { return len(c.data) }

// Remaining returns the number of bytes between the position and the end of
// the buffer.
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

// Seek sets the position. Seeking to the end of the buffer is legal, seeking
// beyond it is not.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.data) {
		return Errorf(UnexpectedEndOfInput, pos, "seek outside of buffer (size %d)", len(c.data))
	}
	c.pos = pos
	return nil
}

// Skip advances the position by n bytes.
func (c *Cursor) Skip(n int) error {
	_, err := c.Consume(n)
	return err
}

// Peek returns the next n bytes without advancing.
func (c *Cursor) Peek(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, Errorf(UnexpectedEndOfInput, c.pos, "need %d bytes, have %d", n, c.Remaining())
	}
	return c.data[c.pos : c.pos+n], nil
}

// Consume returns the next n bytes and advances the position.
// The returned slice aliases the buffer and must not be modified.
func (c *Cursor) Consume(n int) ([]byte, error) {
	b, err := c.Peek(n)
	if err != nil {
		return nil, err
	}
	c.pos += n
	return b, nil
}

// PushOrigin records the current position as a new table origin.
func (c *Cursor) PushOrigin() {
	c.origins = append(c.origins, c.pos)
}

// PopOrigin removes the innermost table origin. The outermost origin at
// position 0 is never removed.
func (c *Cursor) PopOrigin() {
	if len(c.origins) > 1 {
		c.origins = c.origins[:len(c.origins)-1]
	}
}

// Origin returns the innermost table origin.
func (c *Cursor) Origin() int {
	return c.origins[len(c.origins)-1]
}

// --- Fixed-shape reads -----------------------------------------------------

func (c *Cursor) U8() (uint8, error) {
	b, err := c.Consume(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) I8() (int8, error) {
	v, err := c.U8()
	return int8(v), err
}

func (c *Cursor) U16() (uint16, error) {
	b, err := c.Consume(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *Cursor) I16() (int16, error) {
	v, err := c.U16()
	return int16(v), err
}

func (c *Cursor) U24() (Uint24, error) {
	b, err := c.Consume(3)
	if err != nil {
		return 0, err
	}
	return Uint24(uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])), nil
}

func (c *Cursor) U32() (uint32, error) {
	b, err := c.Consume(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c *Cursor) I32() (int32, error) {
	v, err := c.U32()
	return int32(v), err
}

func (c *Cursor) Tag() (Tag, error) {
	v, err := c.U32()
	return Tag(v), err
}

func (c *Cursor) GlyphID() (GlyphID, error) {
	v, err := c.U16()
	return GlyphID(v), err
}

func (c *Cursor) F2Dot14() (F2Dot14, error) {
	v, err := c.U16()
	return F2Dot14(v), err
}

// --- Counted reads ---------------------------------------------------------

// U16s reads exactly n unsigned 16-bit values. Reading zero values yields nil.
func (c *Cursor) U16s(n int) ([]uint16, error) {
	b, err := c.counted(n, 2)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	vals := make([]uint16, n)
	for i := range vals {
		vals[i] = binary.BigEndian.Uint16(b[2*i:])
	}
	return vals, nil
}

// I16s reads exactly n signed 16-bit values.
func (c *Cursor) I16s(n int) ([]int16, error) {
	b, err := c.counted(n, 2)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	vals := make([]int16, n)
	for i := range vals {
		vals[i] = int16(binary.BigEndian.Uint16(b[2*i:]))
	}
	return vals, nil
}

// GlyphIDs reads exactly n glyph IDs.
func (c *Cursor) GlyphIDs(n int) ([]GlyphID, error) {
	b, err := c.counted(n, 2)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	vals := make([]GlyphID, n)
	for i := range vals {
		vals[i] = GlyphID(binary.BigEndian.Uint16(b[2*i:]))
	}
	return vals, nil
}

// Tags reads exactly n tags.
func (c *Cursor) Tags(n int) ([]Tag, error) {
	b, err := c.counted(n, 4)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	vals := make([]Tag, n)
	for i := range vals {
		vals[i] = Tag(binary.BigEndian.Uint32(b[4*i:]))
	}
	return vals, nil
}

// counted consumes n records of a fixed size. The total is checked against the
// remaining bytes before anything is allocated. Empty reads return nil.
func (c *Cursor) counted(n, size int) ([]byte, error) {
	if n < 0 || n > c.Remaining()/size {
		return nil, Errorf(UnexpectedEndOfInput, c.pos, "%d records of size %d exceed buffer", n, size)
	}
	if n == 0 {
		return nil, nil
	}
	return c.Consume(n * size)
}
