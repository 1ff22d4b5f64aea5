package otcodec

import "encoding/binary"

// Writer accumulates the bytes of an encoding pass. Offset fields may only be
// written while a Resolver is encoding the node which owns them.
type Writer struct {
	buf      []byte
	resolved map[OffsetField]uint32
}

// NewWriter creates a writer with room for capacity bytes.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Bytes returns the bytes written so far.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) U8(v uint8)   { w.buf = append(w.buf, v) }
func (w *Writer) I8(v int8)    { w.buf = append(w.buf, byte(v)) }
func (w *Writer) U16(v uint16) { w.buf = binary.BigEndian.AppendUint16(w.buf, v) }
func (w *Writer) I16(v int16)  { w.U16(uint16(v)) }
func (w *Writer) U32(v uint32) { w.buf = binary.BigEndian.AppendUint32(w.buf, v) }
func (w *Writer) I32(v int32)  { w.U32(uint32(v)) }

func (w *Writer) U24(v Uint24) {
	w.buf = append(w.buf, byte(v>>16), byte(v>>8), byte(v))
}

func (w *Writer) Tag(t Tag)         { w.U32(uint32(t)) }
func (w *Writer) GlyphID(g GlyphID) { w.U16(uint16(g)) }
func (w *Writer) F2Dot14(f F2Dot14) { w.U16(uint16(f)) }
func (w *Writer) Raw(b []byte)      { w.buf = append(w.buf, b...) }

func (w *Writer) U16s(vals []uint16) {
	for _, v := range vals {
		w.U16(v)
	}
}

func (w *Writer) GlyphIDs(gids []GlyphID) {
	for _, g := range gids {
		w.U16(uint16(g))
	}
}

// Count writes a slice length as u16. Lengths above 65535 are an error of kind
// ValueOutOfWidth.
func (w *Writer) Count(n int) error {
	if n < 0 || n > 0xffff {
		return Errorf(ValueOutOfWidth, w.Len(), "count %d does not fit uint16", n)
	}
	w.U16(uint16(n))
	return nil
}

// Offset writes the numeric value of f, as computed by the resolver for the
// node currently being encoded.
func (w *Writer) Offset(f OffsetField) error {
	off, ok := w.resolved[f]
	if !ok {
		return Errorf(OffsetNotResolved, w.Len(), "offset field has not been resolved")
	}
	if f.Width() == 2 {
		w.U16(uint16(off))
	} else {
		w.U32(off)
	}
	return nil
}

// Offsets writes a sequence of offset fields.
func (w *Writer) Offsets(fields ...OffsetField) error {
	for _, f := range fields {
		if err := w.Offset(f); err != nil {
			return err
		}
	}
	return nil
}
