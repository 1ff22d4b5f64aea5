package otcodec

import (
	"encoding/hex"
	"strings"
	"testing"
)

// unhex converts a string of space-separated hex bytes.
func unhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		t.Fatalf("bad hex fixture: %v", err)
	}
	return b
}

// --- Test node types -------------------------------------------------------

type three struct{ blah uint16 }

func (t *three) Size() int                     { return 2 }
func (t *three) EncodeShallow(w *Writer) error { w.U16(t.blah); return nil }
func (t *three) Children() []OffsetField       { return nil }
func (t *three) Decode(c *Cursor) (err error) {
	t.blah, err = c.U16()
	return
}

type two struct {
	test1 uint16
	deep  Offset16[*three]
	test2 uint16
}

func (t *two) Size() int { return 6 }

func (t *two) EncodeShallow(w *Writer) error {
	w.U16(t.test1)
	if err := w.Offset(&t.deep); err != nil {
		return err
	}
	w.U16(t.test2)
	return nil
}

func (t *two) Children() []OffsetField { return []OffsetField{&t.deep} }

func (t *two) Decode(c *Cursor) (err error) {
	if t.test1, err = c.U16(); err != nil {
		return
	}
	if err = ReadOffset16(c, &t.deep); err != nil {
		return
	}
	t.test2, err = c.U16()
	return
}

type one struct {
	thing  uint16
	two    Offset16[*two]
	other  uint16
	second Offset16[*three]
}

func (o *one) Size() int { return 8 }

func (o *one) EncodeShallow(w *Writer) error {
	w.U16(o.thing)
	if err := w.Offset(&o.two); err != nil {
		return err
	}
	w.U16(o.other)
	return w.Offset(&o.second)
}

func (o *one) Children() []OffsetField { return []OffsetField{&o.two, &o.second} }

func (o *one) Decode(c *Cursor) (err error) {
	if o.thing, err = c.U16(); err != nil {
		return
	}
	if err = ReadOffset16(c, &o.two); err != nil {
		return
	}
	if o.other, err = c.U16(); err != nil {
		return
	}
	return ReadOffset16(c, &o.second)
}

// record is an inline record carrying an offset, measured from the enclosing
// table.
type record struct {
	test1 uint16
	deep  Offset16[*three]
	test2 uint16
}

func (r *record) encode(w *Writer) error {
	w.U16(r.test1)
	if err := w.Offset(&r.deep); err != nil {
		return err
	}
	w.U16(r.test2)
	return nil
}

func (r *record) decode(c *Cursor) (err error) {
	if r.test1, err = c.U16(); err != nil {
		return
	}
	if err = ReadOffset16(c, &r.deep); err != nil {
		return
	}
	r.test2, err = c.U16()
	return
}

type hasRecord struct {
	thing uint16
	rec   record
}

func (h *hasRecord) Size() int { return 8 }

func (h *hasRecord) EncodeShallow(w *Writer) error {
	w.U16(h.thing)
	return h.rec.encode(w)
}

func (h *hasRecord) Children() []OffsetField { return []OffsetField{&h.rec.deep} }

func (h *hasRecord) Decode(c *Cursor) (err error) {
	if h.thing, err = c.U16(); err != nil {
		return
	}
	return h.rec.decode(c)
}

type hasRecords struct {
	thing uint16
	recs  []record
}

func (h *hasRecords) Size() int { return 4 + 6*len(h.recs) }

func (h *hasRecords) EncodeShallow(w *Writer) error {
	w.U16(h.thing)
	if err := w.Count(len(h.recs)); err != nil {
		return err
	}
	for i := range h.recs {
		if err := h.recs[i].encode(w); err != nil {
			return err
		}
	}
	return nil
}

func (h *hasRecords) Children() []OffsetField {
	fields := make([]OffsetField, len(h.recs))
	for i := range h.recs {
		fields[i] = &h.recs[i].deep
	}
	return fields
}

func (h *hasRecords) Decode(c *Cursor) error {
	var err error
	if h.thing, err = c.U16(); err != nil {
		return err
	}
	n, err := c.U16()
	if err != nil {
		return err
	}
	h.recs = make([]record, n)
	for i := range h.recs {
		if err := h.recs[i].decode(c); err != nil {
			return err
		}
	}
	return nil
}

type offsetArray struct {
	test uint16
	seq  []Offset16[*three]
}

func (a *offsetArray) Size() int { return 4 + 2*len(a.seq) }

func (a *offsetArray) EncodeShallow(w *Writer) error {
	w.U16(a.test)
	if err := w.Count(len(a.seq)); err != nil {
		return err
	}
	for i := range a.seq {
		if err := w.Offset(&a.seq[i]); err != nil {
			return err
		}
	}
	return nil
}

func (a *offsetArray) Children() []OffsetField {
	fields := make([]OffsetField, len(a.seq))
	for i := range a.seq {
		fields[i] = &a.seq[i]
	}
	return fields
}

func (a *offsetArray) Decode(c *Cursor) (err error) {
	if a.test, err = c.U16(); err != nil {
		return
	}
	n, err := c.U16()
	if err != nil {
		return
	}
	a.seq, err = ReadOffset16s[three](c, int(n))
	return
}

type glyphList struct{ glyphs []GlyphID }

func (g *glyphList) Size() int { return 2 + 2*len(g.glyphs) }

func (g *glyphList) EncodeShallow(w *Writer) error {
	if err := w.Count(len(g.glyphs)); err != nil {
		return err
	}
	w.GlyphIDs(g.glyphs)
	return nil
}

func (g *glyphList) Children() []OffsetField { return nil }

func (g *glyphList) Decode(c *Cursor) error {
	n, err := c.U16()
	if err != nil {
		return err
	}
	g.glyphs, err = c.GlyphIDs(int(n))
	return err
}

type subst struct {
	format   uint16
	coverage Offset16[*glyphList]
	delta    int16
}

func (s *subst) Size() int { return 6 }

func (s *subst) EncodeShallow(w *Writer) error {
	w.U16(s.format)
	if err := w.Offset(&s.coverage); err != nil {
		return err
	}
	w.I16(s.delta)
	return nil
}

func (s *subst) Children() []OffsetField { return []OffsetField{&s.coverage} }

func (s *subst) Decode(c *Cursor) (err error) {
	if s.format, err = c.U16(); err != nil {
		return
	}
	if err = ReadOffset16(c, &s.coverage); err != nil {
		return
	}
	s.delta, err = c.I16()
	return
}

type outer struct{ inner Offset16[*subst] }

func (o *outer) Size() int                     { return 2 }
func (o *outer) EncodeShallow(w *Writer) error { return w.Offset(&o.inner) }
func (o *outer) Children() []OffsetField       { return []OffsetField{&o.inner} }
func (o *outer) Decode(c *Cursor) error        { return ReadOffset16(c, &o.inner) }

// sharedBase is referenced by offset, but does not establish an offset base.
type sharedBase struct{ deep Offset16[*three] }

func (s *sharedBase) EmbeddedInParent()             {}
func (s *sharedBase) Size() int                     { return 2 }
func (s *sharedBase) EncodeShallow(w *Writer) error { return w.Offset(&s.deep) }
func (s *sharedBase) Children() []OffsetField       { return []OffsetField{&s.deep} }
func (s *sharedBase) Decode(c *Cursor) error        { return ReadOffset16(c, &s.deep) }

type carrier struct {
	x   uint16
	emb Offset16[*sharedBase]
}

func (k *carrier) Size() int { return 4 }

func (k *carrier) EncodeShallow(w *Writer) error {
	w.U16(k.x)
	return w.Offset(&k.emb)
}

func (k *carrier) Children() []OffsetField { return []OffsetField{&k.emb} }

func (k *carrier) Decode(c *Cursor) (err error) {
	if k.x, err = c.U16(); err != nil {
		return
	}
	return ReadOffset16(c, &k.emb)
}

type blob struct{ data []byte }

func (b *blob) Size() int                     { return len(b.data) }
func (b *blob) EncodeShallow(w *Writer) error { w.Raw(b.data); return nil }
func (b *blob) Children() []OffsetField       { return nil }
func (b *blob) Decode(c *Cursor) error        { return nil }

type pair16 struct{ a, b Offset16[*blob] }

func (p *pair16) Size() int                     { return 4 }
func (p *pair16) EncodeShallow(w *Writer) error { return w.Offsets(&p.a, &p.b) }
func (p *pair16) Children() []OffsetField       { return []OffsetField{&p.a, &p.b} }
func (p *pair16) Decode(c *Cursor) error        { return nil }

type pair32 struct{ a, b Offset32[*blob] }

func (p *pair32) Size() int                     { return 8 }
func (p *pair32) EncodeShallow(w *Writer) error { return w.Offsets(&p.a, &p.b) }
func (p *pair32) Children() []OffsetField       { return []OffsetField{&p.a, &p.b} }
func (p *pair32) Decode(c *Cursor) error        { return nil }

// loop does not push an origin, so a self-referencing offset loops forever.
type loop struct{ next Offset16[*loop] }

func (l *loop) EmbeddedInParent()             {}
func (l *loop) Size() int                     { return 2 }
func (l *loop) EncodeShallow(w *Writer) error { return w.Offset(&l.next) }
func (l *loop) Children() []OffsetField       { return []OffsetField{&l.next} }
func (l *loop) Decode(c *Cursor) error        { return ReadOffset16(c, &l.next) }

// liar announces fewer bytes than it writes.
type liar struct{}

func (l *liar) Size() int                     { return 1 }
func (l *liar) EncodeShallow(w *Writer) error { w.U16(7); return nil }
func (l *liar) Children() []OffsetField       { return nil }
func (l *liar) Decode(c *Cursor) error        { return nil }
