package ot

import "github.com/npillmayer/otwire/otcodec"

// MarkRecord is an inline record of a MarkArray.
type MarkRecord struct {
	Class  uint16
	Anchor otcodec.Offset16[*Anchor]
}

// MarkArray assigns a mark class and an attachment anchor to every mark
// glyph, in coverage order.
type MarkArray struct {
	Records []MarkRecord
}

func (ma *MarkArray) Size() int { return 2 + 4*len(ma.Records) }

func (ma *MarkArray) EncodeShallow(w *otcodec.Writer) error {
	if err := w.Count(len(ma.Records)); err != nil {
		return err
	}
	for i := range ma.Records {
		w.U16(ma.Records[i].Class)
		if err := w.Offset(&ma.Records[i].Anchor); err != nil {
			return err
		}
	}
	return nil
}

func (ma *MarkArray) Children() []otcodec.OffsetField {
	fields := make([]otcodec.OffsetField, len(ma.Records))
	for i := range ma.Records {
		fields[i] = &ma.Records[i].Anchor
	}
	return fields
}

func (ma *MarkArray) Decode(c *otcodec.Cursor) error {
	n, err := readCount(c)
	if err != nil {
		return err
	}
	if n > c.Remaining()/4 {
		return malformed("MarkArray", c.Pos(), "%d mark records exceed table", n)
	}
	ma.Records = makeSlice[MarkRecord](n)
	for i := range ma.Records {
		if ma.Records[i].Class, err = c.U16(); err != nil {
			return err
		}
		if err = otcodec.ReadOffset16(c, &ma.Records[i].Anchor); err != nil {
			return err
		}
	}
	return nil
}

// maxClass returns the highest mark class used, or -1 for an empty array.
func (ma *MarkArray) maxClass() int {
	m := -1
	for _, rec := range ma.Records {
		m = max(m, int(rec.Class))
	}
	return m
}

// AnchorMatrix is a count-prefixed array of rows, each holding one anchor
// offset per mark class. Anchors may be null.
// It is the layout of BaseArray, Mark2Array and LigatureAttach.
type AnchorMatrix struct {
	Rows [][]otcodec.Offset16[*Anchor]
}

func (m *AnchorMatrix) classCount() int {
	if len(m.Rows) == 0 {
		return 0
	}
	return len(m.Rows[0])
}

func (m *AnchorMatrix) Size() int { return 2 + 2*len(m.Rows)*m.classCount() }

func (m *AnchorMatrix) EncodeShallow(w *otcodec.Writer) error {
	if err := w.Count(len(m.Rows)); err != nil {
		return err
	}
	cc := m.classCount()
	for i, row := range m.Rows {
		if len(row) != cc {
			return encodeError(otcodec.MalformedInput, "AnchorMatrix", "row %d has %d anchors, expected %d", i, len(row), cc)
		}
		for j := range row {
			if err := w.Offset(&row[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *AnchorMatrix) Children() []otcodec.OffsetField {
	var fields []otcodec.OffsetField
	for _, row := range m.Rows {
		fields = append(fields, fields16(row)...)
	}
	return fields
}

func (m *AnchorMatrix) decode(c *otcodec.Cursor, classCount int) error {
	n, err := readCount(c)
	if err != nil {
		return err
	}
	if classCount > 0 && n > c.Remaining()/(2*classCount) {
		return malformed("AnchorMatrix", c.Pos(), "%d rows of %d anchors exceed table", n, classCount)
	}
	m.Rows = makeSlice[[]otcodec.Offset16[*Anchor]](n)
	for i := range m.Rows {
		if m.Rows[i], err = otcodec.ReadOffset16s[Anchor](c, classCount); err != nil {
			return err
		}
	}
	return nil
}

// BaseArray holds the base anchors of a MarkBasePos subtable, one row per
// covered base glyph.
type BaseArray struct{ AnchorMatrix }

// Mark2Array holds the anchors of a MarkMarkPos subtable, one row per
// covered base mark.
type Mark2Array struct{ AnchorMatrix }

// LigatureAttach holds the anchors of a ligature glyph, one row per ligature
// component.
type LigatureAttach struct{ AnchorMatrix }

func decodeBaseArray(classCount int) func(*otcodec.Cursor) (*BaseArray, error) {
	return func(c *otcodec.Cursor) (*BaseArray, error) {
		a := &BaseArray{}
		return a, a.decode(c, classCount)
	}
}

func decodeMark2Array(classCount int) func(*otcodec.Cursor) (*Mark2Array, error) {
	return func(c *otcodec.Cursor) (*Mark2Array, error) {
		a := &Mark2Array{}
		return a, a.decode(c, classCount)
	}
}

// LigatureArray lists the attachment data of each covered ligature glyph.
type LigatureArray struct {
	Attachments []otcodec.Offset16[*LigatureAttach]
}

func (la *LigatureArray) Size() int { return 2 + 2*len(la.Attachments) }

func (la *LigatureArray) EncodeShallow(w *otcodec.Writer) error {
	return writeCountedOffsets(w, la.Attachments)
}

func (la *LigatureArray) Children() []otcodec.OffsetField { return fields16(la.Attachments) }

func decodeLigatureArray(classCount int) func(*otcodec.Cursor) (*LigatureArray, error) {
	return func(c *otcodec.Cursor) (*LigatureArray, error) {
		la := &LigatureArray{}
		n, err := readCount(c)
		if err != nil {
			return nil, err
		}
		la.Attachments, err = otcodec.ReadOffset16sWith(c, n, func(c *otcodec.Cursor) (*LigatureAttach, error) {
			a := &LigatureAttach{}
			return a, a.decode(c, classCount)
		})
		return la, err
	}
}
