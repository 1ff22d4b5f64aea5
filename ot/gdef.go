package ot

import (
	"fmt"

	"github.com/npillmayer/otwire/otcodec"
)

// Glyph classes of the GDEF glyph class definition.
const (
	BaseGlyph      uint16 = 1
	LigatureGlyph  uint16 = 2
	MarkGlyph      uint16 = 3
	ComponentGlyph uint16 = 4
)

// GDEF is the glyph definition table, versions 1.0, 1.2 and 1.3.
// An item variation store (version 1.3) is not supported and is encoded
// as a null offset.
type GDEF struct {
	MinorVersion       uint16
	GlyphClassDef      otcodec.Offset16[*ClassDef]
	AttachList         otcodec.Offset16[*AttachList]
	LigCaretList       otcodec.Offset16[*LigCaretList]
	MarkAttachClassDef otcodec.Offset16[*ClassDef]
	MarkGlyphSetsDef   otcodec.Offset16[*MarkGlyphSets] // version 1.2 and up
}

func (t *GDEF) Name() string { return "GDEF" }

func (t *GDEF) Size() int {
	switch {
	case t.MinorVersion >= 3:
		return 18
	case t.MinorVersion == 2:
		return 14
	}
	return 12
}

func (t *GDEF) EncodeShallow(w *otcodec.Writer) error {
	if err := checkFormat("GDEF", t.MinorVersion, 0, 2, 3); err != nil {
		return err
	}
	if t.MinorVersion == 0 && !t.MarkGlyphSetsDef.IsNull() {
		return encodeError(otcodec.MalformedInput, "GDEF", "mark glyph sets need version 1.2")
	}
	w.U16(1)
	w.U16(t.MinorVersion)
	if err := w.Offsets(&t.GlyphClassDef, &t.AttachList, &t.LigCaretList, &t.MarkAttachClassDef); err != nil {
		return err
	}
	if t.MinorVersion >= 2 {
		if err := w.Offset(&t.MarkGlyphSetsDef); err != nil {
			return err
		}
	}
	if t.MinorVersion >= 3 {
		w.U32(0)
	}
	return nil
}

func (t *GDEF) Children() []otcodec.OffsetField {
	return []otcodec.OffsetField{&t.GlyphClassDef, &t.AttachList, &t.LigCaretList,
		&t.MarkAttachClassDef, &t.MarkGlyphSetsDef}
}

func (t *GDEF) Decode(c *otcodec.Cursor) (err error) {
	var major uint16
	if err = readU16s(c, &major, &t.MinorVersion); err != nil {
		return
	}
	if major != 1 {
		return errorAt(otcodec.InvalidDiscriminant, "GDEF", c.Pos()-4, "unknown version %d.%d", major, t.MinorVersion)
	}
	if t.MinorVersion != 0 && t.MinorVersion != 2 && t.MinorVersion != 3 {
		return unsupported("GDEF", c.Pos()-2, "version 1.%d", t.MinorVersion)
	}
	if err = otcodec.ReadOffset16(c, &t.GlyphClassDef); err != nil {
		return
	}
	if err = otcodec.ReadOffset16(c, &t.AttachList); err != nil {
		return
	}
	if err = otcodec.ReadOffset16(c, &t.LigCaretList); err != nil {
		return
	}
	if err = otcodec.ReadOffset16(c, &t.MarkAttachClassDef); err != nil {
		return
	}
	if t.MinorVersion >= 2 {
		if err = otcodec.ReadOffset16(c, &t.MarkGlyphSetsDef); err != nil {
			return
		}
	}
	if t.MinorVersion >= 3 {
		off, err := c.U32()
		if err != nil {
			return err
		}
		if off != 0 {
			return unsupported("GDEF", c.Pos()-4, "item variation store")
		}
	}
	return nil
}

// GlyphClass returns the glyph class of g, or 0.
func (t *GDEF) GlyphClass(g GlyphIndex) uint16 {
	if t.GlyphClassDef.IsNull() {
		return 0
	}
	return t.GlyphClassDef.Link().Class(g)
}

// --- Attachment points -----------------------------------------------------

// AttachList lists contour point indices for attachment, for every covered
// glyph.
type AttachList struct {
	Coverage otcodec.Offset16[*Coverage]
	Points   []otcodec.Offset16[*AttachPoint]
}

func (al *AttachList) Size() int { return 4 + 2*len(al.Points) }

func (al *AttachList) EncodeShallow(w *otcodec.Writer) error {
	if err := w.Offset(&al.Coverage); err != nil {
		return err
	}
	return writeCountedOffsets(w, al.Points)
}

func (al *AttachList) Children() []otcodec.OffsetField {
	return append([]otcodec.OffsetField{&al.Coverage}, fields16(al.Points)...)
}

func (al *AttachList) Decode(c *otcodec.Cursor) (err error) {
	if err = otcodec.ReadOffset16(c, &al.Coverage); err != nil {
		return
	}
	al.Points, err = readCountedOffsets[AttachPoint](c)
	return
}

// AttachPoint holds contour point indices in increasing order.
type AttachPoint struct {
	PointIndices []uint16
}

func (ap *AttachPoint) Size() int                             { return 2 + 2*len(ap.PointIndices) }
func (ap *AttachPoint) EncodeShallow(w *otcodec.Writer) error { return writeU16s(w, ap.PointIndices) }
func (ap *AttachPoint) Children() []otcodec.OffsetField       { return nil }

func (ap *AttachPoint) Decode(c *otcodec.Cursor) (err error) {
	ap.PointIndices, err = readU16Array(c)
	return
}

// --- Ligature carets -------------------------------------------------------

// LigCaretList holds the caret positions of ligature glyphs.
type LigCaretList struct {
	Coverage  otcodec.Offset16[*Coverage]
	LigGlyphs []otcodec.Offset16[*LigGlyph]
}

func (l *LigCaretList) Size() int { return 4 + 2*len(l.LigGlyphs) }

func (l *LigCaretList) EncodeShallow(w *otcodec.Writer) error {
	if err := w.Offset(&l.Coverage); err != nil {
		return err
	}
	return writeCountedOffsets(w, l.LigGlyphs)
}

func (l *LigCaretList) Children() []otcodec.OffsetField {
	return append([]otcodec.OffsetField{&l.Coverage}, fields16(l.LigGlyphs)...)
}

func (l *LigCaretList) Decode(c *otcodec.Cursor) (err error) {
	if err = otcodec.ReadOffset16(c, &l.Coverage); err != nil {
		return
	}
	l.LigGlyphs, err = readCountedOffsets[LigGlyph](c)
	return
}

// LigGlyph holds the carets of one ligature glyph, one less than the number
// of its components.
type LigGlyph struct {
	Carets []otcodec.Offset16[*CaretValue]
}

func (lg *LigGlyph) Size() int                             { return 2 + 2*len(lg.Carets) }
func (lg *LigGlyph) EncodeShallow(w *otcodec.Writer) error { return writeCountedOffsets(w, lg.Carets) }
func (lg *LigGlyph) Children() []otcodec.OffsetField       { return fields16(lg.Carets) }

func (lg *LigGlyph) Decode(c *otcodec.Cursor) (err error) {
	lg.Carets, err = readCountedOffsets[CaretValue](c)
	return
}

// CaretValue is a caret position. Format 1 is a design unit coordinate,
// format 2 a contour point index and format 3 a coordinate with a device
// table.
type CaretValue struct {
	Format     uint16
	Coordinate int16
	PointIndex uint16
	Device     otcodec.Offset16[*Device] // format 3
}

func (cv *CaretValue) Size() int {
	if cv.Format == 3 {
		return 6
	}
	return 4
}

func (cv *CaretValue) EncodeShallow(w *otcodec.Writer) error {
	if err := checkFormat("CaretValue", cv.Format, 1, 2, 3); err != nil {
		return err
	}
	w.U16(cv.Format)
	switch cv.Format {
	case 1:
		w.I16(cv.Coordinate)
	case 2:
		w.U16(cv.PointIndex)
	case 3:
		w.I16(cv.Coordinate)
		return w.Offset(&cv.Device)
	}
	return nil
}

func (cv *CaretValue) Children() []otcodec.OffsetField {
	if cv.Format == 3 {
		return []otcodec.OffsetField{&cv.Device}
	}
	return nil
}

func (cv *CaretValue) Decode(c *otcodec.Cursor) (err error) {
	if cv.Format, err = c.U16(); err != nil {
		return
	}
	switch cv.Format {
	case 1:
		cv.Coordinate, err = c.I16()
	case 2:
		cv.PointIndex, err = c.U16()
	case 3:
		if cv.Coordinate, err = c.I16(); err != nil {
			return
		}
		err = otcodec.ReadOffset16(c, &cv.Device)
	default:
		err = badFormat("CaretValue", c, cv.Format)
	}
	return
}

func (cv *CaretValue) String() string {
	if cv.Format == 2 {
		return fmt.Sprintf("CaretValue(point %d)", cv.PointIndex)
	}
	return fmt.Sprintf("CaretValue(%d)", cv.Coordinate)
}

// --- Mark glyph sets -------------------------------------------------------

// MarkGlyphSets holds coverages of marks, referenced by lookups with the
// UseMarkFilteringSet flag.
type MarkGlyphSets struct {
	Coverages []otcodec.Offset32[*Coverage]
}

func (ms *MarkGlyphSets) Size() int { return 4 + 4*len(ms.Coverages) }

func (ms *MarkGlyphSets) EncodeShallow(w *otcodec.Writer) error {
	w.U16(1)
	if err := w.Count(len(ms.Coverages)); err != nil {
		return err
	}
	for i := range ms.Coverages {
		if err := w.Offset(&ms.Coverages[i]); err != nil {
			return err
		}
	}
	return nil
}

func (ms *MarkGlyphSets) Children() []otcodec.OffsetField {
	fields := make([]otcodec.OffsetField, len(ms.Coverages))
	for i := range ms.Coverages {
		fields[i] = &ms.Coverages[i]
	}
	return fields
}

func (ms *MarkGlyphSets) Decode(c *otcodec.Cursor) error {
	if err := expectFormat1(c, "MarkGlyphSets"); err != nil {
		return err
	}
	n, err := readCount(c)
	if err != nil {
		return err
	}
	if n > c.Remaining()/4 {
		return malformed("MarkGlyphSets", c.Pos(), "%d coverage offsets exceed table", n)
	}
	ms.Coverages = makeSlice[otcodec.Offset32[*Coverage]](n)
	for i := range ms.Coverages {
		if err = otcodec.ReadOffset32(c, &ms.Coverages[i]); err != nil {
			return err
		}
	}
	return nil
}

// Contains reports whether mark glyph set i contains g.
func (ms *MarkGlyphSets) Contains(i int, g GlyphIndex) bool {
	if i < 0 || i >= len(ms.Coverages) || ms.Coverages[i].IsNull() {
		return false
	}
	return ms.Coverages[i].Link().Contains(g)
}
