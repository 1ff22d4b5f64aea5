package ot

import (
	"maps"
	"slices"

	"github.com/npillmayer/otwire/otcodec"
)

// GPOS lookup types.
const (
	GPosSingle          uint16 = 1
	GPosPair            uint16 = 2
	GPosCursive         uint16 = 3
	GPosMarkToBase      uint16 = 4
	GPosMarkToLigature  uint16 = 5
	GPosMarkToMark      uint16 = 6
	GPosContext         uint16 = 7
	GPosChainingContext uint16 = 8
	GPosExtension       uint16 = 9
)

// GPosSubtable is one of *SinglePos, *PairPos, *CursivePos, *MarkBasePos,
// *MarkLigPos, *MarkMarkPos, *ContextPos, *ChainedContextPos or
// *ExtensionPos.
type GPosSubtable interface {
	Subtable
	isGPosSubtable()
}

type (
	GPosLookup     = Lookup[GPosSubtable]
	GPosLookupList = LookupList[GPosSubtable]
)

// GPOS is the glyph positioning table, versions 1.0 and 1.1.
// Feature variations of version 1.1 are not supported.
type GPOS struct {
	MinorVersion uint16
	ScriptList   otcodec.Offset16[*ScriptList]
	FeatureList  otcodec.Offset16[*FeatureList]
	LookupList   otcodec.Offset16[*GPosLookupList]
}

func (t *GPOS) Name() string { return "GPOS" }

func (t *GPOS) Size() int { return layoutHeaderSize(t.MinorVersion) }

func (t *GPOS) EncodeShallow(w *otcodec.Writer) error {
	return encodeLayoutHeader(w, "GPOS", t.MinorVersion, &t.ScriptList, &t.FeatureList, &t.LookupList)
}

func (t *GPOS) Children() []otcodec.OffsetField {
	return []otcodec.OffsetField{&t.ScriptList, &t.FeatureList, &t.LookupList}
}

func (t *GPOS) Decode(c *otcodec.Cursor) (err error) {
	if t.MinorVersion, err = decodeLayoutVersion(c, "GPOS"); err != nil {
		return
	}
	if err = otcodec.ReadOffset16(c, &t.ScriptList); err != nil {
		return
	}
	if err = otcodec.ReadOffset16(c, &t.FeatureList); err != nil {
		return
	}
	err = otcodec.ReadOffset16With(c, &t.LookupList, func(c *otcodec.Cursor) (*GPosLookupList, error) {
		return decodeLookupList[GPosSubtable](c, gposDecoder)
	})
	if err != nil {
		return
	}
	return decodeFeatureVariations(c, "GPOS", t.MinorVersion)
}

// Lookup returns the lookup at index i, or nil.
func (t *GPOS) Lookup(i int) *GPosLookup {
	if t.LookupList.IsNull() {
		return nil
	}
	return t.LookupList.Link().Lookup(i)
}

func gposDecoder(lookupType uint16) func(*otcodec.Cursor) (GPosSubtable, error) {
	return func(c *otcodec.Cursor) (GPosSubtable, error) {
		return decodeGPosSubtable(c, lookupType, false)
	}
}

func decodeGPosSubtable(c *otcodec.Cursor, lookupType uint16, extended bool) (GPosSubtable, error) {
	var st interface {
		GPosSubtable
		otcodec.Decoder
	}
	switch lookupType {
	case GPosSingle:
		st = &SinglePos{}
	case GPosPair:
		st = &PairPos{}
	case GPosCursive:
		st = &CursivePos{}
	case GPosMarkToBase:
		st = &MarkBasePos{}
	case GPosMarkToLigature:
		st = &MarkLigPos{}
	case GPosMarkToMark:
		st = &MarkMarkPos{}
	case GPosContext:
		st = &ContextPos{}
	case GPosChainingContext:
		st = &ChainedContextPos{}
	case GPosExtension:
		if extended {
			return nil, malformed("ExtensionPos", c.Pos(), "nested extension subtable")
		}
		st = &ExtensionPos{}
	default:
		return nil, errorAt(otcodec.InvalidDiscriminant, "GPOS", c.Pos(), "unknown lookup type %d", lookupType)
	}
	if err := st.Decode(c); err != nil {
		return nil, err
	}
	return st, nil
}

// --- Type 1 ----------------------------------------------------------------

// SinglePos adjusts single glyphs. Format 1 applies one value record to all
// covered glyphs, format 2 has one value record per covered glyph.
type SinglePos struct {
	Format      uint16
	Coverage    otcodec.Offset16[*Coverage]
	ValueFormat ValueFormat
	Values      []ValueRecord // exactly one for format 1
}

// NewSinglePos creates a single adjustment in the most compact format.
func NewSinglePos(values map[GlyphIndex]ValueRecord) *SinglePos {
	glyphs := slices.Sorted(maps.Keys(values))
	s := &SinglePos{Format: 1, Coverage: otcodec.To16(&Coverage{Glyphs: glyphs})}
	for _, g := range glyphs {
		vr := values[g]
		s.Values = append(s.Values, vr)
		s.ValueFormat = s.ValueFormat.Union(vr.Format())
	}
	for i := 1; i < len(s.Values); i++ {
		if !sameValues(&s.Values[i], &s.Values[0]) {
			s.Format = 2
			return s
		}
	}
	if len(s.Values) > 1 {
		s.Values = s.Values[:1]
	}
	return s
}

// sameValues compares value records. Records with device tables are never
// considered equal.
func sameValues(a, b *ValueRecord) bool {
	if a.Format()&(XPlaDevice|YPlaDevice|XAdvDevice|YAdvDevice) != 0 ||
		b.Format()&(XPlaDevice|YPlaDevice|XAdvDevice|YAdvDevice) != 0 {
		return false
	}
	return a.XPlacement == b.XPlacement && a.YPlacement == b.YPlacement &&
		a.XAdvance == b.XAdvance && a.YAdvance == b.YAdvance
}

func (*SinglePos) isGPosSubtable()    {}
func (*SinglePos) LookupType() uint16 { return GPosSingle }

func (s *SinglePos) Size() int {
	if s.Format == 1 {
		return 6 + s.ValueFormat.RecordSize()
	}
	return 8 + len(s.Values)*s.ValueFormat.RecordSize()
}

func (s *SinglePos) EncodeShallow(w *otcodec.Writer) error {
	if err := checkFormat("SinglePos", s.Format, 1, 2); err != nil {
		return err
	}
	if s.Format == 1 && len(s.Values) != 1 {
		return encodeError(otcodec.MalformedInput, "SinglePos", "format 1 needs exactly one value record")
	}
	w.U16(s.Format)
	if err := w.Offset(&s.Coverage); err != nil {
		return err
	}
	w.U16(uint16(s.ValueFormat))
	if s.Format == 2 {
		if err := w.Count(len(s.Values)); err != nil {
			return err
		}
	}
	for i := range s.Values {
		if err := s.Values[i].encode(w, s.ValueFormat); err != nil {
			return err
		}
	}
	return nil
}

func (s *SinglePos) Children() []otcodec.OffsetField {
	fields := []otcodec.OffsetField{&s.Coverage}
	for i := range s.Values {
		fields = append(fields, s.Values[i].children(s.ValueFormat)...)
	}
	return fields
}

func (s *SinglePos) Decode(c *otcodec.Cursor) error {
	var err error
	if s.Format, err = c.U16(); err != nil {
		return err
	}
	if s.Format != 1 && s.Format != 2 {
		return badFormat("SinglePos", c, s.Format)
	}
	if err = otcodec.ReadOffset16(c, &s.Coverage); err != nil {
		return err
	}
	vf, err := c.U16()
	if err != nil {
		return err
	}
	s.ValueFormat = ValueFormat(vf)
	if err = checkValueFormat("SinglePos", c, s.ValueFormat); err != nil {
		return err
	}
	n := 1
	if s.Format == 2 {
		if n, err = readCount(c); err != nil {
			return err
		}
	}
	if rs := s.ValueFormat.RecordSize(); rs > 0 && n > c.Remaining()/rs {
		return malformed("SinglePos", c.Pos(), "%d value records exceed table", n)
	}
	s.Values = makeSlice[ValueRecord](n)
	for i := range s.Values {
		if err = s.Values[i].decode(c, s.ValueFormat); err != nil {
			return err
		}
	}
	return nil
}

// --- Type 2 ----------------------------------------------------------------

// PairPos adjusts pairs of glyphs. Format 1 lists pairs of glyphs in pair
// sets, one per covered first glyph. Format 2 holds a matrix of value
// records indexed by the classes of the first and second glyph.
type PairPos struct {
	Format       uint16
	Coverage     otcodec.Offset16[*Coverage]
	ValueFormat1 ValueFormat
	ValueFormat2 ValueFormat
	PairSets     []otcodec.Offset16[*PairSet] // format 1
	ClassDef1    otcodec.Offset16[*ClassDef]  // format 2
	ClassDef2    otcodec.Offset16[*ClassDef]  // format 2
	ClassRecords [][]PairValue                // format 2, [class1][class2]
}

// PairValue holds the adjustments of the first and second glyph of a pair.
type PairValue struct {
	First, Second ValueRecord
}

func (*PairPos) isGPosSubtable()    {}
func (*PairPos) LookupType() uint16 { return GPosPair }

func (p *PairPos) class2Count() int {
	if len(p.ClassRecords) == 0 {
		return 0
	}
	return len(p.ClassRecords[0])
}

func (p *PairPos) Size() int {
	if p.Format == 1 {
		return 10 + 2*len(p.PairSets)
	}
	return 16 + len(p.ClassRecords)*p.class2Count()*(p.ValueFormat1.RecordSize()+p.ValueFormat2.RecordSize())
}

func (p *PairPos) EncodeShallow(w *otcodec.Writer) error {
	if err := checkFormat("PairPos", p.Format, 1, 2); err != nil {
		return err
	}
	w.U16(p.Format)
	if err := w.Offset(&p.Coverage); err != nil {
		return err
	}
	w.U16(uint16(p.ValueFormat1))
	w.U16(uint16(p.ValueFormat2))
	if p.Format == 1 {
		for i := range p.PairSets {
			ps := p.PairSets[i].Link()
			if ps != nil && (ps.ValueFormat1 != p.ValueFormat1 || ps.ValueFormat2 != p.ValueFormat2) {
				return encodeError(otcodec.MalformedInput, "PairPos", "pair set %d has value formats %s/%s",
					i, ps.ValueFormat1, ps.ValueFormat2)
			}
		}
		return writeCountedOffsets(w, p.PairSets)
	}
	if err := w.Offsets(&p.ClassDef1, &p.ClassDef2); err != nil {
		return err
	}
	cc2 := p.class2Count()
	if err := w.Count(len(p.ClassRecords)); err != nil {
		return err
	}
	if err := w.Count(cc2); err != nil {
		return err
	}
	for i, row := range p.ClassRecords {
		if len(row) != cc2 {
			return encodeError(otcodec.MalformedInput, "PairPos", "class 1 record %d has %d entries, expected %d", i, len(row), cc2)
		}
		for j := range row {
			if err := row[j].First.encode(w, p.ValueFormat1); err != nil {
				return err
			}
			if err := row[j].Second.encode(w, p.ValueFormat2); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *PairPos) Children() []otcodec.OffsetField {
	fields := []otcodec.OffsetField{&p.Coverage}
	if p.Format == 1 {
		return append(fields, fields16(p.PairSets)...)
	}
	fields = append(fields, &p.ClassDef1, &p.ClassDef2)
	for _, row := range p.ClassRecords {
		for j := range row {
			fields = append(fields, row[j].First.children(p.ValueFormat1)...)
			fields = append(fields, row[j].Second.children(p.ValueFormat2)...)
		}
	}
	return fields
}

func (p *PairPos) Decode(c *otcodec.Cursor) error {
	var err error
	if p.Format, err = c.U16(); err != nil {
		return err
	}
	if p.Format != 1 && p.Format != 2 {
		return badFormat("PairPos", c, p.Format)
	}
	if err = otcodec.ReadOffset16(c, &p.Coverage); err != nil {
		return err
	}
	var vf1, vf2 uint16
	if err = readU16s(c, &vf1, &vf2); err != nil {
		return err
	}
	p.ValueFormat1, p.ValueFormat2 = ValueFormat(vf1), ValueFormat(vf2)
	if err = checkValueFormat("PairPos", c, p.ValueFormat1|p.ValueFormat2); err != nil {
		return err
	}
	if p.Format == 1 {
		n, err := readCount(c)
		if err != nil {
			return err
		}
		p.PairSets, err = otcodec.ReadOffset16sWith(c, n, func(c *otcodec.Cursor) (*PairSet, error) {
			ps := &PairSet{ValueFormat1: p.ValueFormat1, ValueFormat2: p.ValueFormat2}
			return ps, ps.decode(c)
		})
		return err
	}
	if err = otcodec.ReadOffset16(c, &p.ClassDef1); err != nil {
		return err
	}
	if err = otcodec.ReadOffset16(c, &p.ClassDef2); err != nil {
		return err
	}
	var cc1, cc2 uint16
	if err = readU16s(c, &cc1, &cc2); err != nil {
		return err
	}
	recSize := p.ValueFormat1.RecordSize() + p.ValueFormat2.RecordSize()
	if recSize > 0 && int(cc1)*int(cc2) > c.Remaining()/recSize {
		return malformed("PairPos", c.Pos(), "%d×%d class records exceed table", cc1, cc2)
	}
	p.ClassRecords = makeSlice[[]PairValue](int(cc1))
	for i := range p.ClassRecords {
		p.ClassRecords[i] = makeSlice[PairValue](int(cc2))
		for j := range p.ClassRecords[i] {
			if err = p.ClassRecords[i][j].First.decode(c, p.ValueFormat1); err != nil {
				return err
			}
			if err = p.ClassRecords[i][j].Second.decode(c, p.ValueFormat2); err != nil {
				return err
			}
		}
	}
	return nil
}

// PairSet lists the second glyphs of pairs sharing the same first glyph.
// Its value formats must equal those of the PairPos referencing it.
type PairSet struct {
	ValueFormat1 ValueFormat
	ValueFormat2 ValueFormat
	Records      []PairValueRecord
}

// PairValueRecord is an inline record of a PairSet.
type PairValueRecord struct {
	SecondGlyph GlyphIndex
	PairValue
}

func (ps *PairSet) Size() int {
	return 2 + len(ps.Records)*(2+ps.ValueFormat1.RecordSize()+ps.ValueFormat2.RecordSize())
}

func (ps *PairSet) EncodeShallow(w *otcodec.Writer) error {
	if err := w.Count(len(ps.Records)); err != nil {
		return err
	}
	for i := range ps.Records {
		rec := &ps.Records[i]
		w.GlyphID(rec.SecondGlyph)
		if err := rec.First.encode(w, ps.ValueFormat1); err != nil {
			return err
		}
		if err := rec.Second.encode(w, ps.ValueFormat2); err != nil {
			return err
		}
	}
	return nil
}

func (ps *PairSet) Children() []otcodec.OffsetField {
	var fields []otcodec.OffsetField
	for i := range ps.Records {
		fields = append(fields, ps.Records[i].First.children(ps.ValueFormat1)...)
		fields = append(fields, ps.Records[i].Second.children(ps.ValueFormat2)...)
	}
	return fields
}

func (ps *PairSet) decode(c *otcodec.Cursor) error {
	n, err := readCount(c)
	if err != nil {
		return err
	}
	recSize := 2 + ps.ValueFormat1.RecordSize() + ps.ValueFormat2.RecordSize()
	if n > c.Remaining()/recSize {
		return malformed("PairSet", c.Pos(), "%d pair records exceed table", n)
	}
	ps.Records = makeSlice[PairValueRecord](n)
	for i := range ps.Records {
		rec := &ps.Records[i]
		if rec.SecondGlyph, err = c.GlyphID(); err != nil {
			return err
		}
		if err = rec.First.decode(c, ps.ValueFormat1); err != nil {
			return err
		}
		if err = rec.Second.decode(c, ps.ValueFormat2); err != nil {
			return err
		}
	}
	return nil
}

// --- Type 3 ----------------------------------------------------------------

// EntryExitRecord holds the cursive attachment anchors of a glyph. Either
// anchor may be null.
type EntryExitRecord struct {
	Entry otcodec.Offset16[*Anchor]
	Exit  otcodec.Offset16[*Anchor]
}

// CursivePos connects glyphs by their entry and exit anchors.
type CursivePos struct {
	Coverage otcodec.Offset16[*Coverage]
	Records  []EntryExitRecord
}

func (*CursivePos) isGPosSubtable()    {}
func (*CursivePos) LookupType() uint16 { return GPosCursive }

func (p *CursivePos) Size() int { return 6 + 4*len(p.Records) }

func (p *CursivePos) EncodeShallow(w *otcodec.Writer) error {
	w.U16(1)
	if err := w.Offset(&p.Coverage); err != nil {
		return err
	}
	if err := w.Count(len(p.Records)); err != nil {
		return err
	}
	for i := range p.Records {
		if err := w.Offsets(&p.Records[i].Entry, &p.Records[i].Exit); err != nil {
			return err
		}
	}
	return nil
}

func (p *CursivePos) Children() []otcodec.OffsetField {
	fields := []otcodec.OffsetField{&p.Coverage}
	for i := range p.Records {
		fields = append(fields, &p.Records[i].Entry, &p.Records[i].Exit)
	}
	return fields
}

func (p *CursivePos) Decode(c *otcodec.Cursor) error {
	if err := expectFormat1(c, "CursivePos"); err != nil {
		return err
	}
	if err := otcodec.ReadOffset16(c, &p.Coverage); err != nil {
		return err
	}
	n, err := readCount(c)
	if err != nil {
		return err
	}
	if n > c.Remaining()/4 {
		return malformed("CursivePos", c.Pos(), "%d entry/exit records exceed table", n)
	}
	p.Records = makeSlice[EntryExitRecord](n)
	for i := range p.Records {
		if err = otcodec.ReadOffset16(c, &p.Records[i].Entry); err != nil {
			return err
		}
		if err = otcodec.ReadOffset16(c, &p.Records[i].Exit); err != nil {
			return err
		}
	}
	return nil
}

// --- Types 4, 5 and 6 ------------------------------------------------------

// MarkBasePos attaches marks to base glyphs.
type MarkBasePos struct {
	MarkCoverage   otcodec.Offset16[*Coverage]
	BaseCoverage   otcodec.Offset16[*Coverage]
	MarkClassCount uint16
	MarkArray      otcodec.Offset16[*MarkArray]
	BaseArray      otcodec.Offset16[*BaseArray]
}

func (*MarkBasePos) isGPosSubtable()    {}
func (*MarkBasePos) LookupType() uint16 { return GPosMarkToBase }

func (p *MarkBasePos) Size() int { return 12 }

func (p *MarkBasePos) EncodeShallow(w *otcodec.Writer) error {
	if err := checkMarkClasses("MarkBasePos", p.MarkClassCount, p.MarkArray.Link(), p.BaseArray.Link()); err != nil {
		return err
	}
	w.U16(1)
	if err := w.Offsets(&p.MarkCoverage, &p.BaseCoverage); err != nil {
		return err
	}
	w.U16(p.MarkClassCount)
	return w.Offsets(&p.MarkArray, &p.BaseArray)
}

func (p *MarkBasePos) Children() []otcodec.OffsetField {
	return []otcodec.OffsetField{&p.MarkCoverage, &p.BaseCoverage, &p.MarkArray, &p.BaseArray}
}

func (p *MarkBasePos) Decode(c *otcodec.Cursor) (err error) {
	if err = decodeMarkAttachHeader(c, "MarkBasePos", &p.MarkCoverage, &p.BaseCoverage, &p.MarkClassCount, &p.MarkArray); err != nil {
		return
	}
	return otcodec.ReadOffset16With(c, &p.BaseArray, decodeBaseArray(int(p.MarkClassCount)))
}

// MarkLigPos attaches marks to ligature components.
type MarkLigPos struct {
	MarkCoverage     otcodec.Offset16[*Coverage]
	LigatureCoverage otcodec.Offset16[*Coverage]
	MarkClassCount   uint16
	MarkArray        otcodec.Offset16[*MarkArray]
	LigatureArray    otcodec.Offset16[*LigatureArray]
}

func (*MarkLigPos) isGPosSubtable()    {}
func (*MarkLigPos) LookupType() uint16 { return GPosMarkToLigature }

func (p *MarkLigPos) Size() int { return 12 }

func (p *MarkLigPos) EncodeShallow(w *otcodec.Writer) error {
	var matrices []*AnchorMatrix
	if la := p.LigatureArray.Link(); la != nil {
		for _, att := range la.Attachments {
			if !att.IsNull() {
				matrices = append(matrices, &att.Link().AnchorMatrix)
			}
		}
	}
	if err := checkMarkClasses("MarkLigPos", p.MarkClassCount, p.MarkArray.Link(), nil, matrices...); err != nil {
		return err
	}
	w.U16(1)
	if err := w.Offsets(&p.MarkCoverage, &p.LigatureCoverage); err != nil {
		return err
	}
	w.U16(p.MarkClassCount)
	return w.Offsets(&p.MarkArray, &p.LigatureArray)
}

func (p *MarkLigPos) Children() []otcodec.OffsetField {
	return []otcodec.OffsetField{&p.MarkCoverage, &p.LigatureCoverage, &p.MarkArray, &p.LigatureArray}
}

func (p *MarkLigPos) Decode(c *otcodec.Cursor) (err error) {
	if err = decodeMarkAttachHeader(c, "MarkLigPos", &p.MarkCoverage, &p.LigatureCoverage, &p.MarkClassCount, &p.MarkArray); err != nil {
		return
	}
	return otcodec.ReadOffset16With(c, &p.LigatureArray, decodeLigatureArray(int(p.MarkClassCount)))
}

// MarkMarkPos attaches marks to other marks.
type MarkMarkPos struct {
	Mark1Coverage  otcodec.Offset16[*Coverage]
	Mark2Coverage  otcodec.Offset16[*Coverage]
	MarkClassCount uint16
	Mark1Array     otcodec.Offset16[*MarkArray]
	Mark2Array     otcodec.Offset16[*Mark2Array]
}

func (*MarkMarkPos) isGPosSubtable()    {}
func (*MarkMarkPos) LookupType() uint16 { return GPosMarkToMark }

func (p *MarkMarkPos) Size() int { return 12 }

func (p *MarkMarkPos) EncodeShallow(w *otcodec.Writer) error {
	var m2 *AnchorMatrix
	if a := p.Mark2Array.Link(); a != nil {
		m2 = &a.AnchorMatrix
	}
	if err := checkMarkClasses("MarkMarkPos", p.MarkClassCount, p.Mark1Array.Link(), nil, m2); err != nil {
		return err
	}
	w.U16(1)
	if err := w.Offsets(&p.Mark1Coverage, &p.Mark2Coverage); err != nil {
		return err
	}
	w.U16(p.MarkClassCount)
	return w.Offsets(&p.Mark1Array, &p.Mark2Array)
}

func (p *MarkMarkPos) Children() []otcodec.OffsetField {
	return []otcodec.OffsetField{&p.Mark1Coverage, &p.Mark2Coverage, &p.Mark1Array, &p.Mark2Array}
}

func (p *MarkMarkPos) Decode(c *otcodec.Cursor) (err error) {
	if err = decodeMarkAttachHeader(c, "MarkMarkPos", &p.Mark1Coverage, &p.Mark2Coverage, &p.MarkClassCount, &p.Mark1Array); err != nil {
		return
	}
	return otcodec.ReadOffset16With(c, &p.Mark2Array, decodeMark2Array(int(p.MarkClassCount)))
}

// decodeMarkAttachHeader reads the fields shared by mark attachment subtables,
// up to the mark array.
func decodeMarkAttachHeader(c *otcodec.Cursor, table string, cov1, cov2 *otcodec.Offset16[*Coverage],
	classCount *uint16, marks *otcodec.Offset16[*MarkArray]) (err error) {
	if err = expectFormat1(c, table); err != nil {
		return
	}
	if err = otcodec.ReadOffset16(c, cov1); err != nil {
		return
	}
	if err = otcodec.ReadOffset16(c, cov2); err != nil {
		return
	}
	if *classCount, err = c.U16(); err != nil {
		return
	}
	return otcodec.ReadOffset16(c, marks)
}

// checkMarkClasses verifies that mark classes and anchor matrices agree with
// the mark class count of a subtable.
func checkMarkClasses(table string, classCount uint16, marks *MarkArray, bases *BaseArray, matrices ...*AnchorMatrix) error {
	if marks != nil && marks.maxClass() >= int(classCount) {
		return encodeError(otcodec.MalformedInput, table, "mark class %d exceeds class count %d", marks.maxClass(), classCount)
	}
	if bases != nil {
		matrices = append(matrices, &bases.AnchorMatrix)
	}
	for _, m := range matrices {
		if m != nil && len(m.Rows) > 0 && m.classCount() != int(classCount) {
			return encodeError(otcodec.MalformedInput, table, "anchor rows of %d classes, expected %d", m.classCount(), classCount)
		}
	}
	return nil
}

// --- Types 7, 8 and 9 ------------------------------------------------------

// ContextPos is a contextual positioning.
type ContextPos struct {
	SequenceContext
}

func (*ContextPos) isGPosSubtable()    {}
func (*ContextPos) LookupType() uint16 { return GPosContext }

// ChainedContextPos is a chained contextual positioning.
type ChainedContextPos struct {
	ChainedSequenceContext
}

func (*ChainedContextPos) isGPosSubtable()    {}
func (*ChainedContextPos) LookupType() uint16 { return GPosChainingContext }

// ExtensionPos references a subtable of another lookup type via a 32-bit
// offset.
type ExtensionPos struct {
	ExtensionLookupType uint16
	Extension           otcodec.Offset32[GPosSubtable]
}

func (*ExtensionPos) isGPosSubtable()    {}
func (*ExtensionPos) LookupType() uint16 { return GPosExtension }

func (p *ExtensionPos) Size() int { return 8 }

func (p *ExtensionPos) EncodeShallow(w *otcodec.Writer) error {
	if !p.Extension.IsNull() && p.Extension.Link().LookupType() != p.ExtensionLookupType {
		return encodeError(otcodec.MalformedInput, "ExtensionPos", "extension lookup type %d, but subtable of type %d",
			p.ExtensionLookupType, p.Extension.Link().LookupType())
	}
	w.U16(1)
	w.U16(p.ExtensionLookupType)
	return w.Offset(&p.Extension)
}

func (p *ExtensionPos) Children() []otcodec.OffsetField {
	return []otcodec.OffsetField{&p.Extension}
}

func (p *ExtensionPos) Decode(c *otcodec.Cursor) (err error) {
	if err = expectFormat1(c, "ExtensionPos"); err != nil {
		return
	}
	if p.ExtensionLookupType, err = c.U16(); err != nil {
		return
	}
	return otcodec.ReadOffset32With(c, &p.Extension, func(c *otcodec.Cursor) (GPosSubtable, error) {
		return decodeGPosSubtable(c, p.ExtensionLookupType, true)
	})
}
