package ot

import (
	"maps"
	"slices"

	"github.com/npillmayer/otwire/otcodec"
)

// GSUB lookup types.
const (
	GSubSingle             uint16 = 1
	GSubMultiple           uint16 = 2
	GSubAlternate          uint16 = 3
	GSubLigature           uint16 = 4
	GSubContext            uint16 = 5
	GSubChainingContext    uint16 = 6
	GSubExtension          uint16 = 7
	GSubReverseChainSingle uint16 = 8
)

// GSubSubtable is one of *SingleSubst, *MultipleSubst, *AlternateSubst,
// *LigatureSubst, *ContextSubst, *ChainedContextSubst, *ExtensionSubst or
// *ReverseChainSingleSubst.
type GSubSubtable interface {
	Subtable
	isGSubSubtable()
}

type (
	GSubLookup     = Lookup[GSubSubtable]
	GSubLookupList = LookupList[GSubSubtable]
)

// GSUB is the glyph substitution table, versions 1.0 and 1.1.
// Feature variations of version 1.1 are not supported; version 1.1 tables
// are written with a null feature variations offset.
type GSUB struct {
	MinorVersion uint16
	ScriptList   otcodec.Offset16[*ScriptList]
	FeatureList  otcodec.Offset16[*FeatureList]
	LookupList   otcodec.Offset16[*GSubLookupList]
}

func (t *GSUB) Name() string { return "GSUB" }

func (t *GSUB) Size() int { return layoutHeaderSize(t.MinorVersion) }

func (t *GSUB) EncodeShallow(w *otcodec.Writer) error {
	return encodeLayoutHeader(w, "GSUB", t.MinorVersion, &t.ScriptList, &t.FeatureList, &t.LookupList)
}

func (t *GSUB) Children() []otcodec.OffsetField {
	return []otcodec.OffsetField{&t.ScriptList, &t.FeatureList, &t.LookupList}
}

func (t *GSUB) Decode(c *otcodec.Cursor) (err error) {
	if t.MinorVersion, err = decodeLayoutVersion(c, "GSUB"); err != nil {
		return
	}
	if err = otcodec.ReadOffset16(c, &t.ScriptList); err != nil {
		return
	}
	if err = otcodec.ReadOffset16(c, &t.FeatureList); err != nil {
		return
	}
	err = otcodec.ReadOffset16With(c, &t.LookupList, func(c *otcodec.Cursor) (*GSubLookupList, error) {
		return decodeLookupList[GSubSubtable](c, gsubDecoder)
	})
	if err != nil {
		return
	}
	return decodeFeatureVariations(c, "GSUB", t.MinorVersion)
}

// Lookup returns the lookup at index i, or nil.
func (t *GSUB) Lookup(i int) *GSubLookup {
	if t.LookupList.IsNull() {
		return nil
	}
	return t.LookupList.Link().Lookup(i)
}

// --- shared between GSUB and GPOS ------------------------------------------

func layoutHeaderSize(minor uint16) int {
	if minor == 1 {
		return 14
	}
	return 10
}

func encodeLayoutHeader(w *otcodec.Writer, table string, minor uint16, offsets ...otcodec.OffsetField) error {
	if minor > 1 {
		return encodeError(otcodec.InvalidDiscriminant, table, "unknown version 1.%d", minor)
	}
	w.U16(1)
	w.U16(minor)
	if err := w.Offsets(offsets...); err != nil {
		return err
	}
	if minor == 1 {
		w.U32(0) // feature variations
	}
	return nil
}

func decodeLayoutVersion(c *otcodec.Cursor, table string) (uint16, error) {
	var major, minor uint16
	if err := readU16s(c, &major, &minor); err != nil {
		return 0, err
	}
	if major != 1 || minor > 1 {
		return 0, errorAt(otcodec.InvalidDiscriminant, table, c.Pos()-4, "unknown version %d.%d", major, minor)
	}
	return minor, nil
}

func decodeFeatureVariations(c *otcodec.Cursor, table string, minor uint16) error {
	if minor == 0 {
		return nil
	}
	off, err := c.U32()
	if err != nil {
		return err
	}
	if off != 0 {
		return unsupported(table, c.Pos()-4, "feature variations not supported")
	}
	return nil
}

func gsubDecoder(lookupType uint16) func(*otcodec.Cursor) (GSubSubtable, error) {
	return func(c *otcodec.Cursor) (GSubSubtable, error) {
		return decodeGSubSubtable(c, lookupType, false)
	}
}

func decodeGSubSubtable(c *otcodec.Cursor, lookupType uint16, extended bool) (GSubSubtable, error) {
	var st interface {
		GSubSubtable
		otcodec.Decoder
	}
	switch lookupType {
	case GSubSingle:
		st = &SingleSubst{}
	case GSubMultiple:
		st = &MultipleSubst{}
	case GSubAlternate:
		st = &AlternateSubst{}
	case GSubLigature:
		st = &LigatureSubst{}
	case GSubContext:
		st = &ContextSubst{}
	case GSubChainingContext:
		st = &ChainedContextSubst{}
	case GSubExtension:
		if extended {
			return nil, malformed("ExtensionSubst", c.Pos(), "nested extension subtable")
		}
		st = &ExtensionSubst{}
	case GSubReverseChainSingle:
		st = &ReverseChainSingleSubst{}
	default:
		return nil, errorAt(otcodec.InvalidDiscriminant, "GSUB", c.Pos(), "unknown lookup type %d", lookupType)
	}
	if err := st.Decode(c); err != nil {
		return nil, err
	}
	return st, nil
}

// --- Type 1 ----------------------------------------------------------------

// SingleSubst replaces single glyphs. Format 1 adds DeltaGlyphID to the glyph
// ID (modulo 65536), format 2 lists a substitute per covered glyph.
type SingleSubst struct {
	Format       uint16
	Coverage     otcodec.Offset16[*Coverage]
	DeltaGlyphID int16        // format 1
	Substitutes  []GlyphIndex // format 2
}

// NewSingleSubst creates a single substitution, in format 1 if all glyphs are
// shifted by the same amount.
func NewSingleSubst(mapping map[GlyphIndex]GlyphIndex) *SingleSubst {
	glyphs := slices.Sorted(maps.Keys(mapping))
	s := &SingleSubst{Coverage: otcodec.To16(&Coverage{Glyphs: glyphs})}
	uniform := len(glyphs) > 0
	for _, g := range glyphs {
		if mapping[g]-g != mapping[glyphs[0]]-glyphs[0] {
			uniform = false
			break
		}
	}
	if uniform {
		s.Format = 1
		s.DeltaGlyphID = int16(mapping[glyphs[0]] - glyphs[0])
		return s
	}
	s.Format = 2
	for _, g := range glyphs {
		s.Substitutes = append(s.Substitutes, mapping[g])
	}
	return s
}

func (*SingleSubst) isGSubSubtable()    {}
func (*SingleSubst) LookupType() uint16 { return GSubSingle }

func (s *SingleSubst) Size() int {
	if s.Format == 1 {
		return 6
	}
	return 6 + 2*len(s.Substitutes)
}

func (s *SingleSubst) EncodeShallow(w *otcodec.Writer) error {
	if err := checkFormat("SingleSubst", s.Format, 1, 2); err != nil {
		return err
	}
	w.U16(s.Format)
	if err := w.Offset(&s.Coverage); err != nil {
		return err
	}
	if s.Format == 1 {
		w.I16(s.DeltaGlyphID)
		return nil
	}
	return writeGlyphs(w, s.Substitutes)
}

func (s *SingleSubst) Children() []otcodec.OffsetField { return []otcodec.OffsetField{&s.Coverage} }

func (s *SingleSubst) Decode(c *otcodec.Cursor) (err error) {
	if s.Format, err = c.U16(); err != nil {
		return
	}
	if s.Format != 1 && s.Format != 2 {
		return badFormat("SingleSubst", c, s.Format)
	}
	if err = otcodec.ReadOffset16(c, &s.Coverage); err != nil {
		return
	}
	if s.Format == 1 {
		s.DeltaGlyphID, err = c.I16()
		return
	}
	s.Substitutes, err = readGlyphs(c)
	return
}

// --- Types 2 and 3 ---------------------------------------------------------

// MultipleSubst replaces a glyph by a sequence of glyphs, one sequence per
// covered glyph.
type MultipleSubst struct {
	Coverage  otcodec.Offset16[*Coverage]
	Sequences []otcodec.Offset16[*Sequence]
}

func (*MultipleSubst) isGSubSubtable()    {}
func (*MultipleSubst) LookupType() uint16 { return GSubMultiple }

func (s *MultipleSubst) Size() int { return 6 + 2*len(s.Sequences) }

func (s *MultipleSubst) EncodeShallow(w *otcodec.Writer) error {
	w.U16(1)
	if err := w.Offset(&s.Coverage); err != nil {
		return err
	}
	return writeCountedOffsets(w, s.Sequences)
}

func (s *MultipleSubst) Children() []otcodec.OffsetField {
	return append([]otcodec.OffsetField{&s.Coverage}, fields16(s.Sequences)...)
}

func (s *MultipleSubst) Decode(c *otcodec.Cursor) error {
	if err := expectFormat1(c, "MultipleSubst"); err != nil {
		return err
	}
	if err := otcodec.ReadOffset16(c, &s.Coverage); err != nil {
		return err
	}
	var err error
	s.Sequences, err = readCountedOffsets[Sequence](c)
	return err
}

// AlternateSubst offers alternative glyphs, one set per covered glyph.
type AlternateSubst struct {
	Coverage      otcodec.Offset16[*Coverage]
	AlternateSets []otcodec.Offset16[*AlternateSet]
}

func (*AlternateSubst) isGSubSubtable()    {}
func (*AlternateSubst) LookupType() uint16 { return GSubAlternate }

func (s *AlternateSubst) Size() int { return 6 + 2*len(s.AlternateSets) }

func (s *AlternateSubst) EncodeShallow(w *otcodec.Writer) error {
	w.U16(1)
	if err := w.Offset(&s.Coverage); err != nil {
		return err
	}
	return writeCountedOffsets(w, s.AlternateSets)
}

func (s *AlternateSubst) Children() []otcodec.OffsetField {
	return append([]otcodec.OffsetField{&s.Coverage}, fields16(s.AlternateSets)...)
}

func (s *AlternateSubst) Decode(c *otcodec.Cursor) error {
	if err := expectFormat1(c, "AlternateSubst"); err != nil {
		return err
	}
	if err := otcodec.ReadOffset16(c, &s.Coverage); err != nil {
		return err
	}
	var err error
	s.AlternateSets, err = readCountedOffsets[AlternateSet](c)
	return err
}

// Sequence is the output sequence of a multiple substitution.
type Sequence struct {
	Glyphs []GlyphIndex
}

func (s *Sequence) Size() int                             { return 2 + 2*len(s.Glyphs) }
func (s *Sequence) EncodeShallow(w *otcodec.Writer) error { return writeGlyphs(w, s.Glyphs) }
func (s *Sequence) Children() []otcodec.OffsetField       { return nil }

func (s *Sequence) Decode(c *otcodec.Cursor) (err error) {
	s.Glyphs, err = readGlyphs(c)
	return
}

// AlternateSet lists the alternatives for a glyph.
type AlternateSet struct {
	Glyphs []GlyphIndex
}

func (s *AlternateSet) Size() int                             { return 2 + 2*len(s.Glyphs) }
func (s *AlternateSet) EncodeShallow(w *otcodec.Writer) error { return writeGlyphs(w, s.Glyphs) }
func (s *AlternateSet) Children() []otcodec.OffsetField       { return nil }

func (s *AlternateSet) Decode(c *otcodec.Cursor) (err error) {
	s.Glyphs, err = readGlyphs(c)
	return
}

// --- Type 4 ----------------------------------------------------------------

// LigatureSubst replaces glyph sequences by ligatures. There is one ligature
// set per covered (first) glyph.
type LigatureSubst struct {
	Coverage     otcodec.Offset16[*Coverage]
	LigatureSets []otcodec.Offset16[*LigatureSet]
}

func (*LigatureSubst) isGSubSubtable()    {}
func (*LigatureSubst) LookupType() uint16 { return GSubLigature }

func (s *LigatureSubst) Size() int { return 6 + 2*len(s.LigatureSets) }

func (s *LigatureSubst) EncodeShallow(w *otcodec.Writer) error {
	w.U16(1)
	if err := w.Offset(&s.Coverage); err != nil {
		return err
	}
	return writeCountedOffsets(w, s.LigatureSets)
}

func (s *LigatureSubst) Children() []otcodec.OffsetField {
	return append([]otcodec.OffsetField{&s.Coverage}, fields16(s.LigatureSets)...)
}

func (s *LigatureSubst) Decode(c *otcodec.Cursor) error {
	if err := expectFormat1(c, "LigatureSubst"); err != nil {
		return err
	}
	if err := otcodec.ReadOffset16(c, &s.Coverage); err != nil {
		return err
	}
	var err error
	s.LigatureSets, err = readCountedOffsets[LigatureSet](c)
	return err
}

// LigatureSet holds the ligatures starting with the same glyph, in order of
// preference.
type LigatureSet struct {
	Ligatures []otcodec.Offset16[*Ligature]
}

func (s *LigatureSet) Size() int                             { return 2 + 2*len(s.Ligatures) }
func (s *LigatureSet) EncodeShallow(w *otcodec.Writer) error { return writeCountedOffsets(w, s.Ligatures) }
func (s *LigatureSet) Children() []otcodec.OffsetField       { return fields16(s.Ligatures) }

func (s *LigatureSet) Decode(c *otcodec.Cursor) (err error) {
	s.Ligatures, err = readCountedOffsets[Ligature](c)
	return
}

// Ligature is a ligature glyph and its components, without the first one.
type Ligature struct {
	Glyph      GlyphIndex
	Components []GlyphIndex
}

func (l *Ligature) Size() int { return 4 + 2*len(l.Components) }

func (l *Ligature) EncodeShallow(w *otcodec.Writer) error {
	w.GlyphID(l.Glyph)
	if err := w.Count(len(l.Components) + 1); err != nil {
		return err
	}
	w.GlyphIDs(l.Components)
	return nil
}

func (l *Ligature) Children() []otcodec.OffsetField { return nil }

func (l *Ligature) Decode(c *otcodec.Cursor) (err error) {
	var count uint16
	if l.Glyph, err = c.GlyphID(); err != nil {
		return
	}
	if count, err = c.U16(); err != nil {
		return
	}
	if count == 0 {
		return malformed("Ligature", c.Pos()-2, "ligature without components")
	}
	l.Components, err = c.GlyphIDs(int(count) - 1)
	return
}

// --- Types 5 and 6 ---------------------------------------------------------

// ContextSubst is a contextual substitution.
type ContextSubst struct {
	SequenceContext
}

func (*ContextSubst) isGSubSubtable()    {}
func (*ContextSubst) LookupType() uint16 { return GSubContext }

// ChainedContextSubst is a chained contextual substitution.
type ChainedContextSubst struct {
	ChainedSequenceContext
}

func (*ChainedContextSubst) isGSubSubtable()    {}
func (*ChainedContextSubst) LookupType() uint16 { return GSubChainingContext }

// --- Type 7 ----------------------------------------------------------------

// ExtensionSubst references a subtable of another lookup type via a 32-bit
// offset.
type ExtensionSubst struct {
	ExtensionLookupType uint16
	Extension           otcodec.Offset32[GSubSubtable]
}

func (*ExtensionSubst) isGSubSubtable()    {}
func (*ExtensionSubst) LookupType() uint16 { return GSubExtension }

func (s *ExtensionSubst) Size() int { return 8 }

func (s *ExtensionSubst) EncodeShallow(w *otcodec.Writer) error {
	if !s.Extension.IsNull() && s.Extension.Link().LookupType() != s.ExtensionLookupType {
		return encodeError(otcodec.MalformedInput, "ExtensionSubst", "extension lookup type %d, but subtable of type %d",
			s.ExtensionLookupType, s.Extension.Link().LookupType())
	}
	w.U16(1)
	w.U16(s.ExtensionLookupType)
	return w.Offset(&s.Extension)
}

func (s *ExtensionSubst) Children() []otcodec.OffsetField {
	return []otcodec.OffsetField{&s.Extension}
}

func (s *ExtensionSubst) Decode(c *otcodec.Cursor) (err error) {
	if err = expectFormat1(c, "ExtensionSubst"); err != nil {
		return
	}
	if s.ExtensionLookupType, err = c.U16(); err != nil {
		return
	}
	return otcodec.ReadOffset32With(c, &s.Extension, func(c *otcodec.Cursor) (GSubSubtable, error) {
		return decodeGSubSubtable(c, s.ExtensionLookupType, true)
	})
}

// --- Type 8 ----------------------------------------------------------------

// ReverseChainSingleSubst is a reverse chaining contextual single
// substitution.
type ReverseChainSingleSubst struct {
	Coverage           otcodec.Offset16[*Coverage]
	BacktrackCoverages []otcodec.Offset16[*Coverage]
	LookaheadCoverages []otcodec.Offset16[*Coverage]
	Substitutes        []GlyphIndex
}

func (*ReverseChainSingleSubst) isGSubSubtable()    {}
func (*ReverseChainSingleSubst) LookupType() uint16 { return GSubReverseChainSingle }

func (s *ReverseChainSingleSubst) Size() int {
	return 10 + 2*(len(s.BacktrackCoverages)+len(s.LookaheadCoverages)+len(s.Substitutes))
}

func (s *ReverseChainSingleSubst) EncodeShallow(w *otcodec.Writer) error {
	w.U16(1)
	if err := w.Offset(&s.Coverage); err != nil {
		return err
	}
	if err := writeCountedOffsets(w, s.BacktrackCoverages); err != nil {
		return err
	}
	if err := writeCountedOffsets(w, s.LookaheadCoverages); err != nil {
		return err
	}
	return writeGlyphs(w, s.Substitutes)
}

func (s *ReverseChainSingleSubst) Children() []otcodec.OffsetField {
	fields := []otcodec.OffsetField{&s.Coverage}
	fields = append(fields, fields16(s.BacktrackCoverages)...)
	return append(fields, fields16(s.LookaheadCoverages)...)
}

func (s *ReverseChainSingleSubst) Decode(c *otcodec.Cursor) (err error) {
	if err = expectFormat1(c, "ReverseChainSingleSubst"); err != nil {
		return
	}
	if err = otcodec.ReadOffset16(c, &s.Coverage); err != nil {
		return
	}
	if s.BacktrackCoverages, err = readCountedOffsets[Coverage](c); err != nil {
		return
	}
	if s.LookaheadCoverages, err = readCountedOffsets[Coverage](c); err != nil {
		return
	}
	s.Substitutes, err = readGlyphs(c)
	return
}

func expectFormat1(c *otcodec.Cursor, table string) error {
	format, err := c.U16()
	if err != nil {
		return err
	}
	if format != 1 {
		return badFormat(table, c, format)
	}
	return nil
}
