package ot

import "github.com/npillmayer/otwire/otcodec"

// SequenceLookupRecord applies a lookup at a position of a matched sequence.
type SequenceLookupRecord struct {
	SequenceIndex   uint16
	LookupListIndex uint16
}

func writeLookupRecords(w *otcodec.Writer, recs []SequenceLookupRecord) {
	for _, r := range recs {
		w.U16(r.SequenceIndex)
		w.U16(r.LookupListIndex)
	}
}

func readLookupRecords(c *otcodec.Cursor, n int) ([]SequenceLookupRecord, error) {
	vals, err := c.U16s(2 * n)
	if err != nil || vals == nil {
		return nil, err
	}
	recs := make([]SequenceLookupRecord, n)
	for i := range recs {
		recs[i] = SequenceLookupRecord{SequenceIndex: vals[2*i], LookupListIndex: vals[2*i+1]}
	}
	return recs, nil
}

// --- Sequence context ------------------------------------------------------

// SequenceContext is the common structure of contextual substitution
// (GSUB type 5) and contextual positioning (GPOS type 7).
//
// Format 1 matches glyph sequences, format 2 class sequences (rule sets are
// indexed by the class of the first glyph), format 3 coverage sequences.
type SequenceContext struct {
	Format        uint16
	Coverage      otcodec.Offset16[*Coverage]          // formats 1, 2
	ClassDef      otcodec.Offset16[*ClassDef]          // format 2
	RuleSets      []otcodec.Offset16[*SequenceRuleSet] // formats 1, 2
	Coverages     []otcodec.Offset16[*Coverage]        // format 3
	LookupRecords []SequenceLookupRecord               // format 3
}

func (sc *SequenceContext) Size() int {
	switch sc.Format {
	case 1:
		return 6 + 2*len(sc.RuleSets)
	case 2:
		return 8 + 2*len(sc.RuleSets)
	}
	return 6 + 2*len(sc.Coverages) + 4*len(sc.LookupRecords)
}

func (sc *SequenceContext) EncodeShallow(w *otcodec.Writer) error {
	if err := checkFormat("SequenceContext", sc.Format, 1, 2, 3); err != nil {
		return err
	}
	w.U16(sc.Format)
	switch sc.Format {
	case 1, 2:
		if err := w.Offset(&sc.Coverage); err != nil {
			return err
		}
		if sc.Format == 2 {
			if err := w.Offset(&sc.ClassDef); err != nil {
				return err
			}
		}
		return writeCountedOffsets(w, sc.RuleSets)
	}
	if err := w.Count(len(sc.Coverages)); err != nil {
		return err
	}
	if err := w.Count(len(sc.LookupRecords)); err != nil {
		return err
	}
	for i := range sc.Coverages {
		if err := w.Offset(&sc.Coverages[i]); err != nil {
			return err
		}
	}
	writeLookupRecords(w, sc.LookupRecords)
	return nil
}

func (sc *SequenceContext) Children() []otcodec.OffsetField {
	switch sc.Format {
	case 1:
		return append([]otcodec.OffsetField{&sc.Coverage}, fields16(sc.RuleSets)...)
	case 2:
		return append([]otcodec.OffsetField{&sc.Coverage, &sc.ClassDef}, fields16(sc.RuleSets)...)
	}
	return fields16(sc.Coverages)
}

func (sc *SequenceContext) Decode(c *otcodec.Cursor) (err error) {
	if sc.Format, err = c.U16(); err != nil {
		return
	}
	switch sc.Format {
	case 1, 2:
		if err = otcodec.ReadOffset16(c, &sc.Coverage); err != nil {
			return
		}
		if sc.Format == 2 {
			if err = otcodec.ReadOffset16(c, &sc.ClassDef); err != nil {
				return
			}
		}
		sc.RuleSets, err = readCountedOffsets[SequenceRuleSet](c)
		return
	case 3:
		var glyphCount, lookupCount uint16
		if err = readU16s(c, &glyphCount, &lookupCount); err != nil {
			return
		}
		if sc.Coverages, err = otcodec.ReadOffset16s[Coverage](c, int(glyphCount)); err != nil {
			return
		}
		sc.LookupRecords, err = readLookupRecords(c, int(lookupCount))
		return
	}
	return badFormat("SequenceContext", c, sc.Format)
}

// SequenceRuleSet is a set of rules sharing the first glyph (or class).
type SequenceRuleSet struct {
	Rules []otcodec.Offset16[*SequenceRule]
}

func (rs *SequenceRuleSet) Size() int                             { return 2 + 2*len(rs.Rules) }
func (rs *SequenceRuleSet) EncodeShallow(w *otcodec.Writer) error { return writeCountedOffsets(w, rs.Rules) }
func (rs *SequenceRuleSet) Children() []otcodec.OffsetField       { return fields16(rs.Rules) }

func (rs *SequenceRuleSet) Decode(c *otcodec.Cursor) (err error) {
	rs.Rules, err = readCountedOffsets[SequenceRule](c)
	return
}

// SequenceRule matches an input sequence following the first glyph.
// Input holds glyph IDs (format 1) or classes (format 2) of the second and
// subsequent positions.
type SequenceRule struct {
	Input         []uint16
	LookupRecords []SequenceLookupRecord
}

func (r *SequenceRule) Size() int { return 4 + 2*len(r.Input) + 4*len(r.LookupRecords) }

func (r *SequenceRule) EncodeShallow(w *otcodec.Writer) error {
	if err := w.Count(len(r.Input) + 1); err != nil {
		return err
	}
	if err := w.Count(len(r.LookupRecords)); err != nil {
		return err
	}
	w.U16s(r.Input)
	writeLookupRecords(w, r.LookupRecords)
	return nil
}

func (r *SequenceRule) Children() []otcodec.OffsetField { return nil }

func (r *SequenceRule) Decode(c *otcodec.Cursor) (err error) {
	var glyphCount, lookupCount uint16
	if err = readU16s(c, &glyphCount, &lookupCount); err != nil {
		return
	}
	if glyphCount == 0 {
		return malformed("SequenceRule", c.Pos()-4, "empty input sequence")
	}
	if r.Input, err = c.U16s(int(glyphCount) - 1); err != nil {
		return
	}
	r.LookupRecords, err = readLookupRecords(c, int(lookupCount))
	return
}

// --- Chained sequence context ----------------------------------------------

// ChainedSequenceContext is the common structure of chained contextual
// substitution (GSUB type 6) and chained contextual positioning (GPOS type 8).
type ChainedSequenceContext struct {
	Format             uint16
	Coverage           otcodec.Offset16[*Coverage]                 // formats 1, 2
	BacktrackClassDef  otcodec.Offset16[*ClassDef]                 // format 2
	InputClassDef      otcodec.Offset16[*ClassDef]                 // format 2
	LookaheadClassDef  otcodec.Offset16[*ClassDef]                 // format 2
	RuleSets           []otcodec.Offset16[*ChainedSequenceRuleSet] // formats 1, 2
	BacktrackCoverages []otcodec.Offset16[*Coverage]               // format 3
	InputCoverages     []otcodec.Offset16[*Coverage]               // format 3
	LookaheadCoverages []otcodec.Offset16[*Coverage]               // format 3
	LookupRecords      []SequenceLookupRecord                      // format 3
}

func (sc *ChainedSequenceContext) Size() int {
	switch sc.Format {
	case 1:
		return 6 + 2*len(sc.RuleSets)
	case 2:
		return 12 + 2*len(sc.RuleSets)
	}
	return 10 + 2*(len(sc.BacktrackCoverages)+len(sc.InputCoverages)+len(sc.LookaheadCoverages)) +
		4*len(sc.LookupRecords)
}

func (sc *ChainedSequenceContext) EncodeShallow(w *otcodec.Writer) error {
	if err := checkFormat("ChainedSequenceContext", sc.Format, 1, 2, 3); err != nil {
		return err
	}
	w.U16(sc.Format)
	switch sc.Format {
	case 1:
		if err := w.Offset(&sc.Coverage); err != nil {
			return err
		}
		return writeCountedOffsets(w, sc.RuleSets)
	case 2:
		err := w.Offsets(&sc.Coverage, &sc.BacktrackClassDef, &sc.InputClassDef, &sc.LookaheadClassDef)
		if err != nil {
			return err
		}
		return writeCountedOffsets(w, sc.RuleSets)
	}
	for _, covs := range [][]otcodec.Offset16[*Coverage]{sc.BacktrackCoverages, sc.InputCoverages, sc.LookaheadCoverages} {
		if err := writeCountedOffsets(w, covs); err != nil {
			return err
		}
	}
	if err := w.Count(len(sc.LookupRecords)); err != nil {
		return err
	}
	writeLookupRecords(w, sc.LookupRecords)
	return nil
}

func (sc *ChainedSequenceContext) Children() []otcodec.OffsetField {
	switch sc.Format {
	case 1:
		return append([]otcodec.OffsetField{&sc.Coverage}, fields16(sc.RuleSets)...)
	case 2:
		fields := []otcodec.OffsetField{&sc.Coverage, &sc.BacktrackClassDef, &sc.InputClassDef, &sc.LookaheadClassDef}
		return append(fields, fields16(sc.RuleSets)...)
	}
	fields := fields16(sc.BacktrackCoverages)
	fields = append(fields, fields16(sc.InputCoverages)...)
	return append(fields, fields16(sc.LookaheadCoverages)...)
}

func (sc *ChainedSequenceContext) Decode(c *otcodec.Cursor) (err error) {
	if sc.Format, err = c.U16(); err != nil {
		return
	}
	switch sc.Format {
	case 1:
		if err = otcodec.ReadOffset16(c, &sc.Coverage); err != nil {
			return
		}
		sc.RuleSets, err = readCountedOffsets[ChainedSequenceRuleSet](c)
		return
	case 2:
		if err = otcodec.ReadOffset16(c, &sc.Coverage); err != nil {
			return
		}
		for _, cd := range []*otcodec.Offset16[*ClassDef]{&sc.BacktrackClassDef, &sc.InputClassDef, &sc.LookaheadClassDef} {
			if err = otcodec.ReadOffset16(c, cd); err != nil {
				return
			}
		}
		sc.RuleSets, err = readCountedOffsets[ChainedSequenceRuleSet](c)
		return
	case 3:
		for _, covs := range []*[]otcodec.Offset16[*Coverage]{&sc.BacktrackCoverages, &sc.InputCoverages, &sc.LookaheadCoverages} {
			if *covs, err = readCountedOffsets[Coverage](c); err != nil {
				return
			}
		}
		n, err := readCount(c)
		if err != nil {
			return err
		}
		sc.LookupRecords, err = readLookupRecords(c, n)
		return err
	}
	return badFormat("ChainedSequenceContext", c, sc.Format)
}

// ChainedSequenceRuleSet is a set of chained rules sharing the first glyph
// (or class).
type ChainedSequenceRuleSet struct {
	Rules []otcodec.Offset16[*ChainedSequenceRule]
}

func (rs *ChainedSequenceRuleSet) Size() int                             { return 2 + 2*len(rs.Rules) }
func (rs *ChainedSequenceRuleSet) EncodeShallow(w *otcodec.Writer) error { return writeCountedOffsets(w, rs.Rules) }
func (rs *ChainedSequenceRuleSet) Children() []otcodec.OffsetField       { return fields16(rs.Rules) }

func (rs *ChainedSequenceRuleSet) Decode(c *otcodec.Cursor) (err error) {
	rs.Rules, err = readCountedOffsets[ChainedSequenceRule](c)
	return
}

// ChainedSequenceRule matches backtrack, input and lookahead sequences.
// Input does not include the first glyph, which is matched by coverage.
type ChainedSequenceRule struct {
	Backtrack     []uint16
	Input         []uint16
	Lookahead     []uint16
	LookupRecords []SequenceLookupRecord
}

func (r *ChainedSequenceRule) Size() int {
	return 8 + 2*(len(r.Backtrack)+len(r.Input)+len(r.Lookahead)) + 4*len(r.LookupRecords)
}

func (r *ChainedSequenceRule) EncodeShallow(w *otcodec.Writer) error {
	if err := writeU16s(w, r.Backtrack); err != nil {
		return err
	}
	if err := w.Count(len(r.Input) + 1); err != nil {
		return err
	}
	w.U16s(r.Input)
	if err := writeU16s(w, r.Lookahead); err != nil {
		return err
	}
	if err := w.Count(len(r.LookupRecords)); err != nil {
		return err
	}
	writeLookupRecords(w, r.LookupRecords)
	return nil
}

func (r *ChainedSequenceRule) Children() []otcodec.OffsetField { return nil }

func (r *ChainedSequenceRule) Decode(c *otcodec.Cursor) (err error) {
	if r.Backtrack, err = readU16Array(c); err != nil {
		return
	}
	inputCount, err := c.U16()
	if err != nil {
		return
	}
	if inputCount == 0 {
		return malformed("ChainedSequenceRule", c.Pos()-2, "empty input sequence")
	}
	if r.Input, err = c.U16s(int(inputCount) - 1); err != nil {
		return
	}
	if r.Lookahead, err = readU16Array(c); err != nil {
		return
	}
	n, err := readCount(c)
	if err != nil {
		return
	}
	r.LookupRecords, err = readLookupRecords(c, n)
	return
}
