package ot

import "github.com/npillmayer/otwire/otcodec"

// --- Script list -----------------------------------------------------------

// ScriptList is the list of scripts supported by a GSUB or GPOS table.
type ScriptList struct {
	Records []ScriptRecord
}

// ScriptRecord is an inline record of a ScriptList.
type ScriptRecord struct {
	Tag    Tag
	Script otcodec.Offset16[*Script]
}

// Script returns the script table for a script tag, or nil.
func (sl *ScriptList) Script(tag Tag) *Script {
	for _, rec := range sl.Records {
		if rec.Tag == tag {
			return rec.Script.Link()
		}
	}
	return nil
}

func (sl *ScriptList) Size() int { return 2 + 6*len(sl.Records) }

func (sl *ScriptList) EncodeShallow(w *otcodec.Writer) error {
	if err := w.Count(len(sl.Records)); err != nil {
		return err
	}
	for i := range sl.Records {
		w.Tag(sl.Records[i].Tag)
		if err := w.Offset(&sl.Records[i].Script); err != nil {
			return err
		}
	}
	return nil
}

func (sl *ScriptList) Children() []otcodec.OffsetField {
	fields := make([]otcodec.OffsetField, len(sl.Records))
	for i := range sl.Records {
		fields[i] = &sl.Records[i].Script
	}
	return fields
}

func (sl *ScriptList) Decode(c *otcodec.Cursor) error {
	n, err := readCount(c)
	if err != nil {
		return err
	}
	if n > c.Remaining()/6 {
		return malformed("ScriptList", c.Pos(), "%d script records exceed table", n)
	}
	sl.Records = makeSlice[ScriptRecord](n)
	for i := range sl.Records {
		if sl.Records[i].Tag, err = c.Tag(); err != nil {
			return err
		}
		if err = otcodec.ReadOffset16(c, &sl.Records[i].Script); err != nil {
			return err
		}
	}
	return nil
}

// Script is a script table: a default language system and a list of
// language-specific language systems.
type Script struct {
	DefaultLangSys otcodec.Offset16[*LangSys]
	LangSys        []LangSysRecord
}

// LangSysRecord is an inline record of a Script.
type LangSysRecord struct {
	Tag     Tag
	LangSys otcodec.Offset16[*LangSys]
}

func (s *Script) Size() int { return 4 + 6*len(s.LangSys) }

func (s *Script) EncodeShallow(w *otcodec.Writer) error {
	if err := w.Offset(&s.DefaultLangSys); err != nil {
		return err
	}
	if err := w.Count(len(s.LangSys)); err != nil {
		return err
	}
	for i := range s.LangSys {
		w.Tag(s.LangSys[i].Tag)
		if err := w.Offset(&s.LangSys[i].LangSys); err != nil {
			return err
		}
	}
	return nil
}

func (s *Script) Children() []otcodec.OffsetField {
	fields := []otcodec.OffsetField{&s.DefaultLangSys}
	for i := range s.LangSys {
		fields = append(fields, &s.LangSys[i].LangSys)
	}
	return fields
}

func (s *Script) Decode(c *otcodec.Cursor) error {
	if err := otcodec.ReadOffset16(c, &s.DefaultLangSys); err != nil {
		return err
	}
	n, err := readCount(c)
	if err != nil {
		return err
	}
	if n > c.Remaining()/6 {
		return malformed("Script", c.Pos(), "%d language records exceed table", n)
	}
	s.LangSys = makeSlice[LangSysRecord](n)
	for i := range s.LangSys {
		if s.LangSys[i].Tag, err = c.Tag(); err != nil {
			return err
		}
		if err = otcodec.ReadOffset16(c, &s.LangSys[i].LangSys); err != nil {
			return err
		}
	}
	return nil
}

// NoRequiredFeature is the RequiredFeatureIndex of a language system without
// a required feature.
const NoRequiredFeature uint16 = 0xffff

// LangSys is a language system table, selecting features by index into the
// feature list.
type LangSys struct {
	LookupOrder          uint16 // reserved, 0
	RequiredFeatureIndex uint16
	FeatureIndices       []uint16
}

func (ls *LangSys) Size() int { return 6 + 2*len(ls.FeatureIndices) }

func (ls *LangSys) EncodeShallow(w *otcodec.Writer) error {
	w.U16(ls.LookupOrder)
	w.U16(ls.RequiredFeatureIndex)
	return writeU16s(w, ls.FeatureIndices)
}

func (ls *LangSys) Children() []otcodec.OffsetField { return nil }

func (ls *LangSys) Decode(c *otcodec.Cursor) (err error) {
	if err = readU16s(c, &ls.LookupOrder, &ls.RequiredFeatureIndex); err != nil {
		return
	}
	ls.FeatureIndices, err = readU16Array(c)
	return
}

// --- Feature list ----------------------------------------------------------

// FeatureList is the list of features of a GSUB or GPOS table.
type FeatureList struct {
	Records []FeatureRecord
}

// FeatureRecord is an inline record of a FeatureList.
type FeatureRecord struct {
	Tag     Tag
	Feature otcodec.Offset16[*Feature]
}

func (fl *FeatureList) Size() int { return 2 + 6*len(fl.Records) }

func (fl *FeatureList) EncodeShallow(w *otcodec.Writer) error {
	if err := w.Count(len(fl.Records)); err != nil {
		return err
	}
	for i := range fl.Records {
		w.Tag(fl.Records[i].Tag)
		if err := w.Offset(&fl.Records[i].Feature); err != nil {
			return err
		}
	}
	return nil
}

func (fl *FeatureList) Children() []otcodec.OffsetField {
	fields := make([]otcodec.OffsetField, len(fl.Records))
	for i := range fl.Records {
		fields[i] = &fl.Records[i].Feature
	}
	return fields
}

func (fl *FeatureList) Decode(c *otcodec.Cursor) error {
	n, err := readCount(c)
	if err != nil {
		return err
	}
	if n > c.Remaining()/6 {
		return malformed("FeatureList", c.Pos(), "%d feature records exceed table", n)
	}
	fl.Records = makeSlice[FeatureRecord](n)
	for i := range fl.Records {
		rec := &fl.Records[i]
		if rec.Tag, err = c.Tag(); err != nil {
			return err
		}
		// feature parameters depend on the feature tag
		err = otcodec.ReadOffset16With(c, &rec.Feature, func(c *otcodec.Cursor) (*Feature, error) {
			f := &Feature{}
			return f, f.decode(c, rec.Tag)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Feature is a feature table: the lookups implementing a feature, plus
// optional feature parameters.
type Feature struct {
	FeatureParams otcodec.Offset16[FeatureParams]
	LookupIndices []uint16
}

func (f *Feature) Size() int { return 4 + 2*len(f.LookupIndices) }

func (f *Feature) EncodeShallow(w *otcodec.Writer) error {
	if err := w.Offset(&f.FeatureParams); err != nil {
		return err
	}
	return writeU16s(w, f.LookupIndices)
}

func (f *Feature) Children() []otcodec.OffsetField {
	return []otcodec.OffsetField{&f.FeatureParams}
}

func (f *Feature) decode(c *otcodec.Cursor, tag Tag) (err error) {
	err = otcodec.ReadOffset16With(c, &f.FeatureParams, func(c *otcodec.Cursor) (FeatureParams, error) {
		return decodeFeatureParams(c, tag)
	})
	if err != nil {
		return
	}
	f.LookupIndices, err = readU16Array(c)
	return
}

// --- Feature parameters ----------------------------------------------------

// FeatureParams is one of *SizeParams, *StylisticSetParams or
// *CharacterVariantParams. Which one applies depends on the feature tag.
type FeatureParams interface {
	otcodec.Node
	isFeatureParams()
}

// SizeParams are the parameters of the 'size' feature.
type SizeParams struct {
	DesignSize          uint16 // in decipoints
	SubfamilyIdentifier uint16
	SubfamilyNameID     uint16
	RangeStart          uint16
	RangeEnd            uint16
}

// StylisticSetParams are the parameters of the 'ss01'…'ss20' features.
type StylisticSetParams struct {
	Version  uint16
	UINameID uint16
}

// CharacterVariantParams are the parameters of the 'cv01'…'cv99' features.
type CharacterVariantParams struct {
	Format                  uint16
	FeatUILabelNameID       uint16
	FeatUITooltipTextNameID uint16
	SampleTextNameID        uint16
	NumNamedParameters      uint16
	FirstParamUILabelNameID uint16
	Characters              []otcodec.Uint24 // Unicode code points
}

func (*SizeParams) isFeatureParams()             {}
func (*StylisticSetParams) isFeatureParams()     {}
func (*CharacterVariantParams) isFeatureParams() {}

func (p *SizeParams) Size() int                       { return 10 }
func (p *SizeParams) Children() []otcodec.OffsetField { return nil }

func (p *SizeParams) EncodeShallow(w *otcodec.Writer) error {
	w.U16s([]uint16{p.DesignSize, p.SubfamilyIdentifier, p.SubfamilyNameID, p.RangeStart, p.RangeEnd})
	return nil
}

func (p *StylisticSetParams) Size() int                       { return 4 }
func (p *StylisticSetParams) Children() []otcodec.OffsetField { return nil }

func (p *StylisticSetParams) EncodeShallow(w *otcodec.Writer) error {
	w.U16(p.Version)
	w.U16(p.UINameID)
	return nil
}

func (p *CharacterVariantParams) Size() int                       { return 14 + 3*len(p.Characters) }
func (p *CharacterVariantParams) Children() []otcodec.OffsetField { return nil }

func (p *CharacterVariantParams) EncodeShallow(w *otcodec.Writer) error {
	w.U16s([]uint16{p.Format, p.FeatUILabelNameID, p.FeatUITooltipTextNameID,
		p.SampleTextNameID, p.NumNamedParameters, p.FirstParamUILabelNameID})
	if err := w.Count(len(p.Characters)); err != nil {
		return err
	}
	for _, ch := range p.Characters {
		if ch > otcodec.MaxUint24 {
			return encodeError(otcodec.ValueOutOfWidth, "CharacterVariantParams", "character %#x exceeds 24 bits", ch)
		}
		w.U24(ch)
	}
	return nil
}

func decodeFeatureParams(c *otcodec.Cursor, tag Tag) (FeatureParams, error) {
	name := tag.String()
	switch {
	case name == "size":
		p := &SizeParams{}
		err := readU16s(c, &p.DesignSize, &p.SubfamilyIdentifier, &p.SubfamilyNameID, &p.RangeStart, &p.RangeEnd)
		return p, err
	case isNumberedFeature(name, "ss", 1, 20):
		p := &StylisticSetParams{}
		return p, readU16s(c, &p.Version, &p.UINameID)
	case isNumberedFeature(name, "cv", 1, 99):
		p := &CharacterVariantParams{}
		err := readU16s(c, &p.Format, &p.FeatUILabelNameID, &p.FeatUITooltipTextNameID,
			&p.SampleTextNameID, &p.NumNamedParameters, &p.FirstParamUILabelNameID)
		if err != nil {
			return nil, err
		}
		n, err := readCount(c)
		if err != nil {
			return nil, err
		}
		if n > c.Remaining()/3 {
			return nil, malformed("CharacterVariantParams", c.Pos(), "%d characters exceed table", n)
		}
		p.Characters = makeSlice[otcodec.Uint24](n)
		for i := range p.Characters {
			if p.Characters[i], err = c.U24(); err != nil {
				return nil, err
			}
		}
		return p, nil
	}
	return nil, unsupported("Feature", c.Pos(), "feature parameters for feature '%s'", name)
}

func isNumberedFeature(name, prefix string, lo, hi int) bool {
	if len(name) != 4 || name[:2] != prefix {
		return false
	}
	d1, d2 := name[2], name[3]
	if d1 < '0' || d1 > '9' || d2 < '0' || d2 > '9' {
		return false
	}
	n := int(d1-'0')*10 + int(d2-'0')
	return n >= lo && n <= hi
}

func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, n)
}
