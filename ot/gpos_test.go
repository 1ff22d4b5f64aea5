package ot

import (
	"errors"
	"testing"

	"github.com/npillmayer/otwire/otcodec"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

const markBaseFixture = `00 01 00 0C 00 14 00 02 00 1A 00 30
	00 01 00 02 03 33 03 3F
	00 01 00 01 01 90
	00 02 00 00 00 0A 00 01 00 10
	00 01 01 5A FF 9E
	00 01 01 05 00 58
	00 01 00 06 00 0C
	00 01 03 3E 06 40
	00 01 03 3E FF AD`

func TestMarkBasePos(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	mb := &MarkBasePos{
		MarkCoverage:   otcodec.To16(NewCoverage(819, 831)),
		BaseCoverage:   otcodec.To16(NewCoverage(400)),
		MarkClassCount: 2,
		MarkArray: otcodec.To16(&MarkArray{Records: []MarkRecord{
			{Class: 0, Anchor: otcodec.To16(NewAnchor(346, -98))},
			{Class: 1, Anchor: otcodec.To16(NewAnchor(261, 88))},
		}}),
		BaseArray: otcodec.To16(&BaseArray{AnchorMatrix{Rows: [][]otcodec.Offset16[*Anchor]{
			{otcodec.To16(NewAnchor(830, 1600)), otcodec.To16(NewAnchor(830, -83))},
		}}}),
	}
	fixture := unhex(t, markBaseFixture)
	expectBytes(t, mb, fixture)
	dec := decodeTable[MarkBasePos](t, fixture)
	require.Equal(t, mb, dec)
	base := dec.BaseArray.Link().Rows[0][1].Link()
	require.Equal(t, int16(-83), base.Y)
}

func TestMarkBasePosClassMismatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	dec := decodeTable[MarkBasePos](t, unhex(t, markBaseFixture))
	dec.MarkClassCount = 3
	_, err := Encode(dec)
	require.True(t, errors.Is(err, otcodec.MalformedInput), "error = %v", err)
	dec.MarkClassCount = 1 // mark class 1 is out of range now
	_, err = Encode(dec)
	require.True(t, errors.Is(err, otcodec.MalformedInput), "error = %v", err)
}

// GPOS table with a single 'kern' feature for DFLT, adjusting the advance of
// three glyphs.
const gposSingleFixture = `00 01 00 00 00 0a 00 1e 00 2c 00 01 44 46
	4c 54 00 08 00 04 00 00 00 00 ff ff 00 01
	00 00 00 01 6b 65 72 6e 00 08 00 00 00 01
	00 00 00 01 00 04 00 01 00 00 00 01 00 08
	00 01 00 08 00 04 00 23 00 01 00 03 00 25
	00 30 00 32`

// layoutTable creates the script and feature lists of a GSUB or GPOS table
// with one feature applying lookup 0.
func layoutTable(feature string) (otcodec.Offset16[*ScriptList], otcodec.Offset16[*FeatureList]) {
	sl := &ScriptList{Records: []ScriptRecord{{
		Tag: T("DFLT"),
		Script: otcodec.To16(&Script{
			DefaultLangSys: otcodec.To16(&LangSys{
				RequiredFeatureIndex: NoRequiredFeature,
				FeatureIndices:       []uint16{0},
			}),
		}),
	}}}
	fl := &FeatureList{Records: []FeatureRecord{{
		Tag: T(feature),
		Feature: otcodec.To16(&Feature{
			FeatureParams: otcodec.Null16[FeatureParams](),
			LookupIndices: []uint16{0},
		}),
	}}}
	return otcodec.To16(sl), otcodec.To16(fl)
}

func TestGPOSSinglePos(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	scripts, features := layoutTable("kern")
	sp := NewSinglePos(map[GlyphIndex]ValueRecord{
		37: {XAdvance: 35},
		48: {XAdvance: 35},
		50: {XAdvance: 35},
	})
	require.Equal(t, uint16(1), sp.Format)
	gpos := &GPOS{
		ScriptList:  scripts,
		FeatureList: features,
		LookupList: otcodec.To16(&GPosLookupList{Lookups: []otcodec.Offset16[*GPosLookup]{
			otcodec.To16(&GPosLookup{
				Type:      GPosSingle,
				Subtables: []otcodec.Offset16[GPosSubtable]{otcodec.To16[GPosSubtable](sp)},
			}),
		}}),
	}
	fixture := unhex(t, gposSingleFixture)
	expectBytes(t, gpos, fixture)

	dec, err := DecodeGPOS(fixture)
	require.NoError(t, err)
	require.Equal(t, gpos.ScriptList, dec.ScriptList)
	require.Equal(t, gpos.FeatureList, dec.FeatureList)
	lookup := dec.Lookup(0)
	require.NotNil(t, lookup)
	require.Len(t, lookup.Subtables, 1)
	single, ok := lookup.Subtables[0].Link().(*SinglePos)
	require.True(t, ok)
	require.Equal(t, sp, single)
	require.Nil(t, dec.Lookup(1))
	require.NotNil(t, dec.ScriptList.Link().Script(T("DFLT")))
	expectBytes(t, dec, fixture)
}

func TestSinglePosFormat2(t *testing.T) {
	sp := NewSinglePos(map[GlyphIndex]ValueRecord{
		10: {XPlacement: 5},
		11: {XPlacement: 6, YAdvance: -1},
	})
	require.Equal(t, uint16(2), sp.Format)
	require.Equal(t, XPlacement|YAdvance, sp.ValueFormat)
	fixture := unhex(t, "00 02 00 10 00 09 00 02 00 05 00 00 00 06 FF FF 00 01 00 02 00 0A 00 0B")
	expectBytes(t, sp, fixture)
	require.Equal(t, sp, decodeTable[SinglePos](t, fixture))
}

func TestPairPosGlyphPairs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	pp := &PairPos{
		Format:       1,
		Coverage:     otcodec.To16(NewCoverage(25)),
		ValueFormat1: XAdvance,
		ValueFormat2: XPlacement,
		PairSets: []otcodec.Offset16[*PairSet]{otcodec.To16(&PairSet{
			ValueFormat1: XAdvance,
			ValueFormat2: XPlacement,
			Records: []PairValueRecord{
				{SecondGlyph: 40, PairValue: PairValue{First: ValueRecord{XAdvance: 7}, Second: ValueRecord{XPlacement: -2}}},
			},
		})},
	}
	fixture := unhex(t, "00 01 00 0C 00 04 00 01 00 01 00 12 | 00 01 00 01 00 19 | 00 01 00 28 00 07 FF FE")
	expectBytes(t, pp, fixture)
	require.Equal(t, pp, decodeTable[PairPos](t, fixture))

	pp.PairSets[0].Link().ValueFormat2 = YPlacement
	_, err := Encode(pp)
	require.True(t, errors.Is(err, otcodec.MalformedInput), "error = %v", err)
}

func TestPairPosClassPairs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	pp := &PairPos{
		Format:       2,
		Coverage:     otcodec.To16(NewCoverage(20, 21)),
		ValueFormat1: XAdvance,
		ClassDef1:    otcodec.To16(NewClassDef(map[GlyphIndex]uint16{21: 1})),
		ClassDef2:    otcodec.To16(NewClassDef(map[GlyphIndex]uint16{30: 1, 31: 1})),
		ClassRecords: [][]PairValue{
			{{First: ValueRecord{XAdvance: 0}}, {First: ValueRecord{XAdvance: -10}}},
			{{First: ValueRecord{XAdvance: 0}}, {First: ValueRecord{XAdvance: -20}}},
		},
	}
	b, err := Encode(pp)
	require.NoError(t, err)
	require.Len(t, b, pp.Size()+8+8+10)
	dec := decodeTable[PairPos](t, b)
	require.Equal(t, pp, dec)
	require.Equal(t, uint16(1), dec.ClassDef2.Link().Class(31))

	pp.ClassRecords[1] = pp.ClassRecords[1][:1]
	_, err = Encode(pp)
	require.True(t, errors.Is(err, otcodec.MalformedInput), "error = %v", err)
}

func TestCursivePos(t *testing.T) {
	cp := &CursivePos{
		Coverage: otcodec.To16(NewCoverage(3, 4)),
		Records: []EntryExitRecord{
			{Entry: otcodec.Null16[*Anchor](), Exit: otcodec.To16(NewAnchor(500, 20))},
			{Entry: otcodec.To16(NewAnchor(0, 20)), Exit: otcodec.Null16[*Anchor]()},
		},
	}
	fixture := unhex(t, "00 01 00 0E 00 02 00 00 00 16 00 1C 00 00 | 00 01 00 02 00 03 00 04 | 00 01 01 F4 00 14 | 00 01 00 00 00 14")
	expectBytes(t, cp, fixture)
	require.Equal(t, cp, decodeTable[CursivePos](t, fixture))
}

func TestMarkLigAndMarkMark(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	marks := func() otcodec.Offset16[*MarkArray] {
		return otcodec.To16(&MarkArray{Records: []MarkRecord{
			{Class: 0, Anchor: otcodec.To16(NewAnchor(100, 0))},
		}})
	}
	ml := &MarkLigPos{
		MarkCoverage:     otcodec.To16(NewCoverage(800)),
		LigatureCoverage: otcodec.To16(NewCoverage(300)),
		MarkClassCount:   1,
		MarkArray:        marks(),
		LigatureArray: otcodec.To16(&LigatureArray{Attachments: []otcodec.Offset16[*LigatureAttach]{
			otcodec.To16(&LigatureAttach{AnchorMatrix{Rows: [][]otcodec.Offset16[*Anchor]{
				{otcodec.To16(NewAnchor(200, 600))},
				{otcodec.Null16[*Anchor]()},
			}}}),
		}}),
	}
	back, _, err := otcodec.RoundTrip(ml)
	require.NoError(t, err)
	require.Equal(t, ml, back)

	mm := &MarkMarkPos{
		Mark1Coverage:  otcodec.To16(NewCoverage(800)),
		Mark2Coverage:  otcodec.To16(NewCoverage(801)),
		MarkClassCount: 1,
		Mark1Array:     marks(),
		Mark2Array: otcodec.To16(&Mark2Array{AnchorMatrix{Rows: [][]otcodec.Offset16[*Anchor]{
			{otcodec.To16(NewContourAnchor(100, 700, 4))},
		}}}),
	}
	back2, _, err := otcodec.RoundTrip(mm)
	require.NoError(t, err)
	require.Equal(t, mm, back2)
}

func TestExtensionPos(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	sp := NewSinglePos(map[GlyphIndex]ValueRecord{7: {XAdvance: -12}})
	ext := &ExtensionPos{ExtensionLookupType: GPosSingle, Extension: otcodec.To32[GPosSubtable](sp)}
	fixture := unhex(t, "00 01 00 01 00 00 00 08 | 00 01 00 08 00 04 FF F4 | 00 01 00 01 00 07")
	expectBytes(t, ext, fixture)
	dec := decodeTable[ExtensionPos](t, fixture)
	require.Equal(t, sp, dec.Extension.Link())

	ext.ExtensionLookupType = GPosPair
	_, err := Encode(ext)
	require.True(t, errors.Is(err, otcodec.MalformedInput), "error = %v", err)

	nested := unhex(t, "00 01 00 09 00 00 00 08 | 00 01 00 01 00 00 00 08")
	_, err = otcodec.Decode[ExtensionPos](nested)
	require.True(t, errors.Is(err, otcodec.MalformedInput), "error = %v", err)
}

func TestGPOSUnknownLookupType(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	data := unhex(t, gposSingleFixture)
	data[48+1] = 12 // lookup type
	_, err := DecodeGPOS(data)
	require.True(t, errors.Is(err, otcodec.InvalidDiscriminant), "error = %v", err)
	var cerr *otcodec.CodecError
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, "GPOS", cerr.Table)
}
