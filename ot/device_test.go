package ot

import (
	"errors"
	"testing"

	"github.com/npillmayer/otwire/otcodec"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

func TestDevice2Bit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	dev, err := NewDevice(11, -1, -1, 1, 1, 1)
	require.NoError(t, err)
	require.Equal(t, DeltaLocal2Bit, dev.DeltaFormat)
	require.Equal(t, uint16(15), dev.EndSize)
	fixture := unhex(t, "00 0B 00 0F 00 01 F5 40")
	expectBytes(t, dev, fixture)
	dec := decodeTable[Device](t, fixture)
	require.Equal(t, []int16{-1, -1, 1, 1, 1}, dec.Deltas)
	require.Equal(t, int16(-1), dec.Delta(12))
	require.Equal(t, int16(0), dec.Delta(16))
}

func TestDeviceFormatChoice(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	tests := []struct {
		deltas []int16
		format uint16
		size   int
	}{
		{[]int16{1, -2, 0}, DeltaLocal2Bit, 8},
		{[]int16{1, -2, 7, -8, 0}, DeltaLocal4Bit, 10},
		{[]int16{-128, 127}, DeltaLocal8Bit, 8},
	}
	for _, tt := range tests {
		dev, err := NewDevice(9, tt.deltas...)
		require.NoError(t, err)
		require.Equal(t, tt.format, dev.DeltaFormat, "deltas %v", tt.deltas)
		b, err := Encode(dev)
		require.NoError(t, err)
		require.Len(t, b, tt.size)
		dec := decodeTable[Device](t, b)
		require.Equal(t, tt.deltas, dec.Deltas, "sign extension of %v", tt.deltas)
	}
}

func TestDeviceOutOfWidth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	_, err := NewDevice(9, 1, 200)
	require.True(t, errors.Is(err, otcodec.ValueOutOfWidth), "error = %v", err)
	// an explicit format too narrow for the deltas
	dev := &Device{StartSize: 9, EndSize: 10, DeltaFormat: DeltaLocal2Bit, Deltas: []int16{1, 5}}
	_, err = Encode(dev)
	require.True(t, errors.Is(err, otcodec.ValueOutOfWidth), "error = %v", err)
	dev = &Device{StartSize: 9, EndSize: 9, DeltaFormat: 4, Deltas: []int16{1}}
	_, err = Encode(dev)
	require.True(t, errors.Is(err, otcodec.InvalidDiscriminant), "error = %v", err)
}

func TestDeviceDecodeErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	_, err := otcodec.Decode[Device](unhex(t, "00 0B 00 0F 00 04 F5 40"))
	require.True(t, errors.Is(err, otcodec.InvalidDiscriminant), "error = %v", err)
	_, err = otcodec.Decode[Device](unhex(t, "00 0B 00 1F 00 03 F5 40"))
	require.True(t, errors.Is(err, otcodec.UnexpectedEndOfInput), "error = %v", err)
}

func TestVariationIndex(t *testing.T) {
	dev := NewVariationIndex(3, 7)
	fixture := unhex(t, "00 03 00 07 80 00")
	expectBytes(t, dev, fixture)
	dec := decodeTable[Device](t, fixture)
	outer, inner, ok := dec.VariationIndex()
	require.True(t, ok)
	require.Equal(t, uint16(3), outer)
	require.Equal(t, uint16(7), inner)
	require.Equal(t, int16(0), dec.Delta(3))
}

// --- Anchors ---------------------------------------------------------------

func TestAnchorFormatSelection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	a := NewAnchor(120, -5)
	expectBytes(t, a, unhex(t, "00 01 00 78 FF FB"))
	a = NewContourAnchor(120, -5, 12)
	expectBytes(t, a, unhex(t, "00 02 00 78 FF FB 00 0C"))
	dec := decodeTable[Anchor](t, unhex(t, "00 02 00 78 FF FB 00 0C"))
	require.Equal(t, a, dec)
	p, ok := dec.AnchorPoint.Unwrap()
	require.True(t, ok)
	require.Equal(t, uint16(12), p)
}

func TestAnchorUnknownFormats(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	_, err := otcodec.Decode[Anchor](unhex(t, "00 03 00 78 FF FB 00 00 00 00"))
	require.True(t, errors.Is(err, otcodec.UnsupportedSubformat), "error = %v", err)
	_, err = otcodec.Decode[Anchor](unhex(t, "00 04 00 78 FF FB"))
	require.True(t, errors.Is(err, otcodec.InvalidDiscriminant), "error = %v", err)
}

// --- Value records ---------------------------------------------------------

func TestValueFormat(t *testing.T) {
	vf := XPlacement.Union(XAdvance)
	require.True(t, vf.Contains(XAdvance))
	require.False(t, vf.Contains(YAdvance))
	require.Equal(t, XAdvance, vf.Intersect(XAdvance|YAdvance))
	require.Equal(t, 4, vf.RecordSize())
	require.Equal(t, "XPlacement|XAdvance", vf.String())
	vr := ValueRecord{YAdvance: 3, XAdvDevice: otcodec.To16(NewVariationIndex(0, 1))}
	require.Equal(t, YAdvance|XAdvDevice, vr.Format())
}

func TestSinglePosWithDevice(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	dev, err := NewDevice(11, -1, -1, 1, 1, 1)
	require.NoError(t, err)
	sp := &SinglePos{
		Format:      1,
		Coverage:    otcodec.To16(NewCoverage(5)),
		ValueFormat: XAdvance | XAdvDevice,
		Values:      []ValueRecord{{XAdvance: 20, XAdvDevice: otcodec.To16(dev)}},
	}
	// header, value record, coverage, device measured from the subtable
	fixture := unhex(t, "00 01 00 0A 00 44 00 14 00 10 | 00 01 00 01 00 05 | 00 0B 00 0F 00 01 F5 40")
	expectBytes(t, sp, fixture)
	dec := decodeTable[SinglePos](t, fixture)
	require.Equal(t, []int16{-1, -1, 1, 1, 1}, dec.Values[0].XAdvDevice.Link().Deltas)
	require.True(t, dec.Values[0].XPlaDevice.IsNull())
	// a value format lacking a field of a record
	sp.ValueFormat = XAdvance
	_, err = Encode(sp)
	require.True(t, errors.Is(err, otcodec.ValueOutOfWidth), "error = %v", err)
}
