package ot

import (
	"errors"
	"testing"

	"github.com/npillmayer/otwire/otcodec"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

func TestCoverageGlyphList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	cov := &Coverage{Glyphs: glyphs(37, 100, 252, 339, 730, 770)}
	fixture := unhex(t, "00 01 00 06 00 25 00 64 00 FC 01 53 02 DA 03 02")
	if cov.Format() != 1 {
		t.Errorf("expected format 1 for scattered glyphs, have %d", cov.Format())
	}
	expectBytes(t, cov, fixture)
	dec := decodeTable[Coverage](t, fixture)
	require.Equal(t, cov.Glyphs, dec.Glyphs)
}

func TestCoverageRanges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	cov := &Coverage{Glyphs: glyphs(5, 6, 7, 8, 10, 11, 12, 13, 14)}
	fixture := unhex(t, "00 02 00 02 00 05 00 08 00 00 00 0A 00 0E 00 04")
	if cov.Format() != 2 {
		t.Errorf("expected format 2 for two runs, have %d", cov.Format())
	}
	expectBytes(t, cov, fixture)
	dec := decodeTable[Coverage](t, fixture)
	require.Equal(t, cov.Glyphs, dec.Glyphs)
	i, ok := dec.Index(10)
	require.True(t, ok)
	require.Equal(t, 4, i)
	require.False(t, dec.Contains(9))
}

func TestCoverageFormatChoice(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	tests := []struct {
		name   string
		glyphs []GlyphIndex
		format uint16
	}{
		{"empty", nil, 1},
		{"single", glyphs(7), 1},
		{"tie favors list", glyphs(1, 2, 3), 1},
		{"one run", glyphs(1, 2, 3, 4), 2},
		{"unsorted", glyphs(4, 3, 2, 1, 0), 1},
	}
	for _, tt := range tests {
		cov := &Coverage{Glyphs: tt.glyphs}
		if f := cov.Format(); f != tt.format {
			t.Errorf("%s: expected format %d, have %d", tt.name, tt.format, f)
		}
		b, err := Encode(cov)
		require.NoError(t, err, tt.name)
		require.Len(t, b, cov.Size(), tt.name)
	}
	empty, err := Encode(&Coverage{})
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 0, 0}, empty)
}

func TestNewCoverageSorts(t *testing.T) {
	cov := NewCoverage(9, 3, 3, 4, 5)
	require.Equal(t, glyphs(3, 4, 5, 9), cov.Glyphs)
	require.Equal(t, 4, cov.Len())
}

func TestCoverageBadRangeIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	_, err := otcodec.Decode[Coverage](unhex(t, "00 02 00 01 00 05 00 08 00 03"))
	require.Error(t, err)
	require.True(t, errors.Is(err, otcodec.MalformedInput), "error = %v", err)
	_, err = otcodec.Decode[Coverage](unhex(t, "00 03 00 00"))
	require.True(t, errors.Is(err, otcodec.InvalidDiscriminant), "error = %v", err)
	_, err = otcodec.Decode[Coverage](unhex(t, "00 01 00 03 00 05"))
	require.True(t, errors.Is(err, otcodec.UnexpectedEndOfInput), "error = %v", err)
}

func TestCoverageDuplicateGlyphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	_, err := Encode(&Coverage{Glyphs: glyphs(1, 1, 2, 3, 4)})
	require.True(t, errors.Is(err, otcodec.MalformedInput), "error = %v", err)
	_, err = otcodec.Decode[Coverage](unhex(t, "00 01 00 03 00 07 00 05 00 07"))
	require.True(t, errors.Is(err, otcodec.MalformedInput), "error = %v", err)
	// second range starts inside the first
	_, err = otcodec.Decode[Coverage](unhex(t, "00 02 00 02 00 05 00 08 00 00 00 07 00 09 00 04"))
	require.True(t, errors.Is(err, otcodec.MalformedInput), "error = %v", err)
	// unsorted, but distinct glyphs are accepted
	cov, err := otcodec.Decode[Coverage](unhex(t, "00 01 00 03 00 07 00 05 00 06"))
	require.NoError(t, err)
	require.Equal(t, glyphs(7, 5, 6), cov.Glyphs)
}

// --- Class definitions -----------------------------------------------------

func TestClassDefRanges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	cd := NewClassDef(map[GlyphIndex]uint16{
		24: 1, 25: 1, 26: 1, 27: 1, 28: 1, 29: 2, 30: 1,
		31: 5, 32: 5, 33: 1, 34: 3, 35: 1, 36: 1, 70: 1,
		71: 2, 72: 2, 73: 1, 74: 1, 75: 1, 76: 2, 77: 5,
		78: 3, 79: 3, 80: 1, 81: 1, 82: 2, 83: 1, 84: 2,
	})
	fixture := unhex(t, `00 02 00 11 00 18 00 1c 00 01 00 1d 00 1d
		00 02 00 1e 00 1e 00 01 00 1f 00 20 00 05
		00 21 00 21 00 01 00 22 00 22 00 03 00 23
		00 24 00 01 00 46 00 46 00 01 00 47 00 48
		00 02 00 49 00 4b 00 01 00 4c 00 4c 00 02
		00 4d 00 4d 00 05 00 4e 00 4f 00 03 00 50
		00 51 00 01 00 52 00 52 00 02 00 53 00 53
		00 01 00 54 00 54 00 02`)
	require.Equal(t, uint16(2), cd.Format())
	expectBytes(t, cd, fixture)
	expectBytes(t, cd, fixture) // deterministic
	dec := decodeTable[ClassDef](t, fixture)
	require.Equal(t, cd.Classes, dec.Classes)
	require.Equal(t, uint16(5), dec.MaxClass())
	require.Equal(t, uint16(0), dec.Class(50))
}

func TestClassDefDense(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	cd := NewClassDef(map[GlyphIndex]uint16{
		1: 1, 2: 2, 3: 0, 4: 1, 5: 2, 6: 0, 7: 1,
		8: 2, 9: 0, 10: 1, 11: 2, 12: 0, 13: 1, 14: 2,
	})
	require.Len(t, cd.Classes, 10, "class 0 entries are dropped")
	fixture := unhex(t, `00 01 00 01 00 0e 00 01 00 02 00 00 00 01
		00 02 00 00 00 01 00 02 00 00 00 01 00 02
		00 00 00 01 00 02`)
	require.Equal(t, uint16(1), cd.Format())
	expectBytes(t, cd, fixture)
	dec := decodeTable[ClassDef](t, fixture)
	require.Equal(t, cd.Classes, dec.Classes)
}

func TestClassDefOverlappingRanges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.tables")
	defer teardown()
	//
	_, err := otcodec.Decode[ClassDef](unhex(t, "00 02 00 02 00 05 00 08 00 01 00 08 00 0a 00 02"))
	require.True(t, errors.Is(err, otcodec.MalformedInput), "error = %v", err)
	// a class 0 range only restates the default
	cd, err := otcodec.Decode[ClassDef](unhex(t, "00 02 00 02 00 05 00 08 00 01 00 08 00 0a 00 00"))
	require.NoError(t, err)
	require.Len(t, cd.Classes, 4)
}

func TestClassDefEmpty(t *testing.T) {
	cd := NewClassDef(nil)
	b, err := Encode(cd)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 2, 0, 0}, b)
	dec := decodeTable[ClassDef](t, b)
	require.Empty(t, dec.Classes)
	// explicit class 0 ranges decode to nothing
	dec = decodeTable[ClassDef](t, unhex(t, "00 02 00 01 00 05 00 09 00 00"))
	require.Empty(t, dec.Classes)
}
