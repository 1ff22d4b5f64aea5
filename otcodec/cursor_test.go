package otcodec

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/fixed"
)

func TestCursorReads(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.codec")
	defer teardown()
	//
	c := NewCursor([]byte{0x01, 0xff, 0xfe, 0x01, 0x02, 0x03, 'G', 'P', 'O', 'S', 0, 1, 0, 2})
	b, err := c.Peek(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0xff}, b)
	assert.Equal(t, 0, c.Pos(), "peek must not advance")
	u8, _ := c.U8()
	assert.Equal(t, uint8(1), u8)
	i16, _ := c.I16()
	assert.Equal(t, int16(-2), i16)
	u24, _ := c.U24()
	assert.Equal(t, Uint24(0x010203), u24)
	tag, _ := c.Tag()
	assert.Equal(t, "GPOS", tag.String())
	vals, err := c.U16s(2)
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 2}, vals)
	assert.Equal(t, 0, c.Remaining())
	//
	_, err = c.U8()
	assert.True(t, errors.Is(err, UnexpectedEndOfInput))
	var cerr *CodecError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 14, cerr.Pos)
}

func TestCursorCountedReadsAreChecked(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.codec")
	defer teardown()
	//
	c := NewCursor([]byte{0, 1, 0, 2, 0, 3})
	_, err := c.U16s(4)
	assert.True(t, errors.Is(err, UnexpectedEndOfInput))
	assert.Equal(t, 0, c.Pos())
	_, err = c.GlyphIDs(-1)
	assert.Error(t, err)
	gids, err := c.GlyphIDs(3)
	require.NoError(t, err)
	assert.Equal(t, []GlyphID{1, 2, 3}, gids)
}

func TestCursorOrigins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.codec")
	defer teardown()
	//
	c := NewCursor(make([]byte, 16))
	assert.Equal(t, 0, c.Origin())
	require.NoError(t, c.Seek(4))
	c.PushOrigin()
	require.NoError(t, c.Skip(6))
	c.PushOrigin()
	assert.Equal(t, 10, c.Origin())
	c.PopOrigin()
	assert.Equal(t, 4, c.Origin())
	c.PopOrigin()
	c.PopOrigin() // root origin stays
	assert.Equal(t, 0, c.Origin())
	assert.Error(t, c.Seek(17))
	assert.NoError(t, c.Seek(16))
}

func TestScalarTypes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.codec")
	defer teardown()
	//
	assert.Equal(t, Tag(0x44464c54), T("DFLT"))
	assert.Equal(t, "kern", MakeTag([]byte("kern")).String())
	assert.Equal(t, Tag(0), MakeTag([]byte("ab")))
	assert.Equal(t, T("cv1 "), T("cv1"))
	//
	assert.Equal(t, Fixed(0x10000), FixedFromInt(1))
	assert.Equal(t, fixed.I(3), FixedFromInt(3).Int26_6())
	assert.InDelta(t, 1.5, FixedFromFloat(1.5).Float(), 1e-9)
	assert.Equal(t, Fixed(0x1e000), FixedFromFloat(1.25).Mul(FixedFromFloat(1.5)))
	//
	f, err := F2Dot14FromFloat(1.5)
	require.NoError(t, err)
	assert.Equal(t, F2Dot14(0x6000), f)
	_, err = F2Dot14FromFloat(2.0)
	assert.True(t, errors.Is(err, ValueOutOfWidth))
	neg, _ := F2Dot14FromFloat(-2.0)
	assert.Equal(t, -2.0, neg.Float())
}

func TestWriterScalars(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.codec")
	defer teardown()
	//
	w := NewWriter(0)
	w.U8(1)
	w.I16(-2)
	w.U24(0x010203)
	w.Tag(T("GSUB"))
	w.F2Dot14(F2Dot14(0x4000))
	expected := []byte{1, 0xff, 0xfe, 1, 2, 3, 'G', 'S', 'U', 'B', 0x40, 0}
	assert.Equal(t, expected, w.Bytes())
	assert.True(t, errors.Is(w.Count(70000), ValueOutOfWidth))
	//
	c := NewCursor(w.Bytes())
	_ = c.Skip(10)
	f2, _ := c.F2Dot14()
	assert.Equal(t, 1.0, f2.Float())
}

func TestErrorMessages(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.codec")
	defer teardown()
	//
	err := Errorf(InvalidDiscriminant, 12, "format %d", 7)
	assert.Equal(t, "[invalid discriminant] - at offset 12: format 7", err.Error())
	tagged := WithTable(err, "GPOS")
	var cerr *CodecError
	require.True(t, errors.As(tagged, &cerr))
	assert.Equal(t, "GPOS", cerr.Table)
	assert.Equal(t, "could not parse font table GPOS (invalid discriminant)", cerr.UserMessage())
	assert.Equal(t, "", err.Table, "WithTable must not modify the original")
	//
	enc := &CodecError{Kind: OffsetOutOfRange, Pos: -1, Issue: "too far"}
	assert.Equal(t, "could not encode font table (offset out of range)", enc.UserMessage())
	assert.Equal(t, "[offset out of range] -: too far", enc.Error())
	//
	plain := WithTable(errors.New("boom"), "GDEF")
	assert.True(t, errors.Is(plain, MalformedInput))
	assert.Nil(t, WithTable(nil, "GDEF"))
	assert.Equal(t, ErrorKind(0), KindOf(errors.New("other")))
	assert.Equal(t, int(OffsetOutOfRange), enc.ErrorCode())
}
