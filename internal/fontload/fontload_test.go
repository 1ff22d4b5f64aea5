package fontload

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/otwire/otcodec"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type table struct {
	tag  string
	data []byte
}

// makeFont assembles a font from tables, which have to be sorted by tag.
func makeFont(version uint32, tables ...table) []byte {
	w := otcodec.NewWriter(12 + 16*len(tables))
	w.U32(version)
	w.U16(uint16(len(tables)))
	w.U16(0) // searchRange etc. are not interpreted
	w.U16(0)
	w.U16(0)
	off := 12 + 16*len(tables)
	for _, t := range tables {
		w.Tag(otcodec.T(t.tag))
		w.U32(0)
		w.U32(uint32(off))
		w.U32(uint32(len(t.data)))
		off += (len(t.data) + 3) &^ 3
	}
	for _, t := range tables {
		w.Raw(t.data)
		for w.Len()%4 != 0 {
			w.U8(0)
		}
	}
	return w.Bytes()
}

func TestTableDirectory(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.fontload")
	defer teardown()
	//
	font := makeFont(versionOTTO,
		table{"GDEF", []byte{0, 1, 0, 0, 0, 0}},
		table{"GSUB", []byte{0, 1, 0, 1}},
	)
	f, err := ParseOpenTypeFont(font)
	require.NoError(t, err)
	assert.Equal(t, versionOTTO, f.Version)
	assert.Nil(t, f.SFNT, "synthetic font is not a complete SFNT")
	assert.Equal(t, []otcodec.Tag{otcodec.T("GDEF"), otcodec.T("GSUB")}, f.Tags())
	assert.Equal(t, []byte{0, 1, 0, 0, 0, 0}, f.TableBytes(otcodec.T("GDEF")))
	assert.Equal(t, []byte{0, 1, 0, 1}, f.TableBytes(otcodec.T("GSUB")))
	assert.Nil(t, f.TableBytes(otcodec.T("GPOS")))
	rec, ok := f.Table(otcodec.T("GSUB"))
	require.True(t, ok)
	assert.Equal(t, uint32(12+32+8), rec.Offset)
}

func TestLoadFromFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.fontload")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "test.ttf")
	require.NoError(t, os.WriteFile(path, makeFont(versionTrueType, table{"GPOS", []byte{0, 1}}), 0o644))
	f, err := LoadOpenTypeFont(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Filepath)
	assert.Len(t, f.Tables, 1)
	_, err = LoadOpenTypeFont(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDirectoryErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otwire.fontload")
	defer teardown()
	//
	_, err := ParseOpenTypeFont(makeFont(0x12345678))
	assert.True(t, errors.Is(err, otcodec.InvalidDiscriminant), "error = %v", err)

	_, err = ParseOpenTypeFont([]byte{0, 1, 0})
	assert.True(t, errors.Is(err, otcodec.UnexpectedEndOfInput), "error = %v", err)

	unsorted := makeFont(versionTrueType, table{"GSUB", []byte{1}}, table{"GDEF", []byte{2}})
	_, err = ParseOpenTypeFont(unsorted)
	assert.True(t, errors.Is(err, otcodec.MalformedInput), "error = %v", err)

	truncated := makeFont(versionTrueType, table{"GDEF", []byte{1, 2, 3, 4}})
	_, err = ParseOpenTypeFont(truncated[:len(truncated)-2])
	assert.True(t, errors.Is(err, otcodec.OffsetOutOfRange), "error = %v", err)
	var cerr *otcodec.CodecError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "font", cerr.Table)

	header := makeFont(versionTrueType, table{"GDEF", nil}, table{"GPOS", nil})
	_, err = ParseOpenTypeFont(header[:20])
	assert.True(t, errors.Is(err, otcodec.UnexpectedEndOfInput), "error = %v", err)
}
