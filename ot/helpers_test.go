package ot

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/npillmayer/otwire/otcodec"
)

func unhex(t *testing.T, s string) []byte {
	t.Helper()
	s = strings.ReplaceAll(s, "|", " ")
	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		t.Fatalf("bad hex fixture: %v", err)
	}
	return b
}

// decodeTable decodes a fixture into a table of type *T.
func decodeTable[T any, P interface {
	*T
	otcodec.Table
}](t *testing.T, data []byte) P {
	t.Helper()
	v, err := otcodec.Decode[T, P](data)
	if err != nil {
		t.Fatalf("cannot decode %s: %v", otcodec.NameOf(P(new(T))), err)
	}
	return v
}

// expectBytes encodes n and compares the result to a fixture.
func expectBytes(t *testing.T, n otcodec.Node, expected []byte) {
	t.Helper()
	b, err := Encode(n)
	if err != nil {
		t.Fatalf("cannot encode %s: %v", otcodec.NameOf(n), err)
	}
	if !bytes.Equal(b, expected) {
		t.Errorf("encoding of %s differs\n got: % x\nwant: % x", otcodec.NameOf(n), b, expected)
	}
}

// reencode decodes a fixture and checks that encoding reproduces it.
func reencode[T any, P interface {
	*T
	otcodec.Table
}](t *testing.T, fixture string) P {
	t.Helper()
	data := unhex(t, fixture)
	v := decodeTable[T, P](t, data)
	expectBytes(t, v, data)
	return v
}

func glyphs(gs ...GlyphIndex) []GlyphIndex { return gs }
