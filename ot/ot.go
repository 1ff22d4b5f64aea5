package ot

import (
	"fmt"

	"github.com/npillmayer/otwire/otcodec"
)

// GlyphIndex is a glyph index in a font.
type GlyphIndex = otcodec.GlyphID

// Tag is a 4-byte identifier for tables, scripts, languages and features.
type Tag = otcodec.Tag

// T returns a Tag from a (4-letter) string.
func T(str string) Tag {
	return otcodec.T(str)
}

// Tags of the tables handled by this package.
var (
	TagGSUB = T("GSUB")
	TagGPOS = T("GPOS")
	TagGDEF = T("GDEF")
)

// DecodeGSUB decodes a GSUB table from its bytes.
func DecodeGSUB(data []byte, opts ...otcodec.Option) (*GSUB, error) {
	t, err := otcodec.Decode[GSUB](data, opts...)
	return t, otcodec.WithTable(err, "GSUB")
}

// DecodeGPOS decodes a GPOS table from its bytes.
func DecodeGPOS(data []byte, opts ...otcodec.Option) (*GPOS, error) {
	t, err := otcodec.Decode[GPOS](data, opts...)
	return t, otcodec.WithTable(err, "GPOS")
}

// DecodeGDEF decodes a GDEF table from its bytes.
func DecodeGDEF(data []byte, opts ...otcodec.Option) (*GDEF, error) {
	t, err := otcodec.Decode[GDEF](data, opts...)
	return t, otcodec.WithTable(err, "GDEF")
}

// DecodeTable decodes the table with the given tag. Tables not handled by
// this package are an error of kind UnsupportedSubformat.
func DecodeTable(tag Tag, data []byte, opts ...otcodec.Option) (otcodec.Table, error) {
	var t otcodec.Table
	var err error
	switch tag {
	case TagGSUB:
		t, err = nonNil(DecodeGSUB(data, opts...))
	case TagGPOS:
		t, err = nonNil(DecodeGPOS(data, opts...))
	case TagGDEF:
		t, err = nonNil(DecodeGDEF(data, opts...))
	default:
		return nil, unsupported(tag.String(), -1, "table %s not supported", tag)
	}
	return t, err
}

// nonNil avoids returning a typed nil pointer wrapped in an interface.
func nonNil[P otcodec.Table](t P, err error) (otcodec.Table, error) {
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Encode serializes a table with all of its subtables.
func Encode(t otcodec.Node) ([]byte, error) {
	b, err := otcodec.Encode(t)
	if err != nil {
		tracer().Debugf("encoding %s failed: %v", otcodec.NameOf(t), err)
	}
	return b, err
}

// String returns a short description of a table, e.g. for tree displays.
func String(n otcodec.Node) string {
	if s, ok := n.(fmt.Stringer); ok {
		return s.String()
	}
	return otcodec.NameOf(n)
}
