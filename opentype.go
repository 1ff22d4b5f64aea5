package otwire

import (
	"github.com/npillmayer/otwire/internal/fontload"
	"github.com/npillmayer/otwire/ot"
	"github.com/npillmayer/otwire/otcodec"
	"golang.org/x/image/font/sfnt"
)

// FromBinary parses raw OpenType bytes and decodes the font's layout tables.
//
// The input is expected to contain a complete single-font SFNT stream.
// Decoded tables do not reference data, which may be changed afterwards.
func FromBinary(data []byte, opts ...otcodec.Option) (*Font, error) {
	sf, err := fontload.ParseOpenTypeFont(data)
	if err != nil {
		return nil, err
	}
	return decodeLayout(sf, opts)
}

// LoadFont loads a font file and decodes its layout tables.
func LoadFont(path string, opts ...otcodec.Option) (*Font, error) {
	sf, err := fontload.LoadOpenTypeFont(path)
	if err != nil {
		return nil, err
	}
	return decodeLayout(sf, opts)
}

func decodeLayout(sf *fontload.ScalableFont, opts []otcodec.Option) (f *Font, err error) {
	f = &Font{Fontname: sf.Fontname, Filepath: sf.Filepath, sf: sf}
	if data := sf.TableBytes(ot.TagGDEF); data != nil {
		if f.GDEF, err = ot.DecodeGDEF(data, opts...); err != nil {
			return nil, err
		}
	}
	if data := sf.TableBytes(ot.TagGSUB); data != nil {
		if f.GSUB, err = ot.DecodeGSUB(data, opts...); err != nil {
			return nil, err
		}
	}
	if data := sf.TableBytes(ot.TagGPOS); data != nil {
		if f.GPOS, err = ot.DecodeGPOS(data, opts...); err != nil {
			return nil, err
		}
	}
	tracer().Debugf("decoded layout tables of %q", f.Fontname)
	return f, nil
}

// FamilyName extracts family and subfamily names from a font's `name` table.
//
// Returned values are empty if the font has no matching records or if the
// name table cannot be read by golang.org/x/image/font/sfnt.
func FamilyName(f *Font) (family, subfamily string) {
	if f == nil || f.sf == nil || f.sf.SFNT == nil {
		return
	}
	family, _ = f.sf.SFNT.Name(nil, sfnt.NameIDFamily)
	subfamily, _ = f.sf.SFNT.Name(nil, sfnt.NameIDSubfamily)
	return
}

// EncodeLayout serializes the font's decoded layout tables. The result maps
// table tags to table bytes and holds an entry for every non-nil table.
func EncodeLayout(f *Font) (map[ot.Tag][]byte, error) {
	var nodes []otcodec.Node
	var tags []ot.Tag
	if f.GDEF != nil {
		nodes, tags = append(nodes, f.GDEF), append(tags, ot.TagGDEF)
	}
	if f.GSUB != nil {
		nodes, tags = append(nodes, f.GSUB), append(tags, ot.TagGSUB)
	}
	if f.GPOS != nil {
		nodes, tags = append(nodes, f.GPOS), append(tags, ot.TagGPOS)
	}
	tables := make(map[ot.Tag][]byte, len(nodes))
	for i, n := range nodes {
		b, err := ot.Encode(n)
		if err != nil {
			return nil, otcodec.WithTable(err, tags[i].String())
		}
		tables[tags[i]] = b
	}
	return tables, nil
}
