/*
Package otwire reads and writes the offset-linked tables of OpenType fonts.

OpenType layout tables (GSUB, GPOS, GDEF) are graphs of subtables, linked by
16- or 32-bit offsets. Package otwire decodes such a graph into Go values,
lets clients inspect or modify it, and serializes it again, assigning fresh
offsets.

▪︎ Package otcodec holds the generic machinery: a bounds-checked byte cursor,
typed offset fields and the resolver which lays out a table graph.

▪︎ Package ot holds the layout tables and their shared subtables (Coverage,
ClassDef, Device, Anchor, ...).

▪︎ Package otvar holds the packed point and delta encodings of font
variations.

This package bundles them for the common case of loading a font file and
decoding its layout tables.

# Status

Does not yet handle font collections (*.ttc), nor feature variations.

# Links

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otwire

import (
	"github.com/npillmayer/otwire/internal/fontload"
	"github.com/npillmayer/otwire/ot"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otwire.fontload'
func tracer() tracing.Trace {
	return tracing.Select("otwire.fontload")
}

// Font is a font file with its decoded layout tables. Tables missing from
// the font are nil.
type Font struct {
	Fontname string
	Filepath string
	GSUB     *ot.GSUB
	GPOS     *ot.GPOS
	GDEF     *ot.GDEF
	sf       *fontload.ScalableFont
}

// Tags returns the tags of all tables of the font, not only the decoded ones.
func (f *Font) Tags() []ot.Tag {
	return f.sf.Tags()
}

// TableBytes returns the undecoded bytes of a table, or nil.
func (f *Font) TableBytes(tag ot.Tag) []byte {
	return f.sf.TableBytes(tag)
}
