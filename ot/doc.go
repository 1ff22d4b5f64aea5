/*
Package ot provides typed OpenType layout tables which can be decoded from
and encoded to font bytes.

Tables of this package mirror the structure of the wire format closely: a
table holding a format discriminant keeps it as a field, offsets to subtables
are otcodec.Offset16/Offset32 fields, and inline records are plain structs.
Constructors like NewCoverage or NewSingleSubst choose the most compact legal
format for a given mapping; decoded tables keep the format found in the font,
so that a decoded table re-encodes byte for byte in most cases.

Supported are the common layout structures (coverage, class definitions,
device tables, anchors, value records, script and feature lists, lookup
lists) and the tables GSUB, GPOS and GDEF. Variation data (item variation
stores, feature variations) is recognized, but reported as unsupported.

Errors are otcodec.CodecErrors, carrying the name of the structure where
the problem has been detected.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'otwire.tables'
func tracer() tracing.Trace {
	return tracing.Select("otwire.tables")
}
