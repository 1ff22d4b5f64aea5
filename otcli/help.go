package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Debugf("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "offset", "offsets":
		pterm.Info.Println("Offsets")
		pterm.Println(`
	Tables link to subtables by 16- or 32-bit offsets, measured from the
	start of the table holding the offset. An offset of 0 means "no table".
	+-----------+--------------------+
	| Offset16  | -> Coverage        |
	+-----------+--------------------+
	| Offset16  | -> Lookup          |
	+-----------+--------------------+
	When encoding, every subtable is placed after its parent, in the order
	of the parent's offset fields. 'layout' shows the resulting positions.
	`)
	case "layout", "tree", "dot":
		pterm.Info.Println("Inspecting a decoded table")
		pterm.Println(`
	tree      prints the graph of subtables, indented by depth
	layout    re-encodes the table and lists position, offset base and size
	          of every subtable
	dot       writes the graph in Graphviz format (dot <file> to save it)
	`)
	case "roundtrip", "verify":
		pterm.Info.Println("Round trips")
		pterm.Println(`
	roundtrip decodes the current table, encodes it again and decodes the
	result. The table passes if nothing changed. Tables are not required to
	be byte identical to the font, as fonts may share subtables.
	'otcli verify <fonts>' does the same for GSUB, GPOS and GDEF of many fonts.
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	load <file>     load a font
	tables          list the font's table directory
	decode <tag>    decode GSUB, GPOS or GDEF
	tree            print the decoded table's subtables
	layout          show the encoding layout of the decoded table
	dot [file]      dump the decoded table in Graphviz format
	lookups         list the lookups of GSUB or GPOS
	roundtrip       verify a decode/encode round trip
	help [topic]    topics: offsets, layout, roundtrip
	quit            leave
	`)
	}
}
