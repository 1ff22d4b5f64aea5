package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/otwire/ot"
	"github.com/npillmayer/otwire/otcodec"
	"github.com/pterm/pterm"
)

func tablesOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkFont(); err != nil {
		return err, false
	}
	data := [][]string{
		{"Tag", "Offset", "Length", "Checksum"},
	}
	for _, rec := range intp.font.Tables {
		data = append(data, []string{
			rec.Tag.String(),
			fmt.Sprintf("%d", rec.Offset),
			fmt.Sprintf("%d", rec.Length),
			fmt.Sprintf("%08x", rec.Checksum),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func decodeOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkFont(); err != nil {
		return err, false
	}
	if len(op.arg) != 4 {
		return errors.New("usage: decode <4-letter table tag>"), false
	}
	tag := ot.T(op.arg)
	data := intp.font.TableBytes(tag)
	if data == nil {
		return fmt.Errorf("table %s not found in font", tag), false
	}
	table, err := ot.DecodeTable(tag, data)
	if err != nil {
		return err, false
	}
	intp.tag, intp.table = tag, table
	n, err := otcodec.Count(table)
	if err != nil {
		return err, false
	}
	tracer().Infof("decoded table %s", tag)
	pterm.Printf("%s: %d bytes, %d tables reachable\n", tag, len(data), n)
	return nil, false
}

// treeOp prints the offset graph of the current table, one node per line.
func treeOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkTable(); err != nil {
		return err, false
	}
	err := otcodec.Walk(intp.table, func(n, parent otcodec.Node, depth int) error {
		pterm.Printf("%s%s\n", strings.Repeat("  ", depth), pterm.FgCyan.Sprint(ot.String(n)))
		return nil
	})
	return err, false
}

// layoutOp encodes the current table and prints where each node was put.
func layoutOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkTable(); err != nil {
		return err, false
	}
	r := otcodec.NewResolver()
	b, err := r.Encode(intp.table)
	if err != nil {
		return err, false
	}
	data := [][]string{
		{"Pos", "Base", "Size", "Total", "Table"},
	}
	for _, p := range r.Layout() {
		data = append(data, []string{
			fmt.Sprintf("%d", p.Pos),
			fmt.Sprintf("%d", p.Base),
			fmt.Sprintf("%d", p.Size),
			fmt.Sprintf("%d", p.Total),
			strings.Repeat(". ", p.Depth) + otcodec.NameOf(p.Node),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Printf("%d bytes total\n", len(b))
	return nil, false
}

// dotOp writes the offset graph in Graphviz format, to a file if an argument
// is given.
func dotOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkTable(); err != nil {
		return err, false
	}
	if op.arg == "" {
		return otcodec.WriteDOT(os.Stdout, intp.table), false
	}
	f, err := os.Create(op.arg)
	if err != nil {
		return err, false
	}
	if err = otcodec.WriteDOT(f, intp.table); err != nil {
		f.Close()
		return err, false
	}
	if err = f.Close(); err == nil {
		pterm.Info.Printf("wrote %s\n", op.arg)
	}
	return err, false
}

func roundtripOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkTable(); err != nil {
		return err, false
	}
	v := verifyTable(intp.tag, intp.font.TableBytes(intp.tag))
	if v.Err != nil {
		return v.Err, false
	}
	pterm.Printf("%s: %d bytes in font, %d bytes re-encoded, %s\n", v.Tag, v.Size, v.Encoded, v.result())
	return nil, false
}

// --- Lookups ----------------------------------------------------------

func lookupsOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkTable(); err != nil {
		return err, false
	}
	var data [][]string
	switch t := intp.table.(type) {
	case *ot.GSUB:
		data = lookupRows(t.LookupList.Link())
	case *ot.GPOS:
		data = lookupRows(t.LookupList.Link())
	default:
		return fmt.Errorf("table %s has no lookups", intp.tag), false
	}
	if len(data) == 1 {
		pterm.Printf("%s LookupList is empty\n", intp.tag)
		return nil, false
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func lookupRows[S ot.Subtable](ll *ot.LookupList[S]) [][]string {
	data := [][]string{
		{"Index", "Type", "Flags", "Subtables"},
	}
	if ll == nil {
		return data
	}
	for i, l := range ll.Lookups {
		lookup := l.Link()
		if lookup == nil {
			continue
		}
		var subs []string
		for _, sub := range lookup.Subtables {
			if !sub.IsNull() {
				subs = append(subs, ot.String(sub.Link()))
			}
		}
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", lookup.Type),
			formatLookupFlags(lookup.Flag),
			strings.Join(subs, ", "),
		})
	}
	return data
}

func formatLookupFlags(flag ot.LookupFlag) string {
	if flag == 0 {
		return "-"
	}
	return flag.String()
}
