package ot

import (
	"slices"

	"github.com/npillmayer/otwire/otcodec"
)

// Coverage is a coverage table: an ordered list of distinct glyphs. The
// position of a glyph in the list is its coverage index.
//
// The wire format is chosen on encoding: a glyph list (format 1), or a list of
// glyph ranges (format 2) if the glyphs are strictly ascending and ranges are
// cheaper. Decoding either format yields the same glyph list.
type Coverage struct {
	Glyphs []GlyphIndex
}

// NewCoverage creates a coverage table for a set of glyphs. The glyphs are
// sorted and duplicates are removed.
func NewCoverage(glyphs ...GlyphIndex) *Coverage {
	gs := slices.Clone(glyphs)
	slices.Sort(gs)
	return &Coverage{Glyphs: slices.Compact(gs)}
}

// Index returns the coverage index of glyph g.
func (cov *Coverage) Index(g GlyphIndex) (int, bool) {
	for i, x := range cov.Glyphs {
		if x == g {
			return i, true
		}
	}
	return 0, false
}

func (cov *Coverage) Contains(g GlyphIndex) bool {
	_, ok := cov.Index(g)
	return ok
}

// Len returns the number of glyphs covered.
func (cov *Coverage) Len() int { return len(cov.Glyphs) }

type glyphRange struct {
	start, end GlyphIndex
	value      uint16 // start coverage index or class
}

// coverageRanges splits the glyph list into runs of consecutive glyph IDs.
// It returns false if the list is not strictly ascending.
func coverageRanges(glyphs []GlyphIndex) ([]glyphRange, bool) {
	var ranges []glyphRange
	for i, g := range glyphs {
		if i > 0 && g <= glyphs[i-1] {
			return nil, false
		}
		if i > 0 && g == glyphs[i-1]+1 {
			ranges[len(ranges)-1].end = g
			continue
		}
		ranges = append(ranges, glyphRange{start: g, end: g, value: uint16(i)})
	}
	return ranges, true
}

// duplicateGlyph returns a glyph occurring more than once in glyphs.
func duplicateGlyph(glyphs []GlyphIndex) (GlyphIndex, bool) {
	if _, ascending := coverageRanges(glyphs); ascending {
		return 0, false
	}
	gs := slices.Clone(glyphs)
	slices.Sort(gs)
	for i := 1; i < len(gs); i++ {
		if gs[i] == gs[i-1] {
			return gs[i], true
		}
	}
	return 0, false
}

// Format returns the wire format an encoding of cov will use.
func (cov *Coverage) Format() uint16 {
	f, _ := cov.layout()
	return f
}

func (cov *Coverage) layout() (uint16, []glyphRange) {
	if len(cov.Glyphs) == 0 {
		return 1, nil
	}
	ranges, ok := coverageRanges(cov.Glyphs)
	if !ok || 3*len(ranges) >= len(cov.Glyphs) { // ties favor the glyph list
		return 1, nil
	}
	return 2, ranges
}

func (cov *Coverage) Size() int {
	if f, ranges := cov.layout(); f == 2 {
		return 4 + 6*len(ranges)
	}
	return 4 + 2*len(cov.Glyphs)
}

func (cov *Coverage) EncodeShallow(w *otcodec.Writer) error {
	if g, dup := duplicateGlyph(cov.Glyphs); dup {
		return encodeError(otcodec.MalformedInput, "Coverage", "glyph %d covered twice", g)
	}
	f, ranges := cov.layout()
	w.U16(f)
	if f == 1 {
		return writeGlyphs(w, cov.Glyphs)
	}
	if err := w.Count(len(ranges)); err != nil {
		return err
	}
	for _, r := range ranges {
		w.GlyphID(r.start)
		w.GlyphID(r.end)
		w.U16(r.value)
	}
	return nil
}

func (cov *Coverage) Children() []otcodec.OffsetField { return nil }

func (cov *Coverage) Decode(c *otcodec.Cursor) error {
	format, err := c.U16()
	if err != nil {
		return err
	}
	at := c.Pos() - 2
	switch format {
	case 1:
		if cov.Glyphs, err = readGlyphs(c); err != nil {
			return err
		}
	case 2:
		n, err := readCount(c)
		if err != nil {
			return err
		}
		cov.Glyphs = nil
		for i := 0; i < n; i++ {
			var start, end, index uint16
			if err := readU16s(c, &start, &end, &index); err != nil {
				return err
			}
			if end < start {
				return malformed("Coverage", c.Pos()-6, "range end %d before start %d", end, start)
			}
			if int(index) != len(cov.Glyphs) {
				return malformed("Coverage", c.Pos()-2, "range starts at coverage index %d, expected %d",
					index, len(cov.Glyphs))
			}
			for g := int(start); g <= int(end); g++ {
				cov.Glyphs = append(cov.Glyphs, GlyphIndex(g))
			}
		}
	default:
		return badFormat("Coverage", c, format)
	}
	if g, dup := duplicateGlyph(cov.Glyphs); dup {
		return malformed("Coverage", at, "glyph %d covered twice", g)
	}
	return nil
}
