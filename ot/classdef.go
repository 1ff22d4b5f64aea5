package ot

import (
	"maps"
	"slices"

	"github.com/npillmayer/otwire/otcodec"
)

// ClassDef is a class definition table, mapping glyphs to classes.
//
// Glyphs not contained in the mapping are in class 0. Entries with class 0
// are therefore redundant; they are not encoded and never produced by
// decoding.
//
// On encoding, the cheaper of the two wire formats is chosen: a dense class
// array for a glyph range (format 1) or a list of class ranges (format 2).
// Ties favor format 1. An empty mapping is encoded as format 2 without ranges.
type ClassDef struct {
	Classes map[GlyphIndex]uint16
}

// NewClassDef creates a class definition table from a mapping.
func NewClassDef(classes map[GlyphIndex]uint16) *ClassDef {
	cd := &ClassDef{Classes: make(map[GlyphIndex]uint16, len(classes))}
	for g, cls := range classes {
		if cls != 0 {
			cd.Classes[g] = cls
		}
	}
	return cd
}

// Class returns the class of glyph g.
func (cd *ClassDef) Class(g GlyphIndex) uint16 {
	return cd.Classes[g]
}

// MaxClass returns the highest class used.
func (cd *ClassDef) MaxClass() uint16 {
	var m uint16
	for _, cls := range cd.Classes {
		m = max(m, cls)
	}
	return m
}

// sortedGlyphs returns the glyphs with a non-zero class in ascending order.
func (cd *ClassDef) sortedGlyphs() []GlyphIndex {
	glyphs := slices.Collect(maps.Keys(cd.Classes))
	slices.Sort(glyphs)
	return slices.DeleteFunc(glyphs, func(g GlyphIndex) bool {
		return cd.Classes[g] == 0
	})
}

func (cd *ClassDef) ranges(glyphs []GlyphIndex) []glyphRange {
	var ranges []glyphRange
	for i, g := range glyphs {
		cls := cd.Classes[g]
		if i > 0 {
			last := &ranges[len(ranges)-1]
			if g == last.end+1 && cls == last.value {
				last.end = g
				continue
			}
		}
		ranges = append(ranges, glyphRange{start: g, end: g, value: cls})
	}
	return ranges
}

// Format returns the wire format an encoding of cd will use.
func (cd *ClassDef) Format() uint16 {
	f, _, _ := cd.layout()
	return f
}

func (cd *ClassDef) layout() (uint16, []GlyphIndex, []glyphRange) {
	glyphs := cd.sortedGlyphs()
	if len(glyphs) == 0 {
		return 2, nil, nil
	}
	ranges := cd.ranges(glyphs)
	span := int(glyphs[len(glyphs)-1]) - int(glyphs[0]) + 1
	if 6+2*span <= 4+6*len(ranges) {
		return 1, glyphs, ranges
	}
	return 2, glyphs, ranges
}

func (cd *ClassDef) Size() int {
	f, glyphs, ranges := cd.layout()
	if f == 1 {
		return 6 + 2*(int(glyphs[len(glyphs)-1])-int(glyphs[0])+1)
	}
	return 4 + 6*len(ranges)
}

func (cd *ClassDef) EncodeShallow(w *otcodec.Writer) error {
	f, glyphs, ranges := cd.layout()
	w.U16(f)
	if f == 1 {
		first, last := glyphs[0], glyphs[len(glyphs)-1]
		w.GlyphID(first)
		if err := w.Count(int(last) - int(first) + 1); err != nil {
			return err
		}
		for g := int(first); g <= int(last); g++ {
			w.U16(cd.Classes[GlyphIndex(g)])
		}
		return nil
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

func (cd *ClassDef) Children() []otcodec.OffsetField { return nil }

func (cd *ClassDef) Decode(c *otcodec.Cursor) error {
	format, err := c.U16()
	if err != nil {
		return err
	}
	cd.Classes = make(map[GlyphIndex]uint16)
	switch format {
	case 1:
		start, err := c.U16()
		if err != nil {
			return err
		}
		classes, err := readU16Array(c)
		if err != nil {
			return err
		}
		if int(start)+len(classes) > 0x10000 {
			return malformed("ClassDef", c.Pos(), "class array exceeds glyph range")
		}
		for i, cls := range classes {
			if cls != 0 {
				cd.Classes[GlyphIndex(int(start)+i)] = cls
			}
		}
		return nil
	case 2:
		n, err := readCount(c)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			var start, end, cls uint16
			if err := readU16s(c, &start, &end, &cls); err != nil {
				return err
			}
			if end < start {
				return malformed("ClassDef", c.Pos()-6, "range end %d before start %d", end, start)
			}
			if cls == 0 {
				continue
			}
			for g := int(start); g <= int(end); g++ {
				if _, dup := cd.Classes[GlyphIndex(g)]; dup {
					return malformed("ClassDef", c.Pos()-6, "ranges overlap at glyph %d", g)
				}
				cd.Classes[GlyphIndex(g)] = cls
			}
		}
		return nil
	}
	return badFormat("ClassDef", c, format)
}
