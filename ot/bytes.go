package ot

import "github.com/npillmayer/otwire/otcodec"

// readU16s reads consecutive uint16 fields.
func readU16s(c *otcodec.Cursor, dst ...*uint16) error {
	for _, d := range dst {
		v, err := c.U16()
		if err != nil {
			return err
		}
		*d = v
	}
	return nil
}

func readCount(c *otcodec.Cursor) (int, error) {
	n, err := c.U16()
	return int(n), err
}

// fields16 returns the type-erased views of a slice of offset fields.
func fields16[T otcodec.Node](offs []otcodec.Offset16[T]) []otcodec.OffsetField {
	fields := make([]otcodec.OffsetField, len(offs))
	for i := range offs {
		fields[i] = &offs[i]
	}
	return fields
}

// writeCountedOffsets writes a count followed by the offsets.
func writeCountedOffsets[T otcodec.Node](w *otcodec.Writer, offs []otcodec.Offset16[T]) error {
	if err := w.Count(len(offs)); err != nil {
		return err
	}
	for i := range offs {
		if err := w.Offset(&offs[i]); err != nil {
			return err
		}
	}
	return nil
}

// readCountedOffsets reads a count followed by as many offsets to tables of
// type *T.
func readCountedOffsets[T any, P interface {
	*T
	otcodec.Table
}](c *otcodec.Cursor) ([]otcodec.Offset16[P], error) {
	n, err := readCount(c)
	if err != nil {
		return nil, err
	}
	return otcodec.ReadOffset16s[T, P](c, n)
}

func writeGlyphs(w *otcodec.Writer, glyphs []GlyphIndex) error {
	if err := w.Count(len(glyphs)); err != nil {
		return err
	}
	w.GlyphIDs(glyphs)
	return nil
}

func readGlyphs(c *otcodec.Cursor) ([]GlyphIndex, error) {
	n, err := readCount(c)
	if err != nil {
		return nil, err
	}
	return c.GlyphIDs(n)
}

func writeU16s(w *otcodec.Writer, vals []uint16) error {
	if err := w.Count(len(vals)); err != nil {
		return err
	}
	w.U16s(vals)
	return nil
}

func readU16Array(c *otcodec.Cursor) ([]uint16, error) {
	n, err := readCount(c)
	if err != nil {
		return nil, err
	}
	return c.U16s(n)
}

// checkFormat verifies an explicit format field before encoding.
func checkFormat(table string, format uint16, valid ...uint16) error {
	for _, v := range valid {
		if format == v {
			return nil
		}
	}
	return encodeError(otcodec.InvalidDiscriminant, table, "cannot encode format %d", format)
}
