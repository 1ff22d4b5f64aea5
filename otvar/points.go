package otvar

import "github.com/npillmayer/otwire/otcodec"

const (
	pointsAreWords   uint8 = 0x80
	pointRunMask     uint8 = 0x7f
	maxPointRun            = 127
	maxPointCount          = 0x7fff
	pointCountIsWord uint8 = 0x80
)

// PackedPoints is a list of point numbers of a glyph, or all points of the
// glyph (including phantom points) if All is set.
type PackedPoints struct {
	All    bool
	Points []uint16 // ascending
}

// AllPoints denotes all points of a glyph.
func AllPoints() PackedPoints {
	return PackedPoints{All: true}
}

// Encode appends the packed representation of p to w.
//
// Points are stored as differences to their predecessor, in runs of up to
// 127 byte or word values. The width of a run is decided by its first
// value; a byte run ends at the first difference not fitting a byte.
func (p PackedPoints) Encode(w *otcodec.Writer) error {
	if p.All {
		w.U8(0)
		return nil
	}
	n := len(p.Points)
	switch {
	case n == 0:
		return otcodec.Errorf(otcodec.ValueOutOfWidth, w.Len(), "empty point list would denote all points")
	case n > maxPointCount:
		return otcodec.Errorf(otcodec.ValueOutOfWidth, w.Len(), "%d points exceed packed count", n)
	case n <= int(pointRunMask):
		w.U8(uint8(n))
	default:
		w.U16(uint16(n) | uint16(pointCountIsWord)<<8)
	}
	deltas := make([]uint16, n)
	var last uint16
	for i, pt := range p.Points {
		if i > 0 && pt <= last {
			return otcodec.Errorf(otcodec.ValueOutOfWidth, w.Len(), "point %d not ascending after %d", pt, last)
		}
		deltas[i] = pt - last
		last = pt
	}
	for pos := 0; pos < n; {
		words := deltas[pos] > 0xff
		end := pos + 1
		for end < n && end-pos < maxPointRun && (words || deltas[end] <= 0xff) {
			end++
		}
		run := deltas[pos:end]
		if words {
			w.U8(pointsAreWords | uint8(len(run)-1))
			w.U16s(run)
		} else {
			w.U8(uint8(len(run) - 1))
			for _, d := range run {
				w.U8(uint8(d))
			}
		}
		pos = end
	}
	return nil
}

// Bytes returns the packed representation of p.
func (p PackedPoints) Bytes() ([]byte, error) {
	w := otcodec.NewWriter(1 + 2*len(p.Points))
	if err := p.Encode(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DecodePackedPoints reads packed point numbers from c.
func DecodePackedPoints(c *otcodec.Cursor) (PackedPoints, error) {
	b, err := c.U8()
	if err != nil {
		return PackedPoints{}, err
	}
	count := int(b)
	if b&pointCountIsWord != 0 {
		b2, err := c.U8()
		if err != nil {
			return PackedPoints{}, err
		}
		count = int(b&^pointCountIsWord)<<8 | int(b2)
	}
	if count == 0 {
		return AllPoints(), nil
	}
	points := make([]uint16, 0, count)
	last := 0
	for len(points) < count {
		start := c.Pos()
		control, err := c.U8()
		if err != nil {
			return PackedPoints{}, err
		}
		runLen := int(control&pointRunMask) + 1
		if len(points)+runLen > count {
			return PackedPoints{}, malformed(start, "point run of %d exceeds count %d", runLen, count)
		}
		for i := 0; i < runLen; i++ {
			var d int
			if control&pointsAreWords != 0 {
				v, err := c.U16()
				if err != nil {
					return PackedPoints{}, err
				}
				d = int(v)
			} else {
				v, err := c.U8()
				if err != nil {
					return PackedPoints{}, err
				}
				d = int(v)
			}
			if last += d; last > 0xffff {
				return PackedPoints{}, malformed(c.Pos(), "point number %d out of range", last)
			}
			points = append(points, uint16(last))
		}
	}
	tracer().Debugf("decoded %d packed points", count)
	return PackedPoints{Points: points}, nil
}

func malformed(pos int, format string, args ...any) error {
	e := otcodec.Errorf(otcodec.MalformedInput, pos, format, args...)
	e.Table = "otvar"
	return e
}
