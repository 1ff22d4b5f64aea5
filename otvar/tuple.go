package otvar

import "github.com/npillmayer/otwire/otcodec"

// Tuple is a position in the normalized design space of a variable font,
// one coordinate per axis in the range [-1, 1].
type Tuple []otcodec.F2Dot14

// Encode appends the coordinates of t to w.
func (t Tuple) Encode(w *otcodec.Writer) {
	for _, v := range t {
		w.F2Dot14(v)
	}
}

// DecodeTuple reads a tuple of axisCount coordinates from c.
func DecodeTuple(c *otcodec.Cursor, axisCount int) (Tuple, error) {
	if axisCount < 0 || axisCount > c.Remaining()/2 {
		return nil, otcodec.Errorf(otcodec.UnexpectedEndOfInput, c.Pos(), "tuple of %d axes exceeds buffer", axisCount)
	}
	t := make(Tuple, axisCount)
	for i := range t {
		v, err := c.F2Dot14()
		if err != nil {
			return nil, err
		}
		if v < -1<<14 || v > 1<<14 {
			return nil, malformed(c.Pos()-2, "coordinate %s outside of [-1, 1]", v)
		}
		t[i] = v
	}
	return t, nil
}

func (t Tuple) at(i int) otcodec.F2Dot14 {
	if i < len(t) {
		return t[i]
	}
	return 0
}

// Region is the area of the design space a set of deltas applies to. Its
// influence is 1 at Peak and falls linearly to 0 at Start and End. Without
// an intermediate region, Start and End are nil and each axis spans from 0
// to its peak coordinate.
type Region struct {
	Peak       Tuple
	Start, End Tuple
}

// Scalar returns the factor by which deltas of region r are applied at the
// design space position coords.
func (r Region) Scalar(coords Tuple) otcodec.Fixed {
	one := otcodec.FixedFromInt(1)
	scalar := one
	for i, peak := range r.Peak {
		if peak == 0 {
			continue
		}
		v := coords.at(i)
		if v == peak {
			continue
		}
		start, end := min(peak, 0), max(peak, 0)
		if r.Start != nil && r.End != nil {
			start, end = r.Start.at(i), r.End.at(i)
			if start > peak || peak > end || (start < 0 && end > 0) {
				continue
			}
		}
		if v <= start || v >= end {
			return 0
		}
		var num, den int64
		if v < peak {
			num, den = int64(v-start), int64(peak-start)
		} else {
			num, den = int64(end-v), int64(end-peak)
		}
		scalar = scalar.Mul(otcodec.Fixed(num << 16 / den))
	}
	tracer().Debugf("scalar of region %v at %v is %s", r.Peak, coords, scalar)
	return scalar
}

// Scale multiplies every delta by a region scalar.
func (d PackedDeltas) Scale(scalar otcodec.Fixed) []otcodec.Fixed {
	scaled := make([]otcodec.Fixed, len(d))
	for i, v := range d {
		scaled[i] = otcodec.FixedFromInt(int(v)).Mul(scalar)
	}
	return scaled
}
