package otvar

import "github.com/npillmayer/otwire/otcodec"

const (
	deltasAreZero  uint8 = 0x80
	deltasAreWords uint8 = 0x40
	deltaRunMask   uint8 = 0x3f
	maxDeltaRun          = 64
)

// PackedDeltas is a sequence of delta values, one per point or cvt entry.
type PackedDeltas []int16

func isByte(v int16) bool { return v >= -128 && v <= 127 }

// Encode appends the packed representation of d to w.
//
// Runs hold up to 64 values. Zeros are packed into zero runs, except for a
// single zero inside a byte run. A word run is interrupted by a zero or by
// two consecutive byte values.
func (d PackedDeltas) Encode(w *otcodec.Writer) {
	for pos := 0; pos < len(d); {
		end := pos + 1
		switch v := d[pos]; {
		case v == 0:
			for end < len(d) && d[end] == 0 {
				end++
			}
			for n := end - pos; n > 0; n -= min(n, maxDeltaRun) {
				w.U8(deltasAreZero | uint8(min(n, maxDeltaRun)-1))
			}
		case isByte(v):
			for end < len(d) && isByte(d[end]) && !(d[end] == 0 && end+1 < len(d) && d[end+1] == 0) {
				end++
			}
			for start := pos; start < end; start += maxDeltaRun {
				run := d[start:min(end, start+maxDeltaRun)]
				w.U8(uint8(len(run) - 1))
				for _, x := range run {
					w.I8(int8(x))
				}
			}
		default:
			for end < len(d) && d[end] != 0 && !(isByte(d[end]) && end+1 < len(d) && isByte(d[end+1])) {
				end++
			}
			for start := pos; start < end; start += maxDeltaRun {
				run := d[start:min(end, start+maxDeltaRun)]
				w.U8(deltasAreWords | uint8(len(run)-1))
				for _, x := range run {
					w.I16(x)
				}
			}
		}
		pos = end
	}
}

// Bytes returns the packed representation of d.
func (d PackedDeltas) Bytes() []byte {
	w := otcodec.NewWriter(len(d) + 1)
	d.Encode(w)
	return w.Bytes()
}

// DecodePackedDeltas reads n packed deltas from c. Runs extending beyond n
// values are an error.
func DecodePackedDeltas(c *otcodec.Cursor, n int) (PackedDeltas, error) {
	deltas := make(PackedDeltas, 0, n)
	for len(deltas) < n {
		start := c.Pos()
		control, err := c.U8()
		if err != nil {
			return nil, err
		}
		runLen := int(control&deltaRunMask) + 1
		if len(deltas)+runLen > n {
			return nil, malformed(start, "delta run of %d exceeds count %d", runLen, n)
		}
		switch {
		case control&deltasAreZero != 0:
			deltas = append(deltas, make([]int16, runLen)...)
		case control&deltasAreWords != 0:
			words, err := c.I16s(runLen)
			if err != nil {
				return nil, err
			}
			deltas = append(deltas, words...)
		default:
			b, err := c.Consume(runLen)
			if err != nil {
				return nil, err
			}
			for _, x := range b {
				deltas = append(deltas, int16(int8(x)))
			}
		}
	}
	return deltas, nil
}
