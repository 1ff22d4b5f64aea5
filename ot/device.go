package ot

import (
	"fmt"

	"github.com/npillmayer/otwire/otcodec"
)

// Delta formats of device tables.
const (
	DeltaAuto           uint16 = 0 // choose the narrowest format on encoding
	DeltaLocal2Bit      uint16 = 1
	DeltaLocal4Bit      uint16 = 2
	DeltaLocal8Bit      uint16 = 3
	DeltaVariationIndex uint16 = 0x8000
)

// Device is a device table holding per-ppem adjustments for a range of sizes,
// or, with format DeltaVariationIndex, a reference into an item variation
// store (outer index in StartSize, inner index in EndSize).
type Device struct {
	StartSize   uint16
	EndSize     uint16
	DeltaFormat uint16
	Deltas      []int16 // one per size in [StartSize, EndSize]
}

// NewDevice creates a device table for consecutive sizes starting at start,
// in the narrowest format able to hold all deltas.
func NewDevice(start uint16, deltas ...int16) (*Device, error) {
	if len(deltas) == 0 {
		return nil, encodeError(otcodec.MalformedInput, "Device", "no deltas")
	}
	d := &Device{StartSize: start, EndSize: start + uint16(len(deltas)-1), Deltas: deltas}
	f, err := d.format()
	if err != nil {
		return nil, err
	}
	d.DeltaFormat = f
	return d, nil
}

// NewVariationIndex creates a device table referencing variation data.
func NewVariationIndex(outer, inner uint16) *Device {
	return &Device{StartSize: outer, EndSize: inner, DeltaFormat: DeltaVariationIndex}
}

// VariationIndex returns the outer and inner index of a device table in
// variation index format.
func (d *Device) VariationIndex() (outer, inner uint16, ok bool) {
	if d.DeltaFormat != DeltaVariationIndex {
		return 0, 0, false
	}
	return d.StartSize, d.EndSize, true
}

// Delta returns the adjustment for a size.
func (d *Device) Delta(ppem uint16) int16 {
	if d.DeltaFormat == DeltaVariationIndex || ppem < d.StartSize || ppem > d.EndSize {
		return 0
	}
	i := int(ppem - d.StartSize)
	if i >= len(d.Deltas) {
		return 0
	}
	return d.Deltas[i]
}

func deltaBits(format uint16) int {
	return 1 << format // 2, 4, 8
}

func fitsBits(v int16, bits int) bool {
	lo, hi := -(1 << (bits - 1)), 1<<(bits-1)-1
	return int(v) >= lo && int(v) <= hi
}

// format returns the delta format used for encoding.
func (d *Device) format() (uint16, error) {
	switch d.DeltaFormat {
	case DeltaVariationIndex:
		return DeltaVariationIndex, nil
	case DeltaAuto:
		for f := DeltaLocal2Bit; f <= DeltaLocal8Bit; f++ {
			if d.allFit(deltaBits(f)) {
				return f, nil
			}
		}
		return 0, encodeError(otcodec.ValueOutOfWidth, "Device", "deltas exceed 8 bits")
	case DeltaLocal2Bit, DeltaLocal4Bit, DeltaLocal8Bit:
		if !d.allFit(deltaBits(d.DeltaFormat)) {
			return 0, encodeError(otcodec.ValueOutOfWidth, "Device",
				"deltas exceed %d bits of format %d", deltaBits(d.DeltaFormat), d.DeltaFormat)
		}
		return d.DeltaFormat, nil
	}
	return 0, encodeError(otcodec.InvalidDiscriminant, "Device", "unknown delta format %#x", d.DeltaFormat)
}

func (d *Device) allFit(bits int) bool {
	for _, v := range d.Deltas {
		if !fitsBits(v, bits) {
			return false
		}
	}
	return true
}

func deltaWords(count, bits int) int {
	return (count*bits + 15) / 16
}

func (d *Device) Size() int {
	f, err := d.format()
	if err != nil || f == DeltaVariationIndex {
		return 6 // the error is reported by EncodeShallow
	}
	return 6 + 2*deltaWords(len(d.Deltas), deltaBits(f))
}

func (d *Device) EncodeShallow(w *otcodec.Writer) error {
	f, err := d.format()
	if err != nil {
		return err
	}
	w.U16(d.StartSize)
	w.U16(d.EndSize)
	w.U16(f)
	if f == DeltaVariationIndex {
		return nil
	}
	if d.EndSize < d.StartSize || int(d.EndSize-d.StartSize)+1 != len(d.Deltas) {
		return encodeError(otcodec.MalformedInput, "Device", "%d deltas for sizes %d…%d",
			len(d.Deltas), d.StartSize, d.EndSize)
	}
	w.U16s(packDeltas(d.Deltas, deltaBits(f)))
	return nil
}

// packDeltas packs signed values of a given bit width MSB-first into 16-bit
// words. The last word is padded with zeros.
func packDeltas(deltas []int16, bits int) []uint16 {
	words := make([]uint16, deltaWords(len(deltas), bits))
	perWord := 16 / bits
	mask := uint16(1)<<bits - 1
	for i, v := range deltas {
		shift := 16 - bits*(i%perWord+1)
		words[i/perWord] |= (uint16(v) & mask) << shift
	}
	return words
}

func unpackDeltas(words []uint16, count, bits int) []int16 {
	deltas := make([]int16, count)
	perWord := 16 / bits
	mask := uint16(1)<<bits - 1
	for i := range deltas {
		shift := 16 - bits*(i%perWord+1)
		raw := (words[i/perWord] >> shift) & mask
		// sign-extend from the top bit of the field
		deltas[i] = int16(raw<<(16-bits)) >> (16 - bits)
	}
	return deltas
}

func (d *Device) Children() []otcodec.OffsetField { return nil }

func (d *Device) Decode(c *otcodec.Cursor) error {
	if err := readU16s(c, &d.StartSize, &d.EndSize, &d.DeltaFormat); err != nil {
		return err
	}
	switch d.DeltaFormat {
	case DeltaVariationIndex:
		d.Deltas = nil
		return nil
	case DeltaLocal2Bit, DeltaLocal4Bit, DeltaLocal8Bit:
	default:
		return badFormat("Device", c, d.DeltaFormat)
	}
	if d.EndSize < d.StartSize {
		return malformed("Device", c.Pos()-6, "end size %d before start size %d", d.EndSize, d.StartSize)
	}
	count := int(d.EndSize-d.StartSize) + 1
	bits := deltaBits(d.DeltaFormat)
	words, err := c.U16s(deltaWords(count, bits))
	if err != nil {
		return err
	}
	d.Deltas = unpackDeltas(words, count, bits)
	return nil
}

func (d *Device) String() string {
	if outer, inner, ok := d.VariationIndex(); ok {
		return fmt.Sprintf("VariationIndex(%d,%d)", outer, inner)
	}
	return fmt.Sprintf("Device(%d…%d %v)", d.StartSize, d.EndSize, d.Deltas)
}
