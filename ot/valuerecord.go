package ot

import (
	"math/bits"
	"strings"

	"github.com/npillmayer/otwire/otcodec"
)

// ValueFormat is a bit set declaring which fields of a value record are
// present.
type ValueFormat uint16

const (
	XPlacement ValueFormat = 1 << iota
	YPlacement
	XAdvance
	YAdvance
	XPlaDevice
	YPlaDevice
	XAdvDevice
	YAdvDevice
)

const valueFormatReserved ValueFormat = 0xff00

func (vf ValueFormat) Union(other ValueFormat) ValueFormat     { return vf | other }
func (vf ValueFormat) Intersect(other ValueFormat) ValueFormat { return vf & other }
func (vf ValueFormat) Contains(flags ValueFormat) bool         { return vf&flags == flags }

// RecordSize returns the size of a value record in this format.
func (vf ValueFormat) RecordSize() int {
	return 2 * bits.OnesCount16(uint16(vf&^valueFormatReserved))
}

var valueFormatNames = []string{
	"XPlacement", "YPlacement", "XAdvance", "YAdvance",
	"XPlaDevice", "YPlaDevice", "XAdvDevice", "YAdvDevice",
}

func (vf ValueFormat) String() string {
	var names []string
	for i, name := range valueFormatNames {
		if vf&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}

// ValueRecord holds positioning adjustments. It is an inline record; the
// offsets of its device tables are measured from the start of the subtable
// containing the record.
type ValueRecord struct {
	XPlacement int16
	YPlacement int16
	XAdvance   int16
	YAdvance   int16
	XPlaDevice otcodec.Offset16[*Device]
	YPlaDevice otcodec.Offset16[*Device]
	XAdvDevice otcodec.Offset16[*Device]
	YAdvDevice otcodec.Offset16[*Device]
}

// Format returns the minimal value format able to hold vr.
func (vr *ValueRecord) Format() ValueFormat {
	var vf ValueFormat
	if vr.XPlacement != 0 {
		vf |= XPlacement
	}
	if vr.YPlacement != 0 {
		vf |= YPlacement
	}
	if vr.XAdvance != 0 {
		vf |= XAdvance
	}
	if vr.YAdvance != 0 {
		vf |= YAdvance
	}
	if !vr.XPlaDevice.IsNull() {
		vf |= XPlaDevice
	}
	if !vr.YPlaDevice.IsNull() {
		vf |= YPlaDevice
	}
	if !vr.XAdvDevice.IsNull() {
		vf |= XAdvDevice
	}
	if !vr.YAdvDevice.IsNull() {
		vf |= YAdvDevice
	}
	return vf
}

// valueFormatOf returns the union of the minimal formats of records.
func valueFormatOf(records ...*ValueRecord) ValueFormat {
	var vf ValueFormat
	for _, vr := range records {
		vf = vf.Union(vr.Format())
	}
	return vf
}

func (vr *ValueRecord) devices() []*otcodec.Offset16[*Device] {
	return []*otcodec.Offset16[*Device]{&vr.XPlaDevice, &vr.YPlaDevice, &vr.XAdvDevice, &vr.YAdvDevice}
}

// children returns the device offset fields present in format vf.
func (vr *ValueRecord) children(vf ValueFormat) []otcodec.OffsetField {
	var fields []otcodec.OffsetField
	for i, dev := range vr.devices() {
		if vf&(XPlaDevice<<i) != 0 {
			fields = append(fields, dev)
		}
	}
	return fields
}

func (vr *ValueRecord) encode(w *otcodec.Writer, vf ValueFormat) error {
	if missing := vr.Format() &^ vf; missing != 0 {
		return encodeError(otcodec.ValueOutOfWidth, "ValueRecord",
			"value format %s cannot hold %s", vf, missing)
	}
	for i, v := range []int16{vr.XPlacement, vr.YPlacement, vr.XAdvance, vr.YAdvance} {
		if vf&(XPlacement<<i) != 0 {
			w.I16(v)
		}
	}
	for i, dev := range vr.devices() {
		if vf&(XPlaDevice<<i) != 0 {
			if err := w.Offset(dev); err != nil {
				return err
			}
		}
	}
	return nil
}

func (vr *ValueRecord) decode(c *otcodec.Cursor, vf ValueFormat) error {
	for i, v := range []*int16{&vr.XPlacement, &vr.YPlacement, &vr.XAdvance, &vr.YAdvance} {
		if vf&(XPlacement<<i) != 0 {
			x, err := c.I16()
			if err != nil {
				return err
			}
			*v = x
		}
	}
	for i, dev := range vr.devices() {
		if vf&(XPlaDevice<<i) != 0 {
			if err := otcodec.ReadOffset16(c, dev); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkValueFormat(table string, c *otcodec.Cursor, vf ValueFormat) error {
	if vf&valueFormatReserved != 0 {
		return malformed(table, c.Pos()-2, "reserved value format bits set: %#x", uint16(vf))
	}
	return nil
}
