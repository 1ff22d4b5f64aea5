package ot

import (
	"fmt"

	"github.com/npillmayer/otwire/otcodec"
)

// Anchor is an anchor table: a point used to attach marks or cursive
// connections. Anchors with a contour point are encoded in format 2, all
// others in format 1.
type Anchor struct {
	X, Y        int16
	AnchorPoint Option[uint16]
}

// NewAnchor creates an anchor at (x, y).
func NewAnchor(x, y int16) *Anchor {
	return &Anchor{X: x, Y: y}
}

// NewContourAnchor creates an anchor at (x, y), bound to a glyph contour point.
func NewContourAnchor(x, y int16, point uint16) *Anchor {
	return &Anchor{X: x, Y: y, AnchorPoint: Some(point)}
}

func (a *Anchor) Format() uint16 {
	if a.AnchorPoint.IsSome() {
		return 2
	}
	return 1
}

func (a *Anchor) Size() int {
	if a.AnchorPoint.IsSome() {
		return 8
	}
	return 6
}

func (a *Anchor) EncodeShallow(w *otcodec.Writer) error {
	w.U16(a.Format())
	w.I16(a.X)
	w.I16(a.Y)
	if p, ok := a.AnchorPoint.Unwrap(); ok {
		w.U16(p)
	}
	return nil
}

func (a *Anchor) Children() []otcodec.OffsetField { return nil }

func (a *Anchor) Decode(c *otcodec.Cursor) error {
	format, err := c.U16()
	if err != nil {
		return err
	}
	switch format {
	case 1, 2:
	case 3:
		return unsupported("Anchor", c.Pos()-2, "anchor format 3 (device adjusted) not supported")
	default:
		return badFormat("Anchor", c, format)
	}
	if a.X, err = c.I16(); err != nil {
		return err
	}
	if a.Y, err = c.I16(); err != nil {
		return err
	}
	a.AnchorPoint = None[uint16]()
	if format == 2 {
		p, err := c.U16()
		if err != nil {
			return err
		}
		a.AnchorPoint = Some(p)
	}
	return nil
}

func (a *Anchor) String() string {
	if p, ok := a.AnchorPoint.Unwrap(); ok {
		return fmt.Sprintf("Anchor(%d,%d @%d)", a.X, a.Y, p)
	}
	return fmt.Sprintf("Anchor(%d,%d)", a.X, a.Y)
}
