package ot

import (
	"fmt"
	"strings"

	"github.com/npillmayer/otwire/otcodec"
)

// LookupFlag is a bit set qualifying the application of a lookup.
type LookupFlag uint16

const (
	RightToLeft            LookupFlag = 0x0001 // only used by GPOS type 3 lookups
	IgnoreBaseGlyphs       LookupFlag = 0x0002
	IgnoreLigatures        LookupFlag = 0x0004
	IgnoreMarks            LookupFlag = 0x0008
	UseMarkFilteringSet    LookupFlag = 0x0010 // lookup is followed by a MarkFilteringSet field
	MarkAttachmentTypeMask LookupFlag = 0xFF00
)

func (f LookupFlag) Union(other LookupFlag) LookupFlag     { return f | other }
func (f LookupFlag) Intersect(other LookupFlag) LookupFlag { return f & other }
func (f LookupFlag) Contains(flags LookupFlag) bool        { return f&flags == flags }

// MarkAttachmentType returns the mark attachment class filter, 0 if unset.
func (f LookupFlag) MarkAttachmentType() uint8 {
	return uint8(f >> 8)
}

// WithMarkAttachmentType returns f with the mark attachment class filter set.
func (f LookupFlag) WithMarkAttachmentType(class uint8) LookupFlag {
	return f&^MarkAttachmentTypeMask | LookupFlag(class)<<8
}

func (f LookupFlag) String() string {
	var names []string
	for _, x := range []struct {
		flag LookupFlag
		name string
	}{
		{RightToLeft, "RightToLeft"},
		{IgnoreBaseGlyphs, "IgnoreBaseGlyphs"},
		{IgnoreLigatures, "IgnoreLigatures"},
		{IgnoreMarks, "IgnoreMarks"},
		{UseMarkFilteringSet, "UseMarkFilteringSet"},
	} {
		if f.Contains(x.flag) {
			names = append(names, x.name)
		}
	}
	if t := f.MarkAttachmentType(); t != 0 {
		names = append(names, fmt.Sprintf("MarkAttachmentType(%d)", t))
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}

// Subtable is implemented by the lookup subtables of GSUB and GPOS.
type Subtable interface {
	otcodec.Node
	LookupType() uint16
}

// subtableDecoder returns a decoder for subtables of a lookup type.
type subtableDecoder[S Subtable] func(lookupType uint16) func(*otcodec.Cursor) (S, error)

// Lookup is a lookup table. All subtables of a lookup must be of the lookup's
// type; extension lookups hold extension subtables only.
type Lookup[S Subtable] struct {
	Type             uint16
	Flag             LookupFlag
	Subtables        []otcodec.Offset16[S]
	MarkFilteringSet uint16 // present if Flag contains UseMarkFilteringSet
}

func (l *Lookup[S]) Name() string { return fmt.Sprintf("Lookup(type %d)", l.Type) }

func (l *Lookup[S]) Size() int {
	size := 6 + 2*len(l.Subtables)
	if l.Flag.Contains(UseMarkFilteringSet) {
		size += 2
	}
	return size
}

func (l *Lookup[S]) EncodeShallow(w *otcodec.Writer) error {
	for i := range l.Subtables {
		if l.Subtables[i].IsNull() {
			return encodeError(otcodec.MalformedInput, l.Name(), "subtable %d is null", i)
		}
		if t := l.Subtables[i].Link().LookupType(); t != l.Type {
			return encodeError(otcodec.MalformedInput, l.Name(), "subtable %d is of type %d", i, t)
		}
	}
	w.U16(l.Type)
	w.U16(uint16(l.Flag))
	if err := writeCountedOffsets(w, l.Subtables); err != nil {
		return err
	}
	if l.Flag.Contains(UseMarkFilteringSet) {
		w.U16(l.MarkFilteringSet)
	}
	return nil
}

func (l *Lookup[S]) Children() []otcodec.OffsetField { return fields16(l.Subtables) }

func decodeLookup[S Subtable](c *otcodec.Cursor, dec subtableDecoder[S]) (*Lookup[S], error) {
	l := &Lookup[S]{}
	var flag uint16
	if err := readU16s(c, &l.Type, &flag); err != nil {
		return nil, err
	}
	l.Flag = LookupFlag(flag)
	n, err := readCount(c)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("lookup type %d with %d subtables", l.Type, n)
	if l.Subtables, err = otcodec.ReadOffset16sWith(c, n, dec(l.Type)); err != nil {
		return nil, err
	}
	if l.Flag.Contains(UseMarkFilteringSet) {
		if l.MarkFilteringSet, err = c.U16(); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// LookupList is the list of lookups of a GSUB or GPOS table.
type LookupList[S Subtable] struct {
	Lookups []otcodec.Offset16[*Lookup[S]]
}

func (ll *LookupList[S]) Name() string { return "LookupList" }

// Lookup returns the lookup at index i, or nil.
func (ll *LookupList[S]) Lookup(i int) *Lookup[S] {
	if i < 0 || i >= len(ll.Lookups) {
		return nil
	}
	return ll.Lookups[i].Link()
}

func (ll *LookupList[S]) Size() int { return 2 + 2*len(ll.Lookups) }

func (ll *LookupList[S]) EncodeShallow(w *otcodec.Writer) error {
	return writeCountedOffsets(w, ll.Lookups)
}

func (ll *LookupList[S]) Children() []otcodec.OffsetField { return fields16(ll.Lookups) }

func decodeLookupList[S Subtable](c *otcodec.Cursor, dec subtableDecoder[S]) (*LookupList[S], error) {
	n, err := readCount(c)
	if err != nil {
		return nil, err
	}
	ll := &LookupList[S]{}
	ll.Lookups, err = otcodec.ReadOffset16sWith(c, n, func(c *otcodec.Cursor) (*Lookup[S], error) {
		return decodeLookup(c, dec)
	})
	return ll, err
}
