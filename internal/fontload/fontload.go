package fontload

import (
	"os"

	"github.com/npillmayer/otwire/otcodec"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer traces with key 'otwire.fontload'
func tracer() tracing.Trace {
	return tracing.Select("otwire.fontload")
}

// SFNT versions accepted in the font header.
const (
	versionTrueType uint32 = 0x00010000
	versionOTTO     uint32 = 0x4f54544f // 'OTTO'
	versionTrue     uint32 = 0x74727565 // 'true'
)

// TableRecord is an entry of the table directory.
type TableRecord struct {
	Tag      otcodec.Tag
	Checksum uint32
	Offset   uint32
	Length   uint32
}

// ScalableFont is a font file's bytes with its table directory.
type ScalableFont struct {
	Fontname string
	Filepath string
	Version  uint32
	Binary   []byte
	Tables   []TableRecord // in directory order
	SFNT     *sfnt.Font    // nil if x/image cannot parse the font
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont reads the table directory of an OpenType font in memory.
//
// The font name is taken from the name table, if golang.org/x/image is able
// to parse the font. Failing to do so is not an error, as this package is
// interested in table bytes only.
func ParseOpenTypeFont(fbytes []byte) (*ScalableFont, error) {
	f := &ScalableFont{Binary: fbytes}
	if err := f.readDirectory(); err != nil {
		return nil, err
	}
	var err error
	if f.SFNT, err = sfnt.Parse(fbytes); err != nil {
		tracer().Infof("font not parseable by sfnt: %v", err)
		f.SFNT = nil
		return f, nil
	}
	if f.Fontname, err = f.SFNT.Name(nil, sfnt.NameIDFull); err != nil {
		tracer().Debugf("font has no full name: %v", err)
	}
	return f, nil
}

func (f *ScalableFont) readDirectory() error {
	c := otcodec.NewCursor(f.Binary)
	var err error
	if f.Version, err = c.U32(); err != nil {
		return withFont(err)
	}
	if f.Version != versionTrueType && f.Version != versionOTTO && f.Version != versionTrue {
		return fontError(otcodec.InvalidDiscriminant, 0, "font type not supported: %#08x", f.Version)
	}
	n, err := c.U16()
	if err != nil {
		return withFont(err)
	}
	if err = c.Seek(12); err != nil {
		return withFont(err)
	}
	if int(n) > c.Remaining()/16 {
		return fontError(otcodec.UnexpectedEndOfInput, 12, "%d table records exceed font size", n)
	}
	f.Tables = make([]TableRecord, n)
	var prev otcodec.Tag
	for i := range f.Tables {
		rec := &f.Tables[i]
		pos := c.Pos()
		rec.Tag, _ = c.Tag()
		rec.Checksum, _ = c.U32()
		rec.Offset, _ = c.U32()
		rec.Length, _ = c.U32()
		if rec.Tag < prev {
			return fontError(otcodec.MalformedInput, pos, "table %s out of order", rec.Tag)
		}
		prev = rec.Tag
		if end := uint64(rec.Offset) + uint64(rec.Length); end > uint64(len(f.Binary)) {
			return fontError(otcodec.OffsetOutOfRange, pos, "table %s: bounds [%d:%d] exceed font size %d",
				rec.Tag, rec.Offset, end, len(f.Binary))
		}
	}
	tracer().Debugf("font directory has %d tables", n)
	return nil
}

// Tags returns the tags of all tables in the font, in directory order.
func (f *ScalableFont) Tags() []otcodec.Tag {
	tags := make([]otcodec.Tag, len(f.Tables))
	for i, rec := range f.Tables {
		tags[i] = rec.Tag
	}
	return tags
}

// Table returns the directory record for tag.
func (f *ScalableFont) Table(tag otcodec.Tag) (TableRecord, bool) {
	for _, rec := range f.Tables {
		if rec.Tag == tag {
			return rec, true
		}
	}
	return TableRecord{}, false
}

// TableBytes returns the bytes of the table with the given tag, or nil if
// the font does not contain such a table.
func (f *ScalableFont) TableBytes(tag otcodec.Tag) []byte {
	rec, ok := f.Table(tag)
	if !ok {
		return nil
	}
	return f.Binary[rec.Offset : rec.Offset+rec.Length]
}

func fontError(k otcodec.ErrorKind, pos int, format string, args ...any) error {
	e := otcodec.Errorf(k, pos, format, args...)
	e.Table = "font"
	return e
}

func withFont(err error) error {
	return otcodec.WithTable(err, "font")
}
