package otcodec

import (
	"fmt"
	"math"

	"golang.org/x/image/math/fixed"
)

// GlyphID is a glyph index of a font.
type GlyphID uint16

// Tag is a 4-byte identifier for tables, scripts, features etc.
type Tag uint32

// MakeTag creates a Tag from 4 bytes.
// If b is shorter or longer, MakeTag will return 0.
func MakeTag(b []byte) Tag {
	if len(b) != 4 {
		return 0
	}
	return Tag(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

// T returns a Tag from a (4-letter) string. Shorter strings are padded
// with spaces.
func T(str string) Tag {
	b := []byte(str + "    ")[:4]
	return MakeTag(b)
}

func (t Tag) String() string {
	return string([]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)})
}

// Uint24 is a 3-byte unsigned integer.
type Uint24 uint32

// MaxUint24 is the largest value representable as Uint24.
const MaxUint24 = 1<<24 - 1

// Fixed is a signed 16.16 fixed-point number.
type Fixed int32

// FixedFromInt converts an integer to Fixed.
func FixedFromInt(i int) Fixed {
	return Fixed(int32(fixed.I(i)) << 10)
}

// FixedFromFloat converts a float to Fixed, rounding to the nearest
// representable value.
func FixedFromFloat(f float64) Fixed {
	return Fixed(int32(math.Round(f * 65536)))
}

// Float returns f as a float64.
func (f Fixed) Float() float64 {
	return float64(f) / 65536
}

// Mul returns f·g, rounded to nearest.
func (f Fixed) Mul(g Fixed) Fixed {
	return Fixed((int64(f)*int64(g) + 1<<15) >> 16)
}

// Int26_6 converts f to the 26.6 format used by golang.org/x/image,
// dropping the lowest 10 fractional bits.
func (f Fixed) Int26_6() fixed.Int26_6 {
	return fixed.Int26_6(int32(f) >> 10)
}

func (f Fixed) String() string {
	return fmt.Sprintf("%g", f.Float())
}

// F2Dot14 is a signed 2.14 fixed-point number.
type F2Dot14 int16

// F2Dot14FromFloat converts a float in [-2,2) to F2Dot14. Values outside the
// range are an error of kind ValueOutOfWidth.
func F2Dot14FromFloat(f float64) (F2Dot14, error) {
	v := math.Round(f * 16384)
	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, Errorf(ValueOutOfWidth, -1, "%g does not fit F2Dot14", f)
	}
	return F2Dot14(v), nil
}

// Float returns f as a float64.
func (f F2Dot14) Float() float64 {
	return float64(f) / 16384
}

func (f F2Dot14) String() string {
	return fmt.Sprintf("%g", f.Float())
}
