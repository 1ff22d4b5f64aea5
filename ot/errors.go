package ot

import "github.com/npillmayer/otwire/otcodec"

// Errors of this package are otcodec.CodecErrors carrying the name of the
// table or structure where the problem has been detected.

func errorAt(kind otcodec.ErrorKind, table string, pos int, format string, args ...any) error {
	e := otcodec.Errorf(kind, pos, format, args...)
	e.Table = table
	return e
}

// badFormat reports an unknown format discriminant, which has just been read
// from the cursor.
func badFormat(table string, c *otcodec.Cursor, format uint16) error {
	return errorAt(otcodec.InvalidDiscriminant, table, c.Pos()-2, "unknown format %d", format)
}

// unsupported reports a known, but unimplemented variant.
func unsupported(table string, pos int, format string, args ...any) error {
	return errorAt(otcodec.UnsupportedSubformat, table, pos, format, args...)
}

func malformed(table string, pos int, format string, args ...any) error {
	return errorAt(otcodec.MalformedInput, table, pos, format, args...)
}

// encodeError reports a problem detected while encoding; there is no
// meaningful buffer position in this case.
func encodeError(kind otcodec.ErrorKind, table string, format string, args ...any) error {
	return errorAt(kind, table, -1, format, args...)
}
