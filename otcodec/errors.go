package otcodec

import (
	"errors"
	"fmt"
)

// ErrorKind classifies codec failures. An ErrorKind is itself an error, so
// clients may test with errors.Is(err, otcodec.OffsetOutOfRange).
type ErrorKind int

const (
	// UnexpectedEndOfInput: the cursor ran past the end of the buffer.
	UnexpectedEndOfInput ErrorKind = iota + 1
	// InvalidDiscriminant: unrecognized format or version tag.
	InvalidDiscriminant
	// OffsetOutOfRange: a computed offset does not fit its field width.
	OffsetOutOfRange
	// OffsetNotResolved: an offset field was serialized outside of a resolver pass.
	OffsetNotResolved
	// ValueOutOfWidth: a value does not fit the widest packed representation.
	ValueOutOfWidth
	// UnsupportedSubformat: a recognized but unimplemented variant.
	UnsupportedSubformat
	// MalformedInput: data is internally inconsistent.
	MalformedInput
	// NestingTooDeep: offset chains exceed the configured depth limit.
	NestingTooDeep
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedEndOfInput:
		return "unexpected end of input"
	case InvalidDiscriminant:
		return "invalid discriminant"
	case OffsetOutOfRange:
		return "offset out of range"
	case OffsetNotResolved:
		return "offset not resolved"
	case ValueOutOfWidth:
		return "value out of width"
	case UnsupportedSubformat:
		return "unsupported subformat"
	case MalformedInput:
		return "malformed input"
	case NestingTooDeep:
		return "nesting too deep"
	}
	return "unknown error"
}

func (k ErrorKind) Error() string {
	return k.String()
}

// encoding reports whether errors of kind k arise while serializing.
func (k ErrorKind) encoding() bool {
	return k == OffsetOutOfRange || k == OffsetNotResolved || k == ValueOutOfWidth
}

// CodecError is the error type returned by all decode and encode operations
// of this module.
type CodecError struct {
	Kind  ErrorKind
	Table string // table or structure where the error occurred, may be empty
	Pos   int    // byte position in the buffer, -1 if unknown
	Issue string // human readable description
	Err   error  // wrapped cause, may be nil
}

// Errorf creates a CodecError of kind k at buffer position pos.
func Errorf(k ErrorKind, pos int, format string, args ...any) *CodecError {
	return &CodecError{Kind: k, Pos: pos, Issue: fmt.Sprintf(format, args...)}
}

func (e *CodecError) Error() string {
	where := e.Table
	if where == "" {
		where = "-"
	}
	if e.Pos >= 0 {
		return fmt.Sprintf("[%s] %s at offset %d: %s", e.Kind, where, e.Pos, e.Issue)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, where, e.Issue)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// Is matches ErrorKind sentinels.
func (e *CodecError) Is(target error) bool {
	if k, ok := target.(ErrorKind); ok {
		return k == e.Kind
	}
	return false
}

// ErrorCode returns the error kind as an integer code.
func (e *CodecError) ErrorCode() int {
	return int(e.Kind)
}

// UserMessage returns a message suitable for end users of font tools.
func (e *CodecError) UserMessage() string {
	verb := "parse"
	if e.Kind.encoding() {
		verb = "encode"
	}
	if e.Table != "" {
		return fmt.Sprintf("could not %s font table %s (%s)", verb, e.Table, e.Kind)
	}
	return fmt.Sprintf("could not %s font table (%s)", verb, e.Kind)
}

// WithTable attaches a table name to err, if err is a CodecError without
// table context. Other errors are wrapped as MalformedInput.
func WithTable(err error, table string) error {
	if err == nil {
		return nil
	}
	var cerr *CodecError
	if errors.As(err, &cerr) {
		if cerr.Table != "" {
			return err
		}
		c := *cerr
		c.Table = table
		return &c
	}
	return &CodecError{Kind: MalformedInput, Table: table, Pos: -1, Issue: err.Error(), Err: err}
}

// KindOf extracts the error kind of err, or 0 if err is not a codec error.
func KindOf(err error) ErrorKind {
	var cerr *CodecError
	if errors.As(err, &cerr) {
		return cerr.Kind
	}
	var k ErrorKind
	if errors.As(err, &k) {
		return k
	}
	return 0
}
