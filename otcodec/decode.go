package otcodec

// Decode decodes a buffer whose root table is of type *T.
func Decode[T any, P interface {
	*T
	Table
}](data []byte, opts ...Option) (P, error) {
	return DecodeWith(data, newDecoder[T, P](), opts...)
}

// DecodeWith decodes a buffer with a custom root decoder, for root types
// which are interfaces.
func DecodeWith[T Node](data []byte, decode func(*Cursor) (T, error), opts ...Option) (T, error) {
	c := NewCursor(data, opts...)
	v, err := decode(c)
	if err != nil {
		tracer().Debugf("decode failed: %v", err)
		var zero T
		return zero, err
	}
	return v, nil
}

// RoundTrip encodes n and decodes the result into a fresh value of type *T.
func RoundTrip[T any, P interface {
	*T
	Table
}](n P) (P, []byte, error) {
	b, err := Encode(n)
	if err != nil {
		var zero P
		return zero, nil, err
	}
	v, err := Decode[T, P](b)
	return v, b, err
}
