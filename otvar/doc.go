/*
Package otvar encodes and decodes the packed number formats of OpenType
variation data: packed point numbers and packed deltas, as found in the
tuple variation stores of 'gvar' and 'cvar'.

Both formats are run-length encodings without a self-describing length.
Packed points carry their own count, packed deltas need the number of
values from the caller.
*/
package otvar

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'otwire.var'.
func tracer() tracing.Trace {
	return tracing.Select("otwire.var")
}
