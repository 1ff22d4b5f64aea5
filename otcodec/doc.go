/*
Package otcodec implements the binary codec machinery for OpenType-style font
tables: structures which are linked by 16- or 32-bit byte offsets relative to
nested table origins inside a single buffer.

Decoding walks a buffer with a Cursor. Offset fields are followed by pushing
the start of the referenced table as a new origin, decoding the child and
restoring the cursor afterwards, so that sibling fields continue to be read
linearly.

Encoding starts from a completely built tree of Nodes. A Resolver computes the
size of every subtree, lays out the tables depth-first (every table followed by
its children, each subtree contiguous) and writes each offset field relative to
the nearest enclosing offset base. Offsets exceeding their field width are
reported as errors, never truncated.

Node types are hand-written: each type knows its own shallow byte layout
(Size, EncodeShallow), the ordered list of its offset fields (Children) and
how to read itself from a Cursor (Decode). Node types must be pointer types.

# Status

The codec is synchronous and reentrant. A graph must not be mutated while it
is being encoded.
*/
package otcodec

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'otwire.codec'
func tracer() tracing.Trace {
	return tracing.Select("otwire.codec")
}
