package otcodec

import (
	"bytes"
	"fmt"
	"io"
)

// WalkFunc is called for every node reachable from a root, in layout order.
// parent is nil for the root.
type WalkFunc func(n, parent Node, depth int) error

// Walk visits the graph rooted at root depth-first, in the same order the
// Resolver lays out nodes. Null offsets are skipped.
func Walk(root Node, fn WalkFunc) error {
	return walk(root, nil, 0, make(map[Node]bool), fn)
}

func walk(n, parent Node, depth int, onPath map[Node]bool, fn WalkFunc) error {
	if onPath[n] {
		return Errorf(MalformedInput, -1, "cycle through %s", NameOf(n))
	}
	if err := fn(n, parent, depth); err != nil {
		return err
	}
	onPath[n] = true
	defer delete(onPath, n)
	for _, f := range n.Children() {
		if child := f.Target(); child != nil {
			if err := walk(child, n, depth+1, onPath, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Count returns the number of nodes reachable from root, counting shared
// nodes once per path.
func Count(root Node) (int, error) {
	cnt := 0
	err := Walk(root, func(Node, Node, int) error {
		cnt++
		return nil
	})
	return cnt, err
}

// WriteDOT writes the graph rooted at root in Graphviz DOT format.
// Edges are labeled with the width of the offset field.
func WriteDOT(out io.Writer, root Node) error {
	ids := make(map[Node]int)
	next := 0
	id := func(n Node) int {
		if i, ok := ids[n]; ok {
			return i
		}
		ids[n] = next
		next++
		return ids[n]
	}
	if _, err := fmt.Fprintln(out, "digraph offsets {"); err != nil {
		return err
	}
	err := Walk(root, func(n, parent Node, depth int) error {
		i := id(n)
		if _, err := fmt.Fprintf(out, "  n%d [label=%q];\n", i, NameOf(n)); err != nil {
			return err
		}
		if parent == nil {
			return nil
		}
		_, err := fmt.Fprintf(out, "  n%d -> n%d [label=%q];\n", id(parent), i, edgeLabel(parent, n))
		return err
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, "}")
	return err
}

func edgeLabel(parent, child Node) string {
	for _, f := range parent.Children() {
		if f.Target() == child {
			return fmt.Sprintf("off%d", 8*f.Width())
		}
	}
	return ""
}

// Equivalent reports whether the graphs rooted at a and b encode to the same
// bytes. Untouched and null offsets are not told apart, and neither are a
// shared subtable and two equal copies of it.
func Equivalent(a, b Node) (bool, error) {
	ba, err := Encode(a)
	if err != nil {
		return false, err
	}
	bb, err := Encode(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ba, bb), nil
}
