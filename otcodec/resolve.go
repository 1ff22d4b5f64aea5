package otcodec

// Placement describes where the resolver put a node.
type Placement struct {
	Node  Node
	Pos   int // start position in the output buffer
	Base  int // position the offset leading to the node is measured from
	Size  int // size of the node's own bytes
	Total int // size of the node's complete subtree
	Depth int
}

// Resolver lays out a graph of nodes, assigns a numeric value to every offset
// field and serializes the graph into one buffer.
//
// Tables are laid out depth-first: a table's own bytes are followed by the
// complete subtrees of its children, in the order of its offset fields.
// Nodes reachable over more than one path are serialized once per path.
//
// A Resolver is not safe for concurrent use, but independent Resolvers may be
// used in parallel.
type Resolver struct {
	totals map[Node]int
	onPath map[Node]bool
	layout []Placement
}

// NewResolver creates a resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Encode serializes the graph rooted at root.
func Encode(root Node) ([]byte, error) {
	return NewResolver().Encode(root)
}

// Encode serializes the graph rooted at root. After a successful call,
// Layout reports the placement of every node.
func (r *Resolver) Encode(root Node) ([]byte, error) {
	if root == nil {
		return nil, Errorf(MalformedInput, -1, "cannot encode nil root")
	}
	r.totals = make(map[Node]int)
	r.onPath = make(map[Node]bool)
	r.layout = r.layout[:0]
	total, err := r.total(root)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("encoding %s, %d bytes", NameOf(root), total)
	w := NewWriter(total)
	if err := r.emit(w, root, 0, 0, 0); err != nil {
		return nil, err
	}
	if w.Len() != total {
		return nil, Errorf(MalformedInput, w.Len(), "%s: wrote %d bytes, expected %d", NameOf(root), w.Len(), total)
	}
	return w.Bytes(), nil
}

// Layout returns the placements of the last encoding pass, in output order.
func (r *Resolver) Layout() []Placement {
	return r.layout
}

// total computes the size of the subtree of n, bottom-up.
func (r *Resolver) total(n Node) (int, error) {
	if t, ok := r.totals[n]; ok {
		return t, nil
	}
	if r.onPath[n] {
		return 0, Errorf(MalformedInput, -1, "cycle through %s", NameOf(n))
	}
	r.onPath[n] = true
	defer delete(r.onPath, n)
	sum := n.Size()
	for _, f := range n.Children() {
		child := f.Target()
		if child == nil {
			continue
		}
		t, err := r.total(child)
		if err != nil {
			return 0, err
		}
		sum += t
	}
	r.totals[n] = sum
	return sum, nil
}

// emit writes n at position pos and its children directly after it.
// base is the offset base of n's parent.
func (r *Resolver) emit(w *Writer, n Node, pos, base, depth int) error {
	if w.Len() != pos {
		return Errorf(MalformedInput, w.Len(), "%s: expected at position %d", NameOf(n), pos)
	}
	parentBase := base
	if !isEmbedded(n) {
		base = pos
	}
	size := n.Size()
	fields := n.Children()
	resolved := make(map[OffsetField]uint32, len(fields))
	starts := make([]int, len(fields))
	at := pos + size
	for i, f := range fields {
		child := f.Target()
		if child == nil {
			resolved[f] = 0
			continue
		}
		off := at - base
		if off > maxOffset(f.Width()) {
			e := Errorf(OffsetOutOfRange, pos, "offset %d to %s exceeds %d bits", off, NameOf(child), 8*f.Width())
			e.Table = NameOf(n)
			return e
		}
		if off == 0 {
			return Errorf(MalformedInput, pos, "%s: linked child %s at offset 0", NameOf(n), NameOf(child))
		}
		resolved[f] = uint32(off)
		starts[i] = at
		at += r.totals[child]
	}
	r.layout = append(r.layout, Placement{
		Node: n, Pos: pos, Base: parentBase, Size: size, Total: r.totals[n], Depth: depth,
	})
	w.resolved = resolved
	err := n.EncodeShallow(w)
	w.resolved = nil
	if err != nil {
		return WithTable(err, NameOf(n))
	}
	if written := w.Len() - pos; written != size {
		return Errorf(MalformedInput, pos, "%s: wrote %d bytes, announced %d", NameOf(n), written, size)
	}
	for i, f := range fields {
		child := f.Target()
		if child == nil {
			continue
		}
		if err := r.emit(w, child, starts[i], base, depth+1); err != nil {
			return err
		}
	}
	return nil
}
