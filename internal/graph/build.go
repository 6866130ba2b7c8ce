package graph

import (
	"strconv"

	"github.com/mcncl/jsontree/internal/models"
)

// Options controls layout spacing.
type Options struct {
	// LevelXGap is the horizontal distance between depths.
	LevelXGap float64
	// SiblingYGap is the vertical slot height of one leaf.
	SiblingYGap float64
}

// DefaultOptions returns the standard spacing.
func DefaultOptions() Options {
	return Options{LevelXGap: LevelXGap, SiblingYGap: SiblingYGap}
}

// Build converts v into a positioned tree using DefaultOptions.
func Build(v models.JSONValue) *Graph {
	return BuildWithOptions(v, DefaultOptions())
}

// child is a value waiting to be visited below its parent.
type child struct {
	key   string
	path  string
	value models.JSONValue
}

// laidOut is a visited child with its leaf count.
type laidOut struct {
	node int
	size int
}

// frame is a composite node whose children are still being visited.
type frame struct {
	node     int
	depth    int
	children []child
	next     int
	done     []laidOut
}

// builder holds the state of a single Build call. Node ids start at n_1 on
// every call, so structurally equal input always yields identical graphs.
type builder struct {
	opts   Options
	nextID int
	g      *Graph
}

// BuildWithOptions converts v into a positioned tree.
//
// Nodes are emitted in depth-first pre-order and edges in the order their
// child subtrees complete. Each child of a composite node gets a vertical
// slot proportional to its leaf count; the slots are contiguous and centred
// on y = 0. The root is then placed at the midpoint of its first and last
// child. Positions of deeper nodes are not translated with their parent.
func BuildWithOptions(v models.JSONValue, opts Options) *Graph {
	b := &builder{
		opts:   opts,
		nextID: 1,
		g: &Graph{
			Nodes: []Node{},
			Edges: []Edge{},
			Index: make(map[string]string),
			byID:  make(map[string]int),
		},
	}
	b.run(v)
	return b.g
}

func (b *builder) run(v models.JSONValue) {
	rootIdx := b.visit(nil, RootPath, v, 0)
	rootFrame := b.open(rootIdx, 0, v)
	if rootFrame == nil {
		return
	}

	stack := []*frame{rootFrame}
	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.next < len(top.children) {
			c := top.children[top.next]
			top.next++
			key := c.key
			idx := b.visit(&key, c.path, c.value, top.depth+1)
			if f := b.open(idx, top.depth+1, c.value); f != nil {
				stack = append(stack, f)
				continue
			}
			top.done = append(top.done, laidOut{node: idx, size: 1})
			b.link(top.node, idx)
			continue
		}

		stack = stack[:len(stack)-1]
		size := b.layout(top)
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			parent.done = append(parent.done, laidOut{node: top.node, size: size})
			b.link(parent.node, top.node)
		}
	}
}

// visit allocates and emits the node for value.
func (b *builder) visit(key *string, path string, value models.JSONValue, depth int) int {
	id := "n_" + strconv.Itoa(b.nextID)
	b.nextID++

	idx := len(b.g.Nodes)
	b.g.Nodes = append(b.g.Nodes, Node{
		ID:       id,
		Path:     path,
		Key:      key,
		Kind:     KindOf(value),
		Value:    value,
		Position: Position{X: float64(depth) * b.opts.LevelXGap},
	})
	b.g.Index[path] = id
	b.g.byID[id] = idx
	return idx
}

// open returns a frame for a composite value with at least one child, or nil
// when the node is a leaf for layout purposes.
func (b *builder) open(idx, depth int, value models.JSONValue) *frame {
	path := b.g.Nodes[idx].Path
	var children []child
	switch v := value.(type) {
	case models.Array:
		children = make([]child, 0, len(v))
		for i, item := range v {
			s := strconv.Itoa(i)
			children = append(children, child{key: s, path: path + "[" + s + "]", value: item})
		}
	case *models.Object:
		children = make([]child, 0, v.Len())
		for _, m := range v.Members() {
			children = append(children, child{key: m.Key, path: path + "." + m.Key, value: m.Value})
		}
	}
	if len(children) == 0 {
		return nil
	}
	return &frame{node: idx, depth: depth, children: children}
}

func (b *builder) link(parent, node int) {
	source, target := b.g.Nodes[parent].ID, b.g.Nodes[node].ID
	b.g.Edges = append(b.g.Edges, Edge{ID: source + "-" + target, Source: source, Target: target})
}

// layout places the children of f and returns the leaf count of f.
func (b *builder) layout(f *frame) int {
	total := 0
	for _, c := range f.done {
		total += c.size
	}

	gap := b.opts.SiblingYGap
	y := -(float64(total-1) * gap) / 2
	for _, c := range f.done {
		b.g.Nodes[c.node].Position.Y = y
		y += float64(c.size) * gap
	}

	first := b.g.Nodes[f.done[0].node].Position.Y
	last := b.g.Nodes[f.done[len(f.done)-1].node].Position.Y
	b.g.Nodes[f.node].Position.Y = (first + last) / 2

	return max(1, total)
}
