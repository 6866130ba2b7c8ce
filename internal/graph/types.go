package graph

import (
	"github.com/mcncl/jsontree/internal/models"
)

// RootPath is the path of the node built for the document root.
const RootPath = "$"

// Default layout spacing.
const (
	LevelXGap   = 280.0
	SiblingYGap = 96.0
)

// Kind is the visual classification of a JSON value.
type Kind string

const (
	KindObject    Kind = "object"
	KindArray     Kind = "array"
	KindPrimitive Kind = "primitive"
)

// KindOf classifies v. Strings, numbers, booleans and null are primitives.
func KindOf(v models.JSONValue) Kind {
	switch v := v.(type) {
	case models.Array:
		return KindArray
	case *models.Object:
		if v != nil {
			return KindObject
		}
	}
	return KindPrimitive
}

// Position is a 2D layout coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one JSON value placed in the tree.
type Node struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	// Key selects this node from its parent: the member name, or the decimal
	// index for array elements. It is nil for the root.
	Key      *string          `json:"key"`
	Kind     Kind             `json:"kind"`
	Value    models.JSONValue `json:"value"`
	Position Position         `json:"position"`
}

// IsRoot reports whether n is the document root.
func (n Node) IsRoot() bool { return n.Key == nil }

// Preview returns the short text shown for the node: "Object", "Array", or
// the primitive value itself.
func (n Node) Preview() string {
	switch v := n.Value.(type) {
	case models.Array:
		return "Array"
	case *models.Object:
		return "Object"
	case models.String:
		return string(v)
	case models.Number:
		return string(v)
	case models.Bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return "null"
	}
}

// Edge links a parent node to one of its children.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the positioned tree built from one JSON document. It is never
// modified after Build returns.
type Graph struct {
	Nodes []Node            `json:"nodes"`
	Edges []Edge            `json:"edges"`
	Index map[string]string `json:"index"`

	byID map[string]int
}

// Lookup returns the node addressed by path.
func (g *Graph) Lookup(path string) (Node, bool) {
	id, ok := g.Index[path]
	if !ok {
		return Node{}, false
	}
	return g.NodeByID(id)
}

// NodeByID returns the node with the given id.
func (g *Graph) NodeByID(id string) (Node, bool) {
	i, ok := g.byID[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// Children returns the child ids of id in enumeration order.
func (g *Graph) Children(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e.Target)
		}
	}
	return out
}

// Root returns the root node. It is false only for the zero Graph.
func (g *Graph) Root() (Node, bool) {
	return g.Lookup(RootPath)
}
