package render

import (
	"encoding/json"
	"io"

	"github.com/mcncl/jsontree/internal/graph"
)

// WriteJSON writes g as indented JSON with nodes, edges and the path index.
// Node values keep the member order of the source document.
func WriteJSON(w io.Writer, g *graph.Graph) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(g)
}
