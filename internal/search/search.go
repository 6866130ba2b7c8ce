// Package search resolves a path expression typed by a user against a built
// graph and reports the outcome the way the search bar shows it.
package search

import (
	"github.com/mcncl/jsontree/internal/graph"
	"github.com/mcncl/jsontree/internal/jsonpath"
	"github.com/mcncl/jsontree/internal/models"
)

// Status is the outcome of a search.
type Status string

const (
	StatusNoData      Status = "no_data"
	StatusInvalidPath Status = "invalid_path"
	StatusFound       Status = "found"
	StatusNotFound    Status = "not_found"
)

// Messages shown for each status.
const (
	MessageNoData      = "No data to search"
	MessageInvalidPath = "Invalid path"
	MessageFound       = "Match found"
	MessageNotFound    = "No match found"
)

// Result describes a single search.
type Result struct {
	Status  Status           `json:"status"`
	Message string           `json:"message"`
	NodeID  string           `json:"nodeId,omitempty"`
	Path    string           `json:"path,omitempty"`
	Value   models.JSONValue `json:"value,omitempty"`
}

// Found reports whether the query matched a node.
func (r Result) Found() bool { return r.Status == StatusFound }

// Run checks query against doc and its graph g. If g is nil it is built
// from doc with the default layout.
//
// The query must be a valid path expression, and the node is looked up by
// the query text exactly as typed. "$[01]" is valid but does not match the
// node stored under "$[1]".
//
// Only a nil doc reports no data. A parsed JSON null is a document like any
// other, so "$" finds its single node.
func Run(doc models.JSONValue, g *graph.Graph, query string) Result {
	if doc == nil {
		return Result{Status: StatusNoData, Message: MessageNoData}
	}
	if _, err := jsonpath.Parse(query); err != nil {
		return Result{Status: StatusInvalidPath, Message: MessageInvalidPath}
	}
	if g == nil {
		g = graph.Build(doc)
	}

	n, ok := g.Lookup(query)
	if !ok {
		return Result{Status: StatusNotFound, Message: MessageNotFound}
	}
	return Result{
		Status:  StatusFound,
		Message: MessageFound,
		NodeID:  n.ID,
		Path:    n.Path,
		Value:   n.Value,
	}
}
