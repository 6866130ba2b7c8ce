// Package render turns a built graph into JSON, Graphviz DOT or SVG.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/graph"
	"github.com/mcncl/jsontree/internal/jsonpath"
)

// Renderer renders graphs using the colours of a configuration
type Renderer struct {
	config *config.Config
}

// NewRenderer creates a new Renderer instance. A nil config uses the defaults.
func NewRenderer(cfg *config.Config) *Renderer {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Renderer{config: cfg}
}

// ContentType returns the media type of a format's output.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case config.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case config.FormatSVG:
		return "image/svg+xml"
	default:
		return "application/json; charset=utf-8"
	}
}

// Render renders g in format. An empty format uses the configured one.
// When highlight is a path, the node at that path is outlined in DOT and SVG
// output; it must be a valid path present in the graph.
func (r *Renderer) Render(ctx context.Context, g *graph.Graph, format, highlight string) ([]byte, error) {
	if format == "" {
		format = r.config.Render.Format
	}
	format = strings.ToLower(format)

	opts := Options{Palette: r.config.Render.Palette, HighlightColor: r.config.Render.HighlightColor}
	if highlight != "" {
		id, err := r.resolve(g, highlight)
		if err != nil {
			return nil, err
		}
		opts.HighlightID = id
	}

	switch format {
	case config.FormatJSON:
		var buf bytes.Buffer
		if err := WriteJSON(&buf, g); err != nil {
			return nil, errors.NewRenderError("failed to encode graph", err)
		}
		return buf.Bytes(), nil
	case config.FormatDOT:
		return []byte(ToDOT(g, opts)), nil
	case config.FormatSVG:
		svg, err := RenderSVG(ctx, ToDOT(g, opts))
		if err != nil {
			return nil, errors.NewRenderError("failed to render SVG", err)
		}
		return svg, nil
	default:
		return nil, errors.NewRenderError(fmt.Sprintf("unsupported format %q", format), nil)
	}
}

func (r *Renderer) resolve(g *graph.Graph, path string) (string, error) {
	if _, err := jsonpath.Parse(path); err != nil {
		return "", errors.NewPathError(fmt.Sprintf("invalid highlight path %q", path), err)
	}
	n, ok := g.Lookup(path)
	if !ok {
		return "", errors.NewPathError(fmt.Sprintf("highlight path %q", path), errors.ErrNoMatch)
	}
	return n.ID, nil
}
