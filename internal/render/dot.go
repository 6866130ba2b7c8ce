package render

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-graphviz"

	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/graph"
)

// pointsPerInch converts layout units to the inches graphviz expects in pos.
const pointsPerInch = 72.0

// maxPreview is the longest preview shown in a node label before it is cut.
const maxPreview = 40

// Options configures DOT output.
type Options struct {
	Palette config.Palette
	// HighlightColor outlines the node whose id is HighlightID.
	HighlightColor string
	HighlightID    string
}

// DefaultOptions returns the palette and highlight colour of config.NewConfig.
func DefaultOptions() Options {
	cfg := config.NewConfig()
	return Options{Palette: cfg.Render.Palette, HighlightColor: cfg.Render.HighlightColor}
}

// ToDOT converts a graph to Graphviz DOT format. Every node is pinned to its
// layout position, so the output must be laid out with neato.
//
// Layout y grows downwards while graphviz y grows upwards, so y is negated.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#64748b\", arrowsize=0.6];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [id=%q];\n", e.Source, e.Target, e.ID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node) string {
	return truncate(n.Preview(), maxPreview) + "\n" + string(n.Kind) + "\n" + n.Path
}

func fmtAttrs(n graph.Node, opts Options) []string {
	colors := opts.Palette.For(n.Kind)
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n)),
		fmt.Sprintf("pos=\"%s,%s!\"", inches(n.Position.X), inches(-n.Position.Y)),
		fmt.Sprintf("fillcolor=%q", colors.Fill),
		fmt.Sprintf("fontcolor=%q", colors.Text),
	}
	if opts.HighlightID != "" && n.ID == opts.HighlightID {
		attrs = append(attrs, fmt.Sprintf("color=%q", opts.HighlightColor), "penwidth=3")
	} else {
		attrs = append(attrs, fmt.Sprintf("color=%q", colors.Border))
	}
	return attrs
}

func inches(points float64) string {
	v := math.Round(points/pointsPerInch*1000) / 1000
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// RenderSVG lays out a DOT graph with neato and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
