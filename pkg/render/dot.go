// Package render exports production chains as Graphviz diagrams.
//
// The terminal viewer is the interactive surface; this package is the
// shareable one: DOT text for tooling, SVG/PNG for posting a chain
// overview. Node fill colors carry the same profitability gradient the
// viewer uses.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/unleex/simchain/pkg/chain"
	"github.com/unleex/simchain/pkg/style"
)

// Options configures DOT generation.
type Options struct {
	// Names maps resource IDs to display labels. IDs without an entry
	// fall back to the numeric ID.
	Names map[int]string

	// Styles maps resource IDs to fill/text colors. IDs without an
	// entry render unfilled.
	Styles map[int]style.Style
}

// ToDOT converts a production chain to Graphviz DOT format, one edge
// per input→output relation, laid out left to right to match the
// horizontal depth axis of the interactive viewer.
func ToDOT(g *chain.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph chain {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	writeNodes(&buf, g, opts)
	buf.WriteString("\n")
	writeEdges(&buf, g)

	buf.WriteString("}\n")
	return buf.String()
}

func writeNodes(buf *bytes.Buffer, g *chain.Graph, opts Options) {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		writeNode(buf, n.ID, opts)
		if n.Sub != nil {
			writeNodes(buf, n.Sub, opts)
			continue
		}
		for _, id := range n.Terminals {
			writeNode(buf, id, opts)
		}
	}
}

func writeNode(buf *bytes.Buffer, id int, opts Options) {
	label := opts.Names[id]
	if label == "" {
		label = fmt.Sprintf("%d", id)
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	if s, ok := opts.Styles[id]; ok {
		attrs = append(attrs,
			fmt.Sprintf("fillcolor=%q", s.Background.Hex()),
			fmt.Sprintf("fontcolor=%q", s.Foreground.Hex()))
	}
	fmt.Fprintf(buf, "  %d [%s];\n", id, strings.Join(attrs, ", "))
}

func writeEdges(buf *bytes.Buffer, g *chain.Graph) {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Sub != nil {
			for j := range n.Sub.Nodes {
				fmt.Fprintf(buf, "  %d -> %d;\n", n.ID, n.Sub.Nodes[j].ID)
			}
			writeEdges(buf, n.Sub)
			continue
		}
		for _, id := range n.Terminals {
			fmt.Fprintf(buf, "  %d -> %d;\n", n.ID, id)
		}
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
