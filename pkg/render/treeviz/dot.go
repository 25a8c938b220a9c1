// Package treeviz renders the layout tree's structure as a node-link diagram
// for debugging: splits as boxes labeled with their axis and weight, cells as
// leaves with their content reference. It backs the `panelize tree` command.
package treeviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/panelize/panelize/pkg/figlayout"
	"github.com/panelize/panelize/pkg/layout"
	"github.com/panelize/panelize/pkg/render"
)

// Options configures tree diagram rendering.
type Options struct {
	// Detailed includes node IDs and label text in node labels.
	// When false, only structure (axis, weight, content) is shown.
	Detailed bool
}

// ToDOT converts the document's layout tree to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(d *figlayout.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph layout {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var edges []string
	var walk func(id string)
	walk = func(id string) {
		n, ok := d.Tree.Node(id)
		if !ok {
			return
		}
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))

		for _, cid := range n.Children {
			edges = append(edges, fmt.Sprintf("  %q -> %q;", n.ID, cid))
			walk(cid)
		}
	}
	walk(d.Tree.RootID())

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e + "\n")
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *layout.Node, detailed bool) string {
	var parts []string
	if n.IsSplit() {
		parts = append(parts, string(n.Axis))
	} else {
		switch {
		case n.Image != "":
			parts = append(parts, baseName(n.Image))
		case n.Nested != "":
			parts = append(parts, "nested: "+baseName(n.Nested))
		default:
			parts = append(parts, "empty")
		}
	}
	parts = append(parts, fmt.Sprintf("w=%.3g", n.Weight))

	if detailed {
		parts = append(parts, shortID(n.ID))
		if n.Label != "" {
			parts = append(parts, n.Label)
		}
		if n.GroupLabel != "" {
			parts = append(parts, n.GroupLabel)
		}
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *layout.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsSplit() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, "/\\"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// shortID truncates a UUID to its first group for readable diagrams.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's point-based svg element into a clean
// zero-origin viewBox so browsers and rsvg scale it predictably.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
