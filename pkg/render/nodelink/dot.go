package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/prepdeck/prepdeck/pkg/course"
	"github.com/prepdeck/prepdeck/pkg/roadmap"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds level, duration and difficulty to node labels.
	// When false, only the title is shown.
	Detailed bool
	// Selected outlines the module with this ID. Zero selects nothing.
	Selected int
}

// ToDOT converts a course and its layout to Graphviz DOT source. Nodes are
// named by module ID; edges come from the layout's connections, so
// unresolvable prerequisites are dropped the same way they are in the
// roadmap.
func ToDOT(c course.Course, l roadmap.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#64748b\", penwidth=2, arrowsize=0.7];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, col := range l.Columns() {
		if len(col) == 0 {
			continue
		}
		buf.WriteString("  { rank=same;")
		for _, id := range col {
			fmt.Fprintf(&buf, " %q;", nodeID(id))
		}
		buf.WriteString(" }\n")
	}
	buf.WriteString("\n")

	for _, col := range l.Columns() {
		for _, id := range col {
			m, _ := c.Module(id)
			attrs := fmtAttrs(m, fmtLabel(m, l.Levels[id], opts.Detailed), opts.Selected == id)
			fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(id), strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("\n")
	for _, conn := range l.Connections {
		fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(conn.From), nodeID(conn.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id int) string { return "m" + strconv.Itoa(id) }

func fmtLabel(m course.Module, level int, detailed bool) string {
	title := strings.Join(roadmap.WrapText(m.Title, roadmap.TitleLineChars), "\n")
	if !detailed {
		return title
	}

	parts := []string{fmt.Sprintf("level: %d", level)}
	if m.Duration != "" {
		parts = append(parts, "duration: "+m.Duration)
	}
	if m.Difficulty != "" {
		parts = append(parts, "difficulty: "+string(m.Difficulty))
	}
	return title + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(m course.Module, label string, selected bool) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", m.Difficulty.Color()),
		fmt.Sprintf("tooltip=%q", m.Description),
	}
	if selected {
		attrs = append(attrs, "color=\"#fbbf24\"", "penwidth=3")
	} else {
		attrs = append(attrs, "color=\"transparent\"")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
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

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one that
// scales to its container.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
