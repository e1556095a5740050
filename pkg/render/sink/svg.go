package sink

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"

	"github.com/prepdeck/prepdeck/pkg/course"
	"github.com/prepdeck/prepdeck/pkg/render"
	"github.com/prepdeck/prepdeck/pkg/roadmap"
)

const fontFamily = `ui-sans-serif, system-ui, -apple-system, "Segoe UI", sans-serif`

const nodeInteractionCSS = `
    .node rect { transition: stroke-width 0.2s ease; }
    .node:hover rect { stroke: #fbbf24; stroke-width: 2; }
    .node { cursor: pointer; }
    .connector { transition: opacity 0.2s ease; }
    .connector.dim { opacity: 0.25; }`

const nodeInteractionJS = `
    document.querySelectorAll('.node').forEach(el => {
      const id = el.dataset.module;
      el.addEventListener('mouseenter', () => {
        document.querySelectorAll('.connector').forEach(c =>
          c.classList.toggle('dim', c.dataset.from !== id && c.dataset.to !== id));
      });
      el.addEventListener('mouseleave', () => {
        document.querySelectorAll('.connector').forEach(c => c.classList.remove('dim'));
      });
      el.addEventListener('click', () => {
        el.dispatchEvent(new CustomEvent('moduleselected', { bubbles: true, detail: { id: Number(id) } }));
      });
    });`

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	selected    int
	hasSelected bool
	title       bool
	interaction bool
}

// WithSelected outlines the module with the given ID.
func WithSelected(id int) SVGOption {
	return func(r *svgRenderer) { r.selected, r.hasSelected = id, true }
}

// WithTitle draws the course title above the roadmap.
func WithTitle() SVGOption { return func(r *svgRenderer) { r.title = true } }

// WithInteraction embeds hover highlighting and a "moduleselected" DOM
// event fired on node clicks.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interaction = true } }

// RenderSVG draws the layout. Modules are looked up in c by ID; a module
// with a position but no entry in c is drawn with an empty title.
func RenderSVG(l roadmap.Layout, c course.Course, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	nodes := buildNodes(l, c)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)

	renderDefs(&buf, l, nodes)
	if r.title && c.Title != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="40" font-family='%s' font-size="22" font-weight="700" fill="#1f2937">%s</text>`+"\n",
			l.Config.BaseX, fontFamily, escapeXML(c.Title))
	}
	for _, conn := range l.Connections {
		renderConnection(&buf, conn)
	}
	for _, n := range nodes {
		renderNode(&buf, n, r.hasSelected && n.ID == r.selected)
	}
	if r.interaction {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", nodeInteractionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", nodeInteractionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderPDF renders the layout as PDF via SVG conversion.
func RenderPDF(ctx context.Context, l roadmap.Layout, c course.Course, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(l, c, opts...))
}

// RenderPNG renders the layout as PNG via SVG conversion at the given scale.
func RenderPNG(ctx context.Context, l roadmap.Layout, c course.Course, scale float64, opts ...SVGOption) ([]byte, error) {
	return render.ToPNG(ctx, RenderSVG(l, c, opts...), scale)
}

// node is a positioned module ready for drawing.
type node struct {
	ID         int
	Title      string
	Lines      []string
	Difficulty course.Difficulty
	Box        roadmap.Box
}

// buildNodes returns one node per distinct positioned ID in input order.
func buildNodes(l roadmap.Layout, c course.Course) []node {
	seen := make(map[int]bool, len(l.Order))
	nodes := make([]node, 0, len(l.Positions))
	for _, id := range l.Order {
		if seen[id] {
			continue
		}
		seen[id] = true
		p, ok := l.Positions[id]
		if !ok {
			continue
		}
		m, _ := c.Module(id)
		lines := roadmap.WrapText(m.Title, roadmap.TitleLineChars)
		nodes = append(nodes, node{
			ID:         id,
			Title:      m.Title,
			Lines:      lines,
			Difficulty: m.Difficulty,
			Box: roadmap.Box{
				X:      p.X,
				Y:      p.Y,
				Width:  l.Config.NodeWidth,
				Height: roadmap.NodeHeight(len(lines)),
			},
		})
	}
	return nodes
}

// NodeHeights returns the drawn height of every node, for hit testing
// against the rendered SVG.
func NodeHeights(l roadmap.Layout, c course.Course) map[int]float64 {
	out := make(map[int]float64, len(l.Positions))
	for _, n := range buildNodes(l, c) {
		out[n.ID] = n.Box.Height
	}
	return out
}

func renderDefs(buf *bytes.Buffer, l roadmap.Layout, nodes []node) {
	buf.WriteString("  <defs>\n")
	for _, conn := range l.Connections {
		fmt.Fprintf(buf, `    <linearGradient id="gradient-%s" x1="0%%" y1="0%%" x2="100%%" y2="0%%">`+"\n", conn.Key)
		buf.WriteString(`      <stop offset="0%" stop-color="#94a3b8" stop-opacity="0.5"/>` + "\n")
		buf.WriteString(`      <stop offset="100%" stop-color="#64748b"/>` + "\n")
		buf.WriteString("    </linearGradient>\n")
	}
	for _, n := range nodes {
		from, to := n.Difficulty.Gradient()
		fmt.Fprintf(buf, `    <linearGradient id="node-gradient-%d" x1="0%%" y1="0%%" x2="100%%" y2="100%%">`+"\n", n.ID)
		fmt.Fprintf(buf, `      <stop offset="0%%" stop-color="%s"/>`+"\n", from)
		fmt.Fprintf(buf, `      <stop offset="100%%" stop-color="%s"/>`+"\n", to)
		buf.WriteString("    </linearGradient>\n")
	}
	buf.WriteString(`    <filter id="node-shadow" x="-20%" y="-20%" width="140%" height="140%">` + "\n")
	buf.WriteString(`      <feDropShadow dx="0" dy="2" stdDeviation="3" flood-color="#00000033"/>` + "\n")
	buf.WriteString("    </filter>\n")
	buf.WriteString("  </defs>\n")
}

func renderConnection(buf *bytes.Buffer, conn roadmap.Connection) {
	fmt.Fprintf(buf, `  <g class="connector" id="conn-%s" data-from="%d" data-to="%d">`+"\n", conn.Key, conn.From, conn.To)
	fmt.Fprintf(buf, `    <path d="%s" fill="none" stroke="url(#gradient-%s)" stroke-width="3" stroke-linecap="round"/>`+"\n",
		roadmap.Curve(conn), conn.Key)
	fmt.Fprintf(buf, `    <polygon points="%s" fill="#64748b"/>`+"\n", roadmap.Arrowhead(conn))
	buf.WriteString("  </g>\n")
}

const (
	textPadding = 12
	cornerRound = 10
)

func renderNode(buf *bytes.Buffer, n node, selected bool) {
	stroke := `stroke="none"`
	if selected {
		stroke = `stroke="#fbbf24" stroke-width="3"`
	}
	fmt.Fprintf(buf, `  <g class="node" id="module-%d" data-module="%d">`+"\n", n.ID, n.ID)
	fmt.Fprintf(buf, `    <title>%s</title>`+"\n", escapeXML(n.Title))
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%d" fill="url(#node-gradient-%d)" filter="url(#node-shadow)" %s/>`+"\n",
		n.Box.X, n.Box.Y, n.Box.Width, n.Box.Height, cornerRound, n.ID, stroke)

	cx := n.Box.X + n.Box.Width/2
	y := n.Box.Y + textPadding + roadmap.LineHeight/2
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family='%s' font-size="14" font-weight="500" fill="#ffffff">`+"\n",
		cx, y, fontFamily)
	for i, line := range n.Lines {
		dy := 0
		if i > 0 {
			dy = roadmap.LineHeight
		}
		fmt.Fprintf(buf, `      <tspan x="%.1f" dy="%d">%s</tspan>`+"\n", cx, dy, escapeXML(line))
	}
	buf.WriteString("    </text>\n")
	buf.WriteString("  </g>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
