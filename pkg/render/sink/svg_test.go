package sink

import (
	"strings"
	"testing"

	"github.com/prepdeck/prepdeck/pkg/course"
	"github.com/prepdeck/prepdeck/pkg/roadmap"
)

func testCourse() course.Course {
	return course.Course{
		Title: "Go & Friends",
		Modules: []course.Module{
			{ID: 1, Title: "Basics", Difficulty: course.Beginner},
			{ID: 2, Title: "Introduction to Concurrency Patterns", Difficulty: course.Advanced, Prerequisites: []int{1}},
			{ID: 3, Title: "Testing <in> Go", Prerequisites: []int{1}},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	c := testCourse()
	l := roadmap.Compute(c.Modules, roadmap.DefaultConfig())
	svg := string(RenderSVG(l, c))

	tests := []struct {
		name string
		want string
	}{
		{"root element", `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 480.0 390.0"`},
		{"connector path", `d="M 180,130 C 240,130 170,130 230,130"`},
		{"arrowhead", `points="230,130 222,126 222,134"`},
		{"connector gradient", `id="gradient-1-3"`},
		{"difficulty gradient", `stop-color="#818cf8"`},
		{"node group", `id="module-2" data-module="2"`},
		{"wrapped title grows box", `height="78.0"`},
		{"escaped title", `Testing &lt;in&gt; Go`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(svg, tt.want) {
				t.Errorf("SVG missing %q", tt.want)
			}
		})
	}

	if strings.Contains(svg, `stroke="#fbbf24"`) {
		t.Error("SVG highlights a module without WithSelected")
	}
	if strings.Contains(svg, "<script") {
		t.Error("SVG embeds script without WithInteraction")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	c := testCourse()
	l := roadmap.Compute(c.Modules, roadmap.DefaultConfig())
	svg := string(RenderSVG(l, c, WithSelected(2), WithTitle(), WithInteraction()))

	if strings.Count(svg, `stroke="#fbbf24" stroke-width="3"`) != 1 {
		t.Error("expected exactly one selected node outline")
	}
	if !strings.Contains(svg, "Go &amp; Friends</text>") {
		t.Error("missing escaped course title")
	}
	if !strings.Contains(svg, "moduleselected") {
		t.Error("missing interaction script")
	}
}

func TestRenderSVGConnectorsBeforeNodes(t *testing.T) {
	c := testCourse()
	l := roadmap.Compute(c.Modules, roadmap.DefaultConfig())
	svg := string(RenderSVG(l, c))

	lastConn := strings.LastIndex(svg, `class="connector"`)
	firstNode := strings.Index(svg, `class="node"`)
	if lastConn < 0 || firstNode < 0 || lastConn > firstNode {
		t.Errorf("connectors must be drawn before nodes (last connector %d, first node %d)", lastConn, firstNode)
	}
}

func TestNodeHeights(t *testing.T) {
	c := testCourse()
	l := roadmap.Compute(c.Modules, roadmap.DefaultConfig())
	h := NodeHeights(l, c)

	if h[1] != 60 || h[2] != 78 {
		t.Errorf("NodeHeights = %v, want 1:60 2:78", h)
	}
	id, ok := roadmap.Hit(l, 240, 170, h)
	if !ok || id != 2 {
		t.Errorf("Hit in wrapped node tail = %d, %v; want 2, true", id, ok)
	}
}
