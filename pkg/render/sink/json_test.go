package sink

import (
	"encoding/json"
	"testing"

	"github.com/prepdeck/prepdeck/pkg/roadmap"
)

func TestRenderJSON(t *testing.T) {
	c := testCourse()
	l := roadmap.Compute(c.Modules, roadmap.DefaultConfig())

	data, err := RenderJSON(l, c, WithJSONSelected(3))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if doc.Title != c.Title {
		t.Errorf("Title = %q, want %q", doc.Title, c.Title)
	}
	if doc.Selected == nil || *doc.Selected != 3 {
		t.Errorf("Selected = %v, want 3", doc.Selected)
	}
	if got := doc.Positions["2"]; got != (roadmap.Point{X: 230, Y: 100}) {
		t.Errorf("Positions[2] = %+v, want {230 100}", got)
	}
	if len(doc.Connections) != 2 {
		t.Fatalf("Connections = %d, want 2", len(doc.Connections))
	}
	if doc.Connections[0].Key != "1-2" || doc.Connections[0].Path == "" {
		t.Errorf("Connections[0] = %+v", doc.Connections[0])
	}
	if len(doc.Nodes) != 3 {
		t.Fatalf("Nodes = %d, want 3", len(doc.Nodes))
	}
	if n := doc.Nodes[1]; n.Level != 1 || n.Color != "#4f46e5" || len(n.Lines) != 3 {
		t.Errorf("Nodes[1] = %+v", n)
	}
}

func TestRenderJSONCompact(t *testing.T) {
	c := testCourse()
	l := roadmap.Compute(c.Modules, roadmap.DefaultConfig())

	data, err := RenderJSON(l, c, WithCompactJSON())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	for _, b := range data {
		if b == '\n' {
			t.Fatal("compact JSON contains newlines")
		}
	}
}
