package sink

import (
	"encoding/json"
	"strconv"

	"github.com/prepdeck/prepdeck/pkg/course"
	"github.com/prepdeck/prepdeck/pkg/roadmap"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	selected    int
	hasSelected bool
	compact     bool
}

// WithJSONSelected records the selected module in the output.
func WithJSONSelected(id int) JSONOption {
	return func(r *jsonRenderer) { r.selected, r.hasSelected = id, true }
}

// WithCompactJSON disables indentation.
func WithCompactJSON() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// Document is the JSON shape of a rendered roadmap.
type Document struct {
	Title       string                   `json:"title"`
	Width       float64                  `json:"width"`
	Height      float64                  `json:"height"`
	Selected    *int                     `json:"selected,omitempty"`
	Positions   map[string]roadmap.Point `json:"positions"`
	Connections []DocumentConnection     `json:"connections"`
	Nodes       []DocumentNode           `json:"nodes"`
	Unresolved  []int                    `json:"unresolved,omitempty"`
}

// DocumentConnection is a connection with precomputed path data.
type DocumentConnection struct {
	Key   string        `json:"key"`
	From  int           `json:"from"`
	To    int           `json:"to"`
	Start roadmap.Point `json:"start"`
	End   roadmap.Point `json:"end"`
	Path  string        `json:"path"`
	Arrow string        `json:"arrow"`
}

// DocumentNode is a drawn module box.
type DocumentNode struct {
	ID         int               `json:"id"`
	Title      string            `json:"title"`
	Lines      []string          `json:"lines"`
	Level      int               `json:"level"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Difficulty course.Difficulty `json:"difficulty,omitempty"`
	Color      string            `json:"color"`
}

// BuildDocument converts a layout into its JSON document.
func BuildDocument(l roadmap.Layout, c course.Course, opts ...JSONOption) Document {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	doc := Document{
		Title:       c.Title,
		Width:       l.Width,
		Height:      l.Height,
		Positions:   make(map[string]roadmap.Point, len(l.Positions)),
		Connections: make([]DocumentConnection, 0, len(l.Connections)),
		Unresolved:  l.Unresolved,
	}
	if r.hasSelected {
		sel := r.selected
		doc.Selected = &sel
	}
	for id, p := range l.Positions {
		doc.Positions[strconv.Itoa(id)] = p
	}
	for _, conn := range l.Connections {
		doc.Connections = append(doc.Connections, DocumentConnection{
			Key:   conn.Key,
			From:  conn.From,
			To:    conn.To,
			Start: conn.Start,
			End:   conn.End,
			Path:  roadmap.Curve(conn),
			Arrow: roadmap.Arrowhead(conn),
		})
	}

	nodes := buildNodes(l, c)
	doc.Nodes = make([]DocumentNode, len(nodes))
	for i, n := range nodes {
		lines := n.Lines
		if lines == nil {
			lines = []string{}
		}
		doc.Nodes[i] = DocumentNode{
			ID:         n.ID,
			Title:      n.Title,
			Lines:      lines,
			Level:      l.Levels[n.ID],
			X:          n.Box.X,
			Y:          n.Box.Y,
			Width:      n.Box.Width,
			Height:     n.Box.Height,
			Difficulty: n.Difficulty,
			Color:      n.Difficulty.Color(),
		}
	}
	return doc
}

// RenderJSON encodes the layout document.
func RenderJSON(l roadmap.Layout, c course.Course, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	doc := BuildDocument(l, c, opts...)
	if r.compact {
		return json.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}
