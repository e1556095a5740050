package roadmap

import (
	"github.com/prepdeck/prepdeck/pkg/course"
)

// =============================================================================
// Configuration
// =============================================================================

// Config holds the fixed spacing constants of the layout. None of them are
// derived from content.
type Config struct {
	BaseX         float64 `json:"base_x" toml:"base_x"`
	BaseY         float64 `json:"base_y" toml:"base_y"`
	ColumnSpacing float64 `json:"column_spacing" toml:"column_spacing"`
	RowSpacing    float64 `json:"row_spacing" toml:"row_spacing"`
	NodeWidth     float64 `json:"node_width" toml:"node_width"`
	NodeHeight    float64 `json:"node_height" toml:"node_height"`
}

// DefaultConfig returns the spacing used by the portal's roadmap canvas.
func DefaultConfig() Config {
	return Config{
		BaseX:         10,
		BaseY:         100,
		ColumnSpacing: 220,
		RowSpacing:    140,
		NodeWidth:     170,
		NodeHeight:    MinNodeHeight,
	}
}

// WithDefaults fills zero fields from DefaultConfig. BaseX and BaseY are
// kept as given since zero is a valid offset.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.ColumnSpacing <= 0 {
		c.ColumnSpacing = d.ColumnSpacing
	}
	if c.RowSpacing <= 0 {
		c.RowSpacing = d.RowSpacing
	}
	if c.NodeWidth <= 0 {
		c.NodeWidth = d.NodeWidth
	}
	if c.NodeHeight <= 0 {
		c.NodeHeight = d.NodeHeight
	}
	return c
}

// Canvas margins added past the right-most and bottom-most node origins.
const (
	marginRight  = 250
	marginBottom = 150
)

// =============================================================================
// Layout Types
// =============================================================================

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Connection is a directed edge from a prerequisite to its dependent.
type Connection struct {
	Key   string `json:"key" bson:"key"`
	From  int    `json:"from" bson:"from"`
	To    int    `json:"to" bson:"to"`
	Start Point  `json:"start" bson:"start"`
	End   Point  `json:"end" bson:"end"`
}

// Layout is the computed roadmap for one module set.
type Layout struct {
	Config      Config        `json:"config" bson:"config"`
	Order       []int         `json:"order" bson:"order"`
	Levels      map[int]int   `json:"levels" bson:"levels"`
	Positions   map[int]Point `json:"positions" bson:"positions"`
	Connections []Connection  `json:"connections" bson:"connections"`
	Unresolved  []int         `json:"unresolved,omitempty" bson:"unresolved,omitempty"`
	Passes      int           `json:"passes" bson:"passes"`
	Width       float64       `json:"width" bson:"width"`
	Height      float64       `json:"height" bson:"height"`
}

// Columns returns module IDs grouped by level, each group in input order.
// Duplicate IDs appear once, at their first position.
func (l Layout) Columns() [][]int {
	maxLevel := -1
	for _, lv := range l.Levels {
		maxLevel = max(maxLevel, lv)
	}
	cols := make([][]int, maxLevel+1)
	seen := make(map[int]bool, len(l.Order))
	for _, id := range l.Order {
		if seen[id] {
			continue
		}
		seen[id] = true
		lv := l.Levels[id]
		cols[lv] = append(cols[lv], id)
	}
	return cols
}

// =============================================================================
// Compute
// =============================================================================

// Compute levels, positions and connects the modules with cfg. Zero spacing
// fields take their defaults. The input is not modified.
func Compute(modules []course.Module, cfg Config) Layout {
	cfg = cfg.WithDefaults()

	lv := Levels(modules)
	pos := Positions(modules, lv.Levels, cfg)
	conns := Connections(modules, pos, cfg)

	order := make([]int, len(modules))
	for i, m := range modules {
		order[i] = m.ID
	}

	w, h := bounds(pos)
	return Layout{
		Config:      cfg,
		Order:       order,
		Levels:      lv.Levels,
		Positions:   pos,
		Connections: conns,
		Unresolved:  lv.Unresolved,
		Passes:      lv.Passes,
		Width:       w,
		Height:      h,
	}
}

func bounds(pos map[int]Point) (float64, float64) {
	var maxX, maxY float64
	for _, p := range pos {
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return maxX + marginRight, maxY + marginBottom
}
