package roadmap

import (
	"fmt"
	"strconv"

	"github.com/prepdeck/prepdeck/pkg/course"
)

// ConnectionKey returns the identity of the edge from prerequisite to
// dependent, "<prereq>-<dependent>".
func ConnectionKey(from, to int) string {
	return strconv.Itoa(from) + "-" + strconv.Itoa(to)
}

// Connections builds one connection per (prerequisite, dependent) pair,
// walking modules and then their prerequisites in input order. Pairs where
// either end has no position are skipped. A repeated key replaces the
// earlier connection in place, so the slice keeps first-seen order.
func Connections(modules []course.Module, pos map[int]Point, cfg Config) []Connection {
	conns := []Connection{}
	index := make(map[string]int)
	for _, m := range modules {
		to, ok := pos[m.ID]
		if !ok {
			continue
		}
		for _, p := range m.Prerequisites {
			from, ok := pos[p]
			if !ok {
				continue
			}
			c := Connection{
				Key:   ConnectionKey(p, m.ID),
				From:  p,
				To:    m.ID,
				Start: Point{X: from.X + cfg.NodeWidth, Y: from.Y + cfg.NodeHeight/2},
				End:   Point{X: to.X, Y: to.Y + cfg.NodeHeight/2},
			}
			if i, dup := index[c.Key]; dup {
				conns[i] = c
				continue
			}
			index[c.Key] = len(conns)
			conns = append(conns, c)
		}
	}
	return conns
}

// Control point offset of connection curves.
const curveBend = 60

// Curve returns SVG path data for a cubic curve from Start to End that
// leaves and enters horizontally.
func Curve(c Connection) string {
	x1, y1 := c.Start.X, c.Start.Y
	x2, y2 := c.End.X, c.End.Y
	return fmt.Sprintf("M %s,%s C %s,%s %s,%s %s,%s",
		num(x1), num(y1),
		num(x1+curveBend), num(y1),
		num(x2-curveBend), num(y2),
		num(x2), num(y2))
}

// Arrowhead size, in canvas units.
const (
	arrowLength = 8
	arrowHalf   = 4
)

// Arrowhead returns SVG polygon points for a triangle whose tip sits on the
// connection's End.
func Arrowhead(c Connection) string {
	x, y := c.End.X, c.End.Y
	return fmt.Sprintf("%s,%s %s,%s %s,%s",
		num(x), num(y),
		num(x-arrowLength), num(y-arrowHalf),
		num(x-arrowLength), num(y+arrowHalf))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
