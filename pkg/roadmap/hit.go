package roadmap

// Box is the rectangle a node occupies on the canvas.
type Box struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point lies inside or on the edge of b.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.Width && y >= b.Y && y <= b.Y+b.Height
}

// NodeBox returns the box of the module with the given ID. heights may
// carry per-module heights for wrapped titles; missing entries use the
// configured NodeHeight.
func (l Layout) NodeBox(id int, heights map[int]float64) (Box, bool) {
	p, ok := l.Positions[id]
	if !ok {
		return Box{}, false
	}
	h := l.Config.NodeHeight
	if v, ok := heights[id]; ok {
		h = v
	}
	return Box{X: p.X, Y: p.Y, Width: l.Config.NodeWidth, Height: h}, true
}

// Hit returns the ID of the module whose node box contains (x, y). When
// boxes overlap, the module latest in input order wins, matching paint
// order.
func Hit(l Layout, x, y float64, heights map[int]float64) (int, bool) {
	for i := len(l.Order) - 1; i >= 0; i-- {
		id := l.Order[i]
		if b, ok := l.NodeBox(id, heights); ok && b.Contains(x, y) {
			return id, true
		}
	}
	return 0, false
}
