package roadmap

import "github.com/prepdeck/prepdeck/pkg/course"

// Positions places every module at
//
//	x = BaseX + level*ColumnSpacing
//	y = BaseY + index*RowSpacing
//
// where index counts the modules before it in input order that share its
// level. Modules missing from levels are placed in column 0. A repeated ID
// keeps the position of its first occurrence but still takes up a row.
func Positions(modules []course.Module, levels map[int]int, cfg Config) map[int]Point {
	pos := make(map[int]Point, len(modules))
	rows := make(map[int]int)
	for _, m := range modules {
		lv := levels[m.ID]
		idx := rows[lv]
		rows[lv]++
		if _, ok := pos[m.ID]; ok {
			continue
		}
		pos[m.ID] = Point{
			X: cfg.BaseX + float64(lv)*cfg.ColumnSpacing,
			Y: cfg.BaseY + float64(idx)*cfg.RowSpacing,
		}
	}
	return pos
}
