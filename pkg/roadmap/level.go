package roadmap

import "github.com/prepdeck/prepdeck/pkg/course"

// Leveling is the result of assigning levels to a module set.
type Leveling struct {
	// Levels maps every module ID to its level. Unresolved modules are 0.
	Levels map[int]int
	// Unresolved lists, in input order, modules whose prerequisites never
	// all resolved: unknown prerequisite IDs or cycles.
	Unresolved []int
	// Passes counts the iterations after seeding. It never exceeds the
	// number of modules.
	Passes int
}

// Levels assigns a level to every module by fixed-point iteration.
//
// Modules without prerequisites are seeded at level 0. Each pass walks the
// modules in input order and gives any module whose prerequisites all have
// levels the value 1 + max(prerequisite levels); levels assigned earlier in
// the same pass are visible to later modules. Iteration stops when every
// module is resolved or a pass assigns nothing.
//
// When an ID occurs more than once, the last occurrence's prerequisites
// apply to it.
func Levels(modules []course.Module) Leveling {
	prereqs := make(map[int][]int, len(modules))
	for _, m := range modules {
		prereqs[m.ID] = m.Prerequisites
	}

	levels := make(map[int]int, len(prereqs))
	for id, ps := range prereqs {
		if len(ps) == 0 {
			levels[id] = 0
		}
	}

	passes := 0
	for len(levels) < len(prereqs) {
		passes++
		changed := false
		for _, m := range modules {
			if _, done := levels[m.ID]; done {
				continue
			}
			if lv, ok := resolve(prereqs[m.ID], levels); ok {
				levels[m.ID] = lv
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	var unresolved []int
	for _, m := range modules {
		if _, ok := levels[m.ID]; !ok {
			levels[m.ID] = 0
			unresolved = append(unresolved, m.ID)
		}
	}

	return Leveling{Levels: levels, Unresolved: unresolved, Passes: passes}
}

// resolve returns 1 + the maximum prerequisite level, or false when some
// prerequisite has no level yet.
func resolve(prereqs []int, levels map[int]int) (int, bool) {
	deepest := -1
	for _, p := range prereqs {
		lv, ok := levels[p]
		if !ok {
			return 0, false
		}
		deepest = max(deepest, lv)
	}
	return deepest + 1, true
}
