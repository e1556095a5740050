package roadmap

import (
	"slices"

	"github.com/prepdeck/prepdeck/pkg/course"
)

// FindCycle returns the IDs of one prerequisite cycle, starting and ending
// with the same ID, or nil when the prerequisite graph restricted to known
// IDs is acyclic. Edges point from a module to its prerequisites.
func FindCycle(modules []course.Module) []int {
	const (
		white = iota
		gray
		black
	)

	prereqs := make(map[int][]int, len(modules))
	for _, m := range modules {
		prereqs[m.ID] = m.Prerequisites
	}

	color := make(map[int]int, len(prereqs))
	var stack, cycle []int

	var dfs func(id int) bool
	dfs = func(id int) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, p := range prereqs[id] {
			if _, known := prereqs[p]; !known {
				continue
			}
			switch color[p] {
			case white:
				if dfs(p) {
					return true
				}
			case gray:
				start := slices.Index(stack, p)
				cycle = append(slices.Clone(stack[start:]), p)
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, m := range modules {
		if color[m.ID] == white && dfs(m.ID) {
			return cycle
		}
	}
	return nil
}

// UnknownPrerequisites returns, per module ID, the prerequisite IDs that
// name no module in the set.
func UnknownPrerequisites(modules []course.Module) map[int][]int {
	known := make(map[int]bool, len(modules))
	for _, m := range modules {
		known[m.ID] = true
	}
	out := make(map[int][]int)
	for _, m := range modules {
		for _, p := range m.Prerequisites {
			if !known[p] {
				out[m.ID] = append(out[m.ID], p)
			}
		}
	}
	return out
}
