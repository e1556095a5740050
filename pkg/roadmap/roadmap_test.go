package roadmap

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/prepdeck/prepdeck/pkg/course"
)

func mod(id int, prereqs ...int) course.Module {
	return course.Module{ID: id, Title: "Module", Prerequisites: prereqs}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name           string
		modules        []course.Module
		want           map[int]int
		wantUnresolved []int
		maxPasses      int
	}{
		{
			name:    "empty",
			modules: nil,
			want:    map[int]int{},
		},
		{
			name:      "chain",
			modules:   []course.Module{mod(1), mod(2, 1), mod(3, 2)},
			want:      map[int]int{1: 0, 2: 1, 3: 2},
			maxPasses: 1,
		},
		{
			name:      "chain reversed",
			modules:   []course.Module{mod(3, 2), mod(2, 1), mod(1)},
			want:      map[int]int{1: 0, 2: 1, 3: 2},
			maxPasses: 2,
		},
		{
			name:      "diamond takes deepest prerequisite",
			modules:   []course.Module{mod(1), mod(2, 1), mod(3), mod(4, 2, 3)},
			want:      map[int]int{1: 0, 2: 1, 3: 0, 4: 2},
			maxPasses: 1,
		},
		{
			name:           "two cycle",
			modules:        []course.Module{mod(1, 2), mod(2, 1)},
			want:           map[int]int{1: 0, 2: 0},
			wantUnresolved: []int{1, 2},
			maxPasses:      1,
		},
		{
			name:           "self loop",
			modules:        []course.Module{mod(1), mod(2, 2)},
			want:           map[int]int{1: 0, 2: 0},
			wantUnresolved: []int{2},
			maxPasses:      1,
		},
		{
			name:           "unknown prerequisite",
			modules:        []course.Module{mod(1), mod(2, 1), mod(3, 99)},
			want:           map[int]int{1: 0, 2: 1, 3: 0},
			wantUnresolved: []int{3},
			maxPasses:      2,
		},
		{
			name:           "dependent of a cycle stays unresolved",
			modules:        []course.Module{mod(1, 2), mod(2, 1), mod(3, 1), mod(4)},
			want:           map[int]int{1: 0, 2: 0, 3: 0, 4: 0},
			wantUnresolved: []int{1, 2, 3},
			maxPasses:      1,
		},
		{
			name:      "empty prerequisites equal absent",
			modules:   []course.Module{{ID: 1, Prerequisites: []int{}}, mod(2, 1)},
			want:      map[int]int{1: 0, 2: 1},
			maxPasses: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Levels(tt.modules)
			if diff := cmp.Diff(tt.want, got.Levels); diff != "" {
				t.Errorf("Levels mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantUnresolved, got.Unresolved); diff != "" {
				t.Errorf("Unresolved mismatch (-want +got):\n%s", diff)
			}
			if got.Passes > tt.maxPasses {
				t.Errorf("Passes = %d, want <= %d", got.Passes, tt.maxPasses)
			}
			if got.Passes > len(tt.modules) {
				t.Errorf("Passes = %d exceeds module count %d", got.Passes, len(tt.modules))
			}
		})
	}
}

func TestPositions(t *testing.T) {
	cfg := DefaultConfig()
	modules := []course.Module{mod(1), mod(2, 1), mod(3), mod(4, 1), mod(5, 2)}
	levels := Levels(modules).Levels

	got := Positions(modules, levels, cfg)
	want := map[int]Point{
		1: {X: 10, Y: 100},
		3: {X: 10, Y: 240},
		2: {X: 230, Y: 100},
		4: {X: 230, Y: 240},
		5: {X: 450, Y: 100},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Positions mismatch (-want +got):\n%s", diff)
	}
}

func TestPositionsDuplicateIDKeepsFirstRow(t *testing.T) {
	modules := []course.Module{mod(1), mod(1), mod(2)}
	got := Positions(modules, map[int]int{1: 0, 2: 0}, DefaultConfig())

	if got[1].Y != 100 {
		t.Errorf("pos[1].Y = %v, want 100", got[1].Y)
	}
	if got[2].Y != 380 {
		t.Errorf("pos[2].Y = %v, want 380", got[2].Y)
	}
}

func TestConnections(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("anchors", func(t *testing.T) {
		modules := []course.Module{mod(1), mod(2, 1)}
		pos := Positions(modules, Levels(modules).Levels, cfg)
		got := Connections(modules, pos, cfg)
		want := []Connection{{
			Key:   "1-2",
			From:  1,
			To:    2,
			Start: Point{X: 180, Y: 130},
			End:   Point{X: 230, Y: 130},
		}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Connections mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("skips missing positions", func(t *testing.T) {
		modules := []course.Module{mod(1), mod(2, 1, 42)}
		pos := Positions(modules, Levels(modules).Levels, cfg)
		got := Connections(modules, pos, cfg)
		if len(got) != 1 || got[0].Key != "1-2" {
			t.Errorf("Connections = %+v, want only 1-2", got)
		}
	})

	t.Run("duplicate keys keep first order and last value", func(t *testing.T) {
		modules := []course.Module{mod(1), mod(3), mod(2, 1, 3, 1)}
		pos := map[int]Point{1: {X: 0, Y: 0}, 2: {X: 500, Y: 0}, 3: {X: 0, Y: 200}}
		got := Connections(modules, pos, cfg)

		keys := make([]string, len(got))
		for i, c := range got {
			keys[i] = c.Key
		}
		if diff := cmp.Diff([]string{"1-2", "3-2"}, keys); diff != "" {
			t.Errorf("keys mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("none", func(t *testing.T) {
		got := Connections([]course.Module{mod(1)}, map[int]Point{1: {}}, cfg)
		if got == nil || len(got) != 0 {
			t.Errorf("Connections = %#v, want empty non-nil slice", got)
		}
	})
}

func TestCompute(t *testing.T) {
	modules := []course.Module{mod(1), mod(2, 1), mod(3, 2)}
	l := Compute(modules, DefaultConfig())

	if diff := cmp.Diff(map[int]int{1: 0, 2: 1, 3: 2}, l.Levels); diff != "" {
		t.Errorf("Levels mismatch (-want +got):\n%s", diff)
	}
	for id, wantX := range map[int]float64{1: 10, 2: 230, 3: 450} {
		if got := l.Positions[id].X; got != wantX {
			t.Errorf("Positions[%d].X = %v, want %v", id, got, wantX)
		}
	}
	if len(l.Connections) != 2 || l.Connections[0].Key != "1-2" || l.Connections[1].Key != "2-3" {
		t.Errorf("Connections = %+v, want 1-2, 2-3", l.Connections)
	}
	if l.Width != 700 || l.Height != 250 {
		t.Errorf("bounds = %vx%v, want 700x250", l.Width, l.Height)
	}
	if diff := cmp.Diff([][]int{{1}, {2}, {3}}, l.Columns()); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeZeroConfigUsesDefaults(t *testing.T) {
	l := Compute([]course.Module{mod(1), mod(2, 1)}, Config{})
	if l.Config.ColumnSpacing != 220 || l.Config.NodeWidth != 170 {
		t.Errorf("Config = %+v, want default spacing", l.Config)
	}
	if got := l.Positions[2]; got != (Point{X: 220, Y: 0}) {
		t.Errorf("Positions[2] = %+v, want {220 0}", got)
	}
}

func TestComputeDoesNotModifyInput(t *testing.T) {
	modules := []course.Module{mod(2, 1), mod(1)}
	_ = Compute(modules, DefaultConfig())
	if modules[0].ID != 2 || modules[0].Prerequisites[0] != 1 {
		t.Errorf("input modified: %+v", modules)
	}
}

func TestCurve(t *testing.T) {
	c := Connection{Start: Point{X: 180, Y: 130}, End: Point{X: 230, Y: 270}}
	want := "M 180,130 C 240,130 170,270 230,270"
	if got := Curve(c); got != want {
		t.Errorf("Curve() = %q, want %q", got, want)
	}
}

func TestArrowhead(t *testing.T) {
	c := Connection{End: Point{X: 230, Y: 130}}
	want := "230,130 222,126 222,134"
	if got := Arrowhead(c); got != want {
		t.Errorf("Arrowhead() = %q, want %q", got, want)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{"empty", "", 16, nil},
		{"fits", "Go Basics", 16, []string{"Go Basics"}},
		{"wraps", "Introduction to Concurrency Patterns", 16, []string{"Introduction to", "Concurrency", "Patterns"}},
		{"long word", "Supercalifragilistic x", 16, []string{"Supercalifragilistic", "x"}},
		{"collapses spaces", "  a   b  ", 16, []string{"a b"}},
		{"no limit", "a b c", 0, []string{"a b c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, WrapText(tt.text, tt.max)); diff != "" {
				t.Errorf("WrapText() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNodeHeight(t *testing.T) {
	tests := []struct {
		lines int
		want  float64
	}{
		{0, 60},
		{1, 60},
		{2, 60},
		{3, 78},
		{4, 96},
	}
	for _, tt := range tests {
		if got := NodeHeight(tt.lines); got != tt.want {
			t.Errorf("NodeHeight(%d) = %v, want %v", tt.lines, got, tt.want)
		}
	}
}

func TestFindCycle(t *testing.T) {
	tests := []struct {
		name    string
		modules []course.Module
		want    []int
	}{
		{"acyclic", []course.Module{mod(1), mod(2, 1), mod(3, 1, 2)}, nil},
		{"two cycle", []course.Module{mod(1, 2), mod(2, 1)}, []int{1, 2, 1}},
		{"self loop", []course.Module{mod(1, 1)}, []int{1, 1}},
		{"unknown ids ignored", []course.Module{mod(1, 99)}, nil},
		{"three cycle behind root", []course.Module{mod(1), mod(2, 1, 4), mod(3, 2), mod(4, 3)}, []int{2, 4, 3, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, FindCycle(tt.modules)); diff != "" {
				t.Errorf("FindCycle() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnknownPrerequisites(t *testing.T) {
	got := UnknownPrerequisites([]course.Module{mod(1), mod(2, 1, 7, 8), mod(3, 9)})
	want := map[int][]int{2: {7, 8}, 3: {9}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("UnknownPrerequisites() mismatch (-want +got):\n%s", diff)
	}
}

func TestHit(t *testing.T) {
	l := Compute([]course.Module{mod(1), mod(2, 1)}, DefaultConfig())

	tests := []struct {
		name    string
		x, y    float64
		heights map[int]float64
		want    int
		wantOK  bool
	}{
		{"inside first", 20, 110, nil, 1, true},
		{"inside second", 300, 150, nil, 2, true},
		{"edge counts", 180, 160, nil, 1, true},
		{"gap between columns", 200, 120, nil, 0, false},
		{"below default height", 20, 170, nil, 0, false},
		{"taller wrapped node", 20, 170, map[int]float64{1: 96}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Hit(l, tt.x, tt.y, tt.heights)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Hit(%v, %v) = %d, %v; want %d, %v", tt.x, tt.y, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
