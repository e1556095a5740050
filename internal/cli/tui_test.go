package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/prepdeck/prepdeck/pkg/course"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
	"github.com/prepdeck/prepdeck/pkg/roadmap"
)

func browseCourse() course.Course {
	return course.Normalize(course.Course{
		Title: "Go",
		Modules: []course.Module{
			{ID: 1, Title: "Basics", Difficulty: course.Beginner, Topics: []string{"Syntax", "Types"}},
			{ID: 2, Title: "Concurrency", Prerequisites: []int{1}, Topics: []string{"Goroutines"}},
			{ID: 3, Title: "Tooling"},
			{ID: 4, Title: "Web", Prerequisites: []int{2, 3}},
		},
	})
}

func newBrowseModel(explain explainFunc) RoadmapModel {
	c := browseCourse()
	return NewRoadmapModel(context.Background(), c, roadmap.Compute(c.Modules, roadmap.Config{}), explain)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m RoadmapModel, keys ...string) (RoadmapModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(RoadmapModel)
	}
	return m, cmd
}

func TestRoadmapModelOrder(t *testing.T) {
	m := newBrowseModel(nil)

	// Level 0: 1, 3; level 1: 2; level 2: 4.
	want := []int{1, 3, 2, 4}
	if len(m.Items) != len(want) {
		t.Fatalf("Items = %v, want %v", m.Items, want)
	}
	for i := range want {
		if m.Items[i] != want[i] {
			t.Fatalf("Items = %v, want %v", m.Items, want)
		}
	}
}

func TestRoadmapModelNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"start", nil, 0},
		{"down", []string{"down"}, 1},
		{"up at top", []string{"up"}, 0},
		{"down past end", []string{"j", "j", "j", "j", "j"}, 3},
		{"next level", []string{"right"}, 2},
		{"last level", []string{"l", "l"}, 3},
		{"past last level", []string{"l", "l", "l"}, 3},
		{"back a level", []string{"l", "l", "h"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := press(newBrowseModel(nil), tt.keys...)
			if m.Cursor != tt.want {
				t.Errorf("Cursor = %d, want %d", m.Cursor, tt.want)
			}
		})
	}
}

func TestRoadmapModelOpenAndTopics(t *testing.T) {
	m, _ := press(newBrowseModel(nil), "enter")
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", m.Selected)
	}
	if got := m.topicName(); got != "" {
		t.Errorf("topicName() = %q, want module level", got)
	}

	m, _ = press(m, "tab")
	if got := m.topicName(); got != "Syntax" {
		t.Errorf("topicName() = %q, want Syntax", got)
	}
	m, _ = press(m, "tab", "tab")
	if got := m.topicName(); got != "" {
		t.Errorf("topicName() after cycling = %q, want module level", got)
	}

	view := m.View()
	for _, want := range []string{"Basics", "No prerequisites", "Syntax", "Types"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	m, _ = press(m, "j", "j", "enter")
	if m.Selected != 2 {
		t.Fatalf("Selected = %d, want 2", m.Selected)
	}
	if !strings.Contains(m.View(), "Prerequisites: Basics") {
		t.Error("View() missing prerequisites of Concurrency")
	}

	m, cmd := press(m, "esc")
	if m.Selected != 0 || cmd != nil {
		t.Errorf("esc with open module: Selected = %d, cmd = %v; want closed without quitting", m.Selected, cmd)
	}
}

func TestRoadmapModelExplain(t *testing.T) {
	var gotID int
	var gotTopic string
	explain := func(_ context.Context, id int, topic string) (string, error) {
		gotID, gotTopic = id, topic
		return "Goroutines are cheap.", nil
	}

	m, cmd := press(newBrowseModel(explain), "e")
	if cmd != nil {
		t.Fatal("e without an open module returned a command")
	}

	m, cmd = press(m, "j", "j", "enter", "tab", "e")
	if !m.Loading || cmd == nil {
		t.Fatalf("Loading = %v, cmd = %v; want a pending explanation", m.Loading, cmd)
	}

	next, _ := m.Update(cmd())
	m = next.(RoadmapModel)
	if gotID != 2 || gotTopic != "Goroutines" {
		t.Errorf("explain(%d, %q), want (2, Goroutines)", gotID, gotTopic)
	}
	if m.Loading || m.Explanation != "Goroutines are cheap." {
		t.Errorf("Loading = %v, Explanation = %q", m.Loading, m.Explanation)
	}
	if !strings.Contains(m.View(), "Goroutines are cheap.") {
		t.Error("View() missing explanation")
	}
}

func TestRoadmapModelStaleExplanation(t *testing.T) {
	m, _ := press(newBrowseModel(nil), "enter")
	next, _ := m.Update(explanationMsg{moduleID: 4, text: "late"})
	m = next.(RoadmapModel)
	if m.Explanation != "" {
		t.Errorf("Explanation = %q, want stale reply ignored", m.Explanation)
	}
}

func TestRoadmapModelWithoutExplainer(t *testing.T) {
	m, cmd := press(newBrowseModel(nil), "enter", "e")
	if cmd != nil {
		t.Error("e without explainer returned a command")
	}
	if !errs.Is(m.Err, errs.ErrCodeUnsupported) {
		t.Errorf("Err = %v, want %s", m.Err, errs.ErrCodeUnsupported)
	}
}

func TestRoadmapModelQuit(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		_, cmd := press(newBrowseModel(nil), k)
		if cmd == nil {
			t.Fatalf("%s returned no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", k)
		}
	}
}
