package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/prepdeck/prepdeck/pkg/course"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
	"github.com/prepdeck/prepdeck/pkg/roadmap"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	levelStyle        = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	detailStyle       = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// =============================================================================
// RoadmapModel - Interactive roadmap browser
// =============================================================================

// explainFunc returns the rendered explanation of a module, or of one of its
// topics when topic is non-empty.
type explainFunc func(ctx context.Context, moduleID int, topic string) (string, error)

// explanationMsg carries a finished explanation back to the model.
type explanationMsg struct {
	moduleID int
	topic    string
	text     string
	err      error
}

// RoadmapModel is the bubbletea model for browsing a course level by level.
// The cursor walks modules in column order; enter opens a module, tab
// cycles its topics and e fetches the explanation of the current one.
type RoadmapModel struct {
	Course course.Course
	Levels map[int]int

	Items    []int // module IDs in column order
	Cursor   int
	Offset   int
	Height   int
	Selected int // opened module, 0 when none
	Topic    int // index into the opened module's topics, -1 for the module

	Explanation string
	Loading     bool
	Err         error

	ctx     context.Context
	explain explainFunc
}

// NewRoadmapModel creates a browser over c laid out as l. explain may be
// nil, which disables explanations.
func NewRoadmapModel(ctx context.Context, c course.Course, l roadmap.Layout, explain explainFunc) RoadmapModel {
	var items []int
	for _, col := range l.Columns() {
		items = append(items, col...)
	}
	return RoadmapModel{
		Course:  c,
		Levels:  l.Levels,
		Items:   items,
		Height:  15,
		Topic:   -1,
		ctx:     ctx,
		explain: explain,
	}
}

func (m RoadmapModel) Init() tea.Cmd {
	return nil
}

func (m RoadmapModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Selected == 0 {
				return m, tea.Quit
			}
			m.close()
		case "up", "k":
			m.move(m.Cursor - 1)
		case "down", "j":
			m.move(m.Cursor + 1)
		case "left", "h":
			m.move(m.columnStart(m.level(m.Cursor) - 1))
		case "right", "l":
			m.move(m.columnStart(m.level(m.Cursor) + 1))
		case "enter":
			if len(m.Items) == 0 {
				return m, nil
			}
			m.close()
			m.Selected = m.Items[m.Cursor]
		case "tab":
			if mod, ok := m.selectedModule(); ok && len(mod.Topics) > 0 {
				m.Topic++
				if m.Topic >= len(mod.Topics) {
					m.Topic = -1
				}
				m.Explanation, m.Err = "", nil
			}
		case "e":
			return m.fetchExplanation()
		}

	case explanationMsg:
		if msg.moduleID != m.Selected || msg.topic != m.topicName() {
			return m, nil
		}
		m.Loading = false
		m.Explanation, m.Err = msg.text, msg.err

	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m *RoadmapModel) move(i int) {
	if i < 0 || i >= len(m.Items) {
		return
	}
	m.Cursor = i
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *RoadmapModel) close() {
	m.Selected = 0
	m.Topic = -1
	m.Explanation, m.Err, m.Loading = "", nil, false
}

func (m RoadmapModel) level(i int) int {
	if i < 0 || i >= len(m.Items) {
		return 0
	}
	return m.Levels[m.Items[i]]
}

// columnStart returns the first item index at level lv, or -1.
func (m RoadmapModel) columnStart(lv int) int {
	for i, id := range m.Items {
		if m.Levels[id] == lv {
			return i
		}
	}
	return -1
}

func (m RoadmapModel) selectedModule() (course.Module, bool) {
	if m.Selected == 0 {
		return course.Module{}, false
	}
	return m.Course.Module(m.Selected)
}

func (m RoadmapModel) topicName() string {
	mod, ok := m.selectedModule()
	if !ok || m.Topic < 0 || m.Topic >= len(mod.Topics) {
		return ""
	}
	return mod.Topics[m.Topic]
}

func (m RoadmapModel) fetchExplanation() (tea.Model, tea.Cmd) {
	if m.Selected == 0 || m.Loading {
		return m, nil
	}
	if m.explain == nil {
		m.Err = errs.New(errs.ErrCodeUnsupported, "explanations need an API key")
		return m, nil
	}
	m.Loading = true
	m.Explanation, m.Err = "", nil

	ctx, explain := m.ctx, m.explain
	id, topic := m.Selected, m.topicName()
	return m, func() tea.Msg {
		text, err := explain(ctx, id, topic)
		return explanationMsg{moduleID: id, topic: topic, text: text, err: err}
	}
}

func (m RoadmapModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Course.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ←/→ level  ⏎ open  tab topic  e explain  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))
	lastLevel := -1
	for i := m.Offset; i < end; i++ {
		id := m.Items[i]
		lv := m.Levels[id]
		if lv != lastLevel {
			b.WriteString(levelStyle.Render(fmt.Sprintf("Level %d", lv+1)))
			b.WriteString("\n")
			lastLevel = lv
		}
		mod, _ := m.Course.Module(id)

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-3d %s", cursor, id, mod.Title)
		switch {
		case i == m.Cursor:
			line = listSelectedStyle.Render(line)
		case id == m.Selected:
			line = StyleHighlight.Render(line)
		default:
			line = listNormalStyle.Render(line)
		}
		b.WriteString(line + "  " + renderDifficulty(string(mod.Difficulty)))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Items)), len(m.Items))))
	b.WriteString("\n")

	if mod, ok := m.selectedModule(); ok {
		b.WriteString("\n")
		b.WriteString(detailStyle.Render(m.details(mod)))
		b.WriteString("\n")
	}
	return b.String()
}

// details renders the opened module: prerequisites, topics and the
// explanation state.
func (m RoadmapModel) details(mod course.Module) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(mod.Title))
	if mod.Duration != "" {
		b.WriteString(listDimStyle.Render("  " + mod.Duration))
	}
	b.WriteString("\n")
	if mod.Description != "" {
		b.WriteString(mod.Description + "\n")
	}

	if prereqs := mod.PrerequisiteTitles(m.Course); len(prereqs) > 0 {
		b.WriteString(listDimStyle.Render("Prerequisites:") + " " + strings.Join(prereqs, ", ") + "\n")
	} else {
		b.WriteString(listDimStyle.Render("No prerequisites") + "\n")
	}

	if len(mod.Topics) > 0 {
		b.WriteString("\n")
		for i, t := range mod.Topics {
			marker := "  "
			style := listNormalStyle
			if i == m.Topic {
				marker = "▸ "
				style = listSelectedStyle
			}
			b.WriteString(style.Render(marker+t) + "\n")
		}
	}

	switch {
	case m.Loading:
		b.WriteString("\n" + listDimStyle.Render("Explaining "+m.subject(mod)+"..."))
	case m.Err != nil:
		b.WriteString("\n" + StyleWarning.Render(errs.UserMessage(m.Err)))
	case m.Explanation != "":
		b.WriteString("\n" + strings.TrimRight(m.Explanation, "\n"))
	}
	return b.String()
}

func (m RoadmapModel) subject(mod course.Module) string {
	if t := m.topicName(); t != "" {
		return t
	}
	return mod.Title
}
