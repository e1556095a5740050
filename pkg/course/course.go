package course

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Difficulty is the free-form difficulty label attached to a module.
type Difficulty string

// Known difficulty labels. Anything else is rendered with neutral colors.
const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

// Color returns the fill color used for nodes of this difficulty.
func (d Difficulty) Color() string {
	switch d {
	case Beginner:
		return "#10b981"
	case Intermediate:
		return "#0ea5e9"
	case Advanced:
		return "#4f46e5"
	default:
		return "#6b7280"
	}
}

// Gradient returns the start and stop colors of the node gradient.
func (d Difficulty) Gradient() (string, string) {
	switch d {
	case Beginner:
		return "#34d399", "#059669"
	case Intermediate:
		return "#38bdf8", "#0284c7"
	case Advanced:
		return "#818cf8", "#4338ca"
	default:
		return "#9ca3af", "#4b5563"
	}
}

// Module is a unit of course content. Prerequisites holds the IDs of
// modules that logically precede this one; nil and empty are equivalent.
type Module struct {
	ID            int        `json:"id" yaml:"id" bson:"id"`
	Title         string     `json:"title" yaml:"title" bson:"title"`
	Description   string     `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	Topics        []string   `json:"topics,omitempty" yaml:"topics,omitempty" bson:"topics,omitempty"`
	Duration      string     `json:"duration,omitempty" yaml:"duration,omitempty" bson:"duration,omitempty"`
	Difficulty    Difficulty `json:"difficulty,omitempty" yaml:"difficulty,omitempty" bson:"difficulty,omitempty"`
	Prerequisites []int      `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty" bson:"prerequisites,omitempty"`
}

// PrerequisiteTitles returns the titles of the module's prerequisites that
// exist in c, in prerequisite order. Unknown IDs are skipped.
func (m Module) PrerequisiteTitles(c Course) []string {
	var titles []string
	for _, id := range m.Prerequisites {
		if p, ok := c.Module(id); ok {
			titles = append(titles, p.Title)
		}
	}
	return titles
}

// Course is a titled, ordered set of modules.
type Course struct {
	Title       string   `json:"title" yaml:"title" bson:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	Modules     []Module `json:"modules" yaml:"modules" bson:"modules"`
}

// Module returns the first module with the given ID.
func (c Course) Module(id int) (Module, bool) {
	for _, m := range c.Modules {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}

// Key derives the lookup key for a course name: lowercased with all
// whitespace removed, so "Machine Learning" becomes "machinelearning".
func Key(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MaxKeyLen is the longest key StoreKey returns, in bytes.
const MaxKeyLen = 200

// StoreKey derives the key a course is stored and addressed under. It is
// Key(name) with every rune other than a letter, a digit or one of "._+#-"
// replaced by '-' and ".." broken up, so the result is safe as a file name
// and a URL segment. When anything was replaced or the key was cut to
// MaxKeyLen, a short hash of Key(name) is appended to keep distinct names
// apart: "UI/UX Design" becomes "ui-uxdesign-" plus six hex digits.
func StoreKey(name string) string {
	key := Key(name)
	var b strings.Builder
	b.Grow(len(key))
	changed := false
	for _, r := range key {
		if keyRune(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('-')
		changed = true
	}
	out := b.String()
	for strings.Contains(out, "..") {
		out = strings.ReplaceAll(out, "..", ".-")
		changed = true
	}
	if !changed && len(out) <= MaxKeyLen {
		return out
	}

	sum := sha256.Sum256([]byte(key))
	suffix := "-" + hex.EncodeToString(sum[:3])
	for len(out)+len(suffix) > MaxKeyLen {
		_, size := utf8.DecodeLastRuneInString(out)
		out = out[:len(out)-size]
	}
	return out + suffix
}

func keyRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || strings.ContainsRune("._+#-", r)
}

// Normalize returns a deep copy of c in the shape the roadmap core expects:
// every module has non-nil Prerequisites and Topics, and titles are trimmed.
// Module order is preserved because it drives row order in the layout.
func Normalize(c Course) Course {
	out := Course{
		Title:       strings.TrimSpace(c.Title),
		Description: strings.TrimSpace(c.Description),
		Modules:     make([]Module, len(c.Modules)),
	}
	for i, m := range c.Modules {
		m.Title = strings.TrimSpace(m.Title)
		m.Prerequisites = slices.Clone(m.Prerequisites)
		if m.Prerequisites == nil {
			m.Prerequisites = []int{}
		}
		m.Topics = slices.Clone(m.Topics)
		if m.Topics == nil {
			m.Topics = []string{}
		}
		out.Modules[i] = m
	}
	return out
}
