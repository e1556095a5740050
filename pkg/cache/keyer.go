package cache

import "strconv"

// Keyer generates cache keys for each kind of cached value.
type Keyer interface {
	// CourseKey is the key of a generated course, by course key.
	CourseKey(courseKey string) string
	// ExplanationKey is the key of a module or topic explanation. An empty
	// topic means the module-level explanation.
	ExplanationKey(courseKey string, moduleID int, topic string) string
	// QuestionKey is the key of a generated interview question.
	QuestionKey(topic string, opts QuestionKeyOpts) string
	// LayoutKey is the key of a computed layout for a course content hash.
	LayoutKey(courseHash string, opts LayoutKeyOpts) string
	// ArtifactKey is the key of a rendered artifact for a layout hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// QuestionKeyOpts are the generation settings that affect a question.
type QuestionKeyOpts struct {
	Model    string `json:"model,omitempty"`
	Category int    `json:"category,omitempty"`
}

// LayoutKeyOpts are the spacing settings that affect a layout.
type LayoutKeyOpts struct {
	BaseX         float64 `json:"base_x"`
	BaseY         float64 `json:"base_y"`
	ColumnSpacing float64 `json:"column_spacing"`
	RowSpacing    float64 `json:"row_spacing"`
	NodeWidth     float64 `json:"node_width"`
	NodeHeight    float64 `json:"node_height"`
}

// ArtifactKeyOpts are the render settings that affect an artifact.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	Selected    int    `json:"selected,omitempty"`
	Title       bool   `json:"title,omitempty"`
	Interactive bool   `json:"interactive,omitempty"`
	Detailed    bool   `json:"detailed,omitempty"`
	Scale       string `json:"scale,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// CourseKey keeps the course key readable: "course:<key>".
func (DefaultKeyer) CourseKey(courseKey string) string {
	return "course:" + courseKey
}

// ExplanationKey hashes the course key, module ID and topic.
func (DefaultKeyer) ExplanationKey(courseKey string, moduleID int, topic string) string {
	return hashKey("explain", courseKey, strconv.Itoa(moduleID), topic)
}

// QuestionKey hashes the topic and options.
func (DefaultKeyer) QuestionKey(topic string, opts QuestionKeyOpts) string {
	return hashKey("question", topic, opts)
}

// LayoutKey hashes the course hash and spacing.
func (DefaultKeyer) LayoutKey(courseHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", courseHash, opts)
}

// ArtifactKey hashes the layout hash and render options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
