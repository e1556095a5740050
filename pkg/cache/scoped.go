package cache

// ScopedKeyer wraps a Keyer with a namespace prefix. Generated content is
// scoped by model name so that switching models never serves replies
// cached for another one.
//
// Example usage:
//
//	modelKeyer := NewScopedKeyer(NewDefaultKeyer(), "gemini-2.0-flash:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// CourseKey generates a prefixed course key.
func (k *ScopedKeyer) CourseKey(courseKey string) string {
	return k.prefix + k.inner.CourseKey(courseKey)
}

// ExplanationKey generates a prefixed explanation key.
func (k *ScopedKeyer) ExplanationKey(courseKey string, moduleID int, topic string) string {
	return k.prefix + k.inner.ExplanationKey(courseKey, moduleID, topic)
}

// QuestionKey generates a prefixed question key.
func (k *ScopedKeyer) QuestionKey(topic string, opts QuestionKeyOpts) string {
	return k.prefix + k.inner.QuestionKey(topic, opts)
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(courseHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(courseHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
