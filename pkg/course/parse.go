package course

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	errs "github.com/prepdeck/prepdeck/pkg/errors"
)

// Format identifies a course file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the encoding from a file extension.
// Unknown extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ReadFile reads and parses a course file, inferring the format from the
// extension.
func ReadFile(path string) (Course, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Course{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Course{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}

// Read parses a course from r in the given format.
func Read(r io.Reader, format Format) (Course, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Course{}, fmt.Errorf("read course: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes a bare course or a single-entry envelope and validates it.
// The result is not normalized.
func Parse(data []byte, format Format) (Course, error) {
	var (
		c   Course
		err error
	)
	switch format {
	case FormatYAML:
		c, err = parseYAML(data)
	case FormatJSON, "":
		c, err = parseJSON(data)
	default:
		return Course{}, errs.New(errs.ErrCodeUnsupported, "unsupported course format %q", format)
	}
	if err != nil {
		return Course{}, err
	}
	if err := Validate(c); err != nil {
		return Course{}, err
	}
	return c, nil
}

// ParseReply extracts the JSON object from a model reply and parses it as a
// course. Decoding and validation failures carry ErrCodeInvalidResponse:
// the reply is at fault, not the caller.
func ParseReply(text string) (Course, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return Course{}, err
	}
	c, err := Parse([]byte(raw), FormatJSON)
	if err != nil {
		if errs.Is(err, errs.ErrCodeInvalidFormat) || errs.Is(err, errs.ErrCodeInvalidCourse) {
			return Course{}, errs.Wrap(errs.ErrCodeInvalidResponse, err, "decode course reply")
		}
		return Course{}, err
	}
	return c, nil
}

func parseJSON(data []byte) (Course, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return Course{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode course JSON")
	}
	if _, ok := top["modules"]; !ok {
		if len(top) != 1 {
			return Course{}, envelopeError(len(top))
		}
		for _, v := range top {
			data = v
		}
	}
	var c Course
	if err := json.Unmarshal(data, &c); err != nil {
		return Course{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode course JSON")
	}
	return c, nil
}

func parseYAML(data []byte) (Course, error) {
	var top map[string]yaml.Node
	if err := yaml.Unmarshal(data, &top); err != nil {
		return Course{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode course YAML")
	}
	var c Course
	if _, ok := top["modules"]; ok {
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Course{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode course YAML")
		}
		return c, nil
	}
	if len(top) != 1 {
		return Course{}, envelopeError(len(top))
	}
	for _, node := range top {
		if err := node.Decode(&c); err != nil {
			return Course{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode course YAML")
		}
	}
	return c, nil
}

func envelopeError(n int) error {
	return errs.New(errs.ErrCodeInvalidFormat, "expected a course or a single-entry envelope, got %d keys", n)
}

// Validate checks the structural requirements of a course at the boundary:
// at least one module, and positive IDs. Duplicate IDs and unknown or
// cyclic prerequisites are left to the layout, which tolerates them.
func Validate(c Course) error {
	if len(c.Modules) == 0 {
		return errs.New(errs.ErrCodeInvalidCourse, "course %q has no modules", c.Title)
	}
	for i, m := range c.Modules {
		if m.ID <= 0 {
			return errs.New(errs.ErrCodeInvalidCourse, "module %d (%q) has non-positive id %d", i, m.Title, m.ID)
		}
	}
	return nil
}

// DuplicateIDs returns the module IDs that occur more than once, in order of
// their second occurrence.
func DuplicateIDs(c Course) []int {
	seen := make(map[int]int, len(c.Modules))
	var dups []int
	for _, m := range c.Modules {
		seen[m.ID]++
		if seen[m.ID] == 2 {
			dups = append(dups, m.ID)
		}
	}
	return dups
}

var (
	fenceRe  = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")
	objectRe = regexp.MustCompile(`\{[\s\S]*\}`)
)

// ExtractJSON strips Markdown code fences from a model reply and returns
// the span from the first '{' to the last '}'.
func ExtractJSON(text string) (string, error) {
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
	m := objectRe.FindString(cleaned)
	if m == "" {
		return "", errs.New(errs.ErrCodeInvalidResponse, "no JSON object in reply")
	}
	return m, nil
}

// Marshal encodes a course in the given format.
func Marshal(c Course, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return nil, fmt.Errorf("encode course YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode course YAML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return json.MarshalIndent(c, "", "  ")
	}
}
