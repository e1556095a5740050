package render

import (
	"slices"
	"strings"

	errs "github.com/prepdeck/prepdeck/pkg/errors"
)

// Format names an output artifact type.
type Format string

const (
	FormatSVG      Format = "svg"
	FormatJSON     Format = "json"
	FormatDOT      Format = "dot"
	FormatNodelink Format = "nodelink"
	FormatPDF      Format = "pdf"
	FormatPNG      Format = "png"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatSVG, FormatJSON, FormatDOT, FormatNodelink, FormatPDF, FormatPNG}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatNodelink:
		return ".nodelink.svg"
	default:
		return "." + string(f)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG, FormatNodelink:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// ParseFormats splits a comma-separated list, trims and lowercases each
// entry, and drops duplicates. Unknown names yield ErrCodeInvalidFormat.
func ParseFormats(list string) ([]Format, error) {
	var out []Format
	for _, part := range strings.Split(list, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		f := Format(name)
		if !slices.Contains(Formats, f) {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown format %q (valid: svg, json, dot, nodelink, pdf, png)", name)
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out, nil
}
