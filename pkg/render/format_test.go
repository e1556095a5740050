package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	errs "github.com/prepdeck/prepdeck/pkg/errors"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []Format
		wantErr bool
	}{
		{"single", "svg", []Format{FormatSVG}, false},
		{"list", "svg,json,dot", []Format{FormatSVG, FormatJSON, FormatDOT}, false},
		{"spaces and case", " SVG , Nodelink ", []Format{FormatSVG, FormatNodelink}, false},
		{"duplicates", "json,json", []Format{FormatJSON}, false},
		{"empty", "", nil, false},
		{"unknown", "svg,gif", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormats(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errs.Is(err, errs.ErrCodeInvalidFormat) {
				t.Errorf("error code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidFormat)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseFormats(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestFormatExt(t *testing.T) {
	tests := []struct {
		f    Format
		want string
	}{
		{FormatSVG, ".svg"},
		{FormatNodelink, ".nodelink.svg"},
		{FormatPNG, ".png"},
	}
	for _, tt := range tests {
		if got := tt.f.Ext(); got != tt.want {
			t.Errorf("%s.Ext() = %q, want %q", tt.f, got, tt.want)
		}
	}
}
