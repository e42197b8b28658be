package render

import (
	"context"
	"testing"

	merr "github.com/matzehuels/meru/pkg/errors"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"svg", FormatSVG, true},
		{" PNG ", FormatPNG, true},
		{"yml", FormatYAML, true},
		{"gif", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
		if !tt.ok && !merr.Is(err, merr.ErrCodeInvalidFormat) {
			t.Errorf("ParseFormat(%q) error = %v, want INVALID_FORMAT", tt.in, err)
		}
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats("svg,dot,svg,,json")
	if err != nil {
		t.Fatal(err)
	}
	want := []Format{FormatSVG, FormatDOT, FormatJSON}
	if len(got) != len(want) {
		t.Fatalf("ParseFormats = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseFormats[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := ParseFormats(" , "); !merr.Is(err, merr.ErrCodeInvalidFormat) {
		t.Errorf("empty list error = %v", err)
	}
}

func TestFormatProperties(t *testing.T) {
	if !FormatPNG.NeedsConverter() || !FormatPDF.NeedsConverter() || FormatSVG.NeedsConverter() {
		t.Error("NeedsConverter mismatch")
	}
	if FormatSVG.ContentType() != "image/svg+xml" {
		t.Errorf("ContentType(svg) = %q", FormatSVG.ContentType())
	}
}

func TestToPNG(t *testing.T) {
	if !ConverterAvailable() {
		t.Skip("rsvg-convert not installed")
	}
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`)
	png, err := ToPNG(context.Background(), svg, 1)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("output is not a PNG")
	}
}
