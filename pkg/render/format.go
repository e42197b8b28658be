package render

import (
	"slices"
	"strings"

	merr "github.com/matzehuels/meru/pkg/errors"
)

// Format is an output artifact type.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatDOT  Format = "dot"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatDOT, FormatPNG, FormatPDF, FormatJSON, FormatYAML}

// ParseFormat validates a format name. Matching ignores case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "yml" {
		f = FormatYAML
	}
	if slices.Contains(Formats, f) {
		return f, nil
	}
	return "", merr.New(merr.ErrCodeInvalidFormat, "unsupported format %q (want one of %v)", s, Formats)
}

// ParseFormats parses a comma-separated format list, dropping duplicates.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	for part := range strings.SplitSeq(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, merr.New(merr.ErrCodeInvalidFormat, "no output format given")
	}
	return out, nil
}

// NeedsConverter reports whether producing f shells out to rsvg-convert.
func (f Format) NeedsConverter() bool {
	return f == FormatPNG || f == FormatPDF
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return "text/vnd.graphviz"
	}
}
