package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mj1618/slidescene/internal/model"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTree Format = "tree"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// ExtractResult is the top-level output of the `extract` command.
type ExtractResult struct {
	Source             string `yaml:"source,omitempty" json:"source,omitempty"`
	TS                 int64  `yaml:"ts"               json:"ts"`
	model.Presentation `yaml:",inline"`
}

// ExtractFlatResult is the top-level output when --flat is used.
type ExtractFlatResult struct {
	Source   string              `yaml:"source,omitempty" json:"source,omitempty"`
	TS       int64               `yaml:"ts"               json:"ts"`
	Elements []model.FlatElement `yaml:"elements"         json:"elements"`
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	return Fprint(os.Stdout, v)
}

// Fprint serializes v to w in the current output format.
func Fprint(w io.Writer, v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		if PrettyOutput {
			return WritePrettyJSON(w, v)
		}
		return WriteJSON(w, v)
	case FormatYAML:
		return WriteYAML(w, v)
	case FormatTree:
		return WriteTree(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatYAML, FormatJSON, FormatTree:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (use yaml, json or tree)", s)
	}
}
