package compare

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

// Format returns the comparison set as one JSON document ending in a
// newline. Plan names are written without HTML escaping.
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if jf.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(compSet); err != nil {
		return "", fmt.Errorf("failed to encode comparison: %w", err)
	}
	return sb.String(), nil
}
