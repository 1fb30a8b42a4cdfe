package output

import (
	json "github.com/goccy/go-json"
)

// JSONFormatter formats the report as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

func (jf JSONFormatter) Name() string { return "json" }

func (jf JSONFormatter) Format(report *Report) ([]byte, error) {
	if jf.Pretty {
		return json.MarshalIndent(report, "", "  ")
	}
	return json.Marshal(report)
}
