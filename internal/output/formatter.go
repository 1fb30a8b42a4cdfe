package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Formatter renders a report into bytes
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

var formatters = map[string]func() Formatter{
	"table":   func() Formatter { return ConsoleFormatter{} },
	"console": func() Formatter { return ConsoleFormatter{} },
	"verbose": func() Formatter { return ConsoleFormatter{Verbose: true} },
	"json":    func() Formatter { return JSONFormatter{Pretty: true} },
	"csv":     func() Formatter { return CSVSummarizer{} },
	"xlsx":    func() Formatter { return XLSXFormatter{} },
}

// NewFormatter returns the formatter registered under name
func NewFormatter(name string) (Formatter, error) {
	ctor, ok := formatters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s (available: %s)", name, strings.Join(FormatNames(), ", "))
	}
	return ctor(), nil
}

// FormatNames lists the registered format names
func FormatNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted formats the report and writes it to a timestamped file in
// the working directory, returning the file name
func WriteFormatted(f Formatter, report *Report, ext string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("benefit_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
