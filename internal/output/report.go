package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pensioncalc/corpus-engine/internal/domain"
)

// Render writes the report in the named format to w.
func Render(w io.Writer, results *domain.ScenarioComparison, format string) error {
	f, err := lookup(format)
	if err != nil {
		return err
	}
	data, err := f.Format(results)
	if err != nil {
		return fmt.Errorf("%s report: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// GenerateReport writes the report in the named format to a timestamped file in
// dir and returns its path. "all" writes every registered format.
func GenerateReport(results *domain.ScenarioComparison, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var paths []string
		for _, f := range builtInFormatters {
			path, err := WriteFormatted(f, results, dir)
			if err != nil {
				return paths, fmt.Errorf("%s report: %w", f.Name(), err)
			}
			paths = append(paths, path)
		}
		return paths, nil
	}

	f, err := lookup(format)
	if err != nil {
		return nil, err
	}
	path, err := WriteFormatted(f, results, dir)
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func lookup(format string) (Formatter, error) {
	if f := GetFormatterByName(format); f != nil {
		return f, nil
	}
	// enrich error with available formatters and aliases
	return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}
