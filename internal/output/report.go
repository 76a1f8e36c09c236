package output

import (
	"fmt"
	"io"

	"github.com/rpgo/withdrawal-simulator/internal/domain"
)

// Render formats results with the named formatter and writes them to w.
func Render(w io.Writer, results *domain.StrategyComparison, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return unsupported(format)
	}
	data, err := f.Format(results)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// GenerateReport writes the named report into dir and returns the created
// files. The "all" format writes the verbose console report, the trajectory
// CSV and the HTML report.
func GenerateReport(results *domain.StrategyComparison, format, dir string) ([]string, error) {
	var formatters []Formatter
	if NormalizeFormatName(format) == "all" {
		formatters = []Formatter{ConsoleVerboseFormatter{}, CSVTrajectoryExporter{}, HTMLFormatter{}}
	} else if f := GetFormatterByName(format); f != nil {
		formatters = []Formatter{f}
	} else {
		return nil, unsupported(format)
	}

	var files []string
	for _, f := range formatters {
		name, err := WriteFormatted(f, results, dir)
		if err != nil {
			return files, err
		}
		files = append(files, name)
	}
	return files, nil
}
