package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"

	"github.com/rpgo/withdrawal-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// HTMLFormatter produces a standalone HTML report with the series embedded as JSON for charting.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercentage,
	"ret":  FormatReturn,
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

type chartSeries struct {
	Key    string    `json:"key"`
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

func (h HTMLFormatter) Format(results *domain.StrategyComparison) ([]byte, error) {
	var buf bytes.Buffer

	series := make([]chartSeries, 0, len(results.Results))
	var years []int
	for _, r := range results.Results {
		series = append(series, chartSeries{Key: r.Strategy.Key, Name: displayName(r.Strategy), Values: floats(r.Projection.Trajectory)})
		if len(r.Projection.Trajectory) > len(years) {
			years = r.Projection.Years()
		}
	}

	data := struct {
		*domain.StrategyComparison
		Currency     string
		StartCapital decimal.Decimal
		Rankings     []Ranking
		Assumptions  []string
		Years        []int
		Series       []chartSeries
	}{results, currencyOf(results), results.Scenario.StartCapital, RankStrategies(results), assumptionsFor(results), years, series}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
