package calculation

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/rpgo/withdrawal-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// Built-in real annual returns, 1990-2025, one CSV per asset class.
//
//go:embed data/*.csv
var embeddedReturns embed.FS

// HistoricalDataPoint represents a single year's historical data
type HistoricalDataPoint struct {
	Year int             `json:"year"`
	Data decimal.Decimal `json:"data"`
}

// HistoricalDataSet holds the annual returns of one asset class
type HistoricalDataSet struct {
	Class       domain.AssetClass     `json:"class"`
	Description string                `json:"description"`
	Source      string                `json:"source"`
	DataPoints  []HistoricalDataPoint `json:"data_points"`
	MinYear     int                   `json:"min_year"`
	MaxYear     int                   `json:"max_year"`
	Statistics  HistoricalStatistics  `json:"statistics"`

	byYear map[int]decimal.Decimal
}

// HistoricalStatistics provides statistical summary of the dataset
type HistoricalStatistics struct {
	Mean         decimal.Decimal `json:"mean"`
	StdDev       decimal.Decimal `json:"std_dev"`
	Min          decimal.Decimal `json:"min"`
	Max          decimal.Decimal `json:"max"`
	Count        int             `json:"count"`
	MissingYears []int           `json:"missing_years"`
}

// HistoricalDataManager loads per-class return series and serves them as a
// ReturnSource. An empty DataPath selects the built-in dataset; otherwise every
// <class>.csv file in DataPath is loaded.
type HistoricalDataManager struct {
	Datasets map[domain.AssetClass]*HistoricalDataSet `json:"datasets"`
	DataPath string                                   `json:"data_path"`
	IsLoaded bool                                     `json:"is_loaded"`
}

// NewHistoricalDataManager creates a new historical data manager
func NewHistoricalDataManager(dataPath string) *HistoricalDataManager {
	return &HistoricalDataManager{
		Datasets: make(map[domain.AssetClass]*HistoricalDataSet),
		DataPath: dataPath,
		IsLoaded: false,
	}
}

// LoadDefaultData returns a manager already loaded with the built-in dataset.
func LoadDefaultData() (*HistoricalDataManager, error) {
	hdm := NewHistoricalDataManager("")
	if err := hdm.LoadAllData(); err != nil {
		return nil, err
	}
	return hdm, nil
}

func (hdm *HistoricalDataManager) filesystem() (fs.FS, string, error) {
	if hdm.DataPath == "" {
		sub, err := fs.Sub(embeddedReturns, "data")
		if err != nil {
			return nil, "", err
		}
		return sub, "built-in dataset", nil
	}
	info, err := os.Stat(hdm.DataPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open data directory %s: %w", hdm.DataPath, err)
	}
	if !info.IsDir() {
		return nil, "", fmt.Errorf("data path %s is not a directory", hdm.DataPath)
	}
	return os.DirFS(hdm.DataPath), hdm.DataPath, nil
}

// LoadAllData loads all historical datasets
func (hdm *HistoricalDataManager) LoadAllData() error {
	if hdm.IsLoaded {
		return nil // Already loaded
	}

	fsys, source, err := hdm.filesystem()
	if err != nil {
		return err
	}

	files, err := fs.Glob(fsys, "*.csv")
	if err != nil {
		return fmt.Errorf("failed to list return files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no return files (*.csv) found in %s", source)
	}

	for _, file := range files {
		class := domain.AssetClass(strings.ToLower(strings.TrimSuffix(file, path.Ext(file))))
		dataset, err := hdm.loadCSVData(fsys, file, class, source)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", class, err)
		}
		hdm.Datasets[class] = dataset
	}

	hdm.IsLoaded = true
	return nil
}

// loadCSVData loads data from a CSV file and creates a HistoricalDataSet
func (hdm *HistoricalDataManager) loadCSVData(fsys fs.FS, fileName string, class domain.AssetClass, source string) (*HistoricalDataSet, error) {
	file, err := fsys.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", fileName, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if len(header) < 2 {
		return nil, fmt.Errorf("invalid CSV format: expected at least 2 columns")
	}

	var dataPoints []HistoricalDataPoint
	byYear := make(map[int]decimal.Decimal)

	// Read data rows
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}

		if len(record) < 2 {
			continue // Skip malformed rows
		}

		year, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			continue // Skip rows with invalid year
		}

		value, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			continue // Skip rows with invalid value
		}

		if _, dup := byYear[year]; dup {
			return nil, fmt.Errorf("duplicate year %d in %s", year, fileName)
		}
		byYear[year] = value
		dataPoints = append(dataPoints, HistoricalDataPoint{
			Year: year,
			Data: value,
		})
	}

	if len(dataPoints) == 0 {
		return nil, fmt.Errorf("no valid data points found in %s", fileName)
	}

	sort.Slice(dataPoints, func(i, j int) bool { return dataPoints[i].Year < dataPoints[j].Year })

	return &HistoricalDataSet{
		Class:       class,
		Description: fmt.Sprintf("%s real annual returns", class),
		Source:      source,
		DataPoints:  dataPoints,
		MinYear:     dataPoints[0].Year,
		MaxYear:     dataPoints[len(dataPoints)-1].Year,
		Statistics:  hdm.calculateStatistics(dataPoints, byYear),
		byYear:      byYear,
	}, nil
}

// calculateStatistics calculates statistical measures for the dataset.
// dataPoints must be sorted by year.
func (hdm *HistoricalDataManager) calculateStatistics(dataPoints []HistoricalDataPoint, byYear map[int]decimal.Decimal) HistoricalStatistics {
	if len(dataPoints) == 0 {
		return HistoricalStatistics{}
	}

	values := make([]decimal.Decimal, len(dataPoints))
	for i, dp := range dataPoints {
		values[i] = dp.Data
	}

	var missingYears []int
	for year := dataPoints[0].Year; year <= dataPoints[len(dataPoints)-1].Year; year++ {
		if _, ok := byYear[year]; !ok {
			missingYears = append(missingYears, year)
		}
	}

	return HistoricalStatistics{
		Mean:         meanOf(values),
		StdDev:       populationStdDev(values),
		Min:          decimal.Min(values[0], values[1:]...),
		Max:          decimal.Max(values[0], values[1:]...),
		Count:        len(values),
		MissingYears: missingYears,
	}
}

// Return implements ReturnSource. Unknown classes and years yield zero.
func (hdm *HistoricalDataManager) Return(class domain.AssetClass, year int) decimal.Decimal {
	v, err := hdm.GetReturn(class, year)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// GetReturn returns the historical return for a class and year, failing when
// the data is not present.
func (hdm *HistoricalDataManager) GetReturn(class domain.AssetClass, year int) (decimal.Decimal, error) {
	if !hdm.IsLoaded {
		return decimal.Zero, fmt.Errorf("historical data not loaded")
	}

	dataset, ok := hdm.Datasets[class]
	if !ok || dataset == nil {
		return decimal.Zero, fmt.Errorf("unknown asset class: %s", class)
	}

	if v, ok := dataset.byYear[year]; ok {
		return v, nil
	}

	return decimal.Zero, fmt.Errorf("no data found for %s in year %d", class, year)
}

// Classes returns the loaded asset classes in lexical order.
func (hdm *HistoricalDataManager) Classes() []domain.AssetClass {
	classes := make([]domain.AssetClass, 0, len(hdm.Datasets))
	for class := range hdm.Datasets {
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes
}

// GetAvailableYears returns the span covered by any loaded dataset
func (hdm *HistoricalDataManager) GetAvailableYears() (int, int, error) {
	if !hdm.IsLoaded || len(hdm.Datasets) == 0 {
		return 0, 0, fmt.Errorf("historical data not loaded")
	}

	minYear, maxYear := 0, 0
	first := true
	for _, dataset := range hdm.Datasets {
		if first || dataset.MinYear < minYear {
			minYear = dataset.MinYear
		}
		if first || dataset.MaxYear > maxYear {
			maxYear = dataset.MaxYear
		}
		first = false
	}
	return minYear, maxYear, nil
}

// ValidateDataQuality performs quality checks on the loaded data
func (hdm *HistoricalDataManager) ValidateDataQuality() ([]string, error) {
	if !hdm.IsLoaded {
		return nil, fmt.Errorf("historical data not loaded")
	}

	var issues []string
	upper := decimal.NewFromInt(1)
	lower := decimal.NewFromFloat(-0.5)

	minYear, maxYear, err := hdm.GetAvailableYears()
	if err != nil {
		return nil, err
	}
	expectedYears := maxYear - minYear + 1

	for _, class := range hdm.Classes() {
		dataset := hdm.Datasets[class]

		if len(dataset.Statistics.MissingYears) > 0 {
			issues = append(issues, fmt.Sprintf("Missing years in %s data: %v", class, dataset.Statistics.MissingYears))
		}

		// Extreme outliers (returns > 100% or < -50%)
		for _, dp := range dataset.DataPoints {
			if dp.Data.GreaterThan(upper) {
				issues = append(issues, fmt.Sprintf("Extreme positive return in %s for year %d: %s", class, dp.Year, dp.Data.String()))
			}
			if dp.Data.LessThan(lower) {
				issues = append(issues, fmt.Sprintf("Extreme negative return in %s for year %d: %s", class, dp.Year, dp.Data.String()))
			}
		}

		if len(dataset.DataPoints) != expectedYears {
			issues = append(issues, fmt.Sprintf("%s has %d data points, expected %d", class, len(dataset.DataPoints), expectedYears))
		}
	}

	return issues, nil
}
