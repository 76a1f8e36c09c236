package integration

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/withdrawal-simulator/internal/output"
)

func TestOutputGeneration(t *testing.T) {
	results := runConfig(t, "../testdata/example_config.yaml")

	for _, format := range output.AvailableFormatterNames() {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, output.Render(&buf, results, format))
			assert.NotZero(t, buf.Len())
		})
	}

	var buf bytes.Buffer
	require.NoError(t, output.Render(&buf, results, "table"))
	assert.Contains(t, buf.String(), "£686,513.17")
}

func TestTrajectoryCSVCoversWindow(t *testing.T) {
	results := runConfig(t, "../testdata/example_config.yaml")

	var buf bytes.Buffer
	require.NoError(t, output.Render(&buf, results, "trajectory-csv"))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 22)
	assert.Equal(t, "Year,moderate,cash_only,aggressive,stocks_and_cash", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2005,173600.00,170880.00,175198.00,172648.00"))
	assert.True(t, strings.HasPrefix(lines[21], "2025,346937.10,144075.83,686513.17,325078.90"))
}

func TestGenerateReportFiles(t *testing.T) {
	results := runConfig(t, "../testdata/example_config.yaml")
	dir := t.TempDir()

	files, err := output.GenerateReport(results, "all", dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	for _, f := range files {
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
}
