package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pensioncalc/corpus-engine/internal/calculation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI in-process and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func writeExample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	_, err := execute(t, "example", path)
	require.NoError(t, err)
	return path
}

func TestExampleCommand(t *testing.T) {
	out, err := execute(t, "example")
	require.NoError(t, err)
	assert.Contains(t, out, "date_of_birth: 15/05/2000")
	assert.Contains(t, out, "starting_level: \"10\"")

	path := filepath.Join(t.TempDir(), "example.yaml")
	out, err = execute(t, "example", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Example configuration written to")
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSimulateCommand(t *testing.T) {
	path := writeExample(t)

	out, err := execute(t, "simulate", path, "--format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "Scenario,Scheme,Strategy,Year,Contributions,Returns,Corpus", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "NPS / standard,NPS,standard,2024,"), lines[1])

	out, err = execute(t, "simulate", path, "--strategy", "lc50", "--scheme", "nps")
	require.NoError(t, err)
	assert.Contains(t, out, "NPS / auto_lc50:")
	assert.NotContains(t, out, "UPS /")
}

func TestSimulateCommandWritesReports(t *testing.T) {
	path := writeExample(t)
	dir := t.TempDir()

	out, err := execute(t, "simulate", path, "--format", "all", "--output-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(out, "Report written to"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 6)
}

func TestSimulateCommandErrors(t *testing.T) {
	path := writeExample(t)

	_, err := execute(t, "simulate", path, "--format", "all")
	assert.ErrorContains(t, err, "requires --output-dir")

	_, err = execute(t, "simulate", path, "--format", "pdf")
	assert.ErrorContains(t, err, "unsupported report format")

	_, err = execute(t, "simulate", path, "--strategy", "aggressive")
	assert.ErrorContains(t, err, "invalid investment strategy")

	_, err = execute(t, "simulate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = execute(t, "simulate")
	assert.Error(t, err)
}

func TestExportTableCommand(t *testing.T) {
	out, err := execute(t, "export-table", "--fitment", "2.57")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "1,2,3,"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "46300,"), lines[1])

	out, err = execute(t, "export-table", "--allowance", "58", "--raise", "15")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.Split(out, "\n")[1], "32700,"))

	file := filepath.Join(t.TempDir(), "9th.csv")
	out, err = execute(t, "export-table", "--fitment", "2.57", "--fitment", "2", "--out", file)
	require.NoError(t, err)
	assert.Contains(t, out, "9th_CPC written to")
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.Split(string(data), "\n")[1], "92600,"))
}

func TestExportTableCommandErrors(t *testing.T) {
	_, err := execute(t, "export-table")
	assert.ErrorContains(t, err, "one of --fitment or --allowance is required")

	_, err = execute(t, "export-table", "--fitment", "2", "--allowance", "50")
	assert.ErrorContains(t, err, "not both")

	_, err = execute(t, "export-table", "--fitment", "abc")
	assert.ErrorContains(t, err, "invalid --fitment")
}

func TestWriteTableFile(t *testing.T) {
	data, err := calculation.NewReferenceDataManager("").LoadAllData()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "7th.csv")
	require.NoError(t, writeTableFile(path, data.BaseTable))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	table, err := calculation.ReadPayScaleTable(f, "7th_CPC", 7)
	require.NoError(t, err)
	assert.Equal(t, data.BaseTable.Levels(), table.Levels())

	err = writeTableFile(filepath.Join(t.TempDir(), "missing", "7th.csv"), data.BaseTable)
	assert.ErrorContains(t, err, "failed to create")

	if _, statErr := os.Stat("/dev/full"); statErr != nil {
		t.Skip("/dev/full not available")
	}
	err = writeTableFile("/dev/full", data.BaseTable)
	assert.Error(t, err)
}

func TestStrategiesCommand(t *testing.T) {
	out, err := execute(t, "strategies", "lc50", "--step", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "auto_lc50")
	assert.NotContains(t, out, "auto_lc75")
	assert.Contains(t, out, "growth")

	out, err = execute(t, "strategies")
	require.NoError(t, err)
	assert.Contains(t, out, "active")

	_, err = execute(t, "strategies", "--step", "0")
	assert.Error(t, err)
}
