package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pvf-engine/config"
)

const feed = `[
  {"employeeid": 1, "firstname": "Somchai", "lastname": "Jaidee", "birthdate": "12/12/1990",
   "startdate": "1/1/2015", "employeetype": "Permanent", "salary": 1000, "pvfrate": 5},
  {"firstname": "no id"}
]`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "employees.json")
	require.NoError(t, os.WriteFile(path, []byte(feed), 0o600))
	return config.Config{
		MinMonths:       3,
		BondRatePercent: 2,
		SourceFile:      path,
		SourceFormat:    config.FormatJSON,
		AsOf:            "2023-06-15",
	}
}

func TestRun_JSON(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), testConfig(t), config.FormatJSON, &out))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, float64(4950), rows[0]["pvfAccumulated"])
	assert.Empty(t, rows[1])
}

func TestRun_CSVSkipsEmptyRecords(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), testConfig(t), config.FormatCSV, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 2)
}

func TestRun_UnknownFormat(t *testing.T) {
	err := run(context.Background(), testConfig(t), "xml", &bytes.Buffer{})
	assert.Error(t, err)
}
