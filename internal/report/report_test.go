// file: internal/report/report_test.go
// version: 1.0.0
// guid: 6f7a8b9c-0d1e-2f3a-4b5c-6d7e8f9a0b1d

package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() *Data {
	return &Data{
		Drugs: []Drug{
			{Name: "aspirin", X: 1, Y: 2, Z: 3, Cluster: 0, MoA: "COX inhibitor"},
			{Name: "cyclosporine", X: -1, Y: 0.5, Z: 2, Cluster: 1, MoA: "calcineurin inhibitor"},
			{Name: "unknownium", X: 0, Y: 0, Z: 0, Cluster: 0},
		},
		NumClusters:            2,
		ClusterSizes:           []int{2, 1},
		ExplainedVarianceRatio: []float64{0.6, 0.3, 0.1},
		Metrics:                map[string]float64{"silhouette": 0.8},
		GeneratedAt:            "2026-01-15 12:00:00",
	}
}

func TestMoAListSortedAndDeduplicated(t *testing.T) {
	d := sampleData()
	d.Drugs = append(d.Drugs, Drug{Name: "aspirin2", MoA: "COX inhibitor"})

	moas := d.MoAList()
	assert.Equal(t, []string{"COX inhibitor", "calcineurin inhibitor"}, moas)
}

func TestGenerateEmbedsDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, Generate(path, sampleData()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	page := string(content)

	assert.Contains(t, page, "<!DOCTYPE html>")
	assert.Contains(t, page, "plotly")
	assert.Contains(t, page, `"name":"aspirin"`)
	assert.Contains(t, page, "COX inhibitor")
	assert.Contains(t, page, `id="moa-select"`)
	assert.Contains(t, page, `id="plot"`)
	// Two clusters and the generation stamp appear in the summary line.
	assert.Contains(t, page, "2 clusters")
	assert.Contains(t, page, "2026-01-15 12:00:00")
}

func TestGenerateFillsTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	d := sampleData()
	d.GeneratedAt = ""
	require.NoError(t, Generate(path, d))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(content), "generated </div>"),
		"timestamp should be filled in when empty")
}
