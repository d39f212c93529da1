// file: internal/report/report.go
// version: 1.1.0
// guid: 2b3c4d5e-6f7a-8b9c-0d1e-2f3a4b5c6d7e

package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"sort"
	"time"
)

// Drug is one plotted point.
type Drug struct {
	Name    string  `json:"name"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Cluster int     `json:"cluster"`
	MoA     string  `json:"moa,omitempty"`
}

// Data is the full dataset embedded into the report page.
type Data struct {
	Drugs                  []Drug             `json:"drugs"`
	NumClusters            int                `json:"num_clusters"`
	ClusterSizes           []int              `json:"cluster_sizes"`
	ExplainedVarianceRatio []float64          `json:"explained_variance_ratio"`
	Metrics                map[string]float64 `json:"metrics"`
	GeneratedAt            string             `json:"generated_at"`
}

// MoAList returns the distinct non-empty mechanisms, sorted, for the
// dropdown.
func (d *Data) MoAList() []string {
	seen := make(map[string]struct{})
	var moas []string
	for _, drug := range d.Drugs {
		if drug.MoA == "" {
			continue
		}
		if _, dup := seen[drug.MoA]; dup {
			continue
		}
		seen[drug.MoA] = struct{}{}
		moas = append(moas, drug.MoA)
	}
	sort.Strings(moas)
	return moas
}

// Generate renders the self-contained exploration report to path. The
// dataset is serialized once into the page; all interaction is client-side.
func Generate(path string, data *Data) error {
	if data.GeneratedAt == "" {
		data.GeneratedAt = time.Now().Format("2006-01-02 15:04:05")
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("serializing report dataset: %w", err)
	}
	moaJSON, err := json.Marshal(data.MoAList())
	if err != nil {
		return fmt.Errorf("serializing moa list: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	return pageTemplate.Execute(f, map[string]interface{}{
		"Data":        template.JS(dataJSON),
		"MoAs":        template.JS(moaJSON),
		"NumClusters": data.NumClusters,
		"NumDrugs":    len(data.Drugs),
		"GeneratedAt": data.GeneratedAt,
	})
}
