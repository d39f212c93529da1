// file: internal/dataset/pathway.go
// version: 1.1.0
// guid: 3e4f5a6b-7c8d-9e0f-1a2b-3c4d5e6f7a8b

package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// PathwayMatrix is the dense drugs x pathways enrichment matrix assembled
// from one CSV per drug. Rows follow Drugs, columns follow Pathways, both
// sorted; pathways a drug's file never mentions are filled with 0.
type PathwayMatrix struct {
	Drugs    []string
	Pathways []string
	Data     *mat.Dense
}

// LoadPathwayMatrix scans dir for per-drug enrichment CSVs. Each file must
// carry Term and NES columns; files that don't, or that fail to parse, are
// skipped with a warning rather than aborting the whole scan.
func LoadPathwayMatrix(dir string, progress func()) (*PathwayMatrix, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading pathway directory: %w", err)
	}

	scores := make(map[string]map[string]float64)
	pathwaySet := make(map[string]struct{})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		if progress != nil {
			progress()
		}

		drug := strings.TrimSuffix(entry.Name(), ".csv")
		byTerm, err := readEnrichmentFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Printf("Warning: skipping %s: %v\n", entry.Name(), err)
			continue
		}

		scores[drug] = byTerm
		for term := range byTerm {
			pathwaySet[term] = struct{}{}
		}
	}

	if len(scores) == 0 {
		return nil, fmt.Errorf("no usable enrichment CSV files in %s", dir)
	}

	drugs := make([]string, 0, len(scores))
	for d := range scores {
		drugs = append(drugs, d)
	}
	sort.Strings(drugs)

	pathways := make([]string, 0, len(pathwaySet))
	for p := range pathwaySet {
		pathways = append(pathways, p)
	}
	sort.Strings(pathways)

	data := mat.NewDense(len(drugs), len(pathways), nil)
	for i, drug := range drugs {
		for j, pathway := range pathways {
			data.Set(i, j, scores[drug][pathway])
		}
	}

	return &PathwayMatrix{Drugs: drugs, Pathways: pathways, Data: data}, nil
}

func readEnrichmentFile(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	termIdx := columnIndex(rows[0], "Term")
	nesIdx := columnIndex(rows[0], "NES")
	if termIdx < 0 || nesIdx < 0 {
		return nil, fmt.Errorf("missing Term or NES column")
	}

	byTerm := make(map[string]float64, len(rows)-1)
	for _, row := range rows[1:] {
		term := cell(row, termIdx)
		if term == "" {
			continue
		}
		nes, err := strconv.ParseFloat(cell(row, nesIdx), 64)
		if err != nil {
			return nil, fmt.Errorf("bad NES for %q: %w", term, err)
		}
		byTerm[term] = nes
	}
	return byTerm, nil
}

// WriteClusteringResults persists drug name, principal components, cluster
// label and, when available, the drug's mechanism of action.
func WriteClusteringResults(path string, drugs []string, scores *mat.Dense, labels []int, moa map[string]string) error {
	_, nComp := scores.Dims()
	header := []string{ColGenericName}
	for i := 0; i < nComp; i++ {
		header = append(header, fmt.Sprintf("PC%d", i+1))
	}
	header = append(header, "cluster")
	if moa != nil {
		header = append(header, "MoA")
	}

	rows := [][]string{header}
	for i, drug := range drugs {
		row := []string{drug}
		for j := 0; j < nComp; j++ {
			row = append(row, formatFloat(scores.At(i, j)))
		}
		row = append(row, strconv.Itoa(labels[i]))
		if moa != nil {
			row = append(row, moa[drug])
		}
		rows = append(rows, row)
	}
	return writeCSV(path, rows)
}

// WriteClusterDetails persists per-cluster sizes alongside the run-level
// quality metrics.
func WriteClusterDetails(path string, sizes []int, silhouette, calinskiHarabasz, daviesBouldin float64) error {
	rows := [][]string{{"cluster", "size", "silhouette", "calinski_harabasz", "davies_bouldin"}}
	for cluster, size := range sizes {
		rows = append(rows, []string{
			strconv.Itoa(cluster),
			strconv.Itoa(size),
			formatFloat(silhouette),
			formatFloat(calinskiHarabasz),
			formatFloat(daviesBouldin),
		})
	}
	return writeCSV(path, rows)
}

// MoADistributionRow is one mechanism's spread across clusters.
type MoADistributionRow struct {
	MoA    string
	Count  int
	ByDist []int // per-cluster counts, index = cluster label
}

// WriteMoADistribution persists how each mechanism of action distributes
// across the discovered clusters.
func WriteMoADistribution(path string, nClusters int, dist []MoADistributionRow) error {
	header := []string{"MOA", "Count"}
	for c := 0; c < nClusters; c++ {
		header = append(header, fmt.Sprintf("Cluster_%d", c))
	}

	rows := [][]string{header}
	for _, d := range dist {
		row := []string{d.MoA, strconv.Itoa(d.Count)}
		for c := 0; c < nClusters; c++ {
			n := 0
			if c < len(d.ByDist) {
				n = d.ByDist[c]
			}
			row = append(row, strconv.Itoa(n))
		}
		rows = append(rows, row)
	}
	return writeCSV(path, rows)
}

// ClusteringRow is one drug's persisted clustering result, read back from
// the file WriteClusteringResults produced.
type ClusteringRow struct {
	Drug    string
	PCs     []float64
	Cluster int
	MoA     string
}

// LoadClusteringResults reads a clustering results CSV back into memory.
func LoadClusteringResults(path string) ([]ClusteringRow, error) {
	rows, err := readAll(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	header := rows[0]
	nameIdx := columnIndex(header, ColGenericName)
	clusterIdx := columnIndex(header, "cluster")
	moaIdx := columnIndex(header, "MoA")
	if nameIdx < 0 || clusterIdx < 0 {
		return nil, fmt.Errorf("%s: missing %s or cluster column", path, ColGenericName)
	}

	var pcIdx []int
	for i, col := range header {
		if strings.HasPrefix(col, "PC") {
			pcIdx = append(pcIdx, i)
		}
	}

	results := make([]ClusteringRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cluster, err := strconv.Atoi(cell(row, clusterIdx))
		if err != nil {
			return nil, fmt.Errorf("%s: bad cluster label for %q: %w", path, cell(row, nameIdx), err)
		}
		pcs := make([]float64, len(pcIdx))
		for j, idx := range pcIdx {
			pcs[j], err = strconv.ParseFloat(cell(row, idx), 64)
			if err != nil {
				return nil, fmt.Errorf("%s: bad %s for %q: %w", path, header[idx], cell(row, nameIdx), err)
			}
		}
		r := ClusteringRow{Drug: cell(row, nameIdx), PCs: pcs, Cluster: cluster}
		if moaIdx >= 0 {
			r.MoA = cell(row, moaIdx)
		}
		results = append(results, r)
	}
	return results, nil
}

// LoadClusterDetails reads back per-cluster sizes and the run-level quality
// metrics from the file WriteClusterDetails produced.
func LoadClusterDetails(path string) (sizes []int, metrics map[string]float64, err error) {
	rows, err := readAll(path)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("%s: no data rows", path)
	}

	header := rows[0]
	sizeIdx := columnIndex(header, "size")
	if sizeIdx < 0 {
		return nil, nil, fmt.Errorf("%s: missing size column", path)
	}

	metrics = make(map[string]float64)
	for _, row := range rows[1:] {
		size, err := strconv.Atoi(cell(row, sizeIdx))
		if err != nil {
			return nil, nil, fmt.Errorf("%s: bad cluster size: %w", path, err)
		}
		sizes = append(sizes, size)
	}

	// Metrics repeat on every row; the first row is authoritative.
	for _, name := range []string{"silhouette", "calinski_harabasz", "davies_bouldin"} {
		idx := columnIndex(header, name)
		if idx < 0 {
			continue
		}
		v, err := strconv.ParseFloat(cell(rows[1], idx), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: bad %s value: %w", path, name, err)
		}
		metrics[name] = v
	}
	return sizes, metrics, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
