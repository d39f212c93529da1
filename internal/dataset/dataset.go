// file: internal/dataset/dataset.go
// version: 1.4.0
// guid: 1c2d3e4f-5a6b-7c8d-9e0f-1a2b3c4d5e6f

package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jdfalk/drug-moa-explorer/internal/models"
)

// Column names of the source table.
const (
	ColGenericName = "GENERIC_NAME"
	ColSynonyms    = "SYNONYMS"
)

// annotationColumns are appended to matched outputs, in this order.
var annotationColumns = []string{
	"clinical_phase", "moa", "target", "disease_area", "indication", "matched_name",
}

// referenceColumns are required in the reference table.
var referenceColumns = []string{
	"pert_iname", "clinical_phase", "moa", "target", "disease_area", "indication",
}

// SourceTable holds the source drugs plus the original header so every
// output table can reproduce the input columns unchanged.
type SourceTable struct {
	Columns []string
	Records []models.SourceRecord
}

func readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty file, expected a header row", path)
	}
	return rows, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

func columnIndex(header []string, name string) int {
	for i, col := range header {
		if col == name {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// LoadSourceTable reads the source drugs. GENERIC_NAME is required;
// SYNONYMS is optional. All other columns are preserved verbatim.
func LoadSourceTable(path string) (*SourceTable, error) {
	rows, err := readAll(path)
	if err != nil {
		return nil, err
	}

	header := rows[0]
	nameIdx := columnIndex(header, ColGenericName)
	if nameIdx < 0 {
		return nil, fmt.Errorf("%s: required column %s not found", path, ColGenericName)
	}
	synIdx := columnIndex(header, ColSynonyms)

	table := &SourceTable{Columns: header}
	for _, row := range rows[1:] {
		fields := make(map[string]string, len(header))
		for i, col := range header {
			fields[col] = cell(row, i)
		}
		table.Records = append(table.Records, models.SourceRecord{
			GenericName: cell(row, nameIdx),
			Synonyms:    cell(row, synIdx),
			Fields:      fields,
		})
	}
	return table, nil
}

// LoadReferenceTable reads the reference catalogue. All six reference
// columns are required.
func LoadReferenceTable(path string) ([]models.ReferenceRecord, error) {
	rows, err := readAll(path)
	if err != nil {
		return nil, err
	}

	header := rows[0]
	idx := make(map[string]int, len(referenceColumns))
	for _, col := range referenceColumns {
		i := columnIndex(header, col)
		if i < 0 {
			return nil, fmt.Errorf("%s: required column %s not found", path, col)
		}
		idx[col] = i
	}

	refs := make([]models.ReferenceRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		refs = append(refs, models.ReferenceRecord{
			PertIName:     cell(row, idx["pert_iname"]),
			ClinicalPhase: cell(row, idx["clinical_phase"]),
			MoA:           cell(row, idx["moa"]),
			Target:        cell(row, idx["target"]),
			DiseaseArea:   cell(row, idx["disease_area"]),
			Indication:    cell(row, idx["indication"]),
		})
	}
	return refs, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

func annotationValues(ref models.ReferenceRecord, matchedName string) []string {
	return []string{ref.ClinicalPhase, ref.MoA, ref.Target, ref.DiseaseArea, ref.Indication, matchedName}
}

func sourceValues(table *SourceTable, rec models.SourceRecord) []string {
	vals := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		vals[i] = rec.Fields[col]
	}
	return vals
}

// WriteExactMatches persists the exact-match table: all source columns
// followed by the annotation columns.
func WriteExactMatches(path string, table *SourceTable, matches []models.ExactMatch) error {
	rows := [][]string{append(append([]string{}, table.Columns...), annotationColumns...)}
	for _, m := range matches {
		rows = append(rows, append(sourceValues(table, m.Source), annotationValues(m.Ref, m.MatchedName)...))
	}
	return writeCSV(path, rows)
}

// WriteUnmatched persists source records with their original columns only.
func WriteUnmatched(path string, table *SourceTable, recs []models.SourceRecord) error {
	rows := [][]string{append([]string{}, table.Columns...)}
	for _, rec := range recs {
		rows = append(rows, sourceValues(table, rec))
	}
	return writeCSV(path, rows)
}

// WriteFuzzyMatches persists the fuzzy stage output keyed by original_name.
func WriteFuzzyMatches(path string, matches []models.FuzzyMatch) error {
	rows := [][]string{{
		"original_name", "matched_name", "similarity_score",
		"clinical_phase", "moa", "target", "disease_area", "indication",
	}}
	for _, m := range matches {
		rows = append(rows, []string{
			m.OriginalName, m.MatchedName, strconv.Itoa(m.Score),
			m.Ref.ClinicalPhase, m.Ref.MoA, m.Ref.Target, m.Ref.DiseaseArea, m.Ref.Indication,
		})
	}
	return writeCSV(path, rows)
}

// WriteCombined persists the final annotated table: exact matches first,
// then fuzzy matches with original_name harmonized to GENERIC_NAME. The
// similarity_score column is empty for exact rows, and source columns other
// than GENERIC_NAME are empty for fuzzy rows.
func WriteCombined(path string, table *SourceTable, exact []models.ExactMatch, fz []models.FuzzyMatch) error {
	header := append(append([]string{}, table.Columns...), annotationColumns...)
	header = append(header, "similarity_score")

	rows := [][]string{header}
	for _, m := range exact {
		row := append(sourceValues(table, m.Source), annotationValues(m.Ref, m.MatchedName)...)
		rows = append(rows, append(row, ""))
	}

	nameIdx := columnIndex(table.Columns, ColGenericName)
	for _, m := range fz {
		row := make([]string, len(table.Columns))
		if nameIdx >= 0 {
			row[nameIdx] = m.OriginalName
		}
		row = append(row, annotationValues(m.Ref, m.MatchedName)...)
		rows = append(rows, append(row, strconv.Itoa(m.Score)))
	}
	return writeCSV(path, rows)
}

// LoadMoATable reads the combined output keyed by GENERIC_NAME and returns
// drug name to mechanism of action. Any column whose lowercased name
// contains "moa" is accepted, since upstream curation is inconsistent about
// the exact header.
func LoadMoATable(path string) (map[string]string, error) {
	rows, err := readAll(path)
	if err != nil {
		return nil, err
	}

	header := rows[0]
	nameIdx := columnIndex(header, ColGenericName)
	if nameIdx < 0 {
		return nil, fmt.Errorf("%s: required column %s not found", path, ColGenericName)
	}
	moaIdx := -1
	for i, col := range header {
		if containsFold(col, "moa") {
			moaIdx = i
			break
		}
	}
	if moaIdx < 0 {
		return nil, fmt.Errorf("%s: no moa column found", path)
	}

	moa := make(map[string]string, len(rows)-1)
	for _, row := range rows[1:] {
		name := cell(row, nameIdx)
		if name == "" {
			continue
		}
		moa[name] = cell(row, moaIdx)
	}
	return moa, nil
}
