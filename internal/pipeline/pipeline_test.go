// file: internal/pipeline/pipeline_test.go
// version: 1.2.0
// guid: 9e0f1a2b-3c4d-5e6f-7a8b-9c0d1e2f3a4b

package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const referenceHeader = "pert_iname,clinical_phase,moa,target,disease_area,indication\n"

func TestRunEndToEndExactMatch(t *testing.T) {
	dir := t.TempDir()
	source := writeFixture(t, dir, "source.csv",
		"GENERIC_NAME,SYNONYMS\nCyclosporine A,CSA;Ciclosporin\n")
	reference := writeFixture(t, dir, "reference.csv",
		referenceHeader+"cyclosporine,Launched,calcineurin inhibitor,PPP3CA,immunology,transplant rejection\n")
	outDir := filepath.Join(dir, "out")

	var log bytes.Buffer
	summary, err := Run(Options{
		SourcePath:    source,
		ReferencePath: reference,
		OutputDir:     outDir,
		Log:           &log,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Stats.TotalSource)
	assert.Equal(t, 1, summary.Stats.ExactMatched)
	assert.Equal(t, 0, summary.Stats.FuzzyMatched)
	assert.Equal(t, 0, summary.Stats.StillUnmatched)

	matched, err := os.ReadFile(summary.MatchedPath)
	require.NoError(t, err)
	assert.Contains(t, string(matched), "cyclosporine")
	assert.Contains(t, string(matched), "calcineurin inhibitor")

	unmatched, err := os.ReadFile(summary.UnmatchedPath)
	require.NoError(t, err)
	// Header only, zero data rows.
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(string(unmatched)), "\n")+1)

	combined, err := os.ReadFile(summary.CombinedPath)
	require.NoError(t, err)
	assert.Contains(t, string(combined), "Cyclosporine A")
}

func TestRunFuzzyStage(t *testing.T) {
	dir := t.TempDir()
	// "Asprin" has no exact key but sits one edit from "aspirin".
	source := writeFixture(t, dir, "source.csv", "GENERIC_NAME,SYNONYMS\nAsprin,\n")
	reference := writeFixture(t, dir, "reference.csv",
		referenceHeader+"aspirin,Launched,COX inhibitor,PTGS1,cardiology,pain\n")

	var log bytes.Buffer
	summary, err := Run(Options{
		SourcePath:    source,
		ReferencePath: reference,
		OutputDir:     filepath.Join(dir, "out"),
		Threshold:     80,
		Log:           &log,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Stats.ExactMatched)
	assert.Equal(t, 1, summary.Stats.FuzzyMatched)
	assert.Equal(t, 0, summary.Stats.StillUnmatched)

	fz, err := os.ReadFile(summary.FuzzyPath)
	require.NoError(t, err)
	assert.Contains(t, string(fz), "Asprin,aspirin,")

	// The combined table harmonizes original_name into GENERIC_NAME.
	combined, err := os.ReadFile(summary.CombinedPath)
	require.NoError(t, err)
	assert.Contains(t, string(combined), "GENERIC_NAME")
	assert.NotContains(t, string(combined), "original_name")
	assert.Contains(t, string(combined), "Asprin")
}

func TestRunClassifiesRemainder(t *testing.T) {
	dir := t.TempDir()
	source := writeFixture(t, dir, "source.csv",
		"GENERIC_NAME,SYNONYMS\nInsulin-like growth factor,\n")
	reference := writeFixture(t, dir, "reference.csv",
		referenceHeader+"aspirin,Launched,COX inhibitor,PTGS1,cardiology,pain\n")

	var log bytes.Buffer
	summary, err := Run(Options{
		SourcePath:    source,
		ReferencePath: reference,
		OutputDir:     filepath.Join(dir, "out"),
		Log:           &log,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Stats.StillUnmatched)
	assert.Equal(t, 1, summary.Stats.PatternCounts["peptides"])
	assert.Equal(t, 1, summary.Stats.PatternCounts["complex_names"])
	assert.Contains(t, summary.Stats.PatternExamples["peptides"], "Insulin-like growth factor")

	remaining, err := os.ReadFile(summary.RemainingUnmatchedPath)
	require.NoError(t, err)
	assert.Contains(t, string(remaining), "Insulin-like growth factor")
}

func TestRunAbortsOnMissingInput(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	_, err := Run(Options{
		SourcePath:    filepath.Join(dir, "absent.csv"),
		ReferencePath: filepath.Join(dir, "also-absent.csv"),
		OutputDir:     outDir,
		Log:           &bytes.Buffer{},
	})
	require.Error(t, err)

	// No final output on an aborted run.
	_, statErr := os.Stat(filepath.Join(outDir, "final", "all_matched_drugs.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunLeavesIntermediatesOnLateFailure(t *testing.T) {
	dir := t.TempDir()
	source := writeFixture(t, dir, "source.csv", "GENERIC_NAME,SYNONYMS\nAspirin,\n")
	reference := writeFixture(t, dir, "reference.csv",
		referenceHeader+"aspirin,Launched,COX inhibitor,PTGS1,cardiology,pain\n")
	outDir := filepath.Join(dir, "out")

	// Pre-create final as an unwritable path to force the COMBINE persist
	// to fail after earlier stages persisted their outputs.
	require.NoError(t, os.MkdirAll(filepath.Join(outDir, "final", "all_matched_drugs.csv"), 0755))

	_, err := Run(Options{
		SourcePath:    source,
		ReferencePath: reference,
		OutputDir:     outDir,
		Log:           &bytes.Buffer{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "combined")

	// Intermediates from completed stages remain on disk.
	_, statErr := os.Stat(filepath.Join(outDir, "intermediate", "matched_drugs.csv"))
	assert.NoError(t, statErr)
}

func TestRunLogContainsStageBanners(t *testing.T) {
	dir := t.TempDir()
	source := writeFixture(t, dir, "source.csv", "GENERIC_NAME,SYNONYMS\nAspirin,\n")
	reference := writeFixture(t, dir, "reference.csv",
		referenceHeader+"aspirin,Launched,COX inhibitor,PTGS1,cardiology,pain\n")

	var log bytes.Buffer
	_, err := Run(Options{
		SourcePath:    source,
		ReferencePath: reference,
		OutputDir:     filepath.Join(dir, "out"),
		Log:           &log,
	})
	require.NoError(t, err)

	for _, banner := range []string{
		"STEP 1: EXACT MATCHING",
		"STEP 2: FUZZY MATCHING",
		"STEP 3: ANALYZING REMAINING UNMATCHED DRUGS",
		"MATCHING STATISTICS",
	} {
		assert.Contains(t, log.String(), banner)
	}
}
