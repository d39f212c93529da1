// file: internal/pipeline/pipeline.go
// version: 1.3.0
// guid: 7c8d9e0f-1a2b-3c4d-5e6f-7a8b9c0d1e2f

package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/jdfalk/drug-moa-explorer/internal/dataset"
	"github.com/jdfalk/drug-moa-explorer/internal/matcher"
	"github.com/jdfalk/drug-moa-explorer/internal/models"
)

// Options configures a matching run. All knobs are explicit call
// parameters; there is no hidden global configuration.
type Options struct {
	SourcePath    string
	ReferencePath string
	OutputDir     string
	Threshold     int
	Workers       int

	// Log receives the human-readable run log. Defaults to stdout.
	Log io.Writer
	// ShowProgress draws a progress bar over the fuzzy scan.
	ShowProgress bool
}

// Summary is the structured result of a completed run.
type Summary struct {
	Stats models.MatchStats

	MatchedPath            string
	UnmatchedPath          string
	FuzzyPath              string
	RemainingUnmatchedPath string
	CombinedPath           string
}

// Run executes the full matching pipeline:
// load, exact match, fuzzy match, classify the remainder, combine.
// Every stage persists its output before the next stage starts, so a
// failure later on leaves completed intermediates on disk for inspection.
// Any error aborts the run and is returned wrapped with its stage.
func Run(opts Options) (*Summary, error) {
	logw := opts.Log
	if logw == nil {
		logw = os.Stdout
	}
	if opts.Threshold <= 0 {
		opts.Threshold = matcher.DefaultThreshold
	}

	fmt.Fprintf(logw, "\n=== STARTING DRUG MATCHING PIPELINE ===\n")

	intermediateDir := filepath.Join(opts.OutputDir, "intermediate")
	finalDir := filepath.Join(opts.OutputDir, "final")
	for _, dir := range []string{intermediateDir, finalDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	summary := &Summary{
		MatchedPath:            filepath.Join(intermediateDir, "matched_drugs.csv"),
		UnmatchedPath:          filepath.Join(intermediateDir, "unmatched_drugs.csv"),
		FuzzyPath:              filepath.Join(intermediateDir, "fuzzy_matches.csv"),
		RemainingUnmatchedPath: filepath.Join(intermediateDir, "remaining_unmatched.csv"),
		CombinedPath:           filepath.Join(finalDir, "all_matched_drugs.csv"),
	}

	// LOAD
	sources, err := dataset.LoadSourceTable(opts.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("loading source table: %w", err)
	}
	refs, err := dataset.LoadReferenceTable(opts.ReferencePath)
	if err != nil {
		return nil, fmt.Errorf("loading reference table: %w", err)
	}

	// EXACT_MATCH
	fmt.Fprintf(logw, "\n=== STEP 1: EXACT MATCHING ===\n")
	exact := matcher.MatchExact(sources.Records, refs, logw)

	fmt.Fprintf(logw, "\nExact matching complete:\n")
	fmt.Fprintf(logw, "Total drugs in source table: %d\n", len(sources.Records))
	fmt.Fprintf(logw, "Total matched drugs: %d\n", exact.TotalMatched)
	fmt.Fprintf(logw, "  - Matched through synonyms: %d\n", exact.SynonymMatches)
	fmt.Fprintf(logw, "Drugs with multiple matches: %d\n", exact.AmbiguousKeys)
	fmt.Fprintf(logw, "Unmatched drugs: %d\n", len(exact.Unmatched))

	if err := dataset.WriteExactMatches(summary.MatchedPath, sources, exact.Matched); err != nil {
		return nil, fmt.Errorf("persisting exact matches: %w", err)
	}
	if err := dataset.WriteUnmatched(summary.UnmatchedPath, sources, exact.Unmatched); err != nil {
		return nil, fmt.Errorf("persisting unmatched drugs: %w", err)
	}

	// FUZZY_MATCH
	fmt.Fprintf(logw, "\n=== STEP 2: FUZZY MATCHING ===\n")
	fuzzyOpts := matcher.FuzzyOptions{Threshold: opts.Threshold, Workers: opts.Workers}
	if opts.ShowProgress && len(exact.Unmatched) > 0 {
		bar := progressbar.Default(int64(len(exact.Unmatched)), "fuzzy matching")
		fuzzyOpts.Progress = func() { _ = bar.Add(1) }
	}
	fuzzyMatches := matcher.MatchFuzzy(exact.Unmatched, refs, fuzzyOpts)

	if err := dataset.WriteFuzzyMatches(summary.FuzzyPath, fuzzyMatches); err != nil {
		return nil, fmt.Errorf("persisting fuzzy matches: %w", err)
	}

	// CLASSIFY_REMAINDER
	fmt.Fprintf(logw, "\n=== STEP 3: ANALYZING REMAINING UNMATCHED DRUGS ===\n")
	fuzzyMatched := make(map[string]struct{}, len(fuzzyMatches))
	for _, m := range fuzzyMatches {
		fuzzyMatched[m.OriginalName] = struct{}{}
	}
	var stillUnmatched []models.SourceRecord
	for _, rec := range exact.Unmatched {
		if _, ok := fuzzyMatched[rec.GenericName]; !ok {
			stillUnmatched = append(stillUnmatched, rec)
		}
	}

	classification := matcher.Classify(stillUnmatched)

	if err := dataset.WriteUnmatched(summary.RemainingUnmatchedPath, sources, stillUnmatched); err != nil {
		return nil, fmt.Errorf("persisting remaining unmatched: %w", err)
	}

	// COMBINE
	if err := dataset.WriteCombined(summary.CombinedPath, sources, exact.Matched, fuzzyMatches); err != nil {
		return nil, fmt.Errorf("persisting combined matches: %w", err)
	}

	summary.Stats = models.MatchStats{
		TotalSource:     len(sources.Records),
		ExactMatched:    len(exact.Matched),
		SynonymMatches:  exact.SynonymMatches,
		AmbiguousKeys:   exact.AmbiguousKeys,
		FuzzyMatched:    len(fuzzyMatches),
		StillUnmatched:  len(stillUnmatched),
		PatternCounts:   classification.Counts,
		PatternExamples: classification.Examples,
	}

	printReport(logw, summary, fuzzyMatches)
	fmt.Fprintf(logw, "\n=== DRUG MATCHING PIPELINE COMPLETED ===\n")

	return summary, nil
}

func printReport(logw io.Writer, summary *Summary, fuzzyMatches []models.FuzzyMatch) {
	stats := summary.Stats

	fmt.Fprintf(logw, "\nMATCHING STATISTICS:\n")
	fmt.Fprintf(logw, "Originally matched: %d\n", stats.ExactMatched)
	fmt.Fprintf(logw, "Fuzzy matches found: %d\n", stats.FuzzyMatched)
	fmt.Fprintf(logw, "Total matched: %d\n", stats.ExactMatched+stats.FuzzyMatched)
	fmt.Fprintf(logw, "Still unmatched: %d\n", stats.StillUnmatched)

	fmt.Fprintf(logw, "\nPATTERNS IN REMAINING UNMATCHED DRUGS:\n")
	for _, bucket := range matcher.BucketNames() {
		count := stats.PatternCounts[bucket]
		if count == 0 {
			continue
		}
		fmt.Fprintf(logw, "\n%s (%d drugs)\n", bucket, count)
		fmt.Fprintf(logw, "Examples: %v\n", stats.PatternExamples[bucket])
	}

	if len(fuzzyMatches) > 0 {
		minScore, maxScore, sum := 101, -1, 0
		for _, m := range fuzzyMatches {
			if m.Score < minScore {
				minScore = m.Score
			}
			if m.Score > maxScore {
				maxScore = m.Score
			}
			sum += m.Score
		}
		fmt.Fprintf(logw, "\nFUZZY MATCH SCORE DISTRIBUTION:\n")
		fmt.Fprintf(logw, "count=%d min=%d mean=%.1f max=%d\n",
			len(fuzzyMatches), minScore, float64(sum)/float64(len(fuzzyMatches)), maxScore)
	}

	fmt.Fprintf(logw, "\nFiles created:\n")
	fmt.Fprintf(logw, "- Final output:\n")
	fmt.Fprintf(logw, "  - %s (combined exact and fuzzy matches)\n", summary.CombinedPath)
	fmt.Fprintf(logw, "- Intermediate output:\n")
	fmt.Fprintf(logw, "  - %s (exact matches)\n", summary.MatchedPath)
	fmt.Fprintf(logw, "  - %s (drugs without exact matches)\n", summary.UnmatchedPath)
	fmt.Fprintf(logw, "  - %s (fuzzy matches)\n", summary.FuzzyPath)
	fmt.Fprintf(logw, "  - %s (drugs still without matches)\n", summary.RemainingUnmatchedPath)
}
