// file: internal/matcher/classifier_test.go
// version: 1.0.0
// guid: 8b9c0d1e-2f3a-4b5c-6d7e-8f9a0b1c2d3e

package matcher

import (
	"testing"

	"github.com/jdfalk/drug-moa-explorer/internal/models"
)

func unmatchedNames(names ...string) []models.SourceRecord {
	recs := make([]models.SourceRecord, len(names))
	for i, n := range names {
		recs[i] = models.SourceRecord{GenericName: n}
	}
	return recs
}

func TestClassifyBucketsAreNotExclusive(t *testing.T) {
	c := Classify(unmatchedNames("Insulin-like growth factor"))

	if c.Counts["peptides"] != 1 {
		t.Errorf("peptides = %d, want 1", c.Counts["peptides"])
	}
	if c.Counts["complex_names"] != 1 {
		t.Errorf("complex_names = %d, want 1 (name contains a hyphen)", c.Counts["complex_names"])
	}
}

func TestClassifyPatternFamilies(t *testing.T) {
	tests := []struct {
		name   string
		bucket string
	}{
		{"Vancomycin", "antibiotics"},
		{"Amoxicillin", "antibiotics"},
		{"Prednisterone", "steroids"},
		{"Vitamin B12", "vitamins"},
		{"Streptokinase", "enzymes"},
		{"Sodium bicarbonate", "salts"},
		{"Folic acid", "acids"},
		{"Compound 48/80", "complex_names"},
	}
	for _, tt := range tests {
		c := Classify(unmatchedNames(tt.name))
		if c.Counts[tt.bucket] != 1 {
			t.Errorf("Classify(%q): bucket %q = %d, want 1 (counts: %v)",
				tt.name, tt.bucket, c.Counts[tt.bucket], c.Counts)
		}
	}
}

func TestClassifyKeepsAtMostThreeExamples(t *testing.T) {
	c := Classify(unmatchedNames("acid a", "acid b", "acid c", "acid d", "acid e"))

	if c.Counts["acids"] != 5 {
		t.Errorf("acids count = %d, want 5", c.Counts["acids"])
	}
	if len(c.Examples["acids"]) != 3 {
		t.Errorf("examples = %v, want exactly 3", c.Examples["acids"])
	}
	// Examples keep the original spelling in input order.
	if c.Examples["acids"][0] != "acid a" {
		t.Errorf("first example = %q, want original spelling", c.Examples["acids"][0])
	}
}

func TestClassifyZeroBuckets(t *testing.T) {
	c := Classify(unmatchedNames("xylotol"))
	for name, count := range c.Counts {
		if count != 0 {
			t.Errorf("bucket %q = %d for a name matching nothing", name, count)
		}
	}
}

func TestBucketNamesStable(t *testing.T) {
	names := BucketNames()
	if len(names) != 8 {
		t.Fatalf("expected 8 buckets, got %d: %v", len(names), names)
	}
	if names[0] != "peptides" || names[len(names)-1] != "complex_names" {
		t.Errorf("bucket order changed: %v", names)
	}
}
