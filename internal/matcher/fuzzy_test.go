// file: internal/matcher/fuzzy_test.go
// version: 2.0.0
// guid: 6f7a8b9c-0d1e-2f3a-4b5c-6d7e8f9a0b1c

package matcher

import (
	"reflect"
	"strings"
	"testing"

	"github.com/jdfalk/drug-moa-explorer/internal/models"
)

func TestTokenSortKey(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Ascorbic Acid", "acid ascorbic"},
		{"acid ascorbic", "acid ascorbic"},
		{"insulin-like factor", "factor insulin like"},
		{"  spaced   out  ", "out spaced"},
		{"", ""},
		{"...", ""},
	}
	for _, tt := range tests {
		if got := tokenSortKey(tt.input); got != tt.want {
			t.Errorf("tokenSortKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTokenSortRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"ascorbic acid", "ascorbic acid", 100},
		// Token order must not matter.
		{"acid ascorbic", "ascorbic acid", 100},
		{"Ascorbic-Acid", "acid ascorbic", 100},
		{"", "aspirin", 0},
		{"aspirin", "", 0},
		// 10-char keys, edit distance 2: (10-2)/10 = 80.
		{"abcdefghij", "abcdefghxy", 80},
		// 4-char keys, edit distance 1: 75.
		{"abcd", "abcx", 75},
	}
	for _, tt := range tests {
		if got := TokenSortRatio(tt.a, tt.b); got != tt.want {
			t.Errorf("TokenSortRatio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBestMatchTieGoesToFirstInFileOrder(t *testing.T) {
	// Both candidates score 75 against the query.
	name, score := BestMatch("abcd", []string{"abcx", "abcy"})
	if name != "abcx" || score != 75 {
		t.Errorf("BestMatch = (%q, %d), want (abcx, 75)", name, score)
	}
}

func TestMatchFuzzyThresholdBoundary(t *testing.T) {
	query := strings.Repeat("a", 100)

	// Score 79: one point below threshold, rejected.
	scores79 := strings.Repeat("a", 79) + strings.Repeat("b", 21)
	rejected := MatchFuzzy(
		[]models.SourceRecord{{GenericName: query}},
		[]models.ReferenceRecord{{PertIName: scores79}},
		FuzzyOptions{Threshold: 80},
	)
	if len(rejected) != 0 {
		t.Errorf("score 79 must be rejected at threshold 80, got %+v", rejected)
	}

	// Score exactly 80: accepted.
	scores80 := strings.Repeat("a", 80) + strings.Repeat("b", 20)
	accepted := MatchFuzzy(
		[]models.SourceRecord{{GenericName: query}},
		[]models.ReferenceRecord{{PertIName: scores80, MoA: "test-moa"}},
		FuzzyOptions{Threshold: 80},
	)
	if len(accepted) != 1 {
		t.Fatalf("score 80 must be accepted at threshold 80")
	}
	if accepted[0].Score != 80 {
		t.Errorf("Score = %d, want 80", accepted[0].Score)
	}
	if accepted[0].Ref.MoA != "test-moa" {
		t.Errorf("annotation fields not carried: %+v", accepted[0])
	}
}

func TestMatchFuzzyUsesRawNames(t *testing.T) {
	// "Vitamin C" normalizes to "ascorbic acid", but fuzzy matching works on
	// surface strings, so it must not score 100 against the reference here.
	matches := MatchFuzzy(
		[]models.SourceRecord{{GenericName: "Vitamin C"}},
		[]models.ReferenceRecord{{PertIName: "ascorbic acid"}},
		FuzzyOptions{Threshold: 80},
	)
	if len(matches) != 0 {
		t.Errorf("fuzzy stage must compare raw strings, got %+v", matches)
	}
}

func TestMatchFuzzyWorkerCountDoesNotChangeOutput(t *testing.T) {
	var unmatched []models.SourceRecord
	for _, n := range []string{"cyclosporin A", "asprin", "acetaminophen", "zzzzz", "ibuprofenn"} {
		unmatched = append(unmatched, models.SourceRecord{GenericName: n})
	}
	refs := []models.ReferenceRecord{
		{PertIName: "cyclosporin-a"},
		{PertIName: "aspirin"},
		{PertIName: "acetaminophen"},
		{PertIName: "ibuprofen"},
	}

	serial := MatchFuzzy(unmatched, refs, FuzzyOptions{Threshold: 80, Workers: 1})
	parallel := MatchFuzzy(unmatched, refs, FuzzyOptions{Threshold: 80, Workers: 4})

	if !reflect.DeepEqual(serial, parallel) {
		t.Errorf("sharded scan changed output:\nserial:   %+v\nparallel: %+v", serial, parallel)
	}
}
