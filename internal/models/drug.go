// file: internal/models/drug.go
// version: 1.1.0
// guid: 4f8a2b6c-9d1e-4a3b-8c5d-7e2f1a9b0c4d

package models

// SourceRecord is a drug awaiting mechanism-of-action annotation.
// GenericName doubles as the matching key and the final join key; Fields
// preserves every column of the input row so output tables can carry the
// source table through unchanged.
type SourceRecord struct {
	GenericName string            `json:"generic_name"`
	Synonyms    string            `json:"synonyms,omitempty"`
	Fields      map[string]string `json:"-"`
}

// ReferenceRecord is a catalogued drug with known pharmacology.
type ReferenceRecord struct {
	PertIName     string `json:"pert_iname"`
	ClinicalPhase string `json:"clinical_phase"`
	MoA           string `json:"moa"`
	Target        string `json:"target"`
	DiseaseArea   string `json:"disease_area"`
	Indication    string `json:"indication"`
}

// MatchKind describes how a source record was resolved.
type MatchKind string

const (
	MatchExact     MatchKind = "exact"
	MatchFuzzy     MatchKind = "fuzzy"
	MatchUnmatched MatchKind = "unmatched"
)

// ExactMatch pairs a source record with the reference record chosen for one
// of its candidate keys. MatchedName is the reference pert_iname; when
// several reference records share the key, the first one in file order wins.
type ExactMatch struct {
	Source      SourceRecord    `json:"source"`
	MatchedName string          `json:"matched_name"`
	Ref         ReferenceRecord `json:"ref"`
}

// FuzzyMatch is a similarity-accepted match on raw surface strings.
// Score is the token-sort ratio in [0, 100].
type FuzzyMatch struct {
	OriginalName string          `json:"original_name"`
	MatchedName  string          `json:"matched_name"`
	Score        int             `json:"similarity_score"`
	Ref          ReferenceRecord `json:"ref"`
}

// MatchStats aggregates the diagnostic counters of a full pipeline run.
type MatchStats struct {
	TotalSource    int `json:"total_source"`
	ExactMatched   int `json:"exact_matched"`
	SynonymMatches int `json:"synonym_matches"`
	AmbiguousKeys  int `json:"ambiguous_keys"`
	FuzzyMatched   int `json:"fuzzy_matched"`
	StillUnmatched int `json:"still_unmatched"`

	PatternCounts   map[string]int      `json:"pattern_counts,omitempty"`
	PatternExamples map[string][]string `json:"pattern_examples,omitempty"`
}
