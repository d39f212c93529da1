// file: internal/matcher/exact.go
// version: 1.3.0
// guid: 9c1d2e3f-4a5b-6c7d-8e9f-0a1b2c3d4e5f

package matcher

import (
	"fmt"
	"io"
	"os"

	"github.com/jdfalk/drug-moa-explorer/internal/models"
	"github.com/jdfalk/drug-moa-explorer/internal/normalizer"
)

// ExactResult is the exhaustive, disjoint partition produced by MatchExact:
// every source record appears in exactly one of Matched/Unmatched.
type ExactResult struct {
	Matched   []models.ExactMatch
	Unmatched []models.SourceRecord

	// Diagnostic counters, not used for control flow.
	TotalMatched   int
	SynonymMatches int // matches beyond the first, see MatchStats
	AmbiguousKeys  int
}

// BuildIndex maps normalized reference names to every reference record
// sharing that key, preserving file order. Several records collapsing onto
// one key is expected (true synonyms or homonyms), not an error.
func BuildIndex(refs []models.ReferenceRecord) map[string][]models.ReferenceRecord {
	index := make(map[string][]models.ReferenceRecord, len(refs))
	for _, ref := range refs {
		key := normalizer.Normalize(ref.PertIName)
		index[key] = append(index[key], ref)
	}
	return index
}

// MatchExact probes each source record's candidate keys against the
// reference index and stops at the first hit. When a key resolves to more
// than one reference record the first in file order is chosen and every
// colliding record is reported to logw so the choice stays auditable.
func MatchExact(sources []models.SourceRecord, refs []models.ReferenceRecord, logw io.Writer) ExactResult {
	if logw == nil {
		logw = os.Stdout
	}

	index := BuildIndex(refs)
	result := ExactResult{}

	for _, src := range sources {
		candidates := normalizer.Candidates(src.GenericName, src.Synonyms)

		hit := false
		for _, key := range candidates {
			records, ok := index[key]
			if !ok {
				continue
			}

			result.TotalMatched++
			if result.TotalMatched > 1 {
				result.SynonymMatches++
			}

			if len(records) > 1 {
				result.AmbiguousKeys++
				fmt.Fprintf(logw, "\nMultiple matches found for %s:\n", src.GenericName)
				for _, rec := range records {
					fmt.Fprintf(logw, "  - %s\n", rec.PertIName)
				}
			}

			chosen := records[0]
			result.Matched = append(result.Matched, models.ExactMatch{
				Source:      src,
				MatchedName: chosen.PertIName,
				Ref:         chosen,
			})
			hit = true
			break
		}

		if !hit {
			result.Unmatched = append(result.Unmatched, src)
		}
	}

	return result
}
