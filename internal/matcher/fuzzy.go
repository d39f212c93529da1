// file: internal/matcher/fuzzy.go
// version: 2.0.0
// guid: 5e6f7a8b-9c0d-1e2f-3a4b-5c6d7e8f9a0b

package matcher

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jdfalk/drug-moa-explorer/internal/models"
)

// FuzzyOptions tunes the fuzzy matching stage.
type FuzzyOptions struct {
	// Threshold is the minimum token-sort ratio to accept a match.
	// A best score exactly equal to Threshold is accepted.
	Threshold int
	// Workers shards the scan across goroutines. Sharding is a pure
	// performance optimization: the top-1 selection per source name is
	// order-independent, so output is identical for any worker count.
	Workers int
	// Progress, when non-nil, is called once per scored source name.
	Progress func()
}

// DefaultThreshold is the similarity cutoff used when none is configured.
const DefaultThreshold = 80

// tokenSortKey lowercases, folds every non-alphanumeric rune to a space,
// sorts the remaining tokens and rejoins them, making the ratio insensitive
// to token order and punctuation.
func tokenSortKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	tokens := strings.Fields(b.String())
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// TokenSortRatio scores the similarity of two raw names in [0, 100].
// Both names are reduced to sorted-token form, then scored as the
// Levenshtein ratio over the longer key.
func TokenSortRatio(a, b string) int {
	ka := tokenSortKey(a)
	kb := tokenSortKey(b)
	if ka == "" || kb == "" {
		return 0
	}
	if ka == kb {
		return 100
	}

	dist := fuzzy.LevenshteinDistance(ka, kb)
	maxLen := len([]rune(ka))
	if l := len([]rune(kb)); l > maxLen {
		maxLen = l
	}

	return int(math.Round(float64(maxLen-dist) / float64(maxLen) * 100))
}

// BestMatch scans every reference name and returns the single best-scoring
// one. Ties on the score go to the earlier name in file order: a candidate
// only replaces the incumbent on a strictly greater score.
func BestMatch(name string, refNames []string) (string, int) {
	bestName := ""
	bestScore := -1
	for _, ref := range refNames {
		if score := TokenSortRatio(name, ref); score > bestScore {
			bestName = ref
			bestScore = score
		}
	}
	if bestScore < 0 {
		return "", 0
	}
	return bestName, bestScore
}

// MatchFuzzy scores every unmatched source record against every reference
// name using the raw surface strings on both sides; fuzzy matching
// deliberately bypasses the normalization pipeline. A record is emitted only
// when its best score reaches opts.Threshold; rejected records are simply
// absent from the output.
func MatchFuzzy(unmatched []models.SourceRecord, refs []models.ReferenceRecord, opts FuzzyOptions) []models.FuzzyMatch {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	refNames := make([]string, len(refs))
	refByName := make(map[string]models.ReferenceRecord, len(refs))
	for i, ref := range refs {
		refNames[i] = ref.PertIName
		refByName[ref.PertIName] = ref
	}

	type outcome struct {
		matched string
		score   int
	}
	outcomes := make([]outcome, len(unmatched))

	var wg sync.WaitGroup
	var progressMu sync.Mutex
	semaphore := make(chan struct{}, opts.Workers)

	for i := range unmatched {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			name, score := BestMatch(unmatched[idx].GenericName, refNames)
			outcomes[idx] = outcome{matched: name, score: score}

			if opts.Progress != nil {
				progressMu.Lock()
				opts.Progress()
				progressMu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	var matches []models.FuzzyMatch
	for i, src := range unmatched {
		out := outcomes[i]
		if out.matched == "" || out.score < opts.Threshold {
			continue
		}
		matches = append(matches, models.FuzzyMatch{
			OriginalName: src.GenericName,
			MatchedName:  out.matched,
			Score:        out.score,
			Ref:          refByName[out.matched],
		})
	}

	return matches
}
