// file: internal/matcher/classifier.go
// version: 1.0.1
// guid: 7a8b9c0d-1e2f-3a4b-5c6d-7e8f9a0b1c2d

package matcher

import (
	"regexp"
	"strings"

	"github.com/jdfalk/drug-moa-explorer/internal/models"
)

// maxExamplesPerBucket limits how many sample names each bucket reports.
const maxExamplesPerBucket = 3

// patternBucket is one descriptive category of still-unmatched names.
// Buckets are independent tests: a name may land in several or none.
type patternBucket struct {
	name    string
	pattern *regexp.Regexp
}

var patternBuckets = []patternBucket{
	{"peptides", regexp.MustCompile(`peptide|protein|factor|hormone|insulin|globulin`)},
	{"vitamins", regexp.MustCompile(`vitamin|ascorb|folic|thiamin|riboflavin`)},
	{"antibiotics", regexp.MustCompile(`mycin|cillin|cycline`)},
	{"steroids", regexp.MustCompile(`steroid|sterone|sterol`)},
	{"enzymes", regexp.MustCompile(`enzyme|ase$`)},
	{"salts", regexp.MustCompile(`sodium|potassium|chloride|sulfate|phosphate$`)},
	{"acids", regexp.MustCompile(`acid$|acid\s`)},
	{"complex_names", regexp.MustCompile(`\d|[()\[\]]|-`)},
}

// Classification summarizes pattern families found in the records that
// survived both matching stages. Pure reporting aid; the matched/unmatched
// partition is untouched.
type Classification struct {
	Counts   map[string]int
	Examples map[string][]string
}

// Classify tests every still-unmatched name against each bucket pattern.
// Matching is done on the lowercased raw name; examples keep the original
// spelling.
func Classify(stillUnmatched []models.SourceRecord) Classification {
	c := Classification{
		Counts:   make(map[string]int, len(patternBuckets)),
		Examples: make(map[string][]string, len(patternBuckets)),
	}
	for _, bucket := range patternBuckets {
		c.Counts[bucket.name] = 0
	}

	for _, rec := range stillUnmatched {
		lower := strings.ToLower(rec.GenericName)
		for _, bucket := range patternBuckets {
			if !bucket.pattern.MatchString(lower) {
				continue
			}
			c.Counts[bucket.name]++
			if len(c.Examples[bucket.name]) < maxExamplesPerBucket {
				c.Examples[bucket.name] = append(c.Examples[bucket.name], rec.GenericName)
			}
		}
	}

	return c
}

// BucketNames returns the bucket names in their fixed evaluation order,
// for stable report output.
func BucketNames() []string {
	names := make([]string, len(patternBuckets))
	for i, b := range patternBuckets {
		names[i] = b.name
	}
	return names
}
