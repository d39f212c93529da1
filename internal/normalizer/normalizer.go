// file: internal/normalizer/normalizer.go
// version: 1.2.0
// guid: 8b3c7d1e-5f9a-4b2c-8d6e-0a4f8c2b6d1e

package normalizer

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// vitaminNames maps whole-string vitamin spellings (English and Spanish) to
// the catalogue's chemical names.
var vitaminNames = map[string]string{
	"vitamin c":   "ascorbic acid",
	"vitamina c":  "ascorbic acid",
	"vitamin b6":  "pyridoxine",
	"vitamina b6": "pyridoxine",
	"vitamin b1":  "thiamine",
	"vitamina b1": "thiamine",
	"vitamin d":   "calciferol",
	"vitamina d":  "calciferol",
}

// commonAbbreviations maps whole-string shorthand used in source tables to
// the full generic name.
var commonAbbreviations = map[string]string{
	"csa":          "cyclosporine",
	"cya":          "cyclosporine",
	"cyclosporin":  "cyclosporine",
	"ciclosporin":  "cyclosporine",
	"ddavp":        "desmopressin",
	"plp":          "pyridoxal phosphate",
	"pyridoxal5p":  "pyridoxal phosphate",
	"pyridoxal 5p": "pyridoxal phosphate",
}

// acidVariants are international spellings of "acid" (French, Spanish,
// Latin, German) folded to the English form before the ASCII fold runs.
var acidVariants = []string{"acide", "ácido", "acidum", "säure"}

type replacement struct {
	old string
	new string
}

// chemicalReplacements are plain substring replacements applied once each,
// in table order. Order matters: "l-" runs before "dl-", so "dl-" never
// fires on its own. That quirk of the rule table is kept as-is.
var chemicalReplacements = []replacement{
	{"l-", ""},
	{"d-", ""},
	{"dl-", ""},
	{"beta-", "b"},
	{"alpha-", "a"},
	{"gamma-", "g"},
	{"-phosphate", "p"},
	{"5-phosphate", "5p"},
	{"5'-phosphate", "5p"},
	{"-monophosphate", "p"},
	{"5-monophosphate", "5p"},
	{"hydroxy", "oh"},
	{"amino", "nh2"},
	{"ascorbate", "ascorbic acid"},
	{"phosphoric", "p"},
	{"carboxylic", "cooh"},
	{"1-deamino", "1d"},
	{"8-d-arginine", "8darg"},
}

var (
	parenRe      = regexp.MustCompile(`\([^)]*\)`)
	disallowedRe = regexp.MustCompile(`[^a-z0-9\s-]`)
	spaceRunRe   = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes a raw drug name into a comparable key. The empty
// string means "no usable name" and never matches anything. The step order
// is fixed; later steps assume earlier canonicalization.
func Normalize(raw string) string {
	name := strings.ToLower(raw)

	// Drop parenthesized content such as salt-form annotations.
	name = parenRe.ReplaceAllString(name, "")

	// Whole-string table lookups only apply when the entire trimmed string
	// equals a table key.
	if mapped, ok := vitaminNames[strings.TrimSpace(name)]; ok {
		name = mapped
	}
	if mapped, ok := commonAbbreviations[strings.TrimSpace(name)]; ok {
		name = mapped
	}

	for _, variant := range acidVariants {
		name = strings.ReplaceAll(name, variant, "acid")
	}

	for _, r := range chemicalReplacements {
		name = strings.ReplaceAll(name, r.old, r.new)
	}

	// Lossy ASCII fold: accented letters lose their diacritics, runes with
	// no ASCII fallback vanish in the charset filter below.
	name = unidecode.Unidecode(name)

	name = disallowedRe.ReplaceAllString(name, "")
	name = spaceRunRe.ReplaceAllString(name, " ")

	return strings.TrimSpace(name)
}

// Candidates produces every normalized key to try for a source record:
// the generic name, each semicolon-delimited synonym, and, for synonyms
// with more than one token, the tokens concatenated with no separator
// (catches reference names written as a single word). The result is
// deduplicated and kept in insertion order so the exact matcher probes the
// same sequence every run.
func Candidates(genericName, synonyms string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(key string) {
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}

	add(Normalize(genericName))

	if synonyms == "" {
		return out
	}

	parts := strings.Split(synonyms, ";")
	for _, syn := range parts {
		add(Normalize(syn))
	}
	for _, syn := range parts {
		tokens := strings.Fields(syn)
		if len(tokens) > 1 {
			add(Normalize(strings.Join(tokens, "")))
		}
	}

	return out
}
