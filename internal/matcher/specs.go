package matcher

import (
	"regexp"
	"strconv"
	"strings"
)

// CanonicalCompetitor is always present in the compiled specs: when the
// caller's competitor list omits it, it is inserted first. Callers rely on
// this guarantee when joining detection results against competitor rows.
const CanonicalCompetitor = "Highcharts"

// OurBrandKey is the entity key reserved for the benchmarked brand itself.
const OurBrandKey = "our_brand"

// EntitySpec describes one entity (the brand or a competitor) for mention
// detection: a unique key, a display label, and the alias phrases that count
// as a mention.
type EntitySpec struct {
	Key          string
	Label        string
	Aliases      []string
	IsCompetitor bool
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases value and replaces non-alphanumeric runs with
// underscores.
func slugify(value string) string {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(value), "_"), "_")
	if slug == "" {
		return "entity"
	}
	return slug
}

// dedupePreserveOrder trims items and removes case-insensitive duplicates,
// keeping first occurrences in order.
func dedupePreserveOrder(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		normalized := strings.TrimSpace(item)
		if normalized == "" {
			continue
		}
		key := strings.ToLower(normalized)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

// NormalizeCompetitorNames dedupes competitor names case-insensitively,
// canonicalizes the baseline competitor's casing, and guarantees the
// baseline competitor is present by inserting it first when absent.
// Parameters:
//   - competitors: raw competitor names in caller order.
// Returns:
//   - []string: normalized names, baseline competitor guaranteed.
func NormalizeCompetitorNames(competitors []string) []string {
	normalized := make([]string, 0, len(competitors))
	seen := make(map[string]struct{}, len(competitors))
	canonicalLower := strings.ToLower(CanonicalCompetitor)

	for _, raw := range competitors {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		lowered := strings.ToLower(value)
		if lowered == canonicalLower {
			value = CanonicalCompetitor
		}
		if _, ok := seen[lowered]; ok {
			continue
		}
		seen[lowered] = struct{}{}
		normalized = append(normalized, value)
	}

	if _, ok := seen[canonicalLower]; !ok {
		normalized = append([]string{CanonicalCompetitor}, normalized...)
	}
	return normalized
}

// NormalizeTerms splits a comma-separated brand term list, trims entries, and
// dedupes case-insensitively. An empty result falls back to the canonical
// competitor so detection always has at least one brand phrase.
// Parameters:
//   - raw: comma-separated terms, e.g. "Highcharts, Highsoft Charts".
// Returns:
//   - []string: normalized term list, never empty.
func NormalizeTerms(raw string) []string {
	normalized := dedupePreserveOrder(strings.Split(raw, ","))
	if len(normalized) == 0 {
		return []string{CanonicalCompetitor}
	}
	return normalized
}

// BuildEntitySpecs compiles the brand terms and competitor list into entity
// specs. The brand spec (key our_brand) is always first; one spec per
// competitor follows, with key collisions disambiguated by numeric suffixes.
// Parameters:
//   - ourTerms: alias phrases for the benchmarked brand.
//   - competitors: competitor display names.
//   - aliases: lowercase competitor name -> extra alias phrases.
// Returns:
//   - []EntitySpec: our_brand first, then one spec per competitor.
func BuildEntitySpecs(ourTerms, competitors []string, aliases map[string][]string) []EntitySpec {
	active := NormalizeCompetitorNames(competitors)

	specs := []EntitySpec{
		{
			Key:          OurBrandKey,
			Label:        OurBrandKey,
			Aliases:      dedupePreserveOrder(ourTerms),
			IsCompetitor: false,
		},
	}
	usedKeys := map[string]struct{}{OurBrandKey: {}}

	for _, competitor := range active {
		baseKey := slugify(competitor)
		key := baseKey
		for suffix := 2; ; suffix++ {
			if _, taken := usedKeys[key]; !taken {
				break
			}
			key = baseKey + "_" + strconv.Itoa(suffix)
		}
		usedKeys[key] = struct{}{}

		combined := append([]string{competitor}, aliases[strings.ToLower(competitor)]...)
		specs = append(specs, EntitySpec{
			Key:          key,
			Label:        competitor,
			Aliases:      dedupePreserveOrder(combined),
			IsCompetitor: true,
		})
	}
	return specs
}
