package matcher

import (
	"regexp"
	"strings"
)

// Pattern is a compiled whole-word, case-insensitive matcher for one alias.
// Multi-word aliases match with flexible inter-token whitespace. RE2 has no
// lookarounds, so the word-boundary rule (no alphanumeric neighbor on either
// side) is enforced by inspecting the bytes around each candidate match.
type Pattern struct {
	re *regexp.Regexp
}

// CompileAlias builds the matcher for a single alias phrase.
// Parameters:
//   - alias: alias phrase; tokens are matched literally.
// Returns:
//   - Pattern: compiled matcher.
func CompileAlias(alias string) Pattern {
	tokens := strings.Fields(alias)
	escaped := make([]string, len(tokens))
	for i, token := range tokens {
		escaped[i] = regexp.QuoteMeta(token)
	}
	body := strings.Join(escaped, `\s+`)
	return Pattern{re: regexp.MustCompile(`(?i)` + body)}
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// Match reports whether the alias occurs anywhere in text with no
// alphanumeric character glued to either end, so "chart js" does not match
// inside "flowchartjs".
// Parameters:
//   - text: text to scan.
// Returns:
//   - bool: true if the alias occurs as a whole word.
func (p Pattern) Match(text string) bool {
	for _, loc := range p.re.FindAllStringIndex(text, -1) {
		if loc[0] > 0 && isWordByte(text[loc[0]-1]) {
			continue
		}
		if loc[1] < len(text) && isWordByte(text[loc[1]]) {
			continue
		}
		return true
	}
	return false
}

// CompileEntityPatterns compiles every alias of every spec.
// Parameters:
//   - specs: entity specs from BuildEntitySpecs.
// Returns:
//   - map[string][]Pattern: entity key -> compiled alias patterns.
func CompileEntityPatterns(specs []EntitySpec) map[string][]Pattern {
	compiled := make(map[string][]Pattern, len(specs))
	for _, spec := range specs {
		patterns := make([]Pattern, 0, len(spec.Aliases))
		for _, alias := range spec.Aliases {
			patterns = append(patterns, CompileAlias(alias))
		}
		compiled[spec.Key] = patterns
	}
	return compiled
}

// DetectMentions applies every entity's patterns against text.
// Parameters:
//   - text: normalized provider response text.
//   - patterns: entity key -> compiled alias patterns.
// Returns:
//   - map[string]bool: entity key -> true if any alias matched.
func DetectMentions(text string, patterns map[string][]Pattern) map[string]bool {
	mentions := make(map[string]bool, len(patterns))
	for key, entityPatterns := range patterns {
		matched := false
		for _, pattern := range entityPatterns {
			if pattern.Match(text) {
				matched = true
				break
			}
		}
		mentions[key] = matched
	}
	return mentions
}
