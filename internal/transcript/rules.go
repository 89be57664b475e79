package transcript

import (
	"regexp"
	"slices"
	"strings"
)

// Rule maps a spoken phrase to the literal text it stands for.
type Rule struct {
	Phrase  string
	Literal string
}

// codingRules is kept in declaration order; equal-length phrases are tried
// in this order.
var codingRules = []Rule{
	{"dot env", ".env"},
	{"double equals", "=="},
	{"triple equals", "==="},
	{"not equals", "!="},
	{"arrow", "=>"},
	{"slash", "/"},
	{"dot", "."},
	{"dash", "-"},
	{"underscore", "_"},
	{"equals", "="},
	{"hash", "#"},
	{"at sign", "@"},
	{"ampersand", "&"},
	{"pipe", "|"},
	{"tilde", "~"},
	{"backtick", "`"},
	{"open paren", "("},
	{"close paren", ")"},
	{"open bracket", "["},
	{"close bracket", "]"},
	{"open brace", "{"},
	{"close brace", "}"},
	{"new line", "\n"},
	{"tab", "\t"},
}

type compiledRule struct {
	Rule
	pattern *regexp.Regexp
}

// orderedRules holds codingRules longest phrase first so that "double
// equals" is consumed before "equals" can match inside it.
var orderedRules = compileRules(codingRules)

func compileRules(rules []Rule) []compiledRule {
	sorted := slices.Clone(rules)
	slices.SortStableFunc(sorted, func(a, b Rule) int {
		return len(b.Phrase) - len(a.Phrase)
	})

	out := make([]compiledRule, 0, len(sorted))
	for _, r := range sorted {
		words := strings.Fields(r.Phrase)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		out = append(out, compiledRule{
			Rule:    r,
			pattern: regexp.MustCompile(`(?i)` + strings.Join(words, `\s+`)),
		})
	}
	return out
}

// Rules returns the substitution table in the order it is applied.
func Rules() []Rule {
	out := make([]Rule, len(orderedRules))
	for i, r := range orderedRules {
		out[i] = r.Rule
	}
	return out
}
