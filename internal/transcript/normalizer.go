// Package transcript rewrites raw speech-to-text output into code-friendly
// text: identifier casing phrases are folded and spoken symbol names are
// replaced by the symbols themselves.
package transcript

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// A casing trigger must be followed by at least two whitespace-separated
// words. Every word that follows without intervening punctuation is folded.
// Patterns carry no \b: RE2 word boundaries are ASCII-only, so matches are
// checked against Unicode word runes by replaceWords.
var (
	camelCasePhrase = regexp.MustCompile(`(?i)camel\s+case((?:\s+[\p{L}\p{N}_]+){2,})`)
	snakeCasePhrase = regexp.MustCompile(`(?i)snake\s+case((?:\s+[\p{L}\p{N}_]+){2,})`)
)

// Normalize applies camel-case folding, snake-case folding and symbol
// substitution, in that order. Casing runs first so that words such as
// "dot" inside a casing phrase become part of the identifier rather than
// punctuation. It is safe for concurrent use.
func Normalize(text string) string {
	text = foldCase(camelCasePhrase, text, toCamel)
	text = foldCase(snakeCasePhrase, text, toSnake)
	return substituteSymbols(text)
}

func foldCase(re *regexp.Regexp, text string, join func([]string) string) string {
	return replaceWords(re, text, func(loc []int) string {
		return join(strings.Fields(text[loc[2]:loc[3]]))
	})
}

func toCamel(words []string) string {
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(w))
			continue
		}
		b.WriteString(capitalize(w))
	}
	return b.String()
}

func toSnake(words []string) string {
	lowered := make([]string, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
	}
	return strings.Join(lowered, "_")
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}

func substituteSymbols(text string) string {
	for _, r := range orderedRules {
		text = replaceWords(r.pattern, text, func([]int) string { return r.Literal })
	}
	return text
}

// replaceWords replaces the leftmost non-overlapping matches of re that
// stand as whole words: the runes on either side of the match must not be
// word runes. A rejected match resumes the search one rune further on.
func replaceWords(re *regexp.Regexp, text string, repl func(loc []int) string) string {
	var b strings.Builder
	last, pos := 0, 0
	for pos < len(text) {
		loc := re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		start, end := loc[0], loc[1]

		if end == start || !wholeWord(text, start, end) {
			_, size := utf8.DecodeRuneInString(text[start:])
			pos = start + max(size, 1)
			continue
		}

		b.WriteString(text[last:start])
		b.WriteString(repl(loc))
		last, pos = end, end
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

func wholeWord(text string, start, end int) bool {
	if before, _ := utf8.DecodeLastRuneInString(text[:start]); start > 0 && isWordRune(before) {
		return false
	}
	if after, _ := utf8.DecodeRuneInString(text[end:]); end < len(text) && isWordRune(after) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
