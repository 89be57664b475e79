package transcript_test

import (
	"sync"
	"testing"

	"voice-coding/internal/transcript"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"double equals", "double equals", "=="},
		{"triple equals", "triple equals", "==="},
		{"not equals", "not equals", "!="},
		{"equals", "equals", "="},
		{"comparison", "if x double equals y", "if x == y"},
		{"case insensitive", "Double Equals", "=="},
		{"dot env before dot", "open the dot env file", "open the .env file"},
		{"word boundary", "Dashboard is great", "Dashboard is great"},
		{"dash as word", "git commit dash m", "git commit - m"},
		{"no match inside word", "the tablet and the pipeline", "the tablet and the pipeline"},
		{"brackets", "open paren x close paren", "( x )"},
		{"braces", "open brace close brace", "{ }"},
		{"at sign", "user at sign example dot com", "user @ example . com"},
		{"new line", "first new line second", "first \n second"},
		{"tab", "tab indented", "\t indented"},
		{"arrow", "x arrow y", "x => y"},
		{"extra whitespace in phrase", "a not   equals b", "a != b"},
		{"camel case", "camel case foo bar baz", "fooBarBaz"},
		{"camel case mixed input", "Camel Case GET user NAME", "getUserName"},
		{"camel case needs two words", "camel case foo", "camel case foo"},
		{"camel case stops at punctuation", "call camel case get user name, then return", "call getUserName, then return"},
		{"snake case", "snake case foo bar baz", "foo_bar_baz"},
		{"snake case mixed input", "SNAKE CASE Max Retry Count", "max_retry_count"},
		{"snake case needs two words", "snake case foo", "snake case foo"},
		{"camel case folds symbol words", "camel case dot net", "dotNet"},
		{"snake case folds symbol words", "snake case new line count", "new_line_count"},
		{"casing then symbols", "camel case user id double equals five", "userIdDoubleEqualsFive"},
		{"symbols after casing phrase", "snake case user id. equals five", "user_id. = five"},
		{"accented word after rule", "el tabú", "el tabú"},
		{"accented letter ends rule word", "dashé", "dashé"},
		{"non-ascii letter inside word", "vino pipeño", "vino pipeño"},
		{"accented neighbours", "café dash olé", "café - olé"},
		{"casing trigger inside word", "ñcamel case foo bar", "ñcamel case foo bar"},
		{"casing trigger after rejected one", "xcamel case camel case foo bar", "xcamel case fooBar"},
		{"casing with accented words", "snake case año fiscal", "año_fiscal"},
		{"empty", "", ""},
		{"nothing to do", "hello world", "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := transcript.Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"double equals",
		"not equals",
		"open paren close paren",
		"camel case foo bar baz",
		"snake case foo bar baz",
		"x arrow y",
	}

	for _, in := range inputs {
		once := transcript.Normalize(in)
		if twice := transcript.Normalize(once); twice != once {
			t.Errorf("Normalize(Normalize(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestRules_LongestPhraseFirst(t *testing.T) {
	rules := transcript.Rules()
	if len(rules) == 0 {
		t.Fatal("no rules")
	}

	for i := 1; i < len(rules); i++ {
		if len(rules[i].Phrase) > len(rules[i-1].Phrase) {
			t.Errorf("rule %q (len %d) comes after shorter %q", rules[i].Phrase, len(rules[i].Phrase), rules[i-1].Phrase)
		}
	}

	// Ties keep declaration order.
	index := make(map[string]int, len(rules))
	for i, r := range rules {
		index[r.Phrase] = i
	}
	if index["double equals"] > index["triple equals"] {
		t.Error("double equals should precede triple equals")
	}
	if index["dot"] > index["tab"] {
		t.Error("dot should precede tab")
	}
}

func TestRules_ReturnsCopy(t *testing.T) {
	rules := transcript.Rules()
	rules[0].Literal = "changed"

	if transcript.Rules()[0].Literal == "changed" {
		t.Error("Rules must not expose the shared table")
	}
}

func TestNormalize_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := transcript.Normalize("camel case foo bar not equals x"); got != "fooBarNotEqualsX" {
					t.Errorf("got %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
