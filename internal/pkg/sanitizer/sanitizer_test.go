package sanitizer

import (
	"strings"
	"testing"
)

func TestQuestion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: " \t\n ", want: ""},
		{name: "punctuation spacing", input: "Hello , world !", want: "Hello, world!"},
		{name: "collapse whitespace", input: "how   do\tI\n\nrun   halon", want: "how do I run halon"},
		{name: "space after comma", input: "a,b,c", want: "a, b, c"},
		{name: "question mark trailing", input: "what is BGP ?", want: "what is BGP?"},
		{name: "backslashes removed", input: `C:\tests\halon`, want: "C:testshalon"},
		{name: "unicode space collapsed", input: "run\u00a0\u00a0stress", want: "run stress"},
		{name: "sentence", input: "  first.second!third?  ", want: "first. second! third?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Question(tt.input); got != tt.want {
				t.Errorf("Question(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestQuestion_StripsQuotes(t *testing.T) {
	got := Question(`He said "hi" and it's 'fine' \o/`)

	if strings.ContainsAny(got, `"'\`) {
		t.Errorf("Question() = %q still contains quote or backslash characters", got)
	}
	if got != "He said hi and its fine o/" {
		t.Errorf("Question() = %q", got)
	}
}

func TestQuestion_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Hello , world !",
		"a..b",
		"?!.,",
		" . leading dot",
		"what\u2003about\u00a0 unicode , spaces ?",
		"tabs\t,\tand\nnewlines .",
		`quotes "inside" 'here' , ok`,
		"ends with comma ,",
		"x\x1c\x1dy",
	}

	for _, in := range inputs {
		once := Question(in)
		twice := Question(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
