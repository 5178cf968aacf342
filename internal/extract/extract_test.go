package extract

import (
	"errors"
	"strings"
	"testing"

	"atlasmeta/internal/metadata"
)

func TestJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "last object wins", in: `preamble {"a":1} noise {"b":2}`, want: `{"b":2}`},
		{name: "adjacent objects", in: `{"a":1}noise{"b":2}`, want: `{"b":2}`},
		{name: "nested object", in: `<json_construction>done</json_construction>{"a":{"b":{"c":1}}}`, want: `{"a":{"b":{"c":1}}}`},
		{name: "fenced json", in: "```json\n{\"amendments\":[\"FIRST\"]}\n```", want: `{"amendments":["FIRST"]}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "trailing prose", in: `{"a":1} that is my answer`, want: `{"a":1}`},
		{name: "no braces", in: "  sorry, I cannot help  ", want: "sorry, I cannot help"},
		{name: "unmatched close", in: "oops }", want: "oops }"},
		{name: "fence without newline", in: "```{\"a\":1}```", want: `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := JSON(tc.in); got != tc.want {
				t.Fatalf("JSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestJSONIgnoresBracesInReasoning(t *testing.T) {
	response := strings.Join([]string{
		"<evidence_extraction>",
		`The description says "{officer} asked for ID" and shows {{template}} text.`,
		"</evidence_extraction>",
		"<json_construction>",
		`Building {"amendments": [...]} step by step`,
		"</json_construction>",
		`{"amendments":["FIRST","FOURTH"],"participants":["POLICE"],"videoDate":null,"location":null,"confidence":{"amendments":0.9,"participants":0.95,"videoDate":0.1,"location":0.2}}`,
	}, "\n")
	result, err := Parse(response)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(result.Amendments) != 2 || result.Amendments[1] != metadata.AmendmentFourth {
		t.Fatalf("unexpected amendments %v", result.Amendments)
	}
	if result.Confidence.Participants != 0.95 {
		t.Fatalf("unexpected confidence %+v", result.Confidence)
	}
}

func TestParseMalformed(t *testing.T) {
	inputs := []string{
		"",
		"I could not determine anything.",
		`{"amendments": ["FIRST",}`,
		"null",
	}
	for _, input := range inputs {
		_, err := Parse(input)
		if err == nil {
			t.Fatalf("expected error for %q", input)
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected *ParseError, got %T", err)
		}
		if parseErr.Raw != input {
			t.Fatalf("raw text not retained: %q", parseErr.Raw)
		}
	}
}

func TestParseWrongFieldTypes(t *testing.T) {
	_, err := Parse(`{"amendments":"FIRST"}`)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if !strings.Contains(err.Error(), "parse model response") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestSnippet(t *testing.T) {
	if got := Snippet("  "); got != "<empty>" {
		t.Fatalf("got %q", got)
	}
	if got := Snippet("a\n\tb   c"); got != "a b c" {
		t.Fatalf("got %q", got)
	}
	long := strings.Repeat("x", 200)
	if got := Snippet(long); len(got) != 163 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected snippet length %d", len(got))
	}
}
