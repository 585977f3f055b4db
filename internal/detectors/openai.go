package detectors

import (
	"fmt"
	"regexp"
)

// DefaultPattern matches OpenAI-style secret keys: "sk-" followed by at least
// 40 word or hyphen characters.
const DefaultPattern = `sk-[A-Za-z0-9_-]{40,}`

var reOpenAIKey = regexp.MustCompile(DefaultPattern)

// Extractor pulls candidate secrets out of free text.
type Extractor struct {
	re *regexp.Regexp
}

// NewExtractor compiles pattern. An empty pattern selects DefaultPattern.
func NewExtractor(pattern string) (*Extractor, error) {
	if pattern == "" || pattern == DefaultPattern {
		return &Extractor{re: reOpenAIKey}, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return &Extractor{re: re}, nil
}

// First returns the first candidate in text. Later candidates in the same
// text are ignored.
func (e *Extractor) First(text string) (string, bool) {
	loc := e.re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[0]:loc[1]], true
}

// All returns every non-overlapping candidate in text, in order.
func (e *Extractor) All(text string) []string {
	return e.re.FindAllString(text, -1)
}

// Pattern returns the source of the compiled expression.
func (e *Extractor) Pattern() string { return e.re.String() }

// ExtractFirst applies DefaultPattern to text.
func ExtractFirst(text string) (string, bool) {
	m := reOpenAIKey.FindString(text)
	return m, m != ""
}

// ExtractAll applies DefaultPattern to text and returns every candidate.
func ExtractAll(text string) []string {
	return reOpenAIKey.FindAllString(text, -1)
}
