package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseGlobs(t *testing.T) {
	got := ParseGlobs(" **/test/** ,,*.md ")
	if diff := cmp.Diff([]string{"**/test/**", "*.md"}, got); diff != "" {
		t.Fatalf("ParseGlobs mismatch (-want +got):\n%s", diff)
	}
	if ParseGlobs("") != nil {
		t.Fatal("expected nil for empty list")
	}
}

func TestMatchAnyGlob(t *testing.T) {
	globs := expandGlobs([]string{"**/examples/**", "*.md"})
	cases := map[string]bool{
		"examples/demo.py":       true,
		"src/examples/x/demo.py": true,
		"README.md":              true,
		"docs/guide.md":          true,
		"src/app.py":             false,
		"":                       false,
	}
	for p, want := range cases {
		if got := matchAnyGlob(p, globs); got != want {
			t.Errorf("matchAnyGlob(%q) = %v, want %v", p, got, want)
		}
	}
}

func TestIsDefaultExcluded(t *testing.T) {
	cases := map[string]bool{
		"node_modules/x/index.js": true,
		"lib/python3.11/site-packages/openai/__init__.py": true,
		"static/app.min.js": true,
		"poetry.lock":       true,
		"src/settings.py":   false,
		"":                  false,
	}
	for p, want := range cases {
		if got := isDefaultExcluded(p); got != want {
			t.Errorf("isDefaultExcluded(%q) = %v, want %v", p, got, want)
		}
	}
}
