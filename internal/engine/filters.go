package engine

import (
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// Vendored and generated trees rarely hold hand-written keys; skipped when
// default excludes are enabled.
var defaultExcludeDirs = map[string]bool{
	"node_modules":  true,
	"vendor":        true,
	"dist":          true,
	"build":         true,
	".venv":         true,
	"venv":          true,
	"site-packages": true,
	"__pycache__":   true,
}

var defaultExcludeFileSuffixes = []string{
	".min.js", ".map", ".lock", ".ipynb",
	".svg", ".pyc",
}

func isDefaultExcluded(p string) bool {
	if p == "" {
		return false
	}
	p = filepath.ToSlash(p)
	for _, seg := range strings.Split(p, "/") {
		if defaultExcludeDirs[seg] {
			return true
		}
	}
	lower := strings.ToLower(p)
	for _, s := range defaultExcludeFileSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// ParseGlobs splits a comma-separated glob list, dropping blanks.
func ParseGlobs(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func expandGlobs(globs []string) []string {
	var out []string
	for _, g := range globs {
		out = append(out, g)
		if t := trimGlobPrefix(g); t != g {
			out = append(out, t)
		}
	}
	return out
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	if pathToMatch == "" {
		return false
	}
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(pathToMatch)); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}
