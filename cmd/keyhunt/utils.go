package keyhunt

import (
	"strings"

	"github.com/keyhunt/keyhunt/internal/config"
)

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickFloat(cli float64, local, global *float64) float64 {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}

// pickList takes a comma-separated CLI value over config lists.
func pickList(cli string, local, global []string) []string {
	if cli != "" {
		var out []string
		for _, s := range strings.Split(cli, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if len(local) > 0 {
		return local
	}
	return global
}

// mergeRateLimits fills each class from local, then global.
func mergeRateLimits(local, global *config.RateLimits) *config.RateLimits {
	if local == nil {
		local = &config.RateLimits{}
	}
	if global == nil {
		global = &config.RateLimits{}
	}
	first := func(a, b *string) *string {
		if a != nil {
			return a
		}
		return b
	}
	return &config.RateLimits{
		GitHub: first(local.GitHub, global.GitHub),
		Raw:    first(local.Raw, global.Raw),
		GitLab: first(local.GitLab, global.GitLab),
		OpenAI: first(local.OpenAI, global.OpenAI),
	}
}

func strPtr(s string) *string { return &s }
func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }
