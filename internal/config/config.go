package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted for provider credentials.
const (
	EnvGitHubToken = "GITHUB_TOKEN"
	EnvGitLabToken = "GITLAB_TOKEN"
)

// FileConfig is the on-disk YAML configuration shape for keyhunt.
type FileConfig struct {
	Query           *string  `yaml:"query,omitempty"`
	Language        *string  `yaml:"language,omitempty"`
	Providers       []string `yaml:"providers,omitempty"`
	PerPage         *int     `yaml:"per_page,omitempty"`
	MaxPages        *int     `yaml:"max_pages,omitempty"`
	Pattern         *string  `yaml:"pattern,omitempty"`
	EntropyThresh   *float64 `yaml:"entropy_threshold,omitempty"`
	Exclude         *string  `yaml:"exclude_paths,omitempty"`
	DefaultExcludes *bool    `yaml:"default_excludes,omitempty"`
	NoColor         *bool    `yaml:"no_color,omitempty"`

	// Ledger files live in LedgerDir unless given as absolute paths.
	LedgerDir     *string `yaml:"ledger_dir,omitempty"`
	InvalidLedger *string `yaml:"invalid_ledger,omitempty"`
	CheckedLedger *string `yaml:"checked_ledger,omitempty"`
	Audit         *bool   `yaml:"audit,omitempty"`

	GitHubToken   *string `yaml:"github_token,omitempty"`
	GitLabToken   *string `yaml:"gitlab_token,omitempty"`
	GitHubAPIURL  *string `yaml:"github_api_url,omitempty"`
	GitLabURL     *string `yaml:"gitlab_url,omitempty"`
	OpenAIBaseURL *string `yaml:"openai_base_url,omitempty"`

	LogLevel *string `yaml:"log_level,omitempty"`
	LogFile  *string `yaml:"log_file,omitempty"`

	RateLimits *RateLimits `yaml:"rate_limits,omitempty"`
}

// RateLimits holds the minimum spacing between calls per endpoint class, as
// Go duration strings ("5s", "500ms"). "0" disables pacing for that class.
type RateLimits struct {
	GitHub *string `yaml:"github,omitempty"`
	Raw    *string `yaml:"raw,omitempty"`
	GitLab *string `yaml:"gitlab,omitempty"`
	OpenAI *string `yaml:"openai,omitempty"`
}

// Default pacing per endpoint class.
const (
	DefaultGitHubInterval = 5 * time.Second
	DefaultRawInterval    = 2 * time.Second
	DefaultGitLabInterval = time.Second
	DefaultOpenAIInterval = time.Duration(0)
)

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.RateLimits.validate(); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches for a project-local config file in the given directory.
// It supports .keyhunt.yml/.yaml and keyhunt.yml/.yaml.
func LoadLocal(dir string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".keyhunt.yml", ".keyhunt.yaml", "keyhunt.yml", "keyhunt.yaml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// GlobalPath returns where the global config file lives, or "" when neither
// XDG_CONFIG_HOME nor a home directory is available.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "keyhunt", "config.yml")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	p := GlobalPath()
	if p == "" {
		return cfg, errors.New("no config dir")
	}
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// GitHubTokenValue returns the GitHub token, preferring the environment.
func (fc FileConfig) GitHubTokenValue() string {
	if v := os.Getenv(EnvGitHubToken); v != "" {
		return v
	}
	if fc.GitHubToken != nil {
		return *fc.GitHubToken
	}
	return ""
}

// GitLabTokenValue returns the GitLab token, preferring the environment.
func (fc FileConfig) GitLabTokenValue() string {
	if v := os.Getenv(EnvGitLabToken); v != "" {
		return v
	}
	if fc.GitLabToken != nil {
		return *fc.GitLabToken
	}
	return ""
}

// Intervals returns the configured pacing with defaults for unset classes.
func (fc FileConfig) Intervals() (github, raw, gitlab, openai time.Duration) {
	rl := fc.RateLimits
	if rl == nil {
		rl = &RateLimits{}
	}
	return durationOr(rl.GitHub, DefaultGitHubInterval),
		durationOr(rl.Raw, DefaultRawInterval),
		durationOr(rl.GitLab, DefaultGitLabInterval),
		durationOr(rl.OpenAI, DefaultOpenAIInterval)
}

func (rl *RateLimits) validate() error {
	if rl == nil {
		return nil
	}
	for name, v := range map[string]*string{"github": rl.GitHub, "raw": rl.Raw, "gitlab": rl.GitLab, "openai": rl.OpenAI} {
		if v == nil {
			continue
		}
		d, err := time.ParseDuration(*v)
		if err != nil {
			return fmt.Errorf("rate_limits.%s: %w", name, err)
		}
		if d < 0 {
			return fmt.Errorf("rate_limits.%s: negative interval %s", name, d)
		}
	}
	return nil
}

func durationOr(v *string, def time.Duration) time.Duration {
	if v == nil {
		return def
	}
	d, err := time.ParseDuration(*v)
	if err != nil || d < 0 {
		return def
	}
	return d
}
