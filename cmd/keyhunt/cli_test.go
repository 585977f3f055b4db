package keyhunt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyhunt/keyhunt/internal/audit"
	"github.com/keyhunt/keyhunt/internal/config"
	"github.com/keyhunt/keyhunt/internal/engine"
	"github.com/keyhunt/keyhunt/internal/ledger"
)

const liveKey = "sk-proj-Zq8Rt2LmX4vB7nKc9WdY1pHs6JfTg3QaEu5oNi0VbM_xCwy-"

var placeholderKey = "sk-" + strings.Repeat("a", 48)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command in-process with isolated config lookup.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEntropyCommand(t *testing.T) {
	out, err := execute(t, "entropy", "aaaa")
	require.NoError(t, err)
	assert.Equal(t, "0.0000 (below threshold 4.50)\n", out)

	out, err = execute(t, "entropy", liveKey, "--json")
	require.NoError(t, err)
	var c map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, true, c["high_entropy"])
}

func TestLedgerCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "ledger", "add", "--ledger-dir", dir, "--kind", "checked", "abc123", "def456", "abc123")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded 2 new id(s)")

	out, err = execute(t, "ledger", "has", "--ledger-dir", dir, "--kind", "checked", "def456")
	require.NoError(t, err)
	assert.Equal(t, "yes\n", out)

	out, err = execute(t, "ledger", "has", "--ledger-dir", dir, "def456")
	assert.ErrorIs(t, err, errNotRecorded, "default kind is the invalid-key ledger")
	assert.Equal(t, "no\n", out)

	_, err = execute(t, "ledger", "has", "--ledger-dir", dir, "--kind", "bogus", "x")
	assert.Error(t, err)

	out, err = execute(t, "ledger", "stats", "--ledger-dir", dir, "--json")
	require.NoError(t, err)
	var stats []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.Len(t, stats, 2)
	assert.Equal(t, "invalid", stats[0]["name"])
	assert.Equal(t, float64(0), stats[0]["entries"])
	assert.Equal(t, float64(2), stats[1]["entries"])
}

func TestCheckCommand_All(t *testing.T) {
	p := filepath.Join(t.TempDir(), "settings.py")
	body := fmt.Sprintf("A = %q\nB = %q\n", placeholderKey, liveKey)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

	out, err := execute(t, "check", p, "--all", "--json", "--reveal")
	require.NoError(t, err)
	var cands []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &cands))
	require.Len(t, cands, 2)
	assert.Equal(t, placeholderKey, cands[0]["key"])
	assert.Equal(t, false, cands[0]["high_entropy"])
	assert.Equal(t, liveKey, cands[1]["key"])
	assert.Equal(t, true, cands[1]["high_entropy"])
}

func TestCheckCommand_DryRunLowEntropy(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(p, []byte("key="+placeholderKey), 0o644))

	out, err := execute(t, "check", p, "--dry-run", "--ledger-dir", dir, "--no-color")
	assert.ErrorIs(t, err, errNoKey)
	assert.Contains(t, out, "low_entropy")
	_, statErr := os.Stat(filepath.Join(dir, ledger.DefaultInvalidFile))
	assert.True(t, os.IsNotExist(statErr), "dry run must not create the ledger")
}

// fakeHosts serves GitHub code search, raw content and the OpenAI models list
// from one server. Only liveKey is accepted by the models endpoint.
type fakeHosts struct {
	srv      *httptest.Server
	content  map[string]string // sha -> file body
	rawHits  atomic.Int32
	authHits atomic.Int32
}

func newFakeHosts(t *testing.T, content map[string]string) *fakeHosts {
	t.Helper()
	fh := &fakeHosts{content: content}
	fh.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search/code":
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Query().Get("page") != "1" {
				_, _ = w.Write([]byte(`{"total_count":0,"items":[]}`))
				return
			}
			var items []string
			for sha := range fh.content {
				items = append(items, fmt.Sprintf(`{"path":"%s.py","sha":"%s","html_url":"%s/o/r/blob/main/%s.py","repository":{"full_name":"o/r"}}`, sha, sha, fh.srv.URL, sha))
			}
			_, _ = fmt.Fprintf(w, `{"total_count":%d,"items":[%s]}`, len(items), strings.Join(items, ","))
		case r.URL.Path == "/v1/models":
			fh.authHits.Add(1)
			if r.Header.Get("Authorization") != "Bearer "+liveKey {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","code":"invalid_api_key"}}`))
				return
			}
			_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
		case strings.HasPrefix(r.URL.Path, "/o/r/main/"):
			fh.rawHits.Add(1)
			sha := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/o/r/main/"), ".py")
			body, ok := fh.content[sha]
			if !ok {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(body))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(fh.srv.Close)
	return fh
}

func writeHuntConfig(t *testing.T, fh *fakeHosts, ledgerDir string) string {
	t.Helper()
	body := fmt.Sprintf(`github_api_url: %s
openai_base_url: %s/v1
ledger_dir: %s
rate_limits:
  github: 0s
  raw: 0s
  gitlab: 0s
  openai: 0s
`, fh.srv.URL, fh.srv.URL, ledgerDir)
	p := filepath.Join(t.TempDir(), "keyhunt.yml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestHunt_FindsLiveKey(t *testing.T) {
	t.Setenv(config.EnvGitHubToken, "ghp_test")
	dir := t.TempDir()
	fh := newFakeHosts(t, map[string]string{"feedbeef": "client = OpenAI(api_key='" + liveKey + "')"})
	cfgPath := writeHuntConfig(t, fh, dir)

	out, err := execute(t, "hunt", "--config", cfgPath, "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, true, got["found"])
	finding := got["finding"].(map[string]any)
	assert.Equal(t, engine.Mask(liveKey), finding["key"])
	assert.Equal(t, "feedbeef", finding["item_id"])

	// the winning file is not recorded as checked
	checked, err := ledger.Open(filepath.Join(dir, ledger.DefaultCheckedFile))
	require.NoError(t, err)
	assert.False(t, checked.Contains("feedbeef"))

	recs, err := audit.NewAuditLog(dir).LoadHistory()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Found)
	assert.NotContains(t, recs[0].Key, liveKey)

	out, err = execute(t, "history", "--ledger-dir", dir, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"found": true`)
}

func TestHunt_NothingLiveThenSkipsOnRerun(t *testing.T) {
	t.Setenv(config.EnvGitHubToken, "ghp_test")
	dir := t.TempDir()
	fh := newFakeHosts(t, map[string]string{
		"c0ffee": "OPENAI_API_KEY=" + placeholderKey,
		"decade": "nothing to see",
	})
	cfgPath := writeHuntConfig(t, fh, dir)

	_, err := execute(t, "hunt", "--config", cfgPath, "--no-color")
	require.ErrorIs(t, err, errNoKey)
	assert.Equal(t, int32(2), fh.rawHits.Load())
	assert.Equal(t, int32(0), fh.authHits.Load(), "placeholder never reaches the validator")

	invalid, err := ledger.Open(filepath.Join(dir, ledger.DefaultInvalidFile))
	require.NoError(t, err)
	assert.True(t, invalid.Contains(placeholderKey))

	// second run: both files are in the checked ledger and are not refetched
	_, err = execute(t, "hunt", "--config", cfgPath)
	require.ErrorIs(t, err, errNoKey)
	assert.Equal(t, int32(2), fh.rawHits.Load())
}

func TestHunt_UnknownProvider(t *testing.T) {
	_, err := execute(t, "hunt", "--providers", "bitbucket", "--no-ledger", "--ledger-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bitbucket")
}

func TestConfigInit(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".keyhunt.yml")
	out, err := execute(t, "config", "init", "--output", p, "--providers", "github,gitlab", "--max-pages", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	fc, err := config.LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"github", "gitlab"}, fc.Providers)
	require.NotNil(t, fc.MaxPages)
	assert.Equal(t, 3, *fc.MaxPages)
	gh, _, _, _ := fc.Intervals()
	assert.Equal(t, config.DefaultGitHubInterval, gh)

	_, err = execute(t, "config", "init", "--output", p)
	assert.Error(t, err, "refuses to overwrite without --force")
}
