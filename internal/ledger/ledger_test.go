package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesMissingFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "checked_hashes.txt")
	l, err := Open(p)
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())
	_, err = os.Stat(p)
	require.NoError(t, err, "ledger file should be created")
}

func TestOpen_ReadsExistingLines(t *testing.T) {
	p := filepath.Join(t.TempDir(), "not_valid.txt")
	require.NoError(t, os.WriteFile(p, []byte("a\n\n  b  \nc"), 0o644))
	l, err := Open(p)
	require.NoError(t, err)
	assert.Equal(t, 3, l.Len())
	for _, id := range []string{"a", "b", "c"} {
		assert.True(t, l.Contains(id), id)
	}
	assert.False(t, l.Contains(""))
	assert.False(t, l.Contains("ab"), "membership is exact, not substring")
}

func TestFile_AddAppendsOnly(t *testing.T) {
	p := filepath.Join(t.TempDir(), "ledger.txt")
	require.NoError(t, os.WriteFile(p, []byte("existing\n"), 0o644))
	l, err := Open(p)
	require.NoError(t, err)

	require.NoError(t, l.Add("one"))
	require.NoError(t, l.Add("two"))
	require.NoError(t, l.Add("one")) // duplicate is not written twice

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "existing\none\ntwo\n", string(b))
	assert.Equal(t, 3, l.Len())
}

func TestFile_AddRejectsBadIDs(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "l.txt"))
	require.NoError(t, err)
	assert.Error(t, l.Add("   "))
	assert.Error(t, l.Add("a\nb"))
	assert.Equal(t, 0, l.Len())
}

func TestLedger_RoundTripAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, "sha"+strings.Repeat("0", i)+"f")
	}

	// run 1 writes the first half
	run1, err := OpenDir(dir, "", "")
	require.NoError(t, err)
	for _, id := range ids[:5] {
		require.NoError(t, run1.Checked.Add(id))
	}
	// run 2 sees run 1 and writes the rest
	run2, err := OpenDir(dir, "", "")
	require.NoError(t, err)
	for _, id := range ids[:5] {
		assert.True(t, run2.Checked.Contains(id))
	}
	for _, id := range ids[5:] {
		require.NoError(t, run2.Checked.Add(id))
	}
	// run 3 recognizes all of them
	run3, err := OpenDir(dir, "", "")
	require.NoError(t, err)
	assert.Equal(t, len(ids), run3.Checked.Len())
	for _, id := range ids {
		assert.True(t, run3.Checked.Contains(id), id)
	}
	assert.Equal(t, 0, run3.Invalid.Len(), "ledgers are independent")
}

func TestOpenDir_AbsoluteNames(t *testing.T) {
	other := t.TempDir()
	abs := filepath.Join(other, "keys.txt")
	ls, err := OpenDir(t.TempDir(), abs, "")
	require.NoError(t, err)
	require.NoError(t, ls.Invalid.Add("k"))
	b, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "k\n", string(b))
}

func TestMemory(t *testing.T) {
	m := NewMemory("x", " ", "y")
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Contains("x"))
	require.NoError(t, m.Add("z"))
	assert.True(t, m.Contains("z"))
	assert.Error(t, m.Add(""))

	var _ Set = m
	var _ Set = (*File)(nil)
}
