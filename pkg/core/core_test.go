package core

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const liveKey = "sk-proj-Zq8Rt2LmX4vB7nKc9WdY1pHs6JfTg3QaEu5oNi0VbM_xCwy-"

func TestCheck_ValidKey(t *testing.T) {
	v := ValidatorFunc(func(_ context.Context, key string) (bool, error) { return key == liveKey, nil })
	res, err := Check(context.Background(), "OPENAI_API_KEY="+liveKey, v, 0)
	require.NoError(t, err)
	assert.True(t, res.Valid())
	assert.Equal(t, liveKey, res.Key)
}

func TestCheck_LowEntropyNeverValidated(t *testing.T) {
	called := false
	v := ValidatorFunc(func(context.Context, string) (bool, error) { called = true; return true, nil })
	res, err := Check(context.Background(), "sk-"+strings.Repeat("a", 45), v, 0)
	require.NoError(t, err)
	assert.False(t, res.Valid())
	assert.Equal(t, Verdict("low_entropy"), res.Verdict)
	assert.False(t, called)
}

func TestCheck_TransportError(t *testing.T) {
	boom := errors.New("dial tcp: timeout")
	v := ValidatorFunc(func(context.Context, string) (bool, error) { return false, boom })
	_, err := Check(context.Background(), liveKey, v, 0)
	assert.ErrorIs(t, err, boom)
}

func TestHelpers(t *testing.T) {
	k, ok := ExtractFirst("x = '" + liveKey + "'")
	require.True(t, ok)
	assert.Equal(t, liveKey, k)
	assert.Zero(t, Entropy("aaaa"))
	assert.Greater(t, Entropy(liveKey), DefaultEntropyThreshold)
	assert.Equal(t, "sk-proj…Cwy-", Mask(liveKey))
}

func TestMarshalFindings_MasksUnlessRevealed(t *testing.T) {
	in := []Finding{{Key: liveKey, URL: "https://x"}}

	var buf bytes.Buffer
	require.NoError(t, MarshalFindings(&buf, in, false))
	got, err := UnmarshalFindings(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Mask(liveKey), got[0].Key)
	assert.Equal(t, "https://x", got[0].URL)
	assert.Equal(t, liveKey, in[0].Key)

	buf.Reset()
	require.NoError(t, MarshalFindings(&buf, in, true))
	got, err = UnmarshalFindings(&buf)
	require.NoError(t, err)
	assert.Equal(t, liveKey, got[0].Key)
}
