package checksum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xlsx")
	b := filepath.Join(dir, "b.xlsx")
	require.NoError(t, os.WriteFile(a, []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("beta"), 0o644))

	base := Fingerprint([]string{a, b})
	assert.NotEmpty(t, base)

	t.Run("order independent", func(t *testing.T) {
		assert.Equal(t, base, Fingerprint([]string{b, a}))
	})

	t.Run("content change moves the digest", func(t *testing.T) {
		require.NoError(t, os.WriteFile(a, []byte("alpha2"), 0o644))
		assert.NotEqual(t, base, Fingerprint([]string{a, b}))
	})

	t.Run("missing file changes the digest instead of failing", func(t *testing.T) {
		require.NoError(t, os.Remove(b))
		got := Fingerprint([]string{a, b})
		assert.NotEmpty(t, got)
		assert.NotEqual(t, base, got)
	})
}

func TestMatcherChanged(t *testing.T) {
	m := NewMatcher()
	assert.Equal(t, "", m.Current())

	assert.True(t, m.Changed("fp1"), "first fingerprint is always a change")
	assert.False(t, m.Changed("fp1"))
	assert.True(t, m.Changed("fp2"))
	assert.Equal(t, "fp2", m.Current())
	assert.False(t, m.Changed("fp2"))
}
