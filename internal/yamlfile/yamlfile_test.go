package yamlfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func TestWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "items.yml")
	want := []item{{Name: "a", Count: 1}, {Name: "b", Count: 2}}

	require.NoError(t, Write(path, want))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "- name: a\n  count: 1\n- name: b\n  count: 2\n", string(content))

	got, err := Read[[]item](path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is removed")
}

func TestRead(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		got, err := Read[[]item](filepath.Join(dir, "missing.yml"))
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yml")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		got, err := Read[[]item](path)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.yml")
		require.NoError(t, os.WriteFile(path, []byte("- name: [unclosed"), 0o644))
		_, err := Read[[]item](path)
		assert.ErrorContains(t, err, "yaml.NewDecoder().Decode()")
	})
}
