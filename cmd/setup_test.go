package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectSourceFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a.py", "b.c", "notes.md", "__pycache__/c.py", "src/d.py"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))
	}

	files, err := collectSourceFiles(dir)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.py"),
		filepath.Join(dir, "b.c"),
		filepath.Join(dir, "src", "d.py"),
	}, files)
}

func TestCollectSourceFiles_ExplicitFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snippet.txt")
	require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0o644))

	files, err := collectSourceFiles(path)
	require.NoError(t, err)

	assert.Equal(t, []string{path}, files)
}
