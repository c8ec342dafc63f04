package fs

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDir_SortedAndUnfollowed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "c"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "c"), filepath.Join(dir, "link")))

	fs := NewOSFileSystem()
	infos, err := fs.ListDir(dir)
	require.NoError(t, err)

	var names []string
	for _, info := range infos {
		names = append(names, info.Name())
	}
	assert.Equal(t, []string{"a.txt", "b.txt", "c", "link"}, names)
	assert.NotZero(t, infos[3].Mode()&os.ModeSymlink, "link should be reported without following")
}

func TestListDir_Missing(t *testing.T) {
	fs := NewOSFileSystem()
	_, err := fs.ListDir(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, os.IsNotExist(err))
}

func TestOpen_ReadsContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	fs := NewOSFileSystem()
	rc, err := fs.Open(path)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}
