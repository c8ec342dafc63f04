package scanutil

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/Cyclone1070/rofs/internal/tool/errutil"
	"github.com/Cyclone1070/rofs/internal/tool/service/fs"
	"github.com/Cyclone1070/rofs/internal/tool/service/path"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLister(t *testing.T, build func(root string)) (*Lister, string) {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "root")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "secret"), []byte("s"), 0o644))
	build(root)

	scope, err := path.NewScope(root)
	require.NoError(t, err)
	return &Lister{Scope: scope, FS: fs.NewOSFileSystem(), Report: &Report{}}, scope.Root()
}

func names(children []Child) []string {
	out := make([]string, 0, len(children))
	for _, c := range children {
		out = append(out, c.Name)
	}
	return out
}

func TestList_DirsFirstAndHidden(t *testing.T) {
	l, root := newLister(t, func(root string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), nil, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), nil, 0o644))
		require.NoError(t, os.Mkdir(filepath.Join(root, "z"), 0o755))
		require.NoError(t, os.Mkdir(filepath.Join(root, "b"), 0o755))
	})

	children, err := l.List(root, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "z", "a.txt"}, names(children))
	assert.Equal(t, "b", children[0].Entry.Path)
	assert.Equal(t, KindDir, children[0].Entry.Kind)

	l.IncludeHidden = true
	children, err = l.List(root, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "z", ".env", "a.txt"}, names(children))
}

func TestList_Symlinks(t *testing.T) {
	build := func(root string) {
		require.NoError(t, os.Mkdir(filepath.Join(root, "d"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "d", "f"), []byte("abc"), 0o644))
		require.NoError(t, os.Symlink("d", filepath.Join(root, "link")))
		require.NoError(t, os.Symlink("../secret", filepath.Join(root, "escape")))
		require.NoError(t, os.Symlink("nowhere", filepath.Join(root, "dangling")))
	}

	t.Run("unfollowed", func(t *testing.T) {
		l, root := newLister(t, build)
		children, err := l.List(root, root)
		require.NoError(t, err)
		assert.Equal(t, []string{"d", "dangling", "link"}, names(children))
		assert.Equal(t, KindSymlink, children[2].Entry.Kind)
		assert.False(t, children[2].IsDir, "unfollowed links are not descended")

		oos := l.Report.Skipped(errutil.KindOutOfScope)
		require.Len(t, oos, 1)
		assert.Equal(t, "escape", oos[0].Path)
	})

	t.Run("followed", func(t *testing.T) {
		l, root := newLister(t, build)
		l.FollowSymlinks = true
		children, err := l.List(root, root)
		require.NoError(t, err)

		assert.Equal(t, []string{"d", "link", "dangling"}, names(children))
		assert.True(t, children[1].IsDir)
		assert.Equal(t, "link", children[1].Entry.Path)
		assert.Equal(t, filepath.Join(root, "d"), children[1].Canonical)
		assert.Equal(t, KindSymlink, children[2].Entry.Kind)

		oos := l.Report.Skipped(errutil.KindOutOfScope)
		require.Len(t, oos, 1)
		assert.Equal(t, "escape", oos[0].Path)
	})
}

func TestList_Gitignore(t *testing.T) {
	l, root := newLister(t, func(root string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\nbuild/\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "app.log"), nil, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), nil, 0o644))
		require.NoError(t, os.Mkdir(filepath.Join(root, "build"), 0o755))
		require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "build"), 0o755))
	})
	l.Ignore = LoadIgnore(l.Scope, fs.NewOSFileSystem(), root, l.Report)

	children, err := l.List(root, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"sub", "main.go"}, names(children))

	sub := filepath.Join(root, "sub")
	children, err = l.List(sub, sub)
	require.NoError(t, err)
	assert.Empty(t, children, "dir-only patterns apply at any depth")
}

func TestLoadIgnore_AncestorChain(t *testing.T) {
	l, root := newLister(t, func(root string) {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.tmp\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "a", ".gitignore"), []byte("secret.txt\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", "x.tmp"), nil, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", "secret.txt"), nil, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", "keep.go"), nil, 0o644))
	})
	dir := filepath.Join(root, "a", "b")
	l.Ignore = LoadIgnore(l.Scope, fs.NewOSFileSystem(), dir, l.Report)

	children, err := l.List(dir, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.go"}, names(children))
	assert.Empty(t, l.Report.Warnings)
}

func TestList_MissingDir(t *testing.T) {
	l, root := newLister(t, func(string) {})
	_, err := l.List(filepath.Join(root, "gone"), filepath.Join(root, "gone"))
	assert.True(t, os.IsNotExist(err))
}

func TestList_Blocked(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vault"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "vault", "key"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), nil, 0o644))
	require.NoError(t, os.Symlink("vault/key", filepath.Join(root, "shortcut")))

	scope, err := path.NewScope(root, path.WithBlocked("vault"))
	require.NoError(t, err)
	l := &Lister{Scope: scope, FS: fs.NewOSFileSystem(), Report: &Report{}}

	children, err := l.List(scope.Root(), scope.Root())
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, names(children))
	assert.Empty(t, l.Report.Warnings, "blocked entries are filtered silently")
}

func TestLoadIgnore_FIFONotOpened(t *testing.T) {
	l, root := newLister(t, func(root string) {
		require.NoError(t, syscall.Mkfifo(filepath.Join(root, ".gitignore"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), nil, 0o644))
	})

	done := make(chan []Child)
	go func() {
		l.Ignore = LoadIgnore(l.Scope, fs.NewOSFileSystem(), root, l.Report)
		children, _ := l.List(root, root)
		done <- children
	}()

	select {
	case children := <-done:
		assert.Equal(t, []string{"a.txt"}, names(children))
		warnings := l.Report.Skipped(errutil.KindIO)
		require.Len(t, warnings, 1)
		assert.Equal(t, ".gitignore", warnings[0].Path)
	case <-time.After(5 * time.Second):
		t.Fatal("listing blocked on a FIFO named .gitignore")
	}
}

func TestLoadIgnore_SymlinkedOutsideRoot(t *testing.T) {
	l, root := newLister(t, func(root string) {
		outside := filepath.Join(filepath.Dir(root), "ignore-rules")
		require.NoError(t, os.WriteFile(outside, []byte("*.txt\n"), 0o644))
		require.NoError(t, os.Symlink(outside, filepath.Join(root, ".gitignore")))
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), nil, 0o644))
	})
	l.Ignore = LoadIgnore(l.Scope, fs.NewOSFileSystem(), root, l.Report)

	children, err := l.List(root, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, names(children), "rules from outside the root are not applied")

	oos := l.Report.Skipped(errutil.KindOutOfScope)
	require.Len(t, oos, 1)
	assert.Equal(t, ".gitignore", oos[0].Path)
}

func TestLoadIgnore_SymlinkedInsideRoot(t *testing.T) {
	l, root := newLister(t, func(root string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "rules"), []byte("*.txt\n"), 0o644))
		require.NoError(t, os.Symlink("rules", filepath.Join(root, ".gitignore")))
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), nil, 0o644))
	})
	l.Ignore = LoadIgnore(l.Scope, fs.NewOSFileSystem(), root, l.Report)

	children, err := l.List(root, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"rules"}, names(children))
	assert.Empty(t, l.Report.Warnings)
}
