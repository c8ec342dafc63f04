package glance

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/rofs/internal/tool/errutil"
	"github.com/Cyclone1070/rofs/internal/tool/scanutil"
	"github.com/Cyclone1070/rofs/internal/tool/service/fs"
	"github.com/Cyclone1070/rofs/internal/tool/service/path"
)

func writeFile(t *testing.T, root, rel, data string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(data), 0o644))
}

func newGlancer(t *testing.T, root string) *Glancer {
	t.Helper()
	scope, err := path.NewScope(root)
	require.NoError(t, err)
	return NewGlancer(scope, fs.NewOSFileSystem())
}

func size(n int64) *int64 { return &n }

func TestGlance_Tree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "z.txt", "zz")
	writeFile(t, root, "b/one.go", "1")
	writeFile(t, root, "a/two.go", "22")
	writeFile(t, root, "a/sub/three.go", "333")
	writeFile(t, root, ".git/config", "x")
	g := newGlancer(t, root)

	res, err := g.Glance(context.Background(), "", DefaultOptions())
	require.NoError(t, err)

	want := &Node{
		Name: res.Root.Name,
		Path: "",
		Kind: scanutil.KindDir,
		Children: []*Node{
			{Name: "a", Path: "a", Kind: scanutil.KindDir, Children: []*Node{
				{Name: "sub", Path: "a/sub", Kind: scanutil.KindDir, Children: []*Node{
					{Name: "three.go", Path: "a/sub/three.go", Kind: scanutil.KindFile, Size: size(3)},
				}},
				{Name: "two.go", Path: "a/two.go", Kind: scanutil.KindFile, Size: size(2)},
			}},
			{Name: "b", Path: "b", Kind: scanutil.KindDir, Children: []*Node{
				{Name: "one.go", Path: "b/one.go", Kind: scanutil.KindFile, Size: size(1)},
			}},
			{Name: "z.txt", Path: "z.txt", Kind: scanutil.KindFile, Size: size(2)},
		},
	}
	if diff := cmp.Diff(want, res.Root); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Stats{Dirs: 3, Files: 4, TotalBytes: 8}, res.Stats)
	assert.Equal(t, scanutil.StatusComplete, res.Report.Status())
}

func TestGlance_MaxDepthZero(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/b.txt", "x")
	g := newGlancer(t, root)

	opts := DefaultOptions()
	opts.MaxDepth = 0
	res, err := g.Glance(context.Background(), "", opts)
	require.NoError(t, err)

	assert.Empty(t, res.Root.Children)
	assert.True(t, res.Root.DepthLimited)
	assert.Equal(t, scanutil.StatusTruncated, res.Report.Status())
}

func TestGlance_MaxDepthOne(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/b.txt", "x")
	writeFile(t, root, "c.txt", "x")
	g := newGlancer(t, root)

	opts := DefaultOptions()
	opts.MaxDepth = 1
	res, err := g.Glance(context.Background(), "", opts)
	require.NoError(t, err)

	require.Len(t, res.Root.Children, 2)
	assert.True(t, res.Root.Children[0].DepthLimited)
	assert.Empty(t, res.Root.Children[0].Children)
}

func TestGlance_MaxEntriesPerDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "a")
	writeFile(t, root, "b.txt", "b")
	writeFile(t, root, "c.txt", "c")
	g := newGlancer(t, root)

	opts := DefaultOptions()
	opts.MaxEntriesPerDir = 1
	res, err := g.Glance(context.Background(), "", opts)
	require.NoError(t, err)

	require.Len(t, res.Root.Children, 1)
	assert.Equal(t, "a.txt", res.Root.Children[0].Name)
	assert.Equal(t, 2, res.Root.Omitted)
	assert.True(t, res.Report.Truncated)
	assert.Contains(t, res.Text(), "... 2 more")
}

func TestGlance_SymlinkCycle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/f.txt", "x")
	require.NoError(t, os.Symlink("..", filepath.Join(root, "a", "up")))
	g := newGlancer(t, root)

	opts := DefaultOptions()
	opts.FollowSymlinks = true
	res, err := g.Glance(context.Background(), "", opts)
	require.NoError(t, err)

	a := res.Root.Children[0]
	require.Len(t, a.Children, 2)
	up := a.Children[0]
	assert.Equal(t, "up", up.Name)
	assert.Equal(t, scanutil.KindDir, up.Kind)
	assert.True(t, up.Cycle)
	assert.Len(t, res.Report.Skipped(errutil.KindCycle), 1)
	assert.NotEqual(t, scanutil.StatusPartial, res.Report.Status(), "a cycle is a marker, not an error")
}

func TestGlance_SymlinkNotFollowed(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/f.txt", "x")
	require.NoError(t, os.Symlink("a", filepath.Join(root, "link")))
	g := newGlancer(t, root)

	res, err := g.Glance(context.Background(), "", DefaultOptions())
	require.NoError(t, err)

	require.Len(t, res.Root.Children, 2)
	link := res.Root.Children[1]
	assert.Equal(t, scanutil.KindSymlink, link.Kind)
	assert.Nil(t, link.Size)
	assert.Empty(t, link.Children)
}

func TestGlance_HiddenAndGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "dist/\n")
	writeFile(t, root, "dist/app.js", "x")
	writeFile(t, root, "main.go", "x")
	g := newGlancer(t, root)

	opts := DefaultOptions()
	opts.RespectGitignore = true
	res, err := g.Glance(context.Background(), "", opts)
	require.NoError(t, err)
	require.Len(t, res.Root.Children, 1)
	assert.Equal(t, "main.go", res.Root.Children[0].Name)

	opts.RespectGitignore = false
	opts.IncludeHidden = true
	res, err = g.Glance(context.Background(), "", opts)
	require.NoError(t, err)
	var names []string
	for _, c := range res.Root.Children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"dist", ".gitignore", "main.go"}, names)
}

func TestGlance_Errors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "f.txt", "x")
	g := newGlancer(t, root)

	tests := []struct {
		name string
		path string
		kind errutil.Kind
	}{
		{name: "escape", path: "../..", kind: errutil.KindOutOfScope},
		{name: "missing", path: "nope", kind: errutil.KindNotFound},
		{name: "file", path: "f.txt", kind: errutil.KindInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Glance(context.Background(), tt.path, DefaultOptions())
			assert.Equal(t, tt.kind, errutil.KindOf(err))
		})
	}
}

func TestGlance_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "a")
	g := newGlancer(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := g.Glance(ctx, "", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Root.Children)
	assert.False(t, res.Report.Complete())
}

func TestRender(t *testing.T) {
	n := &Node{Name: "proj", Kind: scanutil.KindDir, Children: []*Node{
		{Name: "src", Kind: scanutil.KindDir, Children: []*Node{
			{Name: "main.go", Kind: scanutil.KindFile, Size: size(5)},
		}},
		{Name: "deep", Kind: scanutil.KindDir, DepthLimited: true},
		{Name: "loop", Kind: scanutil.KindDir, Cycle: true},
		{Name: "link", Kind: scanutil.KindSymlink},
	}}

	text := Render(n)
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "proj/", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "src/")
	assert.Contains(t, lines[2], "main.go (5 B)")
	assert.Contains(t, lines[3], "deep/ [...]")
	assert.Contains(t, lines[4], "loop/ [cycle]")
	assert.Contains(t, lines[5], "link@")
}
