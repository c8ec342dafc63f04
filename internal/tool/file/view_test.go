package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/rofs/internal/tool/errutil"
	"github.com/Cyclone1070/rofs/internal/tool/service/fs"
	"github.com/Cyclone1070/rofs/internal/tool/service/path"
)

func writeFile(t *testing.T, root, rel, data string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(data), 0o644))
}

func newViewer(t *testing.T, root string, opts ...path.Option) *Viewer {
	t.Helper()
	scope, err := path.NewScope(root, opts...)
	require.NoError(t, err)
	return NewViewer(scope, fs.NewOSFileSystem())
}

func numbered(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	return b.String()
}

func TestView_Window(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.txt", numbered(10))
	v := newViewer(t, root)

	tests := []struct {
		name      string
		offset    int
		count     int
		want      []string
		more      bool
		firstLine int
	}{
		{name: "head", offset: 0, count: 3, want: []string{"line 1", "line 2", "line 3"}, more: true, firstLine: 1},
		{name: "middle", offset: 4, count: 2, want: []string{"line 5", "line 6"}, more: true, firstLine: 5},
		{name: "tail exactly", offset: 8, count: 2, want: []string{"line 9", "line 10"}, firstLine: 9},
		{name: "window past end", offset: 8, count: 50, want: []string{"line 9", "line 10"}, firstLine: 9},
		{name: "offset past end", offset: 100, count: 5, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.View(context.Background(), "src/a.txt", Options{LineOffset: tt.offset, LineCount: tt.count})
			require.NoError(t, err)

			assert.Equal(t, tt.want, res.Lines)
			assert.Equal(t, tt.more, res.More)
			assert.Equal(t, tt.firstLine, res.FirstLine())
			assert.Equal(t, "src/a.txt", res.Path)
		})
	}
}

func TestView_LineEndingsAndTruncation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "crlf.txt", "short\r\n"+strings.Repeat("x", 40)+"\r\nlast")
	v := newViewer(t, root)

	res, err := v.View(context.Background(), "crlf.txt", Options{LineCount: 10, MaxLineLength: 10})
	require.NoError(t, err)

	require.Len(t, res.Lines, 3)
	assert.Equal(t, "short", res.Lines[0])
	assert.Equal(t, strings.Repeat("x", 10)+"...[truncated]", res.Lines[1])
	assert.Equal(t, "last", res.Lines[2])
	assert.True(t, res.Truncated)
	assert.False(t, res.More)
}

func TestView_WideEncodedText(t *testing.T) {
	root := t.TempDir()
	raw := []byte{0xFF, 0xFE}
	for _, r := range "one\ntwo\n" {
		raw = append(raw, byte(r), 0)
	}
	writeFile(t, root, "utf16.txt", string(raw))
	v := newViewer(t, root)

	res, err := v.View(context.Background(), "utf16.txt", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, res.Lines)
}

func TestView_Errors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "dir/a.txt", "a\n")
	writeFile(t, root, "bin.dat", "abc\x00def")
	writeFile(t, root, ".env", "SECRET=1\n")
	writeFile(t, root, "secrets/key.txt", "k\n")
	require.NoError(t, syscall.Mkfifo(filepath.Join(root, "pipe"), 0o644))
	outside := t.TempDir()
	writeFile(t, outside, "x.txt", "x\n")
	require.NoError(t, os.Symlink(filepath.Join(outside, "x.txt"), filepath.Join(root, "escape.txt")))
	v := newViewer(t, root, path.WithBlocked("secrets"))

	tests := []struct {
		name string
		path string
		opts Options
		kind errutil.Kind
	}{
		{name: "directory", path: "dir", opts: DefaultOptions(), kind: errutil.KindInvalidArgument},
		{name: "named pipe", path: "pipe", opts: DefaultOptions(), kind: errutil.KindInvalidArgument},
		{name: "binary", path: "bin.dat", opts: DefaultOptions(), kind: errutil.KindInvalidArgument},
		{name: "missing", path: "nope.txt", opts: DefaultOptions(), kind: errutil.KindNotFound},
		{name: "escaping path", path: "../x.txt", opts: DefaultOptions(), kind: errutil.KindOutOfScope},
		{name: "escaping symlink", path: "escape.txt", opts: DefaultOptions(), kind: errutil.KindOutOfScope},
		{name: "hidden", path: ".env", opts: DefaultOptions(), kind: errutil.KindOutOfScope},
		{name: "blocked", path: "secrets/key.txt", opts: DefaultOptions(), kind: errutil.KindOutOfScope},
		{name: "negative offset", path: "dir/a.txt", opts: Options{LineOffset: -1, LineCount: 1}, kind: errutil.KindInvalidArgument},
		{name: "zero count", path: "dir/a.txt", opts: Options{}, kind: errutil.KindInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.View(context.Background(), tt.path, tt.opts)
			require.Error(t, err)
			assert.Equal(t, tt.kind, errutil.KindOf(err))
		})
	}
}

func TestView_HiddenAllowed(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".config/app.yaml", "key: value\n")
	v := newViewer(t, root)

	opts := DefaultOptions()
	opts.IncludeHidden = true
	res, err := v.View(context.Background(), ".config/app.yaml", opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"key: value"}, res.Lines)
}

func TestView_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", numbered(5))
	v := newViewer(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := v.View(ctx, "a.txt", DefaultOptions())
	assert.Equal(t, errutil.KindCancelled, errutil.KindOf(err))
}
