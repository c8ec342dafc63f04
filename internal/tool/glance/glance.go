// Package glance builds a condensed, depth-bounded tree of a directory.
package glance

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Cyclone1070/rofs/internal/tool/errutil"
	"github.com/Cyclone1070/rofs/internal/tool/scanutil"
	"github.com/Cyclone1070/rofs/internal/tool/service/git"
	"github.com/Cyclone1070/rofs/internal/tool/service/path"
)

// fileSystem defines the filesystem operations needed for glancing.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ListDir(path string) ([]os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// Glancer builds directory trees within a Scope.
type Glancer struct {
	scope *path.Scope
	fs    fileSystem
}

// NewGlancer creates a Glancer with injected dependencies.
func NewGlancer(scope *path.Scope, fs fileSystem) *Glancer {
	if scope == nil {
		panic("scope is required")
	}
	if fs == nil {
		panic("fs is required")
	}
	return &Glancer{scope: scope, fs: fs}
}

type walker struct {
	ctx       context.Context
	opts      Options
	lister    *scanutil.Lister
	report    *scanutil.Report
	stats     Stats
	ancestors map[string]bool
}

// Glance builds the tree rooted at root top-down. Within each node directories
// come before other entries, both alphabetical. On cancellation the tree built
// so far is returned with a cancelled report.
func (g *Glancer) Glance(ctx context.Context, root string, opts Options) (*Result, error) {
	rootAbs, err := g.scope.Resolve(root)
	if err != nil {
		return nil, err
	}
	info, err := g.fs.Stat(rootAbs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &errutil.InvalidArgumentError{Field: "path", Reason: "not a directory: " + root}
	}

	report := &scanutil.Report{}
	w := &walker{
		ctx:  ctx,
		opts: opts,
		lister: &scanutil.Lister{
			Scope:          g.scope,
			FS:             g.fs,
			Ignore:         git.NoOpMatcher{},
			IncludeHidden:  opts.IncludeHidden,
			FollowSymlinks: opts.FollowSymlinks,
			Report:         report,
		},
		report:    report,
		ancestors: map[string]bool{rootAbs: true},
	}
	if opts.RespectGitignore {
		w.lister.Ignore = scanutil.LoadIgnore(g.scope, g.fs, rootAbs, report)
	}

	node := &Node{
		Name: filepath.Base(rootAbs),
		Path: g.scope.Rel(rootAbs),
		Kind: scanutil.KindDir,
	}
	w.expand(node, rootAbs, rootAbs, 0)

	return &Result{Root: node, Stats: w.stats, Report: report}, nil
}

// expand fills node's children and returns false when the traversal must stop.
func (w *walker) expand(node *Node, dir, canonical string, depth int) bool {
	if w.ctx.Err() != nil {
		w.report.Cancelled = true
		return false
	}
	if w.opts.MaxDepth >= 0 && depth >= w.opts.MaxDepth {
		node.DepthLimited = true
		w.report.Truncated = true
		return true
	}

	children, err := w.lister.List(dir, canonical)
	if err != nil {
		node.Unreadable = true
		w.report.WarnErr(node.Path, err)
		return true
	}

	if limit := w.opts.MaxEntriesPerDir; limit > 0 && len(children) > limit {
		node.Omitted = len(children) - limit
		children = children[:limit]
		w.report.Truncated = true
	}

	for _, c := range children {
		if w.ctx.Err() != nil {
			w.report.Cancelled = true
			return false
		}

		child := &Node{Name: c.Name, Path: c.Entry.Path, Kind: c.Entry.Kind}
		node.Children = append(node.Children, child)

		if !c.IsDir {
			if c.Entry.Kind == scanutil.KindFile {
				size := c.Entry.Size
				child.Size = &size
				w.stats.Files++
				w.stats.TotalBytes += size
			}
			continue
		}

		w.stats.Dirs++
		if w.ancestors[c.Canonical] {
			child.Cycle = true
			w.report.Warn(c.Entry.Path, errutil.KindCycle, "directory already being visited: "+c.Canonical)
			continue
		}

		w.ancestors[c.Canonical] = true
		ok := w.expand(child, c.Entry.AbsPath, c.Canonical, depth+1)
		delete(w.ancestors, c.Canonical)
		if !ok {
			return false
		}
	}
	return true
}
