package scanutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/rofs/internal/tool/errutil"
	"github.com/Cyclone1070/rofs/internal/tool/service/git"
	"github.com/Cyclone1070/rofs/internal/tool/service/path"
)

// fileSystem defines the filesystem operations needed to list directories.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ListDir(path string) ([]os.FileInfo, error)
}

// Child is one listed directory entry.
type Child struct {
	Entry     PathEntry
	Name      string
	Canonical string // Symlink-free path, used for cycle detection
	IsDir     bool
}

// Lister reads directories for a single traversal, applying the hidden-file,
// symlink and gitignore rules every tool shares.
type Lister struct {
	Scope          *path.Scope
	FS             fileSystem
	Ignore         git.Matcher
	IncludeHidden  bool
	FollowSymlinks bool
	Report         *Report
}

// List returns the children of dir, directories first and then everything
// else, each group alphabetical. canonical is dir with symlinks resolved.
// Entries that cannot be followed are recorded on the report and left out.
func (l *Lister) List(dir, canonical string) ([]Child, error) {
	ignore := l.Ignore
	if ignore == nil {
		ignore = git.NoOpMatcher{}
	}
	rel := l.Scope.Rel(dir)
	if err := ignore.Load(rel); err != nil {
		l.Report.WarnErr(ignorePath(rel), err)
	}

	infos, err := l.FS.ListDir(dir)
	if err != nil {
		return nil, err
	}

	var dirs, others []Child
	for _, info := range infos {
		name := info.Name()
		if !l.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}

		abs := filepath.Join(dir, name)
		if l.Scope.Blocked(abs) {
			continue
		}
		c := Child{
			Entry: PathEntry{
				Path:    l.Scope.Rel(abs),
				AbsPath: abs,
				Kind:    KindOf(info),
				Size:    info.Size(),
			},
			Name:      name,
			Canonical: filepath.Join(canonical, name),
			IsDir:     info.IsDir(),
		}

		if c.Entry.Kind == KindSymlink && !l.follow(&c) {
			continue
		}
		if ignore.ShouldIgnore(c.Entry.Path, c.IsDir) {
			continue
		}

		if c.IsDir {
			dirs = append(dirs, c)
		} else {
			others = append(others, c)
		}
	}
	return append(dirs, others...), nil
}

// follow resolves a symlink child through the scope and returns false when the
// child must be left out. Links that escape the root, loop or point at a blocked
// path are dropped whether or not they are followed. A followed link takes on
// the kind, size and canonical path of its target; an unfollowed one stays a
// symlink entry.
func (l *Lister) follow(c *Child) bool {
	target, err := l.Scope.Resolve(c.Entry.AbsPath)
	if err != nil {
		var (
			loop    *path.SymlinkLoopError
			blocked *path.BlockedError
		)
		switch {
		case errors.As(err, &blocked):
			return false
		case errors.As(err, &loop):
			l.Report.Warn(c.Entry.Path, errutil.KindCycle, err.Error())
			return false
		case errutil.KindOf(err) == errutil.KindNotFound:
			// Dangling links are kept as the link itself.
			return true
		}
		l.Report.WarnErr(c.Entry.Path, err)
		return false
	}
	if !l.FollowSymlinks {
		return true
	}

	info, err := l.FS.Stat(target)
	if err != nil {
		l.Report.WarnErr(c.Entry.Path, err)
		return false
	}
	c.Entry.Kind = KindOf(info)
	c.Entry.Size = info.Size()
	c.Canonical = target
	c.IsDir = info.IsDir()
	return true
}

// ignoreFileSystem defines the filesystem operations needed to read .gitignore files.
type ignoreFileSystem interface {
	Stat(path string) (os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// LoadIgnore builds a gitignore matcher for a traversal starting at dir and
// loads every .gitignore between the scope root and dir. A file that cannot be
// loaded is recorded on report and contributes no patterns.
func LoadIgnore(scope *path.Scope, fs ignoreFileSystem, dir string, report *Report) git.Matcher {
	im := git.NewIgnoreMatcher(scope.Root(), fs, scope)
	if err := im.Load(""); err != nil {
		report.WarnErr(ignorePath(""), err)
	}

	rel := scope.Rel(dir)
	if rel == "" {
		return im
	}
	cur := ""
	for _, seg := range strings.Split(rel, "/") {
		if cur == "" {
			cur = seg
		} else {
			cur += "/" + seg
		}
		if err := im.Load(cur); err != nil {
			report.WarnErr(ignorePath(cur), err)
		}
	}
	return im
}

func ignorePath(relDir string) string {
	if relDir == "" {
		return ".gitignore"
	}
	return relDir + "/.gitignore"
}
