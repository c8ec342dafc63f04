package glance

import (
	"github.com/Cyclone1070/rofs/internal/tool/scanutil"
)

// Options controls a single Glance call.
type Options struct {
	MaxDepth         int // Negative means unbounded; 0 returns the root only
	IncludeHidden    bool
	MaxEntriesPerDir int // <= 0 means unbounded
	FollowSymlinks   bool
	RespectGitignore bool
}

// DefaultOptions returns unbounded options.
func DefaultOptions() Options {
	return Options{MaxDepth: -1}
}

// Node is one entry of the glance tree.
type Node struct {
	Name         string        `json:"name"`
	Path         string        `json:"path"`
	Kind         scanutil.Kind `json:"kind"`
	Size         *int64        `json:"size,omitempty"`
	Children     []*Node       `json:"children,omitempty"`
	Omitted      int           `json:"omitted,omitempty"`
	Cycle        bool          `json:"cycle,omitempty"`
	DepthLimited bool          `json:"depth_limited,omitempty"`
	Unreadable   bool          `json:"unreadable,omitempty"`
}

// Stats summarises the nodes present in a tree.
type Stats struct {
	Dirs       int   `json:"dirs"`
	Files      int   `json:"files"`
	TotalBytes int64 `json:"total_bytes"`
}

// Result is the outcome of a Glance call.
type Result struct {
	Root   *Node
	Stats  Stats
	Report *scanutil.Report
}
