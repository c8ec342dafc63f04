package glance

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/dustin/go-humanize"

	"github.com/Cyclone1070/rofs/internal/tool/scanutil"
)

// Text renders the tree as indented text.
func (r *Result) Text() string {
	return Render(r.Root)
}

// Render draws n and its descendants as a text tree, one entry per line.
func Render(n *Node) string {
	return build(n).String()
}

func build(n *Node) *tree.Tree {
	t := tree.Root(label(n))
	for _, c := range n.Children {
		if len(c.Children) > 0 || c.Omitted > 0 {
			t.Child(build(c))
		} else {
			t.Child(label(c))
		}
	}
	if n.Omitted > 0 {
		t.Child(fmt.Sprintf("... %d more", n.Omitted))
	}
	return t
}

func label(n *Node) string {
	s := n.Name
	switch n.Kind {
	case scanutil.KindDir:
		s += "/"
	case scanutil.KindSymlink:
		s += "@"
	}
	if n.Size != nil {
		s += " (" + humanize.Bytes(uint64(*n.Size)) + ")"
	}

	switch {
	case n.Cycle:
		s += " [cycle]"
	case n.Unreadable:
		s += " [unreadable]"
	case n.DepthLimited:
		s += " [...]"
	}
	return s
}
