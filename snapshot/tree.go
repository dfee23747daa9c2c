package snapshot

import (
	"bytes"
	"strings"

	"github.com/0glabs/0g-snapshot/common/fsys"
	"github.com/pkg/errors"
)

// Equal compares two trees for equality of names, kinds, file contents, symbolic link targets
// and ordered directory children. Encodings and sizes are ignored.
func Equal(lhs, rhs Node) bool {
	if lhs == nil || rhs == nil {
		return lhs == rhs
	}

	if lhs.Kind() != rhs.Kind() || NameOf(lhs) != NameOf(rhs) {
		return false
	}

	switch l := lhs.(type) {
	case *File:
		return bytes.Equal(l.Data, rhs.(*File).Data)
	case *Symlink:
		return l.Target == rhs.(*Symlink).Target
	case *Unsupported:
		return l.Type == rhs.(*Unsupported).Type
	case *Directory:
		r := rhs.(*Directory)
		if len(l.Children) != len(r.Children) {
			return false
		}
		for i := range l.Children {
			if !Equal(l.Children[i], r.Children[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Search looks for a child by name in the directory.
func (dir *Directory) Search(name string) (Node, bool) {
	for _, child := range dir.Children {
		if NameOf(child) == name {
			return child, true
		}
	}

	return nil, false
}

// Locate finds a sub-node within the tree based on the given path relative to root. Empty and
// "." segments are skipped.
func Locate(root Node, path string) (Node, error) {
	node := root
	for _, part := range strings.Split(path, fsys.Separator) {
		if part == "" || part == "." {
			continue
		}

		dir, ok := node.(*Directory)
		if !ok {
			return nil, errors.Errorf("cannot locate '%s': '%s' is not a directory", part, NameOf(node))
		}

		if node, ok = dir.Search(part); !ok {
			return nil, errors.Errorf("path not found: '%s'", part)
		}
	}

	return node, nil
}

// Traverse visits the tree depth first, parents before children, and applies actionFunc to
// each node along with its path relative to the parent of root (i.e. starting with the root
// name). Traversal stops at the first error returned by actionFunc.
func Traverse(root Node, actionFunc func(node Node, relativePath string) error) error {
	return traverse(root, NameOf(root), actionFunc)
}

func traverse(node Node, relative string, actionFunc func(node Node, relativePath string) error) error {
	if err := actionFunc(node, relative); err != nil {
		return err
	}

	dir, ok := node.(*Directory)
	if !ok {
		return nil
	}

	for _, child := range dir.Children {
		if err := traverse(child, fsys.Join(relative, NameOf(child)), actionFunc); err != nil {
			return err
		}
	}

	return nil
}

// Flatten collects the nodes of the tree in traversal order along with their relative paths.
// The optional filterFunc decides whether a node is included.
func Flatten(root Node, filterFunc ...func(Node) bool) (result []Node, relpaths []string) {
	Traverse(root, func(n Node, p string) error {
		if len(filterFunc) == 0 || filterFunc[0](n) {
			result = append(result, n)
			relpaths = append(relpaths, p)
		}
		return nil
	})

	return result, relpaths
}
