package snapshot

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/google/btree"
	"github.com/pkg/errors"
)

// DiffStatus represents the status of a node in the diff.
type DiffStatus string

const (
	DiffStatusAdded     DiffStatus = "added"
	DiffStatusRemoved   DiffStatus = "removed"
	DiffStatusModified  DiffStatus = "modified"
	DiffStatusUnchanged DiffStatus = "unchanged"
)

// DiffNode represents a node in the diff structure with its status.
type DiffNode struct {
	Node    Node                     // The original node
	Status  DiffStatus               // Diff status of the node
	Entries *btree.BTreeG[*DiffNode] // Directory entries ordered by name (only for directories)
}

// NewDiffNode creates a new DiffNode.
func NewDiffNode(node Node, status DiffStatus) *DiffNode {
	diffNode := &DiffNode{
		Node:   node,
		Status: status,
	}

	if node.Kind() == KindDirectory {
		diffNode.Entries = btree.NewG(2, func(a, b *DiffNode) bool {
			return NameOf(a.Node) < NameOf(b.Node)
		})
	}

	return diffNode
}

// Diff compares two directory trees and returns a DiffNode tree with the differences. Root names
// are not compared.
func Diff(current, next Node) (*DiffNode, error) {
	currentDir, ok1 := current.(*Directory)
	nextDir, ok2 := next.(*Directory)
	if !ok1 || !ok2 {
		return nil, errors.New("diff is only supported for directories")
	}

	return diff(currentDir, nextDir), nil
}

// sameEntry compares two entries, files by their content hash.
func sameEntry(lhs, rhs Node) bool {
	if l, ok := lhs.(*File); ok {
		r, ok := rhs.(*File)
		return ok && l.Hash() == r.Hash()
	}

	return Equal(lhs, rhs)
}

func diff(current, next *Directory) *DiffNode {
	root := NewDiffNode(current, DiffStatusUnchanged)

	// processes entries from the current directory
	for _, currentEntry := range current.Children {
		nextEntry, found := next.Search(NameOf(currentEntry))
		if !found {
			root.Entries.ReplaceOrInsert(NewDiffNode(currentEntry, DiffStatusRemoved))
			root.Status = DiffStatusModified
			continue
		}

		// directories are compared entry by entry, so that child order does not matter
		currentSub, ok1 := currentEntry.(*Directory)
		nextSub, ok2 := nextEntry.(*Directory)
		if ok1 && ok2 {
			subdiff := diff(currentSub, nextSub)
			if subdiff.Status != DiffStatusUnchanged {
				root.Status = DiffStatusModified
			}
			root.Entries.ReplaceOrInsert(subdiff)
			continue
		}

		if sameEntry(currentEntry, nextEntry) {
			root.Entries.ReplaceOrInsert(NewDiffNode(currentEntry, DiffStatusUnchanged))
			continue
		}

		root.Status = DiffStatusModified
		root.Entries.ReplaceOrInsert(NewDiffNode(nextEntry, DiffStatusModified))
	}

	// processes entries from the next directory that were not found in the current directory
	for _, nextEntry := range next.Children {
		if _, found := current.Search(NameOf(nextEntry)); !found {
			root.Status = DiffStatusModified
			root.Entries.ReplaceOrInsert(NewDiffNode(nextEntry, DiffStatusAdded))
		}
	}

	return root
}

var (
	addedColor    = color.New(color.FgGreen)
	removedColor  = color.New(color.FgRed)
	modifiedColor = color.New(color.FgYellow)
)

// PrettyPrint writes the diff tree to w, one entry per line, with unchanged entries omitted.
func PrettyPrint(w io.Writer, root *DiffNode) {
	fmt.Fprintf(w, "%s/\n", NameOf(root.Node))
	prettyPrint(w, root, 1)
}

func prettyPrint(w io.Writer, node *DiffNode, depth int) {
	if node.Entries == nil {
		return
	}

	indent := strings.Repeat("  ", depth)

	node.Entries.Ascend(func(entry *DiffNode) bool {
		if entry.Status == DiffStatusUnchanged {
			return true
		}

		name := NameOf(entry.Node)
		if entry.Node.Kind() == KindDirectory {
			name += "/"
		}

		switch entry.Status {
		case DiffStatusAdded:
			addedColor.Fprintf(w, "%s[+] %s\n", indent, name)
		case DiffStatusRemoved:
			removedColor.Fprintf(w, "%s[-] %s\n", indent, name)
		case DiffStatusModified:
			modifiedColor.Fprintf(w, "%s[*] %s\n", indent, name)
		}

		prettyPrint(w, entry, depth+1)
		return true
	})
}
