package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/0glabs/0g-snapshot/snapshot"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <document>",
	Short: "List the entries of a snapshot document",
	Args:  cobra.ExactArgs(1),
	Run:   list,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func list(_ *cobra.Command, args []string) {
	snap, err := loadSnapshot(args[0])
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load document")
	}

	if err = printEntries(os.Stdout, snap.Root); err != nil {
		logrus.WithError(err).Fatal("Failed to list document")
	}
}

// printEntries writes one line per node with its kind, size and relative path.
func printEntries(w io.Writer, root snapshot.Node) error {
	return snapshot.Traverse(root, func(node snapshot.Node, relpath string) error {
		var kind, size string

		switch n := node.(type) {
		case *snapshot.File:
			kind, size = string(n.Encoding), common.StorageSize(len(n.Data)).String()
		case *snapshot.Directory:
			kind, size = "dir", fmt.Sprintf("%d entries", len(n.Children))
		case *snapshot.Symlink:
			kind, size = "symlink", "-> "+n.Target
		case *snapshot.Unsupported:
			kind, size = n.Type.String(), "-"
		default:
			return fmt.Errorf("unknown node type %T", node)
		}

		_, err := fmt.Fprintf(w, "%-8s %-14s %s\n", kind, size, relpath)
		return err
	})
}
