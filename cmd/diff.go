package cmd

import (
	"os"

	"github.com/0glabs/0g-snapshot/common/fsys"
	"github.com/0glabs/0g-snapshot/snapshot"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	diffArgs taskArgument

	diffCmd = &cobra.Command{
		Use:   "diff <document> <path>",
		Short: "Diff a snapshot document against a directory on the local file system",
		Args:  cobra.ExactArgs(2),
		Run:   diff,
	}
)

func init() {
	bindTaskFlags(diffCmd, &diffArgs)

	rootCmd.AddCommand(diffCmd)
}

func diff(_ *cobra.Command, args []string) {
	ctx, cancel := diffArgs.context()
	defer cancel()

	snap, err := loadSnapshot(args[0])
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load document")
	}

	encoder := snapshot.NewEncoder(fsys.NewOsFs(), snapshot.EncoderOption{
		LogOption:      logOption(),
		Routines:       diffArgs.routines,
		ReportInterval: diffArgs.reportInterval,
	})

	localRoot, err := encoder.Encode(ctx, args[1])
	if err != nil {
		logrus.WithError(err).Fatal("Failed to build local file tree")
	}

	diffRoot, err := snapshot.Diff(snap.Root, localRoot)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to diff directory")
	}

	// Print the diff result
	snapshot.PrettyPrint(os.Stdout, diffRoot)
}
