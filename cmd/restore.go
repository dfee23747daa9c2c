package cmd

import (
	"github.com/0glabs/0g-snapshot/common/fsys"
	"github.com/0glabs/0g-snapshot/snapshot"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	restoreArgs struct {
		taskArgument

		subpath string
	}

	restoreCmd = &cobra.Command{
		Use:   "restore [document] <destination>",
		Short: "Restore a snapshot document at a new destination path",
		Long: `Restore a snapshot document at a new destination path, which must not exist yet.
The document is read from standard input when omitted or "-", and its format is detected automatically.`,
		Args: cobra.RangeArgs(1, 2),
		Run:  restore,
	}
)

func init() {
	restoreCmd.Flags().StringVar(&restoreArgs.subpath, "subpath", "", "Restore only the entry at this path relative to the document root")
	bindTaskFlags(restoreCmd, &restoreArgs.taskArgument)

	rootCmd.AddCommand(restoreCmd)
}

func restore(_ *cobra.Command, args []string) {
	ctx, cancel := restoreArgs.context()
	defer cancel()

	document, destination := stdio, args[len(args)-1]
	if len(args) == 2 {
		document = args[0]
	}

	snap, err := loadSnapshot(document)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load document")
	}

	root := snap.Root
	if restoreArgs.subpath != "" {
		if root, err = snapshot.Locate(root, restoreArgs.subpath); err != nil {
			logrus.WithError(err).WithField("subpath", restoreArgs.subpath).Fatal("Failed to locate entry in document")
		}
	}

	decoder := snapshot.NewDecoder(fsys.NewOsFs(), snapshot.DecoderOption{
		LogOption:      logOption(),
		Routines:       restoreArgs.routines,
		ReportInterval: restoreArgs.reportInterval,
	})

	if err = decoder.Decode(ctx, root, destination); err != nil {
		logrus.WithError(err).Fatal("Failed to restore file system tree")
	}

	logrus.WithField("destination", destination).Debug("Succeeded to restore file system tree")
}
