package cmd

import (
	"github.com/0glabs/0g-snapshot/common/detect"
	"github.com/0glabs/0g-snapshot/common/fsys"
	"github.com/0glabs/0g-snapshot/snapshot"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	captureArgs struct {
		taskArgument

		format           string
		output           string
		indent           bool
		pruneUnsupported bool
		cacheSize        int
	}

	captureCmd = &cobra.Command{
		Use:   "capture <source>",
		Short: "Capture a file or directory tree into a snapshot document",
		Args:  cobra.ExactArgs(1),
		Run:   capture,
	}
)

func init() {
	captureCmd.Flags().StringVar(&captureArgs.format, "format", string(snapshot.FormatJSON), "Document format, one of json, packed, unixfs")
	captureCmd.Flags().StringVarP(&captureArgs.output, "output", "o", stdio, "Document file to write, standard output by default")
	captureCmd.Flags().BoolVar(&captureArgs.indent, "indent", false, "Indent the json document")
	captureCmd.Flags().BoolVar(&captureArgs.pruneUnsupported, "prune-unsupported", false, "Drop entries of unsupported types from the document")
	captureCmd.Flags().IntVar(&captureArgs.cacheSize, "cache-size", 4096, "Number of text classification results to cache")
	bindTaskFlags(captureCmd, &captureArgs.taskArgument)

	rootCmd.AddCommand(captureCmd)
}

func capture(_ *cobra.Command, args []string) {
	ctx, cancel := captureArgs.context()
	defer cancel()

	format, err := snapshot.ParseFormat(captureArgs.format)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid document format")
	}

	isText, err := detect.Cached(detect.IsText, captureArgs.cacheSize)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize text classifier")
	}

	encoder := snapshot.NewEncoder(fsys.NewOsFs(), snapshot.EncoderOption{
		LogOption:        logOption(),
		IsText:           isText,
		Routines:         captureArgs.routines,
		PruneUnsupported: captureArgs.pruneUnsupported,
		ReportInterval:   captureArgs.reportInterval,
	})

	snap, err := encoder.Capture(ctx, args[0])
	if err != nil {
		logrus.WithError(err).Fatal("Failed to capture file system tree")
	}

	data, err := snapshot.Marshal(snap, format, captureArgs.indent)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to serialize document")
	}

	if err = writeOutput(captureArgs.output, data); err != nil {
		logrus.WithError(err).Fatal("Failed to write document")
	}

	logrus.WithFields(logrus.Fields{
		"source": snap.SourcePath,
		"format": format,
		"size":   len(data),
	}).Debug("Succeeded to capture file system tree")
}
