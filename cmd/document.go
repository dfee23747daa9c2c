package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/0glabs/0g-snapshot/common"
	"github.com/0glabs/0g-snapshot/snapshot"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const stdio = "-"

// taskArgument holds the flags shared by commands that walk a file system tree.
type taskArgument struct {
	routines       int
	reportInterval time.Duration
	timeout        time.Duration
}

func bindTaskFlags(cmd *cobra.Command, args *taskArgument) {
	cmd.Flags().IntVar(&args.routines, "routines", 1, "Number of files read or written concurrently within a directory")
	cmd.Flags().DurationVar(&args.reportInterval, "report-interval", 10*time.Second, "Interval to report progress, 0 to disable")
	cmd.Flags().DurationVar(&args.timeout, "timeout", 0, "cli task timeout, 0 for no timeout")
}

func (args *taskArgument) context() (context.Context, context.CancelFunc) {
	if args.timeout > 0 {
		return context.WithTimeout(context.Background(), args.timeout)
	}

	return context.WithCancel(context.Background())
}

// logOption hands the command line logger over to the snapshot components.
func logOption() common.LogOption {
	return common.LogOption{Logger: logrus.StandardLogger()}
}

// loadSnapshot reads a document of any format from a file, or from standard input for "-".
func loadSnapshot(path string) (*snapshot.Snapshot, error) {
	var (
		data []byte
		err  error
	)

	if path == stdio {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, errors.WithMessage(err, "failed to read document")
	}

	snap, err := snapshot.Unmarshal(data)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"format":     snapshot.DetectFormat(data),
		"sourcePath": snap.SourcePath,
	}).Debug("Succeeded to load document")

	return snap, nil
}

// writeOutput writes data to a new file, or to standard output for "-".
func writeOutput(path string, data []byte) error {
	if path == stdio {
		_, err := os.Stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, 0644)
}
