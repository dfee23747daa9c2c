package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel         string
	logColorDisabled bool
	verbose          bool

	rootCmd = &cobra.Command{
		Use:           "0g-snapshot",
		Short:         "Capture file system trees into JSON snapshot documents and restore them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			initLog()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logrus.InfoLevel.String(), "Log level")
	rootCmd.PersistentFlags().BoolVar(&logColorDisabled, "log-color-disabled", false, "Force to disable colorful logs")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every captured or restored entry, same as --log-level debug")
}

func initLog() {
	formatter := logrus.TextFormatter{
		FullTimestamp: true,
	}

	if logColorDisabled {
		formatter.DisableColors = true
	} else {
		formatter.ForceColors = true
	}

	logrus.SetFormatter(&formatter)

	// standard output is reserved for documents
	logrus.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.WithError(err).WithField("level", logLevel).Fatal("Failed to parse log level")
	}

	if verbose {
		level = max(level, logrus.DebugLevel)
	}

	logrus.SetLevel(level)
}

// Execute is the command line entrypoint.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
