package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/0glabs/0g-snapshot/gateway"
	"github.com/spf13/cobra"
)

var (
	serveArgs gateway.Config

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the local snapshot gateway service",
		Args:  cobra.NoArgs,
		Run:   serve,
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveArgs.Endpoint, "endpoint", "127.0.0.1:6789", "Endpoint to serve the gateway API")
	serveCmd.Flags().StringVar(&serveArgs.Repo, "repo", ".", "Base directory of relative paths in requests")
	serveCmd.Flags().IntVar(&serveArgs.Routines, "routines", 1, "Number of files read or written concurrently within a directory")
	serveCmd.Flags().IntVar(&serveArgs.CacheSize, "cache-size", 4096, "Number of text classification results to cache")
	serveCmd.Flags().StringSliceVar(&serveArgs.OriginsAllowed, "origins", nil, "Origins allowed by CORS, all by default")

	rootCmd.AddCommand(serveCmd)
}

func serve(*cobra.Command, []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway.MustServeLocal(ctx, serveArgs)
}
