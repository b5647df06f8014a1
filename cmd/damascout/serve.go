package main

import (
	"context"

	"github.com/aretw0/damascout/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the report HTTP server",
	Long: `Accepts reports on POST /reports and streams them to GET /events
subscribers (SSE). Reports fall back to the console while nobody listens.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := cli.NotifyContext(context.Background())
		defer stop()

		return cli.Serve(ctx, cli.ServeOptions{
			Config: cfg,
			Out:    cmd.OutOrStdout(),
			ErrOut: cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default 8080)")
}
