package main

import (
	"context"
	"errors"

	"github.com/aretw0/damascout/internal/cli"
	"github.com/spf13/cobra"
)

var pipeCmd = &cobra.Command{
	Use:   "pipe",
	Short: "Route reports read from stdin",
	Long: `Reads one report per line from stdin and routes it. Lines are either JSON
objects {"kind","command","message"} or kind<TAB>command<TAB>message with
\n escapes. Results without a sink go to stdout, errors to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := cli.NotifyContext(context.Background())
		defer stop()

		err = cli.Pipe(ctx, cli.PipeOptions{
			Config: cfg,
			In:     cmd.InOrStdin(),
			Out:    cmd.OutOrStdout(),
			ErrOut: cmd.ErrOrStderr(),
		})
		// Ctrl-C ends a pipe session normally.
		if errors.Is(err, context.Canceled) && cli.Interrupted(ctx) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(pipeCmd)

	pipeCmd.Flags().String("sink", "", "Output sink: none, memory, js or redis")
	pipeCmd.Flags().String("script", "", "Host script defining the output object (js sink)")
	pipeCmd.Flags().String("sink-name", "", "Global name of the output object (js sink)")
	pipeCmd.Flags().String("redis-addr", "", "Redis address (redis sink)")
}
