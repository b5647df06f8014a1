package main

import (
	"context"

	"github.com/aretw0/damascout/internal/cli"
	"github.com/spf13/cobra"
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print reports stored by the redis sink",
	Long: `Prints the newest reports stored by the redis sink as JSON lines, oldest
first. With --follow, keeps printing reports as they are published. The
output can be piped into "damascout pipe".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt64("lines")
		follow, _ := cmd.Flags().GetBool("follow")

		ctx, stop := cli.NotifyContext(context.Background())
		defer stop()

		return cli.Tail(ctx, cli.TailOptions{
			Config: cfg,
			Out:    cmd.OutOrStdout(),
			ErrOut: cmd.ErrOrStderr(),
			Limit:  limit,
			Follow: follow,
		})
	},
}

func init() {
	rootCmd.AddCommand(tailCmd)

	tailCmd.Flags().Int64P("lines", "n", cli.DefaultTailLimit, "Number of stored reports to print")
	tailCmd.Flags().BoolP("follow", "f", false, "Keep printing new reports")
	tailCmd.Flags().String("redis-addr", "", "Redis address")
}
