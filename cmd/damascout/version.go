package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/damascout"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of damascout",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "damascout version %s\n", strings.TrimSpace(damascout.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
