package main

import (
	"fmt"
	"os"

	"github.com/aretw0/damascout/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "damascout",
	Short: "damascout routes evaluator output to a host sink or the console",
	Long: `damascout routes error and result reports produced by an evaluator to an
output sink supplied by the host, falling back to the console when no sink
is available.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default ./"+config.DefaultPath+" if present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().String("policy", "", "Error policy when a sink is present: forward or console")
	rootCmd.PersistentFlags().String("color", "", "Colour the console fallback: auto, always or never")
}

// loadConfig reads the config file and environment, then applies flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Read(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("policy") {
		cfg.Policy, _ = flags.GetString("policy")
	}
	if flags.Changed("color") {
		cfg.Color, _ = flags.GetString("color")
	}
	if flags.Lookup("sink") != nil && flags.Changed("sink") {
		cfg.Sink, _ = flags.GetString("sink")
	}
	if flags.Lookup("script") != nil && flags.Changed("script") {
		cfg.Script, _ = flags.GetString("script")
	}
	if flags.Lookup("sink-name") != nil && flags.Changed("sink-name") {
		cfg.SinkName, _ = flags.GetString("sink-name")
	}
	if flags.Lookup("redis-addr") != nil && flags.Changed("redis-addr") {
		cfg.Redis.Addr, _ = flags.GetString("redis-addr")
	}
	if flags.Lookup("port") != nil && flags.Changed("port") {
		cfg.HTTP.Port, _ = flags.GetString("port")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
