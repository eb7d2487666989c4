package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Intake is a conversational requirements engine",
	Long: `Intake walks a client through a per-service question graph and assembles
a proposal from the answers. Run it as an HTTP API (serve), an MCP server (mcp)
or interactively in the terminal (chat).`,
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
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional dotenv file read before the environment")
	rootCmd.PersistentFlags().String("graphs", "", "Directory of YAML graphs overriding built-ins (INTAKE_GRAPHS_DIR)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (INTAKE_LOG_LEVEL)")
}
