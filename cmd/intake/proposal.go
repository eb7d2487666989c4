package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/intake/pkg/proposal"
	"github.com/spf13/cobra"
)

var proposalCmd = &cobra.Command{
	Use:   "proposal",
	Short: "Work with proposal documents",
}

var proposalCleanupCmd = &cobra.Command{
	Use:   "cleanup [FILE]",
	Short: "Tidy a proposal text for display",
	Long:  `Reads a proposal from FILE (or stdin) and strips separators, placeholders and missing-value lines.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read proposal: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), proposal.Cleanup(string(data)))
		return err
	},
}

func init() {
	proposalCmd.AddCommand(proposalCleanupCmd)
	rootCmd.AddCommand(proposalCmd)
}
