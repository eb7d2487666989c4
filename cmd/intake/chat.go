package main

import (
	"fmt"
	"os"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run an intake conversation in the terminal",
	Long: `Starts a conversation for a service and reads answers from stdin.
When stdin is not a terminal (piped input) the banner and prompt are suppressed.
Type 'exit' or 'quit' to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		service, _ := cmd.Flags().GetString("service")
		session, _ := cmd.Flags().GetString("session")
		if service == "" {
			return fmt.Errorf("--service is required")
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.engine.Graph(service); err != nil {
			return err
		}

		interactive := term.IsTerminal(int(os.Stdin.Fd()))
		r := &intake.Runner{
			Input:     os.Stdin,
			Output:    cmd.OutOrStdout(),
			Service:   service,
			SessionID: session,
			Headless:  !interactive,
		}
		if term.IsTerminal(int(os.Stdout.Fd())) {
			width, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err != nil {
				width = 0
			}
			r.Renderer = tui.NewRenderer(width)
		}
		if interactive {
			tui.PrintBanner(cmd.OutOrStdout(), service)
		}

		_, err = r.Run(cmd.Context(), a.engine)
		return err
	},
}

func init() {
	chatCmd.Flags().StringP("service", "s", "", "Service to run the intake for, e.g. \"Website Development\"")
	chatCmd.Flags().String("session", "", "Shared context token, so answers carry over between chats")
	rootCmd.AddCommand(chatCmd)
}
